package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/tblstore/internal/core"
)

// WithRequestMetadata adds the client IP to ctx so stored uploads record it.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithClientIP(ctx, clientIP(r))
}

// clientIP returns the host part of RemoteAddr. TrustedRealIP may already
// have replaced RemoteAddr with a bare IP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
