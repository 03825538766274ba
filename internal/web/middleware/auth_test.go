package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/tblstore/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyAuth(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SecurityConfig
		headers map[string]string
		want    int
	}{
		{
			name: "disabled passes everything",
			cfg:  config.SecurityConfig{RequireAPIKey: false},
			want: http.StatusOK,
		},
		{
			name: "missing key",
			cfg:  config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}},
			want: http.StatusUnauthorized,
		},
		{
			name:    "wrong key",
			cfg:     config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}},
			headers: map[string]string{"X-API-Key": "nope"},
			want:    http.StatusForbidden,
		},
		{
			name:    "header key",
			cfg:     config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1", "k2"}},
			headers: map[string]string{"X-API-Key": "k2"},
			want:    http.StatusOK,
		},
		{
			name:    "bearer token",
			cfg:     config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}},
			headers: map[string]string{"Authorization": "Bearer k1"},
			want:    http.StatusOK,
		},
		{
			name:    "no keys configured rejects",
			cfg:     config.SecurityConfig{RequireAPIKey: true},
			headers: map[string]string{"X-API-Key": "k1"},
			want:    http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := APIKeyAuth(&tt.cfg)(okHandler())
			req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want != http.StatusOK && rec.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestIsValidAPIKey(t *testing.T) {
	keys := []string{"alpha", "beta"}
	if !isValidAPIKey("beta", keys) {
		t.Error("beta should be valid")
	}
	if isValidAPIKey("gamma", keys) {
		t.Error("gamma should be invalid")
	}
	if isValidAPIKey("", nil) {
		t.Error("empty key with no keys should be invalid")
	}
}
