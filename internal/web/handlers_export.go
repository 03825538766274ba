package web

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JonMunkholm/tblstore/internal/export"
	"github.com/JonMunkholm/tblstore/internal/table"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-chi/chi/v5"
)

// exportFormat describes one download format of a stored table.
type exportFormat struct {
	ext         string
	contentType string
	write       func(w io.Writer, t *table.Table, mem memory.Allocator) error
}

var (
	csvExport = exportFormat{
		ext:         ".csv",
		contentType: "text/csv; charset=utf-8",
		write: func(w io.Writer, t *table.Table, _ memory.Allocator) error {
			return export.WriteCSV(w, t)
		},
	}
	arrowExport = exportFormat{
		ext:         ".arrow",
		contentType: "application/vnd.apache.arrow.stream",
		write:       export.WriteArrow,
	}
	parquetExport = exportFormat{
		ext:         ".parquet",
		contentType: "application/vnd.apache.parquet",
		write:       export.WriteParquet,
	}
)

// handleExport returns a handler that downloads a stored table in format f.
// The file is built in memory first so a failed conversion still gets an
// error response.
func (s *Server) handleExport(f exportFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := s.service.Table(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := f.write(&buf, st.Table, s.alloc); err != nil {
			s.respondError(w, r, err)
			return
		}

		name := strings.TrimSuffix(st.Record.FileName, filepath.Ext(st.Record.FileName)) + f.ext
		w.Header().Set("Content-Type", f.contentType)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
		w.WriteHeader(http.StatusOK)
		buf.WriteTo(w)
	}
}
