// Package web provides HTTP handlers for the table store.
// This file contains shared utilities and helper functions used across handlers.
package web

import (
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/JonMunkholm/tblstore/internal/core"
	"github.com/JonMunkholm/tblstore/internal/logging"
	"github.com/JonMunkholm/tblstore/internal/table"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

const (
	// multipartOverhead allows for boundaries and part headers on top of
	// the file itself.
	multipartOverhead = 1 << 20

	// multipartMemory is how much of a form is held in memory before
	// spilling to temporary files.
	multipartMemory = 8 << 20
)

// parseIntParam parses a non-negative integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}

// pathParam returns a URL parameter with percent-encoding removed, so row
// keys and column names may contain slashes or spaces.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// uploadedFile is the "file" part of a multipart upload.
type uploadedFile struct {
	multipart.File
	name string
	size int64
	form *multipart.Form
}

// Close closes the file and removes any temporary files of the form.
func (u *uploadedFile) Close() error {
	err := u.File.Close()
	if rmErr := u.form.RemoveAll(); err == nil {
		err = rmErr
	}
	return err
}

// readUpload extracts the "file" part of a multipart request, bounding the
// body to the configured upload size.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*uploadedFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, core.ErrFileTooLarge
		}
		return nil, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		r.MultipartForm.RemoveAll()
		return nil, core.ErrNoFile
	}
	return &uploadedFile{
		File: file,
		name: header.Filename,
		size: header.Size,
		form: r.MultipartForm,
	}, nil
}

// render writes an HTML component with the given status.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "path", r.URL.Path, "error", err)
	}
}

// cellValue converts a cell for JSON: numbers stay numbers, except
// non-finite floats which JSON cannot carry and are sent as text.
func cellValue(c table.Cell) any {
	switch c.Kind() {
	case table.KindInt:
		return c.Int()
	case table.KindFloat:
		f := c.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return c.String()
		}
		return f
	default:
		return c.Text()
	}
}

// rowJSON is one table row in API responses.
type rowJSON struct {
	Index int    `json:"index"`
	Key   string `json:"key"`
	Cells []any  `json:"cells"`
}

// tableJSON is a parsed table in API responses; Rows holds the page
// starting at Offset.
type tableJSON struct {
	Delimiter  string               `json:"delimiter"`
	Format     string               `json:"format"`
	NumRows    int                  `json:"numRows"`
	NumColumns int                  `json:"numColumns"`
	Columns    []core.ColumnSummary `json:"columns"`
	Offset     int                  `json:"offset"`
	Rows       []rowJSON            `json:"rows"`
}

func newTableJSON(t *table.Table, offset, limit int) tableJSON {
	d := t.Dialect()
	return tableJSON{
		Delimiter:  d.DelimiterName(),
		Format:     d.Format.String(),
		NumRows:    t.NumRows(),
		NumColumns: t.NumColumns(),
		Columns:    core.Summarize(t),
		Offset:     offset,
		Rows:       rowsJSON(t, offset, limit),
	}
}

func rowsJSON(t *table.Table, offset, limit int) []rowJSON {
	n := t.NumRows()
	if offset >= n || limit == 0 {
		return []rowJSON{}
	}
	end := offset + min(limit, n)
	end = min(end, n)
	keys := t.RowKeys()
	out := make([]rowJSON, 0, end-offset)
	for r := offset; r < end; r++ {
		cells := make([]any, t.NumColumns())
		for c := range cells {
			cells[c] = cellValue(t.Data(r, c))
		}
		out = append(out, rowJSON{Index: r, Key: keys[r], Cells: cells})
	}
	return out
}
