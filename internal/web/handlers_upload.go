package web

import (
	"net/http"

	"github.com/JonMunkholm/tblstore/internal/core"
)

// parseResponse is the body of POST /api/parse.
type parseResponse struct {
	FileName   string    `json:"fileName"`
	SizeBytes  int64     `json:"sizeBytes"`
	DurationMs int64     `json:"durationMs"`
	Table      tableJSON `json:"table"`
}

// handleParse parses an uploaded file and returns its shape and first rows
// without storing it.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	f, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer f.Close()

	res, err := s.service.Parse(r.Context(), f.name, f, f.size)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	limit := parseIntParam(r, "limit", s.cfg.Upload.PreviewRows)
	writeJSON(w, http.StatusOK, parseResponse{
		FileName:   res.FileName,
		SizeBytes:  res.SizeBytes,
		DurationMs: res.Duration.Milliseconds(),
		Table:      newTableJSON(res.Table, 0, limit),
	})
}

// handleUpload parses and stores an uploaded file.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	res, err := s.upload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/tables/"+res.Record.ID)
	writeJSON(w, http.StatusCreated, res)
}

// handleUploadForm is the HTML form variant of handleUpload; it redirects
// to the new table's page.
func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	res, err := s.upload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	http.Redirect(w, r, "/tables/"+res.Record.ID, http.StatusSeeOther)
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) (*core.UploadResult, error) {
	f, err := s.readUpload(w, r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ctx := WithRequestMetadata(r.Context(), r)
	return s.service.Upload(ctx, f.name, f, f.size)
}
