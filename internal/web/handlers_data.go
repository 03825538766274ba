package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/tblstore/internal/core"
	"github.com/go-chi/chi/v5"
)

// tableResponse is the body of GET /api/tables/{id}.
type tableResponse struct {
	Upload core.UploadRecord `json:"upload"`
	Table  tableJSON         `json:"table"`
}

// cellResponse is one cell looked up by position or by name.
type cellResponse struct {
	Row        int    `json:"row"`
	Column     int    `json:"column"`
	RowKey     string `json:"rowKey"`
	ColumnName string `json:"columnName"`
	Kind       string `json:"kind"`
	Value      any    `json:"value"`
}

func newCellResponse(ref core.CellRef) cellResponse {
	return cellResponse{
		Row:        ref.Row,
		Column:     ref.Column,
		RowKey:     ref.RowKey,
		ColumnName: ref.ColumnName,
		Kind:       ref.Cell.Kind().String(),
		Value:      cellValue(ref.Cell),
	}
}

// handleListUploads returns stored uploads, newest first.
func (s *Server) handleListUploads(w http.ResponseWriter, r *http.Request) {
	recs, err := s.service.ListUploads(r.Context(), parseIntParam(r, "limit", 0))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if recs == nil {
		recs = []core.UploadRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// handleGetTable returns an upload's metadata and one page of rows
// (?offset=&limit=, limit defaulting to the preview size).
func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	st, err := s.service.Table(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	offset := parseIntParam(r, "offset", 0)
	limit := parseIntParam(r, "limit", s.cfg.Upload.PreviewRows)
	writeJSON(w, http.StatusOK, tableResponse{
		Upload: st.Record,
		Table:  newTableJSON(st.Table, offset, limit),
	})
}

// handleDeleteUpload removes an upload and its cells.
func (s *Server) handleDeleteUpload(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteUpload(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCell returns the cell at /cells/{row}/{col}.
func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	row, err := strconv.Atoi(chi.URLParam(r, "row"))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("row %q: %w", chi.URLParam(r, "row"), errBadIndex))
		return
	}
	col, err := strconv.Atoi(chi.URLParam(r, "col"))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("column %q: %w", chi.URLParam(r, "col"), errBadIndex))
		return
	}

	st, err := s.service.Table(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	ref, err := st.Cell(row, col)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCellResponse(ref))
}

// handleCellByName returns the cell at /rows/{rowKey}/{column}. Row keys
// are matched against the key column's text as written in the file.
func (s *Server) handleCellByName(w http.ResponseWriter, r *http.Request) {
	st, err := s.service.Table(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	ref, err := st.CellByName(pathParam(r, "rowKey"), pathParam(r, "column"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCellResponse(ref))
}

// handleLimiterStatus reports upload slot occupancy.
func (s *Server) handleLimiterStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.LimiterStatus())
}
