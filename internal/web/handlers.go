package web

import (
	"net/http"

	"github.com/JonMunkholm/tblstore/internal/core"
	"github.com/JonMunkholm/tblstore/internal/table"
	"github.com/JonMunkholm/tblstore/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// handleIndex renders the upload form and the upload history.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	recs, err := s.service.ListUploads(r.Context(), 0)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, templates.Layout("Uploads",
		templates.UploadList(recs, s.service.LimiterStatus())))
}

// handleTablePage renders the first rows of a stored table.
func (s *Server) handleTablePage(w http.ResponseWriter, r *http.Request) {
	st, err := s.service.Table(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, templates.Layout(st.Record.FileName,
		templates.TablePreview(st.Record, core.Summarize(st.Table), previewRows(st.Table, s.cfg.Upload.PreviewRows))))
}

// handleDeleteForm deletes an upload and returns to the index.
func (s *Server) handleDeleteForm(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteUpload(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// previewRows renders up to limit rows of t for the HTML preview.
func previewRows(t *table.Table, limit int) []templates.PreviewRow {
	n := min(t.NumRows(), limit)
	rows := make([]templates.PreviewRow, n)
	for r := range rows {
		cells := make([]templates.PreviewCell, t.NumColumns())
		for c := range cells {
			cell := t.Data(r, c)
			cells[c] = templates.PreviewCell{Text: cell.String(), Kind: cell.Kind().String()}
		}
		rows[r].Cells = cells
	}
	return rows
}
