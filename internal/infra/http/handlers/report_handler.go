package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/hecms/internal/entity"
	"github.com/xavierca1/hecms/internal/usecase"
)

type ReportHandler struct {
	Engine *usecase.Engine
}

func NewReportHandler(engine *usecase.Engine) *ReportHandler {
	return &ReportHandler{Engine: engine}
}

type SaveReportRequest struct {
	Name    string               `json:"name"`
	Filters entity.QuerySnapshot `json:"filters"`
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.ListSavedQueries())
}

func (h *ReportHandler) Save(w http.ResponseWriter, r *http.Request) {
	var input SaveReportRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	q, err := h.Engine.SaveQuery(r.Context(), input.Name, input.Filters)
	if err != nil {
		writeUsecaseError(w, "save_report", err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.Engine.GetSavedQuery(chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, "get_report", err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Leads (GET /reports/{id}/leads) runs the saved snapshot against the
// current collection.
func (h *ReportHandler) Leads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Engine.RunSavedQuery(chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, "run_report", err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}
