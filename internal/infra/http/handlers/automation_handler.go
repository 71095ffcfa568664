package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/hecms/internal/usecase"
)

type AutomationHandler struct {
	Engine *usecase.Engine
}

func NewAutomationHandler(engine *usecase.Engine) *AutomationHandler {
	return &AutomationHandler{Engine: engine}
}

type UpsertRuleRequest struct {
	Template string `json:"template"`
}

type SaveTemplateRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (h *AutomationHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.AutomationRules())
}

func (h *AutomationHandler) GetRule(w http.ResponseWriter, r *http.Request) {
	triggerType := chi.URLParam(r, "type")
	rule, ok := h.Engine.AutomationRule(triggerType)
	if !ok {
		writeErrorResponse(w, http.StatusNotFound, usecase.CodeNotFound, "no automation for "+triggerType)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// PutRule (PUT /automations/{type}) sets the template fired by the trigger.
func (h *AutomationHandler) PutRule(w http.ResponseWriter, r *http.Request) {
	var input UpsertRuleRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	rule, err := h.Engine.UpsertAutomationRule(r.Context(), chi.URLParam(r, "type"), input.Template)
	if err != nil {
		writeUsecaseError(w, "upsert_automation", err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (h *AutomationHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.Templates())
}

func (h *AutomationHandler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	var input SaveTemplateRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	t, err := h.Engine.SaveTemplate(r.Context(), input.Subject, input.Body)
	if err != nil {
		writeUsecaseError(w, "save_template", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *AutomationHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUsecaseError(w, "delete_template", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
