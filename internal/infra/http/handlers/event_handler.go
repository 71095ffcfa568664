package handlers

import (
	"net/http"

	"github.com/xavierca1/hecms/internal/usecase"
)

type EventHandler struct {
	Engine *usecase.Engine
}

func NewEventHandler(engine *usecase.Engine) *EventHandler {
	return &EventHandler{Engine: engine}
}

type TrackEventRequest struct {
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload"`
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.Events())
}

// Track (POST /events/track) records a tracking event. An empty body fires
// the default lead_submit event.
func (h *EventHandler) Track(w http.ResponseWriter, r *http.Request) {
	var input TrackEventRequest
	if r.ContentLength != 0 {
		if !decodeJSON(w, r, &input) {
			return
		}
	}

	ev, err := h.Engine.TrackEvent(r.Context(), input.Event, input.Payload)
	if err != nil {
		writeUsecaseError(w, "track_event", err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}
