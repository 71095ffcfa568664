package handlers

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/hecms/internal/entity"
	"github.com/xavierca1/hecms/internal/infra/http/middleware"
	"github.com/xavierca1/hecms/internal/usecase"
)

type LeadHandler struct {
	Engine      *usecase.Engine
	rateLimiter *RateLimiter
}

// NewLeadHandler limits public form captures to captureLimit per minute
// per client IP.
func NewLeadHandler(engine *usecase.Engine, captureLimit int) *LeadHandler {
	return &LeadHandler{
		Engine:      engine,
		rateLimiter: NewRateLimiter(captureLimit, time.Minute),
	}
}

// List (GET /leads) filters and sorts the collection.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	spec := entity.SortSpec{Key: q.Get("sort"), Dir: entity.SortDir(q.Get("dir"))}
	if errs := usecase.ValidateSortSpec(spec); len(errs) > 0 {
		writeUsecaseError(w, "list_leads", usecase.NewValidationError(errs...))
		return
	}

	criteria := usecase.Criteria{
		Search:      q.Get("q"),
		Stage:       q.Get("stage"),
		Temperature: q.Get("temperature"),
		Program:     q.Get("program"),
	}
	writeJSON(w, http.StatusOK, h.Engine.QueryLeads(criteria, spec))
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input entity.LeadFields
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.Engine.CreateLead(r.Context(), input)
	if err != nil {
		writeUsecaseError(w, "create_lead", err)
		return
	}
	middleware.RecordLeadCreated("api")
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Engine.GetLead(chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, "get_lead", err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// Update (PUT /leads/{id}) replaces the lead's fields. A stage change may
// fire the stage-change automation; the dispatch is part of the response.
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input entity.LeadFields
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.Engine.UpdateLead(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeUsecaseError(w, "update_lead", err)
		return
	}
	if out.Dispatch != nil {
		middleware.RecordDispatch(out.Dispatch.Trigger, "logged")
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.DeleteLead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUsecaseError(w, "delete_lead", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LeadHandler) Programs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, entity.Programs)
}

func (h *LeadHandler) Pipeline(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.PipelineCounts())
}

type CaptureLeadResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

// CaptureLead (POST /cms/lead) is the action of the embeddable form. It
// takes JSON or a urlencoded form and always creates a new lead at the
// first stage.
func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, CaptureLeadResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var input entity.LeadFields
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if !decodeJSON(w, r, &input) {
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{Success: false, Message: "Invalid form"})
			return
		}
		input = entity.LeadFields{
			FirstName: r.PostFormValue(entity.FieldFirstName),
			LastName:  r.PostFormValue(entity.FieldLastName),
			Email:     r.PostFormValue(entity.FieldEmail),
			Phone:     r.PostFormValue(entity.FieldPhone),
			Program:   r.PostFormValue(entity.FieldProgram),
		}
	}

	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" {
		writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{
			Success: false,
			Message: "Email is required",
		})
		return
	}
	input.Stage = entity.Stages[0]
	input.Temperature = entity.DefaultTemperature

	lead, err := h.Engine.CreateLead(r.Context(), input)
	if err != nil {
		writeUsecaseError(w, "capture_lead", err)
		return
	}
	middleware.RecordLeadCreated("form")
	writeJSON(w, http.StatusCreated, CaptureLeadResponse{Success: true, ID: lead.ID})
}

// getClientIP prefers the first hop of X-Forwarded-For.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

// NewRateLimiter allows limit requests per window per key. A limit of zero
// or less disables limiting.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
