package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xavierca1/hecms/internal/infra/http/middleware"
	"github.com/xavierca1/hecms/internal/usecase"
)

type ErrorResponse struct {
	Error   string                    `json:"error"`
	Message string                    `json:"message"`
	Fields  []usecase.ValidationError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeUsecaseError maps engine errors onto status codes. op labels the
// storage error counter.
func writeUsecaseError(w http.ResponseWriter, op string, err error) {
	var resp ErrorResponse
	resp.Message = err.Error()

	status := http.StatusInternalServerError
	switch {
	case usecase.IsNotFound(err):
		status, resp.Error = http.StatusNotFound, usecase.CodeNotFound
	case usecase.IsValidation(err):
		status, resp.Error = http.StatusUnprocessableEntity, usecase.CodeValidation
		var de *usecase.DomainError
		if errors.As(err, &de) {
			resp.Fields = de.Fields
		}
	case usecase.IsParse(err):
		status, resp.Error = http.StatusBadRequest, usecase.CodeParse
	case usecase.IsStorage(err):
		status, resp.Error = http.StatusServiceUnavailable, usecase.CodeStorage
		middleware.RecordStorageError(op)
		log.Printf("[HTTP] %s: %v", op, err)
	case usecase.IsDomainError(err):
		var de *usecase.DomainError
		errors.As(err, &de)
		status, resp.Error = http.StatusBadRequest, de.Code
	case usecase.IsTechnicalError(err):
		var te *usecase.TechnicalError
		errors.As(err, &te)
		resp.Error = te.Code
		log.Printf("[HTTP] %s: %v", op, err)
	default:
		resp.Error = "INTERNAL"
		log.Printf("[HTTP] %s: %v", op, err)
	}
	writeJSON(w, status, resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
