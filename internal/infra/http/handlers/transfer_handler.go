package handlers

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/xavierca1/hecms/internal/entity"
	"github.com/xavierca1/hecms/internal/infra/http/middleware"
	"github.com/xavierca1/hecms/internal/infra/leadcsv"
	"github.com/xavierca1/hecms/internal/usecase"
)

// maxImportSize caps an uploaded CSV.
const maxImportSize = 10 << 20

type TransferHandler struct {
	Engine *usecase.Engine
}

func NewTransferHandler(engine *usecase.Engine) *TransferHandler {
	return &TransferHandler{Engine: engine}
}

// Export (GET /leads/export) downloads every lead as CSV.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+leadcsv.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	if err := h.Engine.ExportCSV(w); err != nil {
		log.Printf("[HTTP] export: %v", err)
	}
}

// Import (POST /leads/import) merges a CSV sent either as the raw body or
// as the multipart field "file".
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	mode := entity.MergeMode(r.URL.Query().Get("mode"))

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, usecase.CodeParse, "multipart field \"file\" is required")
			return
		}
		defer file.Close()
		src = file
	}

	result, err := h.Engine.ImportCSV(r.Context(), src, mode)
	if err != nil {
		writeUsecaseError(w, "import_leads", err)
		return
	}
	middleware.RecordImport(result.Created, result.Updated, len(result.Skipped))
	writeJSON(w, http.StatusOK, result)
}
