package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/heartmarshall/docxtranslate/internal/domain"
	"github.com/heartmarshall/docxtranslate/internal/service/translation"
)

// translationService defines the minimal interface needed by TranslateHandler.
type translationService interface {
	Translate(ctx context.Context, req translation.Request) (translation.Response, error)
	Progress(id string) (domain.ProgressRecord, bool)
}

// TranslateHandler serves the translate and progress REST endpoints.
type TranslateHandler struct {
	svc translationService
	log *slog.Logger
}

// NewTranslateHandler creates a TranslateHandler.
func NewTranslateHandler(svc translationService, logger *slog.Logger) *TranslateHandler {
	return &TranslateHandler{svc: svc, log: logger.With("handler", "translate")}
}

type translateRequest struct {
	DocxBase64     string `json:"docx_base64"`
	FileName       string `json:"file_name"`
	TargetLanguage string `json:"target_language"`
	Model          string `json:"model"`
	APIKey         string `json:"api_key"`
	ProgressID     string `json:"progress_id"`
	IncludePreview bool   `json:"include_preview"`
}

type translateResponse struct {
	DocxBase64 string       `json:"docx_base64"`
	Logs       []string     `json:"logs"`
	Stats      statsPayload `json:"stats"`
	Preview    string       `json:"preview,omitempty"`
}

type statsPayload struct {
	ParagraphCount int     `json:"paragraph_count"`
	InputTokens    int     `json:"input_tokens"`
	OutputTokens   int     `json:"output_tokens"`
	TotalTokens    int     `json:"total_tokens"`
	EstimatedCost  float64 `json:"estimated_cost"`
}

type progressResponse struct {
	ProgressID       string `json:"progress_id"`
	TotalBatches     int    `json:"total_batches"`
	CompletedBatches int    `json:"completed_batches"`
	Error            bool   `json:"error"`
}

// Translate handles POST /translate. A progress_id is generated when the
// caller does not supply one, so a client can always poll /progress/{id}
// even for a fire-and-forget request.
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProgressID == "" {
		req.ProgressID = uuid.New().String()
	}

	result, err := h.svc.Translate(r.Context(), translation.Request{
		DocxBase64:     req.DocxBase64,
		FileName:       req.FileName,
		TargetLanguage: req.TargetLanguage,
		Model:          req.Model,
		APIKey:         req.APIKey,
		ProgressID:     req.ProgressID,
		IncludePreview: req.IncludePreview,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, translateResponse{
		DocxBase64: result.DocxBase64,
		Logs:       result.Logs,
		Stats: statsPayload{
			ParagraphCount: result.Stats.ParagraphCount,
			InputTokens:    result.Stats.InputTokens,
			OutputTokens:   result.Stats.OutputTokens,
			TotalTokens:    result.Stats.TotalTokens,
			EstimatedCost:  result.Stats.EstimatedCost,
		},
		Preview: result.Preview,
	})
}

// Progress handles GET /progress/{id}.
func (h *TranslateHandler) Progress(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing progress id")
		return
	}

	rec, ok := h.svc.Progress(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown progress id")
		return
	}

	writeJSON(w, http.StatusOK, progressResponse{
		ProgressID:       id,
		TotalBatches:     rec.TotalBatches,
		CompletedBatches: rec.CompletedBatches,
		Error:            rec.Error,
	})
}

func (h *TranslateHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCorruptDocument):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
