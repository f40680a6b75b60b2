package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/heartmarshall/docxtranslate/internal/domain"
	"github.com/heartmarshall/docxtranslate/internal/service/translation"
)

type translationServiceMock struct {
	translateFunc func(ctx context.Context, req translation.Request) (translation.Response, error)
	progressFunc  func(id string) (domain.ProgressRecord, bool)
}

func (m *translationServiceMock) Translate(ctx context.Context, req translation.Request) (translation.Response, error) {
	return m.translateFunc(ctx, req)
}

func (m *translationServiceMock) Progress(id string) (domain.ProgressRecord, bool) {
	return m.progressFunc(id)
}

func silentTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTranslateHandler_Translate_Success(t *testing.T) {
	t.Parallel()

	svc := &translationServiceMock{
		translateFunc: func(ctx context.Context, req translation.Request) (translation.Response, error) {
			return translation.Response{
				DocxBase64: "ZG9uZQ==",
				Stats:      translation.Stats{ParagraphCount: 2, TotalTokens: 30},
			}, nil
		},
	}
	h := NewTranslateHandler(svc, silentTestLogger())

	body, _ := json.Marshal(translateRequest{
		DocxBase64:     "aW5wdXQ=",
		TargetLanguage: "Spanish",
		Model:          "claude-haiku",
		APIKey:         "key",
		ProgressID:     "req-1",
	})
	req := httptest.NewRequest(http.MethodPost, "/translate", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Translate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp translateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Stats.ParagraphCount != 2 {
		t.Errorf("expected paragraph_count 2, got %d", resp.Stats.ParagraphCount)
	}
}

func TestTranslateHandler_Translate_GeneratesProgressIDWhenMissing(t *testing.T) {
	t.Parallel()

	var gotProgressID string
	svc := &translationServiceMock{
		translateFunc: func(ctx context.Context, req translation.Request) (translation.Response, error) {
			gotProgressID = req.ProgressID
			return translation.Response{}, nil
		},
	}
	h := NewTranslateHandler(svc, silentTestLogger())

	body, _ := json.Marshal(translateRequest{DocxBase64: "x", TargetLanguage: "French", Model: "m", APIKey: "k"})
	req := httptest.NewRequest(http.MethodPost, "/translate", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Translate(rec, req)

	if gotProgressID == "" {
		t.Error("expected a generated progress id to be passed through")
	}
}

func TestTranslateHandler_Translate_InvalidJSON(t *testing.T) {
	t.Parallel()

	svc := &translationServiceMock{}
	h := NewTranslateHandler(svc, silentTestLogger())

	req := httptest.NewRequest(http.MethodPost, "/translate", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()

	h.Translate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTranslateHandler_Translate_ValidationErrorMapsTo400(t *testing.T) {
	t.Parallel()

	svc := &translationServiceMock{
		translateFunc: func(ctx context.Context, req translation.Request) (translation.Response, error) {
			return translation.Response{}, domain.NewValidationError("target_language", "required")
		},
	}
	h := NewTranslateHandler(svc, silentTestLogger())

	body, _ := json.Marshal(translateRequest{DocxBase64: "x"})
	req := httptest.NewRequest(http.MethodPost, "/translate", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Translate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTranslateHandler_Translate_CorruptDocumentMapsTo422(t *testing.T) {
	t.Parallel()

	svc := &translationServiceMock{
		translateFunc: func(ctx context.Context, req translation.Request) (translation.Response, error) {
			return translation.Response{}, errors.Join(domain.ErrCorruptDocument, errors.New("bad zip"))
		},
	}
	h := NewTranslateHandler(svc, silentTestLogger())

	body, _ := json.Marshal(translateRequest{DocxBase64: "x"})
	req := httptest.NewRequest(http.MethodPost, "/translate", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Translate(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestTranslateHandler_Translate_InternalErrorMapsTo500(t *testing.T) {
	t.Parallel()

	svc := &translationServiceMock{
		translateFunc: func(ctx context.Context, req translation.Request) (translation.Response, error) {
			return translation.Response{}, errors.New("boom")
		},
	}
	h := NewTranslateHandler(svc, silentTestLogger())

	body, _ := json.Marshal(translateRequest{DocxBase64: "x"})
	req := httptest.NewRequest(http.MethodPost, "/translate", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Translate(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestTranslateHandler_Progress_Found(t *testing.T) {
	t.Parallel()

	svc := &translationServiceMock{
		progressFunc: func(id string) (domain.ProgressRecord, bool) {
			return domain.ProgressRecord{TotalBatches: 4, CompletedBatches: 2}, true
		},
	}
	h := NewTranslateHandler(svc, silentTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/progress/req-1", nil)
	req.SetPathValue("id", "req-1")
	rec := httptest.NewRecorder()

	h.Progress(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp progressResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.CompletedBatches != 2 || resp.TotalBatches != 4 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestTranslateHandler_Progress_NotFound(t *testing.T) {
	t.Parallel()

	svc := &translationServiceMock{
		progressFunc: func(id string) (domain.ProgressRecord, bool) {
			return domain.ProgressRecord{}, false
		},
	}
	h := NewTranslateHandler(svc, silentTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/progress/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	h.Progress(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
