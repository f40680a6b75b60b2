// Package translation orchestrates one end-to-end translation request:
// decode, load, filter, plan, execute, apply, and serialize, wiring
// every other internal/translate/* and internal/docx component together
// behind a single call.
package translation

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/docxtranslate/internal/docx"
	"github.com/heartmarshall/docxtranslate/internal/domain"
	"github.com/heartmarshall/docxtranslate/internal/progress"
	"github.com/heartmarshall/docxtranslate/internal/provider"
	"github.com/heartmarshall/docxtranslate/internal/translate/applier"
	"github.com/heartmarshall/docxtranslate/internal/translate/executor"
	"github.com/heartmarshall/docxtranslate/internal/translate/filter"
	"github.com/heartmarshall/docxtranslate/internal/translate/planner"
)

// Request is the engine's external input contract (spec §6).
type Request struct {
	DocxBase64     string
	FileName       string
	TargetLanguage string
	Model          string
	APIKey         string
	ProgressID     string
	IncludePreview bool
}

// Stats are the per-request token/cost figures returned alongside the
// translated document.
type Stats struct {
	ParagraphCount int
	InputTokens    int
	OutputTokens   int
	TotalTokens    int
	EstimatedCost  float64
}

// Response is the engine's external output contract (spec §6).
type Response struct {
	DocxBase64 string
	Logs       []string
	Stats      Stats
	Preview    string
}

// ClientFactory builds a provider.Client bound to one request's
// credentials and default model. Request-scoped construction keeps the
// service itself credential-agnostic.
type ClientFactory func(apiKey, defaultModel string) provider.Client

// Config bundles the planner and executor tunables the service needs
// to wire a request through.
type Config struct {
	Planner  planner.Config
	Executor executor.Config
}

// Service orchestrates translation requests.
type Service struct {
	cfg       Config
	newClient ClientFactory
	store     *progress.Store
	log       *slog.Logger
}

// New builds a Service. store and log may be shared across requests;
// newClient is invoked once per Translate call.
func New(cfg Config, newClient ClientFactory, store *progress.Store, log *slog.Logger) *Service {
	return &Service{cfg: cfg, newClient: newClient, store: store, log: log}
}

// Translate runs one request through the full pipeline. Only
// validation, loader and serializer errors are returned to the caller; per-batch
// LLM failures are absorbed and surfaced as <untranslated> markers in
// the output document plus Logs entries.
func (s *Service) Translate(ctx context.Context, req Request) (Response, error) {
	if err := validate(req); err != nil {
		return Response{}, err
	}

	data, err := base64.StdEncoding.DecodeString(req.DocxBase64)
	if err != nil {
		return Response{}, domain.NewValidationError("docx_base64", "not valid base64")
	}

	doc, err := docx.Load(data)
	if err != nil {
		s.store.Start(req.ProgressID, 0)
		s.store.SetError(req.ProgressID)
		s.store.Done(req.ProgressID)
		return Response{}, fmt.Errorf("load document: %w", err)
	}

	filtered := filter.Apply(doc.Document)
	batches := planner.Plan(s.cfg.Planner, filtered)

	s.store.Start(req.ProgressID, len(batches))

	client := s.newClient(req.APIKey, req.Model)
	callReq := provider.Request{Model: req.Model, APIKey: req.APIKey}

	results := executor.Run(ctx, s.cfg.Executor, client, callReq, req.TargetLanguage, batches, req.ProgressID, s.store, s.log)

	logs := applier.Apply(batches, results)
	for _, r := range results {
		logs = append(logs, r.Logs...)
	}

	out, err := doc.Serialize()
	if err != nil {
		s.store.SetError(req.ProgressID)
		s.store.Done(req.ProgressID)
		return Response{}, fmt.Errorf("serialize document: %w", err)
	}

	var usage domain.UsageTotals
	for _, r := range results {
		usage.Add(r.InputTokens, r.OutputTokens, r.TotalTokens)
	}

	s.store.Done(req.ProgressID)

	resp := Response{
		DocxBase64: base64.StdEncoding.EncodeToString(out),
		Logs:       logs,
		Stats: Stats{
			ParagraphCount: len(filtered),
			InputTokens:    usage.Input,
			OutputTokens:   usage.Output,
			TotalTokens:    usage.Total,
			EstimatedCost:  provider.EstimatedCost(req.Model, usage.Input, usage.Output),
		},
	}
	if req.IncludePreview {
		resp.Preview = preview(doc.Document)
	}

	return resp, nil
}

// Progress returns the current ProgressRecord for id, or false if id is
// unknown (a distinct not-found signal per spec §6).
func (s *Service) Progress(id string) (domain.ProgressRecord, bool) {
	return s.store.Get(id)
}

func validate(req Request) error {
	var errs []domain.FieldError
	if req.DocxBase64 == "" {
		errs = append(errs, domain.FieldError{Field: "docx_base64", Message: "required"})
	}
	if req.TargetLanguage == "" {
		errs = append(errs, domain.FieldError{Field: "target_language", Message: "required"})
	}
	if req.Model == "" {
		errs = append(errs, domain.FieldError{Field: "model", Message: "required"})
	}
	if req.APIKey == "" {
		errs = append(errs, domain.FieldError{Field: "api_key", Message: "required"})
	}
	if req.ProgressID == "" {
		errs = append(errs, domain.FieldError{Field: "progress_id", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// preview renders a plain-text approximation of the translated document,
// one paragraph per line, for callers that want to eyeball the result
// without opening the DOCX.
func preview(doc *domain.Document) string {
	var out []byte
	for i, p := range doc.Paragraphs {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, p.Text()...)
	}
	return string(out)
}
