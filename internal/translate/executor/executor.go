// Package executor drives a request's batches through a bounded
// concurrent worker pool, one LLM call per batch with its own timeout
// and retry budget, and reassembles results in batch-index order.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/docxtranslate/internal/domain"
	"github.com/heartmarshall/docxtranslate/internal/progress"
	"github.com/heartmarshall/docxtranslate/internal/provider"
	"github.com/heartmarshall/docxtranslate/internal/translate/prompt"
	"github.com/heartmarshall/docxtranslate/internal/translate/respparse"
)

// Config holds the pool size, per-attempt timeout, and retry policy.
type Config struct {
	MaxConcurrentBatches int
	PerAttemptTimeout    time.Duration
	MaxRetries           int
	RetryBackoff         time.Duration
}

// Run sends every batch to the LLM client through a pool of
// cfg.MaxConcurrentBatches workers and returns one BatchResult per
// batch, reassembled in batch-index order. A worker's failure never
// cancels its peers: partial failure is a first-class outcome, not an
// aborted request.
func Run(ctx context.Context, cfg Config, client provider.Client, req provider.Request, targetLanguage string, batches []domain.Batch, progressID string, store *progress.Store, log *slog.Logger) []domain.BatchResult {
	results := make([]domain.BatchResult, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxConcurrentBatches)

	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					results[i] = failedResult(batch, []string{fmt.Sprintf("batch %d: worker panic: %v", batch.ID, r)})
				}
				if store != nil {
					store.IncrementCompleted(progressID)
				}
			}()
			results[i] = runOne(gctx, cfg, client, req, targetLanguage, batch, log)
			return nil
		})
	}
	// Workers never return an error: failures are captured in
	// BatchResult.Failed, not propagated to errgroup. Wait only
	// synchronizes completion.
	_ = g.Wait()

	return results
}

func runOne(ctx context.Context, cfg Config, client provider.Client, req provider.Request, targetLanguage string, batch domain.Batch, log *slog.Logger) domain.BatchResult {
	var (
		text         string
		formattings  [][]domain.RunFormatting
		usage        provider.Result
		logs         []string
		attemptCount int
	)

	if batch.UseRobust {
		text, formattings = prompt.BuildRobust(targetLanguage, batch.Members)
	} else {
		text = prompt.BuildStandard(targetLanguage, batch.Members)
	}

	operation := func() error {
		attemptCount++
		attemptCtx, cancel := context.WithTimeout(ctx, cfg.PerAttemptTimeout)
		defer cancel()

		callReq := req
		callReq.Prompt = text

		result, err := client.Translate(attemptCtx, callReq)
		if err != nil {
			return err
		}
		usage = result
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(cfg.RetryBackoff), uint64(cfg.MaxRetries))
	err := backoff.Retry(operation, backoff.WithContext(policy, ctx))

	if err != nil {
		logs = append(logs, fmt.Sprintf("batch %d: exhausted retries after %d attempt(s): %v", batch.ID, attemptCount, err))
		if log != nil {
			log.Warn("batch failed", slog.Int("batch_id", batch.ID), slog.Int("attempts", attemptCount), slog.Any("error", err))
		}
		return failedResult(batch, logs)
	}

	n := len(batch.Members)
	var (
		translations    []string
		runTranslations []map[int]string
		parseLogs       []string
	)
	if batch.UseRobust {
		translations, runTranslations, parseLogs = respparse.ParseRobust(usage.Text, formattings)
	} else {
		translations, parseLogs = respparse.ParseStandard(usage.Text, n)
	}
	logs = append(logs, parseLogs...)

	return domain.BatchResult{
		BatchID:         batch.ID,
		Translations:    translations,
		RunTranslations: runTranslations,
		InputTokens:     usage.InputTokens,
		OutputTokens:    usage.OutputTokens,
		TotalTokens:     usage.TotalTokens,
		Failed:          false,
		Logs:            logs,
	}
}

// failedResult echoes every member's original text back as its
// "translation" so the Applier can still wrap each with untranslated
// markers without special-casing the failed path's data shape.
func failedResult(batch domain.Batch, logs []string) domain.BatchResult {
	translations := make([]string, len(batch.Members))
	for i, m := range batch.Members {
		translations[i] = m.RawText
	}
	return domain.BatchResult{
		BatchID:      batch.ID,
		Translations: translations,
		Failed:       true,
		Logs:         logs,
	}
}
