// Package applier writes translated text back into a Document's paragraph
// and run tree, branching on whether a batch succeeded, failed outright,
// or used the robust per-run marker protocol.
package applier

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/docxtranslate/internal/docx"
	"github.com/heartmarshall/docxtranslate/internal/domain"
)

// Apply walks batch results in batch-index order and mutates the
// document's filtered paragraphs in place. logs accumulates every
// diagnostic message produced along the way, in application order.
func Apply(batches []domain.Batch, results []domain.BatchResult) []string {
	var logs []string

	for _, result := range results {
		batch := findBatch(batches, result.BatchID)
		if batch == nil {
			logs = append(logs, fmt.Sprintf("applier: no batch found for result id %d, skipping", result.BatchID))
			continue
		}
		logs = append(logs, result.Logs...)

		for i, member := range batch.Members {
			switch {
			case result.Failed:
				applyFailed(member.Para)
			case batch.UseRobust && i < len(result.RunTranslations) && result.RunTranslations[i] != nil:
				if err := applyRobust(member.Para, result.RunTranslations[i]); err != nil {
					logs = append(logs, fmt.Sprintf("applier: paragraph %d: robust apply failed (%v), falling back to standard path", member.Index, err))
					applyStandard(member.Para, translationFor(result, i))
				}
			default:
				applyStandard(member.Para, translationFor(result, i))
			}
		}
	}

	return logs
}

func findBatch(batches []domain.Batch, id int) *domain.Batch {
	for i := range batches {
		if batches[i].ID == id {
			return &batches[i]
		}
	}
	return nil
}

func translationFor(result domain.BatchResult, i int) string {
	if i >= len(result.Translations) {
		return ""
	}
	return result.Translations[i]
}

// applyStandard sanitizes the translation and writes it into the
// paragraph's first run, clearing every other run's text. Paragraph-level
// style, alignment, indent, and spacing are untouched; only the first
// run's other attributes (font, color, emphasis) survive, since the
// remaining runs' formatting has nowhere to go once merged.
func applyStandard(p *domain.Paragraph, translation string) {
	if len(p.Runs) == 0 {
		return
	}
	clean := stripThinkTags(translation)

	_ = docx.SetRunText(p.Runs[0], clean)
	for _, r := range p.Runs[1:] {
		_ = docx.SetRunText(r, "")
	}
}

// applyRobust rewrites each original run's text from the decoded
// run-index -> translated-text table, leaving every run's formatting
// attributes (captured as RunFormatting when the prompt was built)
// exactly as they were.
func applyRobust(p *domain.Paragraph, runTranslations map[int]string) error {
	for _, r := range p.Runs {
		text, ok := runTranslations[r.Index]
		if !ok {
			return fmt.Errorf("run %d missing from decoded marker table", r.Index)
		}
		if err := docx.SetRunText(r, stripThinkTags(text)); err != nil {
			return err
		}
	}
	return nil
}

// applyFailed wraps a paragraph's existing (untranslated) text with the
// <untranslated>/</untranslated> sentinel so a reviewer can find it. When
// the paragraph has exactly one run, both sentinels wrap that same run;
// docx.SetParagraphUntranslated handles this by construction, applying
// the prefix before reading the run's (already-updated) text for the
// suffix append.
func applyFailed(p *domain.Paragraph) {
	_ = docx.SetParagraphUntranslated(p)
}

// stripThinkTags removes <think>...</think> artifacts (case-insensitive,
// may span newlines) some models leak into their output, without
// touching any other whitespace. No other normalization is ever applied:
// leading/trailing spaces carry meaning (poetry indentation) and must
// survive untouched.
func stripThinkTags(s string) string {
	const openTag = "<think>"
	var b strings.Builder
	rest := s

	for {
		lower := strings.ToLower(rest)
		openIdx := strings.Index(lower, openTag)
		if openIdx == -1 {
			b.WriteString(rest)
			break
		}
		closeIdx := strings.Index(lower[openIdx:], "</think>")
		if closeIdx == -1 {
			// Unterminated tag: drop everything from here on, since
			// there is no way to know where the leaked content ends.
			b.WriteString(rest[:openIdx])
			break
		}
		b.WriteString(rest[:openIdx])
		rest = rest[openIdx+closeIdx+len("</think>"):]
	}

	return b.String()
}
