package planner

import (
	"strings"

	"github.com/heartmarshall/docxtranslate/internal/domain"
)

// contentKind is the legacy poetry/dialogue/prose classification that
// predates the token-budget planner. Kept as an opt-in fallback
// (Config.LegacyContentClassification) for parity with documents tuned
// against the old fixed batch sizes.
type contentKind int

const (
	kindProse contentKind = iota
	kindPoetry
	kindDialogue
)

// Fixed batch sizes (paragraph counts, not tokens) the legacy heuristic
// used per content kind.
const (
	legacyBatchSizeProse    = 20
	legacyBatchSizeDialogue = 15
	legacyBatchSizePoetry   = 8
)

// planLegacy assembles batches by a fixed paragraph count that depends
// on the classification of each filtered paragraph, reclassifying at
// every batch boundary so a document can drift between prose, dialogue,
// and poetry sections.
func planLegacy(cfg Config, filtered []domain.FilteredParagraph) []domain.Batch {
	if len(filtered) == 0 {
		return nil
	}

	var batches []domain.Batch
	pos := 0
	for pos < len(filtered) {
		kind := classifyContent(filtered[pos].RawText)
		size := legacyBatchSize(kind)

		end := pos + size
		if end > len(filtered) {
			end = len(filtered)
		}
		members := filtered[pos:end]

		tokens := 0
		for _, m := range members {
			tokens += estimateTokens(m.RawText)
		}

		batches = append(batches, domain.Batch{
			ID:              len(batches),
			Members:         members,
			UseRobust:       kind == kindPoetry,
			EstimatedTokens: tokens,
		})
		pos = end
	}

	return batches
}

func legacyBatchSize(kind contentKind) int {
	switch kind {
	case kindPoetry:
		return legacyBatchSizePoetry
	case kindDialogue:
		return legacyBatchSizeDialogue
	default:
		return legacyBatchSizeProse
	}
}

// classifyContent applies the old heuristic: short, heavily line-broken
// text reads as poetry; text opening with a dash or quote mark reads as
// dialogue; everything else is prose.
func classifyContent(text string) contentKind {
	trimmed := strings.TrimLeft(text, " \t")
	if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "—") ||
		strings.HasPrefix(trimmed, "\"") || strings.HasPrefix(trimmed, "“") {
		return kindDialogue
	}

	lines := strings.Split(text, "\n")
	if len(lines) > 1 {
		shortLines := 0
		for _, l := range lines {
			if len(strings.TrimSpace(l)) > 0 && len(l) < 60 {
				shortLines++
			}
		}
		if float64(shortLines) >= float64(len(lines))*0.6 {
			return kindPoetry
		}
	}

	return kindProse
}
