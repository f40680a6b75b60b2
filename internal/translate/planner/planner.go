// Package planner turns a filtered paragraph sequence into an ordered
// list of translation batches, sized by a rough token budget that
// adapts to how visually dense the upcoming section of the document is.
package planner

import (
	"strings"

	"github.com/heartmarshall/docxtranslate/internal/domain"
)

// Config holds the tunables that shape batch assembly. It mirrors
// internal/config.TranslationConfig's planner-relevant fields so the
// service layer can pass them straight through.
type Config struct {
	WindowSize                  int
	TokenTargetSimple           int
	TokenTargetModerate         int
	TokenTargetComplex          int
	LegacyContentClassification bool
}

// region classifies how dense a forward-looking window of paragraphs is.
type region int

const (
	regionSimple region = iota
	regionModerate
	regionComplex
)

// Plan assembles filtered paragraphs into batches. When
// cfg.LegacyContentClassification is set, it defers to the
// poetry/dialogue/prose heuristic in legacy.go instead.
func Plan(cfg Config, filtered []domain.FilteredParagraph) []domain.Batch {
	if cfg.LegacyContentClassification {
		return planLegacy(cfg, filtered)
	}
	return planTokenBudget(cfg, filtered)
}

func planTokenBudget(cfg Config, filtered []domain.FilteredParagraph) []domain.Batch {
	if len(filtered) == 0 {
		return nil
	}

	complexities := make([]domain.ParagraphComplexity, len(filtered))
	for i, fp := range filtered {
		complexities[i] = ComplexityOf(fp.Para)
	}

	var batches []domain.Batch
	pos := 0
	for pos < len(filtered) {
		_, target, robust := classifyRegion(cfg, filtered, complexities, pos)

		members := []domain.FilteredParagraph{filtered[pos]}
		tokens := estimateTokens(filtered[pos].RawText)
		pos++

		for pos < len(filtered) {
			next := estimateTokens(filtered[pos].RawText)
			if tokens+next > target {
				break
			}
			members = append(members, filtered[pos])
			tokens += next
			pos++
		}

		batch := domain.Batch{
			ID:              len(batches),
			Members:         members,
			UseRobust:       robust,
			EstimatedTokens: tokens,
		}
		if adaptBatchRobust(members, complexities, pos-len(members)) {
			batch.UseRobust = true
		}
		batches = append(batches, batch)
	}

	return batches
}

// estimateTokens approximates token count from byte length: deliberately
// rough and conservative, per the observed behavior of the original
// batching heuristic.
func estimateTokens(text string) int {
	n := len(text)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}

// ComplexityOf scores a paragraph's structural complexity: dense run
// counts, heavy whitespace, and multi-run emphasis all push a paragraph
// toward the robust translation path.
func ComplexityOf(p *domain.Paragraph) domain.ParagraphComplexity {
	score := 0
	runCount := len(p.Runs)

	if runCount > 2 {
		score += 3
	}

	newlines := strings.Count(p.Text(), "\n")
	if newlines > 2 || leadingWhitespaceCount(p.Text()) > 2 {
		score += 2
	}

	emphasisRuns := 0
	for _, r := range p.Runs {
		if r.HasAnyEmphasis() {
			emphasisRuns++
		}
	}
	hasInlineFormatting := emphasisRuns > 1
	if hasInlineFormatting {
		score += 2
	}

	return domain.ParagraphComplexity{
		Score:               score,
		IsComplex:           score >= 3,
		HasInlineFormatting: hasInlineFormatting,
		RunCount:            runCount,
	}
}

func leadingWhitespaceCount(text string) int {
	n := 0
	for _, r := range text {
		if r != ' ' && r != '\t' {
			break
		}
		n++
	}
	return n
}

// classifyRegion inspects up to cfg.WindowSize paragraphs starting at pos
// and returns the region it falls into along with that region's token
// target and robust-path default.
func classifyRegion(cfg Config, filtered []domain.FilteredParagraph, complexities []domain.ParagraphComplexity, pos int) (region, int, bool) {
	end := pos + cfg.WindowSize
	if end > len(filtered) {
		end = len(filtered)
	}
	window := complexities[pos:end]
	if len(window) == 0 {
		return regionSimple, cfg.TokenTargetSimple, false
	}

	complexCount, inlineCount := 0, 0
	for _, c := range window {
		if c.IsComplex {
			complexCount++
		}
		if c.HasInlineFormatting {
			inlineCount++
		}
	}
	complexRatio := float64(complexCount) / float64(len(window))
	inlineRatio := float64(inlineCount) / float64(len(window))

	switch {
	case complexRatio < 0.2 && inlineRatio < 0.3:
		return regionSimple, cfg.TokenTargetSimple, false
	case complexRatio > 0.4 || inlineRatio > 0.5:
		return regionComplex, cfg.TokenTargetComplex, true
	default:
		return regionModerate, cfg.TokenTargetModerate, true
	}
}

// adaptBatchRobust re-examines a just-formed batch independent of the
// section analysis that picked its token target: a locally dense batch
// inside an otherwise SIMPLE section still needs the robust path.
func adaptBatchRobust(members []domain.FilteredParagraph, complexities []domain.ParagraphComplexity, firstIdx int) bool {
	if len(members) == 0 {
		return false
	}
	totalRuns := 0
	denseCount := 0
	for i := range members {
		c := complexities[firstIdx+i]
		totalRuns += c.RunCount
		if c.RunCount > 2 {
			denseCount++
		}
	}
	avgRuns := float64(totalRuns) / float64(len(members))
	denseFraction := float64(denseCount) / float64(len(members))
	return avgRuns > 2.5 || denseFraction > 0.3
}
