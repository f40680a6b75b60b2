// Package filter decides which paragraphs of a document are worth
// sending to the translator and which are noise: decorative initials,
// empty spacer paragraphs, bare punctuation, and stray single words that
// aren't headings.
package filter

import (
	"strings"
	"unicode"

	"github.com/heartmarshall/docxtranslate/internal/domain"
)

// Apply walks a document's paragraphs in order and returns the subset
// worth translating. Paragraphs matched by the orphan-letter rule are
// removed from doc.Paragraphs entirely; everything else stays in the
// document at its original position whether or not it is returned here.
func Apply(doc *domain.Document) []domain.FilteredParagraph {
	doc.Paragraphs = removeOrphanLetters(doc.Paragraphs)

	var out []domain.FilteredParagraph
	for i, p := range doc.Paragraphs {
		text := p.Text()
		if isEmptyOrNonMeaningful(text) {
			continue
		}
		if isSkippableSingleWord(text, p.StyleName) {
			continue
		}
		out = append(out, domain.FilteredParagraph{Index: i, Para: p, RawText: text})
	}
	return out
}

// removeOrphanLetters drops a paragraph whose text is exactly one
// uppercase letter when the next paragraph begins with an uppercase
// letter — the classic decorative-drop-cap pattern split across two
// paragraphs. Unlike the other rules, this physically removes the
// paragraph rather than merely excluding it from translation: a
// standalone "A" left behind with nothing to attach to reads as a typo,
// not a stylistic element, once rendered without its original formatting.
func removeOrphanLetters(paras []*domain.Paragraph) []*domain.Paragraph {
	out := make([]*domain.Paragraph, 0, len(paras))
	for i, p := range paras {
		if isOrphanLetter(p, paras, i) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func isOrphanLetter(p *domain.Paragraph, paras []*domain.Paragraph, i int) bool {
	text := p.Text()
	if !isSingleUppercaseLetter(text) {
		return false
	}
	if i+1 >= len(paras) {
		return false
	}
	next := strings.TrimSpace(paras[i+1].Text())
	if next == "" {
		return false
	}
	first := []rune(next)[0]
	return unicode.IsUpper(first)
}

func isSingleUppercaseLetter(text string) bool {
	runes := []rune(text)
	return len(runes) == 1 && unicode.IsUpper(runes[0]) && unicode.IsLetter(runes[0])
}

// isEmptyOrNonMeaningful reports whether text is empty, whitespace-only,
// or composed entirely of punctuation/symbols (no letters or digits).
func isEmptyOrNonMeaningful(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}
	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isSkippableSingleWord reports whether text has at most one word and is
// not exempted by being all-uppercase or sitting under a heading style.
func isSkippableSingleWord(text, styleName string) bool {
	if wordCount(text) > 1 {
		return false
	}
	if isAllUpper(text) {
		return false
	}
	if strings.HasPrefix(strings.ToLower(styleName), "heading") {
		return false
	}
	return true
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

func isAllUpper(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
