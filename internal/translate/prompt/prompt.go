// Package prompt builds the text sent to the LLM for one batch, in
// either the standard (whole-paragraph) or robust (per-run marker)
// shape, and defines the marker/delimiter literals both prompt and
// respparse agree on.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/heartmarshall/docxtranslate/internal/domain"
)

// Delimiter literals framing one paragraph's translation in the model's
// response. Deliberately not JSON: JSON-object response modes have been
// observed to normalize whitespace and corrupt indentation.
const (
	DelimiterStartPrefix = "<<<TRANSLATION_START_"
	DelimiterEndPrefix   = "<<<TRANSLATION_END_"
	DelimiterSuffix      = ">>>"
)

// Marker literals framing one run's text on the robust path.
const (
	MarkerOpenPrefix  = "««RUN"
	MarkerOpenSuffix  = "»»"
	MarkerCloseOpen   = "««/RUN"
	MarkerCloseSuffix = "»»"
)

// StartDelimiter returns the opening delimiter for paragraph id.
func StartDelimiter(id int) string {
	return DelimiterStartPrefix + strconv.Itoa(id) + DelimiterSuffix
}

// EndDelimiter returns the closing delimiter for paragraph id.
func EndDelimiter(id int) string {
	return DelimiterEndPrefix + strconv.Itoa(id) + DelimiterSuffix
}

// BuildStandard renders the standard-path prompt: each member's raw text
// labelled 1..N and wrapped for delimiter-based recovery.
func BuildStandard(targetLanguage string, members []domain.FilteredParagraph) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Translate the following %d text segments into %s.\n", len(members), targetLanguage)
	b.WriteString("Rules:\n")
	b.WriteString("- Return exactly one translation per segment, in the same order, using the same numeric id.\n")
	b.WriteString("- Preserve every space, newline, and indentation character exactly as given.\n")
	b.WriteString("- Do not shorten, merge, split, or summarize any segment.\n")
	b.WriteString("- Wrap each translation as <<<TRANSLATION_START_id>>>translation<<<TRANSLATION_END_id>>>.\n")
	b.WriteString("- Output plain text only. Do not use JSON or markdown code fences.\n\n")

	for i, m := range members {
		id := i + 1
		fmt.Fprintf(&b, "%s\n%s\n%s\n\n", StartDelimiter(id), m.RawText, EndDelimiter(id))
	}

	return b.String()
}

// BuildRobust renders the robust-path prompt: each member's text with
// every run wrapped in a ««RUNn:FLAGS»»...««/RUNn»» marker, still framed
// by the same delimiter protocol at the paragraph level.
func BuildRobust(targetLanguage string, members []domain.FilteredParagraph) (string, [][]domain.RunFormatting) {
	var b strings.Builder

	fmt.Fprintf(&b, "Translate the following %d text segments into %s.\n", len(members), targetLanguage)
	b.WriteString("Each segment contains run markers of the form ««RUNn:FLAGS»»text««/RUNn»».\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Preserve every marker exactly, verbatim, including its flags.\n")
	b.WriteString("- Translate only the text between a marker's open and close tags.\n")
	b.WriteString("- Do not add, remove, reorder, or merge markers.\n")
	b.WriteString("- Preserve every space, newline, and indentation character exactly as given.\n")
	b.WriteString("- Wrap each translated segment as <<<TRANSLATION_START_id>>>translation<<<TRANSLATION_END_id>>>.\n")
	b.WriteString("- Output plain text only. Do not use JSON or markdown code fences.\n\n")

	allFormattings := make([][]domain.RunFormatting, len(members))

	for i, m := range members {
		id := i + 1
		marked, formattings := markParagraph(m.Para)
		allFormattings[i] = formattings
		fmt.Fprintf(&b, "%s\n%s\n%s\n\n", StartDelimiter(id), marked, EndDelimiter(id))
	}

	return b.String(), allFormattings
}

// markParagraph replaces each run's text with its marker-wrapped form
// and returns the RunFormatting snapshot used to decode the response.
func markParagraph(p *domain.Paragraph) (string, []domain.RunFormatting) {
	var b strings.Builder
	formattings := make([]domain.RunFormatting, 0, len(p.Runs))

	for _, r := range p.Runs {
		flags := encodeFlags(r)
		fmt.Fprintf(&b, "%s%d:%s%s%s%s%d%s", MarkerOpenPrefix, r.Index, flags, MarkerOpenSuffix,
			r.Text, MarkerCloseOpen, r.Index, MarkerCloseSuffix)

		formattings = append(formattings, domain.RunFormatting{
			RunIndex:    r.Index,
			Text:        r.Text,
			Bold:        r.Bold,
			Italic:      r.Italic,
			Underline:   r.Underline,
			Strike:      r.Strike,
			Subscript:   r.Subscript,
			Superscript: r.Superscript,
			AllCaps:     r.AllCaps,
			SmallCaps:   r.SmallCaps,
			FontName:    r.FontName,
			FontSize:    r.FontSize,
			Color:       r.Color,
			Highlight:   r.Highlight,
		})
	}

	return b.String(), formattings
}

// encodeFlags produces the compact, comma-separated active-attribute
// encoding documented for the marker protocol (B, I, U, S, SUB, SUP,
// F:name, SZ:n, C:hex), or PLAIN when nothing is set.
func encodeFlags(r *domain.Run) string {
	var flags []string

	if boolVal(r.Bold) {
		flags = append(flags, "B")
	}
	if boolVal(r.Italic) {
		flags = append(flags, "I")
	}
	if boolVal(r.Underline) {
		flags = append(flags, "U")
	}
	if boolVal(r.Strike) {
		flags = append(flags, "S")
	}
	if boolVal(r.Subscript) {
		flags = append(flags, "SUB")
	}
	if boolVal(r.Superscript) {
		flags = append(flags, "SUP")
	}
	if r.FontName != nil && *r.FontName != "" {
		flags = append(flags, "F:"+*r.FontName)
	}
	if r.FontSize != nil {
		flags = append(flags, "SZ:"+strconv.Itoa(*r.FontSize))
	}
	if r.Color != nil && *r.Color != "" {
		flags = append(flags, "C:"+*r.Color)
	}

	if len(flags) == 0 {
		return "PLAIN"
	}
	return strings.Join(flags, ",")
}

func boolVal(b *bool) bool { return b != nil && *b }
