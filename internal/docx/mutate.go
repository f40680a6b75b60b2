package docx

import (
	"fmt"
	"unicode"

	"github.com/beevik/etree"
	"github.com/heartmarshall/docxtranslate/internal/domain"
)

// SetRunText replaces a run's visible text in the live XML tree and
// updates the domain model to match. Word splits a run's text across
// several w:t siblings when it tracks spelling/grammar ranges; this
// collapses them into the first w:t and drops the rest, since those
// ranges have no meaning once the text has been translated.
func SetRunText(run *domain.Run, text string) error {
	el, ok := run.XMLElement().(*etree.Element)
	if !ok || el == nil {
		return fmt.Errorf("docx: run %d has no backing XML element", run.Index)
	}

	tEls := el.SelectElements(wNS + ":t")
	if len(tEls) == 0 {
		t := el.CreateElement(wNS + ":t")
		tEls = []*etree.Element{t}
	}

	first := tEls[0]
	first.SetText(text)
	if needsSpacePreserve(text) {
		first.CreateAttr("xml:space", "preserve")
	}
	for _, extra := range tEls[1:] {
		el.RemoveChild(extra)
	}

	run.Text = text
	return nil
}

// SetParagraphUntranslated wraps a paragraph's runs with literal
// <untranslated>...</untranslated> sentinel tags so a human reviewer can
// find exactly what a batch failed to translate, without losing the
// original text or its run-level formatting.
func SetParagraphUntranslated(para *domain.Paragraph) error {
	runs := para.Runs
	if len(runs) == 0 {
		return nil
	}
	if err := SetRunText(runs[0], "<untranslated>"+runs[0].Text); err != nil {
		return err
	}
	last := runs[len(runs)-1]
	return SetRunText(last, last.Text+"</untranslated>")
}

func needsSpacePreserve(s string) bool {
	if s == "" {
		return false
	}
	first := rune(s[0])
	last := rune(s[len(s)-1])
	return unicode.IsSpace(first) || unicode.IsSpace(last)
}
