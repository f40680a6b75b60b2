package domain

// Document is a parsed DOCX manuscript: an ordered sequence of paragraphs
// plus the opaque style/section tables the loader does not interpret.
// Document is owned by a single translation request and discarded once
// the response has been serialized.
type Document struct {
	Paragraphs []*Paragraph

	// RawXML is the unparsed word/document.xml bytes the loader started
	// from, kept as loaded. The serializer does not read it: it writes
	// word/document.xml from the parsed XML tree, which keeps sectPr and
	// style references it did not model.
	RawXML []byte

	// OtherParts holds every other member of the .docx zip (styles.xml,
	// media, headers/footers, [Content_Types].xml, ...) verbatim, keyed
	// by its zip path. The serializer never modifies these.
	OtherParts map[string][]byte

	// PartOrder preserves the original zip member order, word/document.xml
	// included, so the serializer can rebuild the archive in the same
	// layout the source file used instead of an arbitrary map order.
	PartOrder []string
}

// Paragraph is a DOCX block-level text container: a style reference,
// layout attributes, and an ordered sequence of Runs (empty when the
// w:p holds no w:r).
// Identified by its position index in the original document.
type Paragraph struct {
	Index int

	StyleName string
	Alignment string
	IndentLeft  *int
	IndentRight *int
	SpacingBefore *int
	SpacingAfter  *int

	Runs []*Run

	// xmlElement is the underlying etree element this paragraph was
	// parsed from; the applier mutates run text through it directly so
	// that untouched attributes (rPr children the domain model does not
	// expose) survive serialization unchanged.
	xmlElement any
}

// Text concatenates every run's text in order, with whitespace intact.
// No trimming or normalization is ever applied here: leading/trailing
// spaces are semantically significant (poetry indentation).
func (p *Paragraph) Text() string {
	if len(p.Runs) == 0 {
		return ""
	}
	total := 0
	for _, r := range p.Runs {
		total += len(r.Text)
	}
	buf := make([]byte, 0, total)
	for _, r := range p.Runs {
		buf = append(buf, r.Text...)
	}
	return string(buf)
}

// SetXMLElement stores the backing XML element for later in-place mutation.
func (p *Paragraph) SetXMLElement(el any) { p.xmlElement = el }

// XMLElement returns the backing XML element, or nil if the paragraph was
// constructed without one (e.g. in unit tests).
func (p *Paragraph) XMLElement() any { return p.xmlElement }

// Run is a contiguous DOCX text span with uniform formatting. A nil
// pointer field means "inherit from the style/paragraph", matching the
// OOXML tri-state semantics (set / explicitly unset / inherited).
type Run struct {
	Index int
	Text  string

	Bold      *bool
	Italic    *bool
	Underline *bool
	Strike    *bool
	Subscript *bool
	Superscript *bool
	AllCaps   *bool
	SmallCaps *bool

	FontName *string
	FontSize *int // half-points, as OOXML w:sz stores it
	Color    *string
	Highlight *string

	xmlElement any
}

// SetXMLElement stores the backing XML element for later in-place mutation.
func (r *Run) SetXMLElement(el any) { r.xmlElement = el }

// XMLElement returns the backing XML element, or nil if the run was
// constructed without one (e.g. in unit tests).
func (r *Run) XMLElement() any { return r.xmlElement }

// HasAnyEmphasis reports whether the run carries bold, italic, or underline.
func (r *Run) HasAnyEmphasis() bool {
	return boolVal(r.Bold) || boolVal(r.Italic) || boolVal(r.Underline)
}

func boolVal(b *bool) bool { return b != nil && *b }
