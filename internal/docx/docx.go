// Package docx loads and serializes the WordprocessingML paragraph/run
// tree out of a .docx package without disturbing anything the domain
// model does not understand (style tables, media, headers, sectPr).
//
// A .docx file is a zip archive; the only member this package reads or
// rewrites is word/document.xml. Every other member is carried through
// byte-for-byte.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/beevik/etree"
	"github.com/heartmarshall/docxtranslate/internal/domain"
)

const documentXMLPath = "word/document.xml"

// wNS is the WordprocessingML namespace prefix used throughout
// word/document.xml. etree preserves the literal prefix on Element.Tag,
// so matching against "w:p" etc. is stable across well-formed DOCX output
// from Word, LibreOffice, and Google Docs (all of which declare "w" for
// this namespace on the document root).
const wNS = "w"

// Doc couples a parsed Document with the live etree tree it was parsed
// from. The applier mutates paragraph and run text through the
// Paragraph/Run XMLElement accessors, which point into this same tree;
// Serialize writes those in-place edits back out, so Load and Serialize
// must always be used as a pair on the same Doc.
type Doc struct {
	*domain.Document

	tree *etree.Document
}

// Load parses a .docx byte stream into an ordered paragraph list. Empty
// documents (no w:p elements) are legal and yield an empty Paragraphs
// slice.
func Load(data []byte) (*Doc, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("docx: open zip: %w: %v", domain.ErrCorruptDocument, err)
	}

	doc := &domain.Document{
		OtherParts: make(map[string][]byte, len(zr.File)),
	}

	var documentXML []byte
	for _, f := range zr.File {
		data, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("docx: read %s: %w: %v", f.Name, domain.ErrCorruptDocument, err)
		}
		doc.PartOrder = append(doc.PartOrder, f.Name)
		if f.Name == documentXMLPath {
			documentXML = data
			continue
		}
		doc.OtherParts[f.Name] = data
	}
	if documentXML == nil {
		return nil, fmt.Errorf("docx: missing %s: %w", documentXMLPath, domain.ErrCorruptDocument)
	}
	doc.RawXML = documentXML

	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(documentXML); err != nil {
		return nil, fmt.Errorf("docx: parse document.xml: %w: %v", domain.ErrCorruptDocument, err)
	}

	result := &Doc{Document: doc, tree: tree}

	root := tree.Root()
	if root == nil {
		return nil, fmt.Errorf("docx: document.xml has no root element: %w", domain.ErrCorruptDocument)
	}

	body := root.SelectElement(wNS + ":body")
	if body == nil {
		// No body at all: treat as an empty document rather than an error.
		return result, nil
	}

	for i, pEl := range body.SelectElements(wNS + ":p") {
		para := parseParagraph(pEl, i)
		doc.Paragraphs = append(doc.Paragraphs, para)
	}

	return result, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func parseParagraph(pEl *etree.Element, index int) *domain.Paragraph {
	para := &domain.Paragraph{Index: index}
	para.SetXMLElement(pEl)

	if pPr := pEl.SelectElement(wNS + ":pPr"); pPr != nil {
		if styleEl := pPr.SelectElement(wNS + ":pStyle"); styleEl != nil {
			para.StyleName = attrVal(styleEl, "val")
		}
		if jcEl := pPr.SelectElement(wNS + ":jc"); jcEl != nil {
			para.Alignment = attrVal(jcEl, "val")
		}
		if indEl := pPr.SelectElement(wNS + ":ind"); indEl != nil {
			para.IndentLeft = attrIntPtr(indEl, "left")
			para.IndentRight = attrIntPtr(indEl, "right")
		}
		if spEl := pPr.SelectElement(wNS + ":spacing"); spEl != nil {
			para.SpacingBefore = attrIntPtr(spEl, "before")
			para.SpacingAfter = attrIntPtr(spEl, "after")
		}
	}

	runIdx := 0
	for _, rEl := range pEl.SelectElements(wNS + ":r") {
		run := parseRun(rEl, runIdx)
		para.Runs = append(para.Runs, run)
		runIdx++
	}

	return para
}

func parseRun(rEl *etree.Element, index int) *domain.Run {
	run := &domain.Run{Index: index}
	run.SetXMLElement(rEl)

	var text bytes.Buffer
	for _, tEl := range rEl.SelectElements(wNS + ":t") {
		text.WriteString(tEl.Text())
	}
	run.Text = text.String()

	rPr := rEl.SelectElement(wNS + ":rPr")
	if rPr == nil {
		return run
	}

	run.Bold = toggleAttr(rPr, "b")
	run.Italic = toggleAttr(rPr, "i")
	run.Underline = underlineAttr(rPr)
	run.Strike = toggleAttr(rPr, "strike")
	run.AllCaps = toggleAttr(rPr, "caps")
	run.SmallCaps = toggleAttr(rPr, "smallCaps")

	if vertAlign := rPr.SelectElement(wNS + ":vertAlign"); vertAlign != nil {
		switch attrVal(vertAlign, "val") {
		case "subscript":
			t := true
			run.Subscript = &t
		case "superscript":
			t := true
			run.Superscript = &t
		}
	}

	if rFonts := rPr.SelectElement(wNS + ":rFonts"); rFonts != nil {
		if v := attrVal(rFonts, "ascii"); v != "" {
			run.FontName = &v
		}
	}
	if sz := rPr.SelectElement(wNS + ":sz"); sz != nil {
		run.FontSize = attrIntPtr(sz, "val")
	}
	if color := rPr.SelectElement(wNS + ":color"); color != nil {
		if v := attrVal(color, "val"); v != "" {
			run.Color = &v
		}
	}
	if hl := rPr.SelectElement(wNS + ":highlight"); hl != nil {
		if v := attrVal(hl, "val"); v != "" {
			run.Highlight = &v
		}
	}

	return run
}

// toggleAttr reads a boolean OOXML toggle property (e.g. w:b, w:i). A
// present element with no w:val, or w:val="true"/"1", means true; w:val
// of "false"/"0" means explicitly false; absence of the element means
// nil (inherit).
func toggleAttr(rPr *etree.Element, tag string) *bool {
	el := rPr.SelectElement(wNS + ":" + tag)
	if el == nil {
		return nil
	}
	v := attrVal(el, "val")
	b := v == "" || v == "true" || v == "1" || v == "on"
	return &b
}

func underlineAttr(rPr *etree.Element) *bool {
	el := rPr.SelectElement(wNS + ":u")
	if el == nil {
		return nil
	}
	v := attrVal(el, "val")
	b := v != "" && v != "none"
	return &b
}

func attrVal(el *etree.Element, name string) string {
	return el.SelectAttrValue(wNS+":"+name, el.SelectAttrValue(name, ""))
}

func attrIntPtr(el *etree.Element, name string) *int {
	v := attrVal(el, name)
	if v == "" {
		return nil
	}
	n := 0
	neg := false
	for i, c := range v {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			return nil
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return &n
}
