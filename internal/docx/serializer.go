package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Serialize rewrites word/document.xml from the live etree tree (carrying
// whatever in-place edits the applier made through Paragraph/Run
// XMLElement accessors) and repacks it into a .docx archive alongside
// every other original member, unchanged, in their original order.
func (d *Doc) Serialize() ([]byte, error) {
	xmlBytes, err := d.tree.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("docx: write document.xml: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	order := d.PartOrder
	if len(order) == 0 {
		// No recorded order (e.g. a Doc built by hand in a test): fall
		// back to document.xml plus whatever OtherParts holds.
		order = append(order, documentXMLPath)
		for name := range d.OtherParts {
			order = append(order, name)
		}
	}

	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("docx: create zip entry %s: %w", name, err)
		}
		content := xmlBytes
		if name != documentXMLPath {
			content = d.OtherParts[name]
		}
		if _, err := w.Write(content); err != nil {
			return nil, fmt.Errorf("docx: write zip entry %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx: close zip writer: %w", err)
	}

	return buf.Bytes(), nil
}
