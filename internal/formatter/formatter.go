package formatter

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Formatter pretty-prints the JSON and XML text the converter produces
type Formatter struct {
	indent string
}

// NewFormatter creates a new Formatter. An empty indent leaves text as is.
func NewFormatter(indent string) *Formatter {
	return &Formatter{indent: indent}
}

// Enabled reports whether the formatter changes anything
func (f *Formatter) Enabled() bool {
	return f.indent != ""
}

// FormatJSON re-indents a JSON document
func (f *Formatter) FormatJSON(text string) (string, error) {
	if !f.Enabled() || strings.TrimSpace(text) == "" {
		return text, nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(text), "", f.indent); err != nil {
		return "", fmt.Errorf("failed to indent JSON: %w", err)
	}
	return buf.String(), nil
}

// FormatXML re-indents an XML document. Whitespace-only text between
// elements is dropped and replaced by the indentation.
func (f *Formatter) FormatXML(text string) (string, error) {
	if !f.Enabled() || strings.TrimSpace(text) == "" {
		return text, nil
	}

	decoder := xml.NewDecoder(strings.NewReader(text))
	var buf bytes.Buffer
	encoder := xml.NewEncoder(&buf)
	encoder.Indent("", f.indent)

	for {
		tok, err := decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.CharData:
			if len(bytes.TrimSpace(t)) == 0 {
				continue
			}
		case xml.ProcInst:
			// Written directly so the root element starts on its own line.
			if t.Target == "xml" {
				buf.WriteString("<?xml " + string(t.Inst) + "?>\n")
				continue
			}
		}

		if err := encoder.EncodeToken(xml.CopyToken(tok)); err != nil {
			return "", fmt.Errorf("failed to write XML: %w", err)
		}
	}

	if err := encoder.Flush(); err != nil {
		return "", fmt.Errorf("failed to write XML: %w", err)
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}
