package xmlcodec

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	stderrors "errors"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/mcncl/dataconv/internal/errors"
	"github.com/mcncl/dataconv/internal/models"
)

// xmlNode represents a generic XML element
type xmlNode struct {
	XMLName    xml.Name
	Attributes []xml.Attr `xml:",any,attr"`
	Content    string     `xml:",chardata"`
	Nodes      []xmlNode  `xml:",any"`
}

// Decode parses an XML document and projects its root element onto a
// models.Value:
//
//   - attributes go under "@attributes";
//   - children are keyed by tag name, repeated tags collapse into a List;
//   - an element with neither children nor attributes is a string scalar;
//   - other elements keep non-blank text under "_value".
//
// The root's own tag name is not part of the result.
func Decode(text string) (models.Value, error) {
	if strings.TrimSpace(text) == "" {
		return models.Value{}, errors.NewParsingError("XML input is empty", errors.ErrEmptyInput)
	}

	decoder := xml.NewDecoder(strings.NewReader(text))
	decoder.Strict = true
	decoder.CharsetReader = charsetReader

	start, err := rootStart(decoder)
	if err != nil {
		return models.Value{}, err
	}

	var root xmlNode
	if err := decoder.DecodeElement(&root, &start); err != nil {
		return models.Value{}, invalid(err)
	}

	if err := checkEpilogue(decoder); err != nil {
		return models.Value{}, err
	}

	return project(&root), nil
}

// rootStart skips the prolog and returns the root element's start tag.
func rootStart(decoder *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := decoder.Token()
		if err != nil {
			if stderrors.Is(err, io.EOF) {
				return xml.StartElement{}, errors.NewParsingError("document has no root element", errors.ErrInvalidXML)
			}
			return xml.StartElement{}, invalid(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				return xml.StartElement{}, errors.NewParsingError("text before the root element", errors.ErrInvalidXML)
			}
		}
	}
}

// checkEpilogue makes sure only comments, processing instructions and
// whitespace follow the root element.
func checkEpilogue(decoder *xml.Decoder) error {
	for {
		tok, err := decoder.Token()
		if err != nil {
			if stderrors.Is(err, io.EOF) {
				return nil
			}
			return invalid(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return errors.NewParsingError(fmt.Sprintf("second root element <%s>", t.Name.Local), errors.ErrMultipleRoots)
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				return errors.NewParsingError("text after the root element", errors.ErrInvalidXML)
			}
		}
	}
}

func invalid(err error) error {
	return errors.NewParsingError(err.Error(), errors.ErrInvalidXML)
}

// charsetReader lets documents declare any encoding the WHATWG index knows.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

func project(node *xmlNode) models.Value {
	attrs := attributes(node)
	if len(node.Nodes) == 0 && len(attrs) == 0 {
		return models.StringValue(node.Content)
	}

	result := models.NewOrderedMap()
	if len(attrs) > 0 {
		am := models.NewOrderedMap()
		for _, attr := range attrs {
			am.Set(attr.Name.Local, models.StringValue(attr.Value))
		}
		result.Set(models.AttributesKey, models.MapValue(am))
	}

	if len(node.Nodes) == 0 {
		if strings.TrimSpace(node.Content) != "" {
			result.Set(models.TextKey, models.StringValue(node.Content))
		}
		return models.MapValue(result)
	}
	if text := strings.TrimSpace(node.Content); text != "" {
		result.Set(models.TextKey, models.StringValue(text))
	}

	for i := range node.Nodes {
		child := &node.Nodes[i]
		name := child.XMLName.Local
		value := project(child)

		existing, ok := result.Get(name)
		switch {
		case !ok:
			result.Set(name, value)
		case existing.IsList():
			result.Set(name, models.ListValue(append(existing.Items(), value)...))
		default:
			result.Set(name, models.ListValue(existing, value))
		}
	}

	return models.MapValue(result)
}

// attributes drops namespace declarations, which are not data.
func attributes(node *xmlNode) []xml.Attr {
	var attrs []xml.Attr
	for _, attr := range node.Attributes {
		if attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns") {
			continue
		}
		attrs = append(attrs, attr)
	}
	return attrs
}
