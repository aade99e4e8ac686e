// Package xmlcodec maps models.Value trees to XML documents and back.
//
// Values map to XML by key-naming convention:
//
//   - a List under key k becomes repeated sibling <k> elements;
//   - the entries of a Map under "@attributes" become attributes of the
//     element that holds it;
//   - a scalar under "_value" becomes the text of the element that holds it;
//   - an integer key (a list position) takes the name of the enclosing key,
//     or the prevKey passed to Encode at the top level.
//
// Decode applies the same conventions in reverse, so documents that only
// hold scalars and lists of scalars round-trip.
package xmlcodec

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/mcncl/dataconv/internal/errors"
	"github.com/mcncl/dataconv/internal/models"
)

const (
	DefaultRootNode = "root"
	DefaultPrevKey  = "data"
)

// Options controls encoding.
type Options struct {
	TagCase TagCase
}

type element struct {
	name     string
	attrs    []xml.Attr
	text     string
	children []*element
}

func (el *element) add(name, text string) *element {
	child := &element{name: name, text: text}
	el.children = append(el.children, child)
	return child
}

type encoder struct {
	opts Options
}

// Encode renders v as an XML document whose root element is rootNode.
// v must be a Map or a List. Empty rootNode and prevKey fall back to
// DefaultRootNode and DefaultPrevKey.
func Encode(v models.Value, rootNode, prevKey string, opts Options) (string, error) {
	if rootNode == "" {
		rootNode = DefaultRootNode
	}
	if prevKey == "" {
		prevKey = DefaultPrevKey
	}
	if !IsValidName(rootNode) {
		return "", errors.NewTagNameError(rootNode)
	}
	if !v.IsContainer() {
		return "", errors.NewShapeError(fmt.Sprintf("cannot encode a %s as an XML document, need a map or list", v.Kind()), errors.ErrNotRecord)
	}

	root := &element{name: rootNode}
	text, err := textOf(v)
	if err != nil {
		return "", err
	}
	root.text = text

	e := &encoder{opts: opts}
	if err := e.fill(root, v, prevKey); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	if err := writeElement(enc, root); err != nil {
		return "", fmt.Errorf("writing XML: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return "", fmt.Errorf("writing XML: %w", err)
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

// fill adds the entries of container v to el.
func (e *encoder) fill(el *element, v models.Value, prevKey string) error {
	if v.IsList() {
		for i, item := range v.Items() {
			if err := e.entry(el, strconv.Itoa(i), true, item, prevKey); err != nil {
				return err
			}
		}
		return nil
	}
	for key, item := range v.Fields().All() {
		if err := e.entry(el, key, isIndexKey(key), item, prevKey); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) entry(el *element, key string, index bool, v models.Value, prevKey string) error {
	if key == models.TextKey && !index {
		// Consumed as el's text when el was created.
		return nil
	}

	switch {
	case v.IsList():
		name, err := e.elementName(key, index, prevKey)
		if err != nil {
			return err
		}
		if v.Len() == 0 {
			el.add(name, "")
			return nil
		}
		for _, item := range v.Items() {
			if item.IsContainer() {
				if err := e.container(el, name, item); err != nil {
					return err
				}
				continue
			}
			el.add(name, item.Text())
		}
		return nil

	case key == models.AttributesKey && v.IsMap():
		return e.attributes(el, v)

	case v.IsMap():
		name, err := e.elementName(key, index, prevKey)
		if err != nil {
			return err
		}
		return e.container(el, name, v)

	default:
		name, err := e.elementName(key, index, prevKey)
		if err != nil {
			return err
		}
		el.add(name, v.Text())
		return nil
	}
}

// container adds a child element for a Map or List and recurses into it.
func (e *encoder) container(el *element, name string, v models.Value) error {
	text, err := textOf(v)
	if err != nil {
		return err
	}
	child := el.add(name, text)
	return e.fill(child, v, name)
}

func (e *encoder) attributes(el *element, attrs models.Value) error {
	for key, v := range attrs.Fields().All() {
		name := e.opts.TagCase.apply(key)
		if !IsValidName(name) {
			return errors.NewTagNameError(name)
		}
		if v.IsContainer() {
			return errors.NewShapeError(fmt.Sprintf("attribute %q of <%s> is a %s", name, el.name, v.Kind()), errors.ErrNestedField)
		}
		for _, existing := range el.attrs {
			if existing.Name.Local == name {
				return errors.NewShapeError(fmt.Sprintf("duplicate attribute %q on <%s>", name, el.name), nil)
			}
		}
		el.attrs = append(el.attrs, xml.Attr{Name: xml.Name{Local: name}, Value: v.Text()})
	}
	return nil
}

// elementName picks the tag for an entry: prevKey for list positions, the
// (case-rewritten) key otherwise.
func (e *encoder) elementName(key string, index bool, prevKey string) (string, error) {
	name := prevKey
	if !index {
		name = key
		if key != models.AttributesKey && key != models.TextKey {
			name = e.opts.TagCase.apply(key)
		}
	}
	if !IsValidName(name) {
		return "", errors.NewTagNameError(name)
	}
	return name, nil
}

// textOf returns the _value text of a Map; non-maps have none.
func textOf(v models.Value) (string, error) {
	if !v.IsMap() {
		return "", nil
	}
	text, ok := v.Fields().Get(models.TextKey)
	if !ok {
		return "", nil
	}
	if text.IsContainer() {
		return "", errors.NewShapeError(fmt.Sprintf("%s must be a scalar, got a %s", models.TextKey, text.Kind()), errors.ErrNestedField)
	}
	return text.Text(), nil
}

func writeElement(enc *xml.Encoder, el *element) error {
	start := xml.StartElement{Name: xml.Name{Local: el.name}, Attr: el.attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if el.text != "" {
		if err := enc.EncodeToken(xml.CharData(el.text)); err != nil {
			return err
		}
	}
	for _, child := range el.children {
		if err := writeElement(enc, child); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
