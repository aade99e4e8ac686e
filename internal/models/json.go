package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON writes v as JSON, keeping map key order. Number scalars are
// written as their literal, which must itself be valid JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindScalar:
		switch v.scalar {
		case ScalarNumber:
			if !json.Valid([]byte(v.text)) {
				return fmt.Errorf("invalid number literal %q", v.text)
			}
			buf.WriteString(v.text)
		case ScalarBool:
			buf.WriteString(v.text)
		default:
			writeJSONString(buf, v.text)
		}
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		i := 0
		for k, item := range v.fields.All() {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, k)
			buf.WriteByte(':')
			if err := item.writeJSON(buf); err != nil {
				return err
			}
			i++
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind %s", v.kind)
	}
	return nil
}

// writeJSONString quotes s without HTML escaping, so '<' and '&' in CSV or
// XML text survive as themselves.
func writeJSONString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
}
