package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	stderrors "errors" // Standard errors package

	"github.com/mcncl/dataconv/internal/errors" // Custom errors package
	"github.com/mcncl/dataconv/internal/models"
)

// Parse converts one JSON value from an io.Reader into a models.Value,
// keeping object key order. Numbers become number scalars holding their
// literal text.
func Parse(reader io.Reader) (models.Value, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // Ensure numbers are read as json.Number

	root, err := decodeValue(decoder)
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.Value{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.Value{}, classify(err)
	}

	// Anything but EOF after the first value is either garbage or a second value.
	if _, err := decoder.Token(); err != io.EOF {
		if err != nil {
			return models.Value{}, errors.NewParsingError("invalid trailing data after first JSON value", errors.ErrInvalidJSON)
		}
		return models.Value{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	}

	return root, nil
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Value, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.Value{}, errors.NewParsingError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// decodeValue reads the next complete value from the token stream.
func decodeValue(decoder *json.Decoder) (models.Value, error) {
	tok, err := decoder.Token()
	if err != nil {
		return models.Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(decoder)
		case '[':
			return decodeArray(decoder)
		default:
			return models.Value{}, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return models.StringValue(t), nil
	case json.Number:
		return models.NumberValue(t.String()), nil
	case bool:
		return models.BoolValue(t), nil
	case nil:
		return models.NullValue(), nil
	default:
		return models.Value{}, fmt.Errorf("unexpected token %v", t)
	}
}

func decodeObject(decoder *json.Decoder) (models.Value, error) {
	obj := models.NewOrderedMap()
	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return models.Value{}, unexpectedEOF(err)
		}
		key, ok := tok.(string)
		if !ok {
			return models.Value{}, fmt.Errorf("object key is %T, not a string", tok)
		}
		val, err := decodeValue(decoder)
		if err != nil {
			return models.Value{}, unexpectedEOF(err)
		}
		// Duplicate keys: the last value wins.
		obj.Set(key, val)
	}
	if _, err := decoder.Token(); err != nil {
		return models.Value{}, unexpectedEOF(err)
	}
	return models.MapValue(obj), nil
}

func decodeArray(decoder *json.Decoder) (models.Value, error) {
	items := []models.Value{}
	for decoder.More() {
		val, err := decodeValue(decoder)
		if err != nil {
			return models.Value{}, unexpectedEOF(err)
		}
		items = append(items, val)
	}
	if _, err := decoder.Token(); err != nil {
		return models.Value{}, unexpectedEOF(err)
	}
	return models.ListValue(items...), nil
}

// unexpectedEOF stops a truncated document from reading as empty input.
func unexpectedEOF(err error) error {
	if stderrors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func classify(err error) error {
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d: %s", syntaxError.Offset, syntaxError.Error()),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError(fmt.Sprintf("failed to decode JSON: %v", err), errors.ErrInvalidJSON)
}
