package models

import (
	"fmt"
	"strconv"
)

// JSONValue is a generic type to represent any JSON value in its native Go
// form: string, json.Number, bool, nil, JSONObject or JSONArray.
type JSONValue interface{}

// JSONObject represents a JSON object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// Reserved keys of the XML mapping convention.
const (
	AttributesKey = "@attributes"
	TextKey       = "_value"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ScalarType records where a scalar came from so JSON output can write it
// back the way it was read. CSV and XML only ever produce ScalarString.
type ScalarType int

const (
	ScalarString ScalarType = iota
	ScalarNumber
	ScalarBool
)

// Value is the intermediate representation every conversion passes through.
// The zero Value is Null.
type Value struct {
	kind   Kind
	scalar ScalarType
	text   string
	items  []Value
	fields *OrderedMap
}

// NullValue returns the Null value.
func NullValue() Value {
	return Value{}
}

// StringValue returns a string scalar.
func StringValue(s string) Value {
	return Value{kind: KindScalar, scalar: ScalarString, text: s}
}

// NumberValue returns a number scalar holding the literal as written.
func NumberValue(literal string) Value {
	return Value{kind: KindScalar, scalar: ScalarNumber, text: literal}
}

// BoolValue returns a bool scalar.
func BoolValue(b bool) Value {
	return Value{kind: KindScalar, scalar: ScalarBool, text: strconv.FormatBool(b)}
}

// ListValue returns a list of the given items.
func ListValue(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, items: items}
}

// MapValue wraps an ordered map. A nil map is treated as empty.
func MapValue(m *OrderedMap) Value {
	if m == nil {
		m = NewOrderedMap()
	}
	return Value{kind: KindMap, fields: m}
}

// Pair is a key/value entry used to build maps inline.
type Pair struct {
	Key   string
	Value Value
}

// P is shorthand for a Pair.
func P(key string, v Value) Pair {
	return Pair{Key: key, Value: v}
}

// MapOf builds a map value from pairs, in order.
func MapOf(pairs ...Pair) Value {
	m := NewOrderedMap()
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return MapValue(m)
}

func (v Value) Kind() Kind             { return v.kind }
func (v Value) IsNull() bool           { return v.kind == KindNull }
func (v Value) IsScalar() bool         { return v.kind == KindScalar }
func (v Value) IsList() bool           { return v.kind == KindList }
func (v Value) IsMap() bool            { return v.kind == KindMap }
func (v Value) ScalarType() ScalarType { return v.scalar }

// IsContainer reports whether v is a List or a Map.
func (v Value) IsContainer() bool {
	return v.kind == KindList || v.kind == KindMap
}

// Text returns the scalar text, or "" for every other kind.
func (v Value) Text() string {
	if v.kind != KindScalar {
		return ""
	}
	return v.text
}

// Items returns the list items, or nil when v is not a List.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.items
}

// Fields returns the map, or nil when v is not a Map.
func (v Value) Fields() *OrderedMap {
	if v.kind != KindMap {
		return nil
	}
	return v.fields
}

// Len returns the number of items or entries of a container, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.items)
	case KindMap:
		return v.fields.Len()
	default:
		return 0
	}
}

// Equal reports deep structural equality, including map key order and
// scalar types.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindScalar:
		return v.scalar == other.scalar && v.text == other.text
	case KindList:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.fields.Equal(other.fields)
	}
	return false
}

// String renders v as compact JSON, for debugging and test output.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid %s: %v>", v.kind, err)
	}
	return string(b)
}
