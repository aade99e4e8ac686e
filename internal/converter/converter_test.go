package converter

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/dataconv/internal/config"
	"github.com/mcncl/dataconv/internal/errors"
	"github.com/mcncl/dataconv/internal/models"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

func TestVersion(t *testing.T) {
	assert.Equal(t, "2025.02.10", Version())
}

func TestGetters_Unset(t *testing.T) {
	c := New()

	_, err := c.Array()
	assert.True(t, stderrors.Is(err, errors.UninitializedSlot), "Array: %v", err)
	_, err = c.CSV()
	assert.True(t, stderrors.Is(err, errors.UninitializedSlot), "CSV: %v", err)
	_, err = c.JSON()
	assert.True(t, stderrors.Is(err, errors.UninitializedSlot), "JSON: %v", err)
	_, err = c.Object()
	assert.True(t, stderrors.Is(err, errors.UninitializedSlot), "Object: %v", err)
	_, err = c.XML()
	assert.True(t, stderrors.Is(err, errors.UninitializedSlot), "XML: %v", err)
	assert.True(t, stderrors.Is(err, errors.ErrNotSet))
}

func TestSetters(t *testing.T) {
	c := New()
	record := models.MapOf(models.P("a", models.StringValue("1")))

	c.SetArray(record)
	c.SetCSV("a\n1")
	c.SetJSON(`{"a":"1"}`)
	c.SetObject(map[string]any{"a": "1"})
	c.SetXML("<root><a>1</a></root>")

	array, err := c.Array()
	require.NoError(t, err)
	assert.True(t, record.Equal(array))

	csv, err := c.CSV()
	require.NoError(t, err)
	assert.Equal(t, "a\n1", csv)

	jsonText, err := c.JSON()
	require.NoError(t, err)
	assert.Equal(t, `{"a":"1"}`, jsonText)

	obj, err := c.Object()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "1"}, obj)

	xmlText, err := c.XML()
	require.NoError(t, err)
	assert.Equal(t, "<root><a>1</a></root>", xmlText)
}

func TestSetEmptyTextIsSet(t *testing.T) {
	c := New()
	c.SetCSV("")

	// Empty text is still data: it decodes to no records
	v, err := c.CSVToArray(';', true)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Len())
}

func TestConversions_UnsetSource(t *testing.T) {
	tests := []struct {
		name string
		run  func(c *Converter) error
	}{
		{"CSVToArray", func(c *Converter) error { _, err := c.CSVToArray(';', true); return err }},
		{"JSONToArray", func(c *Converter) error { _, err := c.JSONToArray(); return err }},
		{"ObjectToArray", func(c *Converter) error { _, err := c.ObjectToArray(); return err }},
		{"XMLToArray", func(c *Converter) error { _, err := c.XMLToArray(); return err }},
		{"ArrayToCSV", func(c *Converter) error { _, err := c.ArrayToCSV(';', '"'); return err }},
		{"ArrayToJSON", func(c *Converter) error { _, err := c.ArrayToJSON(); return err }},
		{"ArrayToObject", func(c *Converter) error { _, err := c.ArrayToObject(); return err }},
		{"ArrayToXML", func(c *Converter) error { _, err := c.ArrayToXML("root", "data"); return err }},
		{"CSVToJSON", func(c *Converter) error { _, err := c.CSVToJSON(); return err }},
		{"JSONToXML", func(c *Converter) error { _, err := c.JSONToXML("", ""); return err }},
		{"ObjectToJSON", func(c *Converter) error { _, err := c.ObjectToJSON(); return err }},
		{"XMLToObject", func(c *Converter) error { _, err := c.XMLToObject(); return err }},
		{"SaveCSV", func(c *Converter) error { return c.SaveCSV("unused.csv") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(New())
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.UninitializedSlot), "got %v", err)
		})
	}
}

func TestCSVToArray(t *testing.T) {
	c := New()
	c.SetCSV("a;b\n1;2\n3;4")

	got, err := c.CSVToArray(';', true)
	require.NoError(t, err)
	want := models.ListValue(
		models.MapOf(models.P("a", models.StringValue("1")), models.P("b", models.StringValue("2"))),
		models.MapOf(models.P("a", models.StringValue("3")), models.P("b", models.StringValue("4"))),
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("header mode mismatch (-want +got):\n%s", diff)
	}

	got, err = c.CSVToArray(';', false)
	require.NoError(t, err)
	row := func(a, b string) models.Value {
		return models.ListValue(models.StringValue(a), models.StringValue(b))
	}
	want = models.ListValue(row("a", "b"), row("1", "2"), row("3", "4"))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("positional mode mismatch (-want +got):\n%s", diff)
	}

	stored, err := c.Array()
	require.NoError(t, err)
	assert.True(t, want.Equal(stored))
}

func TestCSVToArray_SkipsBlankLines(t *testing.T) {
	c := New()
	c.SetCSV("a;b\n1;2\n\n3;4\n")

	got, err := c.CSVToArray(';', true)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}

func TestCSVToArray_HeaderMismatch(t *testing.T) {
	c := New()
	c.SetCSV("a;b\n1;2;3")

	_, err := c.CSVToArray(';', true)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ParseError))
	assert.True(t, stderrors.Is(err, errors.ErrMalformedRow))
}

func TestArrayToCSV(t *testing.T) {
	c := New()
	c.SetArray(models.ListValue(models.MapOf(
		models.P("name", models.StringValue("Al")),
		models.P("age", models.StringValue("9")),
	)))

	got, err := c.ArrayToCSV(';', '"')
	require.NoError(t, err)
	assert.Equal(t, "name;age\nAl;9", got)

	got, err = c.ArrayToCSV(',', '\'')
	require.NoError(t, err)
	assert.Equal(t, "name,age\nAl,9", got)

	stored, err := c.CSV()
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestArrayToCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		array models.Value
		want  error
	}{
		{"empty dataset", models.ListValue(), errors.ErrEmptyDataset},
		{"positional rows", models.ListValue(models.ListValue(models.StringValue("a"))), errors.ErrNotRecord},
		{"nested field", models.ListValue(models.MapOf(models.P("a", models.ListValue()))), errors.ErrNestedField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.SetCSV("untouched")
			c.SetArray(tt.array)

			_, err := c.ArrayToCSV(';', '"')
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.UnsupportedShape), "got %v", err)
			assert.True(t, stderrors.Is(err, tt.want), "got %v", err)

			// A failed conversion leaves the target alone
			csv, err := c.CSV()
			require.NoError(t, err)
			assert.Equal(t, "untouched", csv)
		})
	}
}

func TestJSONToArray_NumericPolicy(t *testing.T) {
	c := New()
	c.SetJSON(`{"n":1.50,"s":"1.50","b":true,"z":null}`)

	got, err := c.JSONToArray()
	require.NoError(t, err)
	want := models.MapOf(
		models.P("n", models.NumberValue("1.50")),
		models.P("s", models.StringValue("1.50")),
		models.P("b", models.BoolValue(true)),
		models.P("z", models.NullValue()),
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSONToArray() mismatch (-want +got):\n%s", diff)
	}

	out, err := c.ArrayToJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"n":1.50,"s":"1.50","b":true,"z":null}`, out)
}

func TestJSONToArray_FailureKeepsArray(t *testing.T) {
	c := New()
	c.SetJSON(`{"a":"1"}`)
	first, err := c.JSONToArray()
	require.NoError(t, err)

	c.SetJSON(`{"a":`)
	_, err = c.JSONToArray()
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ParseError))

	stored, err := c.Array()
	require.NoError(t, err)
	assert.True(t, first.Equal(stored))
}

func TestArrayJSONRoundTrip(t *testing.T) {
	values := []models.Value{
		models.NullValue(),
		models.StringValue("a<b&c"),
		models.ListValue(),
		models.MapOf(),
		models.MapOf(
			models.P("id", models.NumberValue("-12e3")),
			models.P("tags", models.ListValue(models.StringValue("x"), models.BoolValue(false))),
			models.P("nested", models.MapOf(models.P("deep", models.ListValue(models.MapOf())))),
		),
	}

	for _, v := range values {
		c := New()
		c.SetArray(v)
		_, err := c.ArrayToJSON()
		require.NoError(t, err)

		got, err := c.JSONToArray()
		require.NoError(t, err)
		if diff := cmp.Diff(v, got); diff != "" {
			t.Errorf("round trip of %s mismatch (-want +got):\n%s", v, diff)
		}
	}
}

func TestArrayToJSON_InvalidNumber(t *testing.T) {
	c := New()
	c.SetArray(models.ListValue(models.NumberValue("0x1F")))

	_, err := c.ArrayToJSON()
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.UnsupportedShape))
}

func TestArrayToJSON_Indent(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Output.Indent = "  "
	c := NewWithConfig(cfg)
	c.SetArray(models.MapOf(models.P("a", models.ListValue(models.StringValue("1")))))

	got, err := c.ArrayToJSON()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": [\n    \"1\"\n  ]\n}", got)
}

func TestArrayToXML(t *testing.T) {
	c := New()
	c.SetArray(models.MapOf(
		models.P(models.AttributesKey, models.MapOf(models.P("id", models.StringValue("1")))),
		models.P("name", models.StringValue("X")),
	))

	got, err := c.ArrayToXML("root", "data")
	require.NoError(t, err)
	assert.Equal(t, xmlHeader+`<root id="1"><name>X</name></root>`+"\n", got)

	stored, err := c.XML()
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestArrayToXML_Errors(t *testing.T) {
	c := New()
	c.SetArray(models.MapOf(models.P("1st", models.StringValue("x"))))
	_, err := c.ArrayToXML("root", "data")
	assert.True(t, stderrors.Is(err, errors.InvalidTagName), "got %v", err)

	c.SetArray(models.StringValue("x"))
	_, err = c.ArrayToXML("root", "data")
	assert.True(t, stderrors.Is(err, errors.UnsupportedShape), "got %v", err)

	_, err = c.XML()
	assert.True(t, stderrors.Is(err, errors.UninitializedSlot), "failed encodes must not set XML")
}

func TestArrayToXML_TagCaseAndIndent(t *testing.T) {
	cfg := config.NewConfig()
	cfg.XML.TagCase = "snake"
	cfg.Output.Indent = "  "
	c := NewWithConfig(cfg)
	c.SetArray(models.MapOf(models.P("firstName", models.StringValue("Al"))))

	got, err := c.ArrayToXML("person", "")
	require.NoError(t, err)
	assert.Equal(t, xmlHeader+"<person>\n  <first_name>Al</first_name>\n</person>\n", got)
}

func TestXMLToArray(t *testing.T) {
	c := New()
	c.SetXML(`<root><a>1</a><b>x</b><b>y</b></root>`)

	got, err := c.XMLToArray()
	require.NoError(t, err)
	want := models.MapOf(
		models.P("a", models.StringValue("1")),
		models.P("b", models.ListValue(models.StringValue("x"), models.StringValue("y"))),
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("XMLToArray() mismatch (-want +got):\n%s", diff)
	}
}

func TestXMLToArray_Malformed(t *testing.T) {
	for _, input := range []string{"<root><a></root>", "<a/><b/>", "not xml", ""} {
		c := New()
		c.SetXML(input)
		_, err := c.XMLToArray()
		require.Error(t, err, "input %q", input)
		assert.True(t, stderrors.Is(err, errors.ParseError), "input %q: %v", input, err)
	}
}

func TestArrayXMLRoundTrip(t *testing.T) {
	v := models.MapOf(
		models.P("name", models.StringValue("X & Y")),
		models.P("tags", models.ListValue(models.StringValue("a"), models.StringValue("b"))),
		models.P("count", models.StringValue("3")),
	)

	c := New()
	c.SetArray(v)
	_, err := c.ArrayToXML("root", "data")
	require.NoError(t, err)

	got, err := c.XMLToArray()
	require.NoError(t, err)
	if diff := cmp.Diff(v, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectToArray(t *testing.T) {
	type person struct {
		Name string   `json:"name"`
		Tags []string `json:"tags"`
		Age  int      `json:"age"`
	}

	c := New()
	c.SetObject(person{Name: "Al", Tags: []string{"x", "y"}, Age: 9})

	got, err := c.ObjectToArray()
	require.NoError(t, err)
	want := models.MapOf(
		models.P("name", models.StringValue("Al")),
		models.P("tags", models.ListValue(models.StringValue("x"), models.StringValue("y"))),
		models.P("age", models.NumberValue("9")),
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ObjectToArray() mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectToArray_Unsupported(t *testing.T) {
	c := New()
	c.SetObject(map[string]any{"ch": make(chan int)})

	_, err := c.ObjectToArray()
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.UnsupportedShape))
}

func TestArrayToObject(t *testing.T) {
	c := New()
	c.SetArray(models.MapOf(
		models.P("n", models.NumberValue("2")),
		models.P("l", models.ListValue(models.BoolValue(true), models.NullValue(), models.StringValue("s"))),
	))

	got, err := c.ArrayToObject()
	require.NoError(t, err)
	want := models.JSONObject{
		"n": json.Number("2"),
		"l": models.JSONArray{true, nil, "s"},
	}
	assert.Equal(t, want, got)

	stored, err := c.Object()
	require.NoError(t, err)
	assert.Equal(t, want, stored)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := New(WithLogger(logger))
	c.SetCSV("a;b\n1;2")
	_, err := c.CSVToArray(';', true)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "msg=converted from=csv to=array")
	assert.Contains(t, buf.String(), "records=1")
}
