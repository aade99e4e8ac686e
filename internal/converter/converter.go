// Package converter stages one piece of data in up to five representations
// (array, CSV text, JSON text, object and XML text) and converts between
// them. Every conversion except ObjectToJSON passes through the array
// representation.
//
// A Converter is not safe for concurrent use. The codec packages it wraps
// are pure and can be called directly when no staging is needed.
package converter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcncl/dataconv/internal/config"
	"github.com/mcncl/dataconv/internal/csvcodec"
	"github.com/mcncl/dataconv/internal/errors"
	"github.com/mcncl/dataconv/internal/formatter"
	"github.com/mcncl/dataconv/internal/models"
	"github.com/mcncl/dataconv/internal/parser"
	"github.com/mcncl/dataconv/internal/xmlcodec"
)

const version = "2025.02.10"

// Version returns the converter version
func Version() string {
	return version
}

type slot[T any] struct {
	value T
	set   bool
}

func (s *slot[T]) put(v T) {
	s.value = v
	s.set = true
}

func (s *slot[T]) get(name string) (T, error) {
	if !s.set {
		var zero T
		return zero, errors.NewUninitializedError(name)
	}
	return s.value, nil
}

// Converter holds the current data in each representation. Setting one
// representation never clears the others.
type Converter struct {
	array  slot[models.Value]
	csv    slot[string]
	json   slot[string]
	object slot[any]
	xml    slot[string]

	cfg       *config.Config
	formatter *formatter.Formatter
	files     Files
	logger    *slog.Logger
}

// Option configures a Converter
type Option func(*Converter)

// WithLogger sets the logger conversions are reported to
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// WithFiles replaces the file access used by the Load and Save methods
func WithFiles(files Files) Option {
	return func(c *Converter) {
		c.files = files
	}
}

// New creates a Converter with the default configuration
func New(opts ...Option) *Converter {
	return NewWithConfig(config.NewConfig(), opts...)
}

// NewWithConfig creates a Converter. The CSV dialect drives the derived
// conversions, the XML tag case applies to every XML encode, and a
// non-empty output indent pretty-prints JSON and XML results.
func NewWithConfig(cfg *config.Config, opts ...Option) *Converter {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	c := &Converter{
		cfg:       cfg,
		formatter: formatter.NewFormatter(cfg.Output.Indent),
		files:     OSFiles{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Array returns the array representation
func (c *Converter) Array() (models.Value, error) { return c.array.get("array") }

// SetArray replaces the array representation
func (c *Converter) SetArray(v models.Value) { c.array.put(v) }

// CSV returns the CSV text
func (c *Converter) CSV() (string, error) { return c.csv.get("CSV") }

// SetCSV replaces the CSV text
func (c *Converter) SetCSV(text string) { c.csv.put(text) }

// JSON returns the JSON text
func (c *Converter) JSON() (string, error) { return c.json.get("JSON") }

// SetJSON replaces the JSON text
func (c *Converter) SetJSON(text string) { c.json.put(text) }

// Object returns the object representation
func (c *Converter) Object() (any, error) { return c.object.get("object") }

// SetObject replaces the object representation. Any value encoding/json
// can marshal is accepted.
func (c *Converter) SetObject(obj any) { c.object.put(obj) }

// XML returns the XML text
func (c *Converter) XML() (string, error) { return c.xml.get("XML") }

// SetXML replaces the XML text
func (c *Converter) SetXML(text string) { c.xml.put(text) }

// CSVToArray decodes the CSV text. The enclosure comes from the configuration.
func (c *Converter) CSVToArray(delimiter rune, headerMode bool) (models.Value, error) {
	start := time.Now()
	text, err := c.csv.get("CSV")
	if err != nil {
		return models.Value{}, err
	}

	opts := c.cfg.CSVOptions()
	opts.Delimiter = delimiter
	opts.HeaderMode = headerMode
	v, err := csvcodec.Decode(text, opts)
	if err != nil {
		return models.Value{}, err
	}

	c.array.put(v)
	c.logConversion("csv", "array", start, "records", v.Len(), "header", headerMode)
	return v, nil
}

// JSONToArray decodes the JSON text
func (c *Converter) JSONToArray() (models.Value, error) {
	start := time.Now()
	text, err := c.json.get("JSON")
	if err != nil {
		return models.Value{}, err
	}

	v, err := parser.ParseString(text)
	if err != nil {
		return models.Value{}, err
	}

	c.array.put(v)
	c.logConversion("json", "array", start, "kind", v.Kind())
	return v, nil
}

// ObjectToArray re-reads the object through its JSON encoding
func (c *Converter) ObjectToArray() (models.Value, error) {
	start := time.Now()
	obj, err := c.object.get("object")
	if err != nil {
		return models.Value{}, err
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return models.Value{}, errors.NewShapeError(fmt.Sprintf("cannot represent %T as data", obj), err)
	}
	v, err := parser.ParseString(string(data))
	if err != nil {
		return models.Value{}, err
	}

	c.array.put(v)
	c.logConversion("object", "array", start, "kind", v.Kind())
	return v, nil
}

// XMLToArray decodes the XML text. The root element's name is dropped.
func (c *Converter) XMLToArray() (models.Value, error) {
	start := time.Now()
	text, err := c.xml.get("XML")
	if err != nil {
		return models.Value{}, err
	}

	v, err := xmlcodec.Decode(text)
	if err != nil {
		return models.Value{}, err
	}

	c.array.put(v)
	c.logConversion("xml", "array", start, "kind", v.Kind())
	return v, nil
}

// ArrayToCSV encodes the array as header-first CSV text
func (c *Converter) ArrayToCSV(delimiter, enclosure rune) (string, error) {
	start := time.Now()
	v, err := c.array.get("array")
	if err != nil {
		return "", err
	}

	text, err := csvcodec.Encode(v, csvcodec.Options{Delimiter: delimiter, Enclosure: enclosure})
	if err != nil {
		return "", err
	}

	c.csv.put(text)
	c.logConversion("array", "csv", start, "bytes", len(text))
	return text, nil
}

// ArrayToJSON encodes the array as JSON, keeping map key order
func (c *Converter) ArrayToJSON() (string, error) {
	start := time.Now()
	v, err := c.array.get("array")
	if err != nil {
		return "", err
	}

	data, err := v.MarshalJSON()
	if err != nil {
		return "", errors.NewShapeError("cannot encode array as JSON", err)
	}
	text, err := c.formatter.FormatJSON(string(data))
	if err != nil {
		return "", errors.NewOutputError("failed to format JSON", err)
	}

	c.json.put(text)
	c.logConversion("array", "json", start, "bytes", len(text))
	return text, nil
}

// ArrayToObject converts the array to nested models.JSONObject and
// models.JSONArray values
func (c *Converter) ArrayToObject() (any, error) {
	start := time.Now()
	v, err := c.array.get("array")
	if err != nil {
		return nil, err
	}

	obj := v.ToNative()
	c.object.put(obj)
	c.logConversion("array", "object", start, "kind", v.Kind())
	return obj, nil
}

// ArrayToXML encodes the array under a rootNode element. Empty rootNode and
// prevKey fall back to the XML defaults.
func (c *Converter) ArrayToXML(rootNode, prevKey string) (string, error) {
	start := time.Now()
	v, err := c.array.get("array")
	if err != nil {
		return "", err
	}

	text, err := xmlcodec.Encode(v, rootNode, prevKey, c.cfg.XMLOptions())
	if err != nil {
		return "", err
	}
	text, err = c.formatter.FormatXML(text)
	if err != nil {
		return "", errors.NewOutputError("failed to format XML", err)
	}

	c.xml.put(text)
	c.logConversion("array", "xml", start, "bytes", len(text), "root", rootNode)
	return text, nil
}

// marshalObject encodes an object as JSON without HTML escaping, matching
// the array encoder.
func marshalObject(obj any) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(obj); err != nil {
		return "", err
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

func (c *Converter) logConversion(from, to string, start time.Time, attrs ...any) {
	attrs = append([]any{"from", from, "to", to, "duration", time.Since(start)}, attrs...)
	c.logger.Debug("converted", attrs...)
}
