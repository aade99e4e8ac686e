package converter

import (
	"time"

	"github.com/mcncl/dataconv/internal/errors"
)

// The conversions below chain two primitives through the array
// representation, using the configured CSV dialect. Each leaves both the
// array and the target representation set.

func (c *Converter) csvToArray() error {
	opts := c.cfg.CSVOptions()
	_, err := c.CSVToArray(opts.Delimiter, opts.HeaderMode)
	return err
}

func (c *Converter) arrayToCSV() (string, error) {
	opts := c.cfg.CSVOptions()
	return c.ArrayToCSV(opts.Delimiter, opts.Enclosure)
}

// CSVToJSON converts the CSV text to JSON
func (c *Converter) CSVToJSON() (string, error) {
	if err := c.csvToArray(); err != nil {
		return "", err
	}
	return c.ArrayToJSON()
}

// CSVToObject converts the CSV text to an object
func (c *Converter) CSVToObject() (any, error) {
	if err := c.csvToArray(); err != nil {
		return nil, err
	}
	return c.ArrayToObject()
}

// CSVToXML converts the CSV text to XML. Records become <prevKey> elements.
func (c *Converter) CSVToXML(rootNode, prevKey string) (string, error) {
	if err := c.csvToArray(); err != nil {
		return "", err
	}
	return c.ArrayToXML(rootNode, prevKey)
}

// JSONToCSV converts the JSON text to CSV
func (c *Converter) JSONToCSV() (string, error) {
	if _, err := c.JSONToArray(); err != nil {
		return "", err
	}
	return c.arrayToCSV()
}

// JSONToObject converts the JSON text to an object
func (c *Converter) JSONToObject() (any, error) {
	if _, err := c.JSONToArray(); err != nil {
		return nil, err
	}
	return c.ArrayToObject()
}

// JSONToXML converts the JSON text to XML
func (c *Converter) JSONToXML(rootNode, prevKey string) (string, error) {
	if _, err := c.JSONToArray(); err != nil {
		return "", err
	}
	return c.ArrayToXML(rootNode, prevKey)
}

// ObjectToCSV converts the object to CSV
func (c *Converter) ObjectToCSV() (string, error) {
	if _, err := c.ObjectToArray(); err != nil {
		return "", err
	}
	return c.arrayToCSV()
}

// ObjectToJSON marshals the object straight to JSON. The array
// representation is left alone.
func (c *Converter) ObjectToJSON() (string, error) {
	start := time.Now()
	obj, err := c.object.get("object")
	if err != nil {
		return "", err
	}

	text, err := marshalObject(obj)
	if err != nil {
		return "", errors.NewShapeError("cannot encode object as JSON", err)
	}
	text, err = c.formatter.FormatJSON(text)
	if err != nil {
		return "", errors.NewOutputError("failed to format JSON", err)
	}

	c.json.put(text)
	c.logConversion("object", "json", start, "bytes", len(text))
	return text, nil
}

// ObjectToXML converts the object to XML
func (c *Converter) ObjectToXML(rootNode, prevKey string) (string, error) {
	if _, err := c.ObjectToArray(); err != nil {
		return "", err
	}
	return c.ArrayToXML(rootNode, prevKey)
}

// XMLToCSV converts the XML text to CSV
func (c *Converter) XMLToCSV() (string, error) {
	if _, err := c.XMLToArray(); err != nil {
		return "", err
	}
	return c.arrayToCSV()
}

// XMLToJSON converts the XML text to JSON
func (c *Converter) XMLToJSON() (string, error) {
	if _, err := c.XMLToArray(); err != nil {
		return "", err
	}
	return c.ArrayToJSON()
}

// XMLToObject converts the XML text to an object
func (c *Converter) XMLToObject() (any, error) {
	if _, err := c.XMLToArray(); err != nil {
		return nil, err
	}
	return c.ArrayToObject()
}
