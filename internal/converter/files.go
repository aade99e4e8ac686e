package converter

import (
	"fmt"
	"os"

	"github.com/mcncl/dataconv/internal/errors"
)

// Files reads and writes whole text files
type Files interface {
	ReadFile(path string) (string, error)
	WriteFile(path, text string) error
}

// OSFiles is the Files implementation backed by the local file system
type OSFiles struct{}

// ReadFile reads the file at path
func (OSFiles) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile creates or truncates the file at path
func (OSFiles) WriteFile(path, text string) error {
	return os.WriteFile(path, []byte(text), 0o644)
}

func (c *Converter) load(path, format string, target *slot[string]) error {
	text, err := c.files.ReadFile(path)
	if err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to read %s file '%s'", format, path), err)
	}
	target.put(text)
	c.logger.Debug("loaded file", "format", format, "path", path, "bytes", len(text))
	return nil
}

func (c *Converter) save(path, format string, source *slot[string]) error {
	text, err := source.get(format)
	if err != nil {
		return err
	}
	if err := c.files.WriteFile(path, text); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to write %s file '%s'", format, path), err)
	}
	c.logger.Debug("saved file", "format", format, "path", path, "bytes", len(text))
	return nil
}

// LoadCSV reads CSV text from path
func (c *Converter) LoadCSV(path string) error { return c.load(path, "CSV", &c.csv) }

// SaveCSV writes the CSV text to path
func (c *Converter) SaveCSV(path string) error { return c.save(path, "CSV", &c.csv) }

// LoadJSON reads JSON text from path
func (c *Converter) LoadJSON(path string) error { return c.load(path, "JSON", &c.json) }

// SaveJSON writes the JSON text to path
func (c *Converter) SaveJSON(path string) error { return c.save(path, "JSON", &c.json) }

// LoadXML reads XML text from path
func (c *Converter) LoadXML(path string) error { return c.load(path, "XML", &c.xml) }

// SaveXML writes the XML text to path
func (c *Converter) SaveXML(path string) error { return c.save(path, "XML", &c.xml) }
