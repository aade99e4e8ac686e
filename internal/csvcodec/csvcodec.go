// Package csvcodec converts between single-line delimited text records and
// models.Value rows.
package csvcodec

import (
	"fmt"
	"strings"

	"github.com/mcncl/dataconv/internal/errors"
	"github.com/mcncl/dataconv/internal/models"
)

const (
	DefaultDelimiter = ';'
	DefaultEnclosure = '"'
)

// Options controls both directions of the codec.
type Options struct {
	Delimiter rune
	Enclosure rune
	// HeaderMode makes the first row the field names of every later row.
	// Only used when decoding.
	HeaderMode bool
}

// DefaultOptions returns ';' delimited, '"' enclosed, header mode options.
func DefaultOptions() Options {
	return Options{
		Delimiter:  DefaultDelimiter,
		Enclosure:  DefaultEnclosure,
		HeaderMode: true,
	}
}

func (o Options) withDefaults() Options {
	if o.Delimiter == 0 {
		o.Delimiter = DefaultDelimiter
	}
	if o.Enclosure == 0 {
		o.Enclosure = DefaultEnclosure
	}
	return o
}

// Decode parses text into a List of rows. In header mode each row is a Map
// keyed by the header row; otherwise each row is a List of strings. Blank
// lines are skipped.
func Decode(text string, opts Options) (models.Value, error) {
	opts = opts.withDefaults()

	var header []string
	rows := []models.Value{}

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineNo := i + 1

		fields, err := splitRecord(line, opts.Delimiter, opts.Enclosure)
		if err != nil {
			return models.Value{}, errors.NewParsingError(fmt.Sprintf("line %d: %v", lineNo, err), errors.ErrMalformedRow)
		}

		if !opts.HeaderMode {
			items := make([]models.Value, len(fields))
			for j, f := range fields {
				items[j] = models.StringValue(f)
			}
			rows = append(rows, models.ListValue(items...))
			continue
		}

		if header == nil {
			header = fields
			continue
		}

		if len(fields) != len(header) {
			return models.Value{}, errors.NewParsingError(
				fmt.Sprintf("line %d has %d fields, header has %d", lineNo, len(fields), len(header)),
				errors.ErrMalformedRow,
			)
		}
		record := models.NewOrderedMap()
		for j, name := range header {
			record.Set(name, models.StringValue(fields[j]))
		}
		rows = append(rows, models.MapValue(record))
	}

	return models.ListValue(rows...), nil
}

// splitRecord splits one line into fields. A field opening with the
// enclosure runs to its closing enclosure; a doubled enclosure inside stands
// for one. Text between a closing enclosure and the next delimiter is kept.
func splitRecord(line string, delimiter, enclosure rune) ([]string, error) {
	var (
		fields   []string
		field    strings.Builder
		quoted   bool
		atStart  = true
		runes    = []rune(line)
		openedAt int
	)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quoted:
			if r != enclosure {
				field.WriteRune(r)
				continue
			}
			if i+1 < len(runes) && runes[i+1] == enclosure {
				field.WriteRune(enclosure)
				i++
				continue
			}
			quoted = false
		case r == delimiter:
			fields = append(fields, field.String())
			field.Reset()
			atStart = true
			continue
		case r == enclosure && atStart:
			quoted = true
			openedAt = i + 1
		default:
			field.WriteRune(r)
		}
		atStart = false
	}

	if quoted {
		return nil, fmt.Errorf("unterminated %q opened at column %d", enclosure, openedAt)
	}
	return append(fields, field.String()), nil
}
