package csvcodec

import (
	"fmt"
	"strings"

	"github.com/mcncl/dataconv/internal/errors"
	"github.com/mcncl/dataconv/internal/models"
)

// Encode writes the record set held by v as delimited text: a header row
// taken from the keys of the first record, then one row per record in
// header order. Rows are joined by "\n" with no trailing newline.
func Encode(v models.Value, opts Options) (string, error) {
	opts = opts.withDefaults()

	records, err := RecordSet(v)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", errors.NewShapeError("cannot derive a CSV header from an empty dataset", errors.ErrEmptyDataset)
	}
	first := records[0]
	if !first.IsMap() {
		return "", errors.NewShapeError(fmt.Sprintf("first record is a %s, CSV needs keyed records", first.Kind()), errors.ErrNotRecord)
	}

	header := first.Fields().Keys()
	if len(header) == 0 {
		return "", errors.NewShapeError("first record has no fields", errors.ErrEmptyDataset)
	}
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, joinFields(header, opts))

	for i, record := range records {
		if !record.IsMap() {
			return "", errors.NewShapeError(fmt.Sprintf("record %d is a %s, CSV needs keyed records", i, record.Kind()), errors.ErrNotRecord)
		}
		fields := make([]string, len(header))
		for j, name := range header {
			val, ok := record.Fields().Get(name)
			if !ok || val.IsNull() {
				continue
			}
			if val.IsContainer() {
				return "", errors.NewShapeError(fmt.Sprintf("record %d field %q is a %s", i, name, val.Kind()), errors.ErrNestedField)
			}
			fields[j] = val.Text()
		}
		lines = append(lines, joinFields(fields, opts))
	}

	return strings.Join(lines, "\n"), nil
}

// RecordSet finds the list of records a value holds. A List is returned as
// is. A Map with a single container entry, the shape an XML document with
// one kind of repeated child decodes to, yields that entry's List, or a
// one-record List when the entry is itself a Map. A Map of scalars is a
// single record.
func RecordSet(v models.Value) ([]models.Value, error) {
	if v.IsList() {
		return v.Items(), nil
	}
	if v.IsMap() {
		if v.Len() == 1 {
			for _, inner := range v.Fields().All() {
				switch {
				case inner.IsList():
					return inner.Items(), nil
				case inner.IsMap():
					return []models.Value{inner}, nil
				}
			}
		}
		if isFlat(v) {
			return []models.Value{v}, nil
		}
	}
	return nil, errors.NewShapeError(fmt.Sprintf("a %s with %d entries is not a record set", v.Kind(), v.Len()), errors.ErrNotRecord)
}

func joinFields(fields []string, opts Options) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = quoteField(f, opts)
	}
	return strings.Join(quoted, string(opts.Delimiter))
}

func quoteField(field string, opts Options) string {
	if !strings.ContainsRune(field, opts.Delimiter) &&
		!strings.ContainsRune(field, opts.Enclosure) &&
		!strings.ContainsAny(field, "\n\r") {
		return field
	}
	enc := string(opts.Enclosure)
	return enc + strings.ReplaceAll(field, enc, enc+enc) + enc
}

func isFlat(record models.Value) bool {
	for _, val := range record.Fields().All() {
		if val.IsContainer() {
			return false
		}
	}
	return true
}
