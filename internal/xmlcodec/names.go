package xmlcodec

import (
	"fmt"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// TagCase selects how map keys are rewritten before they become XML names.
type TagCase string

const (
	TagCaseAsIs       TagCase = ""
	TagCaseSnake      TagCase = "snake"
	TagCaseKebab      TagCase = "kebab"
	TagCaseCamel      TagCase = "camel"
	TagCaseLowerCamel TagCase = "lower_camel"
)

// ParseTagCase validates a configured tag case.
func ParseTagCase(s string) (TagCase, error) {
	switch tc := TagCase(s); tc {
	case TagCaseAsIs, TagCaseSnake, TagCaseKebab, TagCaseCamel, TagCaseLowerCamel:
		return tc, nil
	default:
		return "", fmt.Errorf("unknown tag case %q (want snake, kebab, camel or lower_camel)", s)
	}
}

func (tc TagCase) apply(key string) string {
	switch tc {
	case TagCaseSnake:
		return strcase.ToSnake(key)
	case TagCaseKebab:
		return strcase.ToKebab(key)
	case TagCaseCamel:
		return strcase.ToCamel(key)
	case TagCaseLowerCamel:
		return strcase.ToLowerCamel(key)
	default:
		return key
	}
}

// IsValidName reports whether s matches the XML 1.0 Name production without
// colons, so it can be used as an element or attribute name.
func IsValidName(s string) bool {
	if s == "" || !utf8.ValidString(s) {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isNameStartChar(r) {
				return false
			}
			continue
		}
		if !isNameChar(r) {
			return false
		}
	}
	return true
}

func isNameStartChar(r rune) bool {
	switch {
	case r == '_',
		'A' <= r && r <= 'Z',
		'a' <= r && r <= 'z',
		0xC0 <= r && r <= 0xD6,
		0xD8 <= r && r <= 0xF6,
		0xF8 <= r && r <= 0x2FF,
		0x370 <= r && r <= 0x37D,
		0x37F <= r && r <= 0x1FFF,
		0x200C <= r && r <= 0x200D,
		0x2070 <= r && r <= 0x218F,
		0x2C00 <= r && r <= 0x2FEF,
		0x3001 <= r && r <= 0xD7FF,
		0xF900 <= r && r <= 0xFDCF,
		0xFDF0 <= r && r <= 0xFFFD,
		0x10000 <= r && r <= 0xEFFFF:
		return true
	}
	return false
}

func isNameChar(r rune) bool {
	switch {
	case isNameStartChar(r),
		r == '-', r == '.',
		'0' <= r && r <= '9',
		r == 0xB7,
		0x300 <= r && r <= 0x36F,
		0x203F <= r && r <= 0x2040:
		return true
	}
	return false
}

// isIndexKey reports whether a map key is a plain non-negative integer,
// the kind of key a positional list produces.
func isIndexKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return false
		}
	}
	return true
}
