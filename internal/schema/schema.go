package schema

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Schema is a set of section and key specs with case-insensitive
// lookup.
type Schema struct {
	sections []*SectionSpec
	secIdx   map[string]*SectionSpec
	keyIdx   map[string]*KeySpec
}

// New builds a schema from section specs. Key specs get their Section
// field filled in from the enclosing section.
func New(sections ...*SectionSpec) *Schema {
	s := &Schema{sections: sections}
	s.reindex()
	return s
}

func (s *Schema) reindex() {
	s.secIdx = make(map[string]*SectionSpec, len(s.sections))
	s.keyIdx = make(map[string]*KeySpec)
	for _, sec := range s.sections {
		s.secIdx[strings.ToLower(sec.Name)] = sec
		for _, k := range sec.Keys {
			k.Section = sec.Name
			s.keyIdx[specKey(sec.Name, k.Key)] = k
		}
	}
}

func specKey(section, key string) string {
	return strings.ToLower(section) + "\x00" + strings.ToLower(key)
}

// Sections returns the section specs in declaration order.
func (s *Schema) Sections() []*SectionSpec {
	out := make([]*SectionSpec, len(s.sections))
	copy(out, s.sections)
	return out
}

// Specs returns every key spec in declaration order.
func (s *Schema) Specs() []*KeySpec {
	var out []*KeySpec
	for _, sec := range s.sections {
		out = append(out, sec.Keys...)
	}
	return out
}

// LookupSection returns the spec for a section name.
func (s *Schema) LookupSection(name string) (*SectionSpec, bool) {
	sec, ok := s.secIdx[strings.ToLower(name)]
	return sec, ok
}

// Lookup returns the cataloged spec for a key, if any.
func (s *Schema) Lookup(section, key string) (*KeySpec, bool) {
	k, ok := s.keyIdx[specKey(section, key)]
	return k, ok
}

// Infer builds a spec for a key the catalog does not know, using the
// same rules the original editor used to pick widgets: true/false means
// a bool, an all-digit value means an unsigned number capped at 999999,
// anything else is text. Keys in free-text sections are always text.
func (s *Schema) Infer(section, key, value string) *KeySpec {
	spec := &KeySpec{Section: section, Key: key, Type: TypeString}

	if sec, ok := s.LookupSection(section); ok && sec.FreeText {
		spec.FreeText = true
		return spec
	}

	switch lv := strings.ToLower(value); {
	case lv == "true" || lv == "false":
		spec.Type = TypeBool
	case value != "" && allDigits(value):
		spec.Type = TypeUint
		max := int64(999999)
		spec.Max = &max
	}
	return spec
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Spec returns the catalog entry for a key, falling back to inference
// from the value.
func (s *Schema) Spec(section, key, value string) *KeySpec {
	if k, ok := s.Lookup(section, key); ok {
		return k
	}
	return s.Infer(section, key, value)
}

// Validate checks a value against a spec. It returns nil when the value
// is admissible.
func (s *Schema) Validate(spec *KeySpec, value string) *ValidationError {
	if spec.FreeText {
		return nil
	}

	field := fieldName(spec.Section, spec.Key)

	switch spec.Type {
	case TypeBool:
		lv := strings.ToLower(value)
		if lv != "true" && lv != "false" {
			return &ValidationError{Field: field, Message: fmt.Sprintf("must be true or false, got %q", value)}
		}

	case TypeUint:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return &ValidationError{Field: field, Message: fmt.Sprintf("must be a non-negative integer, got %q", value)}
		}
		return s.checkRange(spec, field, int64(n))

	case TypeInt:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return &ValidationError{Field: field, Message: fmt.Sprintf("must be an integer, got %q", value)}
		}
		return s.checkRange(spec, field, n)

	case TypeFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return &ValidationError{Field: field, Message: fmt.Sprintf("must be a number, got %q", value)}
		}
		if spec.Min != nil && f < float64(*spec.Min) {
			return &ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d, got %q", *spec.Min, value)}
		}
		if spec.Max != nil && f > float64(*spec.Max) {
			return &ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d, got %q", *spec.Max, value)}
		}

	case TypeEnum:
		if _, ok := s.resolveEnum(spec, value); !ok {
			return &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(spec.Labels(), ", "), value),
			}
		}

	case TypeString:
		// Any text is fine.
	}

	return nil
}

func (s *Schema) checkRange(spec *KeySpec, field string, n int64) *ValidationError {
	if spec.Min != nil && n < *spec.Min {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d, got %d", *spec.Min, n)}
	}
	if spec.Max != nil && n > *spec.Max {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d, got %d", *spec.Max, n)}
	}
	return nil
}

// resolveEnum maps a value, numeric or label, to its enum option.
func (s *Schema) resolveEnum(spec *KeySpec, value string) (EnumOption, bool) {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		return spec.OptionByValue(n)
	}
	return spec.Option(value)
}

// Normalize returns the canonical stored form of a valid value:
// booleans lowercased, integers stripped of leading zeros, enum labels
// resolved to their numeric value. Text and floats pass through as
// written. Invalid values return the validation error.
func (s *Schema) Normalize(spec *KeySpec, value string) (string, error) {
	if verr := s.Validate(spec, value); verr != nil {
		return "", verr
	}
	if spec.FreeText {
		return value, nil
	}

	switch spec.Type {
	case TypeBool:
		return strings.ToLower(value), nil
	case TypeUint:
		n, _ := strconv.ParseUint(value, 10, 64)
		return strconv.FormatUint(n, 10), nil
	case TypeInt:
		n, _ := strconv.ParseInt(value, 10, 64)
		return strconv.FormatInt(n, 10), nil
	case TypeEnum:
		o, _ := s.resolveEnum(spec, value)
		return strconv.Itoa(o.Value), nil
	default:
		return value, nil
	}
}

// WriteDefaults renders a complete INI from the catalog, documentation
// as comments and every key at its default. Used by init to scaffold a
// fresh file.
func (s *Schema) WriteDefaults(w io.Writer, eol string) error {
	for i, sec := range s.sections {
		if i > 0 {
			if _, err := io.WriteString(w, eol); err != nil {
				return err
			}
		}
		if err := writeDoc(w, sec.Doc, eol); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "["+sec.Name+"]"+eol); err != nil {
			return err
		}
		for _, k := range sec.Keys {
			if err := writeDoc(w, k.Doc, eol); err != nil {
				return err
			}
			if _, err := io.WriteString(w, k.Key+"="+k.Default+eol); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeDoc(w io.Writer, doc, eol string) error {
	if doc == "" {
		return nil
	}
	for _, line := range strings.Split(doc, "\n") {
		if _, err := io.WriteString(w, "; "+line+eol); err != nil {
			return err
		}
	}
	return nil
}
