package schema

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Overlay files let users extend or correct the builtin catalog, for
// CKPE builds that ship settings this tool does not know yet.
type overlayFile struct {
	Sections []overlaySection `yaml:"sections"`
}

type overlaySection struct {
	Name     string       `yaml:"name"`
	Doc      *string      `yaml:"doc"`
	FreeText *bool        `yaml:"freetext"`
	Keys     []overlayKey `yaml:"keys"`
}

type overlayKey struct {
	Key      string       `yaml:"key"`
	Type     string       `yaml:"type"`
	Default  *string      `yaml:"default"`
	Min      *int64       `yaml:"min"`
	Max      *int64       `yaml:"max"`
	Enum     []EnumOption `yaml:"enum"`
	Doc      *string      `yaml:"doc"`
	FreeText *bool        `yaml:"freetext"`
}

// LoadOverlay reads a YAML overlay file and merges it into the schema.
func (s *Schema) LoadOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read schema overlay: %w", err)
	}
	if err := s.ApplyOverlay(data); err != nil {
		return fmt.Errorf("schema overlay %s: %w", path, err)
	}
	return nil
}

// ApplyOverlay merges overlay YAML into the schema. Section and key
// fields that the overlay leaves out keep their current values; new
// sections and keys are appended in overlay order.
func (s *Schema) ApplyOverlay(data []byte) error {
	var of overlayFile
	if err := yaml.Unmarshal(data, &of); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	var errs ValidationErrors
	for i, osec := range of.Sections {
		if osec.Name == "" {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("sections[%d]", i),
				Message: "section has no name",
			})
			continue
		}

		sec, ok := s.LookupSection(osec.Name)
		if !ok {
			sec = &SectionSpec{Name: osec.Name}
			s.sections = append(s.sections, sec)
		}
		if osec.Doc != nil {
			sec.Doc = *osec.Doc
		}
		if osec.FreeText != nil {
			sec.FreeText = *osec.FreeText
		}

		for _, okey := range osec.Keys {
			if err := applyOverlayKey(sec, okey); err != nil {
				errs = append(errs, err)
			}
		}
	}
	s.reindex()

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func applyOverlayKey(sec *SectionSpec, okey overlayKey) *ValidationError {
	if okey.Key == "" {
		return &ValidationError{Field: sec.Name, Message: "key entry has no name"}
	}
	field := fieldName(sec.Name, okey.Key)

	var spec *KeySpec
	for _, k := range sec.Keys {
		if strings.EqualFold(k.Key, okey.Key) {
			spec = k
			break
		}
	}
	if spec == nil {
		if okey.Type == "" {
			return &ValidationError{Field: field, Message: "new key needs a type"}
		}
		spec = &KeySpec{Section: sec.Name, Key: okey.Key, Type: TypeString}
		sec.Keys = append(sec.Keys, spec)
	}

	if okey.Type != "" {
		t, ok := ParseValueType(okey.Type)
		if !ok {
			return &ValidationError{Field: field, Message: fmt.Sprintf("unknown type %q", okey.Type)}
		}
		spec.Type = t
	}
	if okey.Default != nil {
		spec.Default = *okey.Default
	}
	if okey.Min != nil {
		spec.Min = okey.Min
	}
	if okey.Max != nil {
		spec.Max = okey.Max
	}
	if len(okey.Enum) > 0 {
		spec.Enum = okey.Enum
	}
	if okey.Doc != nil {
		spec.Doc = *okey.Doc
	}
	if okey.FreeText != nil {
		spec.FreeText = *okey.FreeText
	}

	if spec.Type == TypeEnum && len(spec.Enum) == 0 {
		return &ValidationError{Field: field, Message: "enum key has no options"}
	}
	return nil
}

// ExportYAML writes the effective schema in overlay format, so a dump
// can be edited and loaded back.
func (s *Schema) ExportYAML(w io.Writer) error {
	doc := struct {
		Sections []*SectionSpec `yaml:"sections"`
	}{Sections: s.sections}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	return enc.Close()
}
