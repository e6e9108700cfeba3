// Package schema describes the settings a CKPE INI file can hold: each
// key's type, default, range, and documentation. The builtin catalog
// covers the keys Creation Kit Platform Extended ships; unknown keys
// get a spec inferred from their value, the way the original editor
// picked widgets.
package schema

import "strings"

// ValueType is the data type of a setting value.
type ValueType string

const (
	// TypeBool accepts true or false.
	TypeBool ValueType = "bool"
	// TypeUint accepts a non-negative integer.
	TypeUint ValueType = "uint"
	// TypeInt accepts a signed integer.
	TypeInt ValueType = "int"
	// TypeFloat accepts a decimal number.
	TypeFloat ValueType = "float"
	// TypeString accepts any text.
	TypeString ValueType = "string"
	// TypeEnum accepts one of a fixed set of numeric options.
	TypeEnum ValueType = "enum"
)

// ParseValueType converts a string from an overlay file into a
// ValueType.
func ParseValueType(s string) (ValueType, bool) {
	switch ValueType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeBool:
		return TypeBool, true
	case TypeUint:
		return TypeUint, true
	case TypeInt:
		return TypeInt, true
	case TypeFloat:
		return TypeFloat, true
	case TypeString:
		return TypeString, true
	case TypeEnum:
		return TypeEnum, true
	default:
		return "", false
	}
}

// EnumOption is one admissible value of an enum setting. The label is
// what users type and read; the value is what the INI stores.
type EnumOption struct {
	Label string `yaml:"label"`
	Value int    `yaml:"value"`
}

// KeySpec describes a single setting.
type KeySpec struct {
	// Section is the INI section the key lives in.
	Section string `yaml:"-"`
	// Key is the setting name.
	Key string `yaml:"key"`
	// Type is the value type.
	Type ValueType `yaml:"type"`
	// Default is the value in string form, as written to the INI.
	Default string `yaml:"default"`
	// Min and Max bound numeric types when non-nil.
	Min *int64 `yaml:"min,omitempty"`
	Max *int64 `yaml:"max,omitempty"`
	// Enum lists the options of an enum setting.
	Enum []EnumOption `yaml:"enum,omitempty"`
	// Doc is the human-readable description, also written as a
	// comment by init.
	Doc string `yaml:"doc,omitempty"`
	// FreeText bypasses validation: any string is accepted. Used for
	// keys the original editor always edited as raw text.
	FreeText bool `yaml:"freetext,omitempty"`
}

// Option returns the enum option matching a label (case-insensitive).
func (k *KeySpec) Option(label string) (EnumOption, bool) {
	for _, o := range k.Enum {
		if strings.EqualFold(o.Label, label) {
			return o, true
		}
	}
	return EnumOption{}, false
}

// OptionByValue returns the enum option with a given stored value.
func (k *KeySpec) OptionByValue(v int) (EnumOption, bool) {
	for _, o := range k.Enum {
		if o.Value == v {
			return o, true
		}
	}
	return EnumOption{}, false
}

// Labels returns the enum option labels in declaration order.
func (k *KeySpec) Labels() []string {
	out := make([]string, len(k.Enum))
	for i, o := range k.Enum {
		out[i] = o.Label
	}
	return out
}

// SectionSpec describes one section of the file.
type SectionSpec struct {
	// Name is the section name as written between brackets.
	Name string `yaml:"name"`
	// Doc is the section description.
	Doc string `yaml:"doc,omitempty"`
	// FreeText marks sections whose keys are arbitrary text, like
	// Hotkeys and Log.
	FreeText bool `yaml:"freetext,omitempty"`
	// Keys are the cataloged settings in declaration order.
	Keys []*KeySpec `yaml:"keys,omitempty"`
}

// ValidationError describes one rejected value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := "multiple validation errors:"
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// fieldName renders the Field of a ValidationError for a key.
func fieldName(section, key string) string {
	return "[" + section + "] " + key
}
