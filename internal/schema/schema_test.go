package schema

import (
	"strings"
	"testing"
)

func TestBuiltin_Lookup(t *testing.T) {
	s := Builtin()

	tests := []struct {
		section, key string
		wantType     ValueType
	}{
		{"CreationKit", "bSkipFileCheck", TypeBool},
		{"creationkit", "bskipfilecheck", TypeBool},
		{"CreationKit", "nCharset", TypeEnum},
		{"Graphics", "uTextureCacheSizeMB", TypeUint},
		{"Audio", "fMasterVolume", TypeFloat},
		{"Theme", "uUIDarkThemeId", TypeEnum},
		{"Theme", "sCustomThemePath", TypeString},
	}
	for _, tt := range tests {
		spec, ok := s.Lookup(tt.section, tt.key)
		if !ok {
			t.Errorf("Lookup(%q, %q) not found", tt.section, tt.key)
			continue
		}
		if spec.Type != tt.wantType {
			t.Errorf("Lookup(%q, %q).Type = %v, want %v", tt.section, tt.key, spec.Type, tt.wantType)
		}
	}

	if _, ok := s.Lookup("CreationKit", "bNope"); ok {
		t.Error("Lookup() found a key that is not cataloged")
	}
}

func TestBuiltin_CharsetOptions(t *testing.T) {
	s := Builtin()
	spec, ok := s.Lookup("CreationKit", "nCharset")
	if !ok {
		t.Fatal("nCharset not cataloged")
	}

	if len(spec.Enum) != 19 {
		t.Fatalf("nCharset has %d options, want 19", len(spec.Enum))
	}

	checks := map[string]int{
		"ANSI_CHARSET":    0,
		"DEFAULT_CHARSET": 1,
		"SHIFTJIS_CHARSET": 128,
		"RUSSIAN_CHARSET": 204,
		"OEM_CHARSET":     255,
		"MAC_CHARSET":     77,
		"BALTIC_CHARSET":  186,
	}
	for label, value := range checks {
		o, ok := spec.Option(label)
		if !ok {
			t.Errorf("Option(%q) not found", label)
			continue
		}
		if o.Value != value {
			t.Errorf("Option(%q).Value = %d, want %d", label, o.Value, value)
		}
	}

	if spec.Default != "1" {
		t.Errorf("nCharset default = %q, want %q", spec.Default, "1")
	}
}

func TestBuiltin_ThemeOptions(t *testing.T) {
	s := Builtin()
	spec, ok := s.Lookup("Theme", "uUIDarkThemeId")
	if !ok {
		t.Fatal("uUIDarkThemeId not cataloged")
	}

	want := []EnumOption{{"Lighter", 0}, {"Darker", 1}, {"Custom", 2}}
	if len(spec.Enum) != len(want) {
		t.Fatalf("uUIDarkThemeId has %d options, want %d", len(spec.Enum), len(want))
	}
	for i, o := range want {
		if spec.Enum[i] != o {
			t.Errorf("option %d = %+v, want %+v", i, spec.Enum[i], o)
		}
	}
}

func TestBuiltin_FreeTextSections(t *testing.T) {
	s := Builtin()

	for _, name := range []string{"Hotkeys", "Log"} {
		sec, ok := s.LookupSection(name)
		if !ok {
			t.Errorf("LookupSection(%q) not found", name)
			continue
		}
		if !sec.FreeText {
			t.Errorf("section %q not free-text", name)
		}
	}

	sec, _ := s.LookupSection("CreationKit")
	if sec.FreeText {
		t.Error("CreationKit marked free-text")
	}
}

func TestBuiltin_TintMaskFreeText(t *testing.T) {
	s := Builtin()
	spec, ok := s.Lookup("Facegen", "uTintMaskResolution")
	if !ok {
		t.Fatal("uTintMaskResolution not cataloged")
	}
	if !spec.FreeText {
		t.Error("uTintMaskResolution must bypass validation")
	}
	// Even odd values pass, as in the original editor.
	if err := s.Validate(spec, "anything goes"); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestInfer(t *testing.T) {
	s := Builtin()

	tests := []struct {
		name     string
		section  string
		key      string
		value    string
		wantType ValueType
		wantFree bool
	}{
		{"bool true", "CreationKit", "bNew", "true", TypeBool, false},
		{"bool false upper", "CreationKit", "bNew", "FALSE", TypeBool, false},
		{"digits", "Graphics", "uNew", "512", TypeUint, false},
		{"zero", "Graphics", "uNew", "0", TypeUint, false},
		{"negative is text", "Graphics", "iNew", "-3", TypeString, false},
		{"decimal is text", "Audio", "fNew", "1.5", TypeString, false},
		{"word", "CreationKit", "sNew", "hello", TypeString, false},
		{"empty", "CreationKit", "sNew", "", TypeString, false},
		{"hotkeys always text", "Hotkeys", "CTRL+S", "true", TypeString, true},
		{"log always text", "Log", "sNew", "123", TypeString, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := s.Infer(tt.section, tt.key, tt.value)
			if spec.Type != tt.wantType {
				t.Errorf("Infer(%q).Type = %v, want %v", tt.value, spec.Type, tt.wantType)
			}
			if spec.FreeText != tt.wantFree {
				t.Errorf("Infer(%q).FreeText = %v, want %v", tt.value, spec.FreeText, tt.wantFree)
			}
		})
	}
}

func TestInfer_UintGetsWidgetCap(t *testing.T) {
	s := Builtin()
	spec := s.Infer("Graphics", "uNew", "12")
	if spec.Max == nil || *spec.Max != 999999 {
		t.Errorf("inferred uint max = %v, want 999999", spec.Max)
	}
	if err := s.Validate(spec, "1000000"); err == nil {
		t.Error("Validate() accepted a value above the inferred cap")
	}
}

func TestSpec_PrefersCatalog(t *testing.T) {
	s := Builtin()

	// uTextureCacheSizeMB is cataloged with a 64..4096 range; raw
	// inference would cap at 999999 instead.
	spec := s.Spec("Graphics", "uTextureCacheSizeMB", "256")
	if spec.Max == nil || *spec.Max != 4096 {
		t.Errorf("Spec() ignored the catalog: max = %v", spec.Max)
	}

	spec = s.Spec("Graphics", "uSomethingNew", "256")
	if spec.Max == nil || *spec.Max != 999999 {
		t.Errorf("Spec() did not fall back to inference: max = %v", spec.Max)
	}
}

func TestValidate(t *testing.T) {
	s := Builtin()

	tests := []struct {
		name    string
		section string
		key     string
		value   string
		wantOK  bool
	}{
		{"bool true", "CreationKit", "bSkipFileCheck", "true", true},
		{"bool mixed case", "CreationKit", "bSkipFileCheck", "True", true},
		{"bool not bool", "CreationKit", "bSkipFileCheck", "yes", false},
		{"bool number", "CreationKit", "bSkipFileCheck", "1", false},
		{"uint in range", "Graphics", "uTextureCacheSizeMB", "256", true},
		{"uint at min", "Graphics", "uTextureCacheSizeMB", "64", true},
		{"uint at max", "Graphics", "uTextureCacheSizeMB", "4096", true},
		{"uint below min", "Graphics", "uTextureCacheSizeMB", "32", false},
		{"uint above max", "Graphics", "uTextureCacheSizeMB", "8192", false},
		{"uint negative", "Graphics", "uTextureCacheSizeMB", "-1", false},
		{"uint not number", "Graphics", "uTextureCacheSizeMB", "lots", false},
		{"float in range", "Audio", "fMasterVolume", "0.5", true},
		{"float at bounds", "Audio", "fMasterVolume", "1", true},
		{"float above max", "Audio", "fMasterVolume", "1.5", false},
		{"float not number", "Audio", "fMasterVolume", "loud", false},
		{"enum by value", "CreationKit", "nCharset", "204", true},
		{"enum by label", "CreationKit", "nCharset", "RUSSIAN_CHARSET", true},
		{"enum label case", "CreationKit", "nCharset", "russian_charset", true},
		{"enum bad value", "CreationKit", "nCharset", "3", false},
		{"enum bad label", "CreationKit", "nCharset", "KLINGON_CHARSET", false},
		{"theme by label", "Theme", "uUIDarkThemeId", "Darker", true},
		{"theme bad value", "Theme", "uUIDarkThemeId", "5", false},
		{"string anything", "Theme", "sCustomThemePath", "C:\\themes\\my.theme", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, ok := s.Lookup(tt.section, tt.key)
			if !ok {
				t.Fatalf("key [%s] %s not cataloged", tt.section, tt.key)
			}
			err := s.Validate(spec, tt.value)
			if tt.wantOK && err != nil {
				t.Errorf("Validate(%q) = %v, want nil", tt.value, err)
			}
			if !tt.wantOK && err == nil {
				t.Errorf("Validate(%q) = nil, want error", tt.value)
			}
		})
	}
}

func TestValidate_EnumErrorListsOptions(t *testing.T) {
	s := Builtin()
	spec, _ := s.Lookup("Theme", "uUIDarkThemeId")

	err := s.Validate(spec, "9")
	if err == nil {
		t.Fatal("Validate() accepted a bad enum value")
	}
	for _, label := range []string{"Lighter", "Darker", "Custom"} {
		if !strings.Contains(err.Message, label) {
			t.Errorf("error %q does not mention option %s", err.Message, label)
		}
	}
}

func TestNormalize(t *testing.T) {
	s := Builtin()

	tests := []struct {
		name    string
		section string
		key     string
		value   string
		want    string
	}{
		{"bool lowercased", "CreationKit", "bSkipFileCheck", "TRUE", "true"},
		{"bool kept", "CreationKit", "bSkipFileCheck", "false", "false"},
		{"uint zeros stripped", "Graphics", "uTextureCacheSizeMB", "0256", "256"},
		{"enum label to value", "CreationKit", "nCharset", "RUSSIAN_CHARSET", "204"},
		{"enum value kept", "CreationKit", "nCharset", "204", "204"},
		{"theme label", "Theme", "uUIDarkThemeId", "darker", "1"},
		{"float verbatim", "Audio", "fMasterVolume", "0.50", "0.50"},
		{"string verbatim", "Theme", "sCustomThemePath", " spaced ", " spaced "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, ok := s.Lookup(tt.section, tt.key)
			if !ok {
				t.Fatalf("key [%s] %s not cataloged", tt.section, tt.key)
			}
			got, err := s.Normalize(spec, tt.value)
			if err != nil {
				t.Fatalf("Normalize(%q) error = %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestNormalize_RejectsInvalid(t *testing.T) {
	s := Builtin()
	spec, _ := s.Lookup("CreationKit", "bSkipFileCheck")

	if _, err := s.Normalize(spec, "maybe"); err == nil {
		t.Error("Normalize() accepted an invalid value")
	}
}

func TestWriteDefaults(t *testing.T) {
	s := Builtin()

	var b strings.Builder
	if err := s.WriteDefaults(&b, "\r\n"); err != nil {
		t.Fatalf("WriteDefaults() error = %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"[CreationKit]\r\n",
		"nCharset=1\r\n",
		"; Charset used for Creation Kit fonts\r\n",
		"[Theme]\r\n",
		"uUIDarkThemeId=1\r\n",
		"[Hotkeys]\r\n",
		"uTintMaskResolution=512\r\n",
		"fMasterVolume=1.0\r\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteDefaults() output missing %q", want)
		}
	}

	if strings.Contains(out, "\r\n\r\n\r\n") {
		t.Error("WriteDefaults() produced runs of blank lines")
	}

	// Sections are separated by exactly one blank line.
	if !strings.Contains(out, "uTintMaskResolution=512\r\n\r\n; Render window behavior\r\n[Graphics]\r\n") {
		t.Errorf("section separation wrong:\n%s", out)
	}
}

func TestWriteDefaults_EveryKeyPresent(t *testing.T) {
	s := Builtin()

	var b strings.Builder
	if err := s.WriteDefaults(&b, "\n"); err != nil {
		t.Fatal(err)
	}
	out := b.String()

	for _, spec := range s.Specs() {
		if !strings.Contains(out, spec.Key+"="+spec.Default+"\n") {
			t.Errorf("default for [%s] %s missing", spec.Section, spec.Key)
		}
	}
}
