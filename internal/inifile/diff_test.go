package inifile

import (
	"encoding/json"
	"strings"
	"testing"
)

func parseDoc(t *testing.T, content string) *Document {
	t.Helper()
	return Parse([]byte(content), "CreationKitPlatformExtended.ini")
}

func TestCompare_Identical(t *testing.T) {
	content := "[CreationKit]\nbSkipFileCheck=true\n\n[Graphics]\nuTextureCacheSizeMB=256\n"
	diffs := Compare(parseDoc(t, content), parseDoc(t, content))
	if len(diffs) != 0 {
		t.Errorf("Compare() = %v, want no differences", diffs)
	}
}

func TestCompare_Kinds(t *testing.T) {
	a := parseDoc(t, "[CreationKit]\nbSkipFileCheck=true\nnCharset=1\n")
	b := parseDoc(t, "[CreationKit]\nnCharset=204\nbUnicode=true\n")

	diffs := Compare(a, b)
	want := []DiffEntry{
		{Kind: DiffRemoved, Section: "CreationKit", Key: "bSkipFileCheck", Old: "true"},
		{Kind: DiffChanged, Section: "CreationKit", Key: "nCharset", Old: "1", New: "204"},
		{Kind: DiffAdded, Section: "CreationKit", Key: "bUnicode", New: "true"},
	}
	if len(diffs) != len(want) {
		t.Fatalf("Compare() returned %d entries, want %d: %v", len(diffs), len(want), diffs)
	}
	for i, w := range want {
		if diffs[i] != w {
			t.Errorf("diffs[%d] = %+v, want %+v", i, diffs[i], w)
		}
	}
}

func TestCompare_NewSection(t *testing.T) {
	a := parseDoc(t, "[CreationKit]\nbSkipFileCheck=true\n")
	b := parseDoc(t, "[CreationKit]\nbSkipFileCheck=true\n\n[Audio]\nbEnableAudio=false\n")

	diffs := Compare(a, b)
	if len(diffs) != 1 {
		t.Fatalf("Compare() = %v, want one entry", diffs)
	}
	got := diffs[0]
	if got.Kind != DiffAdded || got.Section != "Audio" || got.Key != "bEnableAudio" || got.New != "false" {
		t.Errorf("diffs[0] = %+v", got)
	}
}

func TestCompare_CaseInsensitive(t *testing.T) {
	a := parseDoc(t, "[creationkit]\nBSKIPFILECHECK=true\n")
	b := parseDoc(t, "[CreationKit]\nbSkipFileCheck=true\n")

	if diffs := Compare(a, b); len(diffs) != 0 {
		t.Errorf("Compare() = %v, want case-insensitive match", diffs)
	}
}

func TestCompare_DuplicateKeyLastWins(t *testing.T) {
	a := parseDoc(t, "[CreationKit]\nnCharset=1\nnCharset=204\n")
	b := parseDoc(t, "[CreationKit]\nnCharset=204\n")

	if diffs := Compare(a, b); len(diffs) != 0 {
		t.Errorf("Compare() = %v, want last occurrence to win", diffs)
	}

	b2 := parseDoc(t, "[CreationKit]\nnCharset=1\n")
	diffs := Compare(a, b2)
	if len(diffs) != 1 || diffs[0].Kind != DiffChanged || diffs[0].Old != "204" {
		t.Errorf("Compare() = %v, want one change from 204", diffs)
	}
}

func TestCompare_ValueOnlyDiffersByCase(t *testing.T) {
	// Values compare verbatim; TRUE and true are different texts even
	// though the Creation Kit reads them the same.
	a := parseDoc(t, "[CreationKit]\nbSkipFileCheck=TRUE\n")
	b := parseDoc(t, "[CreationKit]\nbSkipFileCheck=true\n")

	diffs := Compare(a, b)
	if len(diffs) != 1 || diffs[0].Kind != DiffChanged {
		t.Errorf("Compare() = %v, want one change", diffs)
	}
}

func TestDiffKind_String(t *testing.T) {
	tests := []struct {
		kind DiffKind
		want string
	}{
		{DiffAdded, "added"},
		{DiffRemoved, "removed"},
		{DiffChanged, "changed"},
		{DiffKind(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("DiffKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestDiffEntry_JSON(t *testing.T) {
	data, err := json.Marshal(DiffEntry{
		Kind:    DiffChanged,
		Section: "CreationKit",
		Key:     "nCharset",
		Old:     "1",
		New:     "204",
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"kind":"changed"`) {
		t.Errorf("JSON = %s, want string kind", data)
	}
}
