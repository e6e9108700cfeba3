package version

import (
	"strings"
	"testing"
)

func TestNewInfo(t *testing.T) {
	info := NewInfo("1.0.0", "abc123", "2024-01-01")

	if info.Version != "1.0.0" {
		t.Errorf("Version = %q, want %q", info.Version, "1.0.0")
	}
	if info.Commit != "abc123" {
		t.Errorf("Commit = %q, want %q", info.Commit, "abc123")
	}
	if info.Date != "2024-01-01" {
		t.Errorf("Date = %q, want %q", info.Date, "2024-01-01")
	}
	if info.GoVer == "" {
		t.Error("GoVer should not be empty")
	}
	if info.OS == "" {
		t.Error("OS should not be empty")
	}
	if info.Arch == "" {
		t.Error("Arch should not be empty")
	}
}

func TestInfoString(t *testing.T) {
	info := NewInfo("1.0.0", "abc123", "2024-01-01")
	s := info.String()

	if s != "ckpectl 1.0.0 (commit: abc123, built: 2024-01-01)" {
		t.Errorf("String() = %q, unexpected format", s)
	}
}

func TestInfoFullString(t *testing.T) {
	info := NewInfo("1.0.0", "abc123", "2024-01-01")
	s := info.FullString()

	if !strings.Contains(s, "ckpectl 1.0.0") {
		t.Errorf("FullString() = %q, missing version line", s)
	}
	if !strings.Contains(s, "abc123") {
		t.Errorf("FullString() = %q, missing commit", s)
	}
	if !strings.Contains(s, "OS/Arch:") {
		t.Errorf("FullString() = %q, missing platform line", s)
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"v1.0.0", "1.0.0", 0},
		{"1.0.1", "1.0.0", 1},
		{"1.0.0", "1.0.1", -1},
		{"1.1.0", "1.0.9", 1},
		{"2.0.0", "1.9.9", 1},
		{"1.0.0-rc1", "1.0.0", 0},
		{"dev", "1.0.0", -1},
		{"0.2", "0.1.9", 1},
	}

	for _, tt := range tests {
		if got := CompareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
