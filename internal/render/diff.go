package render

import (
	"fmt"
	"strings"

	"github.com/ckpe-tools/ckpectl/internal/inifile"
)

// Diff renders document differences one line per entry. Added entries
// carry a + marker, removed entries a -, changed entries a ~ with the
// old and new values. Returns the empty string when there is nothing
// to show.
func Diff(entries []inifile.DiffEntry) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range entries {
		switch e.Kind {
		case inifile.DiffAdded:
			b.WriteString(AddedStyle.Render(fmt.Sprintf("+ [%s] %s = %s", e.Section, e.Key, e.New)))
		case inifile.DiffRemoved:
			b.WriteString(RemovedStyle.Render(fmt.Sprintf("- [%s] %s = %s", e.Section, e.Key, e.Old)))
		case inifile.DiffChanged:
			b.WriteString(ChangedStyle.Render(fmt.Sprintf("~ [%s] %s = %s -> %s", e.Section, e.Key, e.Old, e.New)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
