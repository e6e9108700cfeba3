package render

import (
	"fmt"
	"strings"

	"github.com/ckpe-tools/ckpectl/internal/store"
)

// severityStyle maps a lint severity to its display style.
func severityStyle(sev store.Severity) func(...string) string {
	switch sev {
	case store.SeverityError:
		return ErrorStyle.Render
	case store.SeverityWarning:
		return WarningStyle.Render
	default:
		return NoteStyle.Render
	}
}

// LintReport renders a whole-file check report for humans. Issues
// keep the order the check produced; the closing line counts them.
func LintReport(r *store.Report, path string) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(path))
	b.WriteString("\n")

	if len(r.Issues) == 0 {
		b.WriteString(SuccessStyle.Render("no issues found"))
		b.WriteString("\n")
		return b.String()
	}

	for _, issue := range r.Issues {
		style := severityStyle(issue.Severity)
		label := issue.Severity.String()
		b.WriteString("  ")
		b.WriteString(style(label))
		b.WriteString(strings.Repeat(" ", 8-len(label)))
		b.WriteString(location(issue))
		b.WriteString(issue.Message)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(summary(r))
	b.WriteString("\n")
	return b.String()
}

// location formats the issue position: line number when known, then
// the section and key when present.
func location(issue store.Issue) string {
	var parts []string
	if issue.Line > 0 {
		parts = append(parts, fmt.Sprintf("line %d", issue.Line))
	}
	switch {
	case issue.Section != "" && issue.Key != "":
		parts = append(parts, fmt.Sprintf("[%s] %s", issue.Section, issue.Key))
	case issue.Section != "":
		parts = append(parts, fmt.Sprintf("[%s]", issue.Section))
	case issue.Key != "":
		parts = append(parts, issue.Key)
	}
	if len(parts) == 0 {
		return ""
	}
	return MutedStyle.Render(strings.Join(parts, "  ")) + ": "
}

func summary(r *store.Report) string {
	errs := r.Count(store.SeverityError)
	warns := r.Count(store.SeverityWarning)
	notes := r.Count(store.SeverityNote)

	parts := []string{
		plural(errs, "error"),
		plural(warns, "warning"),
		plural(notes, "note"),
	}
	text := strings.Join(parts, ", ")
	switch {
	case errs > 0:
		return ErrorStyle.Render(text)
	case warns > 0:
		return WarningStyle.Render(text)
	default:
		return MutedStyle.Render(text)
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
