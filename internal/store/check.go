package store

import (
	"fmt"
	"strings"
)

// Severity ranks lint findings.
type Severity int

const (
	// SeverityNote is informational, e.g. a default that applies.
	SeverityNote Severity = iota
	// SeverityWarning is something the Creation Kit tolerates but
	// probably not what the user meant.
	SeverityWarning
	// SeverityError is a value CKPE will not accept as typed.
	SeverityError
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityNote:
		return "note"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON emits the severity as its name, for lint --format json.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Issue is one lint finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Section  string   `json:"section,omitempty"`
	Key      string   `json:"key,omitempty"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
}

// Report is the outcome of checking a whole file.
type Report struct {
	Issues []Issue `json:"issues"`
}

func (r *Report) add(i Issue) { r.Issues = append(r.Issues, i) }

// Count returns how many issues have the given severity.
func (r *Report) Count(sev Severity) int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == sev {
			n++
		}
	}
	return n
}

// HasErrors reports whether any finding is an error.
func (r *Report) HasErrors() bool { return r.Count(SeverityError) > 0 }

// HasWarnings reports whether any finding is a warning.
func (r *Report) HasWarnings() bool { return r.Count(SeverityWarning) > 0 }

// Check validates the whole file against the schema: typed values must
// parse, keys and sections should be known, duplicates and stray lines
// are flagged, and absent cataloged keys are noted with their defaults.
func (s *Store) Check() *Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := &Report{}

	for _, issue := range s.doc.Malformed() {
		r.add(Issue{
			Severity: SeverityWarning,
			Line:     issue.Line,
			Message:  fmt.Sprintf("line is not a section, entry, or comment: %q", strings.TrimSpace(issue.Text)),
		})
	}
	for _, issue := range s.doc.Orphaned() {
		r.add(Issue{
			Severity: SeverityWarning,
			Line:     issue.Line,
			Message:  "entry appears before any section and is ignored",
		})
	}

	for _, sec := range s.doc.Sections() {
		schemaSec, knownSection := s.schema.LookupSection(sec.Name())
		if !knownSection {
			r.add(Issue{
				Severity: SeverityWarning,
				Section:  sec.Name(),
				Message:  "not a known CKPE section",
			})
		}

		counts := make(map[string]int)
		for _, e := range sec.Entries() {
			counts[strings.ToLower(e.Key)]++
		}
		reported := make(map[string]bool)

		for _, e := range sec.Entries() {
			lk := strings.ToLower(e.Key)
			if counts[lk] > 1 && !reported[lk] {
				reported[lk] = true
				r.add(Issue{
					Severity: SeverityWarning,
					Section:  sec.Name(),
					Key:      e.Key,
					Line:     s.doc.LineOf(e),
					Message:  fmt.Sprintf("appears %d times; the last occurrence wins", counts[lk]),
				})
			}

			spec, cataloged := s.schema.Lookup(sec.Name(), e.Key)
			if cataloged {
				if verr := s.schema.Validate(spec, e.Value()); verr != nil {
					r.add(Issue{
						Severity: SeverityError,
						Section:  sec.Name(),
						Key:      e.Key,
						Line:     s.doc.LineOf(e),
						Message:  verr.Message,
					})
				}
				continue
			}

			if knownSection && !schemaSec.FreeText {
				r.add(Issue{
					Severity: SeverityWarning,
					Section:  sec.Name(),
					Key:      e.Key,
					Line:     s.doc.LineOf(e),
					Message:  "not a known CKPE setting",
				})
			}

			// Inferred specs still catch values the original editor
			// could not represent, like numbers past the widget cap.
			inferred := s.schema.Infer(sec.Name(), e.Key, e.Value())
			if verr := s.schema.Validate(inferred, e.Value()); verr != nil {
				r.add(Issue{
					Severity: SeverityWarning,
					Section:  sec.Name(),
					Key:      e.Key,
					Line:     s.doc.LineOf(e),
					Message:  verr.Message,
				})
			}
		}
	}

	for _, spec := range s.schema.Specs() {
		if _, ok := s.doc.Get(spec.Section, spec.Key); !ok {
			r.add(Issue{
				Severity: SeverityNote,
				Section:  spec.Section,
				Key:      spec.Key,
				Message:  fmt.Sprintf("not set; default %q applies", spec.Default),
			})
		}
	}

	return r
}
