// Package inifile implements a format-preserving model of a CKPE INI
// file. A parsed Document remembers every line byte for byte, including
// comments, blank lines, indentation, and line endings, so that a save
// only rewrites the entry lines that were actually changed.
//
// Comments directly above a section header or entry (with blank lines
// allowed in between) become that item's documentation. An inline
// comment after a value is kept and re-emitted when the entry is
// rewritten.
package inifile

import (
	"bytes"
	"os"
	"strings"

	"github.com/ckpe-tools/ckpectl/internal/errors"
)

// LineKind classifies a physical line of the file.
type LineKind int

const (
	// LineBlank is a line containing only whitespace.
	LineBlank LineKind = iota
	// LineComment is a line whose first non-blank character is ';'.
	LineComment
	// LineSection is a '[Name]' section header.
	LineSection
	// LineEntry is a 'key=value' assignment.
	LineEntry
	// LineOther is anything the parser could not interpret. It is
	// preserved verbatim and reported by Malformed.
	LineOther
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// line is one physical line. Raw holds the original text without its
// line ending; when dirty is set the line is re-rendered from the
// parsed fields instead.
type line struct {
	Raw  string
	EOL  string // "\r\n", "\n", or "" on a final line without one
	Kind LineKind

	// Section header fields.
	Name string

	// Entry fields.
	Indent string
	Key    string
	Value  string
	Inline string

	dirty  bool
	orphan bool // entry line seen before any section header
}

// classify parses Raw into the kind-specific fields. It is also used to
// restore a line after an edit is undone.
func (ln *line) classify() {
	ln.Name, ln.Indent, ln.Key, ln.Value, ln.Inline = "", "", "", "", ""

	trimmed := strings.TrimSpace(ln.Raw)
	switch {
	case trimmed == "":
		ln.Kind = LineBlank
	case strings.HasPrefix(trimmed, ";"):
		ln.Kind = LineComment
	case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
		ln.Kind = LineSection
		ln.Name = trimmed[1 : len(trimmed)-1]
	case strings.Contains(ln.Raw, "="):
		body := strings.TrimLeft(ln.Raw, " \t")
		ln.Indent = ln.Raw[:len(ln.Raw)-len(body)]
		eq := strings.Index(body, "=")
		key := strings.TrimSpace(body[:eq])
		if key == "" {
			ln.Kind = LineOther
			return
		}
		ln.Kind = LineEntry
		ln.Key = key
		rest := body[eq+1:]
		if sc := strings.Index(rest, ";"); sc >= 0 {
			ln.Inline = strings.TrimSpace(rest[sc+1:])
			rest = rest[:sc]
		}
		ln.Value = strings.TrimSpace(rest)
	default:
		ln.Kind = LineOther
	}
}

// commentText returns the text of a comment line with the leading ';'
// and surrounding whitespace removed.
func (ln *line) commentText() string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(ln.Raw), ";"))
}

// restore discards pending edits and re-parses the line from Raw.
func (ln *line) restore() {
	ln.classify()
	ln.dirty = false
}

// Entry is a key=value assignment inside a section. Duplicate keys
// produce one Entry per occurrence.
type Entry struct {
	// Key is the name as spelled in the file.
	Key string
	// Doc is the comment block above the entry plus any inline
	// comment, newline separated.
	Doc string

	ln *line
}

// Value returns the current value, pending edits included.
func (e *Entry) Value() string { return e.ln.Value }

// Inline returns the inline comment, if any.
func (e *Entry) Inline() string { return e.ln.Inline }

// Section is a named group of entries.
type Section struct {
	// Doc is the comment block above the section header.
	Doc string

	name    string
	header  *line
	entries []*Entry
}

// Name returns the section name as spelled in the file.
func (s *Section) Name() string { return s.name }

// Entries returns the section's entries in file order.
func (s *Section) Entries() []*Entry {
	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Entry returns the entry for key, matched case-insensitively. With
// duplicate keys the last occurrence wins, matching how the Creation
// Kit itself reads the file.
func (s *Section) Entry(key string) (*Entry, bool) {
	var found *Entry
	for _, e := range s.entries {
		if strings.EqualFold(e.Key, key) {
			found = e
		}
	}
	return found, found != nil
}

// Issue is a line the parser preserved verbatim but could not interpret.
type Issue struct {
	// Line is the 1-based line number.
	Line int
	// Text is the raw line content.
	Text string
}

// Document is a parsed INI file plus any pending edits.
type Document struct {
	path string
	src  []byte // bytes the document was parsed from, for Revert
	bom  bool
	eol  string // dominant line ending, used for new lines

	lines    []*line
	sections []*Section

	changes   []Change
	changeIdx map[string]int
}

// New returns an empty document that will be written to path. New lines
// use Windows line endings, matching the files CKPE ships.
func New(path string) *Document {
	return &Document{path: path, eol: "\r\n"}
}

// Load reads and parses the file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.IniNotFound(path)
		}
		return nil, errors.ParseFailed(path, err)
	}
	return Parse(data, path), nil
}

// Parse builds a document from raw file bytes. It never fails: lines it
// cannot interpret are preserved verbatim and reported by Malformed.
func Parse(data []byte, path string) *Document {
	d := &Document{path: path, eol: "\r\n"}
	d.src = make([]byte, len(data))
	copy(d.src, data)

	if bytes.HasPrefix(data, bom) {
		d.bom = true
		data = data[len(bom):]
	}

	d.lines = splitLines(data)

	var crlf, lf int
	for _, ln := range d.lines {
		ln.classify()
		switch ln.EOL {
		case "\r\n":
			crlf++
		case "\n":
			lf++
		}
	}
	if lf > crlf {
		d.eol = "\n"
	}

	var current *Section
	for i, ln := range d.lines {
		switch ln.Kind {
		case LineSection:
			if existing, ok := d.section(ln.Name); ok {
				// Repeated header: fold entries into the
				// first occurrence.
				current = existing
				continue
			}
			current = &Section{
				name:   ln.Name,
				Doc:    d.docAbove(i),
				header: ln,
			}
			d.sections = append(d.sections, current)
		case LineEntry:
			if current == nil {
				ln.orphan = true
				continue
			}
			doc := d.docAbove(i)
			if ln.Inline != "" {
				if doc != "" {
					doc += "\n" + ln.Inline
				} else {
					doc = ln.Inline
				}
			}
			current.entries = append(current.entries, &Entry{
				Key: ln.Key,
				Doc: doc,
				ln:  ln,
			})
		}
	}

	return d
}

// splitLines cuts data into lines, remembering each line's own ending.
func splitLines(data []byte) []*line {
	var lines []*line
	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] != '\n' {
			continue
		}
		end, eol := i, "\n"
		if end > start && data[end-1] == '\r' {
			end--
			eol = "\r\n"
		}
		lines = append(lines, &line{Raw: string(data[start:end]), EOL: eol})
		start = i + 1
	}
	if start < len(data) {
		lines = append(lines, &line{Raw: string(data[start:])})
	}
	return lines
}

// docAbove collects the comment block directly above line i. Blank
// lines inside the block are skipped; anything else ends it.
func (d *Document) docAbove(i int) string {
	var parts []string
	for j := i - 1; j >= 0; j-- {
		switch d.lines[j].Kind {
		case LineComment:
			parts = append([]string{d.lines[j].commentText()}, parts...)
		case LineBlank:
			continue
		default:
			return strings.Join(parts, "\n")
		}
	}
	return strings.Join(parts, "\n")
}

// Path returns the file path the document was loaded from or will be
// saved to.
func (d *Document) Path() string { return d.path }

// Sections returns the document's sections in file order.
func (d *Document) Sections() []*Section {
	out := make([]*Section, len(d.sections))
	copy(out, d.sections)
	return out
}

// Section returns the section with the given name, matched
// case-insensitively.
func (d *Document) Section(name string) (*Section, bool) {
	return d.section(name)
}

func (d *Document) section(name string) (*Section, bool) {
	for _, s := range d.sections {
		if strings.EqualFold(s.name, name) {
			return s, true
		}
	}
	return nil, false
}

// Find returns the entry for key in section. With duplicate keys the
// last occurrence wins.
func (d *Document) Find(section, key string) (*Entry, bool) {
	s, ok := d.section(section)
	if !ok {
		return nil, false
	}
	return s.Entry(key)
}

// Get returns the current value of key in section.
func (d *Document) Get(section, key string) (string, bool) {
	e, ok := d.Find(section, key)
	if !ok {
		return "", false
	}
	return e.Value(), true
}

// LineOf returns the 1-based line number of an entry, or 0 if the entry
// does not belong to this document.
func (d *Document) LineOf(e *Entry) int {
	for i, ln := range d.lines {
		if ln == e.ln {
			return i + 1
		}
	}
	return 0
}

// Malformed lists lines that are neither blank, comment, header, nor
// entry. They survive a save untouched.
func (d *Document) Malformed() []Issue {
	var out []Issue
	for i, ln := range d.lines {
		if ln.Kind == LineOther {
			out = append(out, Issue{Line: i + 1, Text: ln.Raw})
		}
	}
	return out
}

// Orphaned lists entry lines that appear before any section header.
// They are kept in the file but have no addressable section.
func (d *Document) Orphaned() []Issue {
	var out []Issue
	for i, ln := range d.lines {
		if ln.orphan {
			out = append(out, Issue{Line: i + 1, Text: ln.Raw})
		}
	}
	return out
}

func (d *Document) lineIndexOf(target *line) int {
	for i, ln := range d.lines {
		if ln == target {
			return i
		}
	}
	return -1
}
