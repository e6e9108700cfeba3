package inifile

import (
	"strings"

	"github.com/ckpe-tools/ckpectl/internal/errors"
)

// Op is the kind of edit recorded in a Change.
type Op int

const (
	// OpSet rewrote the value of an existing entry.
	OpSet Op = iota
	// OpAppend added an entry that was not in the file.
	OpAppend
	// OpComment disabled an entry by turning its line into a comment.
	OpComment
)

// String returns a short verb for the operation.
func (o Op) String() string {
	switch o {
	case OpSet:
		return "set"
	case OpAppend:
		return "append"
	case OpComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Change records one pending edit. Old is the value before the first
// edit to the entry; New is the value it will have after a save.
type Change struct {
	Section string
	Key     string
	Old     string
	New     string
	Op      Op

	// doc holds the comment block of an appended entry, or the note of
	// a commented-out entry, kept for replay.
	doc string
}

func changeKey(section, key string) string {
	return strings.ToLower(section) + "\x00" + strings.ToLower(key)
}

// Dirty reports whether the document has pending edits.
func (d *Document) Dirty() bool { return len(d.changes) > 0 }

// Changes returns the pending edits in the order they were first made.
func (d *Document) Changes() []Change {
	out := make([]Change, len(d.changes))
	copy(out, d.changes)
	return out
}

// Set rewrites the value of key in section. All occurrences of a
// duplicated key are rewritten so the file cannot end up disagreeing
// with itself; lookups read the last occurrence. Setting an entry back
// to its original value cancels the pending edit.
func (d *Document) Set(section, key, value string) error {
	sec, ok := d.section(section)
	if !ok {
		return errors.SectionNotFound(section)
	}

	var matched []*Entry
	for _, e := range sec.entries {
		if strings.EqualFold(e.Key, key) {
			matched = append(matched, e)
		}
	}
	if len(matched) == 0 {
		return errors.KeyNotFound(section, key)
	}

	last := matched[len(matched)-1]
	same := true
	for _, e := range matched {
		if e.Value() != value {
			same = false
			break
		}
	}
	if same {
		return nil
	}

	old := last.Value()
	for _, e := range matched {
		e.ln.Value = value
		e.ln.dirty = true
	}

	ck := changeKey(sec.name, last.Key)
	if i, exists := d.changeIdx[ck]; exists {
		if d.changes[i].Op == OpSet && d.changes[i].Old == value {
			// Back to the original value: drop the edit and
			// restore the lines byte for byte.
			for _, e := range matched {
				e.ln.restore()
			}
			d.removeChange(i)
			return nil
		}
		d.changes[i].New = value
		return nil
	}

	d.addChange(Change{
		Section: sec.name,
		Key:     last.Key,
		Old:     old,
		New:     value,
		Op:      OpSet,
	})
	return nil
}

// Append adds a new entry at the end of section, creating the section
// at the end of the file if needed. A non-empty doc is written as
// comment lines above the entry.
func (d *Document) Append(section, key, value, doc string) *Entry {
	sec, ok := d.section(section)
	if !ok {
		sec = d.appendSection(section)
	}

	anchor := sec.header
	if len(sec.entries) > 0 {
		anchor = sec.entries[len(sec.entries)-1].ln
	}
	pos := d.lineIndexOf(anchor) + 1
	if anchor.EOL == "" {
		anchor.EOL = d.eol
	}

	var fresh []*line
	if doc != "" {
		for _, text := range strings.Split(doc, "\n") {
			cl := &line{Raw: "; " + text, EOL: d.eol, Kind: LineComment}
			fresh = append(fresh, cl)
		}
	}
	el := &line{
		Raw:   key + "=" + value,
		EOL:   d.eol,
		Kind:  LineEntry,
		Key:   key,
		Value: value,
	}
	fresh = append(fresh, el)

	d.lines = append(d.lines[:pos], append(fresh, d.lines[pos:]...)...)

	entry := &Entry{Key: key, Doc: doc, ln: el}
	sec.entries = append(sec.entries, entry)

	ck := changeKey(sec.name, key)
	if i, exists := d.changeIdx[ck]; exists {
		d.changes[i].New = value
		d.changes[i].Op = OpAppend
		d.changes[i].doc = doc
	} else {
		d.addChange(Change{
			Section: sec.name,
			Key:     key,
			New:     value,
			Op:      OpAppend,
			doc:     doc,
		})
	}
	return entry
}

// appendSection adds a new section header at the end of the file,
// separated from existing content by a blank line.
func (d *Document) appendSection(name string) *Section {
	if n := len(d.lines); n > 0 {
		if d.lines[n-1].EOL == "" {
			d.lines[n-1].EOL = d.eol
		}
		if d.lines[n-1].Kind != LineBlank {
			d.lines = append(d.lines, &line{EOL: d.eol, Kind: LineBlank})
		}
	}
	header := &line{Raw: "[" + name + "]", EOL: d.eol, Kind: LineSection, Name: name}
	d.lines = append(d.lines, header)

	sec := &Section{name: name, header: header}
	d.sections = append(d.sections, sec)
	return sec
}

// CommentOut disables key in section by turning each of its lines into
// a comment. The line count is unchanged, so following entries keep
// their positions. A non-empty note is appended in the inline-comment
// position, e.g. a pointer to where a migrated setting moved.
func (d *Document) CommentOut(section, key, note string) error {
	sec, ok := d.section(section)
	if !ok {
		return errors.SectionNotFound(section)
	}

	var matched []*Entry
	for _, e := range sec.entries {
		if strings.EqualFold(e.Key, key) {
			matched = append(matched, e)
		}
	}
	if len(matched) == 0 {
		return errors.KeyNotFound(section, key)
	}

	old := matched[len(matched)-1].Value()
	for _, e := range matched {
		ln := e.ln
		if ln.dirty {
			ln.Raw = entryText(ln)
		}
		body := ln.Raw[len(ln.Indent):]
		ln.Raw = ln.Indent + "; " + body
		if note != "" {
			ln.Raw += "\t\t\t; " + note
		}
		ln.restore()
	}

	kept := sec.entries[:0]
	for _, e := range sec.entries {
		if !strings.EqualFold(e.Key, key) {
			kept = append(kept, e)
		}
	}
	sec.entries = kept

	ck := changeKey(sec.name, key)
	if i, exists := d.changeIdx[ck]; exists {
		d.changes[i].New = ""
		d.changes[i].Op = OpComment
		d.changes[i].doc = note
		return nil
	}
	d.addChange(Change{
		Section: sec.name,
		Key:     matched[len(matched)-1].Key,
		Old:     old,
		Op:      OpComment,
		doc:     note,
	})
	return nil
}

// RevertKey cancels the pending edit for one key, keeping all other
// edits. It rebuilds the document from the original bytes and replays
// the remaining changes in order. Reverting a key with no pending edit
// is a no-op.
func (d *Document) RevertKey(section, key string) {
	i, ok := d.changeIdx[changeKey(section, key)]
	if !ok {
		return
	}

	remaining := make([]Change, 0, len(d.changes)-1)
	remaining = append(remaining, d.changes[:i]...)
	remaining = append(remaining, d.changes[i+1:]...)

	d.Revert()
	for _, c := range remaining {
		switch c.Op {
		case OpSet:
			_ = d.Set(c.Section, c.Key, c.New)
		case OpAppend:
			d.Append(c.Section, c.Key, c.New, c.doc)
		case OpComment:
			_ = d.CommentOut(c.Section, c.Key, c.doc)
		}
	}
}

// Revert discards all pending edits, restoring the document to the
// bytes it was parsed from.
func (d *Document) Revert() {
	fresh := Parse(d.src, d.path)
	d.bom = fresh.bom
	d.eol = fresh.eol
	d.lines = fresh.lines
	d.sections = fresh.sections
	d.changes = nil
	d.changeIdx = nil
}

// MarkSaved re-baselines the document after a successful save: pending
// edits become the new original content.
func (d *Document) MarkSaved() {
	for _, ln := range d.lines {
		if ln.dirty {
			ln.Raw = entryText(ln)
			ln.dirty = false
		}
	}
	d.src = d.Render()
	d.changes = nil
	d.changeIdx = nil
}

func (d *Document) addChange(c Change) {
	if d.changeIdx == nil {
		d.changeIdx = make(map[string]int)
	}
	d.changeIdx[changeKey(c.Section, c.Key)] = len(d.changes)
	d.changes = append(d.changes, c)
}

func (d *Document) removeChange(i int) {
	c := d.changes[i]
	delete(d.changeIdx, changeKey(c.Section, c.Key))
	d.changes = append(d.changes[:i], d.changes[i+1:]...)
	for k, v := range d.changeIdx {
		if v > i {
			d.changeIdx[k] = v - 1
		}
	}
}
