package inifile

import (
	"fmt"
	"strings"
)

// DiffKind classifies one difference between two documents.
type DiffKind int

const (
	// DiffAdded means the entry exists only in the right document.
	DiffAdded DiffKind = iota
	// DiffRemoved means the entry exists only in the left document.
	DiffRemoved
	// DiffChanged means both documents carry the entry with
	// different values.
	DiffChanged
)

func (k DiffKind) String() string {
	switch k {
	case DiffAdded:
		return "added"
	case DiffRemoved:
		return "removed"
	case DiffChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// MarshalJSON emits the kind as its lowercase name.
func (k DiffKind) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", k.String())), nil
}

// DiffEntry is one key-level difference between two documents.
type DiffEntry struct {
	Kind    DiffKind `json:"kind"`
	Section string   `json:"section"`
	Key     string   `json:"key"`
	Old     string   `json:"old,omitempty"`
	New     string   `json:"new,omitempty"`
}

// Compare reports the key-level differences between two documents,
// left to right: entries only in a are removed, entries only in b are
// added, entries in both with different values are changed. Sections
// and keys match case-insensitively. With duplicate keys the last
// occurrence is compared, the one the Creation Kit reads.
func Compare(a, b *Document) []DiffEntry {
	var diffs []DiffEntry
	for _, sa := range a.Sections() {
		for _, e := range effectiveEntries(sa) {
			val, ok := b.Get(sa.Name(), e.Key)
			switch {
			case !ok:
				diffs = append(diffs, DiffEntry{
					Kind:    DiffRemoved,
					Section: sa.Name(),
					Key:     e.Key,
					Old:     e.Value(),
				})
			case val != e.Value():
				diffs = append(diffs, DiffEntry{
					Kind:    DiffChanged,
					Section: sa.Name(),
					Key:     e.Key,
					Old:     e.Value(),
					New:     val,
				})
			}
		}
	}
	for _, sb := range b.Sections() {
		for _, e := range effectiveEntries(sb) {
			if _, ok := a.Get(sb.Name(), e.Key); !ok {
				diffs = append(diffs, DiffEntry{
					Kind:    DiffAdded,
					Section: sb.Name(),
					Key:     e.Key,
					New:     e.Value(),
				})
			}
		}
	}
	return diffs
}

// effectiveEntries collapses duplicate keys to a single entry in
// first-seen order carrying the last-seen occurrence.
func effectiveEntries(s *Section) []*Entry {
	index := make(map[string]int)
	var out []*Entry
	for _, e := range s.Entries() {
		k := strings.ToLower(e.Key)
		if i, ok := index[k]; ok {
			out[i] = e
			continue
		}
		index[k] = len(out)
		out = append(out, e)
	}
	return out
}
