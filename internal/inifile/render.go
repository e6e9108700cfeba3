package inifile

import "bytes"

// entryText renders an entry line from its parsed fields, in the shape
// the Creation Kit Platform Extended loader expects: value first, then
// the inline comment pushed right by tabs.
func entryText(ln *line) string {
	s := ln.Indent + ln.Key + "=" + ln.Value
	if ln.Inline != "" {
		s += "\t\t\t; " + ln.Inline
	}
	return s
}

// Render serializes the document. Untouched lines are emitted byte for
// byte as they were read; edited entries are rewritten in place with
// their original indentation and line ending.
func (d *Document) Render() []byte {
	var buf bytes.Buffer
	if d.bom {
		buf.Write(bom)
	}
	for _, ln := range d.lines {
		if ln.dirty {
			buf.WriteString(entryText(ln))
		} else {
			buf.WriteString(ln.Raw)
		}
		buf.WriteString(ln.EOL)
	}
	return buf.Bytes()
}
