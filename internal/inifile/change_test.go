package inifile

import (
	"strings"
	"testing"
)

func TestSet(t *testing.T) {
	d := Parse([]byte(sample), "test.ini")

	if err := d.Set("CreationKit", "bSkipFileCheck", "false"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if got, _ := d.Get("CreationKit", "bSkipFileCheck"); got != "false" {
		t.Errorf("Get() after Set() = %q, want %q", got, "false")
	}
	if !d.Dirty() {
		t.Error("Dirty() = false after Set()")
	}

	changes := d.Changes()
	if len(changes) != 1 {
		t.Fatalf("len(Changes()) = %d, want 1", len(changes))
	}
	want := Change{Section: "CreationKit", Key: "bSkipFileCheck", Old: "true", New: "false", Op: OpSet}
	if changes[0] != want {
		t.Errorf("Changes()[0] = %+v, want %+v", changes[0], want)
	}
}

func TestSet_SectionAndKeyErrors(t *testing.T) {
	d := Parse([]byte(sample), "test.ini")

	if err := d.Set("Nope", "bSkipFileCheck", "false"); err == nil {
		t.Error("Set() with unknown section succeeded")
	}
	if err := d.Set("CreationKit", "bNope", "false"); err == nil {
		t.Error("Set() with unknown key succeeded")
	}
	if d.Dirty() {
		t.Error("failed Set() left the document dirty")
	}
}

func TestSet_NoopWhenUnchanged(t *testing.T) {
	d := Parse([]byte(sample), "test.ini")

	if err := d.Set("CreationKit", "bSkipFileCheck", "true"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if d.Dirty() {
		t.Error("Dirty() = true after setting the current value")
	}
	if got := string(d.Render()); got != sample {
		t.Errorf("Render() changed after a no-op Set:\n%s", got)
	}
}

func TestSet_BackToOriginalCancelsEdit(t *testing.T) {
	content := "[A]\nbGDI = true\n"
	d := Parse([]byte(content), "test.ini")

	if err := d.Set("A", "bGDI", "false"); err != nil {
		t.Fatal(err)
	}
	if err := d.Set("A", "bGDI", "true"); err != nil {
		t.Fatal(err)
	}

	if d.Dirty() {
		t.Error("Dirty() = true after setting back to the original value")
	}
	// The original spacing around '=' must survive.
	if got := string(d.Render()); got != content {
		t.Errorf("Render() = %q, want original %q", got, content)
	}
}

func TestSet_DuplicateKeyRewritesAll(t *testing.T) {
	content := "[Graphics]\nbAntiAliasing=true\nbAntiAliasing=false\n"
	d := Parse([]byte(content), "test.ini")

	if err := d.Set("Graphics", "bAntiAliasing", "true"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	want := "[Graphics]\nbAntiAliasing=true\nbAntiAliasing=true\n"
	if got := string(d.Render()); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestSet_KeepsInlineComment(t *testing.T) {
	d := Parse([]byte(sample), "test.ini")

	if err := d.Set("Graphics", "nCharset", "128"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	out := string(d.Render())
	if !strings.Contains(out, "nCharset=128\t\t\t; windows charset id\n") {
		t.Errorf("inline comment not re-emitted:\n%s", out)
	}
}

func TestSet_KeepsIndentation(t *testing.T) {
	content := "[A]\n    bIndented=true\n"
	d := Parse([]byte(content), "test.ini")

	if err := d.Set("A", "bIndented", "false"); err != nil {
		t.Fatal(err)
	}

	want := "[A]\n    bIndented=false\n"
	if got := string(d.Render()); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestSet_RepeatedUpdatesSameChange(t *testing.T) {
	d := Parse([]byte(sample), "test.ini")

	if err := d.Set("CreationKit", "bSkipFileCheck", "false"); err != nil {
		t.Fatal(err)
	}
	if err := d.Set("Graphics", "bRenderWindowVSync", "false"); err != nil {
		t.Fatal(err)
	}
	if err := d.Set("CreationKit", "bSkipFileCheck", "TRUE"); err != nil {
		t.Fatal(err)
	}

	changes := d.Changes()
	if len(changes) != 2 {
		t.Fatalf("len(Changes()) = %d, want 2", len(changes))
	}
	if changes[0].Old != "true" || changes[0].New != "TRUE" {
		t.Errorf("Changes()[0] = %+v, want Old true New TRUE", changes[0])
	}
}

func TestAppend_ExistingSection(t *testing.T) {
	content := "[A]\na=1\n\n[B]\nb=2\n"
	d := Parse([]byte(content), "test.ini")

	d.Append("A", "x", "9", "added later")

	want := "[A]\na=1\n; added later\nx=9\n\n[B]\nb=2\n"
	if got := string(d.Render()); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	if got, _ := d.Get("A", "x"); got != "9" {
		t.Errorf("Get(A, x) = %q, want 9", got)
	}
	changes := d.Changes()
	if len(changes) != 1 || changes[0].Op != OpAppend || changes[0].New != "9" {
		t.Errorf("Changes() = %+v", changes)
	}
}

func TestAppend_NewSection(t *testing.T) {
	content := "[A]\na=1\n"
	d := Parse([]byte(content), "test.ini")

	d.Append("Audio", "bEnableAudio", "true", "")

	want := "[A]\na=1\n\n[Audio]\nbEnableAudio=true\n"
	if got := string(d.Render()); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestAppend_EmptyDocument(t *testing.T) {
	d := New("fresh.ini")

	d.Append("CreationKit", "bSkipFileCheck", "false", "")

	want := "[CreationKit]\r\nbSkipFileCheck=false\r\n"
	if got := string(d.Render()); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestAppend_FileWithoutTrailingNewline(t *testing.T) {
	content := "[A]\na=1"
	d := Parse([]byte(content), "test.ini")

	d.Append("A", "b", "2", "")

	want := "[A]\na=1\nb=2\n"
	if got := string(d.Render()); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestAppend_MultiLineDoc(t *testing.T) {
	d := Parse([]byte("[A]\na=1\n"), "test.ini")

	d.Append("A", "x", "9", "first\nsecond")

	want := "[A]\na=1\n; first\n; second\nx=9\n"
	if got := string(d.Render()); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	e, _ := d.Find("A", "x")
	if e.Doc != "first\nsecond" {
		t.Errorf("Doc = %q", e.Doc)
	}
}

func TestCommentOut(t *testing.T) {
	content := "[CreationKit]\nbUIDarkTheme=true\nbSkipFileCheck=true\n"
	d := Parse([]byte(content), "test.ini")

	if err := d.CommentOut("CreationKit", "bUIDarkTheme", ""); err != nil {
		t.Fatalf("CommentOut() error = %v", err)
	}

	want := "[CreationKit]\n; bUIDarkTheme=true\nbSkipFileCheck=true\n"
	if got := string(d.Render()); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	if _, ok := d.Get("CreationKit", "bUIDarkTheme"); ok {
		t.Error("commented-out entry still addressable")
	}

	changes := d.Changes()
	if len(changes) != 1 || changes[0].Op != OpComment || changes[0].Old != "true" {
		t.Errorf("Changes() = %+v", changes)
	}
}

func TestCommentOut_Note(t *testing.T) {
	content := "[CreationKit]\nbUIDarkTheme=true\n"
	d := Parse([]byte(content), "test.ini")

	if err := d.CommentOut("CreationKit", "bUIDarkTheme", "migrated to [Theme] uUIDarkThemeId"); err != nil {
		t.Fatalf("CommentOut() error = %v", err)
	}

	want := "[CreationKit]\n; bUIDarkTheme=true\t\t\t; migrated to [Theme] uUIDarkThemeId\n"
	if got := string(d.Render()); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestCommentOut_PreservesLineCount(t *testing.T) {
	content := "[A]\n  x=1\ny=2\n"
	d := Parse([]byte(content), "test.ini")

	before := len(strings.Split(string(d.Render()), "\n"))
	if err := d.CommentOut("A", "x", ""); err != nil {
		t.Fatal(err)
	}
	after := len(strings.Split(string(d.Render()), "\n"))

	if before != after {
		t.Errorf("line count changed: %d -> %d", before, after)
	}
	if !strings.Contains(string(d.Render()), "  ; x=1\n") {
		t.Errorf("indentation lost:\n%s", d.Render())
	}
}

func TestCommentOut_Errors(t *testing.T) {
	d := Parse([]byte(sample), "test.ini")

	if err := d.CommentOut("Nope", "x", ""); err == nil {
		t.Error("CommentOut() with unknown section succeeded")
	}
	if err := d.CommentOut("CreationKit", "bNope", ""); err == nil {
		t.Error("CommentOut() with unknown key succeeded")
	}
}

func TestRevertKey(t *testing.T) {
	d := Parse([]byte(sample), "test.ini")

	if err := d.Set("CreationKit", "bSkipFileCheck", "false"); err != nil {
		t.Fatal(err)
	}
	if err := d.Set("Graphics", "bRenderWindowVSync", "false"); err != nil {
		t.Fatal(err)
	}

	d.RevertKey("CreationKit", "bSkipFileCheck")

	if got, _ := d.Get("CreationKit", "bSkipFileCheck"); got != "true" {
		t.Errorf("reverted key = %q, want original %q", got, "true")
	}
	if got, _ := d.Get("Graphics", "bRenderWindowVSync"); got != "false" {
		t.Errorf("other edit lost: %q, want %q", got, "false")
	}
	if n := len(d.Changes()); n != 1 {
		t.Errorf("len(Changes()) = %d, want 1", n)
	}
}

func TestRevertKey_AppendedEntry(t *testing.T) {
	d := Parse([]byte(sample), "test.ini")

	d.Append("Audio", "bEnableAudio", "true", "Play sounds")
	d.Append("Audio", "fMasterVolume", "0.5", "")

	d.RevertKey("Audio", "bEnableAudio")

	if _, ok := d.Get("Audio", "bEnableAudio"); ok {
		t.Error("reverted append still present")
	}
	if got, _ := d.Get("Audio", "fMasterVolume"); got != "0.5" {
		t.Errorf("surviving append = %q, want 0.5", got)
	}
	if strings.Contains(string(d.Render()), "Play sounds") {
		t.Error("comment block of reverted append still present")
	}
}

func TestRevertKey_NoPendingEdit(t *testing.T) {
	d := Parse([]byte(sample), "test.ini")
	d.RevertKey("CreationKit", "bSkipFileCheck")
	if d.Dirty() {
		t.Error("RevertKey() on a clean key dirtied the document")
	}
	if got := string(d.Render()); got != sample {
		t.Errorf("Render() changed: %q", got)
	}
}

func TestRevert(t *testing.T) {
	d := Parse([]byte(sample), "test.ini")

	if err := d.Set("CreationKit", "bSkipFileCheck", "false"); err != nil {
		t.Fatal(err)
	}
	d.Append("Audio", "bEnableAudio", "true", "")

	d.Revert()

	if d.Dirty() {
		t.Error("Dirty() = true after Revert()")
	}
	if got := string(d.Render()); got != sample {
		t.Errorf("Render() after Revert() differs from original:\n%s", got)
	}
	if _, ok := d.Section("Audio"); ok {
		t.Error("appended section survived Revert()")
	}
}

func TestMarkSaved(t *testing.T) {
	d := Parse([]byte(sample), "test.ini")

	if err := d.Set("CreationKit", "bSkipFileCheck", "false"); err != nil {
		t.Fatal(err)
	}
	saved := string(d.Render())

	d.MarkSaved()

	if d.Dirty() {
		t.Error("Dirty() = true after MarkSaved()")
	}
	if got := string(d.Render()); got != saved {
		t.Errorf("Render() changed by MarkSaved():\n%s", got)
	}

	// Revert now returns to the saved content, not the load-time bytes.
	if err := d.Set("Graphics", "bRenderWindowVSync", "false"); err != nil {
		t.Fatal(err)
	}
	d.Revert()
	if got := string(d.Render()); got != saved {
		t.Errorf("Revert() after MarkSaved() = %q, want saved content", got)
	}
}
