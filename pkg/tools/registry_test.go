package tools

import (
	"testing"
)

func TestParseChatInputIsNotACommand(t *testing.T) {
	r := NewRegistry()

	for _, input := range []string{
		"hello there",
		"touch file.txt", // no sentinel
		"",
		"   ",
	} {
		if _, ok := r.Parse(input); ok {
			t.Errorf("Parse(%q) should not match a command", input)
		}
	}
}

func TestParseTouch(t *testing.T) {
	r := NewRegistry()

	cmd, ok := r.Parse(":touch notes.txt")
	if !ok {
		t.Fatal("expected touch to parse")
	}
	tc, isTouch := cmd.(*touchCommand)
	if !isTouch {
		t.Fatalf("expected touchCommand, got %T", cmd)
	}
	if tc.path != "notes.txt" {
		t.Errorf("path = %q", tc.path)
	}
}

func TestParseMissingArgumentsFails(t *testing.T) {
	r := NewRegistry()

	malformed := []string{
		":touch",
		":touch   ",
		":rm",
		":write",
		":edit-at f.txt 1",       // missing col
		":edit-at f.txt one 0 x", // non-numeric line
		":edit-at f.txt 1 -2 x",  // negative col
		":move-content a.txt 1 2 b.txt", // missing dst line
		":move-content a.txt x 2 b.txt 1",
	}
	for _, input := range malformed {
		if _, ok := r.Parse(input); ok {
			t.Errorf("Parse(%q) should fail", input)
		}
	}
}

func TestParseUnknownNameFails(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Parse(":frobnicate a b c"); ok {
		t.Error("unknown command name should not parse")
	}
}

func TestParseWriteKeepsContentVerbatim(t *testing.T) {
	r := NewRegistry()

	cmd, ok := r.Parse(":write out.txt hello  spaced   world")
	if !ok {
		t.Fatal("expected write to parse")
	}
	wc := cmd.(*writeCommand)
	if wc.path != "out.txt" {
		t.Errorf("path = %q", wc.path)
	}
	if wc.content != "hello  spaced   world" {
		t.Errorf("content = %q, internal spaces must survive", wc.content)
	}
}

func TestParseEditAt(t *testing.T) {
	r := NewRegistry()

	cmd, ok := r.Parse(":edit-at f.txt 2 4 some inserted text")
	if !ok {
		t.Fatal("expected edit-at to parse")
	}
	ec := cmd.(*editAtCommand)
	if ec.path != "f.txt" || ec.line != 2 || ec.col != 4 {
		t.Errorf("parsed = %+v", ec)
	}
	if ec.content != "some inserted text" {
		t.Errorf("content = %q", ec.content)
	}
}

func TestParseEditAtWithoutContent(t *testing.T) {
	r := NewRegistry()

	cmd, ok := r.Parse(":edit-at f.txt 1 0")
	if !ok {
		t.Fatal("expected edit-at to parse")
	}
	if ec := cmd.(*editAtCommand); ec.content != "" {
		t.Errorf("content = %q, want empty", ec.content)
	}
}

func TestParseMoveContent(t *testing.T) {
	r := NewRegistry()

	cmd, ok := r.Parse(":move-content src.txt 2 3 dst.txt 1")
	if !ok {
		t.Fatal("expected move-content to parse")
	}
	mc := cmd.(*moveContentCommand)
	if mc.src != "src.txt" || mc.startLine != 2 || mc.endLine != 3 ||
		mc.dst != "dst.txt" || mc.dstLine != 1 {
		t.Errorf("parsed = %+v", mc)
	}
}

func TestParseFindAllowsEmptyPattern(t *testing.T) {
	r := NewRegistry()

	cmd, ok := r.Parse(":find")
	if !ok {
		t.Fatal("find with no pattern still parses")
	}
	if fc := cmd.(*findCommand); fc.pattern != "" {
		t.Errorf("pattern = %q", fc.pattern)
	}
}
