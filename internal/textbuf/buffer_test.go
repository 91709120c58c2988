package textbuf

import (
	"math"
	"testing"

	"github.com/atomicstack/volute/internal/program"
)

func TestNewFromStringSplitsRowsAndGraphemes(t *testing.T) {
	b := NewFromString("a" + "é" + "\n🐌🐌\r\n")
	lines := b.Lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lines))
	}
	if len(lines[0]) != 2 || lines[0][1].Grapheme != "é" {
		t.Fatalf("expected combining grapheme kept whole, got %#v", lines[0])
	}
	if len(lines[1]) != 2 {
		t.Fatalf("expected 2 snails, got %d", len(lines[1]))
	}
	if len(lines[2]) != 0 {
		t.Fatalf("expected empty trailing row, got %#v", lines[2])
	}
	if got := b.Text(); got != "a"+"é"+"\n🐌🐌\n" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestEmptyBufferHasOneRow(t *testing.T) {
	b := NewFromString("")
	if lines := b.Lines(); len(lines) != 1 || len(lines[0]) != 0 {
		t.Fatalf("expected a single empty row, got %#v", lines)
	}
}

func TestReplaceRangeSplicesMarks(t *testing.T) {
	b := NewFromString("ab\ncd")
	marks := []program.Mark{{Letter: program.Letter{Grapheme: "X"}}, {Newline: true}}
	if err := b.ReplaceRange(1, 1, marks); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if got := b.Text(); got != "aX\n\ncd" {
		t.Fatalf("expected %q, got %q", "aX\n\ncd", got)
	}
	if b.Version() != 1 {
		t.Fatalf("expected version 1, got %d", b.Version())
	}
}

func TestReplaceRangeClampsCount(t *testing.T) {
	b := NewFromString("abc")
	if err := b.ReplaceRange(0, math.MaxInt, []program.Mark{{Letter: program.Letter{Grapheme: "z"}}}); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if got := b.Text(); got != "z" {
		t.Fatalf("expected %q, got %q", "z", got)
	}
}

func TestReplaceRangeRejectsOffsetPastEnd(t *testing.T) {
	b := NewFromString("abc")
	if err := b.ReplaceRange(4, 0, nil); err == nil {
		t.Fatalf("expected error for offset past end")
	}
}

func TestSplitGraphemes(t *testing.T) {
	b := NewFromString("")
	got := b.SplitGraphemes("\u270f\ufe0fx")
	if len(got) != 2 || got[0] != "\u270f\ufe0f" || got[1] != "x" {
		t.Fatalf("unexpected graphemes %#v", got)
	}
	if got := b.SplitGraphemes(""); got != nil {
		t.Fatalf("expected nil for empty text, got %#v", got)
	}
}
