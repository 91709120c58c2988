// Package textbuf stores renderable program text as a flat sequence of
// marks: one per grapheme cluster and one per line break.
package textbuf

import (
	"fmt"
	"strings"
	"sync"

	"github.com/atomicstack/volute/internal/program"
	"github.com/rivo/uniseg"
)

// Buffer is the text backend a Program reads from and splices into.
type Buffer struct {
	mu      sync.RWMutex
	marks   []program.Mark
	version uint64
}

var _ program.Backend = (*Buffer)(nil)

// NewFromString segments text into graphemes. "\n" and "\r\n" become line
// breaks.
func NewFromString(text string) *Buffer {
	b := &Buffer{}
	b.marks = parse(text)
	return b
}

// SetText replaces the whole content.
func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.marks = parse(text)
	b.version++
}

// Version increments on every change.
func (b *Buffer) Version() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// Len returns the number of marks.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.marks)
}

// Lines groups the marks into rows of letters. There is always at least one
// row.
func (b *Buffer) Lines() [][]program.Letter {
	b.mu.RLock()
	defer b.mu.RUnlock()
	lines := [][]program.Letter{{}}
	for _, m := range b.marks {
		if m.Newline {
			lines = append(lines, []program.Letter{})
			continue
		}
		last := len(lines) - 1
		lines[last] = append(lines[last], m.Letter)
	}
	return lines
}

// Text renders the content with "\n" line breaks.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var sb strings.Builder
	for _, m := range b.marks {
		if m.Newline {
			sb.WriteByte('\n')
			continue
		}
		sb.WriteString(m.Letter.Grapheme)
	}
	return sb.String()
}

// SplitGraphemes segments text into grapheme clusters.
func (b *Buffer) SplitGraphemes(text string) []string {
	return splitGraphemes(text)
}

// ReplaceRange removes count marks at offset and inserts marks there.
func (b *Buffer) ReplaceRange(offset, count int, marks []program.Mark) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if offset < 0 || offset > len(b.marks) {
		return fmt.Errorf("replace range at %d of %d: %w", offset, len(b.marks), program.ErrOutOfBounds)
	}
	if count < 0 {
		count = 0
	}
	if count > len(b.marks)-offset {
		count = len(b.marks) - offset
	}
	updated := make([]program.Mark, 0, len(b.marks)-count+len(marks))
	updated = append(updated, b.marks[:offset]...)
	updated = append(updated, marks...)
	updated = append(updated, b.marks[offset+count:]...)
	b.marks = updated
	b.version++
	return nil
}

func parse(text string) []program.Mark {
	graphemes := splitGraphemes(text)
	marks := make([]program.Mark, 0, len(graphemes))
	for _, g := range graphemes {
		if g == "\n" || g == "\r\n" {
			marks = append(marks, program.Mark{Newline: true})
			continue
		}
		marks = append(marks, program.Mark{Letter: program.Letter{Grapheme: g}})
	}
	return marks
}

func splitGraphemes(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}
