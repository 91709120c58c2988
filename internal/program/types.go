package program

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when an edit or read addresses a row or column
// outside the letter grid.
var ErrOutOfBounds = errors.New("location outside program")

// Location addresses a letter cell by 0-based row and column. Columns count
// letters (grapheme clusters), not bytes or words.
type Location struct {
	Row int
	Col int
}

// String renders the location 1-indexed, matching what users see.
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Row+1, l.Col+1)
}

// Letter is one grapheme cluster of program text. Formatting is not tracked;
// edits replace letters wholesale.
type Letter struct {
	Grapheme string
}

// Word is a run of letters read from the grid. Length counts the consumed
// letters, including trailing whitespace when it was requested, and is the
// value to use for pointer arithmetic.
type Word struct {
	Text   string
	Length int
}

// Mark is a single unit spliced into a Backend: a letter or a line break.
type Mark struct {
	Letter  Letter
	Newline bool
}

// Backend owns the renderable program content. Offsets passed to
// ReplaceRange are flat mark indexes where every row contributes its letters
// followed by one line-break mark (except the last row). A count that runs
// past the end is clamped.
type Backend interface {
	Lines() [][]Letter
	SplitGraphemes(text string) []string
	ReplaceRange(offset, count int, marks []Mark) error
}

// WordAt pairs a word with where it starts.
type WordAt struct {
	Location Location
	Word     Word
}
