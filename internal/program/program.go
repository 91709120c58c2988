// Package program holds the letter grid a volute program runs against.
//
// The grid is the single mutation authority for a run: threads address it
// only through Location values, and every edit goes through Replace or
// AddLine so the backend (when immediate sync is on) and the entry point stay
// consistent with the rows and columns the interpreter sees.
package program

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/atomicstack/volute/internal/logging/events"
)

// ClickMarker prefixes words that handle click events.
const ClickMarker = "MOUSE"

var headerRE = regexp.MustCompile(`^(?:🐌+|--+[\s\p{Zs}]+volute(?:[\s\p{Zs}].*)?)$`)

// Program is the 2-D letter grid of a running program.
type Program struct {
	backend   Backend
	immediate bool
	lines     [][]Letter

	entry    Location
	hasEntry bool
}

// New snapshots the backend's current content. When immediate is true every
// edit is spliced into the backend as it happens; otherwise call Flush.
func New(backend Backend, immediate bool) *Program {
	src := backend.Lines()
	lines := make([][]Letter, len(src))
	for i, line := range src {
		lines[i] = append([]Letter(nil), line...)
	}
	if len(lines) == 0 {
		lines = [][]Letter{{}}
	}
	p := &Program{
		backend:   backend,
		immediate: immediate,
		lines:     lines,
	}
	p.updateEntryPoint()
	return p
}

// EntryPoint returns the first word after the first header line.
func (p *Program) EntryPoint() (Location, bool) {
	return p.entry, p.hasEntry
}

// RowCount returns the number of rows.
func (p *Program) RowCount() int {
	return len(p.lines)
}

// RowLen returns the letter count of row, or 0 for rows outside the grid.
func (p *Program) RowLen(row int) int {
	if row < 0 || row >= len(p.lines) {
		return 0
	}
	return len(p.lines[row])
}

// Contains reports whether loc addresses an existing letter.
func (p *Program) Contains(loc Location) bool {
	return loc.Row >= 0 && loc.Row < len(p.lines) && loc.Col >= 0 && loc.Col < len(p.lines[loc.Row])
}

// ReadWord collects the non-whitespace letters starting at loc, and the
// whitespace run after them when includeTrailingSpaces is set. It never
// crosses a row and returns an empty word when loc is past the row end or on
// whitespace (unless trailing spaces were requested).
func (p *Program) ReadWord(loc Location, includeTrailingSpaces bool) Word {
	if loc.Row < 0 || loc.Row >= len(p.lines) || loc.Col < 0 {
		return Word{}
	}
	line := p.lines[loc.Row]
	var sb strings.Builder
	n := 0
	col := loc.Col
	for ; col < len(line) && !IsSpace(line[col].Grapheme); col++ {
		sb.WriteString(line[col].Grapheme)
		n++
	}
	if includeTrailingSpaces {
		for ; col < len(line) && IsSpace(line[col].Grapheme); col++ {
			sb.WriteString(line[col].Grapheme)
			n++
		}
	}
	return Word{Text: sb.String(), Length: n}
}

// NextWordLocation skips whitespace from loc, moving to the start of the
// next row when a row runs out, and returns the first non-whitespace letter.
func (p *Program) NextWordLocation(loc Location) (Location, bool) {
	row, col := loc.Row, loc.Col
	if row < 0 {
		row, col = 0, 0
	}
	if col < 0 {
		col = 0
	}
	for ; row < len(p.lines); row++ {
		line := p.lines[row]
		for ; col < len(line); col++ {
			if !IsSpace(line[col].Grapheme) {
				return Location{Row: row, Col: col}, true
			}
		}
		col = 0
	}
	return Location{}, false
}

// FindByPrefix returns the first word in document order whose text starts
// with prefix. An empty prefix matches the first word.
func (p *Program) FindByPrefix(prefix string) (Location, bool) {
	var found Location
	ok := false
	p.walkWords(Location{}, func(loc Location, w Word) bool {
		if strings.HasPrefix(w.Text, prefix) {
			found, ok = loc, true
			return false
		}
		return true
	})
	return found, ok
}

// FindWord returns the first word in document order equal to text.
func (p *Program) FindWord(text string) (Location, bool) {
	var found Location
	ok := false
	p.walkWords(Location{}, func(loc Location, w Word) bool {
		if w.Text == text {
			found, ok = loc, true
			return false
		}
		return true
	})
	return found, ok
}

// Words lists every word in document order.
func (p *Program) Words() []WordAt {
	var out []WordAt
	p.walkWords(Location{}, func(loc Location, w Word) bool {
		out = append(out, WordAt{Location: loc, Word: w})
		return true
	})
	return out
}

// ClickHandlerLocations walks every word from the entry point to the end of
// the program and returns those starting with ClickMarker.
func (p *Program) ClickHandlerLocations() []Location {
	if !p.hasEntry {
		return nil
	}
	var handlers []Location
	p.walkWords(p.entry, func(loc Location, w Word) bool {
		if strings.HasPrefix(w.Text, ClickMarker) {
			handlers = append(handlers, loc)
		}
		return true
	})
	return handlers
}

func (p *Program) walkWords(from Location, visit func(Location, Word) bool) {
	loc, ok := p.NextWordLocation(from)
	for ok {
		w := p.ReadWord(loc, false)
		if !visit(loc, w) {
			return
		}
		loc, ok = p.NextWordLocation(Location{Row: loc.Row, Col: loc.Col + w.Length})
	}
}

// LetterAt returns the grapheme at loc.
func (p *Program) LetterAt(loc Location) (string, error) {
	if !p.Contains(loc) {
		return "", fmt.Errorf("letter at %s: %w", loc, ErrOutOfBounds)
	}
	return p.lines[loc.Row][loc.Col].Grapheme, nil
}

// Replace deletes length letters at loc and inserts text in their place,
// returning how many letters were inserted. The deletion is clamped at the
// row end. Callers holding locations on the same row must rebase them by the
// difference between the inserted and deleted counts.
func (p *Program) Replace(loc Location, length int, text string) (int, error) {
	if loc.Row < 0 || loc.Row >= len(p.lines) || loc.Col < 0 || loc.Col > len(p.lines[loc.Row]) {
		return 0, fmt.Errorf("replace at %s: %w", loc, ErrOutOfBounds)
	}
	line := p.lines[loc.Row]
	if length < 0 {
		length = 0
	}
	if loc.Col+length > len(line) {
		length = len(line) - loc.Col
	}
	letters := p.splitLetters(text)

	updated := make([]Letter, 0, len(line)-length+len(letters))
	updated = append(updated, line[:loc.Col]...)
	updated = append(updated, letters...)
	updated = append(updated, line[loc.Col+length:]...)
	p.lines[loc.Row] = updated
	events.Program.Edit(loc.String(), length, len(letters))

	var syncErr error
	if p.immediate {
		marks := make([]Mark, len(letters))
		for i, l := range letters {
			marks[i] = Mark{Letter: l}
		}
		if err := p.backend.ReplaceRange(p.offsetOf(loc), length, marks); err != nil {
			syncErr = fmt.Errorf("sync replace at %s: %w", loc, err)
		}
	}

	if !p.hasEntry || loc.Row <= p.entry.Row {
		p.updateEntryPoint()
	}
	return len(letters), syncErr
}

// AddLine inserts an empty row before beforeRow. beforeRow may equal the row
// count to append a row at the end.
func (p *Program) AddLine(beforeRow int) error {
	if beforeRow < 0 || beforeRow > len(p.lines) {
		return fmt.Errorf("add line before row %d: %w", beforeRow+1, ErrOutOfBounds)
	}
	offset := p.offsetOf(Location{Row: beforeRow})
	if beforeRow == len(p.lines) {
		// no trailing line break after the last row, so append one instead
		offset--
	}

	p.lines = append(p.lines, nil)
	copy(p.lines[beforeRow+1:], p.lines[beforeRow:])
	p.lines[beforeRow] = []Letter{}
	events.Program.Line(beforeRow + 1)

	var syncErr error
	if p.immediate {
		if err := p.backend.ReplaceRange(offset, 0, []Mark{{Newline: true}}); err != nil {
			syncErr = fmt.Errorf("sync line before row %d: %w", beforeRow+1, err)
		}
	}

	if p.hasEntry && beforeRow <= p.entry.Row {
		p.entry.Row++
	} else if !p.hasEntry {
		p.updateEntryPoint()
	}
	return syncErr
}

// Flush replaces the backend's whole content with the grid.
func (p *Program) Flush() error {
	var marks []Mark
	for i, line := range p.lines {
		if i > 0 {
			marks = append(marks, Mark{Newline: true})
		}
		for _, l := range line {
			marks = append(marks, Mark{Letter: l})
		}
	}
	return p.backend.ReplaceRange(0, math.MaxInt, marks)
}

// Text joins the grid with newlines.
func (p *Program) Text() string {
	var sb strings.Builder
	for i, line := range p.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, l := range line {
			sb.WriteString(l.Grapheme)
		}
	}
	return sb.String()
}

// Lines returns a copy of the grid.
func (p *Program) Lines() [][]Letter {
	out := make([][]Letter, len(p.lines))
	for i, line := range p.lines {
		out[i] = append([]Letter(nil), line...)
	}
	return out
}

func (p *Program) offsetOf(loc Location) int {
	offset := loc.Col
	for _, line := range p.lines[:loc.Row] {
		offset += len(line) + 1
	}
	return offset
}

func (p *Program) splitLetters(text string) []Letter {
	if text == "" {
		return nil
	}
	graphemes := p.backend.SplitGraphemes(text)
	letters := make([]Letter, len(graphemes))
	for i, g := range graphemes {
		letters[i] = Letter{Grapheme: g}
	}
	return letters
}

func (p *Program) updateEntryPoint() {
	before, had := p.entry, p.hasEntry
	p.entry, p.hasEntry = Location{}, false

	newParagraph := true
	for i := 0; i < len(p.lines)-1; i++ {
		line := p.lines[i]
		if newParagraph && isHeader(line) {
			p.entry, p.hasEntry = p.NextWordLocation(Location{Row: i + 1})
			break
		}
		newParagraph = len(line) == 0
	}

	if had != p.hasEntry || before != p.entry {
		if p.hasEntry {
			events.Program.Entry(p.entry.String())
		} else {
			events.Program.Entry("")
		}
	}
}

func isHeader(line []Letter) bool {
	var sb strings.Builder
	for _, l := range line {
		sb.WriteString(l.Grapheme)
	}
	return headerRE.MatchString(sb.String())
}

// IsSpace reports whether a letter counts as whitespace. A grapheme with any
// whitespace rune in it separates words.
func IsSpace(letter string) bool {
	for _, r := range letter {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}
