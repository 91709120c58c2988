package vm

import (
	"fmt"

	"github.com/atomicstack/volute/internal/program"
)

func (t *Thread) load(prefix string) (flow, error) {
	loc, ok := t.prog.FindByPrefix(prefix)
	if !ok {
		return advance, nil
	}
	t.push(t.prog.ReadWord(loc, false).Text[len(prefix):])
	return advance, nil
}

// save pops before looking the target up, so a missing target still
// consumes the value.
func (t *Thread) save(prefix string) (flow, error) {
	value, err := t.pop()
	if err != nil {
		return advance, err
	}
	loc, ok := t.prog.FindByPrefix(prefix)
	if !ok {
		return advance, nil
	}
	length := t.prog.ReadWord(loc, false).Length
	inserted, err := t.prog.Replace(loc, length, prefix+value)
	if err != nil {
		return advance, err
	}
	t.edited(edit{at: loc, deleted: length, inserted: inserted})
	return advance, nil
}

func (t *Thread) branchIfTrue(label string) (flow, error) {
	v, err := t.pop()
	if err != nil {
		return advance, err
	}
	if !truthy(v) {
		return advance, nil
	}
	return t.jump(label)
}

// jump halts the thread when no word equals label.
func (t *Thread) jump(label string) (flow, error) {
	t.ip, t.running = t.prog.FindWord(label)
	return transfer, nil
}

func (t *Thread) halt(string) (flow, error) {
	t.running = false
	return transfer, nil
}

func (t *Thread) find(prefix string) (flow, error) {
	if loc, ok := t.prog.FindByPrefix(prefix); ok {
		t.pushLocation(loc)
	}
	return advance, nil
}

func (t *Thread) insertWord(string) (flow, error) {
	word, err := t.pop()
	if err != nil {
		return advance, err
	}
	loc, err := t.popLocation()
	if err != nil {
		return advance, err
	}
	current := t.prog.ReadWord(loc, false)
	at := program.Location{Row: loc.Row, Col: loc.Col + current.Length}
	inserted, err := t.prog.Replace(at, 0, " "+word)
	if err != nil {
		return advance, err
	}
	t.edited(edit{at: at, inserted: inserted, inclusive: true})
	t.pushLocation(program.Location{Row: at.Row, Col: at.Col + 1})
	return advance, nil
}

func (t *Thread) insertLine(string) (flow, error) {
	loc, err := t.popLocation()
	if err != nil {
		return advance, err
	}
	row := loc.Row + 1
	if err := t.prog.AddLine(row); err != nil {
		return advance, err
	}
	t.edited(edit{at: program.Location{Row: row}, line: true})
	t.pushLocation(program.Location{Row: row, Col: 0})
	return advance, nil
}

func (t *Thread) deleteWord(string) (flow, error) {
	loc, err := t.popLocation()
	if err != nil {
		return advance, err
	}
	length := t.prog.ReadWord(loc, true).Length
	if _, err := t.prog.Replace(loc, length, ""); err != nil {
		return advance, err
	}
	t.edited(edit{at: loc, deleted: length})
	t.pushLocation(loc)
	return advance, nil
}

func (t *Thread) deleteLetter(string) (flow, error) {
	loc, err := t.popLocation()
	if err != nil {
		return advance, err
	}
	if !t.prog.Contains(loc) {
		return advance, fmt.Errorf("delete letter at %s: %w", loc, ErrOutOfBounds)
	}
	if _, err := t.prog.Replace(loc, 1, ""); err != nil {
		return advance, err
	}
	t.edited(edit{at: loc, deleted: 1})
	t.pushLocation(loc)
	return advance, nil
}

func (t *Thread) paste(string) (flow, error) {
	text, err := t.pop()
	if err != nil {
		return advance, err
	}
	loc, err := t.popLocation()
	if err != nil {
		return advance, err
	}
	inserted, err := t.prog.Replace(loc, 0, text)
	if err != nil {
		return advance, err
	}
	t.edited(edit{at: loc, inserted: inserted, inclusive: true})
	return advance, nil
}

// move does not check bounds; an unknown direction leaves the location as it
// was.
func (t *Thread) move(direction string) (flow, error) {
	loc, err := t.popLocation()
	if err != nil {
		return advance, err
	}
	switch direction {
	case "up":
		loc.Row--
	case "down":
		loc.Row++
	case "left":
		loc.Col--
	case "right":
		loc.Col++
	}
	t.pushLocation(loc)
	return advance, nil
}

func (t *Thread) drop(string) (flow, error) {
	_, err := t.pop()
	return advance, err
}

func (t *Thread) swap(string) (flow, error) {
	a, err := t.pop()
	if err != nil {
		return advance, err
	}
	b, err := t.pop()
	if err != nil {
		return advance, err
	}
	t.push(a)
	t.push(b)
	return advance, nil
}

func (t *Thread) dup(string) (flow, error) {
	x, err := t.pop()
	if err != nil {
		return advance, err
	}
	t.push(x)
	t.push(x)
	return advance, nil
}

func (t *Thread) peekLetter(string) (flow, error) {
	loc, err := t.popLocation()
	if err != nil {
		return advance, err
	}
	letter, err := t.prog.LetterAt(loc)
	if err != nil {
		return advance, err
	}
	t.push(letter)
	return advance, nil
}

func (t *Thread) indirectJump(string) (flow, error) {
	loc, err := t.popLocation()
	if err != nil {
		return advance, err
	}
	if !t.prog.Contains(loc) {
		return advance, fmt.Errorf("jump to %s: %w", loc, ErrOutOfBounds)
	}
	t.ip = loc
	return transfer, nil
}

// truthy treats "" and "0" as false; everything else is true.
func truthy(v string) bool {
	return v != "" && v != "0"
}
