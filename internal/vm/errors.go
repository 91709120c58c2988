package vm

import (
	"errors"
	"fmt"

	"github.com/atomicstack/volute/internal/program"
)

// Errors that stop a thread. Lookup misses are not errors.
var (
	// ErrStackUnderflow indicates a pop from empty memory.
	ErrStackUnderflow = errors.New("memory is empty")

	// ErrNotNumber indicates a math argument that does not parse as an integer.
	ErrNotNumber = errors.New("not a number")

	// ErrOverflow indicates a math result outside the 64-bit integer range.
	ErrOverflow = errors.New("integer overflow")

	// ErrBadLocation indicates a popped value that is not a "row:col" location.
	ErrBadLocation = errors.New("malformed location")

	// ErrOutOfBounds indicates a location outside the program grid.
	ErrOutOfBounds = program.ErrOutOfBounds
)

// Fault describes why a thread stopped abnormally.
type Fault struct {
	Thread      string
	Location    program.Location
	Instruction string
	Err         error
}

func (f *Fault) Error() string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("thread %s: %q at %s: %v", f.Thread, f.Instruction, f.Location, f.Err)
}

func (f *Fault) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.Err
}
