package vm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atomicstack/volute/internal/program"
)

// EncodeLocation renders loc the way programs see it in memory: "row:col",
// 1-indexed.
func EncodeLocation(loc program.Location) string {
	return fmt.Sprintf("%d:%d", loc.Row+1, loc.Col+1)
}

// ParseLocation reverses EncodeLocation. It does not check the result
// against any grid.
func ParseLocation(s string) (program.Location, error) {
	rowText, colText, ok := strings.Cut(s, ":")
	if !ok {
		return program.Location{}, fmt.Errorf("%q: %w", s, ErrBadLocation)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rowText))
	if err != nil {
		return program.Location{}, fmt.Errorf("%q: %w", s, ErrBadLocation)
	}
	col, err := strconv.Atoi(strings.TrimSpace(colText))
	if err != nil {
		return program.Location{}, fmt.Errorf("%q: %w", s, ErrBadLocation)
	}
	return program.Location{Row: row - 1, Col: col - 1}, nil
}
