package vm

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var binaryOps = map[rune]func(x, y int64) (int64, error){
	'<': func(x, y int64) (int64, error) { return boolInt(x < y), nil },
	'>': func(x, y int64) (int64, error) { return boolInt(x > y), nil },
	'+': add,
	'&': func(x, y int64) (int64, error) { return x & y, nil },
}

func add(x, y int64) (int64, error) {
	sum := x + y
	if (x > 0 && y > 0 && sum < 0) || (x < 0 && y < 0 && sum >= 0) {
		return 0, fmt.Errorf("%d + %d: %w", x, y, ErrOverflow)
	}
	return sum, nil
}

// math reads its operator from the first letter of operand; any remaining
// text replaces the popped second argument. Unknown operators do nothing.
func (t *Thread) math(operand string) (flow, error) {
	op, size := utf8.DecodeRuneInString(operand)
	if size == 0 {
		return advance, nil
	}
	arg := operand[size:]

	switch op {
	case '=':
		y := arg
		if y == "" {
			v, err := t.pop()
			if err != nil {
				return advance, err
			}
			y = v
		}
		x, err := t.pop()
		if err != nil {
			return advance, err
		}
		t.push(strconv.FormatInt(boolInt(x == y), 10))
		return advance, nil
	case '!':
		v, err := t.pop()
		if err != nil {
			return advance, err
		}
		n, err := parseNumber(v)
		if err != nil {
			return advance, err
		}
		t.push(strconv.FormatInt(boolInt(n == 0), 10))
		return advance, nil
	}

	fn, ok := binaryOps[op]
	if !ok {
		return advance, nil
	}
	yText := arg
	if yText == "" {
		v, err := t.pop()
		if err != nil {
			return advance, err
		}
		yText = v
	}
	y, err := parseNumber(yText)
	if err != nil {
		return advance, err
	}
	xText, err := t.pop()
	if err != nil {
		return advance, err
	}
	x, err := parseNumber(xText)
	if err != nil {
		return advance, err
	}
	result, err := fn(x, y)
	if err != nil {
		return advance, err
	}
	t.push(strconv.FormatInt(result, 10))
	return advance, nil
}

func parseNumber(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrNotNumber)
	}
	return n, nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
