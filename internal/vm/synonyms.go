package vm

import "strings"

type synonym struct {
	glyph  string
	opcode string
}

// synonyms are applied in order, each to the result of the previous one.
var synonyms = []synonym{
	{"\U0001F53C", "l"},       // up button
	{"\U0001F53D", "s"},       // down button
	{"\U0001F9EE", "m"},       // abacus
	{"\u2753", "j"},           // question mark
	{"\u2757", "J"},           // exclamation mark
	{"\u26D4", "h"},           // no entry
	{"\U0001F50D", "f"},       // magnifying glass
	{"\u270F\uFE0F", "p"},     // pencil
	{"\U0001F5D1\uFE0F", "d"}, // wastebasket
}

// normalize rewrites a leading pictographic opcode into its letter form.
func normalize(instruction string) string {
	for _, s := range synonyms {
		if strings.HasPrefix(instruction, s.glyph) {
			instruction = s.opcode + instruction[len(s.glyph):]
		}
	}
	return instruction
}
