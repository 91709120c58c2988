package state

import (
	"fmt"

	"github.com/atomicstack/volute/internal/program"
)

// Item is one program word offered by the label finder.
type Item struct {
	Label    string
	Location program.Location
}

// ID identifies the item by where the word starts, since labels repeat.
func (i Item) ID() string {
	return fmt.Sprintf("%s@%s", i.Label, i.Location)
}

// ItemsFromWords lists words in document order.
func ItemsFromWords(words []program.WordAt) []Item {
	items := make([]Item, len(words))
	for i, w := range words {
		items[i] = Item{Label: w.Word.Text, Location: w.Location}
	}
	return items
}

// CloneItems produces a shallow copy of the provided items.
func CloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
