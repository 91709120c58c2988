// Package state holds the list state of the label finder: the full word
// list, the fuzzy-filtered view of it, the cursor and the viewport.
package state

// Finder encapsulates cursor position, filter and viewport over program words.
type Finder struct {
	Items          []Item
	Full           []Item
	Filter         string
	Cursor         int
	LastCursor     int
	ViewportOffset int
}

// NewFinder constructs a Finder over items with the cursor on the first one.
func NewFinder(items []Item) *Finder {
	f := &Finder{LastCursor: -1}
	f.UpdateItems(items)
	return f
}

// UpdateItems replaces the word list, keeping the filter and, where it still
// fits, the viewport.
func (f *Finder) UpdateItems(items []Item) {
	prevOffset := f.ViewportOffset
	f.Full = CloneItems(items)
	f.applyFilter()
	if len(f.Items) == 0 || prevOffset < 0 || prevOffset > len(f.Items)-1 {
		f.ViewportOffset = 0
		return
	}
	f.ViewportOffset = prevOffset
}

// Current returns the item under the cursor.
func (f *Finder) Current() (Item, bool) {
	if f.Cursor < 0 || f.Cursor >= len(f.Items) {
		return Item{}, false
	}
	return f.Items[f.Cursor], true
}

// IndexOf returns the index of the item with the given ID, or -1.
func (f *Finder) IndexOf(id string) int {
	for i, item := range f.Items {
		if item.ID() == id {
			return i
		}
	}
	return -1
}
