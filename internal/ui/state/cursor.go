package state

// MoveCursorUp moves the cursor to the previous item.
func (f *Finder) MoveCursorUp() bool {
	return f.moveCursorBy(-1)
}

// MoveCursorDown moves the cursor to the next item.
func (f *Finder) MoveCursorDown() bool {
	return f.moveCursorBy(1)
}

// MoveCursorHome moves the cursor to the first item.
func (f *Finder) MoveCursorHome() bool {
	if len(f.Items) == 0 {
		f.Cursor = 0
		return false
	}
	old := f.Cursor
	f.Cursor = 0
	return old != f.Cursor
}

// MoveCursorEnd moves the cursor to the last item.
func (f *Finder) MoveCursorEnd() bool {
	n := len(f.Items)
	if n == 0 {
		f.Cursor = 0
		return false
	}
	old := f.Cursor
	f.Cursor = n - 1
	return old != f.Cursor
}

// MoveCursorPageUp moves the cursor up by the given page size.
func (f *Finder) MoveCursorPageUp(maxVisible int) bool {
	return f.moveCursorBy(-f.pageSize(maxVisible))
}

// MoveCursorPageDown moves the cursor down by the given page size.
func (f *Finder) MoveCursorPageDown(maxVisible int) bool {
	return f.moveCursorBy(f.pageSize(maxVisible))
}

func (f *Finder) moveCursorBy(delta int) bool {
	if len(f.Items) == 0 {
		f.Cursor = 0
		return false
	}
	old := f.Cursor
	f.Cursor = min(max(f.Cursor+delta, 0), len(f.Items)-1)
	return f.Cursor != old
}

func (f *Finder) pageSize(maxVisible int) int {
	total := len(f.Items)
	if total == 0 {
		return 0
	}
	if maxVisible <= 0 || maxVisible > total {
		return total
	}
	return maxVisible
}

// EnsureCursorVisible adjusts the viewport offset so the cursor stays visible.
func (f *Finder) EnsureCursorVisible(maxVisible int) {
	if len(f.Items) == 0 {
		f.Cursor = 0
		f.ViewportOffset = 0
		return
	}
	f.Cursor = min(max(f.Cursor, 0), len(f.Items)-1)
	if maxVisible <= 0 {
		f.ViewportOffset = 0
		return
	}
	maxOffset := max(len(f.Items)-maxVisible, 0)
	f.ViewportOffset = min(max(f.ViewportOffset, 0), maxOffset)
	if f.Cursor < f.ViewportOffset {
		f.ViewportOffset = f.Cursor
	}
	if upper := f.ViewportOffset + maxVisible - 1; f.Cursor > upper {
		f.ViewportOffset = min(max(f.Cursor-maxVisible+1, 0), maxOffset)
	}
}

// Visible returns the items inside the viewport.
func (f *Finder) Visible(maxVisible int) []Item {
	if maxVisible <= 0 || maxVisible >= len(f.Items) {
		return f.Items
	}
	end := min(f.ViewportOffset+maxVisible, len(f.Items))
	return f.Items[f.ViewportOffset:end]
}
