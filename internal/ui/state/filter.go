package state

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SetFilter updates the query, remembering the unfiltered cursor so clearing
// the query puts it back.
func (f *Finder) SetFilter(query string) {
	trimmed := strings.TrimSpace(query)
	prevTrimmed := strings.TrimSpace(f.Filter)
	restore := -1
	f.Filter = query
	if trimmed != "" {
		if prevTrimmed == "" {
			f.LastCursor = f.Cursor
		}
		f.Cursor = 0
	} else if prevTrimmed != "" {
		restore = f.LastCursor
	}
	f.applyFilter()
	if trimmed != "" && len(f.Items) > 0 {
		if idx := BestMatchIndex(f.Items, trimmed); idx >= 0 {
			f.Cursor = idx
		}
	}
	if trimmed == "" && prevTrimmed != "" {
		if restore >= 0 && restore < len(f.Items) {
			f.Cursor = restore
		} else {
			f.Cursor = 0
		}
		f.LastCursor = -1
	}
}

func (f *Finder) applyFilter() {
	f.Items = FilterItems(f.Full, f.Filter)
	if len(f.Items) == 0 {
		f.Cursor = 0
		f.ViewportOffset = 0
		return
	}
	if f.Cursor < 0 {
		f.Cursor = 0
	}
	if f.Cursor >= len(f.Items) {
		f.Cursor = len(f.Items) - 1
	}
	if f.ViewportOffset > len(f.Items)-1 {
		f.ViewportOffset = 0
	}
}

// FilterItems returns the items whose label fuzzily matches query, in their
// original order. Without fuzzy matches it falls back to substring matches.
func FilterItems(items []Item, query string) []Item {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return CloneItems(items)
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels(items))
	if len(ranks) > 0 {
		matches := make(map[int]struct{}, len(ranks))
		for _, rank := range ranks {
			matches[rank.OriginalIndex] = struct{}{}
		}
		filtered := make([]Item, 0, len(matches))
		for idx, item := range items {
			if _, ok := matches[idx]; ok {
				filtered = append(filtered, item)
			}
		}
		return filtered
	}
	lower := strings.ToLower(trimmed)
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Label), lower) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// BestMatchIndex prefers an exact label, then a prefix, then the closest
// fuzzy match. Ties go to the earlier word.
func BestMatchIndex(items []Item, query string) int {
	if len(items) == 0 {
		return -1
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return 0
	}
	for i, item := range items {
		if item.Label == trimmed {
			return i
		}
	}
	for i, item := range items {
		if strings.EqualFold(item.Label, trimmed) {
			return i
		}
	}
	lower := strings.ToLower(trimmed)
	for i, item := range items {
		if strings.HasPrefix(strings.ToLower(item.Label), lower) {
			return i
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels(items))
	if len(ranks) == 0 {
		return 0
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance ||
			(rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex) {
			best = rank
		}
	}
	return best.OriginalIndex
}

func labels(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}
