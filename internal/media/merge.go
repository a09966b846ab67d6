package media

import (
	"sort"
	"strings"
)

// MergeAndSort concatenates the given lists, keeps exactly one item per
// (type, id) key, and orders the result newest first. When a key repeats,
// the later occurrence wins but the item stays at the position of the first
// occurrence, so re-sorting stays stable for exact ties.
//
// Ordering is descending on all three components: start date, then type,
// then lowercase title. Items without a start date sort as 1900-01-01 and
// land at the bottom.
func MergeAndSort(lists ...[]Item) []Item {
	var merged []Item
	index := make(map[Key]int)
	for _, list := range lists {
		for _, it := range list {
			if i, ok := index[it.Key()]; ok {
				merged[i] = it
				continue
			}
			index[it.Key()] = len(merged)
			merged = append(merged, it)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		ad, bd := a.SortDate(), b.SortDate()
		if !ad.Equal(bd) {
			return ad.After(bd)
		}
		if a.Type != b.Type {
			return a.Type > b.Type
		}
		return strings.ToLower(a.Title) > strings.ToLower(b.Title)
	})

	return merged
}

// Filter returns the items matching a type selection and a case-insensitive
// title search. An empty query matches everything; the query is matched
// against both the display title and the native title.
func Filter(items []Item, t Type, query string) []Item {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]Item, 0, len(items))
	for _, it := range items {
		if t != "" && t != TypeAll && it.Type != t {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(it.Title), query) &&
			!strings.Contains(strings.ToLower(it.NativeTitle), query) {
			continue
		}
		out = append(out, it)
	}
	return out
}
