package projections

import (
	"slices"

	"golang.org/x/text/collate"

	"studio/internal/domain/display"
)

// newCollator returns a collator for the studio locale.
// Collators are not safe for concurrent use, so each query builds its own.
func newCollator() *collate.Collator {
	return collate.New(display.Locale, collate.IgnoreCase)
}

// sortByName orders items by the name key, with id as a stable tiebreak.
func sortByName[T any](items []T, name func(T) string, id func(T) string) {
	c := newCollator()
	slices.SortStableFunc(items, func(a, b T) int {
		if n := c.CompareString(name(a), name(b)); n != 0 {
			return n
		}
		switch {
		case id(a) < id(b):
			return -1
		case id(a) > id(b):
			return 1
		}
		return 0
	})
}
