package listing

import (
	"cmp"
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"coalition_site/internal/dates"
	"coalition_site/internal/filter"
)

// SortKey names an ordering of a list.
type SortKey string

// Supported sort keys.
const (
	SortDefault   SortKey = "default"
	SortTitleAsc  SortKey = "title_asc"
	SortTitleDesc SortKey = "title_desc"
	SortDateAsc   SortKey = "date_asc"
	SortDateDesc  SortKey = "date_desc"
	SortCountAsc  SortKey = "count_asc"
	SortCountDesc SortKey = "count_desc"
)

// SortOption is a selectable entry of a list's sort control.
type SortOption struct {
	ID    string
	Label string
	Key   SortKey
}

// LookupSort returns the sort option with the given ID.
func LookupSort(options []SortOption, id string) (SortOption, bool) {
	for _, o := range options {
		if o.ID == id {
			return o, true
		}
	}
	return SortOption{}, false
}

// Sort returns a sorted copy of items. Every key falls back to ascending
// identifier order for ties, so the result does not depend on input order.
func Sort[T any](items []T, acc Accessors[T], key SortKey, now time.Time) []T {
	out := slices.Clone(items)
	compare := comparator(acc, key, now)
	slices.SortStableFunc(out, func(a, b T) int {
		if c := compare(a, b); c != 0 {
			return c
		}
		return cmp.Compare(acc.id(a), acc.id(b))
	})
	return out
}

func comparator[T any](acc Accessors[T], key SortKey, now time.Time) func(a, b T) int {
	switch key {
	case SortTitleAsc, SortTitleDesc:
		col := collate.New(language.English)
		sign := direction(key == SortTitleAsc)
		return func(a, b T) int {
			return sign * col.CompareString(acc.title(a), acc.title(b))
		}
	case SortDateAsc, SortDateDesc:
		sign := direction(key == SortDateAsc)
		return func(a, b T) int {
			return sign * cmp.Compare(dates.Millis(acc.time(a)), dates.Millis(acc.time(b)))
		}
	case SortCountAsc, SortCountDesc:
		sign := direction(key == SortCountAsc)
		return func(a, b T) int {
			return sign * cmp.Compare(acc.count(a), acc.count(b))
		}
	default:
		return func(a, b T) int { return upcomingFirst(acc.time(a), acc.time(b), now) }
	}
}

// upcomingFirst orders upcoming items before past ones, the soonest
// upcoming first and the most recent past first.
func upcomingFirst(a, b *time.Time, now time.Time) int {
	aUp, bUp := filter.IsUpcoming(a, now), filter.IsUpcoming(b, now)
	switch {
	case aUp && !bUp:
		return -1
	case !aUp && bUp:
		return 1
	case aUp:
		return cmp.Compare(dates.Millis(a), dates.Millis(b))
	default:
		return cmp.Compare(dates.Millis(b), dates.Millis(a))
	}
}

func direction(asc bool) int {
	if asc {
		return 1
	}
	return -1
}
