// Package listing is the generic filter, sort and windowing engine behind
// every list on the site.
package listing

import (
	"time"

	"coalition_site/internal/filter"
)

// Accessors extract the fields the engine needs from an entity.
// Any nil accessor reads as the zero value.
type Accessors[T any] struct {
	ID       func(T) string
	Title    func(T) string
	Time     func(T) *time.Time
	Category func(T) string
	Region   func(T) string
	Count    func(T) int
}

func (a Accessors[T]) id(v T) string {
	if a.ID == nil {
		return ""
	}
	return a.ID(v)
}

func (a Accessors[T]) title(v T) string {
	if a.Title == nil {
		return ""
	}
	return a.Title(v)
}

func (a Accessors[T]) time(v T) *time.Time {
	if a.Time == nil {
		return nil
	}
	return a.Time(v)
}

func (a Accessors[T]) count(v T) int {
	if a.Count == nil {
		return 0
	}
	return a.Count(v)
}

func (a Accessors[T]) subject(v T) filter.Subject {
	s := filter.Subject{At: a.time(v)}
	if a.Category != nil {
		s.Category = a.Category(v)
	}
	if a.Region != nil {
		s.Region = a.Region(v)
	}
	return s
}

// Mode is the navigation flavour of a window.
type Mode string

// Supported window modes.
const (
	ModeSlide Mode = "slide"
	ModePage  Mode = "page"
)

// Window describes how a sorted list is cut into contiguous chunks.
type Window struct {
	Mode Mode
	Size int
}

// Slides returns a slide window of n items.
func Slides(n int) Window { return Window{Mode: ModeSlide, Size: n} }

// Pages returns a page window of n items.
func Pages(n int) Window { return Window{Mode: ModePage, Size: n} }

func (w Window) size() int {
	if w.Size < 1 {
		return 1
	}
	return w.Size
}

// View is the visible chunk of a filtered, sorted list plus navigation state.
type View[T any] struct {
	Items   []T
	Index   int
	Total   int
	Matched int
	CanNext bool
	CanPrev bool
	Window  Window
}

// Filter returns the items matching spec, in input order.
func Filter[T any](items []T, acc Accessors[T], spec filter.Spec, now time.Time) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if filter.Match(acc.subject(it), spec, now) {
			out = append(out, it)
		}
	}
	return out
}

// Project filters, sorts and windows items. The index is clamped to the
// available windows; an empty result has zero windows and no navigation.
func Project[T any](items []T, acc Accessors[T], spec filter.Spec, key SortKey, w Window, index int, now time.Time) View[T] {
	sorted := Sort(Filter(items, acc, spec, now), acc, key, now)

	size := w.size()
	total := (len(sorted) + size - 1) / size
	index = clamp(index, total)

	view := View[T]{
		Items:   []T{},
		Index:   index,
		Total:   total,
		Matched: len(sorted),
		CanNext: index < total-1,
		CanPrev: index > 0,
		Window:  w,
	}
	if total == 0 {
		return view
	}

	start := index * size
	end := min(start+size, len(sorted))
	view.Items = sorted[start:end]
	return view
}

func clamp(index, total int) int {
	if index >= total {
		index = total - 1
	}
	if index < 0 {
		index = 0
	}
	return index
}
