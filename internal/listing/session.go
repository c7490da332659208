package listing

import (
	"time"

	"coalition_site/internal/filter"
)

// State is the user-controlled part of a list session.
type State struct {
	Filter filter.Spec
	Sort   SortKey
	Index  int
}

// List is one rendering session over a fixed collection. Every control
// recomputes the view synchronously; nothing is cached between calls.
type List[T any] struct {
	items  []T
	acc    Accessors[T]
	window Window
	now    func() time.Time
	state  State
}

// NewList starts a session with the All filter and the Default sort.
// A nil now means the wall clock.
func NewList[T any](items []T, acc Accessors[T], w Window, now func() time.Time) *List[T] {
	if now == nil {
		now = time.Now
	}
	return &List[T]{
		items:  items,
		acc:    acc,
		window: w,
		now:    now,
		state:  State{Filter: filter.All(), Sort: SortDefault},
	}
}

// View projects the current state.
func (l *List[T]) View() View[T] {
	v := Project(l.items, l.acc, l.state.Filter, l.state.Sort, l.window, l.state.Index, l.now())
	l.state.Index = v.Index
	return v
}

// State returns the current state, with the index clamped to the result.
func (l *List[T]) State() State {
	l.View()
	return l.state
}

// Restore replaces the state wholesale, as when a stateless transport
// rebuilds a session from a request.
func (l *List[T]) Restore(s State) {
	l.state = s
}

// SetFilter selects a filter and rewinds to the first window.
func (l *List[T]) SetFilter(spec filter.Spec) {
	l.state.Filter = spec
	l.state.Index = 0
}

// SetSort selects an ordering and rewinds to the first window.
func (l *List[T]) SetSort(key SortKey) {
	l.state.Sort = key
	l.state.Index = 0
}

// Next advances one window unless already at the last one.
func (l *List[T]) Next() {
	if l.View().CanNext {
		l.state.Index++
	}
}

// Prev goes back one window unless already at the first one.
func (l *List[T]) Prev() {
	if l.View().CanPrev {
		l.state.Index--
	}
}

// Jump moves to window i, clamped to the available windows.
func (l *List[T]) Jump(i int) {
	l.state.Index = i
	l.View()
}
