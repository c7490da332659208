// Package lists binds the generic listing engine to the site's content types.
package lists

import (
	"encoding/json"
	"time"

	"coalition_site/internal/filter"
	"coalition_site/internal/listing"
	"coalition_site/internal/model"
)

// Query is the request-level state of a list: option IDs and a window index.
// Exclude drops one UID from the collection (used for related items).
type Query struct {
	Filter  string
	Sort    string
	Index   int
	Exclude string
}

// ActionType names a user control.
type ActionType string

// Supported list controls.
const (
	ActionNone   ActionType = ""
	ActionFilter ActionType = "filter"
	ActionSort   ActionType = "sort"
	ActionNext   ActionType = "next"
	ActionPrev   ActionType = "prev"
	ActionJump   ActionType = "jump"
)

// Action is one user interaction applied on top of a Query.
type Action struct {
	Type  ActionType
	ID    string
	Index int
}

// Choice is an entry of a filter or sort control.
type Choice struct {
	ID       string
	Label    string
	Selected bool
}

// Page is a rendered list window.
type Page struct {
	Name     string
	Title    string
	Route    string
	Mode     listing.Mode
	Cards    []model.Card
	Query    Query
	Index    int
	Total    int
	Matched  int
	CanNext  bool
	CanPrev  bool
	Filters  []Choice
	Sorts    []Choice
	EmptyMsg string
}

// Empty reports whether nothing matched.
func (p Page) Empty() bool { return p.Total == 0 }

// Windows lists the window indexes, one per dot indicator.
func (p Page) Windows() []int {
	out := make([]int, p.Total)
	for i := range out {
		out[i] = i
	}
	return out
}

// Field is a labelled value on a detail page.
type Field struct {
	Label string
	Value string
}

// Detail is the full view of one item.
type Detail struct {
	Card      model.Card
	Body      string
	DateLabel string
	TimeLabel string
	Location  string
	Fields    []Field
	// CountdownTo is set for items with a meaningful future instant.
	CountdownTo *time.Time
}

// Lister is the type-erased view of a Binding used by the transports.
type Lister interface {
	Name() string
	Kind() model.Kind
	Title() string
	Route() string
	FilterOptions() []filter.Option
	SortOptions() []listing.SortOption
	Page(docs []model.Document, q Query, a Action, now time.Time) Page
	Detail(doc model.Document) Detail
}

// Binding configures the listing engine for one entity type.
type Binding[T any] struct {
	DocType   model.Kind
	Slug      string
	Heading   string
	Prefix    string
	Window    listing.Window
	FilterSet []filter.Option
	SortSet   []listing.SortOption
	EmptyMsg  string
	Decode    func(doc model.Document) T
	Accessors listing.Accessors[T]
	Card      func(v T, href string) model.Card
	Details   func(v T, href string) Detail
}

// Name returns the short list name, also used as the URL segment.
func (b *Binding[T]) Name() string { return b.Slug }

// Kind returns the CMS type tag of the list's documents.
func (b *Binding[T]) Kind() model.Kind { return b.DocType }

// Title returns the list heading.
func (b *Binding[T]) Title() string { return b.Heading }

// Route returns the URL prefix of the list and its detail pages.
func (b *Binding[T]) Route() string { return b.Prefix }

// FilterOptions returns the allowed filters; the first one is the default.
func (b *Binding[T]) FilterOptions() []filter.Option { return b.FilterSet }

// SortOptions returns the allowed sorts; the first one is the default.
func (b *Binding[T]) SortOptions() []listing.SortOption { return b.SortSet }

// Href returns the detail link of a UID.
func (b *Binding[T]) Href(uid string) string { return b.Prefix + "/" + uid }

// Items decodes documents of the binding's type, skipping others and the
// excluded UID.
func (b *Binding[T]) Items(docs []model.Document, exclude string) []T {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		if d.Type != b.DocType || (exclude != "" && d.UID == exclude) {
			continue
		}
		out = append(out, b.Decode(d))
	}
	return out
}

// Page applies a to q and renders the resulting window of docs.
// Unknown option IDs fall back to the binding's defaults.
func (b *Binding[T]) Page(docs []model.Document, q Query, a Action, now time.Time) Page {
	fopt := b.filterOption(q.Filter)
	sopt := b.sortOption(q.Sort)

	list := listing.NewList(b.Items(docs, q.Exclude), b.Accessors, b.Window, func() time.Time { return now })
	list.Restore(listing.State{Filter: fopt.Spec, Sort: sopt.Key, Index: q.Index})

	switch a.Type {
	case ActionFilter:
		fopt = b.filterOption(a.ID)
		list.SetFilter(fopt.Spec)
	case ActionSort:
		sopt = b.sortOption(a.ID)
		list.SetSort(sopt.Key)
	case ActionNext:
		list.Next()
	case ActionPrev:
		list.Prev()
	case ActionJump:
		list.Jump(a.Index)
	}

	view := list.View()
	cards := make([]model.Card, 0, len(view.Items))
	for _, it := range view.Items {
		cards = append(cards, b.Card(it, b.Href(b.Accessors.ID(it))))
	}

	page := Page{
		Name:     b.Slug,
		Title:    b.Heading,
		Route:    b.Prefix,
		Mode:     b.Window.Mode,
		Cards:    cards,
		Query:    Query{Filter: fopt.ID, Sort: sopt.ID, Index: view.Index, Exclude: q.Exclude},
		Index:    view.Index,
		Total:    view.Total,
		Matched:  view.Matched,
		CanNext:  view.CanNext,
		CanPrev:  view.CanPrev,
		EmptyMsg: b.EmptyMsg,
	}
	for _, o := range b.FilterSet {
		page.Filters = append(page.Filters, Choice{ID: o.ID, Label: o.Label, Selected: o.ID == fopt.ID})
	}
	for _, o := range b.SortSet {
		page.Sorts = append(page.Sorts, Choice{ID: o.ID, Label: o.Label, Selected: o.ID == sopt.ID})
	}
	return page
}

// Detail decodes doc and renders its detail view.
func (b *Binding[T]) Detail(doc model.Document) Detail {
	v := b.Decode(doc)
	return b.Details(v, b.Href(doc.UID))
}

func (b *Binding[T]) filterOption(id string) filter.Option {
	if o, ok := filter.Lookup(b.FilterSet, id); ok {
		return o
	}
	if len(b.FilterSet) > 0 {
		return b.FilterSet[0]
	}
	return filter.Option{ID: "all", Label: "All", Spec: filter.All()}
}

func (b *Binding[T]) sortOption(id string) listing.SortOption {
	if o, ok := listing.LookupSort(b.SortSet, id); ok {
		return o
	}
	if len(b.SortSet) > 0 {
		return b.SortSet[0]
	}
	return listing.SortOption{ID: "default", Label: "Default", Key: listing.SortDefault}
}

// decodeData unmarshals a document's data. Malformed data leaves dst at its
// zero value; every field then falls back to its documented default.
func decodeData(doc model.Document, dst any) {
	if len(doc.Data) == 0 {
		return
	}
	_ = json.Unmarshal(doc.Data, dst)
}

// rawJSON marshals plain data structs, which cannot fail.
func rawJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

// All returns the site's lists in navigation order.
func All() []Lister {
	return []Lister{Events, News, Programs, Coalition}
}

// ByName returns the list with the given name.
func ByName(name string) (Lister, bool) {
	for _, l := range All() {
		if l.Name() == name {
			return l, true
		}
	}
	return nil, false
}
