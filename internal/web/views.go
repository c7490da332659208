package web

import (
	"net/url"
	"strconv"

	"coalition_site/internal/lists"
	"coalition_site/internal/model"
	"coalition_site/internal/site"
)

type navLink struct {
	Label  string
	Href   string
	Active bool
}

// navLinks lists the site sections, marking current as active.
func navLinks(current string) []navLink {
	out := make([]navLink, 0, 5)
	for _, l := range lists.All() {
		out = append(out, navLink{Label: l.Title(), Href: l.Route(), Active: l.Name() == current})
	}
	return append(out, navLink{Label: "History", Href: "/history", Active: current == "history"})
}

type choiceLink struct {
	Label    string
	Href     string
	Selected bool
}

type dotLink struct {
	Number  int
	Href    string
	Current bool
}

type listView struct {
	Nav     []navLink
	Page    lists.Page
	Filters []choiceLink
	Sorts   []choiceLink
	Prev    string
	Next    string
	Dots    []dotLink
}

type homeView struct {
	Nav       []navLink
	Next      *lists.Detail
	StreamURL string
	Events    *lists.Page
}

type detailView struct {
	Nav       []navLink
	Page      *site.DetailPage
	StreamURL string
}

type historyView struct {
	Nav     []navLink
	Entries []model.TimelineEntry
}

type notFoundView struct {
	Nav []navLink
}

// newListView builds the control links of p. Filter and sort links carry no
// page parameter, so following one starts again at the first window.
func newListView(p lists.Page) listView {
	v := listView{Nav: navLinks(p.Name), Page: p}
	for _, f := range p.Filters {
		v.Filters = append(v.Filters, choiceLink{Label: f.Label, Href: listHref(p.Route, f.ID, p.Query.Sort, -1), Selected: f.Selected})
	}
	for _, s := range p.Sorts {
		v.Sorts = append(v.Sorts, choiceLink{Label: s.Label, Href: listHref(p.Route, p.Query.Filter, s.ID, -1), Selected: s.Selected})
	}
	if p.CanPrev {
		v.Prev = listHref(p.Route, p.Query.Filter, p.Query.Sort, p.Index-1)
	}
	if p.CanNext {
		v.Next = listHref(p.Route, p.Query.Filter, p.Query.Sort, p.Index+1)
	}
	if p.Total > 1 {
		for _, i := range p.Windows() {
			v.Dots = append(v.Dots, dotLink{Number: i + 1, Href: listHref(p.Route, p.Query.Filter, p.Query.Sort, i), Current: i == p.Index})
		}
	}
	return v
}

// listHref links to route with the given options. A negative index omits the
// page parameter.
func listHref(route, filterID, sortID string, index int) string {
	q := url.Values{}
	if filterID != "" {
		q.Set("filter", filterID)
	}
	if sortID != "" {
		q.Set("sort", sortID)
	}
	if index >= 0 {
		q.Set("page", strconv.Itoa(index+1))
	}
	if len(q) == 0 {
		return route
	}
	return route + "?" + q.Encode()
}
