package lists

import (
	"time"

	"coalition_site/internal/dates"
	"coalition_site/internal/filter"
	"coalition_site/internal/listing"
	"coalition_site/internal/model"
	"coalition_site/internal/richtext"
)

const summaryLen = 160

type eventData struct {
	Title        model.RichText `json:"tiltle"`
	Details      model.RichText `json:"details"`
	Location     model.RichText `json:"location"`
	Category     string         `json:"category"`
	StartDate    string         `json:"start_date"`
	EndDate      string         `json:"end_date"`
	StartTime    string         `json:"start_time"`
	EndTime      string         `json:"end_time"`
	FeatureImage model.Image    `json:"feature_image"`
}

// DecodeEvent maps an events document to an Event.
func DecodeEvent(doc model.Document) model.Event {
	var d eventData
	decodeData(doc, &d)
	return model.Event{
		UID:          doc.UID,
		Title:        d.Title,
		Details:      d.Details,
		Location:     d.Location,
		Category:     d.Category,
		StartDate:    dates.ParsePtr(d.StartDate),
		EndDate:      dates.ParsePtr(d.EndDate),
		StartTime:    dates.ParsePtr(d.StartTime),
		EndTime:      dates.ParsePtr(d.EndTime),
		FeatureImage: d.FeatureImage,
	}
}

// eventStart is the instant an event is listed and counted down by.
func eventStart(e model.Event) *time.Time {
	if e.StartDate != nil {
		return e.StartDate
	}
	return e.StartTime
}

// Events is the events list: slides of four, upcoming first.
var Events = &Binding[model.Event]{
	DocType: model.KindEvent,
	Slug:    "events",
	Heading: "Events",
	Prefix:  "/events",
	Window:  listing.Slides(4),
	FilterSet: []filter.Option{
		{ID: "all", Label: "All Events", Spec: filter.All()},
		{ID: "upcoming", Label: "Upcoming", Spec: filter.Upcoming()},
		{ID: "past", Label: "Past", Spec: filter.Past()},
	},
	SortSet:  standardSorts("Upcoming First"),
	EmptyMsg: "No events found.",
	Decode:   DecodeEvent,
	Accessors: listing.Accessors[model.Event]{
		ID:       func(e model.Event) string { return e.UID },
		Title:    func(e model.Event) string { return richtext.PlainText(e.Title) },
		Time:     eventStart,
		Category: func(e model.Event) string { return e.Category },
	},
	Card: func(e model.Event, href string) model.Card {
		return model.Card{
			ID:        e.UID,
			Title:     richtext.PlainText(e.Title),
			Href:      href,
			DateLabel: dates.FormatRange(e.StartDate, e.EndDate, dates.FormatDate),
			Summary:   richtext.Excerpt(richtext.PlainText(e.Details), summaryLen),
			Badge:     e.Category,
			ImageURL:  e.FeatureImage.URL,
			ImageAlt:  e.FeatureImage.Alt,
			HasImage:  richtext.HasImage(e.FeatureImage),
		}
	},
	Details: func(e model.Event, href string) Detail {
		start, end := e.StartTime, e.EndTime
		if start == nil && end == nil {
			start, end = e.StartDate, e.EndDate
		}
		title := richtext.PlainText(e.Title)
		if title == "" {
			title = "Event"
		}
		return Detail{
			Card: model.Card{
				ID:       e.UID,
				Title:    title,
				Href:     href,
				Badge:    e.Category,
				ImageURL: e.FeatureImage.URL,
				ImageAlt: e.FeatureImage.Alt,
				HasImage: richtext.HasImage(e.FeatureImage),
			},
			Body:        richtext.PlainText(e.Details),
			DateLabel:   dates.FormatRange(start, end, dates.FormatLongDate),
			TimeLabel:   dates.FormatTimeRange(e.StartTime, e.EndTime),
			Location:    richtext.PlainText(e.Location),
			CountdownTo: countdownTarget(e),
		}
	},
}

func countdownTarget(e model.Event) *time.Time {
	if e.StartTime != nil {
		return e.StartTime
	}
	return e.StartDate
}

// RelatedEvents renders the events other than uid, without filter controls.
func RelatedEvents(docs []model.Document, uid string, now time.Time) Page {
	p := Events.Page(docs, Query{Exclude: uid}, Action{}, now)
	p.Title = "Related Events"
	p.Filters, p.Sorts = nil, nil
	return p
}

// NextEvent returns the soonest upcoming event, if any.
func NextEvent(docs []model.Document, now time.Time) (Detail, bool) {
	items := Events.Items(docs, "")
	v := listing.Project(items, Events.Accessors, filter.Upcoming(), listing.SortDefault, listing.Slides(1), 0, now)
	if len(v.Items) == 0 {
		return Detail{}, false
	}
	e := v.Items[0]
	return Events.Details(e, Events.Href(e.UID)), true
}

func standardSorts(defaultLabel string) []listing.SortOption {
	return []listing.SortOption{
		{ID: "default", Label: defaultLabel, Key: listing.SortDefault},
		{ID: "date_asc", Label: "Date (Oldest First)", Key: listing.SortDateAsc},
		{ID: "date_desc", Label: "Date (Newest First)", Key: listing.SortDateDesc},
		{ID: "title_asc", Label: "Title (A-Z)", Key: listing.SortTitleAsc},
		{ID: "title_desc", Label: "Title (Z-A)", Key: listing.SortTitleDesc},
	}
}
