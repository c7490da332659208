package lists

import (
	"time"

	"coalition_site/internal/dates"
	"coalition_site/internal/filter"
	"coalition_site/internal/listing"
	"coalition_site/internal/model"
	"coalition_site/internal/richtext"
)

type programData struct {
	Title       model.RichText `json:"program_title"`
	Description model.RichText `json:"description"`
	Category    string         `json:"category"`
	Date        string         `json:"date"`
	Image       model.Image    `json:"image"`
}

// DecodeProgram maps a programs document to a Program.
func DecodeProgram(doc model.Document) model.Program {
	var d programData
	decodeData(doc, &d)
	return model.Program{
		UID:         doc.UID,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Date:        dates.ParsePtr(d.Date),
		Image:       d.Image,
	}
}

// Programs is the programs list: pages of three with category tabs.
var Programs = &Binding[model.Program]{
	DocType: model.KindProgram,
	Slug:    "programs",
	Heading: "Programs",
	Prefix:  "/programs",
	Window:  listing.Pages(3),
	FilterSet: []filter.Option{
		{ID: "all", Label: "All Categories", Spec: filter.All()},
		{ID: "event-campaigns", Label: "Event and Campaigns", Spec: filter.ByCategory("Event and Campaigns")},
		{ID: "youth-voices", Label: "Youth Voices", Spec: filter.ByCategory("Youth Voices")},
		{ID: "women-in-action", Label: "Women in Action", Spec: filter.ByCategory("Women in Action")},
		{ID: "policy-advocacy", Label: "Policy & Advocacy", Spec: filter.ByCategory("Policy & Advocacy")},
	},
	SortSet:  standardSorts("Default"),
	EmptyMsg: "No programs found matching your filters.",
	Decode:   DecodeProgram,
	Accessors: listing.Accessors[model.Program]{
		ID:       func(p model.Program) string { return p.UID },
		Title:    func(p model.Program) string { return richtext.PlainText(p.Title) },
		Time:     func(p model.Program) *time.Time { return p.Date },
		Category: func(p model.Program) string { return p.Category },
	},
	Card: func(p model.Program, href string) model.Card {
		return model.Card{
			ID:        p.UID,
			Title:     richtext.PlainText(p.Title),
			Href:      href,
			DateLabel: dates.FormatDate(p.Date),
			Summary:   richtext.Excerpt(richtext.PlainText(p.Description), summaryLen),
			Badge:     p.Category,
			ImageURL:  p.Image.URL,
			ImageAlt:  p.Image.Alt,
			HasImage:  richtext.HasImage(p.Image),
		}
	},
	Details: func(p model.Program, href string) Detail {
		return Detail{
			Card: model.Card{
				ID:       p.UID,
				Title:    richtext.PlainText(p.Title),
				Href:     href,
				Badge:    p.Category,
				ImageURL: p.Image.URL,
				ImageAlt: p.Image.Alt,
				HasImage: richtext.HasImage(p.Image),
			},
			Body:      richtext.PlainText(p.Description),
			DateLabel: dates.FormatLongDate(p.Date),
		}
	},
}
