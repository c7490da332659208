package lists

import (
	"time"

	"coalition_site/internal/dates"
	"coalition_site/internal/filter"
	"coalition_site/internal/listing"
	"coalition_site/internal/model"
	"coalition_site/internal/richtext"
)

type storyData struct {
	Title       model.RichText `json:"title"`
	Description model.RichText `json:"description"`
	Category    string         `json:"category"`
	Date        string         `json:"date"`
	Image       model.Image    `json:"image"`
}

// DecodeNewsStory maps a news document to a NewsStory. Stories without a
// date field fall back to their first publication date.
func DecodeNewsStory(doc model.Document) model.NewsStory {
	var d storyData
	decodeData(doc, &d)
	date := dates.ParsePtr(d.Date)
	if date == nil {
		date = dates.ParsePtr(doc.FirstPublicationDate)
	}
	return model.NewsStory{
		UID:         doc.UID,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Date:        date,
		Image:       d.Image,
	}
}

// EncodeNewsStory is the inverse of DecodeNewsStory, for sources that
// synthesise news documents.
func EncodeNewsStory(s model.NewsStory) model.Document {
	d := storyData{
		Title:       s.Title,
		Description: s.Description,
		Category:    s.Category,
		Image:       s.Image,
	}
	if s.Date != nil {
		d.Date = s.Date.UTC().Format(time.RFC3339)
	}
	return model.Document{UID: s.UID, ID: s.UID, Type: model.KindNews, Data: rawJSON(d)}
}

// News is the news and stories list: slides of two, newest first.
var News = &Binding[model.NewsStory]{
	DocType: model.KindNews,
	Slug:    "news",
	Heading: "News & Stories",
	Prefix:  "/news",
	Window:  listing.Slides(2),
	FilterSet: []filter.Option{
		{ID: "all", Label: "All Stories", Spec: filter.All()},
	},
	SortSet:  standardSorts("Latest"),
	EmptyMsg: "No news found.",
	Decode:   DecodeNewsStory,
	Accessors: listing.Accessors[model.NewsStory]{
		ID:       func(s model.NewsStory) string { return s.UID },
		Title:    func(s model.NewsStory) string { return richtext.PlainText(s.Title) },
		Time:     func(s model.NewsStory) *time.Time { return s.Date },
		Category: func(s model.NewsStory) string { return s.Category },
	},
	Card: func(s model.NewsStory, href string) model.Card {
		return model.Card{
			ID:        s.UID,
			Title:     richtext.PlainText(s.Title),
			Href:      href,
			DateLabel: dates.FormatDate(s.Date),
			Summary:   richtext.Excerpt(richtext.PlainText(s.Description), summaryLen),
			Badge:     s.Category,
			ImageURL:  s.Image.URL,
			ImageAlt:  s.Image.Alt,
			HasImage:  richtext.HasImage(s.Image),
		}
	},
	Details: func(s model.NewsStory, href string) Detail {
		return Detail{
			Card: model.Card{
				ID:       s.UID,
				Title:    richtext.PlainText(s.Title),
				Href:     href,
				Badge:    s.Category,
				ImageURL: s.Image.URL,
				ImageAlt: s.Image.Alt,
				HasImage: richtext.HasImage(s.Image),
			},
			Body:      richtext.PlainText(s.Description),
			DateLabel: dates.FormatLongDate(s.Date),
		}
	},
}
