// Package model defines the domain types used across the application.
package model

import (
	"encoding/json"
	"time"
)

// Kind is the CMS type tag of a document.
type Kind string

// Supported document kinds.
const (
	KindEvent     Kind = "events_details"
	KindNews      Kind = "news_and_stories_details"
	KindProgram   Kind = "programs_and_event"
	KindCoalition Kind = "coalition_detail"
	KindHistory   Kind = "history"
)

// Document is a raw content document as delivered by the CMS.
// Data holds the type-specific fields and is decoded by the list bindings.
type Document struct {
	ID                   string
	UID                  string
	Type                 Kind
	Tags                 []string
	FirstPublicationDate string
	LastPublicationDate  string
	Data                 json.RawMessage
}

// Block is one paragraph or heading of a rich-text field.
type Block struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// RichText is a structured rich-text field. Only the text of each block matters here.
type RichText []Block

// Image is an image reference. An empty URL means no image.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Event is an entry of the events list.
type Event struct {
	UID          string
	Title        RichText
	Details      RichText
	Location     RichText
	Category     string
	StartDate    *time.Time
	EndDate      *time.Time
	StartTime    *time.Time
	EndTime      *time.Time
	FeatureImage Image
}

// NewsStory is an entry of the news and stories list.
type NewsStory struct {
	UID         string
	Title       RichText
	Description RichText
	Category    string
	Date        *time.Time
	Image       Image
}

// Program is an entry of the programs list.
type Program struct {
	UID         string
	Title       RichText
	Description RichText
	Category    string
	Date        *time.Time
	Image       Image
}

// CoalitionCountry is a partner country of the coalition.
type CoalitionCountry struct {
	UID          string
	Name         RichText
	Description  RichText
	Region       string
	Partners     int
	PartnersList RichText
	Flag         Image
}

// TimelineEntry is one milestone of the history timeline.
type TimelineEntry struct {
	Year  string
	Month string
	Title string
	Text  string
}

// Card is the display projection of a list item.
type Card struct {
	ID        string
	Title     string
	Href      string
	DateLabel string
	Summary   string
	Badge     string
	ImageURL  string
	ImageAlt  string
	HasImage  bool
}

// ListSession is the stored state of a list carousel message in a chat.
type ListSession struct {
	ChatID    int64
	MessageID int
	List      string
	Filter    string
	Sort      string
	Index     int
	UpdatedAt time.Time
}

// Countdown is a live countdown message kept up to date by the scheduler.
type Countdown struct {
	ID        int64
	ChatID    int64
	MessageID int
	Label     string
	Target    time.Time
	Completed bool
	CreatedAt time.Time
}
