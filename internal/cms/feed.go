package cms

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"coalition_site/internal/lists"
	"coalition_site/internal/model"
	"coalition_site/internal/richtext"
)

// FeedSource serves news stories from an RSS or Atom feed and delegates
// every other kind to the wrapped Source.
type FeedSource struct {
	next   Source
	client HTTPClient
	url    string
}

// NewFeedSource creates a FeedSource reading news from url.
func NewFeedSource(next Source, client HTTPClient, url string) *FeedSource {
	return &FeedSource{next: next, client: client, url: url}
}

// FetchAllOfType returns the feed's items as news documents.
func (f *FeedSource) FetchAllOfType(ctx context.Context, kind model.Kind) ([]model.Document, error) {
	if kind != model.KindNews {
		return f.next.FetchAllOfType(ctx, kind)
	}

	feed, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]model.Document, 0, len(feed.Items))
	for _, item := range feed.Items {
		docs = append(docs, lists.EncodeNewsStory(Story(item)))
	}
	return docs, nil
}

// FetchByUID looks a news story up by its derived UID.
func (f *FeedSource) FetchByUID(ctx context.Context, kind model.Kind, uid string) (*model.Document, error) {
	if kind != model.KindNews {
		return f.next.FetchByUID(ctx, kind, uid)
	}

	docs, err := f.FetchAllOfType(ctx, kind)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		if docs[i].UID == uid {
			return &docs[i], nil
		}
	}
	return nil, fmt.Errorf("fetch %s %q: %w", kind, uid, ErrNotFound)
}

// Fetch downloads and parses the feed.
func (f *FeedSource) Fetch(ctx context.Context) (*gofeed.Feed, error) {
	body, err := get(ctx, f.client, f.url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	parser := gofeed.NewParser()
	feed, err := parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

// ItemGUID returns the GUID for a feed item.
// If the item has no GUID, a SHA-256 hash of title+link is used.
func ItemGUID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	h := sha256.Sum256([]byte(item.Title + "|" + item.Link))
	return fmt.Sprintf("sha256:%x", h[:16])
}

// ItemUID returns a URL-safe identifier derived from the item's GUID.
func ItemUID(item *gofeed.Item) string {
	h := sha256.Sum256([]byte(ItemGUID(item)))
	return fmt.Sprintf("%x", h[:8])
}

// Story converts a feed item into a news story.
func Story(item *gofeed.Item) model.NewsStory {
	s := model.NewsStory{
		UID:         ItemUID(item),
		Title:       richtext.FromText(item.Title),
		Description: richtext.FromText(item.Description),
		Date:        item.PublishedParsed,
	}
	if s.Date == nil {
		s.Date = item.UpdatedParsed
	}
	if len(item.Categories) > 0 {
		s.Category = strings.TrimSpace(item.Categories[0])
	}
	switch {
	case item.Image != nil && item.Image.URL != "":
		s.Image = model.Image{URL: item.Image.URL, Alt: item.Image.Title}
	default:
		for _, enc := range item.Enclosures {
			if strings.HasPrefix(enc.Type, "image/") {
				s.Image = model.Image{URL: enc.URL}
				break
			}
		}
	}
	return s
}
