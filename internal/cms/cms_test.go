package cms

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mmcdole/gofeed"

	"coalition_site/internal/model"
)

// mockTransport answers by URL path and records every request.
type mockTransport struct {
	routes   map[string][]string // path -> bodies served in order
	status   int
	err      error
	requests []*http.Request
}

func (m *mockTransport) Do(req *http.Request) (*http.Response, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	status := m.status
	if status == 0 {
		status = http.StatusOK
	}
	bodies := m.routes[req.URL.Path]
	body := ""
	if len(bodies) > 0 {
		body, m.routes[req.URL.Path] = bodies[0], bodies[1:]
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}, nil
}

const apiInfoJSON = `{"refs":[{"id":"preview","ref":"P1","isMasterRef":false},{"id":"master","ref":"M1","isMasterRef":true}]}`

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{name: "repository", cfg: Config{Repository: "wca"}, want: "https://wca.cdn.prismic.io"},
		{name: "endpoint override", cfg: Config{Repository: "wca", Endpoint: "http://localhost:9000/"}, want: "http://localhost:9000"},
		{name: "missing repository", cfg: Config{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(&mockTransport{}, tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.endpoint != tt.want {
				t.Errorf("endpoint = %q, want %q", c.endpoint, tt.want)
			}
		})
	}
}

func TestFetchAllOfTypePaginates(t *testing.T) {
	m := &mockTransport{routes: map[string][]string{
		"/api/v2": {apiInfoJSON},
		"/api/v2/documents/search": {
			`{"page":1,"total_pages":2,"results":[{"id":"1","uid":"a","type":"events_details","data":{"category":"x"}}]}`,
			`{"page":2,"total_pages":2,"results":[{"id":"2","uid":"b","type":"events_details","first_publication_date":"2025-01-01T00:00:00+0000"}]}`,
		},
	}}
	c, err := NewClient(m, Config{Repository: "wca", AccessToken: "secret"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	docs, err := c.FetchAllOfType(context.Background(), model.KindEvent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var uids []string
	for _, d := range docs {
		uids = append(uids, d.UID)
	}
	if diff := cmp.Diff([]string{"a", "b"}, uids); diff != "" {
		t.Errorf("uids mismatch (-want +got):\n%s", diff)
	}
	if docs[0].Type != model.KindEvent || string(docs[0].Data) != `{"category":"x"}` {
		t.Errorf("first document = %+v", docs[0])
	}
	if docs[1].FirstPublicationDate != "2025-01-01T00:00:00+0000" {
		t.Errorf("publication date = %q", docs[1].FirstPublicationDate)
	}

	if len(m.requests) != 3 {
		t.Fatalf("made %d requests, want 3", len(m.requests))
	}
	q := m.requests[1].URL.Query()
	want := map[string]string{
		"ref":          "M1",
		"q":            `[[at(document.type,"events_details")]]`,
		"pageSize":     "100",
		"page":         "1",
		"access_token": "secret",
	}
	for k, v := range want {
		if got := q.Get(k); got != v {
			t.Errorf("query %s = %q, want %q", k, got, v)
		}
	}
	if got := m.requests[2].URL.Query().Get("page"); got != "2" {
		t.Errorf("second page = %q, want 2", got)
	}
	if got := m.requests[0].Header.Get("User-Agent"); got != userAgent {
		t.Errorf("User-Agent = %q", got)
	}
}

func TestFetchByUID(t *testing.T) {
	tests := []struct {
		name    string
		search  string
		status  int
		wantUID string
		wantErr error
	}{
		{
			name:    "found",
			search:  `{"page":1,"total_pages":1,"results":[{"id":"1","uid":"summit","type":"events_details"}]}`,
			wantUID: "summit",
		},
		{
			name:    "no results",
			search:  `{"page":1,"total_pages":0,"results":[]}`,
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockTransport{routes: map[string][]string{
				"/api/v2":                  {apiInfoJSON},
				"/api/v2/documents/search": {tt.search},
			}}
			c, _ := NewClient(m, Config{Repository: "wca"})

			doc, err := c.FetchByUID(context.Background(), model.KindEvent, "summit")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if doc.UID != tt.wantUID {
				t.Errorf("UID = %q, want %q", doc.UID, tt.wantUID)
			}
			if got := m.requests[1].URL.Query().Get("q"); got != `[[at(my.events_details.uid,"summit")]]` {
				t.Errorf("q = %q", got)
			}
		})
	}
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name string
		m    *mockTransport
	}{
		{name: "network error", m: &mockTransport{err: io.ErrUnexpectedEOF}},
		{name: "http error status", m: &mockTransport{status: http.StatusInternalServerError}},
		{name: "invalid api info", m: &mockTransport{routes: map[string][]string{"/api/v2": {"not json"}}}},
		{name: "no master ref", m: &mockTransport{routes: map[string][]string{"/api/v2": {`{"refs":[]}`}}}},
		{name: "invalid search response", m: &mockTransport{routes: map[string][]string{
			"/api/v2":                  {apiInfoJSON},
			"/api/v2/documents/search": {"{"},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := NewClient(tt.m, Config{Repository: "wca"})
			if _, err := c.FetchAllOfType(context.Background(), model.KindNews); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Coalition News</title>
  <link>https://news.example</link>
  <item>
    <title>Youth summit announced</title>
    <link>https://news.example/summit</link>
    <guid>https://news.example/summit</guid>
    <description>Delegates from twelve countries.</description>
    <category>Events</category>
    <pubDate>Mon, 03 Mar 2025 10:00:00 GMT</pubDate>
    <enclosure url="https://news.example/summit.jpg" type="image/jpeg" length="1"/>
  </item>
  <item>
    <title>Annual report</title>
    <link>https://news.example/report</link>
    <description>Highlights of the year.</description>
  </item>
</channel>
</rss>`

// stubSource records delegated calls.
type stubSource struct {
	kinds []model.Kind
}

func (s *stubSource) FetchAllOfType(_ context.Context, kind model.Kind) ([]model.Document, error) {
	s.kinds = append(s.kinds, kind)
	return []model.Document{{UID: "from-cms", Type: kind}}, nil
}

func (s *stubSource) FetchByUID(_ context.Context, kind model.Kind, uid string) (*model.Document, error) {
	s.kinds = append(s.kinds, kind)
	return &model.Document{UID: uid, Type: kind}, nil
}

func TestFeedSourceNews(t *testing.T) {
	next := &stubSource{}
	m := &mockTransport{routes: map[string][]string{"/rss": {sampleFeed}}}
	f := NewFeedSource(next, m, "https://news.example/rss")

	docs, err := f.FetchAllOfType(context.Background(), model.KindNews)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if len(next.kinds) != 0 {
		t.Errorf("news request delegated to %v", next.kinds)
	}

	want := ItemUID(&gofeed.Item{GUID: "https://news.example/summit"})
	if docs[0].UID != want || docs[0].Type != model.KindNews {
		t.Errorf("first document = %+v, want uid %q", docs[0], want)
	}
	for _, d := range docs {
		if strings.ContainsAny(d.UID, "/:") {
			t.Errorf("UID %q is not URL safe", d.UID)
		}
	}
}

func TestFeedSourceFetchByUID(t *testing.T) {
	m := &mockTransport{routes: map[string][]string{"/rss": {sampleFeed, sampleFeed}}}
	f := NewFeedSource(&stubSource{}, m, "https://news.example/rss")
	uid := ItemUID(&gofeed.Item{GUID: "https://news.example/summit"})

	doc, err := f.FetchByUID(context.Background(), model.KindNews, uid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.UID != uid {
		t.Errorf("UID = %q, want %q", doc.UID, uid)
	}

	if _, err := f.FetchByUID(context.Background(), model.KindNews, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFeedSourceDelegates(t *testing.T) {
	next := &stubSource{}
	f := NewFeedSource(next, &mockTransport{err: io.EOF}, "https://news.example/rss")

	if _, err := f.FetchAllOfType(context.Background(), model.KindEvent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.FetchByUID(context.Background(), model.KindCoalition, "ng"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]model.Kind{model.KindEvent, model.KindCoalition}, next.kinds); diff != "" {
		t.Errorf("delegated kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestFeedSourceInvalidFeed(t *testing.T) {
	m := &mockTransport{routes: map[string][]string{"/rss": {"not xml at all"}}}
	f := NewFeedSource(&stubSource{}, m, "https://news.example/rss")
	if _, err := f.FetchAllOfType(context.Background(), model.KindNews); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestStory(t *testing.T) {
	published := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	updated := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		item *gofeed.Item
		want model.NewsStory
	}{
		{
			name: "enclosure image and published date",
			item: &gofeed.Item{
				GUID:            "g1",
				Title:           "Title",
				Description:     "Body",
				Categories:      []string{" Events ", "Other"},
				PublishedParsed: &published,
				UpdatedParsed:   &updated,
				Enclosures: []*gofeed.Enclosure{
					{URL: "https://x/a.mp3", Type: "audio/mpeg"},
					{URL: "https://x/a.jpg", Type: "image/jpeg"},
				},
			},
			want: model.NewsStory{
				UID:         ItemUID(&gofeed.Item{GUID: "g1"}),
				Title:       model.RichText{{Type: "paragraph", Text: "Title"}},
				Description: model.RichText{{Type: "paragraph", Text: "Body"}},
				Category:    "Events",
				Date:        &published,
				Image:       model.Image{URL: "https://x/a.jpg"},
			},
		},
		{
			name: "item image and updated date",
			item: &gofeed.Item{
				GUID:          "g2",
				Title:         "Other",
				UpdatedParsed: &updated,
				Image:         &gofeed.Image{URL: "https://x/b.png", Title: "Banner"},
			},
			want: model.NewsStory{
				UID:   ItemUID(&gofeed.Item{GUID: "g2"}),
				Title: model.RichText{{Type: "paragraph", Text: "Other"}},
				Date:  &updated,
				Image: model.Image{URL: "https://x/b.png", Alt: "Banner"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Story(tt.item)); diff != "" {
				t.Errorf("story mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestItemGUID(t *testing.T) {
	tests := []struct {
		name     string
		item     *gofeed.Item
		wantGUID string
		hasHash  bool
	}{
		{
			name:     "with guid",
			item:     &gofeed.Item{GUID: "abc-123"},
			wantGUID: "abc-123",
		},
		{
			name:    "without guid generates hash",
			item:    &gofeed.Item{Title: "Post Without GUID", Link: "https://example.com/post-1"},
			hasHash: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ItemGUID(tt.item)
			if tt.hasHash {
				if !strings.HasPrefix(got, "sha256:") {
					t.Errorf("expected sha256 prefix, got %q", got)
				}
				return
			}
			if diff := cmp.Diff(tt.wantGUID, got); diff != "" {
				t.Errorf("GUID mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
