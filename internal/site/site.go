// Package site assembles list, detail and timeline pages from the content
// source. Transports render what it returns.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"coalition_site/internal/cms"
	"coalition_site/internal/lists"
	"coalition_site/internal/model"
)

// ErrNotFound is returned for unknown lists, missing documents and
// unreachable upstream content alike.
var ErrNotFound = errors.New("page not found")

// DetailPage is a detail view plus the list it belongs to.
type DetailPage struct {
	List   lists.Lister
	Detail lists.Detail
	// Related is set for events only.
	Related *lists.Page
}

// Service builds pages from a content source.
type Service struct {
	source cms.Source
	log    *slog.Logger
	now    func() time.Time
}

// New creates a Service reading from source.
func New(source cms.Source, log *slog.Logger) *Service {
	return &Service{source: source, log: log, now: time.Now}
}

// SetClock overrides the clock used for upcoming/past decisions.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// List renders the named list with q and a applied.
func (s *Service) List(ctx context.Context, name string, q lists.Query, a lists.Action) (lists.Page, error) {
	l, ok := lists.ByName(name)
	if !ok {
		return lists.Page{}, fmt.Errorf("list %q: %w", name, ErrNotFound)
	}
	docs, err := s.source.FetchAllOfType(ctx, l.Kind())
	if err != nil {
		s.log.Error("fetch documents", "kind", l.Kind(), "error", err)
		return lists.Page{}, fmt.Errorf("list %q: %w", name, ErrNotFound)
	}
	return l.Page(docs, q, a, s.now()), nil
}

// Detail renders one document of the named list.
func (s *Service) Detail(ctx context.Context, name, uid string) (*DetailPage, error) {
	l, ok := lists.ByName(name)
	if !ok {
		return nil, fmt.Errorf("list %q: %w", name, ErrNotFound)
	}
	doc, err := s.source.FetchByUID(ctx, l.Kind(), uid)
	if err != nil {
		if !errors.Is(err, cms.ErrNotFound) {
			s.log.Error("fetch document", "kind", l.Kind(), "uid", uid, "error", err)
		}
		return nil, fmt.Errorf("%s %q: %w", name, uid, ErrNotFound)
	}

	page := &DetailPage{List: l, Detail: l.Detail(*doc)}
	if l.Kind() == model.KindEvent {
		related, err := s.related(ctx, uid)
		if err != nil {
			s.log.Warn("fetch related events", "uid", uid, "error", err)
		} else {
			page.Related = &related
		}
	}
	return page, nil
}

func (s *Service) related(ctx context.Context, uid string) (lists.Page, error) {
	docs, err := s.source.FetchAllOfType(ctx, model.KindEvent)
	if err != nil {
		return lists.Page{}, err
	}
	return lists.RelatedEvents(docs, uid, s.now()), nil
}

// Timeline returns the history milestones in document order.
func (s *Service) Timeline(ctx context.Context) ([]model.TimelineEntry, error) {
	docs, err := s.source.FetchAllOfType(ctx, model.KindHistory)
	if err != nil {
		s.log.Error("fetch history", "error", err)
		return nil, fmt.Errorf("history: %w", ErrNotFound)
	}
	if len(docs) == 0 {
		return []model.TimelineEntry{}, nil
	}
	return lists.DecodeTimeline(docs[0]), nil
}

// NextEvent returns the soonest upcoming event.
func (s *Service) NextEvent(ctx context.Context) (*lists.Detail, error) {
	docs, err := s.source.FetchAllOfType(ctx, model.KindEvent)
	if err != nil {
		s.log.Error("fetch events", "error", err)
		return nil, fmt.Errorf("next event: %w", ErrNotFound)
	}
	d, ok := lists.NextEvent(docs, s.now())
	if !ok {
		return nil, fmt.Errorf("next event: %w", ErrNotFound)
	}
	return &d, nil
}

// Event returns the detail of one event by UID.
func (s *Service) Event(ctx context.Context, uid string) (*lists.Detail, error) {
	page, err := s.Detail(ctx, lists.Events.Name(), uid)
	if err != nil {
		return nil, err
	}
	return &page.Detail, nil
}
