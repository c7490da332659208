// Package filter implements the list item matching engine.
package filter

import (
	"strings"
	"time"
)

// Kind defines the type of filter.
type Kind string

// Supported filter kinds.
const (
	KindAll      Kind = "all"
	KindCategory Kind = "category"
	KindRegion   Kind = "region"
	KindUpcoming Kind = "upcoming"
	KindPast     Kind = "past"
)

// Spec is a declarative filter. Tag is used by the category and region kinds.
type Spec struct {
	Kind Kind
	Tag  string
}

// All matches every item.
func All() Spec { return Spec{Kind: KindAll} }

// ByCategory matches items whose category equals tag.
func ByCategory(tag string) Spec { return Spec{Kind: KindCategory, Tag: tag} }

// ByRegion matches items whose region equals tag.
func ByRegion(tag string) Spec { return Spec{Kind: KindRegion, Tag: tag} }

// Upcoming matches items dated strictly after now.
func Upcoming() Spec { return Spec{Kind: KindUpcoming} }

// Past matches every item that is not upcoming.
func Past() Spec { return Spec{Kind: KindPast} }

// Subject is the part of a list item the filters look at.
type Subject struct {
	Category string
	Region   string
	At       *time.Time
}

// Match checks whether an item passes the given filter.
// Tag comparison is exact after trimming and lower-casing both sides.
// An item without a timestamp is never upcoming, so it always lands in
// Past; that mirrors the epoch-zero fallback used for sorting.
func Match(item Subject, spec Spec, now time.Time) bool {
	switch spec.Kind {
	case KindCategory:
		return sameTag(item.Category, spec.Tag)
	case KindRegion:
		return sameTag(item.Region, spec.Tag)
	case KindUpcoming:
		return IsUpcoming(item.At, now)
	case KindPast:
		return !IsUpcoming(item.At, now)
	default:
		return true
	}
}

// IsUpcoming reports whether at is strictly after now.
func IsUpcoming(at *time.Time, now time.Time) bool {
	return at != nil && at.After(now)
}

func sameTag(have, want string) bool {
	have = normalize(have)
	if have == "" {
		return false
	}
	return have == normalize(want)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Option is a selectable filter in a list's filter control.
type Option struct {
	ID    string
	Label string
	Spec  Spec
}

// Lookup returns the option with the given ID.
func Lookup(options []Option, id string) (Option, bool) {
	for _, o := range options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}
