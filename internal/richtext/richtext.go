// Package richtext flattens CMS rich-text and image fields into plain values.
package richtext

import (
	"strings"

	"coalition_site/internal/model"
)

// PlainText joins the text of every block with a space.
// Missing fields yield an empty string.
func PlainText(rt model.RichText) string {
	if len(rt) == 0 {
		return ""
	}
	parts := make([]string, 0, len(rt))
	for _, b := range rt {
		parts = append(parts, b.Text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// HasImage reports whether the image reference points somewhere.
func HasImage(img model.Image) bool {
	return strings.TrimSpace(img.URL) != ""
}

// Excerpt shortens s to at most max runes, appending "..." when cut.
func Excerpt(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max])) + "..."
}

// FromText builds a single-paragraph rich-text field.
func FromText(s string) model.RichText {
	if s == "" {
		return nil
	}
	return model.RichText{{Type: "paragraph", Text: s}}
}
