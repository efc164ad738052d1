package views

import (
	"strings"

	"golang.org/x/text/cases"

	"tailorbook/pkg/domain"
)

// folder wraps a fresh Caser per call; cases.Caser is not safe for concurrent use.
type folder struct{ c cases.Caser }

func newFolder() *folder { return &folder{c: cases.Fold()} }

func (f *folder) fold(s string) string { return f.c.String(s) }

// FilterClientsByName returns clients whose full name contains query,
// compared with Unicode case folding. An empty query returns every client.
// Order is preserved and the result never aliases the input slice.
func FilterClientsByName(clients []domain.Client, query string) []domain.Client {
	out := make([]domain.Client, 0, len(clients))
	if query == "" {
		return append(out, clients...)
	}
	f := newFolder()
	needle := f.fold(query)
	for _, c := range clients {
		if strings.Contains(f.fold(c.FullName), needle) {
			out = append(out, c)
		}
	}
	return out
}

// FilterGalleryByTag returns items with at least one tag containing the
// trimmed query. A blank query returns every item.
func FilterGalleryByTag(items []domain.GalleryItem, query string) []domain.GalleryItem {
	out := make([]domain.GalleryItem, 0, len(items))
	query = strings.TrimSpace(query)
	if query == "" {
		return append(out, items...)
	}
	f := newFolder()
	needle := f.fold(query)
	for _, item := range items {
		for _, tag := range item.Tags {
			if strings.Contains(f.fold(tag), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
