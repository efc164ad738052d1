package views

import (
	"reflect"
	"testing"

	"tailorbook/pkg/domain"
)

func sampleClients() []domain.Client {
	return []domain.Client{
		{ID: "1", FullName: "John Smith"},
		{ID: "2", FullName: "Jane Doe"},
		{ID: "3", FullName: "Johnny Appleseed"},
		{ID: "4", FullName: "Straße Meister"},
	}
}

func ids(clients []domain.Client) []string {
	out := make([]string, 0, len(clients))
	for _, c := range clients {
		out = append(out, c.ID)
	}
	return out
}

func TestFilterClientsByNameCaseInsensitive(t *testing.T) {
	clients := sampleClients()
	lower := FilterClientsByName(clients, "john")
	upper := FilterClientsByName(clients, "JOHN")
	if !reflect.DeepEqual(ids(lower), []string{"1", "3"}) {
		t.Fatalf("unexpected match set %v", ids(lower))
	}
	if !reflect.DeepEqual(lower, upper) {
		t.Fatalf("expected identical results, got %v vs %v", ids(lower), ids(upper))
	}
	if again := FilterClientsByName(lower, "john"); !reflect.DeepEqual(again, lower) {
		t.Fatalf("expected idempotent filter")
	}
}

func TestFilterClientsByNameEmptyQueryReturnsAll(t *testing.T) {
	clients := sampleClients()
	got := FilterClientsByName(clients, "")
	if !reflect.DeepEqual(ids(got), []string{"1", "2", "3", "4"}) {
		t.Fatalf("expected full ordered list, got %v", ids(got))
	}
	got[0].FullName = "changed"
	if clients[0].FullName != "John Smith" {
		t.Fatalf("result aliases input")
	}
	if got := FilterClientsByName(nil, ""); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestFilterClientsByNameUnicodeFolding(t *testing.T) {
	got := FilterClientsByName(sampleClients(), "STRASSE")
	if !reflect.DeepEqual(ids(got), []string{"4"}) {
		t.Fatalf("expected folded match, got %v", ids(got))
	}
	if got := FilterClientsByName(sampleClients(), "zzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", ids(got))
	}
}

func TestFilterGalleryByTag(t *testing.T) {
	items := []domain.GalleryItem{
		{ID: "a", Tags: []string{"Wedding", "lace"}},
		{ID: "b", Tags: []string{"casual"}},
		{ID: "c", Tags: nil},
		{ID: "d", Tags: []string{"wedding-suit"}},
	}
	cases := []struct {
		query string
		want  []string
	}{
		{"", []string{"a", "b", "c", "d"}},
		{"   ", []string{"a", "b", "c", "d"}},
		{"wedding", []string{"a", "d"}},
		{"  WEDD ", []string{"a", "d"}},
		{"LACE", []string{"a"}},
		{"formal", []string{}},
	}
	for _, tc := range cases {
		got := FilterGalleryByTag(items, tc.query)
		gotIDs := make([]string, 0, len(got))
		for _, it := range got {
			gotIDs = append(gotIDs, it.ID)
		}
		if !reflect.DeepEqual(gotIDs, tc.want) {
			t.Fatalf("query %q: expected %v, got %v", tc.query, tc.want, gotIDs)
		}
	}
}
