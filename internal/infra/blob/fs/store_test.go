package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tailorbook/internal/blob/core"
)

func TestFilesystemStoreRoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "images")
	s, err := New(root)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	info, err := s.Put(ctx, "designs/suit.jpg", strings.NewReader("jpeg"), core.PutOptions{ContentType: "image/jpeg", Metadata: map[string]string{"tag": "suit"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 4 || info.ETag == "" || !strings.HasPrefix(info.URL, "file://") {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := os.Stat(filepath.Join(root, "designs", "suit.jpg")); err != nil {
		t.Fatalf("expected data file: %v", err)
	}
	if _, err := s.Put(ctx, "designs/suit.jpg", strings.NewReader("again"), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	got, rc, err := s.Get(ctx, "designs/suit.jpg")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "jpeg" || got.Metadata["tag"] != "suit" || got.ContentType != "image/jpeg" {
		t.Fatalf("unexpected get %q %+v", body, got)
	}
	link, err := s.URL(ctx, "designs/suit.jpg", 0)
	if err != nil || link != info.URL {
		t.Fatalf("unexpected url %s err=%v", link, err)
	}
	if _, err := s.Put(ctx, "inspirations/dress.png", strings.NewReader("png"), core.PutOptions{}); err != nil {
		t.Fatalf("put second: %v", err)
	}
	list, err := s.List(ctx, "designs/")
	if err != nil || len(list) != 1 || list[0].Key != "designs/suit.jpg" {
		t.Fatalf("unexpected list %+v err=%v", list, err)
	}
	all, err := s.List(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("expected two entries, got %+v err=%v", all, err)
	}
	ok, err := s.Delete(ctx, "designs/suit.jpg")
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	ok, err = s.Delete(ctx, "designs/suit.jpg")
	if err != nil || ok {
		t.Fatalf("second delete: ok=%v err=%v", ok, err)
	}
	if _, err := s.Head(ctx, "designs/suit.jpg"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFilesystemStoreRejectsBadKeys(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, key := range []string{"", "   ", "/abs.png", "../escape.png", "a/../../b", "x" + metaSuffix} {
		if _, err := s.Put(context.Background(), key, strings.NewReader("x"), core.PutOptions{}); !errors.Is(err, core.ErrInvalidKey) {
			t.Fatalf("key %q: expected invalid key, got %v", key, err)
		}
	}
	if s.Driver() != core.DriverFilesystem {
		t.Fatalf("unexpected driver %s", s.Driver())
	}
}
