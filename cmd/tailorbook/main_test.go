package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tailorbook/internal/config"
	"tailorbook/pkg/domain"
)

func loader(vars map[string]string) func() (config.Config, error) {
	return func() (config.Config, error) { return config.LoadFrom(vars) }
}

func invoke(t *testing.T, vars map[string]string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := cli(context.Background(), args, &stdout, &stderr, loader(vars))
	return code, stdout.String(), stderr.String()
}

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return v
}

type mutationOf[T any] struct {
	Data     T                  `json:"data"`
	Warnings []domain.Violation `json:"warnings"`
}

var demoVars = map[string]string{"TAILORBOOK_SEED_DEMO": "true", "TAILORBOOK_LOG_LEVEL": "error"}

func TestUsageErrors(t *testing.T) {
	if code, _, stderr := invoke(t, nil); code != 2 || !strings.Contains(stderr, "commands:") {
		t.Fatalf("expected usage, got %d %q", code, stderr)
	}
	if code, _, stderr := invoke(t, nil, "tailor"); code != 2 || !strings.Contains(stderr, `unknown command "tailor"`) {
		t.Fatalf("expected unknown command, got %d %q", code, stderr)
	}
	if code, _, _ := invoke(t, nil, "-bogus"); code != 2 {
		t.Fatalf("expected flag error exit 2, got %d", code)
	}
	if code, _, stderr := invoke(t, nil, "add-order", "-name", "x"); code != 2 || !strings.Contains(stderr, "-client is required") {
		t.Fatalf("expected missing client, got %d %q", code, stderr)
	}
	if code, _, _ := invoke(t, nil, "add-design", "-tags", "x"); code != 2 {
		t.Fatalf("expected image/upload usage error, got %d", code)
	}
	if code, _, _ := invoke(t, nil, "calendar", "-date", "March 15"); code != 2 {
		t.Fatalf("expected bad date usage error, got %d", code)
	}
}

func TestConfigAndStartupErrors(t *testing.T) {
	if code, _, stderr := invoke(t, map[string]string{"TAILORBOOK_STORAGE": "mongo"}, "clients"); code != 1 || !strings.Contains(stderr, "config:") {
		t.Fatalf("expected config failure, got %d %q", code, stderr)
	}
	if code, _, stderr := invoke(t, nil, "-metrics", "statsd", "clients"); code != 1 || !strings.Contains(stderr, "unknown metrics sink") {
		t.Fatalf("expected metrics failure, got %d %q", code, stderr)
	}
}

func TestDemoReadCommands(t *testing.T) {
	code, out, stderr := invoke(t, demoVars, "clients", "-q", "JOHN")
	if code != 0 {
		t.Fatalf("clients exit %d: %s", code, stderr)
	}
	clients := decode[[]domain.Client](t, out)
	if len(clients) != 1 || clients[0].FullName != "John Smith" {
		t.Fatalf("unexpected clients %+v", clients)
	}

	code, out, _ = invoke(t, demoVars, "calendar")
	if markers := decode[map[string]int](t, out); code != 0 || markers["2024-03-15"] != 1 {
		t.Fatalf("unexpected markers %v (exit %d)", markers, code)
	}
	code, out, _ = invoke(t, demoVars, "calendar", "-date", "2024-03-15")
	due := decode[[]map[string]any](t, out)
	if code != 0 || len(due) != 1 || due[0]["clientName"] != "John Smith" {
		t.Fatalf("unexpected due orders %v", due)
	}

	code, out, _ = invoke(t, demoVars, "company")
	if info := decode[domain.CompanyInfo](t, out); code != 0 || info.Name != "LYZMA CREATIONS" {
		t.Fatalf("unexpected company %+v", info)
	}
	code, out, _ = invoke(t, demoVars, "designs")
	if designs := decode[[]domain.GalleryItem](t, out); code != 0 || len(designs) != 0 {
		t.Fatalf("expected empty designs, got %+v", designs)
	}
}

func TestWriteCommandsPersistWithSQLite(t *testing.T) {
	vars := map[string]string{
		"TAILORBOOK_STORAGE":     "sqlite",
		"TAILORBOOK_SQLITE_PATH": filepath.Join(t.TempDir(), "shop.db"),
		"TAILORBOOK_LOG_LEVEL":   "error",
	}
	code, out, stderr := invoke(t, vars, "add-client", "-name", "Jane Doe", "-phone", "555")
	if code != 0 {
		if strings.Contains(stderr, "open store") {
			t.Skipf("sqlite unavailable: %s", stderr)
		}
		t.Fatalf("add-client exit %d: %s", code, stderr)
	}
	client := decode[mutationOf[domain.Client]](t, out).Data

	code, out, stderr = invoke(t, vars, "add-order", "-client", client.ID, "-name", "Coat", "-ordered", "2024-03-10", "-delivery", "2024-03-01")
	if code != 0 {
		t.Fatalf("add-order exit %d: %s", code, stderr)
	}
	order := decode[mutationOf[domain.Order]](t, out)
	if order.Data.Status != domain.OrderStatusRegistered || len(order.Warnings) != 1 || order.Warnings[0].Rule != "delivery_after_order" {
		t.Fatalf("unexpected order output %+v", order)
	}

	if code, _, stderr = invoke(t, vars, "set-status", "-client", client.ID, "-order", order.Data.ID, "-status", "testing"); code != 0 {
		t.Fatalf("set-status exit %d: %s", code, stderr)
	}
	if code, _, stderr = invoke(t, vars, "set-status", "-client", client.ID, "-order", order.Data.ID, "-status", "lost"); code != 1 || !strings.Contains(stderr, "invalid order status") {
		t.Fatalf("expected invalid status failure, got %d %q", code, stderr)
	}
	if code, _, stderr = invoke(t, vars, "set-measurements", "-client", client.ID, "-chest", "-1"); code != 1 || !strings.Contains(stderr, "measurements_non_negative") {
		t.Fatalf("expected blocked measurements, got %d %q", code, stderr)
	}
	if code, _, stderr = invoke(t, vars, "set-measurements", "-client", client.ID, "-chest", "40", "-wrist", "6.5"); code != 0 {
		t.Fatalf("set-measurements exit %d: %s", code, stderr)
	}

	code, out, _ = invoke(t, vars, "client", "-id", client.ID)
	got := decode[domain.Client](t, out)
	if code != 0 || len(got.Orders) != 1 || got.Orders[0].Status != domain.OrderStatusTesting || got.Measurements.Wrist != 6.5 {
		t.Fatalf("unexpected persisted client %+v", got)
	}
	if code, _, stderr = invoke(t, vars, "client", "-id", "missing"); code != 1 || !strings.Contains(stderr, "not found") {
		t.Fatalf("expected not found, got %d %q", code, stderr)
	}

	code, out, _ = invoke(t, vars, "add-inspiration", "-image", "lace.png", "-tags", "Lace, evening")
	item := decode[mutationOf[domain.GalleryItem]](t, out).Data
	if code != 0 || len(item.Tags) != 2 || item.Tags[1] != "evening" {
		t.Fatalf("unexpected inspiration %+v", item)
	}
	code, out, _ = invoke(t, vars, "inspirations", "-tag", "lace")
	if list := decode[[]domain.GalleryItem](t, out); code != 0 || len(list) != 1 {
		t.Fatalf("unexpected inspirations %+v", list)
	}
	code, out, _ = invoke(t, vars, "remove-design", "-id", item.ID)
	if r := decode[removal](t, out); code != 0 || r.Removed {
		t.Fatalf("inspiration id must not remove a design: %+v", r)
	}
	code, out, _ = invoke(t, vars, "remove-inspiration", "-id", item.ID)
	if r := decode[removal](t, out); code != 0 || !r.Removed {
		t.Fatalf("expected removal: %+v", r)
	}

	if code, _, _ = invoke(t, vars, "company", "-name", "Acme"); code != 0 {
		t.Fatalf("company update exit %d", code)
	}
	code, out, _ = invoke(t, vars, "company")
	if info := decode[domain.CompanyInfo](t, out); code != 0 || info.Name != "Acme" {
		t.Fatalf("expected persisted company, got %+v", info)
	}
}

func TestAddDesignUpload(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "suit.png")
	if err := os.WriteFile(src, []byte("png"), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}
	vars := map[string]string{
		"TAILORBOOK_BLOB_DRIVER":  "fs",
		"TAILORBOOK_BLOB_FS_ROOT": filepath.Join(dir, "images"),
		"TAILORBOOK_LOG_LEVEL":    "error",
	}
	code, out, stderr := invoke(t, vars, "add-design", "-upload", src, "-tags", "suit")
	if code != 0 {
		t.Fatalf("add-design exit %d: %s", code, stderr)
	}
	item := decode[mutationOf[domain.GalleryItem]](t, out).Data
	if !strings.HasPrefix(item.ImageURL, "file://") || !strings.HasSuffix(item.ImageURL, ".png") {
		t.Fatalf("unexpected image url %s", item.ImageURL)
	}

	code, _, stderr = invoke(t, map[string]string{"TAILORBOOK_LOG_LEVEL": "error"}, "add-design", "-upload", src)
	if code != 1 || !strings.Contains(stderr, "image store not configured") {
		t.Fatalf("expected missing image store, got %d %q", code, stderr)
	}
}

func TestMetricsAndTraceOutput(t *testing.T) {
	code, _, stderr := invoke(t, demoVars, "-metrics", "prometheus", "-trace", "add-client", "-name", "Metered")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(stderr, `tailorbook_service_operations_total{operation="add_client",status="success"} 2`) {
		t.Fatalf("expected prometheus dump with seed and add, got %q", stderr)
	}
	if !strings.Contains(stderr, `"operation":"add_client"`) {
		t.Fatalf("expected trace lines, got %q", stderr)
	}
	code, _, stderr = invoke(t, demoVars, "-metrics", "expvar", "clients")
	if code != 0 || !strings.Contains(stderr, `"operations"`) {
		t.Fatalf("expected expvar snapshot, got %d %q", code, stderr)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.Log{Level: "debug", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("hello")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Fatalf("expected json debug line, got %q", buf.String())
	}
	if _, err := newLogger(config.Log{Level: "loud"}, &buf); err == nil {
		t.Fatalf("expected invalid level error")
	}
}
