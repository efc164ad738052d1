package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"tailorbook/internal/config"
	"tailorbook/internal/core"
)

type app struct {
	cfg      config.Config
	stderr   io.Writer
	svc      *core.Service
	closer   io.Closer
	expvar   *core.ExpvarMetricsRecorder
	registry *prometheus.Registry
}

func newApp(ctx context.Context, cfg config.Config, stderr io.Writer, metricsMode string, trace bool) (*app, error) {
	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return nil, err
	}
	opts := []core.Option{core.WithLogger(core.NewSlogLogger(logger))}
	a := &app{cfg: cfg, stderr: stderr}
	switch metricsMode {
	case "", "none":
	case "expvar":
		a.expvar = core.NewExpvarMetricsRecorder("")
		opts = append(opts, core.WithMetricsRecorder(a.expvar))
	case "prometheus":
		a.registry = prometheus.NewRegistry()
		rec, err := core.NewPrometheusMetricsRecorder(a.registry, cfg.MetricsNamespace)
		if err != nil {
			return nil, err
		}
		opts = append(opts, core.WithMetricsRecorder(rec))
	default:
		return nil, fmt.Errorf("unknown metrics sink %q", metricsMode)
	}
	if trace {
		opts = append(opts, core.WithTracer(core.NewJSONTracer(stderr)))
	}

	images, err := core.OpenImageStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open image store: %w", err)
	}
	if images != nil {
		opts = append(opts, core.WithImageStore(images, cfg.Blob.URLTTL))
	}

	store, err := core.OpenPersistentStore(ctx, cfg, core.NewDefaultRulesEngine())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if c, ok := store.(io.Closer); ok {
		a.closer = c
	}
	logger.Info("store opened", "storage", cfg.Storage, "blob", cfg.Blob.Driver)

	a.svc = core.NewService(store, opts...)
	if cfg.SeedDemo {
		if _, err := core.SeedDemoData(ctx, a.svc); err != nil {
			a.close()
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}
	return a, nil
}

func (a *app) close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

func (a *app) dumpMetrics(w io.Writer) {
	switch {
	case a.expvar != nil:
		_ = json.NewEncoder(w).Encode(a.expvar.Snapshot())
	case a.registry != nil:
		families, err := a.registry.Gather()
		if err != nil {
			_, _ = fmt.Fprintf(w, "gather metrics: %v\n", err)
			return
		}
		var lines []string
		for _, mf := range families {
			for _, m := range mf.GetMetric() {
				labels := make([]string, 0, len(m.GetLabel()))
				for _, lp := range m.GetLabel() {
					labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
				}
				var value float64
				switch {
				case m.GetCounter() != nil:
					value = m.GetCounter().GetValue()
				case m.GetHistogram() != nil:
					value = float64(m.GetHistogram().GetSampleCount())
				}
				lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), value))
			}
		}
		sort.Strings(lines)
		for _, l := range lines {
			_, _ = fmt.Fprintln(w, l)
		}
	}
}
