package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"tailorbook/internal/blob"
	"tailorbook/internal/infra/persistence/memory"
	"tailorbook/internal/views"
	"tailorbook/pkg/domain"
)

// ErrImageStoreUnavailable is returned by UploadGalleryImage when no image store is configured.
var ErrImageStoreUnavailable = errors.New("image store not configured")

// Service is the application root: it owns the store and wraps every
// operation with tracing, metrics, logging and audit.
type Service struct {
	store    domain.PersistentStore
	images   blob.Store
	imageTTL time.Duration
	logger   Logger
	clock    Clock
	audit    AuditRecorder
	metrics  MetricsRecorder
	tracer   Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger; nil is ignored.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used for audit timestamps and, for
// NewInMemoryService, the store clock.
func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithAuditRecorder sets the audit sink; nil is ignored.
func WithAuditRecorder(r AuditRecorder) Option {
	return func(s *Service) {
		if r != nil {
			s.audit = r
		}
	}
}

// WithMetricsRecorder sets the metrics sink; nil is ignored.
func WithMetricsRecorder(r MetricsRecorder) Option {
	return func(s *Service) {
		if r != nil {
			s.metrics = r
		}
	}
}

// WithTracer sets the tracer; nil is ignored.
func WithTracer(t Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithImageStore enables UploadGalleryImage. ttl bounds signed links; zero uses 15 minutes.
func WithImageStore(store blob.Store, ttl time.Duration) Option {
	return func(s *Service) {
		s.images = store
		if ttl > 0 {
			s.imageTTL = ttl
		}
	}
}

// NewService wraps an existing store.
func NewService(store domain.PersistentStore, opts ...Option) *Service {
	svc := &Service{
		store:    store,
		imageTTL: imageURLTTL,
		logger:   noopLogger{},
		clock:    ClockFunc(func() time.Time { return time.Now().UTC() }),
		audit:    noopAuditRecorder{},
		metrics:  noopMetricsRecorder{},
		tracer:   noopTracer{},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// NewInMemoryService creates a memory store sharing the service clock.
func NewInMemoryService(engine *domain.RulesEngine, opts ...Option) *Service {
	svc := NewService(nil, opts...)
	svc.store = memory.NewStore(engine, memory.WithClock(svc.clock.Now))
	return svc
}

// Store returns the underlying store.
func (s *Service) Store() domain.PersistentStore { return s.store }

// ImageStore returns the configured image store, or nil.
func (s *Service) ImageStore() blob.Store { return s.images }

type operationMeta struct {
	entity domain.EntityType
	action domain.Action
}

var operations = map[string]operationMeta{
	"add_client":               {domain.EntityClient, domain.ActionCreate},
	"add_order":                {domain.EntityOrder, domain.ActionCreate},
	"update_order_status":      {domain.EntityOrder, domain.ActionUpdate},
	"update_measurements":      {domain.EntityClient, domain.ActionUpdate},
	"add_design":               {domain.EntityDesign, domain.ActionCreate},
	"add_inspiration":          {domain.EntityInspiration, domain.ActionCreate},
	"remove_design":            {domain.EntityDesign, domain.ActionDelete},
	"remove_inspiration":       {domain.EntityInspiration, domain.ActionDelete},
	"update_company":           {domain.EntityCompany, domain.ActionUpdate},
	"upload_design_image":      {domain.EntityDesign, domain.ActionCreate},
	"upload_inspiration_image": {domain.EntityInspiration, domain.ActionCreate},
}

// observe runs fn inside a span and reports its outcome to every sink.
func (s *Service) observe(ctx context.Context, op string, fn func(context.Context) (string, domain.Result, error)) (domain.Result, error) {
	ctx, span := s.tracer.Start(ctx, op)
	started := time.Now()
	entityID, res, err := fn(ctx)
	elapsed := time.Since(started)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, elapsed)
	for _, v := range res.Violations {
		if v.Severity == domain.SeverityWarn {
			s.logger.Warn("rule warning", "operation", op, "rule", v.Rule, "entity_id", v.EntityID, "message", v.Message)
		}
	}
	if err != nil {
		s.logger.Error("operation failed", "operation", op, "entity_id", entityID, "error", err)
		s.recordAudit(ctx, op, entityID, AuditStatusError, err, elapsed)
		return res, err
	}
	s.logger.Debug("operation completed", "operation", op, "entity_id", entityID, "duration", elapsed)
	s.recordAudit(ctx, op, entityID, AuditStatusSuccess, nil, elapsed)
	return res, nil
}

func (s *Service) run(ctx context.Context, op string, fn func(domain.Transaction) (string, error)) (domain.Result, error) {
	return s.observe(ctx, op, func(ctx context.Context) (string, domain.Result, error) {
		var entityID string
		res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			id, err := fn(tx)
			entityID = id
			return err
		})
		return entityID, res, err
	})
}

func (s *Service) recordAudit(ctx context.Context, op, entityID string, status AuditStatus, err error, elapsed time.Duration) {
	meta, ok := operations[op]
	if !ok {
		return
	}
	entry := AuditEntry{
		Operation: op,
		Entity:    meta.entity,
		Action:    meta.action,
		EntityID:  entityID,
		Status:    status,
		Duration:  elapsed,
		Timestamp: s.clock.Now(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	s.audit.Record(ctx, entry)
}

// AddClient registers a client and any initial orders.
func (s *Service) AddClient(ctx context.Context, in domain.ClientInput) (domain.Client, domain.Result, error) {
	var created domain.Client
	res, err := s.run(ctx, "add_client", func(tx domain.Transaction) (string, error) {
		var err error
		created, err = tx.AddClient(in)
		return created.ID, err
	})
	return created, res, err
}

// AddOrderToClient appends a registered order to an existing client.
func (s *Service) AddOrderToClient(ctx context.Context, clientID string, in domain.OrderInput) (domain.Order, domain.Result, error) {
	var created domain.Order
	res, err := s.run(ctx, "add_order", func(tx domain.Transaction) (string, error) {
		var err error
		created, err = tx.AddOrderToClient(clientID, in)
		if err != nil {
			return clientID, err
		}
		return created.ID, nil
	})
	return created, res, err
}

// UpdateOrderStatus moves an order to status.
func (s *Service) UpdateOrderStatus(ctx context.Context, clientID, orderID string, status domain.OrderStatus) (domain.Order, domain.Result, error) {
	var updated domain.Order
	res, err := s.run(ctx, "update_order_status", func(tx domain.Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateOrderStatus(clientID, orderID, status)
		return orderID, err
	})
	return updated, res, err
}

// UpdateClientMeasurements replaces a client's measurement record.
func (s *Service) UpdateClientMeasurements(ctx context.Context, clientID string, m domain.Measurements) (domain.Client, domain.Result, error) {
	var updated domain.Client
	res, err := s.run(ctx, "update_measurements", func(tx domain.Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateClientMeasurements(clientID, m)
		return clientID, err
	})
	return updated, res, err
}

// AddDesign prepends an item to the design gallery.
func (s *Service) AddDesign(ctx context.Context, in domain.GalleryItemInput) (domain.GalleryItem, domain.Result, error) {
	return s.addGalleryItem(ctx, "add_design", domain.GalleryDesigns, in)
}

// AddInspiration prepends an item to the inspiration gallery.
func (s *Service) AddInspiration(ctx context.Context, in domain.GalleryItemInput) (domain.GalleryItem, domain.Result, error) {
	return s.addGalleryItem(ctx, "add_inspiration", domain.GalleryInspirations, in)
}

func (s *Service) addGalleryItem(ctx context.Context, op string, g domain.Gallery, in domain.GalleryItemInput) (domain.GalleryItem, domain.Result, error) {
	var created domain.GalleryItem
	res, err := s.run(ctx, op, func(tx domain.Transaction) (string, error) {
		var err error
		created, err = tx.AddGalleryItem(g, in)
		return created.ID, err
	})
	return created, res, err
}

// RemoveDesign deletes a design; a missing id reports false without error.
func (s *Service) RemoveDesign(ctx context.Context, id string) (bool, domain.Result, error) {
	return s.removeGalleryItem(ctx, "remove_design", domain.GalleryDesigns, id)
}

// RemoveInspiration deletes an inspiration; a missing id reports false without error.
func (s *Service) RemoveInspiration(ctx context.Context, id string) (bool, domain.Result, error) {
	return s.removeGalleryItem(ctx, "remove_inspiration", domain.GalleryInspirations, id)
}

func (s *Service) removeGalleryItem(ctx context.Context, op string, g domain.Gallery, id string) (bool, domain.Result, error) {
	var removed bool
	res, err := s.run(ctx, op, func(tx domain.Transaction) (string, error) {
		var err error
		removed, err = tx.RemoveGalleryItem(g, id)
		return id, err
	})
	return removed, res, err
}

// UpdateCompanyInfo replaces the business profile.
func (s *Service) UpdateCompanyInfo(ctx context.Context, info domain.CompanyInfo) (domain.CompanyInfo, domain.Result, error) {
	var updated domain.CompanyInfo
	res, err := s.run(ctx, "update_company", func(tx domain.Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateCompanyInfo(info)
		return string(domain.EntityCompany), err
	})
	return updated, res, err
}

// UploadGalleryImage stores image bytes and returns a link usable as a
// gallery item's imageUrl. It does not create the gallery item.
func (s *Service) UploadGalleryImage(ctx context.Context, g domain.Gallery, name string, r io.Reader, contentType string) (string, error) {
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownGallery, g)
	}
	op := "upload_" + strings.TrimSuffix(string(g), "s") + "_image"
	var link string
	_, err := s.observe(ctx, op, func(ctx context.Context) (string, domain.Result, error) {
		if s.images == nil {
			return "", domain.Result{}, ErrImageStoreUnavailable
		}
		key := imageKey(g, name)
		info, err := s.images.Put(ctx, key, r, blob.PutOptions{
			ContentType: contentType,
			Metadata:    map[string]string{"gallery": string(g), "filename": path.Base(name)},
		})
		if err != nil {
			return key, domain.Result{}, fmt.Errorf("store image: %w", err)
		}
		link = info.URL
		if link == "" {
			if link, err = s.images.URL(ctx, key, s.imageTTL); err != nil {
				return key, domain.Result{}, fmt.Errorf("image url: %w", err)
			}
		}
		return key, domain.Result{}, nil
	})
	return link, err
}

func imageKey(g domain.Gallery, name string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(name, "\\", "/"))))
	if len(ext) < 2 || len(ext) > 8 || strings.ContainsAny(ext, " /?#") {
		ext = ""
	}
	return fmt.Sprintf("%s/%s%s", g, uuid.NewString(), ext)
}

// ListClients returns every client in insertion order.
func (s *Service) ListClients() []domain.Client { return s.store.ListClients() }

// GetClient looks up one client.
func (s *Service) GetClient(id string) (domain.Client, bool) { return s.store.GetClient(id) }

// ListDesigns returns designs, most recent first.
func (s *Service) ListDesigns() []domain.GalleryItem { return s.store.ListGallery(domain.GalleryDesigns) }

// ListInspirations returns inspirations, most recent first.
func (s *Service) ListInspirations() []domain.GalleryItem {
	return s.store.ListGallery(domain.GalleryInspirations)
}

// CompanyInfo returns the business profile.
func (s *Service) CompanyInfo() domain.CompanyInfo { return s.store.CompanyInfo() }

// SearchClients filters clients by name.
func (s *Service) SearchClients(query string) []domain.Client {
	return views.FilterClientsByName(s.ListClients(), query)
}

// SearchDesigns filters designs by tag.
func (s *Service) SearchDesigns(query string) []domain.GalleryItem {
	return views.FilterGalleryByTag(s.ListDesigns(), query)
}

// SearchInspirations filters inspirations by tag.
func (s *Service) SearchInspirations(query string) []domain.GalleryItem {
	return views.FilterGalleryByTag(s.ListInspirations(), query)
}

// Calendar indexes the current orders by delivery date.
func (s *Service) Calendar() views.Calendar { return views.BuildCalendar(s.ListClients()) }

// DueOn returns the orders due on date joined with their clients.
func (s *Service) DueOn(date string) []views.DueOrder { return s.Calendar().DueOn(date) }
