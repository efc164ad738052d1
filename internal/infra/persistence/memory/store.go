// Package memory provides the in-memory implementation of the tailorbook
// persistent store. It is the default backend and the base the snapshotting
// sqlite and postgres stores build on.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"tailorbook/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Client aliases domain.Client for in-memory persistence operations.
	Client = domain.Client
	// ClientInput aliases domain.ClientInput.
	ClientInput = domain.ClientInput
	// Order aliases domain.Order.
	Order = domain.Order
	// OrderInput aliases domain.OrderInput.
	OrderInput = domain.OrderInput
	// OrderStatus aliases domain.OrderStatus.
	OrderStatus = domain.OrderStatus
	// Measurements aliases domain.Measurements.
	Measurements = domain.Measurements
	// Gallery aliases domain.Gallery.
	Gallery = domain.Gallery
	// GalleryItem aliases domain.GalleryItem.
	GalleryItem = domain.GalleryItem
	// GalleryItemInput aliases domain.GalleryItemInput.
	GalleryItemInput = domain.GalleryItemInput
	// CompanyInfo aliases domain.CompanyInfo.
	CompanyInfo = domain.CompanyInfo
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

// Re-exported domain constants used by the in-memory store.
const (
	// OrderStatusRegistered is the status assigned to new orders.
	OrderStatusRegistered = domain.OrderStatusRegistered
	// GalleryDesigns selects the designs gallery.
	GalleryDesigns = domain.GalleryDesigns
	// GalleryInspirations selects the inspirations gallery.
	GalleryInspirations = domain.GalleryInspirations
)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps and gallery dates.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.nowFn = fn
		}
	}
}

// WithIDGenerator overrides the identifier source. The default is a random UUID.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.idFn = fn
		}
	}
}

// WithCompanyInfo sets the initial company profile.
func WithCompanyInfo(info CompanyInfo) Option {
	return func(s *Store) {
		s.state.company = info
	}
}

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
	idFn   func() string
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine, opts ...Option) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	s := &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
		idFn:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) newID() string {
	return s.idFn()
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot. A zero
// company profile in the snapshot keeps the configured one.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	company := s.state.company
	s.state = memoryStateFromSnapshot(migrateSnapshot(snapshot))
	if s.state.company == (CompanyInfo{}) {
		s.state.company = company
	}
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// RunInTransaction executes fn within a transactional copy of the store state.
// The copy replaces the committed state only when fn and every blocking rule
// succeed; otherwise the committed state is untouched.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	return s.RunInTransactionWithCommit(ctx, fn, nil)
}

// CommitFunc receives the state a transaction is about to commit. A non-nil
// error aborts the commit.
type CommitFunc func(ctx context.Context, next Snapshot) error

// RunInTransactionWithCommit behaves like RunInTransaction but hands the
// pending state to commit before swapping it in. The committed state changes
// only if commit returns nil. commit runs while the store lock is held and
// must not call back into the store.
func (s *Store) RunInTransactionWithCommit(ctx context.Context, fn func(tx Transaction) error, commit CommitFunc) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	if commit != nil {
		if err := commit(ctx, snapshotFromMemoryState(tx.state)); err != nil {
			return result, err
		}
	}
	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()

	return fn(newTransactionView(&snapshot))
}

// ListClients returns the clients in insertion order.
func (s *Store) ListClients() []Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneClients(s.state.clients)
}

// GetClient retrieves a client by id.
func (s *Store) GetClient(id string) (Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.state.clientIndex(id)
	if idx < 0 {
		return Client{}, false
	}
	return cloneClient(s.state.clients[idx]), true
}

// ListGallery returns the items of a gallery, most recent first.
func (s *Store) ListGallery(g Gallery) []GalleryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !g.Valid() {
		return []GalleryItem{}
	}
	return cloneGalleryItems(*s.state.gallery(g))
}

// CompanyInfo returns the company profile.
func (s *Store) CompanyInfo() CompanyInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.company
}
