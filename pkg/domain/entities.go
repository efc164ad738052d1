// Package domain defines the core entities, value types, and rule
// evaluation primitives used by tailorbook.
package domain

import (
	"fmt"
	"time"
)

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityClient identifies a client record.
	EntityClient EntityType = "client"
	// EntityOrder identifies an order owned by a client.
	EntityOrder EntityType = "order"
	// EntityDesign identifies an item in the design gallery.
	EntityDesign EntityType = "design"
	// EntityInspiration identifies an item in the inspiration gallery.
	EntityInspiration EntityType = "inspiration"
	// EntityCompany identifies the singleton company profile.
	EntityCompany EntityType = "company"
)

// DateLayout is the calendar date format used for order and gallery dates.
const DateLayout = "2006-01-02"

// FormatDate renders t as a calendar date in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// OrderStatus enumerates the delivery lifecycle of an order. Every status is
// reachable from every other status; there is no terminal state.
type OrderStatus string

// Canonical order statuses.
const (
	OrderStatusRegistered OrderStatus = "registered"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusTesting    OrderStatus = "testing"
	OrderStatusOnPause    OrderStatus = "on_pause"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// OrderStatuses lists every status in lifecycle order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusRegistered,
		OrderStatusInProgress,
		OrderStatusTesting,
		OrderStatusOnPause,
		OrderStatusDelivered,
	}
}

// Valid reports whether s is one of the canonical statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusRegistered, OrderStatusInProgress, OrderStatusTesting, OrderStatusOnPause, OrderStatusDelivered:
		return true
	default:
		return false
	}
}

// ParseOrderStatus converts raw input to an OrderStatus.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Measurements is the fixed set of body measurements kept per client.
// Unset values are zero.
type Measurements struct {
	Shoulder      float64 `json:"shoulder"`
	Chest         float64 `json:"chest"`
	Hips          float64 `json:"hips"`
	Waist         float64 `json:"waist"`
	TopLength     float64 `json:"topLength"`
	TrouserLength float64 `json:"trouserLength"`
	LegRound      float64 `json:"legRound"`
	ArmRound      float64 `json:"armRound"`
	Wrist         float64 `json:"wrist"`
}

// Fields returns the measurements keyed by their JSON names.
func (m Measurements) Fields() map[string]float64 {
	return map[string]float64{
		"shoulder":      m.Shoulder,
		"chest":         m.Chest,
		"hips":          m.Hips,
		"waist":         m.Waist,
		"topLength":     m.TopLength,
		"trouserLength": m.TrouserLength,
		"legRound":      m.LegRound,
		"armRound":      m.ArmRound,
		"wrist":         m.Wrist,
	}
}

// Order is a single garment commission owned by exactly one client.
type Order struct {
	ID           string      `json:"id"`
	OrderName    string      `json:"orderName"`
	DateOrdered  string      `json:"dateOrdered"`
	DateDelivery string      `json:"dateDelivery"`
	Notes        string      `json:"notes"`
	Status       OrderStatus `json:"status"`
}

// OrderInput carries the caller-supplied order fields. Id and status are
// assigned by the store.
type OrderInput struct {
	OrderName    string `json:"orderName"`
	DateOrdered  string `json:"dateOrdered"`
	DateDelivery string `json:"dateDelivery"`
	Notes        string `json:"notes"`
}

// Client is a customer record with measurements and an order history.
type Client struct {
	ID           string       `json:"id"`
	FullName     string       `json:"fullName"`
	PhoneNumber  string       `json:"phoneNumber"`
	Address      string       `json:"address"`
	Measurements Measurements `json:"measurements"`
	Orders       []Order      `json:"orders"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// ClientInput carries the caller-supplied client fields. Initial orders are
// assigned fresh ids and the registered status.
type ClientInput struct {
	FullName     string       `json:"fullName"`
	PhoneNumber  string       `json:"phoneNumber"`
	Address      string       `json:"address"`
	Measurements Measurements `json:"measurements"`
	Orders       []OrderInput `json:"orders"`
}

// FindOrder returns the order with the given id.
func (c Client) FindOrder(id string) (Order, bool) {
	for _, o := range c.Orders {
		if o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}

// Gallery selects one of the two independent image collections.
type Gallery string

// Supported galleries.
const (
	GalleryDesigns      Gallery = "designs"
	GalleryInspirations Gallery = "inspirations"
)

// Valid reports whether g names a known gallery.
func (g Gallery) Valid() bool {
	return g == GalleryDesigns || g == GalleryInspirations
}

// Entity maps the gallery to the entity type recorded in changes.
func (g Gallery) Entity() EntityType {
	if g == GalleryInspirations {
		return EntityInspiration
	}
	return EntityDesign
}

// GalleryItem is a tagged image record in a design or inspiration gallery.
type GalleryItem struct {
	ID          string   `json:"id"`
	ImageURL    string   `json:"imageUrl"`
	Tags        []string `json:"tags"`
	DateAdded   string   `json:"dateAdded"`
	Description string   `json:"description,omitempty"`
}

// GalleryItemInput carries caller-supplied gallery fields.
type GalleryItemInput struct {
	ImageURL    string   `json:"imageUrl"`
	Tags        []string `json:"tags"`
	Description string   `json:"description,omitempty"`
}

// CompanyInfo is the business profile shown on the home screen.
type CompanyInfo struct {
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
)

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported operations captured in the audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	// ActionDelete indicates an entity was removed.
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string     `json:"rule"`
	Severity Severity   `json:"severity"`
	Message  string     `json:"message"`
	Entity   EntityType `json:"entity"`
	EntityID string     `json:"entityId,omitempty"`
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation `json:"violations,omitempty"`
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	for _, v := range e.Result.Violations {
		if v.Severity == SeverityBlock {
			return fmt.Sprintf("transaction blocked by rules: %s: %s", v.Rule, v.Message)
		}
	}
	return "transaction blocked by rules"
}
