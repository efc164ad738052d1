package core

import (
	"context"
	"fmt"
	"strings"

	"tailorbook/pkg/domain"
)

// NewOrderNameRequiredRule blocks creating orders without a name.
func NewOrderNameRequiredRule() domain.Rule {
	return orderNameRequiredRule{}
}

type orderNameRequiredRule struct{}

func (orderNameRequiredRule) Name() string { return "order_name_required" }

func (r orderNameRequiredRule) Evaluate(_ context.Context, _ domain.TransactionView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, order := range createdOrders(changes) {
		if strings.TrimSpace(order.OrderName) != "" {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityBlock,
			Message:  "order name is required",
			Entity:   domain.EntityOrder,
			EntityID: order.ID,
		})
	}
	return res, nil
}

// NewDeliveryAfterOrderRule warns when a new order's delivery date is
// malformed or precedes its order date.
func NewDeliveryAfterOrderRule() domain.Rule {
	return deliveryAfterOrderRule{}
}

type deliveryAfterOrderRule struct{}

func (deliveryAfterOrderRule) Name() string { return "delivery_after_order" }

func (r deliveryAfterOrderRule) Evaluate(_ context.Context, _ domain.TransactionView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	warn := func(order domain.Order, msg string) {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityWarn,
			Message:  msg,
			Entity:   domain.EntityOrder,
			EntityID: order.ID,
		})
	}
	for _, order := range createdOrders(changes) {
		switch {
		case order.DateOrdered != "" && !domain.ValidDate(order.DateOrdered):
			warn(order, fmt.Sprintf("order date %q is not YYYY-MM-DD", order.DateOrdered))
		case order.DateDelivery != "" && !domain.ValidDate(order.DateDelivery):
			warn(order, fmt.Sprintf("delivery date %q is not YYYY-MM-DD", order.DateDelivery))
		case order.DateOrdered != "" && order.DateDelivery != "" && order.DateDelivery < order.DateOrdered:
			// ISO dates compare lexically.
			warn(order, fmt.Sprintf("delivery %s precedes order date %s", order.DateDelivery, order.DateOrdered))
		}
	}
	return res, nil
}

func createdOrders(changes []domain.Change) []domain.Order {
	var out []domain.Order
	for _, change := range changes {
		if change.Entity != domain.EntityOrder || change.Action != domain.ActionCreate {
			continue
		}
		if order, ok := change.After.(domain.Order); ok {
			out = append(out, order)
		}
	}
	return out
}
