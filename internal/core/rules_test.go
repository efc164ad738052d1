package core

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"tailorbook/pkg/domain"
)

func TestDefaultRulesEngineRegistersRules(t *testing.T) {
	names := NewDefaultRulesEngine().Rules()
	want := map[string]bool{"measurements_non_negative": false, "order_name_required": false, "delivery_after_order": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, seen := range want {
		if !seen {
			t.Fatalf("expected rule %s registered, got %v", n, names)
		}
	}
}

func TestNegativeMeasurementsBlock(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService(NewDefaultRulesEngine())
	client, _, err := svc.AddClient(ctx, domain.ClientInput{FullName: "Ray"})
	if err != nil {
		t.Fatalf("add client: %v", err)
	}
	_, res, err := svc.UpdateClientMeasurements(ctx, client.ID, domain.Measurements{Chest: -1, Waist: -2})
	var rv domain.RuleViolationError
	if !errors.As(err, &rv) {
		t.Fatalf("expected rule violation, got %v", err)
	}
	if !res.HasBlocking() || len(res.Violations) != 1 {
		t.Fatalf("expected single blocking violation, got %+v", res)
	}
	v := res.Violations[0]
	if v.Rule != "measurements_non_negative" || v.EntityID != client.ID || !strings.Contains(v.Message, "chest") || !strings.Contains(v.Message, "waist") {
		t.Fatalf("unexpected violation %+v", v)
	}
	got, _ := svc.GetClient(client.ID)
	if got.Measurements != (domain.Measurements{}) {
		t.Fatalf("blocked update must not persist, got %+v", got.Measurements)
	}
}

func TestNonFiniteMeasurementsBlock(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService(NewDefaultRulesEngine())
	client, _, err := svc.AddClient(ctx, domain.ClientInput{FullName: "Ray"})
	if err != nil {
		t.Fatalf("add client: %v", err)
	}
	cases := map[string]domain.Measurements{
		"nan":     {Chest: math.NaN()},
		"posinf":  {Hips: math.Inf(1)},
		"neginf":  {Wrist: math.Inf(-1)},
		"various": {Chest: math.NaN(), Hips: math.Inf(1), Waist: 80},
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			_, res, err := svc.UpdateClientMeasurements(ctx, client.ID, m)
			var rv domain.RuleViolationError
			if !errors.As(err, &rv) || !res.HasBlocking() {
				t.Fatalf("expected blocking violation, got err=%v res=%+v", err, res)
			}
			got, _ := svc.GetClient(client.ID)
			if got.Measurements != (domain.Measurements{}) {
				t.Fatalf("blocked update must not persist, got %+v", got.Measurements)
			}
		})
	}
	if _, _, err := svc.UpdateClientMeasurements(ctx, client.ID, domain.Measurements{Chest: 0, Waist: 80.5}); err != nil {
		t.Fatalf("finite measurements must pass: %v", err)
	}
}

func TestBlankOrderNameBlocks(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService(NewDefaultRulesEngine())
	client, _, _ := svc.AddClient(ctx, domain.ClientInput{FullName: "Ray"})
	_, res, err := svc.AddOrderToClient(ctx, client.ID, domain.OrderInput{OrderName: "   "})
	if err == nil || !res.HasBlocking() {
		t.Fatalf("expected blocked order, got res=%+v err=%v", res, err)
	}
	if got, _ := svc.GetClient(client.ID); len(got.Orders) != 0 {
		t.Fatalf("blocked order must not persist")
	}
	if _, _, err := svc.AddClient(ctx, domain.ClientInput{FullName: "Ada", Orders: []domain.OrderInput{{OrderName: ""}}}); err == nil {
		t.Fatalf("expected initial blank order to block client creation")
	}
	if n := len(svc.ListClients()); n != 1 {
		t.Fatalf("expected one client, got %d", n)
	}
}

func TestDeliveryRuleWarns(t *testing.T) {
	ctx := context.Background()
	logger := &captureLogger{}
	svc := NewInMemoryService(NewDefaultRulesEngine(), WithLogger(logger))
	client, _, _ := svc.AddClient(ctx, domain.ClientInput{FullName: "Ray"})

	cases := []struct {
		in   domain.OrderInput
		want string
	}{
		{domain.OrderInput{OrderName: "a", DateOrdered: "2024-03-10", DateDelivery: "2024-03-01"}, "precedes"},
		{domain.OrderInput{OrderName: "b", DateOrdered: "10/03/2024"}, "order date"},
		{domain.OrderInput{OrderName: "c", DateDelivery: "soon"}, "delivery date"},
	}
	for _, tc := range cases {
		order, res, err := svc.AddOrderToClient(ctx, client.ID, tc.in)
		if err != nil {
			t.Fatalf("warnings must not block: %v", err)
		}
		if len(res.Violations) != 1 || res.Violations[0].Severity != domain.SeverityWarn || !strings.Contains(res.Violations[0].Message, tc.want) {
			t.Fatalf("order %s: unexpected result %+v", tc.in.OrderName, res)
		}
		if res.Violations[0].EntityID != order.ID {
			t.Fatalf("expected warning tied to order %s", order.ID)
		}
	}
	if logger.count("w:rule warning") != len(cases) {
		t.Fatalf("expected a warn log per warning, got %v", logger.calls)
	}
	_, res, err := svc.AddOrderToClient(ctx, client.ID, domain.OrderInput{OrderName: "ok", DateOrdered: "2024-03-01", DateDelivery: "2024-03-01"})
	if err != nil || len(res.Violations) != 0 {
		t.Fatalf("same-day delivery is fine: %+v %v", res, err)
	}
}
