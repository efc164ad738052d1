package core

import (
	"context"

	"tailorbook/pkg/domain"
)

// DemoClient is the sample client loaded by SeedDemoData.
func DemoClient() domain.ClientInput {
	return domain.ClientInput{
		FullName:    "John Smith",
		PhoneNumber: "+1234567890",
		Address:     "123 Main St, City",
		Measurements: domain.Measurements{
			Shoulder:  42,
			Chest:     40,
			Hips:      38,
			TopLength: 70,
		},
		Orders: []domain.OrderInput{{
			OrderName:    "Blue formal suit",
			DateOrdered:  "2024-03-01",
			DateDelivery: "2024-03-15",
			Notes:        "Blue formal suit with pinstripes",
		}},
	}
}

// SeedDemoData adds the demo client when the store has no clients. It
// reports whether anything was written.
func SeedDemoData(ctx context.Context, svc *Service) (bool, error) {
	if len(svc.ListClients()) > 0 {
		svc.logger.Debug("demo seed skipped", "reason", "store not empty")
		return false, nil
	}
	client, _, err := svc.AddClient(ctx, DemoClient())
	if err != nil {
		return false, err
	}
	svc.logger.Info("demo data seeded", "client_id", client.ID)
	return true, nil
}
