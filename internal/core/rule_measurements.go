package core

import (
	"context"
	"fmt"
	"math"
	"sort"

	"tailorbook/pkg/domain"
)

// NewMeasurementsNonNegativeRule blocks commits that leave any client with a
// negative or non-finite measurement.
func NewMeasurementsNonNegativeRule() domain.Rule {
	return measurementsNonNegativeRule{}
}

type measurementsNonNegativeRule struct{}

func (measurementsNonNegativeRule) Name() string { return "measurements_non_negative" }

func (r measurementsNonNegativeRule) Evaluate(_ context.Context, view domain.TransactionView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, client := range view.ListClients() {
		fields := client.Measurements.Fields()
		names := make([]string, 0, len(fields))
		for name, value := range fields {
			if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			continue
		}
		sort.Strings(names)
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityBlock,
			Message:  fmt.Sprintf("client %s has invalid measurements: %v", client.FullName, names),
			Entity:   domain.EntityClient,
			EntityID: client.ID,
		})
	}
	return res, nil
}
