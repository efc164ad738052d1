package core

import "tailorbook/pkg/domain"

// NewDefaultRulesEngine builds an engine with the built-in validation
// policies. domain.NewRulesEngine stays empty for callers that validate
// before reaching the store.
func NewDefaultRulesEngine() *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewMeasurementsNonNegativeRule())
	engine.Register(NewOrderNameRequiredRule())
	engine.Register(NewDeliveryAfterOrderRule())
	return engine
}
