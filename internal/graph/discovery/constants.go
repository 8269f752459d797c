package discovery

// Weight-formula constants (spec.md §4.2).
const (
	DEXBase    = 0.1
	SpreadMult = 2.0
	LiqBonus   = 0.5

	BridgeBase     = 0.3
	HealthPenalty  = 0.5
	FeeMult        = 1.0

	XLMHubBase       = 0.4
	XLMHubUnverified = 0.2

	MinWeight = 0.01
)

// Defaults for discovery behavior (spec.md §4.2, §6 "Configuration").
const (
	DefaultOrderbookConcurrency = 3
	DefaultOrderbookTimeout     = 8 // seconds
	DefaultMinDepth             = 0.01
)
