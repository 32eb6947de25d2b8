package chart

// normalizeConfig carries per-call normalization settings.
type normalizeConfig struct {
	rate float64
}

// Option applies a configuration option to a Normalize call.
type Option func(*normalizeConfig)

// WithRate scales the chart's timing by the given rate before merging.
// Rates must be strictly positive; Normalize rejects anything else.
func WithRate(rate float64) Option {
	return func(cfg *normalizeConfig) {
		cfg.rate = rate
	}
}
