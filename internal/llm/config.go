// Package llm provides centralized LLM configuration and client abstractions.
// Auto-completion of grant sections is the only consumer today.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short answers: titles, keywords, single values
	TierLite ModelTier = "lite"
	// TierStandard is for narrative sections of moderate length
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long-form narratives that need planning
	TierAdvanced ModelTier = "advanced"
)

// ParseTier maps a configuration string to a tier, defaulting to TierStandard.
func ParseTier(s string) ModelTier {
	switch ModelTier(s) {
	case TierLite, TierStandard, TierAdvanced:
		return ModelTier(s)
	default:
		return TierStandard
	}
}

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider, the only one implemented.
const ProviderGemini Provider = "gemini"

// Generation defaults
const (
	DefaultTemperature float32 = 0.4
	DefaultMaxTokens   int32   = 1024
)

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
	MaxTokens   int32
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}

// Options tunes a single generation call. Zero fields fall back to the
// client's Config: an empty Model uses the standard tier.
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int32
	// JSON requests an application/json response.
	JSON bool
}

// resolve fills zero-valued options from c.
func (c *Config) resolve(opts Options) Options {
	if opts.Model == "" {
		opts.Model = c.GetModel(TierStandard)
	}
	if opts.Temperature <= 0 {
		opts.Temperature = c.Temperature
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = c.MaxTokens
	}
	return opts
}
