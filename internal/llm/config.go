// Package llm holds the model configuration and client used for LLM-backed
// meal analysis.
package llm

// ModelTier selects a model by cost and capability.
type ModelTier string

const (
	// TierLite is for short structured answers such as a single meal breakdown.
	TierLite ModelTier = "lite"
	// TierStandard is for text plus image input.
	TierStandard ModelTier = "standard"
)

// Provider names an LLM vendor.
type Provider string

// ProviderGemini is the only provider wired today.
const ProviderGemini Provider = "gemini"

// Config maps tiers to concrete model names.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the Gemini model mapping.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
	}
}

// GetModel returns the model for tier, falling back to the standard and then
// the lite model. It returns "" when nothing is configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of c with tier mapped to model.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string, len(c.Models)+1),
	}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return out
}
