// Package llm provides the generative model and embedding clients used by the
// match scoring pipeline, plus the strict parser for model analysis output.
package llm

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider (future)
	ProviderOpenAI Provider = "openai"
)

// Config holds the model configuration for the engine
type Config struct {
	Provider       Provider
	AnalysisModel  string
	EmbeddingModel string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderGemini,
		AnalysisModel:  "gemini-2.5-flash",
		EmbeddingModel: "text-embedding-004",
	}
}

// WithAnalysisModel returns a copy of the config with a different analysis model
func (c *Config) WithAnalysisModel(model string) *Config {
	out := *c
	out.AnalysisModel = model
	return &out
}

// WithEmbeddingModel returns a copy of the config with a different embedding model
func (c *Config) WithEmbeddingModel(model string) *Config {
	out := *c
	out.EmbeddingModel = model
	return &out
}
