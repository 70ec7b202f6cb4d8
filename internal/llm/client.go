package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateJSON generates JSON content from a prompt
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	// EmbedTexts computes embedding vectors for all texts in one batched call
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	// ModelName returns the analysis model identifier, recorded on scores
	ModelName() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration. Credentials are
// validated here, at construction, rather than at call time.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// GenerateJSON generates JSON content from a prompt
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.config.AnalysisModel)
	model.SetTemperature(0.1) // Low temperature for consistent output
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &ExternalServiceError{Service: "gemini", Reason: "generate content failed", Cause: err}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", &ExternalServiceError{Service: "gemini", Reason: err.Error()}
	}

	// Clean any markdown code block wrappers
	return CleanJSONBlock(text), nil
}

// EmbedTexts computes embeddings for all texts in a single batched call
func (c *GeminiClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	em := c.client.EmbeddingModel(c.config.EmbeddingModel)

	batch := em.NewBatch()
	for _, text := range texts {
		batch = batch.AddContent(genai.Text(text))
	}

	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, &ExternalServiceError{Service: "gemini", Reason: "batch embed failed", Cause: err}
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, &ExternalServiceError{
			Service: "gemini",
			Reason:  fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings)),
		}
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, &ExternalServiceError{Service: "gemini", Reason: "empty embedding in batch response"}
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}

// ModelName returns the analysis model identifier
func (c *GeminiClient) ModelName() string {
	return c.config.AnalysisModel
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
