// Package generation adapts Genkit text generation to the answer
// synthesis contract of the RAG pipeline.
package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"google.golang.org/genai"
)

// Client generates text completions through a single pre-resolved model.
// The model name is provider-qualified ("googleai/gemini-2.5-flash",
// "ollama/llama3"). Client is stateless and safe for concurrent use.
type Client struct {
	g         *genkit.Genkit
	modelName string
}

// New creates a generation Client bound to modelName.
func New(g *genkit.Genkit, modelName string) (*Client, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required")
	}
	if modelName == "" {
		return nil, fmt.Errorf("model name is required")
	}
	return &Client{g: g, modelName: modelName}, nil
}

// Generate produces a completion for prompt. Cancellation and deadline
// handling come from ctx; the caller owns the timeout policy.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	resp, err := genkit.Generate(ctx, c.g,
		ai.WithModelName(c.modelName),
		ai.WithPrompt(prompt),
		ai.WithConfig(c.modelConfig(temperature, maxTokens)),
	)
	if err != nil {
		return "", fmt.Errorf("generating with %s: %w", c.modelName, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("model %s returned an empty response", c.modelName)
	}
	return text, nil
}

// modelConfig builds the provider-specific generation config. Each plugin
// accepts only its own config type, so the choice keys off the provider
// segment of the model name.
func (c *Client) modelConfig(temperature float32, maxTokens int) any {
	if strings.HasPrefix(c.modelName, "ollama/") {
		return &ai.GenerationCommonConfig{
			Temperature:     float64(temperature),
			MaxOutputTokens: maxTokens,
		}
	}
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: int32(maxTokens),
	}
}
