// Package embedding adapts a Genkit embedder to the fixed-dimensionality
// contract the RAG pipeline expects.
package embedding

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"google.golang.org/genai"
)

// Dimension is the fixed output dimensionality of all embeddings.
// The pgvector schema declares vector(768); see db/migrations.
//
// gemini-embedding-001 outputs 3072 dimensions by default but supports
// truncation to 768 via OutputDimensionality (Matryoshka Representation
// Learning). nomic-embed-text (Ollama) is natively 768.
const Dimension = 768

// Service wraps a Genkit ai.Embedder. The underlying model is loaded once
// at startup by the provider plugin and reused across calls; Service holds
// no mutable state and is safe for concurrent use.
type Service struct {
	embedder ai.Embedder

	// truncate requests OutputDimensionality from the model. Only Gemini
	// embedders understand this option; Ollama models must be natively
	// Dimension-sized.
	truncate bool
}

// New creates an embedding Service.
func New(embedder ai.Embedder, truncate bool) (*Service, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	return &Service{embedder: embedder, truncate: truncate}, nil
}

// Embed generates the embedding for a single text.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one model call.
// The returned vectors are in input order, one per text.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts to embed")
	}

	input := make([]*ai.Document, len(texts))
	for i, t := range texts {
		input[i] = ai.DocumentFromText(t, nil)
	}

	req := &ai.EmbedRequest{Input: input}
	if s.truncate {
		dim := int32(Dimension)
		req.Options = &genai.EmbedContentConfig{OutputDimensionality: &dim}
	}

	resp, err := s.embedder.Embed(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("embedding %d texts: %w", len(texts), err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d embeddings for %d texts",
			len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if len(emb.Embedding) == 0 {
			return nil, fmt.Errorf("empty embedding returned for text %d", i)
		}
		if len(emb.Embedding) != Dimension {
			return nil, fmt.Errorf("embedding %d has dimension %d, want %d",
				i, len(emb.Embedding), Dimension)
		}
		vectors[i] = emb.Embedding
	}

	return vectors, nil
}
