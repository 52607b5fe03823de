package rag

import "context"

// Document is a unit of indexed content. ID must be unique within the
// corpus; Source is an optional provenance label.
type Document struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

// Match is a retrieval result, ordered by descending similarity.
// Score is cosine similarity as reported by the index.
type Match struct {
	ID     string
	Text   string
	Source string
	Score  float32
}

// Request is a single-turn query.
// TopK semantics: 0 means "use the configured default"; negative values
// are rejected; values above the configured maximum are clamped.
type Request struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// Source is a document reference included in a Response.
// Score and provenance are deliberately dropped to keep the response
// schema stable.
type Source struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Response is the shaped answer for a Request. Sources preserve the
// similarity-descending order returned by the index, and
// ContextCount == len(Sources).
type Response struct {
	Answer       string   `json:"answer"`
	Sources      []Source `json:"sources"`
	ContextCount int      `json:"context_count"`
}

// Embedder maps free text to fixed-dimensionality vectors.
// Output is deterministic for a fixed model.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Index stores (id, vector, payload) tuples and answers nearest-neighbor
// queries. Search results are ordered by descending similarity; Upsert is
// idempotent per document ID.
type Index interface {
	Upsert(ctx context.Context, docs []Document, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, topK int) ([]Match, error)
}

// Generator submits a composed prompt to a text model and returns the
// generated text. May block for seconds; implementations must honor
// context cancellation.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error)
}
