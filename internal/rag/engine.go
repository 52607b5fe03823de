package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Default orchestration policy. Overridable via Options.
const (
	DefaultTopK        = 5
	DefaultTopKMax     = 20
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 512

	// DefaultGenerateTimeout bounds the generation call, the dominant
	// latency cost of the pipeline.
	DefaultGenerateTimeout = 60 * time.Second
)

// Options configures the Engine's sampling and top-k policy.
// Zero values fall back to the package defaults. Temperature is a pointer
// so an explicit 0 (deterministic sampling) is distinct from unset.
type Options struct {
	Temperature     *float32
	MaxTokens       int
	TopKDefault     int
	TopKMax         int
	GenerateTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Temperature == nil {
		t := float32(DefaultTemperature)
		o.Temperature = &t
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.TopKDefault == 0 {
		o.TopKDefault = DefaultTopK
	}
	if o.TopKMax == 0 {
		o.TopKMax = DefaultTopKMax
	}
	if o.GenerateTimeout == 0 {
		o.GenerateTimeout = DefaultGenerateTimeout
	}
	return o
}

// Engine orchestrates the retrieve -> augment -> generate pipeline.
//
// Engine is stateless per request and safe for concurrent use by multiple
// goroutines.
type Engine struct {
	embedder  Embedder
	index     Index
	generator Generator
	opts      Options
	logger    *slog.Logger
}

// New creates an Engine. All three collaborators are required; logger may
// be nil (falls back to slog.Default()).
func New(embedder Embedder, index Index, generator Generator, opts Options, logger *slog.Logger) (*Engine, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if index == nil {
		return nil, fmt.Errorf("index is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		embedder:  embedder,
		index:     index,
		generator: generator,
		opts:      opts.withDefaults(),
		logger:    logger,
	}, nil
}

// Answer runs the full pipeline for a single query.
//
// The query must be non-empty after trimming whitespace. A TopK of zero
// uses the configured default; negative values are rejected; values above
// the configured maximum are clamped. Zero retrieved matches still invoke
// generation with an explicit empty-context notice.
//
// With temperature 0 and a fixed index state the result is reproducible;
// temperature > 0 permits sampling variance in the answer text only;
// retrieval and sources stay deterministic.
func (e *Engine) Answer(ctx context.Context, req Request) (*Response, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: query cannot be empty", ErrValidation)
	}

	topK := req.TopK
	switch {
	case topK < 0:
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", ErrValidation, topK)
	case topK == 0:
		topK = e.opts.TopKDefault
	case topK > e.opts.TopKMax:
		e.logger.Debug("clamping top_k", "requested", topK, "max", e.opts.TopKMax)
		topK = e.opts.TopKMax
	}

	// Stage 1: embed the query.
	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %w", ErrEmbedding, err)
	}

	// Stage 2: nearest-neighbor search.
	matches, err := e.index.Search(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: searching index: %w", ErrRetrieval, err)
	}
	e.logger.Debug("retrieved context", "matches", len(matches), "top_k", topK)

	// Stage 3: prompt assembly + generation. The generation call is
	// bounded by its own timeout so an unresponsive model cannot block
	// the request indefinitely.
	prompt := BuildPrompt(query, matches)

	genCtx, cancel := context.WithTimeout(ctx, e.opts.GenerateTimeout)
	defer cancel()

	answer, err := e.generator.Generate(genCtx, prompt, *e.opts.Temperature, e.opts.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("%w: generating answer: %w", ErrGeneration, err)
	}

	// Stage 4: shape the result. Score and source label are dropped from
	// the public sources to keep the response schema stable.
	sources := make([]Source, len(matches))
	for i, m := range matches {
		sources[i] = Source{ID: m.ID, Text: m.Text}
	}

	return &Response{
		Answer:       strings.TrimSpace(answer),
		Sources:      sources,
		ContextCount: len(sources),
	}, nil
}

// IndexDocuments embeds the given documents in one batch and upserts them
// into the index keyed by ID. Returns the number of documents indexed.
//
// The operation is all-or-nothing: any invalid document, embedding failure
// or upsert failure fails the whole call without partially updating the
// index.
func (e *Engine) IndexDocuments(ctx context.Context, docs []Document) (int, error) {
	if len(docs) == 0 {
		return 0, fmt.Errorf("%w: documents list cannot be empty", ErrValidation)
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		if strings.TrimSpace(d.ID) == "" {
			return 0, fmt.Errorf("%w: document %d has an empty id", ErrValidation, i)
		}
		if strings.TrimSpace(d.Text) == "" {
			return 0, fmt.Errorf("%w: document %q has empty text", ErrValidation, d.ID)
		}
		texts[i] = d.Text
	}

	vectors, err := e.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("%w: embedding %d documents: %w", ErrEmbedding, len(docs), err)
	}
	if len(vectors) != len(docs) {
		return 0, fmt.Errorf("%w: embedder returned %d vectors for %d documents",
			ErrEmbedding, len(vectors), len(docs))
	}

	if err := e.index.Upsert(ctx, docs, vectors); err != nil {
		return 0, fmt.Errorf("%w: upserting %d documents: %w", ErrRetrieval, len(docs), err)
	}

	e.logger.Debug("indexed documents", "count", len(docs))
	return len(docs), nil
}
