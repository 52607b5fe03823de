// Package rag implements the retrieval-augmented-generation pipeline.
//
// The Engine is the orchestration core: it turns a natural-language query
// into an embedding, retrieves the most similar documents from the vector
// index, assembles a grounded prompt, invokes the generation model, and
// shapes the result with source attribution.
//
// # Pipeline
//
//	Query
//	     |
//	     v
//	Embedding Generation (Embedder)
//	     |
//	     v
//	Similarity Search (Index, cosine, top-k)
//	     |
//	     v
//	Prompt Assembly (fixed template, numbered context sections)
//	     |
//	     v
//	Text Generation (Generator, temperature + max tokens)
//	     |
//	     v
//	Response {answer, sources, context_count}
//
// The Engine holds no mutable state between requests and is safe for
// concurrent use. Within a single Answer call the three network-bound
// stages are strictly sequential: retrieval depends on the query embedding
// and generation depends on the retrieved context.
//
// # Error attribution
//
// Every failure wraps exactly one stage sentinel so callers can tell which
// part of the pipeline failed:
//
//	ErrValidation - request rejected before any network call
//	ErrEmbedding  - embedding model failed or returned nothing
//	ErrRetrieval  - vector index unreachable or query failed
//	ErrGeneration - generation model failed or timed out
//
// Check with errors.Is:
//
//	resp, err := engine.Answer(ctx, rag.Request{Query: q})
//	if errors.Is(err, rag.ErrGeneration) { ... }
//
// # Indexing
//
// IndexDocuments embeds a batch of documents and upserts them into the
// index keyed by ID. The operation is all-or-nothing: any embedding or
// upsert failure fails the whole call and leaves the index unchanged
// (the upsert runs in a single transaction). Re-indexing an existing ID
// replaces its vector and payload.
package rag
