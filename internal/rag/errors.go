package rag

import "errors"

// Stage sentinels. Every error returned by the Engine wraps exactly one of
// these so callers can attribute the failure with errors.Is().
var (
	// ErrValidation indicates the request was rejected before any network
	// call was made.
	ErrValidation = errors.New("validation failed")

	// ErrEmbedding indicates the embedding stage failed.
	ErrEmbedding = errors.New("embedding failed")

	// ErrRetrieval indicates the vector index could not be queried or
	// written.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrGeneration indicates the generation stage failed or timed out.
	ErrGeneration = errors.New("generation failed")
)
