package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jarvishq/jarvis/internal/rag"
)

const (
	// chatBodyLimit bounds the /api/chat request body.
	chatBodyLimit = 1 << 20 // 1 MiB

	// indexBodyLimit bounds the /api/index request body. Indexing payloads
	// carry whole documents, so the cap is wider.
	indexBodyLimit = 10 << 20 // 10 MiB
)

// Engine is the query pipeline consumed by the HTTP handlers.
// *rag.Engine satisfies it; tests substitute stubs.
type Engine interface {
	Answer(ctx context.Context, req rag.Request) (*rag.Response, error)
	IndexDocuments(ctx context.Context, docs []rag.Document) (int, error)
}

type chatHandler struct {
	engine Engine
	logger *slog.Logger
}

// chatRequest is the /api/chat request body. TopK is a pointer so that an
// explicitly supplied non-positive value can be told apart from an absent
// field: absent falls back to the server default, explicit zero or negative
// is rejected.
type chatRequest struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k"`
}

type indexRequest struct {
	Documents []rag.Document `json:"documents"`
}

type indexResponse struct {
	DocumentsIndexed int `json:"documents_indexed"`
}

// send handles POST /api/chat.
func (h *chatHandler) send(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, chatBodyLimit)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large", h.logger)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body", h.logger)
		return
	}

	ragReq := rag.Request{Query: req.Query}
	if req.TopK != nil {
		if *req.TopK <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_top_k", "top_k must be positive", h.logger)
			return
		}
		ragReq.TopK = *req.TopK
	}

	resp, err := h.engine.Answer(r.Context(), ragReq)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp, h.logger)
}

// index handles POST /api/index.
func (h *chatHandler) index(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, indexBodyLimit)

	var req indexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large", h.logger)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body", h.logger)
		return
	}

	count, err := h.engine.IndexDocuments(r.Context(), req.Documents)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, indexResponse{DocumentsIndexed: count}, h.logger)
}

// writeEngineError maps pipeline errors to HTTP responses. Validation
// failures are the caller's fault; embedding, retrieval, and generation
// failures are upstream dependency faults and map to 502 with the failing
// stage named so clients can tell them apart.
func (h *chatHandler) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	requestID, _ := requestIDFromContext(r.Context())

	switch {
	case errors.Is(err, rag.ErrValidation):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error(), h.logger)
	case errors.Is(err, rag.ErrEmbedding):
		h.logger.Error("embedding failed", "error", err, "request_id", requestID)
		writeError(w, http.StatusBadGateway, "embedding_failed", "embedding service unavailable", h.logger)
	case errors.Is(err, rag.ErrRetrieval):
		h.logger.Error("retrieval failed", "error", err, "request_id", requestID)
		writeError(w, http.StatusBadGateway, "retrieval_failed", "document retrieval unavailable", h.logger)
	case errors.Is(err, rag.ErrGeneration):
		h.logger.Error("generation failed", "error", err, "request_id", requestID)
		writeError(w, http.StatusBadGateway, "generation_failed", "answer generation unavailable", h.logger)
	default:
		h.logger.Error("unexpected pipeline error", "error", err, "request_id", requestID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error", h.logger)
	}
}
