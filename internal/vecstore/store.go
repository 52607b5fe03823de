// Package vecstore persists documents and their embeddings in
// PostgreSQL + pgvector and serves cosine-similarity search.
package vecstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/jarvishq/jarvis/internal/rag"
)

// querier is the common interface satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// upsertDocumentSQL inserts a document or refreshes an existing one in
// place. Re-indexing the same ID is idempotent.
const upsertDocumentSQL = `INSERT INTO documents (id, content, source, embedding)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE SET
		content = EXCLUDED.content,
		source = EXCLUDED.source,
		embedding = EXCLUDED.embedding,
		updated_at = now()`

// searchDocumentsSQL ranks documents by cosine similarity to the query
// vector. pgvector's <=> operator is cosine distance, so similarity is
// its complement; ordering by the raw operator lets the HNSW index serve
// the scan.
const searchDocumentsSQL = `SELECT id, content, source, 1 - (embedding <=> $1) AS similarity
	FROM documents
	ORDER BY embedding <=> $1
	LIMIT $2`

// Store manages the documents table. It is safe for concurrent use.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New creates a document Store.
func New(pool *pgxpool.Pool, logger *slog.Logger) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger}, nil
}

// Upsert writes docs and their vectors in a single transaction. vectors
// must be parallel to docs. Either every document lands or none does.
func (s *Store) Upsert(ctx context.Context, docs []rag.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("got %d documents but %d vectors", len(docs), len(vectors))
	}
	if len(docs) == 0 {
		return nil
	}

	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.logger.Warn("rollback failed", "error", rbErr)
		}
	}()

	for i, doc := range docs {
		if _, err := upsertOne(ctx, tx, doc, vectors[i]); err != nil {
			return fmt.Errorf("upserting document %q: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Debug("documents upserted",
		"count", len(docs),
		"duration", time.Since(start))
	return nil
}

func upsertOne(ctx context.Context, q querier, doc rag.Document, vector []float32) (pgconn.CommandTag, error) {
	return q.Exec(ctx, upsertDocumentSQL,
		doc.ID, doc.Text, doc.Source, pgvector.NewVector(vector))
}

// Search returns up to topK documents ranked by cosine similarity to
// vector, most similar first. Fewer rows than topK means the corpus is
// smaller than topK; zero rows means an empty corpus.
func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]rag.Match, error) {
	if topK < 1 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}

	rows, err := s.pool.Query(ctx, searchDocumentsSQL, pgvector.NewVector(vector), topK)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	defer rows.Close()

	matches := make([]rag.Match, 0, topK)
	for rows.Next() {
		var m rag.Match
		if err := rows.Scan(&m.ID, &m.Text, &m.Source, &m.Score); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", err)
	}

	return matches, nil
}

// Count reports the number of indexed documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}
