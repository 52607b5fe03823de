package vecstore

import (
	"context"
	"testing"

	"github.com/jarvishq/jarvis/internal/log"
	"github.com/jarvishq/jarvis/internal/rag"
	"github.com/jarvishq/jarvis/internal/testutil"
)

const dim = 768

// basisVector returns a unit vector along the given axis. Cosine
// similarity between basis vectors is exactly 0, and 1 against itself,
// which makes ranking assertions deterministic.
func basisVector(axis int) []float32 {
	v := make([]float32, dim)
	v[axis] = 1
	return v
}

// blendVector returns a normalized mix of two axes, more similar to the
// first than a pure second-axis vector is.
func blendVector(primary, secondary int) []float32 {
	v := make([]float32, dim)
	v[primary] = 0.9
	v[secondary] = 0.436 // keeps ||v|| close to 1
	return v
}

func TestStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	store, err := New(db.Pool, log.NewNop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	docs := []rag.Document{
		{ID: "doc_a", Text: "exactly about topic zero", Source: "unit"},
		{ID: "doc_b", Text: "mostly about topic zero"},
		{ID: "doc_c", Text: "about topic one entirely"},
	}
	vectors := [][]float32{
		basisVector(0),
		blendVector(0, 1),
		basisVector(1),
	}

	if err := store.Upsert(ctx, docs, vectors); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	t.Run("search ranks by cosine similarity", func(t *testing.T) {
		matches, err := store.Search(ctx, basisVector(0), 3)
		if err != nil {
			t.Fatalf("Search() error: %v", err)
		}
		if len(matches) != 3 {
			t.Fatalf("got %d matches, want 3", len(matches))
		}

		wantOrder := []string{"doc_a", "doc_b", "doc_c"}
		for i, m := range matches {
			if m.ID != wantOrder[i] {
				t.Errorf("matches[%d].ID = %q, want %q", i, m.ID, wantOrder[i])
			}
		}
		for i := 1; i < len(matches); i++ {
			if matches[i].Score > matches[i-1].Score {
				t.Errorf("scores not descending: %v then %v",
					matches[i-1].Score, matches[i].Score)
			}
		}
		if matches[0].Score < 0.99 {
			t.Errorf("identical vector similarity = %v, want ~1.0", matches[0].Score)
		}
		if matches[0].Text != "exactly about topic zero" || matches[0].Source != "unit" {
			t.Errorf("match content mismatch: %+v", matches[0])
		}
	})

	t.Run("topK limits results", func(t *testing.T) {
		matches, err := store.Search(ctx, basisVector(0), 1)
		if err != nil {
			t.Fatalf("Search() error: %v", err)
		}
		if len(matches) != 1 || matches[0].ID != "doc_a" {
			t.Errorf("got %v, want single doc_a", matches)
		}
	})

	t.Run("upsert is idempotent by id", func(t *testing.T) {
		updated := []rag.Document{{ID: "doc_a", Text: "rewritten text", Source: "v2"}}
		if err := store.Upsert(ctx, updated, [][]float32{basisVector(2)}); err != nil {
			t.Fatalf("Upsert() error: %v", err)
		}

		n, err := store.Count(ctx)
		if err != nil {
			t.Fatalf("Count() error: %v", err)
		}
		if n != 3 {
			t.Errorf("count = %d after re-upsert, want 3", n)
		}

		matches, err := store.Search(ctx, basisVector(2), 1)
		if err != nil {
			t.Fatalf("Search() error: %v", err)
		}
		if matches[0].ID != "doc_a" || matches[0].Text != "rewritten text" {
			t.Errorf("re-upsert did not replace content: %+v", matches[0])
		}
	})

	t.Run("mismatched vectors rejected", func(t *testing.T) {
		err := store.Upsert(ctx, docs[:2], [][]float32{basisVector(0)})
		if err == nil {
			t.Error("expected error for docs/vectors length mismatch")
		}
	})

	t.Run("invalid topK rejected", func(t *testing.T) {
		if _, err := store.Search(ctx, basisVector(0), 0); err == nil {
			t.Error("expected error for topK 0")
		}
	})
}

func TestStoreUpsertEmptyBatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	store, err := New(db.Pool, log.NewNop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := store.Upsert(context.Background(), nil, nil); err != nil {
		t.Errorf("empty upsert should be a no-op, got %v", err)
	}
}
