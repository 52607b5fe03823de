package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"google.golang.org/genai"
)

// mockEmbedder implements ai.Embedder for testing.
type mockEmbedder struct {
	dim       int
	embedErr  error
	short     bool // drop one embedding from the response
	callCount int
	lastReq   *ai.EmbedRequest
}

func (m *mockEmbedder) Name() string { return "mock-embedder" }

func (m *mockEmbedder) Register(api.Registry) {}

func (m *mockEmbedder) Embed(_ context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	m.callCount++
	m.lastReq = req

	if m.embedErr != nil {
		return nil, m.embedErr
	}

	dim := m.dim
	if dim == 0 {
		dim = Dimension
	}

	n := len(req.Input)
	if m.short && n > 0 {
		n--
	}
	embeddings := make([]*ai.Embedding, n)
	for i := range embeddings {
		vec := make([]float32, dim)
		vec[0] = float32(i + 1)
		embeddings[i] = &ai.Embedding{Embedding: vec}
	}
	return &ai.EmbedResponse{Embeddings: embeddings}, nil
}

func TestEmbedBatch(t *testing.T) {
	mock := &mockEmbedder{}
	svc, err := New(mock, false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	vectors, err := svc.EmbedBatch(context.Background(), []string{"one", "two", "three"})
	if err != nil {
		t.Fatalf("EmbedBatch() error: %v", err)
	}

	if mock.callCount != 1 {
		t.Errorf("model called %d times, want 1 batched call", mock.callCount)
	}
	if len(vectors) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vectors))
	}
	for i, v := range vectors {
		if len(v) != Dimension {
			t.Errorf("vectors[%d] has dimension %d, want %d", i, len(v), Dimension)
		}
	}
	// Order must follow input order
	if vectors[0][0] != 1 || vectors[2][0] != 3 {
		t.Error("vectors out of input order")
	}
}

func TestEmbedSendsTruncationOption(t *testing.T) {
	mock := &mockEmbedder{}
	svc, err := New(mock, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if _, err := svc.Embed(context.Background(), "text"); err != nil {
		t.Fatalf("Embed() error: %v", err)
	}

	opts, ok := mock.lastReq.Options.(*genai.EmbedContentConfig)
	if !ok {
		t.Fatalf("Options = %T, want *genai.EmbedContentConfig", mock.lastReq.Options)
	}
	if opts.OutputDimensionality == nil || *opts.OutputDimensionality != Dimension {
		t.Errorf("OutputDimensionality = %v, want %d", opts.OutputDimensionality, Dimension)
	}
}

func TestEmbedOmitsOptionsWithoutTruncation(t *testing.T) {
	mock := &mockEmbedder{}
	svc, err := New(mock, false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if _, err := svc.Embed(context.Background(), "text"); err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
	if mock.lastReq.Options != nil {
		t.Errorf("Options = %v, want nil", mock.lastReq.Options)
	}
}

func TestEmbedBatchErrors(t *testing.T) {
	t.Run("model failure", func(t *testing.T) {
		svc, _ := New(&mockEmbedder{embedErr: errors.New("quota")}, false)
		if _, err := svc.EmbedBatch(context.Background(), []string{"a"}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("no texts", func(t *testing.T) {
		svc, _ := New(&mockEmbedder{}, false)
		if _, err := svc.EmbedBatch(context.Background(), nil); err == nil {
			t.Error("expected error for empty input")
		}
	})

	t.Run("count mismatch", func(t *testing.T) {
		svc, _ := New(&mockEmbedder{short: true}, false)
		if _, err := svc.EmbedBatch(context.Background(), []string{"a", "b"}); err == nil {
			t.Error("expected error for missing embedding")
		}
	})

	t.Run("wrong dimension", func(t *testing.T) {
		svc, _ := New(&mockEmbedder{dim: 384}, false)
		if _, err := svc.EmbedBatch(context.Background(), []string{"a"}); err == nil {
			t.Error("expected error for wrong dimension")
		}
	})
}

func TestNewRequiresEmbedder(t *testing.T) {
	if _, err := New(nil, false); err == nil {
		t.Error("expected error for nil embedder")
	}
}
