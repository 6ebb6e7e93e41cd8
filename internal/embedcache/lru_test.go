package embedcache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/scoutdb/codescout/internal/ai"
)

type countingEmbedder struct {
	mu         sync.Mutex
	embedCalls int
	batchCalls int
	batchTexts [][]string
}

func (c *countingEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.embedCalls++
	return []float32{float32(len(text)), 1}, nil
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batchCalls++
	copied := make([]string, len(texts))
	copy(copied, texts)
	c.batchTexts = append(c.batchTexts, copied)
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return out, nil
}

func (c *countingEmbedder) ModelName() string { return "test-model" }
func (c *countingEmbedder) Dimension() int    { return 2 }

func TestLruEmbedderMemoizes(t *testing.T) {
	backend := &countingEmbedder{}
	cached := WrapLruCacheToEmbedder(backend, 10, time.Minute)
	ctx := context.Background()

	first, err := cached.Embed(ctx, "hello world", ai.TaskRetrievalQuery)
	if err != nil {
		t.Fatal(err)
	}
	second, err := cached.Embed(ctx, "hello world", ai.TaskRetrievalQuery)
	if err != nil {
		t.Fatal(err)
	}
	if backend.embedCalls != 1 {
		t.Fatalf("backend called %d times, want 1", backend.embedCalls)
	}
	if len(first) != len(second) || first[0] != second[0] {
		t.Fatal("cached result differs from original")
	}

	// Mutating the returned slice must not poison the cache.
	second[0] = -99
	third, err := cached.Embed(ctx, "hello world", ai.TaskRetrievalQuery)
	if err != nil {
		t.Fatal(err)
	}
	if third[0] == -99 {
		t.Fatal("cache returned a shared slice")
	}
	if backend.embedCalls != 1 {
		t.Fatalf("backend called %d times after mutation, want 1", backend.embedCalls)
	}
}

func TestLruEmbedderDistinguishesTaskType(t *testing.T) {
	backend := &countingEmbedder{}
	cached := WrapLruCacheToEmbedder(backend, 10, time.Minute)
	ctx := context.Background()

	if _, err := cached.Embed(ctx, "text", ai.TaskRetrievalQuery); err != nil {
		t.Fatal(err)
	}
	if _, err := cached.Embed(ctx, "text", ai.TaskRetrievalDocument); err != nil {
		t.Fatal(err)
	}
	if backend.embedCalls != 2 {
		t.Fatalf("backend called %d times, want 2 (one per task type)", backend.embedCalls)
	}
}

func TestLruEmbedderBatchForwardsOnlyMisses(t *testing.T) {
	backend := &countingEmbedder{}
	cached := WrapLruCacheToEmbedder(backend, 10, time.Minute)
	ctx := context.Background()

	if _, err := cached.Embed(ctx, "b", ai.TaskRetrievalDocument); err != nil {
		t.Fatal(err)
	}

	out, err := cached.EmbedBatch(ctx, []string{"a", "b", "c"}, ai.TaskRetrievalDocument)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d results, want 3", len(out))
	}
	for i, vec := range out {
		if len(vec) != 2 {
			t.Fatalf("result %d has dimension %d, want 2", i, len(vec))
		}
	}
	if backend.batchCalls != 1 {
		t.Fatalf("batch calls = %d, want 1", backend.batchCalls)
	}
	if got := backend.batchTexts[0]; len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("backend batch received %v, want [a c]", got)
	}

	// Everything is now cached, a repeat batch stays local.
	if _, err := cached.EmbedBatch(ctx, []string{"a", "b", "c"}, ai.TaskRetrievalDocument); err != nil {
		t.Fatal(err)
	}
	if backend.batchCalls != 1 {
		t.Fatalf("batch calls after warm cache = %d, want 1", backend.batchCalls)
	}
}

func TestWrapLruCacheDisabled(t *testing.T) {
	backend := &countingEmbedder{}
	if got := WrapLruCacheToEmbedder(backend, 0, time.Minute); got != ai.IEmbedder(backend) {
		t.Fatal("zero size should return the embedder unwrapped")
	}
	if got := WrapLruCacheToEmbedder(nil, 10, time.Minute); got != nil {
		t.Fatal("nil embedder should stay nil")
	}
}
