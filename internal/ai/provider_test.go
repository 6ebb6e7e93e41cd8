package ai

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
)

type singleProvider struct {
	calls int32
}

func (p *singleProvider) Name() string { return "single" }

func (p *singleProvider) Embed(ctx context.Context, model string, dimension int, text string, taskType string) ([]float32, error) {
	atomic.AddInt32(&p.calls, 1)
	return []float32{float32(len(text))}, nil
}

type batchProvider struct {
	singleProvider
	batchCalls int32
}

func (p *batchProvider) EmbedBatch(ctx context.Context, model string, dimension int, texts []string, taskType string) ([][]float32, error) {
	atomic.AddInt32(&p.batchCalls, 1)
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t))}
	}
	return out, nil
}

func TestEmbedBatchFallbackKeepsOrder(t *testing.T) {
	p := &singleProvider{}
	e := NewEmbedder(p, "m", 1)

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	out, err := e.EmbedBatch(context.Background(), texts, TaskRetrievalDocument)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(texts) {
		t.Fatalf("got %d results, want %d", len(out), len(texts))
	}
	for i, vec := range out {
		if vec[0] != float32(len(texts[i])) {
			t.Errorf("result %d = %v, not aligned with input %q", i, vec, texts[i])
		}
	}
	if got := atomic.LoadInt32(&p.calls); got != int32(len(texts)) {
		t.Errorf("single calls = %d, want %d", got, len(texts))
	}
}

func TestEmbedBatchPrefersNativeBatch(t *testing.T) {
	p := &batchProvider{}
	e := NewEmbedder(p, "m", 1)

	if _, err := e.EmbedBatch(context.Background(), []string{"a", "b"}, TaskRetrievalDocument); err != nil {
		t.Fatal(err)
	}
	if atomic.LoadInt32(&p.batchCalls) != 1 {
		t.Error("native batch was not used")
	}
	if atomic.LoadInt32(&p.calls) != 0 {
		t.Error("per-item path used despite native batch support")
	}
}

func TestEmbedBatchEmptyInput(t *testing.T) {
	e := NewEmbedder(&singleProvider{}, "m", 1)
	out, err := e.EmbedBatch(context.Background(), nil, TaskRetrievalDocument)
	if err != nil || out != nil {
		t.Fatalf("empty input: out=%v err=%v", out, err)
	}
}

func TestProviderRegistry(t *testing.T) {
	name := fmt.Sprintf("fake-%d", len(registry))
	Register(name, func(args interface{}) (IEmbedProvider, error) {
		return &singleProvider{}, nil
	})
	if _, err := NewProvider(name, nil); err != nil {
		t.Fatalf("registered provider not found: %v", err)
	}
	if _, err := NewProvider("missing-provider", nil); err == nil {
		t.Fatal("unknown provider should error")
	}
	if _, err := NewProvider("", nil); err == nil {
		t.Fatal("empty provider name should error")
	}
}
