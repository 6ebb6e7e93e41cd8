package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrUnavailable = errors.New("ai provider unavailable")

// Task types passed through to providers that distinguish query and
// document embeddings.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// IEmbedProvider is a backing embedding endpoint. Dimension is fixed per
// model and must match what is stored; providers that support it are asked
// to truncate to the requested dimensionality.
type IEmbedProvider interface {
	Name() string
	Embed(ctx context.Context, model string, dimension int, text string, taskType string) ([]float32, error)
}

// IBatchEmbedProvider is implemented by providers whose API accepts several
// inputs in one call. Others get the concurrent per-item fallback.
type IBatchEmbedProvider interface {
	IEmbedProvider
	EmbedBatch(ctx context.Context, model string, dimension int, texts []string, taskType string) ([][]float32, error)
}

// IEmbedder is a provider bound to one model. Results of EmbedBatch are
// positionally aligned with the input.
type IEmbedder interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error)
	ModelName() string
	Dimension() int
}

type embedder struct {
	provider  IEmbedProvider
	model     string
	dimension int
}

func NewEmbedder(p IEmbedProvider, model string, dimension int) IEmbedder {
	return &embedder{provider: p, model: model, dimension: dimension}
}

func (e *embedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return e.provider.Embed(ctx, e.model, e.dimension, text, taskType)
}

func (e *embedder) EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if batcher, ok := e.provider.(IBatchEmbedProvider); ok {
		return batcher.EmbedBatch(ctx, e.model, e.dimension, texts, taskType)
	}
	return embedEach(ctx, e.provider, e.model, e.dimension, texts, taskType)
}

func (e *embedder) ModelName() string {
	return e.model
}

func (e *embedder) Dimension() int {
	return e.dimension
}

type ProviderFactory func(args interface{}) (IEmbedProvider, error)

var registry = map[string]ProviderFactory{}

func Register(name string, factory ProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewProvider(name string, args interface{}) (IEmbedProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported ai provider: %s", name)
	}
	return factory(args)
}

// embedEach is the batch fallback for providers without a native batch call.
// Items run concurrently and results are reassembled positionally.
func embedEach(ctx context.Context, p IEmbedProvider, model string, dimension int, texts []string, taskType string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			vec, err := p.Embed(ctx, model, dimension, text, taskType)
			mu.Lock()
			defer mu.Unlock()
			if err != nil && firstErr == nil {
				firstErr = err
				return
			}
			out[i] = vec
		}(i, text)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
