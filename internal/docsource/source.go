package docsource

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/scoutdb/codescout/internal/config"
	"github.com/scoutdb/codescout/internal/model"
)

// ISource fetches raw repository files for ingestion. Prefix narrows the
// fetch to a subtree; empty means everything.
type ISource interface {
	Type() string
	Fetch(ctx context.Context, prefix string) ([]model.Document, error)
}

type Factory func(args interface{}) (ISource, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(cfg config.SourceConfig) (ISource, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Type))
	if key == "" {
		return nil, fmt.Errorf("source.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported document source type: %s", cfg.Type)
	}
	return factory(cfg.Data)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("source config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode source config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode source config: %w", err)
	}
	return nil
}

// classify guesses content type and language from the file extension.
// Callers can override per document after the fetch.
func classify(filePath string) (model.ContentType, string) {
	ext := strings.ToLower(path.Ext(filePath))
	switch ext {
	case ".md", ".rst", ".txt":
		return model.ContentTypeDocumentation, ""
	case ".json", ".yaml", ".yml", ".toml", ".ini", ".env":
		return model.ContentTypeConfig, ""
	case ".go":
		return model.ContentTypeCode, "go"
	case ".py":
		return model.ContentTypeCode, "python"
	case ".js", ".mjs":
		return model.ContentTypeCode, "javascript"
	case ".ts", ".tsx":
		return model.ContentTypeCode, "typescript"
	case ".java":
		return model.ContentTypeCode, "java"
	case ".rs":
		return model.ContentTypeCode, "rust"
	case ".rb":
		return model.ContentTypeCode, "ruby"
	case ".c", ".h", ".cpp", ".cc", ".hpp":
		return model.ContentTypeCode, "c++"
	default:
		return model.ContentTypeCode, ""
	}
}
