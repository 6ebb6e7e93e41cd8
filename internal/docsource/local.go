package docsource

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/scoutdb/codescout/internal/model"
)

const maxLocalFileSize = 1 << 20 // 1 MiB, larger files are skipped

type localConfig struct {
	Dir string `json:"dir"`
}

type localSource struct {
	dir string
}

func init() {
	Register("local", createLocalSource)
}

func createLocalSource(args interface{}) (ISource, error) {
	config := &localConfig{}
	if err := decodeConfig(args, config); err != nil {
		return nil, err
	}
	if config.Dir == "" {
		return nil, fmt.Errorf("local source dir is required")
	}
	return &localSource{dir: config.Dir}, nil
}

func (s *localSource) Type() string {
	return "local"
}

func (s *localSource) Fetch(ctx context.Context, prefix string) ([]model.Document, error) {
	root := s.dir
	if prefix != "" {
		clean := filepath.Clean(prefix)
		if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
			return nil, fmt.Errorf("invalid prefix")
		}
		root = filepath.Join(s.dir, clean)
	}
	var docs []model.Document
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > maxLocalFileSize {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		contentType, language := classify(rel)
		docs = append(docs, model.Document{
			FilePath:    rel,
			Content:     string(data),
			ContentType: contentType,
			Language:    language,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
