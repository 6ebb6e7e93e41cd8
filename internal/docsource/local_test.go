package docsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/scoutdb/codescout/internal/config"
	"github.com/scoutdb/codescout/internal/model"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLocalSourceFetch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main")
	writeFile(t, dir, "docs/guide.md", "# guide")
	writeFile(t, dir, "config.yaml", "key: value")
	writeFile(t, dir, ".git/HEAD", "ref: refs/heads/main")

	src, err := New(configOf(dir))
	if err != nil {
		t.Fatal(err)
	}
	docs, err := src.Fetch(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	byPath := map[string]model.Document{}
	for _, d := range docs {
		byPath[d.FilePath] = d
	}
	if len(byPath) != 3 {
		t.Fatalf("fetched %d files, want 3 (dot dirs skipped): %v", len(byPath), docs)
	}
	if d := byPath["main.go"]; d.ContentType != model.ContentTypeCode || d.Language != "go" {
		t.Errorf("main.go classified as %s/%s", d.ContentType, d.Language)
	}
	if d := byPath["docs/guide.md"]; d.ContentType != model.ContentTypeDocumentation {
		t.Errorf("guide.md classified as %s", d.ContentType)
	}
	if d := byPath["config.yaml"]; d.ContentType != model.ContentTypeConfig {
		t.Errorf("config.yaml classified as %s", d.ContentType)
	}
}

func TestLocalSourcePrefix(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/a.go", "package a")
	writeFile(t, dir, "other/b.go", "package b")

	src, err := New(configOf(dir))
	if err != nil {
		t.Fatal(err)
	}
	docs, err := src.Fetch(context.Background(), "src")
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].FilePath != "src/a.go" {
		t.Fatalf("docs = %v, want only src/a.go", docs)
	}

	if _, err := src.Fetch(context.Background(), "../escape"); err == nil {
		t.Fatal("prefix escaping the root must be rejected")
	}
}

func configOf(dir string) config.SourceConfig {
	return config.SourceConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": dir},
	}
}
