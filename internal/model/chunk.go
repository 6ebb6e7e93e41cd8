package model

// ContentType classifies indexed content and selects the embedding model.
type ContentType string

const (
	ContentTypeCode          ContentType = "code"
	ContentTypeDocumentation ContentType = "documentation"
	ContentTypeExample       ContentType = "example"
	ContentTypeConfig        ContentType = "config"
)

func ParseContentType(s string) (ContentType, bool) {
	switch ContentType(s) {
	case ContentTypeCode, ContentTypeDocumentation, ContentTypeExample, ContentTypeConfig:
		return ContentType(s), true
	}
	return "", false
}

// Document is raw ingestion input, one file of a repository.
type Document struct {
	FilePath    string      `json:"file_path"`
	Content     string      `json:"content"`
	ContentType ContentType `json:"content_type"`
	Language    string      `json:"language,omitempty"`
	Importance  float64     `json:"importance,omitempty"`
}

// DocumentChunk is the stored unit of embedding. Chunks are immutable once
// embedded; re-indexing supersedes rows sharing (repository, path, seq).
type DocumentChunk struct {
	ID           string      `json:"id"`
	RepositoryID string      `json:"repository_id"`
	FilePath     string      `json:"file_path"`
	Seq          int         `json:"seq"`
	Content      string      `json:"content"`
	ContentType  ContentType `json:"content_type"`
	Language     string      `json:"language,omitempty"`
	Embedding    []float32   `json:"-"`
	Importance   float64     `json:"importance"`
	IndexedBy    string      `json:"indexed_by"`
	ContentHash  string      `json:"content_hash"`
	Ctime        int64       `json:"ctime"`
}

// ChunkMatch is a search hit with its cosine similarity score.
type ChunkMatch struct {
	Chunk      DocumentChunk `json:"chunk"`
	Similarity float32       `json:"similarity"`
}
