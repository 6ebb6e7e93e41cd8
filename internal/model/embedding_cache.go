package model

// EmbeddingCache is a persisted embedding keyed by model, task type and the
// sha256 of the input text. Rows older than the retention window are swept
// by the cleanup job.
type EmbeddingCache struct {
	ModelName   string    `json:"model_name"`
	TaskType    string    `json:"task_type"`
	ContentHash string    `json:"content_hash"`
	Embedding   []float32 `json:"embedding"`
	Ctime       int64     `json:"ctime"`
}
