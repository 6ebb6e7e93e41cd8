package model

// SkillEmbedding is one vector per (user, skill category), upserted as new
// evidence arrives.
type SkillEmbedding struct {
	UserID          string    `json:"user_id"`
	SkillCategoryID string    `json:"skill_category_id"`
	Embedding       []float32 `json:"-"`
	SkillLevel      int       `json:"skill_level"`
	EvidenceCount   int       `json:"evidence_count"`
	Mtime           int64     `json:"mtime"`
}

type SimilarUser struct {
	UserID     string  `json:"user_id"`
	SkillLevel int     `json:"skill_level"`
	Similarity float32 `json:"similarity"`
}

// LearningContent is curated educational material ranked against a user's
// skill vector for personalized recommendations.
type LearningContent struct {
	ID              string    `json:"id"`
	SkillCategoryID string    `json:"skill_category_id"`
	Title           string    `json:"title"`
	Body            string    `json:"body"`
	Difficulty      string    `json:"difficulty"`
	Embedding       []float32 `json:"-"`
	Ctime           int64     `json:"ctime"`
}

type RankedContent struct {
	Content    LearningContent `json:"content"`
	Similarity float32         `json:"similarity"`
}
