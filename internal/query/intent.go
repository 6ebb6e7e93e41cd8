package query

import "github.com/scoutdb/codescout/internal/model"

type QueryType string

const (
	QueryTypeCodeSearch      QueryType = "code_search"
	QueryTypeExampleRequest  QueryType = "example_request"
	QueryTypeDocumentation   QueryType = "documentation"
	QueryTypeTroubleshooting QueryType = "troubleshooting"
	QueryTypeConfiguration   QueryType = "configuration"
	QueryTypeAPIReference    QueryType = "api_reference"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Intent is the structured classification of a free-text query. It is
// derived, never persisted.
type Intent struct {
	OriginalQuery       string              `json:"original_query"`
	QueryType           QueryType           `json:"query_type"`
	ProgrammingLanguage string              `json:"programming_language,omitempty"`
	Frameworks          []string            `json:"frameworks,omitempty"`
	ContentTypes        []model.ContentType `json:"content_types"`
	DifficultyLevel     Difficulty          `json:"difficulty_level"`
	LookingForExamples  bool                `json:"looking_for_examples"`
	LookingForDocs      bool                `json:"looking_for_docs"`
	Troubleshooting     bool                `json:"troubleshooting"`
	KeywordFilters      []string            `json:"keyword_filters,omitempty"`
	SemanticQuery       string              `json:"semantic_query"`
	Confidence          float64             `json:"confidence"`
	Refinements         []string            `json:"refinements,omitempty"`
}

// PrimaryContentType returns the highest-priority content type, or "" when
// the intent carries none.
func (i *Intent) PrimaryContentType() model.ContentType {
	if len(i.ContentTypes) == 0 {
		return ""
	}
	return i.ContentTypes[0]
}

// UserContext carries per-user personalization hints into analysis.
type UserContext struct {
	PreferredLanguages []string
	SkillLevel         Difficulty
}

// RepositoryContext carries hints from the targeted repository.
type RepositoryContext struct {
	RepositoryID    string
	PrimaryLanguage string
	FrameworkStack  []string
}
