package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scoutdb/codescout/internal/ai"
	"github.com/scoutdb/codescout/internal/chunker"
	"github.com/scoutdb/codescout/internal/model"
	appErr "github.com/scoutdb/codescout/internal/pkg/errors"
	"github.com/scoutdb/codescout/internal/pkg/logutil"
	"github.com/scoutdb/codescout/internal/query"
	"github.com/scoutdb/codescout/internal/repo"
)

// Store interfaces let tests substitute fakes; the repo package provides
// the Postgres implementations.

type IChunkStore interface {
	SupersedeFile(ctx context.Context, repositoryID, filePath string, chunks []*model.DocumentChunk, modelName string) error
	Search(ctx context.Context, queryVec []float32, modelName string, filter repo.SearchFilter) ([]model.ChunkMatch, error)
}

type IAccessStore interface {
	HasAccess(ctx context.Context, userID, repositoryID string, required model.AccessLevel, now int64) (bool, error)
	Create(ctx context.Context, grant *model.AccessGrant) error
}

type IAuditStore interface {
	Append(ctx context.Context, entry *model.AccessLogEntry) error
}

type ISkillStore interface {
	Upsert(ctx context.Context, emb *model.SkillEmbedding, newEvidence int) error
	Get(ctx context.Context, userID, skillCategoryID string) (*model.SkillEmbedding, error)
	FindSimilar(ctx context.Context, userID, skillCategoryID string, queryVec []float32, minSimilarity float32, limit int) ([]model.SimilarUser, error)
}

type IContentStore interface {
	RankForEmbedding(ctx context.Context, skillCategoryID string, queryVec []float32, limit int) ([]model.RankedContent, error)
}

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 100

	// keywordOverfetchFactor widens the store fetch when quoted-keyword
	// filtering will discard ranked rows afterwards.
	keywordOverfetchFactor = 4
)

// VectorService is the authenticated facade over vector search and
// ingestion. Every operation checks access before touching embeddings or
// the store and appends an audit row whether or not it succeeded.
type VectorService struct {
	router   *ai.Router
	analyzer *query.Analyzer
	chunks   IChunkStore
	access   IAccessStore
	audit    IAuditStore
	skills   ISkillStore
	content  IContentStore
}

func NewVectorService(router *ai.Router, chunks IChunkStore, access IAccessStore,
	audit IAuditStore, skills ISkillStore, content IContentStore) *VectorService {
	return &VectorService{
		router:   router,
		analyzer: query.NewAnalyzer(),
		chunks:   chunks,
		access:   access,
		audit:    audit,
		skills:   skills,
		content:  content,
	}
}

type SearchRequest struct {
	UserID        string            `json:"user_id"`
	Query         string            `json:"query"`
	RepositoryID  string            `json:"repository_id,omitempty"`
	ContentType   model.ContentType `json:"content_type,omitempty"`
	MinImportance float64           `json:"min_importance,omitempty"`
	Limit         int               `json:"limit,omitempty"`
}

// SearchDocuments embeds the query with the model bound to the requested
// content class and ranks stored chunks by cosine similarity. If the
// request pins a repository the caller needs read access to it.
func (s *VectorService) SearchDocuments(ctx context.Context, req *SearchRequest) ([]model.ChunkMatch, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("query is required: %w", appErr.ErrInvalid)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	if req.RepositoryID != "" {
		ok, err := s.access.HasAccess(ctx, req.UserID, req.RepositoryID, model.AccessRead, time.Now().Unix())
		if err != nil {
			s.logAccess(ctx, req.UserID, "search", req.RepositoryID, false)
			return nil, fmt.Errorf("check access: %w: %v", appErr.ErrStore, err)
		}
		if !ok {
			s.logAccess(ctx, req.UserID, "search", req.RepositoryID, false)
			return nil, fmt.Errorf("read access to repository %s: %w", req.RepositoryID, appErr.ErrUnauthorized)
		}
	}

	embedder := s.router.ForContentType(req.ContentType)
	vec, err := embedder.Embed(ctx, req.Query, ai.TaskRetrievalQuery)
	if err != nil {
		s.logAccess(ctx, req.UserID, "search", req.RepositoryID, false)
		return nil, fmt.Errorf("embed query: %w: %v", appErr.ErrEmbedding, err)
	}

	matches, err := s.chunks.Search(ctx, vec, embedder.ModelName(), repo.SearchFilter{
		RepositoryID:  req.RepositoryID,
		ContentType:   req.ContentType,
		MinImportance: req.MinImportance,
		Limit:         limit,
	})
	if err != nil {
		s.logAccess(ctx, req.UserID, "search", req.RepositoryID, false)
		return nil, fmt.Errorf("search chunks: %w: %v", appErr.ErrStore, err)
	}
	s.logAccess(ctx, req.UserID, "search", req.RepositoryID, true)
	return matches, nil
}

// SearchWithQuery analyzes a natural-language query first and uses the
// intent to pick the content class, keyword filters and semantic text.
func (s *VectorService) SearchWithQuery(ctx context.Context, userID, rawQuery, repositoryID string,
	userCtx *query.UserContext, repoCtx *query.RepositoryContext, limit int) (query.Intent, []model.ChunkMatch, error) {
	intent := s.analyzer.Analyze(rawQuery, userCtx, repoCtx)
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	// Keyword filtering drops rows after ranking, so over-fetch to keep the
	// caller's limit reachable when many ranked chunks lack the quoted terms.
	fetch := limit
	if len(intent.KeywordFilters) > 0 {
		fetch = limit * keywordOverfetchFactor
		if fetch > maxSearchLimit {
			fetch = maxSearchLimit
		}
	}
	matches, err := s.SearchDocuments(ctx, &SearchRequest{
		UserID:       userID,
		Query:        intent.SemanticQuery,
		RepositoryID: repositoryID,
		ContentType:  intent.PrimaryContentType(),
		Limit:        fetch,
	})
	if err != nil {
		return intent, nil, err
	}
	if len(intent.KeywordFilters) > 0 {
		matches = filterByKeywords(matches, intent.KeywordFilters)
		if len(matches) > limit {
			matches = matches[:limit]
		}
	}
	return intent, matches, nil
}

// filterByKeywords keeps matches containing every quoted filter verbatim
// (case-insensitive). Applied after ranking so order is preserved.
func filterByKeywords(matches []model.ChunkMatch, keywords []string) []model.ChunkMatch {
	out := matches[:0]
	for _, m := range matches {
		content := strings.ToLower(m.Chunk.Content)
		keep := true
		for _, kw := range keywords {
			if !strings.Contains(content, strings.ToLower(kw)) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, m)
		}
	}
	return out
}

type EmbedResult struct {
	Processed int `json:"processed"`
	Embedded  int `json:"embedded"`
}

// EmbedRepositoryDocuments chunks, embeds and stores a batch of repository
// files. Write access is checked before any embedding work. Re-submitting a
// file supersedes its previous chunks instead of duplicating them.
func (s *VectorService) EmbedRepositoryDocuments(ctx context.Context, userID, repositoryID string, docs []model.Document) (*EmbedResult, error) {
	if len(docs) == 0 {
		return &EmbedResult{}, nil
	}
	ok, err := s.access.HasAccess(ctx, userID, repositoryID, model.AccessWrite, time.Now().Unix())
	if err != nil {
		s.logAccess(ctx, userID, "embed_documents", repositoryID, false)
		return nil, fmt.Errorf("check access: %w: %v", appErr.ErrStore, err)
	}
	if !ok {
		s.logAccess(ctx, userID, "embed_documents", repositoryID, false)
		return nil, fmt.Errorf("write access to repository %s: %w", repositoryID, appErr.ErrUnauthorized)
	}

	result := &EmbedResult{}
	now := time.Now().Unix()
	for _, doc := range docs {
		contentType := doc.ContentType
		if contentType == "" {
			contentType = model.ContentTypeCode
		}
		pieces := chunker.Split(doc.Content, chunker.DefaultMaxChunkLen)
		if len(pieces) == 0 {
			result.Processed++
			continue
		}
		embedder := s.router.ForContentType(contentType)
		vecs, err := embedder.EmbedBatch(ctx, embedInputs(pieces, contentType), ai.TaskRetrievalDocument)
		if err != nil {
			s.logAccess(ctx, userID, "embed_documents", repositoryID, false)
			return nil, fmt.Errorf("embed %s: %w: %v", doc.FilePath, appErr.ErrEmbedding, err)
		}
		importance := doc.Importance
		if importance == 0 {
			importance = 0.5
		}
		chunks := make([]*model.DocumentChunk, 0, len(pieces))
		for i, piece := range pieces {
			sum := sha256.Sum256([]byte(piece))
			chunks = append(chunks, &model.DocumentChunk{
				ID:           newID(),
				RepositoryID: repositoryID,
				FilePath:     doc.FilePath,
				Seq:          i,
				Content:      piece,
				ContentType:  contentType,
				Language:     doc.Language,
				Embedding:    vecs[i],
				Importance:   importance,
				IndexedBy:    userID,
				ContentHash:  hex.EncodeToString(sum[:]),
				Ctime:        now,
			})
		}
		if err := s.chunks.SupersedeFile(ctx, repositoryID, doc.FilePath, chunks, embedder.ModelName()); err != nil {
			s.logAccess(ctx, userID, "embed_documents", repositoryID, false)
			return nil, fmt.Errorf("store %s: %w: %v", doc.FilePath, appErr.ErrStore, err)
		}
		result.Processed++
		result.Embedded += len(chunks)
	}
	s.logAccess(ctx, userID, "embed_documents", repositoryID, true)
	logutil.GetLogger(ctx).Info("embedded repository documents",
		zap.String("repository_id", repositoryID),
		zap.Int("processed", result.Processed),
		zap.Int("embedded", result.Embedded))
	return result, nil
}

// embedInputs prepares chunk text for the embedding model. Markdown
// documentation is reduced to plaintext; stored chunk content stays raw.
func embedInputs(pieces []string, contentType model.ContentType) []string {
	if contentType != model.ContentTypeDocumentation {
		return pieces
	}
	out := make([]string, len(pieces))
	for i, p := range pieces {
		out[i] = ai.MarkdownPlaintext(p)
		if out[i] == "" {
			out[i] = p
		}
	}
	return out
}

// UpdateUserSkillEmbeddings folds new evidence into the user's vector for
// one skill category. The embedded text combines the evidence with a short
// synthesized learning-path description so the vector reflects trajectory,
// not just the latest sample.
func (s *VectorService) UpdateUserSkillEmbeddings(ctx context.Context, userID, skillCategoryID string, examples []string, skillLevel int) error {
	if len(examples) == 0 {
		return fmt.Errorf("examples are required: %w", appErr.ErrInvalid)
	}
	text := skillProfileText(skillCategoryID, examples, skillLevel)
	embedder := s.router.ForContentType(model.ContentTypeCode)
	vec, err := embedder.Embed(ctx, text, ai.TaskRetrievalDocument)
	if err != nil {
		s.logAccess(ctx, userID, "update_skills", "", false)
		return fmt.Errorf("embed skill profile: %w: %v", appErr.ErrEmbedding, err)
	}
	err = s.skills.Upsert(ctx, &model.SkillEmbedding{
		UserID:          userID,
		SkillCategoryID: skillCategoryID,
		Embedding:       vec,
		SkillLevel:      skillLevel,
		Mtime:           time.Now().Unix(),
	}, len(examples))
	if err != nil {
		s.logAccess(ctx, userID, "update_skills", "", false)
		return fmt.Errorf("upsert skill embedding: %w: %v", appErr.ErrStore, err)
	}
	s.logAccess(ctx, userID, "update_skills", "", true)
	return nil
}

func skillProfileText(skillCategoryID string, examples []string, skillLevel int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Skill area: %s. Proficiency level %d of 5.\n", skillCategoryID, skillLevel)
	sb.WriteString("Learning path: working through progressively harder material in this area.\n")
	sb.WriteString("Recent evidence:\n")
	for _, ex := range examples {
		sb.WriteString(ex)
		sb.WriteString("\n")
	}
	return sb.String()
}

// FindSimilarUsers returns other users whose skill vector in the category
// is close to the requester's. The requester is never in the result.
func (s *VectorService) FindSimilarUsers(ctx context.Context, userID, skillCategoryID string, minSimilarity float32, limit int) ([]model.SimilarUser, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	mine, err := s.skills.Get(ctx, userID, skillCategoryID)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, fmt.Errorf("no skill embedding for category %s: %w", skillCategoryID, appErr.ErrNotFound)
		}
		return nil, fmt.Errorf("load skill embedding: %w: %v", appErr.ErrStore, err)
	}
	users, err := s.skills.FindSimilar(ctx, userID, skillCategoryID, mine.Embedding, minSimilarity, limit)
	if err != nil {
		return nil, fmt.Errorf("find similar users: %w: %v", appErr.ErrStore, err)
	}
	return users, nil
}

// GetPersonalizedContent ranks learning content in a category against the
// user's own skill vector.
func (s *VectorService) GetPersonalizedContent(ctx context.Context, userID, skillCategoryID string, limit int) ([]model.RankedContent, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	mine, err := s.skills.Get(ctx, userID, skillCategoryID)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, fmt.Errorf("no skill embedding for category %s: %w", skillCategoryID, appErr.ErrNotFound)
		}
		return nil, fmt.Errorf("load skill embedding: %w: %v", appErr.ErrStore, err)
	}
	ranked, err := s.content.RankForEmbedding(ctx, skillCategoryID, mine.Embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("rank content: %w: %v", appErr.ErrStore, err)
	}
	return ranked, nil
}

type ShareRequest struct {
	RepositoryID  string `json:"repository_id"`
	GranteeUserID string `json:"grantee_user_id,omitempty"`
	GranteeOrgID  string `json:"grantee_org_id,omitempty"`
	AccessType    string `json:"access_type"`
	ExpiresAt     int64  `json:"expires_at,omitempty"`
}

// ShareRepositoryAccess grants a user or an organization a level on the
// repository. Only callers with admin on the repository may share it.
func (s *VectorService) ShareRepositoryAccess(ctx context.Context, grantorID string, req *ShareRequest) (*model.AccessGrant, error) {
	if (req.GranteeUserID == "") == (req.GranteeOrgID == "") {
		return nil, fmt.Errorf("exactly one of grantee_user_id / grantee_org_id: %w", appErr.ErrInvalid)
	}
	level, ok := model.ParseAccessLevel(req.AccessType)
	if !ok {
		return nil, fmt.Errorf("unknown access_type %q: %w", req.AccessType, appErr.ErrInvalid)
	}
	now := time.Now().Unix()
	if req.ExpiresAt != 0 && req.ExpiresAt <= now {
		return nil, fmt.Errorf("expires_at is in the past: %w", appErr.ErrInvalid)
	}

	allowed, err := s.access.HasAccess(ctx, grantorID, req.RepositoryID, model.AccessAdmin, now)
	if err != nil {
		s.logAccess(ctx, grantorID, "share", req.RepositoryID, false)
		return nil, fmt.Errorf("check access: %w: %v", appErr.ErrStore, err)
	}
	if !allowed {
		s.logAccess(ctx, grantorID, "share", req.RepositoryID, false)
		return nil, fmt.Errorf("admin access to repository %s: %w", req.RepositoryID, appErr.ErrUnauthorized)
	}

	grant := &model.AccessGrant{
		ID:            newID(),
		RepositoryID:  req.RepositoryID,
		GranteeUserID: req.GranteeUserID,
		GranteeOrgID:  req.GranteeOrgID,
		AccessType:    level,
		GrantedBy:     grantorID,
		ExpiresAt:     req.ExpiresAt,
		Ctime:         now,
	}
	if err := s.access.Create(ctx, grant); err != nil {
		s.logAccess(ctx, grantorID, "share", req.RepositoryID, false)
		if appErr.IsConflict(err) {
			return nil, fmt.Errorf("grant already exists: %w", appErr.ErrConflict)
		}
		return nil, fmt.Errorf("create grant: %w: %v", appErr.ErrStore, err)
	}
	s.logAccess(ctx, grantorID, "share", req.RepositoryID, true)
	return grant, nil
}

// logAccess appends an audit row. Best effort: a failed audit write is
// logged and never masks the operation's own result.
func (s *VectorService) logAccess(ctx context.Context, userID, operation, repositoryID string, succeeded bool) {
	err := s.audit.Append(ctx, &model.AccessLogEntry{
		UserID:       userID,
		Operation:    operation,
		RepositoryID: repositoryID,
		Succeeded:    succeeded,
		Ts:           time.Now().Unix(),
	})
	if err != nil {
		logutil.GetLogger(ctx).Warn("failed to append access log",
			zap.String("operation", operation), zap.Error(err))
	}
}
