package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scoutdb/codescout/internal/model"
	"github.com/scoutdb/codescout/internal/pkg/errcode"
	"github.com/scoutdb/codescout/internal/pkg/response"
	"github.com/scoutdb/codescout/internal/query"
	"github.com/scoutdb/codescout/internal/service"
)

type SearchHandler struct {
	vectors  *service.VectorService
	analyzer *query.Analyzer
}

func NewSearchHandler(vectors *service.VectorService) *SearchHandler {
	return &SearchHandler{vectors: vectors, analyzer: query.NewAnalyzer()}
}

type searchRequest struct {
	Query         string  `json:"query"`
	RepositoryID  string  `json:"repository_id"`
	ContentType   string  `json:"content_type"`
	MinImportance float64 `json:"min_importance"`
	Limit         int     `json:"limit"`
}

// Search runs a plain vector search against an explicit content class.
func (h *SearchHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	var contentType model.ContentType
	if req.ContentType != "" {
		ct, ok := model.ParseContentType(req.ContentType)
		if !ok {
			response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "unknown content_type")
			return
		}
		contentType = ct
	}
	matches, err := h.vectors.SearchDocuments(c.Request.Context(), &service.SearchRequest{
		UserID:        getUserID(c),
		Query:         req.Query,
		RepositoryID:  req.RepositoryID,
		ContentType:   contentType,
		MinImportance: req.MinImportance,
		Limit:         req.Limit,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"matches": matches})
}

type smartSearchRequest struct {
	Query              string   `json:"query"`
	RepositoryID       string   `json:"repository_id"`
	Limit              int      `json:"limit"`
	PreferredLanguages []string `json:"preferred_languages"`
	SkillLevel         string   `json:"skill_level"`
}

// SmartSearch analyzes the natural-language query first and searches with
// the derived intent. The intent is returned alongside the matches so
// clients can show why results look the way they do.
func (h *SearchHandler) SmartSearch(c *gin.Context) {
	var req smartSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	var userCtx *query.UserContext
	if len(req.PreferredLanguages) > 0 || req.SkillLevel != "" {
		userCtx = &query.UserContext{
			PreferredLanguages: req.PreferredLanguages,
			SkillLevel:         query.Difficulty(req.SkillLevel),
		}
	}
	intent, matches, err := h.vectors.SearchWithQuery(c.Request.Context(),
		getUserID(c), req.Query, req.RepositoryID, userCtx, nil, req.Limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"intent": intent, "matches": matches})
}

type analyzeRequest struct {
	Query              string   `json:"query"`
	PreferredLanguages []string `json:"preferred_languages"`
	SkillLevel         string   `json:"skill_level"`
	RepositoryLanguage string   `json:"repository_language"`
	FrameworkStack     []string `json:"framework_stack"`
}

// Analyze exposes the query analyzer on its own, no search performed.
func (h *SearchHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	var userCtx *query.UserContext
	if len(req.PreferredLanguages) > 0 || req.SkillLevel != "" {
		userCtx = &query.UserContext{
			PreferredLanguages: req.PreferredLanguages,
			SkillLevel:         query.Difficulty(req.SkillLevel),
		}
	}
	var repoCtx *query.RepositoryContext
	if req.RepositoryLanguage != "" || len(req.FrameworkStack) > 0 {
		repoCtx = &query.RepositoryContext{
			PrimaryLanguage: req.RepositoryLanguage,
			FrameworkStack:  req.FrameworkStack,
		}
	}
	intent := h.analyzer.Analyze(req.Query, userCtx, repoCtx)
	response.Success(c, intent)
}
