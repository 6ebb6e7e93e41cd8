package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scoutdb/codescout/internal/pkg/errcode"
	"github.com/scoutdb/codescout/internal/pkg/response"
	"github.com/scoutdb/codescout/internal/service"
)

type SkillHandler struct {
	vectors *service.VectorService
}

func NewSkillHandler(vectors *service.VectorService) *SkillHandler {
	return &SkillHandler{vectors: vectors}
}

type updateSkillsRequest struct {
	SkillCategoryID string   `json:"skill_category_id"`
	Examples        []string `json:"examples"`
	SkillLevel      int      `json:"skill_level"`
}

func (h *SkillHandler) Update(c *gin.Context) {
	var req updateSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.SkillCategoryID == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "skill_category_id is required")
		return
	}
	if req.SkillLevel < 1 || req.SkillLevel > 5 {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "skill_level must be between 1 and 5")
		return
	}
	err := h.vectors.UpdateUserSkillEmbeddings(c.Request.Context(), getUserID(c),
		req.SkillCategoryID, req.Examples, req.SkillLevel)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, nil)
}

type similarUsersRequest struct {
	SkillCategoryID string  `json:"skill_category_id"`
	MinSimilarity   float32 `json:"min_similarity"`
	Limit           int     `json:"limit"`
}

func (h *SkillHandler) SimilarUsers(c *gin.Context) {
	var req similarUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	users, err := h.vectors.FindSimilarUsers(c.Request.Context(), getUserID(c),
		req.SkillCategoryID, req.MinSimilarity, req.Limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"users": users})
}

func (h *SkillHandler) PersonalizedContent(c *gin.Context) {
	categoryID := c.Query("skill_category_id")
	if categoryID == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "skill_category_id is required")
		return
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid limit")
			return
		}
		limit = n
	}
	content, err := h.vectors.GetPersonalizedContent(c.Request.Context(), getUserID(c), categoryID, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"content": content})
}
