package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scoutdb/codescout/internal/pkg/errcode"
	"github.com/scoutdb/codescout/internal/pkg/response"
	"github.com/scoutdb/codescout/internal/service"
)

type RepositoryHandler struct {
	repositories *service.RepositoryService
}

func NewRepositoryHandler(repositories *service.RepositoryService) *RepositoryHandler {
	return &RepositoryHandler{repositories: repositories}
}

type createRepositoryRequest struct {
	Name            string `json:"name"`
	PrimaryLanguage string `json:"primary_language"`
}

func (h *RepositoryHandler) Create(c *gin.Context) {
	var req createRepositoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	repo, err := h.repositories.Create(c.Request.Context(), getUserID(c), req.Name, req.PrimaryLanguage)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, repo)
}

func (h *RepositoryHandler) Get(c *gin.Context) {
	repo, err := h.repositories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, repo)
}

func (h *RepositoryHandler) Delete(c *gin.Context) {
	if err := h.repositories.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func (h *RepositoryHandler) List(c *gin.Context) {
	repos, err := h.repositories.ListMine(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"repositories": repos})
}
