package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scoutdb/codescout/internal/pkg/errcode"
	"github.com/scoutdb/codescout/internal/pkg/response"
	"github.com/scoutdb/codescout/internal/service"
)

type ShareHandler struct {
	vectors *service.VectorService
}

func NewShareHandler(vectors *service.VectorService) *ShareHandler {
	return &ShareHandler{vectors: vectors}
}

type shareRequest struct {
	GranteeUserID string `json:"grantee_user_id"`
	GranteeOrgID  string `json:"grantee_org_id"`
	AccessType    string `json:"access_type"`
	ExpiresAt     int64  `json:"expires_at"`
}

func (h *ShareHandler) Create(c *gin.Context) {
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	grant, err := h.vectors.ShareRepositoryAccess(c.Request.Context(), getUserID(c), &service.ShareRequest{
		RepositoryID:  c.Param("id"),
		GranteeUserID: req.GranteeUserID,
		GranteeOrgID:  req.GranteeOrgID,
		AccessType:    req.AccessType,
		ExpiresAt:     req.ExpiresAt,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, grant)
}
