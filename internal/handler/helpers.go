package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/scoutdb/codescout/internal/middleware"
	"github.com/scoutdb/codescout/internal/pkg/errcode"
	appErr "github.com/scoutdb/codescout/internal/pkg/errors"
	"github.com/scoutdb/codescout/internal/pkg/logutil"
	"github.com/scoutdb/codescout/internal/pkg/response"
)

func getUserID(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextUserIDKey)
	userID, _ := value.(string)
	return userID
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Warn("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("user_id", getUserID(c)),
		zap.Error(err),
	)
	switch {
	case appErr.IsUnauthorized(err):
		response.Error(c, http.StatusForbidden, errcode.ErrForbidden, "access denied")
	case appErr.IsNotFound(err):
		response.Error(c, http.StatusNotFound, errcode.ErrNotFound, "not found")
	case appErr.IsConflict(err):
		response.Error(c, http.StatusConflict, errcode.ErrConflict, "conflict")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, err.Error())
	case appErr.IsEmbedding(err):
		response.Error(c, http.StatusBadGateway, errcode.ErrEmbeddingFailed, "embedding failed")
	case appErr.IsStore(err):
		response.Error(c, http.StatusInternalServerError, errcode.ErrStoreFailed, "storage error")
	default:
		response.Error(c, http.StatusInternalServerError, errcode.ErrInternal, "internal error")
	}
}
