package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scoutdb/codescout/internal/docsource"
	"github.com/scoutdb/codescout/internal/model"
	"github.com/scoutdb/codescout/internal/pkg/errcode"
	"github.com/scoutdb/codescout/internal/pkg/response"
	"github.com/scoutdb/codescout/internal/service"
)

const maxIngestDocuments = 200

type IngestHandler struct {
	vectors *service.VectorService
	source  docsource.ISource
}

func NewIngestHandler(vectors *service.VectorService, source docsource.ISource) *IngestHandler {
	return &IngestHandler{vectors: vectors, source: source}
}

type ingestRequest struct {
	RepositoryID string           `json:"repository_id"`
	Documents    []model.Document `json:"documents"`
}

// Ingest embeds documents supplied inline in the request body.
func (h *IngestHandler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.RepositoryID == "" || len(req.Documents) == 0 {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "repository_id and documents are required")
		return
	}
	if len(req.Documents) > maxIngestDocuments {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "too many documents in one request")
		return
	}
	for i := range req.Documents {
		if req.Documents[i].ContentType != "" {
			if _, ok := model.ParseContentType(string(req.Documents[i].ContentType)); !ok {
				response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "unknown content_type")
				return
			}
		}
	}
	result, err := h.vectors.EmbedRepositoryDocuments(c.Request.Context(), getUserID(c), req.RepositoryID, req.Documents)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

type ingestFromSourceRequest struct {
	RepositoryID string `json:"repository_id"`
	Prefix       string `json:"prefix"`
}

// IngestFromSource pulls files from the configured document source (local
// directory or S3 bucket) and embeds them.
func (h *IngestHandler) IngestFromSource(c *gin.Context) {
	if h.source == nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "no document source configured")
		return
	}
	var req ingestFromSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.RepositoryID == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "repository_id is required")
		return
	}
	docs, err := h.source.Fetch(c.Request.Context(), req.Prefix)
	if err != nil {
		handleError(c, err)
		return
	}
	result, err := h.vectors.EmbedRepositoryDocuments(c.Request.Context(), getUserID(c), req.RepositoryID, docs)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}
