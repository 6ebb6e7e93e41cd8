package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scoutdb/codescout/internal/middleware"
)

type RouterDeps struct {
	Auth         *AuthHandler
	Repositories *RepositoryHandler
	Search       *SearchHandler
	Ingest       *IngestHandler
	Skills       *SkillHandler
	Shares       *ShareHandler
	JWTSecret    []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))

	authGroup.POST("/repositories", deps.Repositories.Create)
	authGroup.GET("/repositories", deps.Repositories.List)
	authGroup.GET("/repositories/:id", deps.Repositories.Get)
	authGroup.DELETE("/repositories/:id", deps.Repositories.Delete)
	authGroup.POST("/repositories/:id/share", deps.Shares.Create)

	authGroup.POST("/search", deps.Search.Search)
	authGroup.POST("/search/smart", deps.Search.SmartSearch)
	authGroup.POST("/query/analyze", deps.Search.Analyze)

	// Ingestion fans out to the embedding backend, keep it rate limited.
	ingestGroup := authGroup.Group("")
	ingestGroup.Use(middleware.RateLimit(2 * time.Second))
	ingestGroup.POST("/ingest", deps.Ingest.Ingest)
	ingestGroup.POST("/ingest/source", deps.Ingest.IngestFromSource)

	authGroup.POST("/skills", deps.Skills.Update)
	authGroup.POST("/skills/similar-users", deps.Skills.SimilarUsers)
	authGroup.GET("/skills/content", deps.Skills.PersonalizedContent)
}
