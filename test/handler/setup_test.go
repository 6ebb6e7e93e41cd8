package handler_test

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scoutdb/codescout/internal/ai"
	"github.com/scoutdb/codescout/internal/handler"
	"github.com/scoutdb/codescout/internal/repo"
	"github.com/scoutdb/codescout/internal/service"
	"github.com/scoutdb/codescout/test/testutil"
)

var jwtSecret = []byte("test-secret")

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (stubEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (stubEmbedder) ModelName() string { return "stub-model" }
func (stubEmbedder) Dimension() int    { return 3 }

func setupRouter(t *testing.T) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, cleanup := testutil.OpenTestDB(t)

	userRepo := repo.NewUserRepo(db)
	repositoryRepo := repo.NewRepositoryRepo(db)
	chunkRepo := repo.NewChunkRepo(db)
	grantRepo := repo.NewGrantRepo(db)
	auditRepo := repo.NewAuditRepo(db)
	skillRepo := repo.NewSkillRepo(db)
	contentRepo := repo.NewContentRepo(db)

	router := ai.NewRouter(stubEmbedder{})
	authService := service.NewAuthService(userRepo, jwtSecret, time.Hour)
	repositoryService := service.NewRepositoryService(repositoryRepo, chunkRepo, grantRepo)
	vectorService := service.NewVectorService(router, chunkRepo, grantRepo, auditRepo, skillRepo, contentRepo)

	engine := gin.New()
	handler.RegisterRoutes(engine.Group("/api/v1"), handler.RouterDeps{
		Auth:         handler.NewAuthHandler(authService),
		Repositories: handler.NewRepositoryHandler(repositoryService),
		Search:       handler.NewSearchHandler(vectorService),
		Ingest:       handler.NewIngestHandler(vectorService, nil),
		Skills:       handler.NewSkillHandler(vectorService),
		Shares:       handler.NewShareHandler(vectorService),
		JWTSecret:    jwtSecret,
	})
	return engine, cleanup
}
