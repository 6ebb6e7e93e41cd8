package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scoutdb/codescout/internal/ai"
	"github.com/scoutdb/codescout/internal/config"
	"github.com/scoutdb/codescout/internal/db"
	"github.com/scoutdb/codescout/internal/docsource"
	"github.com/scoutdb/codescout/internal/embedcache"
	"github.com/scoutdb/codescout/internal/handler"
	"github.com/scoutdb/codescout/internal/job"
	"github.com/scoutdb/codescout/internal/middleware"
	"github.com/scoutdb/codescout/internal/model"
	"github.com/scoutdb/codescout/internal/pkg/logutil"
	"github.com/scoutdb/codescout/internal/repo"
	"github.com/scoutdb/codescout/internal/schedule"
	"github.com/scoutdb/codescout/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "codescout",
		Short: "codescout code search backend",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run codescout server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := logutil.Init(cfg.Log.Level, cfg.Log.Console); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info("starting server",
		zap.Int("port", cfg.Server.Port),
		zap.String("general_model", cfg.AI.General.Model),
		zap.String("code_model", cfg.AI.Code.Model),
		zap.String("docs_model", cfg.AI.Docs.Model),
	)

	userRepo := repo.NewUserRepo(conn)
	repositoryRepo := repo.NewRepositoryRepo(conn)
	chunkRepo := repo.NewChunkRepo(conn)
	grantRepo := repo.NewGrantRepo(conn)
	auditRepo := repo.NewAuditRepo(conn)
	skillRepo := repo.NewSkillRepo(conn)
	contentRepo := repo.NewContentRepo(conn)
	cacheRepo := repo.NewEmbeddingCacheRepo(conn)

	router, err := buildEmbedderRouter(cfg.AI, cacheRepo)
	if err != nil {
		return fmt.Errorf("init embedders: %w", err)
	}

	authService := service.NewAuthService(userRepo, []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTL))
	repositoryService := service.NewRepositoryService(repositoryRepo, chunkRepo, grantRepo)
	vectorService := service.NewVectorService(router, chunkRepo, grantRepo, auditRepo, skillRepo, contentRepo)

	var source docsource.ISource
	if cfg.Source.Type != "" {
		source, err = docsource.New(cfg.Source)
		if err != nil {
			return fmt.Errorf("init document source: %w", err)
		}
	}

	deps := handler.RouterDeps{
		Auth:         handler.NewAuthHandler(authService),
		Repositories: handler.NewRepositoryHandler(repositoryService),
		Search:       handler.NewSearchHandler(vectorService),
		Ingest:       handler.NewIngestHandler(vectorService, source),
		Skills:       handler.NewSkillHandler(vectorService),
		Shares:       handler.NewShareHandler(vectorService),
		JWTSecret:    []byte(cfg.JWTSecret),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLog())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	handler.RegisterRoutes(engine.Group("/api/v1"), deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewReembedJob(chunkRepo, router, cfg.Jobs.ReembedBatch), cfg.Jobs.ReembedCron); err != nil {
		return err
	}
	if err := scheduler.AddJob(job.NewCacheCleanupJob(cacheRepo, cfg.Jobs.CacheRetentionDays), cfg.Jobs.CacheCleanupCron); err != nil {
		return err
	}
	if err := scheduler.AddJob(job.NewGrantCleanupJob(grantRepo), cfg.Jobs.GrantCleanupCron); err != nil {
		return err
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildEmbedderRouter constructs one embedder per content class: provider,
// wrapped by the Postgres cache, wrapped by the in-process LRU. Classes
// sharing a provider+model+dimension share the embedder instance.
func buildEmbedderRouter(cfg config.AIConfig, cacheRepo *repo.EmbeddingCacheRepo) (*ai.Router, error) {
	providers := map[string]ai.IEmbedProvider{}
	for name, args := range cfg.Providers {
		provider, err := ai.NewProvider(name, args)
		if err != nil {
			return nil, err
		}
		providers[name] = provider
	}
	ttl := time.Duration(cfg.CacheTTL) * time.Minute

	built := map[string]ai.IEmbedder{}
	build := func(mc config.ModelConfig) (ai.IEmbedder, error) {
		names := append([]string{mc.Provider}, mc.FallbackProviders...)
		key := fmt.Sprintf("%s|%s|%d", strings.Join(names, ","), mc.Model, mc.Dimension)
		if e, ok := built[key]; ok {
			return e, nil
		}
		entries := make([]ai.EmbedderEntry, 0, len(names))
		for _, name := range names {
			provider, ok := providers[name]
			if !ok {
				return nil, fmt.Errorf("model %s references unconfigured provider %s", mc.Model, name)
			}
			entries = append(entries, ai.EmbedderEntry{
				Name:     name,
				Embedder: ai.NewEmbedder(provider, mc.Model, mc.Dimension),
			})
		}
		e := entries[0].Embedder
		if len(entries) > 1 {
			e = ai.NewGroupEmbedder(entries)
		}
		e = embedcache.WrapDBCacheToEmbedder(e, cacheRepo)
		e = embedcache.WrapLruCacheToEmbedder(e, cfg.CacheSize, ttl)
		built[key] = e
		return e, nil
	}

	general, err := build(cfg.General)
	if err != nil {
		return nil, err
	}
	code, err := build(cfg.Code)
	if err != nil {
		return nil, err
	}
	docs, err := build(cfg.Docs)
	if err != nil {
		return nil, err
	}
	router := ai.NewRouter(general)
	router.Bind(model.ContentTypeCode, code)
	router.Bind(model.ContentTypeExample, code)
	router.Bind(model.ContentTypeConfig, code)
	router.Bind(model.ContentTypeDocumentation, docs)
	return router, nil
}
