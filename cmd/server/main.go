// @title           Newsroom API
// @version         1.0
// @description     News publishing platform: articles, categories and reporter accounts.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/essentialtimes/newsroom/internal/api"
	"github.com/essentialtimes/newsroom/internal/core/domain"
	"github.com/essentialtimes/newsroom/internal/core/ports"
	"github.com/essentialtimes/newsroom/internal/core/service"
	"github.com/essentialtimes/newsroom/internal/infrastructure/config"
	mongodb "github.com/essentialtimes/newsroom/internal/infrastructure/db/mongo"
	redisdb "github.com/essentialtimes/newsroom/internal/infrastructure/db/redis"
	"github.com/essentialtimes/newsroom/internal/infrastructure/http/handlers"
	"github.com/essentialtimes/newsroom/internal/infrastructure/queue"
	"github.com/essentialtimes/newsroom/internal/infrastructure/storage"
	"github.com/essentialtimes/newsroom/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Pretty: true, Service: "newsroom"})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "newsroom",
	})

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	// --- Redis (optional) ---
	var (
		cache  ports.CategoryCache
		pinger handlers.RedisPinger
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, category cache disabled")
		} else {
			defer rdb.Close()
			cache = redisdb.NewCategoryCache(rdb, cfg.Redis.CategoryTTL)
			pinger = rdb
		}
	}

	// --- Repositories & storage ---
	users := mongodb.NewUserRepository(db)
	categories := mongodb.NewCategoryRepository(db)
	articles := mongodb.NewArticleRepository(db)

	images, err := storage.NewLocalStore(cfg.Uploads.Dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Uploads.Dir).Msg("failed to prepare upload directory")
	}

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	janitor := queue.NewJanitor(cfg.Uploads.CleanupWorkers, images, logger.Component("janitor"))
	janitor.Start(janitorCtx)

	// --- Services ---
	authService := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))
	categoryService := service.NewCategoryService(categories, cache, logger.Component("categories"))
	articleService := service.NewArticleService(service.ArticleDeps{
		Articles:      articles,
		Categories:    categories,
		Users:         users,
		Images:        images,
		Janitor:       janitor,
		MaxImageBytes: cfg.Uploads.MaxBytes,
	}, logger.Component("articles"))

	seeder := service.NewSeeder(users, categories, logger.Component("seed"))
	if err := seeder.Run(ctx, []service.SeedAccount{
		{Email: cfg.Seed.ReporterEmail, Password: cfg.Seed.ReporterPassword, Name: "기자", Role: domain.RoleReporter},
		{Email: cfg.Seed.AdminEmail, Password: cfg.Seed.AdminPassword, Name: "관리자", Role: domain.RoleAdmin},
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to seed initial data")
	}

	e := api.NewRouter(api.Deps{
		Auth:           authService,
		Articles:       articleService,
		Categories:     categoryService,
		Health:         handlers.NewHealthHandler(),
		Readiness:      handlers.NewHealthDependenciesHandler(client, pinger),
		UploadDir:      images.Dir(),
		ClientDir:      cfg.ClientBuildDir,
		MaxUploadBytes: cfg.Uploads.MaxBytes,
		Log:            logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	stopJanitor()
	janitor.Wait()
	log.Info().Msg("server stopped")
}
