package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/winkingcatstudios/video-streaming-backend/internal/api/http"
	"github.com/winkingcatstudios/video-streaming-backend/internal/api/http/handlers"
	"github.com/winkingcatstudios/video-streaming-backend/internal/auth"
	"github.com/winkingcatstudios/video-streaming-backend/internal/config"
	"github.com/winkingcatstudios/video-streaming-backend/internal/events"
	"github.com/winkingcatstudios/video-streaming-backend/internal/observability"
	"github.com/winkingcatstudios/video-streaming-backend/internal/persistence"
	"github.com/winkingcatstudios/video-streaming-backend/internal/repository"
	"github.com/winkingcatstudios/video-streaming-backend/internal/service"
	"github.com/winkingcatstudios/video-streaming-backend/internal/storage"
	"github.com/winkingcatstudios/video-streaming-backend/internal/validation"
	"github.com/winkingcatstudios/video-streaming-backend/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("AUTH_JWT_SECRET is empty; token issuance will fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, cfg.Postgres.DSN, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	images, err := storage.NewLocalStore(cfg.Uploads.Dir, cfg.Uploads.URLPrefix)
	if err != nil {
		logger.Fatal("failed to prepare upload dir", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	cleanup := worker.NewCleanupWorker(images, logger, 64)
	cleanup.Register(dispatcher)
	cleanup.Start(ctx)
	worker.StartAuditWorker(dispatcher, logger)

	userRepo := repository.NewUserRepository(pg.Pool)
	listRepo := repository.NewListRepository(pg.Pool)
	videoRepo := repository.NewVideoRepository(pg.Pool)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authDeps := service.AuthDependencies{
		UserRepo:   userRepo,
		Tokens:     tokens,
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     logger,
	}
	var redisPinger handlers.Pinger
	if redis != nil {
		authDeps.Limiter = auth.NewRedisLoginLimiter(redis.Client, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)
		redisPinger = redis
	}
	authService := service.NewAuthService(authDeps)
	userService := service.NewUserService(userRepo, dispatcher, logger)
	listService := service.NewListService(listRepo, dispatcher, logger)
	videoService := service.NewVideoService(videoRepo, dispatcher, logger)

	if cfg.Auth.AdminEmail != "" {
		if err := userService.PromoteAdmin(ctx, cfg.Auth.AdminEmail); err != nil {
			logger.Warn("admin bootstrap skipped", zap.String("email", cfg.Auth.AdminEmail), zap.Error(err))
		}
	}

	metrics := observability.NewMetrics()
	validator := validation.New()

	app := httptransport.NewApp(cfg.App.Name, cfg.App.BodyLimitBytes, httptransport.ErrorHandler(logger))
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareOptions{
		Timeout:      cfg.App.RequestTimeout(),
		RateLimitRPM: cfg.RateLimit.RequestsPerMinute,
		Dispatcher:   dispatcher,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisPinger, metrics),
		Lists:          handlers.NewListsHandler(listService, validator),
		Videos:         handlers.NewVideosHandler(videoService, validator, images),
		Users:          handlers.NewUsersHandler(authService, userService, validator, images),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		UploadsDir:     images.Dir(),
		UploadsPrefix:  images.URLPrefix(),
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	cleanup.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
