package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"microchat/internal/cache"
	"microchat/internal/config"
	"microchat/internal/database"
	handlers "microchat/internal/handler"
	"microchat/internal/middleware"
	"microchat/internal/repository"
	"microchat/internal/service"
	"microchat/internal/storage"
)

type App struct {
	Cfg      *config.Config
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service
	redis    *redis.Client
}

// New connects to every backend and builds the services. MinIO and Redis
// are optional and skipped when not configured.
func New(ctx context.Context, cfg *config.Config, migrate bool) (*App, error) {
	// connection DB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}

	if migrate {
		if err := db.RunMigrations(); err != nil {
			db.CloseDB()
			return nil, err
		}
	}

	a := &App{Cfg: cfg, DB: db}

	// connection MinIO; an interface holding a nil *MinIOClient would not be nil
	var objectStorage storage.Storage
	if cfg.MinIO.Enabled {
		minioClient, err := storage.NewMinIOClient(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("не удалось инициализировать MinIO: %w", err)
		}
		objectStorage = minioClient
	} else {
		slog.Info("MinIO не настроен, изображения хранятся только в БД")
	}

	var feedCache service.FeedCache
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		feedCache = cache.NewFeedCache(client, cfg.Redis.FeedCacheTTL)
	} else {
		slog.Info("Redis не настроен, кэш ленты отключен")
	}

	// enabling dependencies
	a.Repo = repository.NewRepository(db.DB)
	a.Services = service.NewService(a.Repo, a.Repo, cfg, objectStorage, feedCache)

	return a, nil
}

// Handler builds the router with the full middleware stack.
func (a *App) Handler() http.Handler {
	return NewRouter(handlers.NewHandlers(a.Services, a.Cfg), a.Services)
}

func NewRouter(h *handlers.Handlers, services *service.Service) http.Handler {
	router := mux.NewRouter()
	h.RegisterRoutes(router)

	// route-aware middleware runs after matching
	router.Use(
		mux.MiddlewareFunc(middleware.MetricsMiddleware),
		mux.MiddlewareFunc(middleware.AuthMiddleware(services.Auth, handlers.PublicPaths)),
		mux.MiddlewareFunc(middleware.LastSeenMiddleware(services.User)),
	)

	return middleware.Chain(
		router,
		middleware.RecoveryMiddleware,
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware,
	)
}

// Serve runs the HTTP server until ctx is cancelled, then drains it.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Cfg.ServerPort),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("сервер запущен", "addr", srv.Addr, "db", a.Cfg.DB.DbNAME)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка запуска сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("останавливаем сервер")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Warn("ошибка закрытия Redis", "error", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.CloseDB(); err != nil {
			slog.Warn("ошибка закрытия БД", "error", err)
		}
	}
}
