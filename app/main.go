package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"repair-desk/internal/backend"
	"repair-desk/internal/backend/memory"
	"repair-desk/internal/backend/rpc"
	"repair-desk/internal/entities"
	"repair-desk/internal/listeners"
	"repair-desk/internal/repositories"
	"repair-desk/internal/routes"
	"repair-desk/pkg/api"
	"repair-desk/pkg/config"
	apperrors "repair-desk/pkg/errors"
	"repair-desk/pkg/eventbus"
	applogger "repair-desk/pkg/logger"
	"repair-desk/pkg/middleware"
	"repair-desk/pkg/service"
	"repair-desk/pkg/validation"
	"repair-desk/pkg/websocket"
	"repair-desk/seeders"
)

// demoSeeder is the admin used for seeding when no admin principal is configured.
const demoSeeder = "demo-seeder"

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()

	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Internal server error", err, nil)
				_ = api.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Disposition", "Retry-After"},
	}))
	e.Use(middleware.InjectLogger(logger))
	e.Use(middleware.RequestLogger(logger.Named("http")))

	actor := newActor(ctx, cfg, logger)
	store := newCacheStore(ctx, cfg, logger)

	bus := eventbus.New(logger.Named("eventbus"))
	hub := websocket.NewHub(logger.Named("websocket"))
	go hub.Run(ctx)
	listeners.NewInvalidationListener(hub, logger.Named("listeners")).Register(bus)

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.TokenTTL)

	routes.InitRouter(e, routes.Deps{
		Actor: actor,
		Store: store,
		Bus:   bus,
		Hub:   hub,
		JWT:   jwtSvc,
	}, &routes.Loggers{
		Main:     logger,
		Requests: logger.Named("requests"),
		Admin:    logger.Named("admin"),
		User:     logger.Named("user"),
		Cache:    logger.Named("querycache"),
		Gate:     logger.Named("gate"),
		Socket:   logger.Named("websocket"),
	}, cfg)

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("backend", cfg.Backend.Mode))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	bus.Wait()
}

// newActor returns the backend. The rpc session is established in the
// background; until then reads wait and then answer "not ready".
func newActor(ctx context.Context, cfg *config.Config, logger *zap.Logger) backend.Actor {
	if cfg.Backend.Mode == config.BackendModeRPC {
		client := rpc.New(cfg.Backend.URL, cfg.Backend.RequestTimeout, cfg.Backend.ReadRetryWindow, logger)
		go func() {
			if err := client.Connect(ctx); err != nil {
				logger.Error("backend session not established", zap.Error(err))
			}
		}()
		return client
	}

	admins := cfg.Backend.AdminPrincipals
	if cfg.Backend.SeedDemo && len(admins) == 0 {
		admins = []string{demoSeeder}
	}
	actor, err := memory.New(logger, memory.WithAdmins(admins...))
	if err != nil {
		logger.Fatal("memory backend", zap.Error(err))
	}
	if cfg.Backend.SeedDemo {
		admin := entities.Caller{Principal: entities.Principal(admins[0])}
		if _, err := seeders.SeedDemo(ctx, actor, admin, logger.Named("seeders")); err != nil {
			logger.Error("demo seeding failed", zap.Error(err))
		}
	}
	return actor
}

func newCacheStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) repositories.CacheRepositoryInterface {
	if cfg.Cache.Store != config.CacheStoreRedis {
		return repositories.NewMemoryCacheRepository()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		logger.Fatal("redis unreachable", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}
	return repositories.NewRedisCacheRepository(client, "repair-desk:")
}
