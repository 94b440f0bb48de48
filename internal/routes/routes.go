package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-desk/internal/authz"
	"repair-desk/internal/backend"
	"repair-desk/internal/controllers"
	"repair-desk/internal/querycache"
	"repair-desk/internal/repositories"
	"repair-desk/internal/services"
	"repair-desk/pkg/config"
	"repair-desk/pkg/eventbus"
	"repair-desk/pkg/metrics"
	"repair-desk/pkg/middleware"
	"repair-desk/pkg/service"
	"repair-desk/pkg/websocket"
)

type Loggers struct {
	Main     *zap.Logger
	Requests *zap.Logger
	Admin    *zap.Logger
	User     *zap.Logger
	Cache    *zap.Logger
	Gate     *zap.Logger
	Socket   *zap.Logger
}

// Deps are the long-lived components built by main.
type Deps struct {
	Actor backend.Actor
	Store repositories.CacheRepositoryInterface
	Bus   *eventbus.Bus
	Hub   *websocket.Hub
	JWT   service.JWTService
}

func InitRouter(e *echo.Echo, deps Deps, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: building routes")

	authMW := middleware.NewAuthMiddleware(deps.JWT, loggers.Main)
	cache := querycache.New(deps.Store, deps.Actor.Session(), cfg.Cache.ReadyWait, loggers.Cache,
		querycache.WithFetchTimeout(cfg.Backend.RequestTimeout+cfg.Backend.ReadRetryWindow),
		querycache.WithEpochTTL(cfg.Cache.LongestTTL()),
	)

	// --- repositories ---
	requestRepo := repositories.NewServiceRequestRepository(deps.Actor, loggers.Requests)
	userRepo := repositories.NewUserRepository(deps.Actor, loggers.User)

	// --- services ---
	requestService := services.NewServiceRequestService(requestRepo, cache, deps.Bus, cfg.Cache, loggers.Requests)
	userService := services.NewUserService(userRepo, cache, deps.Bus, cfg.Cache, loggers.User)
	gate := authz.NewGatekeeper(authz.TokenIdentity{}, userService, loggers.Gate)

	// --- controllers ---
	timeout := cfg.Backend.RequestTimeout
	catalogController := controllers.NewCatalogController(loggers.Main)
	requestController := controllers.NewServiceRequestController(requestService, timeout, loggers.Requests)
	reportController := controllers.NewReportController(loggers.Admin)
	adminController := controllers.NewAdminController(requestService, userService, reportController, timeout, loggers.Admin)
	userController := controllers.NewUserController(userService, gate, deps.JWT, timeout, loggers.User)
	wsController := controllers.NewWebSocketController(deps.Hub, deps.JWT, loggers.Socket)
	healthController := controllers.NewHealthController(deps.Actor.Session(), deps.Hub)

	// --- routers ---
	e.GET("/healthz", healthController.Health)
	e.GET("/metrics", metrics.Handler())
	e.GET("/ws", wsController.ServeWs)

	identified := e.Group("", authMW.Identity)
	runPublicRouter(identified, catalogController, requestController)
	runUserRouter(identified, userController, cfg.Backend.Mode == config.BackendModeMemory)

	adminGroup := identified.Group("/admin", authz.AdminRouteGuard(gate, loggers.Gate))
	runAdminRouter(adminGroup, adminController)

	loggers.Main.Info("InitRouter: routes ready")
}
