package web

import (
	"smartoffice/auth"
	"smartoffice/internal/automation"
	"smartoffice/internal/db"
	"smartoffice/internal/insights"
	"smartoffice/internal/simulator"
	"smartoffice/internal/storage"
	"smartoffice/internal/web/api"
	"smartoffice/internal/web/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type WebServer struct {
	router *gin.Engine
}

func NewWebServer(
	redisClient *redis.Client,
	dbConn *db.DB,
	store *storage.Store,
	ruleStore *automation.Store,
	engine *automation.Engine,
	sim *simulator.Simulator,
	analyzer *insights.Analyzer,
	JWTSecret string,
) *WebServer {
	router := gin.Default()

	authModule := auth.NewAuthModule(redisClient, JWTSecret)
	middlewareManager := middleware.NewMiddlewareManager(redisClient, authModule)

	api.RegisterAuthRoutes(router, authModule, middlewareManager, dbConn)
	api.RegisterAutomationRoutes(router, middlewareManager, ruleStore, engine, dbConn)
	api.RegisterDeviceRoutes(router, middlewareManager, store, dbConn)
	api.RegisterMonitoringRoutes(router, middlewareManager, sim)
	api.RegisterInsightRoutes(router, middlewareManager, analyzer)
	api.RegisterActivityRoutes(router, middlewareManager, dbConn, store)

	return &WebServer{router: router}
}

func (ws *WebServer) Start(addr string) error {
	return ws.router.Run(addr)
}
