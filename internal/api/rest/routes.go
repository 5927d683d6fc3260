package rest

import (
	"github.com/Dhoini/accounts-service/internal/api/rest/handlers"
	"github.com/Dhoini/accounts-service/internal/api/rest/middleware"
	"github.com/Dhoini/accounts-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter настраивает маршрутизатор Gin с маршрутами и middleware
func SetupRouter(
	log *logger.Logger,
	registry *prometheus.Registry,
	accountsHandler *handlers.AccountsHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.RecoveryMiddleware(log))

	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.Use(middleware.AuditActorMiddleware())
	{
		api.POST("/create", accountsHandler.CreateAccount)
		api.GET("/fetch", accountsHandler.FetchAccount)
		api.PUT("/update", accountsHandler.UpdateAccount)
		api.DELETE("/delete", accountsHandler.DeleteAccount)
	}

	return r
}
