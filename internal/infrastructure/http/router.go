package http

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/grical/overlay-service/docs"
	"github.com/grical/overlay-service/internal/infrastructure/http/handlers"
)

// RegisterOps mounts the operational routes: health probes, Prometheus
// metrics and the Swagger UI. None of them require authentication.
// db and rdb may be nil when the matching dependency is not configured.
func RegisterOps(e *echo.Echo, db *mongo.Database, rdb *redis.Client) {
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
