package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/grical/overlay-service/internal/api/handler"
	"github.com/grical/overlay-service/internal/api/middleware"
	"github.com/grical/overlay-service/internal/core/domain"
	"github.com/grical/overlay-service/internal/core/ports"
	opshttp "github.com/grical/overlay-service/internal/infrastructure/http"
)

// Deps are the collaborators the HTTP API is assembled from.
type Deps struct {
	Overlays ports.OverlayService
	// Skips backs GET /v1/skips. The route is only mounted when Skips and
	// JWTSecret are both set.
	Skips     ports.SkipRepository
	JWTSecret string

	// Probed by /health/ready; nil when not configured.
	Mongo *mongo.Database
	Redis *redis.Client

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))

	// --- Health, metrics and docs (no auth required) ---
	opshttp.RegisterOps(e, d.Mongo, d.Redis)

	// --- Overlay routes ---
	overlayHandler := handler.NewOverlayHandler(d.Overlays)
	v1 := e.Group("/v1")
	v1.GET("/overlay", overlayHandler.Get)
	v1.POST("/overlay/build", overlayHandler.Build, echomiddleware.BodyLimit(handler.MaxPayloadSize))

	// --- Audit routes (admin only) ---
	if d.Skips != nil && d.JWTSecret != "" {
		skipHandler := handler.NewSkipHandler(d.Skips, d.Log)
		admin := v1.Group("", middleware.Auth(d.JWTSecret), middleware.RBAC(domain.RoleAdmin))
		admin.GET("/skips", skipHandler.List)
	}

	return e
}

// requestLogger writes one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
