package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/grical/overlay-service/internal/core/domain"
	"github.com/grical/overlay-service/internal/core/ports"
	"github.com/grical/overlay-service/internal/pkg/metrics"
)

// MaxPayloadSize bounds the body of POST /v1/overlay/build, in the format of
// echo's BodyLimit middleware.
const MaxPayloadSize = "8M"

// OverlayHandler serves event overlays to map clients.
type OverlayHandler struct {
	service ports.OverlayService
}

// NewOverlayHandler creates an OverlayHandler backed by the given service.
func NewOverlayHandler(service ports.OverlayService) *OverlayHandler {
	return &OverlayHandler{service: service}
}

// Get handles GET /v1/overlay: it fetches the events in a viewport and returns their overlay.
//
// @Summary      Build the event overlay of a viewport
// @Tags         overlay
// @Produce      json
// @Param        west    query     number  true   "Western longitude"
// @Param        east    query     number  true   "Eastern longitude"
// @Param        north   query     number  true   "Northern latitude"
// @Param        south   query     number  true   "Southern latitude"
// @Param        limit   query     int     false  "Maximum number of events (1-50)"
// @Param        format  query     string  false  "json (default) or geojson"
// @Success      200     {object}  overlayResponse
// @Failure      400     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Failure      502     {object}  errorResponse
// @Router       /v1/overlay [get]
func (h *OverlayHandler) Get(c echo.Context) error {
	var q overlayQuery
	err := echo.QueryParamsBinder(c).
		MustFloat64("west", &q.West).
		MustFloat64("east", &q.East).
		MustFloat64("north", &q.North).
		MustFloat64("south", &q.South).
		Int("limit", &q.Limit).
		String("format", &q.Format).
		BindError()
	if err != nil {
		return bindError(err)
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	start := time.Now()
	res, err := h.service.CreateOverlay(c.Request().Context(), q.viewport())
	observeBuild("viewport", start, res, err)
	if err != nil {
		return err
	}
	return renderOverlay(c, q.Format, res)
}

// Build handles POST /v1/overlay/build: it builds an overlay from a posted event array.
// The body size is capped by the BodyLimit middleware on the route.
//
// @Summary      Build an overlay from event records
// @Tags         overlay
// @Accept       json
// @Produce      json
// @Param        format  query     string  false  "json (default) or geojson"
// @Param        body    body      []object  true  "GriCal event records"
// @Success      200     {object}  overlayResponse
// @Failure      400     {object}  errorResponse
// @Failure      413     {object}  errorResponse
// @Router       /v1/overlay/build [post]
func (h *OverlayHandler) Build(c echo.Context) error {
	format := c.QueryParam("format")
	if format != "" && format != formatJSON && format != formatGeoJSON {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "format must be one of: json geojson")
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		// BodyLimit reports an oversized body as a read error.
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(body) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "payload cannot be empty")
	}

	start := time.Now()
	res, err := h.service.BuildFromPayload(c.Request().Context(), body)
	observeBuild("payload", start, res, err)
	if err != nil {
		return err
	}
	return renderOverlay(c, format, res)
}

// bindError names the query parameter that failed to bind.
func bindError(err error) error {
	var be *echo.BindingError
	if !errors.As(err, &be) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if be.Field == "limit" {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
	}
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s is required and must be a number", be.Field))
}

func renderOverlay(c echo.Context, format string, res *ports.BuildResult) error {
	if format == formatGeoJSON {
		return c.JSON(http.StatusOK, toGeoJSON(res.Overlay))
	}
	return c.JSON(http.StatusOK, toOverlayResponse(res))
}

// observeBuild records the outcome of one overlay request.
func observeBuild(source string, start time.Time, res *ports.BuildResult, err error) {
	metrics.OverlayBuildDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrUpstream) {
			metrics.UpstreamErrorsTotal.Inc()
		}
		metrics.OverlayBuildsTotal.WithLabelValues(source, "error").Inc()
		return
	}
	if res.FromCache {
		metrics.OverlayBuildsTotal.WithLabelValues(source, "cached").Inc()
		return
	}
	metrics.OverlayBuildsTotal.WithLabelValues(source, "ok").Inc()
	metrics.MarkersBuiltTotal.Add(float64(res.Overlay.Len()))
	for _, sk := range res.Skipped {
		metrics.RecordsSkippedTotal.WithLabelValues(string(sk.Reason)).Inc()
	}
}
