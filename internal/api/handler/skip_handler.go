package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/grical/overlay-service/internal/core/ports"
)

const (
	defaultSkipLimit = 50
	maxSkipLimit     = 500
)

// SkipHandler exposes the skipped-record audit trail to administrators.
type SkipHandler struct {
	repo ports.SkipRepository
	log  zerolog.Logger
}

func NewSkipHandler(repo ports.SkipRepository, log zerolog.Logger) *SkipHandler {
	return &SkipHandler{repo: repo, log: log}
}

// List handles GET /v1/skips, newest skipped records first.
//
// @Summary      List skipped event records
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum number of entries (1-500, default 50)"
// @Success      200    {object}  skipListResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/skips [get]
func (h *SkipHandler) List(c echo.Context) error {
	subject, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	limit := defaultSkipLimit
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
	}
	if limit <= 0 || limit > maxSkipLimit {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 500")
	}

	entries, err := h.repo.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	items := make([]skipAuditResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toSkipAuditResponse(e))
	}

	h.log.Debug().Str("subject", subject).Int("count", len(items)).Msg("skip audit listed")
	return c.JSON(http.StatusOK, skipListResponse{Count: len(items), Items: items})
}
