package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxClaims extracts the claims injected by the Auth middleware and fails
// fast when they are absent: a request reaching an authenticated handler
// without a subject and role means the middleware did not run.
func ctxClaims(c echo.Context) (subject, role string, err error) {
	subject, _ = c.Get("subject").(string)
	role, _ = c.Get("role").(string)
	if subject == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return subject, role, nil
}
