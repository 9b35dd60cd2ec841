package httpadapter

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/PabloGalante/psychologue-api/internal/observability"
)

// withRequestID reuses the inbound X-Request-ID or mints one, and stores it
// in the request context for the logger.
func withRequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		id := req.Header.Get(echo.HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		c.Response().Header().Set(echo.HeaderXRequestID, id)
		c.SetRequest(req.WithContext(observability.WithRequestID(req.Context(), id)))
		return next(c)
	}
}

// withLogging logs every request once its response is written.
func withLogging(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		if err := next(c); err != nil {
			c.Error(err)
		}

		req := c.Request()
		observability.LoggerFromContext(req.Context()).Info("http request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", c.Response().Status,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil
	}
}

// withCORS leaves every origin open, as the web front-end is served elsewhere.
func withCORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, echo.HeaderXRequestID},
	})
}
