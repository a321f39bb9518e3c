package httpserver

import (
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/pscheid92/forumclient/internal/platform/correlation"
)

// correlationMiddleware keeps the caller's correlation id, or assigns one, and forwards it upstream.
func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		id := req.Header.Get(correlation.Header)
		if id == "" {
			id = correlation.NewID()
			req.Header.Set(correlation.Header, id)
		}
		c.SetRequest(req.WithContext(correlation.WithID(req.Context(), id)))
		c.Response().Header().Set(correlation.Header, id)
		return next(c)
	}
}

// changeOrigin rewrites the Host header to the upstream's, for backends that route on it.
func changeOrigin(target *url.URL) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Request().Host = target.Host
			return next(c)
		}
	}
}
