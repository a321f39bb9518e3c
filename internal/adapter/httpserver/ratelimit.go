package httpserver

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/pscheid92/forumclient/internal/adapter/metrics"
	"github.com/pscheid92/forumclient/internal/domain"
)

// visitorIdleTTL is how long an idle client's token bucket is kept.
const visitorIdleTTL = 5 * time.Minute

const msgRateLimited = "rate limit exceeded"

// rateLimit is the per-client budget for forwarded API calls.
type rateLimit struct {
	perSecond float64
	burst     int
}

func newRateLimit(perSecond float64, burst int) rateLimit {
	if burst <= 0 {
		burst = max(1, int(perSecond))
	}
	return rateLimit{perSecond: perSecond, burst: burst}
}

// retryAfter is the whole number of seconds until the next token is available.
func (l rateLimit) retryAfter() string {
	return strconv.Itoa(max(1, int(math.Ceil(1/l.perSecond))))
}

// newRateLimiter limits each client address and answers over-budget calls with the backend's failure envelope,
// so the client classifies them like any other 429.
func newRateLimiter(l rateLimit, m *metrics.ProxyMetrics) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(l.perSecond),
		Burst:     l.burst,
		ExpiresIn: visitorIdleTTL,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, visitor string, _ error) error {
			m.RateLimited.Inc()
			slog.WarnContext(c.Request().Context(), "Proxy request rate limited",
				"visitor", visitor, "path", c.Request().URL.Path)

			c.Response().Header().Set(echo.HeaderRetryAfter, l.retryAfter())
			return c.JSON(http.StatusTooManyRequests, domain.Failed[any](msgRateLimited))
		},
	})
}
