package devserver

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

type contextKey string

const (
	loggerKey = contextKey("logger")
	userKey   = "user"
)

// RequestLogger injects a request-scoped logger into the request context.
// It should be placed after the RequestID middleware in the chain.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			requestLogger := base.With("request_id", reqID)

			newCtx := context.WithValue(c.Request().Context(), loggerKey, requestLogger)
			c.SetRequest(c.Request().WithContext(newCtx))

			err := next(c)
			requestLogger.Info("request handled",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
			)
			return err
		}
	}
}

// FromContext returns the request-scoped logger, or the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// BearerAuth protects routes with the access tokens of the user repository.
func BearerAuth(users *Users) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return c.JSON(http.StatusUnauthorized, envelope{Message: "missing bearer token"})
			}
			user, found := users.ByToken(token)
			if !found {
				return c.JSON(http.StatusUnauthorized, envelope{Message: "invalid token"})
			}
			c.Set(userKey, user)
			return next(c)
		}
	}
}

func currentUser(c echo.Context) (User, bool) {
	user, ok := c.Get(userKey).(User)
	return user, ok
}

// RateLimiter limits each client IP to perSecond requests per second on the
// routes it is applied to.
func RateLimiter(perSecond float64) echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(perSecond),
			Burst: int(perSecond),
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, envelope{Message: "Too many requests. Please try again later."})
		},
	}
	return middleware.RateLimiterWithConfig(config)
}
