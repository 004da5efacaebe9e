package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const userKey = "user"

// requireAccessToken resolves the bearer token to a user and stores it in
// the echo context.
func (s *HTTPServer) requireAccessToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
		if !ok || token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
		}

		user, err := s.sessions.WhoAmI(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}

		c.Set(userKey, user)
		return next(c)
	}
}

func currentUser(c echo.Context) *models.PublicUser {
	u, _ := c.Get(userKey).(*models.PublicUser)
	return u
}

// requestLogger puts a request-scoped logger into the request context and
// writes one line per request.
func (s *HTTPServer) requestLogger() echo.MiddlewareFunc {
	attach := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			l := s.logger.With("request_id", reqID)
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))
			return next(c)
		}
	}

	logLine := middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURIPath:  true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx, s.logger)
			args := []any{
				"method", v.Method,
				"path", v.URIPath,
				"status", v.Status,
				"duration", v.Latency.Round(time.Microsecond).String(),
				"remote_ip", v.RemoteIP,
			}
			switch {
			case v.Status >= http.StatusInternalServerError:
				l.Error(ctx, "request completed", args...)
			case v.Status >= http.StatusBadRequest:
				l.Warn(ctx, "request completed", args...)
			default:
				l.Info(ctx, "request completed", args...)
			}
			return nil
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return attach(logLine(next))
	}
}
