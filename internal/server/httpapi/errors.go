package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/labstack/echo/v4"
)

var (
	errInvalidJSON     = echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON")
	errPayloadTooLarge = echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Payload too large")
	errNotFound        = echo.NewHTTPError(http.StatusNotFound, "Not found")
)

const endpointNotFound = "Endpoint not found"

type errorBody struct {
	Error string `json:"error"`
}

// handleError renders every error as {"error": "..."} with a status derived
// from the service sentinel errors.
func (s *HTTPServer) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, msg := classify(err)
	if code >= http.StatusInternalServerError {
		ctx := c.Request().Context()
		logging.FromContext(ctx, s.logger).Error(ctx, "request failed", "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorBody{Error: msg})
	}
	if err != nil {
		s.logger.Error(c.Request().Context(), "write error response", "error", err)
	}
}

func classify(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he == echo.ErrNotFound {
			return http.StatusNotFound, endpointNotFound
		}
		if he.Code == http.StatusRequestEntityTooLarge {
			return he.Code, "Payload too large"
		}
		return he.Code, fmt.Sprint(he.Message)
	}

	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, validationMessage(err)
	case errors.Is(err, common.ErrDuplicateUser):
		return http.StatusConflict, "Username already exists"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, common.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, "Invalid refresh token"
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return http.StatusUnauthorized, "Refresh token expired"
	case errors.Is(err, common.ErrUserNotFound):
		return http.StatusUnauthorized, "User not found"
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Not found"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// validationMessage strips the sentinel prefix and capitalises the detail.
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), common.ErrorValidation.Error()+": ")
	if msg == "" || msg == common.ErrorValidation.Error() {
		return "Invalid request"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// bindJSON decodes the request body into v.
func bindJSON(c echo.Context, v any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
			return errPayloadTooLarge
		}
		return errInvalidJSON
	}
	return nil
}
