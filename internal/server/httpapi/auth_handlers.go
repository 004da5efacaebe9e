package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *HTTPServer) register(c echo.Context) error {
	var req credentialsRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.Username == "" || req.Password == "" || req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Username, password, and email are required")
	}

	session, err := s.sessions.Register(c.Request().Context(), req.Username, req.Password, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, session)
}

func (s *HTTPServer) login(c echo.Context) error {
	var req credentialsRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Username and password are required")
	}

	session, err := s.sessions.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

func (s *HTTPServer) refresh(c echo.Context) error {
	var req refreshRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Refresh token required")
	}

	access, err := s.sessions.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"accessToken": access})
}

// logout always succeeds so clients can drop their tokens unconditionally.
func (s *HTTPServer) logout(c echo.Context) error {
	var req refreshRequest
	_ = bindJSON(c, &req)

	ctx := c.Request().Context()
	if err := s.sessions.Logout(ctx, req.RefreshToken); err != nil {
		s.logger.Warn(ctx, "logout: revoke failed", "error", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (s *HTTPServer) me(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"user": currentUser(c)})
}
