package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/teamsphere/api/internal/common"
	"github.com/teamsphere/api/internal/server/services"
)

// Sessions is the slice of the session service the handlers need.
type Sessions interface {
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, oldToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

// Avatars hands out presigned URLs for profile pictures.
type Avatars interface {
	GetPresignedUploadURL(ctx context.Context, userID uuid.UUID, contentType string) (string, string, error)
	GetPresignedDownloadURL(ctx context.Context, key string) (string, error)
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type authResponse struct {
	JWT          string `json:"jwt"`
	RefreshToken string `json:"refreshToken"`
	Status       bool   `json:"status"`
}

type uploadURLRequest struct {
	ContentType string `json:"contentType"`
}

type uploadURLResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type downloadURLResponse struct {
	URL string `json:"url"`
}

func (s *Server) signin(c echo.Context) error {
	req := &signinRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	pair, err := s.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Sign-in failed")
	}

	return c.JSON(http.StatusOK, authResponse{
		JWT:          pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Status:       true,
	})
}

// refresh is deliberately reachable without an access token: it is the only
// recovery path once the access token has expired.
func (s *Server) refresh(c echo.Context) error {
	req := &refreshRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	pair, err := s.sessions.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
		case errors.Is(err, common.ErrRefreshTokenExpired):
			return echo.NewHTTPError(http.StatusUnauthorized, "Refresh token is expired")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Refresh failed")
		}
	}

	return c.JSON(http.StatusOK, authResponse{
		JWT:          pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Status:       true,
	})
}

func (s *Server) verify(c echo.Context) error {
	if _, ok := Principal(c); !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token is invalid or not provided.")
	}
	return c.String(http.StatusOK, "Token is valid")
}

func (s *Server) logout(c echo.Context) error {
	principal, ok := Principal(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token is invalid or not provided.")
	}

	if err := s.sessions.Logout(c.Request().Context(), principal.UserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Logout failed")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) avatarUploadURL(c echo.Context) error {
	principal, _ := Principal(c)

	req := &uploadURLRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	url, key, err := s.avatars.GetPresignedUploadURL(c.Request().Context(), principal.UserID, req.ContentType)
	if err != nil {
		if errors.Is(err, common.ErrUnsupportedImageType) {
			return echo.NewHTTPError(http.StatusUnsupportedMediaType, "Profile Picture type is not allowed!")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not create upload URL")
	}

	return c.JSON(http.StatusOK, uploadURLResponse{URL: url, Key: key})
}

func (s *Server) avatarDownloadURL(c echo.Context) error {
	key := c.QueryParam("key")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing key parameter")
	}

	url, err := s.avatars.GetPresignedDownloadURL(c.Request().Context(), key)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not create download URL")
	}

	return c.JSON(http.StatusOK, downloadURLResponse{URL: url})
}
