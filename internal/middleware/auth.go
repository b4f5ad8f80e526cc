package middleware

import (
	"net/http"
	"strings"

	"github.com/conduit-go/backend/internal/auth"
	"github.com/conduit-go/backend/internal/models"
	"github.com/conduit-go/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const userContextKey = "currentUser"

// ResolveUser resolves the current user from a "Bearer <token>" Authorization
// header. Resolution never fails the request: a missing header, a bad token,
// or a token pointing at a deleted user all leave the request anonymous.
// Failures are logged so the degradation stays observable; rejecting requests
// is left entirely to RequireAuth on guarded routes.
func ResolveUser(tokens *auth.TokenManager, users repositories.UserRepository, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				logger.Debug("malformed Authorization header, proceeding anonymous")
				return next(c)
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil {
				logger.Debug("token verification failed, proceeding anonymous", zap.Error(err))
				return next(c)
			}

			user, err := users.GetUserByID(claims.UserID)
			if err != nil {
				logger.Debug("token user not found, proceeding anonymous",
					zap.Uint("user_id", claims.UserID), zap.Error(err))
				return next(c)
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// RequireAuth rejects requests that did not resolve to a user
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized")
			}
			return next(c)
		}
	}
}

// CurrentUser returns the resolved user, or nil for anonymous requests
func CurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(userContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentUserID returns the resolved user's id, or zero for anonymous requests
func CurrentUserID(c echo.Context) uint {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}
