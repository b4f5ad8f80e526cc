package handlers

import (
	"errors"
	"net/http"

	"github.com/conduit-go/backend/internal/middleware"
	"github.com/conduit-go/backend/internal/models"
	"github.com/conduit-go/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ProfileHandler handles profile and follow/unfollow HTTP requests
type ProfileHandler struct {
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(userRepo repositories.UserRepository, followRepo repositories.FollowRepository) *ProfileHandler {
	return &ProfileHandler{userRepository: userRepo, followRepository: followRepo}
}

// RegisterRoutes registers profile routes on the public and guarded groups
func (h *ProfileHandler) RegisterRoutes(public, authed *echo.Group) {
	public.GET("/profiles/:username", h.GetProfile)
	authed.POST("/profiles/:username/follow", h.FollowProfile)
	authed.DELETE("/profiles/:username/follow", h.UnfollowProfile)
}

// GetProfile resolves a profile, annotated with the current user's follow state
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	target, err := h.lookupProfile(c)
	if err != nil {
		return err
	}

	following := false
	if currentUserID := middleware.CurrentUserID(c); currentUserID != 0 {
		following, err = h.followRepository.IsFollowing(currentUserID, target.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, models.ProfileResponse{Profile: target.ToProfile(following)})
}

// FollowProfile creates a follow edge to the named user. Following an
// already-followed profile is a no-op.
func (h *ProfileHandler) FollowProfile(c echo.Context) error {
	target, err := h.lookupProfile(c)
	if err != nil {
		return err
	}

	currentUserID := middleware.CurrentUserID(c)
	if currentUserID == target.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	if err := h.followRepository.CreateFollow(currentUserID, target.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, models.ProfileResponse{Profile: target.ToProfile(true)})
}

// UnfollowProfile removes the follow edge if present; absent edges are a no-op
func (h *ProfileHandler) UnfollowProfile(c echo.Context) error {
	target, err := h.lookupProfile(c)
	if err != nil {
		return err
	}

	if err := h.followRepository.DeleteFollow(middleware.CurrentUserID(c), target.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, models.ProfileResponse{Profile: target.ToProfile(false)})
}

func (h *ProfileHandler) lookupProfile(c echo.Context) (*models.User, error) {
	user, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return user, nil
}
