package handlers

import (
	"errors"
	"net/http"

	"github.com/conduit-go/backend/internal/auth"
	"github.com/conduit-go/backend/internal/middleware"
	"github.com/conduit-go/backend/internal/models"
	"github.com/conduit-go/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserHandler handles registration, login and current-user HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
	tokens         *auth.TokenManager
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, tokens *auth.TokenManager) *UserHandler {
	return &UserHandler{userRepository: userRepo, tokens: tokens}
}

// RegisterRoutes registers user routes on the public and guarded groups
func (h *UserHandler) RegisterRoutes(public, authed *echo.Group) {
	public.POST("/users", h.Register)
	public.POST("/users/login", h.Login)
	authed.GET("/user", h.CurrentUser)
	authed.PUT("/user", h.UpdateCurrentUser)
}

// Register handles user registration with email, username and password
func (h *UserHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.userRepository.GetUserByEmail(req.User.Email); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Email is already taken")
	}
	if _, err := h.userRepository.GetUserByUsername(req.User.Username); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Username is already taken")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.User.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Email:    req.User.Email,
		Username: req.User.Username,
		Bio:      req.User.Bio,
		Image:    req.User.Image,
		Password: string(hashedPassword),
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return h.respondWithToken(c, http.StatusCreated, user)
}

// Login authenticates a user by email and password. Unknown email and wrong
// password are indistinguishable to the caller.
func (h *UserHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmailWithPassword(req.User.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.User.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	user.Password = ""

	return h.respondWithToken(c, http.StatusOK, user)
}

// CurrentUser returns the authenticated user with a fresh token
func (h *UserHandler) CurrentUser(c echo.Context) error {
	user := middleware.CurrentUser(c)
	return h.respondWithToken(c, http.StatusOK, user)
}

// UpdateCurrentUser merges the supplied fields onto the authenticated user.
// Empty fields are left unchanged; a new password is re-hashed.
func (h *UserHandler) UpdateCurrentUser(c echo.Context) error {
	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.User.Email != "" {
		user.Email = req.User.Email
	}
	if req.User.Username != "" {
		user.Username = req.User.Username
	}
	if req.User.Bio != "" {
		user.Bio = req.User.Bio
	}
	if req.User.Image != "" {
		user.Image = req.User.Image
	}
	if req.User.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.User.Password), bcrypt.DefaultCost)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
		}
		user.Password = string(hashedPassword)
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return h.respondWithToken(c, http.StatusOK, user)
}

func (h *UserHandler) respondWithToken(c echo.Context, status int, user *models.User) error {
	token, err := h.tokens.Generate(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(status, models.UserResponse{User: user.ToUserData(token)})
}
