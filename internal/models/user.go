package models

import "time"

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Username  string    `json:"username" gorm:"uniqueIndex"`
	Bio       string    `json:"bio"`
	Image     string    `json:"image"`
	Password  string    `json:"-"` // Store hashed password, ignore for JSON serialization
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterRequest defines the request body for user registration
type RegisterRequest struct {
	User RegisterUser `json:"user" validate:"required"`
}

type RegisterUser struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Bio      string `json:"bio,omitempty"`
	Image    string `json:"image,omitempty" validate:"omitempty,url"`
}

// LoginRequest defines the request body for user login
type LoginRequest struct {
	User LoginUser `json:"user" validate:"required"`
}

type LoginUser struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest defines the request body for updating the current user.
// Empty fields are left unchanged.
type UpdateUserRequest struct {
	User UpdateUser `json:"user" validate:"required"`
}

type UpdateUser struct {
	Username string `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Password string `json:"password,omitempty" validate:"omitempty,min=8"`
	Bio      string `json:"bio,omitempty"`
	Image    string `json:"image,omitempty" validate:"omitempty,url"`
}

// UserResponse is the user envelope returned from auth and user endpoints
type UserResponse struct {
	User UserData `json:"user"`
}

type UserData struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
	Token    string `json:"token"`
}

func (u *User) ToUserData(token string) UserData {
	return UserData{
		Email:    u.Email,
		Username: u.Username,
		Bio:      u.Bio,
		Image:    u.Image,
		Token:    token,
	}
}

// Profile is the public view of a user, annotated with the follow state
// of the requesting user.
type Profile struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

// ProfileResponse is the profile envelope returned from profile endpoints
type ProfileResponse struct {
	Profile Profile `json:"profile"`
}

func (u *User) ToProfile(following bool) Profile {
	return Profile{
		Username:  u.Username,
		Bio:       u.Bio,
		Image:     u.Image,
		Following: following,
	}
}
