package dto

import (
	"time"

	"github.com/winkingcatstudios/video-streaming-backend/internal/domain"
)

// SignupRequest payload for new accounts. Multipart forms use the same names.
type SignupRequest struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"min=12,max=127"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// UpdateUserRequest is the admin edit payload.
type UpdateUserRequest struct {
	Name  string `json:"name" form:"name" validate:"required"`
	Email string `json:"email" form:"email" validate:"required,email"`
}

// AuthResponse standard response for signup and login.
type AuthResponse struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     string    `json:"image,omitempty"`
	IsAdmin   bool      `json:"isAdmin"`
	ListIDs   []string  `json:"lists"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MonthlySignupsResponse is one row of the signup statistics.
type MonthlySignupsResponse struct {
	Month int `json:"month"`
	Total int `json:"total"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	listIDs := u.ListIDs
	if listIDs == nil {
		listIDs = []string{}
	}
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Image:     u.Image,
		IsAdmin:   u.IsAdmin,
		ListIDs:   listIDs,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewMonthlySignupsResponse maps signup statistics.
func NewMonthlySignupsResponse(stats []domain.MonthlySignups) []MonthlySignupsResponse {
	out := make([]MonthlySignupsResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, MonthlySignupsResponse{Month: s.Month, Total: s.Total})
	}
	return out
}
