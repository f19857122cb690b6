// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/dispatch-hub/backend/internal/application/usecase/auth"
)

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
	AreaID   *int   `json:"area_id"`
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned by registration and login.
type LoginResponse struct {
	UserID       int    `json:"user_id"`
	Username     string `json:"username"`
	SessionToken string `json:"session_token"`
	Role         string `json:"role"`
	DispatcherID *int   `json:"dispatcher_id,omitempty"`
	AreaID       *int   `json:"area_id,omitempty"`
}

// ToLoginResponse converts a use case result into its JSON form.
func ToLoginResponse(resp *auth.LoginResponse) LoginResponse {
	return LoginResponse{
		UserID:       resp.UserID,
		Username:     resp.Username,
		SessionToken: resp.SessionToken,
		Role:         string(resp.Role),
		DispatcherID: resp.DispatcherID,
		AreaID:       resp.AreaID,
	}
}

// ValidateSessionResponse reports the validity flag of a session.
type ValidateSessionResponse struct {
	Valid bool `json:"valid"`
}

// CurrentUserResponse describes the authenticated user.
type CurrentUserResponse struct {
	UserID       int    `json:"user_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	DispatcherID *int   `json:"dispatcher_id,omitempty"`
	AreaID       *int   `json:"area_id,omitempty"`
}

// ToCurrentUserResponse converts a use case result into its JSON form.
func ToCurrentUserResponse(out *auth.GetCurrentUserOutput) CurrentUserResponse {
	return CurrentUserResponse{
		UserID:       out.UserID,
		Username:     out.Username,
		Role:         string(out.Role),
		DispatcherID: out.DispatcherID,
		AreaID:       out.AreaID,
	}
}

// ProfileImageQuery holds the requested size of a profile image.
type ProfileImageQuery struct {
	Width  int `form:"width" binding:"required"`
	Height int `form:"height" binding:"required"`
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
