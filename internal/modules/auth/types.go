package auth

import (
	"errors"

	"github.com/run-write/core/internal/models"
)

var (
	ErrBadExchangeKey = errors.New("invalid exchange key")
	ErrBadCredentials = errors.New("invalid email or password")
)

// ExchangeDTO is presented by the trusted sign-in frontend after it has
// completed the OAuth dance with the upstream provider.
type ExchangeDTO struct {
	Key         string `json:"key"          binding:"required"`
	Provider    string `json:"provider"     binding:"required"`
	ProviderUID string `json:"provider_uid" binding:"required"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Image       string `json:"image"`
}

type LoginDTO struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string            `json:"token"`
	User  *models.UserModel `json:"user"`
}

type SessionResponse struct {
	User      *models.UserModel `json:"user"`
	SessionID string            `json:"session_id"`
}
