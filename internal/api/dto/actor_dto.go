package dto

import (
	"time"

	"github.com/kamalhaddad27/servicedesk-fik/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse payload.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Actor     ActorResponse `json:"actor"`
}

// RegisterRequest payload for self-service user signup.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateActorRequest payload for admin account provisioning.
type CreateActorRequest struct {
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Password   string             `json:"password"`
	Role       domain.Role        `json:"role"`
	Department *domain.Department `json:"department,omitempty"`
}

// ActorResponse is the wire form of an actor; no credential material.
type ActorResponse struct {
	ID         int64              `json:"id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Role       domain.Role        `json:"role"`
	Department *domain.Department `json:"department,omitempty"`
	Active     bool               `json:"active"`
}
