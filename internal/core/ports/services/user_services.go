package services

import (
	"context"

	"github.com/procureflow/procurement_app/internal/core/domain"
	"github.com/procureflow/procurement_app/internal/dto"
)

// UserService defines account management and authentication operations.
type UserService interface {
	// Register creates a Staff account from a self-service signup.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	// CreateUser creates an account with an explicit role. Admin only.
	CreateUser(ctx context.Context, actor domain.Actor, req dto.CreateUserRequest) (*domain.User, error)
	// Login verifies credentials and issues a signed token.
	Login(ctx context.Context, req dto.LoginRequest) (string, *domain.User, error)
	// GetUserByID fetches a single user.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}
