package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/procureflow/procurement_app/internal/apperrors"
	"github.com/procureflow/procurement_app/internal/core/domain"
	portsrepo "github.com/procureflow/procurement_app/internal/core/ports/repositories"
	portssvc "github.com/procureflow/procurement_app/internal/core/ports/services"
	"github.com/procureflow/procurement_app/internal/dto"
	"github.com/procureflow/procurement_app/internal/utils"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid username or password: %w", apperrors.ErrUnauthorized)
	ErrUsernameTaken      = fmt.Errorf("username already taken: %w", apperrors.ErrDuplicate)
	ErrUnknownRole        = fmt.Errorf("unknown role: %w", apperrors.ErrValidation)
	ErrSelfSignupRole     = fmt.Errorf("self-service signup only creates staff accounts: %w", apperrors.ErrValidation)
	ErrAdminOnly          = fmt.Errorf("admin role required: %w", apperrors.ErrForbidden)
)

// AuthConfig carries token signing and password hashing parameters into the
// user service. A zero BcryptCost uses the bcrypt library default.
type AuthConfig struct {
	JWTSecret      string
	ExpiryDuration time.Duration
	Issuer         string
	BcryptCost     int
}

// userService manages accounts and authentication.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	auth     AuthConfig
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, auth AuthConfig) portssvc.UserService {
	return &userService{
		userRepo: userRepo,
		auth:     auth,
	}
}

var _ portssvc.UserService = (*userService)(nil)

func parseRole(raw string) (domain.Role, error) {
	switch domain.Role(raw) {
	case domain.RoleStaff, domain.RoleApproverLevel1, domain.RoleApproverLevel2, domain.RoleFinance, domain.RoleAdmin:
		return domain.Role(raw), nil
	default:
		return "", ErrUnknownRole
	}
}

func (s *userService) createUser(ctx context.Context, username, name, password string, role domain.Role, createdBy string) (*domain.User, error) {
	existing, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := utils.HashPassword(password, s.auth.BcryptCost)
	if err != nil {
		s.LogError(ctx, err, "failed to hash password")
		return nil, err
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     username,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "failed to save user", "username", username)
		return nil, err
	}
	s.LogInfo(ctx, "user created", "user_id", user.UserID, "role", string(role))
	return &user, nil
}

// Register creates a Staff account from a self-service signup. Any requested
// role other than staff is rejected rather than silently downgraded.
func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	if req.Role != "" && domain.Role(req.Role) != domain.RoleStaff {
		return nil, ErrSelfSignupRole
	}
	return s.createUser(ctx, req.Username, req.Name, req.Password, domain.RoleStaff, "")
}

// CreateUser creates an account with an explicit role. Admin only.
func (s *userService) CreateUser(ctx context.Context, actor domain.Actor, req dto.CreateUserRequest) (*domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrAdminOnly
	}
	role, err := parseRole(req.Role)
	if err != nil {
		return nil, err
	}
	return s.createUser(ctx, req.Username, req.Name, req.Password, role, actor.UserID)
}

// Login verifies credentials and issues a signed token carrying the role.
func (s *userService) Login(ctx context.Context, req dto.LoginRequest) (string, *domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.UserID, string(user.Role), s.auth.JWTSecret, s.auth.ExpiryDuration, s.auth.Issuer)
	if err != nil {
		s.LogError(ctx, err, "failed to sign token", "user_id", user.UserID)
		return "", nil, err
	}
	return token, user, nil
}

// GetUserByID fetches a single user.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}
