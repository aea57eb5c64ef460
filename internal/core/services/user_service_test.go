package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/procureflow/procurement_app/internal/apperrors"
	"github.com/procureflow/procurement_app/internal/core/domain"
	portssvc "github.com/procureflow/procurement_app/internal/core/ports/services"
	"github.com/procureflow/procurement_app/internal/core/services"
	"github.com/procureflow/procurement_app/internal/dto"
	"github.com/procureflow/procurement_app/internal/utils"
)

const testJWTSecret = "unit-test-secret"

type UserServiceTestSuite struct {
	suite.Suite
	store *memUserStore
	svc   portssvc.UserService
	ctx   context.Context
}

func (s *UserServiceTestSuite) SetupTest() {
	s.store = newMemUserStore()
	s.svc = services.NewUserService(s.store, services.AuthConfig{
		JWTSecret:      testJWTSecret,
		ExpiryDuration: time.Hour,
		Issuer:         "procurement-app-test",
		BcryptCost:     bcrypt.MinCost,
	})
	s.ctx = context.Background()
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) register(username string) *domain.User {
	user, err := s.svc.Register(s.ctx, dto.RegisterRequest{
		Username:        username,
		Name:            "Jordan Doe",
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
	})
	s.Require().NoError(err)
	return user
}

func (s *UserServiceTestSuite) TestRegisterCreatesStaffAccount() {
	user := s.register("jdoe")

	assert.Equal(s.T(), domain.RoleStaff, user.Role)
	assert.NotEmpty(s.T(), user.UserID)
	assert.NotEqual(s.T(), "s3cret-pass", user.PasswordHash)
	assert.True(s.T(), utils.CheckPasswordHash("s3cret-pass", user.PasswordHash))
}

func (s *UserServiceTestSuite) TestRegisterRejectsPrivilegedRole() {
	_, err := s.svc.Register(s.ctx, dto.RegisterRequest{
		Username:        "sneaky",
		Name:            "Sneaky",
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
		Role:            string(domain.RoleAdmin),
	})

	assert.ErrorIs(s.T(), err, services.ErrSelfSignupRole)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *UserServiceTestSuite) TestRegisterRejectsDuplicateUsername() {
	s.register("jdoe")

	_, err := s.svc.Register(s.ctx, dto.RegisterRequest{
		Username:        "jdoe",
		Name:            "Someone Else",
		Password:        "other-pass",
		ConfirmPassword: "other-pass",
	})

	assert.ErrorIs(s.T(), err, services.ErrUsernameTaken)
	assert.ErrorIs(s.T(), err, apperrors.ErrDuplicate)
}

func (s *UserServiceTestSuite) TestCreateUserIsAdminOnly() {
	admin := domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}

	user, err := s.svc.CreateUser(s.ctx, admin, dto.CreateUserRequest{
		Username: "fin",
		Name:     "Finance One",
		Password: "s3cret-pass",
		Role:     string(domain.RoleFinance),
	})
	s.Require().NoError(err)
	assert.Equal(s.T(), domain.RoleFinance, user.Role)
	assert.Equal(s.T(), "admin-1", user.CreatedBy)

	_, err = s.svc.CreateUser(s.ctx, staffActor("staff-1"), dto.CreateUserRequest{
		Username: "fin2",
		Name:     "Finance Two",
		Password: "s3cret-pass",
		Role:     string(domain.RoleFinance),
	})
	assert.ErrorIs(s.T(), err, services.ErrAdminOnly)
}

func (s *UserServiceTestSuite) TestCreateUserRejectsUnknownRole() {
	admin := domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}

	_, err := s.svc.CreateUser(s.ctx, admin, dto.CreateUserRequest{
		Username: "who",
		Name:     "Who",
		Password: "s3cret-pass",
		Role:     "SUPERVISOR",
	})

	assert.ErrorIs(s.T(), err, services.ErrUnknownRole)
}

func (s *UserServiceTestSuite) TestLoginIssuesTokenWithRoleClaim() {
	registered := s.register("jdoe")

	token, user, err := s.svc.Login(s.ctx, dto.LoginRequest{Username: "jdoe", Password: "s3cret-pass"})

	s.Require().NoError(err)
	assert.Equal(s.T(), registered.UserID, user.UserID)

	claims, err := utils.ParseAndValidateJWT(token, testJWTSecret)
	s.Require().NoError(err)
	assert.Equal(s.T(), registered.UserID, claims.Subject)
	assert.Equal(s.T(), string(domain.RoleStaff), claims.Role)
	assert.Equal(s.T(), "procurement-app-test", claims.Issuer)
}

func (s *UserServiceTestSuite) TestLoginRejectsBadCredentials() {
	s.register("jdoe")

	_, _, err := s.svc.Login(s.ctx, dto.LoginRequest{Username: "jdoe", Password: "wrong"})
	assert.ErrorIs(s.T(), err, services.ErrInvalidCredentials)
	assert.ErrorIs(s.T(), err, apperrors.ErrUnauthorized)

	_, _, err = s.svc.Login(s.ctx, dto.LoginRequest{Username: "nobody", Password: "s3cret-pass"})
	assert.ErrorIs(s.T(), err, services.ErrInvalidCredentials)
}
