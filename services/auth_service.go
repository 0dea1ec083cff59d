package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"inkwell/auth"
	"inkwell/dto"
	"inkwell/errs"
	"inkwell/models"
	"inkwell/repositories"
)

const minPasswordLen = 8

// AuthService handles registration, login and the current-account lookup.
type AuthService struct {
	users *repositories.UserRepository
	jwt   *auth.JWTManager
}

func NewAuthService(users *repositories.UserRepository, jwt *auth.JWTManager) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

// RegisterInput is the signup form.
type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
}

func validateRegister(in RegisterInput) *errs.ApiErr {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return errs.NewValidationError("Username, email and password are required")
	}
	if !strings.Contains(in.Email, "@") {
		return errs.NewValidationError("Invalid email address")
	}
	if len(in.Password) < minPasswordLen {
		return errs.NewValidationError(fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
	}
	return nil
}

// Register creates an account with a bcrypt password hash and returns the
// account with a fresh access token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*dto.LoginResultDTO, error) {
	if err := validateRegister(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.NewInternalError("Failed to hash password")
	}

	user := &models.User{
		Username: in.Username,
		Email:    strings.ToLower(in.Email),
		FullName: in.FullName,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return nil, errs.NewConflictError("Username or email already taken")
		}
		return nil, err
	}

	return s.loginResult(user)
}

// Login verifies the credentials and issues an access token. The same
// generic error covers an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.LoginResultDTO, error) {
	if email == "" || password == "" {
		return nil, errs.NewValidationError("Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NewUnauthorizedError("Invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errs.NewUnauthorizedError("Invalid email or password")
	}

	return s.loginResult(user)
}

// CurrentUser returns the account behind an authenticated request.
func (s *AuthService) CurrentUser(ctx context.Context, id primitive.ObjectID) (*dto.UserDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NewNotFoundError("User not found")
		}
		return nil, err
	}
	out := dto.NewUserDTO(*user)
	return &out, nil
}

func (s *AuthService) loginResult(user *models.User) (*dto.LoginResultDTO, error) {
	token, err := s.jwt.Sign(user.ID.Hex())
	if err != nil {
		return nil, errs.NewInternalError("Failed to issue access token")
	}
	return &dto.LoginResultDTO{
		User:        dto.NewUserDTO(*user),
		AccessToken: token,
	}, nil
}
