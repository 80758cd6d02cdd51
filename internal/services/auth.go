package services

import (
	"fmt"
	"strings"

	"eventtix/internal/models"
	"eventtix/internal/utils"
)

// AuthService handles registration, login, and user lookups
type AuthService struct {
	userRepo UserRepository
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Register creates a new user account with a hashed password
func (s *AuthService) Register(req *models.UserCreateRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidInput, err)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.Create(req, hash)
}

// Login authenticates a user by email and password. Unknown emails and
// wrong passwords return the same error so the response does not reveal
// which accounts exist.
func (s *AuthService) Login(email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if err == models.ErrUserNotFound {
			return nil, models.ErrUnauthorized
		}
		return nil, err
	}

	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, models.ErrUnauthorized
	}

	return user, nil
}

// GetUser retrieves a user by ID
func (s *AuthService) GetUser(id int) (*models.User, error) {
	return s.userRepo.GetByID(id)
}
