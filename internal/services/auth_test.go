package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"eventtix/internal/models"
)

type mockUserRepository struct {
	users  map[int]*models.User
	nextID int
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:  make(map[int]*models.User),
		nextID: 1,
	}
}

func (m *mockUserRepository) Create(req *models.UserCreateRequest, passwordHash string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == req.Email {
			return nil, models.ErrDuplicateEntry
		}
	}
	user := &models.User{
		ID:           m.nextID,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Role:         req.Role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.users[m.nextID] = user
	m.nextID++
	return user, nil
}

func (m *mockUserRepository) GetByID(id int) (*models.User, error) {
	user, exists := m.users[id]
	if !exists {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) GetByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	service := NewAuthService(newMockUserRepository())

	user, err := service.Register(&models.UserCreateRequest{
		Email:    "Alice@Example.com",
		Password: "correct horse battery",
		Name:     "Alice",
		Role:     models.RoleAttendee,
	})
	if err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	if user.Email != "alice@example.com" {
		t.Errorf("Expected normalized email, got %s", user.Email)
	}
	if user.PasswordHash == "" || strings.Contains(user.PasswordHash, "correct horse") {
		t.Error("Expected password to be hashed")
	}

	loggedIn, err := service.Login("alice@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Failed to log in: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("Expected user %d, got %d", user.ID, loggedIn.ID)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	service := NewAuthService(newMockUserRepository())

	_, err := service.Register(&models.UserCreateRequest{
		Email:    "bob@example.com",
		Password: "super secret pw",
		Name:     "Bob",
		Role:     models.RoleOrganizer,
	})
	if err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	if _, err := service.Login("bob@example.com", "wrong password"); err != models.ErrUnauthorized {
		t.Errorf("Expected ErrUnauthorized for wrong password, got %v", err)
	}

	// Unknown emails get the same error as wrong passwords
	if _, err := service.Login("nobody@example.com", "whatever pw"); err != models.ErrUnauthorized {
		t.Errorf("Expected ErrUnauthorized for unknown email, got %v", err)
	}
}

func TestAuthService_Register_Invalid(t *testing.T) {
	service := NewAuthService(newMockUserRepository())

	_, err := service.Register(&models.UserCreateRequest{
		Email:    "not-an-email",
		Password: "short",
		Name:     "",
		Role:     models.RoleAttendee,
	})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
