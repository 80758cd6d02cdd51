package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// UserRole represents the role of a user in the system
type UserRole string

const (
	RoleAttendee  UserRole = "attendee"
	RoleOrganizer UserRole = "organizer"
)

// User represents a user in the system
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Role         UserRole  `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserCreateRequest represents the data needed to register a new user
type UserCreateRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate validates user registration data
func (req *UserCreateRequest) Validate() error {
	if err := validateEmail(req.Email); err != nil {
		return err
	}

	if err := validatePassword(req.Password); err != nil {
		return err
	}

	if err := validateUserName(req.Name); err != nil {
		return err
	}

	return validateUserRole(req.Role)
}

// validateEmail validates an email address
func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}

	if len(email) > 255 {
		return errors.New("email must be less than 255 characters")
	}

	if !emailRegex.MatchString(email) {
		return errors.New("email format is invalid")
	}

	return nil
}

// validatePassword validates a password
func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	if len(password) > 128 {
		return errors.New("password must be less than 128 characters")
	}

	return nil
}

// validateUserName validates a user's display name
func validateUserName(name string) error {
	if name == "" {
		return errors.New("name is required")
	}

	if len(name) > 255 {
		return errors.New("name must be less than 255 characters")
	}

	if strings.TrimSpace(name) == "" {
		return errors.New("name cannot be only whitespace")
	}

	return nil
}

// validateUserRole validates a user role
func validateUserRole(role UserRole) error {
	switch role {
	case RoleAttendee, RoleOrganizer:
		return nil
	default:
		return errors.New("invalid user role")
	}
}

// IsOrganizer returns true if the user can create and manage events
func (u *User) IsOrganizer() bool {
	return u.Role == RoleOrganizer
}
