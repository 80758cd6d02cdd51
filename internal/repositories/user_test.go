package repositories

import (
	"fmt"
	"testing"
	"time"

	"eventtix/internal/models"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewUserRepository(db)
	email := fmt.Sprintf("create%d@example.com", time.Now().UnixNano())

	created, err := repo.Create(&models.UserCreateRequest{
		Email: email,
		Name:  "Create Test",
		Role:  models.RoleAttendee,
	}, "hashedpassword")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if created.ID == 0 {
		t.Error("Expected user ID to be set")
	}

	byID, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("Failed to get user by ID: %v", err)
	}
	if byID.Email != email {
		t.Errorf("Expected email %s, got %s", email, byID.Email)
	}

	byEmail, err := repo.GetByEmail(email)
	if err != nil {
		t.Fatalf("Failed to get user by email: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Errorf("Expected user %d, got %d", created.ID, byEmail.ID)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewUserRepository(db)
	email := fmt.Sprintf("dup%d@example.com", time.Now().UnixNano())
	req := &models.UserCreateRequest{Email: email, Name: "Dup Test", Role: models.RoleAttendee}

	if _, err := repo.Create(req, "hashedpassword"); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	if _, err := repo.Create(req, "hashedpassword"); err != models.ErrDuplicateEntry {
		t.Errorf("Expected ErrDuplicateEntry, got %v", err)
	}
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewUserRepository(db)
	if _, err := repo.GetByID(999999999); err != models.ErrUserNotFound {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
