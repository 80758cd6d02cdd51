package services

import (
	"eventtix/internal/models"
	"eventtix/internal/repositories"
)

// EventRepository interface for event data operations
type EventRepository interface {
	Create(req *models.EventCreateRequest, organizerID, categoryID int, slug string) (*models.Event, error)
	GetByID(id int) (*models.Event, error)
	GetBySlug(slug string) (*models.Event, error)
	SlugExists(slug string, excludeEventID int) (bool, error)
	Update(id int, req *models.EventUpdateRequest, categoryID int, slug string) (*models.Event, error)
	UpdateStatus(id int, status models.EventStatus) error
	GetByOrganizer(organizerID int) ([]*models.Event, error)
	Search(filters repositories.EventSearchFilters) ([]*models.Event, int, error)
	ListLocations() ([]string, int, error)
}

// TicketRepository interface for ticket data operations
type TicketRepository interface {
	CreatePurchase(eventID, userID int, ticketType string, quantity int, totalPrice float64, paymentStatus models.PaymentStatus) (*models.Ticket, error)
	GetByIDForUser(id, userID int) (*models.Ticket, error)
	GetByConfirmationCode(code string) (*models.Ticket, error)
	GetByUser(userID int) ([]*models.Ticket, error)
	HasActiveTicket(eventID, userID int) (bool, error)
	SetPaymentStatus(id int, status models.PaymentStatus) error
}

// UserRepository interface for user data operations
type UserRepository interface {
	Create(req *models.UserCreateRequest, passwordHash string) (*models.User, error)
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// CategoryRepository interface for category data operations
type CategoryRepository interface {
	Create(req *models.CategoryCreateRequest) (*models.Category, error)
	GetByID(id int) (*models.Category, error)
	GetByName(name string) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	List() ([]*models.Category, error)
}
