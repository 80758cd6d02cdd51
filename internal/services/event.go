package services

import (
	"fmt"

	"eventtix/internal/models"
	"eventtix/internal/repositories"
)

// EventService handles event lifecycle and discovery logic
type EventService struct {
	eventRepo    EventRepository
	categoryRepo CategoryRepository
}

// NewEventService creates a new event service
func NewEventService(eventRepo EventRepository, categoryRepo CategoryRepository) *EventService {
	return &EventService{
		eventRepo:    eventRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateEvent creates an event for an organizer. The category is created
// on first use, and the slug gets a numeric suffix when the title
// collides with an existing event.
func (s *EventService) CreateEvent(req *models.EventCreateRequest, organizer *models.User) (*models.Event, error) {
	if !organizer.IsOrganizer() {
		return nil, models.ErrForbidden
	}
	req.DefaultTicketTypes()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidInput, err)
	}

	categoryID, err := s.resolveCategory(req.Category)
	if err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(req.Title, 0)
	if err != nil {
		return nil, err
	}

	return s.eventRepo.Create(req, organizer.ID, categoryID, slug)
}

// UpdateEvent updates an event owned by the organizer. Status changes are
// validated against the lifecycle rules.
func (s *EventService) UpdateEvent(eventID int, req *models.EventUpdateRequest, organizer *models.User) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizer.ID {
		return nil, models.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidInput, err)
	}

	if req.Status != event.Status && !event.CanTransitionTo(req.Status) {
		return nil, fmt.Errorf("%w: cannot move event from %s to %s",
			models.ErrInvalidInput, event.Status, req.Status)
	}

	categoryID, err := s.resolveCategory(req.Category)
	if err != nil {
		return nil, err
	}

	slug := event.Slug
	if req.Title != event.Title {
		slug, err = s.uniqueSlug(req.Title, event.ID)
		if err != nil {
			return nil, err
		}
	}

	return s.eventRepo.Update(event.ID, req, categoryID, slug)
}

// CancelEvent cancels an event owned by the organizer. Cancellation is a
// soft delete: the event row and its ticket ledger stay intact.
func (s *EventService) CancelEvent(eventID int, organizer *models.User) error {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != organizer.ID {
		return models.ErrForbidden
	}
	if event.IsCancelled() {
		return nil
	}
	return s.eventRepo.UpdateStatus(event.ID, models.StatusCancelled)
}

// GetEvent retrieves an event by ID
func (s *EventService) GetEvent(id int) (*models.Event, error) {
	return s.eventRepo.GetByID(id)
}

// GetEventBySlug retrieves a published event by slug
func (s *EventService) GetEventBySlug(slug string) (*models.Event, error) {
	return s.eventRepo.GetBySlug(slug)
}

// GetOrganizerEvents retrieves all events owned by an organizer
func (s *EventService) GetOrganizerEvents(organizer *models.User) ([]*models.Event, error) {
	return s.eventRepo.GetByOrganizer(organizer.ID)
}

// SearchEvents searches published events with filters and pagination
func (s *EventService) SearchEvents(filters repositories.EventSearchFilters) ([]*models.Event, int, error) {
	return s.eventRepo.Search(filters)
}

// ListCategories returns all categories
func (s *EventService) ListCategories() ([]*models.Category, error) {
	return s.categoryRepo.List()
}

// ListLocations returns the distinct locations of published in-person
// events and a count of published virtual events
func (s *EventService) ListLocations() ([]string, int, error) {
	return s.eventRepo.ListLocations()
}

// resolveCategory finds a category by name, creating it on first use.
// An empty name means no category.
func (s *EventService) resolveCategory(name string) (int, error) {
	if name == "" {
		return 0, nil
	}

	category, err := s.categoryRepo.GetByName(name)
	if err == nil {
		return category.ID, nil
	}
	if err != models.ErrCategoryNotFound {
		return 0, err
	}

	category, err = s.categoryRepo.Create(&models.CategoryCreateRequest{
		Name: name,
		Slug: models.Slugify(name),
	})
	if err != nil {
		// Lost a race with a concurrent create
		if err == models.ErrDuplicateEntry {
			if existing, lookupErr := s.categoryRepo.GetByName(name); lookupErr == nil {
				return existing.ID, nil
			}
		}
		return 0, err
	}
	return category.ID, nil
}

// uniqueSlug derives a slug from the title, appending -2, -3, ... until
// it is free. excludeEventID lets an event keep its own slug on update.
func (s *EventService) uniqueSlug(title string, excludeEventID int) (string, error) {
	base := models.Slugify(title)
	slug := base
	for i := 2; ; i++ {
		taken, err := s.eventRepo.SlugExists(slug, excludeEventID)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
