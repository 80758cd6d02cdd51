package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"eventtix/internal/models"
)

type mockCategoryRepository struct {
	categories map[int]*models.Category
	nextID     int
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{
		categories: make(map[int]*models.Category),
		nextID:     1,
	}
}

func (m *mockCategoryRepository) Create(req *models.CategoryCreateRequest) (*models.Category, error) {
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, req.Name) {
			return nil, models.ErrDuplicateEntry
		}
	}
	category := &models.Category{
		ID:        m.nextID,
		Name:      req.Name,
		Slug:      req.Slug,
		CreatedAt: time.Now(),
	}
	m.categories[m.nextID] = category
	m.nextID++
	return category, nil
}

func (m *mockCategoryRepository) GetByID(id int) (*models.Category, error) {
	category, exists := m.categories[id]
	if !exists {
		return nil, models.ErrCategoryNotFound
	}
	return category, nil
}

func (m *mockCategoryRepository) GetByName(name string) (*models.Category, error) {
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

func (m *mockCategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	for _, c := range m.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

func (m *mockCategoryRepository) List() ([]*models.Category, error) {
	var result []*models.Category
	for _, c := range m.categories {
		result = append(result, c)
	}
	return result, nil
}

func testOrganizer() *models.User {
	return &models.User{ID: 1, Email: "organizer@example.com", Name: "Org", Role: models.RoleOrganizer}
}

func testAttendee() *models.User {
	return &models.User{ID: 2, Email: "attendee@example.com", Name: "Fan", Role: models.RoleAttendee}
}

func newTestEventService() (*EventService, *mockEventRepository, *mockCategoryRepository) {
	eventRepo := newMockEventRepository()
	categoryRepo := newMockCategoryRepository()
	return NewEventService(eventRepo, categoryRepo), eventRepo, categoryRepo
}

func validCreateRequest() *models.EventCreateRequest {
	start := time.Now().Add(72 * time.Hour)
	return &models.EventCreateRequest{
		Title:       "Jazz Night",
		Description: "An evening of live jazz",
		StartDate:   start,
		EndDate:     start.Add(4 * time.Hour),
		Location:    "Mombasa",
		Capacity:    300,
		Category:    "Music",
		Status:      models.StatusPublished,
		TicketTypes: []models.TicketTypeInput{
			{Name: "General", Price: 15, Quantity: 200},
		},
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	service, _, categoryRepo := newTestEventService()

	event, err := service.CreateEvent(validCreateRequest(), testOrganizer())
	if err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}

	if event.Slug != "jazz-night" {
		t.Errorf("Expected slug jazz-night, got %s", event.Slug)
	}

	// The category is created on first use
	category, err := categoryRepo.GetByName("Music")
	if err != nil {
		t.Fatalf("Expected Music category to exist: %v", err)
	}
	if event.CategoryID != category.ID {
		t.Errorf("Expected event bound to category %d, got %d", category.ID, event.CategoryID)
	}
}

func TestEventService_CreateEvent_DefaultTicketType(t *testing.T) {
	service, _, _ := newTestEventService()

	// No ticket types declared: one is seeded from price and capacity
	req := validCreateRequest()
	req.TicketTypes = nil
	req.TicketPrice = 20

	event, err := service.CreateEvent(req, testOrganizer())
	if err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}
	if len(event.TicketTypes) != 1 {
		t.Fatalf("Expected 1 seeded ticket type, got %d", len(event.TicketTypes))
	}
	tt := event.TicketTypes[0]
	if tt.Name != "General Admission" || tt.Price != 20 || tt.Quantity != 300 {
		t.Errorf("Unexpected seeded ticket type: %+v", tt)
	}

	// A free event gets a "Free" type
	freeReq := validCreateRequest()
	freeReq.Title = "Free Jazz Night"
	freeReq.TicketTypes = nil

	event, err = service.CreateEvent(freeReq, testOrganizer())
	if err != nil {
		t.Fatalf("Failed to create free event: %v", err)
	}
	if len(event.TicketTypes) != 1 || event.TicketTypes[0].Name != "Free" {
		t.Errorf("Expected a single Free ticket type, got %+v", event.TicketTypes)
	}
}

func TestEventService_CreateEvent_AttendeeForbidden(t *testing.T) {
	service, _, _ := newTestEventService()

	_, err := service.CreateEvent(validCreateRequest(), testAttendee())
	if err != models.ErrForbidden {
		t.Errorf("Expected ErrForbidden for attendee, got %v", err)
	}
}

func TestEventService_CreateEvent_SlugCollision(t *testing.T) {
	service, _, _ := newTestEventService()
	organizer := testOrganizer()

	first, err := service.CreateEvent(validCreateRequest(), organizer)
	if err != nil {
		t.Fatalf("Failed to create first event: %v", err)
	}
	second, err := service.CreateEvent(validCreateRequest(), organizer)
	if err != nil {
		t.Fatalf("Failed to create second event: %v", err)
	}
	third, err := service.CreateEvent(validCreateRequest(), organizer)
	if err != nil {
		t.Fatalf("Failed to create third event: %v", err)
	}

	if first.Slug != "jazz-night" || second.Slug != "jazz-night-2" || third.Slug != "jazz-night-3" {
		t.Errorf("Expected suffixed slugs, got %s, %s, %s", first.Slug, second.Slug, third.Slug)
	}
}

func TestEventService_CreateEvent_ReusesExistingCategory(t *testing.T) {
	service, _, categoryRepo := newTestEventService()
	organizer := testOrganizer()

	if _, err := service.CreateEvent(validCreateRequest(), organizer); err != nil {
		t.Fatalf("Failed to create first event: %v", err)
	}

	req := validCreateRequest()
	req.Title = "Blues Evening"
	req.Category = "music" // Case-insensitive match
	if _, err := service.CreateEvent(req, organizer); err != nil {
		t.Fatalf("Failed to create second event: %v", err)
	}

	if len(categoryRepo.categories) != 1 {
		t.Errorf("Expected 1 category, got %d", len(categoryRepo.categories))
	}
}

func TestEventService_UpdateEvent_Ownership(t *testing.T) {
	service, _, _ := newTestEventService()
	organizer := testOrganizer()

	event, err := service.CreateEvent(validCreateRequest(), organizer)
	if err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}

	other := &models.User{ID: 99, Role: models.RoleOrganizer}
	updateReq := &models.EventUpdateRequest{
		Title:       event.Title,
		Description: event.Description,
		StartDate:   event.StartDate,
		EndDate:     event.EndDate,
		Location:    event.Location,
		Capacity:    300,
		Status:      event.Status,
		TicketTypes: []models.TicketTypeInput{{Name: "General", Price: 15, Quantity: 200}},
	}

	if _, err := service.UpdateEvent(event.ID, updateReq, other); err != models.ErrForbidden {
		t.Errorf("Expected ErrForbidden for non-owner, got %v", err)
	}
}

func TestEventService_UpdateEvent_InvalidStatusTransition(t *testing.T) {
	service, _, _ := newTestEventService()
	organizer := testOrganizer()

	event, err := service.CreateEvent(validCreateRequest(), organizer)
	if err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}

	// Published events cannot go back to draft
	updateReq := &models.EventUpdateRequest{
		Title:       event.Title,
		Description: event.Description,
		StartDate:   event.StartDate,
		EndDate:     event.EndDate,
		Location:    event.Location,
		Capacity:    300,
		Status:      models.StatusDraft,
		TicketTypes: []models.TicketTypeInput{{Name: "General", Price: 15, Quantity: 200}},
	}

	_, err = service.UpdateEvent(event.ID, updateReq, organizer)
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for published to draft, got %v", err)
	}
}

func TestEventService_CancelEvent(t *testing.T) {
	service, eventRepo, _ := newTestEventService()
	organizer := testOrganizer()

	event, err := service.CreateEvent(validCreateRequest(), organizer)
	if err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}

	if err := service.CancelEvent(event.ID, organizer); err != nil {
		t.Fatalf("Failed to cancel event: %v", err)
	}

	// Cancellation is soft: the event row survives
	cancelled, err := eventRepo.GetByID(event.ID)
	if err != nil {
		t.Fatalf("Expected cancelled event to remain readable: %v", err)
	}
	if !cancelled.IsCancelled() {
		t.Errorf("Expected cancelled status, got %s", cancelled.Status)
	}

	// Cancelling twice is a no-op
	if err := service.CancelEvent(event.ID, organizer); err != nil {
		t.Errorf("Expected repeated cancel to succeed, got %v", err)
	}

	if err := service.CancelEvent(event.ID, testAttendee()); err != models.ErrForbidden {
		t.Errorf("Expected ErrForbidden for non-owner cancel, got %v", err)
	}
}
