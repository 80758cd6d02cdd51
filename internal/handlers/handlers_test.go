package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"eventtix/internal/middleware"
	"eventtix/internal/models"
	"eventtix/internal/repositories"
	"eventtix/internal/services"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repositories backing the full handler stack

type memStore struct {
	users      map[int]*models.User
	events     map[int]*models.Event
	tickets    map[int]*models.Ticket
	categories map[int]*models.Category
	nextID     int
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[int]*models.User),
		events:     make(map[int]*models.Event),
		tickets:    make(map[int]*models.Ticket),
		categories: make(map[int]*models.Category),
		nextID:     1,
	}
}

func (s *memStore) id() int {
	id := s.nextID
	s.nextID++
	return id
}

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(req *models.UserCreateRequest, passwordHash string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Email == req.Email {
			return nil, models.ErrDuplicateEntry
		}
	}
	user := &models.User{ID: r.s.id(), Email: req.Email, PasswordHash: passwordHash, Name: req.Name, Role: req.Role}
	r.s.users[user.ID] = user
	return user, nil
}

func (r *memUserRepo) GetByID(id int) (*models.User, error) {
	user, ok := r.s.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

type memCategoryRepo struct{ s *memStore }

func (r *memCategoryRepo) Create(req *models.CategoryCreateRequest) (*models.Category, error) {
	category := &models.Category{ID: r.s.id(), Name: req.Name, Slug: req.Slug}
	r.s.categories[category.ID] = category
	return category, nil
}

func (r *memCategoryRepo) GetByID(id int) (*models.Category, error) {
	category, ok := r.s.categories[id]
	if !ok {
		return nil, models.ErrCategoryNotFound
	}
	return category, nil
}

func (r *memCategoryRepo) GetByName(name string) (*models.Category, error) {
	for _, c := range r.s.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

func (r *memCategoryRepo) GetBySlug(slug string) (*models.Category, error) {
	for _, c := range r.s.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

func (r *memCategoryRepo) List() ([]*models.Category, error) {
	var result []*models.Category
	for _, c := range r.s.categories {
		result = append(result, c)
	}
	return result, nil
}

type memEventRepo struct{ s *memStore }

func (r *memEventRepo) Create(req *models.EventCreateRequest, organizerID, categoryID int, slug string) (*models.Event, error) {
	event := &models.Event{
		ID:          r.s.id(),
		Slug:        slug,
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
		Status:      req.Status,
		OrganizerID: organizerID,
		CategoryID:  categoryID,
	}
	for i, tt := range req.TicketTypes {
		event.TicketTypes = append(event.TicketTypes, &models.TicketType{
			EventID: event.ID, Name: tt.Name, Price: tt.Price, Quantity: tt.Quantity, Position: i,
		})
	}
	r.s.events[event.ID] = event
	return event, nil
}

func (r *memEventRepo) GetByID(id int) (*models.Event, error) {
	event, ok := r.s.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	return event, nil
}

func (r *memEventRepo) GetBySlug(slug string) (*models.Event, error) {
	for _, e := range r.s.events {
		if e.Slug == slug && e.IsPublished() {
			return e, nil
		}
	}
	return nil, models.ErrEventNotFound
}

func (r *memEventRepo) SlugExists(slug string, excludeEventID int) (bool, error) {
	for _, e := range r.s.events {
		if e.Slug == slug && e.ID != excludeEventID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memEventRepo) Update(id int, req *models.EventUpdateRequest, categoryID int, slug string) (*models.Event, error) {
	event, ok := r.s.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	event.Title = req.Title
	event.Slug = slug
	event.Status = req.Status
	return event, nil
}

func (r *memEventRepo) UpdateStatus(id int, status models.EventStatus) error {
	event, ok := r.s.events[id]
	if !ok {
		return models.ErrEventNotFound
	}
	event.Status = status
	return nil
}

func (r *memEventRepo) GetByOrganizer(organizerID int) ([]*models.Event, error) {
	var result []*models.Event
	for _, e := range r.s.events {
		if e.OrganizerID == organizerID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *memEventRepo) Search(filters repositories.EventSearchFilters) ([]*models.Event, int, error) {
	var result []*models.Event
	for _, e := range r.s.events {
		if e.IsPublished() {
			result = append(result, e)
		}
	}
	return result, len(result), nil
}

func (r *memEventRepo) ListLocations() ([]string, int, error) { return nil, 0, nil }

type memTicketRepo struct{ s *memStore }

func (r *memTicketRepo) CreatePurchase(eventID, userID int, ticketType string, quantity int, totalPrice float64, paymentStatus models.PaymentStatus) (*models.Ticket, error) {
	event, ok := r.s.events[eventID]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	tt := event.TicketTypeByName(ticketType)
	if tt == nil || tt.Sold+quantity > tt.Quantity {
		return nil, models.ErrInsufficientTickets
	}
	tt.Sold += quantity

	ticket := &models.Ticket{
		ID:               r.s.id(),
		EventID:          eventID,
		UserID:           userID,
		TicketType:       ticketType,
		Quantity:         quantity,
		TotalPrice:       totalPrice,
		Status:           models.TicketActive,
		PaymentStatus:    paymentStatus,
		ConfirmationCode: fmt.Sprintf("TESTCODE%04d", r.s.nextID),
		PurchaseDate:     time.Now(),
	}
	r.s.tickets[ticket.ID] = ticket
	return ticket, nil
}

func (r *memTicketRepo) GetByID(id int) (*models.Ticket, error) {
	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, models.ErrTicketNotFound
	}
	return ticket, nil
}

func (r *memTicketRepo) GetByIDForUser(id, userID int) (*models.Ticket, error) {
	ticket, ok := r.s.tickets[id]
	if !ok || ticket.UserID != userID {
		return nil, models.ErrTicketNotFound
	}
	return ticket, nil
}

func (r *memTicketRepo) GetByConfirmationCode(code string) (*models.Ticket, error) {
	for _, t := range r.s.tickets {
		if t.ConfirmationCode == code {
			return t, nil
		}
	}
	return nil, models.ErrTicketNotFound
}

func (r *memTicketRepo) GetByUser(userID int) ([]*models.Ticket, error) {
	var result []*models.Ticket
	for _, t := range r.s.tickets {
		if t.UserID == userID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (r *memTicketRepo) HasActiveTicket(eventID, userID int) (bool, error) {
	for _, t := range r.s.tickets {
		if t.EventID == eventID && t.UserID == userID && t.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *memTicketRepo) SetPaymentStatus(id int, status models.PaymentStatus) error {
	ticket, ok := r.s.tickets[id]
	if !ok {
		return models.ErrTicketNotFound
	}
	ticket.PaymentStatus = status
	return nil
}

// newTestServer wires the whole handler stack over in-memory storage
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := newMemStore()
	sessionStore := sessions.NewCookieStore([]byte("test-session-secret"))

	authService := services.NewAuthService(&memUserRepo{store})
	eventService := services.NewEventService(&memEventRepo{store}, &memCategoryRepo{store})
	ticketService := services.NewTicketService(&memTicketRepo{store}, &memEventRepo{store})

	router := NewRouter(RouterDeps{
		Auth:    NewAuthHandler(authService, sessionStore),
		Events:  NewEventHandler(eventService),
		Tickets: NewTicketHandler(ticketService),
		AuthMW:  middleware.NewAuthMiddleware(authService, sessionStore),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// client wraps an http.Client with a cookie jar and JSON helpers
type client struct {
	t      *testing.T
	http   *http.Client
	server *httptest.Server
}

func newClient(t *testing.T, server *httptest.Server) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, http: &http.Client{Jar: jar}, server: server}
}

func (c *client) do(method, path string, body interface{}) *http.Response {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.server.URL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	return resp
}

func (c *client) decode(resp *http.Response, into interface{}) {
	c.t.Helper()
	defer resp.Body.Close()
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(into))
}

func (c *client) register(email string, role models.UserRole) {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/api/auth/register", map[string]interface{}{
		"email":    email,
		"password": "a strong password",
		"name":     "Test User",
		"role":     role,
	})
	defer resp.Body.Close()
	require.Equal(c.t, http.StatusCreated, resp.StatusCode)
}

func futureEventRequest() map[string]interface{} {
	start := time.Now().Add(72 * time.Hour)
	return map[string]interface{}{
		"title":       "Launch Party",
		"description": "Celebrating the launch",
		"start_date":  start,
		"end_date":    start.Add(3 * time.Hour),
		"location":    "Nairobi",
		"capacity":    200,
		"category":    "Music",
		"status":      "published",
		"ticket_types": []map[string]interface{}{
			{"name": "General", "price": 25.0, "quantity": 10},
		},
	}
}

func TestPurchaseFlow(t *testing.T) {
	server := newTestServer(t)

	organizer := newClient(t, server)
	organizer.register("organizer@example.com", models.RoleOrganizer)

	var event models.Event
	resp := organizer.do(http.MethodPost, "/api/organizer/events", futureEventRequest())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	organizer.decode(resp, &event)
	require.NotZero(t, event.ID)

	attendee := newClient(t, server)
	attendee.register("attendee@example.com", models.RoleAttendee)

	var purchase models.PurchaseResult
	resp = attendee.do(http.MethodPost, "/api/tickets/purchase", map[string]interface{}{
		"event_id":     event.ID,
		"quantity":     2,
		"total_amount": 50.0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	attendee.decode(resp, &purchase)
	assert.NotEmpty(t, purchase.ConfirmationCode)
	assert.Equal(t, models.PaymentPending, purchase.PaymentStatus)

	// Complete the payment
	var completion models.PaymentCompletionResult
	resp = attendee.do(http.MethodPost, fmt.Sprintf("/api/tickets/%d/complete-payment", purchase.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	attendee.decode(resp, &completion)
	assert.Equal(t, models.PaymentCompleted, completion.PaymentStatus)

	// A second completion is rejected with a stable error kind
	resp = attendee.do(http.MethodPost, fmt.Sprintf("/api/tickets/%d/complete-payment", purchase.ID), nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var errBody struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	attendee.decode(resp, &errBody)
	assert.Equal(t, "already_completed", errBody.Error.Kind)

	// The paid ticket renders a QR code
	resp = attendee.do(http.MethodGet, fmt.Sprintf("/api/tickets/%d/qr", purchase.ID), nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestPurchaseRequiresAuth(t *testing.T) {
	server := newTestServer(t)
	anonymous := newClient(t, server)

	resp := anonymous.do(http.MethodPost, "/api/tickets/purchase", map[string]interface{}{
		"event_id": 1, "quantity": 1, "total_amount": 25.0,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOrganizerRoutesRejectAttendees(t *testing.T) {
	server := newTestServer(t)

	attendee := newClient(t, server)
	attendee.register("fan@example.com", models.RoleAttendee)

	resp := attendee.do(http.MethodPost, "/api/organizer/events", futureEventRequest())
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestEventListIsPublic(t *testing.T) {
	server := newTestServer(t)

	organizer := newClient(t, server)
	organizer.register("host@example.com", models.RoleOrganizer)
	resp := organizer.do(http.MethodPost, "/api/organizer/events", futureEventRequest())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	anonymous := newClient(t, server)
	resp = anonymous.do(http.MethodGet, "/api/events", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Events []*models.Event `json:"events"`
		Total  int             `json:"total"`
	}
	anonymous.decode(resp, &list)
	assert.Equal(t, 1, list.Total)
	assert.Len(t, list.Events, 1)
}

func TestPurchaseRejectsPriceMismatch(t *testing.T) {
	server := newTestServer(t)

	organizer := newClient(t, server)
	organizer.register("promoter@example.com", models.RoleOrganizer)
	var event models.Event
	resp := organizer.do(http.MethodPost, "/api/organizer/events", futureEventRequest())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	organizer.decode(resp, &event)

	attendee := newClient(t, server)
	attendee.register("bargain@example.com", models.RoleAttendee)

	resp = attendee.do(http.MethodPost, "/api/tickets/purchase", map[string]interface{}{
		"event_id":     event.ID,
		"quantity":     2,
		"total_amount": 10.0,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var errBody struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	attendee.decode(resp, &errBody)
	assert.Equal(t, "price_mismatch", errBody.Error.Kind)
}
