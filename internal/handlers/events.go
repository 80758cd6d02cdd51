package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"eventtix/internal/middleware"
	"eventtix/internal/models"
	"eventtix/internal/repositories"
	"eventtix/internal/services"
	"eventtix/internal/utils"

	"github.com/go-chi/chi/v5"
)

// EventHandler handles event catalog and organizer endpoints
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// eventListResponse wraps a page of events with pagination info
type eventListResponse struct {
	Events []*models.Event `json:"events"`
	Total  int             `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// List handles GET /api/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := repositories.EventSearchFilters{
		Query:     q.Get("q"),
		Category:  q.Get("category"),
		Price:     q.Get("price"),
		EventType: q.Get("type"),
		SortBy:    q.Get("sort"),
	}
	filters.Page, _ = strconv.Atoi(q.Get("page"))
	filters.Limit, _ = strconv.Atoi(q.Get("limit"))
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 10
	}

	events, total, err := h.eventService.SearchEvents(filters)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, eventListResponse{
		Events: events,
		Total:  total,
		Page:   filters.Page,
		Limit:  filters.Limit,
	})
}

// GetBySlug handles GET /api/events/{slug}
func (h *EventHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventService.GetEventBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, struct {
		*models.Event
		Availability models.Availability `json:"availability"`
	}{event, event.TicketAvailability()})
}

// Create handles POST /api/organizer/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.EventCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	event, err := h.eventService.CreateEvent(&req, middleware.GetUserFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, event)
}

// Update handles PUT /api/organizer/events/{id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "validation_error", "invalid event id")
		return
	}

	var req models.EventUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	event, err := h.eventService.UpdateEvent(eventID, &req, middleware.GetUserFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, event)
}

// Cancel handles DELETE /api/organizer/events/{id}
func (h *EventHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "validation_error", "invalid event id")
		return
	}

	if err := h.eventService.CancelEvent(eventID, middleware.GetUserFromContext(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMine handles GET /api/organizer/events
func (h *EventHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.GetOrganizerEvents(middleware.GetUserFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

// ListCategories handles GET /api/categories
func (h *EventHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.eventService.ListCategories()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// ListLocations handles GET /api/locations
func (h *EventHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, virtualCount, err := h.eventService.ListLocations()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"locations":     locations,
		"virtual_count": virtualCount,
	})
}
