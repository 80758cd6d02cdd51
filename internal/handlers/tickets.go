package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"eventtix/internal/middleware"
	"eventtix/internal/models"
	"eventtix/internal/services"
	"eventtix/internal/utils"

	"github.com/go-chi/chi/v5"
)

// TicketHandler handles purchase and ticket endpoints
type TicketHandler struct {
	ticketService *services.TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketService *services.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// Purchase handles POST /api/tickets/purchase
func (h *TicketHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req models.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	// The buyer is always the session user, never the request body
	req.UserID = middleware.GetUserFromContext(r.Context()).ID

	result, err := h.ticketService.PurchaseTicket(&req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, result)
}

// CompletePayment handles POST /api/tickets/{id}/complete-payment
func (h *TicketHandler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	ticketID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "validation_error", "invalid ticket id")
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	result, err := h.ticketService.CompletePayment(ticketID, user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

// ListMine handles GET /api/tickets
func (h *TicketHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	tickets, err := h.ticketService.GetUserTickets(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"tickets": tickets})
}

// Get handles GET /api/tickets/{id}
func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	ticketID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "validation_error", "invalid ticket id")
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	ticket, err := h.ticketService.GetTicketForUser(ticketID, user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, ticket)
}

// Verify handles GET /api/organizer/tickets/{code}. Gate staff scan the
// QR code and look the ticket up by its confirmation code.
func (h *TicketHandler) Verify(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.ticketService.VerifyTicket(chi.URLParam(r, "code"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, ticket)
}

// QRCode handles GET /api/tickets/{id}/qr
func (h *TicketHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	ticketID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "validation_error", "invalid ticket id")
		return
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	user := middleware.GetUserFromContext(r.Context())
	png, err := h.ticketService.GetTicketQRCode(ticketID, user.ID, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
