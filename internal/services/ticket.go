package services

import (
	"fmt"

	"eventtix/internal/models"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// TicketService handles the purchase workflow and ticket lookups
type TicketService struct {
	ticketRepo TicketRepository
	eventRepo  EventRepository
}

// NewTicketService creates a new ticket service
func NewTicketService(ticketRepo TicketRepository, eventRepo EventRepository) *TicketService {
	return &TicketService{
		ticketRepo: ticketRepo,
		eventRepo:  eventRepo,
	}
}

// PurchaseTicket runs the full purchase workflow: the request is validated
// for shape, the event is reloaded for authoritative inventory, the
// client-declared total is checked against the server-side price, and the
// purchase is committed atomically against the ticket type's sold count.
//
// All business checks run before any write, so a rejected purchase leaves
// the inventory untouched.
func (s *TicketService) PurchaseTicket(req *models.PurchaseRequest) (*models.PurchaseResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidInput, err)
	}

	event, err := s.eventRepo.GetByID(req.EventID)
	if err != nil {
		return nil, err
	}

	if !event.IsPublished() {
		return nil, models.ErrEventNotOnSale
	}
	if !event.IsUpcoming() {
		return nil, models.ErrEventStarted
	}

	availability := event.TicketAvailability()
	if availability.Available < req.Quantity {
		return nil, models.ErrInsufficientTickets
	}

	hasTicket, err := s.ticketRepo.HasActiveTicket(event.ID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing tickets: %w", err)
	}
	if hasTicket {
		return nil, models.ErrDuplicatePurchase
	}

	// The ticket type defaults to the first declared when the request
	// leaves it blank
	ticketType := event.FirstTicketType()
	if req.TicketType != "" {
		ticketType = event.TicketTypeByName(req.TicketType)
	}
	if ticketType == nil {
		return nil, models.ErrInvalidInput
	}

	expectedTotal := ticketType.Price * float64(req.Quantity)
	if !models.PriceMatches(req.TotalAmount, expectedTotal) {
		return nil, models.ErrPriceMismatch
	}

	// Free tickets need no payment step
	paymentStatus := models.PaymentPending
	if ticketType.Price == 0 {
		paymentStatus = models.PaymentCompleted
	}

	ticket, err := s.ticketRepo.CreatePurchase(
		event.ID, req.UserID, ticketType.Name, req.Quantity, expectedTotal, paymentStatus)
	if err != nil {
		return nil, err
	}

	return &models.PurchaseResult{
		ID:               ticket.ID,
		ConfirmationCode: ticket.ConfirmationCode,
		Status:           ticket.Status,
		PaymentStatus:    ticket.PaymentStatus,
	}, nil
}

// CompletePayment marks a pending ticket's payment as completed. The
// lookup is scoped to the given user, so a ticket owned by someone else
// reads as not found, and a payment can only be completed once.
func (s *TicketService) CompletePayment(ticketID, userID int) (*models.PaymentCompletionResult, error) {
	ticket, err := s.ticketRepo.GetByIDForUser(ticketID, userID)
	if err != nil {
		return nil, err
	}

	if !ticket.CanCompletePayment() {
		return nil, models.ErrPaymentCompleted
	}

	if err := s.ticketRepo.SetPaymentStatus(ticket.ID, models.PaymentCompleted); err != nil {
		return nil, err
	}

	return &models.PaymentCompletionResult{
		ID:               ticket.ID,
		PaymentStatus:    models.PaymentCompleted,
		PaymentReference: uuid.NewString(),
	}, nil
}

// GetUserTickets retrieves a user's tickets with their events attached
func (s *TicketService) GetUserTickets(userID int) ([]*models.Ticket, error) {
	return s.ticketRepo.GetByUser(userID)
}

// GetTicketForUser retrieves a ticket scoped to its owner; someone
// else's ticket reads as not found
func (s *TicketService) GetTicketForUser(ticketID, userID int) (*models.Ticket, error) {
	return s.ticketRepo.GetByIDForUser(ticketID, userID)
}

// VerifyTicket looks a ticket up by its confirmation code, the value
// encoded in the QR scanned at the gate. Unpaid tickets do not verify.
func (s *TicketService) VerifyTicket(code string) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.GetByConfirmationCode(code)
	if err != nil {
		return nil, err
	}
	if !ticket.IsPaid() {
		return nil, models.ErrTicketNotFound
	}
	return ticket, nil
}

// GetTicketQRCode renders a ticket's confirmation code as a PNG QR code
// for gate check-in. Only paid tickets get a code.
func (s *TicketService) GetTicketQRCode(ticketID, userID int, size int) ([]byte, error) {
	ticket, err := s.GetTicketForUser(ticketID, userID)
	if err != nil {
		return nil, err
	}
	if !ticket.IsPaid() {
		return nil, models.ErrInvalidInput
	}

	if size <= 0 {
		size = 256
	}

	png, err := qrcode.Encode(ticket.ConfirmationCode, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
