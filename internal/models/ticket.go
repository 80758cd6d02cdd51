package models

import (
	"errors"
	"math"
	"time"
)

// TicketStatus represents the status of a ticket ledger entry
type TicketStatus string

const (
	TicketActive   TicketStatus = "active"
	TicketUsed     TicketStatus = "used"
	TicketRefunded TicketStatus = "refunded"
)

// PaymentStatus represents the payment state of a ticket ledger entry
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// PriceTolerance is the maximum absolute difference allowed between the
// client-declared total and the computed total. A difference of exactly
// this value still passes.
const PriceTolerance = 0.01

// Purchase quantity bounds per transaction
const (
	MinPurchaseQuantity = 1
	MaxPurchaseQuantity = 10
)

// Ticket represents one purchase transaction. A single ledger entry may
// cover multiple ticket units (Quantity).
type Ticket struct {
	ID               int           `json:"id" db:"id"`
	EventID          int           `json:"event_id" db:"event_id"`
	UserID           int           `json:"user_id" db:"user_id"`
	TicketType       string        `json:"ticket_type" db:"ticket_type"`
	Quantity         int           `json:"quantity" db:"quantity"`
	TotalPrice       float64       `json:"total_price" db:"total_price"`
	Status           TicketStatus  `json:"status" db:"status"`
	PaymentStatus    PaymentStatus `json:"payment_status" db:"payment_status"`
	ConfirmationCode string        `json:"confirmation_code" db:"confirmation_code"`
	PurchaseDate     time.Time     `json:"purchase_date" db:"purchase_date"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`

	// Related data
	Event *Event `json:"event,omitempty"`
}

// PurchaseRequest represents a request to purchase tickets for an event
type PurchaseRequest struct {
	EventID     int     `json:"event_id"`
	UserID      int     `json:"-"`
	TicketType  string  `json:"ticket_type"`
	Quantity    int     `json:"quantity"`
	TotalAmount float64 `json:"total_amount"`
}

// PurchaseResult is returned on a successful purchase
type PurchaseResult struct {
	ID               int           `json:"id"`
	ConfirmationCode string        `json:"confirmation_code"`
	Status           TicketStatus  `json:"status"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
}

// PaymentCompletionResult is returned when a pending payment is captured
type PaymentCompletionResult struct {
	ID               int           `json:"id"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	PaymentReference string        `json:"payment_reference"`
}

// Validate validates a purchase request's shape. Inventory, timing, and
// price checks belong to the purchase workflow, not here.
func (req *PurchaseRequest) Validate() error {
	if req.EventID <= 0 {
		return errors.New("event id is required")
	}

	if req.Quantity < MinPurchaseQuantity {
		return errors.New("quantity must be at least 1")
	}

	if req.Quantity > MaxPurchaseQuantity {
		return errors.New("maximum 10 tickets per purchase")
	}

	if req.TotalAmount < 0 {
		return errors.New("total amount must be non-negative")
	}

	return nil
}

// Validate validates the ticket data
func (t *Ticket) Validate() error {
	if t.EventID <= 0 {
		return errors.New("event id is required")
	}

	if t.UserID <= 0 {
		return errors.New("user id is required")
	}

	if t.TicketType == "" {
		return errors.New("ticket type is required")
	}

	if t.Quantity < 1 {
		return errors.New("quantity must be at least 1")
	}

	if t.TotalPrice < 0 {
		return errors.New("total price cannot be negative")
	}

	if err := validateTicketStatus(t.Status); err != nil {
		return err
	}

	return validatePaymentStatus(t.PaymentStatus)
}

// validateTicketStatus validates a ticket status
func validateTicketStatus(status TicketStatus) error {
	switch status {
	case TicketActive, TicketUsed, TicketRefunded:
		return nil
	default:
		return errors.New("invalid ticket status")
	}
}

// validatePaymentStatus validates a payment status
func validatePaymentStatus(status PaymentStatus) error {
	switch status {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return nil
	default:
		return errors.New("invalid payment status")
	}
}

// PriceMatches reports whether a client-declared total agrees with the
// expected total within PriceTolerance.
func PriceMatches(declared, expected float64) bool {
	return math.Abs(declared-expected) <= PriceTolerance
}

// IsActive returns true if the ticket is active
func (t *Ticket) IsActive() bool {
	return t.Status == TicketActive
}

// IsUsed returns true if the ticket has been used
func (t *Ticket) IsUsed() bool {
	return t.Status == TicketUsed
}

// IsRefunded returns true if the ticket has been refunded
func (t *Ticket) IsRefunded() bool {
	return t.Status == TicketRefunded
}

// IsPaid returns true if payment has been captured for the ticket
func (t *Ticket) IsPaid() bool {
	return t.PaymentStatus == PaymentCompleted
}

// CanCompletePayment returns true if the ticket's payment can still be
// captured
func (t *Ticket) CanCompletePayment() bool {
	return t.PaymentStatus != PaymentCompleted
}
