package models

import "errors"

// Common errors used throughout the application
var (
	ErrEventNotFound    = errors.New("event not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("insufficient permissions")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicateEntry   = errors.New("duplicate entry")

	// Purchase workflow errors
	ErrEventStarted        = errors.New("cannot purchase tickets for past events")
	ErrEventNotOnSale      = errors.New("event is not open for ticket sales")
	ErrInsufficientTickets = errors.New("insufficient tickets available")
	ErrDuplicatePurchase   = errors.New("user already has active tickets for this event")
	ErrPriceMismatch       = errors.New("total amount does not match ticket price")

	// Payment workflow errors
	ErrPaymentCompleted = errors.New("payment already completed")
)
