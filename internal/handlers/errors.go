package handlers

import (
	"errors"
	"log"
	"net/http"

	"eventtix/internal/models"
	"eventtix/internal/utils"
)

// errorMapping binds a sentinel error to a stable response kind and an
// HTTP status
type errorMapping struct {
	status int
	kind   string
}

var errorMappings = []struct {
	err     error
	mapping errorMapping
}{
	{models.ErrEventNotFound, errorMapping{http.StatusNotFound, "not_found"}},
	{models.ErrUserNotFound, errorMapping{http.StatusNotFound, "not_found"}},
	{models.ErrTicketNotFound, errorMapping{http.StatusNotFound, "not_found"}},
	{models.ErrCategoryNotFound, errorMapping{http.StatusNotFound, "not_found"}},
	{models.ErrUnauthorized, errorMapping{http.StatusUnauthorized, "unauthorized"}},
	{models.ErrForbidden, errorMapping{http.StatusForbidden, "forbidden"}},
	{models.ErrInvalidInput, errorMapping{http.StatusBadRequest, "validation_error"}},
	{models.ErrDuplicateEntry, errorMapping{http.StatusConflict, "duplicate_entry"}},
	{models.ErrEventStarted, errorMapping{http.StatusConflict, "invalid_state"}},
	{models.ErrEventNotOnSale, errorMapping{http.StatusConflict, "invalid_state"}},
	{models.ErrInsufficientTickets, errorMapping{http.StatusConflict, "insufficient_inventory"}},
	{models.ErrDuplicatePurchase, errorMapping{http.StatusConflict, "duplicate_purchase"}},
	{models.ErrPriceMismatch, errorMapping{http.StatusConflict, "price_mismatch"}},
	{models.ErrPaymentCompleted, errorMapping{http.StatusConflict, "already_completed"}},
}

// writeServiceError translates a service error into a JSON error
// response. Unrecognized errors are logged and returned as opaque 500s so
// internals never leak to clients.
func writeServiceError(w http.ResponseWriter, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			utils.WriteError(w, m.mapping.status, m.mapping.kind, err.Error())
			return
		}
	}

	log.Printf("internal error: %v", err)
	utils.WriteError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
}
