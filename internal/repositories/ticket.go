package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"eventtix/internal/models"
	"eventtix/internal/utils"

	"github.com/lib/pq"
)

// TicketRepository handles ticket data operations
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const maxConfirmationCodeAttempts = 5

// CreatePurchase records a purchase in a single transaction: the ticket
// type's sold count is incremented only if enough inventory remains, and
// the ticket row is inserted against the same transaction so a failure of
// either leaves no trace.
//
// Inventory is guarded by the conditional UPDATE rather than a
// read-then-write: concurrent purchases of the last tickets serialize on
// the row and the losers see zero rows affected. The partial unique index
// on (event_id, user_id) for active tickets backstops the duplicate check
// done at the service layer.
func (r *TicketRepository) CreatePurchase(eventID, userID int, ticketType string, quantity int, totalPrice float64, paymentStatus models.PaymentStatus) (*models.Ticket, error) {
	for attempt := 0; attempt < maxConfirmationCodeAttempts; attempt++ {
		code, err := utils.GenerateConfirmationCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate confirmation code: %w", err)
		}

		ticket, err := r.createPurchaseTx(eventID, userID, ticketType, quantity, totalPrice, paymentStatus, code)
		if err == errConfirmationCodeTaken {
			continue
		}
		return ticket, err
	}
	return nil, fmt.Errorf("failed to allocate a unique confirmation code after %d attempts", maxConfirmationCodeAttempts)
}

// errConfirmationCodeTaken signals a retry with a fresh code
var errConfirmationCodeTaken = fmt.Errorf("confirmation code already taken")

func (r *TicketRepository) createPurchaseTx(eventID, userID int, ticketType string, quantity int, totalPrice float64, paymentStatus models.PaymentStatus, code string) (*models.Ticket, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE ticket_types
		SET sold = sold + $3
		WHERE event_id = $1 AND name = $2 AND sold + $3 <= quantity`,
		eventID, ticketType, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update sold count: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, models.ErrInsufficientTickets
	}

	now := time.Now()
	ticket := &models.Ticket{
		EventID:          eventID,
		UserID:           userID,
		TicketType:       ticketType,
		Quantity:         quantity,
		TotalPrice:       totalPrice,
		Status:           models.TicketActive,
		PaymentStatus:    paymentStatus,
		ConfirmationCode: code,
		PurchaseDate:     now,
	}

	err = tx.QueryRow(`
		INSERT INTO tickets (event_id, user_id, ticket_type, quantity, total_price,
			status, payment_status, confirmation_code, purchase_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		ticket.EventID,
		ticket.UserID,
		ticket.TicketType,
		ticket.Quantity,
		ticket.TotalPrice,
		ticket.Status,
		ticket.PaymentStatus,
		ticket.ConfirmationCode,
		ticket.PurchaseDate,
		now,
		now,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "idx_tickets_active_per_user_event":
				return nil, models.ErrDuplicatePurchase
			default:
				return nil, errConfirmationCodeTaken
			}
		}
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	return ticket, nil
}

// GetByID retrieves a ticket by ID
func (r *TicketRepository) GetByID(id int) (*models.Ticket, error) {
	query := `
		SELECT id, event_id, user_id, ticket_type, quantity, total_price,
			status, payment_status, confirmation_code, purchase_date, created_at, updated_at
		FROM tickets WHERE id = $1`

	ticket, err := scanTicket(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return ticket, nil
}

// GetByIDForUser retrieves a ticket by ID, scoped to its owner. Someone
// else's ticket is indistinguishable from a missing one, so ticket ids
// never leak across users.
func (r *TicketRepository) GetByIDForUser(id, userID int) (*models.Ticket, error) {
	query := `
		SELECT id, event_id, user_id, ticket_type, quantity, total_price,
			status, payment_status, confirmation_code, purchase_date, created_at, updated_at
		FROM tickets WHERE id = $1 AND user_id = $2`

	ticket, err := scanTicket(r.db.QueryRow(query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return ticket, nil
}

// GetByConfirmationCode retrieves a ticket by its confirmation code
func (r *TicketRepository) GetByConfirmationCode(code string) (*models.Ticket, error) {
	query := `
		SELECT id, event_id, user_id, ticket_type, quantity, total_price,
			status, payment_status, confirmation_code, purchase_date, created_at, updated_at
		FROM tickets WHERE confirmation_code = $1`

	ticket, err := scanTicket(r.db.QueryRow(query, code))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return ticket, nil
}

// GetByUser retrieves a user's tickets with their events attached, newest
// purchase first
func (r *TicketRepository) GetByUser(userID int) ([]*models.Ticket, error) {
	query := `
		SELECT t.id, t.event_id, t.user_id, t.ticket_type, t.quantity, t.total_price,
			t.status, t.payment_status, t.confirmation_code, t.purchase_date, t.created_at, t.updated_at,
			e.id, e.slug, e.title, e.description, e.start_date, e.end_date,
			e.start_time, e.end_time, e.location, e.venue, e.is_virtual,
			e.virtual_link, e.capacity, e.image_url, e.tags, e.status,
			e.organizer_id, e.category_id, e.created_at, e.updated_at
		FROM tickets t
		JOIN events e ON t.event_id = e.id
		WHERE t.user_id = $1
		ORDER BY t.purchase_date DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		ticket := &models.Ticket{}
		event := &models.Event{}
		var categoryID sql.NullInt64

		err := rows.Scan(
			&ticket.ID,
			&ticket.EventID,
			&ticket.UserID,
			&ticket.TicketType,
			&ticket.Quantity,
			&ticket.TotalPrice,
			&ticket.Status,
			&ticket.PaymentStatus,
			&ticket.ConfirmationCode,
			&ticket.PurchaseDate,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&event.ID,
			&event.Slug,
			&event.Title,
			&event.Description,
			&event.StartDate,
			&event.EndDate,
			&event.StartTime,
			&event.EndTime,
			&event.Location,
			&event.Venue,
			&event.IsVirtual,
			&event.VirtualLink,
			&event.Capacity,
			&event.ImageURL,
			pq.Array(&event.Tags),
			&event.Status,
			&event.OrganizerID,
			&categoryID,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}

		if categoryID.Valid {
			event.CategoryID = int(categoryID.Int64)
		}
		ticket.Event = event
		tickets = append(tickets, ticket)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}

	return tickets, nil
}

// HasActiveTicket reports whether the user already holds an active ticket
// for the event
func (r *TicketRepository) HasActiveTicket(eventID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM tickets
			WHERE event_id = $1 AND user_id = $2 AND status = $3)`,
		eventID, userID, models.TicketActive,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active ticket: %w", err)
	}
	return exists, nil
}

// SetPaymentStatus updates a ticket's payment status
func (r *TicketRepository) SetPaymentStatus(id int, status models.PaymentStatus) error {
	result, err := r.db.Exec(
		"UPDATE tickets SET payment_status = $2, updated_at = $3 WHERE id = $1",
		id, status, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrTicketNotFound
	}

	return nil
}

// SoldTotal returns the sum of quantities across an event's active
// tickets. Used by reconciliation checks in tests and tooling.
func (r *TicketRepository) SoldTotal(eventID int) (int, error) {
	var total int
	err := r.db.QueryRow(
		"SELECT COALESCE(SUM(quantity), 0) FROM tickets WHERE event_id = $1 AND status = $2",
		eventID, models.TicketActive,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum sold tickets: %w", err)
	}
	return total, nil
}

func scanTicket(row rowScanner) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	err := row.Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.UserID,
		&ticket.TicketType,
		&ticket.Quantity,
		&ticket.TotalPrice,
		&ticket.Status,
		&ticket.PaymentStatus,
		&ticket.ConfirmationCode,
		&ticket.PurchaseDate,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}
