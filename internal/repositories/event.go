package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"eventtix/internal/models"

	"github.com/lib/pq"
)

// EventRepository handles event and ticket type data operations
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// EventSearchFilters represents filters for the public event listing
type EventSearchFilters struct {
	Query     string // Free-text match over title, description, and tags
	Category  string // Category name, case-insensitive
	Price     string // "free", "under-50", "50-100", "over-100"
	EventType string // "virtual", "in-person"
	SortBy    string // "date", "price", "popularity"; default recency
	Page      int
	Limit     int
}

const eventColumns = `
	e.id, e.slug, e.title, e.description, e.start_date, e.end_date,
	e.start_time, e.end_time, e.location, e.venue, e.is_virtual,
	e.virtual_link, e.capacity, e.image_url, e.tags, e.status,
	e.organizer_id, e.category_id, e.created_at, e.updated_at,
	u.name AS organizer_name, c.name AS category_name`

const eventJoins = `
	FROM events e
	LEFT JOIN users u ON u.id = e.organizer_id
	LEFT JOIN categories c ON c.id = e.category_id`

// Create creates a new event together with its ticket types in one
// transaction
func (r *EventRepository) Create(req *models.EventCreateRequest, organizerID, categoryID int, slug string) (*models.Event, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (slug, title, description, start_date, end_date, start_time, end_time,
			location, venue, is_virtual, virtual_link, capacity, image_url, tags, status,
			organizer_id, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, created_at, updated_at`

	now := time.Now()
	event := &models.Event{
		Slug:        slug,
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Venue:       req.Venue,
		IsVirtual:   req.IsVirtual,
		VirtualLink: req.VirtualLink,
		Capacity:    req.Capacity,
		ImageURL:    req.ImageURL,
		Tags:        req.Tags,
		Status:      req.Status,
		OrganizerID: organizerID,
		CategoryID:  categoryID,
	}

	err = tx.QueryRow(
		query,
		event.Slug,
		event.Title,
		event.Description,
		event.StartDate,
		event.EndDate,
		event.StartTime,
		event.EndTime,
		event.Location,
		event.Venue,
		event.IsVirtual,
		event.VirtualLink,
		event.Capacity,
		event.ImageURL,
		pq.Array(event.Tags),
		event.Status,
		event.OrganizerID,
		nullableID(event.CategoryID),
		now,
		now,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	for i, tt := range req.TicketTypes {
		ticketType := &models.TicketType{}
		err = tx.QueryRow(`
			INSERT INTO ticket_types (event_id, name, description, price, quantity, sold, position, created_at)
			VALUES ($1, $2, $3, $4, $5, 0, $6, $7)
			RETURNING id, event_id, name, description, price, quantity, sold, position, created_at`,
			event.ID, tt.Name, tt.Description, tt.Price, tt.Quantity, i, now,
		).Scan(
			&ticketType.ID,
			&ticketType.EventID,
			&ticketType.Name,
			&ticketType.Description,
			&ticketType.Price,
			&ticketType.Quantity,
			&ticketType.Sold,
			&ticketType.Position,
			&ticketType.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ticket type: %w", err)
		}
		event.TicketTypes = append(event.TicketTypes, ticketType)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit event creation: %w", err)
	}

	return event, nil
}

// GetByID retrieves an event with its ticket types. This is the
// authoritative read the purchase workflow relies on.
func (r *EventRepository) GetByID(id int) (*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE e.id = $1`, eventColumns, eventJoins)
	return r.getOne(query, id)
}

// GetBySlug retrieves a published event by slug
func (r *EventRepository) GetBySlug(slug string) (*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE e.slug = $1 AND e.status = $2`, eventColumns, eventJoins)
	return r.getOne(query, slug, models.StatusPublished)
}

func (r *EventRepository) getOne(query string, args ...interface{}) (*models.Event, error) {
	event, err := scanEvent(r.db.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if err := r.loadTicketTypes([]*models.Event{event}); err != nil {
		return nil, err
	}

	return event, nil
}

// SlugExists reports whether a slug is taken, optionally excluding an event
func (r *EventRepository) SlugExists(slug string, excludeEventID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM events WHERE slug = $1 AND id != $2)",
		slug, excludeEventID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug uniqueness: %w", err)
	}
	return exists, nil
}

// Update updates an event and replaces its ticket type definitions in one
// transaction. Sold counts are preserved for ticket types whose name
// survives the update.
func (r *EventRepository) Update(id int, req *models.EventUpdateRequest, categoryID int, slug string) (*models.Event, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE events
		SET slug = $2, title = $3, description = $4, start_date = $5, end_date = $6,
			start_time = $7, end_time = $8, location = $9, venue = $10, is_virtual = $11,
			virtual_link = $12, capacity = $13, image_url = $14, tags = $15, status = $16,
			category_id = $17, updated_at = $18
		WHERE id = $1`

	result, err := tx.Exec(
		query,
		id,
		slug,
		req.Title,
		req.Description,
		req.StartDate,
		req.EndDate,
		req.StartTime,
		req.EndTime,
		req.Location,
		req.Venue,
		req.IsVirtual,
		req.VirtualLink,
		req.Capacity,
		req.ImageURL,
		pq.Array(req.Tags),
		req.Status,
		nullableID(categoryID),
		time.Now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, models.ErrEventNotFound
	}

	// Preserve sold counts for surviving ticket type names
	soldByName := make(map[string]int)
	rows, err := tx.Query("SELECT name, sold FROM ticket_types WHERE event_id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to read existing ticket types: %w", err)
	}
	for rows.Next() {
		var name string
		var sold int
		if err := rows.Scan(&name, &sold); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan ticket type: %w", err)
		}
		soldByName[name] = sold
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticket types: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM ticket_types WHERE event_id = $1", id); err != nil {
		return nil, fmt.Errorf("failed to clear ticket types: %w", err)
	}

	now := time.Now()
	for i, tt := range req.TicketTypes {
		sold := soldByName[tt.Name]
		if sold > tt.Quantity {
			return nil, fmt.Errorf("%w: cannot reduce quantity of %q below sold tickets (%d)",
				models.ErrInvalidInput, tt.Name, sold)
		}
		_, err := tx.Exec(`
			INSERT INTO ticket_types (event_id, name, description, price, quantity, sold, position, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, tt.Name, tt.Description, tt.Price, tt.Quantity, sold, i, now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ticket type: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit event update: %w", err)
	}

	return r.GetByID(id)
}

// UpdateStatus sets an event's lifecycle status
func (r *EventRepository) UpdateStatus(id int, status models.EventStatus) error {
	result, err := r.db.Exec(
		"UPDATE events SET status = $2, updated_at = $3 WHERE id = $1",
		id, status, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrEventNotFound
	}

	return nil
}

// GetByOrganizer retrieves all events owned by an organizer, newest first
func (r *EventRepository) GetByOrganizer(organizerID int) ([]*models.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s %s
		WHERE e.organizer_id = $1
		ORDER BY e.created_at DESC`, eventColumns, eventJoins)

	return r.queryEvents(query, organizerID)
}

// Search searches published events with filters and pagination
func (r *EventRepository) Search(filters EventSearchFilters) ([]*models.Event, int, error) {
	conditions := []string{"e.status = 'published'"}
	var args []interface{}
	argIndex := 1

	if filters.Query != "" {
		conditions = append(conditions, fmt.Sprintf(`(
			e.title ILIKE $%d OR e.description ILIKE $%d OR
			EXISTS (SELECT 1 FROM unnest(e.tags) AS tag WHERE tag ILIKE $%d))`,
			argIndex, argIndex, argIndex))
		args = append(args, "%"+filters.Query+"%")
		argIndex++
	}

	if filters.Category != "" && filters.Category != "all" {
		conditions = append(conditions, fmt.Sprintf(`
			e.category_id IN (SELECT id FROM categories WHERE LOWER(name) = LOWER($%d))`,
			argIndex))
		args = append(args, filters.Category)
		argIndex++
	}

	switch filters.Price {
	case "free":
		conditions = append(conditions, "EXISTS (SELECT 1 FROM ticket_types tt WHERE tt.event_id = e.id AND tt.price = 0)")
	case "under-50":
		conditions = append(conditions, "EXISTS (SELECT 1 FROM ticket_types tt WHERE tt.event_id = e.id AND tt.price > 0 AND tt.price < 50)")
	case "50-100":
		conditions = append(conditions, "EXISTS (SELECT 1 FROM ticket_types tt WHERE tt.event_id = e.id AND tt.price >= 50 AND tt.price <= 100)")
	case "over-100":
		conditions = append(conditions, "EXISTS (SELECT 1 FROM ticket_types tt WHERE tt.event_id = e.id AND tt.price > 100)")
	}

	switch filters.EventType {
	case "virtual":
		conditions = append(conditions, "e.is_virtual = TRUE")
	case "in-person":
		conditions = append(conditions, "e.is_virtual = FALSE")
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var orderBy string
	switch filters.SortBy {
	case "date":
		orderBy = "ORDER BY e.start_date ASC"
	case "price":
		orderBy = "ORDER BY (SELECT COALESCE(MIN(tt.price), 0) FROM ticket_types tt WHERE tt.event_id = e.id) ASC"
	case "popularity":
		orderBy = "ORDER BY (SELECT COALESCE(SUM(tt.sold), 0) FROM ticket_types tt WHERE tt.event_id = e.id) DESC"
	default:
		orderBy = "ORDER BY e.created_at DESC"
	}

	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.Limit <= 0 {
		filters.Limit = 10
	}
	offset := (filters.Page - 1) * filters.Limit

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM events e %s", whereClause)
	var total int
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to get event count: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s %s
		%s
		%s
		LIMIT $%d OFFSET $%d`,
		eventColumns, eventJoins, whereClause, orderBy, argIndex, argIndex+1)

	args = append(args, filters.Limit, offset)

	events, err := r.queryEvents(query, args...)
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// ListLocations returns the distinct locations of published in-person
// events, plus a count of published virtual events
func (r *EventRepository) ListLocations() ([]string, int, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT location FROM events
		WHERE status = 'published' AND is_virtual = FALSE AND location != ''
		ORDER BY location ASC`)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var locations []string
	for rows.Next() {
		var location string
		if err := rows.Scan(&location); err != nil {
			return nil, 0, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, location)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating locations: %w", err)
	}

	var virtualCount int
	err = r.db.QueryRow(
		"SELECT COUNT(*) FROM events WHERE status = 'published' AND is_virtual = TRUE",
	).Scan(&virtualCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count virtual events: %w", err)
	}

	return locations, virtualCount, nil
}

func (r *EventRepository) queryEvents(query string, args ...interface{}) ([]*models.Event, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	if err := r.loadTicketTypes(events); err != nil {
		return nil, err
	}

	return events, nil
}

// loadTicketTypes attaches ticket types to the given events, ordered by
// declaration position
func (r *EventRepository) loadTicketTypes(events []*models.Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]int64, len(events))
	byID := make(map[int]*models.Event, len(events))
	for i, event := range events {
		ids[i] = int64(event.ID)
		byID[event.ID] = event
	}

	rows, err := r.db.Query(`
		SELECT id, event_id, name, description, price, quantity, sold, position, created_at
		FROM ticket_types
		WHERE event_id = ANY($1)
		ORDER BY event_id, position ASC`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load ticket types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		ticketType := &models.TicketType{}
		err := rows.Scan(
			&ticketType.ID,
			&ticketType.EventID,
			&ticketType.Name,
			&ticketType.Description,
			&ticketType.Price,
			&ticketType.Quantity,
			&ticketType.Sold,
			&ticketType.Position,
			&ticketType.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan ticket type: %w", err)
		}

		if event, ok := byID[ticketType.EventID]; ok {
			event.TicketTypes = append(event.TicketTypes, ticketType)
		}
	}

	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	event := &models.Event{}
	var categoryID sql.NullInt64
	var organizerName, categoryName sql.NullString

	err := row.Scan(
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
		&organizerName,
		&categoryName,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		event.CategoryID = int(categoryID.Int64)
	}
	event.OrganizerName = organizerName.String
	event.CategoryName = categoryName.String

	return event, nil
}

// nullableID converts a zero id to NULL for optional foreign keys
func nullableID(id int) interface{} {
	if id == 0 {
		return nil
	}
	return id
}
