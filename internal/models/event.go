package models

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// EventStatus represents the status of an event
type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusCancelled EventStatus = "cancelled"
)

// TicketType represents a named price/quantity tier within an event
type TicketType struct {
	ID          int       `json:"id" db:"id"`
	EventID     int       `json:"event_id" db:"event_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Sold        int       `json:"sold" db:"sold"`
	Position    int       `json:"position" db:"position"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Event represents an event in the system. TicketTypes are always loaded
// together with the event, ordered by declaration position.
type Event struct {
	ID          int         `json:"id" db:"id"`
	Slug        string      `json:"slug" db:"slug"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description" db:"description"`
	StartDate   time.Time   `json:"start_date" db:"start_date"`
	EndDate     time.Time   `json:"end_date" db:"end_date"`
	StartTime   string      `json:"start_time" db:"start_time"`
	EndTime     string      `json:"end_time" db:"end_time"`
	Location    string      `json:"location" db:"location"`
	Venue       string      `json:"venue" db:"venue"`
	IsVirtual   bool        `json:"is_virtual" db:"is_virtual"`
	VirtualLink string      `json:"virtual_link" db:"virtual_link"`
	Capacity    int         `json:"capacity" db:"capacity"`
	ImageURL    string      `json:"image_url" db:"image_url"`
	Tags        []string    `json:"tags" db:"tags"`
	Status      EventStatus `json:"status" db:"status"`
	OrganizerID int         `json:"organizer_id" db:"organizer_id"`
	CategoryID  int         `json:"category_id" db:"category_id"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`

	TicketTypes []*TicketType `json:"ticket_types"`

	// Related display data, populated by joins
	OrganizerName string    `json:"organizer_name,omitempty" db:"organizer_name"`
	CategoryName  string    `json:"category_name,omitempty" db:"category_name"`
	Organizer     *User     `json:"organizer,omitempty"`
	Category      *Category `json:"category,omitempty"`
}

// TicketTypeInput represents a ticket type definition supplied on event
// create or update
type TicketTypeInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// EventCreateRequest represents the data needed to create a new event
type EventCreateRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	StartDate   time.Time         `json:"start_date"`
	EndDate     time.Time         `json:"end_date"`
	StartTime   string            `json:"start_time"`
	EndTime     string            `json:"end_time"`
	Location    string            `json:"location"`
	Venue       string            `json:"venue"`
	IsVirtual   bool              `json:"is_virtual"`
	VirtualLink string            `json:"virtual_link"`
	Capacity    int               `json:"capacity"`
	ImageURL    string            `json:"image_url"`
	Tags        []string          `json:"tags"`
	Category    string            `json:"category"`
	Status      EventStatus       `json:"status"`
	TicketTypes []TicketTypeInput `json:"ticket_types"`

	// TicketPrice seeds a single default ticket type when no explicit
	// ticket types are given
	TicketPrice float64 `json:"ticket_price,omitempty"`
}

// DefaultTicketTypes fills in a single ticket type from TicketPrice and
// Capacity when the request declares none. A paid event gets "General
// Admission", a free one gets "Free".
func (req *EventCreateRequest) DefaultTicketTypes() {
	if len(req.TicketTypes) > 0 || req.Capacity <= 0 {
		return
	}
	name := "Free"
	if req.TicketPrice > 0 {
		name = "General Admission"
	}
	req.TicketTypes = []TicketTypeInput{{
		Name:     name,
		Price:    req.TicketPrice,
		Quantity: req.Capacity,
	}}
}

// EventUpdateRequest represents the data that can be updated for an event
type EventUpdateRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	StartDate   time.Time         `json:"start_date"`
	EndDate     time.Time         `json:"end_date"`
	StartTime   string            `json:"start_time"`
	EndTime     string            `json:"end_time"`
	Location    string            `json:"location"`
	Venue       string            `json:"venue"`
	IsVirtual   bool              `json:"is_virtual"`
	VirtualLink string            `json:"virtual_link"`
	Capacity    int               `json:"capacity"`
	ImageURL    string            `json:"image_url"`
	Tags        []string          `json:"tags"`
	Category    string            `json:"category"`
	Status      EventStatus       `json:"status"`
	TicketTypes []TicketTypeInput `json:"ticket_types"`
}

// Availability summarizes the ticket inventory of an event
type Availability struct {
	TotalCapacity int `json:"total_capacity"`
	TotalSold     int `json:"total_sold"`
	Available     int `json:"available"`
}

// TicketAvailability derives the remaining inventory from the event's
// ticket types. Available is clamped at zero; a negative value upstream
// means corrupted sold counts, not a normal state.
func (e *Event) TicketAvailability() Availability {
	var a Availability
	for _, tt := range e.TicketTypes {
		a.TotalCapacity += tt.Quantity
		a.TotalSold += tt.Sold
	}
	a.Available = a.TotalCapacity - a.TotalSold
	if a.Available < 0 {
		a.Available = 0
	}
	return a
}

// TicketTypeByName returns the ticket type with the given name, or nil
func (e *Event) TicketTypeByName(name string) *TicketType {
	for _, tt := range e.TicketTypes {
		if tt.Name == name {
			return tt
		}
	}
	return nil
}

// FirstTicketType returns the first declared ticket type, or nil
func (e *Event) FirstTicketType() *TicketType {
	if len(e.TicketTypes) == 0 {
		return nil
	}
	return e.TicketTypes[0]
}

// Validate validates the event data
func (e *Event) Validate() error {
	if err := validateEventTitle(e.Title); err != nil {
		return err
	}

	if err := validateEventDates(e.StartDate, e.EndDate); err != nil {
		return err
	}

	if err := validateEventLocation(e.Location, e.IsVirtual); err != nil {
		return err
	}

	if err := validateEventStatus(e.Status); err != nil {
		return err
	}

	if err := validateEventDescription(e.Description); err != nil {
		return err
	}

	if err := validateEventCapacity(e.Capacity); err != nil {
		return err
	}

	return validateEventImageURL(e.ImageURL)
}

// ValidateCreate validates event creation data
func (req *EventCreateRequest) Validate() error {
	if err := validateEventTitle(req.Title); err != nil {
		return err
	}

	if err := validateEventDates(req.StartDate, req.EndDate); err != nil {
		return err
	}

	if err := validateEventLocation(req.Location, req.IsVirtual); err != nil {
		return err
	}

	if err := validateEventStatus(req.Status); err != nil {
		return err
	}

	if err := validateEventDescription(req.Description); err != nil {
		return err
	}

	if err := validateEventCapacity(req.Capacity); err != nil {
		return err
	}

	if err := validateEventImageURL(req.ImageURL); err != nil {
		return err
	}

	return validateTicketTypeInputs(req.TicketTypes)
}

// ValidateUpdate validates event update data
func (req *EventUpdateRequest) Validate() error {
	if err := validateEventTitle(req.Title); err != nil {
		return err
	}

	if err := validateEventDates(req.StartDate, req.EndDate); err != nil {
		return err
	}

	if err := validateEventLocation(req.Location, req.IsVirtual); err != nil {
		return err
	}

	if err := validateEventStatus(req.Status); err != nil {
		return err
	}

	if err := validateEventDescription(req.Description); err != nil {
		return err
	}

	if err := validateEventCapacity(req.Capacity); err != nil {
		return err
	}

	if err := validateEventImageURL(req.ImageURL); err != nil {
		return err
	}

	return validateTicketTypeInputs(req.TicketTypes)
}

// CanTransitionTo reports whether the event status may move to target.
// Allowed transitions: draft -> published, any -> cancelled. Cancelled is
// terminal.
func (e *Event) CanTransitionTo(target EventStatus) bool {
	if e.Status == target {
		return true
	}

	switch target {
	case StatusPublished:
		return e.Status == StatusDraft
	case StatusCancelled:
		return e.Status != StatusCancelled
	default:
		return false
	}
}

// validateEventTitle validates an event title
func validateEventTitle(title string) error {
	if title == "" {
		return errors.New("title is required")
	}

	if len(title) > 255 {
		return errors.New("title must be less than 255 characters")
	}

	if strings.TrimSpace(title) == "" {
		return errors.New("title cannot be only whitespace")
	}

	return nil
}

// validateEventDates validates event start and end dates
func validateEventDates(startDate, endDate time.Time) error {
	if startDate.IsZero() {
		return errors.New("start date is required")
	}

	if endDate.IsZero() {
		return errors.New("end date is required")
	}

	if startDate.After(endDate) {
		return errors.New("start date must be before end date")
	}

	return nil
}

// validateEventLocation validates an event location
func validateEventLocation(location string, isVirtual bool) error {
	if location == "" && !isVirtual {
		return errors.New("location is required for in-person events")
	}

	if len(location) > 255 {
		return errors.New("location must be less than 255 characters")
	}

	return nil
}

// validateEventStatus validates an event status
func validateEventStatus(status EventStatus) error {
	switch status {
	case StatusDraft, StatusPublished, StatusCancelled:
		return nil
	default:
		return errors.New("invalid event status")
	}
}

// validateEventDescription validates an event description
func validateEventDescription(description string) error {
	if description == "" {
		return errors.New("description is required")
	}

	if len(description) > 10000 {
		return errors.New("description must be less than 10000 characters")
	}

	return nil
}

// validateEventCapacity validates an event capacity
func validateEventCapacity(capacity int) error {
	if capacity < 1 {
		return errors.New("capacity must be at least 1")
	}

	return nil
}

// validateEventImageURL validates an event image URL
func validateEventImageURL(imageURL string) error {
	if imageURL == "" {
		return nil
	}

	if len(imageURL) > 500 {
		return errors.New("image URL must be less than 500 characters")
	}

	parsed, err := url.Parse(imageURL)
	if err != nil {
		return errors.New("invalid image URL format")
	}

	if parsed.Scheme != "" && parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("image URL must use HTTP or HTTPS protocol, or be a relative path")
	}

	return nil
}

// validateTicketTypeInputs validates the ticket type definitions of an event
func validateTicketTypeInputs(ticketTypes []TicketTypeInput) error {
	if len(ticketTypes) == 0 {
		return errors.New("at least one ticket type is required")
	}

	seen := make(map[string]bool, len(ticketTypes))
	for _, tt := range ticketTypes {
		if err := validateTicketTypeName(tt.Name); err != nil {
			return err
		}

		if err := validateTicketTypePrice(tt.Price); err != nil {
			return err
		}

		if err := validateTicketTypeQuantity(tt.Quantity); err != nil {
			return err
		}

		if seen[tt.Name] {
			return errors.New("ticket type names must be unique within an event")
		}
		seen[tt.Name] = true
	}

	return nil
}

// validateTicketTypeName validates a ticket type name
func validateTicketTypeName(name string) error {
	if name == "" {
		return errors.New("ticket type name is required")
	}

	if len(name) > 100 {
		return errors.New("ticket type name must be less than 100 characters")
	}

	if strings.TrimSpace(name) == "" {
		return errors.New("ticket type name cannot be only whitespace")
	}

	return nil
}

// validateTicketTypePrice validates a ticket type price
func validateTicketTypePrice(price float64) error {
	if price < 0 {
		return errors.New("ticket price cannot be negative")
	}

	if price > 10000 {
		return errors.New("ticket price cannot exceed 10,000")
	}

	return nil
}

// validateTicketTypeQuantity validates a ticket type quantity
func validateTicketTypeQuantity(quantity int) error {
	if quantity < 0 {
		return errors.New("ticket quantity cannot be negative")
	}

	if quantity > 100000 {
		return errors.New("ticket quantity cannot exceed 100,000")
	}

	return nil
}

// IsPublished returns true if the event is published
func (e *Event) IsPublished() bool {
	return e.Status == StatusPublished
}

// IsDraft returns true if the event is a draft
func (e *Event) IsDraft() bool {
	return e.Status == StatusDraft
}

// IsCancelled returns true if the event is cancelled
func (e *Event) IsCancelled() bool {
	return e.Status == StatusCancelled
}

// IsUpcoming returns true if the event is in the future
func (e *Event) IsUpcoming() bool {
	return e.StartDate.After(time.Now())
}

// IsPast returns true if the event has ended
func (e *Event) IsPast() bool {
	return e.EndDate.Before(time.Now())
}

// CanBeEdited returns true if the event can be edited
func (e *Event) CanBeEdited() bool {
	return e.Status != StatusCancelled
}

// IsSoldOut returns true if no tickets remain
func (tt *TicketType) IsSoldOut() bool {
	return tt.Sold >= tt.Quantity
}

// Available returns the number of remaining tickets of this type
func (tt *TicketType) Available() int {
	available := tt.Quantity - tt.Sold
	if available < 0 {
		return 0
	}
	return available
}

// IsFree returns true if the ticket type costs nothing
func (tt *TicketType) IsFree() bool {
	return tt.Price == 0
}

var slugCleanupRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a title into a URL-safe slug
func Slugify(text string) string {
	slug := strings.ToLower(text)
	slug = slugCleanupRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
