package models

import (
	"strings"
	"time"

	"github.com/eventure/eventure-api/internal/constants"
)

// Event is a row of the events table as served by the API.
// Optional text columns are pointers so they serialize as null.
type Event struct {
	ID           uint64     `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Description  *string    `json:"description" db:"description"`
	StartsAt     time.Time  `json:"starts_at" db:"starts_at"`
	EndsAt       *time.Time `json:"ends_at" db:"ends_at"`
	Venue        *string    `json:"venue" db:"venue"`
	AddressLine1 *string    `json:"address_line1" db:"address_line1"`
	AddressLine2 *string    `json:"address_line2" db:"address_line2"`
	City         *string    `json:"city" db:"city"`
	State        *string    `json:"state" db:"state"`
	ZipCode      *string    `json:"zip_code" db:"zip_code"`
	Location     *string    `json:"location" db:"location"`
	Category     string     `json:"category" db:"category"`
	CreatedBy    uint64     `json:"created_by" db:"created_by"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	Status       string     `json:"status" db:"status"`
	IsPublic     bool       `json:"is_public" db:"is_public"`
	Lat          *float64   `json:"lat" db:"lat"`
	Lng          *float64   `json:"lng" db:"lng"`
}

// AdminEvent adds moderation columns to an event.
type AdminEvent struct {
	Event
	OrganizerName string `json:"organizer_name" db:"organizer_name"`
	RSVPCount     int64  `json:"rsvp_count" db:"rsvp_count"`
}

// CreateEventRequest is the body of POST /api/events.
type CreateEventRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Description  string     `json:"description" validate:"max=5000"`
	Category     string     `json:"category" validate:"required,max=100"`
	Venue        string     `json:"venue" validate:"max=200"`
	AddressLine1 string     `json:"addressLine1" validate:"max=255"`
	AddressLine2 string     `json:"addressLine2" validate:"max=255"`
	City         string     `json:"city" validate:"max=100"`
	State        string     `json:"state" validate:"max=50"`
	ZipCode      string     `json:"zipCode" validate:"omitempty,us_zip"`
	Location     string     `json:"location" validate:"max=255"`
	StartsAt     *time.Time `json:"startsAt" validate:"required"`
	EndsAt       *time.Time `json:"endsAt"`
	IsPublic     *bool      `json:"isPublic"`
}

// Normalize trims every text field so validation sees what will be stored.
func (r *CreateEventRequest) Normalize() {
	for _, field := range []*string{
		&r.Title, &r.Description, &r.Category, &r.Venue, &r.AddressLine1,
		&r.AddressLine2, &r.City, &r.State, &r.ZipCode, &r.Location,
	} {
		*field = strings.TrimSpace(*field)
	}
}

// ToEvent builds a pending event owned by creatorID.
// Events are public unless the request says otherwise.
func (r *CreateEventRequest) ToEvent(creatorID uint64) *Event {
	isPublic := true
	if r.IsPublic != nil {
		isPublic = *r.IsPublic
	}

	event := &Event{
		Title:        strings.TrimSpace(r.Title),
		Description:  optional(r.Description),
		Venue:        optional(r.Venue),
		AddressLine1: optional(r.AddressLine1),
		AddressLine2: optional(r.AddressLine2),
		City:         optional(r.City),
		State:        optional(r.State),
		ZipCode:      optional(r.ZipCode),
		Location:     optional(r.Location),
		Category:     strings.TrimSpace(r.Category),
		CreatedBy:    creatorID,
		CreatedAt:    time.Now().UTC(),
		Status:       constants.EventStatusPending,
		IsPublic:     isPublic,
	}
	if r.StartsAt != nil {
		event.StartsAt = r.StartsAt.UTC()
	}
	if r.EndsAt != nil {
		endsAt := r.EndsAt.UTC()
		event.EndsAt = &endsAt
	}
	return event
}

// CreateEventResponse is returned after an event is submitted.
type CreateEventResponse struct {
	Message string `json:"message"`
	Event   *Event `json:"event"`
}

// EventFilter narrows the public event listing.
type EventFilter struct {
	Limit    int
	Category string
	Zip      string
	Radius   int
}

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ZipLocation maps a ZIP code to its centroid.
type ZipLocation struct {
	ZipCode string  `json:"zip_code" db:"zip_code"`
	Lat     float64 `json:"lat" db:"lat"`
	Lng     float64 `json:"lng" db:"lng"`
}

// Point returns the centroid of the ZIP code.
func (z *ZipLocation) Point() GeoPoint {
	return GeoPoint{Lat: z.Lat, Lng: z.Lng}
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
