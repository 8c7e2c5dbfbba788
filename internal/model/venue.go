package model

import "time"

// Venue type enumeration.  The catalogue distinguishes three kinds of
// bookable spaces; the value is stored as-is in the venues.type column.
const (
    VenueTypeSport      = "sport"
    VenueTypeConference = "conference"
    VenueTypeParty      = "party"
)

// Venue status enumeration.  Only active venues are shown to clients and
// accepted for new reservations.
const (
    VenueStatusActive      = "active"
    VenueStatusMaintenance = "maintenance"
    VenueStatusInactive    = "inactive"
)

// Venue represents a bookable physical space with an hourly price and an
// operating status.  Amenities are stored as a JSON array in the database
// and exposed as a plain string slice.
//
// Fields:
//  ID             - primary key identifier.
//  Name           - display name of the venue.
//  Type           - kind of venue (sport, conference, party).
//  Capacity       - maximum number of people.
//  PriceCents     - price per hour in cents.
//  Location       - free-form address or area.
//  Amenities      - list of amenities (nil if unspecified).
//  Description    - optional description text.
//  ImageURL       - optional image reference.
//  Status         - operating status (active, maintenance, inactive).
//  CreatedAt      - creation timestamp.
//  UpdatedAt      - last update timestamp.
type Venue struct {
    ID          uint64    `json:"id"`           // venues.id
    Name        string    `json:"name"`         // venues.name
    Type        string    `json:"type"`         // venues.type
    Capacity    uint32    `json:"capacity"`     // venues.capacity
    PriceCents  uint32    `json:"price_cents"`  // venues.price_cents (per hour)
    Location    string    `json:"location"`     // venues.location
    Amenities   []string  `json:"amenities"`    // venues.amenities (JSON array, nullable)
    Description *string   `json:"description"`  // venues.description (nullable)
    ImageURL    *string   `json:"image_url"`    // venues.image_url (nullable)
    Status      string    `json:"status"`       // venues.status
    CreatedAt   time.Time `json:"created_at"`   // venues.created_at
    UpdatedAt   time.Time `json:"updated_at"`   // venues.updated_at
}

// ValidVenueType reports whether t is one of the known venue types.
func ValidVenueType(t string) bool {
    switch t {
    case VenueTypeSport, VenueTypeConference, VenueTypeParty:
        return true
    }
    return false
}

// ValidVenueStatus reports whether s is one of the known venue statuses.
func ValidVenueStatus(s string) bool {
    switch s {
    case VenueStatusActive, VenueStatusMaintenance, VenueStatusInactive:
        return true
    }
    return false
}
