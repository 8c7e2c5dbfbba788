package model

import "time"

// Reservation status enumeration.  A reservation starts out pending and
// either becomes confirmed (on payment) or cancelled.  Cancelled is
// terminal; a cancelled reservation is never re-opened.  Both pending and
// confirmed reservations block their time slot, so an unpaid booking holds
// the slot until it is paid or cancelled.
const (
    ReservationPending   = "pending"
    ReservationConfirmed = "confirmed"
    ReservationCancelled = "cancelled"
)

// Reservation records a user's booking of a venue for a time range on a
// single calendar day.  Times are wall-clock values on whole-hour
// boundaries; the date is a plain calendar day without a timezone.
//
// Fields:
//  ID         - primary key identifier.
//  UserID     - user who made the reservation.
//  VenueID    - venue being reserved.
//  Date       - calendar day in YYYY-MM-DD form.
//  StartTime  - start of the booked range, HH:MM:SS wall clock.
//  EndTime    - end of the booked range (exclusive), HH:MM:SS wall clock.
//  TotalCents - total price in cents for the whole range.
//  Status     - state of the reservation (pending, confirmed, cancelled).
//  Notes      - optional free-form note from the customer.
//  CreatedAt  - creation timestamp.
//  UpdatedAt  - last update timestamp.
type Reservation struct {
    ID         uint64    `json:"id"`          // reservations.id
    UserID     uint64    `json:"user_id"`     // reservations.user_id
    VenueID    uint64    `json:"venue_id"`    // reservations.venue_id
    Date       string    `json:"date"`        // reservations.date (YYYY-MM-DD)
    StartTime  string    `json:"start_time"`  // reservations.start_time (HH:MM:SS)
    EndTime    string    `json:"end_time"`    // reservations.end_time (HH:MM:SS)
    TotalCents uint32    `json:"total_cents"` // reservations.total_cents
    Status     string    `json:"status"`      // reservations.status
    Notes      *string   `json:"notes"`       // reservations.notes (nullable)
    CreatedAt  time.Time `json:"created_at"`  // reservations.created_at
    UpdatedAt  time.Time `json:"updated_at"`  // reservations.updated_at
}

// Blocks reports whether the reservation occupies its time slot.  Cancelled
// reservations never block; every other status does.
func (r *Reservation) Blocks() bool {
    return r.Status != ReservationCancelled
}
