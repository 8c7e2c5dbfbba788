// Package queue defines message payloads exchanged over the message broker
// together with the publisher and the background consumer.
package queue

// Reservation event kinds published on the reservation.events queue.
const (
    EventReservationCreated   = "reservation.created"
    EventReservationConfirmed = "reservation.confirmed"
    EventReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is published whenever a reservation changes state.  It
// carries enough information for downstream consumers to log, notify, or
// feed analytics without querying the primary database.
type ReservationEvent struct {
    Kind          string `json:"kind"`
    ReservationID uint64 `json:"reservation_id"`
    UserID        uint64 `json:"user_id"`
    VenueID       uint64 `json:"venue_id"`
    VenueName     string `json:"venue_name"`
    Date          string `json:"date"`
    StartTime     string `json:"start_time"`
    EndTime       string `json:"end_time"`
    TotalCents    uint32 `json:"total_cents"`
    InvoiceNumber string `json:"invoice_number,omitempty"`
    OccurredAt    string `json:"occurred_at"`
}
