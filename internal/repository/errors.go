// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them to HTTP statuses without inspecting SQL errors.
package repository

import "errors"

// ErrVenueNotFound is returned when a venue lookup matches no row.
var ErrVenueNotFound = errors.New("venue not found")

// ErrReservationNotFound is returned when a reservation lookup matches no row.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrInvoiceNotFound is returned when an invoice lookup matches no row.
var ErrInvoiceNotFound = errors.New("invoice not found")

// ErrBookingConflict is the authoritative conflict raised by the storage
// layer when a guarded insert finds an overlapping non-cancelled
// reservation for the same venue and date. It is distinct from the
// advisory false returned by the availability pre-check: the pre-check can
// be stale by the time the insert runs, this error cannot. Handlers should
// translate it into an HTTP 409 response; callers may retry with a
// different slot.
var ErrBookingConflict = errors.New("booking conflict")

// ErrVenueUnavailable is returned when a booking targets a venue whose
// status is maintenance or inactive.
var ErrVenueUnavailable = errors.New("venue not open for booking")

// ErrAlreadyPaid is returned when payment is attempted on an invoice that
// is not in the unpaid state.
var ErrAlreadyPaid = errors.New("invoice already settled")

// ErrAlreadyCancelled is returned when a cancellation targets a
// reservation that is already cancelled. Cancelled is a terminal state.
var ErrAlreadyCancelled = errors.New("reservation already cancelled")
