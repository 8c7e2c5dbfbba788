// Package service implements the booking workflows on top of the storage
// layer and the availability engine.  The storage dependency is an
// interface so the concurrency contract of booking creation can be
// exercised without a live database.
package service

import (
    "context"
    "errors"
    "fmt"
    "log"
    "time"

    "github.com/iliyamo/venue-reservation/internal/availability"
    "github.com/iliyamo/venue-reservation/internal/model"
    "github.com/iliyamo/venue-reservation/internal/queue"
    "github.com/iliyamo/venue-reservation/internal/repository"
)

// ErrInvalidDate is returned when a date is not a YYYY-MM-DD calendar day.
var ErrInvalidDate = errors.New("invalid date")

// ErrDateInPast is returned when a booking or availability check targets a
// day before today.
var ErrDateInPast = errors.New("date is in the past")

// ErrOutsideHours is returned when a requested interval falls outside the
// venue's operating window.
var ErrOutsideHours = errors.New("outside operating hours")

// Store is the storage port the booking service depends on.  The
// repository package provides the MySQL implementation; tests provide an
// in-memory one.  CreateBooking must be atomic with respect to the
// overlap invariant: of any set of concurrent calls targeting overlapping
// ranges of one venue and date, at most one may succeed, the rest must
// fail with repository.ErrBookingConflict.
type Store interface {
    VenueByID(ctx context.Context, id uint64) (*model.Venue, error)
    BlockingReservations(ctx context.Context, venueID uint64, date string) ([]model.Reservation, error)
    CreateBooking(ctx context.Context, res *model.Reservation, inv *model.Invoice) error
    ConfirmPayment(ctx context.Context, invoiceID uint64, method string) (*model.Reservation, *model.Invoice, error)
    CancelReservation(ctx context.Context, id uint64) (*model.Reservation, *model.Invoice, error)
}

// EventPublisher delivers a reservation lifecycle event to the broker.
// Publishing is best-effort; errors are logged, never surfaced.
type EventPublisher func(ctx context.Context, event queue.ReservationEvent) error

// BookingService orchestrates reservation creation, payment and
// cancellation.  It owns all input validation so the availability engine
// and the storage layer only ever receive well-formed values.
type BookingService struct {
    store   Store
    window  availability.Window
    publish EventPublisher
    now     func() time.Time
}

// NewBookingService constructs a BookingService.  publish may be nil to
// disable event publishing (used by tests and when the broker is absent).
func NewBookingService(store Store, window availability.Window, publish EventPublisher) *BookingService {
    if store == nil {
        panic("nil store passed to NewBookingService")
    }
    return &BookingService{store: store, window: window, publish: publish, now: time.Now}
}

// CreateBookingRequest carries the validated form input of the booking
// collaborator.  Times are HH:MM 24-hour strings on whole-hour
// boundaries; the date is a YYYY-MM-DD calendar day.
type CreateBookingRequest struct {
    UserID  uint64
    VenueID uint64
    Date    string
    Start   string
    End     string
    Notes   *string
}

// CreateBooking books a venue for the requested range.  The flow is
// check-then-create in two stages: a read-only availability pre-check
// that rejects most conflicts cheaply, then the storage layer's guarded
// insert which is authoritative.  Both report conflicts as
// repository.ErrBookingConflict.  On success the reservation is pending,
// the invoice unpaid, and a reservation.created event is published.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*model.Reservation, *model.Invoice, error) {
    iv, err := availability.ParseInterval(req.Start, req.End)
    if err != nil {
        return nil, nil, err
    }
    if err := s.validateDate(req.Date); err != nil {
        return nil, nil, err
    }
    venue, err := s.store.VenueByID(ctx, req.VenueID)
    if err != nil {
        return nil, nil, err
    }
    if venue.Status != model.VenueStatusActive {
        return nil, nil, repository.ErrVenueUnavailable
    }
    if !s.window.Contains(iv) {
        return nil, nil, fmt.Errorf("%w: %s-%s", ErrOutsideHours, iv.Start(), iv.End())
    }

    // Advisory pre-check. A stale answer here is harmless: the guarded
    // insert below re-checks under the venue lock.
    existing, err := s.store.BlockingReservations(ctx, req.VenueID, req.Date)
    if err != nil {
        return nil, nil, err
    }
    free, err := availability.IsAvailable(iv, availability.BlockingIntervals(existing))
    if err != nil {
        return nil, nil, err
    }
    if !free {
        return nil, nil, repository.ErrBookingConflict
    }

    res := &model.Reservation{
        UserID:     req.UserID,
        VenueID:    req.VenueID,
        Date:       req.Date,
        StartTime:  iv.Start() + ":00",
        EndTime:    iv.End() + ":00",
        TotalCents: availability.PriceCents(venue.PriceCents, iv),
        Status:     model.ReservationPending,
        Notes:      req.Notes,
    }
    inv := &model.Invoice{AmountCents: res.TotalCents}
    if err := s.store.CreateBooking(ctx, res, inv); err != nil {
        return nil, nil, err
    }

    s.emit(ctx, queue.EventReservationCreated, res, inv, venue.Name)
    return res, inv, nil
}

// ConfirmPayment settles an invoice through the simulated payment
// collaborator and confirms the pending reservation.  A
// reservation.confirmed event is published on success.
func (s *BookingService) ConfirmPayment(ctx context.Context, invoiceID uint64, method string) (*model.Reservation, *model.Invoice, error) {
    res, inv, err := s.store.ConfirmPayment(ctx, invoiceID, method)
    if err != nil {
        return nil, nil, err
    }
    s.emit(ctx, queue.EventReservationConfirmed, res, inv, s.venueName(ctx, res.VenueID))
    return res, inv, nil
}

// CancelReservation cancels a pending or confirmed reservation.  A paid
// invoice is refunded by the storage layer.  A reservation.cancelled
// event is published on success.
func (s *BookingService) CancelReservation(ctx context.Context, id uint64) (*model.Reservation, *model.Invoice, error) {
    res, inv, err := s.store.CancelReservation(ctx, id)
    if err != nil {
        return nil, nil, err
    }
    s.emit(ctx, queue.EventReservationCancelled, res, inv, s.venueName(ctx, res.VenueID))
    return res, inv, nil
}

// CheckAvailability answers whether the venue is free for the requested
// range on the given date.  The answer is advisory: it can go stale the
// moment it is produced, and only the guarded insert decides a booking.
func (s *BookingService) CheckAvailability(ctx context.Context, venueID uint64, date, start, end string) (bool, error) {
    iv, err := availability.ParseInterval(start, end)
    if err != nil {
        return false, err
    }
    if err := s.validateDate(date); err != nil {
        return false, err
    }
    if _, err := s.store.VenueByID(ctx, venueID); err != nil {
        return false, err
    }
    existing, err := s.store.BlockingReservations(ctx, venueID, date)
    if err != nil {
        return false, err
    }
    return availability.IsAvailable(iv, availability.BlockingIntervals(existing))
}

// DaySlots enumerates the free one-hour slots of a venue on one date.
func (s *BookingService) DaySlots(ctx context.Context, venueID uint64, date string) ([]availability.Slot, error) {
    if _, err := parseDay(date); err != nil {
        return nil, err
    }
    if _, err := s.store.VenueByID(ctx, venueID); err != nil {
        return nil, err
    }
    existing, err := s.store.BlockingReservations(ctx, venueID, date)
    if err != nil {
        return nil, err
    }
    return availability.FreeSlots(s.window, availability.BlockingIntervals(existing)), nil
}

// WeekAvailability returns the free slots of a venue for each of the next
// seven calendar days (today included), keyed by YYYY-MM-DD date.  This
// feeds the venue-detail booking picker.
func (s *BookingService) WeekAvailability(ctx context.Context, venueID uint64) (map[string][]availability.Slot, error) {
    if _, err := s.store.VenueByID(ctx, venueID); err != nil {
        return nil, err
    }
    out := make(map[string][]availability.Slot, 7)
    day := s.now().UTC()
    for i := 0; i < 7; i++ {
        date := day.AddDate(0, 0, i).Format("2006-01-02")
        existing, err := s.store.BlockingReservations(ctx, venueID, date)
        if err != nil {
            return nil, err
        }
        out[date] = availability.FreeSlots(s.window, availability.BlockingIntervals(existing))
    }
    return out, nil
}

// Window exposes the operating window the service was configured with.
func (s *BookingService) Window() availability.Window { return s.window }

func parseDay(date string) (time.Time, error) {
    d, err := time.Parse("2006-01-02", date)
    if err != nil {
        return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
    }
    return d, nil
}

// validateDate rejects malformed dates and days before today.  Today is
// evaluated in UTC, matching how reservation dates are stored.
func (s *BookingService) validateDate(date string) error {
    d, err := parseDay(date)
    if err != nil {
        return err
    }
    today := s.now().UTC().Truncate(24 * time.Hour)
    if d.Before(today) {
        return fmt.Errorf("%w: %s", ErrDateInPast, date)
    }
    return nil
}

func (s *BookingService) venueName(ctx context.Context, venueID uint64) string {
    venue, err := s.store.VenueByID(ctx, venueID)
    if err != nil {
        return ""
    }
    return venue.Name
}

// emit publishes a lifecycle event without ever failing the caller.
func (s *BookingService) emit(ctx context.Context, kind string, res *model.Reservation, inv *model.Invoice, venueName string) {
    if s.publish == nil {
        return
    }
    ev := queue.ReservationEvent{
        Kind:          kind,
        ReservationID: res.ID,
        UserID:        res.UserID,
        VenueID:       res.VenueID,
        VenueName:     venueName,
        Date:          res.Date,
        StartTime:     res.StartTime,
        EndTime:       res.EndTime,
        TotalCents:    res.TotalCents,
        OccurredAt:    s.now().UTC().Format(time.RFC3339),
    }
    if inv != nil {
        ev.InvoiceNumber = inv.InvoiceNumber
    }
    if err := s.publish(ctx, ev); err != nil {
        log.Printf("booking-service: publish %s event failed: %v", kind, err)
    }
}
