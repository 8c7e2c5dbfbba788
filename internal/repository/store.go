package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/venue-reservation/internal/model"
)

// Store bundles the per-entity repositories behind the handful of atomic
// operations the booking service needs.  Every write that must not race
// (guarded booking insert, payment, cancellation) runs inside a single
// transaction here; the per-entity repos stay available for plain reads.
type Store struct {
    db           *sql.DB
    Venues       *VenueRepo
    Reservations *ReservationRepo
    Invoices     *InvoiceRepo
}

// NewStore constructs a Store and its repositories over one database handle.
func NewStore(db *sql.DB) *Store {
    return &Store{
        db:           db,
        Venues:       NewVenueRepo(db),
        Reservations: NewReservationRepo(db),
        Invoices:     NewInvoiceRepo(db),
    }
}

// VenueByID returns a venue or ErrVenueNotFound.
func (s *Store) VenueByID(ctx context.Context, id uint64) (*model.Venue, error) {
    return s.Venues.GetByID(ctx, id)
}

// BlockingReservations returns the non-cancelled reservations of a venue
// on one date, the value the availability engine consumes.
func (s *Store) BlockingReservations(ctx context.Context, venueID uint64, date string) ([]model.Reservation, error) {
    return s.Reservations.ListForVenueDate(ctx, venueID, date)
}

// CreateBooking atomically inserts a pending reservation and its unpaid
// invoice.  The transaction takes the venue row lock first, which
// serializes every booking write for that venue, then re-runs the
// half-open overlap count so the check and the insert cannot interleave
// with a concurrent writer.  A conflicting row found at this point yields
// ErrBookingConflict; of two concurrent attempts at the same slot exactly
// one commits.
func (s *Store) CreateBooking(ctx context.Context, res *model.Reservation, inv *model.Invoice) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := s.Venues.LockTx(ctx, tx, res.VenueID); err != nil {
        return err
    }
    n, err := s.Reservations.CountOverlappingTx(ctx, tx, res.VenueID, res.Date, res.StartTime, res.EndTime)
    if err != nil {
        return err
    }
    if n > 0 {
        return ErrBookingConflict
    }
    if err := s.Reservations.CreateTx(ctx, tx, res); err != nil {
        return err
    }
    inv.ReservationID = res.ID
    if err := s.Invoices.CreateTx(ctx, tx, inv); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// ConfirmPayment settles an invoice with the given payment method and
// promotes its pending reservation to confirmed.  Both rows are locked
// for the duration so concurrent payment attempts serialize; an invoice
// that is not unpaid yields ErrAlreadyPaid and paying for a cancelled
// reservation yields ErrAlreadyCancelled.
func (s *Store) ConfirmPayment(ctx context.Context, invoiceID uint64, method string) (*model.Reservation, *model.Invoice, error) {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    inv, err := s.Invoices.GetByIDTx(ctx, tx, invoiceID)
    if err != nil {
        return nil, nil, err
    }
    if inv.PaymentStatus != model.InvoiceUnpaid {
        return nil, nil, ErrAlreadyPaid
    }
    res, err := s.Reservations.GetByIDTx(ctx, tx, inv.ReservationID)
    if err != nil {
        return nil, nil, err
    }
    if res.Status == model.ReservationCancelled {
        return nil, nil, ErrAlreadyCancelled
    }
    if err := s.Invoices.SetPaymentTx(ctx, tx, inv.ID, model.InvoicePaid, &method); err != nil {
        return nil, nil, err
    }
    if res.Status == model.ReservationPending {
        if err := s.Reservations.UpdateStatusTx(ctx, tx, res.ID, model.ReservationConfirmed); err != nil {
            return nil, nil, err
        }
        res.Status = model.ReservationConfirmed
    }
    if err := tx.Commit(); err != nil {
        return nil, nil, err
    }
    committed = true
    inv.PaymentStatus = model.InvoicePaid
    inv.PaymentMethod = &method
    return res, inv, nil
}

// CancelReservation moves a reservation to cancelled and refunds its
// invoice when the invoice was already paid.  Cancelled is terminal:
// cancelling twice yields ErrAlreadyCancelled.  The reservation row is
// locked so a cancellation cannot race a payment on the same booking.
func (s *Store) CancelReservation(ctx context.Context, id uint64) (*model.Reservation, *model.Invoice, error) {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    res, err := s.Reservations.GetByIDTx(ctx, tx, id)
    if err != nil {
        return nil, nil, err
    }
    if res.Status == model.ReservationCancelled {
        return nil, nil, ErrAlreadyCancelled
    }
    if err := s.Reservations.UpdateStatusTx(ctx, tx, res.ID, model.ReservationCancelled); err != nil {
        return nil, nil, err
    }
    res.Status = model.ReservationCancelled

    inv, err := s.Invoices.GetByReservationTx(ctx, tx, res.ID)
    if err != nil && !errors.Is(err, ErrInvoiceNotFound) {
        return nil, nil, err
    }
    if inv != nil && inv.PaymentStatus == model.InvoicePaid {
        if err := s.Invoices.SetPaymentTx(ctx, tx, inv.ID, model.InvoiceRefunded, inv.PaymentMethod); err != nil {
            return nil, nil, err
        }
        inv.PaymentStatus = model.InvoiceRefunded
    }
    if err := tx.Commit(); err != nil {
        return nil, nil, err
    }
    committed = true
    return res, inv, nil
}
