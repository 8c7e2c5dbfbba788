package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/venue-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  A
// reservation occupies a half-open [start_time, end_time) range of one
// venue on one calendar day.  The invariant that no two non-cancelled
// reservations of a venue overlap on the same date is enforced by
// CountOverlappingTx running inside the same transaction as the insert,
// under the venue row lock taken by VenueRepo.LockTx.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, user_id, venue_id, DATE_FORMAT(date, '%Y-%m-%d'), TIME_FORMAT(start_time, '%H:%i:%s'), TIME_FORMAT(end_time, '%H:%i:%s'), total_cents, status, notes, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
    var res model.Reservation
    var notes sql.NullString
    if err := row.Scan(
        &res.ID, &res.UserID, &res.VenueID, &res.Date, &res.StartTime, &res.EndTime,
        &res.TotalCents, &res.Status, &notes, &res.CreatedAt, &res.UpdatedAt,
    ); err != nil {
        return nil, err
    }
    if notes.Valid {
        n := notes.String
        res.Notes = &n
    }
    return &res, nil
}

// ListForVenueDate returns every non-cancelled reservation of a venue on
// one calendar day, ordered by start time.  This is the read the
// availability engine consumes; cancelled rows are filtered here so the
// engine only ever sees blocking reservations.
func (r *ReservationRepo) ListForVenueDate(ctx context.Context, venueID uint64, date string) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + `
               FROM reservations
               WHERE venue_id = ? AND date = ? AND status <> 'cancelled'
               ORDER BY start_time`
    rows, err := r.db.QueryContext(ctx, q, venueID, date)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectReservations(rows)
}

// CountOverlappingTx counts non-cancelled reservations of the venue on the
// given date whose [start_time, end_time) range overlaps the requested one
// under half-open semantics: start < booked_end AND end > booked_start.
// It must run inside the transaction that holds the venue row lock; the
// result is then authoritative for the duration of the transaction.
func (r *ReservationRepo) CountOverlappingTx(ctx context.Context, tx *sql.Tx, venueID uint64, date, start, end string) (int, error) {
    const q = `SELECT COUNT(*)
               FROM reservations
               WHERE venue_id = ? AND date = ? AND status <> 'cancelled'
                 AND start_time < ? AND end_time > ?`
    var n int
    if err := tx.QueryRowContext(ctx, q, venueID, date, end, start).Scan(&n); err != nil {
        return 0, err
    }
    return n, nil
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction and populates the generated ID and timestamps on the
// provided model.  The caller must commit or rollback the transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
    const q = `INSERT INTO reservations (user_id, venue_id, date, start_time, end_time, total_cents, status, notes)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    result, err := tx.ExecContext(ctx, q,
        res.UserID, res.VenueID, res.Date, res.StartTime, res.EndTime, res.TotalCents, res.Status, res.Notes)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    const sel = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
    got, err := scanReservation(tx.QueryRowContext(ctx, sel, res.ID))
    if err != nil {
        return err
    }
    *res = *got
    return nil
}

// GetByID returns a single reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
    res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrReservationNotFound
        }
        return nil, err
    }
    return res, nil
}

// GetByIDTx is GetByID within an existing transaction, locking the row so
// a status transition cannot race a concurrent transition of the same
// reservation.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? FOR UPDATE`
    res, err := scanReservation(tx.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrReservationNotFound
        }
        return nil, err
    }
    return res, nil
}

// UpdateStatusTx moves a reservation to a new status within a transaction.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
    const q = `UPDATE reservations SET status = ? WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, status, id)
    return err
}

// ReservationFilter narrows the reservation listing.  Zero values mean
// "no filter".
type ReservationFilter struct {
    UserID  uint64 // reservations of one user
    VenueID uint64 // reservations of one venue
    Date    string // exact calendar day, YYYY-MM-DD
    Status  string // exact status
}

// List returns reservations matching the filter, newest first.
func (r *ReservationRepo) List(ctx context.Context, f ReservationFilter) ([]model.Reservation, error) {
    q := `SELECT ` + reservationColumns + ` FROM reservations`
    conds := make([]string, 0, 4)
    args := make([]any, 0, 4)
    if f.UserID > 0 {
        conds = append(conds, "user_id = ?")
        args = append(args, f.UserID)
    }
    if f.VenueID > 0 {
        conds = append(conds, "venue_id = ?")
        args = append(args, f.VenueID)
    }
    if f.Date != "" {
        conds = append(conds, "date = ?")
        args = append(args, f.Date)
    }
    if f.Status != "" {
        conds = append(conds, "status = ?")
        args = append(args, f.Status)
    }
    if len(conds) > 0 {
        q += " WHERE " + strings.Join(conds, " AND ")
    }
    q += " ORDER BY created_at DESC"

    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
    out := make([]model.Reservation, 0)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *res)
    }
    return out, rows.Err()
}
