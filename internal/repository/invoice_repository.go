package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "math/rand"
    "strings"
    "time"

    "github.com/iliyamo/venue-reservation/internal/model"
)

// InvoiceRepo provides access to the invoices table.  Every reservation
// gets exactly one invoice at creation time; payment and refund are
// status transitions on that row.
type InvoiceRepo struct {
    db *sql.DB
}

// NewInvoiceRepo returns a new InvoiceRepo bound to the given database.
func NewInvoiceRepo(db *sql.DB) *InvoiceRepo { return &InvoiceRepo{db: db} }

const invoiceColumns = `id, reservation_id, amount_cents, payment_status, payment_method, invoice_number, created_at, updated_at`

func scanInvoice(row interface{ Scan(...any) error }) (*model.Invoice, error) {
    var inv model.Invoice
    var method sql.NullString
    if err := row.Scan(
        &inv.ID, &inv.ReservationID, &inv.AmountCents, &inv.PaymentStatus,
        &method, &inv.InvoiceNumber, &inv.CreatedAt, &inv.UpdatedAt,
    ); err != nil {
        return nil, err
    }
    if method.Valid {
        m := method.String
        inv.PaymentMethod = &m
    }
    return &inv, nil
}

// NewInvoiceNumber generates a human-readable invoice reference of the
// form INV-YYYYMMDD-nnnn.  The column's unique key catches the rare
// collision; callers retry on duplicate-key errors.
func NewInvoiceNumber(now time.Time) string {
    return fmt.Sprintf("INV-%s-%04d", now.UTC().Format("20060102"), 1000+rand.Intn(9000))
}

// CreateTx inserts a new unpaid invoice within the scope of an existing
// transaction and populates the generated ID and timestamps on the
// provided model.  The invoice number is regenerated on a duplicate-key
// collision.
func (r *InvoiceRepo) CreateTx(ctx context.Context, tx *sql.Tx, inv *model.Invoice) error {
    const q = `INSERT INTO invoices (reservation_id, amount_cents, payment_status, invoice_number)
               VALUES (?, ?, ?, ?)`
    var result sql.Result
    var err error
    for attempt := 0; attempt < 3; attempt++ {
        if inv.InvoiceNumber == "" || attempt > 0 {
            inv.InvoiceNumber = NewInvoiceNumber(time.Now())
        }
        result, err = tx.ExecContext(ctx, q, inv.ReservationID, inv.AmountCents, model.InvoiceUnpaid, inv.InvoiceNumber)
        if err == nil || !isDuplicateKey(err) {
            break
        }
    }
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    inv.ID = uint64(id)
    const sel = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`
    got, err := scanInvoice(tx.QueryRowContext(ctx, sel, inv.ID))
    if err != nil {
        return err
    }
    *inv = *got
    return nil
}

// isDuplicateKey detects MySQL error 1062 without importing the driver's
// error type into every caller.
func isDuplicateKey(err error) bool {
    return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}

// GetByID returns a single invoice or ErrInvoiceNotFound.
func (r *InvoiceRepo) GetByID(ctx context.Context, id uint64) (*model.Invoice, error) {
    const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`
    inv, err := scanInvoice(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrInvoiceNotFound
        }
        return nil, err
    }
    return inv, nil
}

// GetByIDTx is GetByID within an existing transaction, locking the row so
// concurrent payment attempts serialize.
func (r *InvoiceRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Invoice, error) {
    const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ? FOR UPDATE`
    inv, err := scanInvoice(tx.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrInvoiceNotFound
        }
        return nil, err
    }
    return inv, nil
}

// GetByReservation returns the invoice attached to a reservation or
// ErrInvoiceNotFound.
func (r *InvoiceRepo) GetByReservation(ctx context.Context, reservationID uint64) (*model.Invoice, error) {
    const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE reservation_id = ?`
    inv, err := scanInvoice(r.db.QueryRowContext(ctx, q, reservationID))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrInvoiceNotFound
        }
        return nil, err
    }
    return inv, nil
}

// GetByReservationTx is GetByReservation within an existing transaction
// with a row lock.
func (r *InvoiceRepo) GetByReservationTx(ctx context.Context, tx *sql.Tx, reservationID uint64) (*model.Invoice, error) {
    const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE reservation_id = ? FOR UPDATE`
    inv, err := scanInvoice(tx.QueryRowContext(ctx, q, reservationID))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrInvoiceNotFound
        }
        return nil, err
    }
    return inv, nil
}

// SetPaymentTx updates payment status and method within a transaction.
func (r *InvoiceRepo) SetPaymentTx(ctx context.Context, tx *sql.Tx, id uint64, status string, method *string) error {
    const q = `UPDATE invoices SET payment_status = ?, payment_method = ? WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, status, method, id)
    return err
}
