package model

import "time"

// Invoice payment status enumeration.  An invoice is created unpaid, becomes
// paid when the (simulated) payment succeeds, and refunded when a paid
// reservation is cancelled.
const (
    InvoiceUnpaid   = "unpaid"
    InvoicePaid     = "paid"
    InvoiceRefunded = "refunded"
)

// Invoice is the billing record attached to exactly one reservation.  The
// invoice number is a human-readable reference of the form
// INV-YYYYMMDD-nnnn generated at creation time.
//
// Fields:
//  ID            - primary key identifier.
//  ReservationID - reservation this invoice bills.
//  AmountCents   - invoiced amount in cents.
//  PaymentStatus - unpaid, paid or refunded.
//  PaymentMethod - method reported by the payment collaborator (nullable).
//  InvoiceNumber - unique human-readable reference.
//  CreatedAt     - creation timestamp.
//  UpdatedAt     - last update timestamp.
type Invoice struct {
    ID            uint64    `json:"id"`             // invoices.id
    ReservationID uint64    `json:"reservation_id"` // invoices.reservation_id
    AmountCents   uint32    `json:"amount_cents"`   // invoices.amount_cents
    PaymentStatus string    `json:"payment_status"` // invoices.payment_status
    PaymentMethod *string   `json:"payment_method"` // invoices.payment_method (nullable)
    InvoiceNumber string    `json:"invoice_number"` // invoices.invoice_number
    CreatedAt     time.Time `json:"created_at"`     // invoices.created_at
    UpdatedAt     time.Time `json:"updated_at"`     // invoices.updated_at
}
