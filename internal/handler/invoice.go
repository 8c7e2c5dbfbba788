package handler

import (
    "net/http" // HTTP status codes
    "strconv"  // parsing path parameters

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/venue-reservation/internal/repository"
    "github.com/iliyamo/venue-reservation/internal/service"
)

// InvoiceHandler exposes invoice lookup and the simulated payment flow.
// There is no real gateway behind Pay: the payment collaborator is
// external to this service and only its outcome is modelled.
type InvoiceHandler struct {
    Invoices *repository.InvoiceRepo // invoice reads
    Bookings *service.BookingService // payment workflow
}

// NewInvoiceHandler constructs an InvoiceHandler.  Both dependencies must
// be non-nil.
func NewInvoiceHandler(invoices *repository.InvoiceRepo, bookings *service.BookingService) *InvoiceHandler {
    if invoices == nil || bookings == nil {
        panic("nil dependency passed to NewInvoiceHandler")
    }
    return &InvoiceHandler{Invoices: invoices, Bookings: bookings}
}

// GetInvoice handles GET /v1/invoices/:id.
func (h *InvoiceHandler) GetInvoice(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid invoice id"})
    }
    inv, err := h.Invoices.GetByID(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"item": inv})
}

// Pay handles POST /v1/invoices/:id/pay.  It settles the invoice with
// the given payment method and confirms the pending reservation.  Paying
// twice, or paying for a cancelled reservation, is a conflict.
func (h *InvoiceHandler) Pay(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid invoice id"})
    }
    var body struct {
        PaymentMethod string `json:"payment_method"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.PaymentMethod == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method is required"})
    }
    res, inv, err := h.Bookings.ConfirmPayment(c.Request().Context(), id, body.PaymentMethod)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "reservation": res,
        "invoice":     inv,
    })
}
