package handler

import (
    "errors"   // for errors.Is comparisons
    "net/http" // HTTP status codes
    "strconv"  // parsing path parameters

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/venue-reservation/internal/model"
    "github.com/iliyamo/venue-reservation/internal/repository"
    "github.com/iliyamo/venue-reservation/internal/service"
)

// ReservationHandler exposes booking creation, listing and cancellation.
// The mutating flows delegate to the booking service, which owns
// validation and the conflict guard; plain reads go to the repository.
type ReservationHandler struct {
    Reservations *repository.ReservationRepo // reservation reads
    Invoices     *repository.InvoiceRepo     // invoice reads
    Bookings     *service.BookingService     // booking workflows
}

// NewReservationHandler constructs a ReservationHandler.  All
// dependencies must be non-nil.
func NewReservationHandler(reservations *repository.ReservationRepo, invoices *repository.InvoiceRepo, bookings *service.BookingService) *ReservationHandler {
    if reservations == nil || invoices == nil || bookings == nil {
        panic("nil dependency passed to NewReservationHandler")
    }
    return &ReservationHandler{Reservations: reservations, Invoices: invoices, Bookings: bookings}
}

// CreateReservation handles POST /v1/reservations.  The body carries the
// pre-validated form input of the booking collaborator: venue, user,
// date (YYYY-MM-DD) and start/end times as HH:MM strings on whole-hour
// boundaries.  A slot conflict is a rejected booking (409), not a fault.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
    var body struct {
        UserID  uint64  `json:"user_id"`
        VenueID uint64  `json:"venue_id"`
        Date    string  `json:"date"`
        Start   string  `json:"start_time"`
        End     string  `json:"end_time"`
        Notes   *string `json:"notes"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.UserID == 0 || body.VenueID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id and venue_id are required"})
    }
    if body.Date == "" || body.Start == "" || body.End == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date, start_time and end_time are required"})
    }
    res, inv, err := h.Bookings.CreateBooking(c.Request().Context(), service.CreateBookingRequest{
        UserID:  body.UserID,
        VenueID: body.VenueID,
        Date:    body.Date,
        Start:   body.Start,
        End:     body.End,
        Notes:   body.Notes,
    })
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "reservation": res,
        "invoice":     inv,
    })
}

// ListReservations handles GET /v1/reservations.  Optional query
// parameters narrow the listing: user_id, venue_id, date and status.
// Results are newest first.
func (h *ReservationHandler) ListReservations(c echo.Context) error {
    var f repository.ReservationFilter
    if s := c.QueryParam("user_id"); s != "" {
        n, err := strconv.ParseUint(s, 10, 64)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
        }
        f.UserID = n
    }
    if s := c.QueryParam("venue_id"); s != "" {
        n, err := strconv.ParseUint(s, 10, 64)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue_id"})
        }
        f.VenueID = n
    }
    f.Date = c.QueryParam("date")
    if s := c.QueryParam("status"); s != "" {
        switch s {
        case model.ReservationPending, model.ReservationConfirmed, model.ReservationCancelled:
            f.Status = s
        default:
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
        }
    }
    items, err := h.Reservations.List(c.Request().Context(), f)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetReservation handles GET /v1/reservations/:id and returns the
// reservation together with its invoice when one exists.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    ctx := c.Request().Context()
    res, err := h.Reservations.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    resp := echo.Map{"reservation": res}
    inv, err := h.Invoices.GetByReservation(ctx, id)
    if err == nil {
        resp["invoice"] = inv
    } else if !errors.Is(err, repository.ErrInvoiceNotFound) {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, resp)
}

// CancelReservation handles POST /v1/reservations/:id/cancel.  Cancelling
// a paid booking refunds its invoice; cancelling twice is a conflict.
func (h *ReservationHandler) CancelReservation(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    res, inv, err := h.Bookings.CancelReservation(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    resp := echo.Map{"reservation": res}
    if inv != nil {
        resp["invoice"] = inv
    }
    return c.JSON(http.StatusOK, resp)
}

// GetReservationInvoice handles GET /v1/reservations/:id/invoice.
func (h *ReservationHandler) GetReservationInvoice(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    inv, err := h.Invoices.GetByReservation(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"item": inv})
}
