package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/venue-reservation/internal/availability"
    "github.com/iliyamo/venue-reservation/internal/repository"
    "github.com/iliyamo/venue-reservation/internal/service"
)

// slotTakenMessage is the user-facing rejection for booking conflicts,
// shared by the advisory pre-check and the storage-level guard.
const slotTakenMessage = "the venue is not available for the selected time slot"

// writeError translates sentinel errors from the service and repository
// layers into HTTP responses.  Anything unrecognized is a 500 with a
// generic body so internals never leak to clients.
func writeError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, repository.ErrVenueNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
    case errors.Is(err, repository.ErrReservationNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
    case errors.Is(err, repository.ErrInvoiceNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "invoice not found"})
    case errors.Is(err, repository.ErrBookingConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": slotTakenMessage})
    case errors.Is(err, repository.ErrVenueUnavailable):
        return c.JSON(http.StatusConflict, echo.Map{"error": "venue is not open for booking"})
    case errors.Is(err, repository.ErrAlreadyPaid):
        return c.JSON(http.StatusConflict, echo.Map{"error": "invoice already settled"})
    case errors.Is(err, repository.ErrAlreadyCancelled):
        return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already cancelled"})
    case errors.Is(err, availability.ErrInvalidRange),
        errors.Is(err, service.ErrInvalidDate),
        errors.Is(err, service.ErrDateInPast),
        errors.Is(err, service.ErrOutsideHours):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}
