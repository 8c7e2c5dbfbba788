package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/venue-reservation/internal/config"
    "github.com/iliyamo/venue-reservation/internal/handler"
    "github.com/iliyamo/venue-reservation/internal/middleware"
)

// Handlers bundles the handler set the router wires up.  Grouping them in
// one struct keeps Register's signature stable as endpoints grow.
type Handlers struct {
    Venues       *handler.VenueHandler
    Reservations *handler.ReservationHandler
    Invoices     *handler.InvoiceHandler
}

// RegisterRoutes registers routes that sit outside the versioned API on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Map the GET request at path "/healthz" to the Health handler.  This
    // endpoint can be used by load balancers or monitoring systems to verify
    // that the service is up and running.
    e.GET("/healthz", handler.Health)
}

// Register wires the full API under /v1.  The rate limiter guards every
// versioned route; the response cache fronts only the heavy availability
// reads, because catalogue listings must reflect writes immediately and
// reservation data is per-user.  Both middlewares are no-ops when rdb is
// nil or their config disables them.
func Register(e *echo.Echo, h Handlers, rdb *redis.Client, cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig) {
    v1 := e.Group("/v1")
    v1.Use(middleware.RateLimit(rlCfg, rdb))

    cached := middleware.ResponseCache(cacheCfg, rdb)

    // Venue catalogue.
    v1.GET("/venues", h.Venues.ListVenues)
    v1.POST("/venues", h.Venues.CreateVenue)
    v1.GET("/venues/:id", h.Venues.GetVenue, cached)
    v1.PUT("/venues/:id", h.Venues.UpdateVenue)
    v1.DELETE("/venues/:id", h.Venues.DeleteVenue)

    // Availability reads.  These are the hot path of the booking picker,
    // so they run behind the short-lived response cache.
    v1.GET("/venues/:id/availability", h.Venues.CheckAvailability, cached)
    v1.GET("/venues/:id/slots", h.Venues.DaySlots, cached)

    // Reservation lifecycle.
    v1.POST("/reservations", h.Reservations.CreateReservation)
    v1.GET("/reservations", h.Reservations.ListReservations)
    v1.GET("/reservations/:id", h.Reservations.GetReservation)
    v1.POST("/reservations/:id/cancel", h.Reservations.CancelReservation)
    v1.GET("/reservations/:id/invoice", h.Reservations.GetReservationInvoice)

    // Invoices and the simulated payment flow.
    v1.GET("/invoices/:id", h.Invoices.GetInvoice)
    v1.POST("/invoices/:id/pay", h.Invoices.Pay)
}
