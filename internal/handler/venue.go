package handler

import (
    "net/http" // HTTP status codes
    "strconv"  // parsing path and query parameters

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/venue-reservation/internal/model"
    "github.com/iliyamo/venue-reservation/internal/repository"
    "github.com/iliyamo/venue-reservation/internal/service"
)

// VenueHandler exposes the venue catalogue and the availability reads.
// Catalogue writes have no authentication in front of them here; access
// control is an external collaborator of this service.
type VenueHandler struct {
    Venues   *repository.VenueRepo   // catalogue reads and writes
    Bookings *service.BookingService // availability computations
}

// NewVenueHandler constructs a VenueHandler.  Both dependencies must be
// non-nil.
func NewVenueHandler(venues *repository.VenueRepo, bookings *service.BookingService) *VenueHandler {
    if venues == nil || bookings == nil {
        panic("nil dependency passed to NewVenueHandler")
    }
    return &VenueHandler{Venues: venues, Bookings: bookings}
}

// venueBody is the request payload for creating or updating a venue.
type venueBody struct {
    Name        string   `json:"name"`
    Type        string   `json:"type"`
    Capacity    uint32   `json:"capacity"`
    PriceCents  uint32   `json:"price_cents"`
    Location    string   `json:"location"`
    Amenities   []string `json:"amenities"`
    Description *string  `json:"description"`
    ImageURL    *string  `json:"image_url"`
    Status      string   `json:"status"`
}

func (b *venueBody) validate() (string, bool) {
    if b.Name == "" {
        return "name is required", false
    }
    if !model.ValidVenueType(b.Type) {
        return "type must be sport, conference or party", false
    }
    if b.Capacity == 0 {
        return "capacity must be positive", false
    }
    if b.Location == "" {
        return "location is required", false
    }
    if b.Status == "" {
        b.Status = model.VenueStatusActive
    }
    if !model.ValidVenueStatus(b.Status) {
        return "status must be active, maintenance or inactive", false
    }
    return "", true
}

// ListVenues handles GET /v1/venues.  Optional query parameters narrow
// the listing: type, location (substring), min_capacity, max_price_cents
// and status.  Without an explicit status only active venues are shown.
func (h *VenueHandler) ListVenues(c echo.Context) error {
    f := repository.VenueFilter{
        Type:     c.QueryParam("type"),
        Location: c.QueryParam("location"),
        Status:   c.QueryParam("status"),
    }
    if f.Type != "" && !model.ValidVenueType(f.Type) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown venue type"})
    }
    if f.Status != "" && !model.ValidVenueStatus(f.Status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown venue status"})
    }
    if s := c.QueryParam("min_capacity"); s != "" {
        n, err := strconv.ParseUint(s, 10, 32)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_capacity"})
        }
        f.MinCapacity = uint32(n)
    }
    if s := c.QueryParam("max_price_cents"); s != "" {
        n, err := strconv.ParseUint(s, 10, 32)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_price_cents"})
        }
        f.MaxCents = uint32(n)
    }
    venues, err := h.Venues.List(c.Request().Context(), f)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": venues})
}

// CreateVenue handles POST /v1/venues.
func (h *VenueHandler) CreateVenue(c echo.Context) error {
    var body venueBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if msg, ok := body.validate(); !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    venue := &model.Venue{
        Name:        body.Name,
        Type:        body.Type,
        Capacity:    body.Capacity,
        PriceCents:  body.PriceCents,
        Location:    body.Location,
        Amenities:   body.Amenities,
        Description: body.Description,
        ImageURL:    body.ImageURL,
        Status:      body.Status,
    }
    if err := h.Venues.Create(c.Request().Context(), venue); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": venue})
}

// GetVenue handles GET /v1/venues/:id.  For active venues the response
// includes the free slots of the next seven days so a booking picker can
// be rendered from a single request.
func (h *VenueHandler) GetVenue(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
    }
    ctx := c.Request().Context()
    venue, err := h.Venues.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    resp := echo.Map{"item": venue}
    if venue.Status == model.VenueStatusActive {
        week, err := h.Bookings.WeekAvailability(ctx, id)
        if err != nil {
            return writeError(c, err)
        }
        resp["available_slots"] = week
    }
    return c.JSON(http.StatusOK, resp)
}

// UpdateVenue handles PUT /v1/venues/:id.
func (h *VenueHandler) UpdateVenue(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
    }
    var body venueBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if msg, ok := body.validate(); !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    ctx := c.Request().Context()
    venue, err := h.Venues.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    venue.Name = body.Name
    venue.Type = body.Type
    venue.Capacity = body.Capacity
    venue.PriceCents = body.PriceCents
    venue.Location = body.Location
    venue.Amenities = body.Amenities
    venue.Description = body.Description
    venue.ImageURL = body.ImageURL
    venue.Status = body.Status
    if err := h.Venues.Update(ctx, venue); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"item": venue})
}

// DeleteVenue handles DELETE /v1/venues/:id.
func (h *VenueHandler) DeleteVenue(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
    }
    if err := h.Venues.Delete(c.Request().Context(), id); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// CheckAvailability handles GET /v1/venues/:id/availability.  It answers
// whether the venue is free for date + start + end, given as query
// parameters.  The answer is advisory; only booking creation decides.
func (h *VenueHandler) CheckAvailability(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
    }
    date := c.QueryParam("date")
    start := c.QueryParam("start")
    end := c.QueryParam("end")
    if date == "" || start == "" || end == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date, start and end are required"})
    }
    available, err := h.Bookings.CheckAvailability(c.Request().Context(), id, date, start, end)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"available": available})
}

// DaySlots handles GET /v1/venues/:id/slots.  It lists the free one-hour
// slots of the venue on the date given by the date query parameter, in
// chronological order.
func (h *VenueHandler) DaySlots(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
    }
    date := c.QueryParam("date")
    if date == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required"})
    }
    slots, err := h.Bookings.DaySlots(c.Request().Context(), id, date)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"date": date, "slots": slots})
}
