package service

import (
    "context"
    "errors"
    "sync"
    "testing"
    "time"

    "github.com/iliyamo/venue-reservation/internal/availability"
    "github.com/iliyamo/venue-reservation/internal/model"
    "github.com/iliyamo/venue-reservation/internal/queue"
    "github.com/iliyamo/venue-reservation/internal/repository"
)

// memoryStore implements Store with a mutex in place of the database
// transaction.  CreateBooking holds the lock across the overlap check and
// the insert, honoring the same atomicity contract as the MySQL store's
// venue-row lock.
type memoryStore struct {
    mu           sync.Mutex
    venues       map[uint64]*model.Venue
    reservations map[uint64]*model.Reservation
    invoices     map[uint64]*model.Invoice
    nextRes      uint64
    nextInv      uint64
}

func newMemoryStore(venues ...*model.Venue) *memoryStore {
    s := &memoryStore{
        venues:       make(map[uint64]*model.Venue),
        reservations: make(map[uint64]*model.Reservation),
        invoices:     make(map[uint64]*model.Invoice),
    }
    for _, v := range venues {
        s.venues[v.ID] = v
    }
    return s
}

func (s *memoryStore) VenueByID(_ context.Context, id uint64) (*model.Venue, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    v, ok := s.venues[id]
    if !ok {
        return nil, repository.ErrVenueNotFound
    }
    clone := *v
    return &clone, nil
}

func (s *memoryStore) BlockingReservations(_ context.Context, venueID uint64, date string) ([]model.Reservation, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := make([]model.Reservation, 0)
    for _, r := range s.reservations {
        if r.VenueID == venueID && r.Date == date && r.Blocks() {
            out = append(out, *r)
        }
    }
    return out, nil
}

func (s *memoryStore) CreateBooking(_ context.Context, res *model.Reservation, inv *model.Invoice) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    // Half-open overlap re-check under the lock; HH:MM:SS strings are
    // fixed width so lexicographic comparison is chronological.
    for _, r := range s.reservations {
        if r.VenueID == res.VenueID && r.Date == res.Date && r.Blocks() &&
            r.StartTime < res.EndTime && r.EndTime > res.StartTime {
            return repository.ErrBookingConflict
        }
    }
    s.nextRes++
    res.ID = s.nextRes
    res.CreatedAt = time.Now().UTC()
    res.UpdatedAt = res.CreatedAt
    clone := *res
    s.reservations[res.ID] = &clone

    s.nextInv++
    inv.ID = s.nextInv
    inv.ReservationID = res.ID
    inv.PaymentStatus = model.InvoiceUnpaid
    inv.InvoiceNumber = repository.NewInvoiceNumber(time.Now())
    invClone := *inv
    s.invoices[inv.ID] = &invClone
    return nil
}

func (s *memoryStore) ConfirmPayment(_ context.Context, invoiceID uint64, method string) (*model.Reservation, *model.Invoice, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    inv, ok := s.invoices[invoiceID]
    if !ok {
        return nil, nil, repository.ErrInvoiceNotFound
    }
    if inv.PaymentStatus != model.InvoiceUnpaid {
        return nil, nil, repository.ErrAlreadyPaid
    }
    res, ok := s.reservations[inv.ReservationID]
    if !ok {
        return nil, nil, repository.ErrReservationNotFound
    }
    if res.Status == model.ReservationCancelled {
        return nil, nil, repository.ErrAlreadyCancelled
    }
    inv.PaymentStatus = model.InvoicePaid
    inv.PaymentMethod = &method
    if res.Status == model.ReservationPending {
        res.Status = model.ReservationConfirmed
    }
    resClone, invClone := *res, *inv
    return &resClone, &invClone, nil
}

func (s *memoryStore) CancelReservation(_ context.Context, id uint64) (*model.Reservation, *model.Invoice, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    res, ok := s.reservations[id]
    if !ok {
        return nil, nil, repository.ErrReservationNotFound
    }
    if res.Status == model.ReservationCancelled {
        return nil, nil, repository.ErrAlreadyCancelled
    }
    res.Status = model.ReservationCancelled
    var invClone *model.Invoice
    for _, inv := range s.invoices {
        if inv.ReservationID == id {
            if inv.PaymentStatus == model.InvoicePaid {
                inv.PaymentStatus = model.InvoiceRefunded
            }
            c := *inv
            invClone = &c
            break
        }
    }
    resClone := *res
    return &resClone, invClone, nil
}

// eventRecorder captures published events for assertions.
type eventRecorder struct {
    mu     sync.Mutex
    events []queue.ReservationEvent
}

func (r *eventRecorder) publish(_ context.Context, ev queue.ReservationEvent) error {
    r.mu.Lock()
    defer r.mu.Unlock()
    r.events = append(r.events, ev)
    return nil
}

func (r *eventRecorder) kinds() []string {
    r.mu.Lock()
    defer r.mu.Unlock()
    out := make([]string, len(r.events))
    for i, ev := range r.events {
        out[i] = ev.Kind
    }
    return out
}

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*BookingService, *memoryStore, *eventRecorder) {
    t.Helper()
    store := newMemoryStore(&model.Venue{
        ID:         1,
        Name:       "Terrain de Football Premium",
        Type:       model.VenueTypeSport,
        Capacity:   22,
        PriceCents: 50000,
        Location:   "Casablanca",
        Status:     model.VenueStatusActive,
    })
    rec := &eventRecorder{}
    svc := NewBookingService(store, availability.DefaultWindow(), rec.publish)
    svc.now = func() time.Time { return testNow }
    return svc, store, rec
}

func bookingReq(start, end string) CreateBookingRequest {
    return CreateBookingRequest{
        UserID:  7,
        VenueID: 1,
        Date:    "2026-09-05",
        Start:   start,
        End:     end,
    }
}

func TestCreateBooking(t *testing.T) {
    svc, _, rec := newTestService(t)
    res, inv, err := svc.CreateBooking(context.Background(), bookingReq("10:00", "12:00"))
    if err != nil {
        t.Fatalf("CreateBooking: %v", err)
    }
    if res.Status != model.ReservationPending {
        t.Fatalf("new reservation status = %s, want pending", res.Status)
    }
    if res.TotalCents != 100000 {
        t.Fatalf("total = %d, want 100000 (2h * 50000)", res.TotalCents)
    }
    if res.StartTime != "10:00:00" || res.EndTime != "12:00:00" {
        t.Fatalf("stored times %s-%s, want 10:00:00-12:00:00", res.StartTime, res.EndTime)
    }
    if inv.PaymentStatus != model.InvoiceUnpaid || inv.AmountCents != res.TotalCents {
        t.Fatalf("invoice %+v does not match reservation", inv)
    }
    if got := rec.kinds(); len(got) != 1 || got[0] != queue.EventReservationCreated {
        t.Fatalf("published events = %v, want [reservation.created]", got)
    }
}

func TestCreateBookingValidation(t *testing.T) {
    svc, _, _ := newTestService(t)
    ctx := context.Background()
    cases := []struct {
        name string
        req  CreateBookingRequest
        want error
    }{
        {"end before start", bookingReq("12:00", "10:00"), availability.ErrInvalidRange},
        {"partial hour", bookingReq("10:30", "11:30"), availability.ErrInvalidRange},
        {"before opening", bookingReq("06:00", "08:00"), ErrOutsideHours},
        {"past closing", bookingReq("21:00", "23:00"), ErrOutsideHours},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            if _, _, err := svc.CreateBooking(ctx, tc.req); !errors.Is(err, tc.want) {
                t.Fatalf("got %v, want %v", err, tc.want)
            }
        })
    }

    past := bookingReq("10:00", "12:00")
    past.Date = "2026-08-31"
    if _, _, err := svc.CreateBooking(ctx, past); !errors.Is(err, ErrDateInPast) {
        t.Fatalf("past date: got %v, want ErrDateInPast", err)
    }
    malformed := bookingReq("10:00", "12:00")
    malformed.Date = "05/09/2026"
    if _, _, err := svc.CreateBooking(ctx, malformed); !errors.Is(err, ErrInvalidDate) {
        t.Fatalf("malformed date: got %v, want ErrInvalidDate", err)
    }
    missing := bookingReq("10:00", "12:00")
    missing.VenueID = 99
    if _, _, err := svc.CreateBooking(ctx, missing); !errors.Is(err, repository.ErrVenueNotFound) {
        t.Fatalf("missing venue: got %v, want ErrVenueNotFound", err)
    }
}

func TestCreateBookingInactiveVenue(t *testing.T) {
    svc, store, _ := newTestService(t)
    store.venues[2] = &model.Venue{ID: 2, Name: "Closed Hall", Status: model.VenueStatusMaintenance, PriceCents: 1000}
    req := bookingReq("10:00", "12:00")
    req.VenueID = 2
    if _, _, err := svc.CreateBooking(context.Background(), req); !errors.Is(err, repository.ErrVenueUnavailable) {
        t.Fatalf("got %v, want ErrVenueUnavailable", err)
    }
}

func TestNonOverlappingBookingsCoexist(t *testing.T) {
    svc, _, _ := newTestService(t)
    ctx := context.Background()
    if _, _, err := svc.CreateBooking(ctx, bookingReq("08:00", "10:00")); err != nil {
        t.Fatalf("first booking: %v", err)
    }
    // Touching boundary must not conflict.
    if _, _, err := svc.CreateBooking(ctx, bookingReq("10:00", "12:00")); err != nil {
        t.Fatalf("adjacent booking rejected: %v", err)
    }
}

func TestOverlappingBookingRejected(t *testing.T) {
    svc, _, _ := newTestService(t)
    ctx := context.Background()
    if _, _, err := svc.CreateBooking(ctx, bookingReq("10:00", "12:00")); err != nil {
        t.Fatalf("first booking: %v", err)
    }
    overlaps := []CreateBookingRequest{
        bookingReq("10:00", "12:00"), // identical
        bookingReq("09:00", "11:00"), // partial at start
        bookingReq("11:00", "13:00"), // partial at end
        bookingReq("09:00", "13:00"), // containing
        bookingReq("10:00", "11:00"), // nested
    }
    for _, req := range overlaps {
        if _, _, err := svc.CreateBooking(ctx, req); !errors.Is(err, repository.ErrBookingConflict) {
            t.Fatalf("%s-%s: got %v, want ErrBookingConflict", req.Start, req.End, err)
        }
    }
}

// Two concurrent attempts to book the identical interval must result in
// exactly one success and one conflict. The guard lives in the store's
// atomic CreateBooking, not in the advisory pre-check, so this holds for
// any number of racing writers.
func TestConcurrentIdenticalBookingsOneWinner(t *testing.T) {
    svc, _, _ := newTestService(t)
    const attempts = 16

    var wg sync.WaitGroup
    errs := make([]error, attempts)
    for i := 0; i < attempts; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            _, _, errs[i] = svc.CreateBooking(context.Background(), bookingReq("14:00", "16:00"))
        }(i)
    }
    wg.Wait()

    won, lost := 0, 0
    for _, err := range errs {
        switch {
        case err == nil:
            won++
        case errors.Is(err, repository.ErrBookingConflict):
            lost++
        default:
            t.Fatalf("unexpected error: %v", err)
        }
    }
    if won != 1 || lost != attempts-1 {
        t.Fatalf("got %d winners and %d conflicts, want exactly 1 and %d", won, lost, attempts-1)
    }
}

func TestCancelledBookingFreesSlot(t *testing.T) {
    svc, _, _ := newTestService(t)
    ctx := context.Background()
    res, _, err := svc.CreateBooking(ctx, bookingReq("10:00", "12:00"))
    if err != nil {
        t.Fatalf("booking: %v", err)
    }
    if _, _, err := svc.CancelReservation(ctx, res.ID); err != nil {
        t.Fatalf("cancel: %v", err)
    }
    // The exact same interval is free again.
    if _, _, err := svc.CreateBooking(ctx, bookingReq("10:00", "12:00")); err != nil {
        t.Fatalf("rebooking cancelled slot: %v", err)
    }
}

func TestConfirmPayment(t *testing.T) {
    svc, _, rec := newTestService(t)
    ctx := context.Background()
    _, inv, err := svc.CreateBooking(ctx, bookingReq("10:00", "12:00"))
    if err != nil {
        t.Fatalf("booking: %v", err)
    }
    res, paid, err := svc.ConfirmPayment(ctx, inv.ID, "card")
    if err != nil {
        t.Fatalf("ConfirmPayment: %v", err)
    }
    if res.Status != model.ReservationConfirmed {
        t.Fatalf("reservation status = %s, want confirmed", res.Status)
    }
    if paid.PaymentStatus != model.InvoicePaid || paid.PaymentMethod == nil || *paid.PaymentMethod != "card" {
        t.Fatalf("invoice after payment = %+v", paid)
    }
    if _, _, err := svc.ConfirmPayment(ctx, inv.ID, "card"); !errors.Is(err, repository.ErrAlreadyPaid) {
        t.Fatalf("second payment: got %v, want ErrAlreadyPaid", err)
    }
    kinds := rec.kinds()
    if len(kinds) != 2 || kinds[1] != queue.EventReservationConfirmed {
        t.Fatalf("published events = %v, want created then confirmed", kinds)
    }
}

func TestCancelRefundsPaidInvoice(t *testing.T) {
    svc, _, _ := newTestService(t)
    ctx := context.Background()
    booked, inv, err := svc.CreateBooking(ctx, bookingReq("10:00", "12:00"))
    if err != nil {
        t.Fatalf("booking: %v", err)
    }
    if _, _, err := svc.ConfirmPayment(ctx, inv.ID, "card"); err != nil {
        t.Fatalf("payment: %v", err)
    }
    res, refunded, err := svc.CancelReservation(ctx, booked.ID)
    if err != nil {
        t.Fatalf("cancel: %v", err)
    }
    if res.Status != model.ReservationCancelled {
        t.Fatalf("status = %s, want cancelled", res.Status)
    }
    if refunded == nil || refunded.PaymentStatus != model.InvoiceRefunded {
        t.Fatalf("invoice after cancel = %+v, want refunded", refunded)
    }
    // Cancelled is terminal.
    if _, _, err := svc.CancelReservation(ctx, booked.ID); !errors.Is(err, repository.ErrAlreadyCancelled) {
        t.Fatalf("second cancel: got %v, want ErrAlreadyCancelled", err)
    }
    if _, _, err := svc.ConfirmPayment(ctx, inv.ID, "card"); !errors.Is(err, repository.ErrAlreadyPaid) {
        t.Fatalf("paying a refunded invoice: got %v, want ErrAlreadyPaid", err)
    }
}

func TestCheckAvailabilityAdvisory(t *testing.T) {
    svc, _, _ := newTestService(t)
    ctx := context.Background()
    ok, err := svc.CheckAvailability(ctx, 1, "2026-09-05", "10:00", "12:00")
    if err != nil || !ok {
        t.Fatalf("empty day should be available, got (%v, %v)", ok, err)
    }
    if _, _, err := svc.CreateBooking(ctx, bookingReq("10:00", "12:00")); err != nil {
        t.Fatalf("booking: %v", err)
    }
    ok, err = svc.CheckAvailability(ctx, 1, "2026-09-05", "11:00", "13:00")
    if err != nil {
        t.Fatalf("CheckAvailability: %v", err)
    }
    if ok {
        t.Fatal("overlapping range reported as available")
    }
}

func TestDaySlots(t *testing.T) {
    svc, _, _ := newTestService(t)
    ctx := context.Background()
    slots, err := svc.DaySlots(ctx, 1, "2026-09-05")
    if err != nil {
        t.Fatalf("DaySlots: %v", err)
    }
    if len(slots) != 14 {
        t.Fatalf("empty day: %d slots, want 14", len(slots))
    }
    if _, _, err := svc.CreateBooking(ctx, bookingReq("10:00", "12:00")); err != nil {
        t.Fatalf("booking: %v", err)
    }
    slots, err = svc.DaySlots(ctx, 1, "2026-09-05")
    if err != nil {
        t.Fatalf("DaySlots: %v", err)
    }
    if len(slots) != 12 {
        t.Fatalf("after 2h booking: %d slots, want 12", len(slots))
    }
    for _, s := range slots {
        if s.Start == "10:00" || s.Start == "11:00" {
            t.Fatalf("booked slot %s still listed", s.Start)
        }
    }
}

func TestWeekAvailability(t *testing.T) {
    svc, _, _ := newTestService(t)
    ctx := context.Background()
    req := bookingReq("10:00", "12:00")
    req.Date = testNow.Format("2006-01-02")
    if _, _, err := svc.CreateBooking(ctx, req); err != nil {
        t.Fatalf("booking: %v", err)
    }
    week, err := svc.WeekAvailability(ctx, 1)
    if err != nil {
        t.Fatalf("WeekAvailability: %v", err)
    }
    if len(week) != 7 {
        t.Fatalf("got %d days, want 7", len(week))
    }
    today := testNow.Format("2006-01-02")
    if len(week[today]) != 12 {
        t.Fatalf("today has %d free slots, want 12", len(week[today]))
    }
    tomorrow := testNow.AddDate(0, 0, 1).Format("2006-01-02")
    if len(week[tomorrow]) != 14 {
        t.Fatalf("tomorrow has %d free slots, want 14", len(week[tomorrow]))
    }
}
