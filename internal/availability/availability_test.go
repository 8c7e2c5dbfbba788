package availability

import (
    "errors"
    "testing"

    "github.com/iliyamo/venue-reservation/internal/model"
)

func mustInterval(t *testing.T, start, end string) Interval {
    t.Helper()
    iv, err := ParseInterval(start, end)
    if err != nil {
        t.Fatalf("ParseInterval(%s, %s): %v", start, end, err)
    }
    return iv
}

func TestParseInterval(t *testing.T) {
    cases := []struct {
        name    string
        start   string
        end     string
        want    Interval
        wantErr bool
    }{
        {"whole hours", "08:00", "10:00", Interval{8, 10}, false},
        {"with seconds", "08:00:00", "09:00:00", Interval{8, 9}, false},
        {"end equals start", "10:00", "10:00", Interval{}, true},
        {"end before start", "12:00", "10:00", Interval{}, true},
        {"partial hour", "08:30", "09:30", Interval{}, true},
        {"garbage", "eight", "nine", Interval{}, true},
        {"missing minutes", "08", "09", Interval{}, true},
        {"hour out of range", "25:00", "26:00", Interval{}, true},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            got, err := ParseInterval(tc.start, tc.end)
            if tc.wantErr {
                if !errors.Is(err, ErrInvalidRange) {
                    t.Fatalf("expected ErrInvalidRange, got %v", err)
                }
                return
            }
            if err != nil {
                t.Fatalf("unexpected error: %v", err)
            }
            if got != tc.want {
                t.Fatalf("got %+v, want %+v", got, tc.want)
            }
        })
    }
}

func TestIsAvailable(t *testing.T) {
    booked := []Interval{{10, 12}}
    cases := []struct {
        name  string
        start string
        end   string
        want  bool
    }{
        {"no conflict before", "08:00", "10:00", true},
        {"no conflict after", "12:00", "14:00", true},
        {"identical interval", "10:00", "12:00", false},
        {"partial overlap at start", "09:00", "11:00", false},
        {"partial overlap at end", "11:00", "13:00", false},
        {"request contains booking", "09:00", "13:00", false},
        {"request inside booking", "10:00", "11:00", false},
        {"touching end boundary", "08:00", "10:00", true},
        {"touching start boundary", "12:00", "13:00", true},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            ok, err := IsAvailable(mustInterval(t, tc.start, tc.end), booked)
            if err != nil {
                t.Fatalf("unexpected error: %v", err)
            }
            if ok != tc.want {
                t.Fatalf("IsAvailable(%s-%s) = %v, want %v", tc.start, tc.end, ok, tc.want)
            }
        })
    }
}

func TestIsAvailableNoReservations(t *testing.T) {
    ok, err := IsAvailable(Interval{8, 9}, nil)
    if err != nil || !ok {
        t.Fatalf("empty booking set must always be available, got (%v, %v)", ok, err)
    }
}

func TestIsAvailableDegenerateRange(t *testing.T) {
    if _, err := IsAvailable(Interval{10, 10}, nil); !errors.Is(err, ErrInvalidRange) {
        t.Fatalf("expected ErrInvalidRange for zero-width interval, got %v", err)
    }
    if _, err := IsAvailable(Interval{12, 10}, nil); !errors.Is(err, ErrInvalidRange) {
        t.Fatalf("expected ErrInvalidRange for inverted interval, got %v", err)
    }
}

func TestNonOverlappingIntervalsCoexist(t *testing.T) {
    first := Interval{8, 10}
    second := Interval{10, 12}
    ok, err := IsAvailable(second, []Interval{first})
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if !ok {
        t.Fatal("touching intervals must not be treated as overlapping")
    }
}

func TestFreeSlotsDefaultWindow(t *testing.T) {
    w := DefaultWindow()
    slots := FreeSlots(w, nil)
    if len(slots) != 14 {
        t.Fatalf("expected 14 slots for an empty day, got %d", len(slots))
    }
    if slots[0].Start != "08:00" || slots[0].End != "09:00" {
        t.Fatalf("first slot = %+v, want 08:00-09:00", slots[0])
    }
    if slots[13].Start != "21:00" || slots[13].End != "22:00" {
        t.Fatalf("last slot = %+v, want 21:00-22:00", slots[13])
    }
    // Chronological and not coalesced: every entry is exactly one hour.
    for i := 1; i < len(slots); i++ {
        if slots[i].Start != slots[i-1].End {
            t.Fatalf("slots out of order at %d: %+v after %+v", i, slots[i], slots[i-1])
        }
    }
}

func TestFreeSlotsExcludesBookedHours(t *testing.T) {
    w := DefaultWindow()
    slots := FreeSlots(w, []Interval{{10, 12}})
    if len(slots) != 12 {
        t.Fatalf("expected 12 slots with a two-hour booking, got %d", len(slots))
    }
    for _, s := range slots {
        if s.Start == "10:00" || s.Start == "11:00" {
            t.Fatalf("booked hour %s still listed as free", s.Start)
        }
    }
}

func TestFreeSlotsCustomWindow(t *testing.T) {
    w := Window{OpenHour: 6, CloseHour: 10}
    slots := FreeSlots(w, []Interval{{7, 8}})
    want := []Slot{{"06:00", "07:00"}, {"08:00", "09:00"}, {"09:00", "10:00"}}
    if len(slots) != len(want) {
        t.Fatalf("got %d slots, want %d", len(slots), len(want))
    }
    for i := range want {
        if slots[i] != want[i] {
            t.Fatalf("slot %d = %+v, want %+v", i, slots[i], want[i])
        }
    }
}

func TestFreeSlotsIsPure(t *testing.T) {
    w := DefaultWindow()
    booked := []Interval{{9, 11}, {15, 16}}
    first := FreeSlots(w, booked)
    second := FreeSlots(w, booked)
    if len(first) != len(second) {
        t.Fatalf("repeated calls disagree: %d vs %d", len(first), len(second))
    }
    for i := range first {
        if first[i] != second[i] {
            t.Fatalf("repeated calls disagree at %d: %+v vs %+v", i, first[i], second[i])
        }
    }
}

func TestBlockingIntervals(t *testing.T) {
    note := "late arrival"
    reservations := []model.Reservation{
        {Status: model.ReservationPending, StartTime: "08:00:00", EndTime: "10:00:00"},
        {Status: model.ReservationConfirmed, StartTime: "12:00:00", EndTime: "13:00:00", Notes: &note},
        {Status: model.ReservationCancelled, StartTime: "14:00:00", EndTime: "16:00:00"},
    }
    got := BlockingIntervals(reservations)
    if len(got) != 2 {
        t.Fatalf("expected 2 blocking intervals, got %d", len(got))
    }
    if got[0] != (Interval{8, 10}) || got[1] != (Interval{12, 13}) {
        t.Fatalf("unexpected intervals: %+v", got)
    }
}

func TestCancelledReservationsNeverBlock(t *testing.T) {
    reservations := []model.Reservation{
        {Status: model.ReservationCancelled, StartTime: "10:00:00", EndTime: "12:00:00"},
    }
    booked := BlockingIntervals(reservations)
    ok, err := IsAvailable(Interval{10, 12}, booked)
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if !ok {
        t.Fatal("cancelled reservation must not block its own interval")
    }
    if n := len(FreeSlots(DefaultWindow(), booked)); n != 14 {
        t.Fatalf("cancelled reservation removed slots: got %d, want 14", n)
    }
}

func TestPriceCents(t *testing.T) {
    cases := []struct {
        perHour uint32
        iv      Interval
        want    uint32
    }{
        {50000, Interval{10, 12}, 100000},
        {80000, Interval{8, 9}, 80000},
        {120000, Interval{8, 22}, 1680000},
    }
    for _, tc := range cases {
        if got := PriceCents(tc.perHour, tc.iv); got != tc.want {
            t.Fatalf("PriceCents(%d, %+v) = %d, want %d", tc.perHour, tc.iv, got, tc.want)
        }
    }
}
