// Package availability implements the time-slot engine for venue bookings.
// It is a pure computation over caller-supplied inputs: it performs no
// queries, keeps no state and is safe to call concurrently.  All intervals
// are half-open [start, end) on whole-hour boundaries, so a booking that
// ends at 10:00 does not conflict with one that starts at 10:00.
package availability

import (
    "errors"
    "fmt"
    "strconv"
    "strings"

    "github.com/iliyamo/venue-reservation/internal/model"
)

// ErrInvalidRange is returned for degenerate or malformed time ranges:
// end not strictly after start, values outside 00-24, partial hours, or
// strings that are not HH:MM wall-clock times.
var ErrInvalidRange = errors.New("invalid time range")

// Window is the operating window of a venue expressed in whole hours.
// It is explicit configuration rather than a package constant so that
// per-venue overrides and non-default test windows are possible.
type Window struct {
    OpenHour  int // first bookable hour, inclusive
    CloseHour int // closing hour, exclusive
}

// DefaultWindow returns the global operating policy of 08:00-22:00.
func DefaultWindow() Window { return Window{OpenHour: 8, CloseHour: 22} }

// SlotCount returns the number of one-hour slots the window contains.
func (w Window) SlotCount() int {
    if w.CloseHour <= w.OpenHour {
        return 0
    }
    return w.CloseHour - w.OpenHour
}

// Contains reports whether the interval lies fully inside the window.
func (w Window) Contains(iv Interval) bool {
    return iv.StartHour >= w.OpenHour && iv.EndHour <= w.CloseHour
}

// Interval is a half-open [StartHour, EndHour) range of whole hours on a
// single calendar day.
type Interval struct {
    StartHour int
    EndHour   int
}

// Hours returns the integer hour duration of the interval.
func (iv Interval) Hours() int { return iv.EndHour - iv.StartHour }

// Valid reports whether the interval is well formed: whole hours within a
// day and end strictly after start.
func (iv Interval) Valid() bool {
    return iv.StartHour >= 0 && iv.EndHour <= 24 && iv.EndHour > iv.StartHour
}

// Start renders the interval start as an HH:MM string.
func (iv Interval) Start() string { return fmt.Sprintf("%02d:00", iv.StartHour) }

// End renders the interval end as an HH:MM string.
func (iv Interval) End() string { return fmt.Sprintf("%02d:00", iv.EndHour) }

// Slot is one free one-hour window rendered for clients, with start and
// end as HH:MM 24-hour strings.
type Slot struct {
    Start string `json:"start"`
    End   string `json:"end"`
}

// ParseInterval builds an Interval from HH:MM 24-hour strings on whole-hour
// boundaries.  The calling form layer constrains inputs to whole hours;
// anything else (minutes other than 00, malformed strings, end <= start)
// is rejected with ErrInvalidRange so the engine never silently answers a
// question it was not asked.
func ParseInterval(start, end string) (Interval, error) {
    sh, err := parseHour(start)
    if err != nil {
        return Interval{}, err
    }
    eh, err := parseHour(end)
    if err != nil {
        return Interval{}, err
    }
    iv := Interval{StartHour: sh, EndHour: eh}
    if !iv.Valid() {
        return Interval{}, fmt.Errorf("%w: %s-%s", ErrInvalidRange, start, end)
    }
    return iv, nil
}

// parseHour accepts HH:MM or HH:MM:SS and returns the hour component.
// Minutes and seconds must be zero.
func parseHour(s string) (int, error) {
    parts := strings.Split(s, ":")
    if len(parts) != 2 && len(parts) != 3 {
        return 0, fmt.Errorf("%w: %q is not a wall-clock time", ErrInvalidRange, s)
    }
    h, err := strconv.Atoi(parts[0])
    if err != nil || h < 0 || h > 24 {
        return 0, fmt.Errorf("%w: bad hour in %q", ErrInvalidRange, s)
    }
    for _, rest := range parts[1:] {
        if rest != "00" {
            return 0, fmt.Errorf("%w: %q is not on a whole-hour boundary", ErrInvalidRange, s)
        }
    }
    return h, nil
}

// Overlaps applies the half-open interval overlap test.  Two intervals
// [a.Start, a.End) and [b.Start, b.End) overlap iff a.Start < b.End and
// a.End > b.Start; touching endpoints do not count as overlap.
func Overlaps(a, b Interval) bool {
    return a.StartHour < b.EndHour && a.EndHour > b.StartHour
}

// IsAvailable answers whether the requested interval is free given the
// set of blocking intervals already booked for the same venue and date.
// With no existing bookings it is always true.  The request itself is
// validated and a degenerate range yields ErrInvalidRange rather than a
// misleading boolean.
func IsAvailable(req Interval, booked []Interval) (bool, error) {
    if !req.Valid() {
        return false, fmt.Errorf("%w: %s-%s", ErrInvalidRange, req.Start(), req.End())
    }
    for _, b := range booked {
        if Overlaps(req, b) {
            return false, nil
        }
    }
    return true, nil
}

// FreeSlots enumerates every one-hour slot inside the window that overlaps
// none of the blocking intervals, in chronological order.  Adjacent free
// hours stay separate one-hour entries; the output is deliberately not
// coalesced into ranges, which keeps the booking grid trivial for clients
// to render.  The result is always non-nil.
func FreeSlots(w Window, booked []Interval) []Slot {
    slots := make([]Slot, 0, w.SlotCount())
    for hour := w.OpenHour; hour < w.CloseHour; hour++ {
        candidate := Interval{StartHour: hour, EndHour: hour + 1}
        free := true
        for _, b := range booked {
            if Overlaps(candidate, b) {
                free = false
                break
            }
        }
        if free {
            slots = append(slots, Slot{Start: candidate.Start(), End: candidate.End()})
        }
    }
    return slots
}

// PriceCents computes the price of an interval as the per-hour price times
// the integer hour duration.  Fractional hours are not supported; the
// boundary validation guarantees whole-hour intervals.
func PriceCents(perHourCents uint32, iv Interval) uint32 {
    return perHourCents * uint32(iv.Hours())
}

// BlockingIntervals maps a venue's reservations for one date to the
// intervals that occupy the grid.  Cancelled reservations never block;
// pending and confirmed both do.  Rows whose stored times cannot be read
// back as whole hours are skipped rather than treated as blocking.
func BlockingIntervals(reservations []model.Reservation) []Interval {
    out := make([]Interval, 0, len(reservations))
    for i := range reservations {
        r := &reservations[i]
        if !r.Blocks() {
            continue
        }
        sh, errS := parseHour(r.StartTime)
        eh, errE := parseHour(r.EndTime)
        if errS != nil || errE != nil {
            continue
        }
        out = append(out, Interval{StartHour: sh, EndHour: eh})
    }
    return out
}
