package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "strings"

    "github.com/iliyamo/venue-reservation/internal/model"
)

// VenueRepo provides CRUD operations for the venue catalogue.  Amenity
// lists are stored as a JSON array in the amenities column and translated
// to and from []string here so the rest of the application never sees raw
// JSON.
type VenueRepo struct {
    db *sql.DB
}

// NewVenueRepo returns a new VenueRepo bound to the given database.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span multiple repositories.
func (r *VenueRepo) DB() *sql.DB { return r.db }

// venueColumns is the select list shared by every venue query.  Keeping it
// in one place keeps the scan helpers honest.
const venueColumns = `id, name, type, capacity, price_cents, location, amenities, description, image_url, status, created_at, updated_at`

func scanVenue(row interface{ Scan(...any) error }) (*model.Venue, error) {
    var v model.Venue
    var amenities, description, imageURL sql.NullString
    if err := row.Scan(
        &v.ID, &v.Name, &v.Type, &v.Capacity, &v.PriceCents, &v.Location,
        &amenities, &description, &imageURL, &v.Status, &v.CreatedAt, &v.UpdatedAt,
    ); err != nil {
        return nil, err
    }
    if amenities.Valid && amenities.String != "" {
        // A malformed amenities payload should not make the venue unreadable.
        _ = json.Unmarshal([]byte(amenities.String), &v.Amenities)
    }
    if description.Valid {
        d := description.String
        v.Description = &d
    }
    if imageURL.Valid {
        u := imageURL.String
        v.ImageURL = &u
    }
    return &v, nil
}

func amenitiesJSON(amenities []string) (any, error) {
    if len(amenities) == 0 {
        return nil, nil
    }
    b, err := json.Marshal(amenities)
    if err != nil {
        return nil, err
    }
    return string(b), nil
}

// Create inserts a new venue and populates the generated ID and
// timestamps on the provided model.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
    am, err := amenitiesJSON(v.Amenities)
    if err != nil {
        return err
    }
    const q = `INSERT INTO venues (name, type, capacity, price_cents, location, amenities, description, image_url, status)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
    result, err := r.db.ExecContext(ctx, q,
        v.Name, v.Type, v.Capacity, v.PriceCents, v.Location, am, v.Description, v.ImageURL, v.Status)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    v.ID = uint64(id)
    // Query back the row so timestamps reflect what the database stored.
    created, err := r.GetByID(ctx, v.ID)
    if err != nil {
        return err
    }
    *v = *created
    return nil
}

// GetByID returns a single venue or ErrVenueNotFound.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
    const q = `SELECT ` + venueColumns + ` FROM venues WHERE id = ?`
    v, err := scanVenue(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrVenueNotFound
        }
        return nil, err
    }
    return v, nil
}

// GetByIDTx is GetByID within an existing transaction.
func (r *VenueRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Venue, error) {
    const q = `SELECT ` + venueColumns + ` FROM venues WHERE id = ?`
    v, err := scanVenue(tx.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrVenueNotFound
        }
        return nil, err
    }
    return v, nil
}

// LockTx takes a row lock on the venue inside the given transaction.  All
// booking writes for a venue funnel through this lock, which serializes
// the overlap check and the insert against concurrent writers.  Returns
// ErrVenueNotFound when the venue does not exist.
func (r *VenueRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) error {
    const q = `SELECT id FROM venues WHERE id = ? FOR UPDATE`
    var got uint64
    if err := tx.QueryRowContext(ctx, q, id).Scan(&got); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return ErrVenueNotFound
        }
        return err
    }
    return nil
}

// VenueFilter narrows the venue listing.  Zero values mean "no filter".
// Status defaults to active when empty so clients never see venues under
// maintenance unless they ask explicitly.
type VenueFilter struct {
    Type        string // exact venue type
    Location    string // substring match on location
    MinCapacity uint32 // capacity >= MinCapacity
    MaxCents    uint32 // price_cents <= MaxCents
    Status      string // exact status; empty means active only
}

// List returns venues matching the filter ordered by name.
func (r *VenueRepo) List(ctx context.Context, f VenueFilter) ([]model.Venue, error) {
    q := `SELECT ` + venueColumns + ` FROM venues`
    conds := make([]string, 0, 5)
    args := make([]any, 0, 5)
    if f.Type != "" {
        conds = append(conds, "type = ?")
        args = append(args, f.Type)
    }
    if f.Location != "" {
        conds = append(conds, "location LIKE ?")
        args = append(args, "%"+f.Location+"%")
    }
    if f.MinCapacity > 0 {
        conds = append(conds, "capacity >= ?")
        args = append(args, f.MinCapacity)
    }
    if f.MaxCents > 0 {
        conds = append(conds, "price_cents <= ?")
        args = append(args, f.MaxCents)
    }
    status := f.Status
    if status == "" {
        status = model.VenueStatusActive
    }
    conds = append(conds, "status = ?")
    args = append(args, status)
    q += " WHERE " + strings.Join(conds, " AND ") + " ORDER BY name"

    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    venues := make([]model.Venue, 0)
    for rows.Next() {
        v, err := scanVenue(rows)
        if err != nil {
            return nil, err
        }
        venues = append(venues, *v)
    }
    return venues, rows.Err()
}

// Update replaces the mutable fields of a venue.  Returns
// ErrVenueNotFound when no row matches.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
    am, err := amenitiesJSON(v.Amenities)
    if err != nil {
        return err
    }
    const q = `UPDATE venues
               SET name = ?, type = ?, capacity = ?, price_cents = ?, location = ?,
                   amenities = ?, description = ?, image_url = ?, status = ?
               WHERE id = ?`
    result, err := r.db.ExecContext(ctx, q,
        v.Name, v.Type, v.Capacity, v.PriceCents, v.Location, am, v.Description, v.ImageURL, v.Status, v.ID)
    if err != nil {
        return err
    }
    affected, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        // Either missing or unchanged; distinguish with a lookup.
        if _, err := r.GetByID(ctx, v.ID); err != nil {
            return err
        }
    }
    return nil
}

// Delete removes a venue.  Returns ErrVenueNotFound when no row matches.
func (r *VenueRepo) Delete(ctx context.Context, id uint64) error {
    const q = `DELETE FROM venues WHERE id = ?`
    result, err := r.db.ExecContext(ctx, q, id)
    if err != nil {
        return err
    }
    affected, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        return ErrVenueNotFound
    }
    return nil
}
