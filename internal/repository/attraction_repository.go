// This file defines the Attraction row type and repository methods.
// Every attraction belongs to exactly one park area; the area reference
// is validated by the handlers at write time and enforced again by the
// foreign key on attractions.area_id.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Attraction represents a ride or experience located within one park
// area. AreaID references park_areas.id.
type Attraction struct {
	ID        uint64    // attractions.id
	Name      string    // attractions.name
	AreaID    uint64    // attractions.area_id
	CreatedAt time.Time // attractions.created_at
	UpdatedAt time.Time // attractions.updated_at
}

// ErrAttractionNotFound is returned when an attraction cannot be found.
var ErrAttractionNotFound = errors.New("attraction not found")

// AttractionRepo encapsulates all database queries related to attractions.
type AttractionRepo struct {
	db *sql.DB
}

// NewAttractionRepo constructs an AttractionRepo with the provided DB handle.
func NewAttractionRepo(db *sql.DB) *AttractionRepo {
	return &AttractionRepo{db: db}
}

// Create inserts a new attraction and populates the ID and timestamp
// fields of the passed struct.
func (r *AttractionRepo) Create(ctx context.Context, a *Attraction) error {
	const qInsert = "INSERT INTO attractions (name, area_id) VALUES (?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, a.Name, a.AreaID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)

	const qSelect = "SELECT name, area_id, created_at, updated_at FROM attractions WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, a.ID).Scan(&a.Name, &a.AreaID, &a.CreatedAt, &a.UpdatedAt)
}

// GetByID fetches an attraction by its ID. It returns
// ErrAttractionNotFound if no row exists.
func (r *AttractionRepo) GetByID(ctx context.Context, id uint64) (*Attraction, error) {
	const q = "SELECT id, name, area_id, created_at, updated_at FROM attractions WHERE id = ?"
	var a Attraction
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Name, &a.AreaID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttractionNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListAll returns all attractions ordered by id.
func (r *AttractionRepo) ListAll(ctx context.Context) ([]*Attraction, error) {
	const q = `SELECT id, name, area_id, created_at, updated_at
	           FROM attractions ORDER BY id`
	return r.queryList(ctx, q)
}

// ListByArea returns the attractions belonging to one park area ordered
// by id. An area with no attractions yields an empty slice, not an error.
func (r *AttractionRepo) ListByArea(ctx context.Context, areaID uint64) ([]*Attraction, error) {
	const q = `SELECT id, name, area_id, created_at, updated_at
	           FROM attractions WHERE area_id = ? ORDER BY id`
	return r.queryList(ctx, q, areaID)
}

// ListByNamePrefix returns the attractions whose name starts with the
// given prefix, ordered by id. Matching is case sensitive to mirror the
// catalog's stored names.
func (r *AttractionRepo) ListByNamePrefix(ctx context.Context, prefix string) ([]*Attraction, error) {
	const q = `SELECT id, name, area_id, created_at, updated_at
	           FROM attractions WHERE name LIKE BINARY CONCAT(?, '%') ORDER BY id`
	return r.queryList(ctx, q, prefix)
}

func (r *AttractionRepo) queryList(ctx context.Context, q string, args ...any) ([]*Attraction, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Attraction
	for rows.Next() {
		a := new(Attraction)
		if err := rows.Scan(&a.ID, &a.Name, &a.AreaID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the name and area of an attraction. It returns
// sql.ErrNoRows when no row is affected (not found).
func (r *AttractionRepo) Update(ctx context.Context, id uint64, name string, areaID uint64) error {
	const q = `UPDATE attractions
	           SET name = ?, area_id = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, areaID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an attraction together with the itinerary items that
// reference it. Removing a ride cancels customers' plans for it, so both
// deletes happen in one transaction. Returns sql.ErrNoRows when the
// attraction does not exist.
func (r *AttractionRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var exists uint64
	if err = tx.QueryRowContext(ctx, `SELECT id FROM attractions WHERE id = ?`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM itinerary_items WHERE attraction_id = ?`, id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM attractions WHERE id = ?`, id)
	return err
}
