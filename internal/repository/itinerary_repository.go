// This file defines the Itinerary row type and repository methods. An
// itinerary item is one customer's planned visit to one attraction at a
// given start time. Every query is scoped to the owning customer so one
// visitor can never read or mutate another visitor's plans.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Itinerary represents a planned visit persisted in the database.
type Itinerary struct {
	ID           uint64    // itinerary_items.id
	CustomerID   uint64    // itinerary_items.customer_id
	AttractionID uint64    // itinerary_items.attraction_id
	StartTime    time.Time // itinerary_items.starttime
	CreatedAt    time.Time // itinerary_items.created_at
	UpdatedAt    time.Time // itinerary_items.updated_at
}

// ErrItineraryNotFound is returned when an itinerary item does not exist
// or belongs to a different customer. The two cases are deliberately not
// distinguished so item ids are not discoverable across customers.
var ErrItineraryNotFound = errors.New("itinerary item not found")

// ItineraryRepo encapsulates database queries for itinerary items.
type ItineraryRepo struct {
	db *sql.DB
}

// NewItineraryRepo constructs an ItineraryRepo with the provided DB handle.
func NewItineraryRepo(db *sql.DB) *ItineraryRepo {
	return &ItineraryRepo{db: db}
}

// Create inserts a new itinerary item and populates the ID and timestamp
// fields of the passed struct.
func (r *ItineraryRepo) Create(ctx context.Context, it *Itinerary) error {
	const qInsert = "INSERT INTO itinerary_items (customer_id, attraction_id, starttime) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, it.CustomerID, it.AttractionID, it.StartTime)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)

	const qSelect = `SELECT customer_id, attraction_id, starttime, created_at, updated_at
	                 FROM itinerary_items WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, it.ID).
		Scan(&it.CustomerID, &it.AttractionID, &it.StartTime, &it.CreatedAt, &it.UpdatedAt)
}

// GetByIDAndCustomer fetches an itinerary item only if it belongs to the
// given customer. Foreign or missing items yield ErrItineraryNotFound.
func (r *ItineraryRepo) GetByIDAndCustomer(ctx context.Context, id, customerID uint64) (*Itinerary, error) {
	const q = `SELECT id, customer_id, attraction_id, starttime, created_at, updated_at
	           FROM itinerary_items WHERE id = ? AND customer_id = ?`
	var it Itinerary
	err := r.db.QueryRowContext(ctx, q, id, customerID).
		Scan(&it.ID, &it.CustomerID, &it.AttractionID, &it.StartTime, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItineraryNotFound
		}
		return nil, err
	}
	return &it, nil
}

// ListByCustomer returns all itinerary items for one customer ordered by id.
func (r *ItineraryRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]*Itinerary, error) {
	const q = `SELECT id, customer_id, attraction_id, starttime, created_at, updated_at
	           FROM itinerary_items WHERE customer_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Itinerary
	for rows.Next() {
		it := new(Itinerary)
		if err := rows.Scan(&it.ID, &it.CustomerID, &it.AttractionID, &it.StartTime, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateForCustomer replaces the start time and attraction of an
// itinerary item owned by the given customer. It returns sql.ErrNoRows
// when no row is affected (missing or foreign item).
func (r *ItineraryRepo) UpdateForCustomer(ctx context.Context, id, customerID uint64, startTime time.Time, attractionID uint64) error {
	const q = `UPDATE itinerary_items
	           SET starttime = ?, attraction_id = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND customer_id = ?`
	res, err := r.db.ExecContext(ctx, q, startTime, attractionID, id, customerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteForCustomer removes an itinerary item owned by the given
// customer. It returns sql.ErrNoRows when no row is affected.
func (r *ItineraryRepo) DeleteForCustomer(ctx context.Context, id, customerID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM itinerary_items WHERE id = ? AND customer_id = ?", id, customerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
