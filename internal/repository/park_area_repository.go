// This file defines the ParkArea row type and repository methods for CRUD
// operations. A ParkArea is a themed zone of the park that contains
// attractions. Deleting an area is blocked while attractions still
// reference it.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ParkArea represents a park area row persisted in the database. The ID
// field is the primary key and is auto-incremented by the DB.
type ParkArea struct {
	ID        uint64    // park_areas.id
	Name      string    // park_areas.name
	Theme     string    // park_areas.theme
	CreatedAt time.Time // park_areas.created_at
	UpdatedAt time.Time // park_areas.updated_at
}

// ErrAreaNotFound is returned when a park area cannot be found in the DB.
var ErrAreaNotFound = errors.New("park area not found")

// ParkAreaRepo encapsulates all database queries related to park areas.
type ParkAreaRepo struct {
	db *sql.DB
}

// NewParkAreaRepo constructs a ParkAreaRepo with the provided DB handle.
func NewParkAreaRepo(db *sql.DB) *ParkAreaRepo {
	return &ParkAreaRepo{db: db}
}

// Create inserts a new park area. On success the ID field is populated
// with the auto-generated value and a follow-up SELECT fills in the
// default timestamp columns so callers receive a fully populated record.
func (r *ParkAreaRepo) Create(ctx context.Context, a *ParkArea) error {
	const qInsert = "INSERT INTO park_areas (name, theme) VALUES (?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, a.Name, a.Theme)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)

	const qSelect = "SELECT name, theme, created_at, updated_at FROM park_areas WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, a.ID).Scan(&a.Name, &a.Theme, &a.CreatedAt, &a.UpdatedAt)
}

// GetByID fetches a park area by its ID. It returns ErrAreaNotFound if
// no row exists.
func (r *ParkAreaRepo) GetByID(ctx context.Context, id uint64) (*ParkArea, error) {
	const q = "SELECT id, name, theme, created_at, updated_at FROM park_areas WHERE id = ?"
	var a ParkArea
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Name, &a.Theme, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAreaNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListAll returns all park areas ordered by id.
func (r *ParkAreaRepo) ListAll(ctx context.Context) ([]*ParkArea, error) {
	const q = `SELECT id, name, theme, created_at, updated_at
	           FROM park_areas ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ParkArea
	for rows.Next() {
		a := new(ParkArea)
		if err := rows.Scan(&a.ID, &a.Name, &a.Theme, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the name and theme of a park area. It returns
// sql.ErrNoRows when no row is affected (not found).
func (r *ParkAreaRepo) Update(ctx context.Context, id uint64, name, theme string) error {
	const q = `UPDATE park_areas
	           SET name = ?, theme = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, theme, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a park area. It returns sql.ErrNoRows when the area does
// not exist and ErrConflict when attractions still reference it. The
// existence and dependency checks run inside a transaction so a
// concurrent attraction insert cannot slip between check and delete.
func (r *ParkAreaRepo) Delete(ctx context.Context, id uint64) error {
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
	if err = tx.QueryRowContext(ctx, `SELECT id FROM park_areas WHERE id = ?`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return err
	}
	var dependents int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM attractions WHERE area_id = ?`, id).Scan(&dependents); err != nil {
		return err
	}
	if dependents > 0 {
		err = ErrConflict
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM park_areas WHERE id = ?`, id)
	return err
}
