package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Customer is the park-visitor profile linked one-to-one with a user
// account. It is created during registration and is never managed
// through the public resources; itinerary items hang off it.
type Customer struct {
	ID        uint64    // customers.id
	UserID    uint64    // customers.user_id (unique)
	CreatedAt time.Time // customers.created_at
}

// ErrCustomerNotFound is returned when no customer profile exists for a
// user. It normally indicates a registration that never completed.
var ErrCustomerNotFound = errors.New("customer not found")

// CustomerRepo encapsulates database queries for customer profiles.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo constructs a CustomerRepo with the provided DB handle.
func NewCustomerRepo(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

// Create inserts the customer profile for a user and populates the ID.
func (r *CustomerRepo) Create(ctx context.Context, userID uint64) (uint64, error) {
	res, err := r.db.ExecContext(ctx, "INSERT INTO customers (user_id) VALUES (?)", userID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUserID resolves the customer profile for an authenticated user.
func (r *CustomerRepo) GetByUserID(ctx context.Context, userID uint64) (*Customer, error) {
	const q = "SELECT id, user_id, created_at FROM customers WHERE user_id = ? LIMIT 1"
	var c Customer
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}
