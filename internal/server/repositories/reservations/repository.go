// Package reservations declares the repository contract for reservation
// rows and their state-machine bookkeeping.
package reservations

import (
	"context"

	"github.com/tenantgate/tenantgate/internal/server/models"
)

// Repository defines persistence operations for reservations. Rows are
// created once and mutated by state transitions; they are never deleted.
type Repository interface {
	// Create inserts a new reservation row.
	Create(ctx context.Context, r *models.Reservation) (*models.Reservation, error)

	// GetByID returns the reservation or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Reservation, error)

	// GetForUpdate returns the reservation with an exclusive row lock held
	// for the rest of the surrounding transaction. Callers must invoke it
	// on a transactional DBTX, otherwise the lock is released immediately.
	GetForUpdate(ctx context.Context, id string) (*models.Reservation, error)

	// Update persists every mutable column of the reservation.
	Update(ctx context.Context, r *models.Reservation) error

	// List returns all reservations, newest first.
	List(ctx context.Context) ([]*models.Reservation, error)
}
