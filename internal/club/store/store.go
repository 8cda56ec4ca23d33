// Package store persists club records. The interface is the sole data
// access boundary for clubs; services never compose their own queries.
package store

import (
	"context"

	"affilia/internal/club/models"
	"affilia/pkg/domain"
)

// Store is implemented by the in-memory store (unit tests, dev) and the
// postgres store (production).
type Store interface {
	// FindByID returns the club or a not_found error.
	FindByID(ctx context.Context, id domain.ClubID) (*models.Club, error)

	// Create inserts a club and assigns its id.
	Create(ctx context.Context, club *models.Club) error

	// Update persists the club row as-is.
	Update(ctx context.Context, club *models.Club) error

	// Execute runs validate then mutate on the club while holding the
	// store's per-row serialization (mutex in memory, SELECT FOR UPDATE in
	// postgres). Quota consumption and the affiliation transition go
	// through here so concurrent requests against the same club cannot
	// both pass a check that only one of them should.
	Execute(ctx context.Context, id domain.ClubID, validate func(*models.Club) error, mutate func(*models.Club)) (*models.Club, error)

	// RemainingQuota reports the club's unconsumed included-licence
	// credits.
	RemainingQuota(ctx context.Context, id domain.ClubID) (int, error)
}
