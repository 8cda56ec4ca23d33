// Package store persists licence records. The interface is the sole data
// access boundary for licences.
package store

import (
	"context"
	"time"

	"affilia/internal/licence/models"
	"affilia/pkg/domain"
)

type Store interface {
	// FindByID returns the licence or a not_found error.
	FindByID(ctx context.Context, id domain.LicenceID) (*models.Licence, error)

	// Insert stores a new licence and assigns its id.
	Insert(ctx context.Context, licence *models.Licence) error

	// Update persists the licence row. The service decides which fields
	// made it into the struct; the store writes what it is given.
	Update(ctx context.Context, licence *models.Licence) error

	// SetStatus writes only the status column; not_found when the id does
	// not resolve. Transition legality is the caller's concern.
	SetStatus(ctx context.Context, id domain.LicenceID, status models.Status) error

	// FindDuplicate returns an existing licence of the club whose
	// normalized last name, first name and birth date match, or nil when
	// there is none.
	FindDuplicate(ctx context.Context, clubID domain.ClubID, lastKey, firstKey string, birthDate *time.Time) (*models.Licence, error)
}
