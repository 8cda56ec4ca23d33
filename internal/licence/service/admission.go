package service

import (
	"context"
	"errors"
	"strings"
	"time"

	clubmodels "affilia/internal/club/models"
	"affilia/internal/licence/models"
	"affilia/pkg/domain"
	dErrors "affilia/pkg/domain-errors"
	audit "affilia/pkg/platform/audit"
	"affilia/pkg/requestcontext"
)

// CreateInput carries the fields for a new licence. RequestIncluded asks
// for a quota-included licence; the service downgrades the request when
// the club has no credit left instead of failing the creation.
type CreateInput struct {
	ClubID domain.ClubID

	LastName  string
	FirstName string
	Sex       string
	BirthDate *time.Time

	Email         string
	MobilePhone   string
	LandlinePhone string

	RequestIncluded bool
}

var errQuotaExhausted = errors.New("club quota exhausted")

// Create stores a new licence, or returns the existing one when the club
// already holds a licence with the same name and birth date (creation is
// idempotent by identity). The second return is false when an existing
// licence was returned.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Licence, bool, error) {
	if !input.ClubID.IsValid() {
		return nil, false, dErrors.New(dErrors.CodeBadRequest, "club id is required")
	}
	lastName := normalizeName(input.LastName)
	firstName := normalizeName(input.FirstName)
	if lastName == "" || firstName == "" {
		return nil, false, dErrors.New(dErrors.CodeBadRequest, "last name and first name are required")
	}

	if _, err := s.clubs.FindByID(ctx, input.ClubID); err != nil {
		return nil, false, err
	}

	existing, err := s.licences.FindDuplicate(ctx, input.ClubID,
		models.MatchKey(lastName), models.MatchKey(firstName), input.BirthDate)
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "duplicate check failed")
	}
	if existing != nil {
		s.logger.InfoContext(ctx, "duplicate licence creation, returning existing",
			"licence_id", existing.ID.Int64(),
			"club_id", input.ClubID.Int64(),
			"request_id", requestcontext.RequestID(ctx),
		)
		return existing, false, nil
	}

	now := requestcontext.Now(ctx)
	licence := &models.Licence{
		ClubID:        input.ClubID,
		LastName:      lastName,
		FirstName:     firstName,
		Sex:           strings.TrimSpace(input.Sex),
		BirthDate:     input.BirthDate,
		Email:         strings.TrimSpace(input.Email),
		MobilePhone:   strings.TrimSpace(input.MobilePhone),
		LandlinePhone: strings.TrimSpace(input.LandlinePhone),
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		Category:      models.CategoryForBirthDate(input.BirthDate, now),
		CreatedAt:     now,
	}

	if input.RequestIncluded {
		included, err := s.consumeQuota(ctx, input.ClubID)
		if err != nil {
			return nil, false, err
		}
		if included {
			licence.IsIncluded = true
			licence.PaymentStatus = models.PaymentIncluded
		} else {
			// Quota exhausted: the licence stays individually payable.
			s.metrics.IncrementQuotaFallbacks()
			s.emit(ctx, audit.Event{
				Timestamp: now,
				Action:    audit.EventLicenceQuotaExhausted,
				ClubID:    input.ClubID.Int64(),
			})
		}
	}

	if err := s.licences.Insert(ctx, licence); err != nil {
		if licence.IsIncluded {
			s.releaseQuota(ctx, input.ClubID)
		}
		return nil, false, dErrors.Wrap(err, dErrors.CodeUpdateFailed, "failed to persist licence")
	}

	s.metrics.IncrementLicencesCreated()
	s.emit(ctx, audit.Event{
		Timestamp: now,
		Action:    audit.EventLicenceCreated,
		ClubID:    licence.ClubID.Int64(),
		LicenceID: licence.ID.Int64(),
	})
	return licence, true, nil
}

// consumeQuota takes one included-licence credit under the club store's
// per-row serialization. Returns false when the quota is exhausted.
func (s *Service) consumeQuota(ctx context.Context, clubID domain.ClubID) (bool, error) {
	_, err := s.clubs.Execute(ctx, clubID,
		func(c *clubmodels.Club) error {
			if c.RemainingQuota() <= 0 {
				return errQuotaExhausted
			}
			return nil
		},
		func(c *clubmodels.Club) {
			c.QuotaUsed++
		},
	)
	if errors.Is(err, errQuotaExhausted) {
		return false, nil
	}
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return false, err
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "quota consumption failed")
	}
	return true, nil
}

// releaseQuota gives back one credit after a failed insert. Best effort:
// a failure here only logs.
func (s *Service) releaseQuota(ctx context.Context, clubID domain.ClubID) {
	_, err := s.clubs.Execute(ctx, clubID,
		func(*clubmodels.Club) error { return nil },
		func(c *clubmodels.Club) {
			if c.QuotaUsed > 0 {
				c.QuotaUsed--
			}
		},
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to release quota credit after insert failure",
			"club_id", clubID.Int64(),
			"error", err,
		)
	}
}

// Update applies a partial update. On a validated licence only the contact
// fields and the payment status are writable; every other supplied field
// is silently ignored so form re-submissions keep working.
func (s *Service) Update(ctx context.Context, id domain.LicenceID, patch models.Patch) (*models.Licence, error) {
	if !id.IsValid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "licence id is required")
	}
	if patch.PaymentStatus != nil && !patch.PaymentStatus.IsValid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown payment status")
	}

	licence, err := s.licences.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	locked := licence.Locked()
	applyContact(licence, patch)
	if !locked {
		applyIdentity(licence, patch, now)
	} else if dropped := droppedFields(patch); len(dropped) > 0 {
		s.logger.InfoContext(ctx, "ignoring locked fields on validated licence",
			"licence_id", id.Int64(),
			"fields", dropped,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	licence.UpdatedAt = now

	if err := s.licences.Update(ctx, licence); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUpdateFailed, "failed to persist licence update")
	}

	s.emit(ctx, audit.Event{
		Timestamp: now,
		Action:    audit.EventLicenceUpdated,
		ClubID:    licence.ClubID.Int64(),
		LicenceID: licence.ID.Int64(),
	})
	return licence, nil
}

// SetStatus is the low-level status write. It validates the value against
// the full enumeration (revoked included) but not the transition table;
// transition legality belongs to the entry points.
func (s *Service) SetStatus(ctx context.Context, id domain.LicenceID, status models.Status) error {
	if !id.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "licence id is required")
	}
	if !status.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown licence status")
	}
	if err := s.licences.SetStatus(ctx, id, status); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeUpdateFailed, "failed to persist licence status")
	}
	s.emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Action:    audit.EventLicenceStatusChanged,
		LicenceID: id.Int64(),
		Detail:    string(status),
	})
	return nil
}

func applyContact(licence *models.Licence, patch models.Patch) {
	if patch.Email != nil {
		licence.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.MobilePhone != nil {
		licence.MobilePhone = strings.TrimSpace(*patch.MobilePhone)
	}
	if patch.LandlinePhone != nil {
		licence.LandlinePhone = strings.TrimSpace(*patch.LandlinePhone)
	}
	if patch.PaymentStatus != nil {
		licence.PaymentStatus = *patch.PaymentStatus
	}
}

func applyIdentity(licence *models.Licence, patch models.Patch, now time.Time) {
	if patch.LastName != nil {
		licence.LastName = normalizeName(*patch.LastName)
	}
	if patch.FirstName != nil {
		licence.FirstName = normalizeName(*patch.FirstName)
	}
	if patch.Sex != nil {
		licence.Sex = strings.TrimSpace(*patch.Sex)
	}
	if patch.BirthDateSet {
		licence.BirthDate = patch.BirthDate
		licence.Category = models.CategoryForBirthDate(licence.BirthDate, now)
	}
}

func droppedFields(patch models.Patch) []string {
	var dropped []string
	if patch.LastName != nil {
		dropped = append(dropped, "last_name")
	}
	if patch.FirstName != nil {
		dropped = append(dropped, "first_name")
	}
	if patch.Sex != nil {
		dropped = append(dropped, "sex")
	}
	if patch.BirthDateSet {
		dropped = append(dropped, "birth_date")
	}
	return dropped
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
