package service

import (
	"context"

	"affilia/internal/licence/models"
	"affilia/pkg/domain"
	dErrors "affilia/pkg/domain-errors"
	audit "affilia/pkg/platform/audit"
	"affilia/pkg/requestcontext"
)

// Validate transitions one licence to validated. Preconditions, in order:
// the licence exists, the caller manages its club, the current status is
// pending or rejected, and the licence is either quota-included or paid.
// No precondition failure mutates the record.
func (s *Service) Validate(ctx context.Context, id domain.LicenceID) (*models.Licence, error) {
	licence, err := s.loadOwned(ctx, id)
	if err != nil {
		return nil, err
	}

	if !licence.ValidationEligible() {
		return nil, dErrors.New(dErrors.CodeInvalidStatus, "licence status does not allow validation")
	}

	if !licence.IsIncluded {
		paid, err := s.payments.IsPaid(ctx, id)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "payment check failed")
		}
		if !paid {
			return nil, dErrors.New(dErrors.CodeUnpaid, "licence is neither paid nor quota-included")
		}
	}

	previous := licence.Status
	if err := s.licences.SetStatus(ctx, id, models.StatusValidated); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpdateFailed, "failed to persist licence validation")
	}
	licence.Status = models.StatusValidated

	s.metrics.IncrementLicencesValidated()
	s.emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Action:    audit.EventLicenceValidated,
		ClubID:    licence.ClubID.Int64(),
		LicenceID: licence.ID.Int64(),
		Detail:    "previous status " + string(previous),
	})
	return licence, nil
}

// Reject transitions one licence to rejected. Permitted from pending and
// from validated (cancelling a validation).
func (s *Service) Reject(ctx context.Context, id domain.LicenceID) (*models.Licence, error) {
	licence, err := s.loadOwned(ctx, id)
	if err != nil {
		return nil, err
	}

	if !licence.RejectionEligible() {
		return nil, dErrors.New(dErrors.CodeInvalidStatus, "licence status does not allow rejection")
	}

	previous := licence.Status
	if err := s.licences.SetStatus(ctx, id, models.StatusRejected); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpdateFailed, "failed to persist licence rejection")
	}
	licence.Status = models.StatusRejected

	s.metrics.IncrementLicencesRejected()
	s.emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Action:    audit.EventLicenceRejected,
		ClubID:    licence.ClubID.Int64(),
		LicenceID: licence.ID.Int64(),
		Detail:    "previous status " + string(previous),
	})
	return licence, nil
}

// BulkResult aggregates a batch outcome. The contract reports counts
// only; per-item failures go to logs and audit.
type BulkResult struct {
	ValidatedCount int `json:"validated_count"`
	ErrorCount     int `json:"error_count"`
}

// ValidateBatch validates each id independently and sequentially. One
// item's failure neither blocks nor rolls back the others; the batch
// always runs to completion over its input list.
func (s *Service) ValidateBatch(ctx context.Context, ids []domain.LicenceID) (BulkResult, error) {
	if len(ids) == 0 {
		return BulkResult{}, dErrors.New(dErrors.CodeNoSelection, "no licences selected")
	}

	var result BulkResult
	for _, id := range ids {
		if _, err := s.Validate(ctx, id); err != nil {
			result.ErrorCount++
			s.metrics.ObserveBulkItem("error")
			s.logger.WarnContext(ctx, "bulk validation item failed",
				"licence_id", id.Int64(),
				"code", dErrors.CodeOf(err),
				"error", err.Error(),
				"request_id", requestcontext.RequestID(ctx),
			)
			continue
		}
		result.ValidatedCount++
		s.metrics.ObserveBulkItem("validated")
	}
	return result, nil
}

// loadOwned resolves the licence and checks the caller's management
// rights over its owning club.
func (s *Service) loadOwned(ctx context.Context, id domain.LicenceID) (*models.Licence, error) {
	if !id.IsValid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "licence id is required")
	}
	licence, err := s.licences.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed, err := s.authz.CanManageClub(ctx, licence.ClubID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "authorization check failed")
	}
	if !allowed {
		return nil, dErrors.New(dErrors.CodeForbidden, "caller does not manage this licence's club")
	}
	return licence, nil
}
