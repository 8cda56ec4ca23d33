// Package service orchestrates the club affiliation transition.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"affilia/internal/club/documents"
	"affilia/internal/club/models"
	"affilia/internal/club/store"
	"affilia/internal/platform/metrics"
	"affilia/pkg/domain"
	dErrors "affilia/pkg/domain-errors"
	audit "affilia/pkg/platform/audit"
	"affilia/pkg/requestcontext"
)

// AuditPublisher receives admission events; nil disables emission.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the club admission service. Affiliation is its only
// transition; the other club statuses are set by out-of-scope
// administrative flows.
type Service struct {
	clubs   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.audit = publisher }
}

func New(clubs store.Store, opts ...Option) (*Service, error) {
	if clubs == nil {
		return nil, fmt.Errorf("club store is required")
	}
	svc := &Service{clubs: clubs, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Affiliate transitions the club to active standing, gated on its status
// and on core document completeness. The whole validate-then-mutate runs
// under the store's per-row serialization; a failed write is reported, not
// retried.
func (s *Service) Affiliate(ctx context.Context, clubID domain.ClubID) (*models.Club, error) {
	if !clubID.IsValid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "club id is required")
	}

	now := requestcontext.Now(ctx)
	club, err := s.clubs.Execute(ctx, clubID,
		func(c *models.Club) error {
			if err := c.CanAffiliate(); err != nil {
				return err
			}
			if missing := documents.MissingCore(c); len(missing) > 0 {
				return dErrors.Wrap(
					&documents.MissingCoreError{Missing: missing},
					dErrors.CodeInvalidStatus,
					"core affiliation documents are missing",
				)
			}
			return nil
		},
		func(c *models.Club) {
			c.ApplyAffiliation(now)
		},
	)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) || dErrors.HasCode(err, dErrors.CodeInvalidStatus) {
			s.emit(ctx, audit.Event{
				Timestamp: now,
				Action:    audit.EventClubAffiliationDenied,
				ClubID:    clubID.Int64(),
				Detail:    dErrors.Message(err),
			})
			return nil, err
		}
		// Preconditions passed but the write failed.
		return nil, dErrors.Wrap(err, dErrors.CodeUpdateFailed, "failed to persist club affiliation")
	}

	s.metrics.IncrementClubsAffiliated()
	s.emit(ctx, audit.Event{
		Timestamp: now,
		Action:    audit.EventClubAffiliated,
		ClubID:    club.ID.Int64(),
	})
	s.logger.InfoContext(ctx, "club affiliated",
		"club_id", club.ID.Int64(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return club, nil
}

// MissingDocuments reports every empty document slot for completeness
// dashboards; unlike the affiliation gate it includes the optional slots.
func (s *Service) MissingDocuments(ctx context.Context, clubID domain.ClubID) ([]models.DocumentType, error) {
	club, err := s.clubs.FindByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	return documents.Missing(club), nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	event.Caller = requestcontext.CallerID(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.UserAgent = requestcontext.UserAgent(ctx)
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
		)
	}
}
