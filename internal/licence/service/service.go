// Package service orchestrates licence admission: creation with duplicate
// prevention and quota-aware inclusion, locked-field updates, and the
// guarded status transitions behind the validation entry points.
package service

import (
	"context"
	"fmt"
	"log/slog"

	clubstore "affilia/internal/club/store"
	"affilia/internal/licence/store"
	"affilia/internal/platform/metrics"
	"affilia/pkg/domain"
	audit "affilia/pkg/platform/audit"
	"affilia/pkg/requestcontext"
)

// PaymentOracle is the externally supplied payment authority. The
// validation gate treats its answer as final.
type PaymentOracle interface {
	IsPaid(ctx context.Context, id domain.LicenceID) (bool, error)
}

// Authorizer answers whether the current caller manages a club.
type Authorizer interface {
	CanManageClub(ctx context.Context, clubID domain.ClubID) (bool, error)
}

// AuditPublisher receives admission events; nil disables emission.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the licence admission service.
type Service struct {
	licences store.Store
	clubs    clubstore.Store
	payments PaymentOracle
	authz    Authorizer

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

func New(licences store.Store, clubs clubstore.Store, payments PaymentOracle, authz Authorizer, opts ...Option) (*Service, error) {
	if licences == nil {
		return nil, fmt.Errorf("licence store is required")
	}
	if clubs == nil {
		return nil, fmt.Errorf("club store is required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payment oracle is required")
	}
	if authz == nil {
		return nil, fmt.Errorf("authorizer is required")
	}
	svc := &Service{
		licences: licences,
		clubs:    clubs,
		payments: payments,
		authz:    authz,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
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
