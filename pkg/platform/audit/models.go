// Package audit captures the admission decisions that back-office staff
// and federation auditors need to reconstruct later: who validated which
// licence, when a club was affiliated, and when a quota ran out.
package audit

import (
	"context"
	"time"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	Action    string

	// ClubID and LicenceID are zero when the event does not concern that
	// record type.
	ClubID    int64
	LicenceID int64

	// Caller is the back-office account that triggered the action.
	Caller    string
	RequestID string
	ClientIP  string
	UserAgent string

	// Detail carries a short human-readable qualifier, e.g. the previous
	// status on a transition or the missing documents on a refusal.
	Detail string
}

// Admission events.
const (
	EventLicenceCreated        = "licence_created"
	EventLicenceUpdated        = "licence_updated"
	EventLicenceValidated      = "licence_validated"
	EventLicenceRejected       = "licence_rejected"
	EventLicenceStatusChanged  = "licence_status_changed"
	EventLicenceQuotaExhausted = "licence_quota_exhausted"
	EventClubAffiliated        = "club_affiliated"
	EventClubAffiliationDenied = "club_affiliation_denied"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByClub(ctx context.Context, clubID int64) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
