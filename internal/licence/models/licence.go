package models

import (
	"strings"
	"time"

	"affilia/pkg/domain"
)

// Status is the lifecycle standing of a licence.
type Status string

const (
	StatusPending   Status = "pending"
	StatusValidated Status = "validated"
	StatusRejected  Status = "rejected"

	// StatusRevoked is declared in the enumeration and accepted by the
	// low-level status setter, but no entry point currently reaches it.
	StatusRevoked Status = "revoked"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusValidated, StatusRejected, StatusRevoked:
		return true
	}
	return false
}

// PaymentStatus tracks how the licence fee stands. Included licences carry
// PaymentIncluded and are never individually payable.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentIncluded PaymentStatus = "included"
)

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded, PaymentIncluded:
		return true
	}
	return false
}

// AgeCategory is the derived age bracket; never authoritative, recomputed
// at write time from the birth date.
type AgeCategory string

const (
	CategoryUnder18  AgeCategory = "under_18"
	Category18To24   AgeCategory = "18_24"
	Category25To34   AgeCategory = "25_34"
	Category35To44   AgeCategory = "35_44"
	Category45To54   AgeCategory = "45_54"
	Category55Plus   AgeCategory = "55_plus"
	CategoryUnknown  AgeCategory = "unknown"
)

// CategoryForBirthDate computes the bracket from whole years of age at the
// reference time. Lower bounds are inclusive: turning 18 on the reference
// day already classifies as 18_24.
func CategoryForBirthDate(birthDate *time.Time, at time.Time) AgeCategory {
	if birthDate == nil || birthDate.IsZero() {
		return CategoryUnknown
	}
	years := wholeYears(*birthDate, at)
	switch {
	case years < 18:
		return CategoryUnder18
	case years < 25:
		return Category18To24
	case years < 35:
		return Category25To34
	case years < 45:
		return Category35To44
	case years < 55:
		return Category45To54
	default:
		return Category55Plus
	}
}

func wholeYears(birth, at time.Time) int {
	years := at.Year() - birth.Year()
	// Not yet had this year's birthday.
	if at.Month() < birth.Month() || (at.Month() == birth.Month() && at.Day() < birth.Day()) {
		years--
	}
	return years
}

// Licence is an individual membership record belonging to a club.
type Licence struct {
	ID     domain.LicenceID
	ClubID domain.ClubID

	LastName  string
	FirstName string
	Sex       string
	BirthDate *time.Time

	Email         string
	MobilePhone   string
	LandlinePhone string

	Status Status

	// IsIncluded is true only when the licence was granted from the
	// owning club's quota at creation time; it is never re-evaluated on
	// later edits.
	IsIncluded bool

	PaymentStatus PaymentStatus
	Category      AgeCategory

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Locked reports whether the identity, demographic and quota
// classification fields are frozen. Only contact fields and the payment
// status stay writable on a validated licence.
func (l *Licence) Locked() bool {
	return l.Status == StatusValidated
}

// ValidationEligible reports whether the current status permits a
// transition to validated.
func (l *Licence) ValidationEligible() bool {
	return l.Status == StatusPending || l.Status == StatusRejected
}

// RejectionEligible reports whether the current status permits a
// transition to rejected. A validated licence can be moved back (cancel
// validation).
func (l *Licence) RejectionEligible() bool {
	return l.Status == StatusPending || l.Status == StatusValidated
}

// Clone returns a copy safe to hand across the store boundary.
func (l *Licence) Clone() *Licence {
	clone := *l
	if l.BirthDate != nil {
		bd := *l.BirthDate
		clone.BirthDate = &bd
	}
	return &clone
}

// MatchKey normalizes a name for duplicate matching: trimmed, inner
// whitespace collapsed, case folded.
func MatchKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Patch carries a partial update; nil fields are left untouched.
// BirthDateSet distinguishes "clear the birth date" from "not supplied".
type Patch struct {
	LastName  *string
	FirstName *string
	Sex       *string

	BirthDate    *time.Time
	BirthDateSet bool

	Email         *string
	MobilePhone   *string
	LandlinePhone *string

	PaymentStatus *PaymentStatus
}
