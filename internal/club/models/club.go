package models

import (
	"time"

	"affilia/pkg/domain"
	dErrors "affilia/pkg/domain-errors"
)

// ClubStatus is the affiliation standing of a club.
type ClubStatus string

const (
	ClubStatusPending  ClubStatus = "pending"
	ClubStatusActive   ClubStatus = "active"
	ClubStatusRejected ClubStatus = "rejected"
	ClubStatusArchived ClubStatus = "archived"
)

func (s ClubStatus) IsValid() bool {
	switch s {
	case ClubStatusPending, ClubStatusActive, ClubStatusRejected, ClubStatusArchived:
		return true
	}
	return false
}

// DocumentType enumerates the named document slots tracked on a club.
// Slots are addressed through this enum only; no caller builds slot names
// from strings.
type DocumentType string

const (
	DocumentBylaws             DocumentType = "bylaws"
	DocumentDeclarationReceipt DocumentType = "declaration_receipt"
	DocumentCommitmentCharter  DocumentType = "commitment_charter"
	DocumentOfficialJournal    DocumentType = "official_journal_excerpt"
	DocumentAssemblyMinutes    DocumentType = "assembly_minutes"
	DocumentCharterAttestation DocumentType = "charter_attestation"
)

// AllDocumentTypes lists every tracked slot in reporting order.
var AllDocumentTypes = []DocumentType{
	DocumentBylaws,
	DocumentDeclarationReceipt,
	DocumentCommitmentCharter,
	DocumentOfficialJournal,
	DocumentAssemblyMinutes,
	DocumentCharterAttestation,
}

// CoreDocumentTypes are the slots without which a club cannot be
// affiliated. The remaining slots are tracked for completeness reporting
// only.
var CoreDocumentTypes = []DocumentType{
	DocumentBylaws,
	DocumentDeclarationReceipt,
	DocumentCommitmentCharter,
}

func (t DocumentType) IsValid() bool {
	for _, known := range AllDocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Club is a member organization seeking or holding federation affiliation.
type Club struct {
	ID     domain.ClubID
	Name   string
	Status ClubStatus

	// AffiliatedAt is set only on the transition to active.
	AffiliatedAt *time.Time

	// Documents maps a slot to its stored reference. Absent key means the
	// slot is empty. References are opaque; only presence matters here.
	Documents map[DocumentType]string

	// QuotaTotal is the included-licence credit granted to the club;
	// QuotaUsed counts credits already consumed.
	QuotaTotal int
	QuotaUsed  int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemainingQuota returns the included-licence credits still available.
func (c *Club) RemainingQuota() int {
	remaining := c.QuotaTotal - c.QuotaUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// HasDocument reports whether the slot holds a stored reference.
func (c *Club) HasDocument(t DocumentType) bool {
	ref, ok := c.Documents[t]
	return ok && ref != ""
}

// CanAffiliate checks the status precondition for affiliation. Document
// completeness is the documents gate's concern.
func (c *Club) CanAffiliate() error {
	if c.Status != ClubStatusPending {
		return dErrors.New(dErrors.CodeInvalidStatus, "club is not pending affiliation")
	}
	return nil
}

// ApplyAffiliation transitions the club to active standing.
func (c *Club) ApplyAffiliation(now time.Time) {
	c.Status = ClubStatusActive
	c.AffiliatedAt = &now
	c.UpdatedAt = now
}

// Clone returns a deep copy so store callers never share document maps.
func (c *Club) Clone() *Club {
	clone := *c
	clone.Documents = make(map[DocumentType]string, len(c.Documents))
	for t, ref := range c.Documents {
		clone.Documents[t] = ref
	}
	if c.AffiliatedAt != nil {
		at := *c.AffiliatedAt
		clone.AffiliatedAt = &at
	}
	return &clone
}
