package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "affilia/pkg/domain-errors"
)

func TestRemainingQuota(t *testing.T) {
	assert.Equal(t, 3, (&Club{QuotaTotal: 10, QuotaUsed: 7}).RemainingQuota())
	assert.Equal(t, 0, (&Club{QuotaTotal: 10, QuotaUsed: 10}).RemainingQuota())
	// Over-consumption never reports negative credit.
	assert.Equal(t, 0, (&Club{QuotaTotal: 10, QuotaUsed: 12}).RemainingQuota())
}

func TestHasDocument(t *testing.T) {
	club := &Club{Documents: map[DocumentType]string{
		DocumentBylaws:          "ref-1",
		DocumentAssemblyMinutes: "",
	}}
	assert.True(t, club.HasDocument(DocumentBylaws))
	assert.False(t, club.HasDocument(DocumentAssemblyMinutes), "empty reference counts as absent")
	assert.False(t, club.HasDocument(DocumentCommitmentCharter))
}

func TestCanAffiliate(t *testing.T) {
	assert.NoError(t, (&Club{Status: ClubStatusPending}).CanAffiliate())

	for _, status := range []ClubStatus{ClubStatusActive, ClubStatusRejected, ClubStatusArchived} {
		err := (&Club{Status: status}).CanAffiliate()
		require.Error(t, err, "status %q", status)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidStatus))
	}
}

func TestApplyAffiliation(t *testing.T) {
	now := time.Date(2026, time.February, 3, 10, 0, 0, 0, time.UTC)
	club := &Club{Status: ClubStatusPending}

	club.ApplyAffiliation(now)

	assert.Equal(t, ClubStatusActive, club.Status)
	require.NotNil(t, club.AffiliatedAt)
	assert.Equal(t, now, *club.AffiliatedAt)
	assert.Equal(t, now, club.UpdatedAt)
}

func TestClubClone(t *testing.T) {
	original := &Club{
		Status:    ClubStatusPending,
		Documents: map[DocumentType]string{DocumentBylaws: "ref-1"},
	}
	clone := original.Clone()
	clone.Documents[DocumentBylaws] = "tampered"

	assert.Equal(t, "ref-1", original.Documents[DocumentBylaws])
}
