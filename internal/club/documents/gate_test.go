package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"affilia/internal/club/models"
	"affilia/pkg/testutil"
)

func clubWith(docs ...models.DocumentType) *models.Club {
	club := &models.Club{Documents: make(map[models.DocumentType]string)}
	for _, t := range docs {
		club.Documents[t] = "ref-" + string(t)
	}
	return club
}

func TestMissing(t *testing.T) {
	club := clubWith(models.DocumentBylaws, models.DocumentAssemblyMinutes)

	missing := Missing(club)

	assert.Equal(t, []models.DocumentType{
		models.DocumentDeclarationReceipt,
		models.DocumentCommitmentCharter,
		models.DocumentOfficialJournal,
		models.DocumentCharterAttestation,
	}, missing)
}

func TestMissingCore(t *testing.T) {
	testutil.Given(t, "a club with every core document", func(t *testing.T) {
		club := clubWith(
			models.DocumentBylaws,
			models.DocumentDeclarationReceipt,
			models.DocumentCommitmentCharter,
		)
		testutil.Then(t, "nothing blocks affiliation even with optional slots empty", func(t *testing.T) {
			assert.Empty(t, MissingCore(club))
			assert.True(t, CanAffiliate(club))
			assert.Len(t, Missing(club), 3)
		})
	})

	testutil.Given(t, "a club with one core slot empty", func(t *testing.T) {
		club := clubWith(models.DocumentBylaws, models.DocumentCommitmentCharter)
		testutil.Then(t, "the empty slot blocks affiliation and is reported", func(t *testing.T) {
			assert.Equal(t, []models.DocumentType{models.DocumentDeclarationReceipt}, MissingCore(club))
			assert.False(t, CanAffiliate(club))
		})
	})
}

func TestMissingCoreError(t *testing.T) {
	err := &MissingCoreError{Missing: []models.DocumentType{
		models.DocumentBylaws,
		models.DocumentCommitmentCharter,
	}}
	assert.Equal(t, "missing core affiliation documents: bylaws commitment_charter", err.Error())
}
