package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"affilia/internal/club/documents"
	"affilia/internal/club/models"
	"affilia/internal/club/store"
	"affilia/pkg/domain"
	dErrors "affilia/pkg/domain-errors"
	audit "affilia/pkg/platform/audit"
	auditpublisher "affilia/pkg/platform/audit/publisher"
	auditmemory "affilia/pkg/platform/audit/store/memory"
	"affilia/pkg/requestcontext"
)

var fixedNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

func newService(t *testing.T, clubs store.Store) (*Service, *auditmemory.InMemoryStore) {
	t.Helper()
	auditStore := auditmemory.NewInMemoryStore()
	svc, err := New(clubs,
		WithAuditPublisher(auditpublisher.NewPublisher(auditStore)),
	)
	require.NoError(t, err)
	return svc, auditStore
}

func seedClub(t *testing.T, clubs *store.InMemoryStore, club *models.Club) domain.ClubID {
	t.Helper()
	require.NoError(t, clubs.Create(context.Background(), club))
	return club.ID
}

func completeDocuments() map[models.DocumentType]string {
	return map[models.DocumentType]string{
		models.DocumentBylaws:             "doc-1",
		models.DocumentDeclarationReceipt: "doc-2",
		models.DocumentCommitmentCharter:  "doc-3",
	}
}

func TestAffiliate(t *testing.T) {
	ctx := requestcontext.WithTime(context.Background(), fixedNow)

	t.Run("pending club with complete core documents becomes active", func(t *testing.T) {
		clubs := store.NewInMemoryStore()
		id := seedClub(t, clubs, &models.Club{
			Status:    models.ClubStatusPending,
			Documents: completeDocuments(),
		})
		svc, auditStore := newService(t, clubs)
		ctx := requestcontext.WithClientMetadata(
			requestcontext.WithCallerID(ctx, "agent-7"), "198.51.100.4", "federation-back-office/2.1")

		club, err := svc.Affiliate(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, models.ClubStatusActive, club.Status)
		require.NotNil(t, club.AffiliatedAt)
		assert.Equal(t, fixedNow, *club.AffiliatedAt)

		stored, err := clubs.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.ClubStatusActive, stored.Status)

		events, err := auditStore.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.EventClubAffiliated, events[0].Action)
		assert.Equal(t, "agent-7", events[0].Caller)
		assert.Equal(t, "198.51.100.4", events[0].ClientIP)
		assert.Equal(t, "federation-back-office/2.1", events[0].UserAgent)
	})

	t.Run("missing core document blocks and is reported", func(t *testing.T) {
		clubs := store.NewInMemoryStore()
		id := seedClub(t, clubs, &models.Club{
			Status: models.ClubStatusPending,
			Documents: map[models.DocumentType]string{
				models.DocumentBylaws:            "doc-1",
				models.DocumentCommitmentCharter: "doc-3",
			},
		})
		svc, _ := newService(t, clubs)

		_, err := svc.Affiliate(ctx, id)

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidStatus))
		var missing *documents.MissingCoreError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, []models.DocumentType{models.DocumentDeclarationReceipt}, missing.Missing)

		stored, err := clubs.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.ClubStatusPending, stored.Status, "failed affiliation must not mutate")
	})

	t.Run("optional documents do not block", func(t *testing.T) {
		clubs := store.NewInMemoryStore()
		id := seedClub(t, clubs, &models.Club{
			Status:    models.ClubStatusPending,
			Documents: completeDocuments(),
		})
		svc, _ := newService(t, clubs)

		club, err := svc.Affiliate(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, models.ClubStatusActive, club.Status)
	})

	t.Run("already active club is invalid_status", func(t *testing.T) {
		clubs := store.NewInMemoryStore()
		id := seedClub(t, clubs, &models.Club{
			Status:    models.ClubStatusActive,
			Documents: completeDocuments(),
		})
		svc, auditStore := newService(t, clubs)

		_, err := svc.Affiliate(ctx, id)

		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidStatus))
		events, err := auditStore.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.EventClubAffiliationDenied, events[0].Action)
	})

	t.Run("unknown club is not_found", func(t *testing.T) {
		svc, _ := newService(t, store.NewInMemoryStore())
		_, err := svc.Affiliate(ctx, domain.ClubID(999))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("zero club id is bad_request", func(t *testing.T) {
		svc, _ := newService(t, store.NewInMemoryStore())
		_, err := svc.Affiliate(ctx, 0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestMissingDocuments(t *testing.T) {
	ctx := context.Background()

	clubs := store.NewInMemoryStore()
	id := seedClub(t, clubs, &models.Club{
		Status: models.ClubStatusPending,
		Documents: map[models.DocumentType]string{
			models.DocumentBylaws:          "doc-1",
			models.DocumentOfficialJournal: "doc-4",
		},
	})
	svc, _ := newService(t, clubs)

	missing, err := svc.MissingDocuments(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, []models.DocumentType{
		models.DocumentDeclarationReceipt,
		models.DocumentCommitmentCharter,
		models.DocumentAssemblyMinutes,
		models.DocumentCharterAttestation,
	}, missing)

	_, err = svc.MissingDocuments(ctx, domain.ClubID(404))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
