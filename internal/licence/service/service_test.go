package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clubmodels "affilia/internal/club/models"
	clubstore "affilia/internal/club/store"
	"affilia/internal/licence/models"
	"affilia/internal/licence/store"
	"affilia/pkg/domain"
	dErrors "affilia/pkg/domain-errors"
	"affilia/pkg/requestcontext"
)

var fixedNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

// fakeOracle answers payment checks from a fixed set of paid licences.
type fakeOracle struct {
	paid map[domain.LicenceID]bool
	err  error
}

func (f *fakeOracle) IsPaid(_ context.Context, id domain.LicenceID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.paid[id], nil
}

// fakeAuthorizer grants management over every club except the denied ones.
type fakeAuthorizer struct {
	denied map[domain.ClubID]bool
}

func (f *fakeAuthorizer) CanManageClub(_ context.Context, clubID domain.ClubID) (bool, error) {
	return !f.denied[clubID], nil
}

type fixture struct {
	svc      *Service
	licences *store.InMemoryStore
	clubs    *clubstore.InMemoryStore
	oracle   *fakeOracle
	authz    *fakeAuthorizer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		licences: store.NewInMemoryStore(),
		clubs:    clubstore.NewInMemoryStore(),
		oracle:   &fakeOracle{paid: make(map[domain.LicenceID]bool)},
		authz:    &fakeAuthorizer{denied: make(map[domain.ClubID]bool)},
	}
	svc, err := New(f.licences, f.clubs, f.oracle, f.authz)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) seedClub(t *testing.T, quotaTotal, quotaUsed int) domain.ClubID {
	t.Helper()
	club := &clubmodels.Club{
		Status:     clubmodels.ClubStatusActive,
		QuotaTotal: quotaTotal,
		QuotaUsed:  quotaUsed,
	}
	require.NoError(t, f.clubs.Create(context.Background(), club))
	return club.ID
}

func (f *fixture) seedLicence(t *testing.T, licence *models.Licence) domain.LicenceID {
	t.Helper()
	require.NoError(t, f.licences.Insert(context.Background(), licence))
	return licence.ID
}

func testCtx() context.Context {
	return requestcontext.WithTime(context.Background(), fixedNow)
}

func strPtr(s string) *string { return &s }

func TestCreate(t *testing.T) {
	birthDate := time.Date(2000, time.May, 2, 0, 0, 0, 0, time.UTC)

	t.Run("new licence starts pending with derived category", func(t *testing.T) {
		f := newFixture(t)
		clubID := f.seedClub(t, 10, 0)

		licence, created, err := f.svc.Create(testCtx(), CreateInput{
			ClubID:    clubID,
			LastName:  "Dupont",
			FirstName: "Alice",
			BirthDate: &birthDate,
		})

		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, models.StatusPending, licence.Status)
		assert.Equal(t, models.PaymentPending, licence.PaymentStatus)
		assert.Equal(t, models.Category25To34, licence.Category)
		assert.False(t, licence.IsIncluded)
	})

	t.Run("same identity in same club returns the existing licence", func(t *testing.T) {
		f := newFixture(t)
		clubID := f.seedClub(t, 10, 0)

		first, created, err := f.svc.Create(testCtx(), CreateInput{
			ClubID: clubID, LastName: "Dupont", FirstName: "Alice", BirthDate: &birthDate,
		})
		require.NoError(t, err)
		require.True(t, created)

		// Different casing and spacing, same identity.
		second, created, err := f.svc.Create(testCtx(), CreateInput{
			ClubID: clubID, LastName: "  DUPONT ", FirstName: "alice", BirthDate: &birthDate,
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("same identity in another club is a new licence", func(t *testing.T) {
		f := newFixture(t)
		clubA := f.seedClub(t, 10, 0)
		clubB := f.seedClub(t, 10, 0)

		first, _, err := f.svc.Create(testCtx(), CreateInput{
			ClubID: clubA, LastName: "Dupont", FirstName: "Alice", BirthDate: &birthDate,
		})
		require.NoError(t, err)
		second, created, err := f.svc.Create(testCtx(), CreateInput{
			ClubID: clubB, LastName: "Dupont", FirstName: "Alice", BirthDate: &birthDate,
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("included request consumes one quota credit", func(t *testing.T) {
		f := newFixture(t)
		clubID := f.seedClub(t, 2, 0)

		licence, _, err := f.svc.Create(testCtx(), CreateInput{
			ClubID: clubID, LastName: "Dupont", FirstName: "Alice", RequestIncluded: true,
		})

		require.NoError(t, err)
		assert.True(t, licence.IsIncluded)
		assert.Equal(t, models.PaymentIncluded, licence.PaymentStatus)

		remaining, err := f.clubs.RemainingQuota(testCtx(), clubID)
		require.NoError(t, err)
		assert.Equal(t, 1, remaining)
	})

	t.Run("exhausted quota downgrades instead of failing", func(t *testing.T) {
		f := newFixture(t)
		clubID := f.seedClub(t, 10, 10)

		licence, created, err := f.svc.Create(testCtx(), CreateInput{
			ClubID: clubID, LastName: "Dupont", FirstName: "Alice", RequestIncluded: true,
		})

		require.NoError(t, err)
		assert.True(t, created)
		assert.False(t, licence.IsIncluded)
		assert.Equal(t, models.PaymentPending, licence.PaymentStatus, "stays individually payable")
	})

	t.Run("unknown club is not_found", func(t *testing.T) {
		f := newFixture(t)
		_, _, err := f.svc.Create(testCtx(), CreateInput{
			ClubID: 42, LastName: "Dupont", FirstName: "Alice",
		})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("blank names are bad_request", func(t *testing.T) {
		f := newFixture(t)
		clubID := f.seedClub(t, 10, 0)
		_, _, err := f.svc.Create(testCtx(), CreateInput{ClubID: clubID, LastName: "  ", FirstName: "Alice"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestUpdate(t *testing.T) {
	birthDate := time.Date(2000, time.May, 2, 0, 0, 0, 0, time.UTC)

	t.Run("pending licence accepts identity changes and re-derives category", func(t *testing.T) {
		f := newFixture(t)
		clubID := f.seedClub(t, 10, 0)
		id := f.seedLicence(t, &models.Licence{
			ClubID: clubID, LastName: "Dupont", FirstName: "Alice",
			Status: models.StatusPending, PaymentStatus: models.PaymentPending,
			Category: models.CategoryUnknown,
		})

		newBirth := time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)
		licence, err := f.svc.Update(testCtx(), id, models.Patch{
			LastName:     strPtr("Martin"),
			BirthDate:    &newBirth,
			BirthDateSet: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "Martin", licence.LastName)
		assert.Equal(t, models.CategoryUnder18, licence.Category)
	})

	t.Run("validated licence silently drops identity fields", func(t *testing.T) {
		f := newFixture(t)
		clubID := f.seedClub(t, 10, 0)
		id := f.seedLicence(t, &models.Licence{
			ClubID: clubID, LastName: "Dupont", FirstName: "Alice",
			BirthDate: &birthDate,
			Status:    models.StatusValidated, PaymentStatus: models.PaymentPaid,
			Category: models.Category25To34,
		})

		newBirth := time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)
		licence, err := f.svc.Update(testCtx(), id, models.Patch{
			LastName:     strPtr("Martin"),
			BirthDate:    &newBirth,
			BirthDateSet: true,
			Email:        strPtr("alice@example.org"),
		})

		require.NoError(t, err, "locked fields are dropped, not refused")
		assert.Equal(t, "Dupont", licence.LastName)
		assert.Equal(t, birthDate, *licence.BirthDate)
		assert.Equal(t, models.Category25To34, licence.Category)
		assert.Equal(t, "alice@example.org", licence.Email, "contact fields stay writable")

		stored, err := f.licences.FindByID(testCtx(), id)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.org", stored.Email)
		assert.Equal(t, "Dupont", stored.LastName)
	})

	t.Run("payment status stays writable on a validated licence", func(t *testing.T) {
		f := newFixture(t)
		clubID := f.seedClub(t, 10, 0)
		id := f.seedLicence(t, &models.Licence{
			ClubID: clubID, LastName: "Dupont", FirstName: "Alice",
			Status: models.StatusValidated, PaymentStatus: models.PaymentPaid,
		})

		refunded := models.PaymentRefunded
		licence, err := f.svc.Update(testCtx(), id, models.Patch{PaymentStatus: &refunded})

		require.NoError(t, err)
		assert.Equal(t, models.PaymentRefunded, licence.PaymentStatus)
	})

	t.Run("unknown payment status is bad_request", func(t *testing.T) {
		f := newFixture(t)
		clubID := f.seedClub(t, 10, 0)
		id := f.seedLicence(t, &models.Licence{
			ClubID: clubID, LastName: "Dupont", FirstName: "Alice", Status: models.StatusPending,
		})

		bogus := models.PaymentStatus("waived")
		_, err := f.svc.Update(testCtx(), id, models.Patch{PaymentStatus: &bogus})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("unknown licence is not_found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Update(testCtx(), 77, models.Patch{})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t)
	clubID := f.seedClub(t, 10, 0)
	id := f.seedLicence(t, &models.Licence{
		ClubID: clubID, LastName: "Dupont", FirstName: "Alice", Status: models.StatusPending,
	})

	t.Run("revoked is a known value", func(t *testing.T) {
		require.NoError(t, f.svc.SetStatus(testCtx(), id, models.StatusRevoked))
		stored, err := f.licences.FindByID(testCtx(), id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusRevoked, stored.Status)
	})

	t.Run("unknown value is bad_request", func(t *testing.T) {
		err := f.svc.SetStatus(testCtx(), id, models.Status("cancelled"))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}
