//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "affilia/pkg/platform/audit"
	"affilia/pkg/testutil/containers"
)

func TestPostgresAuditStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	ctx := context.Background()
	s := New(pg.DB)

	now := time.Now().UTC().Truncate(time.Microsecond)
	events := []audit.Event{
		{Timestamp: now, Action: audit.EventLicenceCreated, ClubID: 3, LicenceID: 7, Caller: "agent-7"},
		{Timestamp: now.Add(time.Second), Action: audit.EventLicenceValidated, ClubID: 3, LicenceID: 7, Caller: "agent-7", Detail: "previous status pending"},
		{Timestamp: now.Add(2 * time.Second), Action: audit.EventClubAffiliated, ClubID: 9, Caller: "agent-8"},
	}
	for _, e := range events {
		require.NoError(t, s.Append(ctx, e))
	}

	t.Run("list by club", func(t *testing.T) {
		got, err := s.ListByClub(ctx, 3)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, audit.EventLicenceCreated, got[0].Action)
		assert.Equal(t, int64(7), got[0].LicenceID)
		assert.Equal(t, "previous status pending", got[1].Detail)
	})

	t.Run("list recent respects the limit", func(t *testing.T) {
		got, err := s.ListRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, audit.EventClubAffiliated, got[0].Action)
	})

	t.Run("zero ids are stored as null and come back zero", func(t *testing.T) {
		require.NoError(t, s.Append(ctx, audit.Event{
			Timestamp: now.Add(3 * time.Second),
			Action:    audit.EventLicenceQuotaExhausted,
			ClubID:    5,
		}))
		got, err := s.ListByClub(ctx, 5)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Zero(t, got[0].LicenceID)
	})
}
