package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"affilia/internal/capability"
	"affilia/pkg/requestcontext"
	"affilia/pkg/testutil"
)

const signingKey = "test-signing-key"

func issueToken(t *testing.T, claims capability.Claims) string {
	t.Helper()
	token, err := capability.NewIssuer(signingKey, time.Hour).Issue(claims, time.Now())
	require.NoError(t, err)
	return token
}

func TestRequireLicenceManager(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	validator := capability.NewValidator(signingKey)

	var gotCaller string
	var gotClaims capability.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCaller = requestcontext.CallerID(r.Context())
		gotClaims, _ = capability.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireLicenceManager(validator, logger)(next)

	t.Run("valid manager token passes and seeds the context", func(t *testing.T) {
		token := issueToken(t, capability.Claims{
			Subject:        "agent-7",
			ManageLicences: true,
			ClubIDs:        []int64{3},
		})
		req := testutil.NewRequest(t, http.MethodPost, "/licences")
		req.Header.Set("Authorization", "Bearer "+token)

		rr := testutil.DoRequest(handler, req)

		testutil.AssertStatusOK(t, rr)
		assert.Equal(t, "agent-7", gotCaller)
		assert.Equal(t, []int64{3}, gotClaims.ClubIDs)
	})

	t.Run("missing header is 403", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodPost, "/licences")
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
	})

	t.Run("garbage token is 403", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodPost, "/licences")
		req.Header.Set("Authorization", "Bearer garbage")
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
	})

	t.Run("token without the capability is 403", func(t *testing.T) {
		token := issueToken(t, capability.Claims{Subject: "viewer-1"})
		req := testutil.NewRequest(t, http.MethodPost, "/licences")
		req.Header.Set("Authorization", "Bearer "+token)

		rr := testutil.DoRequest(handler, req)

		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
	})
}
