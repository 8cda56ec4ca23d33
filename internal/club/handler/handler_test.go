//go:generate mockgen -source=handler.go -destination=mocks/club-mocks.go -package=mocks Service,Authorizer,TokenVerifier

package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"affilia/internal/antiforgery"
	"affilia/internal/club/documents"
	"affilia/internal/club/handler/mocks"
	"affilia/internal/club/models"
	"affilia/pkg/domain"
	dErrors "affilia/pkg/domain-errors"
	"affilia/pkg/testutil"
)

type handlerFixture struct {
	router chi.Router
	clubs  *mocks.MockService
	authz  *mocks.MockAuthorizer
	tokens *mocks.MockTokenVerifier
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &handlerFixture{
		clubs:  mocks.NewMockService(ctrl),
		authz:  mocks.NewMockAuthorizer(ctrl),
		tokens: mocks.NewMockTokenVerifier(ctrl),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.router = chi.NewRouter()
	New(f.clubs, f.authz, f.tokens, logger).Register(f.router)
	return f
}

func TestHandleAffiliate(t *testing.T) {
	affiliatedAt := time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

	t.Run("affiliation reports the new standing", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.tokens.EXPECT().
			Verify("tok-1", antiforgery.ActionAffiliateClub, "3", "agent-7").
			Return(nil)
		f.authz.EXPECT().CanManageClub(gomock.Any(), domain.ClubID(3)).Return(true, nil)
		f.clubs.EXPECT().
			Affiliate(gomock.Any(), domain.ClubID(3)).
			Return(&models.Club{
				ID:           3,
				Status:       models.ClubStatusActive,
				AffiliatedAt: &affiliatedAt,
			}, nil)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/clubs/3/affiliate", map[string]any{
			"token": "tok-1",
		})
		rr := testutil.DoRequest(f.router, testutil.WithCaller(req, "agent-7"))

		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "active")
		testutil.AssertJSONHasKey(t, rr, "affiliated_at")
	})

	t.Run("missing core documents are listed in the refusal", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.tokens.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.authz.EXPECT().CanManageClub(gomock.Any(), domain.ClubID(3)).Return(true, nil)
		f.clubs.EXPECT().
			Affiliate(gomock.Any(), domain.ClubID(3)).
			Return(nil, dErrors.Wrap(
				&documents.MissingCoreError{Missing: []models.DocumentType{
					models.DocumentBylaws,
					models.DocumentCommitmentCharter,
				}},
				dErrors.CodeInvalidStatus,
				"core affiliation documents are missing",
			))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/clubs/3/affiliate", map[string]any{
			"token": "tok-1",
		})
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatus(t, rr, http.StatusConflict)
		body := testutil.UnmarshalResponse[map[string]any](t, rr)
		assert.Equal(t, "invalid_status", (*body)["code"])
		assert.Equal(t, []any{"bylaws", "commitment_charter"}, (*body)["missing_documents"])
	})

	t.Run("foreign club is 403", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.tokens.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.authz.EXPECT().CanManageClub(gomock.Any(), domain.ClubID(3)).Return(false, nil)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/clubs/3/affiliate", map[string]any{
			"token": "tok-1",
		})
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
	})

	t.Run("bad action token blocks before the ownership check", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.tokens.EXPECT().
			Verify(gomock.Any(), antiforgery.ActionAffiliateClub, "3", gomock.Any()).
			Return(dErrors.New(dErrors.CodeForbidden, "invalid or expired action token"))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/clubs/3/affiliate", map[string]any{
			"token": "stolen",
		})
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
	})

	t.Run("unknown club is 404", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.tokens.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.authz.EXPECT().CanManageClub(gomock.Any(), domain.ClubID(9)).Return(true, nil)
		f.clubs.EXPECT().
			Affiliate(gomock.Any(), domain.ClubID(9)).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "club not found"))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/clubs/9/affiliate", map[string]any{
			"token": "tok-1",
		})
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		f := newHandlerFixture(t)
		req := testutil.NewJSONRequest(t, http.MethodPost, "/clubs/abc/affiliate", map[string]any{
			"token": "tok-1",
		})
		rr := testutil.DoRequest(f.router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})
}

func TestHandleMissingDocuments(t *testing.T) {
	t.Run("lists every empty slot", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.authz.EXPECT().CanManageClub(gomock.Any(), domain.ClubID(3)).Return(true, nil)
		f.clubs.EXPECT().
			MissingDocuments(gomock.Any(), domain.ClubID(3)).
			Return([]models.DocumentType{models.DocumentAssemblyMinutes}, nil)

		req := testutil.NewRequest(t, http.MethodGet, "/clubs/3/missing-documents")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusOK(t, rr)
		body := testutil.UnmarshalResponse[map[string]any](t, rr)
		assert.Equal(t, []any{"assembly_minutes"}, (*body)["missing_documents"])
	})

	t.Run("foreign club is 403", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.authz.EXPECT().CanManageClub(gomock.Any(), domain.ClubID(3)).Return(false, nil)

		req := testutil.NewRequest(t, http.MethodGet, "/clubs/3/missing-documents")
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
	})
}
