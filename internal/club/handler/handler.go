// Package handler exposes the club affiliation entry point. Capability
// auth runs in middleware; this layer checks the action token and club
// ownership, then delegates to the admission service.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"affilia/internal/antiforgery"
	"affilia/internal/club/documents"
	"affilia/internal/club/models"
	"affilia/internal/platform/middleware"
	"affilia/internal/transport/http/shared"
	"affilia/pkg/domain"
	dErrors "affilia/pkg/domain-errors"
	"affilia/pkg/requestcontext"
)

// Service defines the club admission operations the handler needs.
type Service interface {
	Affiliate(ctx context.Context, clubID domain.ClubID) (*models.Club, error)
	MissingDocuments(ctx context.Context, clubID domain.ClubID) ([]models.DocumentType, error)
}

// Authorizer answers club ownership for the current caller.
type Authorizer interface {
	CanManageClub(ctx context.Context, clubID domain.ClubID) (bool, error)
}

// TokenVerifier checks action-and-resource-scoped anti-forgery tokens.
type TokenVerifier interface {
	Verify(tokenString, action, resource, caller string) error
}

type Handler struct {
	logger *slog.Logger
	clubs  Service
	authz  Authorizer
	tokens TokenVerifier
}

func New(clubs Service, authz Authorizer, tokens TokenVerifier, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, clubs: clubs, authz: authz, tokens: tokens}
}

// Register attaches the club routes. The shared middleware chain is
// applied by the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/clubs/{id}/affiliate", h.handleAffiliate)
	r.Get("/clubs/{id}/missing-documents", h.handleMissingDocuments)
}

type affiliateRequest struct {
	Token string `json:"token"`
}

func (h *Handler) handleAffiliate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	clubID, err := domain.ParseClubID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req affiliateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	caller := requestcontext.CallerID(ctx)
	if err := h.tokens.Verify(req.Token, antiforgery.ActionAffiliateClub, clubID.String(), caller); err != nil {
		h.logger.WarnContext(ctx, "affiliation rejected by action token check",
			"club_id", clubID.Int64(),
			"request_id", requestID,
		)
		shared.WriteError(w, err)
		return
	}

	allowed, err := h.authz.CanManageClub(ctx, clubID)
	if err != nil {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "authorization check failed"))
		return
	}
	if !allowed {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "caller does not manage this club"))
		return
	}

	club, err := h.clubs.Affiliate(ctx, clubID)
	if err != nil {
		var missing *documents.MissingCoreError
		if errors.As(err, &missing) {
			shared.WriteErrorExtra(w, err, map[string]any{
				"missing_documents": missing.Missing,
			})
			return
		}
		h.logger.WarnContext(ctx, "club affiliation failed",
			"club_id", clubID.Int64(),
			"code", dErrors.CodeOf(err),
			"error", err.Error(),
			"request_id", requestID,
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"status":        club.Status,
		"affiliated_at": club.AffiliatedAt,
	})
}

func (h *Handler) handleMissingDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clubID, err := domain.ParseClubID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	allowed, err := h.authz.CanManageClub(ctx, clubID)
	if err != nil {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "authorization check failed"))
		return
	}
	if !allowed {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "caller does not manage this club"))
		return
	}

	missing, err := h.clubs.MissingDocuments(ctx, clubID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"missing_documents": missing,
	})
}
