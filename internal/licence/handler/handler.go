// Package handler exposes the licence entry points: creation, update, and
// the guarded single and bulk status transitions. Capability auth runs in
// middleware; this layer verifies action tokens, delegates to the
// admission service, and translates outcomes.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"affilia/internal/antiforgery"
	"affilia/internal/licence/models"
	"affilia/internal/licence/service"
	"affilia/internal/platform/middleware"
	"affilia/internal/transport/http/shared"
	"affilia/pkg/domain"
	dErrors "affilia/pkg/domain-errors"
	"affilia/pkg/requestcontext"
)

// AdmissionService defines the licence operations the handler needs.
type AdmissionService interface {
	Create(ctx context.Context, input service.CreateInput) (*models.Licence, bool, error)
	Update(ctx context.Context, id domain.LicenceID, patch models.Patch) (*models.Licence, error)
	Validate(ctx context.Context, id domain.LicenceID) (*models.Licence, error)
	Reject(ctx context.Context, id domain.LicenceID) (*models.Licence, error)
	ValidateBatch(ctx context.Context, ids []domain.LicenceID) (service.BulkResult, error)
}

// TokenVerifier checks action-and-resource-scoped anti-forgery tokens.
type TokenVerifier interface {
	Verify(tokenString, action, resource, caller string) error
}

type Handler struct {
	logger   *slog.Logger
	licences AdmissionService
	tokens   TokenVerifier
}

func New(licences AdmissionService, tokens TokenVerifier, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, licences: licences, tokens: tokens}
}

// Register attaches the licence routes. The shared middleware chain is
// applied by the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/licences", h.handleCreate)
	r.Patch("/licences/{id}", h.handleUpdate)
	r.Post("/licences/{id}/validate", h.handleValidate)
	r.Post("/licences/{id}/reject", h.handleReject)
	r.Post("/licences/validate-batch", h.handleValidateBatch)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createLicenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	input, err := req.toInput()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	licence, created, err := h.licences.Create(ctx, input)
	if err != nil {
		h.logWarn(ctx, "licence creation failed", err)
		shared.WriteError(w, err)
		return
	}

	status := http.StatusCreated
	if !created {
		// Idempotent creation: same identity, same licence.
		status = http.StatusOK
	}
	shared.WriteJSON(w, status, toLicenceResponse(licence))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseLicenceID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req updateLicenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	licence, err := h.licences.Update(ctx, id, patch)
	if err != nil {
		h.logWarn(ctx, "licence update failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toLicenceResponse(licence))
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, antiforgery.ActionValidateLicence, h.licences.Validate)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, antiforgery.ActionRejectLicence, h.licences.Reject)
}

// handleTransition factors the shared shape of the single validate and
// reject entry points: id, action token, transition, outcome.
func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request, action string,
	transition func(context.Context, domain.LicenceID) (*models.Licence, error)) {
	ctx := r.Context()

	id, err := domain.ParseLicenceID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	caller := requestcontext.CallerID(ctx)
	if err := h.tokens.Verify(req.Token, action, id.String(), caller); err != nil {
		h.logWarn(ctx, "action token check failed", err)
		shared.WriteError(w, err)
		return
	}

	licence, err := transition(ctx, id)
	if err != nil {
		h.logWarn(ctx, "licence transition failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"id":     licence.ID.Int64(),
		"statut": licence.Status,
	})
}

func (h *Handler) handleValidateBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req batchValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	// One token per batch submission, not per item.
	caller := requestcontext.CallerID(ctx)
	if err := h.tokens.Verify(req.Token, antiforgery.ActionValidateBatch, "", caller); err != nil {
		h.logWarn(ctx, "batch action token check failed", err)
		shared.WriteError(w, err)
		return
	}

	ids := make([]domain.LicenceID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		ids = append(ids, domain.LicenceID(raw))
	}

	result, err := h.licences.ValidateBatch(ctx, ids)
	if err != nil {
		h.logWarn(ctx, "bulk validation refused", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) logWarn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"code", dErrors.CodeOf(err),
		"error", err.Error(),
		"request_id", middleware.GetRequestID(ctx),
	)
}
