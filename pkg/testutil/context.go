package testutil

import (
	"net/http"

	"affilia/internal/capability"
	"affilia/pkg/requestcontext"
)

// WithCaller stamps the request context with an authenticated caller id,
// simulating what the capability middleware does.
func WithCaller(req *http.Request, caller string) *http.Request {
	return req.WithContext(requestcontext.WithCallerID(req.Context(), caller))
}

// WithClaims installs full capability claims plus the caller id, the
// state a request has after the auth middleware ran.
func WithClaims(req *http.Request, claims capability.Claims) *http.Request {
	ctx := capability.WithClaims(req.Context(), claims)
	ctx = requestcontext.WithCallerID(ctx, claims.Subject)
	return req.WithContext(ctx)
}

// ManagerClaims builds claims for a licence manager of the given clubs.
func ManagerClaims(subject string, clubIDs ...int64) capability.Claims {
	return capability.Claims{
		Subject:        subject,
		ManageLicences: true,
		ClubIDs:        clubIDs,
	}
}
