// Package antiforgery issues and verifies single-purpose request tokens.
// Each token is bound to one action and one resource (for example
// validating licence 42), plus the caller it was issued to, so a token
// captured from one form cannot replay against another action, another
// record, or another session. The presentation layer requests a token when
// it renders a form and sends it back with the submission.
package antiforgery

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "affilia/pkg/domain-errors"
)

// Actions covered by anti-forgery tokens. Batch validation uses one token
// per submission, not per item.
const (
	ActionValidateLicence = "licence:validate"
	ActionRejectLicence   = "licence:reject"
	ActionValidateBatch   = "licences:validate-batch"
	ActionAffiliateClub   = "club:affiliate"
)

type tokenClaims struct {
	Action   string `json:"act"`
	Resource string `json:"res"`
	jwt.RegisteredClaims
}

// Service signs and verifies action tokens with a shared HMAC key.
type Service struct {
	key []byte
	ttl time.Duration
}

func New(signingKey string, ttl time.Duration) *Service {
	return &Service{key: []byte(signingKey), ttl: ttl}
}

// Issue signs a token for one action on one resource. Resource is the
// record id as a string, or "" for batch-scoped actions.
func (s *Service) Issue(action, resource, caller string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Action:   action,
		Resource: resource,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign action token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature, expiry, and its binding to the
// expected action, resource and caller. Any mismatch is reported as
// forbidden; the caller gets no detail about which check failed.
func (s *Service) Verify(tokenString, action, resource, caller string) error {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil || !token.Valid {
		return dErrors.New(dErrors.CodeForbidden, "invalid or expired action token")
	}
	if claims.Action != action || claims.Resource != resource || claims.Subject != caller {
		return dErrors.New(dErrors.CodeForbidden, "action token does not match this request")
	}
	return nil
}
