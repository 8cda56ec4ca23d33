// Package capability models what a caller is allowed to do. The federation
// back office issues short-lived HMAC-signed tokens whose claims carry the
// licence-management capability and the set of clubs the caller manages;
// this package validates them and answers ownership questions for the
// admission services.
package capability

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"affilia/pkg/domain"
)

// Claims is the decoded capability set for one caller.
type Claims struct {
	// Subject identifies the caller (back-office account id).
	Subject string
	// ManageLicences gates every licence entry point.
	ManageLicences bool
	// Admin callers manage every club; ClubIDs is ignored for them.
	Admin bool
	// ClubIDs lists the clubs the caller manages.
	ClubIDs []int64
}

// ManagesClub reports whether the claims grant management rights over the
// given club.
func (c Claims) ManagesClub(clubID domain.ClubID) bool {
	if c.Admin {
		return true
	}
	for _, id := range c.ClubIDs {
		if id == clubID.Int64() {
			return true
		}
	}
	return false
}

type contextKeyClaims struct{}

// ContextKeyClaims is exported for tests that build contexts by hand.
var ContextKeyClaims = contextKeyClaims{}

// WithClaims injects validated claims into the context.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, ContextKeyClaims, claims)
}

// FromContext retrieves the caller's claims. The second return is false
// when no auth middleware ran.
func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(Claims)
	return claims, ok
}

type tokenClaims struct {
	ManageLicences bool    `json:"manage_licences"`
	Admin          bool    `json:"admin"`
	ClubIDs        []int64 `json:"club_ids"`
	jwt.RegisteredClaims
}

// Validator verifies capability tokens issued by the back office.
type Validator struct {
	key []byte
}

func NewValidator(signingKey string) *Validator {
	return &Validator{key: []byte(signingKey)}
}

// ValidateToken parses and verifies a capability token string.
func (v *Validator) ValidateToken(tokenString string) (Claims, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.key, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("parse capability token: %w", err)
	}
	if !token.Valid {
		return Claims{}, fmt.Errorf("invalid capability token")
	}
	return Claims{
		Subject:        claims.Subject,
		ManageLicences: claims.ManageLicences,
		Admin:          claims.Admin,
		ClubIDs:        claims.ClubIDs,
	}, nil
}

// Issuer signs capability tokens. Production tokens come from the back
// office; this issuer serves dev wiring and tests.
type Issuer struct {
	key []byte
	ttl time.Duration
}

func NewIssuer(signingKey string, ttl time.Duration) *Issuer {
	return &Issuer{key: []byte(signingKey), ttl: ttl}
}

// Issue signs a token carrying the given claims.
func (i *Issuer) Issue(claims Claims, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		ManageLicences: claims.ManageLicences,
		Admin:          claims.Admin,
		ClubIDs:        claims.ClubIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign capability token: %w", err)
	}
	return signed, nil
}

// Authorizer answers club ownership checks from the claims the auth
// middleware stored in the context.
type Authorizer struct{}

// CanManageClub reports whether the current caller manages the club.
func (Authorizer) CanManageClub(ctx context.Context, clubID domain.ClubID) (bool, error) {
	claims, ok := FromContext(ctx)
	if !ok {
		return false, nil
	}
	return claims.ManagesClub(clubID), nil
}
