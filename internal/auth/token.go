// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package auth issues and verifies the signed session tokens handed out at
// login.
package auth

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	coreuser "github.com/agency-reporting/progreport/core/user"
)

const (
	tokenIssuer = "progreport"

	nameClaimKey   = "name"
	roleClaimKey   = "role"
	agencyClaimKey = "agency"

	// MinSecretLength is the shortest accepted signing secret.
	MinSecretLength = 16
)

var jwtAlg = jwa.HS256

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

// NewTokenManager returns a TokenManager signing with secret. Tokens
// expire ttl after they are issued.
func NewTokenManager(secret []byte, ttl time.Duration, clock clock.Clock) (*TokenManager, error) {
	if len(secret) < MinSecretLength {
		return nil, errors.NotValidf("session secret shorter than %d bytes", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, errors.NotValidf("session ttl %v", ttl)
	}
	return &TokenManager{
		secret: secret,
		ttl:    ttl,
		clock:  clock,
	}, nil
}

// TTL returns how long issued tokens stay valid.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue returns a signed token for the principal and its expiry time.
func (m *TokenManager) Issue(p coreuser.Principal) (string, time.Time, error) {
	now := m.clock.Now().UTC().Truncate(time.Second)
	expiry := now.Add(m.ttl)

	token, err := jwt.NewBuilder().
		Issuer(tokenIssuer).
		Subject(p.UUID).
		IssuedAt(now).
		Expiration(expiry).
		Claim(nameClaimKey, p.Name).
		Claim(roleClaimKey, string(p.Role)).
		Claim(agencyClaimKey, p.AgencyUUID).
		Build()
	if err != nil {
		return "", time.Time{}, errors.Annotate(err, "building token")
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwtAlg, m.secret))
	if err != nil {
		return "", time.Time{}, errors.Annotate(err, "signing token")
	}
	return string(signed), expiry, nil
}

// Verify checks the signature, issuer and expiry of a token and returns
// the principal it was issued for. Any failure is reported as
// errors.Unauthorized.
func (m *TokenManager) Verify(raw string) (coreuser.Principal, error) {
	token, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwtAlg, m.secret),
		jwt.WithClock(m.clock),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return coreuser.Principal{}, errors.NewUnauthorized(err, "invalid session token")
	}

	claims := token.PrivateClaims()
	p := coreuser.Principal{
		UUID:       token.Subject(),
		Name:       stringClaim(claims, nameClaimKey),
		Role:       coreuser.Role(stringClaim(claims, roleClaimKey)),
		AgencyUUID: stringClaim(claims, agencyClaimKey),
	}
	if p.UUID == "" {
		return coreuser.Principal{}, errors.Unauthorizedf("session token without subject")
	}
	if err := p.Role.Validate(); err != nil {
		return coreuser.Principal{}, errors.NewUnauthorized(err, "invalid session token")
	}
	return p, nil
}

func stringClaim(claims map[string]any, key string) string {
	s, _ := claims[key].(string)
	return s
}
