// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package auth

import (
	"time"

	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"github.com/lestrrat-go/jwx/v2/jwt"
	gc "gopkg.in/check.v1"

	coreuser "github.com/agency-reporting/progreport/core/user"
)

type tokenSuite struct {
	testing.IsolationSuite

	clock *testclock.Clock
}

var _ = gc.Suite(&tokenSuite{})

var (
	secret = []byte("0123456789abcdef0123456789abcdef")
	focal  = coreuser.Principal{
		UUID:       "11111111-1111-4111-8111-111111111111",
		Name:       "fran",
		Role:       coreuser.RoleFocal,
		AgencyUUID: "22222222-2222-4222-8222-222222222222",
	}
)

func (s *tokenSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.clock = testclock.NewClock(time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC))
}

func (s *tokenSuite) manager(c *gc.C) *TokenManager {
	m, err := NewTokenManager(secret, time.Hour, s.clock)
	c.Assert(err, jc.ErrorIsNil)
	return m
}

func (s *tokenSuite) TestIssueVerify(c *gc.C) {
	m := s.manager(c)

	token, expiry, err := m.Issue(focal)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(expiry, gc.Equals, s.clock.Now().Add(time.Hour))

	p, err := m.Verify(token)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(p, gc.Equals, focal)
}

func (s *tokenSuite) TestTokenClaims(c *gc.C) {
	token, _, err := s.manager(c).Issue(focal)
	c.Assert(err, jc.ErrorIsNil)

	parsed, err := jwt.Parse([]byte(token), jwt.WithKey(jwtAlg, secret), jwt.WithClock(s.clock))
	c.Assert(err, jc.ErrorIsNil)
	c.Check(parsed.Subject(), gc.Equals, focal.UUID)
	c.Check(parsed.Issuer(), gc.Equals, tokenIssuer)
	c.Check(parsed.PrivateClaims()[roleClaimKey], gc.Equals, "focal")
	c.Check(parsed.Expiration().Sub(parsed.IssuedAt()), gc.Equals, time.Hour)
}

func (s *tokenSuite) TestVerifyExpired(c *gc.C) {
	m := s.manager(c)
	token, _, err := m.Issue(focal)
	c.Assert(err, jc.ErrorIsNil)

	s.clock.Advance(time.Hour + time.Second)

	_, err = m.Verify(token)
	c.Assert(err, jc.ErrorIs, errors.Unauthorized)
}

func (s *tokenSuite) TestVerifyWrongSecret(c *gc.C) {
	token, _, err := s.manager(c).Issue(focal)
	c.Assert(err, jc.ErrorIsNil)

	other, err := NewTokenManager([]byte("another-secret-of-enough-length"), time.Hour, s.clock)
	c.Assert(err, jc.ErrorIsNil)
	_, err = other.Verify(token)
	c.Assert(err, jc.ErrorIs, errors.Unauthorized)
}

func (s *tokenSuite) TestVerifyGarbage(c *gc.C) {
	_, err := s.manager(c).Verify("not-a-token")
	c.Assert(err, jc.ErrorIs, errors.Unauthorized)
}

func (s *tokenSuite) TestVerifyUnknownRole(c *gc.C) {
	token, _, err := s.manager(c).Issue(coreuser.Principal{UUID: focal.UUID, Role: "root"})
	c.Assert(err, jc.ErrorIsNil)

	_, err = s.manager(c).Verify(token)
	c.Assert(err, jc.ErrorIs, errors.Unauthorized)
}

func (s *tokenSuite) TestNewTokenManagerValidation(c *gc.C) {
	_, err := NewTokenManager([]byte("short"), time.Hour, s.clock)
	c.Check(err, jc.ErrorIs, errors.NotValid)

	_, err = NewTokenManager(secret, 0, s.clock)
	c.Check(err, jc.ErrorIs, errors.NotValid)
}
