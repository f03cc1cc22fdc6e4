// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package user

import (
	"context"

	"github.com/juju/errors"
)

// Role is the access role of a user.
type Role string

const (
	// RoleAdmin users administer the whole reporting system.
	RoleAdmin Role = "admin"
	// RoleAgency users report on their own agency's programs.
	RoleAgency Role = "agency"
	// RoleFocal users are agency users that may also finalize and
	// withdraw their agency's submissions.
	RoleFocal Role = "focal"
)

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// Validate returns an error satisfying errors.NotValid when the role is
// not one of the known roles.
func (r Role) Validate() error {
	switch r {
	case RoleAdmin, RoleAgency, RoleFocal:
		return nil
	}
	return errors.NotValidf("role %q", r)
}

// AgencySide reports whether the role belongs to an agency.
func (r Role) AgencySide() bool {
	return r == RoleAgency || r == RoleFocal
}

// Principal is the authenticated caller of an operation.
type Principal struct {
	UUID       string
	Name       string
	Role       Role
	AgencyUUID string
}

// IsAdmin reports whether the principal is an administrator.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsAgency reports whether the principal is any agency-side user,
// including focal users.
func (p Principal) IsAgency() bool {
	return p.Role.AgencySide()
}

// IsFocal reports whether the principal is an agency focal user.
func (p Principal) IsFocal() bool {
	return p.Role == RoleFocal
}

// BelongsTo reports whether the principal is an agency-side user of the
// given agency.
func (p Principal) BelongsTo(agencyUUID string) bool {
	return p.IsAgency() && agencyUUID != "" && p.AgencyUUID == agencyUUID
}

// CanManageAgency reports whether the principal may change data owned by
// the given agency: administrators always can, agency users only for
// their own agency.
func (p Principal) CanManageAgency(agencyUUID string) bool {
	return p.IsAdmin() || p.BelongsTo(agencyUUID)
}

// CanFinalizeFor reports whether the principal may finalize or withdraw
// submissions owned by the given agency.
func (p Principal) CanFinalizeFor(agencyUUID string) bool {
	return p.IsAdmin() || (p.IsFocal() && p.BelongsTo(agencyUUID))
}

type principalKey struct{}

// WithPrincipal returns a context carrying the principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored in the context, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
