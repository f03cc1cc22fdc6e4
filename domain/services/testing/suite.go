// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	"context"
	"time"

	"github.com/juju/clock/testclock"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	coreuser "github.com/agency-reporting/progreport/core/user"
	schematesting "github.com/agency-reporting/progreport/domain/schema/testing"
	"github.com/agency-reporting/progreport/domain/services"
	"github.com/agency-reporting/progreport/domain/user"
	"github.com/agency-reporting/progreport/internal/objectstore"
)

// AdminPassword is the password of the administrator seeded by
// ServicesSuite.
const AdminPassword = "dummy-secret"

// ServicesSuite is a test suite that can be composed into tests that
// require the domain services over a real database. An administrator is
// seeded during set up.
type ServicesSuite struct {
	schematesting.SchemaSuite

	// Clock drives every service built by Services.
	Clock *testclock.Clock

	// ObjectStore is a file object store in a temporary directory.
	ObjectStore *objectstore.FileStore

	// Admin is the principal of the seeded administrator.
	Admin coreuser.Principal
}

// SetUpTest prepares the database, object store and clock, then seeds the
// administrator.
func (s *ServicesSuite) SetUpTest(c *gc.C) {
	s.SchemaSuite.SetUpTest(c)
	s.Clock = testclock.NewClock(time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC))

	store, err := objectstore.NewFileStore(c.MkDir())
	c.Assert(err, jc.ErrorIsNil)
	s.ObjectStore = store

	s.SeedAdminUser(c)
}

// Services conveniently constructs a service factory over the test
// database.
func (s *ServicesSuite) Services(c *gc.C) *services.Factory {
	return services.NewFactory(services.Config{
		DB:          s.TxnRunnerFactory(),
		ObjectStore: s.ObjectStore,
		Clock:       s.Clock,
	})
}

// SeedAdminUser adds the "admin" administrator.
func (s *ServicesSuite) SeedAdminUser(c *gc.C) {
	s.Admin = s.AddUser(c, "admin", coreuser.RoleAdmin, "")
}

// AddUser adds a user with AdminPassword and returns its principal.
func (s *ServicesSuite) AddUser(c *gc.C, name string, role coreuser.Role, agencyUUID string) coreuser.Principal {
	svc := s.Services(c).User()
	id, err := svc.AddUser(context.Background(), user.AddUserArgs{
		Name:       name,
		FullName:   name,
		Role:       role,
		AgencyUUID: agencyUUID,
		Password:   AdminPassword,
	})
	c.Assert(err, jc.ErrorIsNil)

	u, err := svc.GetUser(context.Background(), id)
	c.Assert(err, jc.ErrorIsNil)
	return u.Principal()
}
