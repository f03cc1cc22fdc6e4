// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package state

import (
	"context"
	"time"

	"github.com/google/uuid"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/agency-reporting/progreport/domain/agency"
	agencyerrors "github.com/agency-reporting/progreport/domain/agency/errors"
	schematesting "github.com/agency-reporting/progreport/domain/schema/testing"
)

type stateSuite struct {
	schematesting.SchemaSuite
}

var _ = gc.Suite(&stateSuite{})

func (s *stateSuite) TestCreateAndGetAgency(c *gc.C) {
	st := NewState(s.TxnRunnerFactory())
	id := uuid.NewString()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	err := st.CreateAgency(context.Background(), id, agency.CreateAgencyArgs{
		Name:         "Ministry of Works",
		Abbreviation: "MOW",
	}, now)
	c.Assert(err, jc.ErrorIsNil)

	got, err := st.GetAgency(context.Background(), id)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(got.UUID, gc.Equals, id)
	c.Check(got.Name, gc.Equals, "Ministry of Works")
	c.Check(got.Abbreviation, gc.Equals, "MOW")
	c.Check(got.CreatedAt.Equal(now), jc.IsTrue)
}

func (s *stateSuite) TestCreateAgencyDuplicateName(c *gc.C) {
	st := NewState(s.TxnRunnerFactory())

	err := st.CreateAgency(context.Background(), uuid.NewString(), agency.CreateAgencyArgs{Name: "Forestry"}, time.Now())
	c.Assert(err, jc.ErrorIsNil)

	err = st.CreateAgency(context.Background(), uuid.NewString(), agency.CreateAgencyArgs{Name: "Forestry"}, time.Now())
	c.Assert(err, jc.ErrorIs, agencyerrors.AlreadyExists)
}

func (s *stateSuite) TestGetAgencyNotFound(c *gc.C) {
	st := NewState(s.TxnRunnerFactory())

	_, err := st.GetAgency(context.Background(), uuid.NewString())
	c.Assert(err, jc.ErrorIs, agencyerrors.NotFound)
}

func (s *stateSuite) TestListAgenciesOrderedByName(c *gc.C) {
	st := NewState(s.TxnRunnerFactory())

	agencies, err := st.ListAgencies(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(agencies, gc.HasLen, 0)

	s.SeedAgency(c, "Water")
	s.SeedAgency(c, "Agriculture")
	s.SeedAgency(c, "Health")

	agencies, err = st.ListAgencies(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(agencies, gc.HasLen, 3)
	c.Check(agencies[0].Name, gc.Equals, "Agriculture")
	c.Check(agencies[1].Name, gc.Equals, "Health")
	c.Check(agencies[2].Name, gc.Equals, "Water")
}

func (s *stateSuite) TestUpdateAgency(c *gc.C) {
	st := NewState(s.TxnRunnerFactory())
	id := s.SeedAgency(c, "Water")
	s.SeedAgency(c, "Health")

	err := st.UpdateAgency(context.Background(), id, "Water Board", "WB")
	c.Assert(err, jc.ErrorIsNil)

	got, err := st.GetAgency(context.Background(), id)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(got.Name, gc.Equals, "Water Board")
	c.Check(got.Abbreviation, gc.Equals, "WB")

	err = st.UpdateAgency(context.Background(), id, "Health", "")
	c.Check(err, jc.ErrorIs, agencyerrors.AlreadyExists)

	err = st.UpdateAgency(context.Background(), uuid.NewString(), "Other", "")
	c.Check(err, jc.ErrorIs, agencyerrors.NotFound)
}
