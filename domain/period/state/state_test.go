// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package state

import (
	"context"
	"time"

	"github.com/google/uuid"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/agency-reporting/progreport/domain/period"
	perioderrors "github.com/agency-reporting/progreport/domain/period/errors"
	schematesting "github.com/agency-reporting/progreport/domain/schema/testing"
)

type stateSuite struct {
	schematesting.SchemaSuite
}

var _ = gc.Suite(&stateSuite{})

func quarter(year, number int, status period.Status) period.CreatePeriodArgs {
	start := time.Date(year, time.Month(3*(number-1)+1), 1, 0, 0, 0, 0, time.UTC)
	return period.CreatePeriodArgs{
		Year:      year,
		Type:      period.Quarter,
		Number:    number,
		StartDate: start,
		EndDate:   start.AddDate(0, 3, 0).Add(-time.Second),
		Status:    status,
	}
}

func (s *stateSuite) create(c *gc.C, st *State, args period.CreatePeriodArgs) string {
	id := uuid.NewString()
	err := st.CreatePeriod(context.Background(), id, args, time.Now())
	c.Assert(err, jc.ErrorIsNil)
	return id
}

func (s *stateSuite) TestCreateAndGet(c *gc.C) {
	st := NewState(s.TxnRunnerFactory())
	args := quarter(2024, 2, period.Open)
	id := s.create(c, st, args)

	p, err := st.GetPeriod(context.Background(), id)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(p.Label(), gc.Equals, "Q2-2024")
	c.Check(p.Status, gc.Equals, period.Open)
	c.Check(p.StartDate.Equal(args.StartDate), jc.IsTrue)
	c.Check(p.EndDate.Equal(args.EndDate), jc.IsTrue)
}

func (s *stateSuite) TestCreateDuplicate(c *gc.C) {
	st := NewState(s.TxnRunnerFactory())
	s.create(c, st, quarter(2024, 2, period.Open))

	err := st.CreatePeriod(context.Background(), uuid.NewString(), quarter(2024, 2, period.Closed), time.Now())
	c.Assert(err, jc.ErrorIs, perioderrors.AlreadyExists)
}

func (s *stateSuite) TestGetNotFound(c *gc.C) {
	st := NewState(s.TxnRunnerFactory())

	_, err := st.GetPeriod(context.Background(), uuid.NewString())
	c.Assert(err, jc.ErrorIs, perioderrors.NotFound)
}

func (s *stateSuite) TestListPeriodsLatestFirst(c *gc.C) {
	st := NewState(s.TxnRunnerFactory())
	s.create(c, st, quarter(2023, 4, period.Closed))
	s.create(c, st, quarter(2024, 1, period.Open))
	s.create(c, st, quarter(2024, 2, period.Closed))

	all, err := st.ListPeriods(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(all, gc.HasLen, 3)
	c.Check(all[0].Label(), gc.Equals, "Q2-2024")
	c.Check(all[1].Label(), gc.Equals, "Q1-2024")
	c.Check(all[2].Label(), gc.Equals, "Q4-2023")

	open, err := st.ListOpenPeriods(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(open, gc.HasLen, 1)
	c.Check(open[0].Label(), gc.Equals, "Q1-2024")
}

func (s *stateSuite) TestSetStatus(c *gc.C) {
	st := NewState(s.TxnRunnerFactory())
	id := s.create(c, st, quarter(2024, 1, period.Closed))

	changed, err := st.SetStatus(context.Background(), id, period.Open)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(changed, jc.IsTrue)

	changed, err = st.SetStatus(context.Background(), id, period.Open)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(changed, jc.IsFalse)

	p, err := st.GetPeriod(context.Background(), id)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(p.IsOpen(), jc.IsTrue)

	_, err = st.SetStatus(context.Background(), uuid.NewString(), period.Open)
	c.Check(err, jc.ErrorIs, perioderrors.NotFound)
}
