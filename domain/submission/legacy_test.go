// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package submission

import (
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
)

type legacySuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&legacySuite{})

func (s *legacySuite) TestLegacyRating(c *gc.C) {
	for rating, expected := range map[string]TargetStatus{
		"target-achieved": Completed,
		"on-track-yearly": OnTrack,
		"severe-delay":    Delayed,
		"At-Risk":         AtRisk,
		"":                NotStarted,
		"excellent":       NotStarted,
	} {
		c.Check(LegacyRating(rating), gc.Equals, expected, gc.Commentf("rating %q", rating))
	}
}

func (s *legacySuite) TestParseTargetsArray(c *gc.C) {
	parsed, err := ParseLegacyContent(`{
		"rating": "severe-delay",
		"brief_description": "Nursery expansion",
		"targets": [
			{"target_text": "Build greenhouse", "status_description": "foundations poured", "target_status": "target-achieved"},
			{"text": "Hire staff", "remarks": "two of four hired"},
			{"target": "Buy seeds", "status_indicator": "on-track"},
			{}
		]
	}`)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(parsed, jc.DeepEquals, ParsedLegacyContent{
		Description: "Nursery expansion",
		Targets: []Target{{
			Description:       "Build greenhouse",
			StatusDescription: "foundations poured",
			StatusIndicator:   Completed,
		}, {
			Description:     "Hire staff",
			Remarks:         "two of four hired",
			StatusIndicator: Delayed,
		}, {
			Description:     "Buy seeds",
			StatusIndicator: OnTrack,
		}},
	})
}

func (s *legacySuite) TestParseFlatLists(c *gc.C) {
	parsed, err := ParseLegacyContent(`{"target": "a; b ;;c", "status_text": "x;y", "rating": "on-track-yearly", "remarks": "flat"}`)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(parsed, jc.DeepEquals, ParsedLegacyContent{
		Description: "flat",
		Targets: []Target{
			{Description: "a", StatusDescription: "x", StatusIndicator: OnTrack},
			{Description: "b", StatusDescription: "y", StatusIndicator: OnTrack},
			{Description: "c", StatusIndicator: OnTrack},
		},
	})
}

func (s *legacySuite) TestParseNumbersAsText(c *gc.C) {
	parsed, err := ParseLegacyContent(`{"targets": [{"target_text": 42}]}`)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(parsed.Targets, gc.HasLen, 1)
	c.Check(parsed.Targets[0].Description, gc.Equals, "42")
	c.Check(parsed.Targets[0].StatusIndicator, gc.Equals, NotStarted)
}

func (s *legacySuite) TestParseEmptyDocument(c *gc.C) {
	parsed, err := ParseLegacyContent(`{}`)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(parsed.Targets, gc.HasLen, 0)
}

func (s *legacySuite) TestParseInvalid(c *gc.C) {
	for _, raw := range []string{
		`not json`,
		`null`,
		`{"targets": "a;b"}`,
		`{"targets": ["a"]}`,
	} {
		_, err := ParseLegacyContent(raw)
		c.Check(err, jc.ErrorIs, errors.NotValid, gc.Commentf("content %s", raw))
	}
}
