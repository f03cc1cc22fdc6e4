// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package submission

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/juju/errors"
)

// legacyRatings maps the ratings used by the legacy content_json reports
// onto target statuses. Anything not listed becomes NotStarted.
var legacyRatings = map[string]TargetStatus{
	"target-achieved": Completed,
	"on-track-yearly": OnTrack,
	"severe-delay":    Delayed,
	"not-started":     NotStarted,
	"on-track":        OnTrack,
	"at-risk":         AtRisk,
	"delayed":         Delayed,
	"completed":       Completed,
}

// LegacyRating maps a legacy rating onto a target status.
func LegacyRating(rating string) TargetStatus {
	if status, ok := legacyRatings[strings.ToLower(strings.TrimSpace(rating))]; ok {
		return status
	}
	return NotStarted
}

// ParsedLegacyContent is the structured form of a legacy content_json
// report. Targets carry no UUIDs.
type ParsedLegacyContent struct {
	Description string
	Targets     []Target
}

// ParseLegacyContent parses a legacy content_json document. Two layouts
// are accepted: a "targets" array of objects, and a flat layout where
// "target" and "status_text" hold parallel lists separated by ";".
// Targets without a per-target status take the report's "rating".
func ParseLegacyContent(raw string) (ParsedLegacyContent, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return ParsedLegacyContent{}, errors.NewNotValid(err, "legacy content")
	}
	if doc == nil {
		return ParsedLegacyContent{}, errors.NotValidf("empty legacy content")
	}

	result := ParsedLegacyContent{
		Description: firstString(doc, "brief_description", "description", "remarks"),
	}
	rating := LegacyRating(stringField(doc, "rating"))

	if items, ok := doc["targets"]; ok {
		list, ok := items.([]any)
		if !ok {
			return ParsedLegacyContent{}, errors.NotValidf("legacy targets of type %T", items)
		}
		for i, item := range list {
			obj, ok := item.(map[string]any)
			if !ok {
				return ParsedLegacyContent{}, errors.NotValidf("legacy target %d of type %T", i+1, item)
			}
			t := Target{
				Description:       firstString(obj, "target_text", "text", "target"),
				StatusDescription: stringField(obj, "status_description"),
				Remarks:           stringField(obj, "remarks"),
				StatusIndicator:   rating,
			}
			if status := firstString(obj, "target_status", "status_indicator"); status != "" {
				t.StatusIndicator = LegacyRating(status)
			}
			if t == (Target{StatusIndicator: t.StatusIndicator}) {
				continue
			}
			result.Targets = append(result.Targets, t)
		}
		return result, nil
	}

	descriptions := splitList(stringField(doc, "target"))
	statuses := splitList(stringField(doc, "status_text"))
	for i, d := range descriptions {
		if d == "" {
			continue
		}
		t := Target{
			Description:     d,
			StatusIndicator: rating,
		}
		if i < len(statuses) {
			t.StatusDescription = statuses[i]
		}
		result.Targets = append(result.Targets, t)
	}
	return result, nil
}

// splitList splits a ";" separated list, keeping empty entries so that
// parallel lists stay aligned.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := stringField(obj, k); v != "" {
			return v
		}
	}
	return ""
}

// stringField returns the trimmed value of a field. Legacy documents
// sometimes hold numbers where text is expected.
func stringField(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64, bool:
		return fmt.Sprint(v)
	default:
		return ""
	}
}
