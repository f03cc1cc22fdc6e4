// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package version holds the release version of progreport.
package version

import "fmt"

// The presence and format of this constant is very important.
// The release tooling rewrites it when cutting a release.
const version = "0.4.0"

// Current is the version of the running binary.
var Current = version

// GitCommit and GitTreeState are set at build time with -ldflags.
var (
	GitCommit    string
	GitTreeState = "archive"
)

// String returns the version with the commit it was built from, when
// known.
func String() string {
	if GitCommit == "" {
		return Current
	}
	short := GitCommit
	if len(short) > 12 {
		short = short[:12]
	}
	return fmt.Sprintf("%s (%s, %s)", Current, short, GitTreeState)
}
