// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package database

// Delta is a single schema change: a statement and its bind arguments.
type Delta struct {
	stmt string
	args []any
}

// MakeDelta is a convenience function for creating a Delta.
func MakeDelta(stmt string, args ...any) Delta {
	return Delta{
		stmt: stmt,
		args: args,
	}
}

// Stmt returns the statement of the delta.
func (d Delta) Stmt() string {
	return d.stmt
}

// Args returns the arguments of the delta.
func (d Delta) Args() []any {
	return d.args
}
