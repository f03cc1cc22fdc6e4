// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package errors

import (
	"github.com/juju/errors"
)

// NotFound describes an error that occurs when the notification does not
// exist or is addressed to another user.
const NotFound = errors.ConstError("notification not found")
