// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import "errors"

// Sentinel errors for the engine package.
var (
	// ErrNilContext indicates a nil context was passed to a blocking call.
	ErrNilContext = errors.New("context must not be nil")

	// ErrNoUnits indicates a run was started with no source units.
	ErrNoUnits = errors.New("no source units to process")

	// ErrOracleTransport indicates the oracle call failed at the transport
	// or authentication layer. Unit-fatal: the unit is abandoned and the
	// run continues with the next unit.
	ErrOracleTransport = errors.New("oracle transport failure")

	// ErrPersistence indicates the artifact store or quarantine rejected a
	// save. Unit-fatal.
	ErrPersistence = errors.New("artifact persistence failure")

	// ErrInvalidTransition indicates an invalid retry state transition was
	// attempted. This is a programming error, not a runtime condition.
	ErrInvalidTransition = errors.New("invalid retry state transition")
)
