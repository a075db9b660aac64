/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "github.com/cockroachdb/errors"

var (
	ErrInvalidRoster   = errors.New("invalid roster")
	ErrInvalidSettings = errors.New("invalid tournament settings")
	ErrInvalidSlot     = errors.New("invalid set slot")
	ErrInvalidMatch    = errors.New("no such match")
	ErrRoundInProgress = errors.New("current round has unfinished matches")
	ErrTooManyRounds   = errors.New("maximum number of rounds reached")

	// ErrNoPairing is recoverable: no state was changed and the caller may
	// try again.
	ErrNoPairing = errors.New("no valid pairing found")
)
