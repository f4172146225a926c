package scoring

import "errors"

var (
	// ErrNegativeScore is returned when a score delta would take a team's
	// score below zero. The operation is rejected, not clamped.
	ErrNegativeScore = errors.New("scoring: score cannot go below zero")

	// ErrNoActiveSet is returned when a scoring operation arrives while no
	// set is open (recording paused or game already over).
	ErrNoActiveSet = errors.New("scoring: no active set")

	// ErrDuplicateSetNumber indicates a set-number allocation collision.
	// The caller's state is stale and must be resynchronized from storage.
	ErrDuplicateSetNumber = errors.New("scoring: duplicate set number")

	// ErrInconsistentSetCount indicates more than 5 sets, or 5 completed
	// sets without a 3-set winner. This points at a rule-application bug
	// upstream and requires a resync, never a silent retry.
	ErrInconsistentSetCount = errors.New("scoring: inconsistent set count")

	// ErrReversalUnderflow is returned when deleting or editing a play
	// would drive a score negative. The play being reversed is not the
	// most recent scoring event and naive reversal is unsafe.
	ErrReversalUnderflow = errors.New("scoring: reversal would underflow score")
)
