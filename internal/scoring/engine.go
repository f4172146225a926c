package scoring

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eamf/volleyball-stats-app-sub000/internal/volley"
)

// Engine owns the live score state for one recording session and evaluates
// the set/game completion rules. Every operation is a synchronous, pure
// state transition: it either succeeds with a new state and a list of
// persistence intents, or fails with a typed error and leaves the state
// untouched. The engine performs no I/O.
type Engine struct {
	state State
	now   func() time.Time
	newID func() string
}

// New creates an Engine from an already-built state.
func New(state State, opts ...Option) *Engine {
	e := &Engine{
		state: state,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewFromSets builds an Engine from the game and sets loaded from storage.
// It fails with ErrInconsistentSetCount when more than one incomplete set
// exists or more than five sets are present, since that means the durable
// state itself violates the model and a human has to look at it.
func NewFromSets(game volley.Game, sets []volley.Set, opts ...Option) (*Engine, error) {
	if len(sets) > MaxSets {
		return nil, fmt.Errorf("game %s has %d sets: %w", game.ID, len(sets), ErrInconsistentSetCount)
	}
	state := State{
		GameID:     game.ID,
		GameStatus: game.Status,
	}
	seen := make(map[int]bool, len(sets))
	for _, set := range sets {
		if seen[set.Number] {
			return nil, fmt.Errorf("game %s set %d: %w", game.ID, set.Number, ErrDuplicateSetNumber)
		}
		seen[set.Number] = true
		ss := SetState{
			ID:          set.ID,
			Number:      set.Number,
			HomeScore:   set.HomeScore,
			AwayScore:   set.AwayScore,
			Completed:   set.IsCompleted,
			CompletedAt: set.CompletedAt,
		}
		if set.IsCompleted {
			state.CompletedSets = append(state.CompletedSets, ss)
		} else {
			if state.CurrentSet != nil {
				return nil, fmt.Errorf("game %s has multiple open sets: %w", game.ID, ErrInconsistentSetCount)
			}
			current := ss
			state.CurrentSet = &current
		}
	}
	return New(state, opts...), nil
}

// State returns a copy of the engine's current state.
func (e *Engine) State() State {
	return copyState(e.state)
}

// Start transitions the game to in-progress and, when no set is open yet,
// opens the next one (set 1 when the game has no sets at all).
func (e *Engine) Start() (Result, error) {
	if e.state.GameStatus == volley.GameStatusCompleted || e.state.GameStatus == volley.GameStatusCancelled {
		return Result{}, fmt.Errorf("game %s is %s: %w", e.state.GameID, e.state.GameStatus, ErrNoActiveSet)
	}

	next := copyState(e.state)
	next.GameStatus = volley.GameStatusInProgress
	res := Result{}

	if next.CurrentSet == nil {
		number := maxSetNumber(next) + 1
		if number > MaxSets {
			return Result{}, fmt.Errorf("game %s already holds %d sets: %w", e.state.GameID, MaxSets, ErrInconsistentSetCount)
		}
		next.CurrentSet = &SetState{
			ID:     e.newID(),
			Number: number,
		}
		res.Intents = append(res.Intents, Intent{Kind: IntentUpsertSet, Set: e.setRecord(next, *next.CurrentSet)})
	}

	home, away := next.SetsWon()
	res.Intents = append(res.Intents, Intent{Kind: IntentUpdateGame, Game: &GameUpdate{
		Status:      next.GameStatus,
		HomeSetsWon: home,
		AwaySetsWon: away,
	}})

	e.state = next
	e.fillResult(&res)
	return res, nil
}

// ApplyScoreDelta adjusts the named side's score in the current set and then
// re-evaluates the set-completion rule. A delta that would take the score
// below zero is rejected with ErrNegativeScore and nothing changes.
func (e *Engine) ApplyScoreDelta(side volley.TeamSide, delta int) (Result, error) {
	if e.state.CurrentSet == nil {
		return Result{}, ErrNoActiveSet
	}

	next := copyState(e.state)
	if err := addPoints(next.CurrentSet, side, delta, ErrNegativeScore); err != nil {
		return Result{}, err
	}

	res := Result{Intents: []Intent{}}
	if err := e.settleScoreChange(&next, &res); err != nil {
		return Result{}, err
	}

	e.state = next
	e.fillResult(&res)
	return res, nil
}

// IncrementScore is the manual override for a single point up or down. It
// goes through the exact same transition as play-driven score changes.
func (e *Engine) IncrementScore(side volley.TeamSide, delta int) (Result, error) {
	return e.ApplyScoreDelta(side, delta)
}

// RecordPlay builds a play record from the catalog defaults and applies its
// score effect. A negative increment for a side is a point for the opponent,
// never a negative score for the side itself.
func (e *Engine) RecordPlay(playType volley.PlayType, side volley.TeamSide, playerID *string, courtX, courtY *float64) (Result, error) {
	if e.state.CurrentSet == nil {
		return Result{}, ErrNoActiveSet
	}

	next := copyState(e.state)
	play := &volley.Play{
		ID:             e.newID(),
		GameID:         next.GameID,
		SetID:          next.CurrentSet.ID,
		PlayerID:       playerID,
		PlayTypeID:     playType.ID,
		Side:           side,
		CourtX:         courtX,
		CourtY:         courtY,
		Value:          playType.DefaultValue,
		ScoreIncrement: playType.DefaultScoreIncrement,
		CreatedAt:      e.now().Unix(),
	}

	if err := applyIncrement(next.CurrentSet, side, play.ScoreIncrement, ErrNegativeScore); err != nil {
		return Result{}, err
	}

	res := Result{Play: play, Intents: []Intent{{Kind: IntentInsertPlay, Play: play}}}
	if err := e.settleScoreChange(&next, &res); err != nil {
		return Result{}, err
	}

	e.state = next
	e.fillResult(&res)
	return res, nil
}

// DeletePlay reverses exactly the score effect the play applied when it was
// recorded, computed from the side stored on the play itself. A reversal
// that would drive a score negative is refused with ErrReversalUnderflow;
// it means the play is not the most recent scoring event for that set.
func (e *Engine) DeletePlay(play volley.Play) (Result, error) {
	if e.state.CurrentSet == nil || play.SetID != e.state.CurrentSet.ID {
		return Result{}, ErrNoActiveSet
	}

	next := copyState(e.state)
	if err := reverseIncrement(next.CurrentSet, play.Side, play.ScoreIncrement); err != nil {
		return Result{}, err
	}

	res := Result{
		Intents: []Intent{
			{Kind: IntentDeletePlay, PlayID: play.ID},
			{Kind: IntentUpsertSet, Set: e.setRecord(next, *next.CurrentSet)},
		},
	}

	e.state = next
	e.fillResult(&res)
	return res, nil
}

// EditPlay rewrites a recorded play with a new type, side and player. The
// net score effect is "undo the old play, apply the new one", both routed
// through the same delta primitive as every other score change.
func (e *Engine) EditPlay(play volley.Play, newType volley.PlayType, newSide volley.TeamSide, newPlayerID *string) (Result, error) {
	if e.state.CurrentSet == nil || play.SetID != e.state.CurrentSet.ID {
		return Result{}, ErrNoActiveSet
	}

	next := copyState(e.state)
	if err := reverseIncrement(next.CurrentSet, play.Side, play.ScoreIncrement); err != nil {
		return Result{}, err
	}
	if err := applyIncrement(next.CurrentSet, newSide, newType.DefaultScoreIncrement, ErrReversalUnderflow); err != nil {
		return Result{}, err
	}

	updated := play
	updated.PlayTypeID = newType.ID
	updated.Side = newSide
	updated.PlayerID = newPlayerID
	updated.Value = newType.DefaultValue
	updated.ScoreIncrement = newType.DefaultScoreIncrement

	res := Result{Play: &updated, Intents: []Intent{{Kind: IntentUpdatePlay, Play: &updated}}}
	if err := e.settleScoreChange(&next, &res); err != nil {
		return Result{}, err
	}

	e.state = next
	e.fillResult(&res)
	return res, nil
}

// CompleteSetManually ends the current set regardless of the win condition,
// running the same completion cascade as a rule-driven set end.
func (e *Engine) CompleteSetManually() (Result, error) {
	if e.state.CurrentSet == nil {
		return Result{}, ErrNoActiveSet
	}

	next := copyState(e.state)
	res := Result{Intents: []Intent{}}
	if err := e.completeCurrentSet(&next, &res); err != nil {
		return Result{}, err
	}

	e.state = next
	e.fillResult(&res)
	return res, nil
}

// CompleteGameManually ends the game early with an explicit sets-won tally.
func (e *Engine) CompleteGameManually(homeWins, awayWins int) (Result, error) {
	if homeWins+awayWins > MaxSets {
		return Result{}, fmt.Errorf("%d sets won in total: %w", homeWins+awayWins, ErrInconsistentSetCount)
	}

	next := copyState(e.state)
	next.GameStatus = volley.GameStatusCompleted
	next.CurrentSet = nil
	completedAt := e.now().Unix()

	res := Result{
		GameCompleted: true,
		Intents: []Intent{{Kind: IntentUpdateGame, Game: &GameUpdate{
			Status:      volley.GameStatusCompleted,
			HomeSetsWon: homeWins,
			AwaySetsWon: awayWins,
			CompletedAt: &completedAt,
		}}},
	}

	e.state = next
	e.fillResult(&res)
	return res, nil
}

// CancelGame marks the game cancelled and closes the session.
func (e *Engine) CancelGame() (Result, error) {
	next := copyState(e.state)
	next.GameStatus = volley.GameStatusCancelled
	next.CurrentSet = nil
	home, away := next.SetsWon()

	res := Result{
		Intents: []Intent{{Kind: IntentUpdateGame, Game: &GameUpdate{
			Status:      volley.GameStatusCancelled,
			HomeSetsWon: home,
			AwaySetsWon: away,
		}}},
	}

	e.state = next
	e.fillResult(&res)
	return res, nil
}

// IsSetComplete evaluates the win condition for a set: reach the target (25,
// or 15 in a deciding 5th set) with a lead of at least two. There is no
// upper bound; play continues past the target until the two-point lead.
func IsSetComplete(homeScore, awayScore, setNumber int) bool {
	target := SetTarget
	if setNumber == MaxSets {
		target = FinalSetTarget
	}
	leader, other := homeScore, awayScore
	if awayScore > homeScore {
		leader, other = awayScore, homeScore
	}
	return leader >= target && leader-other >= 2
}

// settleScoreChange runs after every score mutation: it writes the current
// set intent and, when the win condition is now met, the completion cascade.
func (e *Engine) settleScoreChange(next *State, res *Result) error {
	if !IsSetComplete(next.CurrentSet.HomeScore, next.CurrentSet.AwayScore, next.CurrentSet.Number) {
		res.Intents = append(res.Intents, Intent{Kind: IntentUpsertSet, Set: e.setRecord(*next, *next.CurrentSet)})
		return nil
	}
	return e.completeCurrentSet(next, res)
}

// completeCurrentSet marks the open set completed, recomputes the sets-won
// tally and either finishes the game (3 wins) or opens the next set.
func (e *Engine) completeCurrentSet(next *State, res *Result) error {
	finished := *next.CurrentSet
	finished.Completed = true
	completedAt := e.now().Unix()
	finished.CompletedAt = &completedAt

	next.CompletedSets = append(next.CompletedSets, finished)
	next.CurrentSet = nil
	res.SetCompleted = true
	res.CompletedSets = append(res.CompletedSets, finished)
	res.Intents = append(res.Intents, Intent{Kind: IntentUpsertSet, Set: e.setRecord(*next, finished)})

	home, away := next.SetsWon()
	update := &GameUpdate{
		Status:      next.GameStatus,
		HomeSetsWon: home,
		AwaySetsWon: away,
	}

	switch {
	case home >= SetsToWinGame || away >= SetsToWinGame:
		next.GameStatus = volley.GameStatusCompleted
		gameDone := e.now().Unix()
		update.Status = volley.GameStatusCompleted
		update.CompletedAt = &gameDone
		res.GameCompleted = true

	case len(next.CompletedSets) < MaxSets:
		number := maxSetNumber(*next) + 1
		for _, set := range next.CompletedSets {
			if set.Number == number {
				return fmt.Errorf("set %d already exists for game %s: %w", number, next.GameID, ErrDuplicateSetNumber)
			}
		}
		next.CurrentSet = &SetState{
			ID:     e.newID(),
			Number: number,
		}
		res.Intents = append(res.Intents, Intent{Kind: IntentUpsertSet, Set: e.setRecord(*next, *next.CurrentSet)})

	default:
		// Five sets down and nobody has three wins. The rule above makes
		// this unreachable, but a corrupted store could still produce it.
		return fmt.Errorf("game %s: 5 sets completed without a winner: %w", next.GameID, ErrInconsistentSetCount)
	}

	res.Intents = append(res.Intents, Intent{Kind: IntentUpdateGame, Game: update})
	return nil
}

// fillResult copies the post-transition view into the result.
func (e *Engine) fillResult(res *Result) {
	if e.state.CurrentSet != nil {
		current := *e.state.CurrentSet
		res.CurrentSet = &current
	}
	res.GameStatus = e.state.GameStatus
}

// setRecord converts an engine set into the store's set row.
func (e *Engine) setRecord(state State, set SetState) *volley.Set {
	return &volley.Set{
		ID:          set.ID,
		GameID:      state.GameID,
		Number:      set.Number,
		HomeScore:   set.HomeScore,
		AwayScore:   set.AwayScore,
		IsCompleted: set.Completed,
		CompletedAt: set.CompletedAt,
	}
}

// addPoints applies a raw delta to one side, rejecting negative results.
func addPoints(set *SetState, side volley.TeamSide, delta int, underflowErr error) error {
	if set.Score(side)+delta < 0 {
		return underflowErr
	}
	if side == volley.SideHome {
		set.HomeScore += delta
	} else {
		set.AwayScore += delta
	}
	return nil
}

// applyIncrement applies a play's score increment: positive credits the
// play's own side, negative credits the opponent, zero is stats-only.
func applyIncrement(set *SetState, side volley.TeamSide, increment int, underflowErr error) error {
	switch {
	case increment > 0:
		return addPoints(set, side, increment, underflowErr)
	case increment < 0:
		return addPoints(set, side.Opponent(), -increment, underflowErr)
	}
	return nil
}

// reverseIncrement undoes exactly what applyIncrement did for a stored play.
func reverseIncrement(set *SetState, side volley.TeamSide, increment int) error {
	switch {
	case increment > 0:
		return addPoints(set, side, -increment, ErrReversalUnderflow)
	case increment < 0:
		return addPoints(set, side.Opponent(), increment, ErrReversalUnderflow)
	}
	return nil
}

func maxSetNumber(state State) int {
	max := 0
	for _, set := range state.CompletedSets {
		if set.Number > max {
			max = set.Number
		}
	}
	if state.CurrentSet != nil && state.CurrentSet.Number > max {
		max = state.CurrentSet.Number
	}
	return max
}

func copyState(state State) State {
	next := state
	if state.CurrentSet != nil {
		current := *state.CurrentSet
		next.CurrentSet = &current
	}
	next.CompletedSets = make([]SetState, len(state.CompletedSets))
	copy(next.CompletedSets, state.CompletedSets)
	return next
}
