package scoring

import (
	"time"

	"github.com/eamf/volleyball-stats-app-sub000/internal/volley"
)

const (
	// SetTarget is the points needed to win sets 1-4.
	SetTarget = 25
	// FinalSetTarget is the points needed to win a deciding 5th set.
	FinalSetTarget = 15
	// SetsToWinGame is the completed-set wins needed to take the game.
	SetsToWinGame = 3
	// MaxSets is the most sets a game can hold.
	MaxSets = 5
)

// SetState is the engine's view of one set.
type SetState struct {
	ID          string `json:"id"`
	Number      int    `json:"number"`
	HomeScore   int    `json:"home_score"`
	AwayScore   int    `json:"away_score"`
	Completed   bool   `json:"completed"`
	CompletedAt *int64 `json:"completed_at,omitempty"`
}

// Score returns the score for the given side.
func (s SetState) Score(side volley.TeamSide) int {
	if side == volley.SideHome {
		return s.HomeScore
	}
	return s.AwayScore
}

// Winner reports which side took a completed set.
func (s SetState) Winner() volley.TeamSide {
	if s.HomeScore > s.AwayScore {
		return volley.SideHome
	}
	return volley.SideAway
}

// State is the authoritative in-memory view of one recording session.
// The engine transforms it via pure operations; the store stays the durable
// source of truth and is always the last writer.
type State struct {
	GameID        string            `json:"game_id"`
	GameStatus    volley.GameStatus `json:"game_status"`
	CurrentSet    *SetState         `json:"current_set,omitempty"`
	CompletedSets []SetState        `json:"completed_sets"`
}

// SetsWon recomputes each side's set-win tally from the completed sets.
func (s State) SetsWon() (home, away int) {
	for _, set := range s.CompletedSets {
		if set.Winner() == volley.SideHome {
			home++
		} else {
			away++
		}
	}
	return home, away
}

// IntentKind discriminates persistence intents.
type IntentKind string

const (
	IntentUpsertSet  IntentKind = "UPSERT_SET"
	IntentInsertPlay IntentKind = "INSERT_PLAY"
	IntentUpdatePlay IntentKind = "UPDATE_PLAY"
	IntentDeletePlay IntentKind = "DELETE_PLAY"
	IntentUpdateGame IntentKind = "UPDATE_GAME"
)

// GameUpdate carries the game-level fields an intent asks the store to write.
type GameUpdate struct {
	Status      volley.GameStatus `json:"status"`
	HomeSetsWon int               `json:"home_sets_won"`
	AwaySetsWon int               `json:"away_sets_won"`
	CompletedAt *int64            `json:"completed_at,omitempty"`
}

// Intent is one persistence side effect the caller must apply and confirm.
// The engine never talks to the store itself.
type Intent struct {
	Kind   IntentKind   `json:"kind"`
	Set    *volley.Set  `json:"set,omitempty"`
	Play   *volley.Play `json:"play,omitempty"`
	PlayID string       `json:"play_id,omitempty"`
	Game   *GameUpdate  `json:"game,omitempty"`
}

// Result is what every mutating engine operation hands back to the caller:
// the updated view plus the ordered intents to persist.
type Result struct {
	CurrentSet    *SetState         `json:"current_set,omitempty"`
	CompletedSets []SetState        `json:"completed_sets"`
	GameStatus    volley.GameStatus `json:"game_status"`
	SetCompleted  bool              `json:"set_completed"`
	GameCompleted bool              `json:"game_completed"`
	Play          *volley.Play      `json:"play,omitempty"`
	Intents       []Intent          `json:"intents"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the completion-timestamp clock. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator overrides how new set and play IDs are allocated.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}
