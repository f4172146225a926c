package game

import (
	"database/sql"
	"sync"

	"github.com/eamf/volleyball-stats-app-sub000/internal/volley"
)

// store handles all database operations for games, sets and plays.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// BoxScoreLine is one player's totals within a single game, derived from the
// recorded plays. Points counts positive score increments credited to the
// player's plays; Errors counts plays with a negative statistical value.
type BoxScoreLine struct {
	PlayerID string          `json:"player_id"`
	Side     volley.TeamSide `json:"side"`
	Points   int             `json:"points"`
	Errors   int             `json:"errors"`
	Plays    int             `json:"plays"`
}
