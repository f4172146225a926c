package recorder

import (
	"sync"

	"github.com/eamf/volleyball-stats-app-sub000/internal/metrics"
	"github.com/eamf/volleyball-stats-app-sub000/internal/pubsub"
	"github.com/eamf/volleyball-stats-app-sub000/internal/scoring"
	"github.com/eamf/volleyball-stats-app-sub000/internal/volley"
)

// Recorder drives live scorekeeping sessions. It keeps one scoring engine
// per in-progress game as a fast in-memory mirror of the stored score; the
// store stays the source of truth, and a session that falls out of sync is
// discarded and rebuilt from storage on the next operation.
type Recorder struct {
	games   Store
	club    ClubStore
	pubsub  pubsub.PubSubClient
	metrics metrics.Metrics

	mu         sync.Mutex
	sessions   map[string]*scoring.Engine
	engineOpts []scoring.Option
}

// PlayRequest carries everything needed to record one play.
type PlayRequest struct {
	GameID     string          `json:"game_id"`
	PlayTypeID string          `json:"play_type_id"`
	Side       volley.TeamSide `json:"side"`
	PlayerID   *string         `json:"player_id,omitempty"`
	CourtX     *float64        `json:"court_x,omitempty"`
	CourtY     *float64        `json:"court_y,omitempty"`
}

// EditRequest rewrites a recorded play with a new type, side and player.
type EditRequest struct {
	GameID        string          `json:"game_id"`
	PlayID        string          `json:"play_id"`
	NewPlayTypeID string          `json:"new_play_type_id"`
	NewSide       volley.TeamSide `json:"new_side"`
	NewPlayerID   *string         `json:"new_player_id,omitempty"`
}
