package recorder

import (
	"github.com/eamf/volleyball-stats-app-sub000/internal/club"
	"github.com/eamf/volleyball-stats-app-sub000/internal/game"
	"github.com/eamf/volleyball-stats-app-sub000/internal/scoring"
	"github.com/eamf/volleyball-stats-app-sub000/internal/volley"
)

// Store defines the game persistence operations required by the recorder.
type Store interface {
	GetGame(gameID string) (*volley.Game, error)
	GetSets(gameID string) ([]volley.Set, error)
	GetPlay(playID string) (*volley.Play, error)
	GetPlayType(playTypeID string) (*volley.PlayType, error)
	ApplyIntents(gameID string, intents []scoring.Intent) error
	BoxScore(gameID string) ([]game.BoxScoreLine, error)
}

// ClubStore defines the club data operations required by the recorder.
type ClubStore interface {
	GetTeam(teamID string) (*club.TeamInfo, error)
	UpdatePlayerStats(lines []club.PlayerGameLine) error
}
