package game

import (
	"github.com/eamf/volleyball-stats-app-sub000/internal/scoring"
	"github.com/eamf/volleyball-stats-app-sub000/internal/volley"
)

// GameStore defines the interface for game, set and play persistence. It is
// the durable side of the recording session: the scoring engine emits
// persistence intents and ApplyIntents executes them in one transaction.
type GameStore interface {
	CreateGame(game volley.Game) error
	GetGame(gameID string) (*volley.Game, error)
	GetAllGames() ([]volley.Game, error)
	DeleteGame(gameID string) error

	GetSets(gameID string) ([]volley.Set, error)
	GetPlay(playID string) (*volley.Play, error)
	GetPlays(setID string) ([]volley.Play, error)

	UpsertPlayType(playType volley.PlayType) error
	GetPlayType(playTypeID string) (*volley.PlayType, error)
	GetPlayTypes() ([]volley.PlayType, error)

	ApplyIntents(gameID string, intents []scoring.Intent) error

	BoxScore(gameID string) ([]BoxScoreLine, error)

	Clear()
}
