package game

import (
	"sync"

	"github.com/eamf/volleyball-stats-app-sub000/internal/scoring"
	"github.com/eamf/volleyball-stats-app-sub000/internal/volley"
)

// ApplyIntentsCall holds the arguments for a call to ApplyIntents.
type ApplyIntentsCall struct {
	GameID  string
	Intents []scoring.Intent
}

// Mock is a mock implementation of the GameStore interface for testing.
type Mock struct {
	mu sync.Mutex

	CreateGameFunc     func(game volley.Game) error
	GetGameFunc        func(gameID string) (*volley.Game, error)
	GetAllGamesFunc    func() ([]volley.Game, error)
	DeleteGameFunc     func(gameID string) error
	GetSetsFunc        func(gameID string) ([]volley.Set, error)
	GetPlayFunc        func(playID string) (*volley.Play, error)
	GetPlaysFunc       func(setID string) ([]volley.Play, error)
	UpsertPlayTypeFunc func(playType volley.PlayType) error
	GetPlayTypeFunc    func(playTypeID string) (*volley.PlayType, error)
	GetPlayTypesFunc   func() ([]volley.PlayType, error)
	ApplyIntentsFunc   func(gameID string, intents []scoring.Intent) error
	BoxScoreFunc       func(gameID string) ([]BoxScoreLine, error)

	ApplyIntentsCalls []ApplyIntentsCall
	DeleteGameCalls   []string
	ClearCalls        int
}

var _ GameStore = (*Mock)(nil)

// NewMock creates a new mock GameStore.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) CreateGame(game volley.Game) error {
	if m.CreateGameFunc != nil {
		return m.CreateGameFunc(game)
	}
	return nil
}

func (m *Mock) GetGame(gameID string) (*volley.Game, error) {
	if m.GetGameFunc != nil {
		return m.GetGameFunc(gameID)
	}
	return nil, nil
}

func (m *Mock) GetAllGames() ([]volley.Game, error) {
	if m.GetAllGamesFunc != nil {
		return m.GetAllGamesFunc()
	}
	return nil, nil
}

func (m *Mock) DeleteGame(gameID string) error {
	m.mu.Lock()
	m.DeleteGameCalls = append(m.DeleteGameCalls, gameID)
	m.mu.Unlock()
	if m.DeleteGameFunc != nil {
		return m.DeleteGameFunc(gameID)
	}
	return nil
}

func (m *Mock) GetSets(gameID string) ([]volley.Set, error) {
	if m.GetSetsFunc != nil {
		return m.GetSetsFunc(gameID)
	}
	return nil, nil
}

func (m *Mock) GetPlay(playID string) (*volley.Play, error) {
	if m.GetPlayFunc != nil {
		return m.GetPlayFunc(playID)
	}
	return nil, nil
}

func (m *Mock) GetPlays(setID string) ([]volley.Play, error) {
	if m.GetPlaysFunc != nil {
		return m.GetPlaysFunc(setID)
	}
	return nil, nil
}

func (m *Mock) UpsertPlayType(playType volley.PlayType) error {
	if m.UpsertPlayTypeFunc != nil {
		return m.UpsertPlayTypeFunc(playType)
	}
	return nil
}

func (m *Mock) GetPlayType(playTypeID string) (*volley.PlayType, error) {
	if m.GetPlayTypeFunc != nil {
		return m.GetPlayTypeFunc(playTypeID)
	}
	return nil, nil
}

func (m *Mock) GetPlayTypes() ([]volley.PlayType, error) {
	if m.GetPlayTypesFunc != nil {
		return m.GetPlayTypesFunc()
	}
	return nil, nil
}

func (m *Mock) ApplyIntents(gameID string, intents []scoring.Intent) error {
	m.mu.Lock()
	m.ApplyIntentsCalls = append(m.ApplyIntentsCalls, ApplyIntentsCall{GameID: gameID, Intents: intents})
	m.mu.Unlock()
	if m.ApplyIntentsFunc != nil {
		return m.ApplyIntentsFunc(gameID, intents)
	}
	return nil
}

func (m *Mock) BoxScore(gameID string) ([]BoxScoreLine, error) {
	if m.BoxScoreFunc != nil {
		return m.BoxScoreFunc(gameID)
	}
	return nil, nil
}

func (m *Mock) Clear() {
	m.mu.Lock()
	m.ClearCalls++
	m.mu.Unlock()
}
