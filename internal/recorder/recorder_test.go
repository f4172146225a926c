package recorder_test

import (
	"errors"
	"testing"
	"time"

	"github.com/eamf/volleyball-stats-app-sub000/internal/club"
	"github.com/eamf/volleyball-stats-app-sub000/internal/game"
	"github.com/eamf/volleyball-stats-app-sub000/internal/metrics"
	"github.com/eamf/volleyball-stats-app-sub000/internal/pubsub"
	"github.com/eamf/volleyball-stats-app-sub000/internal/recorder"
	"github.com/eamf/volleyball-stats-app-sub000/internal/scoring"
	"github.com/eamf/volleyball-stats-app-sub000/internal/volley"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var killPlay = volley.PlayType{
	ID:                    "kill",
	Category:              volley.CategoryAttack,
	Label:                 "Kill",
	DefaultValue:          1,
	DefaultScoreIncrement: 1,
	IsPositive:            true,
}

type fixture struct {
	games    *game.Mock
	club     *club.Mock
	metrics  *metrics.Mock
	pubsub   *pubsub.MockPubSubClient
	recorder *recorder.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		games:   game.NewMock(),
		club:    club.NewMock(),
		metrics: metrics.NewMock(),
		pubsub:  pubsub.NewMock("test-project"),
	}
	ids := 0
	f.recorder = recorder.New(f.games, f.club, f.metrics, f.pubsub,
		scoring.WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
		scoring.WithIDGenerator(func() string {
			ids++
			return string(rune('a' + ids - 1))
		}),
	)
	f.games.GetPlayTypeFunc = func(playTypeID string) (*volley.PlayType, error) {
		if playTypeID == killPlay.ID {
			pt := killPlay
			return &pt, nil
		}
		return nil, errors.New("play type not found")
	}
	return f
}

func (f *fixture) withGame(g volley.Game, sets []volley.Set) {
	f.games.GetGameFunc = func(gameID string) (*volley.Game, error) {
		if gameID != g.ID {
			return nil, errors.New("game not found")
		}
		copied := g
		return &copied, nil
	}
	f.games.GetSetsFunc = func(gameID string) ([]volley.Set, error) {
		return sets, nil
	}
}

func TestStartGame(t *testing.T) {
	f := newFixture(t)
	f.withGame(volley.Game{ID: "g1", Status: volley.GameStatusScheduled}, nil)

	res, err := f.recorder.StartGame("g1")
	require.NoError(t, err)

	assert.Equal(t, volley.GameStatusInProgress, res.GameStatus)
	require.NotNil(t, res.CurrentSet)
	assert.Equal(t, 1, res.CurrentSet.Number)
	require.Len(t, f.games.ApplyIntentsCalls, 1)
	assert.Equal(t, "g1", f.games.ApplyIntentsCalls[0].GameID)
}

func TestStartGame_NotFound(t *testing.T) {
	f := newFixture(t)
	f.games.GetGameFunc = func(gameID string) (*volley.Game, error) {
		return nil, errors.New("game 'nope' not found")
	}

	_, err := f.recorder.StartGame("nope")
	require.Error(t, err)
	assert.Empty(t, f.games.ApplyIntentsCalls)
}

func TestRecordPlay(t *testing.T) {
	f := newFixture(t)
	f.withGame(volley.Game{ID: "g1", Status: volley.GameStatusInProgress}, []volley.Set{
		{ID: "s1", GameID: "g1", Number: 1, HomeScore: 10, AwayScore: 8},
	})

	res, err := f.recorder.RecordPlay(recorder.PlayRequest{
		GameID:     "g1",
		PlayTypeID: "kill",
		Side:       volley.SideHome,
	})
	require.NoError(t, err)

	require.NotNil(t, res.CurrentSet)
	assert.Equal(t, 11, res.CurrentSet.HomeScore)
	assert.Equal(t, 8, res.CurrentSet.AwayScore)
	assert.Equal(t, 1, f.metrics.PlaysRecorded())
	require.Len(t, f.games.ApplyIntentsCalls, 1)
}

func TestRecordPlay_UnknownType(t *testing.T) {
	f := newFixture(t)
	f.withGame(volley.Game{ID: "g1", Status: volley.GameStatusInProgress}, []volley.Set{
		{ID: "s1", GameID: "g1", Number: 1},
	})

	_, err := f.recorder.RecordPlay(recorder.PlayRequest{
		GameID:     "g1",
		PlayTypeID: "does-not-exist",
		Side:       volley.SideHome,
	})
	require.Error(t, err)
	assert.Empty(t, f.games.ApplyIntentsCalls)
	assert.Equal(t, 0, f.metrics.PlaysRecorded())
}

func TestRecordPlay_CompletesGame(t *testing.T) {
	f := newFixture(t)
	done := int64(1699999000)
	f.withGame(volley.Game{ID: "g1", Status: volley.GameStatusInProgress, HomeSetsWon: 2}, []volley.Set{
		{ID: "s1", GameID: "g1", Number: 1, HomeScore: 25, AwayScore: 20, IsCompleted: true, CompletedAt: &done},
		{ID: "s2", GameID: "g1", Number: 2, HomeScore: 25, AwayScore: 18, IsCompleted: true, CompletedAt: &done},
		{ID: "s3", GameID: "g1", Number: 3, HomeScore: 24, AwayScore: 20},
	})

	res, err := f.recorder.RecordPlay(recorder.PlayRequest{
		GameID:     "g1",
		PlayTypeID: "kill",
		Side:       volley.SideHome,
	})
	require.NoError(t, err)

	assert.True(t, res.SetCompleted)
	assert.True(t, res.GameCompleted)
	assert.Equal(t, volley.GameStatusCompleted, res.GameStatus)
	assert.Equal(t, 1, f.metrics.SetsCompleted())
	assert.Equal(t, 1, f.metrics.GamesCompleted())

	// Completion publishes the stats update and the result notification.
	require.Len(t, f.pubsub.SendMessageCalls, 2)
	assert.Equal(t, "update-player-stats", f.pubsub.SendMessageCalls[0].Topic)
	assert.Equal(t, "notify-result", f.pubsub.SendMessageCalls[1].Topic)
	event, ok := f.pubsub.SendMessageCalls[0].Data.(pubsub.GameCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, "g1", event.GameID)
}

func TestDeletePlay(t *testing.T) {
	f := newFixture(t)
	f.withGame(volley.Game{ID: "g1", Status: volley.GameStatusInProgress}, []volley.Set{
		{ID: "s1", GameID: "g1", Number: 1, HomeScore: 11, AwayScore: 8},
	})
	f.games.GetPlayFunc = func(playID string) (*volley.Play, error) {
		return &volley.Play{
			ID:             playID,
			GameID:         "g1",
			SetID:          "s1",
			PlayTypeID:     "kill",
			Side:           volley.SideHome,
			Value:          1,
			ScoreIncrement: 1,
		}, nil
	}

	res, err := f.recorder.DeletePlay("g1", "p1")
	require.NoError(t, err)

	require.NotNil(t, res.CurrentSet)
	assert.Equal(t, 10, res.CurrentSet.HomeScore)
	require.Len(t, f.games.ApplyIntentsCalls, 1)
}

func TestCommitFailure_DropsSession(t *testing.T) {
	f := newFixture(t)
	gameLoads := 0
	f.games.GetGameFunc = func(gameID string) (*volley.Game, error) {
		gameLoads++
		return &volley.Game{ID: "g1", Status: volley.GameStatusInProgress}, nil
	}
	f.games.GetSetsFunc = func(gameID string) ([]volley.Set, error) {
		return []volley.Set{{ID: "s1", GameID: "g1", Number: 1, HomeScore: 5, AwayScore: 5}}, nil
	}

	applyErr := errors.New("disk full")
	f.games.ApplyIntentsFunc = func(gameID string, intents []scoring.Intent) error {
		return applyErr
	}

	_, err := f.recorder.RecordPlay(recorder.PlayRequest{GameID: "g1", PlayTypeID: "kill", Side: volley.SideHome})
	require.ErrorIs(t, err, applyErr)
	assert.Equal(t, 1, f.metrics.SessionResyncs())
	assert.Equal(t, 1, gameLoads)

	// The next operation rebuilds the session from storage.
	f.games.ApplyIntentsFunc = nil
	res, err := f.recorder.RecordPlay(recorder.PlayRequest{GameID: "g1", PlayTypeID: "kill", Side: volley.SideHome})
	require.NoError(t, err)
	assert.Equal(t, 2, gameLoads)
	assert.Equal(t, 6, res.CurrentSet.HomeScore)
}

func TestAdjustScore(t *testing.T) {
	f := newFixture(t)
	f.withGame(volley.Game{ID: "g1", Status: volley.GameStatusInProgress}, []volley.Set{
		{ID: "s1", GameID: "g1", Number: 1, HomeScore: 10, AwayScore: 8},
	})

	res, err := f.recorder.AdjustScore("g1", volley.SideAway, -1)
	require.NoError(t, err)
	assert.Equal(t, 7, res.CurrentSet.AwayScore)

	_, err = f.recorder.AdjustScore("g1", volley.SideAway, -8)
	require.ErrorIs(t, err, scoring.ErrNegativeScore)
}

func TestCompleteGameManually(t *testing.T) {
	f := newFixture(t)
	f.withGame(volley.Game{ID: "g1", Status: volley.GameStatusInProgress}, []volley.Set{
		{ID: "s1", GameID: "g1", Number: 1, HomeScore: 20, AwayScore: 15},
	})

	res, err := f.recorder.CompleteGame("g1", 3, 1)
	require.NoError(t, err)
	assert.True(t, res.GameCompleted)
	assert.Equal(t, 1, f.metrics.GamesCompleted())
	require.Len(t, f.pubsub.SendMessageCalls, 2)
}

func TestCancelGame(t *testing.T) {
	f := newFixture(t)
	f.withGame(volley.Game{ID: "g1", Status: volley.GameStatusInProgress}, []volley.Set{
		{ID: "s1", GameID: "g1", Number: 1, HomeScore: 3, AwayScore: 4},
	})

	res, err := f.recorder.CancelGame("g1")
	require.NoError(t, err)
	assert.Equal(t, volley.GameStatusCancelled, res.GameStatus)
	assert.Empty(t, f.pubsub.SendMessageCalls, "cancellation should not publish completion events")
}

func TestUpdatePlayerStats(t *testing.T) {
	f := newFixture(t)
	completedAt := int64(1700000500)
	f.withGame(volley.Game{
		ID:          "g1",
		Status:      volley.GameStatusCompleted,
		HomeSetsWon: 3,
		AwaySetsWon: 1,
		CompletedAt: &completedAt,
	}, nil)
	f.games.BoxScoreFunc = func(gameID string) ([]game.BoxScoreLine, error) {
		return []game.BoxScoreLine{
			{PlayerID: "p-home", Side: volley.SideHome, Points: 14, Errors: 2, Plays: 30},
			{PlayerID: "p-away", Side: volley.SideAway, Points: 9, Errors: 5, Plays: 28},
		}, nil
	}

	require.NoError(t, f.recorder.UpdatePlayerStats("g1"))

	require.Len(t, f.club.UpdatePlayerStatsCalls, 1)
	lines := f.club.UpdatePlayerStatsCalls[0]
	require.Len(t, lines, 2)

	assert.Equal(t, "p-home", lines[0].PlayerID)
	assert.True(t, lines[0].Won)
	assert.Equal(t, 3, lines[0].SetsWon)
	assert.Equal(t, 1, lines[0].SetsLost)
	assert.Equal(t, 14, lines[0].PointsScored)
	assert.Equal(t, 2, lines[0].ErrorsCommitted)

	assert.Equal(t, "p-away", lines[1].PlayerID)
	assert.False(t, lines[1].Won)
	assert.Equal(t, 1, lines[1].SetsWon)
	assert.Equal(t, 3, lines[1].SetsLost)
}

func TestUpdatePlayerStats_NotCompleted(t *testing.T) {
	f := newFixture(t)
	f.withGame(volley.Game{ID: "g1", Status: volley.GameStatusInProgress}, nil)

	err := f.recorder.UpdatePlayerStats("g1")
	require.Error(t, err)
	assert.Empty(t, f.club.UpdatePlayerStatsCalls)
}

func TestUpdatePlayerStats_NoAttributedPlays(t *testing.T) {
	f := newFixture(t)
	completedAt := int64(1700000500)
	f.withGame(volley.Game{ID: "g1", Status: volley.GameStatusCompleted, HomeSetsWon: 3, CompletedAt: &completedAt}, nil)

	require.NoError(t, f.recorder.UpdatePlayerStats("g1"))
	assert.Empty(t, f.club.UpdatePlayerStatsCalls)
}

func TestGameResult(t *testing.T) {
	f := newFixture(t)
	completedAt := int64(1700000500)
	done := int64(1700000100)
	f.withGame(volley.Game{
		ID:          "g1",
		HomeTeamID:  "t-home",
		AwayTeamID:  "t-away",
		Status:      volley.GameStatusCompleted,
		HomeSetsWon: 3,
		AwaySetsWon: 0,
		CompletedAt: &completedAt,
	}, []volley.Set{
		{ID: "s1", GameID: "g1", Number: 1, HomeScore: 25, AwayScore: 20, IsCompleted: true, CompletedAt: &done},
		{ID: "s2", GameID: "g1", Number: 2, HomeScore: 25, AwayScore: 23, IsCompleted: true, CompletedAt: &done},
		{ID: "s3", GameID: "g1", Number: 3, HomeScore: 26, AwayScore: 24, IsCompleted: true, CompletedAt: &done},
		{ID: "s4", GameID: "g1", Number: 4, HomeScore: 1, AwayScore: 0},
	})
	f.club.GetTeamFunc = func(teamID string) (*club.TeamInfo, error) {
		names := map[string]string{"t-home": "Eagles", "t-away": "Sharks"}
		if name, ok := names[teamID]; ok {
			return &club.TeamInfo{ID: teamID, Name: name}, nil
		}
		return nil, errors.New("team not found")
	}

	result, err := f.recorder.GameResult("g1")
	require.NoError(t, err)

	assert.Equal(t, "Eagles", result.HomeTeamName)
	assert.Equal(t, "Sharks", result.AwayTeamName)
	assert.Equal(t, "Eagles", result.Winner())
	assert.Equal(t, completedAt, result.CompletedAt)
	require.Len(t, result.Sets, 3, "incomplete sets are excluded from the summary")
	assert.Equal(t, 26, result.Sets[2].HomeScore)
}
