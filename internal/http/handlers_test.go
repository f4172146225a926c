package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/eamf/volleyball-stats-app-sub000/internal/club"
	"github.com/eamf/volleyball-stats-app-sub000/internal/config"
	"github.com/eamf/volleyball-stats-app-sub000/internal/database"
	"github.com/eamf/volleyball-stats-app-sub000/internal/game"
	"github.com/eamf/volleyball-stats-app-sub000/internal/metrics"
	"github.com/eamf/volleyball-stats-app-sub000/internal/notifier"
	"github.com/eamf/volleyball-stats-app-sub000/internal/pubsub"
	"github.com/eamf/volleyball-stats-app-sub000/internal/recorder"
	"github.com/eamf/volleyball-stats-app-sub000/internal/volley"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T, mockNotifier notifier.Notifier) (*Server, *pubsub.MockPubSubClient, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	clubStore := club.New(db)
	gameStore := game.New(db)
	cfg := config.Config{}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	ps := pubsub.NewMock("TEST")
	rec := recorder.New(gameStore, clubStore, metricsSvc, ps)
	server := NewServer(clubStore, gameStore, rec, metricsSvc, metricsHandler, cfg, mockNotifier, ps)

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
		db.Close()
	}
	return server, ps, teardown
}

// seedGameFixture inserts a club, two teams, a roster and a scheduled game.
func seedGameFixture(t *testing.T, server *Server) volley.Game {
	t.Helper()

	now := time.Now().Unix()
	require.NoError(t, server.ClubStore.UpsertClub(club.ClubInfo{ID: "c1", Name: "Riverside Volley", CreatedAt: now}))
	require.NoError(t, server.ClubStore.UpsertTeam(club.TeamInfo{ID: "t-home", ClubID: "c1", Name: "Eagles", CreatedAt: now}))
	require.NoError(t, server.ClubStore.UpsertTeam(club.TeamInfo{ID: "t-away", ClubID: "c1", Name: "Sharks", CreatedAt: now}))

	homeTeam := "t-home"
	awayTeam := "t-away"
	require.NoError(t, server.ClubStore.UpsertPlayer(club.PlayerInfo{ID: "p1", TeamID: &homeTeam, Name: "Ana Ribeiro", CreatedAt: now}))
	require.NoError(t, server.ClubStore.UpsertPlayer(club.PlayerInfo{ID: "p2", TeamID: &awayTeam, Name: "Bruno Costa", CreatedAt: now}))

	require.NoError(t, server.GameStore.UpsertPlayType(volley.PlayType{
		ID: "kill", Category: volley.CategoryAttack, Label: "Kill",
		DefaultValue: 1, DefaultScoreIncrement: 1, IsPositive: true,
	}))
	require.NoError(t, server.GameStore.UpsertPlayType(volley.PlayType{
		ID: "attack-error", Category: volley.CategoryError, Label: "Attack Error",
		DefaultValue: -1, DefaultScoreIncrement: -1,
	}))

	g := volley.Game{
		ID:          "g1",
		HomeTeamID:  "t-home",
		AwayTeamID:  "t-away",
		ScheduledAt: now,
		Status:      volley.GameStatusScheduled,
	}
	require.NoError(t, server.GameStore.CreateGame(g))
	return g
}

func postJSON(t *testing.T, server *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest("POST", path, bytes.NewReader(payload))
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	return rr
}

// pushRequest builds a pub/sub push delivery wrapping a msgpack event.
func pushRequest(t *testing.T, path, gameID string) *http.Request {
	t.Helper()

	raw, err := msgpack.Marshal(pubsub.GameCompletedEvent{GameID: gameID})
	require.NoError(t, err)

	wrapper := map[string]any{
		"subscription": "test-sub",
		"message": map[string]any{
			"data": base64.StdEncoding.EncodeToString(raw),
		},
	}
	body, err := json.Marshal(wrapper)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", path, bytes.NewReader(body))
	require.NoError(t, err)
	return req
}

func TestHealthCheckHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestGamesHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()
	seedGameFixture(t, server)

	t.Run("creates a game", func(t *testing.T) {
		rr := postJSON(t, server, "/games", volley.Game{
			HomeTeamID:  "t-home",
			AwayTeamID:  "t-away",
			ScheduledAt: time.Now().Unix(),
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var created volley.Game
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
		assert.NotEmpty(t, created.ID, "server should allocate an ID")
		assert.Equal(t, volley.GameStatusScheduled, created.Status)
	})

	t.Run("lists games", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/games", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "g1")
	})

	t.Run("gets a single game", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/games?gameID=g1", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "t-home")
	})

	t.Run("404 for unknown game", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/games?gameID=nope", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestScorekeepingFlow(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()
	seedGameFixture(t, server)

	// Start the game.
	req, err := http.NewRequest("POST", "/games/start?gameID=g1", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var view struct {
		GameStatus volley.GameStatus `json:"game_status"`
		CurrentSet *struct {
			Number    int `json:"number"`
			HomeScore int `json:"home_score"`
			AwayScore int `json:"away_score"`
		} `json:"current_set"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, volley.GameStatusInProgress, view.GameStatus)
	require.NotNil(t, view.CurrentSet)
	assert.Equal(t, 1, view.CurrentSet.Number)

	// Record an attributed kill for the home side.
	playerID := "p1"
	rr = postJSON(t, server, "/record-play", recorder.PlayRequest{
		GameID:     "g1",
		PlayTypeID: "kill",
		Side:       volley.SideHome,
		PlayerID:   &playerID,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, 1, view.CurrentSet.HomeScore)

	// An away attack error also scores for home.
	awayPlayer := "p2"
	rr = postJSON(t, server, "/record-play", recorder.PlayRequest{
		GameID:     "g1",
		PlayTypeID: "attack-error",
		Side:       volley.SideAway,
		PlayerID:   &awayPlayer,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, 2, view.CurrentSet.HomeScore)
	assert.Equal(t, 0, view.CurrentSet.AwayScore)

	// Manual score correction.
	rr = postJSON(t, server, "/manual-score", map[string]any{
		"game_id": "g1", "side": "AWAY", "delta": 1,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, 1, view.CurrentSet.AwayScore)

	// The live score view reflects everything persisted so far.
	req, err = http.NewRequest("GET", "/games/score?gameID=g1", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"home_score":2`)

	// Cut the game short with a manual completion.
	rr = postJSON(t, server, "/complete-game", map[string]any{
		"game_id": "g1", "home_sets_won": 3, "away_sets_won": 0,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	stored, err := server.GameStore.GetGame("g1")
	require.NoError(t, err)
	assert.Equal(t, volley.GameStatusCompleted, stored.Status)
	assert.Equal(t, 3, stored.HomeSetsWon)
}

func TestRecordPlayHandler_Validation(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := postJSON(t, server, "/record-play", map[string]any{"side": "HOME"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req, err := http.NewRequest("POST", "/record-play", strings.NewReader("{not json"))
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelGameHandler(t *testing.T) {
	server, ps, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()
	seedGameFixture(t, server)

	rr := postJSON(t, server, "/cancel-game", map[string]any{"game_id": "g1"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	stored, err := server.GameStore.GetGame("g1")
	require.NoError(t, err)
	assert.Equal(t, volley.GameStatusCancelled, stored.Status)
	assert.Empty(t, ps.SendMessageCalls, "cancellation must not publish completion events")
}

func TestUpdatePlayerStatsHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()
	seedGameFixture(t, server)

	// Play a short game: one attributed play per side, then a manual finish.
	req, err := http.NewRequest("POST", "/games/start?gameID=g1", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	p1 := "p1"
	rr = postJSON(t, server, "/record-play", recorder.PlayRequest{GameID: "g1", PlayTypeID: "kill", Side: volley.SideHome, PlayerID: &p1})
	require.Equal(t, http.StatusOK, rr.Code)
	p2 := "p2"
	rr = postJSON(t, server, "/record-play", recorder.PlayRequest{GameID: "g1", PlayTypeID: "attack-error", Side: volley.SideAway, PlayerID: &p2})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = postJSON(t, server, "/complete-game", map[string]any{"game_id": "g1", "home_sets_won": 3, "away_sets_won": 1})
	require.Equal(t, http.StatusOK, rr.Code)

	// Deliver the push message.
	pushReq := pushRequest(t, "/update-player-stats", "g1")
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, pushReq)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	stats, err := server.ClubStore.GetPlayerStats()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	winner, err := server.ClubStore.GetPlayerStatsByName("Ana")
	require.NoError(t, err)
	assert.Equal(t, 1, winner.GamesPlayed)
	assert.Equal(t, 1, winner.GamesWon)
	assert.Equal(t, 3, winner.SetsWon)
	assert.Equal(t, 1, winner.SetsLost)
}

func TestNotifyResultHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	server, _, teardown := setupTestServer(t, mockNotifier)
	defer teardown()
	seedGameFixture(t, server)

	rr := postJSON(t, server, "/complete-game", map[string]any{"game_id": "g1", "home_sets_won": 3, "away_sets_won": 0})
	require.Equal(t, http.StatusOK, rr.Code)

	pushReq := pushRequest(t, "/notify-result", "g1")
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, pushReq)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.Len(t, mockNotifier.SendResultNotificationCalls, 1)
	result := mockNotifier.SendResultNotificationCalls[0].Result
	assert.Equal(t, "Eagles", result.HomeTeamName)
	assert.Equal(t, "Sharks", result.AwayTeamName)
	assert.Equal(t, "Eagles", result.Winner())
}

func TestNotifyResultHandler_InvalidPush(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("POST", "/notify-result", strings.NewReader("{not json"))
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLeaderboardHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("GET", "/leaderboard", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestPlayerStatsCommandHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	mockNotifier.FormatPlayerStatsResponseFunc = func(stats *club.PlayerStats, query string) (any, error) {
		return slack.Message{}, nil
	}
	mockNotifier.FormatPlayerNotFoundResponseFunc = func(query string) (any, error) {
		return slack.Message{}, nil
	}
	server, _, teardown := setupTestServer(t, mockNotifier)
	defer teardown()
	seedGameFixture(t, server)

	require.NoError(t, server.ClubStore.UpdatePlayerStats([]club.PlayerGameLine{
		{PlayerID: "p1", Won: true, SetsWon: 3, SetsLost: 1, PointsScored: 12},
	}))

	t.Run("handles found player", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Ana")

		req, err := http.NewRequest("POST", "/slack/command/player-stats", strings.NewReader(form.Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("handles not found player", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Unknown")

		req, err := http.NewRequest("POST", "/slack/command/player-stats", strings.NewReader(form.Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("handles missing player name", func(t *testing.T) {
		req, err := http.NewRequest("POST", "/slack/command/player-stats", strings.NewReader(""))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestClearStoreHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()
	seedGameFixture(t, server)

	t.Run("clears a single game", func(t *testing.T) {
		req, err := http.NewRequest("POST", "/clear?gameID=g1", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, fmt.Sprintf("Cleared game %s from store!", "g1"), rr.Body.String())

		_, err = server.GameStore.GetGame("g1")
		assert.Error(t, err)
	})

	t.Run("clears everything", func(t *testing.T) {
		req, err := http.NewRequest("POST", "/clear", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		players, err := server.ClubStore.GetAllPlayers()
		require.NoError(t, err)
		assert.Empty(t, players)
	})
}
