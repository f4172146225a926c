package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/eamf/volleyball-stats-app-sub000/internal/club"
	"github.com/eamf/volleyball-stats-app-sub000/internal/pubsub"
	"github.com/eamf/volleyball-stats-app-sub000/internal/recorder"
	"github.com/eamf/volleyball-stats-app-sub000/internal/scoring"
	"github.com/eamf/volleyball-stats-app-sub000/internal/volley"
	"github.com/google/uuid"
	"github.com/slack-go/slack"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.URL.Query().Get("gameID")
		if gameID != "" {
			log.Info("Received request to clear a specific game", "gameID", gameID)
			if err := s.GameStore.DeleteGame(gameID); err != nil {
				http.Error(w, "Failed to delete game", http.StatusInternalServerError)
				log.Error("Failed to delete game", "gameID", gameID, "error", err)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared game %s from store!", gameID)
			log.Info("Successfully cleared game from store", "gameID", gameID)
		} else {
			log.Info("Received request to clear entire store")
			s.GameStore.Clear()
			s.ClubStore.Clear()
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Store cleared!")
			log.Info("Store cleared successfully")
		}
	}
}

// respondJSON writes v as a JSON response body.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write JSON response", "error", err)
	}
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// scoreView is the response shape for every scorekeeping operation: the
// engine result without its persistence intents.
type scoreView struct {
	GameStatus    volley.GameStatus  `json:"game_status"`
	CurrentSet    *scoring.SetState  `json:"current_set,omitempty"`
	CompletedSets []scoring.SetState `json:"completed_sets,omitempty"`
	SetCompleted  bool               `json:"set_completed"`
	GameCompleted bool               `json:"game_completed"`
	Play          *volley.Play       `json:"play,omitempty"`
}

func viewOf(res scoring.Result) scoreView {
	return scoreView{
		GameStatus:    res.GameStatus,
		CurrentSet:    res.CurrentSet,
		CompletedSets: res.CompletedSets,
		SetCompleted:  res.SetCompleted,
		GameCompleted: res.GameCompleted,
		Play:          res.Play,
	}
}

func (s *Server) ClubsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var c club.ClubInfo
			if err := decodeBody(r, &c); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			if c.ID == "" {
				c.ID = uuid.NewString()
			}
			if c.CreatedAt == 0 {
				c.CreatedAt = time.Now().Unix()
			}
			if err := s.ClubStore.UpsertClub(c); err != nil {
				http.Error(w, "Failed to save club", http.StatusInternalServerError)
				log.Error("Failed to upsert club", "error", err)
				return
			}
			respondJSON(w, http.StatusOK, c)
		default:
			clubs, err := s.ClubStore.GetAllClubs()
			if err != nil {
				http.Error(w, "Failed to get clubs", http.StatusInternalServerError)
				log.Error("Failed to get clubs from store", "error", err)
				return
			}
			respondJSON(w, http.StatusOK, clubs)
		}
	}
}

func (s *Server) ChampionshipsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var c club.Championship
			if err := decodeBody(r, &c); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			if c.ID == "" {
				c.ID = uuid.NewString()
			}
			if c.CreatedAt == 0 {
				c.CreatedAt = time.Now().Unix()
			}
			if err := s.ClubStore.UpsertChampionship(c); err != nil {
				http.Error(w, "Failed to save championship", http.StatusInternalServerError)
				log.Error("Failed to upsert championship", "error", err)
				return
			}
			respondJSON(w, http.StatusOK, c)
		default:
			clubID := r.URL.Query().Get("clubID")
			championships, err := s.ClubStore.GetChampionships(clubID)
			if err != nil {
				http.Error(w, "Failed to get championships", http.StatusInternalServerError)
				log.Error("Failed to get championships from store", "error", err)
				return
			}
			respondJSON(w, http.StatusOK, championships)
		}
	}
}

func (s *Server) TeamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var t club.TeamInfo
			if err := decodeBody(r, &t); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			if t.ID == "" {
				t.ID = uuid.NewString()
			}
			if t.CreatedAt == 0 {
				t.CreatedAt = time.Now().Unix()
			}
			if err := s.ClubStore.UpsertTeam(t); err != nil {
				http.Error(w, "Failed to save team", http.StatusInternalServerError)
				log.Error("Failed to upsert team", "error", err)
				return
			}
			respondJSON(w, http.StatusOK, t)
		default:
			teams, err := s.ClubStore.GetAllTeams()
			if err != nil {
				http.Error(w, "Failed to get teams", http.StatusInternalServerError)
				log.Error("Failed to get teams from store", "error", err)
				return
			}
			respondJSON(w, http.StatusOK, teams)
		}
	}
}

func (s *Server) PlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var p club.PlayerInfo
			if err := decodeBody(r, &p); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			if p.ID == "" {
				p.ID = uuid.NewString()
			}
			if p.CreatedAt == 0 {
				p.CreatedAt = time.Now().Unix()
			}
			if err := s.ClubStore.UpsertPlayer(p); err != nil {
				http.Error(w, "Failed to save player", http.StatusInternalServerError)
				log.Error("Failed to upsert player", "error", err)
				return
			}
			respondJSON(w, http.StatusOK, p)
		default:
			teamID := r.URL.Query().Get("teamID")
			var players []club.PlayerInfo
			var err error
			if teamID != "" {
				players, err = s.ClubStore.GetTeamRoster(teamID)
			} else {
				players, err = s.ClubStore.GetAllPlayers()
			}
			if err != nil {
				http.Error(w, "Failed to get players", http.StatusInternalServerError)
				log.Error("Failed to get players from store", "error", err)
				return
			}
			respondJSON(w, http.StatusOK, players)
		}
	}
}

func (s *Server) PlayTypesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var pt volley.PlayType
			if err := decodeBody(r, &pt); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			if pt.ID == "" {
				pt.ID = uuid.NewString()
			}
			if err := s.GameStore.UpsertPlayType(pt); err != nil {
				http.Error(w, "Failed to save play type", http.StatusInternalServerError)
				log.Error("Failed to upsert play type", "error", err)
				return
			}
			respondJSON(w, http.StatusOK, pt)
		default:
			types, err := s.GameStore.GetPlayTypes()
			if err != nil {
				http.Error(w, "Failed to get play types", http.StatusInternalServerError)
				log.Error("Failed to get play types from store", "error", err)
				return
			}
			respondJSON(w, http.StatusOK, types)
		}
	}
}

func (s *Server) GamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var g volley.Game
			if err := decodeBody(r, &g); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			if g.ID == "" {
				g.ID = uuid.NewString()
			}
			if g.Status == "" {
				g.Status = volley.GameStatusScheduled
			}
			if err := s.GameStore.CreateGame(g); err != nil {
				http.Error(w, "Failed to save game", http.StatusInternalServerError)
				log.Error("Failed to create game", "error", err)
				return
			}
			respondJSON(w, http.StatusOK, g)
		default:
			gameID := r.URL.Query().Get("gameID")
			if gameID != "" {
				game, err := s.GameStore.GetGame(gameID)
				if err != nil {
					http.Error(w, "Game not found", http.StatusNotFound)
					log.Error("Failed to get game from store", "gameID", gameID, "error", err)
					return
				}
				respondJSON(w, http.StatusOK, game)
				return
			}
			games, err := s.GameStore.GetAllGames()
			if err != nil {
				http.Error(w, "Failed to get games", http.StatusInternalServerError)
				log.Error("Failed to get games from store", "error", err)
				return
			}
			respondJSON(w, http.StatusOK, games)
		}
	}
}

func (s *Server) StartGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.URL.Query().Get("gameID")
		if gameID == "" {
			http.Error(w, "gameID is required", http.StatusBadRequest)
			return
		}

		res, err := s.Recorder.StartGame(gameID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			log.Error("Failed to start game", "gameID", gameID, "error", err)
			return
		}
		respondJSON(w, http.StatusOK, viewOf(res))
	}
}

// GameScoreHandler returns the live score view for a game: the game row and
// all of its sets.
func (s *Server) GameScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.URL.Query().Get("gameID")
		if gameID == "" {
			http.Error(w, "gameID is required", http.StatusBadRequest)
			return
		}

		game, err := s.GameStore.GetGame(gameID)
		if err != nil {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		sets, err := s.GameStore.GetSets(gameID)
		if err != nil {
			http.Error(w, "Failed to get sets", http.StatusInternalServerError)
			log.Error("Failed to get sets from store", "gameID", gameID, "error", err)
			return
		}

		respondJSON(w, http.StatusOK, struct {
			Game *volley.Game `json:"game"`
			Sets []volley.Set `json:"sets"`
		}{game, sets})
	}
}

func (s *Server) BoxScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.URL.Query().Get("gameID")
		if gameID == "" {
			http.Error(w, "gameID is required", http.StatusBadRequest)
			return
		}

		box, err := s.GameStore.BoxScore(gameID)
		if err != nil {
			http.Error(w, "Failed to get box score", http.StatusInternalServerError)
			log.Error("Failed to get box score", "gameID", gameID, "error", err)
			return
		}
		respondJSON(w, http.StatusOK, box)
	}
}

func (s *Server) RecordPlayHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recorder.PlayRequest
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.GameID == "" || req.PlayTypeID == "" {
			http.Error(w, "game_id and play_type_id are required", http.StatusBadRequest)
			return
		}

		res, err := s.Recorder.RecordPlay(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			log.Error("Failed to record play", "gameID", req.GameID, "error", err)
			return
		}
		respondJSON(w, http.StatusOK, viewOf(res))
	}
}

func (s *Server) DeletePlayHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			GameID string `json:"game_id"`
			PlayID string `json:"play_id"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		res, err := s.Recorder.DeletePlay(req.GameID, req.PlayID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			log.Error("Failed to delete play", "gameID", req.GameID, "playID", req.PlayID, "error", err)
			return
		}
		respondJSON(w, http.StatusOK, viewOf(res))
	}
}

func (s *Server) EditPlayHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recorder.EditRequest
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		res, err := s.Recorder.EditPlay(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			log.Error("Failed to edit play", "gameID", req.GameID, "playID", req.PlayID, "error", err)
			return
		}
		respondJSON(w, http.StatusOK, viewOf(res))
	}
}

func (s *Server) ManualScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			GameID string          `json:"game_id"`
			Side   volley.TeamSide `json:"side"`
			Delta  int             `json:"delta"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		res, err := s.Recorder.AdjustScore(req.GameID, req.Side, req.Delta)
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			log.Error("Failed to adjust score", "gameID", req.GameID, "error", err)
			return
		}
		respondJSON(w, http.StatusOK, viewOf(res))
	}
}

func (s *Server) CompleteSetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			GameID string `json:"game_id"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		res, err := s.Recorder.CompleteSet(req.GameID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			log.Error("Failed to complete set", "gameID", req.GameID, "error", err)
			return
		}
		respondJSON(w, http.StatusOK, viewOf(res))
	}
}

func (s *Server) CompleteGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			GameID      string `json:"game_id"`
			HomeSetsWon int    `json:"home_sets_won"`
			AwaySetsWon int    `json:"away_sets_won"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		res, err := s.Recorder.CompleteGame(req.GameID, req.HomeSetsWon, req.AwaySetsWon)
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			log.Error("Failed to complete game", "gameID", req.GameID, "error", err)
			return
		}
		respondJSON(w, http.StatusOK, viewOf(res))
	}
}

func (s *Server) CancelGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			GameID string `json:"game_id"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		res, err := s.Recorder.CancelGame(req.GameID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			log.Error("Failed to cancel game", "gameID", req.GameID, "error", err)
			return
		}
		respondJSON(w, http.StatusOK, viewOf(res))
	}
}

// LeaderboardHandler returns a handler that serves the player statistics leaderboard.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.ClubStore.GetPlayerStats()
		if err != nil {
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			log.Error("Failed to get player stats from store", "error", err)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

// PlayerStatsHandler looks up a single player's aggregated stats by name.
func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		stats, err := s.ClubStore.GetPlayerStatsByName(name)
		if err != nil {
			http.Error(w, "Player not found", http.StatusNotFound)
			log.Warn("Could not find player stats", "player", name, "error", err)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

// decodePushEvent unwraps a pub/sub push delivery: the outer JSON carries a
// base64-encoded MessagePack payload in message.data.
func (s *Server) decodePushEvent(r *http.Request) (pubsub.GameCompletedEvent, error) {
	var event pubsub.GameCompletedEvent

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return event, fmt.Errorf("failed to read request body: %w", err)
	}
	log.Debug("Received push message", "body", string(bodyBytes))

	var pubsubMsg struct {
		Subscription string `json:"subscription"`
		Message      struct {
			Data string `json:"data"` // base64-encoded message payload
		} `json:"message"`
	}
	if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
		return event, fmt.Errorf("failed to unmarshal wrapper JSON: %w", err)
	}

	rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
	if err != nil {
		return event, fmt.Errorf("failed to decode base64 data: %w", err)
	}

	if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
		return event, fmt.Errorf("failed to decode event payload: %w", err)
	}
	return event, nil
}

// UpdatePlayerStatsHandler is the pub/sub push consumer that rolls a
// completed game into the aggregated player stats.
func (s *Server) UpdatePlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := s.decodePushEvent(r)
		if err != nil {
			log.Error("Failed to decode stats update event", "error", err)
			http.Error(w, "Invalid push message", http.StatusBadRequest)
			return
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would update player stats", "gameID", event.GameID)
			w.Write([]byte("OK"))
			return
		}

		if err := s.Recorder.UpdatePlayerStats(event.GameID); err != nil {
			log.Error("Failed to update player stats", "gameID", event.GameID, "error", err)
			http.Error(w, "Failed to update player stats", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// NotifyResultHandler is the pub/sub push consumer that sends the final
// score notification for a completed game.
func (s *Server) NotifyResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := s.decodePushEvent(r)
		if err != nil {
			log.Error("Failed to decode result notification event", "error", err)
			http.Error(w, "Invalid push message", http.StatusBadRequest)
			return
		}

		result, err := s.Recorder.GameResult(event.GameID)
		if err != nil {
			log.Error("Failed to build game result", "gameID", event.GameID, "error", err)
			http.Error(w, "Failed to build game result", http.StatusInternalServerError)
			return
		}

		if err := s.Notifier.SendResultNotification(result, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to notify result", "gameID", event.GameID, "error", err)
			http.Error(w, "Failed to notify result", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.ClubStore.GetPlayerStats()
		if err != nil {
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			log.Error("Failed to get player stats from store", "error", err)
			return
		}

		msg, err := s.Notifier.FormatLeaderboardResponse(stats)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}

// PlayerStatsCommandHandler returns a handler for the /player-stats Slack command.
func (s *Server) PlayerStatsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		playerName := r.FormValue("text")
		if playerName == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received player stats command", "player", playerName)

		stats, err := s.ClubStore.GetPlayerStatsByName(playerName)
		var msg any
		if err != nil {
			log.Warn("Could not find player stats", "player", playerName, "error", err)
			msg, err = s.Notifier.FormatPlayerNotFoundResponse(playerName)
		} else {
			msg, err = s.Notifier.FormatPlayerStatsResponse(stats, playerName)
		}

		if err != nil {
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			log.Error("Failed to format player stats", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}
