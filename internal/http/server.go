package http

import (
	"net/http"

	"github.com/eamf/volleyball-stats-app-sub000/internal/club"
	"github.com/eamf/volleyball-stats-app-sub000/internal/config"
	"github.com/eamf/volleyball-stats-app-sub000/internal/game"
	"github.com/eamf/volleyball-stats-app-sub000/internal/metrics"
	"github.com/eamf/volleyball-stats-app-sub000/internal/notifier"
	"github.com/eamf/volleyball-stats-app-sub000/internal/pubsub"
	"github.com/eamf/volleyball-stats-app-sub000/internal/recorder"
)

func NewServer(clubStore club.ClubStore, gameStore game.GameStore, rec *recorder.Recorder, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		ClubStore:      clubStore,
		GameStore:      gameStore,
		Recorder:       rec,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))

	s.Router.Handle("/clubs", Chain(s.ClubsHandler(), paramsMiddleware))
	s.Router.Handle("/championships", Chain(s.ChampionshipsHandler(), paramsMiddleware))
	s.Router.Handle("/teams", Chain(s.TeamsHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.PlayersHandler(), paramsMiddleware))
	s.Router.Handle("/play-types", Chain(s.PlayTypesHandler(), paramsMiddleware))

	s.Router.Handle("/games", Chain(s.GamesHandler(), paramsMiddleware))
	s.Router.Handle("/games/start", Chain(s.StartGameHandler(), paramsMiddleware))
	s.Router.Handle("/games/score", Chain(s.GameScoreHandler(), paramsMiddleware))
	s.Router.Handle("/games/box-score", Chain(s.BoxScoreHandler(), paramsMiddleware))

	s.Router.Handle("/record-play", Chain(s.RecordPlayHandler(), paramsMiddleware))
	s.Router.Handle("/delete-play", Chain(s.DeletePlayHandler(), paramsMiddleware))
	s.Router.Handle("/edit-play", Chain(s.EditPlayHandler(), paramsMiddleware))
	s.Router.Handle("/manual-score", Chain(s.ManualScoreHandler(), paramsMiddleware))
	s.Router.Handle("/complete-set", Chain(s.CompleteSetHandler(), paramsMiddleware))
	s.Router.Handle("/complete-game", Chain(s.CompleteGameHandler(), paramsMiddleware))
	s.Router.Handle("/cancel-game", Chain(s.CancelGameHandler(), paramsMiddleware))

	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/player-stats", Chain(s.PlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("/update-player-stats", Chain(s.UpdatePlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("/notify-result", Chain(s.NotifyResultHandler(), paramsMiddleware))

	s.Router.Handle("/slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/player-stats", Chain(s.PlayerStatsCommandHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
