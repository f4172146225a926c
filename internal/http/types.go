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

type Server struct {
	ClubStore      club.ClubStore
	GameStore      game.GameStore
	Recorder       *recorder.Recorder
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
