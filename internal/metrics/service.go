package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		PlaysRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volley_plays_recorded_total",
			Help: "The total number of plays recorded across all games.",
		}),
		SetsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volley_sets_completed_total",
			Help: "The total number of sets completed by the scoring engine.",
		}),
		GamesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volley_games_completed_total",
			Help: "The total number of games completed.",
		}),
		SessionResyncs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volley_session_resyncs_total",
			Help: "The total number of recording sessions reloaded from storage after an inconsistency.",
		}),
		ScoringOpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "volley_scoring_op_duration_seconds",
			Help:    "The duration of individual scoring operations including persistence.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volley_notifications_sent_total",
			Help: "The total number of notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volley_notifications_failed_total",
			Help: "The total number of notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "volley_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.PlaysRecorded,
		s.SetsCompleted,
		s.GamesCompleted,
		s.SessionResyncs,
		s.ScoringOpDuration,
		s.NotifSent,
		s.NotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncPlaysRecorded() {
	s.PlaysRecorded.Inc()
}

func (s *Service) IncSetsCompleted() {
	s.SetsCompleted.Inc()
}

func (s *Service) IncGamesCompleted() {
	s.GamesCompleted.Inc()
}

func (s *Service) IncSessionResyncs() {
	s.SessionResyncs.Inc()
}

func (s *Service) ObserveScoringOpDuration(duration float64) {
	s.ScoringOpDuration.Observe(duration)
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
