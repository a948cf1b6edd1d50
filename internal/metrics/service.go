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
		RoundsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "golf_rounds_submitted_total",
			Help: "The total number of rounds submitted for settlement.",
		}),
		RoundsSettled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "golf_rounds_settled_total",
			Help: "The total number of rounds settled successfully.",
		}),
		SettlementFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "golf_settlement_failures_total",
			Help: "The total number of rounds whose settlement aborted on a fatal input error.",
		}),
		SettlementDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "golf_settlement_duration_seconds",
			Help:    "The duration of individual round settlements.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "golf_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "golf_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		RoundsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "golf_rounds_published_total",
			Help: "The total number of settled round documents published to Pub/Sub.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "golf_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RoundsSubmitted,
		s.RoundsSettled,
		s.SettlementFailures,
		s.SettlementDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.RoundsPublished,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncRoundsSubmitted() {
	s.RoundsSubmitted.Inc()
}

func (s *Service) IncRoundsSettled() {
	s.RoundsSettled.Inc()
}

func (s *Service) IncSettlementFailures() {
	s.SettlementFailures.Inc()
}

func (s *Service) ObserveSettlementDuration(duration float64) {
	s.SettlementDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) IncRoundsPublished() {
	s.RoundsPublished.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
