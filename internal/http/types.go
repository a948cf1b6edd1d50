package http

import (
	"net/http"

	"github.com/mauv0809/fairway-ledger/internal/config"
	"github.com/mauv0809/fairway-ledger/internal/course"
	"github.com/mauv0809/fairway-ledger/internal/metrics"
	"github.com/mauv0809/fairway-ledger/internal/notifier"
	"github.com/mauv0809/fairway-ledger/internal/pubsub"
	"github.com/mauv0809/fairway-ledger/internal/roster"
	"github.com/mauv0809/fairway-ledger/internal/rounds"
	"github.com/mauv0809/fairway-ledger/internal/settlement"
)

type Server struct {
	Rounds         rounds.Store
	Players        roster.Store
	Courses        course.Store
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	PubSub         pubsub.PubSubClient
	Settler        settlement.Settler
	Router         *http.ServeMux
}
