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

func NewServer(roundStore rounds.Store, playerStore roster.Store, courseStore course.Store, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, pubsubClient pubsub.PubSubClient, settler settlement.Settler) *Server {
	server := &Server{
		Rounds:         roundStore,
		Players:        playerStore,
		Courses:        courseStore,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		PubSub:         pubsubClient,
		Settler:        settler,
		Router:         http.NewServeMux(),
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
	s.Router.Handle("/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/courses", Chain(s.ListCoursesHandler(), paramsMiddleware))
	s.Router.Handle("/rounds", Chain(s.ListRoundsHandler(), paramsMiddleware))
	s.Router.Handle("/rounds/submit", Chain(s.SubmitRoundHandler(), paramsMiddleware))
	s.Router.Handle("/process", Chain(s.ProcessRoundsHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/notify/leaderboard", Chain(s.NotifyLeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/pubsub/push", Chain(s.PubSubPushHandler(), paramsMiddleware))
	s.Router.Handle("/export/leaderboard.csv", Chain(s.ExportLeaderboardCSVHandler(), paramsMiddleware))
	s.Router.Handle("/export/leaderboard.xlsx", Chain(s.ExportLeaderboardXLSXHandler(), paramsMiddleware))
	s.Router.Handle("/import/players", Chain(s.ImportPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/import/courses", Chain(s.ImportCoursesHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
