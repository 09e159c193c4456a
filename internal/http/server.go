// Package http exposes the scoring engine to the local scoresheet UI. The
// server only ever binds on the device itself; the outbound path to the
// tournament server goes through the sync queue, never through here.
package http

import (
	"net/http"

	"github.com/nholm/arrowsync/internal/config"
	"github.com/nholm/arrowsync/internal/metrics"
	"github.com/nholm/arrowsync/internal/scoring"
)

func NewServer(scoringSvc *scoring.Service, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Scoring:        scoringSvc,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an
	// authentication middleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/match/new", Chain(s.NewMatchHandler(), paramsMiddleware))
	s.Router.Handle("/match/arrow", Chain(s.ArrowHandler(), paramsMiddleware))
	s.Router.Handle("/match/judge-call", Chain(s.JudgeCallHandler(), paramsMiddleware))
	s.Router.Handle("/match/state", Chain(s.StateHandler(), paramsMiddleware))
	s.Router.Handle("/archer/upsert", Chain(s.UpsertArcherHandler(), paramsMiddleware))
	s.Router.Handle("/sync", Chain(s.SyncHandler(), paramsMiddleware))
	s.Router.Handle("/reset", Chain(s.ResetHandler(), paramsMiddleware))
	s.Router.Handle("/restore", Chain(s.RestoreHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
