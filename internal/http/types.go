package http

import (
	"net/http"

	"github.com/nholm/arrowsync/internal/config"
	"github.com/nholm/arrowsync/internal/metrics"
	"github.com/nholm/arrowsync/internal/scoring"
)

type Server struct {
	Scoring        *scoring.Service
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}

// arrowRequest scores one arrow. ShootOff addresses the shoot-off set, in
// which case SetNumber is ignored.
type arrowRequest struct {
	Side      string `json:"side"` // "A" or "B"
	SetNumber int    `json:"set_number"`
	Slot      int    `json:"slot"`
	Token     string `json:"token"`
	ShootOff  bool   `json:"shoot_off"`
}

type judgeCallRequest struct {
	Winner string `json:"winner"` // "A" or "B"
}

type upsertArcherResponse struct {
	Key string `json:"key"`
}

type errorResponse struct {
	Error string `json:"error"`
}
