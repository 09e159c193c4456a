package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/nholm/arrowsync/internal/match"
	"github.com/nholm/arrowsync/internal/scoring"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, scoring.ErrNoMatch):
		status = http.StatusConflict
	case errors.Is(err, scoring.ErrNoSession):
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func parseSide(s string) (match.Side, error) {
	switch s {
	case "A", "a":
		return match.SideA, nil
	case "B", "b":
		return match.SideB, nil
	}
	return match.SideNone, fmt.Errorf("side must be A or B, got %q", s)
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) NewMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params scoring.NewMatchParams
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		view, err := s.Scoring.NewMatch(r.Context(), params)
		if err != nil {
			log.Error("Failed to start match", "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, view)
	}
}

func (s *Server) ArrowHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req arrowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		side, err := parseSide(req.Side)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		var view *scoring.MatchView
		if req.ShootOff {
			view, err = s.Scoring.RecordShootOffArrow(r.Context(), side, req.Slot, req.Token)
		} else {
			view, err = s.Scoring.RecordArrow(r.Context(), side, req.SetNumber, req.Slot, req.Token)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (s *Server) JudgeCallHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req judgeCallRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		winner, err := parseSide(req.Winner)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		view, err := s.Scoring.JudgeCall(r.Context(), winner)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (s *Server) StateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := s.Scoring.View()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (s *Server) UpsertArcherHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var a scoring.Archer
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		key, err := s.Scoring.UpsertArcher(r.Context(), a)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, upsertArcherResponse{Key: key})
	}
}

func (s *Server) SyncHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := s.Scoring.Sync(r.Context())
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) ResetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Scoring.Reset(r.Context()); err != nil {
			log.Error("Failed to reset match", "error", err)
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Match reset!")
	}
}

func (s *Server) RestoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := s.Scoring.Restore(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}
