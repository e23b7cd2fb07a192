package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fcendesu/poke-deck/auth"
	"github.com/fcendesu/poke-deck/battle"
	"github.com/fcendesu/poke-deck/database"
	"github.com/fcendesu/poke-deck/draw"
	"github.com/fcendesu/poke-deck/leaderboard"
	"github.com/fcendesu/poke-deck/logger"
	"github.com/google/uuid"
)

type Server struct {
	db        *database.Database
	engine    *battle.Engine
	tracker   *battle.Tracker
	allocator *draw.Allocator
	board     *leaderboard.Leaderboard // nil when redis is not configured
	verifier  *auth.Verifier
}

func New(db *database.Database, engine *battle.Engine, tracker *battle.Tracker, allocator *draw.Allocator, board *leaderboard.Leaderboard, verifier *auth.Verifier) *Server {
	return &Server{
		db:        db,
		engine:    engine,
		tracker:   tracker,
		allocator: allocator,
		board:     board,
		verifier:  verifier,
	}
}

// authenticate resolves the requesting user or writes a 401.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := s.verifier.FromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	return userID, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Sugar().Errorf("Failed to encode response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps battle engine errors onto HTTP statuses. Unknown errors
// are logged and hidden behind a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		notFound    *battle.NotFoundError
		notOwned    *battle.NotOwnedError
		teamSize    *battle.InvalidTeamSizeError
		active      *battle.ActiveBattleError
		noActive    *battle.NoActiveBattleError
		gameOver    *battle.GameOverError
		notYourTurn *battle.NotYourTurnError
		invalidMove *battle.InvalidMoveError
	)
	switch {
	case errors.As(err, &notFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.As(err, &noActive):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.As(err, &notOwned):
		s.writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.As(err, &active):
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.As(err, &teamSize),
		errors.As(err, &gameOver),
		errors.As(err, &notYourTurn),
		errors.As(err, &invalidMove):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		logger.Sugar().Errorf("Request failed: %v", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// HandleHealth reports liveness for load balancers.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
