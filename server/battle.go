package server

import (
	"encoding/json"
	"net/http"

	"github.com/fcendesu/poke-deck/battle"
	"github.com/google/uuid"
)

type createBattleRequest struct {
	PokemonIDs []int `json:"pokemonIds"`
}

type battleResponse struct {
	BattleID uuid.UUID           `json:"battleId"`
	State    *battle.BattleState `json:"state"`
}

// HandleBattle handles /api/battle: POST starts a battle, GET returns the
// battle in progress.
func (s *Server) HandleBattle(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req createBattleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		state, battleID, err := s.engine.CreateBattle(r.Context(), userID, req.PokemonIDs)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, battleResponse{BattleID: battleID, State: state})
	case http.MethodGet:
		state, battleID, err := s.engine.CurrentBattle(r.Context(), userID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, battleResponse{BattleID: battleID, State: state})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type performMoveRequest struct {
	MoveIndex int `json:"moveIndex"`
}

// HandleBattleMove handles POST /api/battle/move.
func (s *Server) HandleBattleMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req performMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	state, err := s.engine.PerformMove(r.Context(), userID, req.MoveIndex)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

type statsResponse struct {
	TotalBattles  int `json:"totalBattles"`
	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
	WinStreak     int `json:"winStreak"`
	BestWinStreak int `json:"bestWinStreak"`
	Rating        int `json:"rating"`
	Rank          int `json:"rank,omitempty"`
}

// HandleBattleStats handles GET /api/battle/stats. The rank field is only
// present when the leaderboard is configured.
func (s *Server) HandleBattleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	stats, err := s.tracker.For(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := statsResponse{
		TotalBattles:  stats.TotalBattles,
		Wins:          stats.Wins,
		Losses:        stats.Losses,
		WinStreak:     stats.WinStreak,
		BestWinStreak: stats.BestWinStreak,
		Rating:        stats.Rating,
	}
	if s.board != nil {
		rank, err := s.board.Rank(r.Context(), userID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp.Rank = rank
	}
	s.writeJSON(w, http.StatusOK, resp)
}
