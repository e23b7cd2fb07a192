package server

import (
	"net/http"

	"github.com/fcendesu/poke-deck/config"
	"github.com/fcendesu/poke-deck/leaderboard"
)

type leaderboardResponse struct {
	Entries []leaderboard.Entry `json:"entries"`
}

// HandleLeaderboard handles GET /api/leaderboard.
func (s *Server) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.board == nil {
		http.Error(w, "Leaderboard not configured", http.StatusServiceUnavailable)
		return
	}

	entries, err := s.board.Top(r.Context(), config.LEADERBOARD_SIZE)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	s.writeJSON(w, http.StatusOK, leaderboardResponse{Entries: entries})
}
