package server

import "net/http"

// HandleDraw handles POST /api/draw.
func (s *Server) HandleDraw(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	result, err := s.allocator.Draw(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !result.Success {
		s.writeJSON(w, http.StatusTooManyRequests, result)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// HandleDrawStatus handles GET /api/draw/status.
func (s *Server) HandleDrawStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	status, err := s.allocator.StatusFor(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}
