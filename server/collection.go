package server

import (
	"net/http"

	"github.com/fcendesu/poke-deck/database"
)

type collectionResponse struct {
	Cards      []database.CollectionEntry `json:"cards"`
	TotalCards int                        `json:"totalCards"`
	Species    int                        `json:"species"`
}

// HandleCollection handles GET /api/collection.
func (s *Server) HandleCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	entries, err := s.db.Collection(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	total := 0
	for _, entry := range entries {
		total += entry.Quantity
	}
	s.writeJSON(w, http.StatusOK, collectionResponse{
		Cards:      entries,
		TotalCards: total,
		Species:    len(entries),
	})
}
