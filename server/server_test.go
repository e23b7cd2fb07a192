package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fcendesu/poke-deck/auth"
	"github.com/fcendesu/poke-deck/battle"
	"github.com/fcendesu/poke-deck/config"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	s := &Server{}
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown species", &battle.NotFoundError{PokeAPIID: 9}, http.StatusNotFound},
		{"no active battle", &battle.NoActiveBattleError{}, http.StatusNotFound},
		{"unowned species", &battle.NotOwnedError{PokeAPIID: 9}, http.StatusForbidden},
		{"battle in progress", &battle.ActiveBattleError{}, http.StatusConflict},
		{"wrong team size", &battle.InvalidTeamSizeError{Size: 2}, http.StatusBadRequest},
		{"battle over", &battle.GameOverError{}, http.StatusBadRequest},
		{"out of turn", &battle.NotYourTurnError{}, http.StatusBadRequest},
		{"bad move", &battle.InvalidMoveError{Index: 7}, http.StatusBadRequest},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.writeError(rec, tc.err)
			if rec.Code != tc.want {
				t.Fatalf("status %d, want %d", rec.Code, tc.want)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Fatalf("content type %q", ct)
			}
			if tc.want == http.StatusInternalServerError && strings.Contains(rec.Body.String(), "boom") {
				t.Fatal("internal error detail leaked to the client")
			}
		})
	}
}

func TestHandlersRequireAuth(t *testing.T) {
	verifier, err := auth.NewVerifier(config.ConfigAuth{Secret: "secret"})
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	s := &Server{verifier: verifier}

	handlers := map[string]http.HandlerFunc{
		"battle":      s.HandleBattle,
		"battle move": s.HandleBattleMove,
		"stats":       s.HandleBattleStats,
		"draw":        s.HandleDraw,
		"draw status": s.HandleDrawStatus,
		"collection":  s.HandleCollection,
	}
	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			method := http.MethodGet
			if name == "battle" || name == "battle move" || name == "draw" {
				method = http.MethodPost
			}
			r := httptest.NewRequest(method, "/", nil)
			rec := httptest.NewRecorder()
			handler(rec, r)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status %d, want 401", rec.Code)
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	s := &Server{}
	rec := httptest.NewRecorder()
	s.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("body %q", rec.Body.String())
	}
}
