package server

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fcendesu/poke-deck/database"
	"github.com/fcendesu/poke-deck/logger"
)

type speciesListResponse struct {
	Pokemon []database.Species `json:"pokemon"`
	Total   int64              `json:"total"`
	Offset  int                `json:"offset"`
	Limit   int                `json:"limit"`
}

const defaultPageSize = 20

// HandlePokemonList handles GET /api/pokemon with offset/limit paging.
func (s *Server) HandlePokemonList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = defaultPageSize
	}

	species, total, err := s.db.ListSpecies(r.Context(), offset, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, speciesListResponse{
		Pokemon: species,
		Total:   total,
		Offset:  offset,
		Limit:   limit,
	})
}

// HandlePokemon handles /api/pokemon/:id and /api/pokemon/:id/sprite.
func (s *Server) HandlePokemon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/pokemon/")
	segments := strings.Split(path, "/")

	pokeAPIID, err := strconv.Atoi(segments[0])
	if err != nil || pokeAPIID <= 0 {
		http.Error(w, "Invalid pokemon ID", http.StatusBadRequest)
		return
	}

	species, err := s.db.SpeciesByPokeAPIID(r.Context(), pokeAPIID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if species == nil {
		http.Error(w, "Pokemon not found", http.StatusNotFound)
		return
	}

	if len(segments) > 1 {
		if segments[1] == "sprite" {
			s.servePokemonSprite(w, r, species)
			return
		}
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	s.writeJSON(w, http.StatusOK, species)
}

// servePokemonSprite proxies the species' sprite with caching headers so
// the frontend never talks to the upstream image host directly.
func (s *Server) servePokemonSprite(w http.ResponseWriter, r *http.Request, species *database.Species) {
	spriteURL := species.SpriteOfficialArtwork
	if spriteURL == "" {
		spriteURL = species.SpriteDefault
	}
	if spriteURL == "" {
		s.serveDefaultSprite(w)
		return
	}

	etag := spriteETag(species)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	imageData, err := fetchSprite(spriteURL)
	if err != nil {
		logger.Sugar().Errorf("Failed to fetch sprite for %s: %v", species.Name, err)
		s.serveDefaultSprite(w)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("ETag", etag)
	w.Write(imageData)
}

func spriteETag(species *database.Species) string {
	hasher := md5.New()
	hasher.Write([]byte(fmt.Sprintf("%d-%s-%s", species.PokeAPIID, species.SpriteDefault, species.SpriteOfficialArtwork)))
	return `"` + hex.EncodeToString(hasher.Sum(nil)) + `"`
}

func fetchSprite(url string) ([]byte, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch sprite: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sprite host returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// serveDefaultSprite writes a 1x1 transparent PNG placeholder.
func (s *Server) serveDefaultSprite(w http.ResponseWriter) {
	transparentPNG := []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
		0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
		0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41,
		0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
		0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
		0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
		0x42, 0x60, 0x82,
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(transparentPNG)
}
