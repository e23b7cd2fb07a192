package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a minimal PokeAPI REST client used to import the species
// catalog on first startup.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://pokeapi.co/api/v2"
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type SpeciesRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type listResponse struct {
	Results []SpeciesRef `json:"results"`
}

// SpeciesDetail mirrors the subset of the PokeAPI pokemon payload that the
// catalog keeps.
type SpeciesDetail struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	BaseExperience int    `json:"base_experience"`
	Height         int    `json:"height"`
	Weight         int    `json:"weight"`
	Sprites        struct {
		FrontDefault string `json:"front_default"`
		FrontShiny   string `json:"front_shiny"`
		Other        struct {
			OfficialArtwork struct {
				FrontDefault string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
	Types []struct {
		Slot int `json:"slot"`
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
}

// BaseStat returns the named base stat, or 0 when the payload lacks it.
func (d SpeciesDetail) BaseStat(name string) int {
	for _, s := range d.Stats {
		if s.Stat.Name == name {
			return s.BaseStat
		}
	}
	return 0
}

// ListSpecies fetches up to limit species references.
func (c *Client) ListSpecies(ctx context.Context, limit int) ([]SpeciesRef, error) {
	url := fmt.Sprintf("%s/pokemon?limit=%d", c.baseURL, limit)
	var list listResponse
	if err := c.getJSON(ctx, url, &list); err != nil {
		return nil, fmt.Errorf("list species: %w", err)
	}
	return list.Results, nil
}

// GetSpecies fetches the full detail for one species reference.
func (c *Client) GetSpecies(ctx context.Context, ref SpeciesRef) (*SpeciesDetail, error) {
	var detail SpeciesDetail
	if err := c.getJSON(ctx, ref.URL, &detail); err != nil {
		return nil, fmt.Errorf("get species %q: %w", ref.Name, err)
	}
	return &detail, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, subString(string(body), 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func subString(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
