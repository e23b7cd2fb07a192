package config

import (
	"encoding/json"
	"errors"
)

// ParseConfig parses the raw JSON configuration.
func ParseConfig(raw []byte) (config Config, err error) {
	err = json.Unmarshal(raw, &config)
	if err != nil {
		return config, errors.Join(errors.New("unmarshal config"), err)
	}
	return config, nil
}

type Config struct {
	Server   ConfigServer  `json:"server"`
	TLS      ConfigTLS     `json:"tls"`
	Database Database      `json:"database"`
	Redis    ConfigRedis   `json:"redis"`
	Auth     ConfigAuth    `json:"auth"`
	PokeAPI  ConfigPokeAPI `json:"pokeapi"`
	LogLevel LogLevel      `json:"log_level"`
}

type ConfigServer struct {
	HttpAddress  string `json:"http_address"`
	HttpsAddress string `json:"https_address"`
}

// ConfigRedis is optional; an empty address disables the leaderboard cache.
type ConfigRedis struct {
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type ConfigAuth struct {
	// Secret verifies session tokens issued by the auth service.
	Secret string `json:"secret"`
}

type ConfigPokeAPI struct {
	BaseURL string `json:"base_url"`
	// Limit caps how many species the initial import fetches.
	Limit int `json:"limit"`
}
