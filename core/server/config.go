package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	// When empty, authentication is disabled (useful for local development).
	ApiKey string `mapstructure:"api_key" default:""`
}

// Addr returns the listen address for the configured port. An empty port
// falls back to 8080; a leading colon in the value is tolerated.
func (c Config) Addr() string {
	port := strings.TrimPrefix(c.Port, ":")
	if port == "" {
		port = "8080"
	}
	return ":" + port
}
