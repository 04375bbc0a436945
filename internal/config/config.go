package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gyazo-mcp-server/internal/gyazo"
)

// EnvAccessToken names the environment variable holding the Gyazo API
// access token.
const EnvAccessToken = "GYAZO_ACCESS_TOKEN"

// Config holds the application configuration.
type Config struct {
	AccessToken   string     // Gyazo API access token
	APIBaseURL    string     // Gyazo REST API base URL
	UploadBaseURL string     // Gyazo upload endpoint base URL
	LogLevel      slog.Level // Parsed slog level
	TimeoutSec    int        // Upstream call timeout in seconds
	logLevelStr   string     // Temporary storage for the flag string
}

// ErrAccessTokenMissing indicates the required access token environment
// variable was not set.
var ErrAccessTokenMissing = errors.New("required environment variable " + EnvAccessToken + " is not set")

// Load builds the configuration from command-line flags and the process
// environment. The access token is required; its absence is a startup error.
func Load(args []string) (*Config, error) {
	cfg := &Config{}

	// Dedicated FlagSet so tests and parallel packages don't collide on
	// the global flag state.
	fs := flag.NewFlagSet("gyazo-mcp-server", flag.ContinueOnError)
	fs.StringVar(&cfg.APIBaseURL, "api-url", gyazo.DefaultAPIBaseURL, "Gyazo API base URL")
	fs.StringVar(&cfg.UploadBaseURL, "upload-url", gyazo.DefaultUploadBaseURL, "Gyazo upload endpoint base URL")
	fs.StringVar(&cfg.logLevelStr, "log-level", "INFO", "Logging level (DEBUG, INFO, WARN, ERROR)")
	fs.IntVar(&cfg.TimeoutSec, "timeout", 60, "Upstream call timeout in seconds")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	switch strings.ToUpper(cfg.logLevelStr) {
	case "DEBUG":
		cfg.LogLevel = slog.LevelDebug
	case "INFO":
		cfg.LogLevel = slog.LevelInfo
	case "WARN":
		cfg.LogLevel = slog.LevelWarn
	case "ERROR":
		cfg.LogLevel = slog.LevelError
	default:
		cfg.LogLevel = slog.LevelInfo
	}

	cfg.AccessToken = os.Getenv(EnvAccessToken)
	if cfg.AccessToken == "" {
		return nil, ErrAccessTokenMissing
	}

	return cfg, nil
}
