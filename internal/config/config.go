// Package config loads runtime settings from the environment, with an
// optional .env file picked up from the working directory.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the serve, watch and import commands.
type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string
	// DatabasePath is the sqlite database file. Empty selects the
	// in-memory repository.
	DatabasePath string
	// WatchDir is the directory scanned for dropped log exports.
	WatchDir string
	// Debug enables debug-level logging.
	Debug bool
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ListenAddr:   getenv("LISTEN_ADDR", ":8080"),
		DatabasePath: getenv("DATABASE_PATH", "pokernow.db"),
		WatchDir:     getenv("WATCH_DIR", "imports"),
		Debug:        asBool(os.Getenv("DEBUG")),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
