package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by every userctl command.
type Config struct {
	DBPath string
}

// Load reads .env (if present) and the environment. A missing .env is
// not an error.
func Load() Config {
	godotenv.Load()
	return Config{
		DBPath: envString("USERDB_PATH", ""),
	}
}

func envString(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
