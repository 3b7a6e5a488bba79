package cli

import (
	"os"

	"github.com/nachoupps/chessy/internal/model"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	// Pin is the default pin offered to play sessions
	Pin     string
	Output  string
	Verbose bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("CHESSY_SERVER", "http://localhost:8080"),
		Pin:       getEnvOrDefault("CHESSY_PIN", model.DefaultPin),
		Output:    "text",
		Verbose:   false,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
