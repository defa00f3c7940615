package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	APIKey    string
	Model     string
	Backend   string
	URL       string
	OutputDir string
	MaxTokens int
}

// Load reads configuration from the environment, optionally primed from
// a .env file next to the working directory or the executable.
func Load() (*Config, error) {
	envPaths := []string{".env"}
	if execPath, err := os.Executable(); err == nil {
		envPaths = append(envPaths, filepath.Join(filepath.Dir(execPath), ".env"))
	}
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			godotenv.Load(envPath)
			break
		}
	}

	maxTokens := 8000
	if v := os.Getenv("MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxTokens = n
		}
	}

	cfg := &Config{
		APIKey:    os.Getenv("OPENROUTER_API_KEY"),
		Model:     getEnvWithDefault("MODEL", "anthropic/claude-3.5-sonnet"),
		Backend:   getEnvWithDefault("BACKEND", "openrouter"),
		URL:       os.Getenv("BACKEND_URL"),
		OutputDir: getEnvWithDefault("OUTPUT_DIR", "output"),
		MaxTokens: maxTokens,
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
