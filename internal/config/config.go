package config

import (
	"os"
	"path/filepath"
)

// Config holds runtime configuration.
type Config struct {
	Port         string
	DBDSN        string
	DataDir      string
	OpenAIAPIKey string
	OpenAIModel  string
	GoogleAPIKey string
}

// Load parses environment variables into Config. DB_DSN is optional: without
// it the history blob is kept in local files under DataDir. Empty API keys
// select the stub clients.
func Load() (Config, error) {
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		DBDSN:        os.Getenv("DB_DSN"),
		DataDir:      getEnv("DATA_DIR", defaultDataDir()),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  os.Getenv("OPENAI_MODEL"),
		GoogleAPIKey: os.Getenv("GOOGLE_API_KEY"),
	}

	return cfg, nil
}

// ScratchDir is where synthesized audio and microphone captures land.
func (c Config) ScratchDir() string {
	return filepath.Join(c.DataDir, "scratch")
}

func defaultDataDir() string {
	return filepath.Join(os.TempDir(), "voicebridge")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
