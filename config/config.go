package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all environment-driven settings for the API gateway.
// Load fails fast when a required value is missing so a misconfigured
// deployment never starts half-working.
type Config struct {
	Environment     string
	Port            string
	SupabaseURL     string
	SupabaseKey     string
	GeminiAPIKey    string
	StytchProjectID string
	StytchSecret    string
	StytchBaseURL   string
	TokenKey        string
	LogLevel        string
}

// Load reads configuration from the environment, consulting a local .env
// file first when present.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Environment:     envOr("ENVIRONMENT", "development"),
		Port:            envOr("PORT", "4000"),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseKey:     os.Getenv("SUPABASE_SERVICE_KEY"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		StytchProjectID: os.Getenv("STYTCH_PROJECT_ID"),
		StytchSecret:    os.Getenv("STYTCH_SECRET"),
		StytchBaseURL:   envOr("STYTCH_BASE_URL", "https://test.stytch.com"),
		TokenKey:        os.Getenv("TOKEN_KEY"),
		LogLevel:        envOr("LOG_LEVEL", "info"),
	}

	required := map[string]string{
		"SUPABASE_URL":         cfg.SupabaseURL,
		"SUPABASE_SERVICE_KEY": cfg.SupabaseKey,
		"GEMINI_API_KEY":       cfg.GeminiAPIKey,
		"STYTCH_PROJECT_ID":    cfg.StytchProjectID,
		"STYTCH_SECRET":        cfg.StytchSecret,
		"TOKEN_KEY":            cfg.TokenKey,
	}
	for name, value := range required {
		if value == "" {
			return nil, fmt.Errorf("missing required environment variable %s", name)
		}
	}

	return cfg, nil
}

// IsProduction reports whether the gateway runs with production settings
// (secure cookies, etc.).
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
