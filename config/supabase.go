package config

import (
	"fmt"

	supa "github.com/supabase-community/supabase-go"
)

// NewSupabase constructs the Supabase client from the loaded configuration.
func NewSupabase(cfg *Config) (*supa.Client, error) {
	client, err := supa.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, nil)
	if err != nil {
		return nil, fmt.Errorf("initialize supabase client: %w", err)
	}
	return client, nil
}
