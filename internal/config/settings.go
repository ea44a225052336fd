package config

import (
	"context"
	"fmt"

	"github.com/nao1215/sitepulse/internal/kvstore"
)

// SettingsKey is the store key holding the persisted settings object.
const SettingsKey = "settings"

// Settings is the user-editable object persisted in the key-value store.
type Settings struct {
	APIKey string `json:"apiKey,omitempty"`
}

// LoadSettings returns the persisted settings. A missing or corrupt value
// reads as empty settings.
func LoadSettings(ctx context.Context, kv kvstore.Store) (Settings, error) {
	var s Settings
	ok, err := kvstore.GetJSON(ctx, kv, SettingsKey, &s)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if !ok {
		return Settings{}, nil
	}
	return s, nil
}

// SaveSettings persists s.
func SaveSettings(ctx context.Context, kv kvstore.Store, s Settings) error {
	if err := kvstore.SetJSON(ctx, kv, SettingsKey, s); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// ResolveAPIKey returns the configured API key, falling back to the
// persisted settings when neither flags, environment nor file set one.
func (c *Config) ResolveAPIKey(ctx context.Context, kv kvstore.Store) (string, error) {
	if c.APIKey != "" {
		return c.APIKey, nil
	}
	if kv == nil {
		return "", nil
	}
	s, err := LoadSettings(ctx, kv)
	if err != nil {
		return "", err
	}
	return s.APIKey, nil
}
