// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// =============================================================================
// DEFAULTS AND VALIDATION TESTS
// =============================================================================

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Backend.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("Backend.BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.RequestsPerSecond != 2 {
		t.Errorf("Backend.RequestsPerSecond = %v", cfg.Backend.RequestsPerSecond)
	}
	if cfg.Storage.MaxConversations != 100 {
		t.Errorf("Storage.MaxConversations = %d", cfg.Storage.MaxConversations)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("UI.Theme = %q", cfg.UI.Theme)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid default",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "bad backend url",
			mutate:  func(c *Config) { c.Backend.BaseURL = "not a url" },
			wantErr: "backend.base_url",
		},
		{
			name:    "negative rate",
			mutate:  func(c *Config) { c.Backend.RequestsPerSecond = -1 },
			wantErr: "backend.requests_per_second",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Backend.TimeoutSecs = -5 },
			wantErr: "backend.timeout_secs",
		},
		{
			name:    "conversation limit too large",
			mutate:  func(c *Config) { c.Storage.MaxConversations = 200000 },
			wantErr: "storage.max_conversations",
		},
		{
			name:    "bad theme",
			mutate:  func(c *Config) { c.UI.Theme = "neon" },
			wantErr: "ui.theme",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	if cfg.Backend.BaseURL == "" {
		t.Error("SetDefaults should fill backend URL")
	}
	if cfg.Backend.RequestsPerSecond == 0 {
		t.Error("SetDefaults should fill request rate")
	}
	if cfg.UI.Theme == "" {
		t.Error("SetDefaults should fill theme")
	}
}

// =============================================================================
// FILE ROUND-TRIP TESTS
// =============================================================================

func TestConfig_TOMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[backend]
base_url = "http://localhost:9999"
requests_per_second = 5.0

[storage]
max_conversations = 10

[ui]
theme = "light"
compact_mode = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}

	if cfg.Backend.BaseURL != "http://localhost:9999" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.RequestsPerSecond != 5 {
		t.Errorf("RequestsPerSecond = %v", cfg.Backend.RequestsPerSecond)
	}
	if cfg.Storage.MaxConversations != 10 {
		t.Errorf("MaxConversations = %d", cfg.Storage.MaxConversations)
	}
	if cfg.UI.Theme != "light" || !cfg.UI.CompactMode {
		t.Errorf("UI = %+v", cfg.UI)
	}

	// Values absent from the file keep their defaults.
	if cfg.Backend.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d, want default 30", cfg.Backend.TimeoutSecs)
	}
}

func TestConfig_JSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.Backend.ConversationID = "session-42"

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	loaded := &Config{}
	if err := LoadJSON(loaded, path); err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if loaded.Backend.ConversationID != "session-42" {
		t.Errorf("ConversationID = %q", loaded.Backend.ConversationID)
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES TESTS
// =============================================================================

func TestConfig_ApplyEnvOverrides(t *testing.T) {
	t.Setenv("PLANWISE_BACKEND_URL", "http://example.com:8000")
	t.Setenv("PLANWISE_CONVERSATION_ID", "env-conv")
	t.Setenv("PLANWISE_THEME", "light")
	t.Setenv("PLANWISE_COMPACT", "true")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Backend.BaseURL != "http://example.com:8000" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.ConversationID != "env-conv" {
		t.Errorf("ConversationID = %q", cfg.Backend.ConversationID)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
	if !cfg.UI.CompactMode {
		t.Error("CompactMode should be enabled via env")
	}
}

// =============================================================================
// DOT NOTATION TESTS
// =============================================================================

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	// Get
	val, err := cfg.Get("backend.base_url")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "http://127.0.0.1:8000" {
		t.Errorf("Get(backend.base_url) = %v", val)
	}

	// Set with string conversion
	if err := cfg.Set("backend.requests_per_second", "4.5"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if cfg.Backend.RequestsPerSecond != 4.5 {
		t.Errorf("RequestsPerSecond = %v after Set", cfg.Backend.RequestsPerSecond)
	}

	// Set bool
	if err := cfg.Set("ui.compact_mode", "true"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !cfg.UI.CompactMode {
		t.Error("CompactMode should be true after Set")
	}

	// Unknown key
	if _, err := cfg.Get("backend.nonexistent"); err == nil {
		t.Error("Get of unknown key should fail")
	}
	if err := cfg.Set("nope.nope", "x"); err == nil {
		t.Error("Set of unknown key should fail")
	}
}

func TestGetAllKeys(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q) failed: %v", key, err)
		}
	}
}

// =============================================================================
// MERGE TESTS
// =============================================================================

func TestConfig_Merge(t *testing.T) {
	base := Default()
	other := &Config{
		Backend: BackendConfig{BaseURL: "http://other:8000"},
		UI:      UIConfig{Theme: "light"},
	}

	base.Merge(other)

	if base.Backend.BaseURL != "http://other:8000" {
		t.Errorf("BaseURL = %q after merge", base.Backend.BaseURL)
	}
	if base.UI.Theme != "light" {
		t.Errorf("Theme = %q after merge", base.UI.Theme)
	}
	// Zero values in other must not clobber base.
	if base.Backend.RequestsPerSecond != 2 {
		t.Errorf("RequestsPerSecond = %v after merge", base.Backend.RequestsPerSecond)
	}
}

// =============================================================================
// GLOBAL SINGLETON TESTS
// =============================================================================

// TestConfig_ConcurrentAccess tests that Global(), SetGlobal(), and ReloadGlobal()
// can be safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	// Reset state before test
	ResetGlobalForTesting()

	var wg sync.WaitGroup

	// 50 writers using SetGlobal, 50 readers using Global
	for i := 0; i < 50; i++ {
		wg.Add(2)

		// Writer goroutine
		go func(id int) {
			defer wg.Done()
			c := &Config{
				Version: "test",
				Backend: BackendConfig{
					BaseURL: "http://127.0.0.1:8000",
				},
			}
			SetGlobal(c)
		}(i)

		// Reader goroutine
		go func(id int) {
			defer wg.Done()
			cfg := Global()
			if cfg == nil {
				t.Error("Global() returned nil")
			}
		}(i)
	}

	wg.Wait()
}

// TestConfig_ConcurrentReload tests concurrent ReloadGlobal and Global calls.
func TestConfig_ConcurrentReload(t *testing.T) {
	// Reset state before test
	ResetGlobalForTesting()

	// Initialize config first
	_ = Global()

	var wg sync.WaitGroup

	// 20 reloaders, 80 readers
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// ReloadGlobal may fail if config file doesn't exist, that's ok
			_ = ReloadGlobal()
		}()
	}

	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cfg := Global()
			if cfg == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}

// TestConfig_GlobalInitialization tests that Global() properly initializes
// the config on first access.
func TestConfig_GlobalInitialization(t *testing.T) {
	// Reset state before test
	ResetGlobalForTesting()

	cfg := Global()
	if cfg == nil {
		t.Fatal("Global() returned nil")
	}

	// Verify defaults are applied
	if cfg.Version == "" {
		t.Error("Config version should not be empty")
	}
	if cfg.Backend.BaseURL == "" {
		t.Error("Backend base URL should not be empty")
	}
}

// TestConfig_SetGlobalOverwrites tests that SetGlobal properly overwrites
// the existing global config.
func TestConfig_SetGlobalOverwrites(t *testing.T) {
	// Reset state before test
	ResetGlobalForTesting()

	// Initialize with defaults
	_ = Global()

	// Set custom config
	customCfg := &Config{
		Version: "custom-version",
	}
	SetGlobal(customCfg)

	got := Global()
	if got.Version != "custom-version" {
		t.Errorf("Global().Version = %q, want custom-version", got.Version)
	}
}
