// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for planwise.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - BackendConfig: Planner backend connection settings
//   - StorageConfig: Conversation persistence settings
//   - UIConfig: Terminal UI settings
//   - Watcher: Live reload of the config file via fsnotify
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (PLANWISE_*)
//   - ~/.planwise/config.toml
//   - ~/.planwise/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	baseURL := cfg.Backend.BaseURL
//	theme := cfg.UI.Theme
package config
