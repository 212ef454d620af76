// Copyright (c) 2025 The SkillPass developers
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package config holds the settings an embedding application hands to the
// ledger: where state lives, who the authority is, and how chatty the
// library logs are. The file format is plain key=value lines.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Config holds ledger settings.
type Config struct {
	// DataDir is the root directory for ledger state.
	DataDir string

	// StorePath is the bbolt database file. Empty means
	// DataDir/ledger.db.
	StorePath string

	// Authority is the hex identity allowed to initialize, mint, slash,
	// and verify. Empty defers the check to first use.
	Authority string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// DefaultConfig returns the default settings. DataDir defaults to
// ~/.skillpass.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:  filepath.Join(home, ".skillpass"),
		LogLevel: "info",
	}
}

// ConfigPath returns the conventional config file path under dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// ResolvedStorePath returns the store path, applying the default when the
// field is empty.
func (c Config) ResolvedStorePath() string {
	if c.StorePath != "" {
		return c.StorePath
	}
	return filepath.Join(c.DataDir, "ledger.db")
}

// LoadConfig reads a key=value config file. Blank lines and lines starting
// with '#' are ignored; unknown keys are skipped so older binaries can
// read newer files.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return Config{}, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, i+1, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "datadir":
			cfg.DataDir = value
		case "storepath":
			cfg.StorePath = value
		case "authority":
			cfg.Authority = value
		case "loglevel":
			cfg.LogLevel = value
		}
	}
	return cfg, nil
}

// SaveConfig writes the config as key=value lines, creating parent
// directories as needed. Keys are written in sorted order so files diff
// cleanly.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	entries := map[string]string{
		"datadir":   cfg.DataDir,
		"storepath": cfg.StorePath,
		"authority": cfg.Authority,
		"loglevel":  cfg.LogLevel,
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		if entries[k] == "" {
			continue
		}
		fmt.Fprintf(&b, "%s=%s\n", k, entries[k])
	}

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
