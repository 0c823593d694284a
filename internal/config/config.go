// Package config loads the changed-filter configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brady-zip/changed-filter/internal/utils"
)

// AppConfig defines the global changed-filter configuration options.
type AppConfig struct {
	Editor      string   // Command used to open the selected file; $EDITOR when empty
	EditorArgs  []string // Extra arguments placed before the file path
	Theme       string   // Theme name: see theme.AvailableThemes
	AutoRefresh bool     // Refresh status while a panel is open (default: true)
	ShowIcons   bool     // Render devicons next to file paths (default: true)
	DebugLog    string   // Debug log file path
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		AutoRefresh: true,
		ShowIcons:   true,
	}
}

// fileConfig mirrors the YAML document. EditorArgs accepts either a single
// string or a list.
type fileConfig struct {
	Editor      string `yaml:"editor"`
	EditorArgs  any    `yaml:"editor_args"`
	Theme       string `yaml:"theme"`
	AutoRefresh *bool  `yaml:"auto_refresh"`
	ShowIcons   *bool  `yaml:"show_icons"`
	DebugLog    string `yaml:"debug_log"`
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "changedfilter", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "changedfilter", "config.yaml")
}

// LoadConfig reads the configuration from path, falling back to the
// default location when path is empty. A missing file is not an error;
// defaults are returned.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	expanded, err := utils.ExpandPath(path)
	if err == nil {
		path = expanded
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.Editor = strings.TrimSpace(fc.Editor)
	cfg.EditorArgs = normalizeArgsList(fc.EditorArgs)
	cfg.Theme = strings.TrimSpace(fc.Theme)
	cfg.DebugLog = strings.TrimSpace(fc.DebugLog)
	if fc.AutoRefresh != nil {
		cfg.AutoRefresh = *fc.AutoRefresh
	}
	if fc.ShowIcons != nil {
		cfg.ShowIcons = *fc.ShowIcons
	}

	return cfg, nil
}

// normalizeArgsList accepts a string (split on whitespace) or a YAML list
// and returns the cleaned argument slice.
func normalizeArgsList(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return strings.Fields(v)
	case []any:
		var args []string
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				continue
			}
			s = strings.TrimSpace(s)
			if s != "" {
				args = append(args, s)
			}
		}
		return args
	default:
		return nil
	}
}
