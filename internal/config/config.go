package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sorenpeters/nota/internal/pathutil"
	"github.com/sorenpeters/nota/internal/search"
)

const (
	defaultAutoSaveSeconds = 5
	defaultTabWidth        = 4
)

// SearchConfig controls workspace indexing and search behavior.
type SearchConfig struct {
	EnableBody     bool     `yaml:"enable_body"     json:"enable_body"`
	IgnoredFolders []string `yaml:"ignored_folders" json:"ignored_folders"`
}

// EditorConfig controls the modal editor.
type EditorConfig struct {
	AutoSaveSeconds int `yaml:"autosave_seconds" json:"autosave_seconds"`
	TabWidth        int `yaml:"tab_width"        json:"tab_width"`
	// Keybindings overrides the default key-to-action table. Keys are key
	// descriptor strings, values are action names understood by keymap.
	Keybindings map[string]string `yaml:"keybindings" json:"keybindings"`
}

// Config is the resolved application configuration. It is constructed once
// at startup and passed by value into constructors; nothing mutates it
// afterwards.
type Config struct {
	VaultDir string       `yaml:"vaultdir" json:"vault_dir"`
	Editor   EditorConfig `yaml:"editor"   json:"editor"`
	Search   SearchConfig `yaml:"search"   json:"search"`
}

// Load reads the configuration file under the user's home directory. An
// empty or missing file yields defaults with the vault rooted at
// ~/notes.
func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Defaults are populated before unmarshalling so absent keys keep them
	// while explicit values, including false booleans, win.
	cfg := &Config{
		Search: SearchConfig{EnableBody: true},
	}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyDefaults(home)
	cfg.syncViper()
	return cfg, nil
}

// Save writes the configuration back to its file under home.
func (cfg *Config) Save(home string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	path := GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (cfg *Config) applyDefaults(home string) {
	if strings.TrimSpace(cfg.VaultDir) == "" {
		cfg.VaultDir = filepath.Join(home, "notes")
	}
	cfg.VaultDir = pathutil.NormalizePath(cfg.VaultDir)

	if cfg.Editor.AutoSaveSeconds <= 0 {
		cfg.Editor.AutoSaveSeconds = defaultAutoSaveSeconds
	}
	if cfg.Editor.TabWidth <= 0 {
		cfg.Editor.TabWidth = defaultTabWidth
	}
}

// syncViper mirrors resolved values into the global viper instance so
// command flags and config lookups agree.
func (cfg *Config) syncViper() {
	viper.Set("vaultdir", cfg.VaultDir)
	viper.Set("editor.autosave_seconds", cfg.Editor.AutoSaveSeconds)
	viper.Set("editor.tab_width", cfg.Editor.TabWidth)
	viper.Set("search.enable_body", cfg.Search.EnableBody)
}

// AutoSaveInterval returns the idle interval after which a dirty buffer is
// flushed.
func (cfg *Config) AutoSaveInterval() time.Duration {
	seconds := cfg.Editor.AutoSaveSeconds
	if seconds <= 0 {
		seconds = defaultAutoSaveSeconds
	}
	return time.Duration(seconds) * time.Second
}

// SearchOptions converts the configuration into index options.
func (cfg *Config) SearchOptions() search.Config {
	return search.Config{
		EnableBody:     cfg.Search.EnableBody,
		IgnoredFolders: append([]string(nil), cfg.Search.IgnoredFolders...),
	}
}
