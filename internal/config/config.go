package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"go_docbook/internal/category"
)

type Config struct {
	SitemapURL string `json:"sitemap_url" yaml:"sitemap_url,omitempty"`
	OutputDir  string `json:"output_dir" yaml:"output_dir,omitempty"`
	TempDir    string `json:"temp_dir" yaml:"temp_dir,omitempty"`
	// Document metadata
	Title   string `json:"title" yaml:"title,omitempty"`
	Author  string `json:"author" yaml:"author,omitempty"`
	Creator string `json:"creator" yaml:"creator,omitempty"`
	// Rendering
	Format             string   `json:"format" yaml:"format,omitempty"`
	Backend            string   `json:"backend" yaml:"backend,omitempty"`
	TimeoutSeconds     int      `json:"timeout_seconds" yaml:"timeout_seconds,omitempty"`
	UserAgent          string   `json:"user_agent" yaml:"user_agent,omitempty"`
	WaitForSelector    string   `json:"wait_for" yaml:"wait_for,omitempty"`
	Headless           *bool    `json:"headless" yaml:"headless,omitempty"`
	RateLimitPerSecond float64  `json:"rate_limit_per_second" yaml:"rate_limit_per_second,omitempty"`
	HideSelectors      []string `json:"hide_selectors" yaml:"hide_selectors,omitempty"`
	CookieSelectors    []string `json:"cookie_selectors" yaml:"cookie_selectors,omitempty"`
	Retries            *int     `json:"retries" yaml:"retries,omitempty"`
	// Merging
	Order      string             `json:"order" yaml:"order,omitempty"`
	Chapters   []category.Chapter `json:"chapters" yaml:"chapters,omitempty"`
	Labels     map[string]string  `json:"labels" yaml:"labels,omitempty"`
	Dividers   *bool              `json:"dividers" yaml:"dividers,omitempty"`
	Individual *bool              `json:"individual" yaml:"individual,omitempty"`
	KeepTemp   bool               `json:"keep_temp" yaml:"keep_temp,omitempty"`
	// Sitemap limits
	MaxURLs  int `json:"max_urls" yaml:"max_urls,omitempty"`
	MaxDepth int `json:"max_depth" yaml:"max_depth,omitempty"`
	// Post-processing
	PostCommands []string `json:"post_commands" yaml:"post_commands,omitempty"`
}

// Load reads a config file. Files ending in .yaml or .yml are parsed as
// YAML, anything else as JSON.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Marshal(cfg Config) ([]byte, error) {
	return json.MarshalIndent(cfg, "", "  ")
}

func MarshalYAML(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Save writes cfg to path in the format its extension names.
func Save(path string, cfg Config) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = MarshalYAML(cfg)
	} else {
		data, err = Marshal(cfg)
	}
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
