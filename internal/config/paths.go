package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultConfigDir  = "configs"
	DefaultConfigFile = "docbook.json"
)

var configNames = []string{"docbook.json", "docbook.yaml", "docbook.yml"}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir, DefaultConfigFile)
}

func SearchDirs() []string {
	return uniqueDirs([]string{
		".",
		DefaultConfigDir,
	})
}

// Find returns the first docbook config file in the search dirs, or "" when
// there is none.
func Find() string {
	for _, dir := range SearchDirs() {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// ListConfigs returns every .json, .yaml or .yml file in the search dirs.
func ListConfigs() []string {
	var out []string
	for _, dir := range SearchDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".json", ".yaml", ".yml":
				out = append(out, filepath.Join(dir, e.Name()))
			}
		}
	}
	return out
}

func uniqueDirs(dirs []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		trimmed := strings.TrimSpace(dir)
		if trimmed == "" {
			continue
		}
		normalized := strings.ToLower(filepath.Clean(trimmed))
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
