package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go_docbook/internal/category"
	"go_docbook/internal/config"
)

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

func TestLoadConfig(t *testing.T) {
	data := []byte(`{
  "sitemap_url": "https://docs.example.com/sitemap.xml",
  "output_dir": "output/test",
  "temp_dir": "tmp/pages",
  "title": "Example Handbook",
  "author": "Example",
  "format": "png",
  "backend": "chromedp",
  "timeout_seconds": 42,
  "user_agent": "test-agent",
  "wait_for": "main",
  "headless": true,
  "rate_limit_per_second": 2.5,
  "hide_selectors": [".nav"],
  "retries": 0,
  "order": "editorial",
  "chapters": [{"title": "Start", "categories": ["start-here"]}],
  "labels": {"root": "Welcome"},
  "dividers": false,
  "max_urls": 50,
  "max_depth": 2,
  "post_commands": ["echo done"]
}`)

	path := filepath.Join(t.TempDir(), "docbook.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	expected := config.Config{
		SitemapURL:         "https://docs.example.com/sitemap.xml",
		OutputDir:          "output/test",
		TempDir:            "tmp/pages",
		Title:              "Example Handbook",
		Author:             "Example",
		Format:             "png",
		Backend:            "chromedp",
		TimeoutSeconds:     42,
		UserAgent:          "test-agent",
		WaitForSelector:    "main",
		Headless:           boolPtr(true),
		RateLimitPerSecond: 2.5,
		HideSelectors:      []string{".nav"},
		Retries:            intPtr(0),
		Order:              "editorial",
		Chapters:           []category.Chapter{{Title: "Start", Categories: []string{"start-here"}}},
		Labels:             map[string]string{"root": "Welcome"},
		Dividers:           boolPtr(false),
		MaxURLs:            50,
		MaxDepth:           2,
		PostCommands:       []string{"echo done"},
	}

	if !reflect.DeepEqual(cfg, expected) {
		t.Fatalf("config mismatch\nexpected: %#v\ngot:      %#v", expected, cfg)
	}
}

func TestLoadYAMLConfig(t *testing.T) {
	data := []byte(`sitemap_url: https://docs.example.com/sitemap.xml
backend: rod
headless: false
order: editorial
chapters:
  - title: Products
    categories: [usual-products, usd0]
labels:
  usd0: USD0
individual: true
keep_temp: true
`)
	path := filepath.Join(t.TempDir(), "docbook.yaml")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Backend != "rod" || cfg.Headless == nil || *cfg.Headless {
		t.Fatalf("unexpected backend or headless: %#v", cfg)
	}
	if len(cfg.Chapters) != 1 || !reflect.DeepEqual(cfg.Chapters[0].Categories, []string{"usual-products", "usd0"}) {
		t.Fatalf("unexpected chapters %#v", cfg.Chapters)
	}
	if cfg.Labels["usd0"] != "USD0" || cfg.Individual == nil || !*cfg.Individual || !cfg.KeepTemp {
		t.Fatalf("unexpected config %#v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected missing file error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := config.Config{
		SitemapURL: "https://docs.example.com/sitemap.xml",
		Format:     "pdf",
		Headless:   boolPtr(true),
		Labels:     map[string]string{"root": "Home"},
	}
	for _, name := range []string{"out/docbook.json", "out/docbook.yml"} {
		path := filepath.Join(t.TempDir(), name)
		if err := config.Save(path, cfg); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
		got, err := config.Load(path)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if !reflect.DeepEqual(got, cfg) {
			t.Fatalf("%s mismatch\nexpected: %#v\ngot:      %#v", name, cfg, got)
		}
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if got := config.Find(); got != "" {
		t.Fatalf("expected no config, got %q", got)
	}

	if err := os.MkdirAll(config.DefaultConfigDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	yamlPath := filepath.Join(config.DefaultConfigDir, "docbook.yaml")
	if err := os.WriteFile(yamlPath, []byte("format: png\n"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := config.Find(); got != yamlPath {
		t.Fatalf("expected %q, got %q", yamlPath, got)
	}

	if err := os.WriteFile("docbook.json", []byte("{}"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := config.Find(); got != filepath.Join(".", "docbook.json") {
		t.Fatalf("expected working dir config first, got %q", got)
	}

	listed := config.ListConfigs()
	if len(listed) != 2 {
		t.Fatalf("expected 2 configs listed, got %v", listed)
	}
}
