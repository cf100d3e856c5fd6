package testconfigs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("ignore"), 0600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "empty.json"), []byte(`{}`), 0600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	if err := Run([]string{"--dir", dir}); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRun_ReportsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("sitemap_url: [\n"), 0600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	err := Run([]string{"--dir", dir})
	if err == nil || !strings.Contains(err.Error(), "1 config") {
		t.Fatalf("expected one failure, got %v", err)
	}
}

func TestCheckConfig_DryRunResolvesSitemap(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/sitemap.xml" {
			_, _ = w.Write([]byte(`<urlset><url><loc>` + srv.URL + `/guide</loc></url></urlset>`))
			return
		}
		_, _ = w.Write([]byte(`<html><head><title>Guide | Example Docs</title></head></html>`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "site.json")
	body := `{"sitemap_url": "` + srv.URL + `/sitemap.xml", "output_dir": "` + filepath.ToSlash(filepath.Join(dir, "out")) + `"}`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	res := checkConfig(context.Background(), path, options{TimeoutSec: 5})
	if res.Err != nil || res.Status != "OK" {
		t.Fatalf("unexpected outcome: %+v", res)
	}
	if _, err := os.Stat(filepath.Join(dir, "out")); !os.IsNotExist(err) {
		t.Fatalf("dry run must not write output, stat err = %v", err)
	}
}

func TestCheckConfig_InvalidOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte(`{"sitemap_url": "https://x.example/sitemap.xml", "order": "random"}`), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	res := checkConfig(context.Background(), path, options{})
	if res.Status != "INVALID" || res.Err == nil {
		t.Fatalf("unexpected outcome: %+v", res)
	}
}
