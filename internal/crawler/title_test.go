package crawler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go_docbook/internal/crawler"
)

func TestCleanTitle(t *testing.T) {
	tests := map[string]string{
		"Introduction | Acme Docs":    "Acme_Docs",
		"Acme Docs - Getting started": "Acme_Docs",
		"Plain Title":                 "Plain_Title",
		"Intro |  ":                   "Intro",
		"Usual (v2)!":                 "Usual_v2",
		"":                            crawler.DefaultSiteTitle,
		"!!!":                         crawler.DefaultSiteTitle,
	}
	for in, want := range tests {
		if got := crawler.CleanTitle(in); got != want {
			t.Errorf("CleanTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDiscoverTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "title",
			html: `<html><head><title>Welcome | Usual Money</title></head><body></body></html>`,
			want: "Usual_Money",
		},
		{
			name: "og site name wins",
			html: `<html><head><meta property="og:site_name" content="Acme Handbook"><title>Page - Other</title></head></html>`,
			want: "Acme_Handbook",
		},
		{
			name: "non-ascii letters dropped",
			html: `<html><head><title>Accueil | Café Résumé</title></head></html>`,
			want: "Caf_Rsum",
		},
		{
			name: "non-ascii only",
			html: `<html><head><title>ドキュメント | 文档</title></head></html>`,
			want: crawler.DefaultSiteTitle,
		},
		{
			name: "no title",
			html: `<html><body><p>nothing</p></body></html>`,
			want: crawler.DefaultSiteTitle,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				_, _ = w.Write([]byte(tt.html))
			}))
			defer srv.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			got, err := crawler.DiscoverTitle(ctx, srv.URL, crawler.Options{})
			if err != nil {
				t.Fatalf("DiscoverTitle error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDiscoverTitle_FailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	got, err := crawler.DiscoverTitle(context.Background(), srv.URL, crawler.Options{Timeout: 2 * time.Second})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if got != crawler.DefaultSiteTitle {
		t.Fatalf("expected default title, got %q", got)
	}
}

func TestSiteRoot(t *testing.T) {
	got, err := crawler.SiteRoot("https://docs.example.com/sitemap.xml?x=1")
	if err != nil || got != "https://docs.example.com/" {
		t.Fatalf("unexpected %q, %v", got, err)
	}
	if _, err := crawler.SiteRoot("sitemap.xml"); err == nil {
		t.Fatal("expected error for relative URL")
	}
}
