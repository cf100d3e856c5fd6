package crawler_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"go_docbook/internal/crawler"
)

const urlsetTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">%s</urlset>`

const indexTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">%s</sitemapindex>`

func urlset(locs ...string) string {
	var b strings.Builder
	for _, l := range locs {
		b.WriteString("<url><loc>" + l + "</loc></url>")
	}
	return strings.Replace(urlsetTemplate, "%s", b.String(), 1)
}

func index(locs ...string) string {
	var b strings.Builder
	for _, l := range locs {
		b.WriteString("<sitemap><loc>" + l + "</loc></sitemap>")
	}
	return strings.Replace(indexTemplate, "%s", b.String(), 1)
}

func xmlHandler(body func(host string) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(body("http://" + r.Host)))
	}
}

func resolve(t *testing.T, url string, opts crawler.SitemapOptions) ([]string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return crawler.ParseSitemap(ctx, url, opts)
}

func TestParseSitemap_BasicURLSet(t *testing.T) {
	srv := httptest.NewServer(xmlHandler(func(string) string {
		return urlset("https://example.com/page1", "https://example.com/page2", "https://example.com/page3")
	}))
	defer srv.Close()

	urls, err := resolve(t, srv.URL, crawler.SitemapOptions{})
	if err != nil {
		t.Fatalf("parse sitemap failed: %v", err)
	}
	expected := []string{
		"https://example.com/page1",
		"https://example.com/page2",
		"https://example.com/page3",
	}
	if !reflect.DeepEqual(urls, expected) {
		t.Fatalf("expected %v, got %v", expected, urls)
	}
}

func TestParseSitemap_IndexFlattensInListedOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap-index.xml", xmlHandler(func(host string) string {
		return index(host+"/sitemap2.xml", host+"/nested-index.xml", host+"/sitemap1.xml")
	}))
	mux.HandleFunc("/nested-index.xml", xmlHandler(func(host string) string {
		return index(host + "/sitemap3.xml")
	}))
	mux.HandleFunc("/sitemap1.xml", xmlHandler(func(string) string {
		return urlset("https://example.com/a1", "https://example.com/a2")
	}))
	mux.HandleFunc("/sitemap2.xml", xmlHandler(func(string) string {
		return urlset("https://example.com/b1", "https://example.com/b2")
	}))
	mux.HandleFunc("/sitemap3.xml", xmlHandler(func(string) string {
		return urlset("https://example.com/c1")
	}))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	urls, err := resolve(t, srv.URL+"/sitemap-index.xml", crawler.SitemapOptions{})
	if err != nil {
		t.Fatalf("parse sitemap failed: %v", err)
	}
	expected := []string{
		"https://example.com/b1",
		"https://example.com/b2",
		"https://example.com/c1",
		"https://example.com/a1",
		"https://example.com/a2",
	}
	if !reflect.DeepEqual(urls, expected) {
		t.Fatalf("expected %v, got %v", expected, urls)
	}
}

func TestParseSitemap_EmptyURLs(t *testing.T) {
	srv := httptest.NewServer(xmlHandler(func(string) string {
		return urlset("https://example.com/valid", "  ", "")
	}))
	defer srv.Close()

	urls, err := resolve(t, srv.URL, crawler.SitemapOptions{})
	if err != nil {
		t.Fatalf("parse sitemap failed: %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://example.com/valid" {
		t.Fatalf("expected only the valid URL, got %v", urls)
	}
}

func TestParseSitemap_404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := resolve(t, srv.URL, crawler.SitemapOptions{})
	if !errors.Is(err, crawler.ErrSitemapUnavailable) {
		t.Fatalf("expected ErrSitemapUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), srv.URL) {
		t.Fatalf("error should name the sitemap URL, got %v", err)
	}
}

func TestParseSitemap_NestedFailureAborts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/index.xml", xmlHandler(func(host string) string {
		return index(host+"/ok.xml", host+"/missing.xml")
	}))
	mux.HandleFunc("/ok.xml", xmlHandler(func(string) string {
		return urlset("https://example.com/ok")
	}))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := resolve(t, srv.URL+"/index.xml", crawler.SitemapOptions{})
	if !errors.Is(err, crawler.ErrSitemapUnavailable) {
		t.Fatalf("expected ErrSitemapUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "/missing.xml") {
		t.Fatalf("error should name the failing child, got %v", err)
	}
}

func TestParseSitemap_MalformedXML(t *testing.T) {
	srv := httptest.NewServer(xmlHandler(func(string) string {
		return "<urlset><url><loc>https://example.com/a</loc>"
	}))
	defer srv.Close()

	_, err := resolve(t, srv.URL, crawler.SitemapOptions{})
	if !errors.Is(err, crawler.ErrSitemapUnavailable) {
		t.Fatalf("expected ErrSitemapUnavailable, got %v", err)
	}
}

func TestParseSitemap_UnknownRootIsEmpty(t *testing.T) {
	srv := httptest.NewServer(xmlHandler(func(string) string {
		return `<?xml version="1.0"?><rss><channel><link>https://example.com</link></channel></rss>`
	}))
	defer srv.Close()

	_, err := resolve(t, srv.URL, crawler.SitemapOptions{})
	if !errors.Is(err, crawler.ErrEmptySitemap) {
		t.Fatalf("expected ErrEmptySitemap, got %v", err)
	}
}

func TestParseSitemap_NoEntriesIsEmpty(t *testing.T) {
	srv := httptest.NewServer(xmlHandler(func(string) string { return urlset() }))
	defer srv.Close()

	_, err := resolve(t, srv.URL, crawler.SitemapOptions{})
	if !errors.Is(err, crawler.ErrEmptySitemap) {
		t.Fatalf("expected ErrEmptySitemap, got %v", err)
	}
}

func TestParseSitemap_CycleIsVisitedOnce(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a.xml", xmlHandler(func(host string) string {
		return index(host+"/b.xml", host+"/pages.xml")
	}))
	mux.HandleFunc("/b.xml", xmlHandler(func(host string) string {
		return index(host + "/a.xml")
	}))
	mux.HandleFunc("/pages.xml", xmlHandler(func(string) string {
		return urlset("https://example.com/p")
	}))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	urls, err := resolve(t, srv.URL+"/a.xml", crawler.SitemapOptions{})
	if err != nil {
		t.Fatalf("parse sitemap failed: %v", err)
	}
	if !reflect.DeepEqual(urls, []string{"https://example.com/p"}) {
		t.Fatalf("unexpected urls %v", urls)
	}
}

func TestParseSitemap_MaxDepth(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/root.xml", xmlHandler(func(host string) string {
		return index(host+"/pages.xml", host+"/deep.xml")
	}))
	mux.HandleFunc("/deep.xml", xmlHandler(func(host string) string {
		return index(host + "/deeper.xml")
	}))
	mux.HandleFunc("/deeper.xml", xmlHandler(func(string) string {
		return urlset("https://example.com/too-deep")
	}))
	mux.HandleFunc("/pages.xml", xmlHandler(func(string) string {
		return urlset("https://example.com/p")
	}))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	urls, err := resolve(t, srv.URL+"/root.xml", crawler.SitemapOptions{MaxDepth: 1})
	if err != nil {
		t.Fatalf("parse sitemap failed: %v", err)
	}
	if !reflect.DeepEqual(urls, []string{"https://example.com/p"}) {
		t.Fatalf("expected nested index beyond depth to be skipped, got %v", urls)
	}
}

func TestParseSitemap_MaxURLs(t *testing.T) {
	srv := httptest.NewServer(xmlHandler(func(string) string {
		return urlset("https://example.com/1", "https://example.com/2", "https://example.com/3")
	}))
	defer srv.Close()

	urls, err := resolve(t, srv.URL, crawler.SitemapOptions{MaxURLs: 2})
	if err != nil {
		t.Fatalf("parse sitemap failed: %v", err)
	}
	if len(urls) != 2 || urls[1] != "https://example.com/2" {
		t.Fatalf("expected first two URLs, got %v", urls)
	}
}

func TestParseSitemap_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte(urlset("https://example.com/zipped")))
	_ = zw.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	urls, err := resolve(t, srv.URL+"/sitemap.xml.gz", crawler.SitemapOptions{})
	if err != nil {
		t.Fatalf("parse sitemap failed: %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://example.com/zipped" {
		t.Fatalf("unexpected urls %v", urls)
	}
}

func TestParseSitemap_UserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		_, _ = w.Write([]byte(urlset("https://example.com/a")))
	}))
	defer srv.Close()

	opts := crawler.SitemapOptions{Options: crawler.Options{UserAgent: "docbook-test/2"}}
	if _, err := resolve(t, srv.URL, opts); err != nil {
		t.Fatalf("parse sitemap failed: %v", err)
	}
	if gotUA != "docbook-test/2" {
		t.Fatalf("expected custom user agent, got %q", gotUA)
	}
}

func TestParseSitemap_EmptyURLArgument(t *testing.T) {
	_, err := resolve(t, " ", crawler.SitemapOptions{})
	if !errors.Is(err, crawler.ErrSitemapUnavailable) {
		t.Fatalf("expected ErrSitemapUnavailable, got %v", err)
	}
}
