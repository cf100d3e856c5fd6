package category_test

import (
	"reflect"
	"testing"

	"go_docbook/internal/category"
)

func TestCategorizeURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://docs.example.com", "root"},
		{"https://docs.example.com/", "root"},
		{"https://docs.example.com/start-here", "start-here"},
		{"https://docs.example.com/start-here/", "start-here"},
		{"https://docs.example.com/products/usd0/details", "usd0"},
		{"https://docs.example.com/products/usd0/details/deeper", "usd0"},
		{"https://docs.example.com/products/usd0", "usd0"},
		{"https://docs.example.com/faq?lang=en", "faq"},
		{"https://docs.example.com/a/b#section", "b"},
		{"https://docs.example.com/a//", "unknown"},
	}
	for _, tt := range tests {
		if got := category.CategorizeURL(tt.url); got != tt.want {
			t.Errorf("CategorizeURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestCategorizeURL_DeepPathsCollapse(t *testing.T) {
	a := category.CategorizeURL("https://h/guides/setup/linux")
	b := category.CategorizeURL("https://h/guides/setup/windows/advanced")
	if a != b || a != "setup" {
		t.Fatalf("expected both to collapse to setup, got %q and %q", a, b)
	}
}

func TestCategorizerImplementations(t *testing.T) {
	var c category.Categorizer = category.PathCategorizer{}
	if got := c.Categorize("https://h/start-here"); got != "start-here" {
		t.Fatalf("PathCategorizer: got %q", got)
	}
	c = category.Func(func(string) string { return "fixed" })
	if got := c.Categorize("https://h/anything"); got != "fixed" {
		t.Fatalf("Func: got %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"usual-products":          "Usual Products",
		"resources-and-ecosystem": "Resources And Ecosystem",
		"faq":                     "Faq",
		"snake_case_name":         "Snake Case Name",
		"":                        "",
	}
	for in, want := range tests {
		if got := category.DisplayName(in); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLabels(t *testing.T) {
	labels := category.Labels{"usd0": "USD0 Stablecoin", "blank": "  "}
	if got := labels.Label("usd0"); got != "USD0 Stablecoin" {
		t.Fatalf("override: got %q", got)
	}
	if got := labels.Label("blank"); got != "Blank" {
		t.Fatalf("blank override should fall back, got %q", got)
	}
	if got := labels.Label("root"); got != "Home" {
		t.Fatalf("root default: got %q", got)
	}
	var none category.Labels
	if got := none.Label("start-here"); got != "Start Here" {
		t.Fatalf("nil labels: got %q", got)
	}
}

func TestLexicographicOrdering(t *testing.T) {
	got := category.Lexicographic{}.Chapters([]string{"b", "a", "c", "a"})
	want := []category.Chapter{
		{Categories: []string{"a"}},
		{Categories: []string{"b"}},
		{Categories: []string{"c"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestEditorialOrdering(t *testing.T) {
	ord := category.Editorial{Layout: []category.Chapter{
		{Title: "Start", Categories: []string{"start-here"}},
		{Title: "Missing", Categories: []string{"nothing-here"}},
		{Title: "Products", Categories: []string{"products", "start-here"}},
	}}
	got := ord.Chapters([]string{"zeta", "products", "root", "start-here", "alpha"})
	want := []category.Chapter{
		{Title: "Start", Categories: []string{"start-here"}},
		{Title: "Products", Categories: []string{"products"}},
		{Title: "Other Pages", Categories: []string{"alpha", "root", "zeta"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestEditorialOrdering_ExistingFallbackChapter(t *testing.T) {
	ord := category.Editorial{Layout: category.DefaultChapters()}
	got := ord.Chapters([]string{"root", "misc", "start-here"})
	want := []category.Chapter{
		{Title: "Start Here", Categories: []string{"start-here"}},
		{Title: "Other Pages", Categories: []string{"root", "misc"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestNewOrdering(t *testing.T) {
	if o, err := category.NewOrdering("", nil); err != nil {
		t.Fatalf("default: %v", err)
	} else if _, ok := o.(category.Lexicographic); !ok {
		t.Fatalf("default should be lexicographic, got %T", o)
	}
	o, err := category.NewOrdering("Editorial", nil)
	if err != nil {
		t.Fatalf("editorial: %v", err)
	}
	ed, ok := o.(category.Editorial)
	if !ok || len(ed.Layout) != len(category.DefaultChapters()) {
		t.Fatalf("editorial should use default chapters, got %#v", o)
	}
	if _, err := category.NewOrdering("random", nil); err == nil {
		t.Fatalf("expected error for unknown order")
	}
}
