package app

import (
	"fmt"
	"sort"
	"strings"

	"go_docbook/internal/category"
)

func printSummary(res Result) {
	line := strings.Repeat("-", 48)
	fmt.Println(line)
	fmt.Printf("Project folder: %s\n", res.ProjectDir)
	fmt.Printf("Merged PDF: %s\n", res.MergedPath)
	if res.IndividualDir != "" {
		fmt.Printf("Individual files: %s\n", res.IndividualDir)
	}
	fmt.Printf("Manifest: %s\n", res.ManifestPath)
	fmt.Printf("Page index: %s\n", res.IndexPath)
	fmt.Printf("Pages rendered: %d, failed: %d\n", res.Manifest.Rendered, res.Manifest.Failed)
	fmt.Printf("Total pages in document: %d (table of contents: %d)\n", res.Merge.Pages, res.Merge.TOCPages)

	fmt.Println("Table of contents:")
	for _, e := range res.Merge.Entries {
		fmt.Printf("  %s%s ... %d\n", strings.Repeat("  ", e.Level), e.Label, e.StartPage)
	}

	if failures := describeFailures(res.Manifest.Pages); len(failures) > 0 {
		fmt.Println("Failed pages:")
		printList(failures)
	}
	fmt.Println(line)
}

// printPlan lists the URLs per category without rendering anything.
func printPlan(urls []string, c category.Categorizer, labels category.Labels) {
	groups := map[string][]string{}
	for _, u := range urls {
		cat := c.Categorize(u)
		groups[cat] = append(groups[cat], u)
	}
	cats := make([]string, 0, len(groups))
	for cat := range groups {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	for _, cat := range cats {
		fmt.Printf("%s (%s): %d pages\n", labels.Label(cat), cat, len(groups[cat]))
		printList(groups[cat])
	}
}

func printList(items []string) {
	if len(items) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
}
