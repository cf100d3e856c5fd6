package merge

import (
	"go_docbook/internal/category"
)

// planItem is one file of the merged body: a loaded artifact, or a divider
// page still to be generated when divider is set.
type planItem struct {
	path    string
	pages   int
	divider string
}

type plan struct {
	items      []planItem
	entries    []TOCEntry  // StartPage relative to the body, 0-based
	placements []Placement // same
	pages      int
}

func (p *plan) addDivider(title string) {
	p.items = append(p.items, planItem{divider: title, pages: 1})
	p.pages++
}

func (p *plan) addParts(parts []part, chapter, label string) {
	for _, pt := range parts {
		p.placements = append(p.placements, Placement{
			Artifact:  pt.art,
			Chapter:   chapter,
			Label:     label,
			StartPage: p.pages,
			Pages:     pt.pages,
		})
		p.items = append(p.items, planItem{path: pt.path, pages: pt.pages})
		p.pages += pt.pages
	}
}

func (p *plan) addEntry(label string, level int) {
	p.entries = append(p.entries, TOCEntry{Label: label, StartPage: p.pages, Level: level})
}

// buildPlan lays out the body in chapter order. Chapters without a title
// stand for a single category each and produce one top-level entry per
// category; titled chapters get their own entry with the categories indented
// beneath it.
func buildPlan(chapters []category.Chapter, loaded map[string][]part, labels category.Labels, dividers bool) plan {
	var p plan
	for _, ch := range chapters {
		if ch.Title == "" {
			for _, cat := range ch.Categories {
				parts := loaded[cat]
				if len(parts) == 0 {
					continue
				}
				label := labels.Label(cat)
				p.addEntry(label, 0)
				if dividers {
					p.addDivider(label)
				}
				p.addParts(parts, "", label)
			}
			continue
		}

		present := 0
		for _, cat := range ch.Categories {
			present += len(loaded[cat])
		}
		if present == 0 {
			continue
		}
		p.addEntry(ch.Title, 0)
		if dividers {
			p.addDivider(ch.Title)
		}
		for _, cat := range ch.Categories {
			parts := loaded[cat]
			if len(parts) == 0 {
				continue
			}
			label := labels.Label(cat)
			p.addEntry(label, 1)
			p.addParts(parts, ch.Title, label)
		}
	}
	return p
}
