package render

import (
	"encoding/json"
	"strings"
)

var defaultHideSelectors = []string{
	"div.appBarClassName",
	".scroll-nojump",
	"aside.relative.group.flex.flex-col.basis-full.bg-light",
	"div.flex.md\\:w-56.grow-0.shrink-0.justify-self-end",
	"div.flex.flex-col.md\\:flex-row.mt-6.gap-2.max-w-3xl.mx-auto.page-api-block\\:ml-0",
	"div.flex.flex-row.items-center.mt-6.max-w-3xl.mx-auto.page-api-block\\:ml-0",
	"[data-testid*='cookie']",
	"[class*='cookie']",
	"[id*='cookie']",
	".gdpr-banner",
	".cookie-banner",
	".cookie-consent",
}

var defaultCookieSelectors = []string{
	`button[data-testid="accept"]`,
	`button[id*="accept"]`,
	`button[class*="accept"]`,
	".cookie-accept",
	"#cookie-accept",
}

// DefaultHideSelectors lists navigation chrome and consent banners removed
// before capture.
func DefaultHideSelectors() []string {
	return append([]string(nil), defaultHideSelectors...)
}

func DefaultCookieSelectors() []string {
	return append([]string(nil), defaultCookieSelectors...)
}

// hideScript builds a function expression that sets display:none on every
// element matching one of selectors. Invalid selectors are ignored by the
// page so one bad entry does not stop the rest.
func hideScript(selectors []string) string {
	cleaned := make([]string, 0, len(selectors))
	for _, s := range selectors {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return ""
	}
	list, err := json.Marshal(cleaned)
	if err != nil {
		return ""
	}
	return `() => {
  for (const sel of ` + string(list) + `) {
    let nodes = [];
    try { nodes = document.querySelectorAll(sel); } catch (e) { continue; }
    nodes.forEach((el) => el.style.setProperty("display", "none", "important"));
  }
}`
}

// existsScript is a function expression reporting whether selector matches a
// visible element.
func existsScript(selector string) string {
	quoted, _ := json.Marshal(selector)
	return `() => {
  let el = null;
  try { el = document.querySelector(` + string(quoted) + `); } catch (e) { return false; }
  if (!el) return false;
  const r = el.getBoundingClientRect();
  return r.width > 0 && r.height > 0;
}`
}

// invoke turns a function expression into a call expression for backends
// that evaluate plain expressions.
func invoke(fn string) string {
	return "(" + fn + ")()"
}
