package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go_docbook/internal/app"
	"go_docbook/internal/config"
)

// RunConfigWizard asks for the common settings on stdin and writes a config
// file. A .yaml or .yml path is written as YAML.
func RunConfigWizard() error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Config wizard (press Enter to accept defaults)")

	path := promptString(reader, "Config file path", config.DefaultConfigPath())
	sitemapURL := promptString(reader, "Sitemap URL", "")
	outputDir := promptString(reader, "Output root", app.DefaultOutputRoot)
	format := promptString(reader, "Format (pdf|png)", "pdf")
	backend := promptString(reader, "Backend (playwright|chromedp|rod)", "playwright")
	timeout := promptInt(reader, "Timeout seconds per page", app.DefaultTimeoutSeconds)
	waitFor := promptString(reader, "Wait for selector (optional)", "")
	headless := promptBool(reader, "Headless (true/false)", true)
	retries := promptInt(reader, "Retries per page", app.DefaultRetries)
	order := promptString(reader, "Order (lexicographic|editorial)", "lexicographic")
	dividers := promptBool(reader, "Divider pages (true/false)", false)
	individual := promptBool(reader, "Keep individual page files (true/false)", false)

	cfg := config.Config{
		SitemapURL:      strings.TrimSpace(sitemapURL),
		OutputDir:       strings.TrimSpace(outputDir),
		Format:          format,
		Backend:         backend,
		TimeoutSeconds:  timeout,
		WaitForSelector: waitFor,
		Headless:        &headless,
		Retries:         &retries,
		Order:           order,
		Dividers:        &dividers,
		Individual:      &individual,
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}

func promptString(reader *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func promptInt(reader *bufio.Reader, label string, def int) int {
	fmt.Printf("%s [%d]: ", label, def)
	line, err := reader.ReadString('\n')
	if err != nil {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	var val int
	if _, err := fmt.Sscanf(line, "%d", &val); err != nil {
		return def
	}
	return val
}

func promptBool(reader *bufio.Reader, label string, def bool) bool {
	fmt.Printf("%s [%t]: ", label, def)
	line, err := reader.ReadString('\n')
	if err != nil {
		return def
	}
	line = strings.TrimSpace(strings.ToLower(line))
	if line == "" {
		return def
	}
	return line == "true" || line == "1" || line == "yes" || line == "y"
}
