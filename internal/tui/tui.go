package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"

	"go_docbook/internal/app"
	"go_docbook/internal/config"
)

type Result struct {
	Options    app.Options
	SaveConfig bool
	ConfigPath string
	Config     config.Config
	RunNow     bool
}

func Run() (Result, error) {
	printBanner()
	state := newFormState()

	if err := manageConfigs(state); err != nil {
		return Result{}, err
	}

	form := buildForm(state).WithTheme(huh.ThemeDracula())
	if err := form.Run(); err != nil {
		return Result{}, err
	}

	return buildResult(state)
}

func printBanner() {
	fmt.Print(`
                     _            _                 _
   __ _  ___      __| | ___   ___| |__   ___   ___ | | __
  / _` + "`" + ` |/ _ \    / _` + "`" + ` |/ _ \ / __| '_ \ / _ \ / _ \| |/ /
 | (_| | (_) |  | (_| | (_) | (__| |_) | (_) | (_) |   <
  \__, |\___/    \__,_|\___/ \___|_.__/ \___/ \___/|_|\_\
  |___/
`)
}

func manageConfigs(state *formState) error {
	for {
		files := config.ListConfigs()
		if len(files) == 0 {
			return nil
		}

		var selectedFile string
		opts := []huh.Option[string]{
			huh.NewOption("Start fresh (no config)", ""),
		}
		for _, f := range files {
			opts = append(opts, huh.NewOption(fmt.Sprintf("Manage %s", f), f))
		}

		selectForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Manage Configurations").
					Description("Select a config to load or manage, or start fresh.").
					Options(opts...).
					Value(&selectedFile),
			),
		).WithTheme(huh.ThemeDracula())

		if err := selectForm.Run(); err != nil {
			return err
		}

		if selectedFile == "" {
			return nil
		}

		var action string
		actionForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title(fmt.Sprintf("Action for %s", selectedFile)).
					Options(
						huh.NewOption("Load this config", "load"),
						huh.NewOption("Rename this config", "rename"),
						huh.NewOption("Clone this config", "clone"),
						huh.NewOption("Delete this config", "delete"),
						huh.NewOption("Back to list", "back"),
					).
					Value(&action),
			),
		).WithTheme(huh.ThemeDracula())

		if err := actionForm.Run(); err != nil {
			return err
		}

		shouldExit, err := executeConfigAction(action, selectedFile, state)
		if err != nil {
			return err
		}
		if shouldExit {
			return nil
		}
	}
}

// executeConfigAction reports true when the selected config was loaded and
// the management loop should end.
func executeConfigAction(action, selectedFile string, state *formState) (bool, error) {
	switch action {
	case "load":
		if err := loadInto(state, selectedFile); err != nil {
			return false, err
		}
		return true, nil

	case "rename":
		var newName string
		if err := huh.NewInput().Title("New filename").Value(&newName).Validate(validateNewFilename).Run(); err != nil {
			return false, err
		}
		if err := renameConfig(selectedFile, newName); err != nil {
			return false, err
		}

	case "clone":
		var newName string
		if err := huh.NewInput().Title("Clone as").Description("A .yaml name converts the copy to YAML.").Value(&newName).Validate(validateNewFilename).Run(); err != nil {
			return false, err
		}
		if err := cloneConfig(selectedFile, newName); err != nil {
			return false, err
		}

	case "delete":
		var confirmDelete bool
		if err := huh.NewConfirm().Title(fmt.Sprintf("Really delete %s?", selectedFile)).Affirmative("Yes, delete it.").Negative("No, keep it.").Value(&confirmDelete).Run(); err != nil {
			return false, err
		}
		if confirmDelete {
			if err := os.Remove(selectedFile); err != nil {
				return false, fmt.Errorf("failed to delete %s: %w", selectedFile, err)
			}
		}
	}

	return false, nil
}

func loadInto(state *formState, path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	state.fromConfig(cfg)
	state.configPath = path
	return nil
}

// renameConfig keeps the file next to the original.
func renameConfig(from, newName string) error {
	target := filepath.Join(filepath.Dir(from), ensureConfigExtension(newName))
	if err := os.Rename(from, target); err != nil {
		return fmt.Errorf("failed to rename: %w", err)
	}
	return nil
}

// cloneConfig re-encodes the config so the clone may switch between JSON
// and YAML.
func cloneConfig(from, newName string) error {
	cfg, err := config.Load(from)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", from, err)
	}
	target := filepath.Join(filepath.Dir(from), ensureConfigExtension(newName))
	if err := config.Save(target, cfg); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

func ensureConfigExtension(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(filepath.Ext(s)) {
	case ".json", ".yaml", ".yml":
		return s
	}
	return s + ".json"
}
