package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to livepad! Let's configure your playground.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Port.
	portPrompt := promptui.Prompt{
		Label:    "Port for the playground server",
		Default:  strconv.Itoa(cfg.Port),
		Validate: validateNonNegativeInt,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	// 2. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Directory for saved code",
		Default: cfg.DataDir,
	}
	cfg.DataDir, err = dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 3. Preview refresh cadence.
	debouncePrompt := promptui.Select{
		Label: "Preview refresh",
		Items: []string{
			"debounced: re-render 300ms after typing stops",
			"instant:   re-render on every keystroke",
		},
	}
	debounceIdx, _, err := debouncePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("preview refresh: %w", err)
	}
	if debounceIdx == 1 {
		cfg.DebounceMS = 0
	}

	// 4. Browser.
	openPrompt := promptui.Prompt{
		Label:     "Open the browser when the server starts",
		IsConfirm: true,
		Default:   "y",
	}
	if _, err := openPrompt.Run(); err != nil {
		if err != promptui.ErrAbort {
			return nil, fmt.Errorf("open browser: %w", err)
		}
		cfg.OpenBrowser = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// validateNonNegativeInt is a promptui validator for numeric answers.
func validateNonNegativeInt(input string) error {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if n < 0 {
		return fmt.Errorf("must be non-negative")
	}
	return nil
}
