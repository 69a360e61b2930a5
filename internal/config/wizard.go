package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to studyhub! Let's point it at your spreadsheet.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Sheet ID.
	sheetPrompt := promptui.Prompt{
		Label: "Spreadsheet ID",
		Validate: func(s string) error {
			if s == "" {
				return fmt.Errorf("sheet id is required")
			}
			return nil
		},
	}
	sheetID, err := sheetPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("sheet id: %w", err)
	}
	cfg.SheetID = sheetID

	// 2. API endpoint.
	apiPrompt := promptui.Prompt{
		Label:   "Sheet API base URL",
		Default: DefaultAPIURL,
	}
	apiURL, err := apiPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("api url: %w", err)
	}
	cfg.APIURL = apiURL

	// 3. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 || n > 65535 {
				return fmt.Errorf("port must be a number between 0 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 4. Public base URL used in share links.
	basePrompt := promptui.Prompt{
		Label:   "Public base URL for share links (blank for localhost)",
		Default: "",
	}
	baseURL, err := basePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	cfg.BaseURL = baseURL

	// 5. Download tracking.
	trackPrompt := promptui.Select{
		Label: "Track downloads",
		Items: []string{"yes", "no"},
	}
	trackIdx, _, err := trackPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("download tracking: %w", err)
	}
	cfg.Features.DownloadTracking = trackIdx == 0

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
