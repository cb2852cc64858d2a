package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/ui"
	"github.com/urfave/cli/v3"
)

func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "config",
		Usage:  "Interactively set Spotify credentials",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Configure,
	}
}

// Configure runs the credential wizard and writes the result to the config
// file.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	wizard := ui.NewWizard(config.Credentials.Spotify)
	program := tea.NewProgram(wizard)

	model, err := program.Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	result, ok := model.(*ui.Wizard)
	if !ok || result.Cancelled() {
		return r.writePlain("Cancelled, config unchanged\n")
	}

	credentials := result.Credentials()
	if credentials.ClientID == "" || credentials.ClientSecret == "" {
		return fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	config.Credentials.Spotify = credentials
	if err := shared.SaveConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return r.writePlain("✓ Credentials saved to %s\n", configPath)
}
