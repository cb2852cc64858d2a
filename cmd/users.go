package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/setlist/internal/formatter"
	"github.com/desertthunder/setlist/internal/repositories"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/urfave/cli/v3"
)

func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "List registered accounts",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, csv, or json",
				Value:   formatter.FormatText,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "onboarded",
				Usage: "Only list accounts that completed onboarding",
			},
		},
		Action: r.Users,
	}
}

// Users lists accounts in the requested format. Exports carry the safe
// projection only; hashes and tokens stay in the database.
func (r *Runner) Users(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	criteria := map[string]any{}
	if cmd.Bool("onboarded") {
		criteria["onboarded"] = true
	}

	users, err := repositories.NewUserRepository(db).List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	format := cmd.String("format")

	if output := cmd.String("output"); output != "" {
		path, err := formatter.WriteExport(users, format, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Wrote %d accounts to %s\n", len(users), path)
	}

	data, err := formatter.Export(users, format)
	if err != nil {
		return err
	}

	return r.writePlain("%s", data)
}
