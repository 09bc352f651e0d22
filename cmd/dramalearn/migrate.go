package main

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/soramame/dramalearn/internal/database"
	"github.com/soramame/dramalearn/schemas"
)

func newMigrateCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			entries, err := schemas.Migrations.ReadDir("migrations")
			if err != nil {
				return fmt.Errorf("schemas.Migrations.ReadDir() > %w", err)
			}

			for _, entry := range entries {
				statement, err := schemas.Migrations.ReadFile(path.Join("migrations", entry.Name()))
				if err != nil {
					return fmt.Errorf("schemas.Migrations.ReadFile(%s) > %w", entry.Name(), err)
				}
				if _, err := db.ExecContext(cmd.Context(), string(statement)); err != nil {
					return fmt.Errorf("migration %s failed > %w", entry.Name(), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", entry.Name())
			}
			return nil
		},
	}

	return command
}
