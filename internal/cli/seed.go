package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"nanonerds-quiz-service/internal/infra/postgres"
)

// NewSeedCmd writes the configured catalog into Postgres, replacing rows with the same id.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the quiz catalog into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			quizzes, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			if err := runMigrations(cmd.Context(), cfg, log); err != nil {
				return err
			}

			db := postgres.OpenDB(cfg.Postgres.URL)
			defer db.Close()
			if err := postgres.SeedCatalog(cmd.Context(), db, quizzes); err != nil {
				return err
			}
			log.Info("catalog seeded", "quizzes", len(quizzes))
			return nil
		},
	}
}
