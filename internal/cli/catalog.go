package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"nanonerds-quiz-service/internal/catalog"
	"nanonerds-quiz-service/internal/config"
	"nanonerds-quiz-service/internal/domain"
)

// NewCatalogCmd validates the configured catalog and prints a summary.
func NewCatalogCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Validate and list the configured quiz catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config %s: %w", *configPath, err)
			}
			quizzes, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tQUESTIONS\tDURATION\tPASS\tACTIVE")
			for _, quiz := range quizzes {
				fmt.Fprintf(w, "%s\t%s\t%d\t%ds\t%d%%\t%t\n",
					quiz.ID, quiz.Title, len(quiz.Questions), quiz.DurationSeconds, quiz.PassingScore, quiz.Active)
			}
			return w.Flush()
		},
	}
}

// loadCatalog returns the catalog file named by quiz.catalog, or the built-in seed when unset.
func loadCatalog(cfg config.Config) ([]domain.QuizDefinition, error) {
	if cfg.Quiz.Catalog == "" {
		quizzes := catalog.Seed()
		return quizzes, catalog.ValidateAll(quizzes)
	}
	return catalog.LoadFile(cfg.Quiz.Catalog)
}
