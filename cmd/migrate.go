package cmd

import (
	"github.com/spf13/cobra"

	"github.com/example/flashdeck/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema and seed the default achievements",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		repo := database.NewAchievementRepository(a.db)
		if err := repo.SeedDefinitions(cmd.Context(), database.DefaultAchievementDefinitions); err != nil {
			return err
		}
		defs, err := repo.ListDefinitions(cmd.Context())
		if err != nil {
			return err
		}
		printf(cmd, "schema ready, %d achievement definitions\n", len(defs))
		return nil
	},
}
