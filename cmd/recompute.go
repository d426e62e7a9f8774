package cmd

import (
	"github.com/spf13/cobra"

	"github.com/example/flashdeck/internal/progress"
)

var recomputeDecksCmd = &cobra.Command{
	Use:   "recompute-decks",
	Short: "Recompute the stored statistics of every deck",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := progress.NewService(a.db, a.clock, nil, a.log).RecomputeAllDecks(cmd.Context())
		if err != nil {
			return err
		}
		printf(cmd, "recomputed %d decks\n", n)
		return nil
	},
}
