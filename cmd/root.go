package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "flashdeck",
	Short:        "Flashcard review scheduler",
	Long:         "flashdeck serves SM-2 spaced repetition reviews, progress statistics and study reminders.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to an optional .env file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(recomputeDecksCmd)
	rootCmd.AddCommand(remindCmd)
}
