package cmd

import (
	"github.com/spf13/cobra"

	"github.com/example/flashdeck/internal/progress"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run one reminder sweep now, or remind a single user with --user",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetInt64("user")

		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sched := a.scheduler(progress.NewService(a.db, a.clock, nil, a.log))
		if userID > 0 {
			count, err := sched.RunManualCheck(cmd.Context(), userID)
			if err != nil {
				return err
			}
			printf(cmd, "user %d has %d due cards\n", userID, count)
			return nil
		}

		sent, err := sched.CheckAndSendReminders(cmd.Context())
		if err != nil {
			return err
		}
		printf(cmd, "sent %d reminders\n", sent)
		return nil
	},
}

func init() {
	remindCmd.Flags().Int64("user", 0, "Remind only this user, ignoring the notification window")
}
