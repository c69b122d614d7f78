package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"plantcare/pkg/notify"
)

func remindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Run one reminder check now",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			sched := notify.NewScheduler(a.settings, a.plants, a.log, a.now, 0, notify.NewLogNotifier(a.log))
			sent, err := sched.Tick(cmd.Context())
			if err != nil {
				return err
			}
			if sent {
				fmt.Println("reminder sent")
			} else {
				fmt.Println("no reminder due")
			}
			return nil
		},
	}
}
