package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/sousa16/chesslab/internal/db"
	"github.com/sousa16/chesslab/internal/reminder"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Apply pending migrations and list them",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			all, err := db.Migrations()
			if err != nil {
				return err
			}
			applied, err := a.DB.Applied(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range all {
				state := "pending"
				if slices.Contains(applied, name) {
					state = "applied"
				}
				fmt.Fprintf(out, "%-32s %s\n", name, state)
			}
			positions, err := a.Positions.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "positions stored: %d\n", positions)
			return nil
		},
	})
	return cmd
}

func newRemindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Due-review digest commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Send one digest to every user with reminders on, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			if a.Config.ReminderSchedule == "" {
				a.Config.ReminderSchedule = "@daily"
			}

			pool, sched, err := a.Reminders(reminder.LogNotifier{})
			if err != nil {
				return err
			}
			pool.Start(cmd.Context())
			queued, err := sched.RunOnce(cmd.Context())
			pool.Stop()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %d digests\n", queued)
			return nil
		},
	})
	return cmd
}
