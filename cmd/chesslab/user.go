package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sousa16/chesslab/internal/app"
	"github.com/sousa16/chesslab/internal/models"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserListCmd())
	cmd.AddCommand(newUserRemindersCmd())
	cmd.AddCommand(newUserDeleteCmd())
	return cmd
}

// lookupUser accepts a numeric id or a username.
func lookupUser(ctx context.Context, a *app.App, ref string) (*models.User, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return a.UserService.GetUser(ctx, id)
	}
	user, err := a.Users.GetByUsername(ctx, ref)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("no user named %q", ref)
	}
	return user, nil
}

func newUserCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <username>",
		Short: "Create a user, or return the existing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.UserService.CreateUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s has id %d\n", user.Username, user.ID)
			return nil
		},
	}
}

func newUserListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			users, err := a.UserService.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSERNAME\tREMINDERS")
			for _, u := range users {
				fmt.Fprintf(tw, "%d\t%s\t%t\n", u.ID, u.Username, u.RemindersEnabled)
			}
			return tw.Flush()
		},
	}
}

func newUserRemindersCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "reminders <user> <on|off>",
		Short:     "Turn the due-review digest on or off",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var enabled bool
			switch args[1] {
			case "on":
				enabled = true
			case "off":
			default:
				return fmt.Errorf("expected on or off, got %q", args[1])
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := lookupUser(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			if _, err := a.UserService.SetReminders(cmd.Context(), user.ID, enabled); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reminders %s for %s\n", args[1], user.Username)
			return nil
		},
	}
}

func newUserDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <user>",
		Short: "Delete a user with all repertoires",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := lookupUser(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			if err := a.UserService.DeleteUser(cmd.Context(), user.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s\n", user.Username)
			return nil
		},
	}
}
