package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sousa16/chesslab/internal/app"
	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/rules"
)

// scope is the --user/--color pair most commands work on.
type scope struct {
	user  string
	color string
}

func (s *scope) bind(cmd *cobra.Command, withColor bool) {
	cmd.Flags().StringVarP(&s.user, "user", "u", "", "user id or username")
	_ = cmd.MarkFlagRequired("user")
	if withColor {
		cmd.Flags().StringVarP(&s.color, "color", "c", "white", "repertoire color: white or black")
	}
}

func (s *scope) resolve(cmd *cobra.Command, a *app.App) (*models.User, models.Color, error) {
	user, err := lookupUser(cmd.Context(), a, s.user)
	if err != nil {
		return nil, "", err
	}
	if s.color == "" {
		return user, "", nil
	}
	color, err := models.ParseColor(s.color)
	if err != nil {
		return nil, "", err
	}
	return user, color, nil
}

func newRepertoireCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "repertoire",
		Aliases: []string{"rep"},
		Short:   "Manage repertoires",
	}
	cmd.AddCommand(newRepertoireCreateCmd())
	cmd.AddCommand(newRepertoireListCmd())
	return cmd
}

func newRepertoireCreateCmd() *cobra.Command {
	var sc scope
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a repertoire for one color",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			user, color, err := sc.resolve(cmd, a)
			if err != nil {
				return err
			}
			rep, err := a.RepertoireService.CreateRepertoire(cmd.Context(), user.ID, color)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s repertoire %d ready for %s\n", rep.Color, rep.ID, user.Username)
			return nil
		},
	}
	sc.bind(cmd, true)
	return cmd
}

func newRepertoireListCmd() *cobra.Command {
	var sc scope
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's repertoires",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			user, _, err := sc.resolve(cmd, a)
			if err != nil {
				return err
			}
			reps, err := a.RepertoireService.ListRepertoires(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCOLOR\tVERSION")
			for _, r := range reps {
				fmt.Fprintf(tw, "%d\t%s\t%d\n", r.ID, r.Color, r.Version)
			}
			return tw.Flush()
		},
	}
	sc.bind(cmd, false)
	return cmd
}

func newLineCmd() *cobra.Command {
	var sc scope
	var startFEN string
	cmd := &cobra.Command{
		Use:   "line <moves...>",
		Short: "Save a line, e.g. line -u alice 1. e4 c5 2. Nf3",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			user, color, err := sc.resolve(cmd, a)
			if err != nil {
				return err
			}
			moves := rules.SplitMoves(strings.Join(args, " "))
			res, err := a.RepertoireService.InsertLine(cmd.Context(), user.ID, color, moves, startFEN)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d new)\n", res.Line, res.Created)
			return nil
		},
	}
	sc.bind(cmd, true)
	cmd.Flags().StringVar(&startFEN, "fen", "", "start position instead of the initial one")
	return cmd
}

func newImportCmd() *cobra.Command {
	var sc scope
	cmd := &cobra.Command{
		Use:   "import <file.pgn|->",
		Short: "Import every line of a PGN file, variations included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read pgn: %w", err)
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			user, color, err := sc.resolve(cmd, a)
			if err != nil {
				return err
			}
			res, err := a.ImportService.ImportPGN(cmd.Context(), user.ID, color, string(data))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "games: %d, lines: %d, new entries: %d\n", res.Games, res.Lines, res.Created)
			for _, s := range res.Skipped {
				fmt.Fprintf(out, "  skipped game %d: %s (%s)\n", s.Game, s.Line, s.Error)
			}
			return nil
		},
	}
	sc.bind(cmd, true)
	return cmd
}

func newTreeCmd() *cobra.Command {
	var sc scope
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the repertoire tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			user, color, err := sc.resolve(cmd, a)
			if err != nil {
				return err
			}
			tree, err := a.RepertoireService.GetTree(cmd.Context(), user.ID, color)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tree.Roots) == 0 {
				fmt.Fprintln(out, "(empty)")
				return nil
			}
			tree.Walk(func(n *models.TreeNode, depth int) {
				indent := strings.Repeat("  ", depth)
				if n.Synthetic {
					fmt.Fprintf(out, "%s%s\n", indent, n.Sequence)
					return
				}
				due := ""
				if n.Due {
					due = " *"
				}
				fmt.Fprintf(out, "%s[%d] %s%s\n", indent, n.EntryID, n.Sequence, due)
			})
			return nil
		},
	}
	sc.bind(cmd, true)
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var sc scope
	cmd := &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "Delete an entry and every line below it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid entry id %q", args[0])
			}
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			user, _, err := sc.resolve(cmd, a)
			if err != nil {
				return err
			}
			res, err := a.RepertoireService.DeleteEntry(cmd.Context(), user.ID, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d entries, %d positions\n", res.Deleted, res.PositionsRemoved)
			return nil
		},
	}
	sc.bind(cmd, false)
	return cmd
}
