package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sousa16/chesslab/internal/models"
)

func newPracticeCmd() *cobra.Command {
	var sc scope
	var from int64
	var limit int
	cmd := &cobra.Command{
		Use:   "practice",
		Short: "List the moves due for review",
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
			if limit == 0 {
				limit = a.Config.PracticeBatchSize
			}
			cards, err := a.RepertoireService.PracticeQueue(cmd.Context(), user.ID, color, from, limit)
			if err != nil {
				return err
			}
			if len(cards) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing due")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ENTRY\tVERSION\tAFTER\tPHASE")
			for _, c := range cards {
				after := c.Context
				if after == "" {
					after = "(start)"
				}
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", c.EntryID, c.Version, after, c.Card.Phase)
			}
			return tw.Flush()
		},
	}
	sc.bind(cmd, true)
	cmd.Flags().Int64Var(&from, "from", 0, "only lines below this entry")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum cards (default PRACTICE_BATCH_SIZE)")
	return cmd
}

func newReviewCmd() *cobra.Command {
	var sc scope
	var version int64
	cmd := &cobra.Command{
		Use:   "review <entry-id> <forgot|partial|effort|easy>",
		Short: "Record an answer for a due move",
		Args:  cobra.ExactArgs(2),
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
			if version == 0 {
				entry, err := a.Entries.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if entry != nil {
					version = entry.Version
				}
			}
			res, err := a.ReviewService.Review(cmd.Context(), user.ID, id, args[1], version)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	sc.bind(cmd, false)
	cmd.Flags().Int64Var(&version, "version", 0, "entry version shown by practice (default: current)")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var sc scope
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show due and learned counts",
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
			stats, err := a.StatsService.GetStats(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "due: %d\ntotal: %d\n", stats.DueCount, stats.TotalPositions)
			for _, c := range []models.Color{models.White, models.Black} {
				cs := stats.ColorStats[c]
				fmt.Fprintf(out, "%s: %d/%d learned\n", c, cs.Learned, cs.Total)
			}
			return nil
		},
	}
	sc.bind(cmd, false)
	return cmd
}
