// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/metasearch/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past search runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs with per-engine outcomes",
	RunE:  runHistoryList,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than the retention window",
	RunE:  runHistoryPrune,
}

func init() {
	historyListCmd.Flags().Int("limit", 0, "maximum runs to list (default from config)")
	historyPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "delete runs older than this")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tQUERY\tENGINE\tTIMING\tTOTAL\tERROR")
	for _, run := range runs {
		when := run.CreatedAt.Local().Format("2006-01-02 15:04")
		for _, o := range run.Engines {
			total := ""
			if o.TotalItems != nil {
				total = fmt.Sprintf("%d", *o.TotalItems)
			}
			errCol := ""
			if o.ErrorKind != "" {
				errCol = o.ErrorKind
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\t%s\n",
				when, run.Query, o.EngineID, o.Timing, total, errCol)
		}
	}
	return w.Flush()
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	olderThan, _ := cmd.Flags().GetDuration("older-than")
	n, err := store.Prune(context.Background(), olderThan)
	if err != nil {
		return err
	}
	fmt.Printf("Pruned %d run(s).\n", n)
	return nil
}
