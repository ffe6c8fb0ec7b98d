// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/metasearch/internal/history"
	"github.com/pdiddy/metasearch/internal/search"
	"github.com/pdiddy/metasearch/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search configured engines for bibliographic records",
	Long: `Search runs a query against one engine (--engine) or all configured
engines concurrently. Each engine's results come back as its own result
set; a failing engine reports an error in its set without affecting the
others.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("engine", "", "search a single engine by id (default: all)")
	searchCmd.Flags().String("field", "", "engine-specific search field key")
	searchCmd.Flags().String("semantic-field", "", "cross-engine field name (title, author, subject, ...)")
	searchCmd.Flags().String("sort", "", "engine sort key")
	searchCmd.Flags().Int("page", 0, "1-based page number")
	searchCmd.Flags().Int("start", -1, "0-based result offset (mutually exclusive with --page)")
	searchCmd.Flags().Int("per-page", 0, "results per page (default 10)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("csl", false, "output results as CSL-YAML")
	searchCmd.Flags().String("save", "", "save the run to a YAML file")
	searchCmd.Flags().Bool("no-history", false, "skip recording the run in the history store")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	raw := argsFromFlags(cmd, args[0])

	reg, err := buildRegistry()
	if err != nil {
		return err
	}

	engineID, _ := cmd.Flags().GetString("engine")
	ctx := context.Background()

	var results map[string]*types.ResultSet
	if engineID != "" {
		engine, ok := reg.Resolve(engineID)
		if !ok {
			return fmt.Errorf("unknown engine id %q (configured: %v)", engineID, reg.IDs())
		}
		rs, err := search.NewExecutor(engine).Execute(ctx, raw)
		if err != nil {
			return err
		}
		results = map[string]*types.ResultSet{engineID: rs}
	} else {
		results = search.RunAll(ctx, reg.Engines(), raw, os.Stderr)
	}

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		if err := search.WriteRunFile(path, raw, results); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved run to %s\n", path)
	}

	if skip, _ := cmd.Flags().GetBool("no-history"); !skip {
		if err := recordHistory(ctx, args[0], results); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not record history: %v\n", err)
		}
	}

	return writeResults(cmd, results)
}

// argsFromFlags assembles the raw argument map from command-line flags.
// Only set flags become keys, so normalization sees absent rather than
// zero values.
func argsFromFlags(cmd *cobra.Command, query string) types.Args {
	raw := types.Args{"query": query}

	if v, _ := cmd.Flags().GetString("field"); v != "" {
		raw["search_field"] = v
	}
	if v, _ := cmd.Flags().GetString("semantic-field"); v != "" {
		raw["semantic_search_field"] = v
	}
	if v, _ := cmd.Flags().GetString("sort"); v != "" {
		raw["sort"] = v
	}
	if v, _ := cmd.Flags().GetInt("page"); v > 0 {
		raw["page"] = v
	}
	if v, _ := cmd.Flags().GetInt("start"); v >= 0 {
		raw["start"] = v
	}
	if v, _ := cmd.Flags().GetInt("per-page"); v > 0 {
		raw["per_page"] = v
	}
	return raw
}

func writeResults(cmd *cobra.Command, results map[string]*types.ResultSet) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	asCSL, _ := cmd.Flags().GetBool("csl")

	switch {
	case asJSON:
		return search.FormatRunJSON(results, os.Stdout)
	case asCSL:
		for _, rs := range results {
			if rs.Failed() {
				continue
			}
			if err := search.FormatCSL(rs, os.Stdout); err != nil {
				return err
			}
		}
		return nil
	default:
		search.FormatRunTable(results, os.Stdout)
		return nil
	}
}

func recordHistory(ctx context.Context, query string, results map[string]*types.ResultSet) error {
	store, err := history.NewStore(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.RecordRun(ctx, query, results)
	return err
}
