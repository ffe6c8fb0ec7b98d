// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/metasearch/internal/search"
)

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List configured engines and their capabilities",
	Long: `Engines lists every engine instance in the registry with its declared
search fields, semantic field mappings, sort keys, and page size limit.`,
	RunE: runEngines,
}

func init() {
	rootCmd.AddCommand(enginesCmd)
}

func runEngines(cmd *cobra.Command, args []string) error {
	reg, err := buildRegistry()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFIELDS\tSEMANTIC\tSORTS\tMAX/PAGE")

	for _, id := range reg.IDs() {
		engine, _ := reg.Resolve(id)
		caps := engine.Capabilities()

		maxPerPage := "unbounded"
		if caps.MaxPerPage > 0 {
			maxPerPage = fmt.Sprintf("%d", caps.MaxPerPage)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			id,
			joinKeys(caps.SearchFields),
			joinSemantic(caps.SemanticFields),
			strings.Join(caps.Sorts, ","),
			maxPerPage)
	}
	return w.Flush()
}

func joinKeys(fields map[string]search.FieldDefinition) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

func joinSemantic(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
