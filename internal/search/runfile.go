// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"sort"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/metasearch/pkg/types"
)

// RunFile is the on-disk representation of one multi-engine run: the
// arguments, every engine's result set, and a summary. A saved run can be
// reloaded later without re-querying the sources.
type RunFile struct {
	Args    types.Args                  `yaml:"args"`
	Results map[string]*types.ResultSet `yaml:"results"`
	Summary RunSummary                  `yaml:"summary"`
}

// RunSummary stores run statistics and a timestamp.
type RunSummary struct {
	Engines   []string  `yaml:"engines"`
	Failed    []string  `yaml:"failed,omitempty"`
	Items     int       `yaml:"items"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteRunFile saves a run's arguments and results to a YAML file.
func WriteRunFile(path string, raw types.Args, results map[string]*types.ResultSet) error {
	summary := RunSummary{Timestamp: time.Now()}
	for id, rs := range results {
		summary.Engines = append(summary.Engines, id)
		if rs.Failed() {
			summary.Failed = append(summary.Failed, id)
		}
		summary.Items += len(rs.Items)
	}
	sort.Strings(summary.Engines)
	sort.Strings(summary.Failed)

	rf := RunFile{Args: raw, Results: results, Summary: summary}
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling run file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRunFile loads a previously saved run file from disk.
func ReadRunFile(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}
	var rf RunFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing run file: %w", err)
	}
	return &rf, nil
}
