// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the metasearch CLI.
// Implements: docs/ARCHITECTURE § CLI Surface.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/metasearch/internal/backends"
	"github.com/pdiddy/metasearch/internal/search"
	"github.com/pdiddy/metasearch/internal/secrets"
	"github.com/pdiddy/metasearch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the metasearch CLI.
var rootCmd = &cobra.Command{
	Use:   "metasearch",
	Short: "Federated search across academic and bibliographic sources",
	Long: `metasearch runs one query against many heterogeneous search sources
(arXiv, OpenAlex, Semantic Scholar, ...) concurrently and merges their
responses into a single normalized result model. Engines are declared in
the configuration file; each engine's failure stays local to its own
result set.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./metasearch.yaml or ~/.config/metasearch/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("metasearch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "metasearch"))
		}
	}

	viper.SetEnvPrefix("METASEARCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// httpConfig builds the shared HTTP settings from configuration.
func httpConfig() types.HTTPConfig {
	timeout := viper.GetDuration("http.timeout")
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ua := viper.GetString("http.user_agent")
	if ua == "" {
		ua = "metasearch/" + version
	}
	return types.HTTPConfig{Timeout: timeout, UserAgent: ua}
}

// buildRegistry constructs the engine registry from the loaded config
// file, or from a default engine set when no file declares any.
func buildRegistry() (*search.Registry, error) {
	reg := search.NewRegistry()
	backends.Register(reg)

	var cfg search.RegistryConfig
	if path := viper.ConfigFileUsed(); path != "" {
		loaded, err := search.LoadRegistryConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	if len(cfg.Engines) == 0 {
		cfg.Engines = defaultEngines()
	}

	if err := reg.Configure(cfg, httpConfig()); err != nil {
		return nil, err
	}
	return reg, nil
}

// defaultEngines declares the built-in engine set used when the config
// file lists none. Secrets fill in the polite-access keys.
func defaultEngines() []search.EngineEntry {
	return []search.EngineEntry{
		{ID: "arxiv", Type: backends.TypeArxiv},
		{ID: "openalex", Type: backends.TypeOpenAlex, Config: map[string]any{
			"email": secrets.Get(loadedSecrets, "openalex-email"),
		}},
		{ID: "semantic_scholar", Type: backends.TypeSemanticScholar, Config: map[string]any{
			"api_key": secrets.Get(loadedSecrets, "semantic-scholar-api-key"),
		}},
	}
}

// historyConfig builds the history store settings from configuration.
func historyConfig() types.HistoryConfig {
	dir := viper.GetString("history.dir")
	if dir == "" {
		dir = "history"
	}
	return types.HistoryConfig{
		Dir:     dir,
		MaxRuns: viper.GetInt("history.max_runs"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
