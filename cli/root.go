// Package cli is the cobra command surface of the memory system:
// store, retrieve, list, delete, count, and the MCP server.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/armcknight/cache-for-clankers/config"
	"github.com/armcknight/cache-for-clankers/memory"
	"github.com/armcknight/cache-for-clankers/memory/embedder/cache"
	"github.com/armcknight/cache-for-clankers/memory/store/chromem"
)

// embeddingCacheBytes bounds the in-process embedding cache.
const embeddingCacheBytes = 64 << 20

var (
	flagConfig     string
	flagDB         string
	flagCollection string

	manager *memory.Manager
)

var rootCmd = &cobra.Command{
	Use:           "cache-for-clankers",
	Short:         "Locally hosted semantic memory for LLM sessions",
	Long: `Locally hosted semantic memory for LLM sessions.

Text is chunked, scored for information density, deduplicated against
the store, and retrieved by a blend of semantic similarity (70%) and
importance (30%).`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to the config file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "path to the vector store (empty in config = in-memory)")
	rootCmd.PersistentFlags().StringVar(&flagCollection, "collection", "", "collection name")
}

// setup resolves configuration and wires the manager: embedder ->
// embedding cache -> chromem store -> manager.
func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	if flagCollection != "" {
		cfg.Collection = flagCollection
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("configure embedder: %w", err)
	}

	cached, err := cache.New(embedder, embeddingCacheBytes)
	if err != nil {
		return fmt.Errorf("configure embedding cache: %w", err)
	}

	store, err := chromem.New(chromem.Config{
		Path:       cfg.DBPath,
		Collection: cfg.Collection,
		Dimensions: embedder.Dimensions(),
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	manager = memory.NewManager(store, cached, nil)
	return nil
}
