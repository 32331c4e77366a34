package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tilewindow/internal/config"
	"github.com/matzehuels/tilewindow/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the snapshot cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached snapshots and stored results",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.Config.Cache.Open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				printWarning("Cache backend %q cannot be cleared", c.Config.Cache.Backend)
				return nil
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Location: %s", cacheLocation(c.Config.Cache))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(c.Config.Cache))
			return nil
		},
	}
}

// cacheLocation describes where the configured backend keeps its entries.
func cacheLocation(cfg config.CacheConfig) string {
	switch cfg.Backend {
	case config.BackendRedis:
		return fmt.Sprintf("redis://%s/%d (prefix %q)", cfg.Redis.Addr, cfg.Redis.DB, cfg.Redis.Prefix)
	case config.BackendMongo:
		return fmt.Sprintf("%s (%s.%s)", cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
	case config.BackendNone:
		return "none"
	default:
		if cfg.Dir == "" {
			return config.CacheDir()
		}
		return cfg.Dir
	}
}
