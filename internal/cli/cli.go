// Package cli implements the asgraph command-line interface.
//
// This package provides the commands that turn AS relationship and
// customer-cone files into a LibSea graph for Walrus and manage the local
// document cache. The CLI is built using cobra and logs with the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Build the .graph document (optionally DOT/SVG of the tree)
//   - cache: Inspect and clear the document cache
//   - completion: Shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is attached to the command context in PersistentPreRunE.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/asgraph/pkg/buildinfo"
	"github.com/matzehuels/asgraph/pkg/cache"
	"github.com/matzehuels/asgraph/pkg/errors"
	"github.com/matzehuels/asgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "asgraph"

	// keyPrefix scopes keys in shared cache backends.
	keyPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "asgraph turns AS relationship data into LibSea graphs",
		Long:         `asgraph layers Internet autonomous systems below the top-level clique, picks one provider per AS to form a spanning tree, and writes the result as a LibSea graph for the Walrus hyperbolic viewer.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg CacheConfig, noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(ctx, c.Logger, cfg, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), keyPrefix)
	r := pipeline.NewRunner(store, keyer, c.Logger)
	r.TTL = cfg.TTL
	return r, nil
}

// newCache builds the configured cache backend. A file cache whose
// directory cannot be determined degrades to no caching.
func newCache(ctx context.Context, logger *log.Logger, cfg CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		rc, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.redis_url")
		}
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis cache unreachable, continuing without cache", "err", err)
			rc.Close()
			return cache.NewNullCache(), nil
		}
		return rc, nil
	default:
		dir, err := cacheDir()
		if err != nil {
			logger.Debug("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/asgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
