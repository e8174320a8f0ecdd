package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archquery/pkg/buildinfo"
	"github.com/matzehuels/archquery/pkg/cache"
	"github.com/matzehuels/archquery/pkg/catalog"
	"github.com/matzehuels/archquery/pkg/errors"
	"github.com/matzehuels/archquery/pkg/integrations/archlinux"
	"github.com/matzehuels/archquery/pkg/integrations/aur"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "archquery"

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

	// configPath overrides the default config file location (--config).
	configPath string
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
		Short:        "Search the Arch Linux repositories and the AUR at once",
		Long:         `archquery searches the official Arch Linux repositories and the Arch User Repository in parallel, ranks the merged results by name similarity and looks up details from whichever registry a package lives in.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if c.Logger.GetLevel() <= log.DebugLevel {
				registerLogHooks(c.Logger)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+defaultConfigHint()+")")

	root.AddCommand(c.searchCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Catalog Factory
// =============================================================================

// session bundles what a command needs to talk to both registries.
type session struct {
	cfg     Config
	cache   cache.Cache
	catalog *catalog.Catalog
	aur     *aur.Client
}

func (s *session) Close() error { return s.cache.Close() }

// newSession loads the config, applies flag overrides and builds the
// registry clients and catalog. The caller must Close the session.
func (c *CLI) newSession(ctx context.Context, refresh bool, overrides ...func(*Config)) (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(&cfg)
	}
	backend, err := newCache(ctx, cfg, c.Logger)
	if err != nil {
		return nil, err
	}

	official, err := archlinux.NewClient(backend, cfg.CacheTTL.Duration, archlinux.Config{
		BaseURL: cfg.OfficialURL,
		Arch:    cfg.arch,
		Refresh: refresh,
	})
	if err != nil {
		backend.Close()
		return nil, err
	}
	community, err := aur.NewClient(backend, cfg.CacheTTL.Duration, aur.Config{
		BaseURL: cfg.AURURL,
		Refresh: refresh,
	})
	if err != nil {
		backend.Close()
		return nil, err
	}

	cat := catalog.New(official, community, catalog.Options{
		Logger:         c.Logger,
		AURHelper:      cfg.AURHelper,
		PartialResults: cfg.PartialResults,
	})
	return &session{cfg: cfg, cache: backend, catalog: cat, aur: community}, nil
}

// newCache opens the configured response cache. A file cache whose
// directory cannot be determined degrades to no caching.
func newCache(ctx context.Context, cfg Config, logger *log.Logger) (cache.Cache, error) {
	switch cfg.CacheBackend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr, Prefix: appName + ":"})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "couldn't connect to redis cache")
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		logger.Warn("Caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/archquery/).
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

// configDir returns the config directory using XDG standard (~/.config/archquery/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
