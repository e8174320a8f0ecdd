package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archquery/pkg/catalog"
	"github.com/matzehuels/archquery/pkg/errors"
	"github.com/matzehuels/archquery/pkg/integrations"
	"github.com/matzehuels/archquery/pkg/integrations/archlinux"
	"github.com/matzehuels/archquery/pkg/integrations/aur"
)

// Cache backends selectable with cache_backend.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

const configFile = "config.toml"

// Config is the on-disk configuration. Every key is optional; missing keys
// keep their defaults.
type Config struct {
	OfficialURL    string   `toml:"official_url"`
	AURURL         string   `toml:"aur_url"`
	Arch           string   `toml:"arch"`
	AURHelper      string   `toml:"aur_helper"`
	CacheTTL       Duration `toml:"cache_ttl"`
	CacheBackend   string   `toml:"cache_backend"`
	RedisAddr      string   `toml:"redis_addr"`
	PartialResults bool     `toml:"partial_results"`
	ListenAddr     string   `toml:"listen_addr"`

	arch archlinux.Arch
}

// Duration is a time.Duration written as a string such as "30m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		OfficialURL:  archlinux.DefaultBaseURL,
		AURURL:       aur.DefaultBaseURL,
		Arch:         string(archlinux.ArchX86_64),
		AURHelper:    catalog.DefaultAURHelper,
		CacheTTL:     Duration{integrations.DefaultCacheTTL},
		CacheBackend: CacheFile,
		ListenAddr:   "127.0.0.1:8080",
		arch:         archlinux.ArchX86_64,
	}
}

// LoadConfig reads path on top of [DefaultConfig]. A missing file is not an
// error. Unknown keys and invalid values are INVALID_CONFIG errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "couldn't read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if _, err := errors.ValidateBaseURL(cfg.OfficialURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid official_url")
	}
	if _, err := errors.ValidateBaseURL(cfg.AURURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid aur_url")
	}
	arch, err := archlinux.ParseArch(cfg.Arch)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid arch")
	}
	cfg.arch = arch
	if cfg.AURHelper == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "aur_helper cannot be empty")
	}
	if cfg.CacheTTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache_ttl cannot be negative")
	}
	switch cfg.CacheBackend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if cfg.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache_backend %q requires redis_addr", CacheRedis)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache_backend %q (want file, redis or none)", cfg.CacheBackend)
	}
	return nil
}

// loadConfig loads the file named by --config, or the default location.
func (c *CLI) loadConfig() (Config, error) {
	path, err := c.resolveConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

func (c *CLI) resolveConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

func defaultConfigHint() string {
	return filepath.Join("$XDG_CONFIG_HOME", appName, configFile)
}

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolveConfigPath()
			if err != nil {
				return fmt.Errorf("get config dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	})

	return cmd
}
