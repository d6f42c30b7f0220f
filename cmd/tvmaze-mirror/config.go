package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tmazeterm/tvmaze/internal/model"
)

const defaultQueryTimeout = 30 * time.Second

// mirrorConfig is the mirror's runtime configuration. The yaml tags match
// the config file keys so -dump-config output can be fed back in.
type mirrorConfig struct {
	ListenAddr       string        `mapstructure:"listen-addr" yaml:"listen-addr"`
	UpstreamURL      string        `mapstructure:"upstream-url" yaml:"upstream-url"`
	RequestTimeout   time.Duration `mapstructure:"request-timeout" yaml:"request-timeout"`
	MaxRetries       int           `mapstructure:"max-retries" yaml:"max-retries"`
	CachePath        string        `mapstructure:"cache-path" yaml:"cache-path"`
	QueryTimeout     time.Duration `mapstructure:"query-timeout" yaml:"query-timeout"`
	CacheMaxAge      time.Duration `mapstructure:"cache-max-age" yaml:"cache-max-age"`
	PruneInterval    time.Duration `mapstructure:"prune-interval" yaml:"prune-interval"`
	WarmPages        int           `mapstructure:"warm-pages" yaml:"warm-pages"`
	WarmConcurrency  int           `mapstructure:"warm-concurrency" yaml:"warm-concurrency"`
	SnapshotDir      string        `mapstructure:"snapshot-dir" yaml:"snapshot-dir"`
	SnapshotInterval time.Duration `mapstructure:"snapshot-interval" yaml:"snapshot-interval"`
	SnapshotKeep     int           `mapstructure:"snapshot-keep" yaml:"snapshot-keep"`
	ConfigPath       string        `mapstructure:"-" yaml:"-"`
}

func loadConfig(configPath string) (mirrorConfig, error) {
	var cfg mirrorConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("TVMAZE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("listen-addr", model.DefaultMirrorAddr)
	v.SetDefault("upstream-url", model.DefaultAPIBaseURL)
	v.SetDefault("request-timeout", model.DefaultRequestTimeout)
	v.SetDefault("max-retries", model.DefaultMaxRetries)
	v.SetDefault("cache-path", filepath.Join(home, ".local", "share", "tvmaze", "mirror.duckdb"))
	v.SetDefault("query-timeout", defaultQueryTimeout)
	v.SetDefault("cache-max-age", time.Duration(0))
	v.SetDefault("prune-interval", time.Hour)
	v.SetDefault("warm-pages", model.DefaultWarmPages)
	v.SetDefault("warm-concurrency", model.DefaultWarmConcurrency)
	v.SetDefault("snapshot-dir", "")
	v.SetDefault("snapshot-interval", 6*time.Hour)
	v.SetDefault("snapshot-keep", 24)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "tvmaze", "mirror.yml"))
	}

	configFound := true
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
		configFound = false
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if configFound {
		cfg.ConfigPath = v.ConfigFileUsed()
	}

	if _, _, err := net.SplitHostPort(cfg.ListenAddr); err != nil {
		return cfg, fmt.Errorf("invalid listen-addr %q: %w", cfg.ListenAddr, err)
	}
	if cfg.WarmPages < 0 {
		return cfg, fmt.Errorf("invalid warm-pages: %d", cfg.WarmPages)
	}
	if cfg.WarmConcurrency <= 0 {
		return cfg, fmt.Errorf("invalid warm-concurrency: %d", cfg.WarmConcurrency)
	}

	// Expand ~ in paths
	cfg.CachePath = expandHome(cfg.CachePath, home)
	cfg.SnapshotDir = expandHome(cfg.SnapshotDir, home)

	return cfg, nil
}

func expandHome(path, home string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
