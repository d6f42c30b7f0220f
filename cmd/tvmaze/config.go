package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tmazeterm/tvmaze/internal/model"
)

// cliConfig holds the browser's configuration.
type cliConfig struct {
	APIBaseURL         string        `mapstructure:"api-base-url"`
	RequestTimeout     time.Duration `mapstructure:"request-timeout"`
	MaxRetries         int           `mapstructure:"max-retries"`
	CacheEnabled       bool          `mapstructure:"cache-enabled"`
	CachePath          string        `mapstructure:"cache-path"`
	CacheMaxAge        time.Duration `mapstructure:"cache-max-age"`
	ReverseScrollWheel bool          `mapstructure:"reverse-scroll-wheel"`
	SearchDebounce     time.Duration `mapstructure:"search-debounce"`
	LogFile            string        `mapstructure:"log-file"`
	ConfigPath         string        `mapstructure:"-"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("TVMAZE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("api-base-url", model.DefaultAPIBaseURL)
	v.SetDefault("request-timeout", model.DefaultRequestTimeout)
	v.SetDefault("max-retries", model.DefaultMaxRetries)
	v.SetDefault("cache-enabled", true)
	v.SetDefault("cache-path", filepath.Join(home, ".cache", "tvmaze", "catalog.duckdb"))
	v.SetDefault("cache-max-age", 7*24*time.Hour)
	v.SetDefault("reverse-scroll-wheel", false)
	v.SetDefault("search-debounce", model.DefaultSearchDebounce)
	v.SetDefault("log-file", filepath.Join(home, ".cache", "tvmaze", "tvmaze.log"))

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "tvmaze", "config.yml"))
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

	cfg.CachePath = expandHome(cfg.CachePath, home)
	cfg.LogFile = expandHome(cfg.LogFile, home)
	if cfg.MaxRetries < 0 {
		return cfg, fmt.Errorf("invalid max-retries: %d", cfg.MaxRetries)
	}
	return cfg, nil
}

func expandHome(path, home string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
