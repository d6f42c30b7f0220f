package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tmazeterm/tvmaze/internal/catalog"
	"github.com/tmazeterm/tvmaze/internal/duckdb"
	"github.com/tmazeterm/tvmaze/internal/model"
	"github.com/tmazeterm/tvmaze/internal/tui"
	"github.com/tmazeterm/tvmaze/internal/tvmaze"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var apiURL string
	var offline bool
	var debug bool
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/tvmaze/config.yml)")
	flag.StringVar(&apiURL, "api", "", "override the catalog API base URL (a tvmaze-mirror works too)")
	flag.BoolVar(&offline, "offline", false, "browse the local cache only")
	flag.BoolVar(&debug, "debug", false, "log at debug level")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("tvmaze - TV show browser\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}

	if err := runTUI(cfg, offline, debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg cliConfig, offline, debug bool) error {
	logger, err := newFileLogger(cfg.LogFile, debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	opts := []catalog.Option{catalog.WithLogger(logger.Named("catalog"))}
	if cfg.CacheEnabled {
		store, err := duckdb.NewStore(cfg.CachePath, duckdb.WithLogger(logger.Named("cache")))
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		defer store.Close()
		opts = append(opts, catalog.WithStore(store))

		if pruner := duckdb.NewPruner(store, duckdb.PrunerConfig{MaxAge: cfg.CacheMaxAge}); pruner != nil {
			defer pruner.Stop()
		}
	} else if offline {
		return fmt.Errorf("-offline needs the cache; set cache-enabled")
	}

	var remote model.CatalogReader
	if !offline {
		client, err := tvmaze.NewClient(cfg.APIBaseURL,
			tvmaze.WithTimeout(cfg.RequestTimeout),
			tvmaze.WithMaxRetries(cfg.MaxRetries),
			tvmaze.WithLogger(logger.Named("tvmaze")),
		)
		if err != nil {
			return err
		}
		remote = tvmaze.NewRepository(client)
	}

	service := catalog.New(remote, opts...)

	logger.Info("starting browser",
		zap.String("version", version),
		zap.String("api", cfg.APIBaseURL),
		zap.Bool("offline", offline),
		zap.Bool("cache", cfg.CacheEnabled),
		zap.String("config", cfg.ConfigPath),
	)

	nav := tui.NewNavigator(tui.Options{
		Catalog:            service,
		Logger:             logger.Named("tui"),
		SearchDebounce:     cfg.SearchDebounce,
		ReverseScrollWheel: cfg.ReverseScrollWheel,
	})
	defer nav.Close()

	p := tea.NewProgram(nav, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// newFileLogger writes JSON logs to path; the terminal belongs to the TUI.
func newFileLogger(path string, debug bool) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	config := zap.NewProductionConfig()
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
