package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tmazeterm/tvmaze/internal/backup"
	"github.com/tmazeterm/tvmaze/internal/catalog"
	"github.com/tmazeterm/tvmaze/internal/duckdb"
	"github.com/tmazeterm/tvmaze/internal/httpserver"
	"github.com/tmazeterm/tvmaze/internal/model"
	"github.com/tmazeterm/tvmaze/internal/tvmaze"
)

// runMirror opens the cache, warms it from the upstream and serves it until
// SIGINT or SIGTERM.
func runMirror(cfg mirrorConfig) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := duckdb.NewStore(cfg.CachePath,
		duckdb.WithQueryTimeout(cfg.QueryTimeout),
		duckdb.WithLogger(logger.Named("cache")),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize DuckDB: %w", err)
	}
	defer store.Close()

	// Start the pruner so stale fetches go back upstream
	pruner := duckdb.NewPruner(store, duckdb.PrunerConfig{
		MaxAge:   cfg.CacheMaxAge,
		Interval: cfg.PruneInterval,
	})
	if pruner != nil {
		defer pruner.Stop()
	}

	var upstream model.CatalogReader
	if cfg.UpstreamURL != "" {
		client, err := tvmaze.NewClient(cfg.UpstreamURL,
			tvmaze.WithTimeout(cfg.RequestTimeout),
			tvmaze.WithMaxRetries(cfg.MaxRetries),
			tvmaze.WithLogger(logger.Named("upstream")),
		)
		if err != nil {
			return err
		}
		upstream = tvmaze.NewRepository(client)
	}

	service := catalog.New(upstream,
		catalog.WithStore(store),
		catalog.WithFanout(cfg.WarmConcurrency),
		catalog.WithLogger(logger.Named("catalog")),
	)

	snapshots, err := backup.NewManager(store, backup.Config{
		Dir:      cfg.SnapshotDir,
		Interval: cfg.SnapshotInterval,
		KeepLast: cfg.SnapshotKeep,
	}, logger.Named("backup"))
	if err != nil {
		return fmt.Errorf("failed to initialize snapshots: %w", err)
	}

	api := httpserver.NewServer(cfg.ListenAddr, service, store, logger.Named("http"))
	if err := api.Start(); err != nil {
		return fmt.Errorf("failed to start mirror server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
			return
		}
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	printStartupBanner(cfg, api.Addr())

	g, gctx := errgroup.WithContext(ctx)

	if upstream != nil && cfg.WarmPages > 0 {
		g.Go(func() error {
			// A failed warm-up leaves a partial cache; the mirror keeps serving.
			if _, err := service.Warm(gctx, cfg.WarmPages); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("warm-up incomplete", zap.Error(err))
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("mirror: errgroup exited with error", zap.Error(err))
	}

	if err := api.Stop(); err != nil {
		logger.Warn("mirror server shutdown", zap.Error(err))
	}

	// One last snapshot so a restart from the newest copy loses nothing.
	if snapshots != nil {
		snapshots.Stop()
		snapCtx, snapCancel := context.WithTimeout(context.Background(), time.Minute)
		defer snapCancel()
		if _, err := snapshots.RunOnce(snapCtx); err != nil {
			logger.Error("shutdown snapshot failed", zap.Error(err))
		}
	}
	return nil
}

func printStartupBanner(cfg mirrorConfig, addr string) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	separator := dim.Render("    ─────────────────────────────────")

	lines := []string{
		"",
		cyan.Bold(true).Render("    tvmaze-mirror") + "  " + dim.Render("v"+version),
		"",
		separator,
		"",
		bold.Render("    Serving"),
		"",
		fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render("http://"+addr)),
	}

	if cfg.UpstreamURL != "" {
		lines = append(lines, fmt.Sprintf("    %s  Upstream       %s", check, cyan.Render(cfg.UpstreamURL)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Upstream       %s", dot, dim.Render("none (cache only)")))
	}
	lines = append(lines, "", bold.Render("    Cache"), "")
	lines = append(lines, fmt.Sprintf("    %s  Storage        %s", check, dim.Render(shortenPath(cfg.CachePath))))

	if cfg.UpstreamURL != "" && cfg.WarmPages > 0 {
		lines = append(lines, fmt.Sprintf("    %s  Warm-up        %s", check,
			dim.Render(fmt.Sprintf("%d pages, %d at a time", cfg.WarmPages, cfg.WarmConcurrency))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Warm-up        %s", dot, dim.Render("disabled")))
	}
	if cfg.CacheMaxAge > 0 {
		lines = append(lines, fmt.Sprintf("    %s  Max age        %s", check, dim.Render(cfg.CacheMaxAge.String())))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Max age        %s", dot, dim.Render("keep forever")))
	}
	if cfg.SnapshotDir != "" {
		lines = append(lines, fmt.Sprintf("    %s  Snapshots      %s", check,
			dim.Render(fmt.Sprintf("%s every %s, keep %d", shortenPath(cfg.SnapshotDir), cfg.SnapshotInterval, cfg.SnapshotKeep))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Snapshots      %s", dot, dim.Render("disabled")))
	}

	lines = append(lines, "", bold.Render("    Config"), "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines,
		"",
		separator,
		"",
		"    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"),
		"",
	)

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
