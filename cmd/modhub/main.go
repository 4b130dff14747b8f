package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gamemods/modhub/internal/assetcache"
	"github.com/gamemods/modhub/internal/config"
	"github.com/gamemods/modhub/internal/feed"
	"github.com/gamemods/modhub/internal/launcher"
	"github.com/gamemods/modhub/internal/log"
	"github.com/gamemods/modhub/internal/store"
	"github.com/gamemods/modhub/internal/tui"
	"github.com/gamemods/modhub/internal/variant"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("modhub %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting modhub", "version", Version)

	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg); err != nil {
			return err
		}
	}

	snapshots, err := store.Open(cfg.Cache.Dir)
	if err != nil {
		logger.Warn("snapshot store unavailable, running without offline fallback", "error", err)
		snapshots, _ = store.Open("")
	}
	defer snapshots.Close()

	client := feed.NewClient(cfg.Feed.URL, feed.ClientOptions{
		Timeout:    time.Duration(cfg.Feed.TimeoutSeconds) * time.Second,
		RetryCount: cfg.Feed.RetryCount,
	})
	norm := feed.NewNormalizer(cfg.Feed.Strict, logger)
	source := feed.NewSource(client, snapshots, norm, logger)

	var cache *assetcache.Cache
	if cfg.Cache.Assets {
		cache, err = assetcache.Open(cfg.Cache.Dir, cfg.Cache.Version, logger)
		if err != nil {
			logger.Warn("asset cache unavailable, previews will not be warmed", "error", err)
		} else {
			defer cache.Close()
		}
	}

	opener := launcher.New(cfg.Opener.Command, cfg.Opener.Args, logger)

	model := tui.NewModel(tui.Options{
		Loader:   source,
		Opener:   opener,
		Cache:    cache,
		Logger:   logger,
		PageSize: cfg.Browse.PageSize,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow prompts for the feed URL on first start
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to modhub!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Enter your mod feed URL (e.g., https://example.com/mods.json): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading feed URL: %w", err)
		}

		url := strings.TrimSpace(input)
		if !variant.Valid(url) {
			fmt.Println("That does not look like an http(s) URL, try again.")
			continue
		}

		cfg.Feed.URL = url
		break
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("Saved. Starting the browser...")
	fmt.Println()
	return nil
}
