package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/manas/internal/audio"
	"github.com/sandeepkv93/manas/internal/config"
	"github.com/sandeepkv93/manas/internal/gateway"
	"github.com/sandeepkv93/manas/internal/locate"
	"github.com/sandeepkv93/manas/internal/logging"
	"github.com/sandeepkv93/manas/internal/scheduler"
	"github.com/sandeepkv93/manas/internal/storage"
	"github.com/sandeepkv93/manas/internal/update"
)

type rootFlags struct {
	configPath string
	baseURL    string
	storePath  string
	name       string
	logLevel   string
	timeout    time.Duration
	desktop    bool
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:   "manas",
		Short: "A calm companion for your terminal",
		Long: `manas is a terminal wellness companion: chat, mood logging, breathing,
meditation, digital detox and more, backed by a local AI service.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runTUI(cfg)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", config.DefaultFilePath(), "path to the YAML config file")
	pf.StringVar(&flags.storePath, "store", "", "state store path (*.json for a file store, otherwise SQLite)")
	rootCmd.Flags().StringVar(&flags.baseURL, "base-url", "", "AI backend base URL")
	rootCmd.Flags().StringVar(&flags.name, "name", "", "name Manas greets you with")
	rootCmd.Flags().StringVar(&flags.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "backend request timeout")
	rootCmd.Flags().BoolVar(&flags.desktop, "desktop-notifications", false, "also send reminders as desktop notifications")

	rootCmd.AddCommand(NewStatsCommand(flags))
	rootCmd.AddCommand(NewMoodsCommand(flags))
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the config file, MANAS_* variables and then
// any flags set on the command line.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (config.RuntimeConfig, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.RuntimeConfig{}, err
	}
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("store") {
		cfg.StorePath = flags.storePath
	}
	if changed("base-url") {
		cfg.BaseURL = strings.TrimRight(flags.baseURL, "/")
	}
	if changed("name") {
		cfg.UserName = strings.TrimSpace(flags.name)
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if changed("timeout") && flags.timeout > 0 {
		cfg.Timeout = flags.timeout
	}
	if changed("desktop-notifications") {
		cfg.DesktopNotifications = flags.desktop
	}
	return cfg, nil
}

func openStore(cfg config.RuntimeConfig) (storage.Store, storage.Snapshot, error) {
	store, err := storage.Open(cfg.StorePath)
	if err != nil {
		return nil, storage.Snapshot{}, fmt.Errorf("open store %s: %w", cfg.StorePath, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := store.Load(ctx)
	if err != nil {
		_ = store.Close()
		return nil, storage.Snapshot{}, fmt.Errorf("load state: %w", err)
	}
	return store, snap, nil
}

func runTUI(cfg config.RuntimeConfig) error {
	logger, logCloser, err := logging.Open(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logCloser.Close()

	store, snap, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := gateway.New(gateway.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	player := audio.NewExecPlayer(cfg.AudioDir, cfg.PlayerCommand)
	defer player.Stop()

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}

	logger.Info("starting", "base_url", client.BaseURL(), "store", cfg.StorePath, "reminders", len(snap.Reminders))
	model := update.NewModel(update.Options{
		Config:    cfg,
		Backend:   client,
		Store:     store,
		Player:    player,
		Locator:   locatorFor(cfg),
		Scheduler: engine,
		Notifier:  notifier,
		Logger:    logger,
		Snapshot:  snap,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Error("program exited", "error", err)
		return fmt.Errorf("manas failed: %w", err)
	}
	return nil
}

func locatorFor(cfg config.RuntimeConfig) locate.Locator {
	loc := locate.Static{Allowed: cfg.LocationSharing}
	if cfg.Latitude != 0 || cfg.Longitude != 0 {
		loc.Position = &locate.Position{Latitude: cfg.Latitude, Longitude: cfg.Longitude}
	}
	return loc
}
