package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/petems/clipslot/internal/app"
	"github.com/petems/clipslot/internal/config"
	"github.com/petems/clipslot/internal/inject"
	"github.com/petems/clipslot/internal/logging"
	"github.com/petems/clipslot/internal/permissions"
	"github.com/petems/clipslot/internal/storage"
	"github.com/petems/clipslot/internal/streamdeck"
	"github.com/petems/clipslot/internal/tray"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

var (
	cfgFile    string
	launchArgs streamdeck.LaunchArgs
)

var rootCmd = &cobra.Command{
	Use:   "clipslot",
	Short: "Clipboard slots for macro-pad keys",
	Long: `ClipSlot turns macro-pad keys into clipboard slots: tap an empty key to
capture the clipboard, tap a filled key to paste it, hold to clear.

The host application starts this binary with -port, -pluginUUID,
-registerEvent and -info.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlugin(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("clipslot %s (%s)\n", Version, Commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.Path()+")")

	flags := rootCmd.Flags()
	flags.IntVar(&launchArgs.Port, streamdeck.FlagPort, 0, "host WebSocket port")
	flags.StringVar(&launchArgs.PluginUUID, streamdeck.FlagPluginUUID, "", "plugin instance UUID")
	flags.StringVar(&launchArgs.RegisterEvent, streamdeck.FlagRegisterEvent, "", "registration event name")
	flags.StringVar(&launchArgs.Info, streamdeck.FlagInfo, "", "host and device information (JSON)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.SetArgs(streamdeck.NormalizeArgs(os.Args[1:]))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFrom(cfgFile)
	}
	return config.Load()
}

func runPlugin(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		// Use default logger if config fails to load
		log := logging.New()
		log.Error().Err(err).Msg("Failed to load config")
		return err
	}

	// Initialize logger with configured level
	log := logging.NewWithLevel(cfg.LogLevel)

	if info, err := streamdeck.ParseInfo(launchArgs.Info); err != nil {
		log.Warn().Err(err).Msg("Ignoring host info")
	} else {
		log.Info().
			Str("version", Version).
			Str("host_platform", info.Application.Platform).
			Str("host_version", info.Application.Version).
			Int("devices", len(info.Devices)).
			Msg("ClipSlot starting...")
	}

	// macOS drops synthesized keystrokes without accessibility approval
	if err := permissions.EnsurePermissions(); err != nil {
		log.Warn().Err(err).Msg("Paste will not reach other applications")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var recorder app.Recorder
	if cfg.Journal.Enabled {
		journal, err := storage.Open(cfg.JournalPath())
		if err != nil {
			log.Warn().Err(err).Msg("Journal disabled")
		} else {
			defer journal.Close()
			defer logSession(journal, log)
			log.Info().Str("session", journal.SessionID()).Msg("Journal opened")
			recorder = journal
		}
	}

	client := streamdeck.New(launchArgs, log)
	if err := client.Connect(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to connect to host")
		return err
	}
	defer client.Close()

	if err := client.LogMessage(ctx, fmt.Sprintf("ClipSlot %s started", Version)); err != nil {
		log.Warn().Err(err).Msg("Failed to write host log")
	}

	application := app.New(app.Config{
		Host:      client,
		Clipboard: inject.NewClipboard(),
		Paster:    inject.New(cfg.PasteDelay()),
		Recorder:  recorder,
		Config:    cfg,
		Logger:    log,
	})
	defer application.Shutdown(context.Background())

	if !cfg.Tray.Enabled {
		return runClient(ctx, client, application, log)
	}

	trayUI := tray.New(application, log, Version, Commit, cancel)
	application.SetStatusUpdater(trayUI)

	errc := make(chan error, 1)
	go func() {
		errc <- runClient(ctx, client, application, log)
		cancel()
	}()

	// Start tray UI - MUST run on main thread
	if err := trayUI.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Tray error")
	}
	cancel()
	return <-errc
}

func runClient(ctx context.Context, client *streamdeck.Client, h streamdeck.Handler, log zerolog.Logger) error {
	if err := client.Run(ctx, h); err != nil {
		log.Error().Err(err).Msg("Host connection lost")
		return err
	}
	log.Info().Msg("Shutting down...")
	return nil
}

func logSession(journal *storage.Journal, log zerolog.Logger) {
	n, err := journal.SessionCount(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("Failed to count session events")
		return
	}
	log.Info().Str("session", journal.SessionID()).Int("events", n).Msg("Journal closed")
}
