package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/thinksmartgroup/Search-AI/internal/config"
	"github.com/thinksmartgroup/Search-AI/internal/correlate"
	"github.com/thinksmartgroup/Search-AI/internal/dispatch"
	"github.com/thinksmartgroup/Search-AI/internal/server"
	"github.com/thinksmartgroup/Search-AI/internal/sink"
)

// runConfig holds parsed command-line flags. File configuration is layered
// underneath: flags override the file, the file overrides defaults.
type runConfig struct {
	ConfigPath string
	Addr       string
	DataDir    string
}

func main() {
	cfg := runConfig{}
	flag.StringVar(&cfg.ConfigPath, "config", "", "Path to YAML configuration file (optional)")
	flag.StringVar(&cfg.Addr, "addr", "", "Address to listen on (overrides config file)")
	flag.StringVar(&cfg.DataDir, "data-dir", "", "Directory for callback payload backups (overrides config file)")
	flag.Parse()

	// Setup logger
	logConfig := zap.NewProductionConfig()
	logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := logConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

// run loads configuration and starts the engine, separated from main() for
// testability.
func run(rc runConfig, logger *zap.Logger) error {
	cfg := config.Default()
	if rc.ConfigPath != "" {
		loaded, err := config.Load(rc.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if rc.Addr != "" {
		cfg.ListenAddr = rc.Addr
	}
	if rc.DataDir != "" {
		cfg.DataDir = rc.DataDir
	}

	logger.Info("Starting enrichment correlation engine",
		zap.String("addr", cfg.ListenAddr),
		zap.String("data_dir", cfg.DataDir),
		zap.Duration("poll_interval", cfg.PollInterval()),
		zap.Duration("wait_timeout", cfg.WaitTimeout()),
		zap.Bool("dispatch_configured", cfg.Enrichment.ServiceURL != ""),
	)

	return startServer(cfg, logger)
}

// startServer wires the sink, backup, archive, dispatch client, and resolver
// together and blocks until a shutdown signal arrives. Extracted from run()
// so tests can drive it with a synthetic config.
func startServer(cfg config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	backup, err := sink.NewBackup(cfg.DataDir, logger)
	if err != nil {
		return fmt.Errorf("failed to create backup store: %w", err)
	}
	callbackSink := sink.NewWithOptions(logger, sink.Options{Backup: backup})

	var archive *sink.Archive
	if cfg.ArchivePath != "" {
		archive, err = sink.OpenArchive(cfg.ArchivePath, logger)
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer archive.Close()
	}

	// Dispatch is optional: without a service URL the engine still ingests
	// and serves callbacks, it just cannot originate requests.
	var resolver *correlate.Resolver
	if cfg.Enrichment.ServiceURL != "" {
		client, err := dispatch.NewClient(logger, dispatch.Config{
			ServiceURL:     cfg.Enrichment.ServiceURL,
			APIKey:         cfg.Enrichment.APIKey,
			CallbackURL:    cfg.Enrichment.CallbackURL,
			TimeoutSeconds: cfg.Enrichment.TimeoutSeconds,
			MaxRetries:     cfg.Enrichment.MaxRetries,
		})
		if err != nil {
			return fmt.Errorf("failed to create dispatch client: %w", err)
		}
		resolver = correlate.NewResolver(callbackSink, client, correlate.Options{
			PollInterval: cfg.PollInterval(),
			Timeout:      cfg.WaitTimeout(),
		}, logger)
	}

	srv := server.New(server.Config{
		Addr:                cfg.ListenAddr,
		IngestRatePerSecond: cfg.IngestRatePerSecond,
	}, callbackSink, resolver, archive, logger)

	if err := srv.Start(ctx); err != nil {
		return err
	}

	logger.Info("Engine stopped")
	return nil
}
