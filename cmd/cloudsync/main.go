package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cloudsync/config"
	"cloudsync/download"
	"cloudsync/download/metadata"
	"cloudsync/library"
	"cloudsync/logging"
	"cloudsync/netease"
	"cloudsync/notify"
	"cloudsync/sync"
)

func main() {
	// Env vars override config file values, so load .env before anything else.
	_ = godotenv.Load()

	app := &cli.Command{
		Name:    "cloudsync",
		Usage:   "Sync daily cloud music playlists into a local library",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.yaml",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Execute one sync pass and exit",
				Action: runOnce,
			},
			{
				Name:   "daemon",
				Usage:  "Run the sync on the configured cron schedule",
				Action: runDaemon,
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "cloudsync: %v\n", err)
		os.Exit(1)
	}
}

func runOnce(ctx context.Context, cmd *cli.Command) error {
	service, logger, cleanup, err := buildService(cmd.String("config"))
	if err != nil {
		return err
	}
	defer cleanup()
	defer logger.Sync()

	_, err = service.Run(ctx)
	return err
}

func runDaemon(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	service, logger, cleanup, err := buildServiceFromConfig(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	defer logger.Sync()

	scheduler, err := sync.NewScheduler(service, cfg.Schedule, logger)
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
	logger.Info("shutdown signal received")
	return nil
}

func buildService(configPath string) (*sync.Service, *zap.Logger, func(), error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	return buildServiceFromConfig(cfg)
}

// buildServiceFromConfig wires every pipeline component from a validated
// config. The returned cleanup closes backend connections.
func buildServiceFromConfig(cfg *config.Config) (*sync.Service, *zap.Logger, func(), error) {
	logger := logging.New(cfg.LogLevel)

	client := netease.NewClient(cfg.Cookie, logger)
	if !client.HasSession() {
		logger.Warn("cookie carries no session, only free tracks will resolve")
	}

	// Exactly one existence backend runs per process; navidrome wins when
	// both are configured.
	var checker library.Checker
	cleanup := func() {}
	if cfg.Navidrome.Enabled {
		checker = library.NewNavidromeChecker(
			cfg.Navidrome.Host, cfg.Navidrome.Username, cfg.Navidrome.Password,
			cfg.Undesired(), logger)
	} else if cfg.Database.Enabled {
		dbChecker := library.NewDatabaseChecker(cfg.Database.DSN, cfg.Undesired(), logger)
		checker = dbChecker
		cleanup = func() {
			if err := dbChecker.Close(); err != nil {
				logger.Warn("failed to close database checker", zap.Error(err))
			}
		}
	}
	lib := library.New(logger, checker)

	downloadDir := cfg.DownloadDir
	if downloadDir == "" {
		downloadDir = download.DetectDownloadDir()
	}
	downloader, err := download.NewDownloader(client, metadata.NewEmbedder(logger), downloadDir, logger)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	logger.Info("download directory ready", zap.String("dir", downloadDir))

	notifier := notify.NewBarkNotifier(cfg.BarkAPI, logger)
	service := sync.NewService(client, downloader, lib, notifier, cfg.UID, cfg.Quality(), logger)
	return service, logger, cleanup, nil
}
