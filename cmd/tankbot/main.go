package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/tankbot/pkg/api"
	"github.com/cbodonnell/tankbot/pkg/config"
	"github.com/cbodonnell/tankbot/pkg/game"
	"github.com/cbodonnell/tankbot/pkg/log"
	"github.com/cbodonnell/tankbot/pkg/recording"
	"github.com/cbodonnell/tankbot/pkg/repositories"
	"github.com/cbodonnell/tankbot/pkg/transport"
	"github.com/cbodonnell/tankbot/pkg/version"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Error("Bot failed: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, "", log.DefaultLoggerFlag, cfg.LogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", cfg.LogLevel)
	log.Info("Starting tank bot version %s", version.Get())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t, err := openTransport(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open transport: %w", err)
	}
	defer func() {
		if err := t.Close(); err != nil {
			log.Warn("Failed to close transport: %v", err)
		}
		if player, ok := t.(*recording.Player); ok {
			log.Info("Replay finished with %d divergent actions", player.Divergences())
		}
	}()

	var repository repositories.Repository
	if cfg.DatabaseURL != "" {
		repository, err = repositories.NewRepository(ctx, cfg.DatabaseURL, cfg.Migrations)
		if err != nil {
			return fmt.Errorf("failed to create repository: %w", err)
		}
		defer repository.Close(context.Background())
	}

	opts := game.NewGameOptions{
		Transport: t,
	}
	if repository != nil {
		opts.MatchRecorder = repository
	}
	g := game.NewGame(opts)
	log.SetDefaultLogger(logger.With("match", g.Summary().ID.String()))

	if cfg.DebugAddr != "" {
		apiOpts := api.NewAPIServerOptions{
			Addr: cfg.DebugAddr,
			Game: g,
		}
		if repository != nil {
			apiOpts.Repository = repository
		}
		apiServer := api.NewAPIServer(apiOpts)
		go apiServer.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := apiServer.Stop(shutdownCtx); err != nil {
				log.Warn("Failed to stop debug API server: %v", err)
			}
		}()
	}

	if err := g.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize game: %w", err)
	}
	if err := g.Run(ctx); err != nil {
		return fmt.Errorf("game loop stopped: %w", err)
	}

	summary := g.Summary()
	log.Info("Match %s %s after %d turns: %d shots, %d path requests, %d skipped turns",
		summary.ID, summary.Outcome, summary.Turns, summary.ShotsFired, summary.PathRequests, summary.SkippedTurns)
	return nil
}

// openTransport connects to the game server named by cfg, or opens a
// transcript when replaying. The connection is recorded when asked to.
func openTransport(ctx context.Context, cfg *config.Config) (transport.Transport, error) {
	if cfg.ReplayPath != "" {
		log.Info("Replaying %s", cfg.ReplayPath)
		return recording.OpenPlayer(cfg.ReplayPath)
	}

	var t transport.Transport
	switch cfg.Transport {
	case config.TransportStdio:
		t = transport.NewStdioTransport()
	case config.TransportTCP:
		conn, err := transport.DialTCP(ctx, cfg.Addr)
		if err != nil {
			return nil, err
		}
		t = conn
	case config.TransportWebSocket:
		conn, err := transport.DialWebSocket(ctx, cfg.Addr)
		if err != nil {
			return nil, err
		}
		t = conn
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
	log.Debug("Connected with the %s transport", cfg.Transport)

	if cfg.RecordPath == "" {
		return t, nil
	}
	recorder, err := recording.CreateRecorder(t, cfg.RecordPath)
	if err != nil {
		t.Close()
		return nil, err
	}
	log.Info("Recording match to %s", cfg.RecordPath)
	return recorder, nil
}
