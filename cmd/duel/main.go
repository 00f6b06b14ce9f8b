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

	"github.com/thraizz/monster-duel/internal/config"
	"github.com/thraizz/monster-duel/internal/console"
	"github.com/thraizz/monster-duel/internal/deck"
	"github.com/thraizz/monster-duel/internal/game"
	"github.com/thraizz/monster-duel/internal/server"
)

var (
	configPath = flag.String("config", "", "path to configuration file (defaults and DUEL_* environment only when empty)")
	showReplay = flag.Bool("replay", false, "print every recorded board once the match is over")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting monster duel",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := run(ctx, cfg, logger)
	if err != nil {
		logger.Error("duel aborted", zap.Error(err))
		stop()
		os.Exit(1)
	}

	if res.Draw {
		fmt.Printf("The match ended in a draw after %d turns.\n", res.Turns)
	} else {
		fmt.Printf("Player %s won after %d turns!\n", res.Winner, res.Turns)
	}
	for _, p := range cfg.Match.PlayerIDs {
		st := res.Stats[p]
		fmt.Printf("  %s: %d LP, %d attacks, %d damage taken, %d counters played\n",
			p, res.LifePoints[p], st.Attacks, st.DamageTaken, len(st.CountersPlayed))
	}

	if *showReplay && res.Replay != nil {
		if _, err := game.WriteReplay(os.Stdout, res.Replay, cfg.Match.PlayerIDs[0]); err != nil {
			logger.Error("failed to write replay", zap.Error(err))
		}
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*game.Result, error) {
	catalog, err := loadCatalog(ctx, cfg.Catalog, logger)
	if err != nil {
		return nil, err
	}

	seed := cfg.Match.Seed
	if seed == 0 {
		if seed, err = deck.NewSeed(); err != nil {
			return nil, err
		}
	}
	factory, err := deck.NewFactory(catalog, seed, logger.Named("deck"))
	if err != nil {
		return nil, fmt.Errorf("build deck factory: %w", err)
	}
	logger.Info("deck factory initialized", zap.Int64("seed", seed))

	term := console.New(os.Stdin, os.Stdout, logger)
	observers := game.NewMultiObserver(logger, game.NewLogObserver(logger), term)

	var hub *server.Hub
	if cfg.Broadcast.Enabled {
		hub = server.NewHub(cfg.Broadcast.SendBuffer, logger)
		observers.Add(hub)
		go func() {
			if wsErr := server.ListenAndServe(ctx, cfg.Broadcast.Address, cfg.Broadcast.Path, hub, logger); wsErr != nil {
				logger.Error("WebSocket server error", zap.Error(wsErr))
			}
		}()
	}

	players := cfg.Match.PlayerIDs
	boards := game.NewBoards(factory, players, cfg.Match.LifePoints, logger)
	match, err := game.NewMatch(players, boards, term,
		game.WithLogger(logger),
		game.WithObserver(observers),
		game.WithMaxTurns(cfg.Match.MaxTurns),
	)
	if err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	if hub != nil {
		hub.SetMatchID(match.ID())
	}

	logger.Info("match initialized",
		zap.String("match_id", match.ID()),
		zap.Strings("players", players),
		zap.Int("life_points", cfg.Match.LifePoints),
		zap.Int("max_turns", cfg.Match.MaxTurns),
	)
	return match.Run(ctx)
}

func loadCatalog(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) (*deck.Catalog, error) {
	switch cfg.Source {
	case config.CatalogYAML:
		c, err := deck.LoadCatalogFile(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", cfg.Path, err)
		}
		return c, nil
	case config.CatalogPostgres:
		store, err := deck.Connect(ctx, cfg.DatabaseURL, logger.Named("catalog"))
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.LoadCatalog(ctx)
	default:
		return deck.BuiltinCatalog()
	}
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// stdout carries the boards.
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}
