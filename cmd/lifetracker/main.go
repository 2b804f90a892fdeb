package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/podtracker/lifetracker-go/internal/config"
	"github.com/podtracker/lifetracker-go/internal/console"
	"github.com/podtracker/lifetracker-go/internal/game"
	"github.com/podtracker/lifetracker-go/internal/game/rules"
	"github.com/podtracker/lifetracker-go/internal/identity"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
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

	logger.Info("starting life tracker",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	// Create context that listens for termination signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received shutdown signal", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	// Open identity store
	store, err := identity.Open(ctx, identity.StoreConfig{
		Driver: cfg.Identity.Driver,
		Path:   cfg.Identity.Path,
		DSN:    cfg.Identity.DSN,
	}, logger)
	if err != nil {
		logger.Fatal("failed to open identity store", zap.Error(err))
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Warn("failed to close identity store", zap.Error(closeErr))
		}
	}()

	stored := identity.LoadOrDefault(ctx, store, logger)

	// Start background identity persistence
	persister := identity.NewPersister(store, logger,
		identity.WithSaveRate(cfg.Identity.SaveInterval, cfg.Identity.SaveBurst),
	)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		persister.Run(ctx)
	}()

	bus := rules.NewEventBus()
	bus.SubscribeTyped(rules.EventGameReset, func(ev rules.Event) {
		logger.Info("game reset", zap.Int("starting_life", ev.Amount))
	})

	engine := game.NewEngine(stored,
		game.WithLogger(logger.Named("engine")),
		game.WithIdentitySink(persister),
		game.WithEventBus(bus),
	)
	logger.Info("session started",
		zap.Int("starting_life", engine.State().StartingLife),
	)

	c := console.New(engine, game.NewDiceRoller(engine, nil), os.Stdout, logger.Named("console"))
	if err := console.RenderView(os.Stdout, engine.View(time.Now())); err != nil {
		logger.Warn("failed to render table", zap.Error(err))
	}
	if err := c.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		logger.Error("console stopped", zap.Error(err))
	}

	// Stop background work and write the latest identity
	cancel()
	wg.Wait()

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	persister.Flush(flushCtx)

	logger.Info("life tracker stopped")
}

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

	return zapCfg.Build()
}
