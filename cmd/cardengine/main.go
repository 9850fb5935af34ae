package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/norsetcg/cardengine/internal/config"
	"github.com/norsetcg/cardengine/internal/game"
	"github.com/norsetcg/cardengine/internal/game/match"
	"github.com/norsetcg/cardengine/internal/game/rules"
	"github.com/norsetcg/cardengine/internal/registry"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	cardsPath  = flag.String("cards", "", "card file to read, overrides registry.path")
	turns      = flag.Int("turns", 20, "number of turns to simulate")
	replayDir  = flag.String("replay-dir", "", "directory to save the simulated match transcript to")
	version    = "dev" // set via ldflags during build
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: cardengine [flags] <validate|import|simulate>\n\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *cardsPath != "" {
		cfg.Registry.Source = config.SourceFile
		cfg.Registry.Path = *cardsPath
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting cardengine",
		zap.String("version", version),
		zap.String("command", flag.Arg(0)),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch flag.Arg(0) {
	case "validate":
		err = runValidate(ctx, cfg, logger)
	case "import":
		err = runImport(ctx, cfg, logger)
	case "simulate":
		err = runSimulate(ctx, cfg, logger, *turns, *replayDir)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", flag.Arg(0)), zap.Error(err))
		os.Exit(1)
	}
}

func loadRegistry(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*registry.Registry, error) {
	if cfg.Registry.Source == config.SourcePostgres {
		pool, err := registry.Connect(ctx, cfg.Registry.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		return registry.LoadPostgres(ctx, pool, logger)
	}
	return registry.LoadFile(cfg.Registry.Path, logger)
}

func runValidate(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	reg, err := loadRegistry(ctx, cfg, logger)
	if err != nil {
		return err
	}
	fmt.Printf("%d cards OK\n", reg.Len())
	return nil
}

// runImport copies the card file into PostgreSQL.
func runImport(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if cfg.Registry.DatabaseURL == "" {
		return fmt.Errorf("registry.database_url is required for import")
	}
	reg, err := registry.LoadFile(cfg.Registry.Path, logger)
	if err != nil {
		return err
	}
	pool, err := registry.Connect(ctx, cfg.Registry.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	n, err := registry.Import(ctx, pool, reg, logger)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d cards\n", n)
	return nil
}

// runSimulate plays an AI against an AI, greedily playing whatever fits the mana each
// turn, and prints the event counts and the final checksum. With a replay directory the
// match transcript is saved there.
func runSimulate(ctx context.Context, cfg *config.Config, logger *zap.Logger, turns int, replayDir string) error {
	reg, err := loadRegistry(ctx, cfg, logger)
	if err != nil {
		return err
	}
	engine := game.NewEngine(logger, reg, engineConfig(cfg))
	var recorder *game.ReplayRecorder
	if replayDir != "" {
		recorder = game.NewReplayRecorder(logger.Named("replay"), replayDir)
		engine.SetRecorder(recorder)
	}

	counts := make(map[rules.EventType]int)
	engine.Events().Subscribe(func(ev rules.Event) {
		counts[ev.Type]++
	})

	deck := game.BuildDeck(reg, 30)
	if len(deck) == 0 {
		return fmt.Errorf("no collectible cards to build a deck from")
	}
	st, err := engine.NewMatch(match.Setup{
		Player:   match.Seat{Controller: match.ControllerAI, Deck: deck},
		Opponent: match.Seat{Controller: match.ControllerAI, Deck: deck},
	})
	if err != nil {
		return err
	}

	for i := 0; i < turns; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		st = engine.PlayTurn(st)
		if over, winner := game.Winner(st); over {
			fmt.Printf("winner: %s\n", winner)
			break
		}
	}

	for _, side := range match.Sides() {
		p := st.Player(side)
		fmt.Printf("%s: health %d armor %d board %d hand %d deck %d\n",
			side, p.Hero.Health, p.Hero.Armor, len(p.Battlefield), len(p.Hand), len(p.Deck))
	}
	for ev, n := range counts {
		fmt.Printf("  %-20s %d\n", ev, n)
	}
	fmt.Printf("checksum: %s\n", st.Checksum())

	if recorder != nil {
		if err := recorder.SaveReplay(st.ID()); err != nil {
			return err
		}
		fmt.Printf("transcript: %s.replay\n", filepath.Join(replayDir, st.ID()))
	}
	return nil
}

func engineConfig(cfg *config.Config) game.Config {
	return game.Config{
		Limits: match.Limits{
			MaxHandSize:        cfg.Engine.MaxHandSize,
			MaxBattlefieldSize: cfg.Engine.MaxBattlefieldSize,
			MaxMana:            cfg.Engine.MaxMana,
		},
		StartingHealth:      cfg.Engine.StartingHealth,
		DiscoverOptions:     cfg.Engine.DiscoverOptions,
		MaxDeathrattleDepth: cfg.Engine.MaxDeathrattleDepth,
		Seed:                cfg.Engine.RNGSeed,
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

	return zapCfg.Build()
}
