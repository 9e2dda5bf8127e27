package main

import (
	"context"
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/game"
	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/simulation"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configFile := flag.String("config", "", "configuration file (.json, .yaml or .toml)")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := golog.InfoLevel
	if *debug {
		level = golog.DebugLevel
	}
	logger := golog.New(level, os.Stdout)

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		loaded, err := simulation.LoadConfig(*configFile)
		if err != nil {
			logger.Errorf("loading config: %v", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	state, err := cfg.SimulationState()
	if err != nil {
		logger.Errorf("building simulation: %v", err)
		os.Exit(1)
	}
	logger.Infof("seed %d, %d boids, update mode %s", cfg.Seed, state.Flock.Len(), state.Params.UpdateMode)

	ctx := context.Background()
	engine, err := simulation.StartEngine(ctx, state, logger)
	if err != nil {
		logger.Errorf("starting world: %v", err)
		os.Exit(1)
	}
	defer func() { _ = engine.Stop(ctx) }()

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Boids: a study of emergent behavior")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)

	g := game.NewGame(ctx, cfg, engine, logger)
	if err := ebiten.RunGame(g); err != nil {
		logger.Errorf("game stopped: %v", err)
	}
}
