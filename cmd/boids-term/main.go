package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/termview"
	golog "github.com/tochemey/goakt/v3/log"
)

const populationStep = 10

type app struct {
	ctx    context.Context
	screen tcell.Screen
	engine *simulation.Engine
	view   *termview.View
	logger golog.Logger
	last   *simulation.WorldSnapshot
}

func main() {
	configFile := flag.String("config", "", "configuration file (.json, .yaml or .toml)")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one")
	logFile := flag.String("log", "", "write logs to this file, the terminal is busy")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := golog.InfoLevel
	if *debug {
		level = golog.DebugLevel
	}
	var out io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			golog.DefaultLogger.Errorf("opening log file: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	logger := golog.New(level, out)

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		loaded, err := simulation.LoadConfig(*configFile)
		if err != nil {
			golog.DefaultLogger.Errorf("loading config: %v", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	glyph, err := cfg.GlyphKind()
	if err != nil {
		golog.DefaultLogger.Errorf("%v", err)
		os.Exit(1)
	}
	state, err := cfg.SimulationState()
	if err != nil {
		golog.DefaultLogger.Errorf("building simulation: %v", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		golog.DefaultLogger.Errorf("opening terminal: %v", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		golog.DefaultLogger.Errorf("initializing terminal: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	engine, err := simulation.StartEngine(ctx, state, logger)
	if err != nil {
		screen.Fini()
		golog.DefaultLogger.Errorf("starting world: %v", err)
		os.Exit(1)
	}

	a := &app{
		ctx:    ctx,
		screen: screen,
		engine: engine,
		view:   &termview.View{Glyph: glyph},
		logger: logger,
	}
	a.run(cfg.TPS)

	screen.Fini()
	_ = engine.Stop(ctx)
}

func (a *app) run(tps int) {
	if tps < 1 {
		tps = 60
	}
	frame := time.Second / time.Duration(tps)
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				// screen finalized
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleInput(ev) {
				return
			}

		case <-ticker.C:
			if snap := a.engine.Latest(); snap != nil {
				a.last = snap
			}
			if err := a.engine.Tick(a.ctx, frame); err != nil {
				a.logger.Errorf("tick: %v", err)
				return
			}
			a.view.Draw(a.screen, a.last)
			a.screen.Show()
		}
	}
}

// handleInput returns false when the user asked to quit.
func (a *app) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case 'a':
			a.toggleAutopilot()
		case '+', '=':
			a.addBoids(populationStep)
		case '-':
			a.addBoids(-populationStep)
		case 'm':
			a.switchMode()
		case 'g':
			a.view.Glyph = (a.view.Glyph + 1) % (behavior.GlyphLetter + 1)
		}

	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *app) toggleAutopilot() {
	if a.last == nil {
		return
	}
	if err := a.engine.SetAutopilot(a.ctx, !a.last.Autopilot); err != nil {
		a.logger.Warnf("autopilot: %v", err)
	}
}

func (a *app) addBoids(delta int) {
	if a.last == nil {
		return
	}
	n := a.last.Params.PopulationSize + delta
	if n < 0 {
		n = 0
	}
	if err := a.engine.Update(a.ctx, map[string]interface{}{simulation.KeyPopulationSize: n}); err != nil {
		a.logger.Warnf("population: %v", err)
	}
}

func (a *app) switchMode() {
	if a.last == nil {
		return
	}
	mode := behavior.UpdateSequential
	if a.last.Params.UpdateMode == behavior.UpdateSequential {
		mode = behavior.UpdateSnapshot
	}
	if err := a.engine.Update(a.ctx, map[string]interface{}{simulation.KeyUpdateMode: mode.String()}); err != nil {
		a.logger.Warnf("update mode: %v", err)
	}
}
