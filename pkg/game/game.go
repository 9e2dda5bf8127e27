package game

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/ui"
	golog "github.com/tochemey/goakt/v3/log"
)

var background = color.RGBA{R: 17, G: 17, B: 17, A: 255}

const (
	aboutText = `This is a simulation of flocking behavior, also known as "Boids". ` +
		`Each boid follows only three simple rules, yet the life-like flocking motion you see is emergent: ` +
		`it arises from their interactions, without any central leader.`
	howToText = `Use the sliders on the left to control the boids' desires. ` +
		`By default the Auto-Pilot orchestrates the sliders for you. Uncheck it to take manual control. ` +
		`Keys: A toggles the Auto-Pilot, G changes the boid symbol, H hides the panel.`
)

// Game is the ebiten front end. It never touches the flock: it sends
// messages to the world actor and draws the snapshots it gets back.
type Game struct {
	ctx    context.Context
	engine *simulation.Engine
	logger golog.Logger
	last   *simulation.WorldSnapshot

	// current layout size, reported to the world as its bounds
	width, height int
	glyph         behavior.Glyph

	// UI Controls
	panel     *ui.UIPanel
	showPanel bool
	help      *ui.Popup
	helpBtn   *ui.Button

	// Widget references for easy access
	widgetAlignment  *ui.Slider
	widgetCohesion   *ui.Slider
	widgetSeparation *ui.Slider
	widgetPerception *ui.Slider
	widgetMaxSpeed   *ui.Slider
	widgetBoidCount  *ui.Slider
	widgetAutopilot  *ui.Checkbox
	widgetSequential *ui.Checkbox
	widgetShowStats  *ui.Checkbox

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

// NewGame builds the control panel from cfg and wires it to engine.
func NewGame(ctx context.Context, cfg *simulation.Config, engine *simulation.Engine, logger golog.Logger) *Game {
	glyph, err := cfg.GlyphKind()
	if err != nil {
		logger.Warnf("unknown glyph %q, using triangle", cfg.Glyph)
	}
	p := cfg.Parameters

	// Initialize UI Panel with all configuration widgets
	panel := ui.NewUIPanel(10, 10, 260, cfg.WorldHeight-20)
	panel.Title = "Boids"

	panel.AddSection("Steering")
	wAlign := panel.AddSlider("Alignment", 0, 5, 0.1, p.AlignmentWeight)
	wCoh := panel.AddSlider("Cohesion", 0, 5, 0.1, p.CohesionWeight)
	wSep := panel.AddSlider("Separation", 0, 5, 0.1, p.SeparationWeight)
	panel.EndSection()

	panel.AddSection("Perception & Speed")
	wPerc := panel.AddSlider("Perception", 0, 300, 1, p.PerceptionRadius)
	wSpeed := panel.AddSlider("Max Speed", 1, 10, 0.1, p.MaxSpeed)
	panel.EndSection()

	panel.AddSection("Population")
	wCount := panel.AddSlider("Boid Count", 1, 150, 1, float64(p.PopulationSize))
	wAuto := panel.AddCheckbox("Auto-Pilot", cfg.Autopilot.Enabled)
	panel.EndSection()

	panel.AddSection("Display")
	wSeq := panel.AddCheckbox("Sequential update", cfg.UpdateMode == behavior.UpdateSequential.String())
	wStats := panel.AddCheckbox("Show stats", true)
	panel.EndSection()

	g := &Game{
		ctx:              ctx,
		engine:           engine,
		logger:           logger,
		width:            int(cfg.WorldWidth),
		height:           int(cfg.WorldHeight),
		glyph:            glyph,
		panel:            panel,
		showPanel:        true,
		widgetAlignment:  wAlign,
		widgetCohesion:   wCoh,
		widgetSeparation: wSep,
		widgetPerception: wPerc,
		widgetMaxSpeed:   wSpeed,
		widgetBoidCount:  wCount,
		widgetAutopilot:  wAuto,
		widgetSequential: wSeq,
		widgetShowStats:  wStats,
	}
	g.help = ui.NewPopup(560,
		ui.Paragraph{Heading: "About", Body: aboutText},
		ui.Paragraph{Heading: "How to interact", Body: howToText},
	)
	g.helpBtn = ui.NewButton(cfg.WorldWidth-40, 10, 30, 30, "?", g.help.Show)
	return g
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	// 1. Update UI; the help popup is modal
	if g.help.Visible {
		g.help.Update()
	} else {
		if g.showPanel {
			g.panel.Update()
		}
		g.helpBtn.Update()
		g.handleKeys()
	}

	// 2. Retrieve Latest State (Non-blocking)
	if snap := g.engine.Latest(); snap != nil {
		g.last = snap
	}

	// 3. Send what the user changed, then follow the autopilot
	if err := g.sendChanges(); err != nil {
		return err
	}
	g.followAutopilot()

	// 4. Trigger Simulation Step
	return g.engine.Tick(g.ctx, time.Second/time.Duration(ebiten.TPS()))
}

func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		g.widgetAutopilot.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.glyph = (g.glyph + 1) % (behavior.GlyphLetter + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showPanel = !g.showPanel
	}
}

// sendChanges forwards every widget the user touched this frame as one update.
func (g *Game) sendChanges() error {
	fields := map[string]interface{}{}
	sliders := []struct {
		key string
		s   *ui.Slider
	}{
		{simulation.KeyAlignmentWeight, g.widgetAlignment},
		{simulation.KeyCohesionWeight, g.widgetCohesion},
		{simulation.KeySeparationWeight, g.widgetSeparation},
		{simulation.KeyPerceptionRadius, g.widgetPerception},
		{simulation.KeyMaxSpeed, g.widgetMaxSpeed},
		{simulation.KeyPopulationSize, g.widgetBoidCount},
	}
	for _, sl := range sliders {
		if sl.s.Changed() {
			fields[sl.key] = sl.s.Value
		}
	}
	if g.widgetSequential.Changed() {
		mode := behavior.UpdateSnapshot
		if g.widgetSequential.Value {
			mode = behavior.UpdateSequential
		}
		fields[simulation.KeyUpdateMode] = mode.String()
	}
	if g.widgetAutopilot.Changed() {
		if err := g.engine.SetAutopilot(g.ctx, g.widgetAutopilot.Value); err != nil {
			return fmt.Errorf("toggling autopilot: %w", err)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	g.logger.Debugf("sending update %v", fields)
	if err := g.engine.Update(g.ctx, fields); err != nil {
		return fmt.Errorf("sending parameters: %w", err)
	}
	return nil
}

// followAutopilot moves the driven sliders to the values the world uses.
func (g *Game) followAutopilot() {
	if g.last == nil || !g.last.Autopilot {
		return
	}
	p := g.last.Params
	g.widgetAlignment.SetValue(p.AlignmentWeight)
	g.widgetCohesion.SetValue(p.CohesionWeight)
	g.widgetSeparation.SetValue(p.SeparationWeight)
	g.widgetPerception.SetValue(p.PerceptionRadius)
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(background)

	// 1. Draw all boids from the last known snapshot
	if g.last != nil {
		for _, b := range g.last.Boids {
			drawBoid(screen, b, g.glyph)
		}
	}

	// 2. Draw UI
	if g.showPanel {
		g.panel.Draw(screen)
	}
	g.helpBtn.Draw(screen)
	if g.widgetShowStats.Value {
		g.drawStats(screen)
	}
	g.help.Draw(screen)
}

func (g *Game) drawStats(screen *ebiten.Image) {
	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.updateAvg,
		g.drawAvg)
	if g.last != nil {
		msg += fmt.Sprintf("\n\nFrame: %d\nBoids: %d\nMode:  %s",
			g.last.Frame, len(g.last.Boids), g.last.Params.UpdateMode)
	}
	// Print stats on the right side, below the help button
	ebitenutil.DebugPrintAt(screen, msg, g.width-150, 50)
}

// Layout follows the window: a new size becomes the new world bounds.
func (g *Game) Layout(w, h int) (int, int) {
	if w != g.width || h != g.height {
		g.width, g.height = w, h
		g.helpBtn.X = float64(w) - 40
		g.panel.Height = float64(h) - 20
		err := g.engine.Update(g.ctx, map[string]interface{}{
			simulation.KeyWorldWidth:  float64(w),
			simulation.KeyWorldHeight: float64(h),
		})
		if err != nil {
			g.logger.Warnf("resizing world: %v", err)
		}
	}
	return w, h
}
