// Package termview draws world snapshots on a character terminal.
package termview

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/simulation"
)

// arrows are indexed by heading octant, starting east and turning clockwise
// because screen Y grows downwards.
var arrows = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

var (
	bgStyle     = tcell.StyleDefault.Background(tcell.NewRGBColor(17, 17, 17))
	statusStyle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(220, 220, 220)).Background(tcell.NewRGBColor(40, 40, 45))
)

// HeadingRune returns the arrow closest to the heading, in radians.
func HeadingRune(heading float64) rune {
	octant := int(math.Round(heading/(math.Pi/4))) % 8
	if octant < 0 {
		octant += 8
	}
	return arrows[octant]
}

// GlyphRune is the character used for one boid.
func GlyphRune(b behavior.RenderState, glyph behavior.Glyph) rune {
	switch glyph {
	case behavior.GlyphCircle:
		if b.Agitated {
			return 'o'
		}
		return '•'
	case behavior.GlyphCross:
		if b.Agitated {
			return 'x'
		}
		return '+'
	case behavior.GlyphLetter:
		if b.Agitated {
			return 'B'
		}
		return 'b'
	default:
		return HeadingRune(b.Heading)
	}
}

// View renders snapshots; the last row holds a status line.
type View struct {
	Glyph behavior.Glyph
}

// Cell maps a world position to a terminal cell of a cols x rows area.
func Cell(pos, size float64, cells int) int {
	if size <= 0 || cells <= 0 {
		return 0
	}
	c := int(pos / size * float64(cells))
	if c < 0 {
		return 0
	}
	if c >= cells {
		return cells - 1
	}
	return c
}

// Draw clears the screen and draws snap. It does not call Show.
func (v *View) Draw(screen tcell.Screen, snap *simulation.WorldSnapshot) {
	screen.SetStyle(bgStyle)
	screen.Clear()
	cols, rows := screen.Size()
	if snap == nil || cols <= 0 || rows <= 1 {
		return
	}
	field := rows - 1

	for _, b := range snap.Boids {
		x := Cell(b.Position.X, snap.Width, cols)
		y := Cell(b.Position.Y, snap.Height, field)
		c := simulation.StrokeColor(b)
		style := bgStyle.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
		screen.SetContent(x, y, GlyphRune(b, v.Glyph), nil, style)
	}

	v.drawStatus(screen, snap, cols, rows-1)
}

func (v *View) drawStatus(screen tcell.Screen, snap *simulation.WorldSnapshot, cols, row int) {
	auto := "off"
	if snap.Autopilot {
		auto = "on"
	}
	p := snap.Params
	line := fmt.Sprintf(" frame %d | boids %d | autopilot %s | align %.1f coh %.1f sep %.1f perc %.0f | %s | a:auto +/-:boids m:mode g:glyph q:quit",
		snap.Frame, len(snap.Boids), auto,
		p.AlignmentWeight, p.CohesionWeight, p.SeparationWeight, p.PerceptionRadius, p.UpdateMode)
	x := 0
	for _, r := range line {
		if x >= cols {
			break
		}
		screen.SetContent(x, row, r, nil, statusStyle)
		x++
	}
	for ; x < cols; x++ {
		screen.SetContent(x, row, ' ', nil, statusStyle)
	}
}
