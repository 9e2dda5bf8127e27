package behavior

import (
	"fmt"
	"strings"

	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/geometry"
)

// Hue endpoints for the speed colour ramp: slow boids are blue, fast ones red.
const (
	SlowHue = 240.0
	FastHue = 0.0
)

// RenderState is everything a renderer needs to draw one boid.
type RenderState struct {
	Position geometry.Vector2D
	// Heading is the velocity angle from the positive X-axis, in radians.
	Heading  float64
	Speed    float64
	Hue      float64
	Agitated bool
}

// NewRenderState derives the display state of b after its update.
func NewRenderState(b *Boid, s Steering, p *Parameters) RenderState {
	speed := b.Velocity.Len()
	return RenderState{
		Position: b.Position,
		Heading:  b.Velocity.Heading(),
		Speed:    speed,
		Hue:      HueForSpeed(speed, p.MaxSpeed),
		Agitated: IsAgitated(s.Separation, p.AgitationThreshold),
	}
}

// HueForSpeed maps a speed in [0, maxSpeed] linearly onto [SlowHue, FastHue].
// Out of range speeds are clamped to the endpoints.
func HueForSpeed(speed, maxSpeed float64) float64 {
	if maxSpeed <= 0 {
		return FastHue
	}
	t := speed / maxSpeed
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return SlowHue + (FastHue-SlowHue)*t
}

// IsAgitated reports whether a separation force is strong enough to flag the
// boid as crowded. A non-positive threshold never flags.
func IsAgitated(separation geometry.Vector2D, threshold float64) bool {
	if threshold <= 0 {
		return false
	}
	return separation.Len() > threshold
}

// Glyph is the symbol a renderer uses for a boid. The simulation never reads it.
type Glyph int

const (
	GlyphTriangle Glyph = iota
	GlyphCircle
	GlyphCross
	GlyphLetter
)

var glyphNames = []string{"triangle", "circle", "cross", "letter"}

func (g Glyph) String() string {
	if g < 0 || int(g) >= len(glyphNames) {
		return fmt.Sprintf("Glyph(%d)", int(g))
	}
	return glyphNames[g]
}

// ParseGlyph converts a config string into a Glyph. Empty means triangle.
func ParseGlyph(s string) (Glyph, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return GlyphTriangle, nil
	}
	for i, name := range glyphNames {
		if name == s {
			return Glyph(i), nil
		}
	}
	return GlyphTriangle, fmt.Errorf("unknown glyph %q", s)
}
