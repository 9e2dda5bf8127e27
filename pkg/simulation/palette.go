package simulation

import (
	"image/color"

	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/behavior"
	"github.com/lucasb-eyer/go-colorful"
)

// Saturation and brightness of the speed ramp, as in the p5 sketch.
const (
	boidSaturation = 0.9
	boidValue      = 0.9
	fillAlpha      = 204 // 80%
)

// HueColor converts a hue in degrees to an opaque colour of the boid ramp.
func HueColor(hue float64) color.NRGBA {
	r, g, b := colorful.Hsv(hue, boidSaturation, boidValue).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// FillColor is the translucent body colour of a boid.
func FillColor(r behavior.RenderState) color.NRGBA {
	c := HueColor(r.Hue)
	c.A = fillAlpha
	return c
}

// StrokeColor is the outline colour: full brightness, white when agitated.
func StrokeColor(r behavior.RenderState) color.NRGBA {
	if r.Agitated {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	cr, cg, cb := colorful.Hsv(r.Hue, boidSaturation, 1).RGB255()
	return color.NRGBA{R: cr, G: cg, B: cb, A: 255}
}
