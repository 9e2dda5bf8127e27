package game

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/geometry"
)

func TestTriangleVertices(t *testing.T) {
	tests := []struct {
		name    string
		heading float64
		wantTip [2]float64
	}{
		{"east", 0, [2]float64{20, 10}},
		{"south", math.Pi / 2, [2]float64{10, 20}},
		{"west", math.Pi, [2]float64{0, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := behavior.RenderState{Position: geometry.Vector2D{X: 10, Y: 10}, Heading: tt.heading}
			pts := triangleVertices(b)
			tip := pts[0]
			if math.Abs(tip[0]-tt.wantTip[0]) > 1e-9 || math.Abs(tip[1]-tt.wantTip[1]) > 1e-9 {
				t.Errorf("tip = %v; want %v", tip, tt.wantTip)
			}
			// rear corners are symmetric around the boid, behind it
			for _, p := range pts[1:] {
				d := math.Hypot(p[0]-10, p[1]-10)
				if math.Abs(d-math.Sqrt(125)) > 1e-9 {
					t.Errorf("rear corner %v at distance %v; want %v", p, d, math.Sqrt(125))
				}
			}
		})
	}
}
