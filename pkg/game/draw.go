package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/simulation"
)

// boidSize is the half width of a boid; the triangle is twice as long.
const boidSize = 5.0

var (
	whiteImage  = ebiten.NewImage(3, 3)
	whiteSubImg *ebiten.Image
	letterImage *ebiten.Image
)

func init() {
	whiteImage.Fill(color.White)
	whiteSubImg = whiteImage.SubImage(whiteImage.Bounds().Inset(1)).(*ebiten.Image)
}

func drawBoid(screen *ebiten.Image, b behavior.RenderState, glyph behavior.Glyph) {
	fill := simulation.FillColor(b)
	stroke := simulation.StrokeColor(b)
	x, y := float32(b.Position.X), float32(b.Position.Y)

	switch glyph {
	case behavior.GlyphCircle:
		vector.FillCircle(screen, x, y, boidSize, fill, true)
		vector.StrokeCircle(screen, x, y, boidSize, 1, stroke, true)
	case behavior.GlyphCross:
		dx, dy := float32(boidSize*math.Cos(b.Heading)), float32(boidSize*math.Sin(b.Heading))
		vector.StrokeLine(screen, x-dx, y-dy, x+dx, y+dy, 2, stroke, true)
		vector.StrokeLine(screen, x+dy, y-dx, x-dy, y+dx, 2, stroke, true)
	case behavior.GlyphLetter:
		drawLetter(screen, b, stroke)
	default:
		drawTriangle(screen, b, fill, stroke)
	}
}

// triangleVertices returns the tip and the two rear corners of a boid
// pointing along its heading.
func triangleVertices(b behavior.RenderState) [3][2]float64 {
	// body coordinates point up (-Y), rotated by heading + 90 degrees
	angle := b.Heading + math.Pi/2
	sin, cos := math.Sincos(angle)
	body := [3][2]float64{{0, -boidSize * 2}, {-boidSize, boidSize * 2}, {boidSize, boidSize * 2}}
	var out [3][2]float64
	for i, p := range body {
		out[i] = [2]float64{
			b.Position.X + p[0]*cos - p[1]*sin,
			b.Position.Y + p[0]*sin + p[1]*cos,
		}
	}
	return out
}

func drawTriangle(screen *ebiten.Image, b behavior.RenderState, fill, stroke color.NRGBA) {
	pts := triangleVertices(b)

	r, g, bl, a := float32(fill.R)/255, float32(fill.G)/255, float32(fill.B)/255, float32(fill.A)/255
	vertices := make([]ebiten.Vertex, 3)
	for i, p := range pts {
		vertices[i] = ebiten.Vertex{
			DstX: float32(p[0]), DstY: float32(p[1]),
			SrcX: 1, SrcY: 1,
			// premultiplied alpha
			ColorR: r * a, ColorG: g * a, ColorB: bl * a, ColorA: a,
		}
	}
	screen.DrawTriangles(vertices, []uint16{0, 1, 2}, whiteSubImg, &ebiten.DrawTrianglesOptions{})

	for i := range pts {
		p, q := pts[i], pts[(i+1)%3]
		vector.StrokeLine(screen, float32(p[0]), float32(p[1]), float32(q[0]), float32(q[1]), 1, stroke, true)
	}
}

// drawLetter draws a "v" rotated so that its point follows the heading.
func drawLetter(screen *ebiten.Image, b behavior.RenderState, clr color.NRGBA) {
	if letterImage == nil {
		letterImage = ebiten.NewImage(6, 16)
		ebitenutil.DebugPrint(letterImage, "v")
	}
	op := &ebiten.DrawImageOptions{}
	// glyph is drawn pointing down (+Y), center it then align with the heading
	op.GeoM.Translate(-3, -8)
	op.GeoM.Rotate(b.Heading - math.Pi/2)
	op.GeoM.Translate(b.Position.X, b.Position.Y)
	op.ColorScale.ScaleWithColor(clr)
	screen.DrawImage(letterImage, op)
}
