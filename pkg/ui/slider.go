package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider is a simple UI widget
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	// Step quantizes the value, 0 means continuous.
	Step float64
	X, Y float64
	W, H float64

	changed bool
}

// NewSlider creates a new slider instance
func NewSlider(x, y, w float64, label string, min, max, step, value float64) *Slider {
	s := &Slider{
		Label: label,
		Min:   min,
		Max:   max,
		Step:  step,
		X:     x,
		Y:     y,
		W:     w,
		H:     14,
	}
	s.SetValue(value)
	return s
}

// SetValue moves the slider programmatically. It does not mark it as changed.
func (s *Slider) SetValue(v float64) {
	s.Value = s.quantize(v)
}

// SetFromPosition sets the value from a cursor X coordinate and reports
// whether the value moved.
func (s *Slider) SetFromPosition(mx float64) bool {
	if s.W <= 0 {
		return false
	}
	p := (mx - s.X) / s.W
	v := s.quantize(s.Min + p*(s.Max-s.Min))
	if v == s.Value {
		return false
	}
	s.Value = v
	s.changed = true
	return true
}

// Changed reports whether the user moved the slider since the last call.
func (s *Slider) Changed() bool {
	c := s.changed
	s.changed = false
	return c
}

// Text is the label followed by the current value.
func (s *Slider) Text() string {
	if s.Step >= 1 {
		return fmt.Sprintf("%s: %.0f", s.Label, s.Value)
	}
	return fmt.Sprintf("%s: %.2f", s.Label, s.Value)
}

func (s *Slider) quantize(v float64) float64 {
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	}
	// Clamp value
	if v < s.Min {
		v = s.Min
	}
	if v > s.Max {
		v = s.Max
	}
	return v
}

// Update checks for mouse interaction
func (s *Slider) Update() {
	mx, my := ebiten.CursorPosition()
	// Check if mouse is clicking inside the slider area
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if float64(mx) >= s.X && float64(mx) <= s.X+s.W &&
			float64(my) >= s.Y && float64(my) <= s.Y+s.H {
			s.SetFromPosition(float64(mx))
		}
	}
}

// Draw renders the slider
func (s *Slider) Draw(screen *ebiten.Image) {
	// Draw Background (Dark Gray)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	// Draw Value Bar (Light Gray/White)
	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
}
