package behavior

import (
	"github.com/aquilax/go-perlin"
)

// Noise is a deterministic, continuous 1D noise source with output in [0, 1].
type Noise interface {
	Noise1D(x float64) float64
}

// NoiseFunc adapts a plain function to the Noise interface.
type NoiseFunc func(x float64) float64

// Noise1D calls f(x).
func (f NoiseFunc) Noise1D(x float64) float64 { return f(x) }

// Perlin settings: alpha and beta are the usual 2, three octaves keep the
// drift smooth but not sinusoidal.
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

// PerlinNoise is the production Noise, backed by a seeded Perlin generator.
type PerlinNoise struct {
	gen *perlin.Perlin
}

// NewPerlinNoise returns a Perlin noise source. The same seed always yields
// the same sequence.
func NewPerlinNoise(seed int64) *PerlinNoise {
	return &PerlinNoise{gen: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)}
}

// Noise1D rescales the raw Perlin output from [-1, 1] to [0, 1], clamped.
func (n *PerlinNoise) Noise1D(x float64) float64 {
	return clamp01((n.gen.Noise1D(x) + 1) / 2)
}

// Channel maps the noise sampled at phase+Offset onto [Min, Max].
type Channel struct {
	Offset float64
	Min    float64
	Max    float64
}

// Value samples the channel at the given phase.
func (c Channel) Value(noise Noise, phase float64) float64 {
	return c.Min + clamp01(noise.Noise1D(phase+c.Offset))*(c.Max-c.Min)
}

// DefaultPhaseIncrement is how far the phase moves every frame.
const DefaultPhaseIncrement = 0.005

// ParameterDriver is the autopilot: it derives the three steering weights and
// the perception radius from one phase that only grows. Each parameter reads
// the noise at its own constant offset so they drift independently.
type ParameterDriver struct {
	Noise     Noise
	Phase     float64
	Increment float64

	Alignment  Channel
	Cohesion   Channel
	Separation Channel
	Perception Channel
}

// NewParameterDriver builds a driver with the default increment and ranges:
// weights in [0, 5] and perception in [50, 200].
func NewParameterDriver(noise Noise) *ParameterDriver {
	return &ParameterDriver{
		Noise:      noise,
		Increment:  DefaultPhaseIncrement,
		Alignment:  Channel{Offset: 0, Min: 0, Max: 5},
		Cohesion:   Channel{Offset: 100, Min: 0, Max: 5},
		Separation: Channel{Offset: 200, Min: 0, Max: 5},
		Perception: Channel{Offset: 300, Min: 50, Max: 200},
	}
}

// DriverValues is one sample of the autopilot.
type DriverValues struct {
	AlignmentWeight  float64
	CohesionWeight   float64
	SeparationWeight float64
	PerceptionRadius float64
}

// Sample reads the four channels at the current phase without advancing it.
func (d *ParameterDriver) Sample() DriverValues {
	return DriverValues{
		AlignmentWeight:  d.Alignment.Value(d.Noise, d.Phase),
		CohesionWeight:   d.Cohesion.Value(d.Noise, d.Phase),
		SeparationWeight: d.Separation.Value(d.Noise, d.Phase),
		PerceptionRadius: d.Perception.Value(d.Noise, d.Phase),
	}
}

// Advance moves the phase forward by dt frames.
func (d *ParameterDriver) Advance(dt float64) {
	d.Phase += d.Increment * dt
}

// Next advances the phase and writes the new sample into p.
// Other fields of p are left alone.
func (d *ParameterDriver) Next(p *Parameters, dt float64) DriverValues {
	d.Advance(dt)
	v := d.Sample()
	p.AlignmentWeight = v.AlignmentWeight
	p.CohesionWeight = v.CohesionWeight
	p.SeparationWeight = v.SeparationWeight
	p.PerceptionRadius = v.PerceptionRadius
	return v
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
