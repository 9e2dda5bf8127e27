package behavior

import (
	"math/rand/v2"
)

// SimulationState is the whole simulation: parameters, flock and world bounds.
// The control surface writes its fields, the renderer reads Render, and Step
// is the only thing that moves boids.
type SimulationState struct {
	Params Parameters
	Flock  *Flock

	Width  float64
	Height float64

	// Driver is the autopilot. It only runs while AutopilotEnabled is set;
	// when disabled the parameters keep their last written values.
	Driver           *ParameterDriver
	AutopilotEnabled bool

	Frame  uint64
	Render []RenderState
}

// NewSimulationState creates a state with a fresh flock of
// p.PopulationSize boids. Driver is nil until the caller sets one.
func NewSimulationState(p Parameters, width, height float64, rng *rand.Rand) *SimulationState {
	return &SimulationState{
		Params: p,
		Flock:  NewFlock(p.PopulationSize, width, height, rng),
		Width:  width,
		Height: height,
	}
}

// SetPopulation records the new size and rebuilds the flock.
func (s *SimulationState) SetPopulation(n int) {
	if n < 0 {
		n = 0
	}
	s.Params.PopulationSize = n
	s.Flock.Resize(n, s.Width, s.Height)
}

// SetBounds changes the world size used for wraparound and spawning.
// Non-positive values are ignored.
func (s *SimulationState) SetBounds(width, height float64) {
	if width > 0 {
		s.Width = width
	}
	if height > 0 {
		s.Height = height
	}
}

// Step advances the simulation by dt frames and returns the same state.
// A non-positive dt counts as one frame.
// The autopilot runs first, then a pending population change is applied,
// then the flock moves.
func Step(s *SimulationState, dt float64) *SimulationState {
	if dt <= 0 {
		dt = 1
	}
	if s.AutopilotEnabled && s.Driver != nil {
		s.Driver.Next(&s.Params, dt)
	}
	if s.Params.PopulationSize != s.Flock.Len() {
		s.SetPopulation(s.Params.PopulationSize)
	}
	s.Render = s.Flock.Update(&s.Params, s.Width, s.Height, dt)
	s.Frame++
	return s
}
