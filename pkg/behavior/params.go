package behavior

import (
	"fmt"
	"strings"
)

// UpdateMode selects how a frame reads the state of the other boids.
type UpdateMode int

const (
	// UpdateSnapshot computes every boid's steering against the same copy of
	// the flock taken before anyone moves, then integrates all boids.
	// The result does not depend on the order of the members.
	UpdateSnapshot UpdateMode = iota
	// UpdateSequential fully updates one boid before steering the next one,
	// so later boids see their predecessors already moved. This is the
	// behavior of the classic p5 sketch.
	UpdateSequential
)

func (m UpdateMode) String() string {
	switch m {
	case UpdateSnapshot:
		return "snapshot"
	case UpdateSequential:
		return "sequential"
	default:
		return fmt.Sprintf("UpdateMode(%d)", int(m))
	}
}

// ParseUpdateMode converts a config string into an UpdateMode.
// The empty string selects the default snapshot mode.
func ParseUpdateMode(s string) (UpdateMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "snapshot":
		return UpdateSnapshot, nil
	case "sequential":
		return UpdateSequential, nil
	default:
		return UpdateSnapshot, fmt.Errorf("unknown update mode %q", s)
	}
}

// Default values, taken from the slider defaults of the control panel.
const (
	DefaultAlignmentWeight    = 1.0
	DefaultCohesionWeight     = 1.0
	DefaultSeparationWeight   = 1.5
	DefaultPerceptionRadius   = 50.0
	DefaultMaxSpeed           = 5.0
	DefaultMaxForce           = 0.2
	DefaultPopulationSize     = 100
	DefaultAgitationThreshold = 0.15
)

// Parameters is the live, shared configuration read by every boid on every
// frame. Nothing here is validated: a negative weight simply inverts its rule.
type Parameters struct {
	AlignmentWeight  float64
	CohesionWeight   float64
	SeparationWeight float64

	// PerceptionRadius is the neighbor distance for alignment and cohesion,
	// separation only looks at half of it.
	PerceptionRadius float64
	MaxSpeed         float64
	MaxForce         float64
	PopulationSize   int

	// AgitationThreshold is the separation steering magnitude above which a
	// boid is reported as agitated to the renderer. Zero disables the flag.
	AgitationThreshold float64

	UpdateMode UpdateMode
}

// DefaultParameters returns the parameters the simulation starts with.
func DefaultParameters() Parameters {
	return Parameters{
		AlignmentWeight:    DefaultAlignmentWeight,
		CohesionWeight:     DefaultCohesionWeight,
		SeparationWeight:   DefaultSeparationWeight,
		PerceptionRadius:   DefaultPerceptionRadius,
		MaxSpeed:           DefaultMaxSpeed,
		MaxForce:           DefaultMaxForce,
		PopulationSize:     DefaultPopulationSize,
		AgitationThreshold: DefaultAgitationThreshold,
		UpdateMode:         UpdateSnapshot,
	}
}

// SeparationRadius is the tighter radius used by the separation rule.
func (p *Parameters) SeparationRadius() float64 {
	return p.PerceptionRadius / 2
}
