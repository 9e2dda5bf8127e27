package behavior

import (
	"math"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/geometry"
)

const (
	minInitialSpeed = 2.0
	maxInitialSpeed = 4.0
)

// Boid represents a single entity in the flock.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// The name "boid" corresponds to a shortened version of "bird-oid object",
// which refers to a bird-like object. https://en.wikipedia.org/wiki/Boids
// Fields are exported so that renderers and tests can read and place them.
type Boid struct {
	Position     geometry.Vector2D
	Velocity     geometry.Vector2D
	Acceleration geometry.Vector2D
}

// NewBoid creates a boid at a uniformly random position inside the world,
// heading in a random direction at a random speed in [2, 4].
func NewBoid(rng *rand.Rand, width, height float64) *Boid {
	theta := rng.Float64() * 2 * math.Pi
	speed := minInitialSpeed + rng.Float64()*(maxInitialSpeed-minInitialSpeed)
	return &Boid{
		Position: geometry.Vector2D{X: rng.Float64() * width, Y: rng.Float64() * height},
		Velocity: geometry.NewVectorPolar(speed, theta),
	}
}

// Steering holds the three unweighted steering forces of one boid for one frame.
type Steering struct {
	Alignment  geometry.Vector2D
	Cohesion   geometry.Vector2D
	Separation geometry.Vector2D
}

// Blend scales each force by its weight and sums them.
func (s Steering) Blend(p *Parameters) geometry.Vector2D {
	return s.Alignment.Mul(p.AlignmentWeight).
		Add(s.Cohesion.Mul(p.CohesionWeight)).
		Add(s.Separation.Mul(p.SeparationWeight))
}

// Steer scans every other member of flock once and returns the alignment,
// cohesion and separation forces. The boid itself is recognised by identity
// and ignored. The scan is brute force, O(n) per boid.
func (b *Boid) Steer(flock []*Boid, p *Parameters) Steering {
	var (
		velSum, posSum, awaySum geometry.Vector2D
		neighbors, crowding     int
		sepRadius               = p.SeparationRadius()
	)

	for _, other := range flock {
		if other == b {
			continue
		}
		d := b.Position.DistanceTo(other.Position)

		if d < p.PerceptionRadius {
			velSum = velSum.Add(other.Velocity)
			posSum = posSum.Add(other.Position)
			neighbors++
		}

		// coincident boids have no direction to flee from
		if d < sepRadius && d > 0 {
			awaySum = awaySum.Add(repulsion(b.Position, other.Position, d))
			crowding++
		}
	}

	var s Steering
	if neighbors > 0 {
		n := float64(neighbors)
		s.Alignment = b.seek(velSum.Div(n), p)
		s.Cohesion = b.seek(posSum.Div(n).Sub(b.Position), p)
	}
	if crowding > 0 {
		s.Separation = b.seek(awaySum.Div(float64(crowding)), p)
	}
	return s
}

// repulsion is the separation contribution of one neighbor at distance d:
// it points away from the neighbor and its magnitude is 1/d.
func repulsion(from, other geometry.Vector2D, d float64) geometry.Vector2D {
	return from.Sub(other).Div(d * d)
}

// seek turns a desired direction into a bounded steering force:
// desired at full speed minus the current velocity, clamped to MaxForce.
func (b *Boid) seek(desired geometry.Vector2D, p *Parameters) geometry.Vector2D {
	return desired.SetLen(p.MaxSpeed).Sub(b.Velocity).Limit(p.MaxForce)
}

// Align steers toward the average heading of the neighbors.
func (b *Boid) Align(flock []*Boid, p *Parameters) geometry.Vector2D {
	return b.Steer(flock, p).Alignment
}

// Cohesion steers toward the average position of the neighbors.
func (b *Boid) Cohesion(flock []*Boid, p *Parameters) geometry.Vector2D {
	return b.Steer(flock, p).Cohesion
}

// Separation steers away from neighbors closer than half the perception radius.
func (b *Boid) Separation(flock []*Boid, p *Parameters) geometry.Vector2D {
	return b.Steer(flock, p).Separation
}

// ApplyFlocking computes the steering against flock and accumulates the
// weighted sum into the acceleration. The unweighted forces are returned so
// callers can derive display state from them.
func (b *Boid) ApplyFlocking(flock []*Boid, p *Parameters) Steering {
	s := b.Steer(flock, p)
	b.ApplyForce(s.Blend(p))
	return s
}

// ApplyForce adds a force to the acceleration accumulator.
func (b *Boid) ApplyForce(force geometry.Vector2D) {
	b.Acceleration = b.Acceleration.Add(force)
}

// Update integrates one step of dt frames: velocity first, then position.
// The acceleration of this frame therefore already moves the boid this frame.
// Speed is clamped to MaxSpeed and the accumulator is cleared.
func (b *Boid) Update(p *Parameters, dt float64) {
	b.Velocity = b.Velocity.Add(b.Acceleration.Mul(dt)).Limit(p.MaxSpeed)
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	b.Acceleration = geometry.Zero
}

// Edges wraps the position around the world so that it lies in
// [0,width) x [0,height). Velocity is left untouched.
func (b *Boid) Edges(width, height float64) {
	b.Position.X = geometry.Wrap(b.Position.X, width)
	b.Position.Y = geometry.Wrap(b.Position.Y, height)
}
