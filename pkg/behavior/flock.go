package behavior

import (
	"math/rand/v2"
)

// Flock is the ordered list of boids. Membership only changes through Resize,
// which rebuilds the whole list.
type Flock struct {
	Boids []*Boid
	rng   *rand.Rand

	// scratch buffers reused across frames by the snapshot mode
	snapshot  []Boid
	snapRefs  []*Boid
	steerings []Steering
}

// NewFlock creates size boids spread over a width x height world.
// rng drives every random draw; pass a seeded one for reproducible runs.
func NewFlock(size int, width, height float64, rng *rand.Rand) *Flock {
	f := &Flock{rng: rng}
	f.Resize(size, width, height)
	return f
}

// Len returns the number of boids.
func (f *Flock) Len() int {
	return len(f.Boids)
}

// Resize discards every current member and creates size fresh boids.
// A size below zero is treated as zero.
func (f *Flock) Resize(size int, width, height float64) {
	if size < 0 {
		size = 0
	}
	boids := make([]*Boid, size)
	for i := range boids {
		boids[i] = NewBoid(f.rng, width, height)
	}
	f.Boids = boids
}

// Update runs one frame over every boid in member order and returns the
// render state of each one after its move.
// Per boid the order is: wrap edges, steer, integrate, emit.
func (f *Flock) Update(p *Parameters, width, height, dt float64) []RenderState {
	if len(f.Boids) == 0 {
		return nil
	}
	if p.UpdateMode == UpdateSequential {
		return f.updateSequential(p, width, height, dt)
	}
	return f.updateSnapshot(p, width, height, dt)
}

func (f *Flock) updateSequential(p *Parameters, width, height, dt float64) []RenderState {
	out := make([]RenderState, len(f.Boids))
	for i, b := range f.Boids {
		b.Edges(width, height)
		s := b.ApplyFlocking(f.Boids, p)
		b.Update(p, dt)
		out[i] = NewRenderState(b, s, p)
	}
	return out
}

// updateSnapshot splits the frame into phases so that every boid steers
// against the same pre-move state of its neighbors.
func (f *Flock) updateSnapshot(p *Parameters, width, height, dt float64) []RenderState {
	n := len(f.Boids)
	for _, b := range f.Boids {
		b.Edges(width, height)
	}

	f.takeSnapshot()
	if cap(f.steerings) < n {
		f.steerings = make([]Steering, n)
	}
	f.steerings = f.steerings[:n]

	for i, b := range f.Boids {
		s := f.snapRefs[i].Steer(f.snapRefs, p)
		b.ApplyForce(s.Blend(p))
		f.steerings[i] = s
	}

	out := make([]RenderState, n)
	for i, b := range f.Boids {
		b.Update(p, dt)
		out[i] = NewRenderState(b, f.steerings[i], p)
	}
	return out
}

// takeSnapshot copies every boid by value. The copies are addressed through
// snapRefs so that identity checks inside Steer still skip the boid itself.
func (f *Flock) takeSnapshot() {
	n := len(f.Boids)
	if cap(f.snapshot) < n {
		f.snapshot = make([]Boid, n)
		f.snapRefs = make([]*Boid, n)
	}
	f.snapshot = f.snapshot[:n]
	f.snapRefs = f.snapRefs[:n]
	for i, b := range f.Boids {
		f.snapshot[i] = *b
		f.snapRefs[i] = &f.snapshot[i]
	}
}
