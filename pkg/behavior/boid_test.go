package behavior

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/geometry"
)

const tolerance = 1e-9

func newTestRNG() *rand.Rand {
	return rand.New(rand.NewPCG(42, 1024))
}

// scenarioParams are the parameters of the two-boid scenario: perception 50,
// all weights 1, max force 0.2, max speed 5.
func scenarioParams() Parameters {
	p := DefaultParameters()
	p.AlignmentWeight = 1
	p.CohesionWeight = 1
	p.SeparationWeight = 1
	p.PerceptionRadius = 50
	p.MaxForce = 0.2
	p.MaxSpeed = 5
	p.PopulationSize = 2
	return p
}

func TestNewBoid(t *testing.T) {
	rng := newTestRNG()
	for i := 0; i < 500; i++ {
		b := NewBoid(rng, 640, 480)
		if b.Position.X < 0 || b.Position.X >= 640 || b.Position.Y < 0 || b.Position.Y >= 480 {
			t.Fatalf("boid spawned outside the world: %v", b.Position)
		}
		speed := b.Velocity.Len()
		if speed < minInitialSpeed-tolerance || speed > maxInitialSpeed+tolerance {
			t.Fatalf("initial speed %f not in [2,4]", speed)
		}
		if !b.Acceleration.Eq(geometry.Zero) {
			t.Fatalf("initial acceleration should be zero, got %v", b.Acceleration)
		}
	}
}

func TestSteer_TwoBoidScenario(t *testing.T) {
	p := scenarioParams()
	a := &Boid{Position: geometry.Vector2D{X: 0, Y: 0}, Velocity: geometry.Vector2D{X: 1, Y: 0}}
	b := &Boid{Position: geometry.Vector2D{X: 5, Y: 0}, Velocity: geometry.Vector2D{X: -1, Y: 0}}
	flock := []*Boid{a, b}

	tests := []struct {
		name string
		me   *Boid
		want Steering
	}{
		{
			name: "A steers right toward B and left away from it",
			me:   a,
			want: Steering{
				Alignment:  geometry.Vector2D{X: -0.2, Y: 0},
				Cohesion:   geometry.Vector2D{X: 0.2, Y: 0},
				Separation: geometry.Vector2D{X: -0.2, Y: 0},
			},
		},
		{
			name: "B mirrors A",
			me:   b,
			want: Steering{
				Alignment:  geometry.Vector2D{X: 0.2, Y: 0},
				Cohesion:   geometry.Vector2D{X: -0.2, Y: 0},
				Separation: geometry.Vector2D{X: 0.2, Y: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.me.Steer(flock, &p)
			if !s.Alignment.Eq(tt.want.Alignment) {
				t.Errorf("alignment = %v; want %v", s.Alignment, tt.want.Alignment)
			}
			if !s.Cohesion.Eq(tt.want.Cohesion) {
				t.Errorf("cohesion = %v; want %v", s.Cohesion, tt.want.Cohesion)
			}
			if !s.Separation.Eq(tt.want.Separation) {
				t.Errorf("separation = %v; want %v", s.Separation, tt.want.Separation)
			}

			// each rule is also available on its own
			if got := tt.me.Align(flock, &p); !got.Eq(s.Alignment) {
				t.Errorf("Align = %v; want %v", got, s.Alignment)
			}
			if got := tt.me.Cohesion(flock, &p); !got.Eq(s.Cohesion) {
				t.Errorf("Cohesion = %v; want %v", got, s.Cohesion)
			}
			if got := tt.me.Separation(flock, &p); !got.Eq(s.Separation) {
				t.Errorf("Separation = %v; want %v", got, s.Separation)
			}
		})
	}
}

func TestApplyFlocking_AccelerationIsWeightedSum(t *testing.T) {
	p := scenarioParams()
	p.AlignmentWeight = 0.5
	p.CohesionWeight = 2
	p.SeparationWeight = 3
	a := &Boid{Position: geometry.Vector2D{X: 10, Y: 10}, Velocity: geometry.Vector2D{X: 1, Y: 0.5}}
	b := &Boid{Position: geometry.Vector2D{X: 14, Y: 13}, Velocity: geometry.Vector2D{X: -1, Y: 0.2}}
	flock := []*Boid{a, b}

	align := a.Align(flock, &p)
	coh := a.Cohesion(flock, &p)
	sep := a.Separation(flock, &p)
	want := align.Mul(0.5).Add(coh.Mul(2)).Add(sep.Mul(3))

	a.ApplyFlocking(flock, &p)
	if !a.Acceleration.Eq(want) {
		t.Errorf("acceleration = %v; want weighted sum %v", a.Acceleration, want)
	}
	if a.Acceleration.Eq(geometry.Zero) {
		t.Error("expected a non-zero acceleration for two close boids")
	}
}

func TestSteer_ForcesAreClampedToMaxForce(t *testing.T) {
	p := DefaultParameters()
	rng := newTestRNG()
	flock := make([]*Boid, 40)
	for i := range flock {
		flock[i] = NewBoid(rng, 60, 60)
	}
	for _, b := range flock {
		s := b.Steer(flock, &p)
		for name, f := range map[string]geometry.Vector2D{
			"alignment":  s.Alignment,
			"cohesion":   s.Cohesion,
			"separation": s.Separation,
		} {
			if f.Len() > p.MaxForce+tolerance {
				t.Errorf("%s force %f exceeds max force %f", name, f.Len(), p.MaxForce)
			}
		}
	}
}

func TestSteer_IsolatedBoidHasNoSteering(t *testing.T) {
	p := DefaultParameters()
	me := &Boid{Position: geometry.Vector2D{X: 0, Y: 0}, Velocity: geometry.Vector2D{X: 2, Y: 1}}
	far := &Boid{Position: geometry.Vector2D{X: 100, Y: 0}, Velocity: geometry.Vector2D{X: -3, Y: 0}}

	s := me.Steer([]*Boid{me, far}, &p)
	if !s.Alignment.Eq(geometry.Zero) || !s.Cohesion.Eq(geometry.Zero) || !s.Separation.Eq(geometry.Zero) {
		t.Errorf("expected zero steering without neighbors, got %+v", s)
	}

	me.ApplyFlocking([]*Boid{me, far}, &p)
	if !me.Acceleration.Eq(geometry.Zero) {
		t.Errorf("expected zero acceleration, got %v", me.Acceleration)
	}
}

func TestSteer_SeparationOnlyInsideHalfRadius(t *testing.T) {
	p := DefaultParameters() // perception 50, separation radius 25
	me := &Boid{Position: geometry.Vector2D{X: 0, Y: 0}, Velocity: geometry.Vector2D{X: 1, Y: 0}}
	other := &Boid{Position: geometry.Vector2D{X: 30, Y: 0}, Velocity: geometry.Vector2D{X: 1, Y: 0}}

	s := me.Steer([]*Boid{me, other}, &p)
	if !s.Separation.Eq(geometry.Zero) {
		t.Errorf("neighbor at 30 is outside the separation radius, got %v", s.Separation)
	}
	if s.Cohesion.Eq(geometry.Zero) {
		t.Error("neighbor at 30 is inside the perception radius, expected cohesion")
	}
}

func TestSteer_CoincidentBoidsStayFinite(t *testing.T) {
	p := DefaultParameters()
	me := &Boid{Position: geometry.Vector2D{X: 7, Y: 7}, Velocity: geometry.Vector2D{X: 1, Y: 0}}
	twin := &Boid{Position: geometry.Vector2D{X: 7, Y: 7}, Velocity: geometry.Vector2D{X: 0, Y: 1}}

	s := me.Steer([]*Boid{me, twin}, &p)
	for _, f := range []geometry.Vector2D{s.Alignment, s.Cohesion, s.Separation} {
		if !f.IsFinite() {
			t.Fatalf("non-finite steering for coincident boids: %+v", s)
		}
	}
	if !s.Separation.Eq(geometry.Zero) {
		t.Errorf("zero distance neighbor should be skipped by separation, got %v", s.Separation)
	}
}

func TestRepulsion_CloserPushesHarder(t *testing.T) {
	me := geometry.Vector2D{X: 0, Y: 0}
	near := geometry.Vector2D{X: 3, Y: 0}
	far := geometry.Vector2D{X: 0, Y: 12}

	dNear := me.DistanceTo(near)
	dFar := me.DistanceTo(far)
	pushNear := repulsion(me, near, dNear)
	pushFar := repulsion(me, far, dFar)

	if pushNear.Len() <= pushFar.Len() {
		t.Errorf("closer neighbor push %f should exceed farther push %f", pushNear.Len(), pushFar.Len())
	}
	if math.Abs(pushNear.Len()-1/dNear) > tolerance {
		t.Errorf("push magnitude = %f; want 1/d = %f", pushNear.Len(), 1/dNear)
	}
	if pushNear.X >= 0 {
		t.Errorf("push should point away from the neighbor, got %v", pushNear)
	}
}

func TestUpdate_Integration(t *testing.T) {
	p := DefaultParameters()
	b := &Boid{
		Position:     geometry.Vector2D{X: 10, Y: 10},
		Velocity:     geometry.Vector2D{X: 1, Y: 0},
		Acceleration: geometry.Vector2D{X: 0, Y: 0.5},
	}
	b.Update(&p, 1)

	if want := (geometry.Vector2D{X: 1, Y: 0.5}); !b.Velocity.Eq(want) {
		t.Errorf("velocity = %v; want %v", b.Velocity, want)
	}
	if want := (geometry.Vector2D{X: 11, Y: 10.5}); !b.Position.Eq(want) {
		t.Errorf("position = %v; want %v", b.Position, want)
	}
	if !b.Acceleration.Eq(geometry.Zero) {
		t.Errorf("acceleration should be reset, got %v", b.Acceleration)
	}
}

func TestUpdate_SpeedIsClamped(t *testing.T) {
	p := DefaultParameters()
	b := &Boid{Velocity: geometry.Vector2D{X: 4, Y: 0}, Acceleration: geometry.Vector2D{X: 30, Y: 40}}
	b.Update(&p, 1)
	if b.Velocity.Len() > p.MaxSpeed+tolerance {
		t.Errorf("speed %f exceeds max speed %f", b.Velocity.Len(), p.MaxSpeed)
	}
}

func TestEdges_Wraparound(t *testing.T) {
	tests := []struct {
		name    string
		pos     geometry.Vector2D
		wantPos geometry.Vector2D
	}{
		{"inside untouched", geometry.Vector2D{X: 50, Y: 20}, geometry.Vector2D{X: 50, Y: 20}},
		{"past right edge", geometry.Vector2D{X: 102, Y: 20}, geometry.Vector2D{X: 2, Y: 20}},
		{"past left edge", geometry.Vector2D{X: -3, Y: 20}, geometry.Vector2D{X: 97, Y: 20}},
		{"past bottom edge", geometry.Vector2D{X: 50, Y: 81}, geometry.Vector2D{X: 50, Y: 1}},
		{"past top edge", geometry.Vector2D{X: 50, Y: -0.5}, geometry.Vector2D{X: 50, Y: 79.5}},
		{"on the far edge", geometry.Vector2D{X: 100, Y: 80}, geometry.Vector2D{X: 0, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vel := geometry.Vector2D{X: 3, Y: -1}
			b := &Boid{Position: tt.pos, Velocity: vel}
			b.Edges(100, 80)
			if !b.Position.Eq(tt.wantPos) {
				t.Errorf("position = %v; want %v", b.Position, tt.wantPos)
			}
			if !b.Velocity.Eq(vel) {
				t.Errorf("wraparound must not touch velocity, got %v", b.Velocity)
			}
		})
	}
}

func TestHueForSpeed(t *testing.T) {
	tests := []struct {
		speed, max, want float64
	}{
		{0, 5, 240},
		{5, 5, 0},
		{2.5, 5, 120},
		{10, 5, 0},
		{-1, 5, 240},
		{1, 0, 0},
	}
	for _, tt := range tests {
		if got := HueForSpeed(tt.speed, tt.max); math.Abs(got-tt.want) > tolerance {
			t.Errorf("HueForSpeed(%v, %v) = %v; want %v", tt.speed, tt.max, got, tt.want)
		}
	}
}

func TestIsAgitated(t *testing.T) {
	strong := geometry.Vector2D{X: 0.2, Y: 0}
	weak := geometry.Vector2D{X: 0.05, Y: 0}
	if !IsAgitated(strong, 0.15) {
		t.Error("strong separation should be agitated")
	}
	if IsAgitated(weak, 0.15) {
		t.Error("weak separation should not be agitated")
	}
	if IsAgitated(strong, 0) {
		t.Error("zero threshold disables the flag")
	}
}

func TestParseGlyph(t *testing.T) {
	for _, g := range []Glyph{GlyphTriangle, GlyphCircle, GlyphCross, GlyphLetter} {
		got, err := ParseGlyph(g.String())
		if err != nil || got != g {
			t.Errorf("ParseGlyph(%q) = %v, %v; want %v", g.String(), got, err, g)
		}
	}
	if got, err := ParseGlyph(""); err != nil || got != GlyphTriangle {
		t.Errorf("empty glyph should default to triangle, got %v, %v", got, err)
	}
	if _, err := ParseGlyph("hexagon"); err == nil {
		t.Error("expected an error for an unknown glyph")
	}
}

func TestParseUpdateMode(t *testing.T) {
	tests := []struct {
		in      string
		want    UpdateMode
		wantErr bool
	}{
		{"", UpdateSnapshot, false},
		{"snapshot", UpdateSnapshot, false},
		{"Sequential", UpdateSequential, false},
		{"parallel", UpdateSnapshot, true},
	}
	for _, tt := range tests {
		got, err := ParseUpdateMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseUpdateMode(%q) = %v, %v; want %v (err %v)", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}
