package simulation

import (
	"errors"
	"fmt"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/behavior"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// FrameDuration is the reference frame length: a tick of this duration
// advances the simulation by exactly one frame.
const FrameDuration = time.Second / 60

// Keys understood by ApplyStruct. They match the JSON names of the config.
const (
	KeyAlignmentWeight    = "alignmentWeight"
	KeyCohesionWeight     = "cohesionWeight"
	KeySeparationWeight   = "separationWeight"
	KeyPerceptionRadius   = "perceptionRadius"
	KeyMaxSpeed           = "maxSpeed"
	KeyMaxForce           = "maxForce"
	KeyPopulationSize     = "populationSize"
	KeyAgitationThreshold = "agitationThreshold"
	KeyUpdateMode         = "updateMode"
	KeyWorldWidth         = "worldWidth"
	KeyWorldHeight        = "worldHeight"
	KeyAutopilot          = "autopilot"
	KeyReset              = "reset"
)

// WorldSnapshot is a copy of the state a renderer needs. It never shares
// memory with the actor.
type WorldSnapshot struct {
	Frame     uint64
	Params    behavior.Parameters
	Autopilot bool
	Width     float64
	Height    float64
	Boids     []behavior.RenderState
}

// WorldActor owns the simulation. Its mailbox serialises ticks, parameter
// updates and autopilot toggles, so the flock has a single writer.
//
// Messages:
//   - *durationpb.Duration: step by elapsed/FrameDuration frames
//   - *structpb.Struct: parameter and bounds update, see ApplyStruct
//   - *wrapperspb.BoolValue: switch the autopilot on or off
type WorldActor struct {
	state      *behavior.SimulationState
	snapshotCh chan<- *WorldSnapshot

	// --- Stats ---
	framesSinceLog int
	dropped        int
	lastLogTime    time.Time
}

// NewWorldActor creates the world logic unit
func NewWorldActor(state *behavior.SimulationState, snapshotCh chan<- *WorldSnapshot) *WorldActor {
	return &WorldActor{
		state:       state,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World is starting with %d boids in %.0fx%.0f",
		w.state.Flock.Len(), w.state.Width, w.state.Height)
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Info("World Started.")
		w.pushSnapshot()

	case *durationpb.Duration:
		w.tick(msg.AsDuration())
		w.logStats(ctx)
		w.pushSnapshot()

	case *structpb.Struct:
		if err := ApplyStruct(w.state, msg); err != nil {
			ctx.Logger().Warnf("parameter update partly rejected: %v", err)
		}
		ctx.Logger().Debugf("parameters now %+v", w.state.Params)
		w.pushSnapshot()

	case *wrapperspb.BoolValue:
		w.state.AutopilotEnabled = msg.GetValue()
		ctx.Logger().Infof("autopilot enabled: %v", w.state.AutopilotEnabled)

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World is shutdown after %d frames", w.state.Frame)
	return nil
}

// tick advances the simulation. A zero duration is one frame.
func (w *WorldActor) tick(elapsed time.Duration) {
	behavior.Step(w.state, float64(elapsed)/float64(FrameDuration))
	w.framesSinceLog++
}

func (w *WorldActor) logStats(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) < time.Second {
		return
	}
	ctx.Logger().Debugf("frames/s: %d | boids: %d | dropped snapshots: %d",
		w.framesSinceLog, w.state.Flock.Len(), w.dropped)
	w.framesSinceLog = 0
	w.dropped = 0
	w.lastLogTime = time.Now()
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.buildSnapshot():
	default:
		// UI busy, skip frame
		w.dropped++
	}
}

func (w *WorldActor) buildSnapshot() *WorldSnapshot {
	s := w.state
	boids := make([]behavior.RenderState, len(s.Render))
	copy(boids, s.Render)
	return &WorldSnapshot{
		Frame:     s.Frame,
		Params:    s.Params,
		Autopilot: s.AutopilotEnabled,
		Width:     s.Width,
		Height:    s.Height,
		Boids:     boids,
	}
}

// ParamsToStruct encodes every user-facing parameter as a struct message.
func ParamsToStruct(p behavior.Parameters) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		KeyAlignmentWeight:    p.AlignmentWeight,
		KeyCohesionWeight:     p.CohesionWeight,
		KeySeparationWeight:   p.SeparationWeight,
		KeyPerceptionRadius:   p.PerceptionRadius,
		KeyMaxSpeed:           p.MaxSpeed,
		KeyMaxForce:           p.MaxForce,
		KeyPopulationSize:     p.PopulationSize,
		KeyAgitationThreshold: p.AgitationThreshold,
		KeyUpdateMode:         p.UpdateMode.String(),
	})
}

// ApplyStruct writes the fields present in st into s. Absent keys are left
// alone. A populationSize that differs from the current flock size, or a
// true reset entry, rebuilds the flock right away.
// Unknown keys and values of the wrong kind are reported together; every
// valid entry is still applied.
func ApplyStruct(s *behavior.SimulationState, st *structpb.Struct) error {
	var errs []error

	// bounds first so a resize in the same message spawns in the new world
	fields := st.GetFields()
	s.SetBounds(fields[KeyWorldWidth].GetNumberValue(), fields[KeyWorldHeight].GetNumberValue())

	for key, v := range fields {
		switch key {
		case KeyUpdateMode:
			mode, err := behavior.ParseUpdateMode(v.GetStringValue())
			if err != nil {
				errs = append(errs, err)
				continue
			}
			s.Params.UpdateMode = mode
			continue
		case KeyAutopilot, KeyReset:
			if _, ok := v.GetKind().(*structpb.Value_BoolValue); !ok {
				errs = append(errs, fmt.Errorf("%s: want a bool, got %T", key, v.GetKind()))
				continue
			}
			if key == KeyAutopilot {
				s.AutopilotEnabled = v.GetBoolValue()
			} else if v.GetBoolValue() {
				s.SetPopulation(s.Params.PopulationSize)
			}
			continue
		}

		if _, ok := v.GetKind().(*structpb.Value_NumberValue); !ok {
			errs = append(errs, fmt.Errorf("%s: want a number, got %T", key, v.GetKind()))
			continue
		}
		n := v.GetNumberValue()
		switch key {
		case KeyAlignmentWeight:
			s.Params.AlignmentWeight = n
		case KeyCohesionWeight:
			s.Params.CohesionWeight = n
		case KeySeparationWeight:
			s.Params.SeparationWeight = n
		case KeyPerceptionRadius:
			s.Params.PerceptionRadius = n
		case KeyMaxSpeed:
			s.Params.MaxSpeed = n
		case KeyMaxForce:
			s.Params.MaxForce = n
		case KeyAgitationThreshold:
			s.Params.AgitationThreshold = n
		case KeyPopulationSize:
			if int(n) != s.Flock.Len() {
				s.SetPopulation(int(n))
			}
		case KeyWorldWidth, KeyWorldHeight:
		default:
			errs = append(errs, fmt.Errorf("unknown parameter %q", key))
		}
	}
	return errors.Join(errs...)
}
