package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/behavior"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Engine runs a WorldActor inside its own actor system and gives front ends
// a small API to drive it. Every call is a fire-and-forget Tell.
type Engine struct {
	System    actor.ActorSystem
	worldPID  *actor.PID
	snapshots chan *WorldSnapshot
}

// StartEngine starts the actor system and spawns the world actor that owns state.
// The caller must not touch state afterwards.
func StartEngine(ctx context.Context, state *behavior.SimulationState, logger golog.Logger) (*Engine, error) {
	system, err := actor.NewActorSystem("BoidsWorld",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}

	// Buffer to avoid blocking
	snapshots := make(chan *WorldSnapshot, 10)
	pid, err := system.Spawn(ctx, "world", NewWorldActor(state, snapshots))
	if err != nil {
		_ = system.Stop(ctx)
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}
	return &Engine{System: system, worldPID: pid, snapshots: snapshots}, nil
}

// Snapshots is the stream of world copies, one per handled message.
// Snapshots are dropped when nobody reads.
func (e *Engine) Snapshots() <-chan *WorldSnapshot {
	return e.snapshots
}

// Latest drains the pending snapshots and returns the newest one, or nil.
func (e *Engine) Latest() *WorldSnapshot {
	var last *WorldSnapshot
	for {
		select {
		case s := <-e.snapshots:
			last = s
		default:
			return last
		}
	}
}

// Tick asks the world to advance by elapsed time.
func (e *Engine) Tick(ctx context.Context, elapsed time.Duration) error {
	return actor.Tell(ctx, e.worldPID, durationpb.New(elapsed))
}

// Update sends a partial parameter update, keyed like ApplyStruct expects.
func (e *Engine) Update(ctx context.Context, fields map[string]interface{}) error {
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return fmt.Errorf("encoding update: %w", err)
	}
	return actor.Tell(ctx, e.worldPID, st)
}

// SetParameters replaces every parameter at once. The flock is only rebuilt
// when the population size changes.
func (e *Engine) SetParameters(ctx context.Context, p behavior.Parameters) error {
	st, err := ParamsToStruct(p)
	if err != nil {
		return fmt.Errorf("encoding parameters: %w", err)
	}
	return actor.Tell(ctx, e.worldPID, st)
}

// SetAutopilot switches the Perlin driver on or off.
func (e *Engine) SetAutopilot(ctx context.Context, enabled bool) error {
	return actor.Tell(ctx, e.worldPID, wrapperspb.Bool(enabled))
}

// Stop shuts the actor system down.
func (e *Engine) Stop(ctx context.Context) error {
	return e.System.Stop(ctx)
}
