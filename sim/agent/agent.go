// Package agent implements the per-ship controller: the action state
// machine driven by the simulation goroutine, the channel protocol to the
// ship's control program, and the sensing snapshot the program reads.
package agent

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/botarena/botarena/sim/collision"
	"github.com/botarena/botarena/sim/projectile"
	"github.com/botarena/botarena/sim/vector"
)

// actionEpsilon absorbs float drift when a move or turn is nearly done.
const actionEpsilon = 1e-9

var (
	lethalLayers = []string{collision.LayerProjectile, collision.LayerObstacle}
	senseLayers  = []string{collision.LayerShip, collision.LayerObstacle}
)

// Config holds the ship constants.
type Config struct {
	Radius        float64 // collision radius
	MoveSpeed     float64 // units per second
	TurnSpeed     float64 // degrees per second
	ShootCooldown float64 // seconds a shot keeps the agent busy
	MuzzleOffset  float64 // distance ahead of the center where projectiles spawn
	SensorOffset  float64 // distance ahead of the center where the raycast starts
	RaycastStep   float64 // probe radius and march step of the forward raycast
}

// ExitHandler is told when a control program ends with an error other than
// cancellation by Close.
type ExitHandler func(name string, err error)

// Option configures an Agent.
type Option func(*Agent)

// WithExitHandler replaces the default handler, which logs the error.
func WithExitHandler(h ExitHandler) Option {
	return func(a *Agent) { a.onExit = h }
}

// WithContext sets the parent context of the control program.
func WithContext(ctx context.Context) Option {
	return func(a *Agent) { a.parent = ctx }
}

// WithID overrides the generated agent id.
func WithID(id uuid.UUID) Option {
	return func(a *Agent) { a.id = id }
}

// StepReport describes what one tick did to an agent.
type StepReport struct {
	Started   *Request // request dequeued this tick, if any
	Completed bool     // an action finished and the program was resumed
	Fired     bool     // a projectile left the pool
	Destroyed bool     // the agent was destroyed this tick
	Cause     string   // layer that destroyed the agent
	Err       error    // non-fatal: ErrPoolExhausted or ErrChannelClosed
}

// Agent is a ship driven by a control program. Everything except the
// sensing handle is owned by the simulation goroutine.
type Agent struct {
	id      uuid.UUID
	name    string
	cfg     Config
	pos     vector.Vector2
	heading float64
	state   State
	tick    int64

	link         *Link
	pool         *projectile.Pool
	sensing      *SensingHandle
	held         *Request // received by Await, started by the next Step
	unresponsive bool

	parent context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	onExit ExitHandler
}

// New creates an agent at spawn facing heading and starts prog on its own goroutine.
// Panics if prog or pool is nil.
func New(cfg Config, name string, spawn vector.Vector2, heading float64, prog ControlProgram, pool *projectile.Pool, opts ...Option) *Agent {
	if prog == nil {
		panic("agent.New: prog must not be nil")
	}
	if pool == nil {
		panic("agent.New: pool must not be nil")
	}
	a := &Agent{
		id:      uuid.NewV4(),
		name:    name,
		cfg:     cfg,
		pos:     spawn,
		heading: vector.NormalizeHeading(heading),
		state:   State{Phase: PhaseWaiting},
		link:    newLink(),
		pool:    pool,
		sensing: NewSensingHandle(Snapshot{Position: spawn, Category: collision.CategoryNone}),
		parent:  context.Background(),
	}
	a.onExit = a.logExit
	for _, opt := range opts {
		opt(a)
	}

	ctx, cancel := context.WithCancel(a.parent)
	a.cancel = cancel
	a.wg.Add(1)
	go a.runProgram(ctx, prog)
	return a
}

func (a *Agent) runProgram(ctx context.Context, prog ControlProgram) {
	defer a.wg.Done()
	defer a.link.finish()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.Errorf("control program panicked: %v", r)
			}
		}()
		return prog.Run(ctx, &controls{ctx: ctx, link: a.link, sensing: a.sensing})
	}()

	if err == nil || ctx.Err() != nil {
		logrus.WithField("agent", a.name).Debug("control program finished")
		return
	}
	a.onExit(a.name, err)
}

func (a *Agent) logExit(name string, err error) {
	logrus.WithField("agent", name).Errorf("control program stopped: %v", err)
}

// Step advances the agent by dt seconds against this tick's frame.
// A request dequeued while waiting starts executing in the same tick.
// After motion, an overlap with a projectile or obstacle destroys the agent
// and suppresses any completion signal for this tick. A nil frame is an
// empty world: nothing is lethal and the raycast reports "none".
func (a *Agent) Step(dt float64, frame *collision.Frame) StepReport {
	var rep StepReport
	if a.state.Phase == PhaseDestroyed {
		return rep
	}
	a.tick++

	if a.state.Phase == PhaseWaiting {
		a.dequeue(&rep)
	}
	completed := a.advance(dt)

	if frame != nil {
		if cause, hit := frame.FirstHit(lethalLayers, a.Shape()); hit {
			a.state = State{Phase: PhaseDestroyed}
			rep.Destroyed = true
			rep.Cause = cause
			return rep
		}
	}

	a.publish(frame)
	if completed {
		a.state = State{Phase: PhaseWaiting}
		a.link.resume()
		rep.Completed = true
	}
	return rep
}

// Await gives a waiting agent's control program up to timeout to send its
// next request, so the following Step can start it. It returns at once when
// the agent is busy, destroyed, already holds a request or its program has
// exited.
func (a *Agent) Await(timeout time.Duration) {
	if a.state.Phase != PhaseWaiting || a.held != nil || a.unresponsive || timeout <= 0 {
		return
	}
	req, ok, _ := a.link.await(timeout)
	if ok {
		a.held = &req
	}
}

func (a *Agent) dequeue(rep *StepReport) {
	if a.held != nil {
		req := *a.held
		a.held = nil
		a.start(rep, req)
		return
	}
	req, ok, err := a.link.poll()
	if err != nil {
		// Reported once; the agent then idles for the rest of the round.
		if !a.unresponsive {
			a.unresponsive = true
			rep.Err = errors.Wrapf(err, "agent %s", a.name)
		}
		return
	}
	if !ok {
		return
	}
	a.start(rep, req)
}

func (a *Agent) start(rep *StepReport, req Request) {
	rep.Started = &req
	if req.Kind == ActionShoot {
		muzzle := a.pos.Add(vector.FromHeading(a.heading).Scale(a.cfg.MuzzleOffset))
		if err := a.pool.Spawn(muzzle, a.heading); err != nil {
			rep.Err = errors.Wrapf(err, "agent %s: shoot", a.name)
		} else {
			rep.Fired = true
		}
	}
	a.state = stateFor(req, a.cfg.ShootCooldown)
}

// advance runs the state-specific part of the tick and reports whether the
// current action finished.
func (a *Agent) advance(dt float64) bool {
	switch a.state.Phase {
	case PhaseMoving:
		moved, left := approach(a.state.Remaining, a.cfg.MoveSpeed*dt)
		a.pos = a.pos.Add(vector.FromHeading(a.heading).Scale(moved))
		a.state.Remaining = left
		return left == 0
	case PhaseTurning:
		turned, left := approach(a.state.Remaining, a.cfg.TurnSpeed*dt)
		a.heading = vector.NormalizeHeading(a.heading + turned)
		a.state.Remaining = left
		return left == 0
	case PhaseShooting:
		a.state.Remaining -= dt
		return a.state.Remaining <= 0
	}
	return false
}

// approach moves toward zero remaining by at most limit, keeping the sign.
// It returns the signed amount covered and what is left.
func approach(remaining, limit float64) (float64, float64) {
	step := math.Min(math.Abs(remaining), limit)
	signed := math.Copysign(step, remaining)
	left := remaining - signed
	if math.Abs(left) <= actionEpsilon {
		// Snap so the covered amount adds up to the request exactly.
		return remaining, 0
	}
	return signed, left
}

func (a *Agent) publish(frame *collision.Frame) {
	res := collision.RaycastResult{Category: collision.CategoryNone}
	if frame != nil {
		origin := a.pos.Add(vector.FromHeading(a.heading).Scale(a.cfg.SensorOffset))
		res = frame.Raycast(senseLayers, origin, a.heading, a.cfg.RaycastStep)
	}
	a.sensing.Publish(Snapshot{
		Position: a.pos,
		Category: res.Category,
		Distance: res.Distance,
		Tick:     a.tick,
	})
}

// Shape returns the agent's collision circle, degenerate once destroyed.
func (a *Agent) Shape() collision.Shape {
	if a.state.Phase == PhaseDestroyed {
		return collision.Degenerate()
	}
	return collision.MakeShape(a.pos, a.cfg.Radius)
}

// Close stops the control program and waits for its goroutine to exit.
func (a *Agent) Close() {
	a.cancel()
	a.wg.Wait()
}

func (a *Agent) ID() uuid.UUID            { return a.id }
func (a *Agent) Name() string             { return a.name }
func (a *Agent) Position() vector.Vector2 { return a.pos }
func (a *Agent) Heading() float64         { return a.heading }
func (a *Agent) State() State             { return a.state }
func (a *Agent) Alive() bool              { return a.state.Phase != PhaseDestroyed }
func (a *Agent) Radius() float64          { return a.cfg.Radius }

// Sensing returns the handle shared with the control program.
func (a *Agent) Sensing() *SensingHandle { return a.sensing }

// Link returns the agent's channel to its control program.
func (a *Agent) Link() *Link { return a.link }

func (a *Agent) String() string {
	return fmt.Sprintf("Agent: (Name: %s, Position: %v, Heading: %.1f, State: %v)", a.name, a.pos, a.heading, a.state)
}
