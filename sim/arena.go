package sim

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/botarena/botarena/sim/agent"
	"github.com/botarena/botarena/sim/collision"
	"github.com/botarena/botarena/sim/projectile"
	"github.com/botarena/botarena/sim/trace"
	"github.com/botarena/botarena/sim/vector"
)

// Entrant is a ship to be placed in the arena. A nil Spawn picks a random
// pose from the layout RNG.
type Entrant struct {
	Name    string
	Program agent.ControlProgram
	Spawn   *Pose
}

// ArenaOption configures an Arena.
type ArenaOption func(*Arena)

// WithObstacles replaces the randomly placed obstacles.
func WithObstacles(obstacles []Obstacle) ArenaOption {
	return func(a *Arena) {
		a.presetObstacles = append([]Obstacle{}, obstacles...)
		a.hasPresetObstacles = true
	}
}

// WithScriptErrorHandler is called, from the failing program's goroutine,
// for every control program that ends with an error.
func WithScriptErrorHandler(h agent.ExitHandler) ArenaOption {
	return func(a *Arena) { a.onScriptError = h }
}

// DefaultSettleTimeout is the per-tick budget Run gives waiting control
// programs to send their next request.
const DefaultSettleTimeout = 2 * time.Millisecond

// WithSettleTimeout replaces DefaultSettleTimeout. Zero disables settling.
func WithSettleTimeout(d time.Duration) ArenaOption {
	return func(a *Arena) { a.settleTimeout = d }
}

// WithContext sets the parent context of every control program.
func WithContext(ctx context.Context) ArenaOption {
	return func(a *Arena) { a.parent = ctx }
}

// Arena owns one round: the ships, the shared projectile pool and the
// obstacles. All methods must be called from a single goroutine.
type Arena struct {
	id        uuid.UUID
	cfg       Config
	bounds    collision.Bounds
	agents    []*agent.Agent
	pool      *projectile.Pool
	obstacles []*Obstacle

	tick    int64
	clock   float64
	outcome Outcome
	metrics *Metrics
	trace   *trace.RoundTrace

	failures      atomic.Int64
	onScriptError agent.ExitHandler
	parent        context.Context
	settleTimeout time.Duration

	presetObstacles    []Obstacle
	hasPresetObstacles bool
}

// NewArena validates cfg, lays out the entrants and obstacles, and starts
// every control program.
func NewArena(cfg Config, entrants []Entrant, opts ...ArenaOption) (*Arena, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid arena config")
	}
	if len(entrants) == 0 {
		return nil, errors.New("arena needs at least one entrant")
	}
	for i, e := range entrants {
		if e.Program == nil {
			return nil, errors.Errorf("entrant %d (%q) has no control program", i, e.Name)
		}
	}

	a := &Arena{
		id:      uuid.NewV4(),
		cfg:     cfg,
		bounds:  collision.Bounds{Width: cfg.Arena.Width, Height: cfg.Arena.Height},
		pool:    projectile.NewPool(cfg.Projectile.poolConfig(len(entrants))),
		outcome: Outcome{Kind: OutcomeRunning},
		metrics: NewMetrics(),
		parent:  context.Background(),

		settleTimeout: DefaultSettleTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	if trace.TraceLevel(cfg.Round.Trace) == trace.TraceLevelEvents {
		a.trace = trace.NewRoundTrace(trace.TraceConfig{Level: trace.TraceLevelEvents}, a.id.String())
	}

	rng := NewPartitionedRNG(NewLayoutKey(cfg.Round.Seed))
	place := newPlacer(a.bounds, cfg.Round.SpawnMargin)
	poses := a.layoutShips(entrants, rng, place)
	a.layoutObstacles(rng, place)

	names := uniqueNames(entrants)
	agentCfg := cfg.Ship.agentConfig()
	for i, e := range entrants {
		ag := agent.New(agentCfg, names[i], poses[i].Position, poses[i].Heading, e.Program, a.pool,
			agent.WithContext(a.parent), agent.WithExitHandler(a.scriptFailed))
		a.agents = append(a.agents, ag)
		logrus.WithField("agent", names[i]).Debugf("spawned at %v heading %.0f", poses[i].Position, poses[i].Heading)
	}
	logrus.Infof("round %s: %d agent(s), %d obstacle(s), pool capacity %d",
		a.id, len(a.agents), len(a.obstacles), a.pool.Capacity())
	return a, nil
}

func (a *Arena) layoutShips(entrants []Entrant, rng *PartitionedRNG, place *placer) []Pose {
	poses := make([]Pose, len(entrants))
	for i, e := range entrants {
		if e.Spawn != nil {
			poses[i] = *e.Spawn
			place.reserve(collision.MakeShape(e.Spawn.Position, a.cfg.Ship.Radius))
		}
	}
	spawnRNG := rng.ForSubsystem(SubsystemSpawn)
	for i, e := range entrants {
		if e.Spawn == nil {
			poses[i] = Pose{
				Position: place.place(spawnRNG, a.cfg.Ship.Radius),
				Heading:  randomHeading(spawnRNG),
			}
		}
	}
	return poses
}

func (a *Arena) layoutObstacles(rng *PartitionedRNG, place *placer) {
	if a.hasPresetObstacles {
		for i := range a.presetObstacles {
			a.obstacles = append(a.obstacles, &a.presetObstacles[i])
		}
		return
	}
	obsRNG := rng.ForSubsystem(SubsystemObstacles)
	for i := 0; i < a.cfg.Obstacles.Count; i++ {
		a.obstacles = append(a.obstacles, &Obstacle{
			Position:  place.place(obsRNG, a.cfg.Obstacles.Radius),
			Radius:    a.cfg.Obstacles.Radius,
			HitPoints: a.cfg.Obstacles.HitPoints,
		})
	}
}

// uniqueNames suffixes repeated entrant names with #2, #3, ...
func uniqueNames(entrants []Entrant) []string {
	seen := make(map[string]int, len(entrants))
	names := make([]string, len(entrants))
	for i, e := range entrants {
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("agent_%d", i)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s#%d", name, n)
		}
		names[i] = name
	}
	return names
}

func (a *Arena) scriptFailed(name string, err error) {
	a.failures.Add(1)
	if a.onScriptError != nil {
		a.onScriptError(name, err)
		return
	}
	logrus.WithField("agent", name).Errorf("control program stopped: %v", err)
}

// frame snapshots every body into this tick's collision frame.
func (a *Arena) frame() *collision.Frame {
	ships := make([]collision.Shape, len(a.agents))
	for i, ag := range a.agents {
		ships[i] = ag.Shape()
	}
	rocks := make([]collision.Shape, len(a.obstacles))
	for i, o := range a.obstacles {
		rocks[i] = o.Shape()
	}
	return collision.NewFrame(a.bounds, a.cfg.Arena.MaxRayLength, map[string]*collision.Layer{
		collision.LayerShip:       collision.NewLayer(ships),
		collision.LayerProjectile: a.pool.CollisionLayer(),
		collision.LayerObstacle:   collision.NewLayer(rocks),
	})
}

// Step advances the round by dt seconds. Every entity sees the frame built
// at the start of the tick. It returns false once the round is over.
func (a *Arena) Step(dt float64) bool {
	if a.outcome.Over() {
		return false
	}
	a.tick++
	frame := a.frame()

	for _, ag := range a.agents {
		a.observe(ag, ag.Step(dt, frame))
	}

	res := a.pool.Step(dt, frame)
	a.metrics.ProjectilesExpired += res.Expired
	a.metrics.ProjectilesHit += res.Hit

	for i, o := range a.obstacles {
		if !o.step(frame) {
			continue
		}
		a.metrics.ObstacleHits++
		if !o.Alive() {
			a.metrics.ObstaclesDestroyed++
			logrus.Debugf("[tick %07d] obstacle %d destroyed", a.tick, i)
		}
		if a.trace != nil {
			a.trace.RecordObstacleHit(trace.ObstacleHitRecord{Obstacle: i, Tick: a.tick, HitPoints: o.HitPoints})
		}
	}

	a.clock += dt
	a.metrics.Ticks = a.tick
	a.metrics.SimTime = a.clock
	a.checkEnd()
	return !a.outcome.Over()
}

func (a *Arena) observe(ag *agent.Agent, rep agent.StepReport) {
	name, id := ag.Name(), ag.ID().String()
	if rep.Started != nil {
		if a.trace != nil {
			a.trace.RecordAction(trace.ActionRecord{Agent: name, AgentID: id, Tick: a.tick, Action: rep.Started.String()})
		}
		if rep.Started.Kind == agent.ActionShoot {
			a.observeShot(name, id, rep)
		}
	}
	if rep.Completed {
		a.metrics.ActionsCompleted++
	}
	if rep.Err != nil && errors.Is(rep.Err, agent.ErrChannelClosed) {
		logrus.WithField("agent", name).Infof("[tick %07d] control program ended, agent idles", a.tick)
	}
	if rep.Destroyed {
		a.metrics.DestroyedAt[name] = a.tick
		a.metrics.Causes[name] = rep.Cause
		logrus.WithField("agent", name).Infof("[tick %07d] destroyed by %s", a.tick, rep.Cause)
		if a.trace != nil {
			a.trace.RecordDestruction(trace.DestructionRecord{Agent: name, AgentID: id, Tick: a.tick, Cause: rep.Cause})
		}
	}
}

func (a *Arena) observeShot(name, id string, rep agent.StepReport) {
	record := trace.ShotRecord{Agent: name, AgentID: id, Tick: a.tick, Fired: rep.Fired}
	if rep.Fired {
		a.metrics.ShotsFired++
	} else {
		a.metrics.ShotsDropped++
		if rep.Err != nil {
			record.Reason = errors.Cause(rep.Err).Error()
		}
		logrus.WithField("agent", name).Debugf("[tick %07d] shot dropped: %v", a.tick, rep.Err)
	}
	if a.trace != nil {
		a.trace.RecordShot(record)
	}
}

// checkEnd ends the round when at most one of several ships survives, when
// a lone ship is destroyed, or when the tick limit is reached.
func (a *Arena) checkEnd() {
	survivors := a.survivors()
	switch {
	case len(survivors) == 0:
		a.outcome = Outcome{Kind: OutcomeDraw, Survivors: survivors, Tick: a.tick}
	case len(survivors) == 1 && len(a.agents) > 1:
		a.outcome = Outcome{Kind: OutcomeWinner, Winner: survivors[0], Survivors: survivors, Tick: a.tick}
	case a.cfg.Round.MaxTicks > 0 && a.tick >= a.cfg.Round.MaxTicks:
		a.outcome = Outcome{Kind: OutcomeTimeout, Survivors: survivors, Tick: a.tick}
	default:
		return
	}
	logrus.Infof("[tick %07d] round over: %s", a.tick, a.outcome)
}

func (a *Arena) survivors() []string {
	alive := make([]string, 0, len(a.agents))
	for _, ag := range a.agents {
		if ag.Alive() {
			alive = append(alive, ag.Name())
		}
	}
	return alive
}

// Run steps the round with a fixed dt as fast as possible until it ends or
// ctx is cancelled. Before each tick, waiting agents get a shared settle
// budget to send their next request; a stalled program costs at most that
// budget per tick and is otherwise left idle.
func (a *Arena) Run(ctx context.Context, dt float64) Outcome {
	for ctx.Err() == nil {
		a.settle()
		if !a.Step(dt) {
			break
		}
	}
	return a.Outcome()
}

func (a *Arena) settle() {
	deadline := time.Now().Add(a.settleTimeout)
	for _, ag := range a.agents {
		left := time.Until(deadline)
		if left <= 0 {
			return
		}
		ag.Await(left)
	}
}

// RunRealtime steps the round tickRate times per second using the measured
// wall-clock dt, calling onTick after every step. It returns when the round
// ends or ctx is cancelled.
func (a *Arena) RunRealtime(ctx context.Context, tickRate float64, onTick func(*Arena)) Outcome {
	interval := time.Duration(float64(time.Second) / tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return a.Outcome()
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = 1 / tickRate
			}
			last = now

			running := a.Step(dt)
			if onTick != nil {
				onTick(a)
			}
			if !running {
				return a.Outcome()
			}
		}
	}
}

// Outcome returns the result so far; Kind is OutcomeRunning until the round ends.
func (a *Arena) Outcome() Outcome {
	if a.outcome.Over() {
		return a.outcome
	}
	return Outcome{Kind: OutcomeRunning, Survivors: a.survivors(), Tick: a.tick}
}

// Metrics returns the round statistics collected so far.
func (a *Arena) Metrics() *Metrics {
	a.metrics.ScriptFailures = int(a.failures.Load())
	return a.metrics
}

// Result bundles the round and agent ids, seed, outcome and metrics for SaveResults.
func (a *Arena) Result() RoundResult {
	ids := make(map[string]string, len(a.agents))
	for _, ag := range a.agents {
		ids[ag.Name()] = ag.ID().String()
	}
	return RoundResult{
		RoundID:  a.id.String(),
		AgentIDs: ids,
		Seed:     a.cfg.Round.Seed,
		Outcome:  a.Outcome(),
		Metrics:  a.Metrics(),
	}
}

// Trace returns the event trace, or nil when tracing is off.
func (a *Arena) Trace() *trace.RoundTrace { return a.trace }

// ID identifies the round.
func (a *Arena) ID() uuid.UUID { return a.id }

// Tick returns the number of ticks stepped so far.
func (a *Arena) Tick() int64 { return a.tick }

// Bounds returns the arena rectangle.
func (a *Arena) Bounds() collision.Bounds { return a.bounds }

// Agents returns the ships in entrant order.
func (a *Arena) Agents() []*agent.Agent {
	return append([]*agent.Agent(nil), a.agents...)
}

// Obstacles returns copies of the obstacles.
func (a *Arena) Obstacles() []Obstacle {
	out := make([]Obstacle, len(a.obstacles))
	for i, o := range a.obstacles {
		out[i] = *o
	}
	return out
}

// Close stops every control program and waits for them to exit.
func (a *Arena) Close() {
	for _, ag := range a.agents {
		ag.Close()
	}
}

// DrawableKind is the closed set of things a renderer draws.
type DrawableKind string

const (
	DrawShip       DrawableKind = "ship"
	DrawProjectile DrawableKind = "projectile"
	DrawObstacle   DrawableKind = "obstacle"
)

// Drawable is the render view of one body.
type Drawable struct {
	Kind     DrawableKind
	Name     string
	Position vector.Vector2
	Heading  float64
	Radius   float64
	Alive    bool
}

// Drawables lists obstacles, then ships, then projectiles, so later entries
// draw on top.
func (a *Arena) Drawables() []Drawable {
	out := make([]Drawable, 0, len(a.obstacles)+len(a.agents)+a.pool.Len())
	for i, o := range a.obstacles {
		out = append(out, Drawable{
			Kind:     DrawObstacle,
			Name:     fmt.Sprintf("obstacle_%d", i),
			Position: o.Position,
			Radius:   o.Radius,
			Alive:    o.Alive(),
		})
	}
	for _, ag := range a.agents {
		out = append(out, Drawable{
			Kind:     DrawShip,
			Name:     ag.Name(),
			Position: ag.Position(),
			Heading:  ag.Heading(),
			Radius:   ag.Radius(),
			Alive:    ag.Alive(),
		})
	}
	for _, p := range a.pool.Active() {
		out = append(out, Drawable{
			Kind:     DrawProjectile,
			Position: p.Position,
			Heading:  p.Heading,
			Radius:   a.pool.Radius(),
			Alive:    true,
		})
	}
	return out
}
