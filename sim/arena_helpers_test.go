package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/botarena/botarena/sim/agent"
	"github.com/botarena/botarena/sim/vector"
)

// settle waits until every waiting agent's program has either sent its
// next request or exited, so each tick sees the same inputs on every run.
func settle(t *testing.T, a *Arena) {
	t.Helper()
	for _, ag := range a.Agents() {
		if !ag.Alive() || ag.State().Phase != agent.PhaseWaiting {
			continue
		}
		link := ag.Link()
		require.Eventually(t, func() bool {
			if link.Pending() == 1 {
				return true
			}
			select {
			case <-link.Done():
				return true
			default:
				return false
			}
		}, time.Second, time.Millisecond, "agent %s never settled", ag.Name())
	}
}

func stepSynced(t *testing.T, a *Arena, dt float64) bool {
	t.Helper()
	settle(t, a)
	return a.Step(dt)
}

func runSynced(t *testing.T, a *Arena, dt float64) Outcome {
	t.Helper()
	for stepSynced(t, a, dt) {
	}
	return a.Outcome()
}

// actions returns a program that performs reqs and then exits.
func actions(reqs ...agent.Request) agent.ControlProgram {
	return agent.ProgramFunc(func(ctx context.Context, b agent.Bindings) error {
		for _, req := range reqs {
			var err error
			switch req.Kind {
			case agent.ActionMove:
				err = b.Move(req.Amount)
			case agent.ActionTurn:
				err = b.Turn(req.Amount)
			case agent.ActionShoot:
				err = b.Shoot()
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// parked returns a program that never acts and only returns on cancellation.
func parked() agent.ControlProgram {
	return agent.ProgramFunc(func(ctx context.Context, b agent.Bindings) error {
		<-ctx.Done()
		return ctx.Err()
	})
}

func at(x, y, heading float64) *Pose {
	return &Pose{Position: vector.MakeVector2(x, y), Heading: heading}
}

// quietConfig is the default arena without random obstacles.
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Obstacles.Count = 0
	return cfg
}

func newTestArena(t *testing.T, cfg Config, entrants []Entrant, opts ...ArenaOption) *Arena {
	t.Helper()
	a, err := NewArena(cfg, entrants, opts...)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}
