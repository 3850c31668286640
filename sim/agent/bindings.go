package agent

import (
	"context"
	"math"

	"github.com/pkg/errors"
)

// Bindings is everything a control program may ask of its agent. Move, Turn
// and Shoot block until the simulation completes the action; Sense returns
// the latest snapshot immediately.
type Bindings interface {
	Move(distance float64) error
	Turn(degrees float64) error
	Shoot() error
	Sense() (Snapshot, error)
}

// ControlProgram is the logic driving one agent. Run is called on the
// agent's own goroutine and should return when ctx is cancelled.
type ControlProgram interface {
	Run(ctx context.Context, b Bindings) error
}

// ProgramFunc adapts a function to ControlProgram.
type ProgramFunc func(ctx context.Context, b Bindings) error

func (f ProgramFunc) Run(ctx context.Context, b Bindings) error {
	return f(ctx, b)
}

// controls is the per-agent Bindings handed to the control program.
type controls struct {
	ctx     context.Context
	link    *Link
	sensing *SensingHandle
}

func (c *controls) Move(distance float64) error {
	return c.do(Request{Kind: ActionMove, Amount: distance})
}

func (c *controls) Turn(degrees float64) error {
	return c.do(Request{Kind: ActionTurn, Amount: degrees})
}

func (c *controls) Shoot() error {
	return c.do(Request{Kind: ActionShoot})
}

func (c *controls) Sense() (Snapshot, error) {
	if c == nil || c.sensing == nil {
		return Snapshot{}, ErrNoAgentContext
	}
	return c.sensing.Read(), nil
}

func (c *controls) do(req Request) error {
	if c == nil || c.link == nil {
		return ErrNoAgentContext
	}
	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return errors.Wrapf(ErrInvalidAmount, "%s", req.Kind)
	}
	return c.link.Do(c.ctx, req)
}
