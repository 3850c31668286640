package agent

import "fmt"

// ActionKind is the closed set of blocking actions a control program can request.
type ActionKind string

const (
	ActionMove  ActionKind = "move"
	ActionTurn  ActionKind = "turn"
	ActionShoot ActionKind = "shoot"
)

// Request is one action sent from a control program to its agent.
// Amount is a distance for moves, degrees for turns and unused for shots.
type Request struct {
	Kind   ActionKind
	Amount float64
}

func (r Request) String() string {
	if r.Kind == ActionShoot {
		return string(r.Kind)
	}
	return fmt.Sprintf("%s(%.2f)", r.Kind, r.Amount)
}

// Phase is the agent's position in its action state machine.
type Phase string

const (
	PhaseWaiting   Phase = "waiting"
	PhaseMoving    Phase = "moving"
	PhaseTurning   Phase = "turning"
	PhaseShooting  Phase = "shooting"
	PhaseDestroyed Phase = "destroyed"
)

// State is the agent's transient action state. Remaining is the signed
// distance or angle left for moves and turns, and the cooldown left for shots.
type State struct {
	Phase     Phase
	Remaining float64
}

func (s State) String() string {
	switch s.Phase {
	case PhaseMoving, PhaseTurning, PhaseShooting:
		return fmt.Sprintf("%s(%.2f)", s.Phase, s.Remaining)
	}
	return string(s.Phase)
}

// stateFor maps a dequeued request to the state that executes it.
func stateFor(req Request, shootCooldown float64) State {
	switch req.Kind {
	case ActionMove:
		return State{Phase: PhaseMoving, Remaining: req.Amount}
	case ActionTurn:
		return State{Phase: PhaseTurning, Remaining: req.Amount}
	default:
		return State{Phase: PhaseShooting, Remaining: shootCooldown}
	}
}
