package sim

import (
	"fmt"
	"strings"
)

// OutcomeKind says how a round ended, or that it has not.
type OutcomeKind string

const (
	OutcomeRunning OutcomeKind = "running"
	OutcomeWinner  OutcomeKind = "winner"  // exactly one ship left
	OutcomeDraw    OutcomeKind = "draw"    // no ship left
	OutcomeTimeout OutcomeKind = "timeout" // tick limit reached with ships still fighting
)

// Outcome is the state of the round.
type Outcome struct {
	Kind      OutcomeKind `json:"kind"`
	Winner    string      `json:"winner,omitempty"`
	Survivors []string    `json:"survivors"`
	Tick      int64       `json:"tick"`
}

// Over reports whether the round has ended.
func (o Outcome) Over() bool {
	return o.Kind != OutcomeRunning && o.Kind != ""
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeWinner:
		return fmt.Sprintf("%s wins at tick %d", o.Winner, o.Tick)
	case OutcomeDraw:
		return fmt.Sprintf("draw at tick %d", o.Tick)
	case OutcomeTimeout:
		return fmt.Sprintf("timeout at tick %d, survivors: %s", o.Tick, strings.Join(o.Survivors, ", "))
	}
	return fmt.Sprintf("running at tick %d", o.Tick)
}
