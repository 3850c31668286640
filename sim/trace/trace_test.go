package trace

import (
	"testing"
)

func TestRoundTrace_RecordAction_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for events
	rt := NewRoundTrace(TraceConfig{Level: TraceLevelEvents}, "round-1")

	// WHEN an action record is recorded
	rt.RecordAction(ActionRecord{Agent: "spinner", Tick: 3, Action: "turn(90.00)"})

	// THEN the trace contains one action record with correct data
	if len(rt.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(rt.Actions))
	}
	if rt.Actions[0].Agent != "spinner" || rt.Actions[0].Tick != 3 {
		t.Errorf("unexpected record %+v", rt.Actions[0])
	}
	if rt.RoundID != "round-1" {
		t.Errorf("expected round id round-1, got %s", rt.RoundID)
	}
}

func TestRoundTrace_RecordShotAndDestruction_AppendInOrder(t *testing.T) {
	// GIVEN an empty trace
	rt := NewRoundTrace(TraceConfig{Level: TraceLevelEvents}, "")

	// WHEN shots and destructions are recorded
	rt.RecordShot(ShotRecord{Agent: "a", Tick: 1, Fired: true})
	rt.RecordShot(ShotRecord{Agent: "a", Tick: 12, Fired: false, Reason: "projectile pool exhausted"})
	rt.RecordDestruction(DestructionRecord{Agent: "b", Tick: 9, Cause: "projectile"})
	rt.RecordObstacleHit(ObstacleHitRecord{Obstacle: 2, Tick: 4, HitPoints: 1})

	// THEN records keep insertion order
	if len(rt.Shots) != 2 || rt.Shots[1].Tick != 12 {
		t.Fatalf("unexpected shots %+v", rt.Shots)
	}
	if rt.Shots[1].Fired {
		t.Error("expected second shot to be dropped")
	}
	if len(rt.Destructions) != 1 || rt.Destructions[0].Cause != "projectile" {
		t.Errorf("unexpected destructions %+v", rt.Destructions)
	}
	if len(rt.ObstacleHits) != 1 || rt.ObstacleHits[0].HitPoints != 1 {
		t.Errorf("unexpected obstacle hits %+v", rt.ObstacleHits)
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"events", true},
		{"", true},
		{"decisions", false},
		{"verbose", false},
	}
	for _, tc := range tests {
		if got := IsValidTraceLevel(tc.level); got != tc.valid {
			t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tc.level, got, tc.valid)
		}
	}
}
