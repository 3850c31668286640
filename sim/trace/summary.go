package trace

// TraceSummary aggregates statistics from a RoundTrace.
type TraceSummary struct {
	TotalActions   int
	ShotsFired     int
	ShotsDropped   int
	Destructions   int
	ObstacleHits   int
	ActionsByAgent map[string]int // agent name → actions started
	Accuracy       float64        // destructions caused by projectiles per fired shot
}

// Summarize computes aggregate statistics from a RoundTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(rt *RoundTrace) *TraceSummary {
	summary := &TraceSummary{
		ActionsByAgent: make(map[string]int),
	}
	if rt == nil {
		return summary
	}

	summary.TotalActions = len(rt.Actions)
	for _, a := range rt.Actions {
		summary.ActionsByAgent[a.Agent]++
	}

	for _, s := range rt.Shots {
		if s.Fired {
			summary.ShotsFired++
		} else {
			summary.ShotsDropped++
		}
	}

	kills := 0
	for _, d := range rt.Destructions {
		if d.Cause == "projectile" {
			kills++
		}
	}
	summary.Destructions = len(rt.Destructions)
	if summary.ShotsFired > 0 {
		summary.Accuracy = float64(kills) / float64(summary.ShotsFired)
	}

	summary.ObstacleHits = len(rt.ObstacleHits)

	return summary
}
