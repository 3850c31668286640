// Tracks round-wide and per-agent statistics such as shots, hits and destructions.

package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Metrics aggregates statistics about one round
// for final reporting.
type Metrics struct {
	Ticks   int64   `json:"ticks"`
	SimTime float64 `json:"sim_time_seconds"`

	ActionsCompleted   int `json:"actions_completed"`
	ShotsFired         int `json:"shots_fired"`
	ShotsDropped       int `json:"shots_dropped"` // pool exhausted
	ProjectilesExpired int `json:"projectiles_expired"`
	ProjectilesHit     int `json:"projectiles_hit"`
	ObstacleHits       int `json:"obstacle_hits"`
	ObstaclesDestroyed int `json:"obstacles_destroyed"`
	ScriptFailures     int `json:"script_failures"`

	DestroyedAt map[string]int64  `json:"destroyed_at"` // agent name -> tick of destruction
	Causes      map[string]string `json:"causes"`       // agent name -> layer that destroyed it
}

// NewMetrics returns empty metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		DestroyedAt: make(map[string]int64),
		Causes:      make(map[string]string),
	}
}

// Print displays aggregated metrics at the end of the round.
func (m *Metrics) Print(outcome Outcome) {
	fmt.Println("=== Round Metrics ===")
	fmt.Printf("Outcome              : %s\n", outcome)
	fmt.Printf("Ticks                : %d (%.2f s)\n", m.Ticks, m.SimTime)
	fmt.Printf("Actions Completed    : %d\n", m.ActionsCompleted)
	fmt.Printf("Shots Fired          : %d\n", m.ShotsFired)
	if m.ShotsDropped > 0 {
		fmt.Printf("Shots Dropped        : %d\n", m.ShotsDropped)
	}
	fmt.Printf("Projectiles Hit      : %d\n", m.ProjectilesHit)
	fmt.Printf("Projectiles Expired  : %d\n", m.ProjectilesExpired)
	fmt.Printf("Obstacle Hits        : %d (%d destroyed)\n", m.ObstacleHits, m.ObstaclesDestroyed)
	if m.ScriptFailures > 0 {
		fmt.Printf("Script Failures      : %d\n", m.ScriptFailures)
	}

	names := make([]string, 0, len(m.DestroyedAt))
	for name := range m.DestroyedAt {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if m.DestroyedAt[names[i]] != m.DestroyedAt[names[j]] {
			return m.DestroyedAt[names[i]] < m.DestroyedAt[names[j]]
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		fmt.Printf("Destroyed            : %s at tick %d by %s\n", name, m.DestroyedAt[name], m.Causes[name])
	}
}

// RoundResult is the JSON document written by SaveResults.
type RoundResult struct {
	RoundID  string            `json:"round_id"`
	AgentIDs map[string]string `json:"agent_ids"` // agent name -> agent UUID
	Seed     int64             `json:"seed"`
	Outcome  Outcome           `json:"outcome"`
	Metrics  *Metrics          `json:"metrics"`
}

// SaveResults writes the round results as indented JSON to fileName.
func SaveResults(fileName string, results []RoundResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding results")
	}
	if err := os.WriteFile(fileName, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", fileName)
	}
	logrus.Debugf("Successfully wrote %d round result(s) to '%s'", len(results), fileName)
	return nil
}
