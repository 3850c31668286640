// Package testutil holds the golden round scenarios and assertion helpers
// shared by the sim test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenRounds represents the structure of testdata/golden_rounds.json.
type GoldenRounds struct {
	Rounds []GoldenRound `json:"rounds"`
}

// GoldenRound is one hand-checked scenario: a fixed layout, scripted ships
// and the result the round must produce.
type GoldenRound struct {
	Name      string           `json:"name"`
	DT        float64          `json:"dt"`
	MaxTicks  int64            `json:"max_ticks"`
	Ships     []GoldenShip     `json:"ships"`
	Obstacles []GoldenObstacle `json:"obstacles"`
	Expected  GoldenOutcome    `json:"expected"`
}

// GoldenShip is a ship with an explicit spawn pose and a fixed action list.
// Actions use the script syntax: "move(50)", "turn(-90)", "shoot()".
type GoldenShip struct {
	Name    string   `json:"name"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Heading float64  `json:"heading"`
	Actions []string `json:"actions"`
}

// GoldenObstacle is an obstacle placed at a fixed position.
type GoldenObstacle struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Radius    float64 `json:"radius"`
	HitPoints int     `json:"hit_points"`
}

// GoldenOutcome is the expected end of a golden round.
type GoldenOutcome struct {
	Kind               string           `json:"kind"`
	Winner             string           `json:"winner"`
	Survivors          []string         `json:"survivors"`
	Tick               int64            `json:"tick"`
	ShotsFired         int              `json:"shots_fired"`
	ProjectilesHit     int              `json:"projectiles_hit"`
	ObstacleHits       int              `json:"obstacle_hits"`
	ObstaclesDestroyed int              `json:"obstacles_destroyed"`
	DestroyedAt        map[string]int64 `json:"destroyed_at"`
}

// LoadGoldenRounds loads the golden scenarios from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenRounds(t *testing.T) *GoldenRounds {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "golden_rounds.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden rounds: %v", err)
	}

	var rounds GoldenRounds
	if err := json.Unmarshal(data, &rounds); err != nil {
		t.Fatalf("Failed to parse golden rounds: %v", err)
	}

	return &rounds
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
