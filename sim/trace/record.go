// Package trace records per-round arena events for post-run analysis.
// This package has no dependencies on sim/ or its sub-packages; it stores pure data types.
package trace

// ActionRecord captures an action request the moment an agent dequeues it.
type ActionRecord struct {
	Agent   string
	AgentID string // v4 UUID, unique across rounds
	Tick    int64
	Action  string // e.g. "move(50.00)", "shoot"
}

// ShotRecord captures one shoot request and whether a projectile left the pool.
type ShotRecord struct {
	Agent   string
	AgentID string
	Tick    int64
	Fired   bool
	Reason  string // empty when fired, otherwise why the shot was dropped
}

// DestructionRecord captures an agent being destroyed.
type DestructionRecord struct {
	Agent   string
	AgentID string
	Tick    int64
	Cause   string // collision layer that destroyed the agent
}

// ObstacleHitRecord captures an obstacle losing a hit point.
type ObstacleHitRecord struct {
	Obstacle  int // index in the arena's obstacle list
	Tick      int64
	HitPoints int // remaining after the hit
}
