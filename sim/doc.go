// Package sim provides the arena simulation driver.
//
// # Reading Guide
//
// Start with these files to understand a round:
//   - arena.go: NewArena layout, the per-tick Step (frame, agents, projectiles, obstacles) and round end
//   - config.go: arena, ship, projectile, obstacle and round settings with their defaults
//   - obstacle.go: destructible obstacles
//
// # Architecture
//
// The driver composes focused sub-packages:
//   - sim/collision/: shapes, layers, the per-tick frame and the raycast engine
//   - sim/projectile/: the fixed-capacity projectile pool
//   - sim/agent/: the ship controller state machine and its channel to the control program
//   - sim/script/: JavaScript control programs
//   - sim/trace/: per-round event records
//
// # Concurrency
//
// One goroutine owns the Arena and everything it contains. Each ship's
// control program runs on its own goroutine and talks to the arena only
// through its agent's request channel and sensing handle. The arena waits
// on programs only inside Run's bounded per-tick settle.
package sim
