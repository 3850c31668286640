package sim

import (
	"math"

	"github.com/pkg/errors"

	"github.com/botarena/botarena/sim/agent"
	"github.com/botarena/botarena/sim/projectile"
	"github.com/botarena/botarena/sim/trace"
)

// ArenaConfig groups the arena geometry.
type ArenaConfig struct {
	Width        float64 `yaml:"width"`          // must be > 0
	Height       float64 `yaml:"height"`         // must be > 0
	MaxRayLength float64 `yaml:"max_ray_length"` // distance after which raycasts report "none"
}

// ShipConfig groups the per-ship constants.
type ShipConfig struct {
	Radius        float64 `yaml:"radius"`
	MoveSpeed     float64 `yaml:"move_speed"`     // units per second
	TurnSpeed     float64 `yaml:"turn_speed"`     // degrees per second
	ShootCooldown float64 `yaml:"shoot_cooldown"` // seconds
	MuzzleOffset  float64 `yaml:"muzzle_offset"`  // must clear the ship and projectile radii
	SensorOffset  float64 `yaml:"sensor_offset"`  // must clear the ship radius plus the raycast step
	RaycastStep   float64 `yaml:"raycast_step"`
}

// ProjectileConfig groups the projectile constants.
type ProjectileConfig struct {
	Speed    float64 `yaml:"speed"`     // units per second
	Lifetime float64 `yaml:"lifetime"`  // seconds
	Radius   float64 `yaml:"radius"`
	PerAgent int     `yaml:"per_agent"` // pool capacity is PerAgent x number of agents
}

// ObstacleConfig groups the randomly placed obstacles.
type ObstacleConfig struct {
	Count     int     `yaml:"count"`
	Radius    float64 `yaml:"radius"`
	HitPoints int     `yaml:"hit_points"`
}

// RoundConfig groups round control.
type RoundConfig struct {
	Seed        int64   `yaml:"seed"`
	MaxTicks    int64   `yaml:"max_ticks"`    // 0 = no limit
	SpawnMargin float64 `yaml:"spawn_margin"` // minimum distance of random spawns from the walls
	Trace       string  `yaml:"trace"`        // "none" (default) or "events"
}

// Config is the full arena configuration.
type Config struct {
	Arena      ArenaConfig      `yaml:"arena"`
	Ship       ShipConfig       `yaml:"ship"`
	Projectile ProjectileConfig `yaml:"projectile"`
	Obstacles  ObstacleConfig   `yaml:"obstacles"`
	Round      RoundConfig      `yaml:"round"`
}

// DefaultConfig returns the stock arena: 1280x960 with four obstacles.
func DefaultConfig() Config {
	return Config{
		Arena: ArenaConfig{Width: 1280, Height: 960, MaxRayLength: 1000},
		Ship: ShipConfig{
			Radius:        20,
			MoveSpeed:     100,
			TurnSpeed:     70,
			ShootCooldown: 1,
			MuzzleOffset:  32,
			SensorOffset:  26,
			RaycastStep:   5,
		},
		Projectile: ProjectileConfig{Speed: 400, Lifetime: 3, Radius: 10, PerAgent: 10},
		Obstacles:  ObstacleConfig{Count: 4, Radius: 45, HitPoints: 2},
		Round:      RoundConfig{Seed: 42, MaxTicks: 6000, SpawnMargin: 80, Trace: string(trace.TraceLevelNone)},
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"arena.width", c.Arena.Width},
		{"arena.height", c.Arena.Height},
		{"ship.radius", c.Ship.Radius},
		{"ship.move_speed", c.Ship.MoveSpeed},
		{"ship.turn_speed", c.Ship.TurnSpeed},
		{"ship.raycast_step", c.Ship.RaycastStep},
		{"projectile.speed", c.Projectile.Speed},
		{"projectile.lifetime", c.Projectile.Lifetime},
		{"projectile.radius", c.Projectile.Radius},
	}
	for _, f := range positive {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			return errors.Errorf("%s must be a finite number > 0, got %v", f.name, f.value)
		}
	}
	if c.Ship.ShootCooldown < 0 {
		return errors.Errorf("ship.shoot_cooldown must be >= 0, got %v", c.Ship.ShootCooldown)
	}
	if c.Arena.MaxRayLength < 0 {
		return errors.Errorf("arena.max_ray_length must be >= 0, got %v", c.Arena.MaxRayLength)
	}
	if c.Ship.MuzzleOffset <= c.Ship.Radius+c.Projectile.Radius {
		return errors.Errorf("ship.muzzle_offset %v must exceed ship.radius + projectile.radius (%v)",
			c.Ship.MuzzleOffset, c.Ship.Radius+c.Projectile.Radius)
	}
	if c.Ship.SensorOffset <= c.Ship.Radius+c.Ship.RaycastStep {
		return errors.Errorf("ship.sensor_offset %v must exceed ship.radius + ship.raycast_step (%v)",
			c.Ship.SensorOffset, c.Ship.Radius+c.Ship.RaycastStep)
	}
	if c.Projectile.PerAgent < 1 {
		return errors.Errorf("projectile.per_agent must be >= 1, got %d", c.Projectile.PerAgent)
	}
	if c.Obstacles.Count < 0 {
		return errors.Errorf("obstacles.count must be >= 0, got %d", c.Obstacles.Count)
	}
	if c.Obstacles.Count > 0 && (c.Obstacles.Radius <= 0 || c.Obstacles.HitPoints < 1) {
		return errors.New("obstacles.radius must be > 0 and obstacles.hit_points >= 1 when obstacles.count > 0")
	}
	if c.Round.MaxTicks < 0 {
		return errors.Errorf("round.max_ticks must be >= 0, got %d", c.Round.MaxTicks)
	}
	if c.Round.SpawnMargin < 0 || 2*c.Round.SpawnMargin >= math.Min(c.Arena.Width, c.Arena.Height) {
		return errors.Errorf("round.spawn_margin %v leaves no room to spawn in a %vx%v arena",
			c.Round.SpawnMargin, c.Arena.Width, c.Arena.Height)
	}
	if !trace.IsValidTraceLevel(c.Round.Trace) {
		return errors.Errorf("round.trace %q must be one of none, events", c.Round.Trace)
	}
	return nil
}

func (c ShipConfig) agentConfig() agent.Config {
	return agent.Config{
		Radius:        c.Radius,
		MoveSpeed:     c.MoveSpeed,
		TurnSpeed:     c.TurnSpeed,
		ShootCooldown: c.ShootCooldown,
		MuzzleOffset:  c.MuzzleOffset,
		SensorOffset:  c.SensorOffset,
		RaycastStep:   c.RaycastStep,
	}
}

func (c ProjectileConfig) poolConfig(agents int) projectile.Config {
	return projectile.Config{
		Speed:    c.Speed,
		Lifetime: c.Lifetime,
		Radius:   c.Radius,
		Capacity: c.PerAgent * agents,
	}
}
