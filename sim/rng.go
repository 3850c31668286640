package sim

import (
	"hash/fnv"
	"math/rand"
)

// Ship spawns and obstacle placement draw from separate random streams
// derived from the round seed. Adding or removing obstacles therefore never
// moves a ship, and the seed stored in a RoundResult rebuilds the layout.

// LayoutKey is the round seed as the layout code sees it.
type LayoutKey int64

// NewLayoutKey wraps a round seed.
func NewLayoutKey(seed int64) LayoutKey {
	return LayoutKey(seed)
}

// Layout streams.
const (
	SubsystemSpawn     = "spawn"     // ship positions and headings
	SubsystemObstacles = "obstacles" // obstacle positions
)

// streamSeed gives the spawn stream the round seed unchanged, so a ship
// layout can be reproduced from --seed alone. Other streams mix in the
// FNV-1a hash of their name.
func (k LayoutKey) streamSeed(name string) int64 {
	if name == SubsystemSpawn {
		return int64(k)
	}
	return int64(k) ^ fnv1a64(name)
}

// PartitionedRNG lazily creates one *rand.Rand per layout stream. It is used
// by NewArena only and is not safe for concurrent use.
type PartitionedRNG struct {
	key        LayoutKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG returns an RNG set with no streams created yet.
func NewPartitionedRNG(key LayoutKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, subsystems: make(map[string]*rand.Rand)}
}

// ForSubsystem returns the stream for name. Repeated calls continue the
// same stream rather than restarting it.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	rng, ok := p.subsystems[name]
	if !ok {
		rng = rand.New(rand.NewSource(p.key.streamSeed(name)))
		p.subsystems[name] = rng
	}
	return rng
}

// Key returns the seed the streams derive from.
func (p *PartitionedRNG) Key() LayoutKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
