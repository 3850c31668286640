package agent

import (
	"sync"

	"github.com/botarena/botarena/sim/vector"
)

// Snapshot is what a control program can sense about its own agent: the
// pose and forward raycast of the most recent tick the agent completed.
type Snapshot struct {
	Position vector.Vector2
	Category string
	Distance float64
	Tick     int64
}

// SensingHandle is the only state written by the simulation goroutine and
// read by a control-program goroutine. Writes replace the whole snapshot,
// so readers never observe a partial update.
type SensingHandle struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewSensingHandle returns a handle holding initial.
func NewSensingHandle(initial Snapshot) *SensingHandle {
	return &SensingHandle{snap: initial}
}

// Publish replaces the snapshot.
func (h *SensingHandle) Publish(s Snapshot) {
	h.mu.Lock()
	h.snap = s
	h.mu.Unlock()
}

// Read returns a copy of the current snapshot.
func (h *SensingHandle) Read() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snap
}
