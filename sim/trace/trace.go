package trace

// TraceLevel controls the verbosity of event tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents captures actions, shots, destructions and obstacle hits.
	TraceLevelEvents TraceLevel = "events"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEvents: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// RoundTrace collects event records during one arena round.
type RoundTrace struct {
	Config       TraceConfig
	RoundID      string
	Actions      []ActionRecord
	Shots        []ShotRecord
	Destructions []DestructionRecord
	ObstacleHits []ObstacleHitRecord
}

// NewRoundTrace creates a RoundTrace ready for recording.
func NewRoundTrace(config TraceConfig, roundID string) *RoundTrace {
	return &RoundTrace{
		Config:       config,
		RoundID:      roundID,
		Actions:      make([]ActionRecord, 0),
		Shots:        make([]ShotRecord, 0),
		Destructions: make([]DestructionRecord, 0),
		ObstacleHits: make([]ObstacleHitRecord, 0),
	}
}

// RecordAction appends an action record.
func (rt *RoundTrace) RecordAction(record ActionRecord) {
	rt.Actions = append(rt.Actions, record)
}

// RecordShot appends a shot record.
func (rt *RoundTrace) RecordShot(record ShotRecord) {
	rt.Shots = append(rt.Shots, record)
}

// RecordDestruction appends a destruction record.
func (rt *RoundTrace) RecordDestruction(record DestructionRecord) {
	rt.Destructions = append(rt.Destructions, record)
}

// RecordObstacleHit appends an obstacle hit record.
func (rt *RoundTrace) RecordObstacleHit(record ObstacleHitRecord) {
	rt.ObstacleHits = append(rt.ObstacleHits, record)
}
