package life

import "time"

// StateChange tags the transition carried by a StateChangeEvent.
type StateChange int

const (
	ChangeStarted StateChange = iota
	ChangePaused
	ChangeResumed
	ChangeStopped
	ChangeReset
	ChangeGridChanged
	ChangeRulesChanged
	ChangeSpeedChanged
	ChangeExtinct
)

var stateChangeNames = map[StateChange]string{
	ChangeStarted:      "started",
	ChangePaused:       "paused",
	ChangeResumed:      "resumed",
	ChangeStopped:      "stopped",
	ChangeReset:        "reset",
	ChangeGridChanged:  "grid changed",
	ChangeRulesChanged: "rules changed",
	ChangeSpeedChanged: "speed changed",
	ChangeExtinct:      "extinct",
}

func (c StateChange) String() string {
	if name, ok := stateChangeNames[c]; ok {
		return name
	}
	return "unknown"
}

// GenerationEvent is emitted after every completed tick or manual evolve.
// Grid is an independent clone of the field as it stood right after the
// tick; mutating the engine afterwards never changes it.
type GenerationEvent struct {
	Generation int
	AliveCells int
	TotalCells int
	Grid       *Grid
}

// StateChangeEvent is emitted synchronously with every engine state
// transition, carrying a statistics snapshot taken at that moment.
type StateChangeEvent struct {
	Change    StateChange
	Stats     GameStatistics
	Timestamp time.Time
}

// GenerationListener receives generation events in registration order.
type GenerationListener func(GenerationEvent)

// StateChangeListener receives state-change events in registration order.
type StateChangeListener func(StateChangeEvent)
