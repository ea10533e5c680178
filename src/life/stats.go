package life

import "time"

// GameStatistics is a derived, point-in-time snapshot of the engine.
type GameStatistics struct {
	Generation int
	AliveCells int
	TotalCells int
	Density    float64
	Width      int
	Height     int
	Rules      string
	Interval   time.Duration
	Running    bool
	Paused     bool
}

// IsActive reports whether the engine is actively ticking.
func (s GameStatistics) IsActive() bool {
	return s.Running && !s.Paused
}
