package view

import (
	"fmt"
	"time"

	"github.com/logrusorgru/aurora"

	"github.com/imasharc/GameOfLife/src/life"
)

// ConsoleOut is a plain stdout observer for non-interactive runs: it
// prints a progress line every few generations and a summary for every
// state transition.
type ConsoleOut struct {
	progressEvery int
	startTime     time.Time
}

// NewConsoleOut returns an observer that reports every n generations.
func NewConsoleOut(progressEvery int) *ConsoleOut {
	if progressEvery < 1 {
		progressEvery = 10
	}
	return &ConsoleOut{progressEvery: progressEvery}
}

// Register subscribes the observer to the engine and prints the running
// configuration.
func (c *ConsoleOut) Register(e *life.Engine) {
	s := e.Statistics()
	fmt.Println("Running configuration:")
	fmt.Printf("  Dimension: %v x %v\n", s.Width, s.Height)
	fmt.Printf("  Interval: %v\n", s.Interval)
	fmt.Printf("  Rules: %v\n", s.Rules)

	e.OnGeneration(c.onGeneration)
	e.OnStateChange(c.onStateChange)
}

func (c *ConsoleOut) onGeneration(ev life.GenerationEvent) {
	if ev.Generation%c.progressEvery == 0 {
		fmt.Printf("  Generation %v: %v alive of %v\n", ev.Generation, ev.AliveCells, ev.TotalCells)
	}
}

func (c *ConsoleOut) onStateChange(ev life.StateChangeEvent) {
	switch ev.Change {
	case life.ChangeStarted:
		c.startTime = ev.Timestamp
		fmt.Println("\nSimulation started...")
	case life.ChangeExtinct:
		fmt.Printf("\n%s at generation %v\n", aurora.Red("All cells died out"), ev.Stats.Generation)
	case life.ChangeStopped:
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		fmt.Println("\nFinished:")
		fmt.Printf("  Last generation: %v\n", ev.Stats.Generation)
		fmt.Printf("  Live cells: %v\n", ev.Stats.AliveCells)
		fmt.Printf("  Density: %.3f\n", ev.Stats.Density)
		fmt.Printf("  Total time: %v\n", totalTime)
	}
}
