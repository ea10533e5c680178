package main

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/integrii/flaggy"

	"github.com/imasharc/GameOfLife/src/life"
	"github.com/imasharc/GameOfLife/src/view"
)

type envOptions struct {
	interactive    bool
	rules          string
	density        float64
	seed           int64
	maxGenerations int
}

func main() {
	eo, uo := initOptions()

	engine, err := life.NewEngine(uo)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if eo.rules != "" {
		rules, err := life.ParseRules(eo.rules)
		if err != nil {
			slog.Error("invalid rules", "notation", eo.rules, "error", err)
			os.Exit(1)
		}
		if err := engine.SetRules(rules); err != nil {
			slog.Error("failed to apply rules", "error", err)
			os.Exit(1)
		}
	}

	if eo.seed != 0 {
		err = engine.RandomizeGridSeeded(eo.density, eo.seed)
	} else {
		err = engine.RandomizeGrid(eo.density)
	}
	if err != nil {
		slog.Error("failed to randomize grid", "density", eo.density, "error", err)
		os.Exit(1)
	}

	if eo.interactive {
		ui := view.NewConsoleUI(engine)
		ui.Start()
		return
	}

	runHeadless(engine, eo.maxGenerations)
}

// runHeadless runs the simulation until the generation limit or
// extinction, reporting progress on stdout.
func runHeadless(engine *life.Engine, maxGenerations int) {
	out := view.NewConsoleOut(10)
	out.Register(engine)

	finished := make(chan struct{})
	var once sync.Once
	stop := func() { once.Do(func() { close(finished) }) }

	engine.OnGeneration(func(ev life.GenerationEvent) {
		if maxGenerations > 0 && ev.Generation >= maxGenerations {
			stop()
		}
	})
	engine.OnStateChange(func(ev life.StateChangeEvent) {
		if ev.Change == life.ChangeExtinct {
			stop()
		}
	})

	// Start blocks the caller until the loop exits, so the stop request
	// comes from a separate goroutine once a finish condition fires.
	go func() {
		<-finished
		if err := engine.Stop(); err != nil {
			slog.Error("failed to stop engine", "error", err)
		}
	}()

	if err := engine.Start(); err != nil {
		slog.Error("failed to start engine", "error", err)
		os.Exit(1)
	}
}

func initOptions() (*envOptions, *life.Options) {
	uo := life.DefaultOptions
	eo := &envOptions{
		density:        0.3,
		maxGenerations: 1000,
	}
	intervalMs := int(uo.Interval / time.Millisecond)

	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&uo.Width, "x", "width", "Width of the grid in cells")
	flaggy.Int(&uo.Height, "y", "height", "Height of the grid in cells")
	flaggy.Int(&intervalMs, "i", "interval", "Interval between generations in milliseconds")
	flaggy.String(&eo.rules, "b", "rules", "Birth/survival rules in B<digits>/S<digits> notation, for example B3/S23")
	flaggy.Float64(&eo.density, "d", "density", "Probability of each cell starting alive, in [0,1]")
	flaggy.Int64(&eo.seed, "", "seed", "Seed for reproducible grid randomization (0 uses a random seed)")
	flaggy.Int(&eo.maxGenerations, "g", "generations", "Stop after this many generations (0 runs until extinction)")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")

	flaggy.Parse()

	uo.Interval = time.Duration(intervalMs) * time.Millisecond
	return eo, &uo
}
