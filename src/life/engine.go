package life

import (
	"context"
	"sync"
	"time"
)

// RunState is the engine's run state at a concrete moment.
type RunState int

const (
	// StateStopped means no tick loop is alive. Initial and terminal state.
	StateStopped RunState = iota
	// StateRunning means the tick loop is alive and actively ticking.
	StateRunning
	// StatePaused means the tick loop is alive but idling.
	StatePaused
)

func (s RunState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Options represents the engine's configurable options.
type Options struct {
	Width    int
	Height   int
	Interval time.Duration
}

// DefaultOptions are used when NewEngine receives nil options.
var DefaultOptions = Options{
	Width:    40,
	Height:   20,
	Interval: 500 * time.Millisecond,
}

// pausePollInterval bounds how long a paused loop takes to observe a
// cancellation or resume request.
const pausePollInterval = 25 * time.Millisecond

// Engine orchestrates a Grid and a RuleSet through a stopped/running/paused
// state machine and a cancellable timed tick loop. It owns the only mutable
// references to its grid and rules; observers receive independent clones
// and derived snapshots, never the live instances.
//
// All operations are safe to call concurrently with the loop. Listeners
// are invoked synchronously in registration order from the goroutine that
// triggered the tick or transition; they must not call back into the
// engine's operations.
type Engine struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	grid       *Grid
	rules      *RuleSet
	generation int
	interval   time.Duration
	state      RunState

	cancel context.CancelFunc
	done   chan struct{}
	halted chan struct{}

	genListeners   []GenerationListener
	stateListeners []StateChangeListener
}

// NewEngine creates a stopped engine with an all-dead grid and Conway's
// default B3/S23 rules. Passing nil options selects DefaultOptions.
func NewEngine(o *Options) (*Engine, error) {
	if o == nil {
		o = &DefaultOptions
	}
	if o.Interval < time.Millisecond {
		return nil, validationErrorf("interval must be at least 1ms, got %v", o.Interval)
	}
	grid, err := NewGrid(o.Width, o.Height)
	if err != nil {
		return nil, err
	}
	return &Engine{
		grid:     grid,
		rules:    DefaultRules(),
		interval: o.Interval,
		state:    StateStopped,
	}, nil
}

// OnGeneration registers a listener for generation events.
func (e *Engine) OnGeneration(l GenerationListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.genListeners = append(e.genListeners, l)
}

// OnStateChange registers a listener for state-change events.
func (e *Engine) OnStateChange(l StateChangeListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stateListeners = append(e.stateListeners, l)
}

// Start launches the tick loop and runs it in the calling goroutine: it
// does not return until the loop terminates via Stop. Callers that need
// non-blocking control invoke it as `go engine.Start()`.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.state != StateStopped {
		st := e.state
		e.mu.Unlock()
		return stateErrorf("cannot start: engine is %s", st)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	e.cancel = cancel
	e.done = done
	e.state = StateRunning
	e.emitStateLocked(ChangeStarted)

	e.run(ctx)
	cancel()
	close(done)
	return nil
}

// Pause suspends ticking without killing the loop.
func (e *Engine) Pause() error {
	e.mu.Lock()
	if e.state != StateRunning {
		st := e.state
		e.mu.Unlock()
		return stateErrorf("cannot pause: engine is %s", st)
	}
	e.state = StatePaused
	e.emitStateLocked(ChangePaused)
	return nil
}

// Resume continues ticking after a Pause (or an extinction-driven pause).
func (e *Engine) Resume() error {
	e.mu.Lock()
	if e.state != StatePaused {
		st := e.state
		e.mu.Unlock()
		return stateErrorf("cannot resume: engine is %s", st)
	}
	e.state = StateRunning
	e.emitStateLocked(ChangeResumed)
	return nil
}

// Stop cancels the loop and waits for it to exit. Once Stop returns no
// further events will be emitted; a Stop that races another Stop waits
// for that teardown to complete before returning. Stopping an already
// stopped engine is a benign no-op.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if e.state == StateStopped {
		halted := e.halted
		e.mu.Unlock()
		if halted != nil {
			// another Stop flipped the state first; wait until it has
			// torn the loop down and delivered the Stopped event
			<-halted
		}
		return nil
	}
	cancel, done := e.cancel, e.done
	halted := make(chan struct{})
	e.halted = halted
	e.state = StateStopped
	e.cancel, e.done = nil, nil
	e.mu.Unlock()

	cancel()
	<-done

	e.mu.Lock()
	e.emitStateLocked(ChangeStopped)
	close(halted)
	return nil
}

// Close releases the engine, stopping the loop if it is still alive.
// Safe to invoke more than once.
func (e *Engine) Close() error {
	return e.Stop()
}

// Reset clears the grid and the generation counter. Only valid while
// stopped.
func (e *Engine) Reset() error {
	e.mu.Lock()
	if e.state != StateStopped {
		st := e.state
		e.mu.Unlock()
		return stateErrorf("cannot reset: engine is %s", st)
	}
	e.grid.Clear()
	e.generation = 0
	e.emitStateLocked(ChangeReset)
	return nil
}

// SetGridSize replaces the grid with a fresh all-dead one and resets the
// generation counter. Only valid while stopped.
func (e *Engine) SetGridSize(width, height int) error {
	e.mu.Lock()
	if e.state != StateStopped {
		st := e.state
		e.mu.Unlock()
		return stateErrorf("cannot change grid: engine is %s", st)
	}
	grid, err := NewGrid(width, height)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.grid = grid
	e.generation = 0
	e.emitStateLocked(ChangeGridChanged)
	return nil
}

// SetRules replaces the rule set. Valid in any state; the engine keeps
// its own clone.
func (e *Engine) SetRules(r *RuleSet) error {
	e.mu.Lock()
	if r == nil {
		e.mu.Unlock()
		return validationErrorf("rules are required")
	}
	e.rules = r.Clone()
	e.emitStateLocked(ChangeRulesChanged)
	return nil
}

// SetSpeed replaces the tick interval. Valid in any state; takes effect
// before the next inter-tick wait.
func (e *Engine) SetSpeed(interval time.Duration) error {
	e.mu.Lock()
	if interval < time.Millisecond {
		e.mu.Unlock()
		return validationErrorf("interval must be at least 1ms, got %v", interval)
	}
	e.interval = interval
	e.emitStateLocked(ChangeSpeedChanged)
	return nil
}

// RandomizeGrid reseeds the grid from a non-reproducible source and
// resets the generation counter. Only valid while stopped.
func (e *Engine) RandomizeGrid(probability float64) error {
	return e.randomizeGrid(func(g *Grid) error { return g.Randomize(probability) })
}

// RandomizeGridSeeded is the deterministic variant of RandomizeGrid.
func (e *Engine) RandomizeGridSeeded(probability float64, seed int64) error {
	return e.randomizeGrid(func(g *Grid) error { return g.RandomizeSeeded(probability, seed) })
}

func (e *Engine) randomizeGrid(fill func(*Grid) error) error {
	e.mu.Lock()
	if e.state != StateStopped {
		st := e.state
		e.mu.Unlock()
		return stateErrorf("cannot randomize grid: engine is %s", st)
	}
	if err := fill(e.grid); err != nil {
		e.mu.Unlock()
		return err
	}
	e.generation = 0
	e.emitStateLocked(ChangeGridChanged)
	return nil
}

// SetCell forces a single cell alive or dead. Valid in any state.
func (e *Engine) SetCell(row, col int, alive bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Set(row, col, alive)
}

// ToggleCell inverts a single cell. Valid in any state.
func (e *Engine) ToggleCell(row, col int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Toggle(row, col)
}

// EvolveOneGeneration runs a single calculate+apply cycle and emits the
// resulting generation event. Valid in any state, including after an
// extinction-driven pause: manual stepping is deliberately
// state-independent.
func (e *Engine) EvolveOneGeneration() error {
	e.mu.Lock()
	if err := e.grid.CalculateNextGeneration(e.rules); err != nil {
		e.mu.Unlock()
		return err
	}
	e.grid.ApplyNextGeneration()
	e.generation++
	e.emitGenerationLocked()
	return nil
}

// Statistics returns a consistent point-in-time snapshot.
func (e *Engine) Statistics() GameStatistics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statsLocked()
}

// Snapshot returns an independent clone of the current grid.
func (e *Engine) Snapshot() *Grid {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Clone()
}

// State returns the current run state.
func (e *Engine) State() RunState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Rules returns an independent clone of the current rule set.
func (e *Engine) Rules() *RuleSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rules.Clone()
}

// run is the tick loop. It exits only when the context is cancelled;
// extinction pauses the loop instead of killing it.
func (e *Engine) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		e.mu.Lock()
		state := e.state
		e.mu.Unlock()

		switch state {
		case StateStopped:
			return
		case StatePaused:
			if !sleepUnlessCancelled(ctx, pausePollInterval) {
				return
			}
		default:
			e.tick(ctx)
			// read the interval after the tick so a SetSpeed issued
			// while the tick ran applies to the wait that follows it
			e.mu.Lock()
			interval := e.interval
			e.mu.Unlock()
			if !sleepUnlessCancelled(ctx, interval) {
				return
			}
		}
	}
}

// tick performs one calculate+apply cycle. It re-checks the run state
// under the lock so a pause or stop requested mid-wait takes effect
// before the next generation is computed.
func (e *Engine) tick(ctx context.Context) {
	e.mu.Lock()
	if e.state != StateRunning || ctx.Err() != nil {
		e.mu.Unlock()
		return
	}
	if err := e.grid.CalculateNextGeneration(e.rules); err != nil {
		e.mu.Unlock()
		return
	}
	e.grid.ApplyNextGeneration()
	e.generation++

	genEv := GenerationEvent{
		Generation: e.generation,
		AliveCells: e.grid.AliveCount(),
		TotalCells: e.grid.TotalCells(),
		Grid:       e.grid.Clone(),
	}
	var extinctEv *StateChangeEvent
	if genEv.AliveCells == 0 {
		e.state = StatePaused
		extinctEv = &StateChangeEvent{
			Change:    ChangeExtinct,
			Stats:     e.statsLocked(),
			Timestamp: time.Now(),
		}
	}
	genListeners := append([]GenerationListener(nil), e.genListeners...)
	stateListeners := append([]StateChangeListener(nil), e.stateListeners...)

	e.notifyMu.Lock()
	e.mu.Unlock()
	for _, l := range genListeners {
		l(genEv)
	}
	if extinctEv != nil {
		for _, l := range stateListeners {
			l(*extinctEv)
		}
	}
	e.notifyMu.Unlock()
}

// emitStateLocked builds a state-change event under e.mu, then releases
// e.mu and delivers it. Acquiring notifyMu before releasing e.mu keeps
// deliveries in the order the transitions occurred.
func (e *Engine) emitStateLocked(change StateChange) {
	ev := StateChangeEvent{
		Change:    change,
		Stats:     e.statsLocked(),
		Timestamp: time.Now(),
	}
	listeners := append([]StateChangeListener(nil), e.stateListeners...)
	e.notifyMu.Lock()
	e.mu.Unlock()
	for _, l := range listeners {
		l(ev)
	}
	e.notifyMu.Unlock()
}

// emitGenerationLocked is the generation-event counterpart of
// emitStateLocked.
func (e *Engine) emitGenerationLocked() {
	ev := GenerationEvent{
		Generation: e.generation,
		AliveCells: e.grid.AliveCount(),
		TotalCells: e.grid.TotalCells(),
		Grid:       e.grid.Clone(),
	}
	listeners := append([]GenerationListener(nil), e.genListeners...)
	e.notifyMu.Lock()
	e.mu.Unlock()
	for _, l := range listeners {
		l(ev)
	}
	e.notifyMu.Unlock()
}

func (e *Engine) statsLocked() GameStatistics {
	total := e.grid.TotalCells()
	alive := e.grid.AliveCount()
	density := 0.0
	if total > 0 {
		density = float64(alive) / float64(total)
	}
	return GameStatistics{
		Generation: e.generation,
		AliveCells: alive,
		TotalCells: total,
		Density:    density,
		Width:      e.grid.Width(),
		Height:     e.grid.Height(),
		Rules:      e.rules.Notation(),
		Interval:   e.interval,
		Running:    e.state != StateStopped,
		Paused:     e.state == StatePaused,
	}
}

// sleepUnlessCancelled waits for d and reports false if the context was
// cancelled first.
func sleepUnlessCancelled(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
