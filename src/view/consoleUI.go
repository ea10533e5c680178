package view

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"github.com/imasharc/GameOfLife/src/life"
)

type keyBinding struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

// ConsoleUI is the interactive terminal front end. It subscribes to the
// engine's notification channels and renders only the event payloads, so
// it never touches the live grid.
type ConsoleUI struct {
	e *life.Engine
	g *gocui.Gui
	k []keyBinding

	liveFiller string
	deadFiller string

	mu         sync.Mutex
	snapshot   *life.Grid
	lastChange string
	lastError  string
}

var stateDescr = map[life.RunState]string{
	life.StateStopped: aurora.Colorize("stopped", aurora.BlueFg).String(),
	life.StateRunning: aurora.Colorize("running", aurora.CyanFg).String(),
	life.StatePaused:  aurora.Colorize("paused", aurora.YellowFg).String(),
}

// NewConsoleUI builds the terminal UI around the given engine.
func NewConsoleUI(e *life.Engine) *ConsoleUI {
	var err error
	t := ConsoleUI{
		e:          e,
		liveFiller: aurora.Green("█").BgBrightGreen().String(),
		deadFiller: "░",
		snapshot:   e.Snapshot(),
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln(err)
	}
	t.g.Mouse = true

	t.k = []keyBinding{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'p', "P", "Pause", t.cmdPause, ""},
		{'u', "U", "Resume", t.cmdResume, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'n', "N", "Next generation", t.cmdStep, ""},
		{'c', "C", "Reset", t.cmdReset, ""},
		{'w', "W", "Randomize", t.cmdRandomize, ""},
		{gocui.MouseLeft, "MOUSE", "Toggle cell", t.cmdMouseClick, "field"},
	}
	t.g.SetManagerFunc(t.layout)
	t.initKeyBindings(t.k)
	t.subscribe()

	return &t
}

func (t *ConsoleUI) initKeyBindings(k []keyBinding) {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			log.Panicln(err)
		}
	}
}

// subscribe wires the UI to both engine notification channels. The
// listeners only stash the payloads and schedule a redraw; gocui invokes
// the redraw from its own loop.
func (t *ConsoleUI) subscribe() {
	t.e.OnGeneration(func(ev life.GenerationEvent) {
		t.mu.Lock()
		t.snapshot = ev.Grid
		t.mu.Unlock()
		t.refresh()
	})
	t.e.OnStateChange(func(ev life.StateChangeEvent) {
		t.mu.Lock()
		t.lastChange = ev.Change.String()
		t.mu.Unlock()
		t.refresh()
	})
}

// Start runs the UI main loop until the user quits, then stops the engine.
func (t *ConsoleUI) Start() {
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
	t.g.Close()
	_ = t.e.Close()
}

func (t *ConsoleUI) refresh() {
	t.renderField()
	t.renderConfiguration()
	t.renderStatus()
}

func (t *ConsoleUI) refreshSnapshot() {
	t.mu.Lock()
	t.snapshot = t.e.Snapshot()
	t.mu.Unlock()
	t.renderField()
}

func (t *ConsoleUI) renderField() {
	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("field")
		if e != nil {
			return e
		}
		v.Clear()

		t.mu.Lock()
		grid := t.snapshot
		t.mu.Unlock()
		if grid == nil {
			return nil
		}

		maxW, maxH := v.Size()
		crop := grid.Width() > maxW || grid.Height() > maxH

		var b bytes.Buffer
		row := -1
		for pos, cell := range grid.Positions() {
			if pos.Row >= maxH {
				break
			}
			if pos.Row != row {
				row = pos.Row
				if row != 0 {
					b.WriteByte('\n')
				}
				if crop && row == maxH-1 {
					b.WriteString(aurora.Red("The grid is larger than the viewing area").BgBlack().String())
					break
				}
			}
			if pos.Col >= maxW {
				continue
			}
			if cell.Alive() {
				b.WriteString(t.liveFiller)
			} else {
				b.WriteString(t.deadFiller)
			}
		}
		_, _ = fmt.Fprint(v, b.String())
		return nil
	})
}

func (t *ConsoleUI) renderStatus() {
	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("status")
		if e != nil {
			return nil
		}
		s := t.e.Statistics()
		t.mu.Lock()
		lastChange, lastError := t.lastChange, t.lastError
		t.mu.Unlock()

		v.Clear()
		_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", s.Generation))
		_, _ = fmt.Fprintln(v, t.renderProp("Alive cells", "%v / %v", s.AliveCells, s.TotalCells))
		_, _ = fmt.Fprintln(v, t.renderProp("Density", "%.3f", s.Density))
		_, _ = fmt.Fprintln(v, t.renderProp("State", "%v", stateDescr[runState(s)]))
		if lastChange != "" {
			_, _ = fmt.Fprintln(v, t.renderProp("Last event", "%v", lastChange))
		}
		if lastError != "" {
			_, _ = fmt.Fprintln(v, t.renderProp("Message", "%v", aurora.Red(lastError)))
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("configuration")
		if e != nil {
			return nil
		}
		s := t.e.Statistics()
		v.Clear()
		_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", s.Width, s.Height))
		_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", s.Interval))
		_, _ = fmt.Fprintln(v, t.renderProp("Rules", "%v", s.Rules))
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueFormat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueFormat, values...)
}

func runState(s life.GameStatistics) life.RunState {
	switch {
	case !s.Running:
		return life.StateStopped
	case s.Paused:
		return life.StatePaused
	default:
		return life.StateRunning
	}
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("field")
		return nil
	}
	if _, err := t.headerLayout(g, 3, "Game of Life"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus()
	}

	if v, err := g.SetView("field", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Field"
		v.Frame = true
		t.renderField()
	} else {
		t.renderField()
	}

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		if maxX < len(text) {
			return v, nil
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", (maxX-len(text))/2)+text)
	}
	return
}

// report records the outcome of a command so illegal transitions show up
// in the status panel instead of being swallowed.
func (t *ConsoleUI) report(err error) {
	t.mu.Lock()
	if err != nil {
		t.lastError = err.Error()
	} else {
		t.lastError = ""
	}
	t.mu.Unlock()
	t.renderStatus()
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	// Start blocks until the loop exits, so it runs in the background.
	go func() {
		if err := t.e.Start(); err != nil {
			t.report(err)
		}
	}()
	return nil
}

func (t *ConsoleUI) cmdPause(_ *gocui.View) error {
	t.report(t.e.Pause())
	return nil
}

func (t *ConsoleUI) cmdResume(_ *gocui.View) error {
	t.report(t.e.Resume())
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.report(t.e.Stop())
	return nil
}

func (t *ConsoleUI) cmdStep(_ *gocui.View) error {
	t.report(t.e.EvolveOneGeneration())
	return nil
}

func (t *ConsoleUI) cmdReset(_ *gocui.View) error {
	err := t.e.Reset()
	if err == nil {
		t.refreshSnapshot()
	}
	t.report(err)
	return nil
}

func (t *ConsoleUI) cmdRandomize(_ *gocui.View) error {
	err := t.e.RandomizeGrid(0.3)
	if err == nil {
		t.refreshSnapshot()
	}
	t.report(err)
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	if err := t.e.ToggleCell(cy, cx); err != nil {
		t.report(err)
		return nil
	}
	t.refreshSnapshot()
	return nil
}
