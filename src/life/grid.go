package life

import (
	"crypto/md5"
	"fmt"
	"iter"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Position identifies a single cell by row and column.
type Position struct {
	Row int
	Col int
}

// Grid owns a fixed-size 2D field of cells. Dimensions are fixed at
// construction; all mutation goes through the single-cell setters, the
// bulk operations or the two-phase evolution calls.
type Grid struct {
	width  int
	height int
	cells  [][]Cell
}

// NewGrid allocates a grid with all cells dead. Both dimensions must be
// at least 1.
func NewGrid(width, height int) (*Grid, error) {
	if width < 1 {
		return nil, validationErrorf("width must be >= 1, got %d", width)
	}
	if height < 1 {
		return nil, validationErrorf("height must be >= 1, got %d", height)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  allocCells(width, height),
	}, nil
}

// allocCells lays the rows out over a single backing slice.
func allocCells(width, height int) [][]Cell {
	cells := make([][]Cell, height)
	b := make([]Cell, width*height)
	for i := range cells {
		start := width * i
		cells[i] = b[start : start+width : start+width]
	}
	return cells
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// TotalCells returns width*height.
func (g *Grid) TotalCells() int { return g.width * g.height }

func (g *Grid) checkBounds(row, col int) error {
	if row < 0 || row >= g.height || col < 0 || col >= g.width {
		return boundsErrorf("cell (%d,%d) outside %dx%d grid", row, col, g.width, g.height)
	}
	return nil
}

// CellAt returns a copy of the cell at (row, col).
func (g *Grid) CellAt(row, col int) (Cell, error) {
	if err := g.checkBounds(row, col); err != nil {
		return Cell{}, err
	}
	return g.cells[row][col], nil
}

// Set forces the cell at (row, col) alive or dead.
func (g *Grid) Set(row, col int, alive bool) error {
	if err := g.checkBounds(row, col); err != nil {
		return err
	}
	g.cells[row][col].alive = alive
	return nil
}

// Toggle inverts the alive state of the cell at (row, col).
func (g *Grid) Toggle(row, col int) error {
	if err := g.checkBounds(row, col); err != nil {
		return err
	}
	g.cells[row][col].alive = !g.cells[row][col].alive
	return nil
}

// CountAliveNeighbors counts the live cells among the 8 positions
// surrounding (row, col). Positions outside the grid are skipped; there
// is no wraparound.
func (g *Grid) CountAliveNeighbors(row, col int) (int, error) {
	if err := g.checkBounds(row, col); err != nil {
		return 0, err
	}
	return g.countAliveNeighbors(row, col), nil
}

func (g *Grid) countAliveNeighbors(row, col int) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nr, nc := row+dr, col+dc
			if nr < 0 || nr >= g.height || nc < 0 || nc >= g.width {
				continue
			}
			if g.cells[nr][nc].alive {
				count++
			}
		}
	}
	return count
}

// CalculateNextGeneration is phase 1 of the two-phase update: it stores
// each cell's pending next state without touching the current alive
// flags, so every neighbor count is taken against the same generation.
// Row bands are computed in parallel; workers only read alive flags and
// each writes the pending state of its own rows.
func (g *Grid) CalculateNextGeneration(rules *RuleSet) error {
	if rules == nil {
		return validationErrorf("rules are required")
	}

	var (
		eg          errgroup.Group
		workers     = min(runtime.NumCPU(), g.height)
		rowsPerBand = (g.height + workers - 1) / workers
	)
	for i := 0; i < workers; i++ {
		startRow := i * rowsPerBand
		endRow := min(startRow+rowsPerBand, g.height)
		if startRow >= g.height {
			break
		}
		eg.Go(func() error {
			for row := startRow; row < endRow; row++ {
				for col := 0; col < g.width; col++ {
					cell := &g.cells[row][col]
					next, err := rules.Evaluate(cell.alive, g.countAliveNeighbors(row, col))
					if err != nil {
						return err
					}
					cell.next = next
				}
			}
			return nil
		})
	}
	return eg.Wait()
}

// ApplyNextGeneration is phase 2: it commits every cell's pending state.
// Callers must pair it with a preceding CalculateNextGeneration; applying
// again without a new calculate re-commits the same pending states and
// leaves the grid unchanged.
func (g *Grid) ApplyNextGeneration() {
	for row := range g.cells {
		for col := range g.cells[row] {
			g.cells[row][col].alive = g.cells[row][col].next
		}
	}
}

// Randomize sets each cell alive independently with the given probability
// using a non-reproducible source.
func (g *Grid) Randomize(probability float64) error {
	return g.randomize(probability, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// RandomizeSeeded is the deterministic variant of Randomize: the same
// seed on two grids of equal size yields identical alive patterns.
func (g *Grid) RandomizeSeeded(probability float64, seed int64) error {
	return g.randomize(probability, rand.New(rand.NewPCG(uint64(seed), 0)))
}

func (g *Grid) randomize(probability float64, rng *rand.Rand) error {
	if probability < 0 || probability > 1 {
		return validationErrorf("probability %v out of range [0,1]", probability)
	}
	for row := range g.cells {
		for col := range g.cells[row] {
			g.cells[row][col].alive = rng.Float64() < probability
		}
	}
	return nil
}

// Clear kills every cell and resets the pending states.
func (g *Grid) Clear() {
	for row := range g.cells {
		for col := range g.cells[row] {
			g.cells[row][col] = Cell{}
		}
	}
}

// Clone returns a deep copy with independent cells.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		width:  g.width,
		height: g.height,
		cells:  allocCells(g.width, g.height),
	}
	for row := range g.cells {
		copy(c.cells[row], g.cells[row])
	}
	return c
}

// Equal reports whether both grids have the same dimensions and the same
// alive pattern. Pending next states are ignored.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.width != other.width || g.height != other.height {
		return false
	}
	for row := range g.cells {
		for col := range g.cells[row] {
			if g.cells[row][col].alive != other.cells[row][col].alive {
				return false
			}
		}
	}
	return true
}

// Hash returns an MD5 digest of the alive pattern. Grids that are Equal
// hash identically.
func (g *Grid) Hash() string {
	h := md5.New()
	for row := range g.cells {
		for col := range g.cells[row] {
			if g.cells[row][col].alive {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// AliveCount returns the number of live cells.
func (g *Grid) AliveCount() int {
	count := 0
	for row := range g.cells {
		for col := range g.cells[row] {
			if g.cells[row][col].alive {
				count++
			}
		}
	}
	return count
}

// Cells iterates over all cells in row-major order. The sequence is
// restartable: each range starts again from (0,0).
func (g *Grid) Cells() iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		for row := range g.cells {
			for col := range g.cells[row] {
				if !yield(g.cells[row][col]) {
					return
				}
			}
		}
	}
}

// Positions iterates over all cells in row-major order together with
// their coordinates.
func (g *Grid) Positions() iter.Seq2[Position, Cell] {
	return func(yield func(Position, Cell) bool) {
		for row := range g.cells {
			for col := range g.cells[row] {
				if !yield(Position{Row: row, Col: col}, g.cells[row][col]) {
					return
				}
			}
		}
	}
}
