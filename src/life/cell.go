package life

// Cell is the smallest unit of the simulation: the current alive flag and
// the pending next-generation flag used by the two-phase update.
// Cells are owned by the Grid that allocated them; Grid.Clone deep-copies
// every cell.
type Cell struct {
	alive bool
	next  bool
}

// Alive reports whether the cell is alive in the current generation.
func (c Cell) Alive() bool {
	return c.alive
}
