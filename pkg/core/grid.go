package core

// Occupancy records which cells of a bounded grid are filled, stored in
// row-major order.
type Occupancy struct {
	W, H  int
	cells []bool
	count int
}

// NewOccupancy allocates an empty index with the given dimensions.
func NewOccupancy(w, h int) *Occupancy {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Occupancy{W: w, H: h, cells: make([]bool, w*h)}
}

// Index returns the linear slice index for coordinates (x, y).
func (o *Occupancy) Index(x, y int) int { return y*o.W + x }

// InBounds reports whether (x, y) lies inside [0,W) x [0,H).
func (o *Occupancy) InBounds(x, y int) bool {
	return x >= 0 && x < o.W && y >= 0 && y < o.H
}

// Occupied reports whether (x, y) is filled. Out-of-bounds cells are never
// occupied.
func (o *Occupancy) Occupied(x, y int) bool {
	if !o.InBounds(x, y) {
		return false
	}
	return o.cells[o.Index(x, y)]
}

// Set marks (x, y) filled or empty. Out-of-bounds writes are ignored.
func (o *Occupancy) Set(x, y int, filled bool) {
	if !o.InBounds(x, y) {
		return
	}
	idx := o.Index(x, y)
	if o.cells[idx] == filled {
		return
	}
	o.cells[idx] = filled
	if filled {
		o.count++
	} else {
		o.count--
	}
}

// Count returns the number of filled cells.
func (o *Occupancy) Count() int { return o.count }

// Clear empties every cell.
func (o *Occupancy) Clear() {
	for i := range o.cells {
		o.cells[i] = false
	}
	o.count = 0
}
