package core

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim is the contract the GUI and TUI front ends drive once per frame.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	// Step advances one frame, which may be zero or more simulation ticks.
	Step()
	// Cells returns a row-major display buffer. 0 is empty; other values
	// index the renderer's palette.
	Cells() []uint8
}
