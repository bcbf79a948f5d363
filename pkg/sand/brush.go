package sand

// InsertDisc tries to place a grain on every cell within radius of (cx, cy)
// and returns how many were placed. Cells are visited column by column from
// the left, top to bottom within a column, which fixes the order the
// brightness cursor shades them in.
func (s *Simulation) InsertDisc(cx, cy, radius int) int {
	if radius < 0 {
		return 0
	}
	placed := 0
	r2 := radius * radius
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			if s.TryInsert(cx+dx, cy+dy) {
				placed++
			}
		}
	}
	return placed
}
