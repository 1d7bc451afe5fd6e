package world

// ShufflePositions returns a Fisher-Yates permutation of [0,n), consuming
// one RNG word per slot. randWords must have length >= n.
func ShufflePositions(n int, randWords []uint64) []int {
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := int(randWords[i] % uint64(i+1))
		positions[i], positions[j] = positions[j], positions[i]
	}
	return positions
}

// Shuffle relocates every occupied cell to the position named by
// positions[index], the well-mixed approximation: a per-iteration random
// permutation of atom positions applied before the movement sweep.
func (w *World) Shuffle(positions []int) {
	relocated := make([]*Atom, len(w.cells))
	w.Occupied(func(x, y int, a *Atom) bool {
		newIdx := positions[w.Index(x, y)]
		newX, newY := newIdx%w.W, newIdx/w.W
		a.X, a.Y = newX, newY
		relocated[newIdx] = a
		return true
	})
	w.Swap(relocated)
}
