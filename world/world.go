// Package world implements the toroidal lattice: a length-W*H array of
// optional atom references, its wrap-around index arithmetic, and the
// scratch buffer the movement and reaction sweeps share.
package world

import "github.com/CWRUChielLab/metabolism-sub000/chem"

// Atom is an occupied lattice cell: an element type plus the diagnostic
// counters the movement and reaction engines maintain.
type Atom struct {
	Type *chem.Element
	X, Y int

	DxIdeal, DyIdeal   int
	DxActual, DyActual int
	Collisions         int

	// Tracked is an engine-opaque display hint; the engine never reads it.
	Tracked bool
}

// World is the W*H toroidal grid of optional atom references, plus the
// claimed scratch buffer shared by the movement and reaction sweeps.
type World struct {
	W, H int

	cells   []*Atom
	Claimed []byte
}

// New allocates a W*H world, empty of atoms.
func New(w, h int) *World {
	return &World{
		W:       w,
		H:       h,
		cells:   make([]*Atom, w*h),
		Claimed: make([]byte, w*h),
	}
}

// Index returns the toroidal index of (x,y), wrapping both coordinates into
// range via a true modulus (never negative, unlike Go's %).
func (w *World) Index(x, y int) int {
	return wrap(x, w.W) + wrap(y, w.H)*w.W
}

func wrap(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

// At returns the atom at (x,y), or nil if the cell is empty (solvent).
func (w *World) At(x, y int) *Atom {
	return w.cells[w.Index(x, y)]
}

// AtIndex returns the atom at a pre-computed index.
func (w *World) AtIndex(idx int) *Atom {
	return w.cells[idx]
}

// SetIndex places a (possibly nil) atom at a pre-computed index.
func (w *World) SetIndex(idx int, a *Atom) {
	w.cells[idx] = a
}

// Place puts atom a at (x,y), overwriting whatever was there, and updates
// a's recorded coordinates to match.
func (w *World) Place(x, y int, a *Atom) {
	a.X, a.Y = wrap(x, w.W), wrap(y, w.H)
	w.cells[w.Index(x, y)] = a
}

// Clear empties the cell at (x,y).
func (w *World) Clear(x, y int) {
	w.cells[w.Index(x, y)] = nil
}

// ClearIndex empties a pre-computed index.
func (w *World) ClearIndex(idx int) {
	w.cells[idx] = nil
}

// ResetClaimed zeroes the claimed scratch buffer; called at the start of
// every sweep.
func (w *World) ResetClaimed() {
	for i := range w.Claimed {
		w.Claimed[i] = 0
	}
}

// Cells returns the number of cells, W*H.
func (w *World) Cells() int {
	return w.W * w.H
}

// Occupied calls f for every occupied cell in row-major order (y outer, x
// inner), stopping early if f returns false.
func (w *World) Occupied(f func(x, y int, a *Atom) bool) {
	for y := 0; y < w.H; y++ {
		for x := 0; x < w.W; x++ {
			a := w.cells[w.Index(x, y)]
			if a == nil {
				continue
			}
			if !f(x, y, a) {
				return
			}
		}
	}
}

// Swap replaces the entire cell array wholesale, used by the world shuffle
// to install a relocated copy built off to the side. newCells must have the
// same length as the existing cell array.
func (w *World) Swap(newCells []*Atom) {
	w.cells = newCells
}
