package engine

import "github.com/CWRUChielLab/metabolism-sub000/world"

// moveAtoms is the two-pass claim/commit movement sweep. Each
// occupied cell consumes one RNG word, already filled into e.randBuf by the
// caller, to pick one of eight directions.
func (e *Engine) moveAtoms() {
	w := e.world
	w.ResetClaimed()

	w.Occupied(func(x, y int, a *world.Atom) bool {
		src := w.Index(x, y)
		dir := e.randBuf[src] & 7
		dst := w.Index(x+dirdx[dir], y+dirdy[dir])
		w.Claimed[src]++
		w.Claimed[dst]++
		return true
	})

	w.Occupied(func(x, y int, a *world.Atom) bool {
		src := w.Index(x, y)
		if w.Claimed[src] == 0 {
			return true
		}
		dir := e.randBuf[src] & 7
		dx, dy := dirdx[dir], dirdy[dir]
		dst := w.Index(x+dx, y+dy)

		a.DxIdeal += dx
		a.DyIdeal += dy

		if w.Claimed[src] == 1 && w.Claimed[dst] == 1 {
			w.ClearIndex(src)
			w.SetIndex(dst, a)
			newX, newY := wrapCoord(x+dx, w.W), wrapCoord(y+dy, w.H)
			a.X, a.Y = newX, newY
			a.DxActual += dx
			a.DyActual += dy
			w.Claimed[dst] = 0
			checkInvariant(w.AtIndex(dst) == a && a.X == newX && a.Y == newY,
				"atom at (%d,%d) disagrees with its slot after move", newX, newY)
		} else {
			w.Claimed[src] = 0
			a.Collisions++
		}
		return true
	})
}

func wrapCoord(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}
