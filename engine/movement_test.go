package engine

import (
	"testing"

	"github.com/CWRUChielLab/metabolism-sub000/chem"
	"github.com/CWRUChielLab/metabolism-sub000/world"
)

// newBareEngine builds an Engine with a pre-populated world and chemistry,
// bypassing New() so the movement/reaction sweeps can be driven with a
// hand-picked randBuf instead of a live RNG fill.
func newBareEngine(t *testing.T, w, h int) (*Engine, *chem.Registry) {
	t.Helper()
	reg := chem.NewRegistry()
	a, err := reg.Add("A", "A", "", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	rxns := chem.NewReactionTable()
	e := &Engine{
		chemistry: &chem.Chemistry{Registry: reg, Reactions: rxns, InitMix: []*chem.Element{a}},
		world:     world.New(w, h),
		randBuf:   make([]uint64, w*h),
	}
	return e, reg
}

// dirdx/dirdy order N,NE,E,SE,S,SW,W,NW starting at index 0 (engine.go).
const (
	dirE = 2
	dirS = 4
	dirW = 6
)

func TestMoveAtomsWrapsAtOrigin(t *testing.T) {
	e, reg := newBareEngine(t, 4, 4)
	a := &world.Atom{Type: reg.LookupByName("A")}
	e.world.Place(0, 0, a)

	const dirNW = 7 // dirdx[7]=-1, dirdy[7]=-1
	idx := e.world.Index(0, 0)
	e.randBuf[idx] = dirNW

	e.moveAtoms()

	if got := e.world.At(3, 3); got != a {
		t.Fatalf("atom did not wrap to (W-1,H-1); At(3,3)=%v", got)
	}
	if a.X != 3 || a.Y != 3 {
		t.Fatalf("atom recorded position = (%d,%d), want (3,3)", a.X, a.Y)
	}
}

func TestMoveAtomsTwoAtomCollision(t *testing.T) {
	// Atoms at (0,0) and (1,0), both forced East. The trailing atom is
	// blocked by the double claim on (1,0); the leading atom is blocked
	// too, because that same double claim is on its own cell. Neither
	// moves, both count a collision.
	e, reg := newBareEngine(t, 3, 3)
	typ := reg.LookupByName("A")
	first := &world.Atom{Type: typ}
	second := &world.Atom{Type: typ}
	e.world.Place(0, 0, first)
	e.world.Place(1, 0, second)

	for i := range e.randBuf {
		e.randBuf[i] = dirE
	}

	e.moveAtoms()

	if e.world.At(0, 0) != first {
		t.Fatal("first atom should have stayed at (0,0)")
	}
	if first.Collisions != 1 {
		t.Fatalf("first atom collisions = %d, want 1", first.Collisions)
	}
	if e.world.At(1, 0) != second {
		t.Fatal("second atom should have stayed at (1,0)")
	}
	if second.Collisions != 1 {
		t.Fatalf("second atom collisions = %d, want 1", second.Collisions)
	}

	// Sent apart (West and South), every claim count is one and both
	// moves commit; the westward move wraps to (2,0).
	e.randBuf[e.world.Index(0, 0)] = dirW
	e.randBuf[e.world.Index(1, 0)] = dirS
	e.moveAtoms()

	if e.world.At(2, 0) != first {
		t.Fatal("first atom should have wrapped West to (2,0)")
	}
	if e.world.At(1, 1) != second {
		t.Fatal("second atom should have moved South to (1,1)")
	}
	if first.DxActual != -1 || second.DyActual != 1 {
		t.Fatalf("committed displacements wrong: first dx=%d, second dy=%d",
			first.DxActual, second.DyActual)
	}
}

func TestMoveAtomsSingleAtomHasNoCollisions(t *testing.T) {
	e, reg := newBareEngine(t, 16, 16)
	a := &world.Atom{Type: reg.LookupByName("A")}
	e.world.Place(5, 5, a)

	for iter := 0; iter < 50; iter++ {
		for i := range e.randBuf {
			e.randBuf[i] = uint64(iter*7+3) & 7
		}
		e.moveAtoms()
	}

	if a.Collisions != 0 {
		t.Fatalf("lone atom collisions = %d, want 0", a.Collisions)
	}
	if a.DxActual != a.DxIdeal || a.DyActual != a.DyIdeal {
		t.Fatalf("lone atom actual displacement (%d,%d) != ideal (%d,%d)",
			a.DxActual, a.DyActual, a.DxIdeal, a.DyIdeal)
	}
}
