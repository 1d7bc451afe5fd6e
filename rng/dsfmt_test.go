package rng

import "testing"

func TestNewDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)

	bufA := make([]uint64, MinArraySizeU64())
	bufB := make([]uint64, MinArraySizeU64())
	a.FillU64(bufA)
	b.FillU64(bufB)

	for i := range bufA {
		if bufA[i] != bufB[i] {
			t.Fatalf("word %d: seed 42 produced different output across instances: %#x vs %#x", i, bufA[i], bufB[i])
		}
	}
}

func TestNewDifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)

	bufA := make([]uint64, MinArraySizeU64())
	bufB := make([]uint64, MinArraySizeU64())
	a.FillU64(bufA)
	b.FillU64(bufB)

	same := true
	for i := range bufA {
		if bufA[i] != bufB[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("seed 1 and seed 2 produced identical output")
	}
}

func TestFillU64OutputInClosedOneOpenTwoRange(t *testing.T) {
	g := New(7)
	buf := make([]uint64, MinArraySizeU64())
	g.FillU64(buf)

	const exponentMask = uint64(0x7ff0000000000000)
	for i, w := range buf {
		exp := w & exponentMask
		if exp != highConst {
			t.Fatalf("word %d: exponent bits %#x, want the fixed [1,2) exponent %#x", i, exp, uint64(highConst))
		}
	}
}

func TestFillU64RequiresEvenMinimumLength(t *testing.T) {
	g := New(1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected FillU64 to panic on a too-small buffer")
		}
	}()
	g.FillU64(make([]uint64, MinArraySizeU64()-2))
}

func TestFillU64LargerThanStateIsConsistentAcrossCalls(t *testing.T) {
	// Two independently-seeded generators asked for the same oversized
	// buffer, in one shot, must agree: this exercises the gen_rand_array
	// path that refills internal state from the tail of a buffer larger
	// than the state itself.
	size := MinArraySizeU64() * 4
	a := New(99)
	b := New(99)

	bufA := make([]uint64, size)
	bufB := make([]uint64, size)
	a.FillU64(bufA)
	b.FillU64(bufB)

	for i := range bufA {
		if bufA[i] != bufB[i] {
			t.Fatalf("word %d diverged for an oversized fill with identical seeds", i)
		}
	}
}

func TestSuccessiveFillsDiffer(t *testing.T) {
	g := New(1234)
	buf1 := make([]uint64, MinArraySizeU64())
	buf2 := make([]uint64, MinArraySizeU64())
	g.FillU64(buf1)
	g.FillU64(buf2)

	same := true
	for i := range buf1 {
		if buf1[i] != buf2[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("two successive fills from the same generator produced identical output")
	}
}

func TestIdentification(t *testing.T) {
	const want = "dSFMT-607:2-33-1-7-24:ffcfeef7fdffffff-fdffffb7ffffffff"
	if got := Identification(); got != want {
		t.Fatalf("Identification() = %q, want %q", got, want)
	}
}

// An all-zero key must still yield a usable stream: the seeding constants
// and the period certification step together guarantee the state is never
// left on a degenerate orbit.
func TestZeroKeyArrayProducesNonDegenerateStream(t *testing.T) {
	g := NewFromKeyArray([]uint32{0, 0, 0, 0})
	buf := make([]uint64, MinArraySizeU64())
	g.FillU64(buf)

	var acc uint64
	for _, w := range buf {
		acc |= w & lowMask
	}
	if acc == 0 {
		t.Fatal("every mantissa in the first fill is zero")
	}
}

func TestNewFromKeyArrayDeterministic(t *testing.T) {
	key := []uint32{1, 2, 3, 4}
	a := NewFromKeyArray(key)
	b := NewFromKeyArray(key)

	bufA := make([]uint64, MinArraySizeU64())
	bufB := make([]uint64, MinArraySizeU64())
	a.FillU64(bufA)
	b.FillU64(bufB)

	for i := range bufA {
		if bufA[i] != bufB[i] {
			t.Fatalf("word %d: NewFromKeyArray with identical keys diverged", i)
		}
	}
}
