package chem

import (
	"errors"
	"testing"
)

func elems(t *testing.T, r *Registry, names ...string) []*Element {
	t.Helper()
	out := make([]*Element, len(names))
	for i, n := range names {
		e := r.LookupByName(n)
		if e == nil {
			var err error
			e, err = r.Add(n, n, "", 0, 0)
			if err != nil {
				t.Fatalf("Add(%q): %v", n, err)
			}
		}
		out[i] = e
	}
	return out
}

func TestReactionTableFirstAndSecondAlternative(t *testing.T) {
	r := NewRegistry()
	table := NewReactionTable()
	es := elems(t, r, "A", "B", "C", "D")
	a, b, c, d := es[0], es[1], es[2], es[3]

	reactants := []*Element{a, b}
	if _, err := table.Add(reactants, []*Element{c, d}, 0.5); err != nil {
		t.Fatalf("first Add: %v", err)
	}

	key := ReactantKey(reactants)
	rxn := table.Lookup(key)
	if rxn == nil {
		t.Fatal("Lookup found nothing after first Add")
	}
	if rxn.SecondProducts != nil {
		t.Fatal("second alternative populated before any second Add")
	}

	if _, err := table.Add(reactants, []*Element{d, c}, 0.25); err != nil {
		t.Fatalf("second Add: %v", err)
	}
	if rxn.SecondProducts == nil {
		t.Fatal("second alternative not populated after second Add")
	}

	if _, err := table.Add(reactants, []*Element{c, c}, 0.1); !errors.Is(err, ErrDuplicateReaction) {
		t.Fatalf("third Add error = %v, want ErrDuplicateReaction", err)
	}
}

func TestReactionTableLookupMissingKeyReturnsNil(t *testing.T) {
	table := NewReactionTable()
	if table.Lookup(999) != nil {
		t.Fatal("Lookup on an empty table returned a non-nil reaction")
	}
}

func TestPadWithSolvent(t *testing.T) {
	r := NewRegistry()
	a, b, c := elems(t, r, "A", "B", "C")[0], elems(t, r, "B")[0], elems(t, r, "C")[0]
	solvent := r.Solvent()

	reactants, products := PadWithSolvent([]*Element{a}, []*Element{b, c}, solvent)
	if len(reactants) != 2 || reactants[1] != solvent {
		t.Fatalf("reactants not padded: %v", reactants)
	}
	if len(products) != 2 {
		t.Fatalf("products unexpectedly modified: %v", products)
	}

	reactants2, products2 := PadWithSolvent([]*Element{a, b}, []*Element{c}, solvent)
	if len(products2) != 2 || products2[1] != solvent {
		t.Fatalf("products not padded: %v", products2)
	}
	if len(reactants2) != 2 {
		t.Fatalf("reactants unexpectedly modified: %v", reactants2)
	}
}

func TestReactantKeyIsOrderIndependentProduct(t *testing.T) {
	r := NewRegistry()
	a, b := elems(t, r, "A", "B")[0], elems(t, r, "B")[0]
	if ReactantKey([]*Element{a, b}) != ReactantKey([]*Element{b, a}) {
		t.Fatal("ReactantKey should be symmetric since it's a product of primes")
	}
}
