package chem

import (
	"errors"
	"strings"
	"testing"

	fuzz "github.com/google/gofuzz"
)

func TestLoadEmptyStreamInstallsDefault(t *testing.T) {
	c, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Load(empty): %v", err)
	}
	if c.Registry.LookupByName("A") == nil {
		t.Fatal("default chemistry missing element A")
	}
	if len(c.InitMix) != 2 {
		t.Fatalf("default init mix has %d elements, want 2", len(c.InitMix))
	}
}

func TestLoadBasicDeclaration(t *testing.T) {
	src := strings.Join([]string{
		"ele A a red 0",
		"ele B b blue 0",
		"ele C c green 0",
		"rxn 0.5 A + B -> C",
		"init 2 A B",
	}, "\n")

	c, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	a := c.Registry.LookupByName("A")
	b := c.Registry.LookupByName("B")
	if a == nil || b == nil {
		t.Fatal("elements A/B not registered")
	}
	rxn := c.Reactions.Lookup(ReactantKey([]*Element{a, b}))
	if rxn == nil {
		t.Fatal("reaction A+B not found")
	}
	if rxn.FirstProb != 0.5 {
		t.Fatalf("FirstProb = %v, want 0.5", rxn.FirstProb)
	}
	if len(c.InitMix) != 2 {
		t.Fatalf("InitMix has %d elements, want 2", len(c.InitMix))
	}
}

func TestLoadStoichiometricCoefficients(t *testing.T) {
	src := strings.Join([]string{
		"ele A a red 0",
		"ele B b blue 0",
		"rxn 1 2 A -> 1 B",
	}, "\n")
	c, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	a := c.Registry.LookupByName("A")
	rxn := c.Reactions.Lookup(a.Key * a.Key)
	if rxn == nil {
		t.Fatal("reaction 2A->B not found under key A*A")
	}
	if len(rxn.Reactants) != 2 {
		t.Fatalf("reactants = %v, want 2 copies of A", rxn.Reactants)
	}
}

func TestLoadUnknownSpeciesIsFatal(t *testing.T) {
	src := "rxn 0.5 A + B -> C\n"
	if _, err := Load(strings.NewReader(src)); err == nil {
		t.Fatal("expected a LoadError for an unknown species")
	} else {
		var le *LoadError
		if !errors.As(err, &le) {
			t.Fatalf("error %v is not a *LoadError", err)
		}
	}
}

func TestLoadDuplicateInitRecordIsFatal(t *testing.T) {
	src := strings.Join([]string{
		"ele A a red 0",
		"init 1 A",
		"init 1 A",
	}, "\n")
	if _, err := Load(strings.NewReader(src)); err == nil {
		t.Fatal("expected a LoadError for a second init record")
	}
}

func TestLoadDuplicateReactionBothAlternativesIsFatal(t *testing.T) {
	src := strings.Join([]string{
		"ele A a red 0",
		"ele B b blue 0",
		"ele C c green 0",
		"rxn 0.1 A -> B",
		"rxn 0.2 A -> C",
		"rxn 0.3 A -> B",
	}, "\n")
	if _, err := Load(strings.NewReader(src)); !errors.Is(err, ErrDuplicateReaction) {
		t.Fatalf("expected ErrDuplicateReaction, got %v", err)
	}
}

func TestWriteChemistryRoundTrip(t *testing.T) {
	original, err := DefaultChemistry()
	if err != nil {
		t.Fatal(err)
	}
	var buf strings.Builder
	if err := WriteChemistry(&buf, original); err != nil {
		t.Fatalf("WriteChemistry: %v", err)
	}

	reloaded, err := Load(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("Load(written config): %v\n%s", err, buf.String())
	}

	var originalNames, reloadedNames []string
	original.Registry.Iterate(func(e *Element) bool { originalNames = append(originalNames, e.Name); return true })
	reloaded.Registry.Iterate(func(e *Element) bool { reloadedNames = append(reloadedNames, e.Name); return true })
	if len(originalNames) != len(reloadedNames) {
		t.Fatalf("element count mismatch: %v vs %v", originalNames, reloadedNames)
	}
	for i := range originalNames {
		if originalNames[i] != reloadedNames[i] {
			t.Fatalf("element order mismatch at %d: %q vs %q", i, originalNames[i], reloadedNames[i])
		}
	}

	if len(original.Reactions.Reactions()) != len(reloaded.Reactions.Reactions()) {
		t.Fatal("reaction count mismatch after round-trip")
	}
}

// TestLoadFuzzNeverPanics feeds random byte strings to the loader grammar
// and requires that malformed input always surfaces as a *LoadError, never
// a panic, per the engine's error handling design.
func TestLoadFuzzNeverPanics(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(0, 8)
	for i := 0; i < 200; i++ {
		var s string
		f.Fuzz(&s)

		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Load panicked on fuzzed input %q: %v", s, r)
				}
			}()
			if _, err := Load(strings.NewReader(s)); err != nil {
				var le *LoadError
				if !errors.As(err, &le) {
					t.Fatalf("Load returned a non-LoadError %v for input %q", err, s)
				}
			}
		}()
	}
}
