// Grammar (whitespace-separated, one record per line):
//
//	ele <name> <symbol> <color> <charge>
//	rxn <prob> [<n1>] <name1> [+ [<n2>] <name2>] -> [<m1>] <name1'> [+ [<m2>] <name2'> ...]
//	init <k> <name1> <name2> ... <namek>
package chem

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Chemistry bundles a loaded registry, reaction table, and initial element
// mixture: the complete output of loading one chemistry declaration.
type Chemistry struct {
	Registry  *Registry
	Reactions *ReactionTable
	InitMix   []*Element
}

// DefaultChemistry installs the engine's built-in fallback, used when no
// ele/rxn/init records are loaded: elements A-D, reaction A+B -> C+D at
// probability 0.5, initial mix {A,B}.
func DefaultChemistry() (*Chemistry, error) {
	reg := NewRegistry()
	rxns := NewReactionTable()

	names := []string{"A", "B", "C", "D"}
	elems := make(map[string]*Element, len(names))
	for _, n := range names {
		e, err := reg.Add(n, n, "0", 0, 0)
		if err != nil {
			return nil, err
		}
		elems[n] = e
	}

	reactants := []*Element{elems["A"], elems["B"]}
	products := []*Element{elems["C"], elems["D"]}
	if _, err := rxns.Add(reactants, products, 0.5); err != nil {
		return nil, err
	}

	return &Chemistry{
		Registry:  reg,
		Reactions: rxns,
		InitMix:   []*Element{elems["A"], elems["B"]},
	}, nil
}

// Load parses a chemistry declaration from r. If the stream declares no
// ele/rxn/init records at all, Load returns DefaultChemistry.
func Load(r io.Reader) (*Chemistry, error) {
	reg := NewRegistry()
	rxns := NewReactionTable()
	var initMix []*Element
	var sawInit bool
	var sawAnyRecord bool

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "ele":
			sawAnyRecord = true
			if err := parseEle(reg, fields[1:]); err != nil {
				return nil, lineError(lineNo, err)
			}
		case "rxn":
			sawAnyRecord = true
			if err := parseRxn(reg, rxns, fields[1:]); err != nil {
				return nil, lineError(lineNo, err)
			}
		case "init":
			sawAnyRecord = true
			if sawInit {
				return nil, lineError(lineNo, loadErrorf("load", "only one init record is permitted"))
			}
			mix, err := parseInit(reg, fields[1:])
			if err != nil {
				return nil, lineError(lineNo, err)
			}
			initMix = mix
			sawInit = true
		default:
			// Lines with an unrecognized leading keyword are skipped, so a
			// written config file (parameter lines followed by chemistry
			// declarations) loads directly as a chemistry declaration.
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, loadErrorf("load", "reading chemistry stream: %w", err)
	}

	if !sawAnyRecord {
		return DefaultChemistry()
	}
	return &Chemistry{Registry: reg, Reactions: rxns, InitMix: initMix}, nil
}

func lineError(lineNo int, err error) error {
	return loadErrorf("load", "line %d: %w", lineNo, err)
}

func parseEle(reg *Registry, fields []string) error {
	if len(fields) != 4 {
		return loadErrorf("parse ele", "want 4 fields (name symbol color charge), got %d", len(fields))
	}
	charge, err := strconv.Atoi(fields[3])
	if err != nil {
		return loadErrorf("parse ele", "charge %q: %w", fields[3], err)
	}
	_, err = reg.Add(fields[0], fields[1], fields[2], charge, 0)
	return err
}

func parseRxn(reg *Registry, rxns *ReactionTable, fields []string) error {
	if len(fields) == 0 {
		return loadErrorf("parse rxn", "missing probability")
	}
	prob, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return loadErrorf("parse rxn", "probability %q: %w", fields[0], err)
	}
	rest := fields[1:]

	arrow := -1
	for i, f := range rest {
		if f == "->" {
			arrow = i
			break
		}
	}
	if arrow < 0 {
		return loadErrorf("parse rxn", "missing '->'")
	}

	reactants, err := parseSpeciesList(reg, rest[:arrow])
	if err != nil {
		return err
	}
	if len(reactants) != 1 && len(reactants) != 2 {
		return loadErrorf("parse rxn", "reactant multiset must have size 1 or 2, got %d", len(reactants))
	}
	products, err := parseSpeciesList(reg, rest[arrow+1:])
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return loadErrorf("parse rxn", "missing products")
	}

	reactants, products = PadWithSolvent(reactants, products, reg.Solvent())
	_, err = rxns.Add(reactants, products, prob)
	return err
}

// parseSpeciesList parses a "+"-separated list of [coefficient] name terms.
func parseSpeciesList(reg *Registry, tokens []string) ([]*Element, error) {
	var out []*Element
	i := 0
	for i < len(tokens) {
		count := 1
		if n, err := strconv.Atoi(tokens[i]); err == nil {
			count = n
			i++
		}
		if i >= len(tokens) {
			return nil, loadErrorf("parse rxn", "expected species name after coefficient")
		}
		name := tokens[i]
		i++
		e := reg.LookupByName(name)
		if e == nil {
			return nil, loadErrorf("parse rxn", "unknown species %q", name)
		}
		for k := 0; k < count; k++ {
			out = append(out, e)
		}
		if i < len(tokens) {
			if tokens[i] != "+" {
				return nil, loadErrorf("parse rxn", "expected '+' or end of list, got %q", tokens[i])
			}
			i++
		}
	}
	if len(out) == 0 {
		return nil, loadErrorf("parse rxn", "empty species list")
	}
	return out, nil
}

func parseInit(reg *Registry, fields []string) ([]*Element, error) {
	if len(fields) == 0 {
		return nil, loadErrorf("parse init", "missing count")
	}
	k, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, loadErrorf("parse init", "count %q: %w", fields[0], err)
	}
	names := fields[1:]
	if len(names) != k {
		return nil, loadErrorf("parse init", "declared %d names but found %d", k, len(names))
	}
	mix := make([]*Element, 0, k)
	for _, name := range names {
		e := reg.LookupByName(name)
		if e == nil {
			return nil, loadErrorf("parse init", "unknown species %q", name)
		}
		mix = append(mix, e)
	}
	return mix, nil
}

// FormatEleLine renders an element's canonical "ele" declaration line.
func FormatEleLine(e *Element) string {
	return fmt.Sprintf("ele %s %s %s %d", e.Name, e.Symbol, e.Color, e.Charge)
}

// FormatRxnLines renders a reaction's canonical "rxn" declaration line(s):
// one line for the first alternative, and a second line if a second
// alternative is populated.
func FormatRxnLines(r *Reaction) []string {
	lines := []string{formatRxnLine(r.FirstProb, r.Reactants, r.FirstProducts)}
	if r.SecondProducts != nil {
		lines = append(lines, formatRxnLine(r.SecondProb, r.Reactants, r.SecondProducts))
	}
	return lines
}

func formatRxnLine(prob float64, reactants, products []*Element) string {
	var b strings.Builder
	fmt.Fprintf(&b, "rxn %g %s -> %s", prob, formatSpeciesList(reactants), formatSpeciesList(products))
	return b.String()
}

func formatSpeciesList(species []*Element) string {
	names := make([]string, len(species))
	for i, e := range species {
		names[i] = e.Name
	}
	return strings.Join(names, " + ")
}

// FormatInitLine renders the canonical "init" declaration line.
func FormatInitLine(mix []*Element) string {
	names := make([]string, len(mix))
	for i, e := range mix {
		names[i] = e.Name
	}
	return fmt.Sprintf("init %d %s", len(mix), strings.Join(names, " "))
}

// WriteChemistry writes every non-solvent element, every reaction, and the
// init record in canonical grammar form, for use by both the config echo
// and a round-trip test.
func WriteChemistry(w io.Writer, c *Chemistry) error {
	var err error
	c.Registry.Iterate(func(e *Element) bool {
		if e.Name == SolventName {
			return true
		}
		_, err = fmt.Fprintln(w, FormatEleLine(e))
		return err == nil
	})
	if err != nil {
		return err
	}
	reactions := c.Reactions.Reactions()
	sort.Slice(reactions, func(i, j int) bool { return reactions[i].Key < reactions[j].Key })
	for _, r := range reactions {
		for _, line := range FormatRxnLines(r) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	if c.InitMix != nil {
		if _, err := fmt.Fprintln(w, FormatInitLine(c.InitMix)); err != nil {
			return err
		}
	}
	return nil
}
