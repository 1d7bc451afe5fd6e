package engine

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/CWRUChielLab/metabolism-sub000/chem"
	"github.com/CWRUChielLab/metabolism-sub000/rng"
	"github.com/CWRUChielLab/metabolism-sub000/world"
)

// diagColumnWidth is the fixed column width of the census and diffusion
// files. Columns are left-aligned, headers are the first row.
const diagColumnWidth = 12

func diagColumn(v interface{}) string {
	return fmt.Sprintf("%-*v", diagColumnWidth, v)
}

// ElementCount pairs an element name with its current population.
type ElementCount struct {
	Name  string
	Count int
}

// CensusRow is one census snapshot: the completed iteration count, every
// non-solvent element's population in registry insertion order, and their
// total.
type CensusRow struct {
	Iter   uint64
	Counts []ElementCount
	Total  int
}

// TakeCensus returns the current census row without writing anything. The
// census file is this row rendered in fixed-width columns.
func (e *Engine) TakeCensus() CensusRow {
	row := CensusRow{Iter: e.currentIter}
	for _, el := range nonSolventElements(e.chemistry.Registry) {
		row.Counts = append(row.Counts, ElementCount{Name: el.Name, Count: el.Count})
		row.Total += el.Count
	}
	return row
}

// openDiagnosticStreams opens the three mandatory diagnostic streams named
// by cfg (each a no-op if its path is empty) and writes the streams whose
// content is fixed at construction time: the config echo and the rand file.
// Diagnostic writes are best-effort: a failure is logged, never fatal,
// per the engine's error handling design.
func (e *Engine) openDiagnosticStreams() error {
	if e.cfg.ConfigFile != "" {
		if err := e.writeConfigEcho(); err != nil {
			e.log.WithError(err).Warn("writing config echo")
		}
	}
	if e.cfg.RandFile != "" {
		if err := e.writeRandFile(); err != nil {
			e.log.WithError(err).Warn("writing rand file")
		}
	}
	if e.cfg.CensusFile != "" {
		f, err := os.Create(e.cfg.CensusFile)
		if err != nil {
			e.log.WithError(err).Warn("opening census file")
		} else {
			e.censusWriter = f
		}
	}
	if e.cfg.DiffusionFile != "" {
		f, err := os.Create(e.cfg.DiffusionFile)
		if err != nil {
			e.log.WithError(err).Warn("opening diffusion file")
		} else {
			e.diffusionWriter = f
		}
	}
	return nil
}

// writeConfigEcho writes every parameter, every non-solvent element, and
// every reaction in canonical form. The chemistry portion uses
// chem.WriteChemistry, so the echoed declarations are loadable as-is.
func (e *Engine) writeConfigEcho() error {
	f, err := os.Create(e.cfg.ConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "seed %d\n", e.seed)
	fmt.Fprintf(w, "max_iters %d\n", e.cfg.MaxIters)
	fmt.Fprintf(w, "world_x %d\n", e.cfg.WorldX)
	fmt.Fprintf(w, "world_y %d\n", e.cfg.WorldY)
	fmt.Fprintf(w, "atom_count %d\n", e.cfg.AtomCount)
	fmt.Fprintf(w, "do_reactions %t\n", e.cfg.DoReactions)
	fmt.Fprintf(w, "do_shuffle %t\n", e.cfg.DoShuffle)
	fmt.Fprintf(w, "census_interval %d\n", e.cfg.CensusInterval)
	fmt.Fprintf(w, "rng_id %s\n", rng.Identification())

	if err := chem.WriteChemistry(w, e.chemistry); err != nil {
		return err
	}
	fmt.Fprintf(w, "chemistry_fingerprint %s\n", chemistryFingerprint(e.chemistry))
	return w.Flush()
}

// writeRandFile dumps the first 10 words of the first RNG fill (captured at
// seedInitialAtoms), one decimal integer per line, for RNG verification.
func (e *Engine) writeRandFile() error {
	f, err := os.Create(e.cfg.RandFile)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, word := range e.firstFillWords {
		fmt.Fprintln(w, strconv.FormatUint(word, 10))
	}
	return w.Flush()
}

// writeCensusRow appends "iter, count(e1), count(e2), …, total" in
// element-insertion order (solvent excluded, since it has no tracked
// count), writing the header as the first row.
func (e *Engine) writeCensusRow() {
	if e.censusWriter == nil {
		return
	}

	row := e.TakeCensus()
	if !e.censusHeader {
		cols := []string{diagColumn("iter")}
		for _, c := range row.Counts {
			cols = append(cols, diagColumn(c.Name))
		}
		cols = append(cols, diagColumn("total"))
		if _, err := fmt.Fprintln(e.censusWriter, joinColumns(cols)); err != nil {
			e.log.WithError(err).Warn("writing census header")
		}
		e.censusHeader = true
	}

	cols := []string{diagColumn(row.Iter)}
	for _, c := range row.Counts {
		cols = append(cols, diagColumn(c.Count))
	}
	cols = append(cols, diagColumn(row.Total))
	if _, err := fmt.Fprintln(e.censusWriter, joinColumns(cols)); err != nil {
		e.log.WithError(err).Warn("writing census row")
	}
}

// writeDiffusionDump writes one row per remaining atom: type, dx_actual,
// dy_actual, dx_ideal, dy_ideal, collisions.
func (e *Engine) writeDiffusionDump() {
	if e.diffusionWriter == nil {
		return
	}

	header := joinColumns([]string{
		diagColumn("type"), diagColumn("dx_actual"), diagColumn("dy_actual"),
		diagColumn("dx_ideal"), diagColumn("dy_ideal"), diagColumn("collisions"),
	})
	if _, err := fmt.Fprintln(e.diffusionWriter, header); err != nil {
		e.log.WithError(err).Warn("writing diffusion header")
	}

	e.world.Occupied(func(x, y int, a *world.Atom) bool {
		row := joinColumns([]string{
			diagColumn(a.Type.Name), diagColumn(a.DxActual), diagColumn(a.DyActual),
			diagColumn(a.DxIdeal), diagColumn(a.DyIdeal), diagColumn(a.Collisions),
		})
		if _, err := fmt.Fprintln(e.diffusionWriter, row); err != nil {
			e.log.WithError(err).Warn("writing diffusion row")
		}
		return true
	})
}

func nonSolventElements(reg *chem.Registry) []*chem.Element {
	var out []*chem.Element
	reg.Iterate(func(el *chem.Element) bool {
		if el.Name != chem.SolventName {
			out = append(out, el)
		}
		return true
	})
	return out
}

func joinColumns(cols []string) string {
	s := ""
	for _, c := range cols {
		s += c
	}
	return s
}
