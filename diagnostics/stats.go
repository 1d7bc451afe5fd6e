package diagnostics

import (
	"fmt"
	"io"
	"math"

	"github.com/GaryBoone/GoStats/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/CWRUChielLab/metabolism-sub000/engine"
)

// ElementStats is the per-element collision/displacement summary appended
// to the diffusion dump.
type ElementStats struct {
	Name                              string
	MeanCollisions, VarCollisions     float64
	MeanDisplacement, VarDisplacement float64
}

// Summary is the full statistics footer: per-element collision and
// displacement-magnitude mean/variance, plus the population mean squared
// displacement.
type Summary struct {
	PerElement    []ElementStats
	PopulationMSD float64
}

// Compute walks every remaining atom once, grouping by element name, and
// derives the per-element and population summary statistics.
func Compute(e *engine.Engine) Summary {
	collisions := map[string][]float64{}
	displacement := map[string][]float64{}
	var order []string
	var allSquared []float64

	w, h := e.WorldSize()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := e.WorldAt(x, y)
			if a == nil {
				continue
			}
			name := a.Type.Name
			if _, seen := collisions[name]; !seen {
				order = append(order, name)
			}
			mag := math.Hypot(float64(a.DxActual), float64(a.DyActual))
			collisions[name] = append(collisions[name], float64(a.Collisions))
			displacement[name] = append(displacement[name], mag)
			allSquared = append(allSquared, mag*mag)
		}
	}

	summary := Summary{}
	for _, name := range order {
		c := collisions[name]
		d := displacement[name]
		es := ElementStats{Name: name}
		if len(c) > 0 {
			es.MeanCollisions = stats.StatsMean(c)
		}
		if len(c) > 1 {
			es.VarCollisions = stats.StatsSampleVariance(c)
		}
		if len(d) > 0 {
			es.MeanDisplacement = stats.StatsMean(d)
		}
		if len(d) > 1 {
			es.VarDisplacement = stats.StatsSampleVariance(d)
		}
		summary.PerElement = append(summary.PerElement, es)
	}

	if len(allSquared) > 0 {
		summary.PopulationMSD = stat.Mean(allSquared, nil)
	}
	return summary
}

func (s *Summary) format(w io.Writer) error {
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, es := range s.PerElement {
		_, err := fmt.Fprintf(w, "# %s collisions mean %.4f var %.4f displacement mean %.4f var %.4f\n",
			es.Name, es.MeanCollisions, es.VarCollisions, es.MeanDisplacement, es.VarDisplacement)
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "# population msd %.4f\n", s.PopulationMSD)
	return err
}

// WriteSummary computes and appends the statistics footer for e to w,
// intended for the tail of the diffusion dump, after the per-atom rows.
// Best-effort.
func WriteSummary(w io.Writer, e *engine.Engine) {
	summary := Compute(e)
	bestEffort(e.Logger(), "statistics summary", func() error {
		return summary.format(w)
	})
}
