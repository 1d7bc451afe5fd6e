package diagnostics_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/CWRUChielLab/metabolism-sub000/diagnostics"
	"github.com/CWRUChielLab/metabolism-sub000/engine"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.SetSeed(1)
	cfg.WorldX, cfg.WorldY = 4, 4
	cfg.AtomCount = 6
	e, err := engine.New(cfg)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return e
}

func TestOccupancyShapeMatchesWorld(t *testing.T) {
	e := newTestEngine(t)
	grid := diagnostics.Occupancy(e)
	w, h := e.WorldSize()
	if got := grid.Shape[0]; got != h {
		t.Fatalf("occupancy rows = %d, want %d", got, h)
	}
	if got := grid.Shape[1]; got != w {
		t.Fatalf("occupancy cols = %d, want %d", got, w)
	}
}

func TestComputeSummaryCoversEveryPlacedElement(t *testing.T) {
	e := newTestEngine(t)
	summary := diagnostics.Compute(e)
	if len(summary.PerElement) == 0 {
		t.Fatal("expected at least one element in the summary")
	}
	listed := map[string]bool{}
	for _, es := range summary.PerElement {
		if es.Name == "" {
			t.Fatal("element stats with empty name")
		}
		listed[es.Name] = true
	}
	for _, el := range e.PeriodicTable().Elements() {
		if el.Count > 0 && !listed[el.Name] {
			t.Fatalf("element %q has %d atoms but no summary entry", el.Name, el.Count)
		}
	}
}

func TestWriteSummaryEmitsPopulationMSDFooter(t *testing.T) {
	e := newTestEngine(t)
	var buf bytes.Buffer
	diagnostics.WriteSummary(&buf, e)
	if !strings.Contains(buf.String(), "population msd") {
		t.Fatalf("summary footer missing population msd line:\n%s", buf.String())
	}
}

func TestWriteConfigJSONProducesNonEmptyOutput(t *testing.T) {
	e := newTestEngine(t)
	var buf bytes.Buffer
	diagnostics.WriteConfigJSON(&buf, e)
	if buf.Len() == 0 {
		t.Fatal("expected non-empty JSON output")
	}
}

func TestWriteHeatmapSnapshotProducesNonEmptyOutput(t *testing.T) {
	e := newTestEngine(t)
	var buf bytes.Buffer
	diagnostics.WriteHeatmapSnapshot(&buf, e)
	if buf.Len() == 0 {
		t.Fatal("expected non-empty gob output")
	}
}
