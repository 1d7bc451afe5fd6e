// Command metabolism runs the lattice-based stochastic chemistry simulator.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"golang.org/x/time/rate"

	"github.com/CWRUChielLab/metabolism-sub000/config"
	"github.com/CWRUChielLab/metabolism-sub000/diagnostics"
	"github.com/CWRUChielLab/metabolism-sub000/engine"
)

// version is this module's own release marker.
const version = "0.1.0"

func main() {
	cfg := config.New()

	cfg.RunCmd().RunE = func(cmd *cobra.Command, args []string) error {
		return runSimulation(cfg)
	}
	cfg.VersionCmd().Run = func(cmd *cobra.Command, args []string) {
		fmt.Printf("metabolism v%s\n", version)
	}
	cfg.InspectCmd().RunE = func(cmd *cobra.Command, args []string) error {
		return runInspect(cfg)
	}
	cfg.GendocsCmd().RunE = func(cmd *cobra.Command, args []string) error {
		header := &doc.GenManHeader{Title: "METABOLISM", Section: "1"}
		return doc.GenManTree(cfg.Root, header, args[0])
	}

	cfg.Root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return cfg.ReadConfigFile(cfg.ConfigFileFlag())
	}

	if err := cfg.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runInspect loads the chemistry (built-in default or --load_file) and
// prints its canonical element and reaction declarations, without
// constructing a world or running any iterations.
func runInspect(cfg *config.Cfg) error {
	ec := cfg.EngineConfig()
	ec.WorldX, ec.WorldY = 1, 1
	ec.AtomCount = 0
	ec.MaxIters = 0

	e, err := engine.New(ec)
	if err != nil {
		return err
	}
	fmt.Print(e.FormatElements())
	fmt.Print(e.FormatReactions())
	return nil
}

// runSimulation builds the engine from cfg, runs it to completion at the
// optional --sleep pace, and writes every enabled diagnostic stream.
func runSimulation(cfg *config.Cfg) error {
	ec := cfg.EngineConfig()
	e, err := engine.New(ec)
	if err != nil {
		return err
	}

	sleep, err := cfg.SleepDuration()
	if err != nil {
		return fmt.Errorf("metabolism: invalid --sleep: %w", err)
	}

	ctx := context.Background()
	var limiter *rate.Limiter
	if sleep > 0 {
		limiter = rate.NewLimiter(rate.Every(sleep), 1)
	}

	// The heatmap stream gets one gob-encoded snapshot per census interval,
	// so it is opened for the whole run rather than once at the end.
	var heatmap *os.File
	if path := cfg.GetString("heatmap_file"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			e.Logger().WithError(err).Warnf("opening %q", path)
		} else {
			heatmap = f
			defer heatmap.Close()
		}
	}

	interval := ec.CensusInterval
	for e.Iterate() {
		if heatmap != nil && e.CurrentIter()%interval == 0 {
			diagnostics.WriteHeatmapSnapshot(heatmap, e)
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}
	}
	if heatmap != nil {
		diagnostics.WriteHeatmapSnapshot(heatmap, e)
	}
	if err := e.Finalize(); err != nil {
		e.Logger().WithError(err).Warn("finalize reported an error")
	}

	writeOptionalDiagnostics(cfg, e)

	if cfg.GetBool("print") {
		return e.Render(os.Stdout)
	}
	return nil
}

func writeOptionalDiagnostics(cfg *config.Cfg, e *engine.Engine) {
	// The statistics summary is a footer on the diffusion dump, appended
	// after Finalize has written the per-atom rows and closed the file.
	if path := cfg.GetString("diffusion_file"); path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			e.Logger().WithError(err).Warnf("reopening %q", path)
		} else {
			diagnostics.WriteSummary(f, e)
			f.Close()
		}
	}
	if path := cfg.GetString("config_json_file"); path != "" {
		withCreatedFile(e, path, func(f *os.File) { diagnostics.WriteConfigJSON(f, e) })
	}
	if path := cfg.GetString("xlsx_file"); path != "" {
		withCreatedFile(e, path, func(f *os.File) { diagnostics.WriteXLSX(f, e) })
	}
	if path := cfg.GetString("report_file"); path != "" {
		withCreatedFile(e, path, func(f *os.File) { diagnostics.WriteReport(f, e) })
	}
}

func withCreatedFile(e *engine.Engine, path string, write func(*os.File)) {
	f, err := os.Create(path)
	if err != nil {
		e.Logger().WithError(err).Warnf("opening %q", path)
		return
	}
	defer f.Close()
	write(f)
}
