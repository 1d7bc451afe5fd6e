package diagnostics

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/CWRUChielLab/metabolism-sub000/engine"
)

// WriteReport writes a one-page PDF run summary (config, final census row,
// and chemistry fingerprint) at finalize() (--report_file), best-effort.
func WriteReport(w io.Writer, e *engine.Engine) {
	bestEffort(e.Logger(), "pdf report", func() error {
		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.AddPage()

		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 10, "Metabolism run report", "", 1, "L", false, 0, "")

		cfg := e.Config()
		wX, wY := e.WorldSize()
		pdf.SetFont("Arial", "", 11)
		lines := []string{
			fmt.Sprintf("seed: %d", e.Seed()),
			fmt.Sprintf("world: %d x %d", wX, wY),
			fmt.Sprintf("max_iters: %d", cfg.MaxIters),
			fmt.Sprintf("current_iter: %d", e.CurrentIter()),
			fmt.Sprintf("do_reactions: %t  do_shuffle: %t", cfg.DoReactions, cfg.DoShuffle),
			fmt.Sprintf("chemistry_fingerprint: %s", e.ChemistryFingerprint()),
		}
		row := e.TakeCensus()
		census := fmt.Sprintf("census at iter %d:", row.Iter)
		for _, c := range row.Counts {
			census += fmt.Sprintf(" %s %d", c.Name, c.Count)
		}
		lines = append(lines, census+fmt.Sprintf(" total %d", row.Total))
		for _, line := range lines {
			pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
		}

		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 7, "Chemistry", "", 1, "L", false, 0, "")
		pdf.SetFont("Courier", "", 9)
		for _, line := range splitLines(e.FormatElements() + e.FormatReactions()) {
			pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
		}

		return pdf.Output(w)
	})
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
