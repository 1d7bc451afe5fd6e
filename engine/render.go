package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/CWRUChielLab/metabolism-sub000/chem"
)

// Render writes a character-grid view of the world to w: a non-solvent
// cell's symbol, or "." for solvent. A plain read-only dump; anything
// interactive is a consumer's job.
func (e *Engine) Render(w io.Writer) error {
	for y := 0; y < e.world.H; y++ {
		var row strings.Builder
		for x := 0; x < e.world.W; x++ {
			a := e.world.At(x, y)
			if a == nil {
				row.WriteString(".")
				continue
			}
			row.WriteString(a.Type.Symbol)
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	return nil
}

// FormatElements returns the canonical "ele" declaration lines for every
// non-solvent element, one per line.
func (e *Engine) FormatElements() string {
	var b strings.Builder
	e.chemistry.Registry.Iterate(func(el *chem.Element) bool {
		if el.Name == chem.SolventName {
			return true
		}
		fmt.Fprintln(&b, chem.FormatEleLine(el))
		return true
	})
	return b.String()
}

// FormatReactions returns the canonical "rxn" declaration lines for every
// reaction, one per line.
func (e *Engine) FormatReactions() string {
	var b strings.Builder
	for _, r := range e.chemistry.Reactions.Reactions() {
		for _, line := range chem.FormatRxnLines(r) {
			fmt.Fprintln(&b, line)
		}
	}
	return b.String()
}

// WorldSize returns the world's (width, height).
func (e *Engine) WorldSize() (int, int) {
	return e.world.W, e.world.H
}

// Config returns a copy of the engine's construction configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Seed returns the seed the generator was actually constructed with:
// the configured value, or the resolved time-based default.
func (e *Engine) Seed() uint32 {
	return e.seed
}

// ChemistryFingerprint returns the hex digest identifying the engine's
// loaded chemistry (see diagnostics' config echo trailer).
func (e *Engine) ChemistryFingerprint() string {
	return chemistryFingerprint(e.chemistry)
}

// Logger returns the engine's structured logger, for optional diagnostics
// consumers that want to log through the same stream.
func (e *Engine) Logger() *logrus.Logger {
	return e.log
}
