// Package engine implements the lattice chemistry simulator's iteration
// loop: construction, the per-iteration claim/commit movement and reaction
// sweeps, and the read-only accessors external consumers (a viewer,
// diagnostics) use between calls.
package engine

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/CWRUChielLab/metabolism-sub000/chem"
	"github.com/CWRUChielLab/metabolism-sub000/internal/hash"
	"github.com/CWRUChielLab/metabolism-sub000/rng"
	"github.com/CWRUChielLab/metabolism-sub000/world"
)

// dirdx/dirdy is the movement engine's fixed 8-direction table, indexed by
// the low 3 bits of a cell's RNG word.
var dirdx = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
var dirdy = [8]int{-1, -1, 0, 1, 1, 1, 0, -1}

// neighbordx/neighbordy is the reaction engine's 5-mode neighbor table
// (mode 0 is first-order, no neighbor).
var neighbordx = [5]int{0, 1, 1, 0, -1}
var neighbordy = [5]int{0, 0, 1, 1, 1}

// Engine owns the world, the element registry, the reaction table, and the
// RNG for its lifetime. It is not safe for concurrent use; iterate() has no
// suspension points and callers may read the world freely between calls.
type Engine struct {
	cfg  Config
	seed uint32
	log  *logrus.Logger

	chemistry *chem.Chemistry
	world     *world.World
	gen       *rng.RNG
	randBuf   []uint64

	currentIter    uint64
	firstFill      bool
	firstFillWords [10]uint64

	censusWriter    io.WriteCloser
	diffusionWriter io.WriteCloser
	censusHeader    bool
}

// New constructs an engine from cfg: validates it, loads the chemistry (from
// cfg.LoadFile, or the built-in default), allocates the world and RNG, and
// seeds the initial atom population via a shuffled placement. ConfigError
// and LoadError are both terminal per the engine's error handling design.
func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	chemistry, err := loadChemistry(cfg.LoadFile)
	if err != nil {
		return nil, err
	}

	seed := cfg.resolvedSeed()
	e := &Engine{
		cfg:       cfg,
		seed:      seed,
		log:       logrus.New(),
		chemistry: chemistry,
		world:     world.New(cfg.WorldX, cfg.WorldY),
		gen:       rng.New(seed),
		firstFill: true,
	}
	e.randBuf = make([]uint64, rngBufferSize(e.world.Cells()))

	if err := e.seedInitialAtoms(); err != nil {
		return nil, err
	}

	if err := e.openDiagnosticStreams(); err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"world_x":               cfg.WorldX,
		"world_y":               cfg.WorldY,
		"atom_count":            cfg.AtomCount,
		"seed":                  seed,
		"rng_id":                rng.Identification(),
		"chemistry_fingerprint": chemistryFingerprint(chemistry),
	}).Info("engine constructed")

	return e, nil
}

// chemistryFingerprint hashes the canonical textual rendering of a
// chemistry (ordered by chem.WriteChemistry, never map order) so two runs
// loading "the same" chemistry can be compared at a glance in the log.
func chemistryFingerprint(c *chem.Chemistry) string {
	var buf bytes.Buffer
	if err := chem.WriteChemistry(&buf, c); err != nil {
		return "unavailable"
	}
	return hash.Fingerprint(buf.String())
}

func loadChemistry(loadFile string) (*chem.Chemistry, error) {
	if loadFile == "" {
		return chem.DefaultChemistry()
	}
	f, err := os.Open(loadFile)
	if err != nil {
		return nil, configErrorf("load_file", "opening %q: %w", loadFile, err)
	}
	defer f.Close()
	return chem.Load(f)
}

func rngBufferSize(cells int) int {
	n := cells
	if n < rng.MinArraySizeU64() {
		n = rng.MinArraySizeU64()
	}
	if n%2 != 0 {
		n++
	}
	return n
}

// seedInitialAtoms performs the construction-time shuffle fill (whose first
// 10 words become the rand_file dump), derives a position permutation from
// it, then draws a second fill to pick each placed atom's initial element
// type.
func (e *Engine) seedInitialAtoms() error {
	e.gen.FillU64(e.randBuf)
	if e.firstFill {
		for i := range e.firstFillWords {
			e.firstFillWords[i] = e.randBuf[i]
		}
		e.firstFill = false
	}

	n := e.world.Cells()
	positions := world.ShufflePositions(n, e.randBuf)

	atomCount := e.cfg.AtomCount
	if atomCount > n {
		atomCount = n
	}
	if atomCount > 0 && len(e.chemistry.InitMix) == 0 {
		return configErrorf("atom_count", "initial element mixture is empty")
	}

	e.gen.FillU64(e.randBuf)
	for i := 0; i < atomCount; i++ {
		elemIdx := int(e.randBuf[i] % uint64(len(e.chemistry.InitMix)))
		elem := e.chemistry.InitMix[elemIdx]
		a := &world.Atom{Type: elem}
		idx := positions[i]
		e.world.Place(idx%e.world.W, idx/e.world.W, a)
		elem.Count++
	}
	return nil
}

// CurrentIter returns the number of completed iterations.
func (e *Engine) CurrentIter() uint64 {
	return e.currentIter
}

// WorldAt returns a read-only view of the atom at (x,y), or nil.
func (e *Engine) WorldAt(x, y int) *world.Atom {
	return e.world.At(x, y)
}

// PeriodicTable returns the element registry.
func (e *Engine) PeriodicTable() *chem.Registry {
	return e.chemistry.Registry
}

// RNGIdentification returns the bulk generator's parameter identification
// string, for cross-implementation verification of the random stream.
func (e *Engine) RNGIdentification() string {
	return rng.Identification()
}

// Iterate runs one iteration: an optional world shuffle, the movement
// sweep, and (if enabled) the reaction sweep. It returns true while
// CurrentIter() < MaxIters.
func (e *Engine) Iterate() bool {
	if e.cfg.DoShuffle {
		e.gen.FillU64(e.randBuf)
		positions := world.ShufflePositions(e.world.Cells(), e.randBuf)
		e.world.Shuffle(positions)
	}

	e.gen.FillU64(e.randBuf)
	e.moveAtoms()
	if e.cfg.DoReactions {
		e.executeReactions()
	}

	e.currentIter++

	if e.currentIter%e.cfg.CensusInterval == 0 {
		e.writeCensusRow()
	}

	return e.currentIter < e.cfg.MaxIters
}

// Finalize writes the final census row and the diffusion dump, and closes
// every open diagnostic stream. Write failures are logged but never
// returned as fatal: diagnostics are best-effort per the engine's error
// handling design.
func (e *Engine) Finalize() error {
	e.writeCensusRow()
	e.writeDiffusionDump()

	var firstErr error
	for _, c := range []io.WriteCloser{e.censusWriter, e.diffusionWriter} {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			e.log.WithError(err).Warn("closing diagnostic stream")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	e.log.WithField("iterations", e.currentIter).Info("engine finalized")
	return firstErr
}

// checkInvariant panics with an InvariantViolation if cond is false. These
// are internal consistency checks on engine-maintained state, never raised
// by user input, and never recovered from.
func checkInvariant(cond bool, what string, args ...interface{}) {
	if !cond {
		panic(&InvariantViolation{What: fmt.Sprintf(what, args...)})
	}
}
