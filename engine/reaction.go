package engine

import (
	"github.com/CWRUChielLab/metabolism-sub000/chem"
	"github.com/CWRUChielLab/metabolism-sub000/world"
)

// probDivisor is 2^61: the probability sample is the RNG word shifted right
// by 3, divided by 2^(64-3). The same shifted value selects the reaction
// mode and product alternative; the bit reuse is intentional.
const probDivisor = float64(uint64(1) << 61)

// reactionAttempt is one cell's fully-derived candidate reaction, recomputed
// identically in the claim and commit passes rather than cached between
// them.
type reactionAttempt struct {
	fires       bool
	order       int // 1 or 2
	selfIdx     int
	neighborIdx int // only meaningful when order == 2
	products    []*chem.Element
}

// evaluateReaction derives the reaction candidate for cell (x,y) from its
// already-filled RNG word. Absent cells (no atom) are treated as solvent
// inline rather than allocating a transient pseudo-atom.
func (e *Engine) evaluateReaction(x, y int) reactionAttempt {
	w := e.world
	reg := e.chemistry.Registry
	solvent := reg.Solvent()

	selfIdx := w.Index(x, y)
	shifted := e.randBuf[selfIdx] >> 3
	mode := int(shifted % 5)
	altBit := shifted % 2
	probSample := float64(shifted) / probDivisor

	selfType := solvent
	if a := w.AtIndex(selfIdx); a != nil {
		selfType = a.Type
	}

	var key uint64
	var neighborIdx int
	order := 1
	if mode == 0 {
		key = selfType.Key
		neighborIdx = selfIdx
	} else {
		nx, ny := x+neighbordx[mode], y+neighbordy[mode]
		neighborIdx = w.Index(nx, ny)
		neighborType := solvent
		if a := w.AtIndex(neighborIdx); a != nil {
			neighborType = a.Type
		}
		key = selfType.Key * neighborType.Key
		order = 2
	}

	rxn := e.chemistry.Reactions.Lookup(key)
	if rxn == nil {
		return reactionAttempt{}
	}

	products, prob := rxn.FirstProducts, rxn.FirstProb
	if altBit == 1 {
		products, prob = rxn.SecondProducts, rxn.SecondProb
	}
	if products == nil {
		return reactionAttempt{}
	}

	return reactionAttempt{
		fires:       probSample < prob,
		order:       order,
		selfIdx:     selfIdx,
		neighborIdx: neighborIdx,
		products:    products,
	}
}

// executeReactions is the two-pass claim/commit reaction sweep. A cell
// commits only when every participating cell still holds exactly one claim,
// so each cell takes part in at most one reaction per iteration.
func (e *Engine) executeReactions() {
	w := e.world
	w.ResetClaimed()

	for y := 0; y < w.H; y++ {
		for x := 0; x < w.W; x++ {
			att := e.evaluateReaction(x, y)
			if !att.fires {
				continue
			}
			w.Claimed[att.selfIdx]++
			if att.order == 2 {
				w.Claimed[att.neighborIdx]++
			}
		}
	}

	for y := 0; y < w.H; y++ {
		for x := 0; x < w.W; x++ {
			idx := w.Index(x, y)
			if w.Claimed[idx] != 1 {
				continue
			}
			att := e.evaluateReaction(x, y)
			if !att.fires {
				w.Claimed[idx] = 0
				continue
			}
			if att.order == 2 && w.Claimed[att.neighborIdx] != 1 {
				w.Claimed[idx] = 0
				continue
			}

			e.applyProduct(att.selfIdx, att.products[0])
			w.Claimed[att.selfIdx] = 0
			if att.order == 2 {
				e.applyProduct(att.neighborIdx, att.products[1])
				w.Claimed[att.neighborIdx] = 0
			}
		}
	}
}

// applyProduct overwrites the element type occupying idx, creating or
// freeing the atom there as needed, and keeps element.Count consistent.
func (e *Engine) applyProduct(idx int, newType *chem.Element) {
	w := e.world
	solvent := e.chemistry.Registry.Solvent()
	existing := w.AtIndex(idx)

	if newType == solvent {
		if existing != nil {
			existing.Type.Count--
			w.ClearIndex(idx)
		}
		return
	}

	if existing == nil {
		a := &world.Atom{Type: newType, X: idx % w.W, Y: idx / w.W}
		w.SetIndex(idx, a)
		newType.Count++
		return
	}

	existing.Type.Count--
	existing.Type = newType
	newType.Count++
}
