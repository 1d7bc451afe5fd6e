package chem

// Reaction is a declared rewrite rule over a reactant multiset, with up to
// two probability-weighted product alternatives.
type Reaction struct {
	Key       uint64
	Reactants []*Element

	FirstProducts []*Element
	FirstProb     float64

	SecondProducts []*Element
	SecondProb     float64
}

// Order reports whether this is a first-order (self) or second-order
// (two-reactant) reaction.
func (r *Reaction) Order() int {
	return len(r.Reactants)
}

// ReactionTable maps a reactant-key (product of reactant prime keys) to its
// reaction record.
type ReactionTable struct {
	byKey map[uint64]*Reaction
}

// NewReactionTable returns an empty reaction table.
func NewReactionTable() *ReactionTable {
	return &ReactionTable{byKey: make(map[uint64]*Reaction)}
}

// ReactantKey computes the reactant-key for a reactant multiset: the
// product of the reactants' prime keys.
func ReactantKey(reactants []*Element) uint64 {
	key := uint64(1)
	for _, e := range reactants {
		key *= e.Key
	}
	return key
}

// Add declares a reaction. If no reaction shares this reactant multiset's
// key, it becomes the first alternative. If one does and its second
// alternative is empty, this declaration fills it. If both alternatives are
// already populated, Add fails with a LoadError wrapping ErrDuplicateReaction.
func (t *ReactionTable) Add(reactants, products []*Element, prob float64) (*Reaction, error) {
	if len(reactants) != 1 && len(reactants) != 2 {
		return nil, loadErrorf("add reaction", "reactant multiset must have size 1 or 2, got %d", len(reactants))
	}
	key := ReactantKey(reactants)

	if existing, ok := t.byKey[key]; ok {
		if existing.SecondProducts != nil {
			return nil, loadErrorf("add reaction", "reactant key %d: %w", key, ErrDuplicateReaction)
		}
		existing.SecondProducts = products
		existing.SecondProb = prob
		return existing, nil
	}

	r := &Reaction{
		Key:           key,
		Reactants:     reactants,
		FirstProducts: products,
		FirstProb:     prob,
	}
	t.byKey[key] = r
	return r, nil
}

// Lookup returns the reaction registered under key, or nil.
func (t *ReactionTable) Lookup(key uint64) *Reaction {
	return t.byKey[key]
}

// Reactions returns every declared reaction, in no particular order
// (callers that need canonical ordering should sort by Key).
func (t *ReactionTable) Reactions() []*Reaction {
	out := make([]*Reaction, 0, len(t.byKey))
	for _, r := range t.byKey {
		out = append(out, r)
	}
	return out
}

// PadWithSolvent equalizes the length of reactants and products by
// appending solvent until both sides match, per the loader grammar's
// stoichiometric padding rule.
func PadWithSolvent(reactants, products []*Element, solvent *Element) (paddedReactants, paddedProducts []*Element) {
	paddedReactants = append([]*Element(nil), reactants...)
	paddedProducts = append([]*Element(nil), products...)
	for len(paddedReactants) < len(paddedProducts) {
		paddedReactants = append(paddedReactants, solvent)
	}
	for len(paddedProducts) < len(paddedReactants) {
		paddedProducts = append(paddedProducts, solvent)
	}
	return paddedReactants, paddedProducts
}
