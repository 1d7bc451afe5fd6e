package diagnostics

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/CWRUChielLab/metabolism-sub000/engine"
)

// configEcho is the JSON sidecar's shape: the same information as the
// fixed-grammar config echo, for tooling that would rather not parse the
// chemistry grammar.
type configEcho struct {
	Seed           uint32 `json:"seed"`
	MaxIters       uint64 `json:"max_iters"`
	WorldX         int    `json:"world_x"`
	WorldY         int    `json:"world_y"`
	AtomCount      int    `json:"atom_count"`
	DoReactions    bool   `json:"do_reactions"`
	DoShuffle      bool   `json:"do_shuffle"`
	CensusInterval uint64 `json:"census_interval"`

	Elements    string `json:"elements"`
	Reactions   string `json:"reactions"`
	CurrentIter uint64 `json:"current_iter"`

	RNGID                string `json:"rng_id"`
	ChemistryFingerprint string `json:"chemistry_fingerprint"`
}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteConfigJSON writes the JSON config sidecar (--config_json_file),
// best-effort.
func WriteConfigJSON(w io.Writer, e *engine.Engine) {
	cfg := e.Config()
	echo := configEcho{
		Seed:                 e.Seed(),
		MaxIters:             cfg.MaxIters,
		WorldX:               cfg.WorldX,
		WorldY:               cfg.WorldY,
		AtomCount:            cfg.AtomCount,
		DoReactions:          cfg.DoReactions,
		DoShuffle:            cfg.DoShuffle,
		CensusInterval:       cfg.CensusInterval,
		Elements:             e.FormatElements(),
		Reactions:            e.FormatReactions(),
		CurrentIter:          e.CurrentIter(),
		RNGID:                e.RNGIdentification(),
		ChemistryFingerprint: e.ChemistryFingerprint(),
	}
	bestEffort(e.Logger(), "config json sidecar", func() error {
		enc := jsonAPI.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(echo)
	})
}
