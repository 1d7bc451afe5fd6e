package engine

import "time"

// Config holds every engine construction parameter, with the defaults
// named in the external interface contract.
type Config struct {
	Seed uint32 // ignored (time-based seed) unless pinned with SetSeed

	MaxIters       uint64
	WorldX, WorldY int
	AtomCount      int
	DoReactions    bool
	DoShuffle      bool
	CensusInterval uint64

	// LoadFile, if non-empty, is a path to a chemistry declaration in the
	// loader grammar. If empty, the built-in default chemistry is used.
	LoadFile string

	// Diagnostic stream paths; empty disables the corresponding stream.
	ConfigFile    string
	CensusFile    string
	DiffusionFile string
	RandFile      string

	// seedIsSet distinguishes "seed explicitly set to 0" from "no seed
	// given, use time-based default" without exporting a second field.
	seedIsSet bool
}

// SetSeed pins the seed explicitly, overriding the time-based default.
func (c *Config) SetSeed(seed uint32) {
	c.Seed = seed
	c.seedIsSet = true
}

// DefaultConfig returns the configuration defaults from the external
// interface: max_iters=100000, world 16x16, atom_count=64, reactions on,
// shuffle off, census every 8 iterations.
func DefaultConfig() Config {
	return Config{
		MaxIters:       100000,
		WorldX:         16,
		WorldY:         16,
		AtomCount:      64,
		DoReactions:    true,
		DoShuffle:      false,
		CensusInterval: 8,
	}
}

// resolvedSeed returns the configured seed, or a time-based one if none was
// set.
func (c Config) resolvedSeed() uint32 {
	if c.seedIsSet {
		return c.Seed
	}
	return uint32(time.Now().UnixNano())
}

// validate checks the invariants ConfigError is responsible for: positive
// world dimensions and a non-negative atom count. AtomCount above W*H is
// not an error; it is silently clamped to W*H at seeding time.
func (c Config) validate() error {
	if c.WorldX <= 0 {
		return configErrorf("world_x", "must be positive, got %d", c.WorldX)
	}
	if c.WorldY <= 0 {
		return configErrorf("world_y", "must be positive, got %d", c.WorldY)
	}
	if c.AtomCount < 0 {
		return configErrorf("atom_count", "must be non-negative, got %d", c.AtomCount)
	}
	if c.CensusInterval == 0 {
		return configErrorf("census_interval", "must be positive, got %d", c.CensusInterval)
	}
	return nil
}
