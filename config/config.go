// Package config is the CLI-facing configuration layer: a viper-backed
// option table bound to cobra/pflag flags and environment variables, plus a
// BurntSushi/toml reader for the engine's own config-file format, distinct
// from engine.Config, which the CLI resolves into after parsing.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/CWRUChielLab/metabolism-sub000/engine"
)

// Error is a typed configuration error: an unknown option, a malformed
// value, or a file that could not be read.
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string { return fmt.Sprintf("config: %s: %v", e.Field, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func errorf(field, format string, args ...interface{}) *Error {
	return &Error{Field: field, Err: fmt.Errorf(format, args...)}
}

// option describes one bindable setting: its viper/flag name, default value,
// usage text, and which flag sets it should be registered on.
type option struct {
	name       string
	usage      string
	defaultVal interface{}
	flagsets   []*pflag.FlagSet
}

// Cfg holds the viper-backed option values and the cobra command tree.
type Cfg struct {
	*viper.Viper

	Root, runCmd, versionCmd, inspectCmd, gendocsCmd *cobra.Command

	// configFile is bound directly rather than looked up through viper,
	// since it must be read before ReadConfigFile has populated anything.
	configFile string
}

// ConfigFileFlag returns the --config flag's current value.
func (cfg *Cfg) ConfigFileFlag() string { return cfg.configFile }

// New builds the command tree and registers every option against it,
// returning a Cfg ready to have Root.Execute() called on it.
func New() *Cfg {
	cfg := &Cfg{Viper: viper.New()}

	cfg.runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the lattice chemistry simulation to completion.",
	}
	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number.",
	}
	cfg.inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Print the loaded chemistry's canonical element and reaction declarations.",
	}
	cfg.gendocsCmd = &cobra.Command{
		Use:   "gendocs [output-dir]",
		Short: "Generate man pages for this command tree.",
		Args:  cobra.ExactArgs(1),
	}

	cfg.Root = &cobra.Command{
		Use:   "metabolism",
		Short: "A lattice-based stochastic chemistry simulator.",
	}
	cfg.Root.AddCommand(cfg.runCmd, cfg.versionCmd, cfg.inspectCmd, cfg.gendocsCmd)
	cfg.Root.PersistentFlags().StringVar(&cfg.configFile, "config", "", "TOML configuration file location")

	cfg.SetEnvPrefix("METABOLISM")
	cfg.AutomaticEnv()

	for _, opt := range options(cfg) {
		registerOption(cfg.Viper, opt)
	}
	return cfg
}

// RunCmd, VersionCmd, InspectCmd expose the subcommands for main() to attach
// Run funcs to.
func (cfg *Cfg) RunCmd() *cobra.Command     { return cfg.runCmd }
func (cfg *Cfg) VersionCmd() *cobra.Command { return cfg.versionCmd }
func (cfg *Cfg) InspectCmd() *cobra.Command { return cfg.inspectCmd }
func (cfg *Cfg) GendocsCmd() *cobra.Command { return cfg.gendocsCmd }

func options(cfg *Cfg) []option {
	run := cfg.runCmd.Flags()
	return []option{
		{name: "seed", usage: "RNG seed (time-based if unset)", defaultVal: 0, flagsets: []*pflag.FlagSet{run}},
		{name: "max_iters", usage: "number of iterations to run", defaultVal: 100000, flagsets: []*pflag.FlagSet{run}},
		{name: "world_x", usage: "world width", defaultVal: 16, flagsets: []*pflag.FlagSet{run}},
		{name: "world_y", usage: "world height", defaultVal: 16, flagsets: []*pflag.FlagSet{run}},
		{name: "atom_count", usage: "initial atom count", defaultVal: 64, flagsets: []*pflag.FlagSet{run}},
		{name: "do_reactions", usage: "enable the reaction sweep", defaultVal: true, flagsets: []*pflag.FlagSet{run}},
		{name: "do_shuffle", usage: "enable the well-mixed world shuffle", defaultVal: false, flagsets: []*pflag.FlagSet{run}},
		{name: "census_interval", usage: "iterations between census rows", defaultVal: 8, flagsets: []*pflag.FlagSet{run}},
		{name: "load_file", usage: "chemistry declaration file (built-in default if unset)", defaultVal: "", flagsets: []*pflag.FlagSet{run}},
		{name: "config_file", usage: "config echo output path", defaultVal: "", flagsets: []*pflag.FlagSet{run}},
		{name: "census_file", usage: "census output path", defaultVal: "", flagsets: []*pflag.FlagSet{run}},
		{name: "diffusion_file", usage: "diffusion dump output path", defaultVal: "", flagsets: []*pflag.FlagSet{run}},
		{name: "rand_file", usage: "first-fill RNG word dump path", defaultVal: "", flagsets: []*pflag.FlagSet{run}},
		{name: "heatmap_file", usage: "occupancy heatmap snapshot path (optional)", defaultVal: "", flagsets: []*pflag.FlagSet{run}},
		{name: "config_json_file", usage: "JSON config sidecar path (optional)", defaultVal: "", flagsets: []*pflag.FlagSet{run}},
		{name: "xlsx_file", usage: "XLSX census/diffusion export path (optional)", defaultVal: "", flagsets: []*pflag.FlagSet{run}},
		{name: "report_file", usage: "PDF run report path (optional)", defaultVal: "", flagsets: []*pflag.FlagSet{run}},
		{name: "sleep", usage: "pacing delay between iterations, e.g. \"10ms\" (CLI-only, never inside the engine)", defaultVal: "0s", flagsets: []*pflag.FlagSet{run}},
		{name: "print", usage: "render the world to stdout after the run", defaultVal: false, flagsets: []*pflag.FlagSet{run}},
	}
}

func registerOption(v *viper.Viper, opt option) {
	for i, set := range opt.flagsets {
		if i != 0 {
			set.AddFlag(opt.flagsets[0].Lookup(opt.name))
			continue
		}
		switch d := opt.defaultVal.(type) {
		case string:
			set.String(opt.name, d, opt.usage)
		case bool:
			set.Bool(opt.name, d, opt.usage)
		case int:
			set.Int(opt.name, d, opt.usage)
		default:
			panic(fmt.Errorf("config: invalid default value type %T for %q", d, opt.name))
		}
		v.BindPFlag(opt.name, set.Lookup(opt.name))
	}
}

// ReadConfigFile loads a TOML config file at path, if non-empty, into cfg's
// viper layer; flags and environment variables set earlier still take
// precedence over file values per viper's normal resolution order.
func (cfg *Cfg) ReadConfigFile(path string) error {
	if path == "" {
		return nil
	}
	cfg.SetConfigFile(path)
	cfg.SetConfigType("toml")
	if err := cfg.ReadInConfig(); err != nil {
		return errorf("config_file", "reading %q: %w", path, err)
	}
	return nil
}

// EngineConfig resolves the parsed option values into an engine.Config.
func (cfg *Cfg) EngineConfig() engine.Config {
	ec := engine.DefaultConfig()
	if seed := cfg.GetInt("seed"); seed != 0 {
		ec.SetSeed(uint32(seed))
	}
	ec.MaxIters = uint64(cfg.GetInt64("max_iters"))
	ec.WorldX = cfg.GetInt("world_x")
	ec.WorldY = cfg.GetInt("world_y")
	ec.AtomCount = cfg.GetInt("atom_count")
	ec.DoReactions = cfg.GetBool("do_reactions")
	ec.DoShuffle = cfg.GetBool("do_shuffle")
	if ci := cfg.GetInt64("census_interval"); ci > 0 {
		ec.CensusInterval = uint64(ci)
	}
	ec.LoadFile = cfg.GetString("load_file")
	ec.ConfigFile = cfg.GetString("config_file")
	ec.CensusFile = cfg.GetString("census_file")
	ec.DiffusionFile = cfg.GetString("diffusion_file")
	ec.RandFile = cfg.GetString("rand_file")
	return ec
}

// SleepDuration parses the --sleep option: a bare integer is taken as a
// number of seconds, and anything else goes through spf13/cast's
// ToDurationE, so a Go duration string like "10ms" is accepted too.
func (cfg *Cfg) SleepDuration() (time.Duration, error) {
	switch v := cfg.Get("sleep").(type) {
	case int:
		return time.Duration(v) * time.Second, nil
	case int64:
		return time.Duration(v) * time.Second, nil
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second, nil
		}
	}
	d, err := cast.ToDurationE(cfg.Get("sleep"))
	if err != nil {
		return 0, errorf("sleep", "parsing %v: %w", cfg.Get("sleep"), err)
	}
	return d, nil
}

// TOMLRunConfig is a plain decode target for a hand-written TOML config
// file read directly with BurntSushi/toml, for callers that want a config
// format independent of viper's flag/env precedence rules.
type TOMLRunConfig struct {
	Seed           uint32
	MaxIters       uint64
	WorldX         int
	WorldY         int
	AtomCount      int
	DoReactions    bool
	DoShuffle      bool
	CensusInterval uint64
	LoadFile       string
}

// DecodeTOMLRunConfig reads and decodes a TOMLRunConfig from path.
func DecodeTOMLRunConfig(path string) (*TOMLRunConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errorf("config_file", "opening %q: %w", path, err)
	}
	defer f.Close()

	var c TOMLRunConfig
	if _, err := toml.DecodeReader(f, &c); err != nil {
		return nil, errorf("config_file", "decoding %q: %w", path, err)
	}
	return &c, nil
}
