package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"cairoplug/internal/trace"
)

// FileName is the project-level config looked up by FindConfig.
const FileName = "cairoplug.toml"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Plugin   PluginConfig   `toml:"plugin"`
	Contract ContractConfig `toml:"contract"`
	Receiver ReceiverConfig `toml:"receiver"`
	Rules    RulesConfig    `toml:"rules"`
	Trace    TraceConfig    `toml:"trace"`

	// Path is the file the config was loaded from, empty for Default.
	Path string `toml:"-"`
}

// PluginConfig identifies the plugin to the host registry.
type PluginConfig struct {
	Name       string `toml:"name"`
	Version    string `toml:"version"`
	Repository string `toml:"repository"`
}

type ContractConfig struct {
	Attribute string `toml:"attribute"` // trigger attribute
	Wrapper   string `toml:"wrapper"`   // outer attribute of the generated module
	AuxItem   string `toml:"aux_item"`  // item appended to the generated module
}

// ReceiverConfig names the marker parameter and the receiver declarations it selects.
type ReceiverConfig struct {
	MarkerName string `toml:"marker_name"`
	MarkerType string `toml:"marker_type"`
	Mutable    string `toml:"mutable"`
	Readonly   string `toml:"readonly"`
}

type RulesConfig struct {
	DisallowedImpl string   `toml:"disallowed_impl"`
	Injected       []string `toml:"injected"` // statements prepended to every rewritten function
}

type TraceConfig struct {
	Level     string `toml:"level"`
	Output    string `toml:"output"`
	Format    string `toml:"format"`
	Mode      string `toml:"mode"`
	Heartbeat string `toml:"heartbeat"`
}

// Default returns the compiled-in configuration of the demo contract plugin.
func Default() Config {
	return Config{
		Plugin: PluginConfig{
			Name:       "cairo_plugin_demo",
			Version:    "0.2.0",
			Repository: "https://github.com/glihm/cairo_plugin_demo",
		},
		Contract: ContractConfig{
			Attribute: "custom::contract",
			Wrapper:   "starknet::contract",
			AuxItem:   "struct S {}",
		},
		Receiver: ReceiverConfig{
			MarkerName: "r",
			MarkerType: "R",
			Mutable:    "ref self: ContractState",
			Readonly:   "self: @ContractState",
		},
		Rules: RulesConfig{
			DisallowedImpl: "bad",
			Injected:       []string{"let a = 32;", "let _b = a + 4;"},
		},
		Trace: TraceConfig{
			Level:  "off",
			Output: "-",
			Format: "auto",
			Mode:   "stream",
		},
	}
}

// FindConfig walks up from startDir looking for FileName.
func FindConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over Default. Keys absent from the file keep their defaults;
// unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalid, strings.Join(keys, ", "))
	}
	// пустой список в файле означает "ничего не вставлять", а не "по умолчанию"
	if meta.IsDefined("rules", "injected") && cfg.Rules.Injected == nil {
		cfg.Rules.Injected = []string{}
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve loads explicit when set, otherwise the nearest FileName above dir,
// otherwise Default.
func Resolve(explicit, dir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := FindConfig(dir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

var versionRe = regexp.MustCompile(`^\d+\.\d+\.\d+([-+][0-9A-Za-z.-]+)?$`)

// Validate reports every invalid key at once.
func (c Config) Validate() error {
	where := c.Path
	if where == "" {
		where = "config"
	}
	var errs []error
	required := func(key, value string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, fmt.Errorf("%s: %w: %s must not be empty", where, ErrInvalid, key))
		}
	}
	required("[plugin].name", c.Plugin.Name)
	required("[contract].attribute", c.Contract.Attribute)
	required("[contract].wrapper", c.Contract.Wrapper)
	required("[receiver].marker_name", c.Receiver.MarkerName)
	required("[receiver].marker_type", c.Receiver.MarkerType)
	required("[receiver].mutable", c.Receiver.Mutable)
	required("[receiver].readonly", c.Receiver.Readonly)
	if !versionRe.MatchString(c.Plugin.Version) {
		errs = append(errs, fmt.Errorf("%s: %w: [plugin].version %q is not a semantic version", where, ErrInvalid, c.Plugin.Version))
	}
	for i, stmt := range c.Rules.Injected {
		if strings.TrimSpace(stmt) == "" {
			errs = append(errs, fmt.Errorf("%s: %w: [rules].injected[%d] is empty", where, ErrInvalid, i))
		}
	}
	if _, err := c.Trace.TracerConfig(); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w: [trace]: %w", where, ErrInvalid, err))
	}
	return errors.Join(errs...)
}

// TracerConfig converts the [trace] section for trace.New.
func (t TraceConfig) TracerConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(t.Level)
	if err != nil {
		return trace.Config{}, err
	}
	format, auto, err := trace.ParseFormat(t.Format)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(t.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	var heartbeat time.Duration
	if t.Heartbeat != "" {
		heartbeat, err = time.ParseDuration(t.Heartbeat)
		if err != nil {
			return trace.Config{}, fmt.Errorf("heartbeat: %w", err)
		}
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		AutoFormat: auto,
		OutputPath: t.Output,
		Heartbeat:  heartbeat,
	}, nil
}
