package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Допустимые значения секции [output].
var (
	OutputFormats = []string{"pretty", "short", "json", "sarif", "table"}
	ColorModes    = []string{"auto", "on", "off"}
	PathModes     = []string{"auto", "absolute", "relative", "basename"}
)

// ErrConfigExists is returned by WriteDefault when the target already exists.
var ErrConfigExists = errors.New("config already exists")

// Config is the parsed declcheck.toml.
type Config struct {
	Check  CheckConfig  `toml:"check"`
	Output OutputConfig `toml:"output"`
}

// CheckConfig configures what is checked and how.
type CheckConfig struct {
	Extensions     []string `toml:"extensions"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Jobs           int      `toml:"jobs"`
	NormalizeNFC   bool     `toml:"normalize_nfc"`
	Cache          bool     `toml:"cache"`
}

// OutputConfig configures rendering.
type OutputConfig struct {
	Format   string `toml:"format"`
	Color    string `toml:"color"`
	PathMode string `toml:"path_mode"`
}

// DefaultConfig returns the configuration used when no declcheck.toml exists.
func DefaultConfig() Config {
	return Config{
		Check: CheckConfig{
			Extensions:     []string{".decl"},
			MaxDiagnostics: 100,
			Jobs:           0,
			NormalizeNFC:   false,
			Cache:          false,
		},
		Output: OutputConfig{
			Format:   "pretty",
			Color:    "auto",
			PathMode: "auto",
		},
	}
}

// LoadConfig parses path on top of DefaultConfig. Keys that are absent keep
// their defaults; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadNearest finds declcheck.toml starting at startDir and loads it. When no
// file exists the defaults are returned with an empty path.
func LoadNearest(startDir string) (cfg Config, path string, err error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return DefaultConfig(), "", nil
	}
	cfg, err = LoadConfig(path)
	if err != nil {
		return Config{}, path, err
	}
	return cfg, path, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if c.Check.MaxDiagnostics < 0 {
		errs = append(errs, fmt.Errorf("[check].max_diagnostics must be >= 0, got %d", c.Check.MaxDiagnostics))
	}
	if c.Check.Jobs < 0 {
		errs = append(errs, fmt.Errorf("[check].jobs must be >= 0, got %d", c.Check.Jobs))
	}
	if len(c.Check.Extensions) == 0 {
		errs = append(errs, errors.New("[check].extensions must not be empty"))
	}
	for _, ext := range c.Check.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			errs = append(errs, fmt.Errorf("[check].extensions: %q must start with '.'", ext))
		}
	}
	if err := oneOf("[output].format", c.Output.Format, OutputFormats); err != nil {
		errs = append(errs, err)
	}
	if err := oneOf("[output].color", c.Output.Color, ColorModes); err != nil {
		errs = append(errs, err)
	}
	if err := oneOf("[output].path_mode", c.Output.PathMode, PathModes); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func oneOf(key, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s: invalid value %q (expected: %s)", key, value, strings.Join(allowed, "|"))
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDefault writes DefaultConfig to path. An existing file is left alone
// unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrConfigExists)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to stat %q: %w", path, err)
		}
	}
	data, err := DefaultConfig().Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
