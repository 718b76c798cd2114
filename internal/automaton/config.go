package automaton

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"ecarows/internal/rules"

	"gopkg.in/yaml.v3"
)

// MinWidth is the narrowest row whose boundaries are well defined.
const MinWidth = 2

// MaxTPS is the highest tick rate whose interval is still at least 1ns.
const MaxTPS = int(time.Second)

// Config holds parameters for a growing elementary automaton.
type Config struct {
	Width       int    `yaml:"width"`
	Rule        string `yaml:"rule"`
	RowsPerStep int    `yaml:"rows_per_step"`
	MaxRows     int    `yaml:"max_rows"`
	// CellSize is the on-screen pixel size of one cell. The engine ignores it.
	CellSize int `yaml:"cell_size"`
	TPS      int `yaml:"tps"`
	// Seed drives the seed rows. Zero picks a time based seed.
	Seed int64 `yaml:"seed"`
	// KeepSeed restarts with the current seed row on rule change instead of
	// drawing a new one.
	KeepSeed bool `yaml:"keep_seed"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Width:       600,
		Rule:        rules.DefaultRule,
		RowsPerStep: 3,
		MaxRows:     300,
		CellSize:    2,
		TPS:         60,
	}
}

// configKeys lists the keys FromMap accepts. They match the YAML field names.
var configKeys = map[string]bool{
	"width": true, "rule": true, "rows_per_step": true, "max_rows": true,
	"cell_size": true, "tps": true, "seed": true, "keep_seed": true,
}

// FromMap applies key/value overrides such as {"width": "128"} on top of
// base. Unknown keys and unparsable values are rejected; range checks are
// left to Validate.
func FromMap(base Config, cfg map[string]string) (Config, error) {
	c := base
	for key := range cfg {
		if !configKeys[key] {
			return Config{}, fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, key)
		}
	}
	var err error
	if v, ok := cfg["width"]; ok {
		if c.Width, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("%w: width: %v", ErrInvalidConfig, err)
		}
	}
	if v, ok := cfg["rule"]; ok {
		c.Rule = v
	}
	if v, ok := cfg["rows_per_step"]; ok {
		if c.RowsPerStep, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("%w: rows_per_step: %v", ErrInvalidConfig, err)
		}
	}
	if v, ok := cfg["max_rows"]; ok {
		if c.MaxRows, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("%w: max_rows: %v", ErrInvalidConfig, err)
		}
	}
	if v, ok := cfg["cell_size"]; ok {
		if c.CellSize, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("%w: cell_size: %v", ErrInvalidConfig, err)
		}
	}
	if v, ok := cfg["tps"]; ok {
		if c.TPS, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("%w: tps: %v", ErrInvalidConfig, err)
		}
	}
	if v, ok := cfg["seed"]; ok {
		if c.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return Config{}, fmt.Errorf("%w: seed: %v", ErrInvalidConfig, err)
		}
	}
	if v, ok := cfg["keep_seed"]; ok {
		if c.KeepSeed, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("%w: keep_seed: %v", ErrInvalidConfig, err)
		}
	}
	return c, nil
}

// LoadConfig reads a YAML file on top of DefaultConfig. Unknown keys are
// rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML bytes on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	c := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks that the config describes a runnable automaton.
func (c Config) Validate() error {
	if c.Width < MinWidth {
		return fmt.Errorf("%w: %d < %d", ErrWidthTooSmall, c.Width, MinWidth)
	}
	if _, err := rules.Get(c.Rule); err != nil {
		return err
	}
	if c.RowsPerStep < 1 {
		return fmt.Errorf("%w: rows_per_step must be positive, got %d", ErrInvalidConfig, c.RowsPerStep)
	}
	if c.MaxRows < 1 {
		return fmt.Errorf("%w: max_rows must be positive, got %d", ErrInvalidConfig, c.MaxRows)
	}
	if c.CellSize < 1 {
		return fmt.Errorf("%w: cell_size must be positive, got %d", ErrInvalidConfig, c.CellSize)
	}
	if c.TPS < 1 || c.TPS > MaxTPS {
		return fmt.Errorf("%w: tps must be in [1, %d], got %d", ErrInvalidConfig, MaxTPS, c.TPS)
	}
	return nil
}
