// Package config holds the run configuration shared by every command and
// layers it from defaults, an optional YAML file, flags and key=value
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"sandfall/internal/logging"
	"sandfall/internal/session"
	"sandfall/pkg/sand"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config is the full run configuration.
type Config struct {
	Sim      sand.Config `yaml:"sim"`
	Gravity  Gravity     `yaml:"gravity"`
	Mode     string      `yaml:"mode"`
	Speed    float64     `yaml:"speed"`
	Brush    int         `yaml:"brush"`
	Seed     int64       `yaml:"seed"`
	Display  Display     `yaml:"display"`
	LogLevel string      `yaml:"log_level"`
}

// Gravity is the initial acceleration applied every tick.
type Gravity struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Display configures the GUI window.
type Display struct {
	Scale    int `yaml:"scale"`
	TPS      int `yaml:"tps"`
	HUDWidth int `yaml:"hud_width"`
}

// DefaultConfig returns the interactive defaults.
func DefaultConfig() Config {
	opts := session.DefaultOptions()
	return Config{
		Sim:      opts.Sim,
		Gravity:  Gravity{X: opts.GravityX, Y: opts.GravityY},
		Mode:     opts.Mode.String(),
		Speed:    opts.Speed,
		Brush:    opts.Brush,
		Seed:     opts.Seed,
		Display:  Display{Scale: 5, TPS: 60, HUDWidth: 220},
		LogLevel: "info",
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func Save(path string, cfg Config) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Marshal encodes cfg as YAML.
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if err := c.Sim.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := sand.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if !(c.Speed >= 0 && c.Speed <= session.SpeedLimit) {
		errs = append(errs, fmt.Errorf("speed must be within [0, %d], got %g", session.SpeedLimit, c.Speed))
	}
	if c.Brush < 1 {
		errs = append(errs, fmt.Errorf("brush must be at least 1, got %d", c.Brush))
	}
	if c.Display.Scale < 1 {
		errs = append(errs, fmt.Errorf("display scale must be at least 1, got %d", c.Display.Scale))
	}
	if c.Display.TPS < 1 {
		errs = append(errs, fmt.Errorf("display tps must be at least 1, got %d", c.Display.TPS))
	}
	if c.Display.HUDWidth < 0 {
		errs = append(errs, fmt.Errorf("hud width must not be negative, got %d", c.Display.HUDWidth))
	}
	if !logging.KnownLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}

// SessionOptions converts a validated config into session options.
func (c Config) SessionOptions() (session.Options, error) {
	mode, err := sand.ParseMode(c.Mode)
	if err != nil {
		return session.Options{}, err
	}
	return session.Options{
		Sim:      c.Sim,
		GravityX: c.Gravity.X,
		GravityY: c.Gravity.Y,
		Mode:     mode,
		Speed:    c.Speed,
		Brush:    c.Brush,
		Seed:     c.Seed,
	}, nil
}

// Bind registers the configuration flags on fs with the default values.
func Bind(fs *pflag.FlagSet) {
	def := DefaultConfig()
	fs.String("config", "", "YAML config file")
	fs.Int("width", def.Sim.Width, "grid width in cells")
	fs.Int("height", def.Sim.Height, "grid height in cells")
	fs.Float64("gravity-x", def.Gravity.X, "horizontal acceleration")
	fs.Float64("gravity-y", def.Gravity.Y, "vertical acceleration")
	fs.String("mode", def.Mode, "sand type: static or dynamic")
	fs.Float64("speed", def.Speed, "ticks per frame")
	fs.Int("brush", def.Brush, "brush size")
	fs.Int64("seed", def.Seed, "random seed")
	fs.Int("scale", def.Display.Scale, "pixel scale multiplier")
	fs.Int("tps", def.Display.TPS, "frames per second")
	fs.String("log-level", def.LogLevel, "log level: info, debug or trace")
	fs.StringToString("set", nil, "simulation overrides as key=value")
}

// FromFlags builds the effective configuration: defaults, then the --config
// file, then flags the user set explicitly, then --set overrides.
func FromFlags(fs *pflag.FlagSet) (Config, error) {
	cfg := DefaultConfig()
	if path, _ := fs.GetString("config"); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	var errs []error
	changed := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}
	setInt := func(name string, dst *int) {
		if changed(name) {
			v, err := fs.GetInt(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	setFloat := func(name string, dst *float64) {
		if changed(name) {
			v, err := fs.GetFloat64(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	setString := func(name string, dst *string) {
		if changed(name) {
			v, err := fs.GetString(name)
			errs = append(errs, err)
			*dst = v
		}
	}

	setInt("width", &cfg.Sim.Width)
	setInt("height", &cfg.Sim.Height)
	setFloat("gravity-x", &cfg.Gravity.X)
	setFloat("gravity-y", &cfg.Gravity.Y)
	setString("mode", &cfg.Mode)
	setFloat("speed", &cfg.Speed)
	setInt("brush", &cfg.Brush)
	setInt("scale", &cfg.Display.Scale)
	setInt("tps", &cfg.Display.TPS)
	setString("log-level", &cfg.LogLevel)
	if changed("seed") {
		v, err := fs.GetInt64("seed")
		errs = append(errs, err)
		cfg.Seed = v
	}
	if changed("set") {
		kv, err := fs.GetStringToString("set")
		errs = append(errs, err)
		cfg.Sim = cfg.Sim.Apply(kv)
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("read flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
