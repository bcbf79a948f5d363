package sand

import (
	"errors"
	"fmt"
	"strconv"
)

// JostleLaw selects how a stuck grain's random sideways term scales with the
// cross-axis acceleration.
type JostleLaw string

const (
	// JostleSquare scales the jostle by the square of the cross acceleration.
	JostleSquare JostleLaw = "square"
	// JostleLinear scales the jostle by JostleGain times the cross magnitude.
	JostleLinear JostleLaw = "linear"
	// JostleUnscaled uses the cross magnitude as is.
	JostleUnscaled JostleLaw = "unscaled"
)

// ClampOrder selects whether the acceleration cap is applied to the jostled
// value or to the raw inputs before jostling.
type ClampOrder string

const (
	// ClampAfterJostle caps the already jostled acceleration.
	ClampAfterJostle ClampOrder = "after"
	// ClampBeforeJostle caps the inputs, then adds the jostle uncapped.
	ClampBeforeJostle ClampOrder = "before"
)

// Config holds the simulation dimensions and stepping constants.
type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	MinBrightness  float64 `yaml:"min_brightness"`
	MaxBrightness  float64 `yaml:"max_brightness"`
	BrightnessStep float64 `yaml:"brightness_step"`

	// StationaryThreshold is the streak at which dynamic mode jostles a grain.
	StationaryThreshold int `yaml:"stationary_threshold"`
	// AccelCap bounds the effective acceleration in dynamic mode.
	AccelCap float64 `yaml:"accel_cap"`
	// MoveScale is the acceleration at which a move becomes certain.
	MoveScale float64 `yaml:"move_scale"`

	Jostle     JostleLaw  `yaml:"jostle"`
	JostleGain float64    `yaml:"jostle_gain"`
	ClampOrder ClampOrder `yaml:"clamp_order"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:               128,
		Height:              128,
		MinBrightness:       0.6,
		MaxBrightness:       1,
		BrightnessStep:      0.01,
		StationaryThreshold: 5,
		AccelCap:            10,
		MoveScale:           20,
		Jostle:              JostleSquare,
		JostleGain:          4,
		ClampOrder:          ClampAfterJostle,
	}
}

// FromMap populates a Config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	return DefaultConfig().Apply(cfg)
}

// Apply returns a copy of c with any recognised keys in kv parsed on top.
// Unparseable or out-of-range values leave the field unchanged.
func (c Config) Apply(kv map[string]string) Config {
	if kv == nil {
		return c
	}
	if v, ok := kv["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := kv["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := kv["min_brightness"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.MinBrightness = parsed
		}
	}
	if v, ok := kv["max_brightness"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.MaxBrightness = parsed
		}
	}
	if c.MaxBrightness < c.MinBrightness {
		c.MaxBrightness = c.MinBrightness
	}
	if v, ok := kv["brightness_step"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.BrightnessStep = parsed
		}
	}
	if v, ok := kv["stationary_threshold"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.StationaryThreshold = parsed
		}
	}
	if v, ok := kv["accel_cap"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.AccelCap = parsed
		}
	}
	if v, ok := kv["move_scale"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.MoveScale = parsed
		}
	}
	if v, ok := kv["jostle"]; ok {
		if law := JostleLaw(v); law.valid() {
			c.Jostle = law
		}
	}
	if v, ok := kv["jostle_gain"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.JostleGain = parsed
		}
	}
	if v, ok := kv["clamp_order"]; ok {
		if order := ClampOrder(v); order.valid() {
			c.ClampOrder = order
		}
	}
	return c
}

// Validate reports every field that New would have to coerce.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("grid must be at least 1x1, got %dx%d", c.Width, c.Height))
	}
	if c.MinBrightness < 0 || c.MaxBrightness < c.MinBrightness {
		errs = append(errs, fmt.Errorf("brightness range [%g, %g] is invalid", c.MinBrightness, c.MaxBrightness))
	}
	if c.BrightnessStep < 0 {
		errs = append(errs, fmt.Errorf("brightness step must not be negative, got %g", c.BrightnessStep))
	}
	if c.StationaryThreshold < 0 {
		errs = append(errs, fmt.Errorf("stationary threshold must not be negative, got %d", c.StationaryThreshold))
	}
	if c.AccelCap < 0 {
		errs = append(errs, fmt.Errorf("acceleration cap must not be negative, got %g", c.AccelCap))
	}
	if c.MoveScale <= 0 {
		errs = append(errs, fmt.Errorf("move scale must be positive, got %g", c.MoveScale))
	}
	if !c.Jostle.valid() {
		errs = append(errs, fmt.Errorf("unknown jostle law %q", c.Jostle))
	}
	if c.JostleGain < 0 {
		errs = append(errs, fmt.Errorf("jostle gain must not be negative, got %g", c.JostleGain))
	}
	if !c.ClampOrder.valid() {
		errs = append(errs, fmt.Errorf("unknown clamp order %q", c.ClampOrder))
	}
	return errors.Join(errs...)
}

// normalized fills zero or invalid fields with defaults so a Simulation can
// always be built.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.MinBrightness < 0 {
		c.MinBrightness = 0
	}
	if c.MaxBrightness < c.MinBrightness {
		c.MaxBrightness = c.MinBrightness
	}
	if c.BrightnessStep < 0 {
		c.BrightnessStep = 0
	}
	if c.StationaryThreshold < 0 {
		c.StationaryThreshold = 0
	}
	if c.AccelCap < 0 {
		c.AccelCap = 0
	}
	if c.MoveScale <= 0 {
		c.MoveScale = def.MoveScale
	}
	if !c.Jostle.valid() {
		c.Jostle = def.Jostle
	}
	if c.JostleGain < 0 {
		c.JostleGain = 0
	}
	if !c.ClampOrder.valid() {
		c.ClampOrder = def.ClampOrder
	}
	return c
}

func (l JostleLaw) valid() bool {
	switch l {
	case JostleSquare, JostleLinear, JostleUnscaled:
		return true
	}
	return false
}

func (o ClampOrder) valid() bool {
	return o == ClampAfterJostle || o == ClampBeforeJostle
}

// JostleLaws lists the supported jostle scaling laws.
func JostleLaws() []JostleLaw {
	return []JostleLaw{JostleSquare, JostleLinear, JostleUnscaled}
}

// ClampOrders lists the supported clamp orders.
func ClampOrders() []ClampOrder {
	return []ClampOrder{ClampAfterJostle, ClampBeforeJostle}
}
