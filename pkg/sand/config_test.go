package sand

import "testing"

func TestFromMapNilReturnsDefaults(t *testing.T) {
	if FromMap(nil) != DefaultConfig() {
		t.Fatal("FromMap(nil) should equal DefaultConfig()")
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestApplyParsesKnownKeys(t *testing.T) {
	cfg := FromMap(map[string]string{
		"w":                    "64",
		"h":                    "32",
		"stationary_threshold": "3",
		"accel_cap":            "12.5",
		"move_scale":           "40",
		"jostle":               "linear",
		"jostle_gain":          "2",
		"clamp_order":          "before",
		"brightness_step":      "0.05",
	})

	if cfg.Width != 64 || cfg.Height != 32 {
		t.Fatalf("size = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.StationaryThreshold != 3 || cfg.AccelCap != 12.5 || cfg.MoveScale != 40 {
		t.Fatalf("stepping constants not applied: %+v", cfg)
	}
	if cfg.Jostle != JostleLinear || cfg.JostleGain != 2 || cfg.ClampOrder != ClampBeforeJostle {
		t.Fatalf("jostle settings not applied: %+v", cfg)
	}
	if cfg.BrightnessStep != 0.05 {
		t.Fatalf("brightness step = %f", cfg.BrightnessStep)
	}
}

func TestApplyIgnoresInvalidValues(t *testing.T) {
	def := DefaultConfig()
	cfg := def.Apply(map[string]string{
		"w":           "-3",
		"h":           "tall",
		"move_scale":  "0",
		"jostle":      "cubic",
		"clamp_order": "sideways",
		"accel_cap":   "-1",
	})
	if cfg != def {
		t.Fatalf("invalid overrides changed config: %+v", cfg)
	}
}

func TestApplyKeepsBrightnessOrdered(t *testing.T) {
	cfg := DefaultConfig().Apply(map[string]string{"min_brightness": "0.9", "max_brightness": "0.5"})
	if cfg.MaxBrightness < cfg.MinBrightness {
		t.Fatalf("max brightness %f below min %f", cfg.MaxBrightness, cfg.MinBrightness)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Config{
		Width:      0,
		Height:     5,
		MoveScale:  0,
		Jostle:     "cubic",
		ClampOrder: "sideways",
		AccelCap:   -1,
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected a joined error, got %T", err)
	}
	if n := len(joined.Unwrap()); n != 5 {
		t.Fatalf("expected 5 problems, got %d: %v", n, err)
	}
}
