package session

import (
	"math"
	"strconv"

	"sandfall/internal/core"
	"sandfall/pkg/sand"
)

// SpeedLimit is the most ticks a session runs per frame.
const SpeedLimit = 20

const (
	gravityLimit = 30
	brushLimit   = 32
)

func (s *Session) Parameters() core.ParameterSnapshot {
	cfg := s.sim.Config()
	last := s.last
	groups := []core.ParameterGroup{
		{
			Name: "Gravity",
			Params: []core.Parameter{
				floatParam("gravity_x", "Gravity X", s.opts.GravityX),
				floatParam("gravity_y", "Gravity Y", s.opts.GravityY),
			},
		},
		{
			Name: "Controls",
			Params: []core.Parameter{
				choiceParam("mode", "Sand type", s.opts.Mode.String()),
				floatParam("speed", "Speed", s.opts.Speed),
				intParam("brush", "Brush", s.opts.Brush),
			},
		},
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", cfg.Width),
				intParam("h", "Height", cfg.Height),
				int64Param("seed", "Seed", s.opts.Seed),
				choiceParam("jostle", "Jostle law", string(cfg.Jostle)),
				choiceParam("clamp_order", "Clamp order", string(cfg.ClampOrder)),
			},
		},
		{
			Name: "Stats",
			Params: []core.Parameter{
				infoParam("grains", "Grains", s.sim.Len()),
				infoParam("ticks", "Ticks", s.ticks),
				infoParam("moved", "Moved", last.Moved),
				infoParam("blocked", "Blocked", last.Blocked+last.WallBlocked),
				infoParam("jostled", "Jostled", last.Jostled),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func (s *Session) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "gravity_x", Label: "Gravity X", Type: core.ParamTypeFloat, Step: 0.5, Min: -gravityLimit, Max: gravityLimit, HasMin: true, HasMax: true},
		{Key: "gravity_y", Label: "Gravity Y", Type: core.ParamTypeFloat, Step: 0.5, Min: -gravityLimit, Max: gravityLimit, HasMin: true, HasMax: true},
		{Key: "speed", Label: "Speed", Type: core.ParamTypeFloat, Step: 0.5, Min: 0, Max: SpeedLimit, HasMin: true, HasMax: true},
		{Key: "brush", Label: "Brush", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: brushLimit, HasMin: true, HasMax: true},
		{Key: "mode", Label: "Sand type", Type: core.ParamTypeChoice, Choices: []string{sand.ModeDynamic.String(), sand.ModeStatic.String()}},
	}
}

func (s *Session) control(key string) (core.ParameterControl, bool) {
	for _, c := range s.ParameterControls() {
		if c.Key == key {
			return c, true
		}
	}
	return core.ParameterControl{}, false
}

func (s *Session) SetFloatParameter(key string, value float64) bool {
	if math.IsNaN(value) {
		return false
	}
	c, ok := s.control(key)
	if !ok || c.Type != core.ParamTypeFloat {
		return false
	}
	value = c.Clamp(value)
	switch key {
	case "gravity_x":
		s.SetGravity(value, math.NaN())
	case "gravity_y":
		s.SetGravity(math.NaN(), value)
	case "speed":
		s.SetSpeed(value)
	default:
		return false
	}
	return true
}

func (s *Session) SetIntParameter(key string, value int) bool {
	c, ok := s.control(key)
	if !ok || c.Type != core.ParamTypeInt {
		return false
	}
	switch key {
	case "brush":
		s.SetBrush(int(c.Clamp(float64(value))))
	default:
		return false
	}
	return true
}

func (s *Session) SetChoiceParameter(key, value string) bool {
	if key != "mode" {
		return false
	}
	m, err := sand.ParseMode(value)
	if err != nil {
		return false
	}
	s.SetMode(m)
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func choiceParam(key, label, value string) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeChoice, Value: value}
}

func infoParam(key, label string, value int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInfo, Value: strconv.Itoa(value)}
}
