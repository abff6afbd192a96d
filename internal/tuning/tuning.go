package tuning

import (
	"fmt"
	"os"
	"time"

	"github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"

	"github.com/pixil98/go-coop/internal/engine"
)

type Tuning struct {
	TransitionSpanSeconds float64    `yaml:"transition_span_seconds"`
	Activation            Activation `yaml:"activation"`
	MarkerLabel           string     `yaml:"marker_label"`
	HUDWidth              int        `yaml:"hud_width"`
	Respawn               Respawn    `yaml:"respawn"`
	LevelCheckIntervalMs  int        `yaml:"level_check_interval_ms"`
	DefaultGreetDistance  float32    `yaml:"default_greet_distance"`
}

// Activation holds the parameters used to play back a remote activation. The wire
// message does not carry the originating parameters.
type Activation struct {
	Count             int32 `yaml:"count"`
	DefaultProcessing bool  `yaml:"default_processing"`
	FromScript        bool  `yaml:"from_script"`
	Looping           bool  `yaml:"looping"`
}

type Respawn struct {
	BleedoutSeconds  float64 `yaml:"bleedout_seconds"`
	KnockdownSeconds float64 `yaml:"knockdown_seconds"`
	GodModeSeconds   float64 `yaml:"god_mode_seconds"`
}

func Default() Tuning {
	return Tuning{
		TransitionSpanSeconds: 5,
		Activation:            Activation{Count: 1},
		MarkerLabel:           "{{ .Username }}",
		HUDWidth:              60,
		Respawn: Respawn{
			BleedoutSeconds:  5,
			KnockdownSeconds: 1.5,
			GodModeSeconds:   10,
		},
		LevelCheckIntervalMs: 1000,
		DefaultGreetDistance: 150,
	}
}

// Load reads a tuning file over the defaults. An empty path yields the defaults.
func Load(path string) (Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("reading tuning: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

func (t Tuning) Validate() error {
	el := errors.NewErrorList()

	if t.TransitionSpanSeconds <= 0 {
		el.Add(fmt.Errorf("transition_span_seconds must be positive"))
	}
	if t.Activation.Count < 1 {
		el.Add(fmt.Errorf("activation.count must be at least 1"))
	}
	if t.MarkerLabel == "" {
		el.Add(fmt.Errorf("marker_label is required"))
	}
	if t.HUDWidth <= 0 {
		el.Add(fmt.Errorf("hud_width must be positive"))
	}
	if t.Respawn.BleedoutSeconds < 0 || t.Respawn.KnockdownSeconds < 0 || t.Respawn.GodModeSeconds < 0 {
		el.Add(fmt.Errorf("respawn timers must not be negative"))
	}
	if t.LevelCheckIntervalMs <= 0 {
		el.Add(fmt.Errorf("level_check_interval_ms must be positive"))
	}

	return el.Err()
}

func (t Tuning) LevelCheckInterval() time.Duration {
	return time.Duration(t.LevelCheckIntervalMs) * time.Millisecond
}

// ActivateParams converts the playback defaults to engine parameters.
func (a Activation) ActivateParams() engine.ActivateParams {
	return engine.ActivateParams{
		Count:             a.Count,
		DefaultProcessing: a.DefaultProcessing,
		FromScript:        a.FromScript,
		Looping:           a.Looping,
	}
}
