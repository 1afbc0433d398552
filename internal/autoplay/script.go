// Package autoplay builds and plays gesture scripts: timestamped pointer
// samples that a host would otherwise collect from a touch screen.
package autoplay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/okian/cutbeat/internal/domain/model"
)

// ErrInvalidScript marks a script that cannot be played.
var ErrInvalidScript = errors.New("invalid gesture script")

// Script is an ordered list of gestures.
type Script struct {
	Name     string    `yaml:"name,omitempty"`
	Gestures []Gesture `yaml:"gestures"`
}

// Gesture is one contiguous pointer interaction.
type Gesture struct {
	// Note is the index of the note the gesture aims at, or -1.
	Note    int      `yaml:"note"`
	Samples []Sample `yaml:"samples"`
}

// Sample is one pointer position at a session time in milliseconds.
type Sample struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	AtMS int64   `yaml:"at_ms"`
}

// At returns the sample time as a duration.
func (s Sample) At() time.Duration { return time.Duration(s.AtMS) * time.Millisecond }

// Point returns the sample position.
func (s Sample) Point() model.Point { return model.Point{X: s.X, Y: s.Y} }

// Start returns the time of the first sample.
func (g Gesture) Start() time.Duration {
	if len(g.Samples) == 0 {
		return 0
	}
	return g.Samples[0].At()
}

// End returns the time of the last sample.
func (g Gesture) End() time.Duration {
	if len(g.Samples) == 0 {
		return 0
	}
	return g.Samples[len(g.Samples)-1].At()
}

// Validate checks that every gesture has samples and that time never runs
// backwards, within and across gestures.
func (s Script) Validate() error {
	var last int64
	for i, g := range s.Gestures {
		if len(g.Samples) == 0 {
			return fmt.Errorf("%w: gesture %d has no samples", ErrInvalidScript, i)
		}
		for j, smp := range g.Samples {
			if smp.AtMS < 0 {
				return fmt.Errorf("%w: gesture %d sample %d at negative time %d", ErrInvalidScript, i, j, smp.AtMS)
			}
			if smp.AtMS < last {
				return fmt.Errorf("%w: gesture %d sample %d at %dms precedes %dms", ErrInvalidScript, i, j, smp.AtMS, last)
			}
			last = smp.AtMS
		}
	}
	return nil
}

// Load decodes and validates a YAML script. Unknown keys are rejected.
func Load(r io.Reader) (Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Script{}, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// LoadFile reads a YAML script from path.
func LoadFile(path string) (Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return Script{}, fmt.Errorf("open script: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Marshal encodes s as YAML.
func Marshal(s Script) ([]byte, error) {
	return yaml.Marshal(s)
}
