// Package config defines session configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Validate before use; invalid values wrap ErrInvalidConfig and name the key.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"fmt"
	"math"
	"time"
)

// Config contains the parameters of a play session. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// TempoBPM drives note speed; doubling it halves the live window.
	TempoBPM float64 `koanf:"tempo_bpm"`

	// InterNoteIntervalMS is the spawn spacing between consecutive notes.
	InterNoteIntervalMS int `koanf:"inter_note_interval_ms"`

	// HitRegionDepth is the depth of the hit region along the travel axis.
	HitRegionDepth float64 `koanf:"hit_region_depth"`

	// AngularToleranceRadians is the exclusive tolerance for a direction match.
	AngularToleranceRadians float64 `koanf:"angular_tolerance_radians"`

	// MaxGesturePathLength caps the samples kept per gesture.
	MaxGesturePathLength int `koanf:"max_gesture_path_length"`

	// HitReward, WrongDirectionPenalty and MissTimeoutPenalty are the score deltas
	// (penalties are subtracted). A zero MissTimeoutPenalty retires expired notes
	// without touching the score.
	HitReward             int `koanf:"hit_reward"`
	WrongDirectionPenalty int `koanf:"wrong_direction_penalty"`
	MissTimeoutPenalty    int `koanf:"miss_timeout_penalty"`

	// SpawnDistance and BaseUnitsPerBeat shape the travel axis.
	SpawnDistance    float64 `koanf:"spawn_distance"`
	BaseUnitsPerBeat float64 `koanf:"base_units_per_beat"`

	// LaneCount is the number of columns notes may occupy.
	LaneCount int `koanf:"lane_count"`

	// Playfield layout.
	NoteWidth  float64 `koanf:"note_width"`
	NoteHeight float64 `koanf:"note_height"`
	LaneGap    float64 `koanf:"lane_gap"`
	OriginX    float64 `koanf:"origin_x"`
	HitLineY   float64 `koanf:"hit_line_y"`

	// FeedCapacity bounds the outcome feed handed to the presentation layer.
	FeedCapacity int `koanf:"feed_capacity"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		TempoBPM:                120,
		InterNoteIntervalMS:     500,
		HitRegionDepth:          120,
		AngularToleranceRadians: math.Pi / 6,
		MaxGesturePathLength:    64,
		HitReward:               1,
		WrongDirectionPenalty:   1,
		MissTimeoutPenalty:      1,
		SpawnDistance:           1000,
		BaseUnitsPerBeat:        250,
		LaneCount:               3,
		NoteWidth:               120,
		NoteHeight:              120,
		LaneGap:                 60,
		OriginX:                 -240,
		HitLineY:                0,
		FeedCapacity:            1024,
	}
}

// InterNoteInterval returns InterNoteIntervalMS as a duration.
func (c *Config) InterNoteInterval() time.Duration {
	return time.Duration(c.InterNoteIntervalMS) * time.Millisecond
}

// Validate reports the first invalid value, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	positive := []struct {
		key string
		val float64
	}{
		{"tempo_bpm", c.TempoBPM},
		{"inter_note_interval_ms", float64(c.InterNoteIntervalMS)},
		{"hit_region_depth", c.HitRegionDepth},
		{"angular_tolerance_radians", c.AngularToleranceRadians},
		{"spawn_distance", c.SpawnDistance},
		{"base_units_per_beat", c.BaseUnitsPerBeat},
		{"lane_count", float64(c.LaneCount)},
		{"note_width", c.NoteWidth},
		{"note_height", c.NoteHeight},
		{"feed_capacity", float64(c.FeedCapacity)},
	}
	for _, p := range positive {
		if !(p.val > 0) || math.IsInf(p.val, 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, p.key, p.val)
		}
	}

	if c.AngularToleranceRadians > math.Pi {
		return fmt.Errorf("%w: angular_tolerance_radians must not exceed pi, got %v", ErrInvalidConfig, c.AngularToleranceRadians)
	}
	if c.MaxGesturePathLength < 2 {
		return fmt.Errorf("%w: max_gesture_path_length must be at least 2, got %d", ErrInvalidConfig, c.MaxGesturePathLength)
	}
	if c.LaneGap < 0 {
		return fmt.Errorf("%w: lane_gap must not be negative, got %v", ErrInvalidConfig, c.LaneGap)
	}

	nonNegative := map[string]int{
		"hit_reward":              c.HitReward,
		"wrong_direction_penalty": c.WrongDirectionPenalty,
		"miss_timeout_penalty":    c.MissTimeoutPenalty,
	}
	for _, key := range []string{"hit_reward", "wrong_direction_penalty", "miss_timeout_penalty"} {
		if nonNegative[key] < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidConfig, key, nonNegative[key])
		}
	}
	return nil
}
