// Package config loads the optional cellseg.yaml settings file and
// resolves defaults for the engine's tunable constants.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the optional cellseg.yaml configuration.
type Config struct {
	UndoDepth int `yaml:"undo_depth,omitempty"`
	// OverlayAlpha is a pointer so an explicit 0 (overlay off) is
	// distinguishable from an absent key.
	OverlayAlpha *float64      `yaml:"overlay_alpha,omitempty"`
	Zoom         ZoomConfig    `yaml:"zoom"`
	Gesture      GestureConfig `yaml:"gesture"`
}

// ZoomConfig bounds the view transform.
type ZoomConfig struct {
	Min         float64 `yaml:"min,omitempty"`
	Max         float64 `yaml:"max,omitempty"`
	WheelFactor float64 `yaml:"wheel_factor,omitempty"`
}

// GestureConfig tunes the drawing state machine thresholds.
type GestureConfig struct {
	MinVertexSpacing float64 `yaml:"min_vertex_spacing,omitempty"`
	ClickThreshold   float64 `yaml:"click_threshold,omitempty"`
	// DragZoomRate is the zoom factor per vertical drag pixel and must
	// exceed 1: a rate of 1 disables the mapping and a rate below 1
	// inverts it, so values <= 1 fall back to the default.
	DragZoomRate float64 `yaml:"drag_zoom_rate,omitempty"`
}

// Resolved contains configuration values with defaults applied.
type Resolved struct {
	UndoDepth        int
	OverlayAlpha     float64
	ZoomMin          float64
	ZoomMax          float64
	WheelFactor      float64
	MinVertexSpacing float64
	ClickThreshold   float64
	DragZoomRate     float64
}

// Defaults returns the compiled-in configuration.
func Defaults() *Resolved {
	return &Resolved{
		UndoDepth:        50,
		OverlayAlpha:     0.4,
		ZoomMin:          0.1,
		ZoomMax:          10.0,
		WheelFactor:      1.1,
		MinVertexSpacing: 2,
		ClickThreshold:   5,
		DragZoomRate:     1.01,
	}
}

// LoadOptional reads cellseg.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "cellseg.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read cellseg.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse cellseg.yaml: %w", err)
	}

	return &cfg, nil
}

// Resolve loads cellseg.yaml from dir (if present) and applies defaults
// to every unset field.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	return cfg.Resolved(), nil
}

// Resolved applies defaults to every unset field of cfg.
func (cfg *Config) Resolved() *Resolved {
	r := Defaults()
	if cfg.UndoDepth > 0 {
		r.UndoDepth = cfg.UndoDepth
	}
	if cfg.OverlayAlpha != nil && *cfg.OverlayAlpha >= 0 {
		r.OverlayAlpha = *cfg.OverlayAlpha
	}
	if cfg.Zoom.Min > 0 {
		r.ZoomMin = cfg.Zoom.Min
	}
	if cfg.Zoom.Max > 0 {
		r.ZoomMax = cfg.Zoom.Max
	}
	if cfg.Zoom.WheelFactor > 1 {
		r.WheelFactor = cfg.Zoom.WheelFactor
	}
	if cfg.Gesture.MinVertexSpacing > 0 {
		r.MinVertexSpacing = cfg.Gesture.MinVertexSpacing
	}
	if cfg.Gesture.ClickThreshold > 0 {
		r.ClickThreshold = cfg.Gesture.ClickThreshold
	}
	if cfg.Gesture.DragZoomRate > 1 {
		r.DragZoomRate = cfg.Gesture.DragZoomRate
	}
	return r
}
