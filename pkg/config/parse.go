package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/pstagner/toruscope/pkg/utils"
)

// ParseYAML parses a Config from YAML bytes, validates it, and clamps all
// numeric fields to their domains. Fields absent from the YAML keep their
// defaults.
func ParseYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.Normalize()
	return cfg, nil
}

// ParseYAMLString parses a Config from a YAML string and validates it.
func ParseYAMLString(yamlText string) (*Config, error) {
	return ParseYAML([]byte(yamlText))
}

// validateConfig performs validation on the non-numeric configuration surface.
// Numeric domains are corrected by Normalize rather than rejected.
func validateConfig(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	switch cfg.Controller.Mode {
	case ControllerOff, ControllerK, ControllerKH:
	default:
		return fmt.Errorf("invalid controller mode: %s (must be off, K, or KH)", cfg.Controller.Mode)
	}

	if cfg.Render.BaseWidth <= 0 {
		return fmt.Errorf("base_width must be positive, got %d", cfg.Render.BaseWidth)
	}
	if cfg.Render.BaseHeight <= 0 {
		return fmt.Errorf("base_height must be positive, got %d", cfg.Render.BaseHeight)
	}

	return nil
}

// Normalize clamps every numeric field to its domain. Out-of-domain values
// are corrected, not rejected: the render core must never see one.
func (c *Config) Normalize() {
	c.Render.ResolutionScale = utils.ClampFloat64(c.Render.ResolutionScale, 0.25, 1.0)
	c.Render.SamplesPerPixel = utils.Clamp(c.Render.SamplesPerPixel, 1, 4)
	c.Render.Gamma = utils.ClampFloat64(c.Render.Gamma, 0.5, 3.0)
	c.Render.NormalSmooth = utils.ClampFloat64(c.Render.NormalSmooth, 0.0, 1.0)
	c.Render.RampSize = utils.Clamp(c.Render.RampSize, 8, 16)
	c.Render.TargetFPS = utils.Max(1, c.Render.TargetFPS)
	c.Controller.IntervalFrames = utils.Max(1, c.Controller.IntervalFrames)
	c.Camera.Distance = utils.MaxFloat64(0.5, c.Camera.Distance)

	// Keep the torus well-formed: R > r > 0
	c.Torus.MajorRadius = utils.MaxFloat64(0.1, c.Torus.MajorRadius)
	c.Torus.MinorRadius = utils.MaxFloat64(0.05, c.Torus.MinorRadius)
	if c.Torus.MinorRadius >= c.Torus.MajorRadius {
		c.Torus.MinorRadius = utils.MaxFloat64(0.05, c.Torus.MajorRadius*0.4)
	}

	if c.Score.WeightFPS+c.Score.WeightQuality <= 0 {
		c.Score.WeightFPS = 0.5
		c.Score.WeightQuality = 0.5
	}
}
