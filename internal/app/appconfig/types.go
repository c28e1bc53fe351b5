package appconfig

import (
	"fmt"

	"exusiai.dev/posecoach/internal/pkg/poseschema"
	"exusiai.dev/posecoach/internal/util/angleutil"
)

func (c *ConfigSpec) validate() error {
	if _, err := poseschema.Lookup(c.PoseSchema); err != nil {
		return err
	}
	if _, err := angleutil.ParseFormulation(c.PoseAngleFormulation); err != nil {
		return err
	}
	if c.PoseTolerance < 0 {
		return fmt.Errorf("pose tolerance must not be negative, got %v", c.PoseTolerance)
	}
	if c.PoseCorrectThreshold < 0 || c.PoseCorrectThreshold > 100 {
		return fmt.Errorf("pose correct threshold must be within [0, 100], got %v", c.PoseCorrectThreshold)
	}
	if c.PoseLandmarkMinConfidence < 0 || c.PoseLandmarkMinConfidence > 1 {
		return fmt.Errorf("landmark min confidence must be within [0, 1], got %v", c.PoseLandmarkMinConfidence)
	}
	if c.PoseVisibleFraction < 0 || c.PoseVisibleFraction > 1 {
		return fmt.Errorf("visible fraction must be within [0, 1], got %v", c.PoseVisibleFraction)
	}
	if c.FrameWorkerConcurrency < 1 {
		return fmt.Errorf("frame worker concurrency must be at least 1, got %d", c.FrameWorkerConcurrency)
	}
	return nil
}

// Schema returns the configured landmark schema. Parse has already validated it.
func (c *Config) Schema() *poseschema.Schema {
	return poseschema.MustLookup(c.PoseSchema)
}

// Formulation returns the configured angle formulation. Parse has already validated it.
func (c *Config) Formulation() angleutil.Formulation {
	f, _ := angleutil.ParseFormulation(c.PoseAngleFormulation)
	return f
}
