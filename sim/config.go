package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// HeaterConfig groups the heater segment and site count.
type HeaterConfig struct {
	XMin     float64 `yaml:"x_min"`     // heater start
	XMax     float64 `yaml:"x_max"`     // heater end (must be >= x_min)
	NumSites int     `yaml:"num_sites"` // number of nucleation sites (must be > 0)
}

// GridConfig describes a uniform structured mesh.
type GridConfig struct {
	XMin float64 `yaml:"x_min"`
	XMax float64 `yaml:"x_max"`
	YMin float64 `yaml:"y_min"`
	YMax float64 `yaml:"y_max"`
	NX   int     `yaml:"nx"` // points along x (>= 2)
	NY   int     `yaml:"ny"` // points along y (>= 2)
}

// NucleationConfig groups seed geometry and the re-seeding policy.
type NucleationConfig struct {
	SeedRadius     float64 `yaml:"seed_radius"`     // radius of every seed (must be > 0)
	DfunScale      float64 `yaml:"dfun_scale"`      // divisor applied to re-seeded contributions (non-zero)
	CoverThreshold int     `yaml:"cover_threshold"` // consecutive covered evaluations before re-seeding (0 = RenucleationThreshold)
}

// NewNucleationConfig creates a NucleationConfig with the default threshold.
func NewNucleationConfig(seedRadius, dfunScale float64) NucleationConfig {
	return NucleationConfig{
		SeedRadius:     seedRadius,
		DfunScale:      dfunScale,
		CoverThreshold: RenucleationThreshold,
	}
}

// Threshold returns the effective re-seeding threshold.
func (c NucleationConfig) Threshold() int {
	if c.CoverThreshold == 0 {
		return RenucleationThreshold
	}
	return c.CoverThreshold
}

// Validate checks the nucleation parameters.
func (c NucleationConfig) Validate() error {
	if err := validateRadius(c.SeedRadius); err != nil {
		return err
	}
	if err := validateScale(c.DfunScale); err != nil {
		return err
	}
	if c.CoverThreshold < 0 {
		return fmt.Errorf("cover_threshold must be non-negative, got %d", c.CoverThreshold)
	}
	if c.DfunScale < 0 {
		logrus.Warnf("dfun_scale %v is negative; re-seeded contributions will flip sign", c.DfunScale)
	}
	return nil
}

// Validate checks the heater parameters.
func (c HeaterConfig) Validate() error {
	if c.NumSites <= 0 {
		return fmt.Errorf("num_sites must be positive, got %d", c.NumSites)
	}
	if math.IsNaN(c.XMin) || math.IsNaN(c.XMax) || c.XMax < c.XMin {
		return fmt.Errorf("heater x_max (%v) must not be less than x_min (%v)", c.XMax, c.XMin)
	}
	return nil
}

// Build constructs the uniform grid described by c.
func (c GridConfig) Build() (*Grid, error) {
	return NewUniformGrid(c.XMin, c.XMax, c.YMin, c.YMax, c.NX, c.NY)
}
