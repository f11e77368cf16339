package sim

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewNucleationConfig_FieldEquivalence(t *testing.T) {
	got := NewNucleationConfig(0.2, 1.5)
	want := NucleationConfig{SeedRadius: 0.2, DfunScale: 1.5, CoverThreshold: RenucleationThreshold}
	assert.Equal(t, want, got)
}

func TestNucleationConfig_Threshold_ZeroMeansDefault(t *testing.T) {
	assert.Equal(t, RenucleationThreshold, NucleationConfig{}.Threshold())
	assert.Equal(t, 7, NucleationConfig{CoverThreshold: 7}.Threshold())
}

func TestNucleationConfig_NegativeScale_WarnsButValid(t *testing.T) {
	// GIVEN captured log output
	var buf bytes.Buffer
	origOutput := logrus.StandardLogger().Out
	origLevel := logrus.GetLevel()
	logrus.SetOutput(&buf)
	logrus.SetLevel(logrus.WarnLevel)
	defer func() {
		logrus.SetOutput(origOutput)
		logrus.SetLevel(origLevel)
	}()

	// WHEN a negative scale is validated
	err := NewNucleationConfig(0.2, -1).Validate()

	// THEN it passes with a warning
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "flip sign")
}

func TestHeaterConfig_Validate(t *testing.T) {
	assert.NoError(t, HeaterConfig{XMin: -1, XMax: 1, NumSites: 3}.Validate())
	assert.Error(t, HeaterConfig{XMin: -1, XMax: 1}.Validate())
	assert.Error(t, HeaterConfig{XMin: 1, XMax: -1, NumSites: 3}.Validate())
}

func TestGridConfig_Build(t *testing.T) {
	g, err := GridConfig{XMin: 0, XMax: 1, YMin: 0, YMax: 2, NX: 3, NY: 5}.Build()
	assert.NoError(t, err)
	rows, cols := g.Dims()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 3, cols)
}
