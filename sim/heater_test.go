package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaterInit_SameArguments_IdenticalSites(t *testing.T) {
	// GIVEN two calls with identical arguments
	s1, err := HeaterInit(-5, 5, 40)
	require.NoError(t, err)
	s2, err := HeaterInit(-5, 5, 40)
	require.NoError(t, err)

	// THEN positions are bit-for-bit identical
	assert.Equal(t, s1, s2)
}

func TestHeaterInit_SitesWithinBoundsOnBaseline(t *testing.T) {
	sites, err := HeaterInit(-5, 5, 40)
	require.NoError(t, err)

	require.Equal(t, 40, sites.Len())
	require.Len(t, sites.Y, 40)
	for i := range sites.X {
		assert.GreaterOrEqual(t, sites.X[i], -5.0, "site %d", i)
		assert.LessOrEqual(t, sites.X[i], 5.0, "site %d", i)
		assert.Equal(t, SiteBaseline, sites.Y[i], "site %d", i)
	}
}

func TestHeaterInitWithKey_DefaultKeyMatchesHeaterInit(t *testing.T) {
	s1, err := HeaterInit(0, 2, 12)
	require.NoError(t, err)
	s2, err := HeaterInitWithKey(0, 2, 12, DefaultSimulationKey)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

func TestHeaterInitWithKey_DifferentKeysScrambleDifferently(t *testing.T) {
	s1, err := HeaterInitWithKey(-5, 5, 40, NewSimulationKey(1))
	require.NoError(t, err)
	s2, err := HeaterInitWithKey(-5, 5, 40, NewSimulationKey(2))
	require.NoError(t, err)
	assert.NotEqual(t, s1.X, s2.X)
}

func TestHeaterInit_FirstSixteenSitesStratify(t *testing.T) {
	// GIVEN 16 sites on the unit heater
	sites, err := HeaterInit(0, 1, 16)
	require.NoError(t, err)

	// THEN each of the 16 equal sub-segments holds exactly one site
	// (base-2 low-discrepancy property, preserved by digit scrambling)
	counts := make([]int, 16)
	for _, x := range sites.X {
		bin := int(math.Floor(x * 16))
		require.True(t, bin >= 0 && bin < 16, "x=%v outside [0, 1)", x)
		counts[bin]++
	}
	for bin, c := range counts {
		assert.Equal(t, 1, c, "bin %d", bin)
	}
}

func TestHeaterInit_DegenerateSegment(t *testing.T) {
	sites, err := HeaterInit(2, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 2}, sites.X)
}

func TestHeaterInit_InvalidArguments(t *testing.T) {
	tests := []struct {
		name       string
		xmin, xmax float64
		n          int
	}{
		{"zero sites", 0, 1, 0},
		{"negative sites", 0, 1, -3},
		{"reversed bounds", 1, 0, 4},
		{"nan bound", math.NaN(), 1, 4},
		{"infinite bound", 0, math.Inf(1), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HeaterInit(tt.xmin, tt.xmax, tt.n)
			assert.Error(t, err)
		})
	}
}
