//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoresAround(mean float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + float64(i%5) - 2
	}
	return out
}

func TestComputeBaselines(t *testing.T) {
	key := BaselineKey{VenueKey: 3, EventKey: 7}
	scores := map[BaselineKey][]float64{
		key: scoresAround(1000, 20),
	}

	baselines := ComputeBaselines(scores)
	require.Contains(t, baselines, key)
	assert.InDelta(t, 1000.0, baselines[key], 1.0)
}

func TestComputeBaselinesTooFewSamples(t *testing.T) {
	key := BaselineKey{VenueKey: 1, EventKey: 1}
	baselines := ComputeBaselines(map[BaselineKey][]float64{
		key: scoresAround(1000, 9),
	})
	assert.NotContains(t, baselines, key)
}

func TestComputeBaselinesOutlierRemoval(t *testing.T) {
	key := BaselineKey{VenueKey: 2, EventKey: 2}
	values := scoresAround(1000, 19)
	values = append(values, 50000) // far outside the IQR fences

	baselines := ComputeBaselines(map[BaselineKey][]float64{key: values})
	require.Contains(t, baselines, key)
	assert.InDelta(t, 1000.0, baselines[key], 2.0)
}

func TestComputeBaselinesLowMeanRejected(t *testing.T) {
	key := BaselineKey{VenueKey: 4, EventKey: 4}
	values := make([]float64, 15)
	for i := range values {
		values[i] = 5.0
	}
	baselines := ComputeBaselines(map[BaselineKey][]float64{key: values})
	assert.NotContains(t, baselines, key)
}

func TestPerformanceAdvantage(t *testing.T) {
	assert.InDelta(t, 10.0, PerformanceAdvantage(1100, 1000, true), 0.0001)
	assert.InDelta(t, -10.0, PerformanceAdvantage(900, 1000, true), 0.0001)
	assert.Equal(t, 0.0, PerformanceAdvantage(1100, 0, false))
	assert.Equal(t, 0.0, PerformanceAdvantage(1100, 5, true))

	// Extreme ratios are clamped
	assert.Equal(t, 9999.0, PerformanceAdvantage(1e9, 100, true))
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 1.0, quantile(sorted, 0))
	assert.Equal(t, 3.0, quantile(sorted, 0.5))
	assert.Equal(t, 5.0, quantile(sorted, 1))
	assert.InDelta(t, 2.0, quantile(sorted, 0.25), 0.0001)

	assert.Equal(t, 0.0, quantile(nil, 0.5))
	assert.Equal(t, 7.0, quantile([]float64{7}, 0.9))
}

func TestDateKey(t *testing.T) {
	d := time.Date(2023, time.August, 19, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, int32(20230819), DateKey(d))

	d = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, int32(20000101), DateKey(d))
}

func TestChampionshipYear(t *testing.T) {
	assert.True(t, isChampionshipYear(2023))
	assert.False(t, isChampionshipYear(2024))
}
