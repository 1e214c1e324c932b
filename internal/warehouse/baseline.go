//-------------------------------------------------------------------------
//
// Athletics Data Warehouse Loader
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"math"
	"sort"
)

// Baseline thresholds. A venue/event pair needs enough performances for a
// trustworthy mean, both before and after outlier removal.
const (
	baselineMinSamples  = 10
	baselineMinFiltered = 8
	baselineMinMean     = 10.0
	advantageClamp      = 9999.0
)

// BaselineKey identifies one venue/event scoring population.
type BaselineKey struct {
	VenueKey int32
	EventKey int32
}

// ComputeBaselines derives the outlier-filtered mean performance score per
// venue/event pair. Pairs that fail the sample-size or mean thresholds get
// no baseline and their performances report zero advantage.
func ComputeBaselines(scores map[BaselineKey][]float64) map[BaselineKey]float64 {
	baselines := make(map[BaselineKey]float64)

	for key, values := range scores {
		if len(values) < baselineMinSamples {
			continue
		}

		sorted := make([]float64, len(values))
		copy(sorted, values)
		sort.Float64s(sorted)

		q1 := quantile(sorted, 0.25)
		q3 := quantile(sorted, 0.75)
		iqr := q3 - q1
		lower := q1 - 1.5*iqr
		upper := q3 + 1.5*iqr

		var sum float64
		var count int
		for _, v := range sorted {
			if v >= lower && v <= upper {
				sum += v
				count++
			}
		}
		if count < baselineMinFiltered {
			continue
		}

		mean := sum / float64(count)
		if mean > baselineMinMean {
			baselines[key] = mean
		}
	}

	return baselines
}

// PerformanceAdvantage is the percentage delta of a score against its
// venue/event baseline, clamped to +-9999. No baseline means no reliable
// comparison, reported as zero.
func PerformanceAdvantage(score float64, baseline float64, ok bool) float64 {
	if !ok || baseline <= baselineMinMean {
		return 0
	}
	advantage := (score - baseline) / baseline * 100
	return math.Max(-advantageClamp, math.Min(advantageClamp, advantage))
}

// quantile interpolates linearly between order statistics; input must be
// sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
