// Package stats holds the statistics used to flag abnormally slow tests.
package stats

import (
	"slices"
	"time"
)

// minSamples is the smallest sample that yields meaningful quartiles.
const minSamples = 4

// IQRMultiplier scales the inter-quartile range above Q3. Box plots use 1.5,
// test run times are more spread out than that.
const IQRMultiplier = 3

// SlowCutoff returns the duration above which a test counts as a slow outlier:
// Q3 + 3*IQR of the given durations. It returns false when there are fewer than
// four samples or when no sample exceeds the cutoff. The input is not modified.
func SlowCutoff(durations []time.Duration) (time.Duration, bool) {
	n := len(durations)
	if n < minSamples {
		return 0, false
	}

	times := slices.Clone(durations)
	slices.Sort(times)

	qlen := n / 4
	q1 := times[qlen]
	q3 := times[n-1-qlen]
	cut := q3 + (q3-q1)*IQRMultiplier
	if cut > times[n-1] {
		return 0, false
	}
	return cut, true
}

// Outliers returns the indices of durations strictly above the slow cutoff.
func Outliers(durations []time.Duration) []int {
	cut, ok := SlowCutoff(durations)
	if !ok {
		return nil
	}
	var idx []int
	for i, d := range durations {
		if d > cut {
			idx = append(idx, i)
		}
	}
	return idx
}
