// Package profiling summarizes how an association measure is distributed
// across the edges of an answer set.
package profiling

import (
	"github.com/montanaflynn/stats"
)

// Distribution is the summary of one measure over many edges
type Distribution struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Outliers int     `json:"outliers"`
}

// Summarize describes data. It returns nil for an empty sample so callers can
// omit the field instead of reporting zeros.
func Summarize(data []float64) *Distribution {
	if len(data) == 0 {
		return nil
	}

	d := &Distribution{Count: len(data)}
	var err error
	if d.Mean, err = stats.Mean(data); err != nil {
		return nil
	}
	if d.StdDev, err = stats.StandardDeviation(data); err != nil {
		return nil
	}
	if d.Min, err = stats.Min(data); err != nil {
		return nil
	}
	if d.Max, err = stats.Max(data); err != nil {
		return nil
	}
	if d.Median, err = stats.Median(data); err != nil {
		return nil
	}

	// Quartiles for IQR-based outlier detection
	if d.Q25, err = stats.Percentile(data, 25); err != nil {
		return nil
	}
	if d.Q75, err = stats.Percentile(data, 75); err != nil {
		return nil
	}
	d.Outliers = detectOutliers(data, d.Q25, d.Q75)
	return d
}

// detectOutliers counts values outside 1.5 IQR of the quartiles
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}
	return outlierCount
}
