// Package interpret maps a continuous statistic onto a labeled band.
package interpret

import "math"

// Bands is an ascending list of lower bounds with a label per bound.
type Bands struct {
	Thresholds []float64
	Labels     []string
	Suffix     string
}

// StandardThresholds are the lower bounds shared by the phi and gamma bands.
var StandardThresholds = []float64{-1, -0.7, -0.3, 0.3, 0.7}

// Phi labels association strength for the phi coefficient.
var Phi = Bands{
	Thresholds: StandardThresholds,
	Labels:     []string{"Strong Negative", "Weak Negative", "Little or No", "Weak Positive", "Strong Positive"},
	Suffix:     " Association",
}

// Gamma labels ordinal agreement for the Goodman-Kruskal gamma.
var Gamma = Bands{
	Thresholds: StandardThresholds,
	Labels:     []string{"Strong Inversion", "Weak Inversion", "No Association", "Weak Agreement", "Strong Agreement"},
}

// Interpret returns the label of the greatest threshold <= value followed by
// suffix. Values below every threshold, and NaN, yield the suffix alone.
func Interpret(value float64, thresholds []float64, labels []string, suffix string) string {
	if math.IsNaN(value) {
		return suffix
	}
	n := len(thresholds)
	if len(labels) < n {
		n = len(labels)
	}
	label := ""
	for i := 0; i < n; i++ {
		if thresholds[i] > value {
			break
		}
		label = labels[i]
	}
	return label + suffix
}

// Interpret applies the bands to value.
func (b Bands) Interpret(value float64) string {
	return Interpret(value, b.Thresholds, b.Labels, b.Suffix)
}
