// Package association computes measures of association for a contingency table
// attached to a knowledge-graph edge.
//
// Every function is pure: it takes the matrix (and, for the chi-square based
// measures, the upstream chi-square) and returns a tagged value. Nothing here
// panics or returns an error; an unusable table yields NotApplicable and a
// degenerate one yields Undefined.
package association

import (
	"math"

	"gonum.org/v1/gonum/mat"

	domain "edgestats/domain/association"
	"edgestats/domain/contingency"
)

// Compute evaluates every statistic for one edge.
func Compute(attrs contingency.EdgeAttributes) domain.Statistics {
	m := attrs.FeatureMatrix
	chi := ChiSquare(attrs)

	s := domain.Statistics{
		ValidMatrix:        m.IsValid(),
		ChiSquare:          chi,
		PValue:             PValue(attrs),
		Phi:                Phi(m),
		Gamma:              Gamma(m),
		PearsonContingency: PearsonContingency(m, chi),
		CramersV:           CramersV(m, chi),
		CramersVCorrected:  CramersVCorrected(m, chi),
		SampleSize:         domain.NotApplicableValue(),
	}
	if freq, err := m.Frequencies(); err == nil {
		s.Rows, s.Columns = freq.Dims()
		// huge finite frequencies can still overflow the sum
		s.SampleSize = domain.Of(mat.Sum(freq))
	}
	return s
}

// ChiSquare passes the upstream chi-square through; absent is NotApplicable.
func ChiSquare(attrs contingency.EdgeAttributes) domain.Value {
	return domain.FromPointer(attrs.ChiSquared)
}

// PValue passes the upstream p-value through; absent is NotApplicable.
func PValue(attrs contingency.EdgeAttributes) domain.Value {
	return domain.FromPointer(attrs.PValue)
}

// Phi is (ad - bc) / sqrt((a+b)(c+d)(a+c)(b+d)) for a 2x2 table. A table with
// any empty cell is Undefined.
func Phi(m contingency.Matrix) domain.Value {
	freq, err := m.Frequencies()
	if err != nil {
		return domain.NotApplicableValue()
	}
	if r, c := freq.Dims(); r != 2 || c != 2 {
		return domain.NotApplicableValue()
	}

	a, b := freq.At(0, 0), freq.At(0, 1)
	c, d := freq.At(1, 0), freq.At(1, 1)
	if a*b*c*d == 0 {
		return domain.UndefinedValue()
	}
	denom := math.Sqrt((a + b) * (c + d) * (a + c) * (b + d))
	return domain.Of((a*d - b*c) / denom)
}

// PearsonContingency is sqrt(chi2 / (N + chi2)).
func PearsonContingency(m contingency.Matrix, chi domain.Value) domain.Value {
	freq, err := m.Frequencies()
	if err != nil || !chi.IsAvailable() {
		return domain.NotApplicableValue()
	}
	x := chi.Float64()
	denom := mat.Sum(freq) + x
	if denom <= 0 {
		return domain.UndefinedValue()
	}
	return domain.Of(math.Sqrt(x / denom))
}

// CramersV is sqrt((chi2 / N) * min(k-1, r-1)). A zero chi-square, an empty
// table or a single row or column is Undefined.
func CramersV(m contingency.Matrix, chi domain.Value) domain.Value {
	freq, err := m.Frequencies()
	if err != nil || !chi.IsAvailable() {
		return domain.NotApplicableValue()
	}
	r, k := freq.Dims()
	n := mat.Sum(freq)
	dim := math.Min(float64(k-1), float64(r-1))
	if n == 0 || chi.Float64() == 0 || dim <= 0 {
		return domain.UndefinedValue()
	}
	return domain.Of(math.Sqrt(chi.Float64() / n * dim))
}

// CramersVCorrected applies the Bergsma small-sample bias correction:
//
//	phiHat = max(0, chi2/N - (k-1)(r-1)/(N-1))
//	kHat   = k - (k-1)^2/(N-1)
//	rHat   = r - (r-1)^2/(N-1)
//	V      = sqrt(phiHat / min(kHat-1, rHat-1))
func CramersVCorrected(m contingency.Matrix, chi domain.Value) domain.Value {
	freq, err := m.Frequencies()
	if err != nil || !chi.IsAvailable() {
		return domain.NotApplicableValue()
	}
	rows, cols := freq.Dims()
	r, k := float64(rows), float64(cols)
	n := mat.Sum(freq)
	if n <= 1 || r <= 1 || k <= 1 || chi.Float64() == 0 {
		return domain.UndefinedValue()
	}

	phiHat := math.Max(0, chi.Float64()/n-(k-1)*(r-1)/(n-1))
	kHat := k - (k-1)*(k-1)/(n-1)
	rHat := r - (r-1)*(r-1)/(n-1)
	denom := math.Min(kHat-1, rHat-1)
	if denom <= 0 {
		return domain.UndefinedValue()
	}
	return domain.Of(math.Sqrt(phiHat / denom))
}
