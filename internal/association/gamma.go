package association

import (
	"gonum.org/v1/gonum/mat"

	domain "edgestats/domain/association"
	"edgestats/domain/contingency"
)

// Pairs counts concordant and discordant ordered cell pairs, weighted by the
// product of the two frequencies. Pairs sharing a row or column count in neither.
type Pairs struct {
	Concordant float64
	Discordant float64
}

// Gamma returns (nc - nd) / (nc + nd), Undefined when there are no untied pairs.
func (p Pairs) Gamma() domain.Value {
	total := p.Concordant + p.Discordant
	if total == 0 {
		return domain.UndefinedValue()
	}
	return domain.Of((p.Concordant - p.Discordant) / total)
}

// Gamma is the Goodman-Kruskal gamma, treating rows and columns as ordered
// categories. It compares every cell against every other cell.
func Gamma(m contingency.Matrix) domain.Value {
	freq, err := m.Frequencies()
	if err != nil {
		return domain.NotApplicableValue()
	}
	return CountPairs(freq).Gamma()
}

// GammaCumulative gives the same result as Gamma using 2-D suffix sums,
// in O(rows*cols) instead of O(rows²*cols²).
func GammaCumulative(m contingency.Matrix) domain.Value {
	freq, err := m.Frequencies()
	if err != nil {
		return domain.NotApplicableValue()
	}
	return CountPairsCumulative(freq).Gamma()
}

// CountPairs enumerates every ordered pair of cells.
func CountPairs(freq *mat.Dense) Pairs {
	rows, cols := freq.Dims()
	var p Pairs
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			fij := freq.At(i, j)
			for x := 0; x < rows; x++ {
				for y := 0; y < cols; y++ {
					switch concordance := (x - i) * (y - j); {
					case concordance > 0:
						p.Concordant += fij * freq.At(x, y)
					case concordance < 0:
						p.Discordant += fij * freq.At(x, y)
					}
				}
			}
		}
	}
	return p
}

// CountPairsCumulative produces the same ordered-pair counts as CountPairs.
// below[i][j] sums cells at rows >= i and columns >= j; belowLeft[i][j+1]
// sums cells at rows >= i and columns <= j.
func CountPairsCumulative(freq *mat.Dense) Pairs {
	rows, cols := freq.Dims()
	width := cols + 1
	below := make([]float64, (rows+1)*width)
	belowLeft := make([]float64, (rows+1)*width)
	at := func(grid []float64, i, j int) float64 { return grid[i*width+j] }

	for i := rows - 1; i >= 0; i-- {
		for j := cols - 1; j >= 0; j-- {
			below[i*width+j] = freq.At(i, j) + at(below, i+1, j) + at(below, i, j+1) - at(below, i+1, j+1)
		}
		for j := 0; j < cols; j++ {
			belowLeft[i*width+j+1] = freq.At(i, j) + at(belowLeft, i+1, j+1) + at(belowLeft, i, j) - at(belowLeft, i+1, j)
		}
	}

	var p Pairs
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			fij := freq.At(i, j)
			p.Concordant += fij * at(below, i+1, j+1)
			p.Discordant += fij * at(belowLeft, i+1, j)
		}
	}
	// each unordered pair is seen once here and twice by CountPairs
	p.Concordant *= 2
	p.Discordant *= 2
	return p
}
