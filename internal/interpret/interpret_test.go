package interpret

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpretStandardBands(t *testing.T) {
	labels := []string{"Strong Negative", "Weak Negative", "Little or No", "Weak Positive", "Strong Positive"}

	tests := []struct {
		value float64
		want  string
	}{
		{0.8, "Strong Positive Association"},
		{0.7, "Strong Positive Association"},
		{0.69, "Weak Positive Association"},
		{0.3, "Weak Positive Association"},
		{0, "Little or No Association"},
		{-0.3, "Little or No Association"},
		{-0.31, "Weak Negative Association"},
		{-0.7, "Weak Negative Association"},
		{-0.71, "Strong Negative Association"},
		{-1, "Strong Negative Association"},
		{1.5, "Strong Positive Association"},
		{-1.01, " Association"},
	}

	for _, tt := range tests {
		got := Interpret(tt.value, StandardThresholds, labels, " Association")
		assert.Equal(t, tt.want, got, "value %v", tt.value)
	}
}

func TestInterpretNaNReturnsSuffix(t *testing.T) {
	assert.Equal(t, " Association", Phi.Interpret(math.NaN()))
	assert.Equal(t, "", Gamma.Interpret(math.NaN()))
}

func TestInterpretMismatchedLengths(t *testing.T) {
	got := Interpret(5, []float64{0, 1, 2}, []string{"low"}, "!")
	assert.Equal(t, "low!", got)

	assert.Equal(t, "x", Interpret(1, nil, nil, "x"))
}

func TestGammaBands(t *testing.T) {
	assert.Equal(t, "Strong Agreement", Gamma.Interpret(1))
	assert.Equal(t, "Strong Inversion", Gamma.Interpret(-1))
	assert.Equal(t, "No Association", Gamma.Interpret(0.1))
}
