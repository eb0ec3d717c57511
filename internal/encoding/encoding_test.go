package encoding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "edgestats/domain/association"
)

func TestGammaGradient(t *testing.T) {
	tests := []struct {
		gamma float64
		want  RGB
	}{
		{-1, RGB{230, 0, 0}},
		{0, RGB{0, 0, 0}},
		{1, RGB{0, 0, 230}},
		{0.5, RGB{0, 0, 115}},
		{-0.5, RGB{115, 0, 0}},
		{2, RGB{0, 0, 230}},
		{-3, RGB{230, 0, 0}},
	}

	for _, tt := range tests {
		got, ok := GammaGradient.At(tt.gamma)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, "gamma %v", tt.gamma)
	}

	_, ok := GammaGradient.At(math.NaN())
	assert.False(t, ok)
}

func TestRGB(t *testing.T) {
	c := RGB{230, 0, 15}
	assert.Equal(t, "e6000f", c.Hex())
	assert.Equal(t, RGB{250, 20, 35}, c.Brighten(20))
	assert.Equal(t, RGB{255, 40, 55}, c.Brighten(40))
	assert.Equal(t, RGB{200, 0, 0}, c.Brighten(-30))
}

func TestWidthScale(t *testing.T) {
	s := DefaultWidthScale()

	w, ok := s.Width(0.2)
	require.True(t, ok)
	assert.InDelta(t, 0.6, w, 1e-12)

	w, _ = s.Width(0.0007)
	assert.Equal(t, 10.0, w)

	w, _ = s.Width(0.9)
	assert.Equal(t, 0.5, w)

	_, ok = s.Width(0)
	assert.False(t, ok)
	_, ok = s.Width(math.NaN())
	assert.False(t, ok)

	s.Bounds = [2]float64{4, 1}
	w, _ = s.Width(0.5)
	assert.Equal(t, 1.0, w)
}

func TestEncoderEncode(t *testing.T) {
	stats := domain.Statistics{
		Gamma:  domain.Of(1),
		PValue: domain.Of(0.2),
	}

	style := NewEncoder(DefaultConfig()).Encode(stats)
	assert.Equal(t, "#0000e6", style.Color)
	assert.Equal(t, "#1414fa", style.Highlight)
	assert.Equal(t, style.Highlight, style.Hover)
	require.NotNil(t, style.Width)
	assert.InDelta(t, 0.6, *style.Width, 1e-12)
}

func TestEncoderSkipsUnavailable(t *testing.T) {
	stats := domain.Statistics{
		Gamma:  domain.UndefinedValue(),
		PValue: domain.NotApplicableValue(),
	}
	assert.Equal(t, EdgeStyle{}, NewEncoder(DefaultConfig()).Encode(stats))
}

func TestEncoderDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GradientColoring = false
	cfg.PValueScaling = false

	stats := domain.Statistics{Gamma: domain.Of(-0.4), PValue: domain.Of(0.01)}
	assert.Equal(t, EdgeStyle{}, NewEncoder(cfg).Encode(stats))
}
