// Package encoding turns association statistics into edge styling for the graph viewer:
// gamma drives a red-black-blue color gradient and the p-value drives edge width.
package encoding

import (
	"fmt"
	"math"

	domain "edgestats/domain/association"
)

// RGB is an 8-bit color.
type RGB [3]uint8

// Hex renders the color as six lowercase hex digits.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02x%02x%02x", c[0], c[1], c[2])
}

// Brighten adds amount to every channel, saturating at 255.
func (c RGB) Brighten(amount int) RGB {
	var out RGB
	for i, v := range c {
		out[i] = uint8(min(255, max(0, int(v)+amount)))
	}
	return out
}

// GammaStops maps gamma -1, 0 and 1 to red, black and blue.
var GammaStops = []RGB{{230, 0, 0}, {0, 0, 0}, {0, 0, 230}}

// Gradient interpolates linearly between evenly spaced color stops.
type Gradient struct {
	Stops []RGB
	Low   float64
	High  float64
}

// GammaGradient covers the gamma range [-1, 1].
var GammaGradient = Gradient{Stops: GammaStops, Low: -1, High: 1}

// At returns the color for v. Values outside [Low, High] are clamped; NaN has no color.
func (g Gradient) At(v float64) (RGB, bool) {
	if math.IsNaN(v) || len(g.Stops) == 0 || g.High <= g.Low {
		return RGB{}, false
	}
	if len(g.Stops) == 1 {
		return g.Stops[0], true
	}
	t := (math.Min(math.Max(v, g.Low), g.High) - g.Low) / (g.High - g.Low)
	pos := t * float64(len(g.Stops)-1)
	start := int(math.Floor(pos))
	end := int(math.Ceil(pos))
	local := pos - float64(start)

	var out RGB
	for i := range out {
		a, b := float64(g.Stops[start][i]), float64(g.Stops[end][i])
		out[i] = uint8(math.Floor(a + local*(b-a)))
	}
	return out, true
}

// WidthScale maps a p-value to an edge width: ((1/p) - 1) * Factor, halved by
// Damping once it exceeds Alpha, then clamped to the bounds.
type WidthScale struct {
	Bounds  [2]float64
	Alpha   float64
	Factor  float64
	Damping float64
}

func DefaultWidthScale() WidthScale {
	return WidthScale{
		Bounds:  [2]float64{0.5, 10},
		Alpha:   0.1,
		Factor:  0.3,
		Damping: 0.5,
	}
}

// Width returns false for a missing, non-positive or NaN p-value. Bounds may be
// given in either order.
func (w WidthScale) Width(p float64) (float64, bool) {
	if math.IsNaN(p) || p <= 0 {
		return 0, false
	}
	width := (1/p - 1) * w.Factor
	if width > w.Alpha {
		width *= w.Damping
	}
	lo := math.Min(w.Bounds[0], w.Bounds[1])
	hi := math.Max(w.Bounds[0], w.Bounds[1])
	return math.Max(math.Min(width, hi), lo), true
}

// EdgeStyle is the visual encoding of one edge. Empty fields keep the viewer's default.
type EdgeStyle struct {
	Color     string   `json:"color,omitempty"`
	Highlight string   `json:"highlight,omitempty"`
	Hover     string   `json:"hover,omitempty"`
	Width     *float64 `json:"width,omitempty"`
}

// Config toggles the two encodings.
type Config struct {
	GradientColoring bool
	PValueScaling    bool
	HighlightBoost   int
	Scale            WidthScale
}

func DefaultConfig() Config {
	return Config{
		GradientColoring: true,
		PValueScaling:    true,
		HighlightBoost:   20,
		Scale:            DefaultWidthScale(),
	}
}

// Encoder styles edges from their statistics.
type Encoder struct {
	cfg      Config
	gradient Gradient
}

func NewEncoder(cfg Config) *Encoder {
	return &Encoder{cfg: cfg, gradient: GammaGradient}
}

// Encode colors by gamma and sizes by p-value, each only when available.
func (e *Encoder) Encode(s domain.Statistics) EdgeStyle {
	var style EdgeStyle
	if e.cfg.GradientColoring {
		if g, ok := s.Gamma.Get(); ok {
			if c, ok := e.gradient.At(g); ok {
				bright := c.Brighten(e.cfg.HighlightBoost)
				style.Color = "#" + c.Hex()
				style.Highlight = "#" + bright.Hex()
				style.Hover = "#" + bright.Hex()
			}
		}
	}
	if e.cfg.PValueScaling {
		if p, ok := s.PValue.Get(); ok {
			if w, ok := e.cfg.Scale.Width(p); ok {
				style.Width = &w
			}
		}
	}
	return style
}
