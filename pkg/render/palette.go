package render

import (
	"image/color"
	"math"
	"math/rand"
)

// goldenRatio conjugate, used to spread hues evenly across the wheel.
const goldenRatio = 0.618033988749895

// Palette generates vibrant fallback colors for element types outside
// the fixed table. Colors are stable for a given seed, so annotations
// within one run are reproducible without any package-level state.
type Palette struct {
	rng *rand.Rand
}

// NewPalette creates a palette seeded for one annotation run.
func NewPalette(seed int64) *Palette {
	return &Palette{rng: rand.New(rand.NewSource(seed))}
}

// Next returns a vibrant color: a golden-ratio-stepped hue with
// saturation and value each drawn from [0.85, 1.0].
func (p *Palette) Next() color.NRGBA {
	hue := math.Mod(p.rng.Float64()+goldenRatio, 1.0)
	saturation := 0.85 + p.rng.Float64()*0.15
	value := 0.85 + p.rng.Float64()*0.15

	r, g, b := hsvToRGB(hue, saturation, value)
	return color.NRGBA{R: r, G: g, B: b, A: 0xFF}
}

// hsvToRGB converts HSV in [0,1] to 8-bit RGB.
func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}

	return uint8(r * 255), uint8(g * 255), uint8(b * 255)
}
