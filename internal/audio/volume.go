package audio

import "math"

// Gain maps a 0-100 volume percentage onto a linear amplitude factor in
// [0, 1] along an exponential curve, so equal slider steps sound roughly
// equally loud.
func Gain(percent int) float64 {
	p := float64(clampPercent(percent)) / 100
	return (math.Exp(p) - 1) / (math.E - 1)
}

// volumeLevel converts a percentage into the exponent used by a base-2
// effects.Volume, reporting silent for zero.
func volumeLevel(percent int) (level float64, silent bool) {
	g := Gain(percent)
	if g <= 0 {
		return 0, true
	}
	return math.Log2(g), false
}

func clampPercent(percent int) int {
	return min(max(percent, 0), 100)
}
