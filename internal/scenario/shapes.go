package scenario

import (
	"math/rand"

	"stf-simulator/internal/models"
)

// linear interpolates start..end over horizon months. The final point is
// set to end exactly.
func linear(start, end float64, horizon int) []float64 {
	rates := make([]float64, horizon+1)
	for i := 0; i < horizon; i++ {
		rates[i] = start + (end-start)*float64(i)/float64(horizon)
	}
	rates[horizon] = end
	return rates
}

func shock(start, magnitude float64, shockMonth, horizon int) []float64 {
	shocked := start * (1 + magnitude)
	rates := make([]float64, horizon+1)
	for i := range rates {
		if i < shockMonth {
			rates[i] = start
		} else {
			rates[i] = shocked
		}
	}
	return rates
}

// drift is the linear path with bounded multiplicative noise on the interior
// points. Both endpoints stay anchored.
func drift(start, end float64, horizon int, amplitude float64, noise *rand.Rand) []float64 {
	rates := linear(start, end, horizon)
	if noise == nil {
		return rates
	}
	for i := 1; i < horizon; i++ {
		rates[i] *= 1 + amplitude*(2*noise.Float64()-1)
	}
	return rates
}

// crisis holds a calm phase of CalmMonths months drifting by -CalmDrift per
// month, then depreciates linearly to EndRate by the last month.
func crisis(spec models.ScenarioSpec, noise *rand.Rand) []float64 {
	h, c := spec.HorizonMonths, spec.CalmMonths
	rates := make([]float64, h+1)
	for i := 0; i <= c; i++ {
		rates[i] = spec.StartRate - spec.CalmDrift*float64(i)
	}
	if noise != nil {
		for i := 1; i <= c; i++ {
			rates[i] *= 1 + spec.NoiseAmplitude*(2*noise.Float64()-1)
		}
	}
	calmEnd := rates[c]
	for i := c + 1; i < h; i++ {
		rates[i] = calmEnd + (spec.EndRate-calmEnd)*float64(i-c)/float64(h-c)
	}
	rates[h] = spec.EndRate
	return rates
}
