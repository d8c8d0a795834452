package analysis

import (
	"math"
	"math/cmplx"
)

// FFT is a radix-2 transform; len(data) must be a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// Detrend subtracts the mean and zero-pads to the next power of two, so a
// population series can go straight into PowerSpectrum.
func Detrend(series []float64) []float64 {
	n := 1
	for n < len(series) {
		n *= 2
	}
	out := make([]float64, n)
	if len(series) == 0 {
		return out
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))
	for i, v := range series {
		out[i] = v - mean
	}
	return out
}

// DominantFrequency returns the strongest non-zero frequency in Hz of a
// series sampled every dt seconds, and its power. A flat series reports 0.
func DominantFrequency(series []float64, dt float64) (freq, power float64) {
	if len(series) < 4 || dt <= 0 {
		return 0, 0
	}
	padded := Detrend(series)
	ps := PowerSpectrum(padded)
	best := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > power {
			power = ps[i]
			best = i
		}
	}
	if best == 0 {
		return 0, 0
	}
	return float64(best) / (float64(len(padded)) * dt), power
}
