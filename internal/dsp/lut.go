// Package dsp provides the shared low-level building blocks used by every
// audio component in the engine: lookup-table trig, one-pole smoothing,
// DC blocking and a portable stereo (f64x2) SIMD-style pair type.
package dsp

import "math"

// Lookup table sizes.
const (
	sinLUTSize  = 8192
	sinLUTMask  = sinLUTSize - 1
	tanhLUTSize = 4096
	tanhLUTMin  = float64(-4.0)
	tanhLUTMax  = float64(4.0)
)

const (
	sinLUTScale  = float64(sinLUTSize) / (2 * math.Pi)
	tanhLUTScale = float64(tanhLUTSize-1) / (tanhLUTMax - tanhLUTMin)
)

var sinLUT [sinLUTSize]float64
var tanhLUT [tanhLUTSize]float64

func init() {
	for i := 0; i < sinLUTSize; i++ {
		phase := float64(i) * 2 * math.Pi / float64(sinLUTSize)
		sinLUT[i] = math.Sin(phase)
	}
	for i := 0; i < tanhLUTSize; i++ {
		x := tanhLUTMin + float64(i)*(tanhLUTMax-tanhLUTMin)/float64(tanhLUTSize-1)
		tanhLUT[i] = math.Tanh(x)
	}
}

// FastSin returns sin(phase) via lookup table with linear interpolation.
// phase is in radians and may be any finite value; it is wrapped internally.
//
// This is the §9 "per-sample trig" substitution: reserved for the VCO/VPS
// audio path. Calibration tests use math.Sin directly.
func FastSin(phase float64) float64 {
	phase = math.Mod(phase, 2*math.Pi)
	if phase < 0 {
		phase += 2 * math.Pi
	}
	indexF := phase * sinLUTScale
	index := int(indexF)
	frac := indexF - float64(index)
	index &= sinLUTMask
	next := (index + 1) & sinLUTMask
	return sinLUT[index] + frac*(sinLUT[next]-sinLUT[index])
}

// FastTanh returns tanh(x) via lookup table with linear interpolation,
// clamped at the lookup table's domain (tanh saturates well before ±4).
func FastTanh(x float64) float64 {
	if x <= tanhLUTMin {
		return -1.0
	}
	if x >= tanhLUTMax {
		return 1.0
	}
	indexF := (x - tanhLUTMin) * tanhLUTScale
	index := int(indexF)
	frac := indexF - float64(index)
	if index >= tanhLUTSize-1 {
		return tanhLUT[tanhLUTSize-1]
	}
	return tanhLUT[index] + frac*(tanhLUT[index+1]-tanhLUT[index])
}

// PolyBLEP returns a polynomial band-limited step correction.
// t is the normalised phase position in [0,1), dt is phase increment per sample.
func PolyBLEP(t, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	if t < dt {
		t /= dt
		return t + t - t*t - 1.0
	} else if t > 1.0-dt {
		t = (t - 1.0) / dt
		return t*t + t + t + 1.0
	}
	return 0.0
}

// WrapPi wraps x into (-pi, pi].
func WrapPi(x float64) float64 {
	x = math.Mod(x+math.Pi, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	return x - math.Pi
}

// Wrap01 wraps x into [0, 1).
func Wrap01(x float64) float64 {
	x = math.Mod(x, 1.0)
	if x < 0 {
		x += 1.0
	}
	return x
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Lerp linearly interpolates between a and b at t in [0,1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
