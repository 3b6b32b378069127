// dsp_waveshaper.go - overdrive / soft-clip wave shaping (spec.md §2 row B,
// §4.10 Clip node)
//
// The tanh-based overdrive in audio_chip.go's GenerateSample and the cubic
// soft-knee clip from spec.md §4.7's Clip node are both "wave shapers" in
// the upstream taxonomy (original_source/src/Sound/Filters/WaveShaperFilter.h);
// this file hosts both as small stateless functions plus one stateful
// instance wrapper for use as a pipeline/DSP-library entry.

package amplitude

import "math"

// WaveShaperKind selects a shaping curve.
type WaveShaperKind int

const (
	ShaperTanh WaveShaperKind = iota
	ShaperSoftClipCubic
)

// WaveShaper applies Kind with the given Drive (meaning depends on Kind).
type WaveShaper struct {
	Kind  WaveShaperKind
	Drive float32
}

// Process shapes one sample.
func (w *WaveShaper) Process(in float32) float32 {
	switch w.Kind {
	case ShaperTanh:
		return tanhShape(in, w.Drive)
	case ShaperSoftClipCubic:
		return softClipCubic(in)
	default:
		return in
	}
}

// tanhShape matches audio_chip.go's overdrive stage: sample*drive run
// through tanh.
func tanhShape(in, drive float32) float32 {
	if drive <= 0 {
		return in
	}
	return float32(math.Tanh(float64(in * drive)))
}

// softClipCubic implements the Clip pipeline node's soft-knee cubic from
// spec.md §4.7: linear+cubic inside [-1.65, 1.65], hard-limited beyond.
func softClipCubic(x float32) float32 {
	const knee = 1.65
	const limit = 0.9862875
	if x >= -knee && x <= knee {
		return 0.87*x - 0.1*x*x*x
	}
	if x > 0 {
		return limit
	}
	return -limit
}
