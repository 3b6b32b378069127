// dsp_biquad.go - state-variable and biquad filters (spec.md §2 row B)
//
// The state-variable topology (lp/bp/hp simultaneous outputs, one cutoff +
// resonance pair) is lifted verbatim from audio_chip.go's GenerateSample
// filter stage; factored here into a reusable stateful instance so pipeline
// nodes (Obstruction, Occlusion) can each own one instead of the single
// chip-wide filter the teacher has.

package amplitude

import "math"

// FilterMode selects which state-variable output a StateVariableFilter
// returns from Process.
type FilterMode int

const (
	FilterOff FilterMode = iota
	FilterLowPass
	FilterHighPass
	FilterBandPass
)

// StateVariableFilter is a 2-pole SVF with independent LP/HP/BP taps,
// grounded on audio_chip.go's filterLP/filterBP/filterHP recurrence.
type StateVariableFilter struct {
	Mode      FilterMode
	Cutoff    float32 // normalised 0..1
	Resonance float32 // normalised 0..1

	lp, bp, hp float32
}

// Process runs one sample through the filter and returns the tap selected by
// Mode (the input unchanged when Mode is FilterOff or Cutoff <= 0).
func (f *StateVariableFilter) Process(in float32) float32 {
	if f.Mode == FilterOff || f.Cutoff <= 0 {
		return in
	}
	const cutoffFactor = 2.0 // matches audio_chip.go's CUTOFF_FACTOR intent
	const maxResonance = 0.99
	cutoff := f.Cutoff * cutoffFactor
	resonance := f.Resonance * maxResonance

	lp := f.lp + cutoff*f.bp
	hp := (in - lp) - resonance*f.bp
	bp := f.bp + cutoff*hp

	f.lp = clampf32(lp, -2, 2)
	f.bp = clampf32(bp, -2, 2)
	f.hp = clampf32(hp, -2, 2)

	switch f.Mode {
	case FilterLowPass:
		return f.lp
	case FilterHighPass:
		return f.hp
	case FilterBandPass:
		return f.bp
	default:
		return in
	}
}

// Reset clears the filter's internal state without touching its parameters.
func (f *StateVariableFilter) Reset() {
	f.lp, f.bp, f.hp = 0, 0, 0
}

// BiquadKind selects a standard biquad response, matching
// original_source/src/DSP/Filters/BiquadResonantFilter.h's coefficient forms.
type BiquadKind int

const (
	BiquadLowPass BiquadKind = iota
	BiquadHighPass
	BiquadBandPass
	BiquadPeaking
	BiquadLowShelf
	BiquadHighShelf
)

// Biquad is a direct-form-II transposed biquad, the workhorse behind the
// equalizer (dsp_equalizer.go) and near-field band splitting.
type Biquad struct {
	b0, b1, b2, a1, a2 float32
	z1, z2             float32
}

// NewBiquad designs a biquad for the given kind/frequency/Q/gain (gain only
// used by the shelf/peaking kinds, in dB) at sampleRate.
func NewBiquad(kind BiquadKind, freq, q, gainDB float32, sampleRate int) *Biquad {
	bq := &Biquad{}
	bq.Design(kind, freq, q, gainDB, sampleRate)
	return bq
}

// Design (re)computes the biquad coefficients, leaving filter state intact
// so parameter sweeps do not click.
func (bq *Biquad) Design(kind BiquadKind, freq, q, gainDB float32, sampleRate int) {
	if q <= 0 {
		q = 0.707
	}
	w0 := 2 * math.Pi * float64(freq) / float64(sampleRate)
	cosw0 := math.Cos(w0)
	sinw0 := math.Sin(w0)
	alpha := sinw0 / (2 * float64(q))
	a := math.Pow(10, float64(gainDB)/40)

	var b0, b1, b2, a0, a1, a2 float64
	switch kind {
	case BiquadLowPass:
		b0 = (1 - cosw0) / 2
		b1 = 1 - cosw0
		b2 = (1 - cosw0) / 2
		a0 = 1 + alpha
		a1 = -2 * cosw0
		a2 = 1 - alpha
	case BiquadHighPass:
		b0 = (1 + cosw0) / 2
		b1 = -(1 + cosw0)
		b2 = (1 + cosw0) / 2
		a0 = 1 + alpha
		a1 = -2 * cosw0
		a2 = 1 - alpha
	case BiquadBandPass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
		a0 = 1 + alpha
		a1 = -2 * cosw0
		a2 = 1 - alpha
	case BiquadPeaking:
		b0 = 1 + alpha*a
		b1 = -2 * cosw0
		b2 = 1 - alpha*a
		a0 = 1 + alpha/a
		a1 = -2 * cosw0
		a2 = 1 - alpha/a
	case BiquadLowShelf:
		sq := math.Sqrt(a) * 2 * alpha
		b0 = a * ((a + 1) - (a-1)*cosw0 + sq)
		b1 = 2 * a * ((a - 1) - (a+1)*cosw0)
		b2 = a * ((a + 1) - (a-1)*cosw0 - sq)
		a0 = (a + 1) + (a-1)*cosw0 + sq
		a1 = -2 * ((a - 1) + (a+1)*cosw0)
		a2 = (a + 1) + (a-1)*cosw0 - sq
	case BiquadHighShelf:
		sq := math.Sqrt(a) * 2 * alpha
		b0 = a * ((a + 1) + (a-1)*cosw0 + sq)
		b1 = -2 * a * ((a - 1) + (a+1)*cosw0)
		b2 = a * ((a + 1) + (a-1)*cosw0 - sq)
		a0 = (a + 1) - (a-1)*cosw0 + sq
		a1 = 2 * ((a - 1) - (a+1)*cosw0)
		a2 = (a + 1) - (a-1)*cosw0 - sq
	}

	bq.b0 = float32(b0 / a0)
	bq.b1 = float32(b1 / a0)
	bq.b2 = float32(b2 / a0)
	bq.a1 = float32(a1 / a0)
	bq.a2 = float32(a2 / a0)
}

// Process filters one sample (transposed direct form II).
func (bq *Biquad) Process(in float32) float32 {
	out := bq.b0*in + bq.z1
	bq.z1 = bq.b1*in - bq.a1*out + bq.z2
	bq.z2 = bq.b2*in - bq.a2*out
	return out
}

// Reset clears the biquad's internal state.
func (bq *Biquad) Reset() {
	bq.z1, bq.z2 = 0, 0
}
