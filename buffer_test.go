package amplitude

import (
	"math"
	"testing"
)

func TestInterleaveDeinterleaveRoundTrip(t *testing.T) {
	const frames, channels = 16, 2
	b := NewAudioBuffer(channels, frames)
	for c := 0; c < channels; c++ {
		for f := 0; f < frames; f++ {
			b.Channels[c][f] = float32(c*100 + f)
		}
	}
	interleaved := make([]float32, frames*channels)
	b.Interleave(interleaved)

	roundTripped := NewAudioBuffer(channels, frames)
	roundTripped.Deinterleave(interleaved)

	for c := 0; c < channels; c++ {
		for f := 0; f < frames; f++ {
			if b.Channels[c][f] != roundTripped.Channels[c][f] {
				t.Fatalf("channel %d frame %d: got %v, want %v", c, f, roundTripped.Channels[c][f], b.Channels[c][f])
			}
		}
	}
}

func TestAudioBufferValidateDetectsChannelMismatch(t *testing.T) {
	b := NewAudioBuffer(2, 8)
	if err := b.Validate(); err != nil {
		t.Fatalf("freshly allocated buffer should validate: %v", err)
	}
	b.Channels[1] = b.Channels[1][:4]
	if err := b.Validate(); err == nil {
		t.Errorf("Validate must reject a channel whose length diverges from FrameCount")
	}
}

func TestAudioBufferClearZeroesInPlace(t *testing.T) {
	b := NewAudioBuffer(1, 4)
	for i := range b.Channels[0] {
		b.Channels[0][i] = 1
	}
	b.Clear()
	for i, v := range b.Channels[0] {
		if v != 0 {
			t.Errorf("Clear left a nonzero sample at %d: %v", i, v)
		}
	}
}

func TestEmptyBufferReportsEmpty(t *testing.T) {
	var b AudioBuffer
	if !b.Empty() {
		t.Errorf("zero-value AudioBuffer must report Empty")
	}
	full := NewAudioBuffer(1, 1)
	if full.Empty() {
		t.Errorf("a buffer with frames must not report Empty")
	}
}

func TestFFTInverseRoundTrip(t *testing.T) {
	const n = 1024
	plan, err := NewFFTPlan(n)
	if err != nil {
		t.Fatalf("NewFFTPlan: %v", err)
	}
	in := make([]float32, n)
	for i := range in {
		in[i] = float32(math.Sin(2 * math.Pi * 7 * float64(i) / n))
	}
	spec := NewSplitComplex(n)
	plan.Forward(in, spec)
	out := make([]float32, n)
	plan.Inverse(spec, out)

	// The underlying real-FFT plan's Inverse is unnormalized (Forward then
	// Inverse scales the signal by n); every caller (convolver.go,
	// dsp_fft_filter.go) divides by n after calling Inverse.
	var sumSq float64
	for i := range in {
		d := float64(in[i]) - float64(out[i])/float64(n)
		sumSq += d * d
	}
	rms := math.Sqrt(sumSq / n)
	if rms > 1e-6 {
		t.Errorf("FFT/IFFT round-trip RMS error = %v, want <= 1e-6", rms)
	}
}
