package amplitude

import (
	"math"
	"testing"
)

func TestEqualizerFlatBandsPassDCThroughAfterSettling(t *testing.T) {
	const sampleRate = 48000
	eq := NewEqualizer(sampleRate)

	var last float32
	for i := 0; i < 4096; i++ {
		last = eq.Process(1)
	}
	if math.Abs(float64(last-1)) > 1e-3 {
		t.Errorf("flat (0dB) 3-band EQ settled DC output = %v, want ~1", last)
	}
}

func TestEqualizerSetBandGainOutOfRangeIsNoOp(t *testing.T) {
	eq := NewEqualizer(48000)
	before := eq.gains
	eq.SetBandGain(-1, 6, 48000)
	eq.SetBandGain(EqualizerBandCount, 6, 48000)
	if eq.gains != before {
		t.Errorf("SetBandGain with an out-of-range band index must not change gains, got %v want %v", eq.gains, before)
	}
}

func TestEqualizerBoostedBandRaisesGainAtItsCenter(t *testing.T) {
	const sampleRate = 48000
	flat := NewEqualizer(sampleRate)
	boosted := NewEqualizer(sampleRate)
	boosted.SetBandGain(1, 12, sampleRate) // +12dB at 1kHz, the test tone's frequency

	rms := func(eq *Equalizer) float64 {
		var sumSq float64
		const n = 4000
		for i := 0; i < n; i++ {
			s := float32(math.Sin(2 * math.Pi * 1000 * float64(i) / float64(sampleRate)))
			out := eq.Process(s)
			if i >= n/2 {
				sumSq += float64(out) * float64(out)
			}
		}
		return sumSq
	}

	flatEnergy := rms(flat)
	boostedEnergy := rms(boosted)
	if boostedEnergy <= flatEnergy {
		t.Errorf("a +12dB boost at 1kHz should raise energy of a 1kHz tone: boosted=%v flat=%v", boostedEnergy, flatEnergy)
	}
}

func TestEqualizerResetClearsBandState(t *testing.T) {
	eq := NewEqualizer(48000)
	for i := 0; i < 16; i++ {
		eq.Process(1)
	}
	eq.Reset()
	for _, b := range eq.bands {
		if b.z1 != 0 || b.z2 != 0 {
			t.Errorf("Reset left a band with non-zero state z1=%v z2=%v", b.z1, b.z2)
		}
	}
}
