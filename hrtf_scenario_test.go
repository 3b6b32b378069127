package amplitude

import (
	"math"
	"testing"
)

// TestHRTFBinauralDecoderHardRightProducesStrongerRightEnergy builds an
// HRIR sphere where every rig speaker on the positive-sine (right) side of
// the azimuth circle has an identity impulse on its right ear and silence
// on its left, mirrored for the negative-sine (left) side, and zero on
// both ears for the az=0/pi speakers where side is ambiguous. Decode
// weights for a hard-right source follow amplitude*(1+sin(az)*cos(el)),
// which is strictly larger on the right side than its mirror on the left
// at every ring of the rig, so summed across all 16 speakers the right
// channel must carry substantially more energy than the left.
func TestHRTFBinauralDecoderHardRightProducesStrongerRightEnergy(t *testing.T) {
	const blockSize = 4
	rig := defaultSpeakerRig()
	points := make([]HRIRPoint, len(rig))
	for i, sp := range rig {
		side := math.Sin(sp.Azimuth)
		left := []float32{0}
		right := []float32{0}
		switch {
		case side > 1e-9:
			right = []float32{1}
		case side < -1e-9:
			left = []float32{1}
		}
		points[i] = HRIRPoint{Azimuth: sp.Azimuth, Elevation: sp.Elevation, Left: left, Right: right}
	}
	sphere, err := NewHRIRSphere(points)
	if err != nil {
		t.Fatalf("NewHRIRSphere: %v", err)
	}
	dec, err := NewHRTFBinauralDecoder(1, sphere, blockSize)
	if err != nil {
		t.Fatalf("NewHRTFBinauralDecoder: %v", err)
	}

	enc := NewAmbisonicEncoder(1)
	enc.SetDirection(math.Pi/2, 0)
	enc.SetDirection(math.Pi/2, 0) // settle prevCoeffs == currCoeffs

	mono := make([]float32, blockSize)
	for i := range mono {
		mono[i] = 1
	}
	bFormat := NewAudioBuffer(4, blockSize)
	enc.Process(mono, bFormat)

	stereo := NewAudioBuffer(2, blockSize)
	dec.Process(bFormat, stereo)

	var leftEnergy, rightEnergy float64
	for f := 0; f < blockSize; f++ {
		l := float64(stereo.Channels[0][f])
		r := float64(stereo.Channels[1][f])
		leftEnergy += l * l
		rightEnergy += r * r
	}

	if rightEnergy <= leftEnergy {
		t.Fatalf("hard-right source: rightEnergy=%v leftEnergy=%v, want right > left", rightEnergy, leftEnergy)
	}
}

func TestHRTFBinauralDecoderSilenceStaysSilent(t *testing.T) {
	const blockSize = 4
	rig := defaultSpeakerRig()
	points := make([]HRIRPoint, len(rig))
	for i, sp := range rig {
		points[i] = HRIRPoint{Azimuth: sp.Azimuth, Elevation: sp.Elevation, Left: []float32{1}, Right: []float32{1}}
	}
	sphere, err := NewHRIRSphere(points)
	if err != nil {
		t.Fatalf("NewHRIRSphere: %v", err)
	}
	dec, err := NewHRTFBinauralDecoder(1, sphere, blockSize)
	if err != nil {
		t.Fatalf("NewHRTFBinauralDecoder: %v", err)
	}

	in := NewAudioBuffer(4, blockSize)
	out := NewAudioBuffer(2, blockSize)
	dec.Process(in, out)
	for ch := range out.Channels {
		for f, v := range out.Channels[ch] {
			if v != 0 {
				t.Errorf("channel %d frame %d = %v, want 0 for silent B-format input", ch, f, v)
			}
		}
	}
}
