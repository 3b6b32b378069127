// ambisonic_decode.go - binaural decoding (spec.md §4.8 "Binaural decoding")
//
// Grounded on original_source/src/Ambisonics/AmbisonicBinauralizer.cpp: a
// fixed virtual-speaker rig decoded from B-format, then either summed via a
// stereo-preset matrix or convolved per speaker with looked-up HRIRs. The
// convolution path is built on convolver.go's partitioned FFT convolver
// (§4.9) rather than naive time-domain convolution.

package amplitude

import "math"

// virtualSpeaker is one decode-rig loudspeaker direction.
type virtualSpeaker struct {
	Azimuth, Elevation float64
}

// defaultSpeakerRig returns the 16-speaker rig spec.md §4.8 references for
// HRTF convolution decoding: 8 around the horizontal plane, 4 elevated, 4
// depressed.
func defaultSpeakerRig() []virtualSpeaker {
	rig := make([]virtualSpeaker, 0, 16)
	for i := 0; i < 8; i++ {
		rig = append(rig, virtualSpeaker{Azimuth: float64(i) * math.Pi / 4, Elevation: 0})
	}
	for i := 0; i < 4; i++ {
		rig = append(rig, virtualSpeaker{Azimuth: float64(i) * math.Pi / 2, Elevation: math.Pi / 4})
	}
	for i := 0; i < 4; i++ {
		rig = append(rig, virtualSpeaker{Azimuth: float64(i) * math.Pi / 2, Elevation: -math.Pi / 4})
	}
	return rig
}

// StereoPresetDecoder decodes B-format to stereo via a fixed 2x(N+1)^2
// matrix with symmetrical virtual speakers (spec.md §4.8 mode 1).
type StereoPresetDecoder struct {
	Order  int
	matrix [][2]float32 // one row per B-format channel: [leftWeight, rightWeight]
}

// NewStereoPresetDecoder builds the fixed decode matrix for order.
func NewStereoPresetDecoder(order int) *StereoPresetDecoder {
	n := AmbisonicChannelCount(order)
	m := make([][2]float32, n)
	coeffs := make([]float32, n)
	// Left ear at -30deg azimuth, right ear at +30deg, both on the horizon.
	sphericalHarmonics(order, -math.Pi/6, 0, coeffs)
	for i, c := range coeffs {
		m[i][0] = c
	}
	sphericalHarmonics(order, math.Pi/6, 0, coeffs)
	for i, c := range coeffs {
		m[i][1] = c
	}
	return &StereoPresetDecoder{Order: order, matrix: m}
}

// Process decodes B-format in into stereo out.
func (d *StereoPresetDecoder) Process(in *AudioBuffer, out *AudioBuffer) {
	frames := in.FrameCount
	n := AmbisonicChannelCount(d.Order)
	for f := 0; f < frames; f++ {
		var l, r float32
		for ch := 0; ch < n; ch++ {
			s := in.Channels[ch][f]
			l += s * d.matrix[ch][0]
			r += s * d.matrix[ch][1]
		}
		out.Channels[0][f] = l
		out.Channels[1][f] = r
	}
}

// HRTFBinauralDecoder decodes B-format via per-virtual-speaker HRIR
// convolution (spec.md §4.8 mode 2).
type HRTFBinauralDecoder struct {
	Order      int
	sphere     *HRIRSphere
	speakers   []virtualSpeaker
	decodeCoef [][]float32 // per speaker: B-format decode weights
	convLeft   []*PartitionedConvolver
	convRight  []*PartitionedConvolver
	speakerBuf []float32
}

// NewHRTFBinauralDecoder builds a 16-speaker HRTF decoder, pre-partitioning
// each speaker's HRIR pair at construction.
func NewHRTFBinauralDecoder(order int, sphere *HRIRSphere, blockSize int) (*HRTFBinauralDecoder, error) {
	speakers := defaultSpeakerRig()
	n := AmbisonicChannelCount(order)
	dec := &HRTFBinauralDecoder{
		Order: order, sphere: sphere, speakers: speakers,
		decodeCoef: make([][]float32, len(speakers)),
		convLeft:   make([]*PartitionedConvolver, len(speakers)),
		convRight:  make([]*PartitionedConvolver, len(speakers)),
		speakerBuf: make([]float32, blockSize),
	}
	coeffs := make([]float32, n)
	for i, sp := range speakers {
		sphericalHarmonics(order, sp.Azimuth, sp.Elevation, coeffs)
		dec.decodeCoef[i] = append([]float32(nil), coeffs...)

		hrir := sphere.Nearest(sp.Azimuth, sp.Elevation)
		cl, err := NewPartitionedConvolver(hrir.Left, blockSize)
		if err != nil {
			return nil, err
		}
		cr, err := NewPartitionedConvolver(hrir.Right, blockSize)
		if err != nil {
			return nil, err
		}
		dec.convLeft[i] = cl
		dec.convRight[i] = cr
	}
	return dec, nil
}

// Process decodes B-format in into stereo out by summing each speaker's
// convolved contribution.
func (d *HRTFBinauralDecoder) Process(in *AudioBuffer, out *AudioBuffer) {
	frames := in.FrameCount
	out.Clear()
	n := AmbisonicChannelCount(d.Order)

	leftOut := make([]float32, frames)
	rightOut := make([]float32, frames)

	for s := range d.speakers {
		buf := d.speakerBuf[:frames]
		for f := 0; f < frames; f++ {
			var v float32
			for ch := 0; ch < n; ch++ {
				v += in.Channels[ch][f] * d.decodeCoef[s][ch]
			}
			buf[f] = v
		}
		d.convLeft[s].ProcessBlock(buf, leftOut)
		d.convRight[s].ProcessBlock(buf, rightOut)
		for f := 0; f < frames; f++ {
			out.Channels[0][f] += leftOut[f]
			out.Channels[1][f] += rightOut[f]
		}
	}
}
