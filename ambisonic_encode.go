// ambisonic_encode.go - B-format encoding (spec.md §4.8 "Encoding")
//
// Grounded on original_source/src/Ambisonics/AmbisonicEncoder.cpp: ACN-
// ordered real spherical harmonic weights up to order 3, with per-block
// linear interpolation between the previous and current coefficient vector
// to avoid zippering -- the same "ramp between two known states across one
// block" idea as audio_chip.go's envelope stepping, generalized from a
// scalar envelope to a coefficient vector.

package amplitude

import "math"

// MaxAmbisonicOrder bounds the orders this encoder/rotator/decoder support.
const MaxAmbisonicOrder = 3

// AmbisonicChannelCount returns (order+1)^2, the ACN channel count.
func AmbisonicChannelCount(order int) int {
	return (order + 1) * (order + 1)
}

// sphericalHarmonics fills out[0:AmbisonicChannelCount(order)] with the
// ACN-ordered, SN3D-normalized real spherical harmonic values at
// (azimuth, elevation) in radians.
func sphericalHarmonics(order int, azimuth, elevation float64, out []float32) {
	cosEl := math.Cos(elevation)
	sinEl := math.Sin(elevation)
	cosAz := math.Cos(azimuth)
	sinAz := math.Sin(azimuth)

	// Order 0: W
	out[0] = 1

	if order >= 1 {
		// ACN 1,2,3 = Y, Z, X
		out[1] = float32(cosEl * sinAz)
		out[2] = float32(sinEl)
		out[3] = float32(cosEl * cosAz)
	}
	if order >= 2 {
		sin2Az := math.Sin(2 * azimuth)
		cos2Az := math.Cos(2 * azimuth)
		out[4] = float32(math.Sqrt(3.0/4.0) * cosEl * cosEl * sin2Az)
		out[5] = float32(math.Sqrt(3.0) * sinEl * cosEl * sinAz)
		out[6] = float32(0.5 * (3*sinEl*sinEl - 1))
		out[7] = float32(math.Sqrt(3.0) * sinEl * cosEl * cosAz)
		out[8] = float32(math.Sqrt(3.0/4.0) * cosEl * cosEl * cos2Az)
	}
	if order >= 3 {
		sin3Az := math.Sin(3 * azimuth)
		cos3Az := math.Cos(3 * azimuth)
		cosEl3 := cosEl * cosEl * cosEl
		out[9] = float32(math.Sqrt(5.0/8.0) * cosEl3 * sin3Az)
		out[10] = float32(math.Sqrt(15.0/4.0) * sinEl * cosEl * cosEl * math.Sin(2*azimuth))
		out[11] = float32(math.Sqrt(3.0/8.0) * cosEl * (5*sinEl*sinEl - 1) * sinAz)
		out[12] = float32(0.5 * sinEl * (5*sinEl*sinEl - 3))
		out[13] = float32(math.Sqrt(3.0/8.0) * cosEl * (5*sinEl*sinEl - 1) * cosAz)
		out[14] = float32(math.Sqrt(15.0/4.0) * sinEl * cosEl * cosEl * math.Cos(2*azimuth))
		out[15] = float32(math.Sqrt(5.0/8.0) * cosEl3 * cos3Az)
	}
}

// AmbisonicEncoder turns a mono source into B-format given a direction that
// may change tick to tick; encoding interpolates linearly across the block
// from the previous tick's coefficients to the current one.
type AmbisonicEncoder struct {
	Order int

	prevCoeffs []float32
	currCoeffs []float32
}

// NewAmbisonicEncoder builds an encoder for the given order.
func NewAmbisonicEncoder(order int) *AmbisonicEncoder {
	n := AmbisonicChannelCount(order)
	e := &AmbisonicEncoder{Order: order, prevCoeffs: make([]float32, n), currCoeffs: make([]float32, n)}
	e.prevCoeffs[0] = 1
	e.currCoeffs[0] = 1
	return e
}

// SetDirection updates the target coefficient vector for the current tick;
// the previous tick's vector becomes the interpolation start point.
func (e *AmbisonicEncoder) SetDirection(azimuth, elevation float64) {
	copy(e.prevCoeffs, e.currCoeffs)
	sphericalHarmonics(e.Order, azimuth, elevation, e.currCoeffs)
}

// Process encodes a mono block into B-format, linearly interpolating
// coefficients across the block (spec.md §4.8).
func (e *AmbisonicEncoder) Process(mono []float32, out *AudioBuffer) {
	n := AmbisonicChannelCount(e.Order)
	frames := len(mono)
	for ch := 0; ch < n && ch < out.ChannelCount(); ch++ {
		from := e.prevCoeffs[ch]
		to := e.currCoeffs[ch]
		dst := out.Channels[ch]
		for i := 0; i < frames; i++ {
			var t float32
			if frames > 1 {
				t = float32(i) / float32(frames-1)
			}
			coeff := from + (to-from)*t
			dst[i] = mono[i] * coeff
		}
	}
}
