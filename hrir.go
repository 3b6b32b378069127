// hrir.go - HRIR sphere lookup (spec.md §4.8 "Binaural decoding", mode 2)
//
// Grounded on original_source/src/HRTF/HRIRSphere.cpp: a fixed set of
// (azimuth, elevation) -> (left, right) impulse response samples, queried by
// nearest-neighbor (barycentric interpolation is named in the spec as an
// alternative but the upstream default path, and the one this module
// implements, is nearest-neighbor over the precomputed sphere).

package amplitude

import "math"

// HRIRPoint is one measured/synthesized impulse response pair.
type HRIRPoint struct {
	Azimuth, Elevation float64
	Left, Right        []float32
}

// HRIRSphere is a read-only set of HRIR points, loaded once before the
// mixer starts (spec.md §5 "Shared resources").
type HRIRSphere struct {
	Points []HRIRPoint
	IRLen  int
}

// NewHRIRSphere validates that every point has matching-length IRs.
func NewHRIRSphere(points []HRIRPoint) (*HRIRSphere, error) {
	if len(points) == 0 {
		return nil, newError(ErrInvalidParameter, "empty HRIR sphere")
	}
	irLen := len(points[0].Left)
	for _, p := range points {
		if len(p.Left) != irLen || len(p.Right) != irLen {
			return nil, newError(ErrInvalidParameter, "HRIR length mismatch across sphere points")
		}
	}
	return &HRIRSphere{Points: points, IRLen: irLen}, nil
}

// angularDistance is the great-circle distance (radians) between two
// (azimuth, elevation) directions.
func angularDistance(az1, el1, az2, el2 float64) float64 {
	x1, y1, z1 := sphericalToCartesian(az1, el1)
	x2, y2, z2 := sphericalToCartesian(az2, el2)
	dot := x1*x2 + y1*y2 + z1*z2
	if dot > 1 {
		dot = 1
	}
	if dot < -1 {
		dot = -1
	}
	return math.Acos(dot)
}

func sphericalToCartesian(az, el float64) (x, y, z float64) {
	return math.Cos(el) * math.Cos(az), math.Sin(el), math.Cos(el) * math.Sin(az)
}

// Nearest returns the HRIR point closest in angle to (azimuth, elevation).
func (s *HRIRSphere) Nearest(azimuth, elevation float64) HRIRPoint {
	best := s.Points[0]
	bestDist := angularDistance(azimuth, elevation, best.Azimuth, best.Elevation)
	for _, p := range s.Points[1:] {
		d := angularDistance(azimuth, elevation, p.Azimuth, p.Elevation)
		if d < bestDist {
			bestDist = d
			best = p
		}
	}
	return best
}
