package amplitude

import (
	"math"
	"testing"
)

func TestCurveEvaluateClampsOutsideDomain(t *testing.T) {
	c := NewCurve(CurvePart{StartX: 0, StartY: 0.25, EndX: 1, EndY: 1, Shape: CurveLinear})
	if got := c.Evaluate(-1); got != 0.25 {
		t.Errorf("Evaluate below domain = %v, want clamped to first part's StartY 0.25", got)
	}
	if got := c.Evaluate(2); got != 1 {
		t.Errorf("Evaluate above domain = %v, want clamped to last part's EndY 1", got)
	}
}

func TestCurveEvaluateMultiSegmentLookup(t *testing.T) {
	c := NewCurve(
		CurvePart{StartX: 0, StartY: 0, EndX: 0.5, EndY: 10, Shape: CurveLinear},
		CurvePart{StartX: 0.5, StartY: 10, EndX: 1, EndY: 0, Shape: CurveLinear},
	)
	if got := c.Evaluate(0.25); math.Abs(float64(got-5)) > 1e-4 {
		t.Errorf("Evaluate(0.25) in first segment = %v, want ~5", got)
	}
	if got := c.Evaluate(0.75); math.Abs(float64(got-5)) > 1e-4 {
		t.Errorf("Evaluate(0.75) in second segment = %v, want ~5", got)
	}
}

// TestAttenuationAtMaxDistanceMatchesCurveAtOne checks the spec.md §8
// boundary behavior: attenuation at exactly max_distance returns exactly
// the gain curve's value at the curve's x=1 endpoint (distance normalizes
// to exactly 1.0, no off-by-one undershoot/overshoot into extrapolation).
func TestAttenuationAtMaxDistanceMatchesCurveAtOne(t *testing.T) {
	curve := NewCurve(CurvePart{StartX: 0, StartY: 1, EndX: 1, EndY: 0, Shape: CurveLinear})
	att := &Attenuation{ID: 1, MaxDistance: 50, GainCurve: curve, Shape: ShapeSphere}

	atMax := att.Gain(50)
	wantAtOne := curve.Evaluate(1)
	if atMax != wantAtOne {
		t.Errorf("Gain(MaxDistance) = %v, want exactly curve.Evaluate(1) = %v", atMax, wantAtOne)
	}
	if atMax != 0 {
		t.Errorf("Gain(MaxDistance) = %v, want 0 (curve's endpoint)", atMax)
	}
}

func TestAttenuationBeyondMaxDistanceClampsRatherThanExtrapolates(t *testing.T) {
	curve := NewCurve(CurvePart{StartX: 0, StartY: 1, EndX: 1, EndY: 0, Shape: CurveLinear})
	att := &Attenuation{ID: 1, MaxDistance: 50, GainCurve: curve, Shape: ShapeSphere}

	atMax := att.Gain(50)
	beyond := att.Gain(500)
	if beyond != atMax {
		t.Errorf("Gain beyond MaxDistance = %v, want clamped to Gain(MaxDistance) = %v", beyond, atMax)
	}
}

func TestAttenuationNegativeDistanceClampsToZero(t *testing.T) {
	curve := NewCurve(CurvePart{StartX: 0, StartY: 1, EndX: 1, EndY: 0, Shape: CurveLinear})
	att := &Attenuation{ID: 1, MaxDistance: 50, GainCurve: curve, Shape: ShapeSphere}

	if got := att.Gain(-10); got != 1 {
		t.Errorf("Gain(-10) = %v, want clamped to distance=0 -> curve value 1", got)
	}
}
