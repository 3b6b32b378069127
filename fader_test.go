package amplitude

import (
	"math"
	"testing"
)

func TestBezierEndpointsExact(t *testing.T) {
	for _, shape := range []FaderCurve{CurveLinear, CurveEase, CurveEaseIn, CurveEaseInOut, CurveEaseOut, CurveExponential, CurveSCurve} {
		if got := evaluateBezierCurve(shape, 0); got != 0 {
			t.Errorf("%v: evaluateBezierCurve(t<=start)=%v, want 0", shape, got)
		}
		if got := evaluateBezierCurve(shape, -1); got != 0 {
			t.Errorf("%v: evaluateBezierCurve(t<0)=%v, want 0", shape, got)
		}
		if got := evaluateBezierCurve(shape, 1); got != 1 {
			t.Errorf("%v: evaluateBezierCurve(t>=end)=%v, want 1", shape, got)
		}
		if got := evaluateBezierCurve(shape, 2); got != 1 {
			t.Errorf("%v: evaluateBezierCurve(t>1)=%v, want 1", shape, got)
		}
	}
}

func TestFaderZeroDurationIsInstantaneous(t *testing.T) {
	f := NewFader(0, 5, 0, 100, CurveLinear)
	if got := f.Value(100); got != 5 {
		t.Errorf("Value(start)=%v, want 5", got)
	}
	if got := f.Value(200); got != 5 {
		t.Errorf("Value(start+100)=%v, want 5", got)
	}
	if !f.Done(100) {
		t.Errorf("zero-duration fader must be Done at t>=start")
	}
}

func TestFaderLinearMidpoint(t *testing.T) {
	f := NewFader(0, 10, 1000, 0, CurveLinear)
	got := f.Value(500)
	if math.Abs(float64(got-5)) > 1e-4 {
		t.Errorf("linear fader at midpoint = %v, want ~5", got)
	}
	if f.Done(999) {
		t.Errorf("fader must not be Done before its duration elapses")
	}
	if !f.Done(1000) {
		t.Errorf("fader must be Done exactly at start+duration")
	}
}

func TestFaderConstantHoldsFrom(t *testing.T) {
	f := NewFader(3, 9, 1000, 0, CurveConstant)
	for _, now := range []float64{0, 250, 999} {
		if got := f.Value(now); got != 3 {
			t.Errorf("constant fader at t=%v = %v, want 3 (from)", now, got)
		}
	}
}

func TestFaderRetargetContinuity(t *testing.T) {
	f := NewFader(0, 10, 1000, 0, CurveLinear)
	before := f.Value(500)
	f.Retarget(20, 1000, 500)
	after := f.Value(500)
	if math.Abs(float64(before-after)) > 1e-4 {
		t.Errorf("Retarget introduced a discontinuity: before=%v after=%v", before, after)
	}
	if got := f.Value(1500); math.Abs(float64(got-20)) > 1e-4 {
		t.Errorf("Retarget: value at new end = %v, want 20", got)
	}
}

func TestLFOFaderOscillates(t *testing.T) {
	f := NewLFOFader(0, 1, 1000, 0)
	if f.Done(1000) {
		t.Errorf("LFO fader must never report Done")
	}
	peak := f.Value(250) // quarter period: sin(pi/2) = 1
	if math.Abs(float64(peak-1)) > 1e-3 {
		t.Errorf("LFO quarter-period value = %v, want ~1", peak)
	}
}
