package amplitude

import (
	"math"
	"testing"
)

func TestRtpcSettlesAfterAttack(t *testing.T) {
	r := NewRtpc(1, "health", 0, 1, 0, 200, 100, nil)
	r.SetValue(1, 0) // upward move: driven by AttackMs=200
	r.Advance(0)
	if got := r.RawValue(); math.Abs(float64(got-0)) > 1e-4 {
		t.Fatalf("RawValue right at SetValue = %v, want ~0 (unchanged until Advance moves it)", got)
	}
	r.Advance(100)
	mid := r.RawValue()
	if mid <= 0 || mid >= 1 {
		t.Errorf("mid-attack RawValue = %v, want strictly between 0 and 1", mid)
	}
	r.Advance(200) // AttackMs=200 has now fully elapsed
	if got := r.RawValue(); math.Abs(float64(got-1)) > 1e-4 {
		t.Errorf("RawValue after attack duration elapses = %v, want 1", got)
	}
}

func TestRtpcClampsToRange(t *testing.T) {
	r := NewRtpc(1, "speed", 0, 10, 5, 0, 0, nil)
	r.SetValue(100, 0)
	r.Advance(0)
	if got := r.RawValue(); got != 10 {
		t.Errorf("RawValue after over-range SetValue = %v, want clamped to 10", got)
	}
	r.SetValue(-5, 0)
	r.Advance(0)
	if got := r.RawValue(); got != 0 {
		t.Errorf("RawValue after under-range SetValue = %v, want clamped to 0", got)
	}
}

func TestRtpcValueMapsThroughCurve(t *testing.T) {
	curve := NewCurve(CurvePart{StartX: 0, StartY: 0, EndX: 1, EndY: 100, Shape: CurveLinear})
	r := NewRtpc(1, "volume", 0, 1, 0, 0, 0, curve)
	r.SetValue(0.5, 0)
	r.Advance(0)
	if got := r.Value(); math.Abs(float64(got-50)) > 1e-3 {
		t.Errorf("curve-mapped Value() = %v, want ~50", got)
	}
}

func TestRtpcTableAdvanceAll(t *testing.T) {
	table := NewRtpcTable()
	r := NewRtpc(1, "x", 0, 1, 0, 100, 100, nil)
	table.Register(r)
	r.SetValue(1, 0)
	table.AdvanceAll(100)
	if got := r.RawValue(); math.Abs(float64(got-1)) > 1e-3 {
		t.Errorf("RawValue after AdvanceAll past attack duration = %v, want ~1", got)
	}
	if _, ok := table.Get(999); ok {
		t.Errorf("Get on unregistered id should fail")
	}
}
