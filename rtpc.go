// rtpc.go - real-time parameter control (spec.md §3 "RTPC", §4.5)
//
// Grounded on original_source/src/Core/RTPCValue + include/Amplitude/Core/RTPC.h:
// a named game-exposed scalar, mapped into an engine-internal value through
// a Curve, with independent attack/release faders smoothing the raw input
// before curve lookup. The smoothing split mirrors audio_chip.go's envelope
// generator (separate attack/decay rates driving one running value).

package amplitude

import "sync"

// Rtpc is one real-time parameter: raw game value, smoothed, then mapped
// through a Curve to produce the value consumers read.
type Rtpc struct {
	ID         RtpcID
	Name       string
	Min, Max   float32
	Default    float32
	AttackMs   float64
	ReleaseMs  float64
	curve      *Curve

	mu      sync.RWMutex
	target  float32
	smooth  float32
	fader   *Fader
}

// NewRtpc constructs an RTPC clamped to [min,max], defaulting to def, mapped
// through curve (nil means identity: output equals smoothed input).
func NewRtpc(id RtpcID, name string, min, max, def float32, attackMs, releaseMs float64, curve *Curve) *Rtpc {
	return &Rtpc{
		ID: id, Name: name, Min: min, Max: max, Default: def,
		AttackMs: attackMs, ReleaseMs: releaseMs, curve: curve,
		target: def, smooth: def,
	}
}

// SetValue pushes a new raw game value, clamped to [Min,Max], and starts an
// attack or release ramp toward it depending on direction of travel.
func (r *Rtpc) SetValue(v float32, now float64) {
	v = clampf32(v, r.Min, r.Max)
	r.mu.Lock()
	defer r.mu.Unlock()
	if v == r.target {
		return
	}
	durationMs := r.AttackMs
	if v < r.smooth {
		durationMs = r.ReleaseMs
	}
	r.target = v
	r.fader = NewFader(r.smooth, v, durationMs, now, CurveLinear)
}

// Advance must be called once per tick to move the smoothed value toward
// the target and retire a completed fader.
func (r *Rtpc) Advance(now float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fader == nil {
		return
	}
	r.smooth = r.fader.Value(now)
	if r.fader.Done(now) {
		r.smooth = r.target
		r.fader = nil
	}
}

// Value returns the curve-mapped value consumers should apply this tick.
func (r *Rtpc) Value() float32 {
	r.mu.RLock()
	smooth := r.smooth
	r.mu.RUnlock()
	if r.curve == nil {
		return smooth
	}
	return r.curve.Evaluate(smooth)
}

// RawValue returns the smoothed but not curve-mapped value (for tests and
// diagnostics).
func (r *Rtpc) RawValue() float32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.smooth
}

// RtpcTable owns every RTPC in the engine, keyed by id.
type RtpcTable struct {
	mu   sync.RWMutex
	byID map[RtpcID]*Rtpc
}

// NewRtpcTable constructs an empty table.
func NewRtpcTable() *RtpcTable {
	return &RtpcTable{byID: make(map[RtpcID]*Rtpc)}
}

// Register adds an RTPC to the table.
func (t *RtpcTable) Register(r *Rtpc) {
	t.mu.Lock()
	t.byID[r.ID] = r
	t.mu.Unlock()
}

// Get looks up an RTPC by id.
func (t *RtpcTable) Get(id RtpcID) (*Rtpc, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.byID[id]
	return r, ok
}

// AdvanceAll ticks every registered RTPC's smoothing fader; called once per
// engine tick before the mixer reads any RTPC-bound parameter.
func (t *RtpcTable) AdvanceAll(now float64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, r := range t.byID {
		r.Advance(now)
	}
}
