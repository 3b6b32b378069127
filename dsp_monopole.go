// dsp_monopole.go - one-pole low/high pass (spec.md §2 row B)
//
// Grounded on original_source/src/DSP/Filters/MonoPoleFilter.cpp, used by the
// Obstruction/Occlusion pipeline nodes to apply a cheap single-pole low-pass
// whose coefficient tracks a curve-evaluated obstruction/occlusion scalar
// every tick, rather than redesigning a full biquad each block.

package amplitude

// MonoPoleFilter is a one-pole IIR low-pass: y[n] = y[n-1] + a*(x[n]-y[n-1]).
type MonoPoleFilter struct {
	Coefficient float32 // 0 = full hold, 1 = no filtering
	state       float32
}

// Process runs one sample through the filter.
func (m *MonoPoleFilter) Process(in float32) float32 {
	m.state += m.Coefficient * (in - m.state)
	return m.state
}

// Reset clears the filter's held state.
func (m *MonoPoleFilter) Reset() {
	m.state = 0
}

// CoefficientFromCutoff converts a normalised cutoff (0..1, 1 = Nyquist)
// into the one-pole coefficient by clamping it to [0,1]; the clamped cutoff
// is used as the coefficient directly.
func CoefficientFromCutoff(cutoff01 float32) float32 {
	return clampf32(cutoff01, 0, 1)
}
