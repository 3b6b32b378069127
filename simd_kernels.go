// simd_kernels.go - buffer kernels (spec.md §4.11)
//
// The teacher selects scalar vs. SIMD at build time per architecture and
// never dispatches at runtime on the audio thread (audio_lut.go's
// init()-populated lookup tables follow the same "precompute once, touch
// cheaply forever" discipline). This module keeps that contract: every
// kernel here is a free function over contiguous, equal-length slices with
// no per-call branching on CPU features. A real build would provide
// SSE/AVX/NEON variants behind build tags the way the teacher splits
// backend_oto.go / backend_alsa.go; the portable Go implementation below is
// the scalar fallback all of them must agree with.

package amplitude

import (
	"math"

	algofft "github.com/cwbudde/algo-fft"
)

// scalarMultiply writes out[i] = in[i] * k for i in [0, n).
func scalarMultiply(in, out []float32, k float32, n int) {
	for i := 0; i < n; i++ {
		out[i] = in[i] * k
	}
}

// scalarMultiplyAccumulate writes out[i] += in[i] * k for i in [0, n).
func scalarMultiplyAccumulate(in, out []float32, k float32, n int) {
	for i := 0; i < n; i++ {
		out[i] += in[i] * k
	}
}

// pointWiseMultiply writes out[i] = a[i] * b[i] for i in [0, n).
func pointWiseMultiply(a, b, out []float32, n int) {
	for i := 0; i < n; i++ {
		out[i] = a[i] * b[i]
	}
}

// pointWiseMultiplyAccumulate writes out[i] += a[i] * b[i] for i in [0, n).
func pointWiseMultiplyAccumulate(a, b, out []float32, n int) {
	for i := 0; i < n; i++ {
		out[i] += a[i] * b[i]
	}
}

// interleave packs planarChannels[c][f] into out[f*channels+c].
func interleave(planarChannels [][]float32, out []float32, n, channels int) {
	for f := 0; f < n; f++ {
		base := f * channels
		for c := 0; c < channels; c++ {
			out[base+c] = planarChannels[c][f]
		}
	}
}

// deinterleave unpacks in[f*channels+c] into planarChannels[c][f].
func deinterleave(in []float32, planarChannels [][]float32, n, channels int) {
	for f := 0; f < n; f++ {
		base := f * channels
		for c := 0; c < channels; c++ {
			planarChannels[c][f] = in[base+c]
		}
	}
}

// SplitComplex mirrors the upstream engine's split re[]/im[] representation
// (spec.md §4.11); it is the seam between this module's float32 world and
// algo-fft's complex128/float64 plan API.
type SplitComplex struct {
	Re []float64
	Im []float64
}

// complexSize returns n/2 + 1, the number of usable bins of a real-input FFT
// of length n (spec.md §4.11).
func complexSize(n int) int {
	return n/2 + 1
}

// FFTPlan wraps a real-valued FFT plan sized once at construction, so the
// convolver and HRTF decoder can run their per-tick transforms without
// allocating a new plan (spec.md §4.9 "no allocation after init").
type FFTPlan struct {
	n      int
	plan   *algofft.PlanReal64
	timeIn []float64
	spec   []complex128
}

// NewFFTPlan builds a plan for n-point real FFTs. n must be a size the
// underlying library supports (a power of two).
func NewFFTPlan(n int) (*FFTPlan, error) {
	plan, err := algofft.NewPlanReal64(n)
	if err != nil {
		return nil, newError(ErrInvalidParameter, "fft plan size %d: %v", n, err)
	}
	return &FFTPlan{
		n:      n,
		plan:   plan,
		timeIn: make([]float64, n),
		spec:   make([]complex128, complexSize(n)),
	}, nil
}

// Forward computes the forward FFT of in (length p.n) into a caller-owned
// SplitComplex sized complexSize(p.n).
func (p *FFTPlan) Forward(in []float32, out SplitComplex) {
	for i := 0; i < p.n; i++ {
		p.timeIn[i] = float64(in[i])
	}
	p.plan.Forward(p.spec, p.timeIn)
	for i, c := range p.spec {
		out.Re[i] = real(c)
		out.Im[i] = imag(c)
	}
}

// Inverse reconstructs the p.n-length real time-domain signal from sc into out.
func (p *FFTPlan) Inverse(sc SplitComplex, out []float32) {
	for i := range p.spec {
		p.spec[i] = complex(sc.Re[i], sc.Im[i])
	}
	p.plan.Inverse(p.timeIn, p.spec)
	for i := 0; i < p.n; i++ {
		out[i] = float32(p.timeIn[i])
	}
}

// NewSplitComplex allocates a SplitComplex sized for an n-point real FFT.
func NewSplitComplex(n int) SplitComplex {
	size := complexSize(n)
	return SplitComplex{Re: make([]float64, size), Im: make([]float64, size)}
}

// multiplyAccumulateSplit computes out += a * b (complex multiply) across
// every bin, used by the partitioned convolver to pre-multiply an input
// segment's spectrum with an impulse-response segment's spectrum.
func multiplyAccumulateSplit(a, b, out SplitComplex) {
	for i := range a.Re {
		ac := complex(a.Re[i], a.Im[i])
		bc := complex(b.Re[i], b.Im[i])
		r := ac * bc
		out.Re[i] += real(r)
		out.Im[i] += imag(r)
	}
}

// clampf32 clamps x to [lo, hi].
func clampf32(x, lo, hi float32) float32 {
	return float32(math.Max(float64(lo), math.Min(float64(hi), float64(x))))
}
