// convolver.go - partitioned FFT convolver (spec.md §4.9)
//
// Grounded on original_source/src/Core/Convolver.cpp (uniformly partitioned,
// zero-latency overlap-add convolution): the impulse response is
// pre-partitioned into segCount blocks of 2*blockSize FFT points at
// construction; each runtime block FFTs the new input once, pre-multiplies
// against every IR segment, and accumulates into a circular bank of
// frequency-domain slots so segment k's contribution lands k blocks in the
// future without extra latency. Built on simd_kernels.go's FFTPlan/
// SplitComplex/multiplyAccumulateSplit instead of re-deriving a transform.

package amplitude

// PartitionedConvolver implements spec.md §4.9's zero-added-latency
// partitioned convolution.
type PartitionedConvolver struct {
	blockSize int
	segCount  int
	plan      *FFTPlan

	irSegments []SplitComplex // one FFT per IR partition
	preMul     []SplitComplex // circular bank of accumulated pre-multiplies
	current    int

	inputBuffer []float32 // length blockSize, the not-yet-transformed tail
	overlap     []float32 // length blockSize, time-domain overlap-add tail
}

// NewPartitionedConvolver pre-partitions ir into segCount blocks of
// 2*blockSize FFT points.
func NewPartitionedConvolver(ir []float32, blockSize int) (*PartitionedConvolver, error) {
	if blockSize <= 0 {
		return nil, newError(ErrInvalidParameter, "blockSize must be positive")
	}
	n := 2 * blockSize
	plan, err := NewFFTPlan(n)
	if err != nil {
		return nil, err
	}
	segCount := (len(ir) + blockSize - 1) / blockSize
	if segCount == 0 {
		segCount = 1
	}

	c := &PartitionedConvolver{
		blockSize: blockSize, segCount: segCount, plan: plan,
		irSegments:  make([]SplitComplex, segCount),
		preMul:      make([]SplitComplex, segCount),
		inputBuffer: make([]float32, 0, blockSize),
		overlap:     make([]float32, blockSize),
	}

	padded := make([]float32, n)
	for s := 0; s < segCount; s++ {
		for i := range padded {
			padded[i] = 0
		}
		start := s * blockSize
		end := start + blockSize
		if end > len(ir) {
			end = len(ir)
		}
		if start < end {
			copy(padded[:end-start], ir[start:end])
		}
		sc := NewSplitComplex(n)
		plan.Forward(padded, sc)
		c.irSegments[s] = sc
		c.preMul[s] = NewSplitComplex(n)
	}
	return c, nil
}

// ProcessBlock convolves exactly blockSize input samples, writing
// blockSize output samples (zero added latency, per spec.md §4.9).
func (c *PartitionedConvolver) ProcessBlock(in, out []float32) {
	n := 2 * c.blockSize
	padded := make([]float32, n)
	copy(padded, in[:c.blockSize])

	inSpec := NewSplitComplex(n)
	c.plan.Forward(padded, inSpec)

	// Pre-multiply against every IR segment, accumulating into the slot
	// `(current + s) mod segCount` segments in the future.
	for s := 0; s < c.segCount; s++ {
		slot := (c.current + s) % c.segCount
		multiplyAccumulateSplit(inSpec, c.irSegments[s], c.preMul[slot])
	}

	outSlot := c.current
	full := make([]float32, n)
	c.plan.Inverse(c.preMul[outSlot], full)

	for i := 0; i < c.blockSize; i++ {
		out[i] = full[i]/float32(n) + c.overlap[i]
		c.overlap[i] = full[i+c.blockSize] / float32(n)
	}

	// Clear the slot we just consumed so it can accumulate the next lap's
	// contributions, then advance.
	c.preMul[outSlot] = NewSplitComplex(n)
	c.current = (c.current + 1) % c.segCount
}

// Reset clears all accumulation state without re-partitioning the IR.
func (c *PartitionedConvolver) Reset() {
	for i := range c.preMul {
		for j := range c.preMul[i].Re {
			c.preMul[i].Re[j] = 0
			c.preMul[i].Im[j] = 0
		}
	}
	for i := range c.overlap {
		c.overlap[i] = 0
	}
	c.current = 0
}
