// buffer.go - planar multi-channel audio buffer (spec.md §3 "Audio buffer")
//
// Grounded on audio_chip.go's channel-mixing loop, generalized from a fixed
// 4-channel accumulator into an n-ary planar container that pipeline nodes
// pass between each other by reference for the current block only.

package amplitude

// AudioBuffer is a planar container: one contiguous []float32 per channel,
// all the same length. It is either empty (FrameCount == 0) or has at least
// one channel. The buffer is owned by the node that produced it; a node
// handed a buffer as input must treat it read-only for the tick.
type AudioBuffer struct {
	FrameCount int
	Channels   [][]float32
}

// NewAudioBuffer allocates a buffer with the given channel count and frame
// count, all channels zeroed.
func NewAudioBuffer(channelCount, frameCount int) *AudioBuffer {
	if channelCount <= 0 || frameCount <= 0 {
		return &AudioBuffer{}
	}
	chans := make([][]float32, channelCount)
	backing := make([]float32, channelCount*frameCount)
	for i := range chans {
		chans[i] = backing[i*frameCount : (i+1)*frameCount]
	}
	return &AudioBuffer{FrameCount: frameCount, Channels: chans}
}

// Empty reports whether the buffer carries no frames.
func (b *AudioBuffer) Empty() bool {
	return b == nil || b.FrameCount == 0 || len(b.Channels) == 0
}

// ChannelCount returns the number of planar channels.
func (b *AudioBuffer) ChannelCount() int {
	if b == nil {
		return 0
	}
	return len(b.Channels)
}

// Clear zeroes every sample in place.
func (b *AudioBuffer) Clear() {
	if b.Empty() {
		return
	}
	for _, ch := range b.Channels {
		for i := range ch {
			ch[i] = 0
		}
	}
}

// Validate checks the buffer-channel-mismatch boundary condition from
// spec.md §8: every channel must have the same length as FrameCount.
func (b *AudioBuffer) Validate() error {
	if b.Empty() {
		return nil
	}
	for i, ch := range b.Channels {
		if len(ch) != b.FrameCount {
			return newError(ErrInvalidParameter, "channel %d has %d frames, want %d", i, len(ch), b.FrameCount)
		}
	}
	return nil
}

// Interleave writes b's planar channels into out as interleaved float32
// samples, out must have length >= FrameCount*ChannelCount.
func (b *AudioBuffer) Interleave(out []float32) {
	if b.Empty() {
		return
	}
	interleave(b.Channels, out, b.FrameCount, len(b.Channels))
}

// Deinterleave fills b's planar channels from an interleaved source. b must
// already be sized to the desired channel/frame count.
func (b *AudioBuffer) Deinterleave(in []float32) {
	if b.Empty() {
		return
	}
	n := len(b.Channels)
	for f := 0; f < b.FrameCount; f++ {
		base := f * n
		for c := 0; c < n; c++ {
			b.Channels[c][f] = in[base+c]
		}
	}
}
