// channel.go - channel / voice state machine (spec.md §3 "Channel", §4.6)
//
// Grounded on original_source/src/Core/Channel.cpp and
// bindings/c/src/amplitude_channel.cpp (the generation-guarded handle idea
// that keeps a stale ChannelHandle from addressing a reused slot). The pool
// itself follows audio_chip.go's fixed-size channel-register-table layout
// generalized from 4 hardware channels to MaxChannels reusable voice slots.

package amplitude

import "sync"

// ChannelState mirrors spec.md §4.6's state machine.
type ChannelState int

const (
	ChannelStopped ChannelState = iota // initial, terminal
	ChannelPlaying
	ChannelPaused
	ChannelFadingIn  // transient
	ChannelFadingOut // transient
	ChannelSwitchingFade
)

// kMinFadeDuration is the cross-fade length applied on a real<->virtual
// voice swap (spec.md §4.6).
const kMinFadeDuration = 10.0 // milliseconds

// Channel is one voice slot: a single playing (or idle) instance of a sound.
type Channel struct {
	mu sync.Mutex

	generation uint32
	inUse      bool

	State ChannelState
	Sound SoundID
	Bus   *Bus

	Looping bool
	Virtual bool // true while the voice is priority-culled (no decode/mix)

	PriorityBase float32
	entity       EntityID

	fadeIn  *Fader // drives FadingIn / SwitchingFade-in ramp
	fadeOut *Fader // drives FadingOut ramp before Stopped/Paused

	// crossFade is non-nil only during a real<->virtual swap: f_in ramps
	// 0->1 over kMinFadeDuration and the mixer sums in*f_in + out*(1-f_in).
	crossFade *Fader

	// pausing marks that the in-flight FadingOut ramp should land on Paused
	// rather than Stopped once it completes.
	pausing bool
}

// handle returns this channel's current generation-guarded handle. Index
// must be supplied by the owning pool since Channel does not know its own
// slot index.
func (c *Channel) handle(index int) ChannelHandle {
	return ChannelHandle{index: uint32(index), generation: c.generation}
}

// EffectivePriority computes spec.md §4.6's priority formula.
func (c *Channel) EffectivePriority(distanceFactor, busFinalGainFactor, recencyBoost float32) float32 {
	return c.PriorityBase + distanceFactor + busFinalGainFactor + recencyBoost
}

// Play transitions Stopped -> FadingIn (fade>0) or -> Playing (fade==0).
func (c *Channel) Play(sound SoundID, bus *Bus, looping bool, fadeMs float64, now float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sound = sound
	c.Bus = bus
	c.Looping = looping
	c.fadeOut = nil
	if fadeMs > 0 {
		c.State = ChannelFadingIn
		c.fadeIn = NewFader(0, 1, fadeMs, now, CurveLinear)
	} else {
		c.State = ChannelPlaying
		c.fadeIn = nil
	}
}

// Stop transitions Playing/Paused -> FadingOut -> Stopped, or directly to
// Stopped when fadeMs is 0.
func (c *Channel) Stop(fadeMs float64, now float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.State == ChannelStopped {
		return
	}
	if fadeMs > 0 {
		c.State = ChannelFadingOut
		c.fadeOut = NewFader(c.currentGainLocked(now), 0, fadeMs, now, CurveLinear)
	} else {
		c.resetLocked()
	}
}

// Pause fades out briefly (to avoid a click) then parks in Paused.
func (c *Channel) Pause(now float64) {
	const pauseFadeMs = 5.0
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.State != ChannelPlaying && c.State != ChannelFadingIn {
		return
	}
	c.State = ChannelFadingOut
	c.fadeOut = NewFader(c.currentGainLocked(now), 0, pauseFadeMs, now, CurveLinear)
	c.pausing = true
}

// Resume transitions Paused -> FadingIn (fade>0) or -> Playing (fade==0).
func (c *Channel) Resume(fadeMs float64, now float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.State != ChannelPaused {
		return
	}
	if fadeMs > 0 {
		c.State = ChannelFadingIn
		c.fadeIn = NewFader(0, 1, fadeMs, now, CurveLinear)
	} else {
		c.State = ChannelPlaying
		c.fadeIn = nil
	}
}

// NotifyEOF transitions any state -> Stopped for a non-looping sound that
// reached end of stream.
func (c *Channel) NotifyEOF() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.Looping {
		c.resetLocked()
	}
}

// BeginCrossFade starts a real<->virtual swap cross-fade.
func (c *Channel) BeginCrossFade(now float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.State = ChannelSwitchingFade
	c.crossFade = NewFader(0, 1, kMinFadeDuration, now, CurveLinear)
}

// CrossFadeMix blends in/out samples by the cross-fader's current ramp:
// in*f_in + out*(1-f_in) (spec.md §4.6).
func (c *Channel) CrossFadeMix(in, out float32, now float64) (float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.crossFade == nil {
		return in, false
	}
	fIn := c.crossFade.Value(now)
	mixed := in*fIn + out*(1-fIn)
	done := c.crossFade.Done(now)
	if done {
		c.crossFade = nil
		c.State = ChannelPlaying
	}
	return mixed, done
}

// Advance must be called once per tick: retires completed fade-in/fade-out
// ramps and performs the transient->terminal state transitions they imply.
func (c *Channel) Advance(now float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.State {
	case ChannelFadingIn:
		if c.fadeIn != nil && c.fadeIn.Done(now) {
			c.fadeIn = nil
			c.State = ChannelPlaying
		}
	case ChannelFadingOut:
		if c.fadeOut != nil && c.fadeOut.Done(now) {
			c.fadeOut = nil
			if c.pausing {
				c.pausing = false
				c.State = ChannelPaused
			} else {
				c.resetLocked()
			}
		}
	}
}

// CurrentGain returns the instantaneous fade-in/fade-out multiplier (1.0
// when no fade is active and the channel is playing).
func (c *Channel) CurrentGain(now float64) float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentGainLocked(now)
}

func (c *Channel) currentGainLocked(now float64) float32 {
	switch c.State {
	case ChannelFadingIn:
		if c.fadeIn != nil {
			return c.fadeIn.Value(now)
		}
		return 1
	case ChannelFadingOut:
		if c.fadeOut != nil {
			return c.fadeOut.Value(now)
		}
		return 0
	case ChannelPlaying:
		return 1
	default:
		return 0
	}
}

func (c *Channel) resetLocked() {
	c.State = ChannelStopped
	c.Sound = 0
	c.Bus = nil
	c.fadeIn = nil
	c.fadeOut = nil
	c.crossFade = nil
	c.Virtual = false
	c.pausing = false
}

// ChannelPool owns every Channel slot and issues generation-guarded handles.
type ChannelPool struct {
	mu       sync.Mutex
	channels []*Channel
	free     []int
}

// NewChannelPool allocates size idle channel slots.
func NewChannelPool(size int) *ChannelPool {
	p := &ChannelPool{channels: make([]*Channel, size), free: make([]int, 0, size)}
	for i := 0; i < size; i++ {
		p.channels[i] = &Channel{generation: 1}
		p.free = append(p.free, i)
	}
	return p
}

// Acquire claims a free slot and returns a handle carrying the slot's current
// generation (Release is what bumps it), or returns ok=false if the pool is
// exhausted.
func (p *ChannelPool) Acquire() (ChannelHandle, *Channel, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) == 0 {
		return InvalidChannelHandle, nil, false
	}
	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	ch := p.channels[idx]
	ch.inUse = true
	return ch.handle(idx), ch, true
}

// Release returns a slot to the free list and invalidates any handle
// referencing its current generation.
func (p *ChannelPool) Release(h ChannelHandle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if int(h.index) >= len(p.channels) {
		return
	}
	ch := p.channels[h.index]
	if !ch.inUse || ch.generation != h.generation {
		return
	}
	ch.inUse = false
	ch.generation++
	ch.resetLocked()
	p.free = append(p.free, int(h.index))
}

// Resolve returns the channel for h iff h's generation still matches the
// slot's current occupant, preventing ABA reuse of a stale handle.
func (p *ChannelPool) Resolve(h ChannelHandle) (*Channel, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if int(h.index) >= len(p.channels) {
		return nil, false
	}
	ch := p.channels[h.index]
	if !ch.inUse || ch.generation != h.generation {
		return nil, false
	}
	return ch, true
}

// All returns every in-use channel, for the mixer's per-tick voice scan.
func (p *ChannelPool) All() []*Channel {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Channel, 0, len(p.channels))
	for _, ch := range p.channels {
		if ch.inUse {
			out = append(out, ch)
		}
	}
	return out
}
