// command.go - lock-free game-thread -> audio-thread command ring
// (spec.md §5 "Communication", §6 "Command API")
//
// No teacher analogue (audio_chip.go is single-threaded register writes);
// grounded on the concurrency discipline audio_backend_oto.go and bus.go
// already establish (atomic hot-path reads, no locks held across the
// producer/consumer boundary) generalized into a single-producer/
// single-consumer bounded ring buffer of commands, drained in full at the
// start of every Tick.

package amplitude

import "sync/atomic"

// CommandKind enumerates the command API spec.md §6 names.
type CommandKind int

const (
	CmdPlay CommandKind = iota
	CmdStop
	CmdPause
	CmdResume
	CmdSetEntityLocation
	CmdSetEntityOrientation
	CmdSetEntityObstruction
	CmdSetEntityOcclusion
	CmdSetEntityRoom
	CmdSetListenerLocation
	CmdSetListenerOrientation
	CmdSetRtpc
	CmdSetSwitch
	CmdSetBusGain
	CmdFadeBus
	CmdMuteBus
)

// Command is one queued mutation, fields interpreted per Kind.
type Command struct {
	Kind CommandKind

	Sound    *SoundObject
	Entity   EntityID
	Listener ListenerID
	RoomID   AssetID
	FadeMs   float64
	Channel  ChannelHandle

	Vec  Vec3
	Quat Quaternion

	RtpcID    RtpcID
	SwitchObj *Switch
	Value     float32
	ValueIdx  int

	BusID BusID
	Mute  bool

	Result chan ChannelHandle // non-nil only for CmdPlay
}

// CommandQueue is a bounded SPSC ring: exactly one goroutine (T-game) calls
// Push, and exactly one goroutine (T-audio, from Mixer.Tick) calls Drain.
type CommandQueue struct {
	buf  []Command
	mask uint64
	head atomic.Uint64 // next write index (T-game owns)
	tail atomic.Uint64 // next read index (T-audio owns)
}

// NewCommandQueue allocates a ring whose capacity is rounded up to the next
// power of two.
func NewCommandQueue(capacity int) *CommandQueue {
	n := 1
	for n < capacity {
		n <<= 1
	}
	return &CommandQueue{buf: make([]Command, n), mask: uint64(n - 1)}
}

// Push enqueues a command. Returns false if the queue is full (spec.md §5:
// T-game may block briefly on a bounded-wait push; this module surfaces
// the full condition to the caller instead of blocking, so embedders can
// choose their own backoff policy).
func (q *CommandQueue) Push(c Command) bool {
	head := q.head.Load()
	tail := q.tail.Load()
	if head-tail >= uint64(len(q.buf)) {
		return false
	}
	q.buf[head&q.mask] = c
	q.head.Store(head + 1)
	return true
}

// Drain calls fn once per queued command, in program order, until the
// queue is empty (spec.md §4.1 step 1: called once at the start of a tick).
func (q *CommandQueue) Drain(fn func(Command)) {
	tail := q.tail.Load()
	head := q.head.Load()
	for tail != head {
		fn(q.buf[tail&q.mask])
		tail++
	}
	q.tail.Store(tail)
}

// applyCommand is the audio-thread handler invoked once per drained
// command (spec.md §4.1 step 1).
func (m *Mixer) applyCommand(c Command) {
	switch c.Kind {
	case CmdPlay:
		h, err := m.Play(c.Sound, c.Entity, c.FadeMs)
		if err != nil {
			h = InvalidChannelHandle
		}
		if c.Result != nil {
			c.Result <- h
		}
	case CmdStop:
		m.Stop(c.Channel, c.FadeMs)
	case CmdPause:
		m.Pause(c.Channel)
	case CmdResume:
		m.Resume(c.Channel, c.FadeMs)
	case CmdSetEntityLocation:
		m.World.SetEntityLocation(c.Entity, c.Vec)
	case CmdSetEntityOrientation:
		m.World.SetEntityOrientation(c.Entity, c.Quat)
	case CmdSetEntityObstruction:
		m.World.SetEntityObstruction(c.Entity, c.Value)
	case CmdSetEntityOcclusion:
		m.World.SetEntityOcclusion(c.Entity, c.Value)
	case CmdSetEntityRoom:
		m.World.SetEntityRoom(c.Entity, c.RoomID)
	case CmdSetListenerLocation:
		m.World.SetListenerLocation(c.Listener, c.Vec)
	case CmdSetListenerOrientation:
		m.World.SetListenerOrientation(c.Listener, c.Quat)
	case CmdSetRtpc:
		if r, ok := m.Rtpcs.Get(c.RtpcID); ok {
			r.SetValue(c.Value, m.nowMs)
		}
	case CmdSetSwitch:
		if c.SwitchObj != nil {
			_ = c.SwitchObj.SetActive(c.ValueIdx)
		}
	case CmdSetBusGain:
		if b, ok := m.Buses.FindByID(c.BusID); ok {
			_ = b.SetUserGain(c.Value)
		}
	case CmdFadeBus:
		if b, ok := m.Buses.FindByID(c.BusID); ok {
			_ = b.FadeTo(c.Value, c.FadeMs, m.nowMs)
		}
	case CmdMuteBus:
		if b, ok := m.Buses.FindByID(c.BusID); ok {
			b.SetMute(c.Mute)
		}
	}
}
