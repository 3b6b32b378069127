// engine.go - public engine API (spec.md §6 "External interfaces")
//
// Grounded on audio_chip.go's NewSoundChip(...) constructor-and-method-set
// shape, generalized from "one hardware chip" to "one mixer plus its
// command-queue front door": every mutating call here does nothing but
// marshal a Command and push it, so T-game never touches mixer state
// directly (spec.md §5).

package amplitude

import (
	"encoding/binary"
	"math"
)

// Engine is the embeddable front door: construct one, call its command
// methods from the game thread, and call Mix from the audio device
// callback (spec.md §6).
type Engine struct {
	mixer *Mixer
}

// NewEngine constructs an Engine with an idle mixer (spec.md §0 ambient
// "Configuration").
func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{mixer: NewMixer(cfg)}
}

// Play enqueues a play command and blocks for the assigned channel handle
// (spec.md §6 `play(sound_object_id, entity_id?, fade_ms) -> channel_handle`).
func (e *Engine) Play(soundID SoundID, entity EntityID, fadeMs float64) (ChannelHandle, error) {
	sound, ok := e.mixer.Assets.Sound(soundID)
	if !ok {
		return InvalidChannelHandle, newError(ErrInvalidParameter, "unknown sound id %d", soundID)
	}
	result := make(chan ChannelHandle, 1)
	if !e.mixer.Queue.Push(Command{Kind: CmdPlay, Sound: sound, Entity: entity, FadeMs: fadeMs, Result: result}) {
		return InvalidChannelHandle, newError(ErrOutOfMemory, "command queue full")
	}
	return <-result, nil
}

// Stop enqueues a stop command (spec.md §6 `stop(channel_handle, fade_ms)`).
func (e *Engine) Stop(h ChannelHandle, fadeMs float64) {
	e.mixer.Queue.Push(Command{Kind: CmdStop, Channel: h, FadeMs: fadeMs})
}

// Pause/Resume enqueue pause/resume commands (spec.md §6).
func (e *Engine) Pause(h ChannelHandle) {
	e.mixer.Queue.Push(Command{Kind: CmdPause, Channel: h})
}

func (e *Engine) Resume(h ChannelHandle, fadeMs float64) {
	e.mixer.Queue.Push(Command{Kind: CmdResume, Channel: h, FadeMs: fadeMs})
}

// SetEntityLocation/SetEntityOrientation enqueue entity mutations
// (spec.md §6 `set_location(entity, vec3)`, `set_orientation`).
func (e *Engine) SetEntityLocation(entity EntityID, pos Vec3) {
	e.mixer.Queue.Push(Command{Kind: CmdSetEntityLocation, Entity: entity, Vec: pos})
}

func (e *Engine) SetEntityOrientation(entity EntityID, q Quaternion) {
	e.mixer.Queue.Push(Command{Kind: CmdSetEntityOrientation, Entity: entity, Quat: q})
}

// SetEntityObstruction/SetEntityOcclusion enqueue the listener-path scalars
// the Obstruction/Occlusion pipeline nodes read each tick (spec.md §6).
func (e *Engine) SetEntityObstruction(entity EntityID, v float32) {
	e.mixer.Queue.Push(Command{Kind: CmdSetEntityObstruction, Entity: entity, Value: v})
}

func (e *Engine) SetEntityOcclusion(entity EntityID, v float32) {
	e.mixer.Queue.Push(Command{Kind: CmdSetEntityOcclusion, Entity: entity, Value: v})
}

// SetEntityRoom binds an entity to a registered room for early reflections
// and reverb (spec.md §6); InvalidID unbinds it.
func (e *Engine) SetEntityRoom(entity EntityID, roomID AssetID) {
	e.mixer.Queue.Push(Command{Kind: CmdSetEntityRoom, Entity: entity, RoomID: roomID})
}

// SetListenerLocation/SetListenerOrientation enqueue listener mutations
// (spec.md §6 `set_listener_location/orientation`).
func (e *Engine) SetListenerLocation(listener ListenerID, pos Vec3) {
	e.mixer.Queue.Push(Command{Kind: CmdSetListenerLocation, Listener: listener, Vec: pos})
}

func (e *Engine) SetListenerOrientation(listener ListenerID, q Quaternion) {
	e.mixer.Queue.Push(Command{Kind: CmdSetListenerOrientation, Listener: listener, Quat: q})
}

// SetRtpc enqueues an RTPC target update (spec.md §6 `set_rtpc`).
func (e *Engine) SetRtpc(id RtpcID, value float32) {
	e.mixer.Queue.Push(Command{Kind: CmdSetRtpc, RtpcID: id, Value: value})
}

// SetSwitch enqueues a switch active-value update (spec.md §6 `set_switch`).
func (e *Engine) SetSwitch(sw *Switch, valueIndex int) {
	e.mixer.Queue.Push(Command{Kind: CmdSetSwitch, SwitchObj: sw, ValueIdx: valueIndex})
}

// SetBusGain/FadeBus/MuteBus enqueue bus mutations (spec.md §6).
func (e *Engine) SetBusGain(busID BusID, gain float32) {
	e.mixer.Queue.Push(Command{Kind: CmdSetBusGain, BusID: busID, Value: gain})
}

func (e *Engine) FadeBus(busID BusID, gain float32, ms float64) {
	e.mixer.Queue.Push(Command{Kind: CmdFadeBus, BusID: busID, Value: gain, FadeMs: ms})
}

func (e *Engine) MuteBus(busID BusID, mute bool) {
	e.mixer.Queue.Push(Command{Kind: CmdMuteBus, BusID: busID, Mute: mute})
}

// LoadBank/UnloadBank are synchronous: asset tables are read-only once the
// mixer is running, so registration happens directly (spec.md §5 "Shared
// resources" / §6 `load_bank(name) / unload_bank(name)`).
func (e *Engine) LoadBank(name string, objects []*SoundObject, attenuations []*Attenuation) error {
	return e.mixer.Assets.LoadBank(name, objects, attenuations)
}

func (e *Engine) UnloadBank(name string) error {
	return e.mixer.Assets.UnloadBank(name)
}

// AddBus registers a new bus under the graph (spec.md §6 asset setup).
func (e *Engine) AddBus(id BusID, name string, parent BusID) (*Bus, error) {
	return e.mixer.Buses.AddBus(id, name, parent)
}

// AddRoom registers a room, read-only thereafter except via the room's own
// geometry fields (spec.md §6 asset setup, §3 "Room").
func (e *Engine) AddRoom(room *Room) {
	e.mixer.World.AddRoom(room)
}

// RegisterRtpc adds an RTPC definition, readable by SetRtpc thereafter.
func (e *Engine) RegisterRtpc(r *Rtpc) {
	e.mixer.Rtpcs.Register(r)
}

// AdvanceFrame is called once per game frame by the caller; in this
// synchronous-ring model it is a no-op placeholder for callers that gate
// command submission on a frame boundary (spec.md §6 `advance_frame(dt)`).
func (e *Engine) AdvanceFrame(dt float64) {}

// Mix renders frameCount frames of interleaved stereo PCM in the requested
// sample format into out (spec.md §6 "Audio callback": `mix(out, frames)`).
func (e *Engine) Mix(out []byte, frameCount int, format SampleFormat) int {
	samples := e.mixer.Tick(frameCount)
	return encodeSamples(samples, out, format)
}

// SampleFormat names the interleaved PCM encodings spec.md §6 lists.
type SampleFormat int

const (
	FormatU8 SampleFormat = iota
	FormatI16
	FormatI24
	FormatI32
	FormatF32
)

func encodeSamples(samples []float32, out []byte, format SampleFormat) int {
	switch format {
	case FormatF32:
		for i, s := range samples {
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
		}
		return len(samples) * 4
	case FormatI16:
		for i, s := range samples {
			v := int16(clampf32(s, -1, 1) * 32767)
			binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
		}
		return len(samples) * 2
	case FormatI32:
		for i, s := range samples {
			v := int32(clampf32(s, -1, 1) * 2147483647)
			binary.LittleEndian.PutUint32(out[i*4:], uint32(v))
		}
		return len(samples) * 4
	case FormatI24:
		for i, s := range samples {
			v := int32(clampf32(s, -1, 1) * 8388607)
			out[i*3] = byte(v)
			out[i*3+1] = byte(v >> 8)
			out[i*3+2] = byte(v >> 16)
		}
		return len(samples) * 3
	default: // FormatU8
		for i, s := range samples {
			v := byte((clampf32(s, -1, 1)*127 + 128))
			out[i] = v
		}
		return len(samples)
	}
}
