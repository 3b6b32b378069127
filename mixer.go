// mixer.go - Amplimix, the per-tick mixer driver (spec.md §3 "Channel
// (voice)", §4.1)
//
// Grounded on audio_chip.go's GenerateSample (the teacher's single-chip
// per-sample driver loop), generalized from "one chip, 4 fixed channels"
// into "N pooled voices, each owning its own Pipeline instance", and on
// original_source/src/Mixer/Amplimix.cpp for the ten-step tick sequence
// (drain commands -> advance RTPCs -> recompute bus gains -> update voice
// scalars -> partition real/virtual -> render -> ambisonic sum/rotate/
// decode -> stereo sum -> clip -> interleave).

package amplitude

import "math"

// defaultMaxAttenuationDistance is used to normalize a voice's distance
// into the attenuation curve's [0,1] domain when its sound carries no
// Attenuation asset, and to size a room-less voice's reflections delay
// lines (spec.md §4.10 `max_delay`).
const defaultMaxAttenuationDistance float32 = 50

// nearFieldRadius is the distance, in meters, at which a spatialized voice
// fades fully into the NearFieldEffect branch (spec.md §4.7 NearFieldEffect
// row: "per-ear gain from stereo-panned near-field factor").
const nearFieldRadius float32 = 1.0

// defaultListenerID is the single listener this mixer spatializes voices
// against. spec.md §3 allows "one or more" listeners; multi-listener
// fan-out (one spatialized mix per listener) is out of scope here -- see
// DESIGN.md.
const defaultListenerID ListenerID = 1

// Voice is one real playback instance: a channel, its sound object, its
// decoder, and the pipeline instance rendering it each tick (spec.md §3
// "Pipeline instance").
type Voice struct {
	Handle   ChannelHandle
	Channel  *Channel
	Sound    *SoundObject
	Entity   EntityID
	Decoder  Decoder
	Pipeline *Pipeline
	bufs     []*AudioBuffer // one per pipeline node, indexed by node position

	// Spatial is true for voices attached to a world entity (Entity !=
	// InvalidID): these run the full encode/rotate/decode pipeline. False
	// for 2D voices (music, UI) which run a flat stereo pipeline.
	Spatial bool

	// Indices into bufs for a Spatial voice's three contributions: its
	// B-format bus feed, its wet reverb/environment-effect feed, and its
	// near-field feed. Unused (0) for non-spatial voices.
	ambOutIdx, reverbOutIdx, nearFieldOutIdx int

	// Per-tick scalars computed by updateVoiceScalars from World state
	// (spec.md §4.1 step 4), read by the pipeline node closures below.
	lastDistance    float32
	lastAzimuth     float64
	lastElevation   float64
	lastObstruction float32
	lastOcclusion   float32
	lastEnvFactor   float32
	lastNearField   float32
	lastPriority    float32

	// Per-voice spatial DSP state, constructed once in buildSpatialPipeline
	// and driven each tick by updateVoiceScalars.
	reflections   *ReflectionsProcessor
	reverb        *Reverb
	baseReverbWet float32
	envEQ         [2]*Equalizer
}

// EngineConfig holds the tunables the mixer is constructed with (spec.md §0
// ambient "Configuration").
type EngineConfig struct {
	SampleRate     int
	BlockSize      int
	MaxRealVoices  int
	AmbisonicOrder int
	Channels       int // device output channel count, always 2 (stereo) here
}

// DefaultEngineConfig matches the upstream SDK's common defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{SampleRate: 48000, BlockSize: 1024, MaxRealVoices: 32, AmbisonicOrder: 1, Channels: 2}
}

// Mixer is Amplimix: it owns every live Voice and runs one tick at a time
// (spec.md §4.1).
type Mixer struct {
	Config     EngineConfig
	Buses      *BusGraph
	Rtpcs      *RtpcTable
	Assets     *AssetTable
	World      *World
	Pool       *ChannelPool
	Queue      *CommandQueue
	ListenerID ListenerID

	voices map[ChannelHandle]*Voice
	nowMs  float64

	// Mixer-wide ambisonic bus (spec.md §4.1 steps 7/8): every spatial
	// voice's B-format contribution is summed once into ambScratch, rotated
	// once by the (single) listener's inverse orientation, and decoded once
	// to stereo, rather than each voice rotating/decoding independently.
	// Valid because rotation is linear and every voice shares one listener.
	ambisonicRotator *AmbisonicRotator
	stereoDecoder    *StereoPresetDecoder
	ambScratch       *AudioBuffer
	rotatedScratch   *AudioBuffer
	decodedScratch   *AudioBuffer
	mixScratch       *AudioBuffer
}

// NewMixer constructs an idle mixer with an empty voice pool.
func NewMixer(cfg EngineConfig) *Mixer {
	n := AmbisonicChannelCount(cfg.AmbisonicOrder)
	m := &Mixer{
		Config:     cfg,
		Buses:      NewBusGraph(),
		Rtpcs:      NewRtpcTable(),
		Assets:     NewAssetTable(),
		World:      NewWorld(),
		Pool:       NewChannelPool(cfg.MaxRealVoices * 2),
		Queue:      NewCommandQueue(256),
		ListenerID: defaultListenerID,
		voices:     make(map[ChannelHandle]*Voice),

		ambisonicRotator: NewAmbisonicRotator(cfg.AmbisonicOrder),
		stereoDecoder:    NewStereoPresetDecoder(cfg.AmbisonicOrder),
		ambScratch:       NewAudioBuffer(n, cfg.BlockSize),
		rotatedScratch:   NewAudioBuffer(n, cfg.BlockSize),
		decodedScratch:   NewAudioBuffer(2, cfg.BlockSize),
		mixScratch:       NewAudioBuffer(2, cfg.BlockSize),
	}
	return m
}

// Play acquires a channel, builds its pipeline, and returns its handle
// (spec.md §6 `play(sound_object_id, entity_id?, fade_ms) -> channel_handle`).
func (m *Mixer) Play(sound *SoundObject, entity EntityID, fadeMs float64) (ChannelHandle, error) {
	handle, ch, ok := m.Pool.Acquire()
	if !ok {
		return InvalidChannelHandle, newError(ErrOutOfMemory, "voice pool exhausted")
	}
	bus := m.Buses.Master()
	if b, ok := m.Buses.FindByID(sound.BusID); ok {
		bus = b
	}
	ch.PriorityBase = 0
	ch.Play(sound.ID, bus, sound.Looping, fadeMs, m.nowMs)

	v := &Voice{Handle: handle, Channel: ch, Sound: sound, Entity: entity, Spatial: entity != InvalidID}
	if sound.DecoderFactory != nil {
		if dec, err := sound.DecoderFactory(); err == nil {
			v.Decoder = dec
		}
	}
	if v.Spatial {
		v.Pipeline = m.buildSpatialPipeline(v)
	} else {
		v.Pipeline = m.buildFlatPipeline(v)
	}
	m.voices[handle] = v
	return handle, nil
}

// buildFlatPipeline wires Input -> StereoPanning -> Clip -> Output for a
// non-spatial voice (music, UI): no entity means no (source, listener)
// distance or direction to spatialize against (spec.md §4.7).
func (m *Mixer) buildFlatPipeline(v *Voice) *Pipeline {
	input := m.decoderInputNode(v)
	pan := NewStereoPanningNode(func() float32 { return 0 })
	clip := NewClipNode()
	output := NewOutputNode(func(*AudioBuffer) {})

	nodes := []PipelineNode{input, pan, clip, output}
	edges := []pipelineEdge{
		{from: 0, to: 1, toSlot: 0},
		{from: 1, to: 2, toSlot: 0},
		{from: 2, to: 3, toSlot: 0},
	}
	p, _ := NewPipeline(nodes, edges)
	v.bufs = []*AudioBuffer{
		NewAudioBuffer(1, m.Config.BlockSize),
		NewAudioBuffer(2, m.Config.BlockSize),
		NewAudioBuffer(2, m.Config.BlockSize),
		NewAudioBuffer(2, m.Config.BlockSize),
	}
	return p
}

// buildSpatialPipeline wires a full spatialized voice (spec.md §4.7):
//
//	Input -> Attenuation -> Obstruction -> Occlusion, then fanning out to:
//	  - AmbisonicPanning + Reflections -> AmbisonicMixer (this voice's
//	    contribution to the mixer-wide ambisonic bus; see Mixer.Tick)
//	  - Reverb -> EnvironmentEffect (environment effect takes precedence
//	    over reverb when bound, per DESIGN.md's Open Question decision)
//	  - NearFieldEffect (close-range stereo widening)
//
// The three outputs are collected separately (ambOutIdx/reverbOutIdx/
// nearFieldOutIdx) rather than summed here, because the ambisonic
// contribution is rotated/decoded once for the whole mixer-wide bus while
// the other two are summed directly into the final stereo mix.
func (m *Mixer) buildSpatialPipeline(v *Voice) *Pipeline {
	order := m.Config.AmbisonicOrder
	n := AmbisonicChannelCount(order)
	sr := m.Config.SampleRate

	v.reflections = NewReflectionsProcessor(sr, order, defaultMaxAttenuationDistance)
	v.reverb = NewReverb(sr, 100, 60, 0.5)
	v.baseReverbWet = v.reverb.Wet
	v.envEQ = [2]*Equalizer{NewEqualizer(sr), NewEqualizer(sr)}
	v.envEQ[0].SetBandGain(2, -6, sr)
	v.envEQ[1].SetBandGain(2, -6, sr)

	input := m.decoderInputNode(v)
	atten := NewAttenuationNode(m.attenuationCurveFor(v), m.attenuationPositionFor(v))
	obstruction := NewObstructionNode(obstructionCoeffCurve(), obstructionGainCurve(), func() float32 { return v.lastObstruction })
	occlusion := NewOcclusionNode(obstructionCoeffCurve(), obstructionGainCurve(), func() float32 { return v.lastOcclusion })

	ambPan := NewAmbisonicPanningNode(order, func() (float64, float64) { return v.lastAzimuth, v.lastElevation })
	reflections := NewReflectionsNode(v.reflections)
	ambMixer := NewAmbisonicMixerNode()

	reverb := NewReverbNode(v.reverb)
	envEffect := NewEnvironmentEffectNode(v.processEnvironmentEffect, func() float32 { return v.lastEnvFactor })

	nearField := NewNearFieldEffectNode(func() float32 { return v.lastNearField }, sr)

	ambOutput := NewOutputNode(func(*AudioBuffer) {})
	reverbOutput := NewOutputNode(func(*AudioBuffer) {})
	nearFieldOutput := NewOutputNode(func(*AudioBuffer) {})

	// node indices
	const (
		idxInput = iota
		idxAtten
		idxObstruction
		idxOcclusion
		idxAmbPan
		idxReflections
		idxAmbMixer
		idxReverb
		idxEnvEffect
		idxNearField
		idxAmbOutput
		idxReverbOutput
		idxNearFieldOutput
		nodeCount
	)

	nodes := make([]PipelineNode, nodeCount)
	nodes[idxInput] = input
	nodes[idxAtten] = atten
	nodes[idxObstruction] = obstruction
	nodes[idxOcclusion] = occlusion
	nodes[idxAmbPan] = ambPan
	nodes[idxReflections] = reflections
	nodes[idxAmbMixer] = ambMixer
	nodes[idxReverb] = reverb
	nodes[idxEnvEffect] = envEffect
	nodes[idxNearField] = nearField
	nodes[idxAmbOutput] = ambOutput
	nodes[idxReverbOutput] = reverbOutput
	nodes[idxNearFieldOutput] = nearFieldOutput

	edges := []pipelineEdge{
		{from: idxInput, to: idxAtten, toSlot: 0},
		{from: idxAtten, to: idxObstruction, toSlot: 0},
		{from: idxObstruction, to: idxOcclusion, toSlot: 0},
		{from: idxOcclusion, to: idxAmbPan, toSlot: 0},
		{from: idxOcclusion, to: idxReflections, toSlot: 0},
		{from: idxAmbPan, to: idxAmbMixer, toSlot: 0},
		{from: idxReflections, to: idxAmbMixer, toSlot: 1},
		{from: idxOcclusion, to: idxReverb, toSlot: 0},
		{from: idxReverb, to: idxEnvEffect, toSlot: 0},
		{from: idxOcclusion, to: idxNearField, toSlot: 0},
		{from: idxAmbMixer, to: idxAmbOutput, toSlot: 0},
		{from: idxEnvEffect, to: idxReverbOutput, toSlot: 0},
		{from: idxNearField, to: idxNearFieldOutput, toSlot: 0},
	}

	p, _ := NewPipeline(nodes, edges)

	bufs := make([]*AudioBuffer, nodeCount)
	bufs[idxInput] = NewAudioBuffer(1, m.Config.BlockSize)
	bufs[idxAtten] = NewAudioBuffer(1, m.Config.BlockSize)
	bufs[idxObstruction] = NewAudioBuffer(1, m.Config.BlockSize)
	bufs[idxOcclusion] = NewAudioBuffer(1, m.Config.BlockSize)
	bufs[idxAmbPan] = NewAudioBuffer(n, m.Config.BlockSize)
	bufs[idxReflections] = NewAudioBuffer(n, m.Config.BlockSize)
	bufs[idxAmbMixer] = NewAudioBuffer(n, m.Config.BlockSize)
	bufs[idxReverb] = NewAudioBuffer(2, m.Config.BlockSize)
	bufs[idxEnvEffect] = NewAudioBuffer(2, m.Config.BlockSize)
	bufs[idxNearField] = NewAudioBuffer(2, m.Config.BlockSize)
	bufs[idxAmbOutput] = NewAudioBuffer(n, m.Config.BlockSize)
	bufs[idxReverbOutput] = NewAudioBuffer(2, m.Config.BlockSize)
	bufs[idxNearFieldOutput] = NewAudioBuffer(2, m.Config.BlockSize)
	v.bufs = bufs
	v.ambOutIdx = idxAmbOutput
	v.reverbOutIdx = idxReverbOutput
	v.nearFieldOutIdx = idxNearFieldOutput

	return p
}

// decoderInputNode builds the InputNode every pipeline kind shares: it
// pulls one already-decoded mono block from the voice's decoder.
func (m *Mixer) decoderInputNode(v *Voice) *InputNode {
	return NewInputNode(func() *AudioBuffer {
		buf := NewAudioBuffer(1, m.Config.BlockSize)
		if v.Decoder != nil {
			n, _ := v.Decoder.Stream(buf.Channels[0], 0, m.Config.BlockSize)
			buf.FrameCount = n
		}
		return buf
	})
}

// processEnvironmentEffect is the EnvironmentEffectNode's process function
// for v: a per-channel EQ tilt cross-faded in by env_factor. Reverb's wet
// contribution is forced to zero by updateVoiceScalars whenever env_factor
// is positive (SPEC_FULL.md's "environment effect takes precedence" Open
// Question decision), so this node operates on Reverb's otherwise-dry
// pass-through output.
func (v *Voice) processEnvironmentEffect(in, out *AudioBuffer, factor float32) {
	if factor <= 0 {
		copyBuffer(in, out)
		return
	}
	for c := 0; c < 2 && c < in.ChannelCount() && c < out.ChannelCount(); c++ {
		eq := v.envEQ[c]
		for i := 0; i < in.FrameCount; i++ {
			dry := in.Channels[c][i]
			wet := eq.Process(dry)
			out.Channels[c][i] = dry*(1-factor) + wet*factor
		}
	}
}

// obstructionCoeffCurve/obstructionGainCurve are the default low-pass
// coefficient and gain curves for Obstruction/Occlusion nodes until a
// per-sound override exists (spec.md §4.7): coefficient and gain both fall
// as the scalar goes from 0 (clear: coefficient 1, so the MonoPoleFilter
// passes its input unchanged) to 1 (fully obstructed/occluded).
func obstructionCoeffCurve() *Curve {
	return NewCurve(CurvePart{StartX: 0, StartY: 1, EndX: 1, EndY: 0.15, Shape: CurveLinear})
}

func obstructionGainCurve() *Curve {
	return NewCurve(CurvePart{StartX: 0, StartY: 1, EndX: 1, EndY: 0.3, Shape: CurveLinear})
}

func (m *Mixer) attenuationCurveFor(v *Voice) *Curve {
	if a, ok := m.Assets.AttenuationByID(v.Sound.AttenuationID); ok {
		return a.GainCurve
	}
	return NewCurve(CurvePart{StartX: 0, StartY: 1, EndX: 1, EndY: 1, Shape: CurveLinear})
}

// attenuationMaxDistanceFor resolves the distance at which v's attenuation
// curve reaches its far endpoint (spec.md §3 "Attenuation").
func (m *Mixer) attenuationMaxDistanceFor(v *Voice) float32 {
	if a, ok := m.Assets.AttenuationByID(v.Sound.AttenuationID); ok && a.MaxDistance > 0 {
		return a.MaxDistance
	}
	return defaultMaxAttenuationDistance
}

// attenuationPositionFor normalizes v's current distance into the curve's
// [0,1] domain, matching Attenuation.Gain's own clamp/normalize (the
// AttenuationNode evaluates a *Curve directly, so this normalization has
// to happen on the way in rather than inside Attenuation.Gain).
func (m *Mixer) attenuationPositionFor(v *Voice) func() float32 {
	return func() float32 {
		maxDistance := m.attenuationMaxDistanceFor(v)
		if maxDistance <= 0 {
			return 0
		}
		d := v.lastDistance
		if d < 0 {
			d = 0
		}
		if d > maxDistance {
			d = maxDistance
		}
		return d / maxDistance
	}
}

// Stop transitions a voice to FadingOut/Stopped (spec.md §6 `stop`).
func (m *Mixer) Stop(h ChannelHandle, fadeMs float64) {
	if ch, ok := m.Pool.Resolve(h); ok {
		ch.Stop(fadeMs, m.nowMs)
	}
}

// Pause/Resume forward to the channel (spec.md §6).
func (m *Mixer) Pause(h ChannelHandle) {
	if ch, ok := m.Pool.Resolve(h); ok {
		ch.Pause(m.nowMs)
	}
}

func (m *Mixer) Resume(h ChannelHandle, fadeMs float64) {
	if ch, ok := m.Pool.Resolve(h); ok {
		ch.Resume(fadeMs, m.nowMs)
	}
}

// Tick runs one full Amplimix update and returns frameCount interleaved
// stereo frames (spec.md §4.1's ten-step sequence).
func (m *Mixer) Tick(frameCount int) []float32 {
	// 1. Drain the command queue.
	m.Queue.Drain(m.applyCommand)

	// 2. Advance RTPC faders.
	deltaMs := 1000.0 * float64(frameCount) / float64(m.Config.SampleRate)
	m.nowMs += deltaMs
	m.Rtpcs.AdvanceAll(m.nowMs)

	// 3. Recompute bus graph final gains.
	m.Buses.RecomputeGains(m.nowMs)

	// 4. Update per-voice scalars: distance, attenuation, obstruction,
	// occlusion, direction, near-field, environment, room geometry.
	m.updateVoiceScalars(frameCount)

	// 5. Partition real/virtual by effective priority.
	m.partitionVoices()

	// 6. Render every real voice's pipeline.
	n := AmbisonicChannelCount(m.Config.AmbisonicOrder)
	m.ambScratch.FrameCount = frameCount
	m.ambScratch.Clear()
	m.mixScratch.FrameCount = frameCount
	m.mixScratch.Clear()

	for _, v := range m.voices {
		if v.Channel.Virtual || v.Channel.State == ChannelStopped {
			continue
		}
		v.Channel.Advance(m.nowMs)
		gain := v.Channel.CurrentGain(m.nowMs) * v.Channel.Bus.FinalGain
		m.renderVoice(v, frameCount)

		if v.Spatial {
			accumulate(m.ambScratch, v.bufs[v.ambOutIdx], gain, n, frameCount)
			accumulate(m.mixScratch, v.bufs[v.reverbOutIdx], gain, 2, frameCount)
			accumulate(m.mixScratch, v.bufs[v.nearFieldOutIdx], gain*v.lastNearField, 2, frameCount)
			continue
		}
		out := v.bufs[len(v.bufs)-1]
		accumulate(m.mixScratch, out, gain, 2, frameCount)
	}

	// 7. Ambisonic mixer already summed above (into ambScratch); rotate by
	// the listener's inverse orientation, then binaural-decode to stereo.
	listener, _ := m.World.Listener(m.ListenerID)
	m.rotatedScratch.FrameCount = frameCount
	m.ambisonicRotator.Process(m.ambScratch, listener.Orientation, m.rotatedScratch)
	m.decodedScratch.FrameCount = frameCount
	m.stereoDecoder.Process(m.rotatedScratch, m.decodedScratch)

	// 8. Stereo mixer: sum the decoded ambisonic bus into the stereo mix
	// already carrying every voice's direct stereo contributions.
	accumulate(m.mixScratch, m.decodedScratch, 1, 2, frameCount)

	// 9. Clip.
	clipped := NewAudioBuffer(2, frameCount)
	for c := 0; c < 2; c++ {
		for i := 0; i < frameCount; i++ {
			clipped.Channels[c][i] = softClipCubic(m.mixScratch.Channels[c][i])
		}
	}

	// 10. Interleave.
	out := make([]float32, frameCount*2)
	clipped.Interleave(out)
	return out
}

// accumulate adds src*gain into dst, channel-wise, for the first channels
// channels and frameCount frames.
func accumulate(dst, src *AudioBuffer, gain float32, channels, frameCount int) {
	for c := 0; c < channels && c < dst.ChannelCount() && c < src.ChannelCount(); c++ {
		for i := 0; i < frameCount; i++ {
			dst.Channels[c][i] += src.Channels[c][i] * gain
		}
	}
}

func (m *Mixer) renderVoice(v *Voice, frameCount int) {
	bufOf := func(idx int) *AudioBuffer {
		b := v.bufs[idx]
		if b.FrameCount != frameCount {
			*b = *NewAudioBuffer(b.ChannelCount(), frameCount)
		}
		return b
	}
	v.Pipeline.Run(bufOf)
}

// updateVoiceScalars implements spec.md §4.1 step 4: for every spatial
// voice, read its entity and the listener from World and derive the
// distance/direction/obstruction/occlusion/near-field/environment scalars
// the pipeline's node closures read, and refresh reflections geometry and
// the reverb/environment-effect precedence toggle.
func (m *Mixer) updateVoiceScalars(frameCount int) {
	listener, _ := m.World.Listener(m.ListenerID)
	for _, v := range m.voices {
		if !v.Spatial {
			continue
		}
		entity, ok := m.World.Entity(v.Entity)
		if !ok {
			v.lastDistance = m.attenuationMaxDistanceFor(v)
			v.lastAzimuth, v.lastElevation = 0, 0
			v.lastObstruction, v.lastOcclusion = 0, 0
			v.lastEnvFactor, v.lastNearField = 0, 0
			continue
		}

		toSource := vecSub(entity.Location, listener.Location)
		v.lastDistance = vecLength(toSource)
		v.lastAzimuth, v.lastElevation = directionOf(toSource)
		v.lastObstruction = entity.Obstruction
		v.lastOcclusion = entity.Occlusion

		v.lastNearField = clampf32(1-v.lastDistance/nearFieldRadius, 0, 1)

		var envSum float32
		for _, f := range entity.EnvFactors {
			envSum += f
		}
		v.lastEnvFactor = clampf32(envSum, 0, 1)

		// Environment effect takes precedence over reverb (DESIGN.md Open
		// Question decision): bypass the reverb's wet signal whenever an
		// environment factor is active, letting EnvironmentEffectNode color
		// the otherwise-dry pass-through instead.
		if v.lastEnvFactor > 0 {
			v.reverb.Wet, v.reverb.Dry = 0, 1
		} else {
			v.reverb.Wet, v.reverb.Dry = v.baseReverbWet, 1-v.baseReverbWet
		}

		if entity.RoomID == InvalidID {
			continue
		}
		room, ok := m.World.Room(entity.RoomID)
		if !ok {
			continue
		}
		if maxSurface := room.MaxSurfaceArea(); maxSurface > 0 {
			roomSize := room.Volume() / (maxSurface * float32(math.Sqrt(float64(maxSurface))))
			v.reverb.SetRoomParams(clampf32(roomSize, 0, 1), room.AverageAbsorption())
		}
		v.reflections.UpdateGeometry(room, entity.Location, listener.Location, frameCount)
	}
}

// partitionVoices implements spec.md §4.1 step 5: only the top
// MaxRealVoices by effective priority are rendered; the rest become virtual.
func (m *Mixer) partitionVoices() {
	type scored struct {
		v        *Voice
		priority float32
	}
	scores := make([]scored, 0, len(m.voices))
	for _, v := range m.voices {
		if v.Channel.State == ChannelStopped {
			continue
		}
		distanceFactor := -v.lastDistance
		busFactor := v.Channel.Bus.FinalGain * 10
		recency := float32(0)
		p := v.Channel.EffectivePriority(distanceFactor, busFactor, recency)
		v.lastPriority = p
		scores = append(scores, scored{v: v, priority: p})
	}
	for i := range scores {
		for j := i + 1; j < len(scores); j++ {
			if scores[j].priority > scores[i].priority {
				scores[i], scores[j] = scores[j], scores[i]
			}
		}
	}
	for i, s := range scores {
		wasVirtual := s.v.Channel.Virtual
		nowVirtual := i >= m.Config.MaxRealVoices
		if wasVirtual != nowVirtual {
			s.v.Channel.BeginCrossFade(m.nowMs)
		}
		s.v.Channel.Virtual = nowVirtual
	}
}
