// pipeline_nodes.go - concrete pipeline vertex implementations (spec.md
// §4.7's node table)
//
// Each node wraps an already-defined piece of DSP (dsp_*.go, ambisonic_*.go,
// reverb.go, reflections.go) behind the PipelineNode interface so Pipeline's
// topological walk can treat them uniformly, the same "typed stage wraps a
// reusable primitive" shape audio_chip.go uses for its envelope/filter/LFO
// stages strung together in GenerateSample.

package amplitude

import "math"

// baseNode carries the bookkeeping common to every node.
type baseNode struct {
	kind   NodeKind
	policy EmptyInputPolicy
	tail   int
}

func (b baseNode) Kind() NodeKind                 { return b.kind }
func (b baseNode) EmptyPolicy() EmptyInputPolicy  { return b.policy }
func (b baseNode) TailFrames() int                { return b.tail }

// InputNode supplies the voice's already-decoded, already-resampled block
// for this tick.
type InputNode struct {
	baseNode
	Source func() *AudioBuffer
}

func NewInputNode(source func() *AudioBuffer) *InputNode {
	return &InputNode{baseNode: baseNode{kind: NodeInput, policy: ProduceEmpty}, Source: source}
}

func (n *InputNode) Process(_ []*AudioBuffer, out *AudioBuffer) {
	src := n.Source()
	if src.Empty() {
		out.Clear()
		return
	}
	copyBuffer(src, out)
}

// CurveGainNode multiplies its input by a scalar looked up from a Curve at
// a caller-supplied scalar position; Attenuation is built on it (spec.md
// §4.7). Obstruction and Occlusion use ObstructionNode instead.
type CurveGainNode struct {
	baseNode
	Curve    *Curve
	Position func() float32
}

func newCurveGainNode(kind NodeKind, curve *Curve, position func() float32) *CurveGainNode {
	return &CurveGainNode{baseNode: baseNode{kind: kind, policy: PassThrough}, Curve: curve, Position: position}
}

// NewAttenuationNode scales by an attenuation curve at source-listener
// distance.
func NewAttenuationNode(curve *Curve, distance func() float32) *CurveGainNode {
	return newCurveGainNode(NodeAttenuation, curve, distance)
}

func (n *CurveGainNode) Process(ins []*AudioBuffer, out *AudioBuffer) {
	gain := float32(1)
	if n.Curve != nil {
		gain = n.Curve.Evaluate(n.Position())
	}
	applyStereoGain(ins, out, gain)
}

func applyStereoGain(ins []*AudioBuffer, out *AudioBuffer, gain float32) {
	if len(ins) == 0 || ins[0] == nil {
		out.Clear()
		return
	}
	in := ins[0]
	for c := 0; c < in.ChannelCount() && c < out.ChannelCount(); c++ {
		for i := 0; i < in.FrameCount; i++ {
			out.Channels[c][i] = in.Channels[c][i] * gain
		}
	}
}

// ObstructionNode low-passes and attenuates per spec.md §4.7's Obstruction
// row: coefficient and gain both driven by curves indexed by
// entity.obstruction.
type ObstructionNode struct {
	baseNode
	CoeffCurve, GainCurve *Curve
	Scalar                func() float32
	filters               []*MonoPoleFilter
}

func newObstructionLikeNode(kind NodeKind, coeffCurve, gainCurve *Curve, scalar func() float32) *ObstructionNode {
	return &ObstructionNode{baseNode: baseNode{kind: kind, policy: PassThrough}, CoeffCurve: coeffCurve, GainCurve: gainCurve, Scalar: scalar}
}

// NewObstructionNode builds the Obstruction node.
func NewObstructionNode(coeffCurve, gainCurve *Curve, obstruction func() float32) *ObstructionNode {
	return newObstructionLikeNode(NodeObstruction, coeffCurve, gainCurve, obstruction)
}

// NewOcclusionNode builds the Occlusion node (same shape, different input
// scalar per spec.md §4.7).
func NewOcclusionNode(coeffCurve, gainCurve *Curve, occlusion func() float32) *ObstructionNode {
	return newObstructionLikeNode(NodeOcclusion, coeffCurve, gainCurve, occlusion)
}

func (n *ObstructionNode) Process(ins []*AudioBuffer, out *AudioBuffer) {
	if len(ins) == 0 || ins[0] == nil {
		out.Clear()
		return
	}
	in := ins[0]
	s := n.Scalar()
	coeff := float32(1)
	if n.CoeffCurve != nil {
		coeff = n.CoeffCurve.Evaluate(s)
	}
	gain := float32(1)
	if n.GainCurve != nil {
		gain = n.GainCurve.Evaluate(s)
	}
	if n.filters == nil || len(n.filters) != in.ChannelCount() {
		n.filters = make([]*MonoPoleFilter, in.ChannelCount())
		for i := range n.filters {
			n.filters[i] = &MonoPoleFilter{}
		}
	}
	for c := 0; c < in.ChannelCount() && c < out.ChannelCount(); c++ {
		n.filters[c].Coefficient = coeff
		for i := 0; i < in.FrameCount; i++ {
			out.Channels[c][i] = n.filters[c].Process(in.Channels[c][i]) * gain
		}
	}
}

// NearFieldEffectNode splits mono into bass-boosted low and high bands,
// applying per-ear gain derived from the near-field factor (spec.md §4.7).
// It applies no delay compensation relative to the ambisonic/binaural path,
// so the near-field and far-field copies of a source are not phase-aligned.
type NearFieldEffectNode struct {
	baseNode
	Factor func() float32
	lpf    *StateVariableFilter
	hpf    *StateVariableFilter
}

func NewNearFieldEffectNode(factor func() float32, sampleRate int) *NearFieldEffectNode {
	lpf := &StateVariableFilter{Mode: FilterLowPass, Cutoff: 300.0 / float32(sampleRate), Resonance: 0.2}
	hpf := &StateVariableFilter{Mode: FilterHighPass, Cutoff: 300.0 / float32(sampleRate), Resonance: 0.2}
	return &NearFieldEffectNode{baseNode: baseNode{kind: NodeNearFieldEffect, policy: ProduceEmpty}, Factor: factor, lpf: lpf, hpf: hpf}
}

func (n *NearFieldEffectNode) Process(ins []*AudioBuffer, out *AudioBuffer) {
	if len(ins) == 0 || ins[0] == nil || ins[0].ChannelCount() == 0 {
		out.Clear()
		return
	}
	mono := ins[0].Channels[0]
	f := n.Factor()
	earGain := [2]float32{1 - 0.5*f, 1 + 0.5*f}
	for i, s := range mono {
		low := n.lpf.Process(s) * 1.5 // bass boost
		high := n.hpf.Process(s)
		blended := low + high
		out.Channels[0][i] = blended * earGain[0]
		out.Channels[1][i] = blended * earGain[1]
	}
}

// StereoPanningNode applies equal-power panning (spec.md §4.7).
type StereoPanningNode struct {
	baseNode
	Pan func() float32
}

func NewStereoPanningNode(pan func() float32) *StereoPanningNode {
	return &StereoPanningNode{baseNode: baseNode{kind: NodeStereoPanning, policy: ProduceEmpty}, Pan: pan}
}

func (n *StereoPanningNode) Process(ins []*AudioBuffer, out *AudioBuffer) {
	if len(ins) == 0 || ins[0] == nil || ins[0].ChannelCount() == 0 {
		out.Clear()
		return
	}
	mono := ins[0].Channels[0]
	pan := n.Pan()
	theta := (pan + 1) * math.Pi / 4
	left := float32(math.Cos(float64(theta)))
	right := float32(math.Sin(float64(theta)))
	for i, s := range mono {
		out.Channels[0][i] = s * left
		out.Channels[1][i] = s * right
	}
}

// AmbisonicPanningNode wraps AmbisonicEncoder (spec.md §4.7/§4.8).
type AmbisonicPanningNode struct {
	baseNode
	Encoder   *AmbisonicEncoder
	Direction func() (azimuth, elevation float64)
}

func NewAmbisonicPanningNode(order int, direction func() (float64, float64)) *AmbisonicPanningNode {
	return &AmbisonicPanningNode{baseNode: baseNode{kind: NodeAmbisonicPanning, policy: ProduceEmpty}, Encoder: NewAmbisonicEncoder(order), Direction: direction}
}

func (n *AmbisonicPanningNode) Process(ins []*AudioBuffer, out *AudioBuffer) {
	if len(ins) == 0 || ins[0] == nil || ins[0].ChannelCount() == 0 {
		out.Clear()
		return
	}
	az, el := n.Direction()
	n.Encoder.SetDirection(az, el)
	n.Encoder.Process(ins[0].Channels[0], out)
}

// AmbisonicRotatorNode wraps AmbisonicRotator (spec.md §4.7/§4.8).
type AmbisonicRotatorNode struct {
	baseNode
	Rotator     *AmbisonicRotator
	Orientation func() Quaternion
}

func NewAmbisonicRotatorNode(order int, orientation func() Quaternion) *AmbisonicRotatorNode {
	return &AmbisonicRotatorNode{baseNode: baseNode{kind: NodeAmbisonicRotator, policy: ProduceEmpty}, Rotator: NewAmbisonicRotator(order), Orientation: orientation}
}

func (n *AmbisonicRotatorNode) Process(ins []*AudioBuffer, out *AudioBuffer) {
	if len(ins) == 0 || ins[0] == nil {
		out.Clear()
		return
	}
	n.Rotator.Process(ins[0], n.Orientation(), out)
}

// AmbisonicBinauralDecoderNode wraps either decode mode (spec.md §4.8).
type AmbisonicBinauralDecoderNode struct {
	baseNode
	stereo *StereoPresetDecoder
	hrtf   *HRTFBinauralDecoder
}

// NewStereoPresetDecoderNode selects the fixed-matrix decode path.
func NewStereoPresetDecoderNode(order int) *AmbisonicBinauralDecoderNode {
	return &AmbisonicBinauralDecoderNode{baseNode: baseNode{kind: NodeAmbisonicBinauralDecoder, policy: ProduceEmpty}, stereo: NewStereoPresetDecoder(order)}
}

// NewHRTFDecoderNode selects the HRIR-convolution decode path.
func NewHRTFDecoderNode(dec *HRTFBinauralDecoder) *AmbisonicBinauralDecoderNode {
	return &AmbisonicBinauralDecoderNode{baseNode: baseNode{kind: NodeAmbisonicBinauralDecoder, policy: ProduceEmpty}, hrtf: dec}
}

func (n *AmbisonicBinauralDecoderNode) Process(ins []*AudioBuffer, out *AudioBuffer) {
	if len(ins) == 0 || ins[0] == nil {
		out.Clear()
		return
	}
	if n.hrtf != nil {
		n.hrtf.Process(ins[0], out)
		return
	}
	n.stereo.Process(ins[0], out)
}

// ReflectionsNode wraps ReflectionsProcessor (spec.md §4.7/§4.10); it is the
// canonical ConsumeTail node: Pipeline.Run keeps calling Process after the
// voice's input goes empty, so its delay lines keep decaying. Run does not
// stop it after TailFrames blocks.
type ReflectionsNode struct {
	baseNode
	Proc *ReflectionsProcessor
}

func NewReflectionsNode(proc *ReflectionsProcessor) *ReflectionsNode {
	return &ReflectionsNode{baseNode: baseNode{kind: NodeReflections, policy: ConsumeTail, tail: proc.TailFrames()}, Proc: proc}
}

func (n *ReflectionsNode) Process(ins []*AudioBuffer, out *AudioBuffer) {
	var mono []float32
	if len(ins) > 0 && ins[0] != nil && ins[0].ChannelCount() > 0 {
		mono = ins[0].Channels[0]
	} else {
		mono = make([]float32, out.FrameCount)
	}
	n.Proc.Process(mono, out)
}

// ReverbNode wraps Reverb (spec.md §4.7/§4.10).
type ReverbNode struct {
	baseNode
	Verb *Reverb
}

func NewReverbNode(verb *Reverb) *ReverbNode {
	return &ReverbNode{baseNode: baseNode{kind: NodeReverb, policy: ProduceEmpty}, Verb: verb}
}

func (n *ReverbNode) Process(ins []*AudioBuffer, out *AudioBuffer) {
	if len(ins) == 0 || ins[0] == nil || ins[0].ChannelCount() == 0 {
		out.Clear()
		return
	}
	mono := ins[0].Channels[0]
	for i, s := range mono {
		l, r := n.Verb.Process(s)
		out.Channels[0][i] = l
		out.Channels[1][i] = r
	}
}

// EnvironmentEffectNode applies an EffectInstance weighted by env_factor
// (spec.md §4.7). Effect is any per-sample stereo processor (e.g. an
// Equalizer pair, a Biquad pair).
type EnvironmentEffectNode struct {
	baseNode
	Process_ func(in, out *AudioBuffer, factor float32)
	Factor   func() float32
}

func NewEnvironmentEffectNode(process func(in, out *AudioBuffer, factor float32), factor func() float32) *EnvironmentEffectNode {
	return &EnvironmentEffectNode{baseNode: baseNode{kind: NodeEnvironmentEffect, policy: PassThrough}, Process_: process, Factor: factor}
}

func (n *EnvironmentEffectNode) Process(ins []*AudioBuffer, out *AudioBuffer) {
	if len(ins) == 0 || ins[0] == nil {
		out.Clear()
		return
	}
	n.Process_(ins[0], out, n.Factor())
}

// StereoMixerNode sums all stereo inputs (spec.md §4.7).
type StereoMixerNode struct{ baseNode }

func NewStereoMixerNode() *StereoMixerNode {
	return &StereoMixerNode{baseNode{kind: NodeStereoMixer, policy: ProduceEmpty}}
}

func (n *StereoMixerNode) Process(ins []*AudioBuffer, out *AudioBuffer) {
	out.Clear()
	for _, in := range ins {
		if in == nil {
			continue
		}
		for c := 0; c < in.ChannelCount() && c < out.ChannelCount(); c++ {
			for i := 0; i < in.FrameCount && i < out.FrameCount; i++ {
				out.Channels[c][i] += in.Channels[c][i]
			}
		}
	}
}

// AmbisonicMixerNode sums all B-format inputs channel-wise (spec.md §4.7).
type AmbisonicMixerNode struct{ baseNode }

func NewAmbisonicMixerNode() *AmbisonicMixerNode {
	return &AmbisonicMixerNode{baseNode{kind: NodeAmbisonicMixer, policy: ProduceEmpty}}
}

func (n *AmbisonicMixerNode) Process(ins []*AudioBuffer, out *AudioBuffer) {
	(&StereoMixerNode{}).Process(ins, out) // same channel-wise sum, any arity
}

// ClipNode applies the soft-knee cubic clip (spec.md §4.7/§4.10).
type ClipNode struct{ baseNode }

func NewClipNode() *ClipNode {
	return &ClipNode{baseNode{kind: NodeClip, policy: PassThrough}}
}

func (n *ClipNode) Process(ins []*AudioBuffer, out *AudioBuffer) {
	if len(ins) == 0 || ins[0] == nil {
		out.Clear()
		return
	}
	in := ins[0]
	for c := 0; c < in.ChannelCount() && c < out.ChannelCount(); c++ {
		for i := 0; i < in.FrameCount; i++ {
			out.Channels[c][i] = softClipCubic(in.Channels[c][i])
		}
	}
}

// OutputNode is the final sink for one voice's contribution; Collect is
// invoked with the node's final buffer once per tick.
type OutputNode struct {
	baseNode
	Collect func(*AudioBuffer)
}

func NewOutputNode(collect func(*AudioBuffer)) *OutputNode {
	return &OutputNode{baseNode: baseNode{kind: NodeOutput, policy: ProduceEmpty}, Collect: collect}
}

func (n *OutputNode) Process(ins []*AudioBuffer, out *AudioBuffer) {
	if len(ins) == 0 || ins[0] == nil {
		out.Clear()
		return
	}
	copyBuffer(ins[0], out)
	n.Collect(out)
}
