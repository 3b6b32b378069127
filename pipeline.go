// pipeline.go - per-voice DSP DAG (spec.md §3 "Pipeline", §4.7)
//
// Grounded on original_source/src/Mixer/Nodes/ (one .cpp per node type,
// wired by a host-provided node-id graph) generalized into a small typed
// graph with a topological sort computed once at instance-creation time,
// matching audio_chip.go's fixed per-tick processing order but made
// data-driven instead of hardcoded.

package amplitude

// NodeKind enumerates the declared pipeline vertex types (spec.md §4.7).
type NodeKind int

const (
	NodeInput NodeKind = iota
	NodeAttenuation
	NodeObstruction
	NodeOcclusion
	NodeNearFieldEffect
	NodeStereoPanning
	NodeAmbisonicPanning
	NodeAmbisonicRotator
	NodeAmbisonicBinauralDecoder
	NodeReflections
	NodeReverb
	NodeEnvironmentEffect
	NodeStereoMixer
	NodeAmbisonicMixer
	NodeClip
	NodeOutput
)

// EmptyInputPolicy controls what a node does when all its inputs are empty
// (voice paused, virtual, or EOF) -- spec.md §4.7.
type EmptyInputPolicy int

const (
	PassThrough EmptyInputPolicy = iota
	ProduceEmpty
	ConsumeTail // keep processing an empty input so an internal tail decays; Run does not stop after TailFrames blocks
)

// PipelineNode is the interface every pipeline vertex implements. Process
// receives its already-resolved inputs (in source-wire order) and writes
// into out, which the pipeline pre-sizes for the node's declared output
// arity (mono=1, stereo=2, B-format=(order+1)^2 channels).
type PipelineNode interface {
	Kind() NodeKind
	Process(ins []*AudioBuffer, out *AudioBuffer)
	EmptyPolicy() EmptyInputPolicy
	TailFrames() int // reported by ConsumeTail nodes; Pipeline.Run does not read it
}

// pipelineEdge wires one node's output to another node's input slot.
type pipelineEdge struct {
	from, to int
	toSlot   int
}

// Pipeline is a DAG of PipelineNodes topologically sorted at construction.
type Pipeline struct {
	nodes  []PipelineNode
	edges  []pipelineEdge
	order  []int // topological order, indices into nodes
	inputs [][]int // inputs[i] = edges feeding node i, by source node index
}

// NewPipeline builds a pipeline from nodes and edges (from->to, filling
// to's input slot toSlot), rejecting cycles.
func NewPipeline(nodes []PipelineNode, edges []pipelineEdge) (*Pipeline, error) {
	p := &Pipeline{nodes: nodes, edges: edges, inputs: make([][]int, len(nodes))}
	indeg := make([]int, len(nodes))
	adj := make([][]int, len(nodes))
	for _, e := range edges {
		adj[e.from] = append(adj[e.from], e.to)
		indeg[e.to]++
		if len(p.inputs[e.to]) <= e.toSlot {
			grown := make([]int, e.toSlot+1)
			copy(grown, p.inputs[e.to])
			for i := range grown {
				grown[i] = -1
			}
			copy(grown, p.inputs[e.to])
			p.inputs[e.to] = grown
		}
		p.inputs[e.to][e.toSlot] = e.from
	}

	queue := make([]int, 0, len(nodes))
	for i, d := range indeg {
		if d == 0 {
			queue = append(queue, i)
		}
	}
	order := make([]int, 0, len(nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, m := range adj[n] {
			indeg[m]--
			if indeg[m] == 0 {
				queue = append(queue, m)
			}
		}
	}
	if len(order) != len(nodes) {
		return nil, newError(ErrInvalidParameter, "pipeline graph contains a cycle")
	}
	p.order = order
	return p, nil
}

// Run executes every node in topological order, threading each node's
// resolved inputs from its producers' last output buffers. bufOf supplies
// (and owns) the per-node output buffer.
func (p *Pipeline) Run(bufOf func(nodeIdx int) *AudioBuffer) {
	for _, i := range p.order {
		node := p.nodes[i]
		srcIdxs := p.inputs[i]
		ins := make([]*AudioBuffer, len(srcIdxs))
		for slot, src := range srcIdxs {
			if src >= 0 {
				ins[slot] = bufOf(src)
			}
		}
		out := bufOf(i)
		if allEmpty(ins) {
			switch node.EmptyPolicy() {
			case ProduceEmpty:
				out.Clear()
				continue
			case PassThrough:
				out.Clear()
				if len(ins) > 0 && ins[0] != nil {
					copyBuffer(ins[0], out)
				}
				continue
			case ConsumeTail:
				// fall through: let the node keep processing its (empty)
				// input so it can decay an internal tail (e.g. Reflections).
			}
		}
		node.Process(ins, out)
	}
}

// allEmpty reports whether every declared input is empty. A node with no
// input slots (e.g. Input, which originates a buffer rather than consuming
// one) is never considered empty by this check.
func allEmpty(ins []*AudioBuffer) bool {
	if len(ins) == 0 {
		return false
	}
	for _, b := range ins {
		if b != nil && !b.Empty() {
			return false
		}
	}
	return true
}

func copyBuffer(src, dst *AudioBuffer) {
	n := src.ChannelCount()
	if dst.ChannelCount() < n {
		n = dst.ChannelCount()
	}
	for c := 0; c < n; c++ {
		copy(dst.Channels[c], src.Channels[c])
	}
}
