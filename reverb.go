// reverb.go - Freeverb-style late reverb (spec.md §4.10 "Late reverb")
//
// Grounded on audio_chip.go's applyReverb (comb+allpass network driven by a
// fixed feedback/damp pair), generalized to Freeverb's canonical 8 parallel
// combs (independently damped) + 4 serial allpasses, with room_size and damp
// derived from room geometry instead of hardcoded constants.

package amplitude

import "math"

const (
	reverbNumCombs    = 8
	reverbNumAllpass  = 4
	reverbFixedGain   = 0.015
	reverbScaleWet    = 3
	reverbScaleDamp   = 0.4
	reverbScaleRoom   = 0.28
	reverbOffsetRoom  = 0.7
	reverbStereoSpead = 23
)

// combTuningsL are the canonical Freeverb comb delay lengths (samples at
// 44100 Hz); scaled by sampleRate/44100 at construction for other rates.
var combTuningsL = [reverbNumCombs]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
var allpassTuningsL = [reverbNumAllpass]int{556, 441, 341, 225}

// dampedComb is one Freeverb comb filter: feedback with a one-pole damping
// filter in the loop.
type dampedComb struct {
	buf    []float32
	pos    int
	feedback float32
	damp1, damp2 float32
	filterStore float32
}

func newDampedComb(size int) *dampedComb {
	return &dampedComb{buf: make([]float32, size)}
}

func (c *dampedComb) process(in float32) float32 {
	out := c.buf[c.pos]
	c.filterStore = out*c.damp2 + c.filterStore*c.damp1
	c.buf[c.pos] = in + c.filterStore*c.feedback
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

// Reverb is a Freeverb-style late reverberator: parallel damped combs per
// channel, feeding serial allpasses, mixed by Width/Wet/Dry (spec.md §4.10).
type Reverb struct {
	RoomSize, Damp, Width, Wet, Dry float32

	combsL, combsR     [reverbNumCombs]*dampedComb
	allpassL, allpassR [reverbNumAllpass]*AllpassFilter
	sampleRate         int
}

// NewReverb constructs a reverb at sampleRate with room_size derived from
// room volume/surface area and damp from average wall absorption
// (spec.md §4.10: `room_size = volume / (maxSurface * sqrt(maxSurface))`).
func NewReverb(sampleRate int, roomVolume, maxSurfaceArea, avgAbsorption float32) *Reverb {
	r := &Reverb{Wet: 0.3, Dry: 0.7, Width: 1.0, sampleRate: sampleRate}
	if maxSurfaceArea > 0 {
		r.RoomSize = clampf32(roomVolume/(maxSurfaceArea*float32(math.Sqrt(float64(maxSurfaceArea)))), 0, 1)
	} else {
		r.RoomSize = 0.5
	}
	r.Damp = clampf32(avgAbsorption, 0, 1)

	scale := float32(sampleRate) / 44100
	for i := 0; i < reverbNumCombs; i++ {
		r.combsL[i] = newDampedComb(int(float32(combTuningsL[i]) * scale))
		r.combsR[i] = newDampedComb(int(float32(combTuningsL[i]+reverbStereoSpead) * scale))
	}
	for i := 0; i < reverbNumAllpass; i++ {
		r.allpassL[i] = NewAllpassFilter(int(float32(allpassTuningsL[i])*scale), 0.5)
		r.allpassR[i] = NewAllpassFilter(int(float32(allpassTuningsL[i]+reverbStereoSpead)*scale), 0.5)
	}
	r.updateCombParams()
	return r
}

func (r *Reverb) updateCombParams() {
	feedback := reverbOffsetRoom + r.RoomSize*reverbScaleRoom
	damp1 := r.Damp * reverbScaleDamp
	damp2 := 1 - damp1
	for i := 0; i < reverbNumCombs; i++ {
		r.combsL[i].feedback = feedback
		r.combsL[i].damp1 = damp1
		r.combsL[i].damp2 = damp2
		r.combsR[i].feedback = feedback
		r.combsR[i].damp1 = damp1
		r.combsR[i].damp2 = damp2
	}
}

// SetRoomParams updates room_size/damp (e.g. on a room change) and
// recomputes derived comb coefficients.
func (r *Reverb) SetRoomParams(roomSize, damp float32) {
	r.RoomSize = clampf32(roomSize, 0, 1)
	r.Damp = clampf32(damp, 0, 1)
	r.updateCombParams()
}

// Process renders one mono input sample into a stereo pair.
func (r *Reverb) Process(in float32) (left, right float32) {
	input := in * reverbFixedGain
	var outL, outR float32
	for i := 0; i < reverbNumCombs; i++ {
		outL += r.combsL[i].process(input)
		outR += r.combsR[i].process(input)
	}
	for i := 0; i < reverbNumAllpass; i++ {
		outL = r.allpassL[i].Process(outL)
		outR = r.allpassR[i].Process(outR)
	}
	wet1 := r.Wet * (r.Width/2 + 0.5)
	wet2 := r.Wet * ((1 - r.Width) / 2)
	left = outL*wet1 + outR*wet2 + in*r.Dry
	right = outR*wet1 + outL*wet2 + in*r.Dry
	return
}
