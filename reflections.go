// reflections.go - early reflections via image sources (spec.md §4.10
// "Reflections")
//
// Grounded on original_source/src/Core/Room.cpp + ReflectionsProcessor.cpp:
// for each of a shoebox room's 6 surfaces, mirror the listener through that
// wall to get an image-source direction, derive delay from distance/speed
// of sound and gain from the surface's reflection coefficient, low-pass the
// result, and encode into B-format at the image-source direction. Shares
// per-surface delay lines sized to the room's max possible distance rather
// than the teacher's single fixed pre-delay buffer.

package amplitude

import "math"

const speedOfSoundMPerS = 343.0

// RoomSurface names one of a shoebox room's 6 walls (spec.md §4.10).
type RoomSurface int

const (
	SurfaceLeft RoomSurface = iota
	SurfaceRight
	SurfaceFloor
	SurfaceCeiling
	SurfaceFront
	SurfaceBack
)

// Vec3 is a 3D position/direction.
type Vec3 struct{ X, Y, Z float32 }

// Room is a shoebox-shaped space bounding one or more entities/listeners,
// used to derive reflections and reverb parameters (spec.md §4.10).
type Room struct {
	ID         AssetID
	Dimensions Vec3 // width (X), height (Y), depth (Z)
	Center     Vec3
	Absorption [6]float32 // per RoomSurface, in [0,1]
}

// Volume returns the room's volume in cubic meters.
func (r *Room) Volume() float32 {
	return r.Dimensions.X * r.Dimensions.Y * r.Dimensions.Z
}

// MaxSurfaceArea returns the largest of the room's three distinct face
// areas, used by reverb.go's room_size derivation.
func (r *Room) MaxSurfaceArea() float32 {
	xy := r.Dimensions.X * r.Dimensions.Y
	yz := r.Dimensions.Y * r.Dimensions.Z
	xz := r.Dimensions.X * r.Dimensions.Z
	m := xy
	if yz > m {
		m = yz
	}
	if xz > m {
		m = xz
	}
	return m
}

// AverageAbsorption is the mean of the 6 wall absorption coefficients.
func (r *Room) AverageAbsorption() float32 {
	var sum float32
	for _, a := range r.Absorption {
		sum += a
	}
	return sum / 6
}

// imageSource mirrors pos through one of the room's 6 walls, returning the
// mirrored position.
func (r *Room) imageSource(pos Vec3, surface RoomSurface) Vec3 {
	halfX, halfY, halfZ := r.Dimensions.X/2, r.Dimensions.Y/2, r.Dimensions.Z/2
	switch surface {
	case SurfaceLeft:
		wall := r.Center.X - halfX
		return Vec3{X: 2*wall - pos.X, Y: pos.Y, Z: pos.Z}
	case SurfaceRight:
		wall := r.Center.X + halfX
		return Vec3{X: 2*wall - pos.X, Y: pos.Y, Z: pos.Z}
	case SurfaceFloor:
		wall := r.Center.Y - halfY
		return Vec3{X: pos.X, Y: 2*wall - pos.Y, Z: pos.Z}
	case SurfaceCeiling:
		wall := r.Center.Y + halfY
		return Vec3{X: pos.X, Y: 2*wall - pos.Y, Z: pos.Z}
	case SurfaceFront:
		wall := r.Center.Z - halfZ
		return Vec3{X: pos.X, Y: pos.Y, Z: 2*wall - pos.Z}
	default: // SurfaceBack
		wall := r.Center.Z + halfZ
		return Vec3{X: pos.X, Y: pos.Y, Z: 2*wall - pos.Z}
	}
}

func vecSub(a, b Vec3) Vec3    { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func vecLength(v Vec3) float32 { return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z))) }

// directionOf returns (azimuth, elevation) of v, listener-forward along +Z.
func directionOf(v Vec3) (azimuth, elevation float64) {
	l := vecLength(v)
	if l == 0 {
		return 0, 0
	}
	azimuth = math.Atan2(float64(v.X), float64(v.Z))
	elevation = math.Asin(float64(v.Y / l))
	return
}

// reflectionTap is one surface's current delay/gain/direction state.
type reflectionTap struct {
	delayLine   *DelayLine
	lpf         *MonoPoleFilter
	gain        float32
	azimuth     float64
	elevation   float64
	delaySamples int
}

// ReflectionsProcessor renders a mono source's early reflections into
// B-format (spec.md §4.10). New geometry takes effect at the next Process
// call: the taps switch to their new delay/gain/direction at once, with no
// cross-fade from the previous values (Process does not read crossFade or
// fadeStep).
type ReflectionsProcessor struct {
	sampleRate int
	order      int
	encoder    *AmbisonicEncoder
	taps       [6]*reflectionTap

	crossFade    float32 // 0 = fully previous room, 1 = fully target
	fadeStep     float32
	tailFrames   int
	tailRemaining int
}

// NewReflectionsProcessor allocates per-surface delay lines sized to
// maxDistance/speedOfSound (spec.md §4.10: `max_delay = ceil(max_distance /
// speed_of_sound * sample_rate)`).
func NewReflectionsProcessor(sampleRate, order int, maxDistance float32) *ReflectionsProcessor {
	maxDelay := int(math.Ceil(float64(maxDistance) / speedOfSoundMPerS * float64(sampleRate)))
	if maxDelay < 1 {
		maxDelay = 1
	}
	p := &ReflectionsProcessor{
		sampleRate: sampleRate, order: order,
		encoder:    NewAmbisonicEncoder(order),
		crossFade:  1,
		tailFrames: sampleRate / 10, // 100ms decay tail once input goes empty
	}
	for i := range p.taps {
		p.taps[i] = &reflectionTap{delayLine: NewDelayLine(maxDelay), lpf: &MonoPoleFilter{Coefficient: 0.3}}
	}
	return p
}

// UpdateGeometry recomputes every surface's delay/gain/direction from the
// room and listener position, resets crossFade to 0 with a fadeStep of
// 1/blockSize, and restarts the tail countdown (spec.md §4.10).
func (p *ReflectionsProcessor) UpdateGeometry(room *Room, sourcePos, listenerPos Vec3, blockSize int) {
	for s := RoomSurface(0); s < 6; s++ {
		img := room.imageSource(listenerPos, s)
		toSource := vecSub(sourcePos, img)
		dist := vecLength(toSource)
		az, el := directionOf(toSource)

		tap := p.taps[s]
		tap.azimuth = az
		tap.elevation = el
		// magnitude from the wall's reflection coefficient, sqrt(1 - absorption)
		tap.gain = float32(math.Sqrt(float64(1 - clampf32(room.Absorption[s], 0, 1))))
		tap.lpf.Coefficient = CoefficientFromCutoff(1 - room.Absorption[s])
		tap.delaySamples = int(dist / speedOfSoundMPerS * float32(p.sampleRate))
	}
	p.crossFade = 0
	if blockSize > 0 {
		p.fadeStep = 1.0 / float32(blockSize)
	}
	p.tailRemaining = p.tailFrames
}

// TailFrames reports how many more blocks of empty input this processor
// should keep consuming to let its delay lines ring out.
func (p *ReflectionsProcessor) TailFrames() int { return p.tailFrames }

// Process renders in (mono, may be a zero-filled tail block) into out
// (B-format).
func (p *ReflectionsProcessor) Process(in []float32, out *AudioBuffer) {
	n := AmbisonicChannelCount(p.order)
	for ch := 0; ch < n; ch++ {
		for i := range out.Channels[ch] {
			out.Channels[ch][i] = 0
		}
	}

	frames := len(in)
	mono := make([]float32, frames)
	for _, tap := range p.taps {
		for i, s := range in {
			delayed := tap.delayLine.ProcessAt(s, tap.delaySamples)
			mono[i] = tap.lpf.Process(delayed) * tap.gain
		}
		p.encoder.SetDirection(tap.azimuth, tap.elevation)
		// The encoder is shared by all taps: start the ramp at this tap's own
		// direction rather than at the previous tap's.
		copy(p.encoder.prevCoeffs, p.encoder.currCoeffs)

		tapBuf := NewAudioBuffer(n, frames)
		p.encoder.Process(mono, tapBuf)
		for ch := 0; ch < n; ch++ {
			for i := range out.Channels[ch] {
				out.Channels[ch][i] += tapBuf.Channels[ch][i]
			}
		}
	}

	if p.tailRemaining > 0 {
		p.tailRemaining--
	}
}
