// assets.go - sound-object union, attenuation, and bank tables (spec.md §3
// "Sound object", "Attenuation", §6 "Decoder interface")
//
// Grounded on original_source/include/Amplitude/Sound/Sound.h,
// Collection.h, SwitchContainer.h, Attenuation.h, and bindings/c/src/
// amplitude_{bus,channel,memory}.cpp's bank-load lifecycle. Decoder is kept
// as a narrow consumed interface exactly as spec.md §6 names it -- codecs
// themselves are out of scope (spec.md §1's "Out of scope").

package amplitude

// SoundFormat describes the PCM a Decoder produces (spec.md §3).
type SoundFormat struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	FrameCount    int
	FrameSize     int
	Float         bool
	Interleaved   bool
}

// Decoder is the narrow interface the mixer consumes to pull PCM frames
// (spec.md §6 "Decoder interface"). Implementations (WAV/OGG/FLAC/...) live
// outside this module.
type Decoder interface {
	Open(path string) error
	Close() error
	Load(buf []float32) (int, error)
	Stream(buf []float32, sampleOffset, frameCount int) (int, error)
	Seek(sampleOffset int) error
	Format() SoundFormat
}

// Resampler is the narrow interface the mixer consumes to convert decoder
// output to the device's output rate (spec.md §6 "Resampler interface").
type Resampler interface {
	Initialize(channels, sampleRateIn, sampleRateOut int) error
	Process(in []float32, out []float32) (inFrames, outFrames int, ok bool)
	RequiredInputFrames(outputFrames int) int
	Reset()
	Clear()
}

// SoundKind discriminates the Sound/Collection/SwitchContainer union
// (spec.md §3 "Sound object").
type SoundKind int

const (
	KindSound SoundKind = iota
	KindCollection
	KindSwitchContainer
)

// SoundObject is the common fields shared by Sound, Collection, and
// SwitchContainer (spec.md §3).
type SoundObject struct {
	ID            SoundID
	Kind          SoundKind
	BusID         BusID
	Gain          *Rtpc
	Pitch         *Rtpc
	Priority      *Rtpc
	EffectID      EffectID
	AttenuationID AttenuationID

	// Collection-only:
	Scheduler Scheduler
	Members   []SoundID

	// SwitchContainer-only:
	Container *SwitchContainer

	// Sound-only:
	DecoderFactory func() (Decoder, error)
	Looping        bool
}

// AttenuationShape names the region an Attenuation asset projects
// (spec.md §3 "Attenuation").
type AttenuationShape int

const (
	ShapeSphere AttenuationShape = iota
	ShapeCone
	ShapeBox
	ShapeCapsule
)

// Attenuation yields a scalar gain for (source, listener) by distance
// (spec.md §3).
type Attenuation struct {
	ID         AttenuationID
	MaxDistance float32
	GainCurve  *Curve
	Shape      AttenuationShape
}

// Gain evaluates the attenuation curve at the given source-listener
// distance, clamped to [0, MaxDistance].
func (a *Attenuation) Gain(distance float32) float32 {
	if distance < 0 {
		distance = 0
	}
	if a.MaxDistance > 0 && distance > a.MaxDistance {
		distance = a.MaxDistance
	}
	normalized := float32(0)
	if a.MaxDistance > 0 {
		normalized = distance / a.MaxDistance
	}
	return a.GainCurve.Evaluate(normalized)
}

// AssetTable owns every loaded SoundObject/Attenuation, keyed by id, and
// tracks which named banks contributed which ids so they can be unloaded as
// a unit (spec.md §6 "load_bank(name) / unload_bank(name)").
type AssetTable struct {
	sounds       map[SoundID]*SoundObject
	attenuations map[AttenuationID]*Attenuation
	banks        map[string][]SoundID
}

// NewAssetTable constructs an empty asset table.
func NewAssetTable() *AssetTable {
	return &AssetTable{
		sounds:       make(map[SoundID]*SoundObject),
		attenuations: make(map[AttenuationID]*Attenuation),
		banks:        make(map[string][]SoundID),
	}
}

// LoadBank registers every sound object in objects under name, so
// UnloadBank(name) can retract them as a unit.
func (t *AssetTable) LoadBank(name string, objects []*SoundObject, attenuations []*Attenuation) error {
	if _, exists := t.banks[name]; exists {
		return newError(ErrAlreadyInitialized, "bank %q already loaded", name)
	}
	ids := make([]SoundID, 0, len(objects))
	for _, o := range objects {
		t.sounds[o.ID] = o
		ids = append(ids, o.ID)
	}
	for _, a := range attenuations {
		t.attenuations[a.ID] = a
	}
	t.banks[name] = ids
	return nil
}

// UnloadBank removes every sound object that LoadBank(name) registered.
func (t *AssetTable) UnloadBank(name string) error {
	ids, ok := t.banks[name]
	if !ok {
		return newError(ErrNotInitialized, "bank %q not loaded", name)
	}
	for _, id := range ids {
		delete(t.sounds, id)
	}
	delete(t.banks, name)
	return nil
}

// Sound looks up a sound object by id; a missing or invalid id is a
// precondition violation the caller surfaces as a null/invalid handle
// (spec.md §7).
func (t *AssetTable) Sound(id SoundID) (*SoundObject, bool) {
	s, ok := t.sounds[id]
	return s, ok
}

// AttenuationByID looks up an attenuation asset by id.
func (t *AssetTable) AttenuationByID(id AttenuationID) (*Attenuation, bool) {
	a, ok := t.attenuations[id]
	return a, ok
}
