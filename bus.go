// bus.go - bus graph (spec.md §4.2, §3 "Bus")
//
// No direct teacher analogue (the chip has one flat output); the gain
// formula and duck/fade semantics are grounded on
// original_source/src/Core/Bus.cpp and bindings/c/src/amplitude_bus.cpp.
// The read/recompute split follows audio_chip.go's GenerateSample
// RLock-copy-RUnlock discipline: FinalGain is recomputed once per tick under
// a write lock, then read lock-free for the rest of the tick by every voice.

package amplitude

import "sync"

// DuckEntry is one entry in a bus's duck list (spec.md §3 Bus).
type DuckEntry struct {
	Target *Bus
	Ratio  float32
	Fader  *Fader
}

// Bus is one node in the gain tree rooted at the master bus.
type Bus struct {
	ID        BusID
	Name      string
	UserGain  float32
	FinalGain float32
	Mute      bool

	parent   *Bus
	children []*Bus
	ducks    []*DuckEntry
	fadeFrom float32
	fadeTo   float32
	fader    *Fader

	mu sync.RWMutex
}

// BusGraph owns every bus and enforces the single-master-bus invariant.
type BusGraph struct {
	byID   map[BusID]*Bus
	byName map[string]*Bus
	master *Bus
}

// NewBusGraph constructs a graph with just the master bus, gain 1.0.
func NewBusGraph() *BusGraph {
	master := &Bus{ID: MasterBusID, Name: "master", UserGain: 1, FinalGain: 1}
	return &BusGraph{
		byID:   map[BusID]*Bus{MasterBusID: master},
		byName: map[string]*Bus{"master": master},
		master: master,
	}
}

// Master returns the root bus.
func (g *BusGraph) Master() *Bus { return g.master }

// AddBus creates a new bus under parentID. Returns InvalidParameter if
// parentID is unknown or id is already taken or zero/reserved.
func (g *BusGraph) AddBus(id BusID, name string, parentID BusID) (*Bus, error) {
	if id == InvalidID || id == MasterBusID {
		return nil, newError(ErrInvalidParameter, "bus id %d is reserved", id)
	}
	if _, exists := g.byID[id]; exists {
		return nil, newError(ErrInvalidParameter, "bus id %d already exists", id)
	}
	parent, ok := g.byID[parentID]
	if !ok {
		return nil, newError(ErrInvalidParameter, "unknown parent bus %d", parentID)
	}
	bus := &Bus{ID: id, Name: name, UserGain: 1, FinalGain: 1, parent: parent}
	parent.children = append(parent.children, bus)
	g.byID[id] = bus
	if name != "" {
		g.byName[name] = bus
	}
	return bus, nil
}

// FindByID looks up a bus by id.
func (g *BusGraph) FindByID(id BusID) (*Bus, bool) {
	b, ok := g.byID[id]
	return b, ok
}

// FindByName looks up a bus by name.
func (g *BusGraph) FindByName(name string) (*Bus, bool) {
	b, ok := g.byName[name]
	return b, ok
}

// SetUserGain sets a bus's direct gain multiplier, applied at the next
// RecomputeGains call.
func (b *Bus) SetUserGain(gain float32) error {
	if gain < 0 {
		return newError(ErrInvalidParameter, "negative gain %f", gain)
	}
	b.mu.Lock()
	b.UserGain = gain
	b.mu.Unlock()
	return nil
}

// FadeTo starts (or replaces) a fade of UserGain to target over durationMs.
// duration 0 is instantaneous; negative is rejected (spec.md §4.2).
func (b *Bus) FadeTo(target float32, durationMs float64, now float64) error {
	if durationMs < 0 {
		return newError(ErrInvalidParameter, "negative fade duration %f", durationMs)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if durationMs == 0 {
		b.UserGain = target
		b.fader = nil
		return nil
	}
	b.fader = NewFader(b.UserGain, target, durationMs, now, CurveLinear)
	return nil
}

// SetMute toggles whether this bus (and by extension its subtree, via the
// final-gain multiplication) is silenced.
func (b *Bus) SetMute(mute bool) {
	b.mu.Lock()
	b.Mute = mute
	b.mu.Unlock()
}

// Duck registers an attenuation this bus applies to other whenever this
// bus's signal triggers it; ratio is linear gain subtracted from other's
// final gain, ramped over fadeMs. The entry lives on other's duck list
// since RecomputeGains applies a bus's incoming ducks to its own gain.
func (b *Bus) Duck(other *Bus, ratio float32, fadeMs float64, now float64) {
	entry := &DuckEntry{Target: b, Ratio: ratio, Fader: NewFader(0, 1, fadeMs, now, CurveLinear)}
	other.mu.Lock()
	other.ducks = append(other.ducks, entry)
	other.mu.Unlock()
}

// RecomputeGains walks the tree depth-first from master, applying
// spec.md §4.2's formula:
//
//	final = parent.final * user_gain * (1 - Σ duck_i.ratio*duck_i.fader) * (mute?0:1)
//
// While a FadeTo ramp is active its current value is written into user_gain,
// so the fade is not a separate factor. Must be called once per tick before any voice reads FinalGain.
func (g *BusGraph) RecomputeGains(now float64) {
	g.recompute(g.master, 1.0, now)
}

func (g *BusGraph) recompute(b *Bus, parentFinal float32, now float64) {
	b.mu.Lock()
	if b.fader != nil {
		b.UserGain = b.fader.Value(now)
		if b.fader.Done(now) {
			b.fader = nil
		}
	}
	duckAttenuation := float32(0)
	for _, d := range b.ducks {
		if d.Fader != nil {
			duckAttenuation += d.Ratio * d.Fader.Value(now)
		} else {
			duckAttenuation += d.Ratio
		}
	}
	if duckAttenuation > 1 {
		duckAttenuation = 1
	}
	if duckAttenuation < 0 {
		duckAttenuation = 0
	}
	final := parentFinal * b.UserGain * (1 - duckAttenuation)
	if b.Mute {
		final = 0
	}
	final = clampf32(final, 0, 1)
	b.FinalGain = final
	children := append([]*Bus(nil), b.children...)
	b.mu.Unlock()

	for _, c := range children {
		g.recompute(c, final, now)
	}
}

// Depth returns the bus's distance from the master bus (master is 0); used
// to validate the "final gain is a product of at most tree_depth factors"
// invariant in tests.
func (b *Bus) Depth() int {
	d := 0
	for p := b.parent; p != nil; p = p.parent {
		d++
	}
	return d
}
