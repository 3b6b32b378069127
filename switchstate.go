// switchstate.go - switches and switch containers (spec.md §3 "Switch",
// "SwitchContainer", §4.5)
//
// Grounded on original_source/include/Amplitude/Sound/Switch.h and
// Sound/SwitchContainer.h: a named discrete state with an active value that
// entities reference, and a container that maps each switch value to its
// own set of sounds/fade rules; CurrentEntry looks up the entry for the
// bound switch's active value. Nothing in this package starts, stops or
// switches playback when the active value changes. The atomic active-value
// swap follows audio_backend_oto.go's atomic.Pointer[Engine] pattern for
// lock-free hot-path reads.

package amplitude

import "sync/atomic"

// Switch is a named discrete game state (e.g. "surface" -> "grass"/"metal").
type Switch struct {
	ID     SwitchContainerID
	Name   string
	active atomic.Uint32 // index into Values
	Values []string
}

// NewSwitch constructs a switch with the given possible values, defaulting
// to Values[0] (or the zero value if Values is empty).
func NewSwitch(id SwitchContainerID, name string, values []string) *Switch {
	return &Switch{ID: id, Name: name, Values: values}
}

// SetActive sets the active value by index; out-of-range indices are
// ignored (spec.md: invalid switch values are rejected, not crashed on).
func (s *Switch) SetActive(index int) error {
	if index < 0 || index >= len(s.Values) {
		return newError(ErrInvalidParameter, "switch %q has no value at index %d", s.Name, index)
	}
	s.active.Store(uint32(index))
	return nil
}

// SetActiveByName looks up value by name and makes it active.
func (s *Switch) SetActiveByName(value string) error {
	for i, v := range s.Values {
		if v == value {
			s.active.Store(uint32(i))
			return nil
		}
	}
	return newError(ErrInvalidParameter, "switch %q has no value %q", s.Name, value)
}

// ActiveIndex returns the currently active value's index.
func (s *Switch) ActiveIndex() int { return int(s.active.Load()) }

// ActiveValue returns the currently active value's name.
func (s *Switch) ActiveValue() string {
	i := s.ActiveIndex()
	if i < 0 || i >= len(s.Values) {
		return ""
	}
	return s.Values[i]
}

// SwitchContainerEntry binds one switch value to the sound it should play
// and the fade applied when switching into or out of it.
type SwitchContainerEntry struct {
	ValueIndex  int
	SoundID     SoundID
	FadeInMs    float64
	FadeOutMs   float64
}

// SwitchContainer plays a different sound per active switch value, per
// spec.md's SwitchContainer type.
type SwitchContainer struct {
	ID      SwitchContainerID
	Switch  *Switch
	Entries []SwitchContainerEntry
}

// NewSwitchContainer binds a switch container to its governing switch.
func NewSwitchContainer(id SwitchContainerID, sw *Switch, entries []SwitchContainerEntry) *SwitchContainer {
	return &SwitchContainer{ID: id, Switch: sw, Entries: entries}
}

// CurrentEntry returns the entry matching the bound switch's active value,
// or false if no entry is bound to that value.
func (c *SwitchContainer) CurrentEntry() (SwitchContainerEntry, bool) {
	idx := c.Switch.ActiveIndex()
	for _, e := range c.Entries {
		if e.ValueIndex == idx {
			return e, true
		}
	}
	return SwitchContainerEntry{}, false
}
