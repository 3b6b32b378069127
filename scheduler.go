// scheduler.go - playback schedulers (spec.md §3 "Scheduler", §4.4)
//
// Grounded on original_source/src/Sound/Schedulers/RandomScheduler.cpp and
// SequenceScheduler.cpp: weighted-random selection with an avoid-repeat skip
// stack, and a stepping sequence with Restart/PingPong/Hold wraparound. Both
// satisfy the same Scheduler contract so a SwitchContainer or Collection can
// hold either interchangeably, matching audio_chip.go's interface-free but
// uniformly-shaped component tables generalized into one explicit interface.

package amplitude

import "math/rand"

// SchedulerEntry is one candidate the scheduler can select.
type SchedulerEntry struct {
	SoundID SoundID
	Weight  float32 // only consulted by RandomScheduler
}

// Scheduler selects the next entry to play given a set of entries currently
// to be skipped (already-playing instance-limited sounds, etc). Select never
// blocks; it returns ok=false if every entry is skipped and the policy
// forbids falling back to a skipped entry.
type Scheduler interface {
	Select(skip map[SoundID]bool) (SchedulerEntry, bool)
	Reset()
}

// RandomScheduler implements spec.md §4.4's weighted-random selection with
// an avoid-repeat history stack.
type RandomScheduler struct {
	Entries        []SchedulerEntry
	AvoidRepeatLen int // 0 disables repeat avoidance

	rng     *rand.Rand
	history []SoundID
}

// NewRandomScheduler builds a scheduler over entries, avoiding the last
// avoidRepeatLen choices unless doing so would leave no candidates.
func NewRandomScheduler(entries []SchedulerEntry, avoidRepeatLen int, seed int64) *RandomScheduler {
	return &RandomScheduler{
		Entries:        entries,
		AvoidRepeatLen: avoidRepeatLen,
		rng:            rand.New(rand.NewSource(seed)),
	}
}

// Select samples an entry weighted by Weight, excluding anything in skip or
// in the avoid-repeat history unless no other option exists.
func (s *RandomScheduler) Select(skip map[SoundID]bool) (SchedulerEntry, bool) {
	onStack := make(map[SoundID]bool, len(s.history))
	for _, id := range s.history {
		onStack[id] = true
	}

	candidate := s.pick(skip, onStack)
	if !candidate.found {
		// No entry survives skip+history; fall back to ignoring history.
		candidate = s.pick(skip, nil)
	}
	if !candidate.found {
		return SchedulerEntry{}, false
	}

	s.pushHistory(candidate.entry.SoundID)
	return candidate.entry, true
}

type pickResult struct {
	entry SchedulerEntry
	found bool
}

func (s *RandomScheduler) pick(skip, avoid map[SoundID]bool) pickResult {
	var total float32
	for _, e := range s.Entries {
		if skip[e.SoundID] || avoid[e.SoundID] {
			continue
		}
		total += e.Weight
	}
	if total <= 0 {
		return pickResult{}
	}
	x := s.rng.Float32() * total
	var running float32
	for _, e := range s.Entries {
		if skip[e.SoundID] || avoid[e.SoundID] {
			continue
		}
		running += e.Weight
		if running >= x {
			return pickResult{entry: e, found: true}
		}
	}
	return pickResult{}
}

func (s *RandomScheduler) pushHistory(id SoundID) {
	if s.AvoidRepeatLen <= 0 {
		return
	}
	s.history = append(s.history, id)
	if len(s.history) > s.AvoidRepeatLen {
		s.history = s.history[len(s.history)-s.AvoidRepeatLen:]
	}
}

// Reset clears the avoid-repeat history.
func (s *RandomScheduler) Reset() { s.history = nil }

// SequenceWrapPolicy selects out-of-range behavior for SequenceScheduler.
type SequenceWrapPolicy int

const (
	SequenceRestart  SequenceWrapPolicy = iota // wrap back to the first entry
	SequencePingPong                           // reverse direction at either end
	SequenceHold                               // clamp to the last (or first) entry forever
)

// SequenceScheduler implements spec.md §4.4's stepping sequence.
type SequenceScheduler struct {
	Entries []SchedulerEntry
	Policy  SequenceWrapPolicy

	nextIndex int
	step      int
	held      bool
}

// NewSequenceScheduler builds a scheduler starting before index 0, stepping
// +1, so the first Select lands on index 0.
func NewSequenceScheduler(entries []SchedulerEntry, policy SequenceWrapPolicy) *SequenceScheduler {
	return &SequenceScheduler{Entries: entries, Policy: policy, step: 1, nextIndex: -1}
}

// Select advances nextIndex (applying the wrap policy) until it lands on a
// non-skipped entry or a full lap completes with none found.
func (s *SequenceScheduler) Select(skip map[SoundID]bool) (SchedulerEntry, bool) {
	n := len(s.Entries)
	if n == 0 {
		return SchedulerEntry{}, false
	}
	if s.held {
		if !skip[s.Entries[s.nextIndex].SoundID] {
			return s.Entries[s.nextIndex], true
		}
		return SchedulerEntry{}, false
	}

	for i := 0; i < n; i++ {
		s.advance(n)
		e := s.Entries[s.nextIndex]
		if !skip[e.SoundID] {
			return e, true
		}
		if s.held {
			if !skip[e.SoundID] {
				return e, true
			}
			return SchedulerEntry{}, false
		}
	}
	return SchedulerEntry{}, false
}

func (s *SequenceScheduler) advance(n int) {
	s.nextIndex += s.step
	if s.nextIndex >= 0 && s.nextIndex < n {
		return
	}
	switch s.Policy {
	case SequenceRestart:
		if s.nextIndex >= n {
			s.nextIndex = 0
		} else {
			s.nextIndex = n - 1
		}
	case SequencePingPong:
		s.step = -s.step
		if s.nextIndex >= n {
			s.nextIndex = n - 1
			if n > 1 {
				s.nextIndex = n - 2
			}
		} else {
			s.nextIndex = 0
			if n > 1 {
				s.nextIndex = 1
			}
		}
	case SequenceHold:
		if s.nextIndex >= n {
			s.nextIndex = n - 1
		} else {
			s.nextIndex = 0
		}
		s.held = true
	}
}

// Reset returns the sequence to its initial position and direction.
func (s *SequenceScheduler) Reset() {
	s.nextIndex = -1
	s.step = 1
	s.held = false
}
