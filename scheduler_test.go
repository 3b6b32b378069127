package amplitude

import "testing"

func TestRandomSchedulerAllSkippedReturnsNone(t *testing.T) {
	s := NewRandomScheduler([]SchedulerEntry{{SoundID: 1, Weight: 1}, {SoundID: 2, Weight: 1}}, 0, 1)
	skip := map[SoundID]bool{1: true, 2: true}
	if _, ok := s.Select(skip); ok {
		t.Errorf("Select with every entry skipped should return ok=false")
	}
}

func TestRandomSchedulerWeightedFrequency(t *testing.T) {
	entries := []SchedulerEntry{{SoundID: 1, Weight: 1}, {SoundID: 2, Weight: 1}, {SoundID: 3, Weight: 8}}
	s := NewRandomScheduler(entries, 0, 42)
	const trials = 100000
	counts := map[SoundID]int{}
	for i := 0; i < trials; i++ {
		e, ok := s.Select(nil)
		if !ok {
			t.Fatalf("Select failed on trial %d", i)
		}
		counts[e.SoundID]++
	}
	freq3 := float64(counts[3]) / float64(trials)
	if freq3 < 0.75 || freq3 > 0.85 {
		t.Errorf("observed frequency of weight-8 entry = %v, want close to 0.8", freq3)
	}
}

func TestRandomSchedulerAvoidsRepeatUntilExhausted(t *testing.T) {
	entries := []SchedulerEntry{{SoundID: 1, Weight: 1}, {SoundID: 2, Weight: 1}}
	s := NewRandomScheduler(entries, 1, 7)
	first, ok := s.Select(nil)
	if !ok {
		t.Fatal("first Select failed")
	}
	for i := 0; i < 20; i++ {
		next, ok := s.Select(nil)
		if !ok {
			t.Fatal("Select failed")
		}
		if next.SoundID == first.SoundID {
			t.Fatalf("repeat avoidance failed: got %d twice in a row", next.SoundID)
		}
		first = next
	}
}

func TestRandomSchedulerRepeatFallsBackWhenOnlyOneCandidate(t *testing.T) {
	entries := []SchedulerEntry{{SoundID: 1, Weight: 1}}
	s := NewRandomScheduler(entries, 1, 3)
	for i := 0; i < 5; i++ {
		if _, ok := s.Select(nil); !ok {
			t.Fatalf("Select with a single candidate and avoid-repeat must still succeed (trial %d)", i)
		}
	}
}

func TestSequenceSchedulerPingPong(t *testing.T) {
	entries := make([]SchedulerEntry, 5)
	for i := range entries {
		entries[i] = SchedulerEntry{SoundID: AssetID(i)}
	}
	s := NewSequenceScheduler(entries, SequencePingPong)
	want := []AssetID{0, 1, 2, 3, 4, 3, 2, 1, 0, 1, 2, 3}
	for i, w := range want {
		e, ok := s.Select(nil)
		if !ok {
			t.Fatalf("Select #%d failed", i)
		}
		if e.SoundID != w {
			t.Errorf("Select #%d = %d, want %d", i, e.SoundID, w)
		}
	}
}

func TestSequenceSchedulerRestartWraps(t *testing.T) {
	entries := []SchedulerEntry{{SoundID: 0}, {SoundID: 1}, {SoundID: 2}}
	s := NewSequenceScheduler(entries, SequenceRestart)
	want := []AssetID{0, 1, 2, 0, 1, 2}
	for i, w := range want {
		e, _ := s.Select(nil)
		if e.SoundID != w {
			t.Errorf("Select #%d = %d, want %d", i, e.SoundID, w)
		}
	}
}

func TestSequenceSchedulerHoldClampsAtEnd(t *testing.T) {
	entries := []SchedulerEntry{{SoundID: 0}, {SoundID: 1}}
	s := NewSequenceScheduler(entries, SequenceHold)
	s.Select(nil) // 0
	s.Select(nil) // 1
	last, ok := s.Select(nil)
	if !ok || last.SoundID != 1 {
		t.Errorf("Hold scheduler should clamp at the final entry, got %+v ok=%v", last, ok)
	}
	last, ok = s.Select(nil)
	if !ok || last.SoundID != 1 {
		t.Errorf("Hold scheduler should keep returning the final entry, got %+v ok=%v", last, ok)
	}
}

func TestSequenceSchedulerResetRestartsFromZero(t *testing.T) {
	entries := []SchedulerEntry{{SoundID: 0}, {SoundID: 1}, {SoundID: 2}}
	s := NewSequenceScheduler(entries, SequenceRestart)
	s.Select(nil)
	s.Select(nil)
	s.Reset()
	e, _ := s.Select(nil)
	if e.SoundID != 0 {
		t.Errorf("first Select after Reset = %d, want 0", e.SoundID)
	}
}
