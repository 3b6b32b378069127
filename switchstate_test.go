package amplitude

import "testing"

func TestSwitchDefaultsToZeroIndex(t *testing.T) {
	sw := NewSwitch(1, "surface", []string{"grass", "metal", "wood"})
	if sw.ActiveIndex() != 0 {
		t.Errorf("ActiveIndex on a fresh switch = %d, want 0", sw.ActiveIndex())
	}
	if sw.ActiveValue() != "grass" {
		t.Errorf("ActiveValue on a fresh switch = %q, want %q", sw.ActiveValue(), "grass")
	}
}

func TestSwitchSetActiveRejectsOutOfRange(t *testing.T) {
	sw := NewSwitch(1, "surface", []string{"grass", "metal"})
	if err := sw.SetActive(5); err == nil {
		t.Error("SetActive with an out-of-range index must return an error")
	}
	if sw.ActiveIndex() != 0 {
		t.Errorf("a rejected SetActive must not change ActiveIndex, got %d", sw.ActiveIndex())
	}
}

func TestSwitchSetActiveByName(t *testing.T) {
	sw := NewSwitch(1, "surface", []string{"grass", "metal"})
	if err := sw.SetActiveByName("metal"); err != nil {
		t.Fatalf("SetActiveByName(metal): %v", err)
	}
	if sw.ActiveValue() != "metal" {
		t.Errorf("ActiveValue after SetActiveByName(metal) = %q, want metal", sw.ActiveValue())
	}
	if err := sw.SetActiveByName("concrete"); err == nil {
		t.Error("SetActiveByName with an unknown value must return an error")
	}
}

func TestSwitchContainerCurrentEntryFollowsActiveSwitch(t *testing.T) {
	sw := NewSwitch(1, "surface", []string{"grass", "metal"})
	sc := NewSwitchContainer(1, sw, []SwitchContainerEntry{
		{ValueIndex: 0, SoundID: 10},
		{ValueIndex: 1, SoundID: 20},
	})

	e, ok := sc.CurrentEntry()
	if !ok || e.SoundID != 10 {
		t.Fatalf("CurrentEntry at default switch value = %+v, ok=%v, want SoundID 10", e, ok)
	}

	sw.SetActive(1)
	e, ok = sc.CurrentEntry()
	if !ok || e.SoundID != 20 {
		t.Fatalf("CurrentEntry after switching to value 1 = %+v, ok=%v, want SoundID 20", e, ok)
	}
}

func TestSwitchContainerCurrentEntryMissingBindingReturnsFalse(t *testing.T) {
	sw := NewSwitch(1, "surface", []string{"grass", "metal", "wood"})
	sc := NewSwitchContainer(1, sw, []SwitchContainerEntry{{ValueIndex: 0, SoundID: 10}})
	sw.SetActive(2)
	if _, ok := sc.CurrentEntry(); ok {
		t.Error("CurrentEntry must report false when no entry binds the active switch value")
	}
}
