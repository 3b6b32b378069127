package amplitude

import "testing"

func TestChannelStopsExactlyOnce(t *testing.T) {
	p := NewChannelPool(4)
	h, ch, ok := p.Acquire()
	if !ok {
		t.Fatal("Acquire failed")
	}
	ch.Play(1, nil, false, 0, 0)
	if ch.State != ChannelPlaying {
		t.Fatalf("State after zero-fade Play = %v, want Playing", ch.State)
	}

	ch.Stop(0, 0)
	if ch.State != ChannelStopped {
		t.Fatalf("State after zero-fade Stop = %v, want Stopped", ch.State)
	}
	stoppedAt := ch.State

	// A second Stop call must be a no-op: still Stopped, no panics, handle
	// resolution unaffected.
	ch.Stop(0, 0)
	if ch.State != stoppedAt {
		t.Errorf("second Stop() changed state to %v", ch.State)
	}

	if _, ok := p.Resolve(h); !ok {
		t.Errorf("a Stopped-but-not-Released channel should still Resolve")
	}
}

func TestChannelFadeOutThenStopped(t *testing.T) {
	p := NewChannelPool(1)
	_, ch, _ := p.Acquire()
	ch.Play(1, nil, false, 0, 0)
	ch.Stop(100, 0)
	if ch.State != ChannelFadingOut {
		t.Fatalf("State after fade-out Stop = %v, want FadingOut", ch.State)
	}
	if g := ch.CurrentGain(0); g != 1 {
		t.Errorf("gain at fade-out start = %v, want 1", g)
	}
	ch.Advance(50)
	if ch.State != ChannelFadingOut {
		t.Fatalf("State mid-fade = %v, want still FadingOut", ch.State)
	}
	ch.Advance(100)
	if ch.State != ChannelStopped {
		t.Fatalf("State once fade-out duration elapses = %v, want Stopped", ch.State)
	}
}

func TestChannelPauseResume(t *testing.T) {
	p := NewChannelPool(1)
	_, ch, _ := p.Acquire()
	ch.Play(1, nil, false, 0, 0)
	ch.Pause(0)
	ch.Advance(10) // pause fade (5ms) has elapsed
	if ch.State != ChannelPaused {
		t.Fatalf("State after Pause settles = %v, want Paused", ch.State)
	}
	ch.Resume(0, 10)
	if ch.State != ChannelPlaying {
		t.Fatalf("State after zero-fade Resume = %v, want Playing", ch.State)
	}
}

func TestChannelHandleGenerationGuardsStaleHandle(t *testing.T) {
	p := NewChannelPool(1)
	h1, ch, _ := p.Acquire()
	ch.Play(1, nil, false, 0, 0)
	p.Release(h1)

	if _, ok := p.Resolve(h1); ok {
		t.Errorf("a released handle must not resolve")
	}

	h2, _, ok := p.Acquire()
	if !ok {
		t.Fatal("Acquire after Release failed")
	}
	if h1.generation == h2.generation {
		t.Errorf("reacquired slot must bump generation: h1.gen=%d h2.gen=%d", h1.generation, h2.generation)
	}
}

func TestChannelPoolExhaustion(t *testing.T) {
	p := NewChannelPool(1)
	if _, _, ok := p.Acquire(); !ok {
		t.Fatal("first Acquire should succeed")
	}
	if _, _, ok := p.Acquire(); ok {
		t.Errorf("second Acquire on a pool of size 1 should fail")
	}
}
