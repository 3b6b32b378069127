package amplitude

import "testing"

func TestReflectionsUpdateGeometryDerivesDelayFromDistance(t *testing.T) {
	p := NewReflectionsProcessor(48000, 1, 100)
	room := &Room{ID: 1, Dimensions: Vec3{X: 20, Y: 20, Z: 20}, Center: Vec3{}}
	listener := Vec3{X: 0, Y: 0, Z: 0}

	// The right wall's image source sits at (2*wall - listener.X, ...) =
	// (20, 0, 0) here. A source close to that wall is close to its own
	// image (short image-source path); a source far from the wall (close
	// to the listener instead) is far from its image (long path).
	p.UpdateGeometry(room, Vec3{X: 9, Y: 0, Z: 0}, listener, 64)
	nearWall := p.taps[SurfaceRight].delaySamples

	p.UpdateGeometry(room, Vec3{X: 0.1, Y: 0, Z: 0}, listener, 64)
	farFromWall := p.taps[SurfaceRight].delaySamples

	if nearWall >= farFromWall {
		t.Errorf("delaySamples near the wall (%d) should be less than far from it (%d)", nearWall, farFromWall)
	}

	wantFar := int(19.9 / speedOfSoundMPerS * 48000)
	if farFromWall != wantFar {
		t.Errorf("delaySamples for the far-from-wall source = %d, want %d (dist=19.9m at 343 m/s, 48kHz)", farFromWall, wantFar)
	}
}

func TestReflectionsUpdateGeometryStartsCrossFade(t *testing.T) {
	p := NewReflectionsProcessor(48000, 1, 100)
	room := &Room{ID: 1, Dimensions: Vec3{X: 10, Y: 10, Z: 10}, Absorption: [6]float32{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}}
	p.crossFade = 1
	p.UpdateGeometry(room, Vec3{X: 1, Y: 0, Z: 0}, Vec3{}, 128)
	if p.crossFade != 0 {
		t.Errorf("crossFade after UpdateGeometry = %v, want reset to 0", p.crossFade)
	}
	if p.fadeStep != 1.0/128 {
		t.Errorf("fadeStep = %v, want 1/128", p.fadeStep)
	}
}

func TestReflectionsProcessSilenceProducesSilence(t *testing.T) {
	p := NewReflectionsProcessor(48000, 1, 50)
	room := &Room{ID: 1, Dimensions: Vec3{X: 10, Y: 10, Z: 10}, Absorption: [6]float32{0.3, 0.3, 0.3, 0.3, 0.3, 0.3}}
	p.UpdateGeometry(room, Vec3{X: 1, Y: 0, Z: 0}, Vec3{}, 64)

	in := make([]float32, 64)
	out := NewAudioBuffer(AmbisonicChannelCount(1), 64)
	p.Process(in, out)
	for ch := range out.Channels {
		for i, v := range out.Channels[ch] {
			if v != 0 {
				t.Fatalf("channel %d frame %d = %v, want 0 for all-silent input with no prior history", ch, i, v)
			}
		}
	}
}

func TestReflectionsTailFramesCountsDown(t *testing.T) {
	p := NewReflectionsProcessor(48000, 1, 50)
	room := &Room{ID: 1, Dimensions: Vec3{X: 10, Y: 10, Z: 10}}
	p.UpdateGeometry(room, Vec3{X: 1, Y: 0, Z: 0}, Vec3{}, 64)
	before := p.tailRemaining
	in := make([]float32, 64)
	out := NewAudioBuffer(AmbisonicChannelCount(1), 64)
	p.Process(in, out)
	if p.tailRemaining != before-1 {
		t.Errorf("tailRemaining after one Process call = %d, want %d", p.tailRemaining, before-1)
	}
}
