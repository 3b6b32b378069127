package amplitude

import "testing"

// constDecoder streams a fixed sample value forever, so tests can assert
// something audible actually reaches the mixer output.
type constDecoder struct{ value float32 }

func (d *constDecoder) Open(string) error  { return nil }
func (d *constDecoder) Close() error       { return nil }
func (d *constDecoder) Load([]float32) (int, error) { return 0, nil }
func (d *constDecoder) Stream(buf []float32, sampleOffset, frameCount int) (int, error) {
	for i := range buf {
		buf[i] = d.value
	}
	return len(buf), nil
}
func (d *constDecoder) Seek(int) error { return nil }
func (d *constDecoder) Format() SoundFormat {
	return SoundFormat{SampleRate: 48000, Channels: 1, Float: true}
}

func testEngineWithSound(t *testing.T, value float32) (*Engine, SoundID) {
	t.Helper()
	e := NewEngine(DefaultEngineConfig())
	sound := &SoundObject{
		ID:             1,
		Kind:           KindSound,
		BusID:          MasterBusID,
		DecoderFactory: func() (Decoder, error) { return &constDecoder{value: value}, nil },
	}
	if err := e.LoadBank("test", []*SoundObject{sound}, nil); err != nil {
		t.Fatalf("LoadBank: %v", err)
	}
	return e, sound.ID
}

func TestEnginePlayUnknownSoundReturnsError(t *testing.T) {
	e := NewEngine(DefaultEngineConfig())
	if _, err := e.Play(999, 0, 0); err == nil {
		t.Error("Play with an unregistered sound id must return an error")
	}
}

func TestEnginePlayWiresDecoderIntoVoiceOutput(t *testing.T) {
	e, soundID := testEngineWithSound(t, 0.5)
	h, err := e.Play(soundID, 0, 0)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !h.Valid() {
		t.Fatal("Play must return a valid channel handle")
	}

	out := make([]byte, e.mixer.Config.BlockSize*2*4)
	n := e.Mix(out, e.mixer.Config.BlockSize, FormatF32)
	if n != len(out) {
		t.Fatalf("Mix returned %d bytes, want %d", n, len(out))
	}

	var anyNonzero bool
	for _, b := range out {
		if b != 0 {
			anyNonzero = true
			break
		}
	}
	if !anyNonzero {
		t.Error("Mix produced all-zero output even though the voice's decoder streams a nonzero constant")
	}
}

func TestEngineStopSilencesVoiceEventually(t *testing.T) {
	e, soundID := testEngineWithSound(t, 1)
	h, err := e.Play(soundID, 0, 0)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	e.Stop(h, 0)

	// Drain a few blocks so the stop command is applied and the channel
	// settles into Stopped.
	out := make([]byte, e.mixer.Config.BlockSize*2*4)
	for i := 0; i < 4; i++ {
		e.Mix(out, e.mixer.Config.BlockSize, FormatF32)
	}

	ch, ok := e.mixer.Pool.Resolve(h)
	if !ok {
		t.Fatal("handle should still resolve after Stop (not yet Released)")
	}
	if ch.State != ChannelStopped {
		t.Errorf("channel state after Stop(fadeMs=0) and several ticks = %v, want Stopped", ch.State)
	}
}

func TestEncodeSamplesI16ClipsToRange(t *testing.T) {
	samples := []float32{2, -2, 0, 0.5}
	out := make([]byte, len(samples)*2)
	n := encodeSamples(samples, out, FormatI16)
	if n != len(out) {
		t.Fatalf("encodeSamples returned %d, want %d", n, len(out))
	}
	v0 := int16(uint16(out[0]) | uint16(out[1])<<8)
	v1 := int16(uint16(out[2]) | uint16(out[3])<<8)
	if v0 != 32767 {
		t.Errorf("sample clamped from 2.0 = %d, want 32767", v0)
	}
	if v1 != -32767 {
		t.Errorf("sample clamped from -2.0 = %d, want -32767", v1)
	}
}

func TestEncodeSamplesU8CentersAtSilence(t *testing.T) {
	out := make([]byte, 1)
	encodeSamples([]float32{0}, out, FormatU8)
	if out[0] != 128 {
		t.Errorf("U8 encoding of silence = %d, want 128", out[0])
	}
}
