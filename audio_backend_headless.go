//go:build headless

// audio_backend_headless.go - no-op device output for headless/CI builds
//
// Grounded on the teacher's audio_backend_headless.go: same public surface
// as the oto backend, with Read discarding the engine's output, for test
// and CI environments with no audio device.

package amplitude

// DeviceOutput is a no-op stand-in for the oto backend.
type DeviceOutput struct {
	engine  *Engine
	started bool
}

// NewDeviceOutput returns a headless device output that discards audio.
func NewDeviceOutput(sampleRate int) (*DeviceOutput, error) {
	return &DeviceOutput{}, nil
}

// Attach wires the engine whose Mix output will be pulled (and discarded).
func (d *DeviceOutput) Attach(e *Engine) {
	d.engine = e
}

// Read pulls and discards one block of mixed audio, to exercise the Mix
// path under test without a real device.
func (d *DeviceOutput) Read(p []byte) (int, error) {
	if d.engine != nil {
		frames := len(p) / 8
		d.engine.Mix(p, frames, FormatF32)
	}
	return len(p), nil
}

func (d *DeviceOutput) Start()          { d.started = true }
func (d *DeviceOutput) Stop()           { d.started = false }
func (d *DeviceOutput) Close()          { d.started = false }
func (d *DeviceOutput) IsStarted() bool { return d.started }
