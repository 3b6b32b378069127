//go:build !headless

// audio_backend_oto.go - oto/v3 device output backend (spec.md §6 "Audio
// callback")
//
// Grounded on the teacher's audio_backend_oto.go: an atomic.Pointer swap
// for the hot-path engine reference (so Read never takes a lock the game
// thread might hold) plus a pre-allocated scratch buffer sized to oto's
// typical callback size. Adapted from a single fixed SoundChip to the
// Engine's Mix call, and from mono to the engine's negotiated stereo
// float32 output.

package amplitude

import (
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// DeviceOutput drives an oto/v3 player from an Engine's Mix callback.
type DeviceOutput struct {
	ctx     *oto.Context
	player  *oto.Player
	engine  atomic.Pointer[Engine] // atomic: Read() never blocks on the game thread
	scratch []byte
	started bool
	mutex   sync.Mutex // setup/control only, never held during Read
}

// NewDeviceOutput opens an oto context negotiating stereo float32 at
// sampleRate.
func NewDeviceOutput(sampleRate int) (*DeviceOutput, error) {
	opts := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	}
	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, err
	}
	<-ready
	return &DeviceOutput{ctx: ctx}, nil
}

// Attach wires the engine whose Mix output will be fed to the device.
func (d *DeviceOutput) Attach(e *Engine) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.engine.Store(e)
	d.player = d.ctx.NewPlayer(d)
	d.scratch = make([]byte, 4096)
}

// Read implements io.Reader for oto.Player: it is called on oto's own
// callback goroutine and must never allocate on a steady-state path nor
// block on a lock the game thread could be holding.
func (d *DeviceOutput) Read(p []byte) (int, error) {
	e := d.engine.Load()
	if e == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	frames := len(p) / 8 // stereo float32: 2 channels * 4 bytes
	if len(d.scratch) < len(p) {
		d.scratch = make([]byte, len(p))
	}
	n := e.Mix(d.scratch[:len(p)], frames, FormatF32)
	copy(p, d.scratch[:n])
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

func (d *DeviceOutput) Start() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if !d.started && d.player != nil {
		d.player.Play()
		d.started = true
	}
}

func (d *DeviceOutput) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.started && d.player != nil {
		d.player.Pause()
		d.started = false
	}
}

func (d *DeviceOutput) Close() {
	d.Stop()
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.player != nil {
		d.player.Close()
		d.player = nil
	}
}

func (d *DeviceOutput) IsStarted() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.started
}
