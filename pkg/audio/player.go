package audio

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"
)

// Output format shared by every sound handed to the engine.
const (
	SampleRate    = 44100
	Channels      = 2
	bytesPerFrame = Channels * 2
)

// ErrNoDevice is returned when no audio output could be opened.
var ErrNoDevice = errors.New("audio: no output device")

// Global audio context singleton
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxErr  error
	globalAudioCtxOnce sync.Once
)

// Sound is decoded PCM in the engine's output format.
type Sound struct {
	Key models.SoundKey
	PCM []byte
}

// Duration returns the playing time of the sound.
func (s *Sound) Duration() time.Duration {
	frames := len(s.PCM) / bytesPerFrame
	return time.Duration(frames) * time.Second / SampleRate
}

// voice is the subset of *oto.Player the engine drives.
type voice interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(v float64)
	Close() error
}

// track is one started sound. level is the fade multiplier applied on top
// of the engine gain.
type track struct {
	v      voice
	level  float64
	fadeID int // only the latest fade moves level
	stop   chan struct{}
	once   sync.Once
}

func (t *track) close() {
	t.once.Do(func() {
		close(t.stop)
		t.v.Pause()
		t.v.Close()
	})
}

// Engine plays at most one sound at a time. Starting a sound stops the
// previous one.
type Engine struct {
	log      *zap.SugaredLogger
	newVoice func(r io.Reader) voice
	step     time.Duration // fade and end-of-sound polling interval

	mu     sync.Mutex
	gain   float64
	cur    *track
	fading *track // stopped, still fading out
}

// initAudioContext initializes the global audio context once
func initAudioContext() (*oto.Context, error) {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			globalAudioCtxErr = err
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan
		globalAudioCtx = ctx
	})
	return globalAudioCtx, globalAudioCtxErr
}

// NewEngine opens the audio device. The returned engine is usable even when
// err is non-nil; it then stays silent and every Play call reports
// ErrNoDevice.
func NewEngine(log *zap.SugaredLogger) (*Engine, error) {
	e := newEngine(log, nil)
	ctx, err := initAudioContext()
	if err != nil {
		return e, errors.Join(ErrNoDevice, err)
	}
	e.newVoice = func(r io.Reader) voice { return ctx.NewPlayer(r) }
	log.Debugw("Audio context initialized", "sample_rate", SampleRate, "channels", Channels)
	return e, nil
}

func newEngine(log *zap.SugaredLogger, newVoice func(io.Reader) voice) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{
		log:      log,
		newVoice: newVoice,
		step:     10 * time.Millisecond,
		gain:     1,
	}
}

// PlayLoop plays s repeatedly until Stop, ramping up over fadeIn.
func (e *Engine) PlayLoop(s *Sound, fadeIn time.Duration) error {
	if len(s.PCM) < bytesPerFrame {
		return errors.New("audio: empty sound")
	}
	t, err := e.start(&loopReader{pcm: s.PCM}, fadeIn <= 0)
	if err != nil {
		return err
	}
	if fadeIn > 0 {
		e.mu.Lock()
		t.fadeID++
		id := t.fadeID
		e.mu.Unlock()
		go e.fade(t, id, 0, 1, fadeIn, nil)
	}
	return nil
}

// PlayOnce plays s a single time. done is called when playback finishes on
// its own; it is not called after Stop or after another sound replaced s.
func (e *Engine) PlayOnce(s *Sound, done func()) error {
	t, err := e.start(bytes.NewReader(s.PCM), true)
	if err != nil {
		return err
	}
	go e.watch(t, done)
	return nil
}

func (e *Engine) start(r io.Reader, full bool) (*track, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.newVoice == nil {
		return nil, ErrNoDevice
	}
	if e.cur != nil {
		e.cur.close()
		e.cur = nil
	}
	// A new sound cuts any fade-out short.
	if e.fading != nil {
		e.fading.close()
		e.fading = nil
	}

	t := &track{v: e.newVoice(r), stop: make(chan struct{})}
	if full {
		t.level = 1
	}
	t.v.SetVolume(e.gain * t.level)
	t.v.Play()
	e.cur = t
	return t, nil
}

// Stop fades the current sound out and releases it. It does not block.
func (e *Engine) Stop(fadeOut time.Duration) {
	e.mu.Lock()
	t := e.cur
	e.cur = nil
	e.mu.Unlock()

	if t == nil {
		return
	}
	if fadeOut <= 0 {
		t.close()
		return
	}
	e.mu.Lock()
	if e.fading != nil {
		e.fading.close()
	}
	e.fading = t
	from := t.level
	t.fadeID++
	id := t.fadeID
	e.mu.Unlock()
	go e.fade(t, id, from, 0, fadeOut, func() {
		t.close()
		e.mu.Lock()
		if e.fading == t {
			e.fading = nil
		}
		e.mu.Unlock()
	})
}

// SetVolume sets the master gain, 0-1.
func (e *Engine) SetVolume(gain float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gain = clamp01(gain)
	if e.cur != nil {
		e.cur.v.SetVolume(e.gain * e.cur.level)
	}
}

// playing reports whether a sound is currently started.
func (e *Engine) playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cur != nil
}

// fade ramps the track level linearly and calls then when the ramp ends.
func (e *Engine) fade(t *track, id int, from, to float64, d time.Duration, then func()) {
	ticker := time.NewTicker(e.step)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
		}

		p := float64(time.Since(start)) / float64(d)
		if p > 1 {
			p = 1
		}
		e.mu.Lock()
		if t.fadeID != id {
			e.mu.Unlock()
			return
		}
		t.level = from + (to-from)*p
		t.v.SetVolume(e.gain * t.level)
		e.mu.Unlock()

		if p >= 1 {
			if then != nil {
				then()
			}
			return
		}
	}
}

// watch waits for a one-shot sound to drain.
func (e *Engine) watch(t *track, done func()) {
	ticker := time.NewTicker(e.step)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
		}
		if t.v.IsPlaying() {
			continue
		}

		e.mu.Lock()
		current := e.cur == t
		if current {
			e.cur = nil
		}
		e.mu.Unlock()

		t.close()
		if current && done != nil {
			done()
		}
		return
	}
}

// loopReader repeats pcm forever.
type loopReader struct {
	pcm []byte
	pos int
}

func (r *loopReader) Read(p []byte) (int, error) {
	if len(r.pcm) == 0 {
		return 0, io.EOF
	}
	n := 0
	for n < len(p) {
		c := copy(p[n:], r.pcm[r.pos:])
		n += c
		r.pos = (r.pos + c) % len(r.pcm)
	}
	return n, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
