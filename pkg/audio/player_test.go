package audio

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

type fakeVoice struct {
	mu      sync.Mutex
	r       io.Reader
	playing bool
	closed  bool
	volume  float64
}

func (v *fakeVoice) Play() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.playing = true
}

func (v *fakeVoice) Pause() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.playing = false
}

func (v *fakeVoice) IsPlaying() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.playing
}

func (v *fakeVoice) SetVolume(vol float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.volume = vol
}

func (v *fakeVoice) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	return nil
}

func (v *fakeVoice) finish() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.playing = false
}

func (v *fakeVoice) state() (vol float64, closed bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.volume, v.closed
}

type fakeDevice struct {
	mu     sync.Mutex
	voices []*fakeVoice
}

func (d *fakeDevice) newVoice(r io.Reader) voice {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := &fakeVoice{r: r}
	d.voices = append(d.voices, v)
	return v
}

func (d *fakeDevice) voice(i int) *fakeVoice {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.voices[i]
}

func newTestEngine(t *testing.T) (*Engine, *fakeDevice) {
	t.Helper()
	dev := &fakeDevice{}
	e := newEngine(zaptest.NewLogger(t).Sugar(), dev.newVoice)
	e.step = time.Millisecond
	return e, dev
}

var testSound = &Sound{Key: models.SoundBeep, PCM: []byte{1, 0, 2, 0, 3, 0, 4, 0}}

func TestLoopReader(t *testing.T) {
	r := &loopReader{pcm: []byte{1, 2, 3}}
	buf := make([]byte, 7)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, []byte{1, 2, 3, 1, 2, 3, 1}, buf)

	n, err = r.Read(buf[:2])
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{2, 3}, buf[:2])

	_, err = (&loopReader{}).Read(buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestEnginePlayLoopFadesIn(t *testing.T) {
	defer goleak.VerifyNone(t)
	e, dev := newTestEngine(t)
	e.SetVolume(0.5)

	require.NoError(t, e.PlayLoop(testSound, 20*time.Millisecond))
	v := dev.voice(0)
	vol, _ := v.state()
	assert.Zero(t, vol)

	require.Eventually(t, func() bool {
		vol, _ := v.state()
		return vol == 0.5
	}, time.Second, time.Millisecond)
	assert.True(t, e.playing())

	e.Stop(0)
	_, closed := v.state()
	assert.True(t, closed)
	assert.False(t, e.playing())
}

func TestEngineStopFadesOut(t *testing.T) {
	defer goleak.VerifyNone(t)
	e, dev := newTestEngine(t)

	require.NoError(t, e.PlayLoop(testSound, 0))
	v := dev.voice(0)
	vol, _ := v.state()
	assert.Equal(t, 1.0, vol)

	e.Stop(20 * time.Millisecond)
	assert.False(t, e.playing())
	require.Eventually(t, func() bool {
		vol, closed := v.state()
		return closed && vol == 0
	}, time.Second, time.Millisecond)
}

func TestEngineStartCutsFadeOut(t *testing.T) {
	defer goleak.VerifyNone(t)
	e, dev := newTestEngine(t)

	require.NoError(t, e.PlayLoop(testSound, 0))
	e.Stop(time.Hour)
	_, closed := dev.voice(0).state()
	require.False(t, closed)

	require.NoError(t, e.PlayOnce(testSound, nil))
	_, closed = dev.voice(0).state()
	assert.True(t, closed)
	_, closed = dev.voice(1).state()
	assert.False(t, closed)
	e.Stop(0)
}

func TestEngineSingleSource(t *testing.T) {
	defer goleak.VerifyNone(t)
	e, dev := newTestEngine(t)

	require.NoError(t, e.PlayLoop(testSound, 0))
	require.NoError(t, e.PlayOnce(testSound, nil))

	_, closed := dev.voice(0).state()
	assert.True(t, closed)
	_, closed = dev.voice(1).state()
	assert.False(t, closed)
	e.Stop(0)
}

func TestEnginePlayOnceCallsDone(t *testing.T) {
	defer goleak.VerifyNone(t)
	e, dev := newTestEngine(t)

	done := make(chan struct{})
	require.NoError(t, e.PlayOnce(testSound, func() { close(done) }))
	dev.voice(0).finish()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("done not called")
	}
	assert.False(t, e.playing())
}

func TestEnginePlayOnceStoppedSkipsDone(t *testing.T) {
	defer goleak.VerifyNone(t)
	e, _ := newTestEngine(t)

	called := make(chan struct{}, 1)
	require.NoError(t, e.PlayOnce(testSound, func() { called <- struct{}{} }))
	e.Stop(0)

	// The watcher exits on its own; goleak checks it.
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, called)
}

func TestEngineSetVolumeAppliesToCurrent(t *testing.T) {
	e, dev := newTestEngine(t)
	require.NoError(t, e.PlayLoop(testSound, 0))

	e.SetVolume(0.25)
	vol, _ := dev.voice(0).state()
	assert.Equal(t, 0.25, vol)

	e.SetVolume(3)
	vol, _ = dev.voice(0).state()
	assert.Equal(t, 1.0, vol)
	e.Stop(0)
}

func TestEngineWithoutDevice(t *testing.T) {
	e := newEngine(nil, nil)
	assert.ErrorIs(t, e.PlayLoop(testSound, 0), ErrNoDevice)
	assert.ErrorIs(t, e.PlayOnce(testSound, nil), ErrNoDevice)
	e.Stop(time.Second)
}

func TestSoundDuration(t *testing.T) {
	s := &Sound{PCM: make([]byte, SampleRate*bytesPerFrame/2)}
	assert.Equal(t, 500*time.Millisecond, s.Duration())
}
