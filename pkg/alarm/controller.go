package alarm

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/borgmon/alarm-clock/pkg/audio"
	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Output plays at most one sound at a time. Starting a sound stops the
// previous one.
type Output interface {
	PlayLoop(s *audio.Sound, fadeIn time.Duration) error
	PlayOnce(s *audio.Sound, done func()) error
	Stop(fadeOut time.Duration)
	SetVolume(gain float64)
}

// SoundLoader resolves a catalog key into playable PCM.
type SoundLoader interface {
	Load(ctx context.Context, key models.SoundKey) (*audio.Sound, error)
}

// Alerter is a user-visible signal raised while the alarm rings. Raise must
// not block.
type Alerter interface {
	Raise(a models.Alarm) error
	Clear()
}

// StateStore persists the alarm between launches.
type StateStore interface {
	Load() (models.PersistedState, error)
	Save(state models.PersistedState) error
}

// Snapshot is a read-only copy of the controller state for rendering.
type Snapshot struct {
	State      models.RingState
	Alarm      *models.Alarm
	SoundIndex int
	Previewing models.SoundKey // empty when no preview is playing or loading
	Volume     int
}

// Options configures a Controller.
type Options struct {
	Settings models.Settings
	Clock    Clock
	Output   Output
	Sounds   SoundLoader
	Store    StateStore
	Alerters []Alerter
	Logger   *zap.SugaredLogger
}

const loadTimeout = 10 * time.Second

// Controller owns the single alarm, the ring state machine and the preview.
// Every entry point serializes on mu, so callbacks from the UI, the
// scheduler, timers and sound loads never interleave.
type Controller struct {
	settings models.Settings
	clock    Clock
	output   Output
	sounds   SoundLoader
	store    StateStore
	log      *zap.SugaredLogger

	// spawn runs background work such as sound loads.
	spawn func(func())

	mu         sync.Mutex
	alerters   []Alerter
	alarm      *models.Alarm
	state      models.RingState
	ringGen    uint64
	ringTimer  Timer
	previewKey models.SoundKey
	previewGen uint64
	soundIndex int
	volume     int
	listeners  []func(Snapshot)
}

// NewController creates a controller with no alarm armed.
func NewController(opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	c := &Controller{
		settings:   opts.Settings,
		clock:      opts.Clock,
		output:     opts.Output,
		sounds:     opts.Sounds,
		store:      opts.Store,
		log:        opts.Logger,
		spawn:      func(f func()) { go f() },
		alerters:   opts.Alerters,
		state:      models.RingStateIdle,
		soundIndex: models.SoundIndex(models.DefaultSound),
		volume:     models.ClampVolume(opts.Settings.Volume),
	}
	if c.output != nil {
		c.output.SetVolume(models.VolumeGain(c.volume))
	}
	return c
}

// AddAlerter registers an alerter raised on every ring.
func (c *Controller) AddAlerter(a Alerter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerters = append(c.alerters, a)
}

// Subscribe registers fn to receive a snapshot after every state change.
func (c *Controller) Subscribe(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:      c.state,
		SoundIndex: c.soundIndex,
		Previewing: c.previewKey,
		Volume:     c.volume,
	}
	if c.alarm != nil {
		a := *c.alarm
		snap.Alarm = &a
	}
	return snap
}

// changed notifies listeners. It must be called without holding mu.
func (c *Controller) changed() {
	c.mu.Lock()
	snap := c.snapshotLocked()
	listeners := append([]func(Snapshot){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// Restore loads the persisted state. A stored active alarm is re-armed for
// its next natural occurrence; a missing or corrupt record means no alarm.
func (c *Controller) Restore() {
	defer c.changed()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store == nil {
		return
	}

	// The volume has its own key and survives a corrupt state blob.
	st, err := c.store.Load()
	if st.Volume >= 0 {
		c.volume = models.ClampVolume(st.Volume)
	}
	if c.output != nil {
		c.output.SetVolume(models.VolumeGain(c.volume))
	}
	if err != nil {
		c.log.Warnw("Failed to restore alarm state, starting empty", "error", err)
		return
	}
	if st.SoundIndex >= 0 && st.SoundIndex < len(models.Sounds) {
		c.soundIndex = st.SoundIndex
	}

	p := st.Alarm
	if p == nil {
		return
	}
	if idx := models.SoundIndex(p.SoundKey); idx >= 0 {
		c.soundIndex = idx
	}
	if !p.Active {
		return
	}

	t, err := models.ParseClockTime(p.Time)
	if err != nil {
		c.log.Warnw("Ignoring stored alarm with invalid time", "time", p.Time, "error", err)
		return
	}
	c.alarm = &models.Alarm{
		ID:          uuid.NewString(),
		Time:        t,
		Label:       p.Label,
		SoundKey:    p.SoundKey,
		Active:      true,
		NextTrigger: ComputeNextTrigger(t, c.clock.Now()),
		Snoozed:     false,
	}
	c.log.Infow("Restored alarm", "time", t.String(), "next", c.alarm.NextTrigger.Format(time.RFC3339))
}

// Arm sets the alarm, replacing any previous one.
func (c *Controller) Arm(hhmm, label string, key models.SoundKey) error {
	t, err := models.ParseClockTime(hhmm)
	if err != nil {
		return Errorf(ErrInvalid, "Time required. Choose a time (HH:MM).")
	}
	if _, ok := models.LookupSound(key); !ok {
		return Errorf(ErrInvalid, "unknown sound %q", key)
	}

	defer c.changed()
	c.mu.Lock()
	defer c.mu.Unlock()

	c.alarm = &models.Alarm{
		ID:          uuid.NewString(),
		Time:        t,
		Label:       strings.TrimSpace(label),
		SoundKey:    key,
		Active:      true,
		NextTrigger: ComputeNextTrigger(t, c.clock.Now()),
	}
	if idx := models.SoundIndex(key); idx >= 0 {
		c.soundIndex = idx
	}
	c.persistLocked()

	c.log.Infow("Alarm armed", "time", t.String(), "sound", key, "next", c.alarm.NextTrigger.Format(time.RFC3339))
	return nil
}

// Cancel stops any ring and disarms the alarm.
func (c *Controller) Cancel() {
	defer c.changed()
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopRingingLocked()
	if c.alarm != nil {
		c.log.Infow("Alarm cancelled", "time", c.alarm.Time.String())
	}
	c.alarm = nil
	c.persistLocked()
}

// Tick checks whether the alarm is due at now and rings it. It reports
// whether a ring was started.
func (c *Controller) Tick(now time.Time) bool {
	c.mu.Lock()
	due := c.alarm != nil && c.alarm.Active && !now.Before(c.alarm.NextTrigger)
	if due {
		c.startRingingLocked(*c.alarm)

		// Re-arm for the next natural occurrence. A later snooze overrides it.
		c.alarm.NextTrigger = ComputeNextTrigger(c.alarm.Time, now.Add(time.Second))
		c.alarm.Snoozed = false
		c.persistLocked()
	}
	c.mu.Unlock()

	if due {
		c.changed()
	}
	return due
}

// Stop silences the current ring. The alarm stays armed.
func (c *Controller) Stop() {
	defer c.changed()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopRingingLocked()
}

// Silence stops both the ring and any preview.
func (c *Controller) Silence() {
	defer c.changed()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopPreviewLocked()
	c.stopRingingLocked()
}

// Snooze silences the ring and moves the trigger to now + snooze offset.
func (c *Controller) Snooze() {
	defer c.changed()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snoozeLocked()
}

func (c *Controller) snoozeLocked() {
	if c.alarm == nil {
		return
	}
	now := c.clock.Now()
	c.alarm.NextTrigger = now.Add(c.settings.SnoozeOffset())
	c.alarm.Snoozed = true
	c.stopRingingLocked()
	c.persistLocked()
	c.log.Infow("Alarm snoozed", "until", c.alarm.NextTrigger.Format(time.RFC3339))
}

// SelectSound moves the carousel to index, wrapping around the catalog.
func (c *Controller) SelectSound(index int) {
	defer c.changed()
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopPreviewLocked()
	n := len(models.Sounds)
	c.soundIndex = ((index % n) + n) % n
	c.persistLocked()
}

// UpdateSettings replaces the timing settings. A ring already in progress
// keeps its auto-snooze deadline.
func (c *Controller) UpdateSettings(s models.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = s
}

// SetVolume sets the master volume from a 0-100 slider value.
func (c *Controller) SetVolume(v int) {
	defer c.changed()
	c.mu.Lock()
	defer c.mu.Unlock()

	c.volume = models.ClampVolume(v)
	if c.output != nil {
		c.output.SetVolume(models.VolumeGain(c.volume))
	}
	c.persistLocked()
}

func (c *Controller) persistLocked() {
	if c.store == nil {
		return
	}
	st := models.PersistedState{
		Alarm:      c.alarm.Persisted(),
		SoundIndex: c.soundIndex,
		Volume:     c.volume,
	}
	if err := c.store.Save(st); err != nil {
		c.log.Warnw("Failed to persist alarm state", "error", err)
	}
}

func (c *Controller) armTimerLocked(d time.Duration, f func()) {
	c.stopTimerLocked()
	if d <= 0 {
		return
	}
	c.ringTimer = c.clock.AfterFunc(d, f)
}

func (c *Controller) stopTimerLocked() {
	if c.ringTimer != nil {
		c.ringTimer.Stop()
		c.ringTimer = nil
	}
}
