package alarm

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/borgmon/alarm-clock/pkg/audio"
	"github.com/borgmon/alarm-clock/pkg/models"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and fires due timers in order, outside the lock.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.f()
	}
}

type outputEvent struct {
	op  string
	key models.SoundKey
}

type fakeOutput struct {
	events []outputEvent
	gain   float64
	done   func()
}

func (o *fakeOutput) PlayLoop(s *audio.Sound, fadeIn time.Duration) error {
	o.events = append(o.events, outputEvent{op: "loop", key: s.Key})
	return nil
}

func (o *fakeOutput) PlayOnce(s *audio.Sound, done func()) error {
	o.events = append(o.events, outputEvent{op: "once", key: s.Key})
	o.done = done
	return nil
}

func (o *fakeOutput) Stop(fadeOut time.Duration) {
	o.events = append(o.events, outputEvent{op: "stop"})
}

func (o *fakeOutput) SetVolume(gain float64) {
	o.gain = gain
}

func (o *fakeOutput) ops() []string {
	ops := make([]string, 0, len(o.events))
	for _, e := range o.events {
		ops = append(ops, e.op)
	}
	return ops
}

func (o *fakeOutput) last() outputEvent {
	if len(o.events) == 0 {
		return outputEvent{}
	}
	return o.events[len(o.events)-1]
}

type fakeLoader struct {
	missing map[models.SoundKey]bool
}

func (l *fakeLoader) Load(ctx context.Context, key models.SoundKey) (*audio.Sound, error) {
	if l.missing[key] {
		return nil, errors.New("file does not exist")
	}
	return &audio.Sound{Key: key, PCM: []byte{0, 0, 0, 0}}, nil
}

type fakeAlerter struct {
	raised  []models.Alarm
	cleared int
	err     error
}

func (a *fakeAlerter) Raise(al models.Alarm) error {
	a.raised = append(a.raised, al)
	return a.err
}

func (a *fakeAlerter) Clear() {
	a.cleared++
}

type memStore struct {
	state   models.PersistedState
	loadErr error
	saves   int
}

func (s *memStore) Load() (models.PersistedState, error) {
	return s.state, s.loadErr
}

func (s *memStore) Save(state models.PersistedState) error {
	s.state = state
	s.saves++
	return nil
}

// jobs collects background work so tests decide when loads complete.
type jobs struct {
	queue []func()
}

func (j *jobs) spawn(f func()) {
	j.queue = append(j.queue, f)
}

func (j *jobs) drain() {
	for len(j.queue) > 0 {
		f := j.queue[0]
		j.queue = j.queue[1:]
		f()
	}
}
