package alarm

import (
	"context"

	"github.com/borgmon/alarm-clock/pkg/models"
)

// ringing reports whether the ring sequence is active.
func (c *Controller) ringing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == models.RingStateRinging
}

// RingNow starts the ring sequence for the armed alarm without touching its
// trigger. It is a no-op when no alarm is armed.
func (c *Controller) RingNow() {
	defer c.changed()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.alarm == nil {
		return
	}
	c.startRingingLocked(*c.alarm)
}

func (c *Controller) startRingingLocked(a models.Alarm) {
	if c.state == models.RingStateRinging {
		return
	}

	// Preview and ring share the output.
	c.stopPreviewLocked()

	c.state = models.RingStateRinging
	c.ringGen++
	gen := c.ringGen

	c.log.Infow("Alarm ringing", "time", a.Time.String(), "label", a.Label, "sound", a.SoundKey)

	for _, al := range c.alerters {
		if err := al.Raise(a); err != nil {
			c.log.Warnw("Alert failed", "error", err)
		}
	}

	c.armTimerLocked(c.settings.AutoSnoozeAfter(), func() { c.autoSnooze(gen) })
	c.spawn(func() { c.loadRingSound(gen, a.SoundKey) })
}

func (c *Controller) loadRingSound(gen uint64, key models.SoundKey) {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	snd, err := c.sounds.Load(ctx, key)
	failed := err != nil
	if failed {
		c.log.Warnw("Failed to load alarm sound, using fallback", "sound", key, "error", err)
		snd, err = c.sounds.Load(ctx, models.FallbackSound)
		if err != nil {
			c.log.Warnw("Failed to load fallback sound, ringing silently", "error", err)
			snd = nil
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != models.RingStateRinging || c.ringGen != gen {
		c.log.Debugw("Discarding stale ring sound", "sound", key)
		return
	}

	if failed {
		c.armTimerLocked(c.settings.FallbackRing(), func() { c.fallbackStop(gen) })
	}
	if snd == nil {
		return
	}
	if err := c.output.PlayLoop(snd, c.settings.FadeIn()); err != nil {
		c.log.Warnw("Failed to start alarm playback", "sound", snd.Key, "error", err)
	}
}

func (c *Controller) autoSnooze(gen uint64) {
	defer c.changed()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != models.RingStateRinging || c.ringGen != gen {
		return
	}
	c.log.Infow("Alarm unattended, snoozing automatically")
	c.snoozeLocked()
}

func (c *Controller) fallbackStop(gen uint64) {
	defer c.changed()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != models.RingStateRinging || c.ringGen != gen {
		return
	}
	c.log.Infow("Fallback ring finished")
	c.stopRingingLocked()
}

func (c *Controller) stopRingingLocked() {
	if c.state != models.RingStateRinging {
		return
	}
	c.state = models.RingStateIdle
	c.ringGen++
	c.stopTimerLocked()
	c.output.Stop(c.settings.FadeOut())
	for _, al := range c.alerters {
		al.Clear()
	}
}
