package alarm

import (
	"context"

	"github.com/borgmon/alarm-clock/pkg/models"
)

// PreviewToggle plays key once, or stops it when it is already the preview.
// A preview interrupts a ring.
func (c *Controller) PreviewToggle(key models.SoundKey) {
	defer c.changed()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.previewKey == key {
		c.stopPreviewLocked()
		return
	}

	c.stopPreviewLocked()
	if c.state == models.RingStateRinging {
		c.stopRingingLocked()
	}

	c.previewGen++
	gen := c.previewGen
	c.previewKey = key
	c.spawn(func() { c.loadPreview(gen, key) })
}

// StopPreview stops the preview, if any.
func (c *Controller) StopPreview() {
	defer c.changed()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopPreviewLocked()
}

func (c *Controller) loadPreview(gen uint64, key models.SoundKey) {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	snd, err := c.sounds.Load(ctx, key)

	defer c.changed()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.previewGen != gen || c.previewKey != key {
		return
	}
	if err != nil {
		c.log.Warnw("Failed to load preview sound", "sound", key, "error", err)
		c.previewKey = ""
		return
	}
	if err := c.output.PlayOnce(snd, func() { c.previewEnded(gen) }); err != nil {
		c.log.Warnw("Failed to start preview", "sound", key, "error", err)
		c.previewKey = ""
	}
}

func (c *Controller) previewEnded(gen uint64) {
	defer c.changed()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.previewGen != gen {
		return
	}
	c.previewKey = ""
}

func (c *Controller) stopPreviewLocked() {
	if c.previewKey == "" {
		return
	}
	c.previewKey = ""
	c.previewGen++
	c.output.Stop(0)
}
