package models

import (
	"math"
	"time"
)

// Settings holds application configuration
type Settings struct {
	SnoozeMinutes       int    `json:"snooze_minutes" yaml:"snooze_minutes"`               // manual and automatic snooze offset
	AutoSnoozeSeconds   int    `json:"auto_snooze_seconds" yaml:"auto_snooze_seconds"`     // unattended ring length before auto-snooze
	FallbackRingSeconds int    `json:"fallback_ring_seconds" yaml:"fallback_ring_seconds"` // ring length when the sound failed to load
	FadeInMillis        int    `json:"fade_in_millis" yaml:"fade_in_millis"`
	FadeOutMillis       int    `json:"fade_out_millis" yaml:"fade_out_millis"`
	Volume              int    `json:"volume" yaml:"volume"` // 0-100
	AutoStart           bool   `json:"auto_start" yaml:"auto_start"`
	SoundsDir           string `json:"sounds_dir" yaml:"sounds_dir"`
}

// DefaultSettings returns the settings used when nothing is stored
func DefaultSettings() Settings {
	return Settings{
		SnoozeMinutes:       5,
		AutoSnoozeSeconds:   60,
		FallbackRingSeconds: 4,
		FadeInMillis:        800,
		FadeOutMillis:       600,
		Volume:              90,
		AutoStart:           false,
		SoundsDir:           "sounds",
	}
}

func (s Settings) SnoozeOffset() time.Duration {
	return time.Duration(s.SnoozeMinutes) * time.Minute
}

func (s Settings) AutoSnoozeAfter() time.Duration {
	return time.Duration(s.AutoSnoozeSeconds) * time.Second
}

func (s Settings) FallbackRing() time.Duration {
	return time.Duration(s.FallbackRingSeconds) * time.Second
}

func (s Settings) FadeIn() time.Duration {
	return time.Duration(s.FadeInMillis) * time.Millisecond
}

func (s Settings) FadeOut() time.Duration {
	return time.Duration(s.FadeOutMillis) * time.Millisecond
}

// ClampVolume keeps a slider value within 0-100
func ClampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// VolumeGain maps a linear slider value to a softer gain curve
func VolumeGain(v int) float64 {
	return math.Pow(float64(ClampVolume(v))/100, 1.6)
}
