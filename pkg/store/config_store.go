package store

import (
	"errors"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"github.com/borgmon/alarm-clock/pkg/models"
	"gopkg.in/yaml.v3"
)

// ConfigEnv names the environment variable holding the override file path.
const ConfigEnv = "ALARM_CLOCK_CONFIG"

// ConfigStore handles configuration persistence using Fyne preferences
type ConfigStore struct {
	prefs fyne.Preferences
}

// NewConfigStore creates a new ConfigStore instance
func NewConfigStore(prefs fyne.Preferences) *ConfigStore {
	return &ConfigStore{prefs: prefs}
}

// Load loads configuration from preferences
func (cs *ConfigStore) Load() models.Settings {
	def := models.DefaultSettings()
	prefs := cs.prefs

	settings := models.Settings{
		SnoozeMinutes:       prefs.IntWithFallback("snooze_minutes", def.SnoozeMinutes),
		AutoSnoozeSeconds:   prefs.IntWithFallback("auto_snooze_seconds", def.AutoSnoozeSeconds),
		FallbackRingSeconds: prefs.IntWithFallback("fallback_ring_seconds", def.FallbackRingSeconds),
		FadeInMillis:        prefs.IntWithFallback("fade_in_millis", def.FadeInMillis),
		FadeOutMillis:       prefs.IntWithFallback("fade_out_millis", def.FadeOutMillis),
		Volume:              prefs.IntWithFallback("volume", def.Volume),
		AutoStart:           prefs.BoolWithFallback("auto_start", def.AutoStart),
		SoundsDir:           prefs.StringWithFallback("sounds_dir", def.SoundsDir),
	}

	// Values that would break the ring sequence fall back to defaults
	if settings.SnoozeMinutes <= 0 {
		settings.SnoozeMinutes = def.SnoozeMinutes
	}
	if settings.AutoSnoozeSeconds <= 0 {
		settings.AutoSnoozeSeconds = def.AutoSnoozeSeconds
	}
	if settings.FallbackRingSeconds <= 0 {
		settings.FallbackRingSeconds = def.FallbackRingSeconds
	}
	settings.Volume = models.ClampVolume(settings.Volume)

	return settings
}

// Save saves configuration to preferences
func (cs *ConfigStore) Save(settings models.Settings) {
	prefs := cs.prefs

	prefs.SetInt("snooze_minutes", settings.SnoozeMinutes)
	prefs.SetInt("auto_snooze_seconds", settings.AutoSnoozeSeconds)
	prefs.SetInt("fallback_ring_seconds", settings.FallbackRingSeconds)
	prefs.SetInt("fade_in_millis", settings.FadeInMillis)
	prefs.SetInt("fade_out_millis", settings.FadeOutMillis)
	prefs.SetInt("volume", settings.Volume)
	prefs.SetBool("auto_start", settings.AutoStart)
	prefs.SetString("sounds_dir", settings.SoundsDir)
}

// LoadOverrides merges the YAML file at path over base. An empty path falls
// back to $ALARM_CLOCK_CONFIG; no file at all returns base unchanged. Only
// non-zero values in the file override.
func LoadOverrides(path string, base models.Settings) (models.Settings, error) {
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}

	var override models.Settings
	if err := yaml.Unmarshal(data, &override); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}
	if override.Volume < 0 || override.Volume > 100 {
		return base, errors.New("config: volume must be within 0-100")
	}
	return mergeSettings(base, override), nil
}

func mergeSettings(base, override models.Settings) models.Settings {
	if override.SnoozeMinutes > 0 {
		base.SnoozeMinutes = override.SnoozeMinutes
	}
	if override.AutoSnoozeSeconds > 0 {
		base.AutoSnoozeSeconds = override.AutoSnoozeSeconds
	}
	if override.FallbackRingSeconds > 0 {
		base.FallbackRingSeconds = override.FallbackRingSeconds
	}
	if override.FadeInMillis != 0 {
		base.FadeInMillis = override.FadeInMillis
	}
	if override.FadeOutMillis != 0 {
		base.FadeOutMillis = override.FadeOutMillis
	}
	if override.Volume != 0 {
		base.Volume = override.Volume
	}
	if override.AutoStart {
		base.AutoStart = true
	}
	if override.SoundsDir != "" {
		base.SoundsDir = override.SoundsDir
	}
	return base
}
