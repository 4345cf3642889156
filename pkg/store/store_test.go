package store

import (
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStoreEmpty(t *testing.T) {
	s := NewStateStore(test.NewTempApp(t).Preferences())

	st, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, st.Alarm)
	assert.Equal(t, -1, st.SoundIndex)
	assert.Equal(t, -1, st.Volume)
}

func TestStateStoreRoundTrip(t *testing.T) {
	prefs := test.NewTempApp(t).Preferences()
	s := NewStateStore(prefs)

	want := models.PersistedState{
		Alarm: &models.PersistedAlarm{
			Time:     "06:45",
			Label:    "gym",
			SoundKey: models.SoundChime,
			Active:   true,
			Snoozed:  true,
		},
		SoundIndex: 9,
		Volume:     35,
	}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Contains(t, prefs.String(stateKey), `"soundKey":"chime"`)

	s.Clear()
	got, err = s.Load()
	require.NoError(t, err)
	assert.Nil(t, got.Alarm)
	assert.Equal(t, -1, got.Volume)
}

func TestStateStoreCorrupt(t *testing.T) {
	for name, blob := range map[string]string{
		"not json":     "{oops",
		"invalid time": `{"alarm":{"time":"25:99","soundKey":"rooster","active":true}}`,
	} {
		t.Run(name, func(t *testing.T) {
			prefs := test.NewTempApp(t).Preferences()
			prefs.SetString(stateKey, blob)
			prefs.SetInt(volumeKey, 20)

			st, err := NewStateStore(prefs).Load()
			assert.Error(t, err)
			assert.Equal(t, 20, st.Volume)
		})
	}
}

func TestStateStoreUnknownSound(t *testing.T) {
	prefs := test.NewTempApp(t).Preferences()
	prefs.SetString(stateKey, `{"alarm":{"time":"07:00","soundKey":"kazoo","active":true},"soundIndex":42}`)

	st, err := NewStateStore(prefs).Load()
	require.NoError(t, err)
	require.NotNil(t, st.Alarm)
	assert.Equal(t, models.DefaultSound, st.Alarm.SoundKey)
	assert.Equal(t, -1, st.SoundIndex)
}

func TestConfigStoreDefaults(t *testing.T) {
	cs := NewConfigStore(test.NewTempApp(t).Preferences())
	assert.Equal(t, models.DefaultSettings(), cs.Load())
}

func TestConfigStoreRoundTrip(t *testing.T) {
	cs := NewConfigStore(test.NewTempApp(t).Preferences())
	want := models.Settings{
		SnoozeMinutes:       9,
		AutoSnoozeSeconds:   30,
		FallbackRingSeconds: 2,
		FadeInMillis:        0,
		FadeOutMillis:       100,
		Volume:              55,
		AutoStart:           true,
		SoundsDir:           "/usr/share/alarm-clock/sounds",
	}
	cs.Save(want)
	assert.Equal(t, want, cs.Load())
}

func TestConfigStoreRepairsInvalid(t *testing.T) {
	prefs := test.NewTempApp(t).Preferences()
	prefs.SetInt("snooze_minutes", 0)
	prefs.SetInt("auto_snooze_seconds", -5)
	prefs.SetInt("volume", 400)

	got := NewConfigStore(prefs).Load()
	def := models.DefaultSettings()
	assert.Equal(t, def.SnoozeMinutes, got.SnoozeMinutes)
	assert.Equal(t, def.AutoSnoozeSeconds, got.AutoSnoozeSeconds)
	assert.Equal(t, 100, got.Volume)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alarm-clock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, "snooze_minutes: 10\nsounds_dir: /opt/sounds\nauto_start: true\n")
	base := models.DefaultSettings()

	got, err := LoadOverrides(path, base)
	require.NoError(t, err)
	assert.Equal(t, 10, got.SnoozeMinutes)
	assert.Equal(t, "/opt/sounds", got.SoundsDir)
	assert.True(t, got.AutoStart)
	assert.Equal(t, base.AutoSnoozeSeconds, got.AutoSnoozeSeconds)
	assert.Equal(t, base.Volume, got.Volume)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	path := writeConfig(t, "volume: 40\n")
	t.Setenv(ConfigEnv, path)

	got, err := LoadOverrides("", models.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, 40, got.Volume)
}

func TestLoadOverridesNoFile(t *testing.T) {
	t.Setenv(ConfigEnv, "")
	base := models.DefaultSettings()
	got, err := LoadOverrides("", base)
	require.NoError(t, err)
	assert.Equal(t, base, got)
}

func TestLoadOverridesErrors(t *testing.T) {
	base := models.DefaultSettings()

	got, err := LoadOverrides(filepath.Join(t.TempDir(), "missing.yaml"), base)
	assert.Error(t, err)
	assert.Equal(t, base, got)

	_, err = LoadOverrides(writeConfig(t, "snooze_minutes: [1, 2"), base)
	assert.ErrorContains(t, err, "parse config")

	_, err = LoadOverrides(writeConfig(t, "volume: 101"), base)
	assert.ErrorContains(t, err, "volume")
}
