package models_test

import (
	"testing"
	"time"

	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in      string
		want    models.ClockTime
		wantErr bool
	}{
		{in: "07:00", want: models.ClockTime{Hour: 7, Minute: 0}},
		{in: " 23:59 ", want: models.ClockTime{Hour: 23, Minute: 59}},
		{in: "00:05", want: models.ClockTime{Hour: 0, Minute: 5}},
		{in: "0:05", wantErr: true},
		{in: "7:05", wantErr: true},
		{in: "007:05", wantErr: true},
		{in: "07:+5", wantErr: true},
		{in: "+7:-0", wantErr: true},
		{in: "07:05:00", wantErr: true},
		{in: "", wantErr: true},
		{in: "7", wantErr: true},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "12:5", wantErr: true},
		{in: "ab:cd", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := models.ParseClockTime(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockTimeString(t *testing.T) {
	assert.Equal(t, "07:05", models.ClockTime{Hour: 7, Minute: 5}.String())
	assert.Equal(t, models.ClockTime{Hour: 18, Minute: 30},
		models.ClockTimeOf(time.Date(2025, 3, 1, 18, 30, 45, 0, time.UTC)))
}

func TestPersistedNilAlarm(t *testing.T) {
	var a *models.Alarm
	assert.Nil(t, a.Persisted())
}

func TestSoundCatalog(t *testing.T) {
	assert.Equal(t, models.SoundRooster, models.SoundAt(0).Key)
	assert.Equal(t, models.SoundAt(len(models.Sounds)-1), models.SoundAt(-1))
	assert.Equal(t, models.SoundAt(0), models.SoundAt(len(models.Sounds)))
	assert.Equal(t, -1, models.SoundIndex("nope"))

	for _, s := range models.Sounds {
		assert.True(t, (s.File == "") != (s.Pattern == models.PatternNone), "sound %s needs exactly one source", s.Key)
	}
	fallback, ok := models.LookupSound(models.FallbackSound)
	require.True(t, ok)
	assert.NotEqual(t, models.PatternNone, fallback.Pattern)
}

func TestVolumeGain(t *testing.T) {
	assert.Equal(t, 0.0, models.VolumeGain(-5))
	assert.Equal(t, 1.0, models.VolumeGain(100))
	assert.Equal(t, 1.0, models.VolumeGain(150))
	assert.InDelta(t, 0.3299, models.VolumeGain(50), 0.001)
}
