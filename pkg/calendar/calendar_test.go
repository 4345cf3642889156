package calendar

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/borgmon/alarm-clock/pkg/alarm"
	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localTime(h, m int) time.Time {
	return time.Date(2025, 6, 10, h, m, 0, 0, time.Local)
}

func TestExportImportRoundTrip(t *testing.T) {
	a := models.Alarm{
		ID:       "5b0c7f1e-0000-4000-8000-000000000001",
		Time:     models.ClockTime{Hour: 6, Minute: 30},
		Label:    "Gym",
		SoundKey: models.SoundChime,
		Active:   true,
	}
	now := localTime(12, 0)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, a, now))
	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "UID:"+a.ID)
	assert.Contains(t, out, "RRULE:FREQ=DAILY")
	assert.Contains(t, out, "DTSTART:20250611T063000")
	assert.Contains(t, out, "X-ALARM-CLOCK-SOUND:chime")
	assert.Contains(t, out, "BEGIN:VALARM")

	imp, err := Import(buf.Bytes(), now)
	require.NoError(t, err)
	assert.Equal(t, models.PersistedAlarm{
		Time:     "06:30",
		Label:    "Gym",
		SoundKey: models.SoundChime,
		Active:   true,
	}, imp.Alarm)
	assert.True(t, localTime(6, 30).AddDate(0, 0, 1).Equal(imp.Next))
}

func TestDailyRuleMatchesNextTrigger(t *testing.T) {
	a := models.Alarm{Time: models.ClockTime{Hour: 7}, SoundKey: models.SoundRooster}
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, a, localTime(5, 0)))

	// Days later, the rule's next occurrence is still the computed trigger.
	for _, now := range []time.Time{
		localTime(5, 0).AddDate(0, 0, 3),
		localTime(7, 0).AddDate(0, 0, 3),
		localTime(23, 59).AddDate(0, 1, 0),
	} {
		imp, err := Import(buf.Bytes(), now)
		require.NoError(t, err)
		want := alarm.ComputeNextTrigger(a.Time, now)
		assert.True(t, want.Equal(imp.Next), "now %s: want %s got %s", now, want, imp.Next)
	}
}

func TestImportDefaultLabel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, models.Alarm{Time: models.ClockTime{Hour: 8}, SoundKey: models.SoundBeep}, localTime(9, 0)))
	assert.Contains(t, buf.String(), "SUMMARY:Alarm")

	imp, err := Import(buf.Bytes(), localTime(9, 0))
	require.NoError(t, err)
	assert.Empty(t, imp.Alarm.Label)
	assert.Equal(t, models.SoundBeep, imp.Alarm.SoundKey)
}

const foreignEvent = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Example//EN
BEGIN:VEVENT
UID:abc
DTSTAMP:20250101T000000Z
DTSTART:20250101T091500
SUMMARY:Standup
%s
END:VEVENT
END:VCALENDAR
`

func icsWith(rrule string) []byte {
	s := strings.Replace(foreignEvent, "%s\n", rrule, 1)
	return []byte(strings.ReplaceAll(s, "\n", "\r\n"))
}

func TestImportWithoutRule(t *testing.T) {
	imp, err := Import(icsWith(""), localTime(10, 0))
	require.NoError(t, err)
	assert.Equal(t, "09:15", imp.Alarm.Time)
	assert.Equal(t, "Standup", imp.Alarm.Label)
	assert.Equal(t, models.DefaultSound, imp.Alarm.SoundKey)
	assert.True(t, localTime(9, 15).AddDate(0, 0, 1).Equal(imp.Next))
}

func TestImportRejectsNonDaily(t *testing.T) {
	for _, rule := range []string{
		"RRULE:FREQ=WEEKLY;BYDAY=MO\n",
		"RRULE:FREQ=DAILY;INTERVAL=2\n",
		"RRULE:FREQ=DAILY;COUNT=3\n",
	} {
		_, err := Import(icsWith(rule), localTime(10, 0))
		assert.ErrorContains(t, err, "only daily", rule)
	}
}

func TestImportErrors(t *testing.T) {
	_, err := Import([]byte("<!DOCTYPE html><html></html>"), time.Now())
	assert.ErrorContains(t, err, "HTML")

	_, err = Import([]byte("hello"), time.Now())
	assert.ErrorContains(t, err, "BEGIN:VCALENDAR")

	todo := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//Example//EN\r\n" +
		"BEGIN:VTODO\r\nUID:t1\r\nDTSTAMP:20250101T000000Z\r\nSUMMARY:Buy milk\r\nEND:VTODO\r\n" +
		"END:VCALENDAR\r\n"
	_, err = Import([]byte(todo), time.Now())
	assert.ErrorIs(t, err, ErrNoAlarm)
}

func TestReadSourceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alarm.ics")
	require.NoError(t, os.WriteFile(path, icsWith(""), 0o600))

	data, err := ReadSource(t.Context(), path)
	require.NoError(t, err)
	assert.Equal(t, icsWith(""), data)

	bad := filepath.Join(dir, "bad.ics")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0o600))
	_, err = ReadSource(t.Context(), bad)
	assert.Error(t, err)

	_, err = ReadSource(t.Context(), filepath.Join(dir, "missing.ics"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNormalizeWindowsTimezone(t *testing.T) {
	ics := strings.ReplaceAll(`BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Example//EN
BEGIN:VEVENT
UID:abc
DTSTAMP:20250101T000000Z
DTSTART;TZID=Tokyo Standard Time:20250101T070000
END:VEVENT
END:VCALENDAR
`, "\n", "\r\n")

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skip("tzdata not available")
	}
	imp, err := Import([]byte(ics), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	want := time.Date(2025, 1, 1, 7, 0, 0, 0, tokyo).In(time.Local)
	assert.Equal(t, models.ClockTimeOf(want).String(), imp.Alarm.Time)
}
