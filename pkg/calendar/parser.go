package calendar

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/borgmon/alarm-clock/pkg/alarm"
	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"
)

// ErrNoAlarm is returned when a calendar holds no usable event.
var ErrNoAlarm = errors.New("calendar: no alarm event found")

// Imported is an alarm read back from an iCalendar document.
type Imported struct {
	Alarm models.PersistedAlarm
	// Next is the first occurrence after the import time.
	Next time.Time
}

// Import reads the first VEVENT of data as a daily alarm. Events without a
// recurrence rule are accepted and treated as daily; rules other than a
// plain daily repetition are rejected.
func Import(data []byte, now time.Time) (*Imported, error) {
	if err := validateICalFormat(string(data)); err != nil {
		return nil, err
	}

	decoder := ical.NewDecoder(bytes.NewReader(data))
	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			return nil, ErrNoAlarm
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			return parseAlarmEvent(comp, now)
		}
	}
}

func parseAlarmEvent(comp *ical.Component, now time.Time) (*Imported, error) {
	normalizeComponentTimezones(comp)

	startProp := comp.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return nil, fmt.Errorf("calendar: event has no %s", ical.PropDateTimeStart)
	}
	start, err := parseDateTimeProperty(startProp)
	if err != nil {
		return nil, err
	}

	imp := &Imported{
		Alarm: models.PersistedAlarm{
			Time:     models.ClockTimeOf(start).String(),
			SoundKey: models.DefaultSound,
			Active:   true,
		},
	}

	if summaryProp := comp.Props.Get(ical.PropSummary); summaryProp != nil && summaryProp.Value != defaultSummary {
		imp.Alarm.Label = summaryProp.Value
	}
	if soundProp := comp.Props.Get(propSound); soundProp != nil {
		if _, ok := models.LookupSound(models.SoundKey(soundProp.Value)); ok {
			imp.Alarm.SoundKey = models.SoundKey(soundProp.Value)
		}
	}

	rule, err := comp.Props.RecurrenceRule()
	if err != nil {
		return nil, fmt.Errorf("calendar: invalid %s: %w", ical.PropRecurrenceRule, err)
	}
	if rule == nil {
		imp.Next = alarm.ComputeNextTrigger(models.ClockTimeOf(start), now.In(time.Local))
		return imp, nil
	}
	if !isPlainDaily(rule) {
		return nil, fmt.Errorf("calendar: unsupported recurrence %q, only daily alarms are supported", rule.RRuleString())
	}

	set, err := comp.RecurrenceSet(componentLocation(comp))
	if err != nil {
		return nil, fmt.Errorf("calendar: expand recurrence: %w", err)
	}
	imp.Next = set.After(now, false).In(time.Local)
	return imp, nil
}

func isPlainDaily(rule *rrule.ROption) bool {
	return rule.Freq == rrule.DAILY &&
		rule.Interval <= 1 &&
		rule.Count == 0 &&
		rule.Until.IsZero() &&
		len(rule.Byweekday) == 0 &&
		len(rule.Bymonth) == 0
}

func parseDateTimeProperty(prop *ical.Prop) (time.Time, error) {
	// First try the standard DateTime method with local timezone
	if t, err := prop.DateTime(time.Local); err == nil {
		return t.In(time.Local), nil
	}

	// If that fails, try parsing the raw value directly
	value := prop.Value

	// Try multiple datetime formats
	formats := []string{
		"20060102T150405",     // Basic format: YYYYMMDDTHHMMSS
		"20060102T150405Z",    // UTC format
		time.RFC3339,          // Standard RFC3339
		"2006-01-02T15:04:05", // ISO 8601 without timezone
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, value, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse datetime value: %s", value)
}
