package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RingState tracks where the ring sequence currently is
type RingState string

const (
	RingStateIdle    RingState = "Idle"    // Nothing is ringing
	RingStateRinging RingState = "Ringing" // The alarm sound and alerts are active
)

// ClockTime is a wall-clock hour and minute
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses an "HH:MM" value as entered in the alarm form
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ClockTime{}, fmt.Errorf("time is required")
	}

	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return ClockTime{}, fmt.Errorf("time %q is not in HH:MM form", s)
	}

	if !isTwoDigits(hh) {
		return ClockTime{}, fmt.Errorf("invalid hour in %q", s)
	}
	if !isTwoDigits(mm) {
		return ClockTime{}, fmt.Errorf("invalid minute in %q", s)
	}

	hour, err := strconv.Atoi(hh)
	if err != nil || hour > 23 {
		return ClockTime{}, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute > 59 {
		return ClockTime{}, fmt.Errorf("invalid minute in %q", s)
	}

	return ClockTime{Hour: hour, Minute: minute}, nil
}

func isTwoDigits(s string) bool {
	return len(s) == 2 && s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9'
}

// ClockTimeOf returns the hour and minute of t
func ClockTimeOf(t time.Time) ClockTime {
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Alarm is the single daily alarm
type Alarm struct {
	ID          string    // Unique identifier (UUID), reused as the iCalendar UID
	Time        ClockTime // Source of truth for the daily recurrence
	Label       string    // Optional, display only
	SoundKey    SoundKey  // Sound played while ringing
	Active      bool      // Whether the alarm is armed
	NextTrigger time.Time // Next instant the alarm must ring
	Snoozed     bool      // NextTrigger was pushed by a snooze, not the daily cycle
}

// PersistedAlarm is the part of an Alarm that survives a restart
type PersistedAlarm struct {
	Time     string   `json:"time"`
	Label    string   `json:"label,omitempty"`
	SoundKey SoundKey `json:"soundKey"`
	Active   bool     `json:"active"`
	Snoozed  bool     `json:"snoozed,omitempty"`
}

// PersistedState is the blob restored on launch
type PersistedState struct {
	Alarm      *PersistedAlarm `json:"alarm"`
	SoundIndex int             `json:"soundIndex"`
	Volume     int             `json:"-"` // stored under its own key
}

// Persisted converts an alarm into its stored form
func (a *Alarm) Persisted() *PersistedAlarm {
	if a == nil {
		return nil
	}
	return &PersistedAlarm{
		Time:     a.Time.String(),
		Label:    a.Label,
		SoundKey: a.SoundKey,
		Active:   a.Active,
		Snoozed:  a.Snoozed,
	}
}
