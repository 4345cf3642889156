package calendar

import (
	"fmt"
	"io"
	"time"

	"github.com/borgmon/alarm-clock/pkg/alarm"
	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

const (
	productID      = "-//borgmon//alarm-clock//EN"
	propSound      = "X-ALARM-CLOCK-SOUND"
	defaultSummary = "Alarm"

	// floatingFormat is a DATE-TIME without zone: local wall time wherever
	// the calendar is opened.
	floatingFormat = "20060102T150405"
)

// Export writes a as a daily recurring VEVENT starting at its next natural
// occurrence after now, with an audio VALARM at the start time.
func Export(w io.Writer, a models.Alarm, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")

	uid := a.ID
	if uid == "" {
		uid = uuid.NewString()
	}
	summary := a.Label
	if summary == "" {
		summary = defaultSummary
	}
	start := alarm.ComputeNextTrigger(a.Time, now.In(time.Local))

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uid)
	event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	event.Props.SetText(ical.PropSummary, summary)
	event.Props.SetText(propSound, string(a.SoundKey))

	dtstart := ical.NewProp(ical.PropDateTimeStart)
	dtstart.Value = start.Format(floatingFormat)
	event.Props.Set(dtstart)

	event.Props.SetRecurrenceRule(&rrule.ROption{Freq: rrule.DAILY})

	valarm := ical.NewComponent(ical.CompAlarm)
	valarm.Props.SetText(ical.PropAction, "AUDIO")
	trigger := ical.NewProp(ical.PropTrigger)
	trigger.Value = "PT0S"
	valarm.Props.Set(trigger)
	event.Children = append(event.Children, valarm)

	cal.Children = append(cal.Children, event.Component)

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}
