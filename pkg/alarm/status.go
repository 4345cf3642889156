package alarm

import (
	"fmt"
	"time"

	"github.com/borgmon/alarm-clock/pkg/models"
)

const noAlarmText = "No alarm set."

// StatusText returns the two status lines shown under the clock: a summary
// of the armed alarm and the countdown to its next ring.
func StatusText(snap Snapshot, now time.Time) (summary, detail string) {
	a := snap.Alarm
	if a == nil || !a.Active {
		return noAlarmText, "—"
	}

	snoozeTag := ""
	if a.Snoozed {
		snoozeTag = " (snooze)"
	}
	summary = fmt.Sprintf("Active for %s%s — %s", a.Time, snoozeTag, models.SoundTitle(a.SoundKey))

	if snap.State == models.RingStateRinging {
		return summary, RingingText(a.Label)
	}
	return summary, fmt.Sprintf("Next in ~ %s.", FormatRemaining(a.NextTrigger, now))
}

// RingingText is the banner text while the alarm rings.
func RingingText(label string) string {
	if label == "" {
		return "⏰ Alarm!"
	}
	return "⏰ Alarm! — " + label
}
