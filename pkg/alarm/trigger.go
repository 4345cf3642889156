package alarm

import (
	"fmt"
	"time"

	"github.com/borgmon/alarm-clock/pkg/models"
)

// ComputeNextTrigger returns the first instant strictly after from whose
// wall-clock time is t, in from's location.
func ComputeNextTrigger(t models.ClockTime, from time.Time) time.Time {
	next := time.Date(from.Year(), from.Month(), from.Day(), t.Hour, t.Minute, 0, 0, from.Location())
	if !next.After(from) {
		// Already passed today.
		next = time.Date(from.Year(), from.Month(), from.Day()+1, t.Hour, t.Minute, 0, 0, from.Location())
	}
	return next
}

// FormatRemaining renders the time left until target as "M min SS s".
func FormatRemaining(target, now time.Time) string {
	left := target.Sub(now)
	if left < 0 {
		left = 0
	}
	totalSec := int(left / time.Second)
	return fmt.Sprintf("%d min %02d s", totalSec/60, totalSec%60)
}
