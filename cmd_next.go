package main

import (
	"fmt"
	"time"

	"github.com/borgmon/alarm-clock/pkg/alarm"
	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/spf13/cobra"
)

// nextCmd prints when an alarm set now would ring
var nextCmd = &cobra.Command{
	Use:   "next HH:MM",
	Short: "Show when an alarm for HH:MM would next ring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := models.ParseClockTime(args[0])
		if err != nil {
			return alarm.Errorf(alarm.ErrInvalid, "invalid time %q, expected HH:MM", args[0])
		}
		now := time.Now()
		fmt.Fprintln(cmd.OutOrStdout(), describeNext(t, now))
		return nil
	},
}

func describeNext(t models.ClockTime, now time.Time) string {
	next := alarm.ComputeNextTrigger(t, now)
	return fmt.Sprintf("%s (in %s)", next.Format("Mon 2 Jan 2006 15:04"), alarm.FormatRemaining(next, now))
}
