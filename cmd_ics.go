package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2/app"
	"github.com/borgmon/alarm-clock/pkg/calendar"
	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/borgmon/alarm-clock/pkg/store"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// icsCmd moves the stored alarm to and from iCalendar files
var icsCmd = &cobra.Command{
	Use:   "ics",
	Short: "Export or import the alarm as an iCalendar file",
}

var icsExportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write the stored alarm to FILE as a daily recurring event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := store.NewStateStore(app.NewWithID(appID).Preferences())
		a, err := storedAlarm(st)
		if err != nil {
			return err
		}
		data, err := exportTo(a)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", args[0], err)
		}
		logger.Sugar().Infow("Alarm exported", "file", args[0], "time", a.Time.String())
		return nil
	},
}

var icsImportCmd = &cobra.Command{
	Use:   "import FILE|URL",
	Short: "Replace the stored alarm with the first event of an iCalendar file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		data, err := calendar.ReadSource(ctx, args[0])
		if err != nil {
			return err
		}
		imp, err := calendar.Import(data, time.Now())
		if err != nil {
			return err
		}

		st := store.NewStateStore(app.NewWithID(appID).Preferences())
		state, err := st.Load()
		if err != nil {
			logger.Sugar().Warnw("Replacing unreadable alarm state", "error", err)
		}
		state.Alarm = &imp.Alarm
		if idx := models.SoundIndex(imp.Alarm.SoundKey); idx >= 0 {
			state.SoundIndex = idx
		}
		if err := st.Save(state); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Alarm set for %s, next ring %s\n", imp.Alarm.Time, imp.Next.Format("Mon 2 Jan 2006 15:04"))
		return nil
	},
}

func init() {
	icsCmd.AddCommand(icsExportCmd)
	icsCmd.AddCommand(icsImportCmd)
}

// storedAlarm rebuilds the persisted alarm without starting the clock.
func storedAlarm(st *store.StateStore) (models.Alarm, error) {
	state, err := st.Load()
	if err != nil {
		return models.Alarm{}, err
	}
	p := state.Alarm
	if p == nil || !p.Active {
		return models.Alarm{}, errNoAlarm
	}
	t, err := models.ParseClockTime(p.Time)
	if err != nil {
		return models.Alarm{}, err
	}
	return models.Alarm{
		ID:       uuid.NewString(),
		Time:     t,
		Label:    p.Label,
		SoundKey: p.SoundKey,
		Active:   true,
		Snoozed:  p.Snoozed,
	}, nil
}
