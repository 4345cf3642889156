package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/borgmon/alarm-clock/pkg/alarm"
	"github.com/borgmon/alarm-clock/pkg/models"
)

func (ac *AlarmClock) setupSystemTray() {
	ac.updateSystemTrayMenu(ac.ctrl.Snapshot())
}

func (ac *AlarmClock) updateSystemTrayMenu(snap alarm.Snapshot) {
	desk, ok := ac.app.(desktop.App)
	if !ok {
		return
	}

	menu := fyne.NewMenu("Alarm Clock", ac.trayMenuItems(snap)...)
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(theme.HistoryIcon())
}

func (ac *AlarmClock) trayMenuItems(snap alarm.Snapshot) []*fyne.MenuItem {
	menuItems := []*fyne.MenuItem{}

	headerItem := fyne.NewMenuItem(trayHeader(snap), nil)
	headerItem.Disabled = true
	menuItems = append(menuItems, headerItem)

	if snap.Alarm != nil && snap.Alarm.Active {
		snooze := fyne.NewMenuItem("Snooze", func() {
			ac.ctrl.Snooze()
		})
		stop := fyne.NewMenuItem("Stop", func() {
			ac.ctrl.Stop()
		})
		test := fyne.NewMenuItem("Test Alarm", func() {
			ac.ctrl.RingNow()
		})
		ringing := snap.State == models.RingStateRinging
		snooze.Disabled = !ringing
		stop.Disabled = !ringing
		test.Disabled = ringing

		menuItems = append(menuItems,
			snooze,
			stop,
			test,
			fyne.NewMenuItem("Cancel Alarm", func() {
				ac.ctrl.Cancel()
			}),
		)
	}

	menuItems = append(menuItems,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show Clock", func() {
			ac.showClockWindow()
		}),
		fyne.NewMenuItem("Settings", func() {
			ac.showSettingsWindow()
		}),
	)

	menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	menuItems = append(menuItems, fyne.NewMenuItem("Quit", func() {
		ac.quit()
	}))
	return menuItems
}

// trayHeader describes the alarm in one short line.
func trayHeader(snap alarm.Snapshot) string {
	a := snap.Alarm
	switch {
	case a == nil || !a.Active:
		return "No alarm set"
	case snap.State == models.RingStateRinging:
		return alarm.RingingText(truncateString(a.Label, 35))
	case a.Snoozed:
		return fmt.Sprintf("Snoozed until %s", a.NextTrigger.Format("15:04"))
	default:
		return fmt.Sprintf("Next alarm: %s %s", dayName(a.NextTrigger, time.Now()), a.Time)
	}
}

func dayName(t, now time.Time) string {
	if t.YearDay() == now.YearDay() && t.Year() == now.Year() {
		return "today"
	}
	return "tomorrow"
}

// truncateString truncates a string to maxLen runes, adding "..." if needed
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
