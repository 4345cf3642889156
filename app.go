package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/borgmon/alarm-clock/pkg/alarm"
	"github.com/borgmon/alarm-clock/pkg/audio"
	"github.com/borgmon/alarm-clock/pkg/calendar"
	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/borgmon/alarm-clock/pkg/platform"
	"github.com/borgmon/alarm-clock/pkg/scheduler"
	"github.com/borgmon/alarm-clock/pkg/store"
	"github.com/borgmon/alarm-clock/pkg/ui"
	"go.uber.org/zap"
)

const (
	windowTitle = "Alarm Clock"
	holdToClear = 3 * time.Second
)

var errNoAlarm = errors.New("no alarm set")

type AlarmClock struct {
	app         fyne.App
	log         *zap.SugaredLogger
	settings    models.Settings
	configStore *store.ConfigStore

	ctrl     *alarm.Controller
	library  *audio.Library
	ticker   *scheduler.Ticker
	notifier *ui.Notifier
	ring     *ui.RingWindow

	clockWindow    *ui.ClockWindow
	settingsWindow *ui.SettingsWindow

	cancel context.CancelFunc
}

// loadSettings reads the stored settings and applies the YAML override file
// and the command-line flags on top.
func loadSettings(a fyne.App) (*store.ConfigStore, models.Settings, error) {
	cs := store.NewConfigStore(a.Preferences())
	settings, err := store.LoadOverrides(configPath, cs.Load())
	if err != nil {
		return cs, settings, err
	}
	if soundsDir != "" {
		settings.SoundsDir = soundsDir
	}
	return cs, settings, nil
}

func NewAlarmClock(log *zap.SugaredLogger) (*AlarmClock, error) {
	ac := &AlarmClock{
		app: app.NewWithID(appID),
		log: log,
	}

	if err := ac.initialize(); err != nil {
		return nil, err
	}
	return ac, nil
}

func (ac *AlarmClock) initialize() error {
	var err error
	ac.configStore, ac.settings, err = loadSettings(ac.app)
	if err != nil {
		return err
	}
	ac.log.Debugw("Settings loaded", "settings", ac.settings)

	// Sync autostart state with settings on startup
	if err := platform.SetupAutostart(ac.settings.AutoStart, ac.log); err != nil {
		ac.log.Warnw("Failed to setup autostart", "error", err)
	}

	engine, err := audio.NewEngine(ac.log)
	if err != nil {
		ac.log.Warnw("No audio output, alarms will ring silently", "error", err)
	}
	ac.library = audio.NewLibrary(os.DirFS(ac.settings.SoundsDir), ac.log)

	ac.ctrl = alarm.NewController(alarm.Options{
		Settings: ac.settings,
		Output:   engine,
		Sounds:   ac.library,
		Store:    store.NewStateStore(ac.app.Preferences()),
		Logger:   ac.log,
	})

	ac.clockWindow = ui.NewClockWindow(ac.app, ac.ctrl, ac.log)
	ac.clockWindow.Window().SetCloseIntercept(ac.hideClockWindow)

	ac.ring = ui.NewRingWindow(ac.app, ac.ctrl, ac.settings.SnoozeMinutes, holdToClear)
	ac.notifier = ui.NewNotifier(ac.app, ac.log)
	ac.ctrl.AddAlerter(ac.ring)
	ac.ctrl.AddAlerter(ui.NewTitleBlinker(ac.clockWindow.Window(), windowTitle))
	ac.ctrl.AddAlerter(ac.notifier)

	ac.ctrl.Subscribe(func(snap alarm.Snapshot) {
		fyne.Do(func() {
			ac.clockWindow.Apply(snap)
			ac.updateSystemTrayMenu(snap)
		})
	})
	ac.ctrl.Restore()

	ac.ticker = scheduler.New(func(now time.Time) {
		ac.ctrl.Tick(now)
		fyne.Do(func() {
			ac.clockWindow.Tick(now)
		})
	}, ac.log)

	ac.setupSystemTray()
	return nil
}

func (ac *AlarmClock) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	ac.cancel = cancel

	lc := ac.app.Lifecycle()
	lc.SetOnStarted(func() {
		go func() {
			if err := ac.ticker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				ac.log.Errorw("Clock ticker stopped", "error", err)
			}
		}()
		go ac.library.Preload(ctx)

		if background {
			platform.SetBackground(true)
		}
	})
	lc.SetOnEnteredForeground(func() {
		ac.notifier.SetForeground(true)
		ac.ticker.Poke()
	})
	lc.SetOnExitedForeground(func() {
		ac.notifier.SetForeground(false)
	})
	lc.SetOnStopped(cancel)

	if !background {
		ac.clockWindow.Show()
	}
	ac.app.Run()
}

func (ac *AlarmClock) showClockWindow() {
	platform.SetBackground(false)
	ac.clockWindow.Show()
}

// hideClockWindow keeps the clock running in the tray.
func (ac *AlarmClock) hideClockWindow() {
	ac.clockWindow.Window().Hide()
	platform.SetBackground(true)
}

func (ac *AlarmClock) showSettingsWindow() {
	if ac.settingsWindow != nil {
		ac.settingsWindow.Show()
		return
	}

	ac.settingsWindow = ui.NewSettingsWindow(ac.app, ac.settings, ui.SettingsHooks{
		Save:   ac.saveSettings,
		Export: ac.exportAlarm,
		Import: ac.importAlarm,
	}, ac.log)
	ac.settingsWindow.Window().SetOnClosed(func() {
		ac.settingsWindow = nil
	})
	ac.settingsWindow.Show()
}

func (ac *AlarmClock) saveSettings(s models.Settings) error {
	if err := platform.SetupAutostart(s.AutoStart, ac.log); err != nil {
		return fmt.Errorf("failed to set autostart: %w", err)
	}
	ac.configStore.Save(s)
	ac.ctrl.UpdateSettings(s)
	fyne.Do(func() {
		ac.settings = s
		ac.ring.SetSnoozeMinutes(s.SnoozeMinutes)
	})
	ac.log.Infow("Settings saved", "snooze_minutes", s.SnoozeMinutes, "auto_snooze_seconds", s.AutoSnoozeSeconds)
	return nil
}

func (ac *AlarmClock) exportAlarm(w io.Writer) error {
	snap := ac.ctrl.Snapshot()
	if snap.Alarm == nil {
		return errNoAlarm
	}
	return calendar.Export(w, *snap.Alarm, time.Now())
}

func (ac *AlarmClock) importAlarm(data []byte) error {
	imp, err := calendar.Import(data, time.Now())
	if err != nil {
		return err
	}
	a := imp.Alarm
	if err := ac.ctrl.Arm(a.Time, a.Label, a.SoundKey); err != nil {
		return err
	}
	ac.log.Infow("Alarm imported", "time", a.Time, "next", imp.Next.Format(time.RFC3339))
	return nil
}

// exportTo renders the alarm as an iCalendar document.
func exportTo(a models.Alarm) ([]byte, error) {
	var buf bytes.Buffer
	if err := calendar.Export(&buf, a, time.Now()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (ac *AlarmClock) quit() {
	ac.ctrl.Silence()
	if ac.cancel != nil {
		ac.cancel()
	}
	ac.app.Quit()
}
