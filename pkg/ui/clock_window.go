// Package ui holds the Fyne windows of the alarm clock.
package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/alarm-clock/pkg/alarm"
	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/borgmon/alarm-clock/pkg/ui/components"
	"go.uber.org/zap"
)

// Controls is the part of the alarm controller the windows drive.
type Controls interface {
	Arm(hhmm, label string, key models.SoundKey) error
	Cancel()
	Stop()
	Snooze()
	Silence()
	PreviewToggle(key models.SoundKey)
	SelectSound(index int)
	SetVolume(v int)
	Snapshot() alarm.Snapshot
}

const (
	statusEvery = 5 * time.Second
	dateLayout  = "Monday 2 January 2006"
)

// ClockWindow is the main window: live clock, alarm form, sound carousel and
// volume.
type ClockWindow struct {
	window fyne.Window
	ctrl   Controls
	log    *zap.SugaredLogger

	timeText     *canvas.Text
	dateLabel    *widget.Label
	timeEntry    *widget.Entry
	labelEntry   *widget.Entry
	setButton    *widget.Button
	errorLabel   *widget.Label
	summary      *widget.Label
	detail       *widget.Label
	active       *fyne.Container
	snoozeButton *widget.Button
	stopButton   *widget.Button
	carousel     *components.Carousel
	volume       *widget.Slider

	snap       alarm.Snapshot
	day        string
	lastStatus time.Time
}

// NewClockWindow builds the main window. It must run on the Fyne main
// thread.
func NewClockWindow(app fyne.App, ctrl Controls, log *zap.SugaredLogger) *ClockWindow {
	cw := &ClockWindow{
		window: app.NewWindow("Alarm Clock"),
		ctrl:   ctrl,
		log:    log,
	}
	cw.buildUI()
	cw.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			cw.ctrl.Silence()
		}
	})
	cw.Apply(ctrl.Snapshot())
	return cw
}

func (cw *ClockWindow) buildUI() {
	cw.timeText = canvas.NewText("--:--:--", nil)
	cw.timeText.TextSize = 56
	cw.timeText.TextStyle = fyne.TextStyle{Monospace: true, Bold: true}
	cw.timeText.Alignment = fyne.TextAlignCenter

	cw.dateLabel = widget.NewLabel("")
	cw.dateLabel.Alignment = fyne.TextAlignCenter

	cw.timeEntry = widget.NewEntry()
	cw.timeEntry.SetPlaceHolder("HH:MM")
	cw.timeEntry.OnSubmitted = func(string) { cw.arm() }

	cw.labelEntry = widget.NewEntry()
	cw.labelEntry.SetPlaceHolder("Label (optional)")
	cw.labelEntry.OnSubmitted = func(string) { cw.arm() }

	cw.setButton = widget.NewButton("Set alarm", cw.arm)
	cw.setButton.Importance = widget.HighImportance

	cw.errorLabel = widget.NewLabel("")
	cw.errorLabel.Importance = widget.DangerImportance
	cw.errorLabel.Hide()

	form := widget.NewForm(
		widget.NewFormItem("Time", cw.timeEntry),
		widget.NewFormItem("Label", cw.labelEntry),
	)

	cw.summary = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	cw.detail = widget.NewLabel("")
	cw.detail.Alignment = fyne.TextAlignCenter

	cancel := widget.NewButton("Cancel alarm", func() { cw.ctrl.Cancel() })
	cancel.Importance = widget.DangerImportance
	cw.snoozeButton = widget.NewButton("Snooze", func() { cw.ctrl.Snooze() })
	cw.stopButton = widget.NewButton("Stop", func() { cw.ctrl.Stop() })
	cw.active = container.NewCenter(container.NewHBox(cw.snoozeButton, cw.stopButton, cancel))

	cw.carousel = components.NewCarousel()
	cw.carousel.OnPrevious = func() { cw.ctrl.SelectSound(cw.snap.SoundIndex - 1) }
	cw.carousel.OnNext = func() { cw.ctrl.SelectSound(cw.snap.SoundIndex + 1) }
	cw.carousel.OnPreview = func() { cw.ctrl.PreviewToggle(models.SoundAt(cw.snap.SoundIndex).Key) }

	cw.volume = widget.NewSlider(0, 100)
	cw.volume.Step = 1
	cw.volume.OnChanged = func(v float64) {
		if int(v) != cw.snap.Volume {
			cw.ctrl.SetVolume(int(v))
		}
	}

	content := container.NewVBox(
		cw.timeText,
		cw.dateLabel,
		widget.NewSeparator(),
		form,
		container.NewCenter(cw.setButton),
		cw.errorLabel,
		widget.NewSeparator(),
		cw.summary,
		cw.detail,
		cw.active,
		widget.NewSeparator(),
		cw.carousel,
		container.NewBorder(nil, nil, widget.NewLabel("Volume"), nil, cw.volume),
	)

	cw.window.SetContent(container.NewPadded(content))
	cw.window.Resize(fyne.NewSize(420, 560))
}

// Window returns the underlying Fyne window.
func (cw *ClockWindow) Window() fyne.Window {
	return cw.window
}

// Show brings the window up.
func (cw *ClockWindow) Show() {
	cw.window.Show()
	cw.window.RequestFocus()
}

// Tick refreshes the clock face. The date is only re-rendered when the day
// changes and the status lines every few seconds.
func (cw *ClockWindow) Tick(now time.Time) {
	cw.timeText.Text = now.Format("15:04:05")
	cw.timeText.Refresh()

	if day := now.Format(dateLayout); day != cw.day {
		cw.day = day
		cw.dateLabel.SetText(day)
	}

	if now.Sub(cw.lastStatus) >= statusEvery || now.Before(cw.lastStatus) {
		cw.updateStatus(now)
	}
}

// Apply renders a controller snapshot.
func (cw *ClockWindow) Apply(snap alarm.Snapshot) {
	cw.snap = snap

	if cw.armed() {
		cw.setButton.Disable()
		cw.active.Show()
	} else {
		cw.setButton.Enable()
		cw.active.Hide()
	}
	if snap.State == models.RingStateRinging {
		cw.snoozeButton.Enable()
		cw.stopButton.Enable()
	} else {
		cw.snoozeButton.Disable()
		cw.stopButton.Disable()
	}

	sound := models.SoundAt(snap.SoundIndex)
	cw.carousel.SetItem(sound.Title, snap.SoundIndex, len(models.Sounds), snap.Previewing == sound.Key)

	if int(cw.volume.Value) != snap.Volume {
		cw.volume.SetValue(float64(snap.Volume))
	}

	cw.updateStatus(time.Now())
}

func (cw *ClockWindow) armed() bool {
	return cw.snap.Alarm != nil && cw.snap.Alarm.Active
}

func (cw *ClockWindow) updateStatus(now time.Time) {
	cw.lastStatus = now
	summary, detail := alarm.StatusText(cw.snap, now)
	cw.summary.SetText(summary)
	cw.detail.SetText(detail)
}

func (cw *ClockWindow) arm() {
	// Enter in the form must not replace an armed alarm.
	if cw.armed() {
		return
	}
	key := models.SoundAt(cw.snap.SoundIndex).Key
	if err := cw.ctrl.Arm(cw.timeEntry.Text, cw.labelEntry.Text, key); err != nil {
		cw.log.Debugw("Alarm not armed", "input", cw.timeEntry.Text, "error", err)
		cw.errorLabel.SetText(alarm.ErrorDescription(err))
		cw.errorLabel.Show()
		return
	}
	cw.errorLabel.Hide()
}
