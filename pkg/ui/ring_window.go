package ui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/alarm-clock/pkg/alarm"
	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/borgmon/alarm-clock/pkg/platform"
	"github.com/borgmon/alarm-clock/pkg/ui/components"
)

// RingWindow is the banner shown while the alarm rings. Holding the turn-off
// button disarms the alarm; Stop only dismisses this ring.
type RingWindow struct {
	app           fyne.App
	ctrl          Controls
	hold          time.Duration
	snoozeMinutes int

	window  fyne.Window
	message *canvas.Text
	clock   *widget.Label
	snooze  *widget.Button
}

// NewRingWindow creates the banner. The window itself is built on first
// Raise.
func NewRingWindow(app fyne.App, ctrl Controls, snoozeMinutes int, hold time.Duration) *RingWindow {
	return &RingWindow{
		app:           app,
		ctrl:          ctrl,
		hold:          hold,
		snoozeMinutes: snoozeMinutes,
	}
}

// SetSnoozeMinutes updates the snooze button label for the next ring. It
// must run on the Fyne main thread.
func (rw *RingWindow) SetSnoozeMinutes(m int) {
	rw.snoozeMinutes = m
}

// Raise implements alarm.Alerter.
func (rw *RingWindow) Raise(a models.Alarm) error {
	text := alarm.RingingText(a.Label)
	at := a.Time.String()
	fyne.Do(func() {
		rw.show(text, at)
	})
	return nil
}

// Clear implements alarm.Alerter.
func (rw *RingWindow) Clear() {
	fyne.Do(func() {
		if rw.window != nil {
			rw.window.Hide()
		}
	})
}

func (rw *RingWindow) show(text, at string) {
	if rw.window == nil {
		rw.build()
	}
	rw.message.Text = text
	rw.message.Refresh()
	rw.clock.SetText(at)
	rw.snooze.SetText(fmt.Sprintf("Snooze %d min", rw.snoozeMinutes))

	rw.window.Show()
	rw.window.RequestFocus()
	platform.ActivateApp()
	platform.RequestAttention()
}

func (rw *RingWindow) build() {
	rw.window = rw.app.NewWindow("Alarm")

	rw.message = canvas.NewText("", nil)
	rw.message.TextSize = 32
	rw.message.Alignment = fyne.TextAlignCenter

	rw.clock = widget.NewLabel("")
	rw.clock.Alignment = fyne.TextAlignCenter

	rw.snooze = widget.NewButton("Snooze", func() { rw.ctrl.Snooze() })
	rw.snooze.Importance = widget.HighImportance
	stop := widget.NewButton("Stop", func() { rw.ctrl.Stop() })

	turnOff := components.NewHoldButton(
		fmt.Sprintf("Turn off alarm (hold %ds)", int(rw.hold/time.Second)),
		rw.hold,
		func() { rw.ctrl.Cancel() },
	)

	content := container.NewVBox(
		container.NewPadded(rw.message),
		rw.clock,
		widget.NewSeparator(),
		container.NewCenter(container.NewHBox(rw.snooze, stop)),
		container.NewCenter(turnOff),
	)
	rw.window.SetContent(container.NewPadded(container.NewCenter(content)))

	// Closing the banner dismisses the ring.
	rw.window.SetCloseIntercept(func() {
		rw.ctrl.Stop()
	})
}
