package ui

import (
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"github.com/borgmon/alarm-clock/pkg/alarm"
	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/borgmon/alarm-clock/pkg/platform"
	"go.uber.org/zap"
)

const blinkPeriod = 900 * time.Millisecond

// TitleBlinker alternates a window title while the alarm rings.
type TitleBlinker struct {
	window fyne.Window
	title  string
	period time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

// NewTitleBlinker blinks window, whose resting title is title.
func NewTitleBlinker(window fyne.Window, title string) *TitleBlinker {
	return &TitleBlinker{window: window, title: title, period: blinkPeriod}
}

// Raise implements alarm.Alerter.
func (tb *TitleBlinker) Raise(a models.Alarm) error {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if tb.stop != nil {
		return nil
	}
	tb.stop = make(chan struct{})
	go tb.blink(tb.stop, alarm.RingingText(a.Label))
	return nil
}

// Clear implements alarm.Alerter.
func (tb *TitleBlinker) Clear() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if tb.stop == nil {
		return
	}
	close(tb.stop)
	tb.stop = nil
	fyne.Do(func() { tb.window.SetTitle(tb.title) })
}

func (tb *TitleBlinker) blink(stop chan struct{}, alt string) {
	ticker := time.NewTicker(tb.period)
	defer ticker.Stop()

	on := false
	for {
		on = !on
		title := tb.title
		if on {
			title = alt
		}
		fyne.Do(func() {
			// Clear may have won the race; it restores the title itself.
			select {
			case <-stop:
			default:
				tb.window.SetTitle(title)
			}
		})

		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// Notifier sends a system notification when the alarm rings while the app
// is in the background.
type Notifier struct {
	app        fyne.App
	log        *zap.SugaredLogger
	foreground atomic.Bool
}

// NewNotifier creates a notifier for app.
func NewNotifier(app fyne.App, log *zap.SugaredLogger) *Notifier {
	return &Notifier{app: app, log: log}
}

// SetForeground records whether the app has focus. It is driven by the
// Fyne lifecycle hooks.
func (n *Notifier) SetForeground(fg bool) {
	n.foreground.Store(fg)
}

// Raise implements alarm.Alerter.
func (n *Notifier) Raise(a models.Alarm) error {
	if n.foreground.Load() && platform.IsAppActive() {
		return nil
	}
	body := alarm.RingingText(a.Label)
	n.log.Debugw("Sending ring notification", "alarm", a.ID)
	fyne.Do(func() {
		n.app.SendNotification(fyne.NewNotification("Alarm "+a.Time.String(), body))
	})
	return nil
}

// Clear implements alarm.Alerter.
func (n *Notifier) Clear() {}
