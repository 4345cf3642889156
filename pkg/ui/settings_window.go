package ui

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/alarm-clock/pkg/models"
	"go.uber.org/zap"
)

const savedMessage = "Settings saved successfully"

var (
	snoozeOptions     = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 15, 20, 30}
	autoSnoozeOptions = []int{15, 30, 45, 60, 90, 120, 180, 300}
)

// SettingsHooks are the callbacks the settings window drives.
type SettingsHooks struct {
	// Save applies and persists new settings. It runs off the UI thread.
	Save func(models.Settings) error
	// Export writes the current alarm as iCalendar.
	Export func(w io.Writer) error
	// Import replaces the alarm with the one found in an iCalendar file.
	Import func(data []byte) error
}

// SettingsWindow edits the snooze timings, autostart and the sounds
// directory, and moves the alarm to and from calendar files.
type SettingsWindow struct {
	window   fyne.Window
	app      fyne.App
	settings models.Settings
	hooks    SettingsHooks
	log      *zap.SugaredLogger

	// run executes the save off the UI thread.
	run func(func())

	snoozeSelect     *widget.Select
	autoSnoozeSelect *widget.Select
	autoStartCheck   *widget.Check
	soundsDirEntry   *widget.Entry

	hasUnsavedChanges bool
	saveStatusLabel   *widget.Label
	saveButton        *widget.Button
	calendarStatus    *widget.Label
}

func NewSettingsWindow(app fyne.App, settings models.Settings, hooks SettingsHooks, log *zap.SugaredLogger) *SettingsWindow {
	sw := &SettingsWindow{
		app:      app,
		settings: settings,
		hooks:    hooks,
		log:      log,
		run:      func(f func()) { go f() },
	}

	sw.window = app.NewWindow("Alarm Clock - Settings")
	sw.buildUI()

	return sw
}

func (sw *SettingsWindow) buildUI() {
	tabs := container.NewAppTabs(
		container.NewTabItem("General", sw.buildGeneralTab()),
		container.NewTabItem("Alarm", sw.buildAlarmTab()),
		container.NewTabItem("Calendar", sw.buildCalendarTab()),
	)
	// Populating the form fires the change callbacks.
	sw.hasUnsavedChanges = false

	sw.saveStatusLabel = widget.NewLabel("")
	sw.saveStatusLabel.Importance = widget.SuccessImportance

	sw.saveButton = widget.NewButton("Save", sw.save)
	sw.saveButton.Importance = widget.HighImportance
	sw.saveButton.Disable()

	closeButton := widget.NewButton("Close", func() {
		sw.handleClose()
	})

	buttonRow := container.NewBorder(
		nil,
		nil,
		container.NewHBox(sw.saveButton, sw.saveStatusLabel),
		closeButton,
		container.NewHBox(),
	)

	content := container.NewBorder(
		nil,
		container.NewPadded(buttonRow),
		nil,
		nil,
		tabs,
	)

	sw.window.SetContent(content)
	sw.window.Resize(fyne.NewSize(640, 420))
	sw.window.CenterOnScreen()

	sw.window.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		if key.Name == fyne.KeyEscape {
			sw.handleClose()
		}
	})
	sw.window.SetCloseIntercept(func() {
		sw.handleClose()
	})
}

func (sw *SettingsWindow) buildGeneralTab() fyne.CanvasObject {
	sw.autoStartCheck = widget.NewCheck("Start on login", func(bool) {
		sw.markChanged()
	})
	sw.autoStartCheck.SetChecked(sw.settings.AutoStart)

	sw.soundsDirEntry = widget.NewEntry()
	sw.soundsDirEntry.SetText(sw.settings.SoundsDir)
	sw.soundsDirEntry.OnChanged = func(string) {
		sw.markChanged()
	}

	storageURIEntry := widget.NewEntry()
	storageURIEntry.SetText(sw.app.Storage().RootURI().String())
	storageURIEntry.Disable()

	openStorageButton := widget.NewButton("Open in File Manager", func() {
		sw.openFileManager(sw.app.Storage().RootURI().Path())
	})

	autoStartLabel := widget.NewLabel("Auto Start:")
	autoStartHelp := widget.NewLabel("Launch in the background at login so the alarm survives reboots")
	autoStartHelp.Wrapping = fyne.TextWrapWord
	autoStartHelp.Importance = widget.MediumImportance

	soundsLabel := widget.NewLabel("Sounds Folder:")
	soundsHelp := widget.NewLabel("WAV files for the sample sounds. Takes effect after restart")
	soundsHelp.Wrapping = fyne.TextWrapWord
	soundsHelp.Importance = widget.MediumImportance

	storageLabel := widget.NewLabel("Storage Location:")
	storageHelp := widget.NewLabel("The alarm and settings are stored here")
	storageHelp.Wrapping = fyne.TextWrapWord
	storageHelp.Importance = widget.MediumImportance

	form := container.New(layout.NewFormLayout(),
		container.NewVBox(autoStartLabel, autoStartHelp),
		sw.autoStartCheck,

		container.NewVBox(soundsLabel, soundsHelp),
		sw.soundsDirEntry,

		container.NewVBox(storageLabel, storageHelp),
		container.NewBorder(nil, container.NewPadded(openStorageButton), nil, nil, storageURIEntry),
	)

	content := container.NewVBox(
		widget.NewLabel("General Settings"),
		widget.NewSeparator(),
		form,
	)

	return container.NewPadded(container.NewVScroll(content))
}

func (sw *SettingsWindow) buildAlarmTab() fyne.CanvasObject {
	sw.snoozeSelect = widget.NewSelect(unitOptions(snoozeOptions, "min"), func(string) {
		sw.markChanged()
	})
	sw.snoozeSelect.SetSelected(strconv.Itoa(sw.settings.SnoozeMinutes) + " min")

	sw.autoSnoozeSelect = widget.NewSelect(unitOptions(autoSnoozeOptions, "sec"), func(string) {
		sw.markChanged()
	})
	sw.autoSnoozeSelect.SetSelected(strconv.Itoa(sw.settings.AutoSnoozeSeconds) + " sec")

	snoozeLabel := widget.NewLabel("Snooze Duration:")
	snoozeHelp := widget.NewLabel("How long Snooze silences the alarm")
	snoozeHelp.Importance = widget.MediumImportance

	autoLabel := widget.NewLabel("Auto Snooze:")
	autoHelp := widget.NewLabel("An unattended alarm snoozes itself after this long")
	autoHelp.Wrapping = fyne.TextWrapWord
	autoHelp.Importance = widget.MediumImportance

	form := container.New(layout.NewFormLayout(),
		container.NewVBox(snoozeLabel, snoozeHelp),
		container.NewVBox(sw.snoozeSelect),

		container.NewVBox(autoLabel, autoHelp),
		container.NewVBox(sw.autoSnoozeSelect),
	)

	content := container.NewVBox(
		widget.NewLabel("Alarm Settings"),
		widget.NewSeparator(),
		form,
	)

	return container.NewPadded(container.NewVScroll(content))
}

func (sw *SettingsWindow) buildCalendarTab() fyne.CanvasObject {
	sw.calendarStatus = widget.NewLabel("")
	sw.calendarStatus.Wrapping = fyne.TextWrapWord

	exportButton := widget.NewButton("Export to .ics", func() {
		d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
			if err != nil || w == nil {
				return
			}
			defer w.Close()
			sw.showCalendarResult("Alarm exported to "+w.URI().Name(), sw.exportTo(w))
		}, sw.window)
		d.SetFileName("alarm.ics")
		d.SetFilter(storage.NewExtensionFileFilter([]string{".ics"}))
		d.Show()
	})

	importButton := widget.NewButton("Import from .ics", func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err != nil || r == nil {
				return
			}
			defer r.Close()
			data, err := io.ReadAll(r)
			if err == nil {
				err = sw.importFrom(data)
			}
			sw.showCalendarResult("Alarm imported from "+r.URI().Name(), err)
		}, sw.window)
		d.SetFilter(storage.NewExtensionFileFilter([]string{".ics"}))
		d.Show()
	})

	help := widget.NewLabel("The alarm is exchanged as a daily recurring event with an audio reminder")
	help.Wrapping = fyne.TextWrapWord
	help.Importance = widget.MediumImportance

	content := container.NewVBox(
		widget.NewLabel("Calendar"),
		widget.NewSeparator(),
		help,
		container.NewHBox(exportButton, importButton),
		sw.calendarStatus,
	)

	return container.NewPadded(container.NewVScroll(content))
}

func (sw *SettingsWindow) exportTo(w io.Writer) error {
	if sw.hooks.Export == nil {
		return fmt.Errorf("export not available")
	}
	var buf bytes.Buffer
	if err := sw.hooks.Export(&buf); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (sw *SettingsWindow) importFrom(data []byte) error {
	if sw.hooks.Import == nil {
		return fmt.Errorf("import not available")
	}
	return sw.hooks.Import(data)
}

func (sw *SettingsWindow) showCalendarResult(success string, err error) {
	if err != nil {
		sw.log.Warnw("Calendar transfer failed", "error", err)
		sw.calendarStatus.Importance = widget.DangerImportance
		sw.calendarStatus.SetText("Error: " + err.Error())
		return
	}
	sw.calendarStatus.Importance = widget.SuccessImportance
	sw.calendarStatus.SetText(success)
}

func (sw *SettingsWindow) save() {
	sw.saveButton.Disable()
	sw.setSaveStatus("Saving...", widget.MediumImportance)

	newSettings := sw.getSettingsFromUI()
	sw.run(func() {
		var err error
		if sw.hooks.Save != nil {
			err = sw.hooks.Save(newSettings)
		}
		fyne.Do(func() {
			if err != nil {
				sw.log.Warnw("Failed to save settings", "error", err)
				sw.setSaveStatus("Error: "+err.Error(), widget.DangerImportance)
				sw.updateSaveButtonState()
				return
			}
			sw.settings = newSettings
			sw.hasUnsavedChanges = false
			sw.setSaveStatus(savedMessage, widget.SuccessImportance)
			sw.updateSaveButtonState()
			sw.clearSavedMessageLater()
		})
	})
}

func (sw *SettingsWindow) clearSavedMessageLater() {
	time.AfterFunc(3*time.Second, func() {
		fyne.Do(func() {
			if sw.saveStatusLabel.Text == savedMessage {
				sw.saveStatusLabel.SetText("")
			}
		})
	})
}

func (sw *SettingsWindow) setSaveStatus(text string, importance widget.Importance) {
	sw.saveStatusLabel.Importance = importance
	sw.saveStatusLabel.SetText(text)
}

func (sw *SettingsWindow) getSettingsFromUI() models.Settings {
	s := sw.settings
	s.AutoStart = sw.autoStartCheck.Checked
	s.SoundsDir = sw.soundsDirEntry.Text
	if v, ok := parseUnit(sw.snoozeSelect.Selected, "min"); ok {
		s.SnoozeMinutes = v
	}
	if v, ok := parseUnit(sw.autoSnoozeSelect.Selected, "sec"); ok {
		s.AutoSnoozeSeconds = v
	}
	return s
}

// Window returns the underlying Fyne window.
func (sw *SettingsWindow) Window() fyne.Window {
	return sw.window
}

func (sw *SettingsWindow) Show() {
	sw.window.Show()
	sw.window.RequestFocus()
}

func (sw *SettingsWindow) markChanged() {
	sw.hasUnsavedChanges = true
	sw.updateSaveButtonState()
}

func (sw *SettingsWindow) updateSaveButtonState() {
	if sw.saveButton == nil {
		return
	}
	if sw.hasUnsavedChanges {
		sw.saveButton.Enable()
	} else {
		sw.saveButton.Disable()
	}
}

// handleClose asks for confirmation when the form differs from the saved
// settings.
func (sw *SettingsWindow) handleClose() {
	if sw.hasActualChanges() {
		dialog.ShowConfirm("Unsaved Changes",
			"You have unsaved changes. Are you sure you want to close?",
			func(confirmed bool) {
				if confirmed {
					sw.window.Close()
				}
			}, sw.window)
		return
	}
	sw.window.Close()
}

func (sw *SettingsWindow) hasActualChanges() bool {
	return sw.getSettingsFromUI() != sw.settings
}

func (sw *SettingsWindow) openFileManager(path string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		sw.log.Warnw("Unsupported OS", "os", runtime.GOOS)
		return
	}
	if err := cmd.Start(); err != nil {
		sw.log.Warnw("Error opening file manager", "error", err)
	}
}

func unitOptions(values []int, unit string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strconv.Itoa(v)+" "+unit)
	}
	return out
}

// parseUnit reads "5 min" back into 5.
func parseUnit(selected, unit string) (int, bool) {
	var v int
	if _, err := fmt.Sscanf(selected, "%d "+unit, &v); err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
