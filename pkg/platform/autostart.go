package platform

import (
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
	"go.uber.org/zap"
)

// autostartApp describes this executable for the login-items registry.
func autostartApp() (*autostart.App, error) {
	// Get the executable path
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	// Resolve symlinks if any
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	return &autostart.App{
		Name:        "alarm-clock",
		DisplayName: "Alarm Clock",
		Exec:        []string{execPath, "--background"},
	}, nil
}

// SetupAutostart registers or removes the clock as a login item. Launched
// at login, it starts in the background so the alarm survives reboots.
func SetupAutostart(enable bool, log *zap.SugaredLogger) error {
	app, err := autostartApp()
	if err != nil {
		return err
	}
	return toggleAutostart(app, enable, log)
}

// autostarter is the part of *autostart.App used here.
type autostarter interface {
	IsEnabled() bool
	Enable() error
	Disable() error
}

func toggleAutostart(app autostarter, enable bool, log *zap.SugaredLogger) error {
	if enable == app.IsEnabled() {
		return nil
	}
	if enable {
		if err := app.Enable(); err != nil {
			log.Warnw("Failed to enable autostart", "error", err)
			return err
		}
		log.Infow("Autostart enabled")
		return nil
	}
	if err := app.Disable(); err != nil {
		log.Warnw("Failed to disable autostart", "error", err)
		return err
	}
	log.Infow("Autostart disabled")
	return nil
}
