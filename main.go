package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const appID = "com.borgmon.alarmclock"

var (
	// Global flags
	verbose    bool
	configPath string
	soundsDir  string
	background bool

	logger *zap.Logger
)

// rootCmd launches the clock window
var rootCmd = &cobra.Command{
	Use:   "alarm-clock",
	Short: "Desktop alarm clock with a daily alarm, snooze and sound preview",
	Long: `alarm-clock shows a live clock and rings one daily alarm.

Run without arguments to open the clock. The alarm keeps ringing until it is
stopped or snoozed; an unattended alarm snoozes itself.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := NewAlarmClock(logger.Sugar())
		if err != nil {
			return err
		}
		ac.Run()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML settings override file (or set ALARM_CLOCK_CONFIG)")
	rootCmd.Flags().StringVar(&soundsDir, "sounds-dir", "", "Directory holding the alarm WAV files")
	rootCmd.Flags().BoolVar(&background, "background", false, "Start hidden in the system tray")

	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(icsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
