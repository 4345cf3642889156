//go:build !darwin

package platform

// IsAppActive always returns true on non-macOS platforms; callers track
// focus through the Fyne lifecycle instead.
func IsAppActive() bool {
	return true
}

// ActivateApp is a no-op on non-macOS platforms
func ActivateApp() {}

// RequestAttention is a no-op on non-macOS platforms
func RequestAttention() {}

// SetBackground is a no-op on non-macOS platforms
func SetBackground(bool) {}
