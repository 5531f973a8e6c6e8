//go:build !darwin

package platform

// SetActivationPolicy is a no-op off macOS.
func SetActivationPolicy() {}

// IsAppActive always reports focused off macOS, so the firing window's
// refocus loop stays quiet.
func IsAppActive() bool { return true }

// ActivateApp is a no-op off macOS.
func ActivateApp() {}
