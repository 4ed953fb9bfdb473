package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Autostart registers the application to launch at login.
type Autostart interface {
	Enable(execPath string, args ...string) error
	Disable() error
	Enabled() (bool, error)
}

// NewAutostart returns the login-item manager for this platform.
func NewAutostart(appName string) Autostart {
	return newAutostart(appName)
}

// SyncAutostart enables or disables the login item for the current binary.
func SyncAutostart(autostart Autostart, enabled bool, args ...string) error {
	if !enabled {
		return autostart.Disable()
	}
	execPath, err := ExecutablePath()
	if err != nil {
		return err
	}
	return autostart.Enable(execPath, args...)
}

// ExecutablePath returns the resolved path of the running binary.
func ExecutablePath() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = resolved
	}
	return execPath, nil
}

func slugName(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		name = "pomodo"
	}
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
