//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// desktopAutostart writes an XDG autostart desktop entry.
type desktopAutostart struct {
	appName string
	dir     string
}

func newAutostart(appName string) Autostart {
	return &desktopAutostart{appName: appName, dir: filepath.Join(xdg.ConfigHome, "autostart")}
}

func (autostart *desktopAutostart) path() string {
	return filepath.Join(autostart.dir, slugName(autostart.appName)+".desktop")
}

func (autostart *desktopAutostart) Enable(execPath string, args ...string) error {
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}
	if err := os.MkdirAll(autostart.dir, 0o755); err != nil {
		return fmt.Errorf("enable autostart: create autostart dir: %w", err)
	}
	entry := buildDesktopEntry(autostart.appName, execPath, args)
	if err := os.WriteFile(autostart.path(), []byte(entry), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write desktop entry: %w", err)
	}
	return nil
}

func (autostart *desktopAutostart) Disable() error {
	if err := os.Remove(autostart.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("disable autostart: remove desktop entry: %w", err)
	}
	return nil
}

func (autostart *desktopAutostart) Enabled() (bool, error) {
	return fileExists(autostart.path())
}

func buildDesktopEntry(appName, execPath string, args []string) string {
	fields := make([]string, 0, len(args)+1)
	for _, field := range append([]string{execPath}, args...) {
		if strings.ContainsAny(field, " \t\"") {
			field = `"` + strings.ReplaceAll(field, `"`, `\"`) + `"`
		}
		fields = append(fields, field)
	}

	return fmt.Sprintf(
		`[Desktop Entry]
Type=Application
Name=%s
Comment=Pomodoro timer
Exec=%s
X-GNOME-Autostart-enabled=true
Terminal=false
`,
		appName,
		strings.Join(fields, " "),
	)
}
