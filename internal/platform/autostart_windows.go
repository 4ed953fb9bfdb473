//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

// registryAutostart manages a value under the per-user Run key.
type registryAutostart struct {
	appName string
}

func newAutostart(appName string) Autostart {
	return &registryAutostart{appName: appName}
}

func (autostart *registryAutostart) Enable(execPath string, args ...string) error {
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}
	command := quoteWindowsPath(execPath)
	if len(args) > 0 {
		command += " " + strings.Join(args, " ")
	}
	output, err := exec.Command("reg", "add", registryRunKey,
		"/v", autostart.appName, "/t", "REG_SZ", "/d", command, "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("enable autostart: reg add failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (autostart *registryAutostart) Disable() error {
	enabled, err := autostart.Enabled()
	if err != nil || !enabled {
		return err
	}
	output, err := exec.Command("reg", "delete", registryRunKey, "/v", autostart.appName, "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("disable autostart: reg delete failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (autostart *registryAutostart) Enabled() (bool, error) {
	err := exec.Command("reg", "query", registryRunKey, "/v", autostart.appName).Run()
	if err == nil {
		return true, nil
	}
	if _, ok := err.(*exec.ExitError); ok {
		return false, nil
	}
	return false, fmt.Errorf("query autostart: %w", err)
}

func quoteWindowsPath(execPath string) string {
	trimmed := strings.Trim(execPath, `"`)
	return fmt.Sprintf(`"%s"`, trimmed)
}
