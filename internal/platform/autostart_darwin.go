//go:build darwin

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// launchAgent writes a per-user LaunchAgent plist.
type launchAgent struct {
	appName string
}

func newAutostart(appName string) Autostart {
	return &launchAgent{appName: appName}
}

func (agent *launchAgent) label() string {
	return "io.pomodo." + slugName(agent.appName)
}

func (agent *launchAgent) path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, "Library", "LaunchAgents", agent.label()+".plist"), nil
}

func (agent *launchAgent) Enable(execPath string, args ...string) error {
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}
	plistPath, err := agent.path()
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(plistPath), 0o755); err != nil {
		return fmt.Errorf("enable autostart: create LaunchAgents dir: %w", err)
	}
	content := buildLaunchAgentPlist(agent.label(), append([]string{execPath}, args...))
	if err := os.WriteFile(plistPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write plist: %w", err)
	}
	return nil
}

func (agent *launchAgent) Disable() error {
	plistPath, err := agent.path()
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := os.Remove(plistPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("disable autostart: remove plist: %w", err)
	}
	return nil
}

func (agent *launchAgent) Enabled() (bool, error) {
	plistPath, err := agent.path()
	if err != nil {
		return false, err
	}
	return fileExists(plistPath)
}

func buildLaunchAgentPlist(label string, program []string) string {
	var arguments strings.Builder
	for _, argument := range program {
		arguments.WriteString("\t\t<string>" + xmlEscape(argument) + "</string>\n")
	}

	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
%s	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`,
		xmlEscape(label),
		arguments.String(),
	)
}

func xmlEscape(value string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(value)
}
