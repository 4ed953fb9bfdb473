// Package resources provides the tray and window icons. They are drawn as
// SVG so no binary assets ship with the module.
package resources

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
)

// IconKind selects the tray icon variant.
type IconKind string

const (
	IconWork   IconKind = "work"
	IconBreak  IconKind = "break"
	IconPaused IconKind = "paused"
)

var iconColors = map[IconKind]string{
	IconWork:   "#E2553F",
	IconBreak:  "#6DBB6D",
	IconPaused: "#9A9A9A",
}

var iconCache sync.Map

const iconTemplate = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64">
<circle cx="32" cy="36" r="24" fill="%s"/>
<path d="M32 12 C28 4 22 6 20 8 M32 12 C36 4 42 6 44 8" stroke="#3C8A3C" stroke-width="4" fill="none" stroke-linecap="round"/>
<path d="M32 22 V36 L42 42" stroke="#FFFFFF" stroke-width="4" fill="none" stroke-linecap="round"/>
</svg>`

// Icon returns the tray icon for kind. Unknown kinds get the paused icon.
func Icon(kind IconKind) fyne.Resource {
	if _, ok := iconColors[kind]; !ok {
		kind = IconPaused
	}
	name := "pomodo-" + string(kind) + ".svg"
	if cached, ok := iconCache.Load(name); ok {
		return cached.(fyne.Resource)
	}

	resource := fyne.NewStaticResource(name, []byte(fmt.Sprintf(iconTemplate, iconColors[kind])))
	cached, _ := iconCache.LoadOrStore(name, resource)
	return cached.(fyne.Resource)
}

// AppIcon returns the application icon.
func AppIcon() fyne.Resource {
	return Icon(IconWork)
}
