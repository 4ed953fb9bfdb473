package overlay

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pomodo/internal/core/session"
	"pomodo/internal/ui/animation"
)

// Config defines overlay visuals.
type Config struct {
	Opacity    uint8
	Fullscreen bool
	Message    string
}

// DefaultConfig returns a dark centered panel.
func DefaultConfig() Config {
	return Config{
		Opacity: 230,
		Message: "Step away from the screen",
	}
}

// Window manages the break overlay UI.
type Window struct {
	window        fyne.Window
	config        Config
	timerLabel    *canvas.Text
	skipButton    *widget.Button
	titleLabel    *canvas.Text
	subtitleLabel *canvas.Text
	captionLabel  *canvas.Text
	background    *canvas.Rectangle
	engine        *animation.Engine
	cancelCtx     context.CancelFunc
	onSkip        func()
	visible       bool
}

const (
	overlayWidthFraction  = float32(0.22)
	overlayHeightFraction = float32(0.24)
	defaultScreenWidth    = float32(1920)
	defaultScreenHeight   = float32(1080)

	captionMinSize = float32(18)
	captionGrow    = float32(10)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates a new overlay window. Attach an animation engine with
// SetEngine to drive the breathing caption.
func New(app fyne.App, config Config) *Window {
	var window fyne.Window
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	} else {
		window = app.NewWindow("pomodo")
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	background := canvas.NewRectangle(color.NRGBA{A: config.Opacity})

	titleLabel := canvas.NewText("Break", white)
	titleLabel.Alignment = fyne.TextAlignCenter
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 24

	subtitleLabel := canvas.NewText(config.Message, white)
	subtitleLabel.Alignment = fyne.TextAlignCenter
	subtitleLabel.TextSize = 14

	captionLabel := canvas.NewText("", color.NRGBA{R: 170, G: 220, B: 200, A: 255})
	captionLabel.Alignment = fyne.TextAlignCenter
	captionLabel.TextSize = captionMinSize

	timerLabel := canvas.NewText("--:--", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 32

	overlay := &Window{
		window:        window,
		config:        config,
		timerLabel:    timerLabel,
		titleLabel:    titleLabel,
		subtitleLabel: subtitleLabel,
		captionLabel:  captionLabel,
		background:    background,
	}
	overlay.skipButton = widget.NewButton("Skip break", func() {
		if overlay.onSkip != nil {
			overlay.onSkip()
		}
	})

	content := container.NewVBox(
		titleLabel,
		subtitleLabel,
		container.NewCenter(captionLabel),
		timerLabel,
		container.NewCenter(overlay.skipButton),
	)
	window.SetContent(container.NewStack(background, container.NewPadded(content)))
	window.SetCloseIntercept(func() {
		overlay.Hide()
	})

	overlay.applyWindowMode()
	return overlay
}

// SetEngine attaches the animation engine.
func (overlay *Window) SetEngine(engine *animation.Engine) {
	overlay.engine = engine
}

// Show opens the overlay for a break. Call it on the fyne thread.
func (overlay *Window) Show(phase session.Phase, remaining time.Duration) {
	overlay.stopEngine()

	overlay.titleLabel.Text = Title(phase)
	overlay.titleLabel.Refresh()
	overlay.setRemainingUnsafe(remaining)
	overlay.applyWindowMode()
	overlay.window.Show()
	overlay.window.RequestFocus()
	overlay.visible = true

	if overlay.engine != nil {
		ctx, cancel := context.WithCancel(context.Background())
		overlay.cancelCtx = cancel
		overlay.engine.Start(ctx)
	}
}

// Hide closes the overlay and stops animations.
func (overlay *Window) Hide() {
	overlay.stopEngine()
	if overlay.config.Fullscreen {
		overlay.window.SetFullScreen(false)
	}
	overlay.window.Hide()
	overlay.visible = false
}

// Visible reports whether the overlay is shown.
func (overlay *Window) Visible() bool {
	return overlay.visible
}

// SetRemaining updates the timer label. Call it on the fyne thread.
func (overlay *Window) SetRemaining(remaining time.Duration) {
	overlay.setRemainingUnsafe(remaining)
}

// SetStep shows a breathing step. It is safe to call from any goroutine.
func (overlay *Window) SetStep(step animation.Step) {
	fyne.Do(func() {
		overlay.captionLabel.Text = step.Caption
		overlay.captionLabel.TextSize = captionMinSize + captionGrow*step.Scale
		overlay.captionLabel.Refresh()
	})
}

// SetOnSkip sets skip handler.
func (overlay *Window) SetOnSkip(handler func()) {
	overlay.onSkip = handler
}

// UpdateConfig updates overlay visuals.
func (overlay *Window) UpdateConfig(config Config) {
	overlay.config = config
	overlay.background.FillColor = color.NRGBA{A: config.Opacity}
	overlay.subtitleLabel.Text = config.Message
	overlay.applyWindowMode()
	canvas.Refresh(overlay.background)
	overlay.subtitleLabel.Refresh()
}

func (overlay *Window) setRemainingUnsafe(remaining time.Duration) {
	overlay.timerLabel.Text = formatDuration(remaining)
	overlay.timerLabel.Refresh()
}

func (overlay *Window) stopEngine() {
	if overlay.cancelCtx != nil {
		overlay.cancelCtx()
		overlay.cancelCtx = nil
	}
	if overlay.engine != nil {
		overlay.engine.Stop()
	}
}

func (overlay *Window) applyWindowMode() {
	if overlay.config.Fullscreen {
		overlay.window.SetFullScreen(true)
		return
	}
	overlay.window.SetFullScreen(false)
	overlay.resizeToScreenFraction()
}

func (overlay *Window) resizeToScreenFraction() {
	screenSize := fyne.NewSize(defaultScreenWidth, defaultScreenHeight)
	canvasSize := overlay.window.Canvas().Size()
	// Canvas size can be reused as a proxy for monitor size when it is clearly screen-like.
	if canvasSize.Width >= 1024 && canvasSize.Height >= 720 {
		screenSize = canvasSize
	}

	size := PanelSize(screenSize, overlay.window.Content().MinSize())
	overlay.window.Resize(size)
	overlay.window.CenterOnScreen()
}

// PanelSize returns the windowed overlay size for a screen, never smaller
// than the content.
func PanelSize(screen, content fyne.Size) fyne.Size {
	width := max(screen.Width*overlayWidthFraction, content.Width)
	height := max(screen.Height*overlayHeightFraction, content.Height)
	return fyne.NewSize(width, height)
}

// Title names the break shown in the overlay.
func Title(phase session.Phase) string {
	switch phase {
	case session.PhaseLongBreak:
		return "Long break"
	case session.PhaseShortBreak:
		return "Short break"
	}
	return phase.Label()
}

func formatDuration(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int(value.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
