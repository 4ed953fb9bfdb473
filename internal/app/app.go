// Package app wires the session engine to storage, playback and desktop
// services. Every host (tray, terminal UI) runs on top of an App.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"pomodo/internal/config"
	"pomodo/internal/core/model"
	"pomodo/internal/core/session"
	"pomodo/internal/notify"
	"pomodo/internal/platform"
	"pomodo/internal/playback"
	"pomodo/internal/playback/ducking"
	"pomodo/internal/sound"
	"pomodo/internal/storage"
)

// Options configures Open. Zero values select the production defaults.
type Options struct {
	Config       *config.Config
	Logger       hclog.Logger
	SettingsPath string
	StatsPath    string
	TickInterval time.Duration
	Now          func() time.Time

	// Controller overrides the backend chosen by Config.Playback.
	Controller playback.Controller
	Notifier   notify.Notifier
	Sound      sound.Player
	Autostart  platform.Autostart
}

const (
	// dayCheckInterval bounds how long the daily counter can lag midnight
	// while no work session completes.
	dayCheckInterval = time.Minute
	// nowPlayingInterval is how often the player is asked for its track.
	nowPlayingInterval = 5 * time.Second
	nowPlayingTimeout  = 3 * time.Second
)

// App owns the long-lived services of one running pomodo instance.
type App struct {
	config       *config.Config
	logger       hclog.Logger
	settingsPath string
	now          func() time.Time

	stats       *storage.Stats
	runner      *session.Runner
	effects     *Effects
	coordinator *ducking.Coordinator
	controller  playback.Controller
	autostart   platform.Autostart
	events      <-chan session.Event

	mu         sync.Mutex
	settings   model.Settings
	day        string
	nowPlaying string
}

// Open loads settings and statistics and builds the runner. Playback
// backends that fail to start are logged and ducking is disabled.
func Open(ctx context.Context, options Options) (*App, error) {
	cfg := options.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := options.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	now := options.Now
	if now == nil {
		now = time.Now
	}

	settingsPath := options.SettingsPath
	if settingsPath == "" {
		path, err := storage.SettingsPath(config.AppName)
		if err != nil {
			return nil, err
		}
		settingsPath = path
	}
	settings, err := storage.LoadSettings(settingsPath)
	if err != nil {
		logger.Warn("settings unreadable, using defaults", "path", settingsPath, "error", err)
	}
	settings = settings.Clamp()

	statsPath := options.StatsPath
	if statsPath == "" {
		path, err := storage.StatsPath(config.AppName)
		if err != nil {
			return nil, err
		}
		statsPath = path
	}
	stats, err := storage.OpenStats(statsPath)
	if err != nil {
		return nil, err
	}

	today, err := stats.Today(now())
	if err != nil {
		stats.Close()
		return nil, err
	}

	engine, err := session.New(settings.SessionConfig(),
		session.WithClock(now),
		session.WithCompletedWork(today.CompletedPomodoros))
	if err != nil {
		stats.Close()
		return nil, fmt.Errorf("create session engine: %w", err)
	}
	runner := session.NewRunner(engine, session.RunnerConfig{TickInterval: options.TickInterval})

	controller := options.Controller
	if controller == nil {
		controller, err = NewController(ctx, cfg, logger)
		if err != nil {
			logger.Warn("music ducking disabled", "error", err)
			controller = nil
		}
	}
	var coordinator *ducking.Coordinator
	var ducker MusicDucker
	if controller != nil {
		fader := ducking.New(
			ducking.WithLogger(logger.Named("ducking")),
			ducking.WithDefaultVolume(settings.Ducking.ResumeVolume))
		coordinator = ducking.NewCoordinator(fader, controller, logger.Named("ducking"))
		ducker = coordinator
	}

	notifier := options.Notifier
	if notifier == nil {
		notifier = notify.New()
	}
	player := options.Sound
	if player == nil {
		player = sound.NewSpeaker(logger.Named("sound"))
	}
	autostart := options.Autostart
	if autostart == nil {
		autostart = platform.NewAutostart(config.AppName)
	}

	effects := NewEffects(EffectsConfig{
		Stats:    stats,
		Notifier: notifier,
		Sound:    player,
		Ducker:   ducker,
		Logger:   logger.Named("effects"),
	}, settings)

	app := &App{
		config:       cfg,
		logger:       logger,
		settingsPath: settingsPath,
		now:          now,
		stats:        stats,
		runner:       runner,
		effects:      effects,
		coordinator:  coordinator,
		controller:   controller,
		autostart:    autostart,
		events:       runner.Subscribe(64),
		settings:     settings,
		day:          today.Date,
	}
	effects.OnDailyStats = app.applyDailyStats
	return app, nil
}

// Run drives the countdown, the effects, the midnight rollover and the
// now playing poll until ctx is done.
func (app *App) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		app.effects.Run(ctx, app.events)
	}()
	go func() {
		defer wg.Done()
		app.watch(ctx)
	}()
	app.runner.Run(ctx)
	wg.Wait()
}

func (app *App) watch(ctx context.Context) {
	dayTicker := time.NewTicker(dayCheckInterval)
	defer dayTicker.Stop()

	var poll <-chan time.Time
	if app.controller != nil {
		pollTicker := time.NewTicker(nowPlayingInterval)
		defer pollTicker.Stop()
		poll = pollTicker.C
		app.refreshNowPlaying(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-dayTicker.C:
			if err := app.RollOver(); err != nil {
				app.logger.Warn("reloading daily stats failed", "error", err)
			}
		case <-poll:
			app.refreshNowPlaying(ctx)
		}
	}
}

// RollOver reloads the completed pomodoro counter when the calendar day
// has changed since it was last loaded, so "today" restarts at zero.
func (app *App) RollOver() error {
	now := app.now()
	app.mu.Lock()
	current := app.day == storage.DateKey(now)
	app.mu.Unlock()
	if current {
		return nil
	}

	today, err := app.stats.Today(now)
	if err != nil {
		return err
	}
	app.logger.Info("new day", "date", today.Date, "count", today.CompletedPomodoros)
	app.applyDailyStats(today)
	return nil
}

func (app *App) applyDailyStats(day storage.DailyStats) {
	app.mu.Lock()
	app.day = day.Date
	app.mu.Unlock()
	app.runner.SetCompletedWork(day.CompletedPomodoros)
}

func (app *App) refreshNowPlaying(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, nowPlayingTimeout)
	defer cancel()

	var text string
	state, err := app.controller.State(ctx)
	if err != nil {
		app.logger.Trace("player state unavailable", "error", err)
	} else {
		text = state.NowPlaying()
	}

	app.mu.Lock()
	app.nowPlaying = text
	app.mu.Unlock()
}

// NowPlaying returns the track last reported by the music player, or "".
func (app *App) NowPlaying() string {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.nowPlaying
}

// Close stops any fade in flight and closes the database.
func (app *App) Close() error {
	if app.coordinator != nil {
		app.coordinator.Close()
	}
	return app.stats.Close()
}

// Runner returns the thread-safe engine handle.
func (app *App) Runner() *session.Runner {
	return app.runner
}

// Logger returns the root logger.
func (app *App) Logger() hclog.Logger {
	return app.logger
}

// Settings returns the current user settings.
func (app *App) Settings() model.Settings {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.settings
}

// UpdateSettings clamps, persists and applies new settings.
func (app *App) UpdateSettings(settings model.Settings) error {
	settings = settings.Clamp()

	app.mu.Lock()
	previous := app.settings
	app.settings = settings
	app.mu.Unlock()

	var errs []error
	if err := storage.SaveSettings(app.settingsPath, settings); err != nil {
		errs = append(errs, err)
	}
	if err := app.runner.Configure(settings.SessionConfig()); err != nil {
		errs = append(errs, err)
	}
	app.effects.SetSettings(settings)

	if settings.LaunchAtLogin != previous.LaunchAtLogin {
		if err := platform.SyncAutostart(app.autostart, settings.LaunchAtLogin); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Today returns today's statistics.
func (app *App) Today() (storage.DailyStats, error) {
	return app.stats.Today(app.now())
}
