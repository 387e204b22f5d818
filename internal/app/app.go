package app

import (
	"io"
	"log/slog"
	"time"

	"github.com/vk/mkexpr/internal/config"
	"github.com/vk/mkexpr/internal/schema"
)

// App encapsulates the dependencies and state of one generation run.
type App struct {
	outW         io.Writer
	logger       *slog.Logger
	config       *Config
	newValidator func() config.Validator
	clock        func() time.Time
	state        State
}

// Option customises an App.
type Option func(*App)

// WithValidator replaces the default schema validator. v is shared by every
// Run of the App.
func WithValidator(v config.Validator) Option {
	return func(a *App) { a.newValidator = func() config.Validator { return v } }
}

// WithClock sets the time source used for the copyright year.
func WithClock(clock func() time.Time) Option {
	return func(a *App) { a.clock = clock }
}

// NewApp is the constructor for the generator. outW receives the rendered
// output in dry-run mode; logW receives log records.
func NewApp(outW, logW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)

	newValidator := func() config.Validator { return schema.NewTheoryValidator() }
	if cfg.NoValidate {
		newValidator = func() config.Validator { return schema.NopValidator{} }
	}

	a := &App{
		outW:         outW,
		logger:       logger,
		config:       cfg,
		newValidator: newValidator,
		clock:        time.Now,
		state:        StateInit,
	}
	for _, opt := range opts {
		opt(a)
	}
	logger.Debug("App configured.", "kinds", len(cfg.KindsPaths), "template", cfg.TemplatePath, "output", cfg.OutputPath)
	return a
}

// State returns the pipeline state reached by the last Run.
func (a *App) State() State {
	return a.state
}

func (a *App) transition(s State, args ...any) {
	a.state = s
	a.logger.Debug("Pipeline state changed.", append([]any{"state", s.String()}, args...)...)
}
