package libjitsi

import "github.com/go-logr/logr"

// H is a free-form bag for caller-supplied metadata attached to a
// Conference, matching the teacher library's AppData convention.
type H map[string]interface{}

type config struct {
	Clock   Clock
	Sleep   Sleeper
	Runner  TaskRunner
	Logger  *logr.Logger
	AppData H
}

func defaultConfig() *config {
	logger := NewLogger("Conference")
	return &config{
		Clock:   systemClock{},
		Sleep:   defaultSleeper,
		Runner:  goroutineRunner{},
		Logger:  &logger,
		AppData: H{},
	}
}

// Option configures a Conference at construction time. Options only tune
// collaborators (clock, sleeper, task runner, logger, app data); the
// Volfin-Cohen scoring constants are not runtime-tunable.
type Option func(*config)

// WithClock overrides the monotonic millisecond clock. Intended for tests.
func WithClock(c Clock) Option {
	return func(cfg *config) { cfg.Clock = c }
}

// WithSleeper overrides how the decision worker sleeps between ticks.
// Intended for tests that want to fast-forward through idle timeouts.
func WithSleeper(s Sleeper) Option {
	return func(cfg *config) { cfg.Sleep = s }
}

// WithTaskRunner overrides how the decision worker's background loop is
// spawned, e.g. to route it through a bounded goroutine pool.
func WithTaskRunner(r TaskRunner) Option {
	return func(cfg *config) { cfg.Runner = r }
}

// WithLogger overrides the conference's logger.
func WithLogger(l logr.Logger) Option {
	return func(cfg *config) { cfg.Logger = &l }
}

// WithDebugScopes enables debug-level logging for scopes matching the given
// glob patterns (same syntax as the LIBJITSI_DEBUG environment variable),
// without requiring the process to be restarted with a different
// environment. The patterns apply process-wide, not just to this
// Conference, since the underlying logger registry is shared.
func WithDebugScopes(patterns ...string) Option {
	return func(cfg *config) { EnableDebugScopes(patterns...) }
}

// WithAppData attaches caller-supplied metadata to the conference.
func WithAppData(data H) Option {
	return func(cfg *config) { cfg.AppData = data }
}
