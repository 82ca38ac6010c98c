package libjitsi

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/gobwas/glob"
	"github.com/rs/zerolog"
)

var (
	// defaultLoggerImpl is a zerolog instance with console writer.
	defaultLoggerImpl = zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		color, _ := strconv.ParseBool(os.Getenv("LIBJITSI_DEBUG_COLORS"))
		w.NoColor = !color
		w.TimeFormat = "2006-01-02 15:04:05.999"
	})).With().Timestamp().Caller().Logger()

	defaultLoggerLevel = zerolog.InfoLevel

	debugScopesMu sync.Mutex
	// debugScopes holds glob patterns enabled by EnableDebugScopes (and so by
	// WithDebugScopes), in addition to whatever LIBJITSI_DEBUG names at
	// process start. The registry is process-wide: a pattern registered
	// through one Conference's options takes effect for every subsequent
	// NewLogger call in the process, which is what lets a test or an
	// embedding application turn on tracing without restarting the process
	// with a different environment.
	debugScopes []string
)

// EnableDebugScopes registers additional glob patterns (same syntax as
// LIBJITSI_DEBUG: comma-separated, a leading "-" negates) that enable
// debug-level logging for matching scopes. WithDebugScopes wires this into a
// Conference's option set so debug tracing can be turned on at runtime rather
// than only via the process environment; the patterns still apply
// process-wide, not per Conference.
func EnableDebugScopes(patterns ...string) {
	debugScopesMu.Lock()
	defer debugScopesMu.Unlock()
	debugScopes = append(debugScopes, patterns...)
}

func scopeDebugEnabled(scope string) bool {
	shouldDebug := false

	apply := func(raw string) {
		for _, part := range strings.Split(raw, ",") {
			part := strings.TrimSpace(part)
			if len(part) == 0 {
				continue
			}
			shouldMatch := true
			if part[0] == '-' {
				shouldMatch = false
				part = part[1:]
			}
			if g, err := glob.Compile(part); err == nil && g.Match(scope) {
				shouldDebug = shouldMatch
			}
		}
	}

	if env := os.Getenv("LIBJITSI_DEBUG"); len(env) > 0 {
		apply(env)
	}

	debugScopesMu.Lock()
	extra := append([]string(nil), debugScopes...)
	debugScopesMu.Unlock()
	for _, pattern := range extra {
		apply(pattern)
	}

	return shouldDebug
}

// NewLogger creates a scoped logger, optionally binding a fixed set of
// key/value pairs into its base context (for example a Conference's AppData
// or a decision worker's generation id), the way WithValues would but baked
// in at construction instead of left to every call site to attach.
func NewLogger(scope string, keysAndValues ...interface{}) logr.Logger {
	level := defaultLoggerLevel
	if scopeDebugEnabled(scope) {
		level = zerolog.DebugLevel
	}

	logger := defaultLoggerImpl.Level(level)
	l := zerologr.New(&logger).WithName(scope)
	if len(keysAndValues) > 0 {
		l = l.WithValues(keysAndValues...)
	}
	return l
}

func init() {
	zerolog.TimeFieldFormat = "2006-01-02T15:04:05.999Z07:00"
	zerologr.VerbosityFieldName = ""
}
