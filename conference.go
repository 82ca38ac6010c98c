package libjitsi

import (
	"sync"
	"weak"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// Conference holds all decision-engine state for one multipoint audio
// conference: the set of known speakers, the current dominant speaker, and
// the bookkeeping the background decision worker needs. Exactly one
// Conference exists per engine instance; it is safe for concurrent use.
//
// Lock ordering is strict: the Conference mutex is always acquired before a
// Speaker's mutex, never the reverse, and neither is ever held while an
// observer callback runs.
type Conference struct {
	cfg *config

	mu                   sync.Mutex
	speakers             map[SSRC]*Speaker
	dominantSSRC         SSRC
	hasDominant          bool
	lastLevelChangedTime int64
	lastDecisionTime     int64
	lastLevelIdleTime    int64
	workerID             uuid.UUID
	hasWorker            bool

	notifier *notifier
	logger   logr.Logger
}

// NewConference creates an empty conference ready to accept level reports.
// No background worker runs until the first LevelChanged call.
func NewConference(opts ...Option) *Conference {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := applyDefaults(cfg, defaultConfig()); err != nil {
		// defaultConfig and config share an identical shape; a merge failure
		// here means a collaborator's type changed incompatibly, which is a
		// programmer error, not a runtime condition callers can recover from.
		panic("libjitsi: invalid conference configuration: " + err.Error())
	}

	logger := *cfg.Logger
	if len(cfg.AppData) > 0 {
		logger = logger.WithValues("appData", cfg.AppData)
	}

	return &Conference{
		cfg:      cfg,
		speakers: make(map[SSRC]*Speaker),
		notifier: newNotifier(logger),
		logger:   logger,
	}
}

// LevelChanged is the engine's only ingress point: it records a new audio
// level for ssrc, creating the Speaker lazily if this is its first report,
// and arms the decision worker if it isn't already running. It never
// blocks on the decision worker and is safe to call concurrently from many
// goroutines.
func (c *Conference) LevelChanged(ssrc SSRC, level int32) {
	now := c.cfg.Clock.NowMS()

	c.mu.Lock()
	speaker, ok := c.speakers[ssrc]
	if !ok {
		speaker = newSpeaker(ssrc, now)
		c.speakers[ssrc] = speaker
		c.maybeStartDecisionMakerLocked()
	}
	if c.lastLevelChangedTime < now {
		c.lastLevelChangedTime = now
		c.maybeStartDecisionMakerLocked()
	}
	c.mu.Unlock()

	speaker.LevelChanged(level, now)
}

// DominantSpeaker returns the SSRC currently judged to dominate the
// conference, and whether one is assigned at all.
func (c *Conference) DominantSpeaker() (SSRC, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dominantSSRC, c.hasDominant
}

// AddObserver registers a handler to be called whenever the dominant
// speaker changes. The returned Subscription can be used to unregister it.
func (c *Conference) AddObserver(handler ChangeHandler) *Subscription {
	return c.notifier.add(handler)
}

// maybeStartDecisionMakerLocked spawns the decision worker if none is
// currently associated with this conference and there is at least one
// speaker to evaluate. Must be called with c.mu held. A spawn failure
// reverts the association so the next LevelChanged call retries.
func (c *Conference) maybeStartDecisionMakerLocked() {
	if c.hasWorker || len(c.speakers) == 0 {
		return
	}

	id := uuid.New()
	c.hasWorker = true
	c.workerID = id

	// The worker is handed only a weak pointer: it must never keep the
	// Conference alive by itself. If the caller drops its last strong
	// reference, wp.Value() starts returning nil and the worker exits on
	// its next tick instead of extending the conference's lifetime.
	wp := weak.Make(c)
	workerLogger := NewLogger("DecisionWorker", "workerID", id.String())

	if err := c.cfg.Runner.Go(func() { runDecisionWorker(wp, id, workerLogger) }); err != nil {
		c.logger.Info("failed to spawn decision worker", "error", err.Error())
		if c.hasWorker && c.workerID == id {
			c.hasWorker = false
		}
	}
}
