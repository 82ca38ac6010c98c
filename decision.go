package libjitsi

import (
	"time"
	"weak"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// runDecisionWorker is the background loop of one decision worker
// generation, identified by id. It holds only a weak reference to its
// Conference: each iteration resolves a strong pointer just long enough to
// run one tick, then drops it again before sleeping, so a worker can never
// keep an otherwise-unreferenced Conference alive.
func runDecisionWorker(wp weak.Pointer[Conference], id uuid.UUID, logger logr.Logger) {
	logger.V(1).Info("decision worker starting")
	for {
		c := wp.Value()
		if c == nil {
			logger.V(1).Info("decision worker exiting: conference no longer referenced")
			return
		}

		sleepMS, exit := c.decisionTick(id)
		sleep := c.cfg.Sleep
		c = nil // drop the strong reference before the (possibly long) sleep

		if exit {
			logger.V(1).Info("decision worker exiting: superseded or idle")
			return
		}
		sleep(time.Duration(sleepMS) * time.Millisecond)
	}
}

// decisionTick runs one iteration of the decision worker: it checks whether
// this worker generation is still current, runs the idle sweep and/or the
// global decision if their respective intervals have elapsed, and returns
// how long the worker should sleep before its next iteration.
func (c *Conference) decisionTick(workerID uuid.UUID) (sleepMS int64, exit bool) {
	c.mu.Lock()
	if !c.hasWorker || c.workerID != workerID {
		c.mu.Unlock()
		return 0, true
	}
	if c.lastDecisionTime > 0 && c.lastDecisionTime-c.lastLevelChangedTime >= decisionMakerIdleTimeout {
		c.hasWorker = false
		c.mu.Unlock()
		return 0, true
	}
	c.mu.Unlock()

	now := c.cfg.Clock.NowMS()

	sleep := int64(0)
	idleTimeout := levelIdleTimeout - (now - c.getLastLevelIdleTime())
	if idleTimeout <= 0 {
		if c.getLastLevelIdleTime() != 0 {
			c.sweepIdleSpeakers(now)
		}
		c.setLastLevelIdleTime(now)
	} else {
		sleep = idleTimeout
	}

	decisionTimeout := decisionInterval - (now - c.getLastDecisionTime())
	if decisionTimeout <= 0 {
		c.setLastDecisionTime(now)
		c.makeDecision()
		decisionTimeout = decisionInterval - (c.cfg.Clock.NowMS() - now)
	}

	return minInt64(sleep, maxInt64(decisionTimeout, 0)), false
}

func (c *Conference) getLastLevelIdleTime() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastLevelIdleTime
}

func (c *Conference) setLastLevelIdleTime(v int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastLevelIdleTime = v
}

func (c *Conference) getLastDecisionTime() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastDecisionTime
}

func (c *Conference) setLastDecisionTime(v int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastDecisionTime = v
}

// sweepIdleSpeakers evicts non-dominant speakers that have gone silent for
// longer than speakerIdleTimeout, and pushes a fading zero sample into any
// speaker idle for longer than levelIdleTimeout. Each speaker's own check
// only touches that speaker's lock, so the sweep fans the work out with an
// errgroup rather than evaluating one speaker at a time.
func (c *Conference) sweepIdleSpeakers(now int64) {
	c.mu.Lock()
	speakers := make([]*Speaker, 0, len(c.speakers))
	for _, s := range c.speakers {
		speakers = append(speakers, s)
	}
	dominantSSRC, hasDominant := c.dominantSSRC, c.hasDominant
	c.mu.Unlock()

	var g errgroup.Group
	evictable := make([]bool, len(speakers))

	for i, s := range speakers {
		i, s := i, s
		g.Go(func() error {
			idle := now - s.LastLevelChangedTime()
			isDominant := hasDominant && s.SSRC() == dominantSSRC

			if idle > speakerIdleTimeout && !isDominant {
				evictable[i] = true
			} else if idle > levelIdleTimeout {
				s.LevelTimedOut()
			}
			return nil
		})
	}
	_ = g.Wait() // no goroutine here returns an error

	c.mu.Lock()
	for i, s := range speakers {
		if evictable[i] {
			delete(c.speakers, s.SSRC())
		}
	}
	c.mu.Unlock()
}

// makeDecision runs the global decision rule: it picks (or keeps) the
// dominant speaker by comparing every other speaker against the incumbent
// on three relative speech-activity thresholds, and fires a change event if
// the winner differs from the previous dominant speaker. The event fires
// after the conference lock is released.
func (c *Conference) makeDecision() {
	c.mu.Lock()

	var newDominant SSRC
	var hasNewDominant bool

	switch len(c.speakers) {
	case 0:
		// no speakers, no dominant speaker
	case 1:
		for ssrc := range c.speakers {
			newDominant, hasNewDominant = ssrc, true
		}
	default:
		var incumbent *Speaker
		var hasIncumbent bool
		if c.hasDominant {
			incumbent, hasIncumbent = c.speakers[c.dominantSSRC]
		}
		if !hasIncumbent {
			for ssrc, s := range c.speakers {
				incumbent = s
				newDominant, hasNewDominant = ssrc, true
				break
			}
		} else {
			newDominant, hasNewDominant = c.dominantSSRC, true
		}

		challengers := make([]*Speaker, 0, len(c.speakers)-1)
		challengerSSRCs := make([]SSRC, 0, len(c.speakers)-1)
		for ssrc, s := range c.speakers {
			if s == incumbent {
				continue
			}
			challengers = append(challengers, s)
			challengerSSRCs = append(challengerSSRCs, ssrc)
		}

		var g errgroup.Group
		g.Go(func() error { incumbent.EvaluateSpeechActivityScores(); return nil })
		for _, s := range challengers {
			s := s
			g.Go(func() error { s.EvaluateSpeechActivityScores(); return nil })
		}
		_ = g.Wait()

		bestC2 := thresholdC2
		for i, s := range challengers {
			r0 := relativeActivity(s, incumbent, immediateInterval)
			r1 := relativeActivity(s, incumbent, mediumInterval)
			r2 := relativeActivity(s, incumbent, longInterval)

			if r0 > thresholdC1 && r1 > thresholdC2 && r2 > thresholdC3 && r1 > bestC2 {
				bestC2 = r1
				newDominant, hasNewDominant = challengerSSRCs[i], true
			}
		}
	}

	changed := hasNewDominant != c.hasDominant || (hasNewDominant && newDominant != c.dominantSSRC)
	if changed {
		c.hasDominant = hasNewDominant
		if hasNewDominant {
			c.dominantSSRC = newDominant
		}
	}
	c.mu.Unlock()

	if changed {
		c.notifier.fire(newDominant, hasNewDominant)
	}
}

func relativeActivity(challenger, incumbent *Speaker, interval scoreInterval) float64 {
	return logRatio(challenger.Score(interval), incumbent.Score(interval))
}
