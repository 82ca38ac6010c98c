package libjitsi

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecisionTickExitsForStaleWorkerGeneration(t *testing.T) {
	c, _ := newTestConference()
	c.mu.Lock()
	c.hasWorker = true
	c.workerID = uuid.New()
	c.mu.Unlock()

	_, exit := c.decisionTick(uuid.New())
	assert.True(t, exit, "a worker calling with a generation other than the current one must exit")
}

func TestDecisionTickExitsWhenNoWorkerIsRegistered(t *testing.T) {
	c, _ := newTestConference()
	id := uuid.New()
	_, exit := c.decisionTick(id)
	assert.True(t, exit)
}

func TestDecisionTickStandsDownAfterIdleTimeout(t *testing.T) {
	c, clock := newTestConference()
	id := uuid.New()
	c.mu.Lock()
	c.hasWorker = true
	c.workerID = id
	c.lastLevelChangedTime = clock.NowMS()
	c.mu.Unlock()

	clock.Advance(decisionMakerIdleTimeout + 1)
	c.mu.Lock()
	c.lastDecisionTime = clock.NowMS()
	c.mu.Unlock()

	_, exit := c.decisionTick(id)
	assert.True(t, exit)

	c.mu.Lock()
	hasWorker := c.hasWorker
	c.mu.Unlock()
	assert.False(t, hasWorker, "standing down must release the worker slot for the next LevelChanged")
}

func TestDecisionTickRunsDecisionAndReschedules(t *testing.T) {
	c, clock := newTestConference()
	id := uuid.New()
	c.mu.Lock()
	c.hasWorker = true
	c.workerID = id
	c.mu.Unlock()

	c.LevelChanged(SSRC(1), MaxLevel)

	sleepMS, exit := c.decisionTick(id)
	assert.False(t, exit)
	assert.GreaterOrEqual(t, sleepMS, int64(0))

	ssrc, ok := c.DominantSpeaker()
	require.True(t, ok)
	assert.Equal(t, SSRC(1), ssrc)
	_ = clock
}

func TestRelativeActivityIsAntisymmetricAtZero(t *testing.T) {
	a := newSpeaker(SSRC(1), 0)
	b := newSpeaker(SSRC(2), 0)
	// two speakers with identical (floor) scores are exactly tied
	assert.Equal(t, 0.0, relativeActivity(a, b, immediateInterval))
	assert.Equal(t, relativeActivity(a, b, immediateInterval), -relativeActivity(b, a, immediateInterval))
}

func TestSweepIdleSpeakersUsesLevelTimedOutBeforeEviction(t *testing.T) {
	c, clock := newTestConference()
	c.LevelChanged(SSRC(9), MaxLevel)

	c.mu.Lock()
	s := c.speakers[SSRC(9)]
	c.mu.Unlock()
	before := s.immediates[0]

	clock.Advance(levelIdleTimeout + 1)
	c.sweepIdleSpeakers(clock.NowMS())

	after := s.immediates[0]
	assert.NotEqual(t, before, after, "an idle speaker should be pushed a fading zero sample")
	assert.Equal(t, byte(0), after)
}
