package libjitsi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSpeakerStartsAtFloorScores(t *testing.T) {
	s := newSpeaker(SSRC(1), 1000)
	assert.Equal(t, SSRC(1), s.SSRC())
	assert.Equal(t, int64(1000), s.LastLevelChangedTime())
	for _, interval := range []scoreInterval{immediateInterval, mediumInterval, longInterval} {
		assert.Equal(t, minSpeechActivityScore, s.Score(interval))
	}
}

func TestLevelChangedQuantizesAndShifts(t *testing.T) {
	s := newSpeaker(SSRC(1), 0)
	s.LevelChanged(MaxLevel, 10)
	assert.Equal(t, byte(MaxLevel/n1), s.immediates[0])
	assert.Equal(t, int64(10), s.LastLevelChangedTime())

	s.LevelChanged(0, 20)
	assert.Equal(t, byte(0), s.immediates[0])
	// the previous sample shifted one slot to the right
	assert.Equal(t, byte(MaxLevel/n1), s.immediates[1])
}

func TestLevelChangedRejectsOutOfOrderReports(t *testing.T) {
	s := newSpeaker(SSRC(1), 100)
	s.LevelChanged(MaxLevel, 100)
	assert.Equal(t, byte(MaxLevel/n1), s.immediates[0])

	// a report that arrives with an earlier timestamp is dropped entirely
	s.LevelChanged(0, 50)
	assert.Equal(t, byte(MaxLevel/n1), s.immediates[0])
	assert.Equal(t, int64(100), s.LastLevelChangedTime())
}

func TestLevelChangedAcceptsEqualTimestamp(t *testing.T) {
	s := newSpeaker(SSRC(1), 100)
	s.LevelChanged(MaxLevel, 100)
	// an equal timestamp is accepted, which is what lets LevelTimedOut push a
	// synthetic fade sample without disturbing ordering
	s.LevelChanged(0, 100)
	assert.Equal(t, byte(0), s.immediates[0])
	assert.Equal(t, byte(MaxLevel/n1), s.immediates[1])
}

func TestLevelChangedClampsOutOfRangeLevels(t *testing.T) {
	s := newSpeaker(SSRC(1), 0)
	s.LevelChanged(200, 10)
	assert.Equal(t, byte(MaxLevel/n1), s.immediates[0])

	s.LevelChanged(-5, 20)
	assert.Equal(t, byte(0), s.immediates[0])
}

func TestLevelTimedOutFadesAtSameTimestamp(t *testing.T) {
	s := newSpeaker(SSRC(1), 0)
	s.LevelChanged(MaxLevel, 500)
	s.LevelTimedOut()
	assert.Equal(t, byte(0), s.immediates[0])
	assert.Equal(t, byte(MaxLevel/n1), s.immediates[1])
	assert.Equal(t, int64(500), s.LastLevelChangedTime())
}

func TestEvaluateSpeechActivityScoresCascadesOnThreshold(t *testing.T) {
	s := newSpeaker(SSRC(1), 0)
	now := int64(0)
	for i := 0; i < immediatesLen; i++ {
		now++
		s.LevelChanged(MaxLevel, now)
		s.EvaluateSpeechActivityScores()
	}

	// a history saturated at max level crosses every coarsening threshold, so
	// all three scores should have moved off their initial floor value
	assert.NotEqual(t, minSpeechActivityScore, s.Score(immediateInterval))
	assert.NotEqual(t, minSpeechActivityScore, s.Score(mediumInterval))
	assert.NotEqual(t, minSpeechActivityScore, s.Score(longInterval))
}

func TestScorePanicsOnInvalidInterval(t *testing.T) {
	s := newSpeaker(SSRC(1), 0)
	assert.Panics(t, func() { s.Score(scoreInterval(-1)) })
	assert.Panics(t, func() { s.Score(scoreInterval(3)) })
}
