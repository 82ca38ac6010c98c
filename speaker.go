package libjitsi

import "sync"

// Speaker tracks one conference participant's sliding history of quantized
// audio levels at three overlapping time-scales, and the speech-activity
// scores evaluated from them. All mutators and readers are serialized by
// the Speaker's own mutex, one level below the Conference mutex in lock
// order (see Conference for the full lock-ordering contract).
type Speaker struct {
	ssrc SSRC

	mu                   sync.Mutex
	immediates           [immediatesLen]byte
	mediums              [mediumsLen]byte
	longs                [longsLen]byte
	scores               [3]float64
	lastLevelChangedTime int64
}

func newSpeaker(ssrc SSRC, now int64) *Speaker {
	s := &Speaker{
		ssrc:                 ssrc,
		lastLevelChangedTime: now,
	}
	for i := range s.scores {
		s.scores[i] = minSpeechActivityScore
	}
	return s
}

// SSRC returns the speaker's synchronization source identifier.
func (s *Speaker) SSRC() SSRC { return s.ssrc }

// LastLevelChangedTime returns the timestamp of the last accepted level
// report (including level-timeout fades).
func (s *Speaker) LastLevelChangedTime() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLevelChangedTime
}

// LevelChanged records a new audio level reported or measured at timeMS.
// Reports that arrive strictly before the last accepted timestamp are
// silently discarded; reports at an equal timestamp are accepted, which is
// what lets LevelTimedOut push a synthetic zero sample without disturbing
// ordering.
func (s *Speaker) LevelChanged(level int32, timeMS int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levelChangedLocked(level, timeMS)
}

func (s *Speaker) levelChangedLocked(level int32, timeMS int64) {
	if timeMS < s.lastLevelChangedTime {
		return
	}
	s.lastLevelChangedTime = timeMS

	level = clampLevel(level)
	copy(s.immediates[1:], s.immediates[:len(s.immediates)-1])
	s.immediates[0] = byte(level / n1)
}

// LevelTimedOut notifies the speaker that no level has been reported
// recently enough; it pushes a minimum-level sample at the speaker's last
// accepted timestamp so the sliding history fades toward silence.
func (s *Speaker) LevelTimedOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levelChangedLocked(MinLevel, s.lastLevelChangedTime)
}

// EvaluateSpeechActivityScores recomputes the immediate score unconditionally,
// and cascades into the medium and long scores only when the coarser window
// actually changed, bounding the cost of evaluating speakers who haven't
// crossed a new threshold since the last tick.
func (s *Speaker) EvaluateSpeechActivityScores() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scores[immediateInterval] = speechActivityScore(int(s.immediates[0]), immediateNR, scoreP, immediateLambda)

	if computeBigs(s.immediates[:], s.mediums[:], n1MediumThreshold) {
		s.scores[mediumInterval] = speechActivityScore(int(s.mediums[0]), mediumNR, scoreP, mediumLambda)

		if computeBigs(s.mediums[:], s.longs[:], n2LongThreshold) {
			s.scores[longInterval] = speechActivityScore(int(s.longs[0]), longNR, scoreP, longLambda)
		}
	}
}

// Score returns the cached speech-activity score for the given interval.
// interval must be one of immediateInterval, mediumInterval or
// longInterval; any other value is a programmer error.
func (s *Speaker) Score(interval scoreInterval) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if interval < 0 || int(interval) >= len(s.scores) {
		panic("libjitsi: invalid score interval")
	}
	return s.scores[interval]
}
