package libjitsi

import "time"

// Clock is the monotonic millisecond clock the engine is driven by. Tests
// supply a fake so that the 40ms/300ms/15s/1h timing thresholds can be
// exercised without real wall-clock delay.
type Clock interface {
	NowMS() int64
}

// Sleeper suspends the decision worker between ticks.
type Sleeper func(time.Duration)

// TaskRunner spawns the decision worker's background loop. The default
// implementation simply launches a goroutine and never fails; an
// implementation backed by a bounded pool may return an error when
// saturated, in which case the caller reverts its worker handle and the
// next LevelChanged retries.
type TaskRunner interface {
	Go(fn func()) error
}

type systemClock struct{}

func (systemClock) NowMS() int64 { return time.Now().UnixMilli() }

type goroutineRunner struct{}

func (goroutineRunner) Go(fn func()) error {
	go fn()
	return nil
}

func defaultSleeper(d time.Duration) { time.Sleep(d) }
