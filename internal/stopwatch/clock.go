package stopwatch

import "time"

// Clock abstracts wall-clock reads so tests can drive time by hand.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
