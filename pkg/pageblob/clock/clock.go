package clock

import (
	"time"
)

// Clock is an interface around some of the standard library functions
// that provide time handling. It exists so that the retry policy in
// pkg/pageblob/store can be driven by a fake clock during tests,
// instead of sleeping for real.
type Clock interface {
	// Now returns the current time of day. Equivalent to time.Now().
	Now() time.Time

	// NewTimer creates a channel that publishes the time of day once
	// a certain amount of time has passed. Unlike time.NewTimer(),
	// this function returns the channel directly to allow Timer to
	// be an interface.
	NewTimer(d time.Duration) (Timer, <-chan time.Time)
}

// Timer is an interface around time.Timer, added to aid unit testing.
type Timer interface {
	Stop() bool
}

// SystemClock is a Clock that corresponds to the current time of day,
// as reported by the operating system.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (c systemClock) Now() time.Time {
	return time.Now()
}

func (c systemClock) NewTimer(d time.Duration) (Timer, <-chan time.Time) {
	t := time.NewTimer(d)
	return t, t.C
}
