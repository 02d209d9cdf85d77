package clock

import "time"

// Clock abstracts wall-clock time so schedulers and queue processors can be
// tested with a controlled clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// NewSystem returns a Clock backed by the system wall clock in UTC.
func NewSystem() Clock {
	return systemClock{}
}
